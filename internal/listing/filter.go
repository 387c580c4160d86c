package listing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	apperrors "zeme/internal/errors"
	"zeme/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Filter is the sparse search input. Every field is optional.
type Filter struct {
	Keyword   string   `json:"keyword,omitempty" example:"5th Ave"`
	Bedrooms  []string `json:"bedrooms,omitempty" example:"Studio,2,5+"`
	Bathrooms []string `json:"bathrooms,omitempty" example:"1,1.5"`
	MinRent   float64  `json:"minRent,omitempty" example:"1500"`
	MaxRent   float64  `json:"maxRent,omitempty" example:"2500"`
	Amenities []string `json:"amenities,omitempty" example:"doorman,gym"`
	Sort      string   `json:"sort,omitempty" example:"Price Low to High"`
}

// SearchRequest is the body of a search call.
type SearchRequest struct {
	Filters Filter `json:"filters"`
}

// SortOrder selects the result ordering.
type SortOrder string

// Sort orders.
const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortLowToHigh SortOrder = "lowToHigh"
	SortHighToLow SortOrder = "highToLow"
)

// SortOption pairs a sort key with the label shown to users.
type SortOption struct {
	Value SortOrder `json:"value" yaml:"value"`
	Label string    `json:"label" yaml:"label"`
	field string
	dir   int
}

// SortOptions lists the supported orderings, default first.
var SortOptions = []SortOption{
	{Value: SortNewest, Label: "Newest to Oldest", field: "createdAt", dir: -1},
	{Value: SortOldest, Label: "Oldest to Newest", field: "createdAt", dir: 1},
	{Value: SortLowToHigh, Label: "Price Low to High", field: rentPath, dir: 1},
	{Value: SortHighToLow, Label: "Price High to Low", field: rentPath, dir: -1},
}

// Document paths used in queries.
const (
	statusPath    = "status"
	addressPath   = "basicInformation.address"
	bedroomsPath  = "basicInformation.bedrooms"
	bathroomsPath = "basicInformation.bathrooms"
	rentPath      = "economicInformation.grossRent"
	amenitiesPath = "amenities"
)

// StudioLabel is the bedroom label meaning zero bedrooms.
const StudioLabel = "Studio"

// Query is a storage-level predicate plus ordering.
type Query struct {
	Filter bson.D
	Sort   bson.D
}

// ParseSort resolves a sort key or label. Unknown values fall back to newest first.
func ParseSort(s string) SortOption {
	s = strings.TrimSpace(s)
	for _, opt := range SortOptions {
		if string(opt.Value) == s || strings.EqualFold(opt.Label, s) {
			return opt
		}
	}
	return SortOptions[0]
}

// BuildQuery translates a filter into a query over published listings.
func BuildQuery(f Filter) (Query, error) {
	filter := bson.D{{Key: statusPath, Value: models.StatusPublished}}
	var and bson.A

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		filter = append(filter, bson.E{Key: addressPath, Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(kw)},
			{Key: "$options", Value: "i"},
		}})
	}

	for _, rooms := range []struct {
		path   string
		labels []string
	}{
		{bedroomsPath, f.Bedrooms},
		{bathroomsPath, f.Bathrooms},
	} {
		cond, err := roomCondition(rooms.path, rooms.labels)
		if err != nil {
			return Query{}, err
		}
		switch {
		case cond == nil:
		case len(cond) == 1 && cond[0].Key == rooms.path:
			filter = append(filter, cond[0])
		default:
			and = append(and, cond)
		}
	}

	if f.MinRent > 0 || f.MaxRent > 0 {
		var rent bson.D
		if f.MinRent > 0 {
			rent = append(rent, bson.E{Key: "$gte", Value: f.MinRent})
		}
		if f.MaxRent > 0 {
			rent = append(rent, bson.E{Key: "$lte", Value: f.MaxRent})
		}
		filter = append(filter, bson.E{Key: rentPath, Value: rent})
	}

	if len(f.Amenities) > 0 {
		filter = append(filter, bson.E{Key: amenitiesPath, Value: bson.D{{Key: "$in", Value: f.Amenities}}})
	}

	if len(and) > 0 {
		filter = append(filter, bson.E{Key: "$and", Value: and})
	}

	opt := ParseSort(f.Sort)
	return Query{
		Filter: filter,
		Sort:   bson.D{{Key: opt.field, Value: opt.dir}, {Key: "_id", Value: opt.dir}},
	}, nil
}

// roomCondition matches any of the exact counts in labels. A label ending in "+"
// matches that count or more.
func roomCondition(path string, labels []string) (bson.D, error) {
	if len(labels) == 0 {
		return nil, nil
	}

	exact := make([]float64, 0, len(labels))
	var atLeast *float64
	for _, label := range labels {
		n, open, err := ParseRoomLabel(label)
		if err != nil {
			return nil, err
		}
		if open {
			if atLeast == nil || n < *atLeast {
				v := n
				atLeast = &v
			}
			continue
		}
		exact = append(exact, n)
	}

	in := bson.E{Key: path, Value: bson.D{{Key: "$in", Value: exact}}}
	if atLeast == nil {
		return bson.D{in}, nil
	}
	gte := bson.D{{Key: path, Value: bson.D{{Key: "$gte", Value: *atLeast}}}}
	if len(exact) == 0 {
		return gte, nil
	}
	return bson.D{{Key: "$or", Value: bson.A{bson.D{in}, gte}}}, nil
}

// ParseRoomLabel parses a bedroom or bathroom label such as "Studio", "2", "1.5" or "5+".
// open is true for "N+" labels.
func ParseRoomLabel(label string) (n float64, open bool, err error) {
	s := strings.TrimSpace(label)
	if strings.EqualFold(s, StudioLabel) {
		return 0, false, nil
	}
	if strings.HasSuffix(s, "+") {
		open = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "+"))
	}
	n, err = strconv.ParseFloat(s, 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false, fmt.Errorf("%w: %q is not a room count", apperrors.ErrInvalidFilter, label)
	}
	return n, open, nil
}
