package geocode

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"zeme/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed nyc_locations.yaml
var nycLocationsYAML []byte

// Catalogue is a fixed set of locations grouped by borough.
type Catalogue struct {
	boroughs  []string
	locations map[string][]models.Location
}

// ParseCatalogue reads a YAML mapping of borough to location list. Borough order is kept.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}
	if len(root.Content) == 0 {
		return &Catalogue{locations: map[string][]models.Location{}}, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse catalogue: expected a mapping, got kind %d", doc.Kind)
	}

	c := &Catalogue{locations: make(map[string][]models.Location, len(doc.Content)/2)}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		borough := doc.Content[i].Value

		var locs []models.Location
		if err := doc.Content[i+1].Decode(&locs); err != nil {
			return nil, fmt.Errorf("parse catalogue: borough %s: %w", borough, err)
		}
		for j := range locs {
			locs[j].Borough = borough
		}

		c.boroughs = append(c.boroughs, borough)
		c.locations[boroughKey(borough)] = locs
	}
	return c, nil
}

var (
	nycOnce sync.Once
	nyc     *Catalogue
)

// NYC returns the embedded New York City catalogue.
func NYC() *Catalogue {
	nycOnce.Do(func() {
		c, err := ParseCatalogue(nycLocationsYAML)
		if err != nil {
			panic(err)
		}
		nyc = c
	})
	return nyc
}

// Boroughs lists the borough keys in catalogue order.
func (c *Catalogue) Boroughs() []string {
	out := make([]string, len(c.boroughs))
	copy(out, c.boroughs)
	return out
}

// Locations returns the locations of one borough, or all of them when borough is
// empty. Borough names match ignoring case, spaces and hyphens; an unknown
// borough yields an empty list.
func (c *Catalogue) Locations(borough string) []models.Location {
	if strings.TrimSpace(borough) == "" {
		var all []models.Location
		for _, b := range c.boroughs {
			all = append(all, c.locations[boroughKey(b)]...)
		}
		if all == nil {
			all = []models.Location{}
		}
		return all
	}

	locs := c.locations[boroughKey(borough)]
	out := make([]models.Location, len(locs))
	copy(out, locs)
	return out
}

func boroughKey(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
