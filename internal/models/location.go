package models

// Candidate is one geocoding match.
type Candidate struct {
	DisplayName string  `json:"displayName" example:"Empire State Building, 350, 5th Avenue, Manhattan, New York"`
	Lat         float64 `json:"lat" example:"40.7484"`
	Lng         float64 `json:"lng" example:"-73.9857"`
	Type        string  `json:"type" example:"attraction"`
	Importance  float64 `json:"importance" example:"0.62"`
}

// Location is an entry of the static NYC catalogue.
type Location struct {
	Area       string  `json:"area" yaml:"area" example:"Harlem, New York City"`
	Address    string  `json:"address" yaml:"address" example:"Harlem, Manhattan, New York City, New York, United States"`
	Borough    string  `json:"borough" yaml:"-" example:"manhattan"`
	Lat        float64 `json:"lat" yaml:"lat" example:"40.8116"`
	Lng        float64 `json:"lng" yaml:"lng" example:"-73.9465"`
	Type       string  `json:"type" yaml:"type" example:"neighbourhood"`
	Importance float64 `json:"importance" yaml:"importance" example:"0.8"`
}
