// internal/recommend/models.go
package recommend

import "estate-client/internal/models"

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Preferences are what the user typed in. Zero values mean "no preference";
// a nil PriceRange skips the price factor.
type Preferences struct {
	PriceRange   *PriceRange `json:"priceRange,omitempty"`
	PropertyType string      `json:"propertyType,omitempty"`
	Bedrooms     int         `json:"bedrooms,omitempty"`
	Bathrooms    int         `json:"bathrooms,omitempty"`
	Location     string      `json:"location,omitempty"`
	Amenities    []string    `json:"amenities,omitempty"`
}

// Profile is inferred from the user's favorited listings.
type Profile struct {
	PreferredType      string     `json:"preferredType"`
	PriceRange         PriceRange `json:"priceRange"`
	PreferredBedrooms  int        `json:"preferredBedrooms"`
	PreferredBathrooms int        `json:"preferredBathrooms"`
	PreferredLocation  string     `json:"preferredLocation"`
	Confidence         int        `json:"confidence"`
}

type Factor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Match  bool    `json:"match"`
}

type Match struct {
	Score   int      `json:"score"`
	Factors []Factor `json:"factors"`
}

type Recommendation struct {
	Listing models.Listing `json:"listing"`
	Match   Match          `json:"match"`
}
