// internal/search/models.go
package search

// Form mirrors the search screen: a free-text term, a listing type radio,
// three amenity checkboxes, a sort label and paging.
type Form struct {
	SearchTerm string `json:"searchTerm"`
	Type       string `json:"type"`
	Offer      bool   `json:"offer"`
	Parking    bool   `json:"parking"`
	Furnished  bool   `json:"furnished"`
	Sort       string `json:"sort"`
	Limit      int    `json:"limit"`
	StartIndex int    `json:"startIndex"`
}

// SortOrder is a backend sort field and direction.
type SortOrder struct {
	Field string `json:"sort"`
	Order string `json:"order"`
}
