// internal/models/analytics.go
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexID is an aggregation key that the backend emits as a string or number.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// Int parses the id as an integer.
func (f FlexID) Int() (int, bool) {
	n, err := strconv.Atoi(string(f))
	return n, err == nil
}

// AggregateRow is one row of a stats or analytics series. Field presence
// varies between series.
type AggregateRow struct {
	ID            FlexID  `json:"_id"`
	Name          string  `json:"name,omitempty"`
	Date          string  `json:"date,omitempty"`
	Count         float64 `json:"count,omitempty"`
	Value         float64 `json:"value,omitempty"`
	TotalViews    float64 `json:"totalViews,omitempty"`
	Views         float64 `json:"views,omitempty"`
	ListingsCount float64 `json:"listingsCount,omitempty"`
	Listings      float64 `json:"listings,omitempty"`
}

type Stats struct {
	TotalUsers      int            `json:"totalUsers"`
	TotalListings   int            `json:"totalListings"`
	TotalBookings   int            `json:"totalBookings"`
	TotalMessages   int            `json:"totalMessages"`
	ListingsByType  []AggregateRow `json:"listingsByType"`
	ListingsByMonth []AggregateRow `json:"listingsByMonth"`
	UsersByMonth    []AggregateRow `json:"usersByMonth"`
}

type Analytics struct {
	TopListings       []Listing      `json:"topListings"`
	ViewsOverTime     []AggregateRow `json:"viewsOverTime"`
	UserEngagement    []AggregateRow `json:"userEngagement"`
	BookingStats      []AggregateRow `json:"bookingStats"`
	PropertyTypeStats []AggregateRow `json:"propertyTypeStats"`
}
