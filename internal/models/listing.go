// internal/models/listing.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type ListingType string

const (
	ListingTypeRent ListingType = "rent"
	ListingTypeSell ListingType = "sell"
)

type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusApproved ListingStatus = "approved"
	ListingStatusRejected ListingStatus = "rejected"
)

type Listing struct {
	ID              string        `json:"_id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	Address         string        `json:"address"`
	RegularPrice    float64       `json:"regularPrice"`
	DiscountedPrice float64       `json:"discountedPrice,omitempty"`
	Beds            int           `json:"beds"`
	Baths           int           `json:"baths"`
	Sqft            int           `json:"sqft,omitempty"`
	Furnished       bool          `json:"furnished"`
	Parking         bool          `json:"parking"`
	Offer           bool          `json:"offer"`
	Type            ListingType   `json:"type"`
	Amenities       []string      `json:"amenities,omitempty"`
	Images          []string      `json:"images,omitempty"`
	ImageURLs       []string      `json:"imageUrls,omitempty"`
	Status          ListingStatus `json:"status,omitempty"`
	UserRef         string        `json:"userRef,omitempty"`
	Views           int           `json:"views,omitempty"`
	CreatedAt       time.Time     `json:"createdAt,omitempty"`
	UpdatedAt       time.Time     `json:"updatedAt,omitempty"`
}

// UnmarshalJSON also accepts the long-form bedrooms/bathrooms keys some
// backend routes emit.
func (l *Listing) UnmarshalJSON(data []byte) error {
	type plain Listing
	aux := struct {
		*plain
		Bedrooms  *int `json:"bedrooms"`
		Bathrooms *int `json:"bathrooms"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if l.Beds == 0 && aux.Bedrooms != nil {
		l.Beds = *aux.Bedrooms
	}
	if l.Baths == 0 && aux.Bathrooms != nil {
		l.Baths = *aux.Bathrooms
	}
	return nil
}

// Cover returns the first image, or "".
func (l Listing) Cover() string {
	if len(l.Images) > 0 {
		return l.Images[0]
	}
	if len(l.ImageURLs) > 0 {
		return l.ImageURLs[0]
	}
	return ""
}

// EffectivePrice is the discounted price when an offer is active.
func (l Listing) EffectivePrice() float64 {
	if l.Offer && l.DiscountedPrice > 0 {
		return l.DiscountedPrice
	}
	return l.RegularPrice
}

// ListingInput is the body for create and update.
type ListingInput struct {
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Address         string      `json:"address"`
	RegularPrice    float64     `json:"regularPrice"`
	DiscountedPrice float64     `json:"discountedPrice"`
	Beds            int         `json:"beds"`
	Baths           int         `json:"baths"`
	Furnished       bool        `json:"furnished"`
	Parking         bool        `json:"parking"`
	Offer           bool        `json:"offer"`
	Type            ListingType `json:"type"`
	Images          []string    `json:"images"`
	UserRef         string      `json:"userRef,omitempty"`
}

// ListingPage decodes either a bare array or {listings, total}.
type ListingPage struct {
	Listings []Listing `json:"listings"`
	Total    int       `json:"total"`
}

func (p *ListingPage) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		p.Listings = []Listing{}
		return nil
	}
	if trimmed[0] == '[' {
		var ls []Listing
		if err := json.Unmarshal(trimmed, &ls); err != nil {
			return err
		}
		p.Listings, p.Total = ls, len(ls)
		return nil
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("listing page: unexpected %q", trimmed[:1])
	}
	type plain ListingPage
	var aux plain
	if err := json.Unmarshal(trimmed, &aux); err != nil {
		return err
	}
	if aux.Listings == nil {
		aux.Listings = []Listing{}
	}
	if aux.Total == 0 {
		aux.Total = len(aux.Listings)
	}
	*p = ListingPage(aux)
	return nil
}

// UploadResult lists stored image paths.
type UploadResult struct {
	Paths []string `json:"paths"`
}

func (u *UploadResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &u.Paths)
	}
	aux := struct {
		Paths  []string `json:"paths"`
		Images []string `json:"images"`
		URLs   []string `json:"urls"`
	}{}
	if err := json.Unmarshal(trimmed, &aux); err != nil {
		return err
	}
	switch {
	case aux.Paths != nil:
		u.Paths = aux.Paths
	case aux.Images != nil:
		u.Paths = aux.Images
	default:
		u.Paths = aux.URLs
	}
	return nil
}
