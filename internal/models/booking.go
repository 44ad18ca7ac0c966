// internal/models/booking.go
package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

type BookingRequest struct {
	ListingID   string    `json:"listingId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Note        string    `json:"note,omitempty"`
}

type BookingListing struct {
	ID      string   `json:"_id,omitempty"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Images  []string `json:"images,omitempty"`
}

type BookingUser struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
}

type Booking struct {
	ID          string         `json:"_id"`
	Listing     BookingListing `json:"listing"`
	User        BookingUser    `json:"user"`
	ScheduledAt time.Time      `json:"scheduledAt"`
	Note        string         `json:"note,omitempty"`
	Status      BookingStatus  `json:"status"`
	CreatedAt   time.Time      `json:"createdAt,omitempty"`
}

type BookingStatusUpdate struct {
	Status BookingStatus `json:"status"`
}
