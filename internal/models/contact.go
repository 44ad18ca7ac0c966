// internal/models/contact.go
package models

import "time"

type ContactRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	ListingID     string `json:"listingId,omitempty"`
}

type ContactMessage struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ContactNumber string    `json:"contactNumber"`
	Subject       string    `json:"subject"`
	Message       string    `json:"message"`
	ListingID     string    `json:"listingId,omitempty"`
	Status        string    `json:"status,omitempty"` // unread|read
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

func (m ContactMessage) IsRead() bool { return m.Status == "read" }
