// internal/api/bookings.go
package api

import (
	"context"

	"estate-client/internal/common/validation"
	"estate-client/internal/models"
	"estate-client/pkg/registry"
)

// CreateBooking schedules a tour of a listing.
func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	if err := validation.Check(validation.FormBooking, req, "Please pick a date for the tour"); err != nil {
		return models.Booking{}, err
	}
	var out models.Booking
	err := c.mutate(ctx, call{name: registry.BookingCreate, body: req}, &out)
	return out, err
}

func (c *Client) MyBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	err := c.query(ctx, call{name: registry.BookingMine}, &out)
	return out, err
}

func (c *Client) AllBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	err := c.query(ctx, call{name: registry.BookingAll}, &out)
	return out, err
}

func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) error {
	body := models.BookingStatusUpdate{Status: status}
	if err := validation.Check(validation.FormBookingStatus, body, "Unknown booking status"); err != nil {
		return err
	}
	return c.mutate(ctx, call{name: registry.BookingUpdateStatus, params: []string{id}, body: body}, nil)
}
