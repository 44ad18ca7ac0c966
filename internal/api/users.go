// internal/api/users.go
package api

import (
	"context"

	"estate-client/internal/common/validation"
	"estate-client/internal/models"
	"estate-client/pkg/registry"
)

// UpdateProfile checks the password confirmation locally, then updates the
// profile and refreshes the session user.
func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error) {
	if err := validation.ConfirmPassword(upd.Password, upd.ConfirmPassword); err != nil {
		return models.User{}, err
	}
	if err := validation.Check(validation.FormProfile, upd, "Please enter a valid email"); err != nil {
		return models.User{}, err
	}
	if upd.Email != "" {
		if err := validation.CheckEmail("email", upd.Email); err != nil {
			return models.User{}, err
		}
	}

	var resp models.AuthResponse
	if err := c.mutate(ctx, call{name: registry.UserUpdateProfile, body: upd}, &resp); err != nil {
		return models.User{}, err
	}
	c.session.UpdateUser(resp.User)
	return resp.User, nil
}

// UserListings returns listings created by userID.
func (c *Client) UserListings(ctx context.Context, userID string) ([]models.Listing, error) {
	var page models.ListingPage
	if err := c.query(ctx, call{name: registry.UserListings, params: []string{userID}}, &page); err != nil {
		return nil, err
	}
	return page.Listings, nil
}
