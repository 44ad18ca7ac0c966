// internal/api/admin.go
package api

import (
	"context"
	"net/url"
	"strconv"

	apperrors "estate-client/internal/common/errors"
	"estate-client/internal/models"
	"estate-client/pkg/registry"
)

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var out models.UserList
	err := c.query(ctx, call{name: registry.AdminUsers}, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.mutate(ctx, call{name: registry.AdminDeleteUser, params: []string{id}}, nil)
}

// UpdateUserRole changes a user's role to user or admin.
func (c *Client) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return apperrors.NewFieldValidationError("Unknown role", "role: "+string(role))
	}
	return c.mutate(ctx, call{name: registry.AdminUpdateRole, params: []string{id}, body: models.RoleUpdate{Role: role}}, nil)
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var out models.Stats
	err := c.query(ctx, call{name: registry.AdminStats}, &out)
	return out, err
}

func (c *Client) Analytics(ctx context.Context) (models.Analytics, error) {
	var out models.Analytics
	err := c.query(ctx, call{name: registry.AdminAnalytics}, &out)
	return out, err
}

// AdminListings pages through every listing, including unapproved ones.
func (c *Client) AdminListings(ctx context.Context, limit, startIndex int) (models.ListingPage, error) {
	if limit <= 0 {
		limit = 50
	}
	if startIndex < 0 {
		startIndex = 0
	}
	q := url.Values{
		"limit":      {strconv.Itoa(limit)},
		"startIndex": {strconv.Itoa(startIndex)},
	}
	var page models.ListingPage
	err := c.query(ctx, call{name: registry.AdminListings, query: q}, &page)
	return page, err
}

func (c *Client) ApproveListing(ctx context.Context, id string) error {
	return c.mutate(ctx, call{name: registry.AdminApproveListing, params: []string{id}}, nil)
}

func (c *Client) RejectListing(ctx context.Context, id string) error {
	return c.mutate(ctx, call{name: registry.AdminRejectListing, params: []string{id}}, nil)
}
