// internal/api/favorites.go
package api

import (
	"context"

	"estate-client/internal/models"
	"estate-client/pkg/registry"
)

func (c *Client) Favorites(ctx context.Context) ([]models.Listing, error) {
	var list models.FavoriteList
	if err := c.query(ctx, call{name: registry.UserFavorites}, &list); err != nil {
		return nil, err
	}
	return list.Listings, nil
}

func (c *Client) AddFavorite(ctx context.Context, listingID string) error {
	return c.mutate(ctx, call{name: registry.UserFavoriteAdd, params: []string{listingID}}, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, listingID string) error {
	return c.mutate(ctx, call{name: registry.UserFavoriteRemove, params: []string{listingID}}, nil)
}
