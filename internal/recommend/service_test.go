// internal/recommend/service_test.go
package recommend

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"estate-client/internal/common/logger"
	"estate-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeSource struct {
	listings  []models.Listing
	favorites []models.Listing
	favErr    error
	params    url.Values
}

func (f *fakeSource) Favorites(context.Context) ([]models.Listing, error) {
	return f.favorites, f.favErr
}

func (f *fakeSource) SearchListings(_ context.Context, params url.Values) (models.ListingPage, error) {
	f.params = params
	return models.ListingPage{Listings: f.listings, Total: len(f.listings)}, nil
}

// ==========================
// Core Functionality Tests
// ==========================

func TestService_RequestsCandidates(t *testing.T) {
	src := &fakeSource{}
	svc := NewService(src, &Config{MaxItems: 3, CandidateLimit: 40}, logger.NewTestLogger(t))

	_, err := svc.Recommend(context.Background(), Preferences{PropertyType: "rent"}, false)
	require.NoError(t, err)
	assert.Equal(t, "40", src.params.Get("limit"))
	assert.Equal(t, "rent", src.params.Get("type"))
	assert.Equal(t, "createdAt", src.params.Get("sort"))

	_, err = svc.Recommend(context.Background(), Preferences{PropertyType: "villa"}, false)
	require.NoError(t, err)
	assert.Equal(t, "all", src.params.Get("type"))
}

func TestService_ProfileFromFavorites(t *testing.T) {
	src := &fakeSource{
		listings: []models.Listing{
			{ID: "sell", Type: models.ListingTypeSell, Beds: 4},
			{ID: "rent", Type: models.ListingTypeRent, Beds: 1},
		},
		favorites: []models.Listing{
			{ID: "f1", Type: models.ListingTypeRent, Beds: 1, RegularPrice: 900, Address: "1 Elm, Riverside"},
		},
	}
	svc := NewService(src, nil, logger.NewTestLogger(t))

	res, err := svc.Recommend(context.Background(), Preferences{}, true)
	require.NoError(t, err)
	require.NotNil(t, res.Profile)
	assert.Equal(t, "rent", res.Profile.PreferredType)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "rent", res.Items[0].Listing.ID)
}

func TestService_FavoritesFailureDropsProfile(t *testing.T) {
	src := &fakeSource{
		listings: []models.Listing{{ID: "a"}, {ID: "b"}},
		favErr:   errors.New("not signed in"),
	}
	svc := NewService(src, nil, logger.NewTestLogger(t))

	res, err := svc.Recommend(context.Background(), Preferences{}, true)
	require.NoError(t, err)
	assert.Nil(t, res.Profile)
	assert.Len(t, res.Items, 2)
}
