// internal/api/listings.go
package api

import (
	"context"
	"net/url"
	"strconv"

	httpclient "estate-client/internal/common/http"
	"estate-client/internal/common/validation"
	"estate-client/internal/models"
	"estate-client/pkg/registry"
)

func (c *Client) CreateListing(ctx context.Context, in models.ListingInput) (models.Listing, error) {
	if err := validation.Check(validation.FormListing, in, "Please complete the listing details"); err != nil {
		return models.Listing{}, err
	}
	var out models.Listing
	err := c.mutate(ctx, call{name: registry.ListingCreate, body: in}, &out)
	return out, err
}

// UpdateListing sends JSON, or a multipart form when new images are attached.
func (c *Client) UpdateListing(ctx context.Context, id string, in models.ListingInput, images []httpclient.File) (models.Listing, error) {
	if err := validation.Check(validation.FormListing, in, "Please complete the listing details"); err != nil {
		return models.Listing{}, err
	}
	cl := call{name: registry.ListingUpdate, params: []string{id}}
	if len(images) > 0 {
		cl.multipart = listingForm(in, images)
	} else {
		cl.body = in
	}
	var out models.Listing
	err := c.mutate(ctx, cl, &out)
	return out, err
}

func listingForm(in models.ListingInput, images []httpclient.File) *httpclient.Multipart {
	files := make([]httpclient.File, len(images))
	for i, f := range images {
		f.Field = "images"
		files[i] = f
	}
	return &httpclient.Multipart{
		Fields: map[string]string{
			"name":            in.Name,
			"description":     in.Description,
			"address":         in.Address,
			"regularPrice":    strconv.FormatFloat(in.RegularPrice, 'f', -1, 64),
			"discountedPrice": strconv.FormatFloat(in.DiscountedPrice, 'f', -1, 64),
			"beds":            strconv.Itoa(in.Beds),
			"baths":           strconv.Itoa(in.Baths),
			"furnished":       strconv.FormatBool(in.Furnished),
			"parking":         strconv.FormatBool(in.Parking),
			"offer":           strconv.FormatBool(in.Offer),
			"type":            string(in.Type),
		},
		Files: files,
	}
}

func (c *Client) DeleteListing(ctx context.Context, id string) error {
	return c.mutate(ctx, call{name: registry.ListingDelete, params: []string{id}}, nil)
}

func (c *Client) GetListing(ctx context.Context, id string) (models.Listing, error) {
	var out models.Listing
	err := c.query(ctx, call{name: registry.ListingGet, params: []string{id}}, &out)
	return out, err
}

// SearchListings runs a search with pre-built query parameters, see the
// search package for building them from form values.
func (c *Client) SearchListings(ctx context.Context, params url.Values) (models.ListingPage, error) {
	var page models.ListingPage
	err := c.query(ctx, call{name: registry.ListingSearch, query: params}, &page)
	return page, err
}

func (c *Client) SimilarListings(ctx context.Context, id string) ([]models.Listing, error) {
	var page models.ListingPage
	if err := c.query(ctx, call{name: registry.ListingSimilar, params: []string{id}}, &page); err != nil {
		return nil, err
	}
	return page.Listings, nil
}

func (c *Client) PopularListings(ctx context.Context) ([]models.Listing, error) {
	var page models.ListingPage
	if err := c.query(ctx, call{name: registry.ListingPopular}, &page); err != nil {
		return nil, err
	}
	return page.Listings, nil
}
