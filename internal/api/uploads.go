// internal/api/uploads.go
package api

import (
	"context"

	apperrors "estate-client/internal/common/errors"
	httpclient "estate-client/internal/common/http"
	"estate-client/internal/models"
	"estate-client/pkg/registry"
)

const maxUploadImages = 6

// UploadImages stores images and returns their backend paths.
func (c *Client) UploadImages(ctx context.Context, files []httpclient.File) ([]string, error) {
	if len(files) == 0 {
		return nil, apperrors.NewFieldValidationError("Please select at least one image", "no files")
	}
	if len(files) > maxUploadImages {
		return nil, apperrors.NewFieldValidationError("You can only upload 6 images per listing", "too many files")
	}
	parts := make([]httpclient.File, len(files))
	for i, f := range files {
		f.Field = "images"
		parts[i] = f
	}

	var out models.UploadResult
	if err := c.mutate(ctx, call{name: registry.UploadImages, multipart: &httpclient.Multipart{Files: parts}}, &out); err != nil {
		return nil, err
	}
	return out.Paths, nil
}
