// internal/recommend/service.go
package recommend

import (
	"context"
	"net/url"

	"estate-client/internal/common/logger"
	"estate-client/internal/models"
	"estate-client/internal/search"
)

// Source is the part of the API client recommendations read from.
type Source interface {
	Favorites(ctx context.Context) ([]models.Listing, error)
	SearchListings(ctx context.Context, params url.Values) (models.ListingPage, error)
}

// Result is one run of the recommendations screen.
type Result struct {
	Profile *Profile         `json:"profile,omitempty"`
	Items   []Recommendation `json:"items"`
}

// Service fetches candidates and favorites, then ranks with a Scorer.
type Service struct {
	source Source
	scorer *Scorer
	config *Config
	logger logger.Logger
}

func NewService(source Source, config *Config, log logger.Logger) *Service {
	if config == nil {
		config = &Config{MaxItems: DefaultMaxItems, CandidateLimit: DefaultCandidateLimit}
	}
	return &Service{
		source: source,
		scorer: NewScorer(config, log),
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "recommend"}),
	}
}

// Recommend ranks the latest listings. With useFavorites the user's
// favorites shape an inferred profile; a favorites failure only drops the profile.
func (s *Service) Recommend(ctx context.Context, prefs Preferences, useFavorites bool) (*Result, error) {
	form := search.Form{Type: search.DefaultType, Sort: search.DefaultSort, Limit: s.config.CandidateLimit}
	if prefs.PropertyType == string(models.ListingTypeRent) || prefs.PropertyType == string(models.ListingTypeSell) {
		form.Type = prefs.PropertyType
	}
	params, err := form.Values()
	if err != nil {
		return nil, err
	}
	page, err := s.source.SearchListings(ctx, params)
	if err != nil {
		return nil, err
	}

	var profile *Profile
	if useFavorites {
		favs, err := s.source.Favorites(ctx)
		if err != nil {
			s.logger.Warn("Favorites unavailable, ranking without profile", map[string]interface{}{"error": err.Error()})
		} else {
			profile = InferProfile(favs)
		}
	}

	return &Result{Profile: profile, Items: s.scorer.Recommend(page.Listings, prefs, profile)}, nil
}
