// internal/recommend/scorer.go
package recommend

import (
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"estate-client/internal/common/logger"
	"estate-client/internal/common/metrics"
	"estate-client/internal/models"
)

// Factor weights out of 100. Inferred weights apply when the explicit
// preference does not match but the favorites profile does.
const (
	weightPrice            = 30.0
	weightType             = 25.0
	weightTypeInferred     = 20.0
	weightBeds             = 15.0
	weightBedsInferred     = 12.0
	weightBaths            = 10.0
	weightBathsInferred    = 8.0
	weightLocation         = 10.0
	weightLocationInferred = 8.0
	weightAmenities        = 10.0
	pricePenaltyPerDollar  = 1.0 / 10000
)

type Scorer struct {
	config *Config
	logger logger.Logger
}

func NewScorer(config *Config, log logger.Logger) *Scorer {
	if config == nil {
		config = &Config{MaxItems: DefaultMaxItems, CandidateLimit: DefaultCandidateLimit}
	}
	return &Scorer{
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "recommend"}),
	}
}

// Score rates one listing against the preferences and optional profile.
func (s *Scorer) Score(l models.Listing, prefs Preferences, profile *Profile) Match {
	var (
		score   float64
		factors []Factor
	)
	add := func(name string, weight float64, match bool) {
		score += weight
		factors = append(factors, Factor{Name: name, Weight: weight, Match: match})
	}

	if pr := prefs.PriceRange; pr != nil {
		price := l.RegularPrice
		if price >= pr.Min && price <= pr.Max {
			add("Price Range", weightPrice, true)
		} else {
			diff := math.Min(math.Abs(price-pr.Min), math.Abs(price-pr.Max))
			add("Price Range", math.Max(0, weightPrice-diff*pricePenaltyPerDollar), false)
		}
	}

	switch {
	case prefs.PropertyType != "" && string(l.Type) == prefs.PropertyType:
		add("Property Type", weightType, true)
	case profile != nil && profile.PreferredType == string(l.Type):
		add("Property Type (inferred)", weightTypeInferred, true)
	}

	switch {
	case prefs.Bedrooms > 0 && l.Beds == prefs.Bedrooms:
		add("Bedrooms", weightBeds, true)
	case profile != nil && profile.PreferredBedrooms == l.Beds:
		add("Bedrooms (inferred)", weightBedsInferred, true)
	}

	switch {
	case prefs.Bathrooms > 0 && l.Baths == prefs.Bathrooms:
		add("Bathrooms", weightBaths, true)
	case profile != nil && profile.PreferredBathrooms == l.Baths:
		add("Bathrooms (inferred)", weightBathsInferred, true)
	}

	switch {
	case prefs.Location != "" && strings.Contains(strings.ToLower(l.Address), strings.ToLower(prefs.Location)):
		add("Location", weightLocation, true)
	case profile != nil && profile.PreferredLocation != "" && strings.Contains(l.Address, profile.PreferredLocation):
		add("Location (inferred)", weightLocationInferred, true)
	}

	matched := 0
	for _, a := range prefs.Amenities {
		if hasAmenity(l, a) {
			matched++
		}
	}
	add("Amenities", float64(matched)/math.Max(1, float64(len(prefs.Amenities)))*weightAmenities, matched > 0)

	final := int(math.Round(score))
	if final < 0 {
		final = 0
	} else if final > 100 {
		final = 100
	}
	return Match{Score: final, Factors: factors}
}

func hasAmenity(l models.Listing, amenity string) bool {
	switch amenity {
	case "parking":
		if l.Parking {
			return true
		}
	case "furnished":
		if l.Furnished {
			return true
		}
	case "offer":
		if l.Offer {
			return true
		}
	}
	return slices.Contains(l.Amenities, amenity)
}

// Recommend scores candidates and returns the best MaxItems, highest first.
// Equal scores keep candidate order.
func (s *Scorer) Recommend(candidates []models.Listing, prefs Preferences, profile *Profile) []Recommendation {
	start := time.Now()

	ranked := make([]Recommendation, 0, len(candidates))
	for _, l := range candidates {
		m := s.Score(l, prefs, profile)
		metrics.RecommendationsScored.Observe(float64(m.Score))
		ranked = append(ranked, Recommendation{Listing: l, Match: m})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Match.Score > ranked[j].Match.Score
	})

	if len(ranked) > s.config.MaxItems {
		ranked = ranked[:s.config.MaxItems]
	}

	s.logger.Info("Recommendations ranked", map[string]interface{}{
		"inputCount":  len(candidates),
		"outputCount": len(ranked),
		"hasProfile":  profile != nil,
		"durationMs":  time.Since(start).Milliseconds(),
	})
	return ranked
}
