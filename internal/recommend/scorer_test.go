// internal/recommend/scorer_test.go
package recommend

import (
	"testing"

	"estate-client/internal/common/logger"
	"estate-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestScorer(t *testing.T, maxItems int) *Scorer {
	return NewScorer(&Config{MaxItems: maxItems}, logger.NewTestLogger(t))
}

func createTestListings() []models.Listing {
	return []models.Listing{
		{ID: "l1", Name: "Loft", Address: "12 Main St, Austin, TX", RegularPrice: 300000, Beds: 2, Baths: 1, Type: models.ListingTypeSell, Parking: true},
		{ID: "l2", Name: "Cottage", Address: "4 Oak Rd, Denver, CO", RegularPrice: 450000, Beds: 3, Baths: 2, Type: models.ListingTypeSell, Furnished: true},
		{ID: "l3", Name: "Studio", Address: "9 Pine Ave, Austin, TX", RegularPrice: 1500, Beds: 1, Baths: 1, Type: models.ListingTypeRent, Amenities: []string{"gym"}},
		{ID: "l4", Name: "Villa", Address: "1 Bay Dr, Miami, FL", RegularPrice: 900000, Beds: 5, Baths: 4, Type: models.ListingTypeSell, Parking: true, Offer: true},
	}
}

func factorByName(m Match, name string) (Factor, bool) {
	for _, f := range m.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return Factor{}, false
}

// ==========================
// Profile Inference Tests
// ==========================

func TestInferProfile(t *testing.T) {
	t.Run("no favorites", func(t *testing.T) {
		assert.Nil(t, InferProfile(nil))
	})

	t.Run("most frequent values", func(t *testing.T) {
		favs := createTestListings()
		p := InferProfile(favs)
		require.NotNil(t, p)

		assert.Equal(t, "sell", p.PreferredType)
		assert.Equal(t, PriceRange{Min: 1500, Max: 900000}, p.PriceRange)
		assert.Equal(t, 1, p.PreferredBathrooms)
		assert.Equal(t, "Austin", p.PreferredLocation)
		assert.Equal(t, 80, p.Confidence)
	})

	t.Run("ties", func(t *testing.T) {
		tests := []struct {
			name      string
			favs      []models.Listing
			wantType  string
			wantBeds  int
			wantBaths int
			wantLoc   string
		}{
			{
				name: "later text value and larger rooms",
				favs: []models.Listing{
					{Beds: 2, Baths: 1, Type: models.ListingTypeRent, Address: "1 Main, Austin"},
					{Beds: 3, Baths: 2, Type: models.ListingTypeSell, Address: "2 Oak, Dallas"},
				},
				wantType: "sell", wantBeds: 3, wantBaths: 2, wantLoc: "Dallas",
			},
			{
				name: "larger rooms even when seen first",
				favs: []models.Listing{
					{Beds: 4, Baths: 3, Type: models.ListingTypeSell, Address: "a, North"},
					{Beds: 2, Baths: 1, Type: models.ListingTypeRent, Address: "b, South"},
				},
				wantType: "rent", wantBeds: 4, wantBaths: 3, wantLoc: "South",
			},
			{
				name: "frequency beats tie order",
				favs: []models.Listing{
					{Beds: 2, Baths: 1, Type: models.ListingTypeRent, Address: "a, North"},
					{Beds: 2, Baths: 1, Type: models.ListingTypeRent, Address: "b, North"},
					{Beds: 5, Baths: 4, Type: models.ListingTypeSell, Address: "c, South"},
				},
				wantType: "rent", wantBeds: 2, wantBaths: 1, wantLoc: "North",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				p := InferProfile(tt.favs)
				require.NotNil(t, p)
				assert.Equal(t, tt.wantType, p.PreferredType)
				assert.Equal(t, tt.wantBeds, p.PreferredBedrooms)
				assert.Equal(t, tt.wantBaths, p.PreferredBathrooms)
				assert.Equal(t, tt.wantLoc, p.PreferredLocation)
			})
		}
	})

	t.Run("defaults", func(t *testing.T) {
		p := InferProfile([]models.Listing{{Address: "no locality"}})
		require.NotNil(t, p)
		assert.Equal(t, defaultPreferredRooms, p.PreferredBedrooms)
		assert.Equal(t, defaultPreferredRooms, p.PreferredBathrooms)
		assert.Equal(t, "Unknown", p.PreferredLocation)
		assert.Equal(t, PriceRange{Min: 0, Max: 1000000}, p.PriceRange)
		assert.Equal(t, 65, p.Confidence)
	})

	t.Run("confidence caps at 95", func(t *testing.T) {
		favs := make([]models.Listing, 20)
		assert.Equal(t, 95, InferProfile(favs).Confidence)
	})
}

// ==========================
// Scoring Tests
// ==========================

func TestScorer_Score(t *testing.T) {
	s := createTestScorer(t, 8)
	loft := createTestListings()[0]

	tests := []struct {
		name    string
		prefs   Preferences
		profile *Profile
		want    int
	}{
		{
			name: "no preferences",
			want: 0,
		},
		{
			name: "perfect explicit match",
			prefs: Preferences{
				PriceRange:   &PriceRange{Min: 200000, Max: 400000},
				PropertyType: "sell",
				Bedrooms:     2,
				Bathrooms:    1,
				Location:     "austin",
				Amenities:    []string{"parking"},
			},
			want: 100,
		},
		{
			name:  "price outside range loses a point per 10k",
			prefs: Preferences{PriceRange: &PriceRange{Min: 100000, Max: 250000}},
			want:  25,
		},
		{
			name:  "price far outside range floors at zero",
			prefs: Preferences{PriceRange: &PriceRange{Min: 1, Max: 2}},
			want:  0,
		},
		{
			name: "inferred profile",
			profile: &Profile{
				PreferredType:      "sell",
				PreferredBedrooms:  2,
				PreferredBathrooms: 1,
				PreferredLocation:  "Austin",
			},
			want: 48,
		},
		{
			name:    "inferred location is case sensitive",
			profile: &Profile{PreferredLocation: "austin"},
			want:    0,
		},
		{
			name:  "half the amenities",
			prefs: Preferences{Amenities: []string{"parking", "pool"}},
			want:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := s.Score(loft, tt.prefs, tt.profile)
			assert.Equal(t, tt.want, m.Score)
			assert.GreaterOrEqual(t, m.Score, 0)
			assert.LessOrEqual(t, m.Score, 100)
		})
	}
}

func TestScorer_Score_ReportsFactors(t *testing.T) {
	s := createTestScorer(t, 8)
	m := s.Score(createTestListings()[2], Preferences{
		PropertyType: "sell",
		Amenities:    []string{"gym"},
	}, &Profile{PreferredType: "rent"})

	f, ok := factorByName(m, "Property Type (inferred)")
	require.True(t, ok)
	assert.True(t, f.Match)
	assert.Equal(t, 20.0, f.Weight)

	f, ok = factorByName(m, "Amenities")
	require.True(t, ok)
	assert.True(t, f.Match)
	assert.Equal(t, 10.0, f.Weight)

	_, ok = factorByName(m, "Price Range")
	assert.False(t, ok, "price factor needs both bounds")
}

func TestScorer_Score_Deterministic(t *testing.T) {
	s := createTestScorer(t, 8)
	prefs := Preferences{PriceRange: &PriceRange{Min: 1000, Max: 500000}, Location: "TX", Amenities: []string{"parking", "furnished"}}
	for _, l := range createTestListings() {
		first := s.Score(l, prefs, nil)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, s.Score(l, prefs, nil))
		}
	}
}

func TestScorer_Score_BetterMatchNeverScoresLower(t *testing.T) {
	s := createTestScorer(t, 8)
	prefs := Preferences{
		PriceRange:   &PriceRange{Min: 200000, Max: 400000},
		PropertyType: "sell",
		Bedrooms:     3,
		Bathrooms:    2,
		Location:     "Denver",
		Amenities:    []string{"parking"},
	}
	base := models.Listing{Address: "1 X St, Boston, MA", RegularPrice: 900000, Beds: 1, Baths: 1, Type: models.ListingTypeRent}

	improvements := map[string]func(l *models.Listing){
		"price":    func(l *models.Listing) { l.RegularPrice = 300000 },
		"type":     func(l *models.Listing) { l.Type = models.ListingTypeSell },
		"beds":     func(l *models.Listing) { l.Beds = 3 },
		"baths":    func(l *models.Listing) { l.Baths = 2 },
		"location": func(l *models.Listing) { l.Address = "1 X St, Denver, CO" },
		"amenity":  func(l *models.Listing) { l.Parking = true },
	}

	before := s.Score(base, prefs, nil).Score
	for name, improve := range improvements {
		t.Run(name, func(t *testing.T) {
			better := base
			improve(&better)
			assert.Greater(t, s.Score(better, prefs, nil).Score, before)
		})
	}
}

// ==========================
// Ranking Tests
// ==========================

func TestScorer_Recommend_SortedAndCapped(t *testing.T) {
	s := createTestScorer(t, 2)
	recs := s.Recommend(createTestListings(), Preferences{Location: "austin", Amenities: []string{"parking"}}, nil)

	require.Len(t, recs, 2)
	assert.Equal(t, "l1", recs[0].Listing.ID)
	assert.Equal(t, 20, recs[0].Match.Score)
	assert.Equal(t, "l3", recs[1].Listing.ID)
	assert.GreaterOrEqual(t, recs[0].Match.Score, recs[1].Match.Score)
}

func TestScorer_Recommend_TiesKeepInputOrder(t *testing.T) {
	s := createTestScorer(t, 8)
	recs := s.Recommend(createTestListings(), Preferences{}, nil)

	require.Len(t, recs, 4)
	ids := []string{recs[0].Listing.ID, recs[1].Listing.ID, recs[2].Listing.ID, recs[3].Listing.ID}
	assert.Equal(t, []string{"l1", "l2", "l3", "l4"}, ids)
}

func TestScorer_Recommend_DefaultCap(t *testing.T) {
	s := NewScorer(nil, logger.NewNoOpLogger())
	candidates := make([]models.Listing, 20)
	for i := range candidates {
		candidates[i] = models.Listing{ID: string(rune('a' + i))}
	}
	recs := s.Recommend(candidates, Preferences{}, nil)
	require.Len(t, recs, DefaultMaxItems)
	assert.Equal(t, "a", recs[0].Listing.ID)
}

func TestScorer_Recommend_Empty(t *testing.T) {
	s := createTestScorer(t, 8)
	assert.Empty(t, s.Recommend(nil, Preferences{}, nil))
}
