// internal/valuation/estimator_test.go
package valuation

import (
	"math/rand/v2"
	"testing"
	"time"

	apperrors "estate-client/internal/common/errors"
	"estate-client/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// fixedSource returns the same value for every draw.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func createTestEstimator(t *testing.T, src Source) *Estimator {
	e := NewEstimator(src, logger.NewTestLogger(t))
	e.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return e
}

// ==========================
// Core Functionality Tests
// ==========================

func TestEstimator_Estimate_Neutral(t *testing.T) {
	// 0.5 makes location 1.0 and jitter 1.0
	e := createTestEstimator(t, fixedSource(0.5))

	got, err := e.Estimate(Input{
		PropertyType: "house",
		Bedrooms:     3,
		Bathrooms:    2,
		SquareFeet:   2000,
		YearBuilt:    2015,
		Condition:    "good",
		MarketTrend:  "stable",
		Amenities:    []string{"pool", "garage"},
	})
	require.NoError(t, err)

	// (2000*200 + 45000 + 20000) * 0.9 + 10000
	assert.Equal(t, int64(428500), got.Estimated)
	assert.Equal(t, Range{Min: 364225, Max: 492775}, got.Range)
	assert.Equal(t, 85, got.Confidence)
	assert.Equal(t, 10, got.Factors.Age)
	assert.Equal(t, 2, got.Factors.Amenities)
}

func TestEstimator_Estimate_Defaults(t *testing.T) {
	e := createTestEstimator(t, fixedSource(0.5))

	got, err := e.Estimate(Input{})
	require.NoError(t, err)

	// (1000*200 + 30000 + 10000) * max(0.7, 1-0.25)
	assert.Equal(t, int64(180000), got.Estimated)
	assert.Equal(t, 25, got.Factors.Age)
}

func TestEstimator_Estimate_Multipliers(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want int64
	}{
		{"villa rate", Input{PropertyType: "villa", YearBuilt: 2025}, 1000*250 + 30000 + 10000},
		{"unknown type uses house rate", Input{PropertyType: "castle", YearBuilt: 2025}, 240000},
		{"excellent condition", Input{Condition: "excellent", YearBuilt: 2025}, 276000},
		{"poor condition", Input{Condition: "poor", YearBuilt: 2025}, 180000},
		{"rising market", Input{MarketTrend: "rising", YearBuilt: 2025}, 264000},
		{"declining market", Input{MarketTrend: "declining", YearBuilt: 2025}, 216000},
		{"age floor", Input{YearBuilt: 1900}, 168000},
	}

	e := createTestEstimator(t, fixedSource(0.5))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Estimate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Estimated)
		})
	}
}

func TestEstimator_Estimate_RandomBounds(t *testing.T) {
	low, err := createTestEstimator(t, fixedSource(0)).Estimate(Input{YearBuilt: 2025})
	require.NoError(t, err)
	assert.Equal(t, int64(172800), low.Estimated) // 240000 * 0.8 * 0.9
	assert.Equal(t, 75, low.Confidence)

	e := createTestEstimator(t, rand.New(rand.NewPCG(1, 2)))
	for i := 0; i < 100; i++ {
		got, err := e.Estimate(Input{YearBuilt: 2025})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.Estimated, int64(172800))
		assert.Less(t, got.Estimated, int64(316801))
		assert.GreaterOrEqual(t, got.Confidence, 75)
		assert.LessOrEqual(t, got.Confidence, 95)
		assert.LessOrEqual(t, got.Range.Min, got.Estimated)
		assert.GreaterOrEqual(t, got.Range.Max, got.Estimated)
	}
}

func TestEstimator_Estimate_Deterministic(t *testing.T) {
	a := createTestEstimator(t, rand.New(rand.NewPCG(7, 7)))
	b := createTestEstimator(t, rand.New(rand.NewPCG(7, 7)))
	in := Input{PropertyType: "condo", SquareFeet: 900, YearBuilt: 2010}

	ea, err := a.Estimate(in)
	require.NoError(t, err)
	eb, err := b.Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, ea, eb)
}

func TestEstimator_Estimate_Invalid(t *testing.T) {
	e := createTestEstimator(t, fixedSource(0.5))

	_, err := e.Estimate(Input{SquareFeet: -1})
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))

	_, err = e.Estimate(Input{YearBuilt: 2030})
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))
}
