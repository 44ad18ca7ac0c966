// internal/valuation/estimator.go
package valuation

import (
	"math"
	"math/rand/v2"
	"time"

	apperrors "estate-client/internal/common/errors"
	"estate-client/internal/common/logger"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	defaultSquareFeet  = 1000
	defaultBedrooms    = 2
	defaultBathrooms   = 1
	defaultYearBuilt   = 2000
	defaultRate        = 200
	bedroomValue       = 15000
	bathroomValue      = 10000
	amenityValue       = 5000
	minAgeMultiplier   = 0.7
	agePenaltyPerYear  = 0.01
	rangeSpread        = 0.15
	baseConfidence     = 75
	confidenceVariance = 20
)

// Price per square foot by property type.
var typeRates = map[string]float64{
	"house":     200,
	"apartment": 180,
	"condo":     190,
	"townhouse": 185,
	"villa":     250,
	"studio":    150,
}

var conditionMultipliers = map[string]float64{
	"excellent": 1.15,
	"good":      1.0,
	"fair":      0.9,
	"poor":      0.75,
}

var trendMultipliers = map[string]float64{
	"rising":    1.1,
	"stable":    1.0,
	"declining": 0.9,
}

type Input struct {
	PropertyType string   `json:"propertyType"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	SquareFeet   int      `json:"squareFeet"`
	YearBuilt    int      `json:"yearBuilt"`
	Condition    string   `json:"condition"`
	MarketTrend  string   `json:"marketTrend"`
	Location     string   `json:"location"`
	Amenities    []string `json:"amenities"`
}

// Validate rejects negative attributes and a construction year after currentYear.
func (in Input) Validate(currentYear int) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Bedrooms, validation.Min(0)),
		validation.Field(&in.Bathrooms, validation.Min(0)),
		validation.Field(&in.SquareFeet, validation.Min(0)),
		validation.Field(&in.YearBuilt, validation.Min(0), validation.Max(currentYear).Error("cannot be in the future")),
	)
	if err != nil {
		return apperrors.NewFieldValidationError("Please check the property details", err.Error())
	}
	return nil
}

type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

type Factors struct {
	SquareFeet  int    `json:"size"`
	Bedrooms    int    `json:"bedrooms"`
	Bathrooms   int    `json:"bathrooms"`
	Age         int    `json:"age"`
	Condition   string `json:"condition"`
	Amenities   int    `json:"amenities"`
	MarketTrend string `json:"marketTrend"`
}

type Estimate struct {
	Estimated  int64   `json:"estimated"`
	Range      Range   `json:"range"`
	Confidence int     `json:"confidence"`
	Factors    Factors `json:"factors"`
}

// Source supplies uniform floats in [0,1).
type Source interface {
	Float64() float64
}

// Estimator produces rough, randomized property valuations.
type Estimator struct {
	rand   Source
	now    func() time.Time
	logger logger.Logger
}

// NewEstimator uses src for the location and jitter factors; nil uses the
// global generator.
func NewEstimator(src Source, log logger.Logger) *Estimator {
	if src == nil {
		src = globalSource{}
	}
	return &Estimator{
		rand:   src,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"component": "valuation"}),
	}
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

func (e *Estimator) Estimate(in Input) (*Estimate, error) {
	currentYear := e.now().Year()
	if err := in.Validate(currentYear); err != nil {
		return nil, err
	}

	rate, ok := typeRates[in.PropertyType]
	if !ok {
		rate = defaultRate
	}
	sqft := orDefault(in.SquareFeet, defaultSquareFeet)
	beds := orDefault(in.Bedrooms, defaultBedrooms)
	baths := orDefault(in.Bathrooms, defaultBathrooms)
	age := currentYear - orDefault(in.YearBuilt, defaultYearBuilt)

	price := float64(sqft)*rate + float64(beds*bedroomValue) + float64(baths*bathroomValue)
	price *= math.Max(minAgeMultiplier, 1-float64(age)*agePenaltyPerYear)
	price *= multiplier(conditionMultipliers, in.Condition)
	price *= multiplier(trendMultipliers, in.MarketTrend)
	price += float64(len(in.Amenities) * amenityValue)

	price *= 0.8 + e.rand.Float64()*0.4 // location, [0.8, 1.2)
	price *= 0.9 + e.rand.Float64()*0.2 // jitter, [0.9, 1.1)

	estimated := int64(math.Round(price))
	out := &Estimate{
		Estimated: estimated,
		Range: Range{
			Min: int64(math.Round(float64(estimated) * (1 - rangeSpread))),
			Max: int64(math.Round(float64(estimated) * (1 + rangeSpread))),
		},
		Confidence: int(math.Round(baseConfidence + e.rand.Float64()*confidenceVariance)),
		Factors: Factors{
			SquareFeet:  in.SquareFeet,
			Bedrooms:    in.Bedrooms,
			Bathrooms:   in.Bathrooms,
			Age:         age,
			Condition:   in.Condition,
			Amenities:   len(in.Amenities),
			MarketTrend: in.MarketTrend,
		},
	}

	e.logger.Debug("Valuation estimated", map[string]interface{}{
		"propertyType": in.PropertyType,
		"estimated":    out.Estimated,
		"confidence":   out.Confidence,
	})
	return out, nil
}

// PropertyTypes lists the types with a known rate.
func PropertyTypes() []string {
	return []string{"house", "apartment", "condo", "townhouse", "villa", "studio"}
}

func multiplier(table map[string]float64, key string) float64 {
	if m, ok := table[key]; ok {
		return m
	}
	return 1.0
}

func orDefault(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
