// cmd/estate-cli/valuate.go
package main

import (
	"fmt"
	"strings"

	"estate-client/internal/valuation"

	"github.com/spf13/cobra"
)

func (c *cli) valuateCommand() *cobra.Command {
	var in valuation.Input
	cmd := &cobra.Command{
		Use:   "valuate",
		Short: "Estimate a property's market value",
		Long:  "Estimate a property's market value. Property types: " + strings.Join(valuation.PropertyTypes(), ", ") + ".",
		RunE: func(cmd *cobra.Command, _ []string) error {
			est, err := valuation.NewEstimator(nil, c.app.Logger).Estimate(in)
			if err != nil {
				return err
			}
			return c.emit(est, func() {
				fmt.Fprintf(c.out, "Estimated value: $%d\n", est.Estimated)
				fmt.Fprintf(c.out, "Range:           $%d - $%d\n", est.Range.Min, est.Range.Max)
				fmt.Fprintf(c.out, "Confidence:      %d%%\n", est.Confidence)
				fmt.Fprintf(c.out, "Age:             %d years\n", est.Factors.Age)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.PropertyType, "type", "house", "property type")
	f.IntVar(&in.Bedrooms, "beds", 0, "bedrooms")
	f.IntVar(&in.Bathrooms, "baths", 0, "bathrooms")
	f.IntVar(&in.SquareFeet, "sqft", 0, "living area in square feet")
	f.IntVar(&in.YearBuilt, "year-built", 0, "construction year")
	f.StringVar(&in.Condition, "condition", "good", "excellent, good, fair or poor")
	f.StringVar(&in.MarketTrend, "trend", "stable", "rising, stable or declining")
	f.StringVar(&in.Location, "location", "", "location")
	f.StringSliceVar(&in.Amenities, "amenity", nil, "amenity (repeatable)")
	return cmd
}
