// cmd/estate-cli/recommend.go
package main

import (
	"fmt"

	"estate-client/internal/recommend"

	"github.com/spf13/cobra"
)

func (c *cli) recommendCommand() *cobra.Command {
	var (
		prefs        recommend.Preferences
		minPrice     float64
		maxPrice     float64
		useFavorites bool
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the latest listings against your preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// price only counts when both bounds are given
			if cmd.Flags().Changed("min-price") && cmd.Flags().Changed("max-price") {
				prefs.PriceRange = &recommend.PriceRange{Min: minPrice, Max: maxPrice}
			}
			// favorites need a session; anonymous users rank on preferences only
			withFavs := useFavorites && c.app.Session.IsAuthenticated()

			svc := recommend.NewService(c.app.API, recommend.LoadConfig(c.app.Config.Recommend), c.app.Logger)
			res, err := svc.Recommend(cmd.Context(), prefs, withFavs)
			if err != nil {
				return err
			}
			return c.emit(res, func() {
				if p := res.Profile; p != nil {
					fmt.Fprintf(c.out, "From your favorites: %s, %d beds, %d baths, around %s, $%.0f-$%.0f (%d%% confidence)\n\n",
						p.PreferredType, p.PreferredBedrooms, p.PreferredBathrooms, p.PreferredLocation,
						p.PriceRange.Min, p.PriceRange.Max, p.Confidence)
				}
				c.printRecommendations(res.Items)
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&minPrice, "min-price", 0, "lowest acceptable price")
	f.Float64Var(&maxPrice, "max-price", 1000000, "highest acceptable price")
	f.StringVar(&prefs.PropertyType, "type", "", "property type (rent, sell, house, ...)")
	f.IntVar(&prefs.Bedrooms, "beds", 0, "bedrooms")
	f.IntVar(&prefs.Bathrooms, "baths", 0, "bathrooms")
	f.StringVar(&prefs.Location, "location", "", "part of the address")
	f.StringSliceVar(&prefs.Amenities, "amenity", nil, "wanted amenity, e.g. parking (repeatable)")
	f.BoolVar(&useFavorites, "use-favorites", true, "infer a profile from your favorites")
	return cmd
}
