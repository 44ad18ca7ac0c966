// cmd/estate-cli/favorites.go
package main

import (
	"fmt"

	"estate-client/internal/favorites"

	"github.com/spf13/cobra"
)

func (c *cli) favoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "List and toggle favorite listings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ls, err := c.app.API.Favorites(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(ls, func() { c.printListings(ls) })
		},
	}

	toggle := func(use, short string, run func(t *favorites.Toggler, cmd *cobra.Command, id string) (bool, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <listing-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t := favorites.NewToggler(c.app.API, c.app.Logger)
				on, err := run(t, cmd, args[0])
				if err != nil {
					return err
				}
				state := map[string]interface{}{"listingId": args[0], "favorite": on}
				return c.emit(state, func() {
					if on {
						fmt.Fprintf(c.out, "%s is a favorite\n", args[0])
					} else {
						fmt.Fprintf(c.out, "%s is not a favorite\n", args[0])
					}
				})
			},
		}
	}

	cmd.AddCommand(
		toggle("add", "Favorite a listing", func(t *favorites.Toggler, cmd *cobra.Command, id string) (bool, error) {
			return true, t.Add(cmd.Context(), id)
		}),
		toggle("remove", "Unfavorite a listing", func(t *favorites.Toggler, cmd *cobra.Command, id string) (bool, error) {
			return false, t.Remove(cmd.Context(), id)
		}),
		toggle("toggle", "Flip a listing's favorite state", func(t *favorites.Toggler, cmd *cobra.Command, id string) (bool, error) {
			return t.Toggle(cmd.Context(), id)
		}),
	)
	return cmd
}
