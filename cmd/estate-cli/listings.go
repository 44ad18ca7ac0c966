// cmd/estate-cli/listings.go
package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	httpclient "estate-client/internal/common/http"
	"estate-client/internal/models"
	"estate-client/internal/search"

	"github.com/spf13/cobra"
)

func (c *cli) listingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "listings",
		Aliases: []string{"listing"},
		Short:   "Browse, search and manage listings",
	}
	cmd.AddCommand(
		c.searchCommand(),
		c.listingGetCommand(),
		c.simpleListCommand("popular", "Most viewed listings (home feed)", func(cmd *cobra.Command, _ []string) ([]models.Listing, error) {
			return c.app.API.PopularListings(cmd.Context())
		}),
		c.simpleListCommand("similar <id>", "Listings similar to one listing", func(cmd *cobra.Command, args []string) ([]models.Listing, error) {
			return c.app.API.SimilarListings(cmd.Context(), args[0])
		}),
		c.listingCreateCommand(),
		c.listingUpdateCommand(),
		c.listingDeleteCommand(),
	)
	return cmd
}

func (c *cli) searchCommand() *cobra.Command {
	var (
		term, typ, sort string
		offer, parking  bool
		furnished       bool
		limit, start    int
		link            string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search listings",
		Long:  "Search listings. Sort labels: " + strings.Join(search.SortLabels(), ", ") + ".",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parser := search.NewParser(c.app.Logger)

			var (
				form *search.Form
				err  error
			)
			if link != "" {
				q, perr := url.ParseQuery(strings.TrimPrefix(link, "?"))
				if perr != nil {
					return perr
				}
				form, err = parser.ParseQuery(q)
			} else {
				raw := map[string]interface{}{
					"searchTerm": term,
					"type":       typ,
					"sort":       sort,
					"limit":      limit,
					"startIndex": start,
				}
				// unset checkboxes are absent from the form
				if offer {
					raw["offer"] = true
				}
				if parking {
					raw["parking"] = true
				}
				if furnished {
					raw["furnished"] = true
				}
				form, err = parser.Parse(raw)
			}
			if err != nil {
				return err
			}

			params, err := form.Values()
			if err != nil {
				return err
			}
			page, err := c.app.API.SearchListings(cmd.Context(), params)
			if err != nil {
				return err
			}
			return c.emit(page, func() {
				c.printListings(page.Listings)
				if len(page.Listings) >= form.Limit {
					next := form.NextPage()
					nextParams, _ := next.Values()
					fmt.Fprintf(c.out, "\nShow more: estate-cli listings search --link '%s'\n", nextParams.Encode())
				}
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&term, "term", "", "free-text search term")
	f.StringVar(&typ, "type", search.DefaultType, "all, rent or sell")
	f.StringVar(&sort, "sort", search.DefaultSort, "sort label")
	f.BoolVar(&offer, "offer", false, "only listings with an offer")
	f.BoolVar(&parking, "parking", false, "only listings with parking")
	f.BoolVar(&furnished, "furnished", false, "only furnished listings")
	f.IntVar(&limit, "limit", search.DefaultLimit, "results per page")
	f.IntVar(&start, "start", 0, "start index")
	f.StringVar(&link, "link", "", "search query string, e.g. from a shared link")
	return cmd
}

func (c *cli) listingGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.app.API.GetListing(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.emit(l, func() { c.printListing(l) })
		},
	}
}

func (c *cli) simpleListCommand(use, short string, fetch func(*cobra.Command, []string) ([]models.Listing, error)) *cobra.Command {
	args := cobra.NoArgs
	if strings.Contains(use, "<") {
		args = cobra.ExactArgs(1)
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, a []string) error {
			ls, err := fetch(cmd, a)
			if err != nil {
				return err
			}
			return c.emit(ls, func() { c.printListings(ls) })
		},
	}
}

func listingFlags(cmd *cobra.Command, in *models.ListingInput) {
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "listing title")
	f.StringVar(&in.Description, "description", "", "description")
	f.StringVar(&in.Address, "address", "", "street, city")
	f.Float64Var(&in.RegularPrice, "price", 0, "regular price")
	f.Float64Var(&in.DiscountedPrice, "discounted-price", 0, "discounted price (with --offer)")
	f.IntVar(&in.Beds, "beds", 1, "bedrooms")
	f.IntVar(&in.Baths, "baths", 1, "bathrooms")
	f.BoolVar(&in.Furnished, "furnished", false, "furnished")
	f.BoolVar(&in.Parking, "parking", false, "parking spot")
	f.BoolVar(&in.Offer, "offer", false, "discount offer")
	f.StringSliceVar(&in.Images, "image-url", nil, "already uploaded image path (repeatable)")
	f.StringVar((*string)(&in.Type), "type", string(models.ListingTypeSell), "rent or sell")
}

func (c *cli) listingCreateCommand() *cobra.Command {
	var (
		in     models.ListingInput
		images []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new listing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(images) > 0 {
				files, err := readImages(images)
				if err != nil {
					return err
				}
				paths, err := c.app.API.UploadImages(cmd.Context(), files)
				if err != nil {
					return err
				}
				in.Images = append(in.Images, paths...)
			}
			l, err := c.app.API.CreateListing(cmd.Context(), in)
			if err != nil {
				return err
			}
			return c.emit(l, func() { fmt.Fprintf(c.out, "Listing %s created (status: %s)\n", l.ID, l.Status) })
		},
	}
	listingFlags(cmd, &in)
	cmd.Flags().StringSliceVar(&images, "image", nil, "image file to upload first (repeatable, max 6)")
	return cmd
}

func (c *cli) listingUpdateCommand() *cobra.Command {
	var (
		in     models.ListingInput
		images []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a listing's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readImages(images)
			if err != nil {
				return err
			}
			l, err := c.app.API.UpdateListing(cmd.Context(), args[0], in, files)
			if err != nil {
				return err
			}
			return c.emit(l, func() { fmt.Fprintf(c.out, "Listing %s updated\n", l.ID) })
		},
	}
	listingFlags(cmd, &in)
	cmd.Flags().StringSliceVar(&images, "image", nil, "image file to attach (repeatable)")
	return cmd
}

func (c *cli) listingDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.API.DeleteListing(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Listing %s deleted\n", args[0])
			return nil
		},
	}
}

func (c *cli) uploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload listing images and print their stored paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readImages(args)
			if err != nil {
				return err
			}
			paths, err := c.app.API.UploadImages(cmd.Context(), files)
			if err != nil {
				return err
			}
			return c.emit(paths, func() {
				for _, p := range paths {
					fmt.Fprintln(c.out, p)
				}
			})
		},
	}
}

func readImages(paths []string) ([]httpclient.File, error) {
	files := make([]httpclient.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", p, err)
		}
		files = append(files, httpclient.File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}
