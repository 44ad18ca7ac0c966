// cmd/estate-cli/admin.go
package main

import (
	"context"
	"fmt"

	"estate-client/internal/charts"
	"estate-client/internal/models"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

// dashboard is what the admin overview screen shows.
type dashboard struct {
	Stats     models.Stats     `json:"stats"`
	Analytics models.Analytics `json:"analytics"`
}

// fetchDashboard loads stats and analytics in parallel.
func (c *cli) fetchDashboard(ctx context.Context) (*dashboard, error) {
	var d dashboard
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		s, err := c.app.API.Stats(ctx)
		d.Stats = s
		return err
	})
	p.Go(func(ctx context.Context) error {
		a, err := c.app.API.Analytics(ctx)
		d.Analytics = a
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *cli) renderDashboard(d *dashboard) {
	s := d.Stats
	fmt.Fprintf(c.out, "Users: %d  Listings: %d  Bookings: %d  Messages: %d\n\n",
		s.TotalUsers, s.TotalListings, s.TotalBookings, s.TotalMessages)

	_ = charts.RenderSlices(c.out, "Listings by type", charts.ListingsByType(s.ListingsByType))
	fmt.Fprintln(c.out)
	_ = charts.RenderBars(c.out, "Listings by month", charts.ListingsByMonth(s.ListingsByMonth))
	fmt.Fprintln(c.out)
	_ = charts.RenderBars(c.out, "New users by week", charts.UsersByWeek(s.UsersByMonth))
	fmt.Fprintln(c.out)

	a := d.Analytics
	views := charts.AnalyticsLine(a.ViewsOverTime)
	viewBars := make([]charts.Bar, len(views))
	for i, v := range views {
		viewBars[i] = charts.Bar{Label: v.Date, Value: v.Views}
	}
	_ = charts.RenderBars(c.out, "Views over time", viewBars)
	fmt.Fprintln(c.out)
	_ = charts.RenderBars(c.out, "Bookings by status", charts.AnalyticsBars(a.BookingStats))
	fmt.Fprintln(c.out)
	_ = charts.RenderSlices(c.out, "Property types", charts.AnalyticsPie(a.PropertyTypeStats))

	if len(a.TopListings) > 0 {
		fmt.Fprintln(c.out, "\nTop listings")
		tw := newTable(c.out, "ID", "NAME", "VIEWS")
		for _, l := range a.TopListings {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", l.ID, l.Name, l.Views)
		}
		_ = tw.Flush()
	}
}

func (c *cli) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin dashboard (demo accounts can look but not change anything)",
	}

	dash := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"stats"},
		Short:   "Totals and charts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := c.fetchDashboard(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(d, func() { c.renderDashboard(d) })
		},
	}

	users := &cobra.Command{
		Use:   "users",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			us, err := c.app.API.Users(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(us, func() {
				tw := newTable(c.out, "ID", "USERNAME", "EMAIL", "ROLE", "JOINED")
				for _, u := range us {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role, u.CreatedAt.Format("2006-01-02"))
				}
				_ = tw.Flush()
			})
		},
	}
	users.AddCommand(
		&cobra.Command{
			Use:   "role <user-id> <user|admin>",
			Short: "Change a user's role",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.API.UpdateUserRole(cmd.Context(), args[0], models.Role(args[1])); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "User %s is now %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <user-id>",
			Short: "Delete a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.API.DeleteUser(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "User %s deleted\n", args[0])
				return nil
			},
		},
	)

	var limit, start int
	listings := &cobra.Command{
		Use:   "listings",
		Short: "Every listing, including pending and rejected ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := c.app.API.AdminListings(cmd.Context(), limit, start)
			if err != nil {
				return err
			}
			return c.emit(page, func() {
				tw := newTable(c.out, "ID", "NAME", "STATUS", "OWNER", "VIEWS")
				for _, l := range page.Listings {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", l.ID, l.Name, l.Status, l.UserRef, l.Views)
				}
				_ = tw.Flush()
				fmt.Fprintf(c.out, "\n%d of %d listings\n", len(page.Listings), page.Total)
			})
		},
	}
	listings.Flags().IntVar(&limit, "limit", 50, "listings per page")
	listings.Flags().IntVar(&start, "start", 0, "start index")
	listings.AddCommand(
		c.moderateCommand("approve", "approved", func(cmd *cobra.Command, id string) error { return c.app.API.ApproveListing(cmd.Context(), id) }),
		c.moderateCommand("reject", "rejected", func(cmd *cobra.Command, id string) error { return c.app.API.RejectListing(cmd.Context(), id) }),
	)

	messages := &cobra.Command{
		Use:   "messages",
		Short: "Contact form messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ms, err := c.app.API.Messages(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(ms, func() {
				if len(ms) == 0 {
					fmt.Fprintln(c.out, "No messages.")
					return
				}
				tw := newTable(c.out, "ID", "", "FROM", "SUBJECT", "MESSAGE")
				for _, m := range ms {
					mark := "•"
					if m.IsRead() {
						mark = " "
					}
					fmt.Fprintf(tw, "%s\t%s\t%s <%s>\t%s\t%s\n", m.ID, mark, m.Name, m.Email, m.Subject, m.Message)
				}
				_ = tw.Flush()
			})
		},
	}
	messages.AddCommand(
		&cobra.Command{
			Use:   "read <id>",
			Short: "Mark a message as read",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.app.API.MarkMessageRead(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a message",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.app.API.DeleteMessage(cmd.Context(), args[0])
			},
		},
	)

	cmd.AddCommand(dash, users, listings, messages)
	return cmd
}

func (c *cli) moderateCommand(verb, done string, run func(*cobra.Command, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <listing-id>",
		Short: "Set a listing's moderation status (" + verb + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Listing %s: %s\n", args[0], done)
			return nil
		},
	}
}
