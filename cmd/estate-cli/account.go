// cmd/estate-cli/account.go
package main

import (
	"fmt"
	"time"

	"estate-client/internal/models"

	"github.com/spf13/cobra"
)

func (c *cli) contactCommand() *cobra.Command {
	var req models.ContactRequest
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the agency",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.API.SendMessage(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Thanks! Your message has been sent.")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "your name")
	f.StringVar(&req.Email, "email", "", "your email")
	f.StringVar(&req.ContactNumber, "phone", "", "contact number")
	f.StringVar(&req.Subject, "subject", "", "subject")
	f.StringVar(&req.Message, "message", "", "message")
	f.StringVar(&req.ListingID, "listing", "", "listing the message is about")
	return cmd
}

func (c *cli) bookingsCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"tours"},
		Short:   "List your tour requests (--all for every booking, admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetch := c.app.API.MyBookings
			if all {
				fetch = c.app.API.AllBookings
			}
			bs, err := fetch(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(bs, func() { c.printBookings(bs) })
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "every user's bookings")

	var (
		when string
		note string
	)
	book := &cobra.Command{
		Use:   "create <listing-id>",
		Short: "Request a tour of a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := time.ParseInLocation("2006-01-02 15:04", when, time.Local)
			if err != nil {
				return fmt.Errorf("--at must look like 2024-06-01 14:30: %w", err)
			}
			b, err := c.app.API.CreateBooking(cmd.Context(), models.BookingRequest{ListingID: args[0], ScheduledAt: at, Note: note})
			if err != nil {
				return err
			}
			return c.emit(b, func() { fmt.Fprintf(c.out, "Tour %s requested (status: %s)\n", b.ID, b.Status) })
		},
	}
	book.Flags().StringVar(&when, "at", "", "date and time, YYYY-MM-DD HH:MM")
	book.Flags().StringVar(&note, "note", "", "note for the owner")
	_ = book.MarkFlagRequired("at")

	status := &cobra.Command{
		Use:   "status <booking-id> <pending|confirmed|cancelled>",
		Short: "Change a booking's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.API.UpdateBookingStatus(cmd.Context(), args[0], models.BookingStatus(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Booking %s is now %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.AddCommand(book, status)
	return cmd
}

func (c *cli) notificationsCommand() *cobra.Command {
	var (
		limit, page int
		admin       bool
	)
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "Show your notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fetch := c.app.API.Notifications
			if admin {
				fetch = c.app.API.AdminNotifications
			}
			p, err := fetch(cmd.Context(), limit, page)
			if err != nil {
				return err
			}
			return c.emit(p, func() {
				c.printNotifications(p)
				if p.Pages > p.Page {
					fmt.Fprintf(c.out, "\nPage %d of %d (--page %d for more)\n", p.Page, p.Pages, p.Page+1)
				}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "notifications per page")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().BoolVar(&admin, "admin", false, "every user's notifications (admin only)")

	idCommand := func(use, short, done string, run func(*cobra.Command, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := run(cmd, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Notification %s %s\n", args[0], done)
				return nil
			},
		}
	}

	var req models.NotificationRequest
	send := &cobra.Command{
		Use:   "send",
		Short: "Send a notification to one user, or to everyone without --user (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.API.CreateNotification(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Notification sent")
			return nil
		},
	}
	send.Flags().StringVar(&req.UserID, "user", "", "recipient user id")
	send.Flags().StringVar(&req.Type, "type", "info", "success, warning, error, booking, listing or info")
	send.Flags().StringVar(&req.Title, "title", "", "title")
	send.Flags().StringVar(&req.Message, "message", "", "message")
	send.Flags().StringVar(&req.Link, "link", "", "link")

	cmd.AddCommand(
		idCommand("read", "Mark a notification as read", "marked as read", func(cmd *cobra.Command, id string) error {
			return c.app.API.MarkNotificationRead(cmd.Context(), id)
		}),
		idCommand("delete", "Delete a notification", "deleted", func(cmd *cobra.Command, id string) error {
			return c.app.API.DeleteNotification(cmd.Context(), id)
		}),
		&cobra.Command{
			Use:   "read-all",
			Short: "Mark every notification as read",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.app.API.MarkAllNotificationsRead(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(c.out, "All notifications marked as read")
				return nil
			},
		},
		&cobra.Command{
			Use:   "test",
			Short: "Send yourself a test notification",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.app.API.SendTestNotification(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(c.out, "Test notification sent")
				return nil
			},
		},
		send,
	)
	return cmd
}
