// cmd/estate-cli/render.go
package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"estate-client/internal/models"
	"estate-client/internal/recommend"
)

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatPrice(l models.Listing) string {
	price := fmt.Sprintf("$%.0f", l.EffectivePrice())
	if l.Type == models.ListingTypeRent {
		price += " / month"
	}
	if l.Offer && l.DiscountedPrice > 0 {
		price += fmt.Sprintf(" (was $%.0f)", l.RegularPrice)
	}
	return price
}

func (c *cli) printListings(ls []models.Listing) {
	if len(ls) == 0 {
		fmt.Fprintln(c.out, "No listings found.")
		return
	}
	tw := newTable(c.out, "ID", "NAME", "TYPE", "PRICE", "BEDS", "BATHS", "ADDRESS")
	for _, l := range ls {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n", l.ID, l.Name, l.Type, formatPrice(l), l.Beds, l.Baths, l.Address)
	}
	_ = tw.Flush()
}

func (c *cli) printListing(l models.Listing) {
	fmt.Fprintf(c.out, "%s\n%s\n\n", l.Name, l.Address)
	fmt.Fprintf(c.out, "Price:     %s\n", formatPrice(l))
	fmt.Fprintf(c.out, "Type:      %s\n", l.Type)
	fmt.Fprintf(c.out, "Beds:      %d\n", l.Beds)
	fmt.Fprintf(c.out, "Baths:     %d\n", l.Baths)
	fmt.Fprintf(c.out, "Parking:   %s\n", yesNo(l.Parking))
	fmt.Fprintf(c.out, "Furnished: %s\n", yesNo(l.Furnished))
	if l.Status != "" {
		fmt.Fprintf(c.out, "Status:    %s\n", l.Status)
	}
	if cover := l.Cover(); cover != "" {
		fmt.Fprintf(c.out, "Cover:     %s\n", cover)
	}
	if l.Description != "" {
		fmt.Fprintf(c.out, "\n%s\n", l.Description)
	}
}

func (c *cli) printRecommendations(recs []recommend.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(c.out, "No recommendations yet.")
		return
	}
	tw := newTable(c.out, "SCORE", "ID", "NAME", "PRICE", "MATCHED")
	for _, r := range recs {
		var matched []string
		for _, f := range r.Match.Factors {
			if f.Match {
				matched = append(matched, f.Name)
			}
		}
		fmt.Fprintf(tw, "%d%%\t%s\t%s\t%s\t%s\n", r.Match.Score, r.Listing.ID, r.Listing.Name, formatPrice(r.Listing), strings.Join(matched, ", "))
	}
	_ = tw.Flush()
}

func (c *cli) printNotifications(page models.NotificationPage) {
	label := models.BadgeLabel(page.UnreadCount)
	if label == "" {
		label = "0"
	}
	fmt.Fprintf(c.out, "Notifications (%s unread)\n", label)
	if len(page.Notifications) == 0 {
		fmt.Fprintln(c.out, "No notifications.")
		return
	}
	tw := newTable(c.out, "ID", "", "TYPE", "TITLE", "MESSAGE")
	for _, n := range page.Notifications {
		mark := "•"
		if n.Read {
			mark = " "
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", n.ID, mark, n.Variant(), n.Title, n.Message)
	}
	_ = tw.Flush()
}

func (c *cli) printBookings(bs []models.Booking) {
	if len(bs) == 0 {
		fmt.Fprintln(c.out, "No bookings.")
		return
	}
	tw := newTable(c.out, "ID", "LISTING", "WHEN", "STATUS", "BY")
	for _, b := range bs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Listing.Name, b.ScheduledAt.Format("2006-01-02 15:04"), b.Status, b.User.Email)
	}
	_ = tw.Flush()
}

func (c *cli) printChatMessage(m models.ChatMessage) {
	who := "you"
	if m.Sender == models.SenderBot {
		who = "bot"
	}
	fmt.Fprintf(c.out, "%s> %s\n", who, m.Text)
	for _, l := range m.Properties {
		fmt.Fprintf(c.out, "     - %s (%s) %s\n", l.Name, l.ID, formatPrice(l))
	}
}
