// internal/charts/charts.go
package charts

import (
	"strconv"
	"strings"

	"estate-client/internal/models"
)

const defaultSliceColor = "#6c757d"

var typeColors = map[string]string{
	"rent": "#007bff",
	"sell": "#28a745",
}

// Palette cycles through analytics pie slices.
var Palette = []string{"#0088FE", "#00C49F", "#FFBB28", "#FF8042", "#8884D8"}

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type Slice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type ViewsPoint struct {
	Date     string  `json:"date"`
	Views    float64 `json:"views"`
	Listings float64 `json:"listings"`
}

// ListingsByType shapes the dashboard pie: one slice per listing type.
func ListingsByType(rows []models.AggregateRow) []Slice {
	out := make([]Slice, 0, len(rows))
	for _, r := range rows {
		key := strings.ToLower(r.ID.String())
		if key == "" {
			key = "unknown"
		}
		color, ok := typeColors[key]
		if !ok {
			color = defaultSliceColor
		}
		out = append(out, Slice{Name: capitalize(key), Value: r.Count, Color: color})
	}
	return out
}

// ListingsByMonth shapes the dashboard bar chart. _id is a month number
// (1-12) or a "YYYY-MM" string.
func ListingsByMonth(rows []models.AggregateRow) []Bar {
	out := make([]Bar, 0, len(rows))
	for _, r := range rows {
		out = append(out, Bar{Label: MonthName(r.ID.String()), Value: r.Count})
	}
	return out
}

// UsersByWeek shapes the new-users line chart from "YYYY-WW" ids.
func UsersByWeek(rows []models.AggregateRow) []Bar {
	out := make([]Bar, 0, len(rows))
	for _, r := range rows {
		week := r.ID.String()
		if _, after, ok := strings.Cut(week, "-"); ok {
			week = after
		}
		out = append(out, Bar{Label: "Week " + week, Value: r.Count})
	}
	return out
}

// AnalyticsBars is shared by the analytics bar charts (booking status,
// property types).
func AnalyticsBars(rows []models.AggregateRow) []Bar {
	out := make([]Bar, 0, len(rows))
	for _, r := range rows {
		out = append(out, Bar{Label: rowName(r), Value: rowValue(r)})
	}
	return out
}

func AnalyticsPie(rows []models.AggregateRow) []Slice {
	out := make([]Slice, 0, len(rows))
	for i, r := range rows {
		out = append(out, Slice{Name: rowName(r), Value: rowValue(r), Color: Palette[i%len(Palette)]})
	}
	return out
}

func AnalyticsLine(rows []models.AggregateRow) []ViewsPoint {
	out := make([]ViewsPoint, 0, len(rows))
	for _, r := range rows {
		date := r.ID.String()
		if date == "" {
			date = r.Date
		}
		if date == "" {
			date = "Unknown"
		}
		out = append(out, ViewsPoint{
			Date:     date,
			Views:    firstNonZero(r.TotalViews, r.Views),
			Listings: firstNonZero(r.ListingsCount, r.Listings),
		})
	}
	return out
}

// MonthName maps "3" or "2024-03" to "Mar". Anything else is returned as is.
func MonthName(id string) string {
	s := id
	if _, after, ok := strings.Cut(id, "-"); ok {
		s = after
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return id
	}
	return monthNames[n-1]
}

func rowName(r models.AggregateRow) string {
	if s := r.ID.String(); s != "" {
		return s
	}
	if r.Name != "" {
		return r.Name
	}
	return "Unknown"
}

func rowValue(r models.AggregateRow) float64 {
	return firstNonZero(r.Count, r.Value)
}

func firstNonZero(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
