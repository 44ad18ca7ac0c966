// internal/recommend/profile.go
package recommend

import (
	"strconv"
	"strings"

	"estate-client/internal/models"
)

const (
	defaultPreferredType  = "house"
	defaultPreferredRooms = 2
	defaultLocation       = "Unknown"
	defaultPriceCeiling   = 1000000
)

// counter tallies values in first-seen order. Ties resolve to the latest
// value seen.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter { return &counter{counts: make(map[string]int)} }

func (c *counter) add(v string) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *counter) top(fallback string) string {
	best, bestN := fallback, 0
	for _, v := range c.order {
		if c.counts[v] >= bestN && c.counts[v] > 0 {
			best, bestN = v, c.counts[v]
		}
	}
	return best
}

// topInt is top for room counts, where ties resolve to the larger count.
// A winning zero falls back too.
func (c *counter) topInt(fallback int) int {
	best, bestN := 0, 0
	for _, v := range c.order {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		if cnt := c.counts[v]; cnt > bestN || (cnt == bestN && n > best) {
			best, bestN = n, cnt
		}
	}
	if best == 0 {
		return fallback
	}
	return best
}

// InferProfile builds a preference profile from favorited listings. It
// returns nil when there are no favorites.
func InferProfile(favorites []models.Listing) *Profile {
	if len(favorites) == 0 {
		return nil
	}

	types, beds, baths, locations := newCounter(), newCounter(), newCounter(), newCounter()
	minPrice, maxPrice := 0.0, 0.0
	for i, l := range favorites {
		if l.Type != "" {
			types.add(string(l.Type))
		}
		beds.add(strconv.Itoa(l.Beds))
		baths.add(strconv.Itoa(l.Baths))
		if loc := addressLocality(l.Address); loc != "" {
			locations.add(loc)
		}
		if i == 0 || l.RegularPrice < minPrice {
			minPrice = l.RegularPrice
		}
		if l.RegularPrice > maxPrice {
			maxPrice = l.RegularPrice
		}
	}
	if maxPrice == 0 {
		maxPrice = defaultPriceCeiling
	}

	return &Profile{
		PreferredType:      types.top(defaultPreferredType),
		PriceRange:         PriceRange{Min: minPrice, Max: maxPrice},
		PreferredBedrooms:  beds.topInt(defaultPreferredRooms),
		PreferredBathrooms: baths.topInt(defaultPreferredRooms),
		PreferredLocation:  locations.top(defaultLocation),
		Confidence:         min(95, 60+5*len(favorites)),
	}
}

// addressLocality returns the second comma-separated segment of an address.
func addressLocality(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
