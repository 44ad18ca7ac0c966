package registry

import (
	"fmt"
	"net/url"
	"strings"
)

// Tag labels a family of cached query results.
type Tag string

const (
	TagListings      Tag = "Listings"
	TagUser          Tag = "User"
	TagMessages      Tag = "Messages"
	TagBookings      Tag = "Bookings"
	TagNotifications Tag = "Notifications"
	TagFavorites     Tag = "Favorites"
	TagChat          Tag = "Chat"
)

// Access is the minimum session needed to call an endpoint.
type Access string

const (
	AccessPublic Access = "public"
	AccessUser   Access = "user"
	AccessAdmin  Access = "admin"
)

type EndpointRegistry struct {
	Version   string     `json:"version"`
	Endpoints []Endpoint `json:"endpoints"`
}

// Endpoint describes one backend operation. Queries list the tags they
// provide; mutations list the tags they invalidate.
type Endpoint struct {
	Name        string `json:"name"`
	Group       string `json:"group"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Access      Access `json:"access"`
	Multipart   bool   `json:"multipart,omitempty"`
	DemoBlocked bool   `json:"demoBlocked,omitempty"`
	Provides    []Tag  `json:"provides,omitempty"`
	Invalidates []Tag  `json:"invalidates,omitempty"`
}

// IsQuery reports whether results may be cached.
func (e Endpoint) IsQuery() bool {
	return e.Method == "GET"
}

// BuildPath substitutes {placeholders} in order with escaped params.
func (e Endpoint) BuildPath(params ...string) (string, error) {
	var b strings.Builder
	rest := e.Path
	i := 0
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("endpoint %s: unterminated placeholder in %q", e.Name, e.Path)
		}
		if i >= len(params) {
			return "", fmt.Errorf("endpoint %s: missing value for %s", e.Name, rest[open:open+end+1])
		}
		if params[i] == "" {
			return "", fmt.Errorf("endpoint %s: empty value for %s", e.Name, rest[open:open+end+1])
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(params[i]))
		rest = rest[open+end+1:]
		i++
	}
	if i != len(params) {
		return "", fmt.Errorf("endpoint %s: %d params given, %d used", e.Name, len(params), i)
	}
	return b.String(), nil
}
