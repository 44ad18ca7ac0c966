package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Endpoint names used by the API client.
const (
	AuthSignup        = "auth.signup"
	AuthLogin         = "auth.login"
	AuthLogout        = "auth.logout"
	AuthDemoLogin     = "auth.demoLogin"
	AuthDeleteAccount = "auth.deleteAccount"

	UserUpdateProfile  = "user.updateProfile"
	UserListings       = "user.listings"
	UserFavorites      = "user.favorites"
	UserFavoriteAdd    = "user.favoriteAdd"
	UserFavoriteRemove = "user.favoriteRemove"

	ListingCreate  = "listing.create"
	ListingUpdate  = "listing.update"
	ListingDelete  = "listing.delete"
	ListingGet     = "listing.get"
	ListingSearch  = "listing.search"
	ListingSimilar = "listing.similar"
	ListingPopular = "listing.popular"

	UploadImages = "upload.images"

	ContactCreate   = "contact.create"
	ContactList     = "contact.list"
	ContactDelete   = "contact.delete"
	ContactMarkRead = "contact.markRead"

	AdminUsers          = "admin.users"
	AdminDeleteUser     = "admin.deleteUser"
	AdminUpdateRole     = "admin.updateRole"
	AdminStats          = "admin.stats"
	AdminAnalytics      = "admin.analytics"
	AdminListings       = "admin.listings"
	AdminApproveListing = "admin.approveListing"
	AdminRejectListing  = "admin.rejectListing"

	BookingCreate       = "bookings.create"
	BookingMine         = "bookings.mine"
	BookingAll          = "bookings.admin"
	BookingUpdateStatus = "bookings.updateStatus"

	NotificationList     = "notifications.list"
	NotificationMarkRead = "notifications.markRead"
	NotificationReadAll  = "notifications.readAll"
	NotificationDelete   = "notifications.delete"
	NotificationCreate   = "notifications.create"
	NotificationTest     = "notifications.test"
	NotificationAdmin    = "notifications.admin"

	ChatSave    = "chatbot.save"
	ChatHistory = "chatbot.history"
	ChatMessage = "chatbot.message"
)

// Registry indexes endpoints by name.
type Registry struct {
	version   string
	endpoints map[string]Endpoint
}

// Default returns the built-in endpoint table for the marketplace backend.
func Default() *Registry {
	r, _ := New(EndpointRegistry{Version: "1", Endpoints: defaultEndpoints()})
	return r
}

// LoadRegistry reads an endpoint table from a JSON file, e.g. to point the
// client at a backend with different paths.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg EndpointRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse endpoint registry %s: %w", path, err)
	}
	return New(reg)
}

func New(reg EndpointRegistry) (*Registry, error) {
	r := &Registry{version: reg.Version, endpoints: make(map[string]Endpoint, len(reg.Endpoints))}
	for _, e := range reg.Endpoints {
		if e.Name == "" || e.Method == "" || e.Path == "" {
			return nil, fmt.Errorf("endpoint %q: name, method and path are required", e.Name)
		}
		if _, dup := r.endpoints[e.Name]; dup {
			return nil, fmt.Errorf("duplicate endpoint %q", e.Name)
		}
		if e.IsQuery() && len(e.Invalidates) > 0 {
			return nil, fmt.Errorf("endpoint %q: queries cannot invalidate tags", e.Name)
		}
		if e.Access == "" {
			e.Access = AccessPublic
		}
		r.endpoints[e.Name] = e
	}
	return r, nil
}

func (r *Registry) Version() string { return r.version }

func (r *Registry) Lookup(name string) (Endpoint, bool) {
	e, ok := r.endpoints[name]
	return e, ok
}

// MustLookup panics on unknown names; names are compile-time constants.
func (r *Registry) MustLookup(name string) Endpoint {
	e, ok := r.endpoints[name]
	if !ok {
		panic(fmt.Sprintf("registry: unknown endpoint %q", name))
	}
	return e
}

// Names returns endpoint names sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Table returns the endpoint table sorted by name, ready to be written
// back to a JSON file.
func (r *Registry) Table() EndpointRegistry {
	out := EndpointRegistry{Version: r.version, Endpoints: make([]Endpoint, 0, len(r.endpoints))}
	for _, name := range r.Names() {
		out.Endpoints = append(out.Endpoints, r.endpoints[name])
	}
	return out
}

// ProvidersOf lists query endpoints that provide tag.
func (r *Registry) ProvidersOf(tag Tag) []string {
	var out []string
	for _, name := range r.Names() {
		for _, t := range r.endpoints[name].Provides {
			if t == tag {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

func tags(t ...Tag) []Tag { return t }

func defaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: AuthSignup, Group: "auth", Method: "POST", Path: "/api/auth/signup"},
		{Name: AuthLogin, Group: "auth", Method: "POST", Path: "/api/auth/login"},
		{Name: AuthLogout, Group: "auth", Method: "POST", Path: "/api/auth/logout", Access: AccessUser},
		{Name: AuthDemoLogin, Group: "auth", Method: "POST", Path: "/api/auth/demo-login"},
		{Name: AuthDeleteAccount, Group: "auth", Method: "DELETE", Path: "/api/auth/delete-account", Access: AccessUser, DemoBlocked: true, Invalidates: tags(TagUser)},

		{Name: UserUpdateProfile, Group: "user", Method: "PUT", Path: "/api/user/update-profile", Access: AccessUser, DemoBlocked: true, Invalidates: tags(TagUser)},
		{Name: UserListings, Group: "user", Method: "GET", Path: "/api/user/listings/{id}", Access: AccessUser, Provides: tags(TagListings)},
		{Name: UserFavorites, Group: "user", Method: "GET", Path: "/api/user/favorites", Access: AccessUser, Provides: tags(TagFavorites)},
		{Name: UserFavoriteAdd, Group: "user", Method: "POST", Path: "/api/user/favorites/{listingId}", Access: AccessUser, Invalidates: tags(TagFavorites)},
		{Name: UserFavoriteRemove, Group: "user", Method: "DELETE", Path: "/api/user/favorites/{listingId}", Access: AccessUser, Invalidates: tags(TagFavorites)},

		{Name: ListingCreate, Group: "listing", Method: "POST", Path: "/api/listing/create", Access: AccessUser, DemoBlocked: true, Invalidates: tags(TagListings)},
		{Name: ListingUpdate, Group: "listing", Method: "PUT", Path: "/api/listing/update/{id}", Access: AccessUser, DemoBlocked: true, Invalidates: tags(TagListings)},
		{Name: ListingDelete, Group: "listing", Method: "DELETE", Path: "/api/listing/delete/{id}", Access: AccessUser, DemoBlocked: true, Invalidates: tags(TagListings)},
		{Name: ListingGet, Group: "listing", Method: "GET", Path: "/api/listing/get/{id}", Provides: tags(TagListings)},
		{Name: ListingSearch, Group: "listing", Method: "GET", Path: "/api/listing/get", Provides: tags(TagListings)},
		{Name: ListingSimilar, Group: "listing", Method: "GET", Path: "/api/listing/similar/{id}", Provides: tags(TagListings)},
		{Name: ListingPopular, Group: "listing", Method: "GET", Path: "/api/listing/popular", Provides: tags(TagListings)},

		{Name: UploadImages, Group: "upload", Method: "POST", Path: "/api/upload", Access: AccessUser, Multipart: true, DemoBlocked: true},

		{Name: ContactCreate, Group: "contact", Method: "POST", Path: "/api/contact", Invalidates: tags(TagMessages)},
		{Name: ContactList, Group: "contact", Method: "GET", Path: "/api/contact", Access: AccessAdmin, Provides: tags(TagMessages)},
		{Name: ContactDelete, Group: "contact", Method: "DELETE", Path: "/api/contact/{id}", Access: AccessAdmin, DemoBlocked: true, Invalidates: tags(TagMessages)},
		{Name: ContactMarkRead, Group: "contact", Method: "PUT", Path: "/api/contact/{id}/mark-read", Access: AccessAdmin, Invalidates: tags(TagMessages)},

		{Name: AdminUsers, Group: "admin", Method: "GET", Path: "/api/admin/users", Access: AccessAdmin, Provides: tags(TagUser)},
		{Name: AdminDeleteUser, Group: "admin", Method: "DELETE", Path: "/api/admin/users/{id}", Access: AccessAdmin, DemoBlocked: true, Invalidates: tags(TagUser)},
		{Name: AdminUpdateRole, Group: "admin", Method: "PUT", Path: "/api/admin/users/{id}/role", Access: AccessAdmin, DemoBlocked: true, Invalidates: tags(TagUser)},
		{Name: AdminStats, Group: "admin", Method: "GET", Path: "/api/admin/stats", Access: AccessAdmin, Provides: tags(TagListings, TagUser)},
		{Name: AdminAnalytics, Group: "admin", Method: "GET", Path: "/api/admin/analytics", Access: AccessAdmin, Provides: tags(TagListings, TagUser, TagBookings)},
		{Name: AdminListings, Group: "admin", Method: "GET", Path: "/api/admin/listings", Access: AccessAdmin, Provides: tags(TagListings)},
		{Name: AdminApproveListing, Group: "admin", Method: "PUT", Path: "/api/admin/listings/{id}/approve", Access: AccessAdmin, DemoBlocked: true, Invalidates: tags(TagListings)},
		{Name: AdminRejectListing, Group: "admin", Method: "PUT", Path: "/api/admin/listings/{id}/reject", Access: AccessAdmin, DemoBlocked: true, Invalidates: tags(TagListings)},

		{Name: BookingCreate, Group: "bookings", Method: "POST", Path: "/api/bookings", Access: AccessUser, Invalidates: tags(TagBookings)},
		{Name: BookingMine, Group: "bookings", Method: "GET", Path: "/api/bookings/me", Access: AccessUser, Provides: tags(TagBookings)},
		{Name: BookingAll, Group: "bookings", Method: "GET", Path: "/api/bookings/admin", Access: AccessAdmin, Provides: tags(TagBookings)},
		{Name: BookingUpdateStatus, Group: "bookings", Method: "PUT", Path: "/api/bookings/{id}/status", Access: AccessAdmin, DemoBlocked: true, Invalidates: tags(TagBookings)},

		{Name: NotificationList, Group: "notifications", Method: "GET", Path: "/api/notifications", Access: AccessUser, Provides: tags(TagNotifications)},
		{Name: NotificationMarkRead, Group: "notifications", Method: "PUT", Path: "/api/notifications/{id}/mark-read", Access: AccessUser, Invalidates: tags(TagNotifications)},
		{Name: NotificationReadAll, Group: "notifications", Method: "PUT", Path: "/api/notifications/read-all", Access: AccessUser, Invalidates: tags(TagNotifications)},
		{Name: NotificationDelete, Group: "notifications", Method: "DELETE", Path: "/api/notifications/{id}", Access: AccessUser, Invalidates: tags(TagNotifications)},
		{Name: NotificationCreate, Group: "notifications", Method: "POST", Path: "/api/notifications", Access: AccessAdmin, DemoBlocked: true, Invalidates: tags(TagNotifications)},
		{Name: NotificationTest, Group: "notifications", Method: "POST", Path: "/api/notifications/test", Access: AccessUser, Invalidates: tags(TagNotifications)},
		{Name: NotificationAdmin, Group: "notifications", Method: "GET", Path: "/api/notifications/admin", Access: AccessAdmin, Provides: tags(TagNotifications)},

		{Name: ChatSave, Group: "chatbot", Method: "POST", Path: "/api/chatbot/save", Invalidates: tags(TagChat)},
		{Name: ChatHistory, Group: "chatbot", Method: "GET", Path: "/api/chatbot/history/{sessionId}", Provides: tags(TagChat)},
		{Name: ChatMessage, Group: "chatbot", Method: "POST", Path: "/api/chatbot/message"},
	}
}
