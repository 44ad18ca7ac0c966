// internal/testutil/stubapi/server.go
//
// Package stubapi is an in-memory marketplace backend for contract tests.
package stubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"estate-client/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

const (
	CookieName    = "access_token"
	tokenLifetime = time.Hour
)

type ctxKey struct{}

type account struct {
	user     models.User
	password string
}

type tokenClaims struct {
	ID     string `json:"id"`
	Role   string `json:"role"`
	IsDemo bool   `json:"isDemo,omitempty"`
	jwt.RegisteredClaims
}

// Server is a fake backend. All state lives in memory behind one mutex.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	seq           int
	key           []byte
	accounts      map[string]*account // by email
	listings      []models.Listing
	favorites     map[string][]string // user id -> listing ids
	messages      []models.ContactMessage
	bookings      []models.Booking
	notifications []models.Notification
	chats         map[string][]models.ChatMessage
	hits          map[string]int
}

// New starts a stub backend and stops it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		key:       []byte("stub-signing-key"),
		accounts:  make(map[string]*account),
		favorites: make(map[string][]string),
		chats:     make(map[string][]models.ChatMessage),
		hits:      make(map[string]int),
	}
	s.Server = httptest.NewServer(s.Router())
	t.Cleanup(s.Close)
	return s
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.countHits)

	r.HandleFunc("/api/auth/signup", s.signup).Methods("POST")
	r.HandleFunc("/api/auth/login", s.login).Methods("POST")
	r.HandleFunc("/api/auth/demo-login", s.demoLogin).Methods("POST")
	r.Handle("/api/auth/logout", s.requireUser(s.logout)).Methods("POST")
	r.Handle("/api/auth/delete-account", s.requireUser(s.deleteAccount)).Methods("DELETE")

	r.Handle("/api/user/update-profile", s.requireUser(s.updateProfile)).Methods("PUT")
	r.Handle("/api/user/listings/{id}", s.requireUser(s.userListings)).Methods("GET")
	r.Handle("/api/user/favorites", s.requireUser(s.listFavorites)).Methods("GET")
	r.Handle("/api/user/favorites/{listingId}", s.requireUser(s.addFavorite)).Methods("POST")
	r.Handle("/api/user/favorites/{listingId}", s.requireUser(s.removeFavorite)).Methods("DELETE")

	r.Handle("/api/listing/create", s.requireUser(s.createListing)).Methods("POST")
	r.Handle("/api/listing/update/{id}", s.requireUser(s.updateListing)).Methods("PUT")
	r.Handle("/api/listing/delete/{id}", s.requireUser(s.deleteListing)).Methods("DELETE")
	r.HandleFunc("/api/listing/get/{id}", s.getListing).Methods("GET")
	r.HandleFunc("/api/listing/get", s.searchListings).Methods("GET")
	r.HandleFunc("/api/listing/similar/{id}", s.similarListings).Methods("GET")
	r.HandleFunc("/api/listing/popular", s.popularListings).Methods("GET")

	r.Handle("/api/upload", s.requireUser(s.upload)).Methods("POST")

	r.HandleFunc("/api/contact", s.createMessage).Methods("POST")
	r.Handle("/api/contact", s.requireAdmin(s.listMessages)).Methods("GET")
	r.Handle("/api/contact/{id}", s.requireAdmin(s.deleteMessage)).Methods("DELETE")
	r.Handle("/api/contact/{id}/mark-read", s.requireAdmin(s.markMessageRead)).Methods("PUT")

	r.Handle("/api/admin/users", s.requireAdmin(s.listUsers)).Methods("GET")
	r.Handle("/api/admin/users/{id}", s.requireAdmin(s.deleteUser)).Methods("DELETE")
	r.Handle("/api/admin/users/{id}/role", s.requireAdmin(s.updateRole)).Methods("PUT")
	r.Handle("/api/admin/stats", s.requireAdmin(s.stats)).Methods("GET")
	r.Handle("/api/admin/analytics", s.requireAdmin(s.analytics)).Methods("GET")
	r.Handle("/api/admin/listings", s.requireAdmin(s.adminListings)).Methods("GET")
	r.Handle("/api/admin/listings/{id}/approve", s.requireAdmin(s.setListingStatus(models.ListingStatusApproved))).Methods("PUT")
	r.Handle("/api/admin/listings/{id}/reject", s.requireAdmin(s.setListingStatus(models.ListingStatusRejected))).Methods("PUT")

	r.Handle("/api/bookings", s.requireUser(s.createBooking)).Methods("POST")
	r.Handle("/api/bookings/me", s.requireUser(s.myBookings)).Methods("GET")
	r.Handle("/api/bookings/admin", s.requireAdmin(s.allBookings)).Methods("GET")
	r.Handle("/api/bookings/{id}/status", s.requireAdmin(s.updateBookingStatus)).Methods("PUT")

	r.Handle("/api/notifications", s.requireUser(s.listNotifications)).Methods("GET")
	r.Handle("/api/notifications", s.requireAdmin(s.createNotification)).Methods("POST")
	r.Handle("/api/notifications/read-all", s.requireUser(s.readAllNotifications)).Methods("PUT")
	r.Handle("/api/notifications/test", s.requireUser(s.testNotification)).Methods("POST")
	r.Handle("/api/notifications/admin", s.requireAdmin(s.adminNotifications)).Methods("GET")
	r.Handle("/api/notifications/{id}/mark-read", s.requireUser(s.markNotificationRead)).Methods("PUT")
	r.Handle("/api/notifications/{id}", s.requireUser(s.deleteNotification)).Methods("DELETE")

	r.HandleFunc("/api/chatbot/message", s.chatMessage).Methods("POST")
	r.HandleFunc("/api/chatbot/save", s.chatSave).Methods("POST")
	r.HandleFunc("/api/chatbot/history/{sessionId}", s.chatHistory).Methods("GET")

	return r
}

// ==========================
// Test controls
// ==========================

// Hits reports how often a route template was served, e.g.
// "GET /api/listing/get/{id}".
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// AddUser registers an account and returns it with its id filled in.
func (s *Server) AddUser(u models.User, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = s.nextID("usr")
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.accounts[strings.ToLower(u.Email)] = &account{user: u, password: password}
	return u
}

// SeedListings stores listings as given, filling in missing ids.
func (s *Server) SeedListings(listings ...models.Listing) []models.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.ID == "" {
			l.ID = s.nextID("lst")
		}
		if l.Status == "" {
			l.Status = models.ListingStatusApproved
		}
		if l.CreatedAt.IsZero() {
			l.CreatedAt = time.Now().UTC()
		}
		s.listings = append(s.listings, l)
		out = append(out, l)
	}
	return out
}

// FavoriteIDs returns the backend's favorite ids for a user.
func (s *Server) FavoriteIDs(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.favorites[userID]...)
}

// ChatLog returns the saved messages of a chat session.
func (s *Server) ChatLog(sessionID string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.chats[sessionID]...)
}

// Token issues a session token for a registered account.
func (s *Server) Token(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[strings.ToLower(email)]
	if !ok {
		return ""
	}
	tok, _ := s.issueToken(acc.user)
	return tok
}

// ==========================
// Middleware and helpers
// ==========================

func (s *Server) countHits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				s.mu.Lock()
				s.hits[r.Method+" "+tpl]++
				s.mu.Unlock()
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireUser(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.claimsFrom(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	})
}

func (s *Server) requireAdmin(h http.HandlerFunc) http.Handler {
	return s.requireUser(func(w http.ResponseWriter, r *http.Request) {
		c := currentClaims(r)
		if c.Role != string(models.RoleAdmin) && !c.IsDemo {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		h(w, r)
	})
}

func (s *Server) claimsFrom(r *http.Request) (*tokenClaims, error) {
	raw := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		raw = strings.TrimPrefix(h, "Bearer ")
	} else if c, err := r.Cookie(CookieName); err == nil {
		raw = c.Value
	}
	if raw == "" {
		return nil, fmt.Errorf("no token")
	}
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func currentClaims(r *http.Request) *tokenClaims {
	c, _ := r.Context().Value(ctxKey{}).(*tokenClaims)
	return c
}

// issueToken must be called with s.mu held.
func (s *Server) issueToken(u models.User) (string, error) {
	claims := tokenClaims{
		ID:     u.ID,
		Role:   string(u.Role),
		IsDemo: u.IsDemo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// nextID must be called with s.mu held.
func (s *Server) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// accountByID must be called with s.mu held.
func (s *Server) accountByID(id string) (string, *account) {
	for email, acc := range s.accounts {
		if acc.user.ID == id {
			return email, acc
		}
	}
	return "", nil
}

// listingIndex must be called with s.mu held.
func (s *Server) listingIndex(id string) int {
	for i, l := range s.listings {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

func writeOK(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request data")
		return false
	}
	return true
}
