// internal/session/store.go
package session

import (
	"sync"
	"time"

	apperrors "estate-client/internal/common/errors"
	"estate-client/internal/common/logger"
	"estate-client/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// State is the client-side view of the signed-in user.
type State struct {
	User      models.User
	Token     string
	ExpiresAt time.Time
	LoggedAt  time.Time
}

func (s State) IsAdmin() bool { return s.User.Role == models.RoleAdmin }

func (s State) IsDemo() bool { return s.User.IsDemo }

// Claims are the token fields the client reads. The signature is verified
// by the backend, never here.
type Claims struct {
	ID     string `json:"id"`
	Role   string `json:"role,omitempty"`
	IsDemo bool   `json:"isDemo,omitempty"`
	jwt.RegisteredClaims
}

// Store owns the current session. Zero value is not usable; use New.
type Store struct {
	mu      sync.RWMutex
	current *State
	now     func() time.Time
	logger  logger.Logger
	parser  *jwt.Parser
}

func New(log logger.Logger) *Store {
	return &Store{
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"component": "session"}),
		parser: jwt.NewParser(),
	}
}

// Login replaces the session with the user from an auth response.
func (s *Store) Login(resp models.AuthResponse) State {
	st := State{
		User:     resp.User,
		Token:    resp.Token,
		LoggedAt: s.now(),
	}
	if resp.IsDemo {
		st.User.IsDemo = true
	}
	if st.Token != "" {
		if claims, ok := s.parseClaims(st.Token); ok {
			if claims.ExpiresAt != nil {
				st.ExpiresAt = claims.ExpiresAt.Time
			}
			if st.User.ID == "" {
				st.User.ID = claims.ID
			}
			if st.User.Role == "" && claims.Role != "" {
				st.User.Role = models.Role(claims.Role)
			}
			if claims.IsDemo {
				st.User.IsDemo = true
			}
		}
	}

	s.mu.Lock()
	s.current = &st
	s.mu.Unlock()

	s.logger.Info("Session started", map[string]interface{}{
		"userId": st.User.ID,
		"role":   string(st.User.Role),
		"isDemo": st.User.IsDemo,
	})
	return st
}

// UpdateUser refreshes the cached profile after a profile update.
func (s *Store) UpdateUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	// the backend does not echo demo status on profile responses
	u.IsDemo = u.IsDemo || s.current.User.IsDemo
	s.current.User = u
}

// Logout clears the session.
func (s *Store) Logout() {
	s.mu.Lock()
	had := s.current != nil
	s.current = nil
	s.mu.Unlock()
	if had {
		s.logger.Info("Session cleared", nil)
	}
}

// Current returns a copy of the session, or false when signed out or expired.
func (s *Store) Current() (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return State{}, false
	}
	if !s.current.ExpiresAt.IsZero() && !s.now().Before(s.current.ExpiresAt) {
		return State{}, false
	}
	return *s.current, true
}

// Token implements the HTTP client's token source.
func (s *Store) Token() string {
	st, ok := s.Current()
	if !ok {
		return ""
	}
	return st.Token
}

// Scope keys cached responses per user.
func (s *Store) Scope() string {
	st, ok := s.Current()
	if !ok {
		return "anon"
	}
	return st.User.ID
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

func (s *Store) IsAdmin() bool {
	st, ok := s.Current()
	return ok && st.IsAdmin()
}

// CanAccessAdmin admits admins and demo users (demo sees the dashboard read-only).
func (s *Store) CanAccessAdmin() bool {
	st, ok := s.Current()
	return ok && (st.IsAdmin() || st.IsDemo())
}

// RequireUser fails when nobody is signed in.
func (s *Store) RequireUser(action string) (State, error) {
	st, ok := s.Current()
	if !ok {
		return State{}, apperrors.NewNotAuthenticatedError(action)
	}
	return st, nil
}

// RequireAdminView gates admin screens.
func (s *Store) RequireAdminView(action string) error {
	st, err := s.RequireUser(action)
	if err != nil {
		return err
	}
	if !st.IsAdmin() && !st.IsDemo() {
		return apperrors.NewForbiddenError(action)
	}
	return nil
}

// RequireMutable rejects demo users before a state-changing call.
func (s *Store) RequireMutable(action string) error {
	st, err := s.RequireUser(action)
	if err != nil {
		return err
	}
	if st.IsDemo() {
		return apperrors.NewDemoReadOnlyError(action)
	}
	return nil
}

func (s *Store) parseClaims(token string) (*Claims, bool) {
	claims := &Claims{}
	if _, _, err := s.parser.ParseUnverified(token, claims); err != nil {
		s.logger.Debug("Token is not a JWT, expiry unknown", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return claims, true
}
