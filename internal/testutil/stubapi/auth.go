// internal/testutil/stubapi/auth.go
package stubapi

import (
	"net/http"
	"strings"
	"time"

	"estate-client/internal/models"
)

const demoEmail = "demo@estate.test"

func (s *Server) startSession(w http.ResponseWriter, status int, u models.User) {
	tok, err := s.issueToken(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: tok, Path: "/", HttpOnly: true})
	writeJSON(w, status, map[string]interface{}{"user": u, "token": tok, "isDemo": u.IsDemo})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(req.Email)
	if _, exists := s.accounts[key]; exists {
		writeError(w, http.StatusConflict, "User already exists")
		return
	}
	u := models.User{ID: s.nextID("usr"), Username: req.Username, Email: req.Email, Role: models.RoleUser, CreatedAt: time.Now().UTC()}
	s.accounts[key] = &account{user: u, password: req.Password}
	s.startSession(w, http.StatusCreated, u)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[strings.ToLower(req.Email)]
	if !ok || acc.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.startSession(w, http.StatusOK, acc.user)
}

func (s *Server) demoLogin(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[demoEmail]
	if !ok {
		u := models.User{ID: s.nextID("usr"), Username: "demo", Email: demoEmail, Role: models.RoleUser, IsDemo: true, CreatedAt: time.Now().UTC()}
		acc = &account{user: u}
		s.accounts[demoEmail] = acc
	}
	s.startSession(w, http.StatusOK, acc.user)
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
	writeOK(w, "Logged out")
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	c := currentClaims(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	email, acc := s.accountByID(c.ID)
	if acc == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	delete(s.accounts, email)
	delete(s.favorites, c.ID)
	writeOK(w, "Account deleted")
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	c := currentClaims(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	email, acc := s.accountByID(c.ID)
	if acc == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if req.Username != "" {
		acc.user.Username = req.Username
	}
	if req.Avatar != "" {
		acc.user.Avatar = req.Avatar
	}
	if req.Password != "" {
		acc.password = req.Password
	}
	if req.Email != "" && !strings.EqualFold(req.Email, email) {
		if _, taken := s.accounts[strings.ToLower(req.Email)]; taken {
			writeError(w, http.StatusConflict, "Email already in use")
			return
		}
		delete(s.accounts, email)
		acc.user.Email = req.Email
		s.accounts[strings.ToLower(req.Email)] = acc
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": acc.user})
}
