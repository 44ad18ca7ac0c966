// internal/testutil/stubapi/activity.go
package stubapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"estate-client/internal/models"

	"github.com/gorilla/mux"
)

func itoa(n int) string { return strconv.Itoa(n) }

// ==========================
// Bookings
// ==========================

func (s *Server) createBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c := currentClaims(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.listingIndex(req.ListingID)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Listing not found")
		return
	}
	_, acc := s.accountByID(c.ID)
	if acc == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	l := s.listings[i]
	b := models.Booking{
		ID:          s.nextID("bkg"),
		Listing:     models.BookingListing{ID: l.ID, Name: l.Name, Address: l.Address, Images: l.Images},
		User:        models.BookingUser{ID: acc.user.ID, Username: acc.user.Username, Email: acc.user.Email},
		ScheduledAt: req.ScheduledAt,
		Note:        req.Note,
		Status:      models.BookingPending,
		CreatedAt:   time.Now().UTC(),
	}
	s.bookings = append(s.bookings, b)
	s.notify(l.UserRef, "booking", "New tour request", acc.user.Username+" requested a tour of "+l.Name)
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) myBookings(w http.ResponseWriter, r *http.Request) {
	c := currentClaims(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Booking{}
	for _, b := range s.bookings {
		if b.User.ID == c.ID {
			out = append(out, b)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) allBookings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]models.Booking{}, s.bookings...))
}

func (s *Server) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req models.BookingStatusUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Status = req.Status
			s.notify(s.bookings[i].User.ID, "booking", "Booking "+string(req.Status), "Your tour of "+s.bookings[i].Listing.Name+" is "+string(req.Status))
			writeJSON(w, http.StatusOK, s.bookings[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Booking not found")
}

// ==========================
// Notifications
// ==========================

// notify must be called with s.mu held.
func (s *Server) notify(userID, typ, title, message string) models.Notification {
	n := models.Notification{
		ID:        s.nextID("ntf"),
		User:      userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	s.notifications = append(s.notifications, n)
	return n
}

func (s *Server) notificationPage(w http.ResponseWriter, r *http.Request, keep func(models.Notification) bool, defaultLimit int) {
	s.mu.Lock()
	matched := []models.Notification{}
	unread := 0
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if !keep(n) {
			continue
		}
		matched = append(matched, n)
		if !n.Read {
			unread++
		}
	}
	s.mu.Unlock()

	q := r.URL.Query()
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	pg, err := strconv.Atoi(q.Get("page"))
	if err != nil || pg < 1 {
		pg = 1
	}
	writeJSON(w, http.StatusOK, models.NotificationPage{
		Notifications: page(matched, itoa(limit), itoa((pg-1)*limit), limit),
		UnreadCount:   unread,
		Total:         len(matched),
		Page:          pg,
		Pages:         (len(matched) + limit - 1) / limit,
	})
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	c := currentClaims(r)
	s.notificationPage(w, r, func(n models.Notification) bool { return n.User == c.ID }, 20)
}

func (s *Server) adminNotifications(w http.ResponseWriter, r *http.Request) {
	s.notificationPage(w, r, func(models.Notification) bool { return true }, 50)
}

func (s *Server) createNotification(w http.ResponseWriter, r *http.Request) {
	var req models.NotificationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.UserID == "" {
		for _, acc := range s.accounts {
			s.notify(acc.user.ID, req.Type, req.Title, req.Message)
		}
		writeOK(w, "Notification broadcast")
		return
	}
	writeJSON(w, http.StatusCreated, s.notify(req.UserID, req.Type, req.Title, req.Message))
}

func (s *Server) testNotification(w http.ResponseWriter, r *http.Request) {
	c := currentClaims(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusCreated, s.notify(c.ID, "info", "Test notification", "Notifications are working"))
}

func (s *Server) readAllNotifications(w http.ResponseWriter, r *http.Request) {
	c := currentClaims(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].User == c.ID {
			s.notifications[i].Read = true
		}
	}
	writeOK(w, "All notifications marked as read")
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	s.withNotification(w, r, func(i int) {
		s.notifications[i].Read = true
		writeJSON(w, http.StatusOK, s.notifications[i])
	})
}

func (s *Server) deleteNotification(w http.ResponseWriter, r *http.Request) {
	s.withNotification(w, r, func(i int) {
		s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
		writeOK(w, "Notification deleted")
	})
}

func (s *Server) withNotification(w http.ResponseWriter, r *http.Request, fn func(int)) {
	id := mux.Vars(r)["id"]
	c := currentClaims(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.ID == id && n.User == c.ID {
			fn(i)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Notification not found")
}

// ==========================
// Chatbot
// ==========================

func (s *Server) chatMessage(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	text := strings.ToLower(req.Message)

	s.mu.Lock()
	matches := []models.Listing{}
	for _, l := range s.listings {
		if l.Status != models.ListingStatusApproved {
			continue
		}
		if strings.Contains(text, string(l.Type)) || strings.Contains(text, strings.ToLower(l.Name)) {
			matches = append(matches, l)
		}
	}
	s.mu.Unlock()
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].RegularPrice < matches[j].RegularPrice })
	if len(matches) > 3 {
		matches = matches[:3]
	}

	reply := "I can help you find homes to rent or buy. Try asking for a rental."
	if len(matches) > 0 {
		reply = "Here are some properties you might like."
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reply": reply, "properties": matches})
}

func (s *Server) chatSave(w http.ResponseWriter, r *http.Request) {
	var req models.ChatSaveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[req.SessionID] = append(s.chats[req.SessionID], models.ChatMessage{
		SessionID: req.SessionID,
		Sender:    req.Sender,
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	})
	writeOK(w, "Message saved")
}

func (s *Server) chatHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionId": id,
		"messages":  append([]models.ChatMessage{}, s.chats[id]...),
	})
}
