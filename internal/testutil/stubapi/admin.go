// internal/testutil/stubapi/admin.go
package stubapi

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"estate-client/internal/models"

	"github.com/gorilla/mux"
)

func (s *Server) createMessage(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := models.ContactMessage{
		ID:            s.nextID("msg"),
		Name:          req.Name,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		Subject:       req.Subject,
		Message:       req.Message,
		ListingID:     req.ListingID,
		Status:        "unread",
		CreatedAt:     time.Now().UTC(),
	}
	s.messages = append(s.messages, m)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "message": "Message sent", "data": m})
}

func (s *Server) listMessages(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]models.ContactMessage{}, s.messages...))
}

func (s *Server) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			writeOK(w, "Message deleted")
			return
		}
	}
	writeError(w, http.StatusNotFound, "Message not found")
}

func (s *Server) markMessageRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Status = "read"
			writeJSON(w, http.StatusOK, s.messages[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Message not found")
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	users := make([]models.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, acc.user)
	}
	s.mu.Unlock()
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	email, acc := s.accountByID(id)
	if acc == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	delete(s.accounts, email)
	delete(s.favorites, id)
	writeOK(w, "User deleted")
}

func (s *Server) updateRole(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req models.RoleUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, acc := s.accountByID(id)
	if acc == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	acc.user.Role = req.Role
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) stats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byType := map[string]float64{}
	byMonth := map[int]float64{}
	for _, l := range s.listings {
		byType[string(l.Type)]++
		byMonth[int(l.CreatedAt.Month())]++
	}
	byWeek := map[string]float64{}
	for _, acc := range s.accounts {
		y, wk := acc.user.CreatedAt.ISOWeek()
		byWeek[isoWeekKey(y, wk)]++
	}

	writeJSON(w, http.StatusOK, models.Stats{
		TotalUsers:      len(s.accounts),
		TotalListings:   len(s.listings),
		TotalBookings:   len(s.bookings),
		TotalMessages:   len(s.messages),
		ListingsByType:  rowsByName(byType),
		ListingsByMonth: rowsByMonth(byMonth),
		UsersByMonth:    rowsByName(byWeek),
	})
}

func (s *Server) analytics(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	top := append([]models.Listing(nil), s.listings...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Views > top[j].Views })
	if len(top) > 5 {
		top = top[:5]
	}

	byStatus := map[string]float64{}
	for _, b := range s.bookings {
		byStatus[string(b.Status)]++
	}
	byType := map[string]float64{}
	views := map[string]float64{}
	for _, l := range s.listings {
		byType[string(l.Type)]++
		views[l.CreatedAt.Format("2006-01-02")] += float64(l.Views)
	}
	viewsOverTime := make([]models.AggregateRow, 0, len(views))
	for _, row := range rowsByName(views) {
		viewsOverTime = append(viewsOverTime, models.AggregateRow{ID: row.ID, Date: string(row.ID), Views: row.Count})
	}

	writeJSON(w, http.StatusOK, models.Analytics{
		TopListings:       top,
		ViewsOverTime:     viewsOverTime,
		UserEngagement:    []models.AggregateRow{},
		BookingStats:      rowsByName(byStatus),
		PropertyTypeStats: rowsByName(byType),
	})
}

func (s *Server) adminListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	all := append([]models.Listing(nil), s.listings...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"listings": page(all, q.Get("limit"), q.Get("startIndex"), 50),
		"total":    len(all),
	})
}

func (s *Server) setListingStatus(status models.ListingStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		s.mu.Lock()
		defer s.mu.Unlock()
		i := s.listingIndex(id)
		if i < 0 {
			writeError(w, http.StatusNotFound, "Listing not found")
			return
		}
		s.listings[i].Status = status
		s.listings[i].UpdatedAt = time.Now().UTC()
		writeJSON(w, http.StatusOK, s.listings[i])
	}
}

func isoWeekKey(year, week int) string {
	return strings.Join([]string{itoa(year), itoa(week)}, "-")
}

func rowsByName(counts map[string]float64) []models.AggregateRow {
	out := make([]models.AggregateRow, 0, len(counts))
	for k, v := range counts {
		out = append(out, models.AggregateRow{ID: models.FlexID(k), Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func rowsByMonth(counts map[int]float64) []models.AggregateRow {
	out := make([]models.AggregateRow, 0, len(counts))
	for m, v := range counts {
		out = append(out, models.AggregateRow{ID: models.FlexID(itoa(m)), Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := out[i].ID.Int()
		b, _ := out[j].ID.Int()
		return a < b
	})
	return out
}
