// internal/testutil/stubapi/listings.go
package stubapi

import (
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"estate-client/internal/models"

	"github.com/gorilla/mux"
)

const maxUploadMemory = 8 << 20

func (s *Server) createListing(w http.ResponseWriter, r *http.Request) {
	var in models.ListingInput
	if !decodeBody(w, r, &in) {
		return
	}
	c := currentClaims(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	l := listingFromInput(in)
	l.ID = s.nextID("lst")
	l.UserRef = c.ID
	l.Status = models.ListingStatusPending
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt
	s.listings = append(s.listings, l)
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) updateListing(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var (
		in     models.ListingInput
		images []string
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid form")
			return
		}
		in = inputFromForm(r)
		for _, fh := range r.MultipartForm.File["images"] {
			images = append(images, "/uploads/"+path.Base(fh.Filename))
		}
	} else if !decodeBody(w, r, &in) {
		return
	}
	c := currentClaims(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.listingIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Listing not found")
		return
	}
	old := s.listings[i]
	if old.UserRef != c.ID && c.Role != string(models.RoleAdmin) {
		writeError(w, http.StatusForbidden, "You can only update your own listings")
		return
	}
	l := listingFromInput(in)
	l.ID, l.UserRef, l.Status, l.Views, l.CreatedAt = old.ID, old.UserRef, old.Status, old.Views, old.CreatedAt
	if len(l.Images) == 0 {
		l.Images = old.Images
	}
	l.Images = append(l.Images, images...)
	l.UpdatedAt = time.Now().UTC()
	s.listings[i] = l
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) deleteListing(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c := currentClaims(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.listingIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Listing not found")
		return
	}
	if s.listings[i].UserRef != c.ID && c.Role != string(models.RoleAdmin) {
		writeError(w, http.StatusForbidden, "You can only delete your own listings")
		return
	}
	s.listings = append(s.listings[:i], s.listings[i+1:]...)
	writeOK(w, "Listing has been deleted")
}

func (s *Server) getListing(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.listingIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Listing not found")
		return
	}
	s.listings[i].Views++
	writeJSON(w, http.StatusOK, s.listings[i])
}

func (s *Server) searchListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term := strings.ToLower(q.Get("searchTerm"))
	typ := q.Get("type")

	s.mu.Lock()
	matched := make([]models.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if l.Status == models.ListingStatusRejected {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(l.Name), term) {
			continue
		}
		if typ != "" && typ != "all" && string(l.Type) != typ {
			continue
		}
		if q.Get("offer") == "true" && !l.Offer {
			continue
		}
		if q.Get("parking") == "true" && !l.Parking {
			continue
		}
		if q.Get("furnished") == "true" && !l.Furnished {
			continue
		}
		matched = append(matched, l)
	}
	s.mu.Unlock()

	sortListings(matched, q.Get("sort"), q.Get("order"))
	writeJSON(w, http.StatusOK, page(matched, q.Get("limit"), q.Get("startIndex"), 9))
}

func (s *Server) similarListings(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.listingIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Listing not found")
		return
	}
	out := []models.Listing{}
	for _, l := range s.listings {
		if l.ID != id && l.Type == s.listings[i].Type && len(out) < 4 {
			out = append(out, l)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) popularListings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]models.Listing(nil), s.listings...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if len(out) > 6 {
		out = out[:6]
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"listings": out, "total": len(out)})
}

func (s *Server) userListings(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c := currentClaims(r)
	if id != c.ID && c.Role != string(models.RoleAdmin) {
		writeError(w, http.StatusForbidden, "You can only view your own listings")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Listing{}
	for _, l := range s.listings {
		if l.UserRef == id {
			out = append(out, l)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No images uploaded")
		return
	}
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		paths = append(paths, "/uploads/"+path.Base(fh.Filename))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"paths": paths})
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	c := currentClaims(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Listing{}
	for _, id := range s.favorites[c.ID] {
		if i := s.listingIndex(id); i >= 0 {
			out = append(out, s.listings[i])
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"favorites": out})
}

func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["listingId"]
	c := currentClaims(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listingIndex(id) < 0 {
		writeError(w, http.StatusNotFound, "Listing not found")
		return
	}
	for _, fav := range s.favorites[c.ID] {
		if fav == id {
			writeError(w, http.StatusConflict, "Property is already in favorites")
			return
		}
	}
	s.favorites[c.ID] = append(s.favorites[c.ID], id)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "message": "Property added to favorites"})
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["listingId"]
	c := currentClaims(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	favs := s.favorites[c.ID]
	for i, fav := range favs {
		if fav == id {
			s.favorites[c.ID] = append(favs[:i], favs[i+1:]...)
			writeOK(w, "Property removed from favorites")
			return
		}
	}
	writeError(w, http.StatusNotFound, "Favorite not found")
}

func listingFromInput(in models.ListingInput) models.Listing {
	return models.Listing{
		Name:            in.Name,
		Description:     in.Description,
		Address:         in.Address,
		RegularPrice:    in.RegularPrice,
		DiscountedPrice: in.DiscountedPrice,
		Beds:            in.Beds,
		Baths:           in.Baths,
		Furnished:       in.Furnished,
		Parking:         in.Parking,
		Offer:           in.Offer,
		Type:            in.Type,
		Images:          in.Images,
	}
}

func inputFromForm(r *http.Request) models.ListingInput {
	num := func(k string) float64 {
		f, _ := strconv.ParseFloat(r.FormValue(k), 64)
		return f
	}
	flag := func(k string) bool {
		b, _ := strconv.ParseBool(r.FormValue(k))
		return b
	}
	return models.ListingInput{
		Name:            r.FormValue("name"),
		Description:     r.FormValue("description"),
		Address:         r.FormValue("address"),
		RegularPrice:    num("regularPrice"),
		DiscountedPrice: num("discountedPrice"),
		Beds:            int(num("beds")),
		Baths:           int(num("baths")),
		Furnished:       flag("furnished"),
		Parking:         flag("parking"),
		Offer:           flag("offer"),
		Type:            models.ListingType(r.FormValue("type")),
	}
}

func sortListings(ls []models.Listing, field, order string) {
	desc := order != "asc"
	less := func(i, j int) bool {
		if field == "regularPrice" {
			if desc {
				return ls[i].RegularPrice > ls[j].RegularPrice
			}
			return ls[i].RegularPrice < ls[j].RegularPrice
		}
		if desc {
			return ls[i].CreatedAt.After(ls[j].CreatedAt)
		}
		return ls[i].CreatedAt.Before(ls[j].CreatedAt)
	}
	sort.SliceStable(ls, less)
}

func page[T any](items []T, limitRaw, startRaw string, defaultLimit int) []T {
	limit, err := strconv.Atoi(limitRaw)
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	start, _ := strconv.Atoi(startRaw)
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}
