// internal/models/favorite.go
package models

import (
	"bytes"
	"encoding/json"
)

// FavoriteList holds favorited listings. The backend returns populated
// listings, bare ids, or {favorites: [...]}.
type FavoriteList struct {
	Listings []Listing `json:"favorites"`
}

func (f *FavoriteList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		aux := struct {
			Favorites json.RawMessage `json:"favorites"`
		}{}
		if err := json.Unmarshal(trimmed, &aux); err != nil {
			return err
		}
		trimmed = bytes.TrimSpace(aux.Favorites)
	}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		f.Listings = []Listing{}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	out := make([]Listing, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var id string
			if err := json.Unmarshal(item, &id); err != nil {
				return err
			}
			out = append(out, Listing{ID: id})
			continue
		}
		var l Listing
		if err := json.Unmarshal(item, &l); err != nil {
			return err
		}
		out = append(out, l)
	}
	f.Listings = out
	return nil
}

// IDs returns listing ids in order.
func (f FavoriteList) IDs() []string {
	ids := make([]string, 0, len(f.Listings))
	for _, l := range f.Listings {
		ids = append(ids, l.ID)
	}
	return ids
}
