// internal/favorites/toggler.go
package favorites

import (
	"context"
	"sort"
	"sync"

	"estate-client/internal/common/logger"
	"estate-client/internal/models"
)

// Backend is the favorites endpoint group of the API client.
type Backend interface {
	Favorites(ctx context.Context) ([]models.Listing, error)
	AddFavorite(ctx context.Context, listingID string) error
	RemoveFavorite(ctx context.Context, listingID string) error
}

// Toggler keeps the signed-in user's favorite ids in sync with the backend.
type Toggler struct {
	mu      sync.Mutex
	ids     map[string]struct{}
	loaded  bool
	backend Backend
	logger  logger.Logger
}

func NewToggler(backend Backend, log logger.Logger) *Toggler {
	return &Toggler{
		ids:     make(map[string]struct{}),
		backend: backend,
		logger:  log.WithFields(map[string]interface{}{"component": "favorites"}),
	}
}

// Load replaces the local set with the backend's.
func (t *Toggler) Load(ctx context.Context) error {
	listings, err := t.backend.Favorites(ctx)
	if err != nil {
		return err
	}
	ids := make(map[string]struct{}, len(listings))
	for _, l := range listings {
		if l.ID != "" {
			ids[l.ID] = struct{}{}
		}
	}

	t.mu.Lock()
	t.ids, t.loaded = ids, true
	t.mu.Unlock()
	return nil
}

func (t *Toggler) ensureLoaded(ctx context.Context) error {
	t.mu.Lock()
	loaded := t.loaded
	t.mu.Unlock()
	if loaded {
		return nil
	}
	return t.Load(ctx)
}

func (t *Toggler) Contains(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.ids[id]
	return ok
}

// IDs returns the favorite ids sorted.
func (t *Toggler) IDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.ids))
	for id := range t.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Add favorites a listing. Adding a listing that is already a favorite
// sends no request.
func (t *Toggler) Add(ctx context.Context, id string) error {
	if err := t.ensureLoaded(ctx); err != nil {
		return err
	}
	if t.Contains(id) {
		t.logger.Debug("Already a favorite", map[string]interface{}{"listingId": id})
		return nil
	}
	if err := t.backend.AddFavorite(ctx, id); err != nil {
		return err
	}
	t.mu.Lock()
	t.ids[id] = struct{}{}
	t.mu.Unlock()
	return nil
}

// Remove unfavorites a listing; a listing that is not a favorite is a no-op.
func (t *Toggler) Remove(ctx context.Context, id string) error {
	if err := t.ensureLoaded(ctx); err != nil {
		return err
	}
	if !t.Contains(id) {
		return nil
	}
	if err := t.backend.RemoveFavorite(ctx, id); err != nil {
		return err
	}
	t.mu.Lock()
	delete(t.ids, id)
	t.mu.Unlock()
	return nil
}

// Toggle flips a listing's favorite state and reports the new state.
func (t *Toggler) Toggle(ctx context.Context, id string) (bool, error) {
	if err := t.ensureLoaded(ctx); err != nil {
		return false, err
	}
	if t.Contains(id) {
		if err := t.Remove(ctx, id); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := t.Add(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}
