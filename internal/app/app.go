// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"time"

	"estate-client/internal/api"
	"estate-client/internal/common/cache"
	"estate-client/internal/common/config"
	"estate-client/internal/common/database"
	apperrors "estate-client/internal/common/errors"
	httpclient "estate-client/internal/common/http"
	"estate-client/internal/common/logger"
	"estate-client/internal/common/observability"
	"estate-client/internal/models"
	"estate-client/internal/session"
	"estate-client/pkg/registry"
)

// App wires the client stack from configuration.
type App struct {
	Config   *config.Config
	Logger   logger.Logger
	HTTP     *httpclient.Client
	Session  *session.Store
	API      *api.Client
	Reporter *apperrors.Reporter
	Sessions *SessionFile

	redis *database.RedisClient
	obs   *observability.Observability
}

// Options override parts of the wiring.
type Options struct {
	// SessionPath is where the session token is persisted between runs.
	// Empty disables persistence.
	SessionPath string
	// Cache replaces the configured cache backend.
	Cache cache.Store
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*App, error) {
	h, err := httpclient.NewClient(httpclient.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   config.GetDuration(cfg.API.Timeout),
		UserAgent: cfg.API.UserAgent,
	}, log)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   log,
		HTTP:     h,
		Session:  session.New(log),
		Reporter: apperrors.NewReporter(log),
	}

	store := opts.Cache
	if store == nil {
		if store, err = a.openCache(ctx); err != nil {
			return nil, err
		}
	}

	if cfg.Metrics.Enabled {
		a.obs = observability.New(cfg.Metrics.ServiceName, log)
		h.SetObservability(a.obs)
	}

	var reg *registry.Registry
	if path := cfg.API.RegistryPath; path != "" {
		if reg, err = registry.LoadRegistry(path); err != nil {
			return nil, fmt.Errorf("load endpoint registry: %w", err)
		}
		log.Info("Endpoint registry loaded", map[string]interface{}{"path": path, "version": reg.Version()})
	}

	a.API = api.New(h, a.Session, log, api.Options{
		Registry: reg,
		Cache:    store,
		CacheTTL: config.GetDuration(cfg.Cache.TTL),
	})

	if opts.SessionPath != "" {
		a.Sessions = NewSessionFile(opts.SessionPath)
	}
	a.restoreSession()
	return a, nil
}

func (a *App) openCache(ctx context.Context) (cache.Store, error) {
	cfg := a.Config.Cache
	if !cfg.Enabled {
		return cache.Nop{}, nil
	}
	if cfg.Backend != "redis" {
		return cache.NewMemory(), nil
	}

	err := retryWithBackoff(func() error {
		var err error
		a.redis, err = database.Connect(ctx, cfg.Redis)
		return err
	}, 3, 500*time.Millisecond, a.Logger, "Redis connection")
	if err != nil {
		return nil, err
	}
	a.Logger.Info("Redis cache connected", map[string]interface{}{"redis": cfg.Redis.String()})
	return cache.NewRedis(a.redis.Client, cfg.Prefix), nil
}

// restoreSession resumes from a configured token or the saved session file.
// A configured token carries no user record, so the user comes from its claims.
func (a *App) restoreSession() {
	saved := SavedSession{Token: a.Config.API.Token}
	if saved.Token == "" && a.Sessions != nil {
		var err error
		if saved, err = a.Sessions.Load(); err != nil {
			a.Logger.Warn("Saved session unreadable", map[string]interface{}{"error": err.Error()})
		}
	}
	if saved.Token == "" {
		return
	}
	a.Session.Login(models.AuthResponse{User: saved.User, Token: saved.Token, IsDemo: saved.User.IsDemo})
	if !a.Session.IsAuthenticated() {
		a.Logger.Info("Saved session expired", nil)
		a.Session.Logout()
	}
}

// SaveSession persists the current session, or removes the file after logout.
func (a *App) SaveSession() error {
	if a.Sessions == nil {
		return nil
	}
	if st, ok := a.Session.Current(); ok && st.Token != "" {
		return a.Sessions.Save(st.Token, st.User)
	}
	return a.Sessions.Clear()
}

// Observability is nil unless metrics are enabled.
func (a *App) Observability() *observability.Observability { return a.obs }

func (a *App) Close() {
	a.obs.Shutdown()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("Redis close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	_ = a.Logger.Sync()
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(operationName+" failed, retrying...", map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
