// internal/api/client.go
package api

import (
	"context"
	"net/url"
	"time"

	"estate-client/internal/common/cache"
	apperrors "estate-client/internal/common/errors"
	httpclient "estate-client/internal/common/http"
	"estate-client/internal/common/logger"
	"estate-client/internal/common/metrics"
	"estate-client/internal/session"
	"estate-client/pkg/registry"
)

// Options tune the client. Zero values use an uncached client and the
// built-in endpoint table.
type Options struct {
	Registry *registry.Registry
	Cache    cache.Store
	CacheTTL time.Duration
}

// Client is the typed data-access layer for every backend endpoint group.
// Queries are cached under the tags their endpoint provides; successful
// mutations invalidate the tags their endpoint declares.
type Client struct {
	http     *httpclient.Client
	registry *registry.Registry
	cache    cache.Store
	cacheTTL time.Duration
	session  *session.Store
	logger   logger.Logger
}

func New(h *httpclient.Client, sess *session.Store, log logger.Logger, opts Options) *Client {
	reg := opts.Registry
	if reg == nil {
		reg = registry.Default()
	}
	store := opts.Cache
	if store == nil {
		store = cache.Nop{}
	}
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = time.Minute
	}
	h.SetTokenSource(sess)
	return &Client{
		http:     h,
		registry: reg,
		cache:    store,
		cacheTTL: ttl,
		session:  sess,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Session exposes the store the client authenticates with.
func (c *Client) Session() *session.Store { return c.session }

type freshKey struct{}

// Fresh marks ctx so queries skip the cache read (the result is still stored).
func Fresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshKey{}, true)
}

func isFresh(ctx context.Context) bool {
	v, _ := ctx.Value(freshKey{}).(bool)
	return v
}

// call carries one invocation of a registry endpoint.
type call struct {
	name      string
	params    []string
	query     url.Values
	body      interface{}
	multipart *httpclient.Multipart
}

func (c *Client) guard(e registry.Endpoint) error {
	switch e.Access {
	case registry.AccessUser:
		if _, err := c.session.RequireUser(e.Name); err != nil {
			return err
		}
	case registry.AccessAdmin:
		if err := c.session.RequireAdminView(e.Name); err != nil {
			return err
		}
	}
	if e.DemoBlocked {
		if err := c.session.RequireMutable(e.Name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) prepare(cl call) (registry.Endpoint, *httpclient.Request, error) {
	e := c.registry.MustLookup(cl.name)
	if err := c.guard(e); err != nil {
		return e, nil, err
	}
	path, err := e.BuildPath(cl.params...)
	if err != nil {
		return e, nil, apperrors.NewFieldValidationError("Missing identifier", err.Error())
	}
	return e, &httpclient.Request{
		Endpoint:  e.Name,
		Method:    e.Method,
		Path:      path,
		Query:     cl.query,
		JSON:      cl.body,
		Multipart: cl.multipart,
	}, nil
}

// query runs a GET endpoint through the tag cache.
func (c *Client) query(ctx context.Context, cl call, out interface{}) error {
	e, req, err := c.prepare(cl)
	if err != nil {
		return err
	}

	key := cache.Key(c.session.Scope(), e.Name, req.Path, req.Query)
	if !isFresh(ctx) {
		data, hit, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.CacheLookups.WithLabelValues(e.Name, "error").Inc()
			c.logger.Warn("Cache read failed, falling back to API", map[string]interface{}{
				"endpoint": e.Name,
				"error":    err.Error(),
			})
		case hit:
			metrics.CacheLookups.WithLabelValues(e.Name, "hit").Inc()
			return httpclient.Decode(req.Path, data, out)
		default:
			metrics.CacheLookups.WithLabelValues(e.Name, "miss").Inc()
		}
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	if err := httpclient.Decode(req.Path, resp.Body, out); err != nil {
		return err
	}

	if err := c.cache.Set(ctx, key, resp.Body, c.cacheTTL, tagStrings(e.Provides)...); err != nil {
		c.logger.Warn("Cache write failed", map[string]interface{}{
			"endpoint": e.Name,
			"error":    err.Error(),
		})
	}
	return nil
}

// mutate runs a state-changing endpoint and invalidates its tags on success.
func (c *Client) mutate(ctx context.Context, cl call, out interface{}) error {
	e, req, err := c.prepare(cl)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}

	c.invalidate(ctx, e)
	return httpclient.Decode(req.Path, resp.Body, out)
}

func (c *Client) invalidate(ctx context.Context, e registry.Endpoint) {
	if len(e.Invalidates) == 0 {
		return
	}
	n, err := c.cache.InvalidateTags(ctx, tagStrings(e.Invalidates)...)
	if err != nil {
		c.logger.Warn("Cache invalidation failed", map[string]interface{}{
			"endpoint": e.Name,
			"error":    err.Error(),
		})
		return
	}
	for _, t := range e.Invalidates {
		metrics.CacheInvalidations.WithLabelValues(string(t)).Inc()
	}
	c.logger.Debug("Cache invalidated", map[string]interface{}{
		"endpoint": e.Name,
		"tags":     tagStrings(e.Invalidates),
		"removed":  n,
	})
}

func tagStrings(tags []registry.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
