package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "estate-client/internal/common/errors"
	"estate-client/internal/common/logger"
	"estate-client/internal/common/metrics"
	"estate-client/internal/common/observability"
)

const maxErrorBody = 64 << 10

// TokenSource yields the bearer token for the current session, or "".
type TokenSource interface {
	Token() string
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Transport overrides the default round tripper (tests).
	Transport http.RoundTripper
}

// Client sends JSON and multipart requests to the marketplace backend.
// Cookies set by the backend (the session cookie) are kept in a jar.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        *sessionJar
	userAgent  string
	logger     logger.Logger

	mu     sync.RWMutex
	tokens TokenSource
	obs    *observability.Observability
}

// File is one part of a multipart upload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Multipart is a form body with plain fields and files.
type Multipart struct {
	Fields map[string]string
	Files  []File
}

// Request describes one backend call. Endpoint labels metrics and logs.
type Request struct {
	Endpoint  string
	Method    string
	Path      string
	Query     url.Values
	JSON      interface{}
	Multipart *Multipart
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// errorBody matches the backend's error envelope.
type errorBody struct {
	Success    *bool  `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

func NewClient(opts Options, log logger.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}
	jar, err := newSessionJar()
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: opts.Transport,
		},
		jar:       jar,
		userAgent: opts.UserAgent,
		logger:    log.WithFields(map[string]interface{}{"component": "http"}),
	}, nil
}

func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	c.tokens = ts
	c.mu.Unlock()
}

func (c *Client) SetObservability(o *observability.Observability) {
	c.mu.Lock()
	c.obs = o
	c.mu.Unlock()
}

// ResetCookies drops every cookie received so far.
func (c *Client) ResetCookies() {
	c.jar.reset()
}

// Cookies returns the cookies the jar would send to the backend.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.baseURL)
}

// sessionJar is a cookie jar that can be emptied while requests are in flight.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	j, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &sessionJar{jar: j}, nil
}

func (s *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.jar.SetCookies(u, cookies)
}

func (s *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jar.Cookies(u)
}

func (s *sessionJar) reset() {
	j, _ := cookiejar.New(nil)
	s.mu.Lock()
	s.jar = j
	s.mu.Unlock()
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do performs req and returns the raw response. Non-2xx statuses become
// *errors.StandardError carrying the backend message.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	obs := c.obs
	c.mu.RUnlock()

	metrics.APIRequestsInFlight.Inc()
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	metrics.APIRequestsInFlight.Dec()
	metrics.APIRequestDuration.WithLabelValues(req.Endpoint).Observe(elapsed.Seconds())

	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(req.Endpoint, req.Method, "error").Inc()
		obs.RecordRequest(ctx, req.Endpoint, "error", elapsed)
		c.logger.Warn("API request failed", map[string]interface{}{
			"endpoint": req.Endpoint,
			"method":   req.Method,
			"path":     req.Path,
			"error":    err.Error(),
		})
		return nil, transportError(ctx, req, err)
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	metrics.APIRequestsTotal.WithLabelValues(req.Endpoint, req.Method, status).Inc()
	obs.RecordRequest(ctx, req.Endpoint, status, elapsed)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, req, err)
	}

	c.logger.Debug("API request", map[string]interface{}{
		"endpoint":   req.Endpoint,
		"method":     req.Method,
		"path":       req.Path,
		"status":     resp.StatusCode,
		"durationMs": elapsed.Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewAPIError(resp.StatusCode, req.Method, req.Path, errorMessage(body))
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// Decode unmarshals a response body. Empty bodies leave out untouched.
func Decode(path string, body []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewDecodeFailedError(path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req *Request) (*http.Request, error) {
	// req.Path is already escaped by the endpoint registry.
	u, err := url.Parse(c.baseURL.String() + req.Path)
	if err != nil {
		return nil, fmt.Errorf("build url %s: %w", req.Path, err)
	}
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Multipart != nil:
		buf, ct, err := encodeMultipart(req.Multipart)
		if err != nil {
			return nil, apperrors.NewFieldValidationError("Could not prepare upload", err.Error())
		}
		body, contentType = buf, ct
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, apperrors.NewFieldValidationError("Could not encode request", err.Error())
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", req.Method, req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	c.mu.RLock()
	ts := c.tokens
	c.mu.RUnlock()
	if ts != nil {
		if tok := ts.Token(); tok != "" {
			httpReq.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return httpReq, nil
}

func encodeMultipart(m *Multipart) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		ct := f.ContentType
		if ct == "" {
			ct = http.DetectContentType(f.Data)
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func errorMessage(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	return eb.Error
}

func transportError(ctx context.Context, req *Request, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewRequestTimeoutError(req.Method, req.Path, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return apperrors.NewRequestTimeoutError(req.Method, req.Path, err)
	}
	return apperrors.NewNetworkError(req.Method, req.Path, err)
}
