package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	apperrors "estate-client/internal/common/errors"
	"estate-client/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{BaseURL: srv.URL, Timeout: 2 * time.Second, UserAgent: "estate-test"}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "/api"}, logger.NewNoOpLogger())
	assert.Error(t, err)
}

func TestClient_Do_SendsBodyHeadersAndQuery(t *testing.T) {
	var (
		gotMethod, gotPath, gotQuery, gotAuth, gotUA, gotCT string
		gotBody                                             map[string]interface{}
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotQuery = r.Method, r.URL.EscapedPath(), r.URL.RawQuery
		gotAuth, gotUA, gotCT = r.Header.Get("Authorization"), r.Header.Get("User-Agent"), r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	c.SetTokenSource(staticToken("tok123"))

	var out struct {
		OK bool `json:"ok"`
	}
	resp, err := c.Do(context.Background(), &Request{
		Endpoint: "test",
		Method:   http.MethodPost,
		Path:     "/api/chatbot/history/a%2Fb",
		Query:    url.Values{"limit": {"20"}},
		JSON:     map[string]string{"text": "hi"},
	})

	require.NoError(t, err)
	require.NoError(t, Decode("/api/chatbot/history/a%2Fb", resp.Body, &out))
	assert.True(t, out.OK)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/chatbot/history/a%2Fb", gotPath)
	assert.Equal(t, "limit=20", gotQuery)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, "estate-test", gotUA)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, "hi", gotBody["text"])
}

func TestClient_Do_MapsBackendErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    apperrors.ErrorCode
		message string
	}{
		{"message field", http.StatusBadRequest, `{"success":false,"statusCode":400,"message":"Email already used"}`, apperrors.ErrCodeValidationFailed, "Email already used"},
		{"error field", http.StatusForbidden, `{"error":"Admins only"}`, apperrors.ErrCodeForbidden, "Admins only"},
		{"html body", http.StatusNotFound, `<html>nope</html>`, apperrors.ErrCodeNotFound, "Not Found"},
		{"unauthorized", http.StatusUnauthorized, `{"message":"Unauthorized"}`, apperrors.ErrCodeUnauthorized, "Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := c.Do(context.Background(), &Request{Endpoint: "t", Method: http.MethodGet, Path: "/x"})
			require.Error(t, err)
			se, ok := apperrors.AsStandard(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, tt.message, se.Message)
			assert.Equal(t, tt.status, se.StatusCode)
		})
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	block := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, &Request{Endpoint: "t", Method: http.MethodGet, Path: "/slow"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRequestTimeout, apperrors.CodeOf(err))
}

func TestClient_Do_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(Options{BaseURL: base}, logger.NewNoOpLogger())
	require.NoError(t, err)

	_, err = c.Do(context.Background(), &Request{Endpoint: "t", Method: http.MethodGet, Path: "/x"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNetworkError, apperrors.CodeOf(err))
}

func TestClient_Do_DecodeFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"listings": [`))
	}))

	resp, err := c.Do(context.Background(), &Request{Endpoint: "t", Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)

	var out map[string]interface{}
	err = Decode("/x", resp.Body, &out)
	assert.Equal(t, apperrors.ErrCodeDecodeFailed, apperrors.CodeOf(err))
}

func TestClient_Multipart(t *testing.T) {
	var (
		fields map[string]string
		files  []string
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		fields = map[string]string{"beds": r.FormValue("beds")}
		for _, fh := range r.MultipartForm.File["images"] {
			f, err := fh.Open()
			if !assert.NoError(t, err) {
				return
			}
			data, _ := io.ReadAll(f)
			f.Close()
			files = append(files, fh.Filename+":"+string(data))
		}
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := c.Do(context.Background(), &Request{
		Endpoint: "upload",
		Method:   http.MethodPost,
		Path:     "/api/upload",
		Multipart: &Multipart{
			Fields: map[string]string{"beds": "3"},
			Files: []File{
				{Field: "images", Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("AAA")},
				{Field: "images", Name: "b.jpg", Data: []byte("BBB")},
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "3", fields["beds"])
	assert.Equal(t, []string{"a.jpg:AAA", "b.jpg:BBB"}, files)
}

func TestClient_CookiesPersistUntilReset(t *testing.T) {
	var seen []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "abc", Path: "/"})
			return
		}
		if ck, err := r.Cookie("access_token"); err == nil {
			seen = append(seen, ck.Value)
		} else {
			seen = append(seen, "")
		}
	}))

	ctx := context.Background()
	_, err := c.Do(ctx, &Request{Endpoint: "login", Method: http.MethodPost, Path: "/login"})
	require.NoError(t, err)
	require.Len(t, c.Cookies(), 1)

	_, _ = c.Do(ctx, &Request{Endpoint: "me", Method: http.MethodGet, Path: "/me"})
	c.ResetCookies()
	_, _ = c.Do(ctx, &Request{Endpoint: "me", Method: http.MethodGet, Path: "/me"})

	assert.Equal(t, []string{"abc", ""}, seen)
	assert.Empty(t, c.Cookies())
}
