// internal/app/app_test.go
package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"estate-client/internal/common/config"
	"estate-client/internal/common/logger"
	"estate-client/internal/models"
	"estate-client/internal/testutil/stubapi"
	"estate-client/pkg/registry"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "estate-cli"},
		API: config.APIConfig{BaseURL: baseURL, Timeout: 5000, UserAgent: "estate-test"},
		Cache: config.CacheConfig{
			Enabled: true,
			Backend: "memory",
			TTL:     60000,
			Prefix:  "estate-test",
		},
	}
}

// ==========================
// Wiring Tests
// ==========================

func TestNew_RestoresSavedSession(t *testing.T) {
	stub := stubapi.New(t)
	u := stub.AddUser(models.User{Username: "ann", Email: "ann@example.com"}, "pw")
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, NewSessionFile(path).Save(stub.Token("ann@example.com"), models.User{}))

	a, err := New(context.Background(), testConfig(stub.URL), logger.NewTestLogger(t), Options{SessionPath: path})
	require.NoError(t, err)
	defer a.Close()

	st, ok := a.Session.Current()
	require.True(t, ok)
	assert.Equal(t, u.ID, st.User.ID)

	_, err = a.API.Favorites(context.Background())
	assert.NoError(t, err, "restored token authenticates requests")
}

func TestNew_ConfiguredTokenWins(t *testing.T) {
	stub := stubapi.New(t)
	admin := stub.AddUser(models.User{Email: "root@example.com", Role: models.RoleAdmin}, "pw")
	stub.AddUser(models.User{Email: "ann@example.com"}, "pw")

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, NewSessionFile(path).Save(stub.Token("ann@example.com"), models.User{}))

	cfg := testConfig(stub.URL)
	cfg.API.Token = stub.Token("root@example.com")
	a, err := New(context.Background(), cfg, logger.NewTestLogger(t), Options{SessionPath: path})
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Session.IsAdmin())
	assert.Equal(t, admin.ID, a.Session.Scope())
}

func TestSaveSession_ClearsAfterLogout(t *testing.T) {
	stub := stubapi.New(t)
	stub.AddUser(models.User{Email: "ann@example.com"}, "pw")
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	ctx := context.Background()

	a, err := New(ctx, testConfig(stub.URL), logger.NewTestLogger(t), Options{SessionPath: path})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.API.Login(ctx, models.LoginRequest{Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, a.SaveSession())

	saved, err := a.Sessions.Load()
	require.NoError(t, err)
	assert.Equal(t, a.Session.Token(), saved.Token)
	assert.Equal(t, "ann@example.com", saved.User.Email)

	require.NoError(t, a.API.Logout(ctx))
	require.NoError(t, a.SaveSession())
	saved, err = a.Sessions.Load()
	require.NoError(t, err)
	assert.Empty(t, saved.Token)
}

func TestNew_RestoresDemoAdminFromIDOnlyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": "u1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	cfg := testConfig("http://127.0.0.1:1")
	first, err := New(context.Background(), cfg, logger.NewTestLogger(t), Options{SessionPath: path})
	require.NoError(t, err)
	first.Session.Login(models.AuthResponse{
		User:  models.User{ID: "u1", Email: "demo@example.com", Role: models.RoleAdmin},
		Token: raw, IsDemo: true,
	})
	require.NoError(t, first.SaveSession())
	first.Close()

	second, err := New(context.Background(), cfg, logger.NewTestLogger(t), Options{SessionPath: path})
	require.NoError(t, err)
	defer second.Close()

	st, ok := second.Session.Current()
	require.True(t, ok)
	assert.Equal(t, "u1", st.User.ID)
	assert.Equal(t, "u1", second.Session.Scope())
	assert.True(t, second.Session.IsAdmin())
	err = second.Session.RequireMutable("create listing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEMO_READ_ONLY")
}

func TestNew_RedisCacheBackend(t *testing.T) {
	stub := stubapi.New(t)
	seeded := stub.SeedListings(models.Listing{Name: "Loft", Type: models.ListingTypeRent})
	mr := miniredis.RunT(t)

	cfg := testConfig(stub.URL)
	cfg.Cache.Backend = "redis"
	cfg.Cache.Redis = config.RedisConfig{Address: mr.Addr()}

	a, err := New(context.Background(), cfg, logger.NewTestLogger(t), Options{})
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	_, err = a.API.GetListing(ctx, seeded[0].ID)
	require.NoError(t, err)
	_, err = a.API.GetListing(ctx, seeded[0].ID)
	require.NoError(t, err)

	assert.Equal(t, 1, stub.Hits("GET /api/listing/get/{id}"))
	assert.True(t, mr.Exists("estate-test:tag:Listings"))
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Cache.Backend = "redis"
	cfg.Cache.Redis = config.RedisConfig{Address: "127.0.0.1:1"}

	_, err := New(context.Background(), cfg, logger.NewNoOpLogger(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis connection failed after 3 attempts")
}

func TestSessionFile_MissingIsEmpty(t *testing.T) {
	f := NewSessionFile(filepath.Join(t.TempDir(), "none.json"))
	saved, err := f.Load()
	require.NoError(t, err)
	assert.Empty(t, saved.Token)
	assert.NoError(t, f.Clear())
}

func TestMetricsServer_Endpoints(t *testing.T) {
	m := NewMetricsServer("127.0.0.1:0", logger.NewTestLogger(t))

	for path, want := range map[string]string{"/health": "healthy", "/ready": "ready"} {
		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), want, path)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "estate_")
}

func TestNew_LoadsEndpointRegistry(t *testing.T) {
	stub := stubapi.New(t)
	seeded := stub.SeedListings(models.Listing{Name: "Loft", Type: models.ListingTypeRent})

	table := registry.Default().Table()
	for i, e := range table.Endpoints {
		if e.Name == registry.ListingGet {
			table.Endpoints[i].Path = "/api/listing/similar/{id}"
		}
	}
	data, err := json.Marshal(table)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "endpoints.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg := testConfig(stub.URL)
	cfg.API.RegistryPath = path
	a, err := New(context.Background(), cfg, logger.NewTestLogger(t), Options{})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.API.GetListing(context.Background(), seeded[0].ID)
	require.Error(t, err, "similar returns a list, not a listing")
	assert.Equal(t, 1, stub.Hits("GET /api/listing/similar/{id}"))
	assert.Zero(t, stub.Hits("GET /api/listing/get/{id}"))
}

func TestNew_BadEndpointRegistry(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.API.RegistryPath = filepath.Join(t.TempDir(), "missing.json")
	_, err := New(context.Background(), cfg, logger.NewTestLogger(t), Options{})
	assert.ErrorContains(t, err, "load endpoint registry")
}
