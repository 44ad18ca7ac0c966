// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-client/internal/app"
	"estate-client/internal/charts"
	"estate-client/internal/chat"
	"estate-client/internal/common/config"
	apperrors "estate-client/internal/common/errors"
	"estate-client/internal/common/logger"
	"estate-client/internal/favorites"
	"estate-client/internal/models"
	"estate-client/internal/recommend"
	"estate-client/internal/search"
	"estate-client/internal/testutil/stubapi"
)

var log logger.Logger

func TestMain(m *testing.M) {
	log = logger.NewStructured(logger.Options{Level: "warn", Format: "console", Output: "stderr"})
	code := m.Run()
	_ = log.Sync()
	os.Exit(code)
}

type env struct {
	stub  *stubapi.Server
	redis *miniredis.Miniredis
	app   *app.App
}

func setup(t *testing.T) *env {
	t.Helper()
	stub := stubapi.New(t)
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		App: config.AppConfig{Name: "estate-cli", Environment: "test"},
		API: config.APIConfig{BaseURL: stub.URL, Timeout: 5000, UserAgent: "estate-e2e"},
		Cache: config.CacheConfig{
			Enabled: true,
			Backend: "redis",
			TTL:     60000,
			Prefix:  "estate-e2e",
			Redis:   config.RedisConfig{Address: mr.Addr(), PoolSize: 4},
		},
		Metrics:   config.MetricsConfig{Enabled: true, ServiceName: "estate-e2e"},
		Recommend: config.RecommendConfig{MaxItems: 3, CandidateLimit: 20},
		Chat:      config.ChatConfig{Greeting: "Welcome!"},
	}

	a, err := app.New(context.Background(), cfg, log, app.Options{SessionPath: filepath.Join(t.TempDir(), "session.json")})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return &env{stub: stub, redis: mr, app: a}
}

func TestFullE2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	e := setup(t)
	owner := e.stub.AddUser(models.User{Username: "olga", Email: "olga@example.com"}, "pw")
	seeded := e.stub.SeedListings(
		models.Listing{Name: "Harbor Loft", Type: models.ListingTypeRent, RegularPrice: 1800, Beds: 2, Baths: 1, Parking: true, Address: "4 Quay St, Riverside", UserRef: owner.ID},
		models.Listing{Name: "Garden Flat", Type: models.ListingTypeRent, RegularPrice: 1400, Beds: 2, Baths: 1, Address: "9 Elm Rd, Riverside", UserRef: owner.ID},
		models.Listing{Name: "Oak House", Type: models.ListingTypeSell, RegularPrice: 420000, Beds: 4, Baths: 3, Address: "1 Oak Ave, Hillside", UserRef: owner.ID},
	)

	t.Log("🚀 Starting estate client E2E flow against the stub backend")

	// 1. Sign up
	t.Run("Signup", func(t *testing.T) {
		st, err := e.app.API.Signup(ctx, models.SignupRequest{Username: "ann", Email: "ann@example.com", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", st.User.Email)
		require.NoError(t, e.app.SaveSession())
		t.Log("✅ Signed up and session saved")
	})

	// 2. Search through the form parser, served from redis the second time
	t.Run("Search", func(t *testing.T) {
		form, err := search.NewParser(log).Parse(map[string]interface{}{"type": "rent", "sort": "price_low", "parking": "true"})
		require.NoError(t, err)
		params, err := form.Values()
		require.NoError(t, err)

		page, err := e.app.API.SearchListings(ctx, params)
		require.NoError(t, err)
		require.Len(t, page.Listings, 1)
		assert.Equal(t, "Harbor Loft", page.Listings[0].Name)

		_, err = e.app.API.SearchListings(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, 1, e.stub.Hits("GET /api/listing/get"))
		assert.True(t, e.redis.Exists("estate-e2e:tag:Listings"))
		t.Log("✅ Search cached in redis")
	})

	// 3. Favorites
	t.Run("Favorites", func(t *testing.T) {
		tog := favorites.NewToggler(e.app.API, log)
		require.NoError(t, tog.Add(ctx, seeded[1].ID))
		require.NoError(t, tog.Add(ctx, seeded[1].ID))
		assert.Equal(t, 1, e.stub.Hits("POST /api/user/favorites/{listingId}"), "second add sends nothing")

		on, err := tog.Toggle(ctx, seeded[0].ID)
		require.NoError(t, err)
		assert.True(t, on)
		assert.ElementsMatch(t, []string{seeded[0].ID, seeded[1].ID}, tog.IDs())

		favs, err := e.app.API.Favorites(ctx)
		require.NoError(t, err)
		assert.Len(t, favs, 2, "favorites cache was invalidated by the adds")
		t.Log("✅ Favorites toggled")
	})

	// 4. Recommendations shaped by favorites
	t.Run("Recommend", func(t *testing.T) {
		svc := recommend.NewService(e.app.API, recommend.LoadConfig(e.app.Config.Recommend), log)
		res, err := svc.Recommend(ctx, recommend.Preferences{Location: "Riverside"}, true)
		require.NoError(t, err)
		require.NotNil(t, res.Profile)
		assert.Equal(t, "rent", res.Profile.PreferredType)
		require.Len(t, res.Items, 3)
		assert.Equal(t, models.ListingTypeSell, res.Items[2].Listing.Type, "the house matches nothing")
		t.Log("✅ Recommendations ranked")
	})

	// 5. Chat widget send, then resume from history
	t.Run("Chat", func(t *testing.T) {
		w := chat.New(e.app.API, e.app.Config.Chat.Greeting, log)
		bot, err := w.Send(ctx, "anything to rent near the river?")
		require.NoError(t, err)
		assert.NotEmpty(t, bot.Properties)
		assert.Len(t, e.stub.ChatLog(w.SessionID()), 2)

		resumed := chat.Resume(e.app.API, w.SessionID(), "", log)
		require.NoError(t, resumed.LoadHistory(ctx))
		msgs := resumed.Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, models.SenderUser, msgs[0].Sender)
		t.Log("✅ Chat resumed")
	})

	// 6. Tour booking reaches the owner
	t.Run("Booking", func(t *testing.T) {
		_, err := e.app.API.CreateBooking(ctx, models.BookingRequest{ListingID: seeded[2].ID, ScheduledAt: time.Now().Add(48 * time.Hour)})
		require.NoError(t, err)
		mine, err := e.app.API.MyBookings(ctx)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
		t.Log("✅ Tour requested")
	})

	// 7. A regular user cannot see the dashboard
	t.Run("AdminForbidden", func(t *testing.T) {
		_, err := e.app.API.Stats(ctx)
		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.CodeOf(err))
	})

	// 8. Admin charts
	t.Run("AdminCharts", func(t *testing.T) {
		require.NoError(t, e.app.API.Logout(ctx))
		e.stub.AddUser(models.User{Username: "root", Email: "root@example.com", Role: models.RoleAdmin}, "pw")
		_, err := e.app.API.Login(ctx, models.LoginRequest{Email: "root@example.com", Password: "pw"})
		require.NoError(t, err)

		stats, err := e.app.API.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalListings)
		assert.Equal(t, 1, stats.TotalBookings)

		pie := charts.ListingsByType(stats.ListingsByType)
		total := 0.0
		for _, s := range pie {
			total += s.Value
		}
		assert.Equal(t, 3.0, total)

		analytics, err := e.app.API.Analytics(ctx)
		require.NoError(t, err)
		require.NoError(t, charts.RenderBars(io.Discard, "Bookings", charts.AnalyticsBars(analytics.BookingStats)))
		t.Log("✅ Admin dashboard loaded")
	})

	// 9. Request telemetry is exported
	t.Run("Metrics", func(t *testing.T) {
		srv := app.NewMetricsServer("", log)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		assert.Contains(t, rec.Body.String(), "estate_")
		assert.Contains(t, rec.Body.String(), "api_requests")
	})

	t.Log("🎉 E2E flow complete")
}
