// internal/api/client_test.go
package api

import (
	"context"
	"net/url"
	"testing"
	"time"

	"estate-client/internal/common/cache"
	apperrors "estate-client/internal/common/errors"
	httpclient "estate-client/internal/common/http"
	"estate-client/internal/common/logger"
	"estate-client/internal/models"
	"estate-client/internal/session"
	"estate-client/internal/testutil/stubapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fixture struct {
	stub  *stubapi.Server
	http  *httpclient.Client
	cache *cache.Memory
	api   *Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewTestLogger(t)
	stub := stubapi.New(t)

	h, err := httpclient.NewClient(httpclient.Options{BaseURL: stub.URL, Timeout: 5 * time.Second}, log)
	require.NoError(t, err)

	mem := cache.NewMemory()
	return &fixture{
		stub:  stub,
		http:  h,
		cache: mem,
		api:   New(h, session.New(log), log, Options{Cache: mem, CacheTTL: time.Minute}),
	}
}

func (f *fixture) login(t *testing.T, role models.Role) models.User {
	t.Helper()
	u := f.stub.AddUser(models.User{Username: "ann", Email: "ann@example.com", Role: role}, "secret")
	_, err := f.api.Login(context.Background(), models.LoginRequest{Email: u.Email, Password: "secret"})
	require.NoError(t, err)
	return u
}

func validListing(name string) models.ListingInput {
	return models.ListingInput{
		Name:         name,
		Description:  "Bright two bedroom flat",
		Address:      "1 Main St, Springfield",
		RegularPrice: 1500,
		Beds:         2,
		Baths:        1,
		Type:         models.ListingTypeRent,
	}
}

// ==========================
// Session Tests
// ==========================

func TestClient_LoginStartsSession(t *testing.T) {
	f := newFixture(t)
	u := f.stub.AddUser(models.User{Username: "ann", Email: "ann@example.com"}, "secret")

	st, err := f.api.Login(context.Background(), models.LoginRequest{Email: "ann@example.com", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, u.ID, st.User.ID)
	assert.Equal(t, models.RoleUser, st.User.Role)
	assert.False(t, st.ExpiresAt.IsZero(), "expiry is read from the token")
	assert.True(t, f.api.Session().IsAuthenticated())
	assert.NotEmpty(t, f.http.Cookies())
}

func TestClient_LoginErrors(t *testing.T) {
	tests := []struct {
		name     string
		req      models.LoginRequest
		wantCode apperrors.ErrorCode
		wantHits int
	}{
		{"wrong password", models.LoginRequest{Email: "ann@example.com", Password: "nope"}, apperrors.ErrCodeUnauthorized, 1},
		{"unknown email", models.LoginRequest{Email: "bob@example.com", Password: "secret"}, apperrors.ErrCodeUnauthorized, 1},
		{"blank password", models.LoginRequest{Email: "ann@example.com"}, apperrors.ErrCodeValidationFailed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.stub.AddUser(models.User{Email: "ann@example.com"}, "secret")

			_, err := f.api.Login(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
			assert.Equal(t, tt.wantHits, f.stub.Hits("POST /api/auth/login"))
			assert.False(t, f.api.Session().IsAuthenticated())
		})
	}
}

func TestClient_SignupSignsIn(t *testing.T) {
	f := newFixture(t)
	st, err := f.api.Signup(context.Background(), models.SignupRequest{Username: "cy", Email: "cy@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "cy", st.User.Username)

	_, err = f.api.Signup(context.Background(), models.SignupRequest{Username: "cy", Email: "cy@example.com", Password: "pw"})
	assert.Equal(t, apperrors.ErrCodeConflict, apperrors.CodeOf(err))
}

func TestClient_LogoutClearsEverything(t *testing.T) {
	f := newFixture(t)
	f.stub.SeedListings(models.Listing{Name: "Loft", Type: models.ListingTypeRent})
	f.login(t, models.RoleUser)
	ctx := context.Background()

	_, err := f.api.Favorites(ctx)
	require.NoError(t, err)
	require.Positive(t, f.cache.Len())

	require.NoError(t, f.api.Logout(ctx))
	assert.False(t, f.api.Session().IsAuthenticated())
	assert.Empty(t, f.http.Cookies())
	assert.Zero(t, f.cache.Len())

	_, err = f.api.Favorites(ctx)
	assert.Equal(t, apperrors.ErrCodeNotAuthenticated, apperrors.CodeOf(err))
}

func TestClient_DeleteAccountEndsSession(t *testing.T) {
	f := newFixture(t)
	f.login(t, models.RoleUser)

	require.NoError(t, f.api.DeleteAccount(context.Background()))
	assert.False(t, f.api.Session().IsAuthenticated())

	_, err := f.api.Login(context.Background(), models.LoginRequest{Email: "ann@example.com", Password: "secret"})
	assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.CodeOf(err))
}

// ==========================
// Cache Tests
// ==========================

func TestClient_QueryIsServedFromCache(t *testing.T) {
	f := newFixture(t)
	seeded := f.stub.SeedListings(models.Listing{Name: "Loft", Type: models.ListingTypeRent})
	ctx := context.Background()

	first, err := f.api.GetListing(ctx, seeded[0].ID)
	require.NoError(t, err)
	second, err := f.api.GetListing(ctx, seeded[0].ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.stub.Hits("GET /api/listing/get/{id}"))

	_, err = f.api.GetListing(Fresh(ctx), seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.stub.Hits("GET /api/listing/get/{id}"))
}

func TestClient_MutationInvalidatesProvidedTags(t *testing.T) {
	f := newFixture(t)
	f.login(t, models.RoleUser)
	ctx := context.Background()
	params := url.Values{"type": {"rent"}}

	page, err := f.api.SearchListings(ctx, params)
	require.NoError(t, err)
	assert.Empty(t, page.Listings)

	_, err = f.api.SearchListings(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 1, f.stub.Hits("GET /api/listing/get"))

	created, err := f.api.CreateListing(ctx, validListing("Garden flat"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	page, err = f.api.SearchListings(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 2, f.stub.Hits("GET /api/listing/get"))
	require.Len(t, page.Listings, 1)
	assert.Equal(t, "Garden flat", page.Listings[0].Name)
}

func TestClient_UnrelatedMutationKeepsCache(t *testing.T) {
	f := newFixture(t)
	seeded := f.stub.SeedListings(models.Listing{Name: "Loft", Type: models.ListingTypeRent})
	f.login(t, models.RoleUser)
	ctx := context.Background()

	_, err := f.api.GetListing(ctx, seeded[0].ID)
	require.NoError(t, err)
	require.NoError(t, f.api.SendTestNotification(ctx))
	_, err = f.api.GetListing(ctx, seeded[0].ID)
	require.NoError(t, err)

	assert.Equal(t, 1, f.stub.Hits("GET /api/listing/get/{id}"))
}

// ==========================
// Access Guard Tests
// ==========================

func TestClient_DemoIsReadOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.api.DemoLogin(ctx)
	require.NoError(t, err)
	assert.True(t, st.IsDemo())

	_, err = f.api.CreateListing(ctx, validListing("Blocked"))
	assert.Equal(t, apperrors.ErrCodeDemoReadOnly, apperrors.CodeOf(err))
	assert.Zero(t, f.stub.Hits("POST /api/listing/create"))

	err = f.api.UpdateUserRole(ctx, "usr-1", models.RoleAdmin)
	assert.Equal(t, apperrors.ErrCodeDemoReadOnly, apperrors.CodeOf(err))

	stats, err := f.api.Stats(ctx)
	require.NoError(t, err, "demo users may view the dashboard")
	assert.Equal(t, 1, stats.TotalUsers)
}

func TestClient_AdminEndpointsNeedAdmin(t *testing.T) {
	f := newFixture(t)
	f.login(t, models.RoleUser)

	_, err := f.api.Stats(context.Background())
	assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.CodeOf(err))
	assert.Zero(t, f.stub.Hits("GET /api/admin/stats"))
}

func TestClient_AdminModeration(t *testing.T) {
	f := newFixture(t)
	seeded := f.stub.SeedListings(models.Listing{Name: "Pending", Type: models.ListingTypeSell, Status: models.ListingStatusPending})
	f.login(t, models.RoleAdmin)
	ctx := context.Background()

	page, err := f.api.AdminListings(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Listings, 1)
	assert.Equal(t, models.ListingStatusPending, page.Listings[0].Status)

	require.NoError(t, f.api.ApproveListing(ctx, seeded[0].ID))

	page, err = f.api.AdminListings(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusApproved, page.Listings[0].Status)
	assert.Equal(t, 2, f.stub.Hits("GET /api/admin/listings"))
}

func TestClient_UpdateUserRoleRejectsUnknownRole(t *testing.T) {
	f := newFixture(t)
	f.login(t, models.RoleAdmin)

	err := f.api.UpdateUserRole(context.Background(), "usr-1", models.Role("owner"))
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))
	assert.Zero(t, f.stub.Hits("PUT /api/admin/users/{id}/role"))
}

// ==========================
// Endpoint Group Tests
// ==========================

func TestClient_UpdateProfileRefreshesSession(t *testing.T) {
	f := newFixture(t)
	f.login(t, models.RoleUser)
	ctx := context.Background()

	_, err := f.api.UpdateProfile(ctx, models.ProfileUpdate{Password: "a", ConfirmPassword: "b"})
	assert.Equal(t, apperrors.ErrCodePasswordMismatch, apperrors.CodeOf(err))

	u, err := f.api.UpdateProfile(ctx, models.ProfileUpdate{Username: "annie"})
	require.NoError(t, err)
	assert.Equal(t, "annie", u.Username)

	st, ok := f.api.Session().Current()
	require.True(t, ok)
	assert.Equal(t, "annie", st.User.Username)
}

func TestClient_UploadImagesLimits(t *testing.T) {
	f := newFixture(t)
	f.login(t, models.RoleUser)
	ctx := context.Background()

	_, err := f.api.UploadImages(ctx, nil)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))

	seven := make([]httpclient.File, 7)
	for i := range seven {
		seven[i] = httpclient.File{Name: "p.jpg", Data: []byte{0xff, 0xd8, 0xff}}
	}
	_, err = f.api.UploadImages(ctx, seven)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))
	assert.Zero(t, f.stub.Hits("POST /api/upload"))

	paths, err := f.api.UploadImages(ctx, seven[:2])
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/p.jpg", "/uploads/p.jpg"}, paths)
}

func TestClient_UpdateListingWithImages(t *testing.T) {
	f := newFixture(t)
	f.login(t, models.RoleUser)
	ctx := context.Background()

	created, err := f.api.CreateListing(ctx, validListing("Cottage"))
	require.NoError(t, err)

	in := validListing("Cottage renamed")
	in.Parking = true
	updated, err := f.api.UpdateListing(ctx, created.ID, in, []httpclient.File{{Name: "front.png", Data: []byte("\x89PNG")}})
	require.NoError(t, err)

	assert.Equal(t, "Cottage renamed", updated.Name)
	assert.True(t, updated.Parking)
	assert.Equal(t, []string{"/uploads/front.png"}, updated.Images)
}

func TestClient_ContactForm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.api.SendMessage(ctx, models.ContactRequest{Name: "Ann", Email: "ann@example.com"})
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))

	valid := models.ContactRequest{
		Name:          "Ann",
		Email:         "ann@example.com",
		ContactNumber: "+1 555 0100",
		Subject:       "Viewing",
		Message:       "Is it still available?",
	}
	badPhone := valid
	badPhone.ContactNumber = "call me maybe"
	err = f.api.SendMessage(ctx, badPhone)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))

	badEmail := valid
	badEmail.Email = "ann@localhost"
	err = f.api.SendMessage(ctx, badEmail)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))
	assert.Zero(t, f.stub.Hits("POST /api/contact"), "malformed contact details are never sent")

	require.NoError(t, f.api.SendMessage(ctx, valid))
	assert.Equal(t, 1, f.stub.Hits("POST /api/contact"))
}

func TestClient_MalformedEmailNeverSent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.api.Signup(ctx, models.SignupRequest{Username: "ann", Email: "ann@localhost", Password: "pw"})
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))
	assert.Zero(t, f.stub.Hits("POST /api/auth/signup"))

	f.login(t, models.RoleUser)
	_, err = f.api.UpdateProfile(ctx, models.ProfileUpdate{Email: "ann@localhost"})
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))
	assert.Zero(t, f.stub.Hits("PUT /api/user/update-profile"))
}

func TestClient_BookingNotifiesOwner(t *testing.T) {
	f := newFixture(t)
	owner := f.stub.AddUser(models.User{Username: "owner", Email: "owner@example.com"}, "pw")
	seeded := f.stub.SeedListings(models.Listing{Name: "Villa", Type: models.ListingTypeSell, UserRef: owner.ID})
	f.login(t, models.RoleUser)
	ctx := context.Background()

	b, err := f.api.CreateBooking(ctx, models.BookingRequest{ListingID: seeded[0].ID, ScheduledAt: time.Now().Add(48 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, b.Status)

	mine, err := f.api.MyBookings(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = f.api.Login(ctx, models.LoginRequest{Email: "owner@example.com", Password: "pw"})
	require.NoError(t, err)
	page, err := f.api.Notifications(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "booking", page.Notifications[0].Type)
	assert.Equal(t, 1, page.UnreadCount)

	require.NoError(t, f.api.MarkAllNotificationsRead(ctx))
	page, err = f.api.Notifications(ctx, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, page.UnreadCount)
}
