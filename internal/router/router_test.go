package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/profile-directory/internal/config"
	"github.com/stemsi/profile-directory/internal/handler"
	"github.com/stemsi/profile-directory/internal/middleware"
	"github.com/stemsi/profile-directory/internal/model"
	"github.com/stemsi/profile-directory/internal/notify"
	"github.com/stemsi/profile-directory/internal/response"
	"github.com/stemsi/profile-directory/internal/service"
	"github.com/stemsi/profile-directory/internal/session"
	"github.com/stemsi/profile-directory/internal/store"
	"github.com/stemsi/profile-directory/internal/testutil/storetest"
	"github.com/stemsi/profile-directory/internal/validator"
)

type envelope struct {
	Data       json.RawMessage      `json:"data"`
	Error      *response.ErrorBody  `json:"error"`
	Pagination *response.Pagination `json:"pagination"`
	Metadata   response.Metadata    `json:"metadata"`
}

func testConfig() *config.Config {
	return &config.Config{
		GinMode:          gin.TestMode,
		JWTSecret:        "test-secret",
		JWTExpiry:        24 * time.Hour,
		AdminEmail:       "admin@example.com",
		AdminPassword:    "s3cret",
		BcryptCost:       4,
		SignInRatePerMin: 100,
		PageSize:         20,
	}
}

func newTestRouter(t *testing.T, profiles ...model.Profile) (*gin.Engine, *storetest.Server) {
	t.Helper()
	validator.Setup()

	cfg := testConfig()
	log := zerolog.Nop()
	srv := storetest.New(t, profiles...)

	hub := notify.NewHub(log)
	t.Cleanup(hub.Close)

	authService := service.NewAuthService(cfg)
	profileService := service.NewProfileService(
		store.New(srv.URL, 2*time.Second, log),
		nil,
		hub,
		service.ProfileOptions{PageSize: cfg.PageSize},
		log,
	)
	cookie := middleware.SessionCookie{MaxAge: cfg.JWTExpiry}

	handlers := &Handlers{
		Auth:    handler.NewAuthHandler(authService, cookie, log),
		Profile: handler.NewProfileHandler(profileService),
		Admin:   handler.NewAdminHandler(profileService, cookie),
		Page:    handler.NewPageHandler(profileService, authService, cookie, log),
		WS:      handler.NewWSHandler(hub, log, nil),
		System:  handler.NewSystemHandler(nil, hub, log),
	}

	limiter := middleware.NewRateLimiter(cfg.SignInRatePerMin, time.Minute)
	t.Cleanup(limiter.Stop)

	return SetupRouter(handlers, limiter, cfg, log), srv
}

func numbered(n int) []model.Profile {
	out := make([]model.Profile, n)
	for i := range out {
		out[i] = model.Profile{
			ID:          model.ProfileID(fmt.Sprint(i + 1)),
			Name:        fmt.Sprintf("Person %02d", i+1),
			Description: "Engineer",
			Location:    "Lisbon",
			Email:       fmt.Sprintf("p%02d@example.com", i+1),
			Phone:       "555-0100",
		}
	}
	return out
}

func do(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestPublicListing_Paginates(t *testing.T) {
	r, _ := newTestRouter(t, numbered(45)...)

	tests := []struct {
		query     string
		wantPage  int
		wantCount int
		wantFirst string
	}{
		{"", 1, 20, "Person 01"},
		{"?page=2", 2, 20, "Person 21"},
		{"?page=3", 3, 5, "Person 41"},
		{"?page=4", 1, 20, "Person 01"},
		{"?page=abc", 1, 20, "Person 01"},
	}
	for _, tt := range tests {
		t.Run("page"+tt.query, func(t *testing.T) {
			w := do(r, http.MethodGet, "/api/profiles"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code)

			env := decode(t, w)
			var items []model.Profile
			require.NoError(t, json.Unmarshal(env.Data, &items))

			require.NotNil(t, env.Pagination)
			assert.Equal(t, tt.wantPage, env.Pagination.Page)
			assert.Equal(t, 3, env.Pagination.TotalPages)
			assert.Equal(t, 45, env.Pagination.TotalItems)
			require.Len(t, items, tt.wantCount)
			assert.Equal(t, tt.wantFirst, items[0].Name)
		})
	}
}

func TestPublicListing_FiltersCaseInsensitively(t *testing.T) {
	profiles := []model.Profile{
		{ID: "1", Name: "John Doe", Location: "Austin", Email: "jd@example.com", Phone: "1"},
		{ID: "2", Name: "Ada", Location: "London", Email: "johnny@example.com", Phone: "2"},
		{ID: "3", Name: "Grace", Location: "Arlington", Email: "grace@example.com", Phone: "3", Description: "friend of john"},
	}
	r, _ := newTestRouter(t, profiles...)

	w := do(r, http.MethodGet, "/api/profiles?q=JOHN", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []model.Profile
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &items))

	names := make([]string, 0, len(items))
	for _, p := range items {
		names = append(names, p.Name)
	}
	// Descriptions are not searched publicly.
	assert.Equal(t, []string{"John Doe", "Ada"}, names)
}

func TestPublicListing_EmptyStore(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/profiles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.Equal(t, 1, env.Pagination.TotalPages)
	assert.Equal(t, 1, env.Pagination.Page)
}

func TestProfileDetail(t *testing.T) {
	r, _ := newTestRouter(t, numbered(2)...)

	w := do(r, http.MethodGet, "/api/profiles/2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail model.ProfileDetail
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &detail))
	assert.Equal(t, "Person 02", detail.Profile.Name)
	assert.Equal(t, model.DefaultCenter, detail.Map.Center)
	assert.Equal(t, model.DefaultZoom, detail.Map.Zoom)
	assert.False(t, detail.Map.Located)

	w = do(r, http.MethodGet, "/api/profiles/99", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.NoticeFetchDetailFailed, decode(t, w).Metadata.Notice)
}

func TestSignIn(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("valid credentials", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/admin/signin", "", model.SignInRequest{Email: "admin@example.com", Password: "s3cret"})
		require.Equal(t, http.StatusOK, w.Code)

		var out model.SignInResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.NotEmpty(t, out.Token)

		c := sessionCookie(w)
		require.NotNil(t, c)
		assert.Equal(t, out.Token, c.Value)
		assert.True(t, c.HttpOnly)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/admin/signin", "", model.SignInRequest{Email: "admin@example.com", Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
		assert.Nil(t, sessionCookie(w))
	})

	t.Run("unreadable body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/signin", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	})
}

func TestSignOut_ClearsCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/admin/signout", "some-token", nil)
	require.Equal(t, http.StatusOK, w.Code)

	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)
	assert.Equal(t, response.NoticeSignedOut, decode(t, w).Metadata.Notice)
}

func TestAdminAPI_RequiresToken(t *testing.T) {
	r, srv := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/admin/profiles", "", storetest.ValidInput())
	require.Equal(t, http.StatusUnauthorized, w.Code)

	env := decode(t, w)
	assert.Equal(t, response.ErrTokenRequired, env.Error.Code)
	assert.Equal(t, "/admin/signin", env.Error.Redirect)
	assert.Zero(t, srv.Requests())
}

func TestAdminAPI_CreateAsksForRefetch(t *testing.T) {
	r, srv := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/admin/profiles", storetest.Token, storetest.ValidInput())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decode(t, w)
	assert.True(t, env.Metadata.Refetch)
	assert.Equal(t, response.NoticeCreated, env.Metadata.Notice)
	assert.Equal(t, "Bearer "+storetest.Token, srv.LastAuth())
	require.Len(t, srv.Profiles(), 1)
	assert.Equal(t, "Jane Roe", srv.Profiles()[0].Name)
}

func TestAdminAPI_CreateRejectsInvalidPayload(t *testing.T) {
	r, srv := newTestRouter(t)

	in := storetest.ValidInput()
	in.Email = "not-an-email"
	w := do(r, http.MethodPost, "/api/admin/profiles", storetest.Token, in)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decode(t, w)
	assert.Equal(t, response.ErrValidation, env.Error.Code)
	assert.Contains(t, env.Error.Fields, "email")
	assert.Equal(t, response.NoticeCreateFailed, env.Metadata.Notice)
	assert.Zero(t, srv.Requests())
}

func TestAdminAPI_DeleteMissingProfile(t *testing.T) {
	r, _ := newTestRouter(t, numbered(1)...)

	w := do(r, http.MethodDelete, "/api/admin/profiles/42", storetest.Token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	env := decode(t, w)
	assert.Equal(t, response.ErrNotFound, env.Error.Code)
	assert.Equal(t, response.NoticeProfileNotFound, env.Metadata.Notice)
	assert.False(t, env.Metadata.Refetch)
}

func TestAdminAPI_UpdateAndDelete(t *testing.T) {
	r, srv := newTestRouter(t, numbered(2)...)

	in := storetest.ValidInput()
	in.Name = "Renamed"
	w := do(r, http.MethodPut, "/api/admin/profiles/1", storetest.Token, in)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode(t, w).Metadata.Refetch)
	assert.Equal(t, "Renamed", srv.Profiles()[0].Name)

	w = do(r, http.MethodDelete, "/api/admin/profiles/2", storetest.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.NoticeDeleted, decode(t, w).Metadata.Notice)
	assert.Len(t, srv.Profiles(), 1)
}

func TestAdminAPI_RejectedTokenEndsSession(t *testing.T) {
	r, _ := newTestRouter(t, numbered(1)...)

	w := do(r, http.MethodDelete, "/api/admin/profiles/1", "stale-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	env := decode(t, w)
	assert.Equal(t, response.ErrSessionExpired, env.Error.Code)
	assert.Equal(t, "/admin/signin", env.Error.Redirect)

	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)
}

func TestAdminAPI_ListSearchesDescriptions(t *testing.T) {
	profiles := numbered(3)
	profiles[2].Description = "Keeps the lighthouse"
	r, _ := newTestRouter(t, profiles...)

	w := do(r, http.MethodGet, "/api/admin/profiles?q=lighthouse", storetest.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []model.Profile
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, model.ProfileID("3"), items[0].ID)
}

func TestPages_Guard(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/admin", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/signin", w.Header().Get("Location"))

	w = do(r, http.MethodGet, "/admin/signin", storetest.Token, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
}

func TestPages_PublicDirectory(t *testing.T) {
	r, _ := newTestRouter(t, numbered(21)...)

	w := do(r, http.MethodGet, "/profiles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Person 01")
	assert.NotContains(t, body, "Person 21")
	assert.Contains(t, body, "Page 1 of 2")

	w = do(r, http.MethodGet, "/profile/21", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Person 21")
}

func TestPages_SignInForm(t *testing.T) {
	r, _ := newTestRouter(t)

	post := func(email, password string) *httptest.ResponseRecorder {
		form := url.Values{"email": {email}, "password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/admin/signin", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post("admin@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	w = post("admin@example.com", "s3cret")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	require.NotNil(t, sessionCookie(w))
}

func TestPages_DeleteRedirectsWithNotice(t *testing.T) {
	r, srv := newTestRouter(t, numbered(2)...)

	w := do(r, http.MethodPost, "/admin/profiles/1/delete", storetest.Token, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin?notice=deleted", w.Header().Get("Location"))
	assert.Len(t, srv.Profiles(), 1)

	w = do(r, http.MethodPost, "/admin/profiles/99/delete", storetest.Token, nil)
	assert.Equal(t, "/admin?notice=not_found", w.Header().Get("Location"))

	w = do(r, http.MethodPost, "/admin/profiles/2/delete", "stale-token", nil)
	assert.Equal(t, "/admin/signin", w.Header().Get("Location"))
	require.NotNil(t, sessionCookie(w))
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
}

func TestStaticAssetsAreCached(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/static/app.css", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=86400")
}
