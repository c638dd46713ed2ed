package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/stemsi/profile-directory/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func guardedRouter() *gin.Engine {
	r := gin.New()
	r.Use(LoadSession(), AdminGuard())
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.URL.Path) }
	r.GET("/admin", ok)
	r.GET("/admin/signin", ok)
	r.GET("/admin/profiles/:id", ok)
	r.GET("/profiles", ok)
	r.GET("/administrators", ok)
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminGuard(t *testing.T) {
	r := guardedRouter()

	tests := []struct {
		name     string
		path     string
		token    string
		status   int
		location string
	}{
		{"dashboard without token", "/admin", "", http.StatusFound, "/admin/signin"},
		{"nested page without token", "/admin/profiles/3", "", http.StatusFound, "/admin/signin"},
		{"sign-in without token", "/admin/signin", "", http.StatusOK, ""},
		{"sign-in with token", "/admin/signin", "any-token", http.StatusFound, "/admin"},
		{"dashboard with token", "/admin", "any-token", http.StatusOK, ""},
		{"unvalidated token passes", "/admin/profiles/3", "garbage", http.StatusOK, ""},
		{"public page", "/profiles", "", http.StatusOK, ""},
		{"lookalike prefix", "/administrators", "", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.path, tt.token)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestRequireAdminToken(t *testing.T) {
	r := gin.New()
	r.Use(LoadSession())
	r.GET("/api/admin/profiles", RequireAdminToken(), func(c *gin.Context) {
		c.String(http.StatusOK, GetSession(c).Token())
	})

	w := get(r, "/api/admin/profiles", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/admin/signin"`)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/profiles", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "header-token", w.Body.String())

	w = get(r, "/api/admin/profiles", "cookie-token")
	assert.Equal(t, "cookie-token", w.Body.String())
}

func TestSessionCookie(t *testing.T) {
	r := gin.New()
	sc := SessionCookie{MaxAge: 24 * time.Hour, Secure: true}
	r.GET("/in", func(c *gin.Context) { sc.Set(c, "tok") })
	r.GET("/out", func(c *gin.Context) { sc.Clear(c) })

	in := get(r, "/in", "")
	cookies := in.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, session.CookieName, cookies[0].Name)
		assert.Equal(t, "tok", cookies[0].Value)
		assert.Equal(t, 86400, cookies[0].MaxAge)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
	}

	out := get(r, "/out", "")
	cookies = out.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	}
}
