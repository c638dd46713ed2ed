package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/profile-directory/internal/response"
)

// Admin area paths.
const (
	AdminHomePath   = "/admin"
	AdminSignInPath = "/admin/signin"
)

// AdminGuard protects the HTML admin area. It only checks that a token is
// present: without one every admin page redirects to sign-in, and with one
// the sign-in page redirects to the dashboard. Token validity is left to the
// profile store.
func AdminGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.TrimRight(c.Request.URL.Path, "/")
		if path != AdminHomePath && !strings.HasPrefix(path, AdminHomePath+"/") {
			c.Next()
			return
		}

		hasToken := GetSession(c).Authenticated()
		onSignIn := path == AdminSignInPath

		switch {
		case onSignIn && hasToken:
			c.Redirect(http.StatusFound, AdminHomePath)
			c.Abort()
		case !onSignIn && !hasToken:
			c.Redirect(http.StatusFound, AdminSignInPath)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// RequireAdminToken is the JSON counterpart of AdminGuard: requests without
// a token are rejected with 401 and told where to sign in.
func RequireAdminToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).Authenticated() {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired, response.WithRedirect(AdminSignInPath))
			return
		}
		c.Next()
	}
}
