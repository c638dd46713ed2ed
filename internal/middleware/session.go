package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/profile-directory/internal/session"
)

// ContextKeySession is the Gin context key for the request's admin session.
const ContextKeySession = "session"

// LoadSession builds the request's Session from the adminToken cookie, or
// from an Authorization: Bearer header when no cookie is present.
func LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeySession, session.New(requestToken(c)))
		c.Next()
	}
}

// GetSession retrieves the Session stored by LoadSession. It never returns nil.
func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(ContextKeySession); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	s := session.New(requestToken(c))
	c.Set(ContextKeySession, s)
	return s
}

func requestToken(c *gin.Context) string {
	if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SessionCookie writes and clears the adminToken cookie.
type SessionCookie struct {
	MaxAge time.Duration
	Secure bool
}

// Set stores token in the cookie.
func (sc SessionCookie) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, int(sc.MaxAge.Seconds()), "/", "", sc.Secure, true)
}

// Clear expires the cookie immediately.
func (sc SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", sc.Secure, true)
}
