package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/portfoliokit/portfolio/internal/sessions"
)

const sessionContextKey = "adminSession"

// SessionAuth resolves the session cookie into an admin session on the
// context. It never aborts: pages that require a login use RequireAdmin on
// top of it.
func SessionAuth(svc *sessions.Service, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(cookieName)
		if err != nil || tok == "" {
			c.Next()
			return
		}
		sess, err := svc.Validate(c.Request.Context(), tok)
		if err != nil || sess == nil {
			c.Next()
			return
		}
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// RequireAdmin redirects anonymous requests to the login page.
func RequireAdmin(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionFrom(c) == nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SessionFrom returns the authenticated admin session, or nil.
func SessionFrom(c *gin.Context) *sessions.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*sessions.Session)
	return s
}
