package middleware

import (
	"log"
	"net/http"
	"time"

	"rxintel/domain/core"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie names the cookie carrying the browser session ID.
	SessionCookie = "rx_session"
	sessionKey    = "sessionID"
)

// SessionStore is the part of the session manager the middleware needs.
type SessionStore interface {
	Touch(id core.SessionID) bool
	Start() core.SessionID
}

// EnsureSession is middleware that attaches a live session to every request,
// starting a new one when the cookie is missing, malformed or expired.
func EnsureSession(store SessionStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id core.SessionID
		if raw, err := c.Cookie(SessionCookie); err == nil {
			if parsed, err := core.ParseSessionID(raw); err == nil && store.Touch(parsed) {
				id = parsed
			}
		}

		if id == "" {
			id = store.Start()
			log.Printf("[EnsureSession] Started session %s for %s", id, c.ClientIP())
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id.String(), int(ttl.Seconds()), "/", "", false, true)
		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID returns the session attached by EnsureSession.
func SessionID(c *gin.Context) core.SessionID {
	if v, ok := c.Get(sessionKey); ok {
		if id, ok := v.(core.SessionID); ok {
			return id
		}
	}
	return ""
}
