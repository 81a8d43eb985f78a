package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const contextKeyUserID = "user_id"

// SessionLookup resolves a session cookie value to a user.
type SessionLookup interface {
	UserID(ctx context.Context, sessionID string) (string, bool, error)
}

// UserIDFromContext returns the user set by Gate. Empty if anonymous.
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

// Gate applies Authorize to every request it wraps. Denied requests go to
// loginPath with the original URL in callbackUrl. Paths under any of
// skipPrefixes pass through untouched.
func Gate(sessions SessionLookup, cookieName, loginPath string, log *zap.Logger, skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range skipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}

		userID, loggedIn := currentUser(c, sessions, cookieName, log)

		switch Authorize(loggedIn, c.Request.URL.Path) {
		case Deny:
			q := url.Values{}
			q.Set("callbackUrl", c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, loginPath+"?"+q.Encode())
			c.Abort()
		case RedirectToDashboard:
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
		default:
			if loggedIn {
				c.Set(contextKeyUserID, userID)
			}
			c.Next()
		}
	}
}

func currentUser(c *gin.Context, sessions SessionLookup, cookieName string, log *zap.Logger) (string, bool) {
	sessionID, err := c.Cookie(cookieName)
	if err != nil || sessionID == "" {
		return "", false
	}
	userID, ok, err := sessions.UserID(c.Request.Context(), sessionID)
	if err != nil {
		log.Warn("session lookup failed, treating request as anonymous", zap.Error(err))
		return "", false
	}
	return userID, ok
}
