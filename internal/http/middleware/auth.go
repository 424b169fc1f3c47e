package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/marketsvc/domain"
)

// Context keys set by the session middleware
const (
	KeySession      = "session"
	KeyUserID       = "user_id"
	KeyUserRole     = "user_role"
	KeyRestaurantID = "restaurant_id"
)

// SessionMW resolves the caller's in-memory session for plain HTTP routes
type SessionMW struct {
	sessions domain.SessionManager
}

// NewSessionMW creates new session middleware wrapper
func NewSessionMW(sessions domain.SessionManager) *SessionMW {
	return &SessionMW{sessions: sessions}
}

// WithSession returns the session middleware function
func (mw *SessionMW) WithSession() gin.HandlerFunc {
	return SessionMiddleware(mw.sessions)
}

// SessionMiddleware rejects requests without a live session
func SessionMiddleware(sessions domain.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		session, err := sessions.CurrentUser(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
			}
			c.Abort()
			return
		}

		c.Set(KeySession, session)
		c.Set(KeyUserID, session.Identity.UserID)
		c.Set(KeyUserRole, session.Identity.Role)
		c.Set(KeyRestaurantID, session.Identity.RestaurantID)
		c.Next()
	}
}

// SessionToken reads the bearer token, falling back to the sessionId query
// parameter used by download links.
func SessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Query("sessionId")
}

// SessionFrom returns the session stored by SessionMiddleware
func SessionFrom(c *gin.Context) (*domain.Session, bool) {
	v, ok := c.Get(KeySession)
	if !ok {
		return nil, false
	}
	session, ok := v.(*domain.Session)
	return session, ok
}
