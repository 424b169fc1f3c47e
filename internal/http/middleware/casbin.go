package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/marketsvc/domain"
)

// CasbinMiddleware defines the interface for route authorization middleware
type CasbinMiddleware interface {
	Enforce() gin.HandlerFunc
}

// PolicyMW checks the caller's role against the route pattern and method
type PolicyMW struct {
	policy domain.PolicyService
}

// NewPolicyMW creates new policy middleware wrapper
func NewPolicyMW(policy domain.PolicyService) *PolicyMW {
	return &PolicyMW{policy: policy}
}

var _ CasbinMiddleware = (*PolicyMW)(nil)

// Enforce returns the authorization middleware; it must run after SessionMiddleware
func (mw *PolicyMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(KeyUserRole)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in session"})
			c.Abort()
			return
		}

		// parameterized path so policies can use :id patterns
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		allowed, err := mw.policy.CheckPermission(role.(string), path, c.Request.Method)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}
