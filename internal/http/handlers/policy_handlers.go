package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/marketsvc/domain"
)

// PolicyHandlers lets the admin inspect and edit authorization rules
type PolicyHandlers struct {
	policy domain.PolicyService
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policy domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policy: policy}
}

type policyReq struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// List handles GET /admin/policies
func (h *PolicyHandlers) List(c *gin.Context) {
	policies := h.policy.GetPolicies()
	out := make([]policyReq, 0, len(policies))
	for _, p := range policies {
		if len(p) < 3 {
			continue
		}
		out = append(out, policyReq{Role: p[0], Resource: p[1], Action: p[2]})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// Add handles POST /admin/policies
func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.policy.AddPolicy(r.Role, r.Resource, r.Action); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove handles DELETE /admin/policies
func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.policy.RemovePolicy(r.Role, r.Resource, r.Action); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
