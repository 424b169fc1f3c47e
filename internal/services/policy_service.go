package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/you/marketsvc/domain"
)

// CasbinEnforcerWrapper adapts *casbin.Enforcer to domain.CasbinEnforcer
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper wraps a loaded Casbin enforcer
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

func (w *CasbinEnforcerWrapper) SavePolicy() error {
	return w.enforcer.SavePolicy()
}

// PolicyServiceImpl implements domain.PolicyService on top of Casbin.
// Subjects are roles; objects are dispatch action names or HTTP route
// patterns.
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a policy service backed by a Casbin enforcer
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return NewPolicyServiceWithEnforcer(NewCasbinEnforcerWrapper(enforcer))
}

// NewPolicyServiceWithEnforcer creates a policy service over any domain.CasbinEnforcer
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// AddPolicy implements domain.PolicyService. Adding an existing rule is a no-op.
func (p *PolicyServiceImpl) AddPolicy(role, resource, action string) error {
	rule, err := policyRule(role, resource, action)
	if err != nil {
		return err
	}
	added, err := p.enforcer.AddPolicy(rule...)
	if err != nil {
		return fmt.Errorf("failed to add policy: %w", err)
	}
	if !added {
		return nil
	}
	log.Printf("[policy] granted %v", rule)
	return p.enforcer.SavePolicy()
}

// RemovePolicy implements domain.PolicyService. The admin wildcard cannot be revoked.
func (p *PolicyServiceImpl) RemovePolicy(role, resource, action string) error {
	rule, err := policyRule(role, resource, action)
	if err != nil {
		return err
	}
	if rule[0] == domain.RoleAdmin && rule[1] == "*" && rule[2] == "*" {
		return domain.ErrForbidden
	}
	removed, err := p.enforcer.RemovePolicy(rule...)
	if err != nil {
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	if !removed {
		return nil
	}
	log.Printf("[policy] revoked %v", rule)
	return p.enforcer.SavePolicy()
}

// CheckPermission implements domain.PolicyService; an empty role is a guest
func (p *PolicyServiceImpl) CheckPermission(role, resource, action string) (bool, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = domain.RoleGuest
	}
	return p.enforcer.Enforce(role, resource, action)
}

// GetPolicies implements domain.PolicyService
func (p *PolicyServiceImpl) GetPolicies() [][]string {
	policies, err := p.enforcer.GetPolicy()
	if err != nil {
		log.Printf("[policy] failed to read policies: %v", err)
		return nil
	}
	return policies
}

func policyRule(role, resource, action string) ([]interface{}, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	resource = strings.TrimSpace(resource)
	action = strings.TrimSpace(action)
	if role == "" || resource == "" || action == "" {
		return nil, domain.ErrInvalidPayload
	}
	return []interface{}{role, resource, action}, nil
}
