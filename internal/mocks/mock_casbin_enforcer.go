package mocks

import "github.com/you/marketsvc/domain"

// MockCasbinEnforcer implements the CasbinEnforcer interface for testing.
// Without overrides it keeps an in-memory rule list and matches rules
// exactly, with "*" as a wildcard object or action.
type MockCasbinEnforcer struct {
	AddPolicyFunc    func(params ...interface{}) (bool, error)
	RemovePolicyFunc func(params ...interface{}) (bool, error)
	EnforceFunc      func(rvals ...interface{}) (bool, error)
	GetPolicyFunc    func() ([][]string, error)
	SavePolicyFunc   func() error
	LoadPolicyFunc   func() error

	rules [][3]string
	Saves int
}

var _ domain.CasbinEnforcer = (*MockCasbinEnforcer)(nil)

// NewMockCasbinEnforcer creates an enforcer holding a few marketplace rules
func NewMockCasbinEnforcer() *MockCasbinEnforcer {
	return &MockCasbinEnforcer{
		rules: [][3]string{
			{domain.RoleAdmin, "*", "*"},
			{domain.RoleGuest, "authenticate", "dispatch"},
			{domain.RoleRestaurant, "getOrders", "dispatch"},
			{domain.RoleRestaurant, "updateOrderStatus", "dispatch"},
		},
	}
}

// toRule reads sub, obj, act from casbin's variadic arguments
func toRule(params []interface{}) ([3]string, bool) {
	var r [3]string
	if len(params) != 3 {
		return r, false
	}
	for i, p := range params {
		s, ok := p.(string)
		if !ok {
			return r, false
		}
		r[i] = s
	}
	return r, true
}

func (m *MockCasbinEnforcer) indexOf(r [3]string) int {
	for i, existing := range m.rules {
		if existing == r {
			return i
		}
	}
	return -1
}

func (m *MockCasbinEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(params...)
	}
	r, ok := toRule(params)
	if !ok || m.indexOf(r) >= 0 {
		return false, nil
	}
	m.rules = append(m.rules, r)
	return true, nil
}

func (m *MockCasbinEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(params...)
	}
	r, ok := toRule(params)
	if !ok {
		return false, nil
	}
	i := m.indexOf(r)
	if i < 0 {
		return false, nil
	}
	m.rules = append(m.rules[:i], m.rules[i+1:]...)
	return true, nil
}

func (m *MockCasbinEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	if m.EnforceFunc != nil {
		return m.EnforceFunc(rvals...)
	}
	req, ok := toRule(rvals)
	if !ok {
		return false, nil
	}
	for _, r := range m.rules {
		if r[0] == req[0] && (r[1] == "*" || r[1] == req[1]) && (r[2] == "*" || r[2] == req[2]) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCasbinEnforcer) GetPolicy() ([][]string, error) {
	if m.GetPolicyFunc != nil {
		return m.GetPolicyFunc()
	}
	out := make([][]string, 0, len(m.rules))
	for _, r := range m.rules {
		out = append(out, []string{r[0], r[1], r[2]})
	}
	return out, nil
}

func (m *MockCasbinEnforcer) SavePolicy() error {
	if m.SavePolicyFunc != nil {
		return m.SavePolicyFunc()
	}
	m.Saves++
	return nil
}

func (m *MockCasbinEnforcer) LoadPolicy() error {
	if m.LoadPolicyFunc != nil {
		return m.LoadPolicyFunc()
	}
	return nil
}

// SetPolicies replaces the rule list; rows that are not sub, obj, act are skipped
func (m *MockCasbinEnforcer) SetPolicies(policies [][]string) {
	m.rules = m.rules[:0]
	for _, p := range policies {
		if len(p) == 3 {
			m.rules = append(m.rules, [3]string{p[0], p[1], p[2]})
		}
	}
}
