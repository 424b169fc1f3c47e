package auth

import (
	"fmt"
	"log"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/you/marketsvc/domain"
	"gorm.io/gorm"
)

// ActDispatch is the casbin action used for dispatcher calls; HTTP routes use their method.
const ActDispatch = "dispatch"

// PolicyModel is the RBAC model: a subject (role) may act on an object
// (action name or route pattern). "*" as object grants everything.
const PolicyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || keyMatch2(r.obj, p.obj)) && (p.act == "*" || r.act == p.act)
`

// DefaultPolicies is seeded when the policy table is empty
var DefaultPolicies = [][]string{
	{domain.RoleAdmin, "*", "*"},

	{domain.RoleGuest, "authenticate", ActDispatch},
	{domain.RoleGuest, "addApplication", ActDispatch},
	{domain.RoleGuest, "getRestaurants", ActDispatch},
	{domain.RoleGuest, "getRestaurantByUserId", ActDispatch},
	{domain.RoleGuest, "getPackages", ActDispatch},

	{domain.RoleCustomer, "authenticate", ActDispatch},
	{domain.RoleCustomer, "logout", ActDispatch},
	{domain.RoleCustomer, "me", ActDispatch},
	{domain.RoleCustomer, "getRestaurants", ActDispatch},
	{domain.RoleCustomer, "getRestaurantByUserId", ActDispatch},
	{domain.RoleCustomer, "getPackages", ActDispatch},
	{domain.RoleCustomer, "createOrder", ActDispatch},

	{domain.RoleRestaurant, "authenticate", ActDispatch},
	{domain.RoleRestaurant, "logout", ActDispatch},
	{domain.RoleRestaurant, "me", ActDispatch},
	{domain.RoleRestaurant, "getRestaurants", ActDispatch},
	{domain.RoleRestaurant, "getRestaurantByUserId", ActDispatch},
	{domain.RoleRestaurant, "getPackages", ActDispatch},
	{domain.RoleRestaurant, "addPackage", ActDispatch},
	{domain.RoleRestaurant, "updatePackage", ActDispatch},
	{domain.RoleRestaurant, "deletePackage", ActDispatch},
	{domain.RoleRestaurant, "getOrders", ActDispatch},
	{domain.RoleRestaurant, "updateOrderStatus", ActDispatch},
	{domain.RoleRestaurant, "/orders/:id/qrcode", "GET"},
	{domain.RoleRestaurant, "/packages/import", "POST"},
	{domain.RoleRestaurant, "/packages/import/template", "GET"},
}

// NewEnforcer builds a casbin enforcer persisted through the gorm adapter
// and seeds DefaultPolicies on an empty table.
func NewEnforcer(db *gorm.DB) (*casbin.Enforcer, error) {
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin adapter: %w", err)
	}
	m, err := model.NewModelFromString(PolicyModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, err
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, err
	}

	existing, err := e.GetPolicy()
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		rules := make([][]string, len(DefaultPolicies))
		copy(rules, DefaultPolicies)
		if _, err := e.AddPolicies(rules); err != nil {
			return nil, fmt.Errorf("seed policies: %w", err)
		}
		log.Printf("[policy] seeded %d default policies", len(rules))
	}
	return e, nil
}
