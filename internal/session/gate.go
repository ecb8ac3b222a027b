package session

import (
	"strings"

	"github.com/yarncraft/storefront/internal/api"
)

// Redirect targets used by gate denials.
const (
	RedirectLogin = "/login"
	RedirectHome  = "/"
)

// Decision is the outcome of an access check. When Allowed is false,
// Redirect names where the caller should be sent instead; denial is a
// redirect, never an error.
type Decision struct {
	Allowed  bool
	Redirect string
}

// gateRule gates one route or route prefix behind a role.
type gateRule struct {
	route  string
	prefix bool
	role   api.Role
}

// The static gate table. Routes not listed are open to everyone,
// authenticated or not.
var gateRules = []gateRule{
	{route: "/vendor", prefix: true, role: api.RoleVendor},
	{route: "/admin", prefix: true, role: api.RoleAdmin},
	{route: "/cart", role: api.RoleCustomer},
	{route: "/checkout", role: api.RoleCustomer},
	{route: "/orders", role: api.RoleCustomer},
}

// Decide is a pure lookup mapping (identity, route) to an access decision.
// id is nil for anonymous callers.
func Decide(id *Identity, route string) Decision {
	for _, rule := range gateRules {
		if !rule.matches(route) {
			continue
		}
		if id == nil {
			return Decision{Redirect: RedirectLogin}
		}
		if id.Role != rule.role {
			return Decision{Redirect: RedirectHome}
		}
		return Decision{Allowed: true}
	}
	return Decision{Allowed: true}
}

// CanAccess checks route against the store's current identity. While
// resolution is still pending every gated route is denied, so no privileged
// view is computed from an unknown identity.
func (s *Store) CanAccess(route string) Decision {
	if id, ok := s.Identity(); ok && s.Resolved() {
		return Decide(&id, route)
	}
	return Decide(nil, route)
}

func (r gateRule) matches(route string) bool {
	if route == r.route {
		return true
	}
	return r.prefix && strings.HasPrefix(route, r.route+"/")
}
