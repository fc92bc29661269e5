package auth

// Actions the engine gates. Price changes are the only gated operation for
// now; the set grows as more back-office operations need sign-off.
const (
	ActionChangePrice = "product.change_price"
)

// Authorizer decides whether a principal may perform an action. The engine
// never embeds credentials; callers supply whatever policy they need.
type Authorizer interface {
	Authorize(action, principal string) bool
}

// RoleAuthorizer maps an action to the roles allowed to perform it.
type RoleAuthorizer map[string][]string

// Authorize reports whether the principal's role is allowed the action.
func (a RoleAuthorizer) Authorize(action, principal string) bool {
	for _, role := range a[action] {
		if role == principal {
			return true
		}
	}
	return false
}

// Default returns the standard back-office policy: only managers change prices.
func Default() RoleAuthorizer {
	return RoleAuthorizer{
		ActionChangePrice: {"manager"},
	}
}
