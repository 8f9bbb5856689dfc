package policy

import "github.com/kietpt2003/fpt-playground-realtime/internal/auth"

// Gateway operations with an access rule.
const OpJoin = "join"

// Policy decides whether a role may invoke a named gateway operation.
type Policy interface {
	Allow(operation, role string) bool
}

// RolePolicy allows an operation when the caller's role is in the operation's
// allow list. Operations without a rule are open to every authenticated role.
type RolePolicy struct {
	allowed map[string][]string
}

// NewRolePolicy creates the default policy: only ordinary users may join
// rooms; administrators are denied.
func NewRolePolicy() *RolePolicy {
	return &RolePolicy{
		allowed: map[string][]string{
			OpJoin: {auth.RoleUser},
		},
	}
}

// Allow reports whether role may invoke operation.
func (p *RolePolicy) Allow(operation, role string) bool {
	roles, ok := p.allowed[operation]
	if !ok {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
