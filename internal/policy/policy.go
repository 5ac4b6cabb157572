// Package policy holds the single role -> operation table that gates every mutation.
// Ownership predicates are checked by the services after the role check passes.
package policy

import (
	"fmt"

	"tourmarket/internal/domain"

	"github.com/casbin/casbin"
)

type Action string

const (
	TourCreate   Action = "tour:create"
	TourUpdate   Action = "tour:update"
	TourDelete   Action = "tour:delete"
	TourListMine Action = "tour:list-mine"

	BookingCreate   Action = "booking:create"
	BookingCancel   Action = "booking:cancel"
	BookingListMine Action = "booking:list-mine"

	ReviewCreate Action = "review:create"
	ReviewUpdate Action = "review:update"
	ReviewDelete Action = "review:delete"

	CustomTourCreate   Action = "custom-tour:create"
	CustomTourJoin     Action = "custom-tour:join"
	CustomTourListMine Action = "custom-tour:list-mine"

	AdminModerate Action = "admin:moderate"
)

// anyRole matches every authenticated role.
const anyRole = "*"

const modelText = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (r.sub == p.sub || p.sub == "*") && r.act == p.act
`

type rule struct {
	role   string
	action Action
}

var rules = []rule{
	{string(domain.RoleGuide), TourCreate},
	{string(domain.RoleAdmin), TourCreate},
	{string(domain.RoleGuide), TourUpdate},
	{string(domain.RoleAdmin), TourUpdate},
	{string(domain.RoleGuide), TourDelete},
	{string(domain.RoleAdmin), TourDelete},
	{string(domain.RoleGuide), TourListMine},

	{string(domain.RoleTraveler), BookingCreate},
	{anyRole, BookingCancel},
	{anyRole, BookingListMine},

	{string(domain.RoleTraveler), ReviewCreate},
	{string(domain.RoleTraveler), ReviewUpdate},
	{string(domain.RoleTraveler), ReviewDelete},
	{string(domain.RoleAdmin), ReviewDelete},

	{anyRole, CustomTourCreate},
	{anyRole, CustomTourJoin},
	{anyRole, CustomTourListMine},

	{string(domain.RoleAdmin), AdminModerate},
}

type Enforcer struct {
	e *casbin.Enforcer
}

func New() (*Enforcer, error) {
	e, err := casbin.NewEnforcerSafe(casbin.NewModel(modelText))
	if err != nil {
		return nil, fmt.Errorf("policy.New: %w", err)
	}
	for _, r := range rules {
		e.AddPolicy(r.role, string(r.action))
	}
	return &Enforcer{e: e}, nil
}

// MustNew is New for wiring code and tests where the table is static.
func MustNew() *Enforcer {
	p, err := New()
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Enforcer) Allowed(role domain.UserRole, act Action) bool {
	if role == "" {
		return false
	}
	return p.e.Enforce(string(role), string(act))
}

// Authorize rejects anonymous callers with Unauthorized and disallowed roles with Forbidden.
func (p *Enforcer) Authorize(c domain.Caller, act Action) error {
	if !c.Authenticated() {
		return domain.Unauthorized("You are not logged in. Please log in to get access")
	}
	if !p.Allowed(c.Role, act) {
		return domain.Forbidden("You do not have permission to perform this action")
	}
	return nil
}
