// Package authz holds the role-based access policy evaluated before every
// protected route.
package authz

import (
	"fmt"
	"strings"

	"skillbook/internal/core/domain"
)

// Action is an operation a caller asks to perform
type Action string

const (
	ActionHome     Action = "home"
	ActionHealth   Action = "health"
	ActionRegister Action = "register"
	ActionLogin    Action = "login"

	ActionListCourses  Action = "course:list"
	ActionReadCourse   Action = "course:read"
	ActionCreateCourse Action = "course:create"
	ActionUpdateCourse Action = "course:update"
	ActionCourseRoster Action = "course:roster"
	ActionEnroll       Action = "course:enroll"

	ActionReadProfile   Action = "profile:read"
	ActionUpdateProfile Action = "profile:update"
	ActionChangeRole    Action = "profile:change-role"
)

// Decision is the outcome of an authorization check
type Decision int

const (
	// Unauthenticated means the action needs a credential and none was presented
	Unauthenticated Decision = iota
	// Forbidden means the caller is authenticated but its role may not perform the action
	Forbidden
	// Allow means the action may proceed
	Allow
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Forbidden:
		return "forbidden"
	default:
		return "unauthenticated"
	}
}

// Profile selects how strict the policy is
type Profile string

const (
	// ProfileStrict requires authentication for everything except home, health, register and login
	ProfileStrict Profile = "strict"
	// ProfileOpenCatalog additionally lets anonymous callers list and read courses
	ProfileOpenCatalog Profile = "open-catalog"
)

// ParseProfile parses a profile name; empty means strict
func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProfileStrict:
		return ProfileStrict, nil
	case ProfileOpenCatalog:
		return ProfileOpenCatalog, nil
	}
	return "", fmt.Errorf("unknown security profile %q (must be %q or %q)", s, ProfileStrict, ProfileOpenCatalog)
}

// Policy maps (role, action) to a decision
type Policy struct {
	public map[Action]bool
	grants map[Action]map[domain.Role]bool
}

var (
	allRoles      = []domain.Role{domain.RoleLearner, domain.RoleInstructor, domain.RoleAdmin}
	staffRoles    = []domain.Role{domain.RoleInstructor, domain.RoleAdmin}
	learnerOnly   = []domain.Role{domain.RoleLearner}
	adminOnly     = []domain.Role{domain.RoleAdmin}
	defaultGrants = map[Action][]domain.Role{
		ActionListCourses:   allRoles,
		ActionReadCourse:    allRoles,
		ActionCreateCourse:  staffRoles,
		ActionUpdateCourse:  staffRoles,
		ActionCourseRoster:  staffRoles,
		ActionEnroll:        learnerOnly,
		ActionReadProfile:   allRoles,
		ActionUpdateProfile: allRoles,
		ActionChangeRole:    adminOnly,
	}
)

// NewPolicy builds the policy for the given profile
func NewPolicy(profile Profile) *Policy {
	p := &Policy{
		public: map[Action]bool{
			ActionHome:     true,
			ActionHealth:   true,
			ActionRegister: true,
			ActionLogin:    true,
		},
		grants: make(map[Action]map[domain.Role]bool, len(defaultGrants)),
	}

	if profile == ProfileOpenCatalog {
		p.public[ActionListCourses] = true
		p.public[ActionReadCourse] = true
	}

	for action, roles := range defaultGrants {
		set := make(map[domain.Role]bool, len(roles))
		for _, r := range roles {
			set[r] = true
		}
		p.grants[action] = set
	}
	return p
}

// Authorize decides whether principal may perform action. A nil principal is an
// anonymous caller.
func (p *Policy) Authorize(principal *domain.Principal, action Action) Decision {
	if p.public[action] {
		return Allow
	}
	if principal == nil {
		return Unauthenticated
	}
	if p.grants[action][principal.Role] {
		return Allow
	}
	return Forbidden
}

// Allows is a convenience for Authorize(...) == Allow
func (p *Policy) Allows(principal *domain.Principal, action Action) bool {
	return p.Authorize(principal, action) == Allow
}
