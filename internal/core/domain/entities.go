package domain

import "strings"

// Role represents user role in the system
type Role string

const (
	RoleLearner    Role = "LEARNER"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// Roles lists every known role
var Roles = []Role{RoleLearner, RoleInstructor, RoleAdmin}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleLearner, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole parses a role name case-insensitively
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Principal is the authenticated caller resolved from a token or session
type Principal struct {
	UserID   uint
	Username string
	Role     Role
}

// Event names published by the services
const (
	EventUserRegistered    = "user.registered"
	EventCourseCreated     = "course.created"
	EventEnrollmentCreated = "enrollment.created"
	EventCourseReminder    = "course.reminder"
)
