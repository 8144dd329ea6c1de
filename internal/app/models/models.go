package models

// RoleType defines the role carried by an actor's token
type RoleType string

const (
	RolePrincipal RoleType = "PRINCIPAL"
	RoleHOD       RoleType = "HOD"
	RoleFaculty   RoleType = "FACULTY"
)

// Valid reports whether r is a role this service recognises
func (r RoleType) Valid() bool {
	switch r {
	case RolePrincipal, RoleHOD, RoleFaculty:
		return true
	default:
		return false
	}
}

// Actor identifies who issued a command. Authorization is decided by the
// caller's collaborator layer; services only record the actor.
type Actor struct {
	ID   int64    `json:"id"`
	Role RoleType `json:"role"`
}

// SystemActor is used by seeding and maintenance tooling.
var SystemActor = Actor{ID: 0, Role: RolePrincipal}
