package models

// Actor is the party making a request. The zero value is the anonymous actor.
type Actor struct {
	ID       uint
	Username string
	Role     UserRole
}

func (a Actor) IsAnonymous() bool {
	return a.ID == 0
}

func (a Actor) IsAdmin() bool {
	return !a.IsAnonymous() && a.Role == RoleAdmin
}
