package types

// Role is derived from application state and admin membership. It is never
// persisted.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

// Identity is the authenticated caller as established by the auth middleware.
type Identity struct {
	UserID string
	Email  string
	Name   string
}
