package domain

// Role gates access to one of the four route zones. Roles are assigned by
// out-of-scope provisioning; a user without a role row defaults to RoleUser.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleStaff  Role = "staff"
	RoleUser   Role = "user"
)

// ParseRole resolves a stored role string, defaulting to RoleUser for
// anything unrecognized or absent.
func ParseRole(value string) Role {
	switch Role(value) {
	case RoleAdmin, RoleSeller, RoleStaff:
		return Role(value)
	default:
		return RoleUser
	}
}
