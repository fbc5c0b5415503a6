package domain

// Roles. There is no hierarchy: an admin is not implicitly a user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
