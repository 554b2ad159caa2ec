package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"

	// RolePlatformOperator is a hidden support role; it is denied unless a
	// route explicitly allows it.
	RolePlatformOperator = "platform_operator"
)

func IsAdmin(role string) bool { return role == RoleAdmin }

func IsHiddenRole(role string) bool { return role == RolePlatformOperator }
