// internal/authz/permissions.go
package authz

import "fmt"

// Permission is one of the actions a caller can be granted on this module.
type Permission int

const (
	PermissionCreate Permission = iota + 1
	PermissionRead
	PermissionList
	PermissionUpdate
	PermissionDelete
)

func (p Permission) Action() string {
	switch p {
	case PermissionCreate:
		return "create"
	case PermissionRead:
		return "read"
	case PermissionList:
		return "list"
	case PermissionUpdate:
		return "update"
	case PermissionDelete:
		return "delete"
	default:
		return ""
	}
}

func (p Permission) Valid() bool {
	return p.Action() != ""
}

// Tag renders the permission the way the auth service stores it, e.g. "nutripae-rh:create".
func (p Permission) Tag(module string) string {
	return fmt.Sprintf("%s:%s", module, p.Action())
}

func (p Permission) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Permission(%d)", int(p))
	}
	return p.Action()
}
