package auth

import "github.com/openshelf/catalog/internal/entities"

// Permission names a capability a principal may hold. The names keep the
// catalog.* prefix so they read the same in logs and in the role table.
type Permission string

const (
	// PermMarkReturned gates the librarian loan views, renewals and
	// mark-returned actions.
	PermMarkReturned Permission = "catalog.can_mark_returned"

	// PermManageAuthors gates author create/update/delete.
	PermManageAuthors Permission = "catalog.manage_authors"

	// PermManageBooks gates book create/update/delete.
	PermManageBooks Permission = "catalog.manage_books"
)

// rolePermissions maps each role to the permissions it grants. Members can
// only browse and see their own loans.
var rolePermissions = map[entities.UserRole][]Permission{
	entities.UserRoleMember:    {},
	entities.UserRoleLibrarian: {PermMarkReturned, PermManageAuthors, PermManageBooks},
	entities.UserRoleAdmin:     {PermMarkReturned, PermManageAuthors, PermManageBooks},
}

// HasPermission reports whether the principal holds the named permission.
// A nil principal is anonymous and holds nothing. No side effects.
func HasPermission(user *entities.User, perm Permission) bool {
	if user == nil {
		return false
	}
	for _, p := range rolePermissions[user.Role] {
		if p == perm {
			return true
		}
	}
	return false
}
