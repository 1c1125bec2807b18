package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openshelf/catalog/internal/entities"
)

func TestHasPermission(t *testing.T) {
	member := &entities.User{Role: entities.UserRoleMember}
	librarian := &entities.User{Role: entities.UserRoleLibrarian}
	admin := &entities.User{Role: entities.UserRoleAdmin}

	t.Run("anonymous holds nothing", func(t *testing.T) {
		assert.False(t, HasPermission(nil, PermMarkReturned))
		assert.False(t, HasPermission(nil, PermManageBooks))
	})

	t.Run("member cannot act on loans or the catalog", func(t *testing.T) {
		assert.False(t, HasPermission(member, PermMarkReturned))
		assert.False(t, HasPermission(member, PermManageAuthors))
		assert.False(t, HasPermission(member, PermManageBooks))
	})

	t.Run("librarian holds all catalog permissions", func(t *testing.T) {
		assert.True(t, HasPermission(librarian, PermMarkReturned))
		assert.True(t, HasPermission(librarian, PermManageAuthors))
		assert.True(t, HasPermission(librarian, PermManageBooks))
	})

	t.Run("admin holds all catalog permissions", func(t *testing.T) {
		assert.True(t, HasPermission(admin, PermMarkReturned))
		assert.True(t, HasPermission(admin, PermManageBooks))
	})

	t.Run("unknown role holds nothing", func(t *testing.T) {
		stranger := &entities.User{Role: "visitor"}
		assert.False(t, HasPermission(stranger, PermMarkReturned))
	})
}
