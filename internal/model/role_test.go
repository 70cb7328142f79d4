package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAnyRole(t *testing.T) {
	assert.True(t, HasAnyRole([]string{RoleAlmoxarifado}, RequesterRoles()...))
	assert.True(t, HasAnyRole([]string{RoleGerenteAlmoxarifado}, ReviewerRoles()...))
	assert.True(t, HasAnyRole([]string{RoleAprovadorAlmoxarifado}, ReviewerRoles()...))
	assert.True(t, HasAnyRole([]string{RoleAdmin, RoleAlmoxarifado}, RoleAlmoxarifado))

	assert.False(t, HasAnyRole([]string{RoleAlmoxarifado}, ReviewerRoles()...))
	assert.False(t, HasAnyRole(nil, RequesterRoles()...))
	assert.False(t, HasAnyRole([]string{RoleAdmin}))
}

func TestDefaultRolesCoverTheSeedCatalog(t *testing.T) {
	names := RoleNames(DefaultRoles())
	assert.ElementsMatch(t, []string{
		RoleAdmin,
		RoleAlmoxarifado,
		RoleGerenteAlmoxarifado,
		RoleAprovadorAlmoxarifado,
	}, names)
}

func TestValidRoleName(t *testing.T) {
	assert.True(t, ValidRoleName(RoleAprovadorAlmoxarifado))
	assert.False(t, ValidRoleName("SUPERVISOR"))
	assert.False(t, ValidRoleName(""))
}
