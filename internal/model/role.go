package model

// Role names. The role table is configuration: seeded once at startup from
// DefaultRoles and never mutated at runtime.
const (
	RoleAdmin                 = "ADMIN"
	RoleAlmoxarifado          = "ALMOXARIFADO"
	RoleGerenteAlmoxarifado   = "GERENTE_ALMOXARIFADO"
	RoleAprovadorAlmoxarifado = "APROVADOR_ALMOXARIFADO"
)

// Role is a named capability grouping assigned to users
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// DefaultRoles is the seed catalog. GERENTE_ALMOXARIFADO may only reduce
// quantities at fulfillment; APROVADOR_ALMOXARIFADO has full control.
func DefaultRoles() []Role {
	return []Role{
		{Name: RoleAdmin, Description: "Administrador do sistema"},
		{Name: RoleAlmoxarifado, Description: "Solicita materiais para uma unidade"},
		{Name: RoleGerenteAlmoxarifado, Description: "Gerente de almoxarifado: aprova, rejeita e atende reduzindo quantidades"},
		{Name: RoleAprovadorAlmoxarifado, Description: "Aprovador de almoxarifado: controle completo do ciclo de solicitações"},
	}
}

// ReviewerRoles are the roles allowed to approve, reject and fulfill requests
func ReviewerRoles() []string {
	return []string{RoleAdmin, RoleGerenteAlmoxarifado, RoleAprovadorAlmoxarifado}
}

// RequesterRoles are the roles allowed to create requests
func RequesterRoles() []string {
	return []string{RoleAdmin, RoleAlmoxarifado, RoleGerenteAlmoxarifado, RoleAprovadorAlmoxarifado}
}

// HasAnyRole reports whether any of the wanted role names is held
func HasAnyRole(have []string, want ...string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// RoleNames projects a role slice to its names
func RoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

// ValidRoleName reports whether name is part of the seed catalog
func ValidRoleName(name string) bool {
	for _, r := range DefaultRoles() {
		if r.Name == name {
			return true
		}
	}
	return false
}
