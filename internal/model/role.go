package model

import "time"

// RoleName is the closed set of roles known to the platform.
type RoleName string

const (
	RoleSuperAdmin RoleName = "super_admin"
	RoleAdmin      RoleName = "admin"
	RoleCommercial RoleName = "commercial"
	RoleClient     RoleName = "client"
)

// AllRoleNames lists every role in seeding order.
var AllRoleNames = []RoleName{RoleSuperAdmin, RoleAdmin, RoleCommercial, RoleClient}

func (n RoleName) Valid() bool {
	switch n {
	case RoleSuperAdmin, RoleAdmin, RoleCommercial, RoleClient:
		return true
	}
	return false
}

// Role represents user roles in the system
type Role struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        RoleName     `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	DisplayName string       `gorm:"type:varchar(255);not null" json:"display_name"`
	Description string       `gorm:"type:text" json:"description"`
	IsActive    bool         `gorm:"not null" json:"is_active"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"foreignKey:RoleID" json:"users,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// HasPermission checks whether the role grants the named permission
func (r *Role) HasPermission(name string) bool {
	for _, p := range r.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}

// PermissionNames returns the names of all permissions granted by the role
func (r *Role) PermissionNames() []string {
	names := make([]string, len(r.Permissions))
	for i, p := range r.Permissions {
		names[i] = p.Name
	}
	return names
}

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Name:        RoleSuperAdmin,
		DisplayName: "Super Administrateur",
		Description: "Accès complet à la plateforme. Peut créer des sociétés et des administrateurs.",
		IsActive:    true,
	},
	{
		Name:        RoleAdmin,
		DisplayName: "Administrateur",
		Description: "Gère une société et ses commerciaux. Peut voir tous les devis de sa société.",
		IsActive:    true,
	},
	{
		Name:        RoleCommercial,
		DisplayName: "Commercial",
		Description: "Crée des devis, gère les produits/services et les clients.",
		IsActive:    true,
	},
	{
		Name:        RoleClient,
		DisplayName: "Client",
		Description: "Consulte ses propres devis et télécharge les PDF.",
		IsActive:    true,
	},
}
