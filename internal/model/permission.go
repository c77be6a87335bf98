package model

// Permission is a named capability granted to roles
type Permission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // e.g. "societes.manage"
	DisplayName string `gorm:"type:varchar(255)" json:"display_name"`
	Description string `gorm:"type:text" json:"description"`
}

const (
	PermSocietesManage = "societes.manage"
	PermAdminsManage   = "admins.manage"
	PermUsersManage    = "users.manage"
	PermRolesManage    = "roles.manage"
	PermSettingsManage = "settings.manage"
	PermStatsView      = "stats.view"
)

// Default permissions for the system
var DefaultPermissions = []Permission{
	{Name: PermAdminsManage, DisplayName: "Gérer les administrateurs", Description: "Créer, modifier et supprimer les administrateurs"},
	{Name: PermRolesManage, DisplayName: "Gérer les rôles", Description: "Modifier les permissions des rôles"},
	{Name: PermSettingsManage, DisplayName: "Paramètres généraux", Description: "Lire et modifier les paramètres de la plateforme"},
	{Name: PermSocietesManage, DisplayName: "Gérer les sociétés", Description: "Créer, modifier et supprimer les sociétés"},
	{Name: PermStatsView, DisplayName: "Voir les statistiques", Description: "Accès au tableau de bord global"},
	{Name: PermUsersManage, DisplayName: "Gérer les utilisateurs", Description: "CRUD sur tous les comptes"},
}
