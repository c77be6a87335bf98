package model

// DefaultPays is stored when a societe is created without a country.
const DefaultPays = "Tunisie"

// Societe is a tenant company. Its administrator and commercial staff are
// derived from users.societe_id, never stored on the row itself.
type Societe struct {
	BaseModel
	Nom         string  `gorm:"type:varchar(255);not null" json:"nom"`
	Email       string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Telephone   *string `gorm:"type:varchar(30)" json:"telephone"`
	Adresse     *string `gorm:"type:varchar(255)" json:"adresse"`
	CodePostal  *string `gorm:"type:varchar(20)" json:"code_postal"`
	Ville       *string `gorm:"type:varchar(100)" json:"ville"`
	Pays        string  `gorm:"type:varchar(100);not null" json:"pays"`
	Secteur     *string `gorm:"type:varchar(150)" json:"secteur"`
	Description *string `gorm:"type:text" json:"description"`
	Logo        *string `gorm:"type:varchar(255)" json:"logo"`
	IsActive    bool    `gorm:"not null" json:"is_active"`

	Admin       *User  `gorm:"-" json:"admin"`
	Commerciaux []User `gorm:"-" json:"commerciaux,omitempty"`
}
