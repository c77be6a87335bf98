package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account on the platform
type User struct {
	BaseModel
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Telephone *string    `gorm:"type:varchar(30)" json:"telephone"`
	RoleID    uint       `gorm:"not null;index" json:"role_id"`
	Role      *Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	SocieteID *uuid.UUID `gorm:"type:uuid;index" json:"societe_id"`
	Societe   *Societe   `gorm:"foreignKey:SocieteID" json:"societe,omitempty"`
	IsActive  bool       `gorm:"not null" json:"is_active"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// RoleName returns the preloaded role name, empty when Role was not loaded
func (u *User) RoleName() RoleName {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// BelongsTo reports whether the user currently points at the given societe
func (u *User) BelongsTo(societeID uuid.UUID) bool {
	return u.SocieteID != nil && *u.SocieteID == societeID
}
