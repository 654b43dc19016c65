package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores system users with role-based access.
// Rol: "admin" | "operador" | "consulta"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string   `gorm:"index"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null"`
	// MFASecret is the base32 TOTP secret; set on enroll, used once MFAEnabled.
	MFASecret    *string
	MFAEnabled   bool `gorm:"not null;default:false"`
	Activo       bool `gorm:"not null;default:true"`
	UltimoAcceso *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
