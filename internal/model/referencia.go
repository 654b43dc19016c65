package model

import (
	"time"

	"github.com/google/uuid"
)

type Pais struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Codigo    string    `gorm:"type:varchar(10);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Pais) TableName() string { return "paises" }

type Ciudad struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	PaisID    uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Pais *Pais `gorm:"foreignKey:PaisID"`
}

func (Ciudad) TableName() string { return "ciudades" }

type Moneda struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	Nombre    string    `gorm:"not null"`
	Simbolo   string    `gorm:"type:varchar(5)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remitente is any party of a CRT: shipper, consignee, notify party.
type Remitente struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TipoDocumento   string    `gorm:"type:varchar(20)"`
	NumeroDocumento string    `gorm:"type:varchar(50);index"`
	Nombre          string    `gorm:"index;not null"`
	Direccion       string
	CiudadID        uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Ciudad *Ciudad `gorm:"foreignKey:CiudadID"`
}

type Transportadora struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo           string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	CodigoInterno    string    `gorm:"type:varchar(20)"`
	Nombre           string    `gorm:"index;not null"`
	Direccion        string
	CiudadID         uuid.UUID `gorm:"type:uuid;not null"`
	TipoDocumento    string    `gorm:"type:varchar(20)"`
	NumeroDocumento  string    `gorm:"type:varchar(50)"`
	Telefono         string    `gorm:"type:varchar(50)"`
	RolContribuyente string    `gorm:"type:varchar(50)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Ciudad *Ciudad `gorm:"foreignKey:CiudadID"`
}

// Aduana is a customs post. Ciudad is free text, used by route synthesis.
type Aduana struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Codigo    string    `gorm:"type:varchar(20);not null"`
	Ciudad    string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
