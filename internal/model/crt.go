package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CRT is an international road consignment note (Conhecimento/Carta de Porte).
// Estado: BORRADOR | EMITIDO | EN_TRANSITO | ENTREGADO | FINALIZADO | CANCELADO
type CRT struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroCRT    string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Estado       string    `gorm:"type:varchar(20);not null;default:'BORRADOR';index"`
	FechaEmision *time.Time

	RemitenteID      uuid.UUID  `gorm:"type:uuid;not null"`
	DestinatarioID   uuid.UUID  `gorm:"type:uuid;not null"`
	ConsignatarioID  *uuid.UUID `gorm:"type:uuid"`
	NotificarAID     *uuid.UUID `gorm:"type:uuid"`
	TransportadoraID uuid.UUID  `gorm:"type:uuid;not null;index"`

	CiudadEmisionID      *uuid.UUID `gorm:"type:uuid"`
	PaisEmisionID        *uuid.UUID `gorm:"type:uuid"`
	LugarEntrega         string
	LocalResponsabilidad string

	DetallesMercaderia    string
	PesoBruto             decimal.NullDecimal `gorm:"type:decimal(15,3)"`
	PesoNeto              decimal.NullDecimal `gorm:"type:decimal(15,3)"`
	Volumen               decimal.NullDecimal `gorm:"type:decimal(15,5)"`
	Incoterm              string              `gorm:"type:varchar(10)"`
	MonedaID              *uuid.UUID          `gorm:"type:uuid"`
	ValorIncoterm         decimal.NullDecimal `gorm:"type:decimal(15,2)"`
	ValorMercaderia       decimal.NullDecimal `gorm:"type:decimal(15,2)"`
	DeclaracionMercaderia decimal.NullDecimal `gorm:"type:decimal(15,2)"`
	// ValorFleteExterno tracks the first gasto unless the operator overrides it.
	ValorFleteExterno decimal.NullDecimal `gorm:"type:decimal(15,2)"`
	ValorReembolso    decimal.NullDecimal `gorm:"type:decimal(15,2)"`

	FacturaExportacion  string
	NroDespacho         string
	FormalidadesAduana  string
	TransporteSucesivos string
	Observaciones       string
	FechaFirma          *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Remitente      *Remitente      `gorm:"foreignKey:RemitenteID"`
	Destinatario   *Remitente      `gorm:"foreignKey:DestinatarioID"`
	Consignatario  *Remitente      `gorm:"foreignKey:ConsignatarioID"`
	NotificarA     *Remitente      `gorm:"foreignKey:NotificarAID"`
	Transportadora *Transportadora `gorm:"foreignKey:TransportadoraID"`
	CiudadEmision  *Ciudad         `gorm:"foreignKey:CiudadEmisionID"`
	PaisEmision    *Pais           `gorm:"foreignKey:PaisEmisionID"`
	Moneda         *Moneda         `gorm:"foreignKey:MonedaID"`
	Gastos         []CRTGasto      `gorm:"foreignKey:CRTID;constraint:OnDelete:CASCADE"`
}

// CRTGasto is one line of Campo 15. Posicion keeps the operator's order.
type CRTGasto struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CRTID              uuid.UUID           `gorm:"type:uuid;index;not null"`
	Posicion           int                 `gorm:"not null"`
	Tramo              string
	ValorRemitente     decimal.NullDecimal `gorm:"type:decimal(15,2)"`
	MonedaRemitente    string              `gorm:"type:varchar(10)"`
	ValorDestinatario  decimal.NullDecimal `gorm:"type:decimal(15,2)"`
	MonedaDestinatario string              `gorm:"type:varchar(10)"`
}

func (CRTGasto) TableName() string { return "crt_gastos" }
