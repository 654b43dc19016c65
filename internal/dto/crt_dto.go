package dto

import "github.com/Morochief/proyecto-transportadora-web-sub000/internal/ledger"

// CRT lifecycle states.
const (
	EstadoBorrador   = "BORRADOR"
	EstadoEmitido    = "EMITIDO"
	EstadoEnTransito = "EN_TRANSITO"
	EstadoEntregado  = "ENTREGADO"
	EstadoFinalizado = "FINALIZADO"
	EstadoCancelado  = "CANCELADO"
)

// EstadosCRT lists every state in lifecycle order.
var EstadosCRT = []string{EstadoBorrador, EstadoEmitido, EstadoEnTransito, EstadoEntregado, EstadoFinalizado, EstadoCancelado}

// ─── Filter / List ──────────────────────────────────────────────────────────

// CRTFilter is bound from the query string of GET /api/crts/.
type CRTFilter struct {
	Q      string `form:"q"`
	Estado string `form:"estado"         validate:"omitempty,oneof=BORRADOR EMITIDO EN_TRANSITO ENTREGADO FINALIZADO CANCELADO"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type CRTListResponse struct {
	Items []CRTResponse `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// NextNumberQuery is bound from GET /api/crts/next_number.
type NextNumberQuery struct {
	TransportadoraID string `form:"transportadora_id" validate:"required,uuid"`
	Codigo           string `form:"codigo"            validate:"required,numeroCRT"`
}

type NextNumberResponse struct {
	NextNumber string `json:"next_number"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CRTRequest is the body of POST /api/crts/ and PUT /api/crts/{id}.
// Numeric fields travel as canonical decimal strings; "" means no value.
type CRTRequest struct {
	NumeroCRT    string `json:"numero_crt"    validate:"omitempty,numeroCRT"`
	Estado       string `json:"estado"        validate:"omitempty,oneof=BORRADOR EMITIDO EN_TRANSITO ENTREGADO FINALIZADO CANCELADO"`
	FechaEmision string `json:"fecha_emision" validate:"omitempty,datetime=2006-01-02"`

	RemitenteID      string `json:"remitente_id"      validate:"required,uuid"`
	DestinatarioID   string `json:"destinatario_id"   validate:"required,uuid"`
	ConsignatarioID  string `json:"consignatario_id"  validate:"omitempty,uuid"`
	NotificarAID     string `json:"notificar_a_id"    validate:"omitempty,uuid"`
	TransportadoraID string `json:"transportadora_id" validate:"required,uuid"`

	CiudadEmisionID      string `json:"ciudad_emision_id" validate:"omitempty,uuid"`
	PaisEmisionID        string `json:"pais_emision_id"   validate:"omitempty,uuid"`
	LugarEntrega         string `json:"lugar_entrega"`
	LocalResponsabilidad string `json:"local_responsabilidad"`

	DetallesMercaderia    string `json:"detalles_mercaderia"`
	PesoBruto             string `json:"peso_bruto"             validate:"omitempty,numeric"`
	PesoNeto              string `json:"peso_neto"              validate:"omitempty,numeric"`
	Volumen               string `json:"volumen"                validate:"omitempty,numeric"`
	Incoterm              string `json:"incoterm"`
	MonedaID              string `json:"moneda_id"              validate:"omitempty,uuid"`
	ValorIncoterm         string `json:"valor_incoterm"         validate:"omitempty,numeric"`
	ValorMercaderia       string `json:"valor_mercaderia"       validate:"omitempty,numeric"`
	DeclaracionMercaderia string `json:"declaracion_mercaderia" validate:"omitempty,numeric"`

	ValorFleteExterno string `json:"valor_flete_externo" validate:"omitempty,numeric"`
	ValorReembolso    string `json:"valor_reembolso"     validate:"omitempty,numeric"`

	FacturaExportacion  string `json:"factura_exportacion"`
	NroDespacho         string `json:"nro_despacho"`
	FormalidadesAduana  string `json:"formalidades_aduana"`
	TransporteSucesivos string `json:"transporte_sucesivos"`
	Observaciones       string `json:"observaciones"`
	FechaFirma          string `json:"fecha_firma" validate:"omitempty,datetime=2006-01-02"`

	// Campo15Items is the ledger encoded as a JSON string.
	Campo15Items string `json:"campo15_items"`
	// PermitirEdicionEnTransito acknowledges editing a CRT already on the road.
	PermitirEdicionEnTransito bool `json:"permitir_edicion_en_transito,omitempty"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=BORRADOR EMITIDO EN_TRANSITO ENTREGADO FINALIZADO CANCELADO"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// CRTResponse is the full record with related entities resolved to names.
type CRTResponse struct {
	ID           string `json:"id"`
	NumeroCRT    string `json:"numero_crt"`
	Estado       string `json:"estado"`
	FechaEmision string `json:"fecha_emision"`

	RemitenteID      string `json:"remitente_id"`
	Remitente        string `json:"remitente"`
	DestinatarioID   string `json:"destinatario_id"`
	Destinatario     string `json:"destinatario"`
	ConsignatarioID  string `json:"consignatario_id"`
	Consignatario    string `json:"consignatario"`
	NotificarAID     string `json:"notificar_a_id"`
	NotificarA       string `json:"notificar_a"`
	TransportadoraID string `json:"transportadora_id"`
	Transportadora   string `json:"transportadora"`
	// TransportadoraRolContribuyente feeds MIC campos 2 and 10.
	TransportadoraRolContribuyente string `json:"transportadora_rol_contribuyente"`

	CiudadEmisionID      string `json:"ciudad_emision_id"`
	CiudadEmision        string `json:"ciudad_emision"`
	PaisEmisionID        string `json:"pais_emision_id"`
	PaisEmision          string `json:"pais_emision"`
	LugarEntrega         string `json:"lugar_entrega"`
	LocalResponsabilidad string `json:"local_responsabilidad"`

	DetallesMercaderia    string `json:"detalles_mercaderia"`
	PesoBruto             string `json:"peso_bruto"`
	PesoNeto              string `json:"peso_neto"`
	Volumen               string `json:"volumen"`
	Incoterm              string `json:"incoterm"`
	MonedaID              string `json:"moneda_id"`
	Moneda                string `json:"moneda"`
	ValorIncoterm         string `json:"valor_incoterm"`
	ValorMercaderia       string `json:"valor_mercaderia"`
	DeclaracionMercaderia string `json:"declaracion_mercaderia"`
	ValorFleteExterno     string `json:"valor_flete_externo"`
	ValorReembolso        string `json:"valor_reembolso"`

	FacturaExportacion  string `json:"factura_exportacion"`
	NroDespacho         string `json:"nro_despacho"`
	FormalidadesAduana  string `json:"formalidades_aduana"`
	TransporteSucesivos string `json:"transporte_sucesivos"`
	Observaciones       string `json:"observaciones"`
	FechaFirma          string `json:"fecha_firma"`

	Gastos []ledger.ChargeLineItem `json:"gastos"`
	// TotalFlete and Seguro split the gastos the way MIC campos 28 and 29 do:
	// lines whose description mentions "seguro" go to Seguro.
	TotalFlete string `json:"total_flete"`
	Seguro     string `json:"seguro"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type Campo15Response struct {
	Items []ledger.ChargeLineItem `json:"items"`
}

type CRTGuardadoResponse struct {
	ID        string `json:"id"`
	NumeroCRT string `json:"numero_crt"`
	Message   string `json:"message"`
}
