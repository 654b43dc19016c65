package dto

// ── Request DTOs ──────────────────────────────────────────────────────────────

type PaisRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
	Codigo string `json:"codigo" validate:"required,min=1,max=10"`
}

type CiudadRequest struct {
	Nombre string `json:"nombre"  validate:"required,min=2,max=100"`
	PaisID string `json:"pais_id" validate:"required,uuid"`
}

type MonedaRequest struct {
	Codigo  string `json:"codigo"  validate:"required,min=2,max=10"`
	Nombre  string `json:"nombre"  validate:"required,min=2,max=50"`
	Simbolo string `json:"simbolo" validate:"max=5"`
}

type RemitenteRequest struct {
	TipoDocumento   string `json:"tipo_documento"   validate:"required,max=20"`
	NumeroDocumento string `json:"numero_documento" validate:"required,max=50"`
	Nombre          string `json:"nombre"           validate:"required,min=2,max=150"`
	Direccion       string `json:"direccion"        validate:"max=500"`
	CiudadID        string `json:"ciudad_id"        validate:"required,uuid"`
}

type TransportadoraRequest struct {
	Codigo           string `json:"codigo"            validate:"required,max=20"`
	CodigoInterno    string `json:"codigo_interno"    validate:"max=20"`
	Nombre           string `json:"nombre"            validate:"required,min=2,max=150"`
	Direccion        string `json:"direccion"         validate:"max=500"`
	CiudadID         string `json:"ciudad_id"         validate:"required,uuid"`
	TipoDocumento    string `json:"tipo_documento"    validate:"max=20"`
	NumeroDocumento  string `json:"numero_documento"  validate:"max=50"`
	Telefono         string `json:"telefono"          validate:"max=50"`
	RolContribuyente string `json:"rol_contribuyente" validate:"max=50"`
}

type AduanaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=150"`
	Codigo string `json:"codigo" validate:"required,max=20"`
	Ciudad string `json:"ciudad" validate:"max=100"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type PaisResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Codigo string `json:"codigo"`
}

type CiudadResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	PaisID string `json:"pais_id"`
	Pais   string `json:"pais"`
}

type MonedaResponse struct {
	ID      string `json:"id"`
	Codigo  string `json:"codigo"`
	Nombre  string `json:"nombre"`
	Simbolo string `json:"simbolo"`
}

type RemitenteResponse struct {
	ID              string `json:"id"`
	TipoDocumento   string `json:"tipo_documento"`
	NumeroDocumento string `json:"numero_documento"`
	Nombre          string `json:"nombre"`
	Direccion       string `json:"direccion"`
	CiudadID        string `json:"ciudad_id"`
	Ciudad          string `json:"ciudad"`
}

type TransportadoraResponse struct {
	ID               string `json:"id"`
	Codigo           string `json:"codigo"`
	CodigoInterno    string `json:"codigo_interno"`
	Nombre           string `json:"nombre"`
	Direccion        string `json:"direccion"`
	CiudadID         string `json:"ciudad_id"`
	Ciudad           string `json:"ciudad"`
	TipoDocumento    string `json:"tipo_documento"`
	NumeroDocumento  string `json:"numero_documento"`
	Telefono         string `json:"telefono"`
	RolContribuyente string `json:"rol_contribuyente"`
}

// TransportadoraListResponse wraps the carrier list, which the dashboard
// reads from an "items" envelope.
type TransportadoraListResponse struct {
	Items []TransportadoraResponse `json:"items"`
	Total int                      `json:"total"`
}

type AduanaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Codigo string `json:"codigo"`
	Ciudad string `json:"ciudad"`
}
