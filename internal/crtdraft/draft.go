// Package crtdraft holds the editable state of a CRT (Carta de Porte) and
// keeps its derived fields bound to their sources.
package crtdraft

import (
	"fmt"
	"strings"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/ledger"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/numfmt"

	"github.com/shopspring/decimal"
)

// Draft is a CRT being created or edited. Derived fields are unexported and
// only change through the operations that own them.
type Draft struct {
	ID           string
	NumeroCRT    string
	Estado       string
	FechaEmision string

	RemitenteID      string
	DestinatarioID   string
	ConsignatarioID  string
	NotificarAID     string
	TransportadoraID string

	CiudadEmisionID string
	PaisEmisionID   string
	LugarEntrega    string

	DetallesMercaderia    string
	PesoBruto             decimal.NullDecimal
	PesoNeto              decimal.NullDecimal
	Volumen               decimal.NullDecimal
	Incoterm              string
	MonedaID              string
	ValorIncoterm         decimal.NullDecimal
	ValorMercaderia       decimal.NullDecimal
	DeclaracionMercaderia decimal.NullDecimal
	ValorReembolso        decimal.NullDecimal

	FacturaExportacion  string
	NroDespacho         string
	FormalidadesAduana  string
	TransporteSucesivos string
	Observaciones       string
	FechaFirma          string

	localResponsabilidad string
	gastos               []ledger.ChargeLineItem
	valorFleteExterno    decimal.NullDecimal
}

// New returns an empty draft in BORRADOR.
func New() *Draft {
	return &Draft{Estado: dto.EstadoBorrador}
}

// FromResponse loads a stored CRT into an editable draft. Stored derived
// values are kept as they are until the next mutation of their source.
func FromResponse(r dto.CRTResponse) *Draft {
	d := &Draft{
		ID:                    r.ID,
		NumeroCRT:             r.NumeroCRT,
		Estado:                r.Estado,
		FechaEmision:          r.FechaEmision,
		RemitenteID:           r.RemitenteID,
		DestinatarioID:        r.DestinatarioID,
		ConsignatarioID:       r.ConsignatarioID,
		NotificarAID:          r.NotificarAID,
		TransportadoraID:      r.TransportadoraID,
		CiudadEmisionID:       r.CiudadEmisionID,
		PaisEmisionID:         r.PaisEmisionID,
		LugarEntrega:          r.LugarEntrega,
		DetallesMercaderia:    r.DetallesMercaderia,
		PesoBruto:             numfmt.ToCanonical(r.PesoBruto),
		PesoNeto:              numfmt.ToCanonical(r.PesoNeto),
		Volumen:               numfmt.ToCanonical(r.Volumen),
		Incoterm:              r.Incoterm,
		MonedaID:              r.MonedaID,
		ValorIncoterm:         numfmt.ToCanonical(r.ValorIncoterm),
		ValorMercaderia:       numfmt.ToCanonical(r.ValorMercaderia),
		DeclaracionMercaderia: numfmt.ToCanonical(r.DeclaracionMercaderia),
		ValorReembolso:        numfmt.ToCanonical(r.ValorReembolso),
		FacturaExportacion:    r.FacturaExportacion,
		NroDespacho:           r.NroDespacho,
		FormalidadesAduana:    r.FormalidadesAduana,
		TransporteSucesivos:   r.TransporteSucesivos,
		Observaciones:         r.Observaciones,
		FechaFirma:            r.FechaFirma,
		localResponsabilidad:  r.LocalResponsabilidad,
		valorFleteExterno:     numfmt.ToCanonical(r.ValorFleteExterno),
	}
	d.gastos = append([]ledger.ChargeLineItem(nil), r.Gastos...)
	return d
}

// ── Campo 15 ─────────────────────────────────────────────────────────────────

// Gastos returns a copy of the ledger.
func (d *Draft) Gastos() []ledger.ChargeLineItem {
	return append([]ledger.ChargeLineItem(nil), d.gastos...)
}

// SetGastos replaces the ledger, e.g. after GET /crts/{id}/campo15.
func (d *Draft) SetGastos(list []ledger.ChargeLineItem) {
	d.bind(append([]ledger.ChargeLineItem(nil), list...))
}

func (d *Draft) AddGasto(currencies []string, h ledger.Hinter) {
	d.bind(ledger.Add(d.gastos, currencies, h))
}

func (d *Draft) RemoveGasto(index int) {
	d.bind(ledger.Remove(d.gastos, index))
}

func (d *Draft) UpdateGasto(index int, field ledger.Field, raw string) {
	d.bind(ledger.Update(d.gastos, index, field, raw))
}

// Totals sums both sides of the ledger.
func (d *Draft) Totals() ledger.Total { return ledger.Totals(d.gastos) }

// bind stores the ledger and re-derives valor_flete_externo from it.
func (d *Draft) bind(list []ledger.ChargeLineItem) {
	d.gastos = list
	d.valorFleteExterno = ledger.DeriveExternalFreight(list)
}

// ValorFleteExterno is bound to the first gasto while the ledger has rows.
func (d *Draft) ValorFleteExterno() decimal.NullDecimal { return d.valorFleteExterno }

// SetValorFleteExterno records a manual entry. The next ledger mutation
// overwrites it.
func (d *Draft) SetValorFleteExterno(raw string) {
	d.valorFleteExterno = numfmt.ToCanonical(raw)
}

// ── Local de responsabilidad ─────────────────────────────────────────────────

// SetResponsabilidad recomputes local_responsabilidad from the city,
// country and date of the responsibility pair.
func (d *Draft) SetResponsabilidad(ciudad, pais string, fecha time.Time) {
	d.localResponsabilidad = FormatResponsabilidad(ciudad, pais, fecha)
}

func (d *Draft) LocalResponsabilidad() string { return d.localResponsabilidad }

// FormatResponsabilidad renders "{CITY} - {COUNTRY}-{DD-MM-YYYY}".
func FormatResponsabilidad(ciudad, pais string, fecha time.Time) string {
	return fmt.Sprintf("%s - %s-%s",
		strings.ToUpper(strings.TrimSpace(ciudad)),
		strings.ToUpper(strings.TrimSpace(pais)),
		fecha.Format("02-01-2006"))
}

// ── Generic setters ──────────────────────────────────────────────────────────

// Set assigns a field by its wire name. Numeric fields go through the
// codec; derived fields cannot be set.
func (d *Draft) Set(name, raw string) error {
	if p, ok := d.numericFields()[name]; ok {
		*p = numfmt.ToCanonical(raw)
		return nil
	}
	if p, ok := d.textFields()[name]; ok {
		*p = raw
		switch name {
		case "ciudad_emision_id", "pais_emision_id", "fecha_emision":
			d.localResponsabilidad = ""
		}
		return nil
	}
	switch name {
	case "valor_flete_externo":
		d.SetValorFleteExterno(raw)
		return nil
	case "local_responsabilidad", "campo15_items":
		return fmt.Errorf("crtdraft: %s is derived and cannot be set", name)
	}
	return fmt.Errorf("crtdraft: unknown field %q", name)
}

func (d *Draft) numericFields() map[string]*decimal.NullDecimal {
	return map[string]*decimal.NullDecimal{
		"peso_bruto":             &d.PesoBruto,
		"peso_neto":              &d.PesoNeto,
		"volumen":                &d.Volumen,
		"valor_incoterm":         &d.ValorIncoterm,
		"valor_mercaderia":       &d.ValorMercaderia,
		"declaracion_mercaderia": &d.DeclaracionMercaderia,
		"valor_reembolso":        &d.ValorReembolso,
	}
}

func (d *Draft) textFields() map[string]*string {
	return map[string]*string{
		"numero_crt":           &d.NumeroCRT,
		"estado":               &d.Estado,
		"fecha_emision":        &d.FechaEmision,
		"remitente_id":         &d.RemitenteID,
		"destinatario_id":      &d.DestinatarioID,
		"consignatario_id":     &d.ConsignatarioID,
		"notificar_a_id":       &d.NotificarAID,
		"transportadora_id":    &d.TransportadoraID,
		"ciudad_emision_id":    &d.CiudadEmisionID,
		"pais_emision_id":      &d.PaisEmisionID,
		"lugar_entrega":        &d.LugarEntrega,
		"detalles_mercaderia":  &d.DetallesMercaderia,
		"incoterm":             &d.Incoterm,
		"moneda_id":            &d.MonedaID,
		"factura_exportacion":  &d.FacturaExportacion,
		"nro_despacho":         &d.NroDespacho,
		"formalidades_aduana":  &d.FormalidadesAduana,
		"transporte_sucesivos": &d.TransporteSucesivos,
		"observaciones":        &d.Observaciones,
		"fecha_firma":          &d.FechaFirma,
	}
}

// ── Payload ──────────────────────────────────────────────────────────────────

// Request builds the save payload. Numbers are canonical strings and the
// ledger is embedded as a JSON string.
func (d *Draft) Request() (dto.CRTRequest, error) {
	items, err := ledger.Encode(d.gastos)
	if err != nil {
		return dto.CRTRequest{}, fmt.Errorf("crtdraft: encode campo15: %w", err)
	}
	return dto.CRTRequest{
		NumeroCRT:             d.NumeroCRT,
		Estado:                d.Estado,
		FechaEmision:          d.FechaEmision,
		RemitenteID:           d.RemitenteID,
		DestinatarioID:        d.DestinatarioID,
		ConsignatarioID:       d.ConsignatarioID,
		NotificarAID:          d.NotificarAID,
		TransportadoraID:      d.TransportadoraID,
		CiudadEmisionID:       d.CiudadEmisionID,
		PaisEmisionID:         d.PaisEmisionID,
		LugarEntrega:          d.LugarEntrega,
		LocalResponsabilidad:  d.localResponsabilidad,
		DetallesMercaderia:    d.DetallesMercaderia,
		PesoBruto:             numfmt.Canonical(d.PesoBruto),
		PesoNeto:              numfmt.Canonical(d.PesoNeto),
		Volumen:               numfmt.Canonical(d.Volumen),
		Incoterm:              d.Incoterm,
		MonedaID:              d.MonedaID,
		ValorIncoterm:         numfmt.Canonical(d.ValorIncoterm),
		ValorMercaderia:       numfmt.Canonical(d.ValorMercaderia),
		DeclaracionMercaderia: numfmt.Canonical(d.DeclaracionMercaderia),
		ValorFleteExterno:     numfmt.Canonical(d.valorFleteExterno),
		ValorReembolso:        numfmt.Canonical(d.ValorReembolso),
		FacturaExportacion:    d.FacturaExportacion,
		NroDespacho:           d.NroDespacho,
		FormalidadesAduana:    d.FormalidadesAduana,
		TransporteSucesivos:   d.TransporteSucesivos,
		Observaciones:         d.Observaciones,
		FechaFirma:            d.FechaFirma,
		Campo15Items:          items,
	}, nil
}
