package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/crtdraft"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/infra"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/ledger"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/model"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/numfmt"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/repository"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/sanitize"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// exportLimit caps the rows of one spreadsheet export.
const exportLimit = 5000

var numeroCRT = regexp.MustCompile(`^PY\d{9}$`)

type CRTService interface {
	Listar(ctx context.Context, filter dto.CRTFilter) (*dto.CRTListResponse, error)
	Estados() []string
	SiguienteNumero(ctx context.Context, q dto.NextNumberQuery) (*dto.NextNumberResponse, error)
	Crear(ctx context.Context, req dto.CRTRequest) (*dto.CRTResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CRTResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CRTRequest) (*dto.CRTResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.CRTResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Duplicar(ctx context.Context, id uuid.UUID) (*dto.CRTGuardadoResponse, error)
	Campo15(ctx context.Context, id uuid.UUID) (*dto.Campo15Response, error)
	// GenerarPDF returns the rendered document and its file name.
	GenerarPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	Exportar(ctx context.Context, filter dto.CRTFilter) ([]byte, error)
}

type crtService struct {
	repo     repository.CRTRepository
	ciudades repository.CatalogoRepository[model.Ciudad]
	paises   repository.CatalogoRepository[model.Pais]
}

func NewCRTService(
	repo repository.CRTRepository,
	ciudades repository.CatalogoRepository[model.Ciudad],
	paises repository.CatalogoRepository[model.Pais],
) CRTService {
	return &crtService{repo: repo, ciudades: ciudades, paises: paises}
}

func (s *crtService) Listar(ctx context.Context, filter dto.CRTFilter) (*dto.CRTListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CRTResponse, len(list))
	for i, c := range list {
		items[i] = crtToResponse(c)
	}
	return &dto.CRTListResponse{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *crtService) Estados() []string {
	return append([]string(nil), dto.EstadosCRT...)
}

// SiguienteNumero proposes the next numero_crt of a carrier: the highest
// PY######### already issued plus one, or the given codigo when the
// carrier has none.
func (s *crtService) SiguienteNumero(ctx context.Context, q dto.NextNumberQuery) (*dto.NextNumberResponse, error) {
	codigo := strings.ToUpper(strings.TrimSpace(q.Codigo))
	if !numeroCRT.MatchString(codigo) {
		return nil, ErrNumeroCRT
	}
	tid, err := parseRef("transportadora_id", q.TransportadoraID)
	if err != nil {
		return nil, err
	}
	ultimo, err := s.repo.MaxNumero(ctx, tid, "PY_________")
	if err != nil {
		return nil, err
	}
	if !numeroCRT.MatchString(ultimo) {
		return &dto.NextNumberResponse{NextNumber: codigo}, nil
	}
	n, err := strconv.ParseInt(ultimo[2:], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("numero_crt %q: %w", ultimo, err)
	}
	return &dto.NextNumberResponse{NextNumber: fmt.Sprintf("PY%09d", n+1)}, nil
}

func (s *crtService) Crear(ctx context.Context, req dto.CRTRequest) (*dto.CRTResponse, error) {
	if req.NumeroCRT == "" {
		return nil, ErrNumeroCRT
	}
	c := &model.CRT{Estado: dto.EstadoBorrador}
	if err := s.fill(ctx, req, c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, writeErr(err)
	}
	log.Info().Str("crt", c.NumeroCRT).Msg("CRT creado")
	return s.ObtenerPorID(ctx, c.ID)
}

func (s *crtService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CRTResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err)
	}
	resp := crtToResponse(*c)
	return &resp, nil
}

// Actualizar replaces the CRT and all of its gastos. CRTs on the road need
// an explicit acknowledgement; closed ones cannot change.
func (s *crtService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CRTRequest) (*dto.CRTResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err)
	}
	switch c.Estado {
	case dto.EstadoFinalizado, dto.EstadoCancelado:
		return nil, ErrNoEditable
	case dto.EstadoEnTransito:
		if !req.PermitirEdicionEnTransito {
			return nil, ErrRequiereConfirmacion
		}
	}

	if req.NumeroCRT == "" {
		req.NumeroCRT = c.NumeroCRT
	}
	if req.Estado == "" {
		req.Estado = c.Estado
	}
	upd := &model.CRT{ID: c.ID, CreatedAt: c.CreatedAt}
	if err := s.fill(ctx, req, upd); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, upd); err != nil {
		return nil, writeErr(err)
	}
	log.Info().Str("crt", upd.NumeroCRT).Int("gastos", len(upd.Gastos)).Msg("CRT actualizado")
	return s.ObtenerPorID(ctx, id)
}

func (s *crtService) CambiarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.CRTResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, dbErr(err)
	}
	if err := s.repo.UpdateEstado(ctx, id, estado); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *crtService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return dbErr(s.repo.Delete(ctx, id))
}

// Duplicar copies a CRT under the carrier's next number, back in BORRADOR.
func (s *crtService) Duplicar(ctx context.Context, id uuid.UUID) (*dto.CRTGuardadoResponse, error) {
	orig, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err)
	}
	codigo := orig.NumeroCRT
	if !numeroCRT.MatchString(codigo) {
		codigo = "PY000000001"
	}
	next, err := s.SiguienteNumero(ctx, dto.NextNumberQuery{
		TransportadoraID: orig.TransportadoraID.String(),
		Codigo:           codigo,
	})
	if err != nil {
		return nil, err
	}

	dup := *orig
	dup.ID = uuid.Nil
	dup.NumeroCRT = next.NextNumber
	dup.Estado = dto.EstadoBorrador
	dup.CreatedAt, dup.UpdatedAt = time.Time{}, time.Time{}
	dup.Remitente, dup.Destinatario, dup.Consignatario, dup.NotificarA = nil, nil, nil, nil
	dup.Transportadora, dup.CiudadEmision, dup.PaisEmision, dup.Moneda = nil, nil, nil, nil
	dup.Gastos = make([]model.CRTGasto, len(orig.Gastos))
	for i, g := range orig.Gastos {
		g.ID, g.CRTID = uuid.Nil, uuid.Nil
		dup.Gastos[i] = g
	}
	if err := s.repo.Create(ctx, &dup); err != nil {
		return nil, writeErr(err)
	}
	return &dto.CRTGuardadoResponse{ID: dup.ID.String(), NumeroCRT: dup.NumeroCRT, Message: "CRT duplicado"}, nil
}

func (s *crtService) Campo15(ctx context.Context, id uuid.UUID) (*dto.Campo15Response, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err)
	}
	return &dto.Campo15Response{Items: gastosToItems(c.Gastos)}, nil
}

func (s *crtService) GenerarPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", dbErr(err)
	}
	data, err := infra.RenderCRTPDF(crtDocument(*c))
	if err != nil {
		return nil, "", fmt.Errorf("render CRT %s: %w", c.NumeroCRT, err)
	}
	return data, "CRT_" + c.NumeroCRT + ".pdf", nil
}

func (s *crtService) Exportar(ctx context.Context, filter dto.CRTFilter) ([]byte, error) {
	filter.Page, filter.Limit = 1, exportLimit
	list, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sheet := infra.Sheet{
		Name: "CRTs",
		Headers: []string{
			"Número", "Estado", "Fecha emisión", "Remitente", "Destinatario",
			"Transportadora", "Moneda", "Peso bruto", "Flete", "Seguro",
		},
	}
	for _, c := range list {
		flete, seguro := splitGastos(c.Gastos)
		sheet.Rows = append(sheet.Rows, []any{
			c.NumeroCRT, c.Estado, fecha(c.FechaEmision),
			nombreRemitente(c.Remitente), nombreRemitente(c.Destinatario),
			nombreTransportadora(c.Transportadora), codigoMoneda(c.Moneda),
			celda(c.PesoBruto), flete.InexactFloat64(), seguro.InexactFloat64(),
		})
	}
	return infra.RenderXLSX(sheet)
}

// ── Request → model ──────────────────────────────────────────────────────────

func (s *crtService) fill(ctx context.Context, req dto.CRTRequest, c *model.CRT) error {
	var err error
	sanitize.Fields(
		&req.LugarEntrega, &req.LocalResponsabilidad, &req.DetallesMercaderia, &req.Incoterm,
		&req.FacturaExportacion, &req.NroDespacho, &req.FormalidadesAduana,
		&req.TransporteSucesivos, &req.Observaciones,
	)

	c.NumeroCRT = strings.ToUpper(strings.TrimSpace(req.NumeroCRT))
	if req.Estado != "" {
		c.Estado = req.Estado
	}
	if c.RemitenteID, err = parseRef("remitente_id", req.RemitenteID); err != nil {
		return err
	}
	if c.DestinatarioID, err = parseRef("destinatario_id", req.DestinatarioID); err != nil {
		return err
	}
	if c.TransportadoraID, err = parseRef("transportadora_id", req.TransportadoraID); err != nil {
		return err
	}
	refs := []struct {
		field string
		raw   string
		dst   **uuid.UUID
	}{
		{"consignatario_id", req.ConsignatarioID, &c.ConsignatarioID},
		{"notificar_a_id", req.NotificarAID, &c.NotificarAID},
		{"ciudad_emision_id", req.CiudadEmisionID, &c.CiudadEmisionID},
		{"pais_emision_id", req.PaisEmisionID, &c.PaisEmisionID},
		{"moneda_id", req.MonedaID, &c.MonedaID},
	}
	for _, r := range refs {
		if *r.dst, err = optRef(r.field, r.raw); err != nil {
			return err
		}
	}
	if c.FechaEmision, err = optFecha("fecha_emision", req.FechaEmision); err != nil {
		return err
	}
	if c.FechaFirma, err = optFecha("fecha_firma", req.FechaFirma); err != nil {
		return err
	}

	c.LugarEntrega = req.LugarEntrega
	c.DetallesMercaderia = req.DetallesMercaderia
	c.PesoBruto = numfmt.ToCanonical(req.PesoBruto)
	c.PesoNeto = numfmt.ToCanonical(req.PesoNeto)
	c.Volumen = numfmt.ToCanonical(req.Volumen)
	c.Incoterm = strings.ToUpper(req.Incoterm)
	c.ValorIncoterm = numfmt.ToCanonical(req.ValorIncoterm)
	c.ValorMercaderia = numfmt.ToCanonical(req.ValorMercaderia)
	c.DeclaracionMercaderia = numfmt.ToCanonical(req.DeclaracionMercaderia)
	c.ValorReembolso = numfmt.ToCanonical(req.ValorReembolso)
	c.FacturaExportacion = req.FacturaExportacion
	c.NroDespacho = req.NroDespacho
	c.FormalidadesAduana = req.FormalidadesAduana
	c.TransporteSucesivos = req.TransporteSucesivos
	c.Observaciones = req.Observaciones

	items, err := ledger.Decode(req.Campo15Items)
	if err != nil {
		return fmt.Errorf("%w: campo15_items", ErrReferencia)
	}
	c.Gastos = itemsToGastos(items)
	c.ValorFleteExterno = numfmt.ToCanonical(req.ValorFleteExterno)
	if !c.ValorFleteExterno.Valid {
		c.ValorFleteExterno = ledger.DeriveExternalFreight(items)
	}

	// Derived whenever city, country and date are known; the request value
	// only stands in when one of them is missing.
	c.LocalResponsabilidad = s.responsabilidad(ctx, c)
	if c.LocalResponsabilidad == "" {
		c.LocalResponsabilidad = req.LocalResponsabilidad
	}
	return nil
}

// responsabilidad derives local_responsabilidad from the emission city,
// country and date; "" when any of them is missing.
func (s *crtService) responsabilidad(ctx context.Context, c *model.CRT) string {
	if c.CiudadEmisionID == nil || c.PaisEmisionID == nil || c.FechaEmision == nil {
		return ""
	}
	ciudad, err := s.ciudades.FindByID(ctx, *c.CiudadEmisionID)
	if err != nil {
		return ""
	}
	pais, err := s.paises.FindByID(ctx, *c.PaisEmisionID)
	if err != nil {
		return ""
	}
	return crtdraft.FormatResponsabilidad(ciudad.Nombre, pais.Nombre, *c.FechaEmision)
}

func optRef(field, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseRef(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optFecha(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReferencia, field)
	}
	return &t, nil
}

func itemsToGastos(items []ledger.ChargeLineItem) []model.CRTGasto {
	gastos := make([]model.CRTGasto, len(items))
	for i, it := range items {
		gastos[i] = model.CRTGasto{
			Posicion:           i,
			Tramo:              sanitize.Text(it.Description),
			ValorRemitente:     it.PayerAmount,
			MonedaRemitente:    it.PayerCurrency,
			ValorDestinatario:  it.ConsigneeAmount,
			MonedaDestinatario: it.ConsigneeCurrency,
		}
	}
	return gastos
}

// ── Model → response ─────────────────────────────────────────────────────────

func gastosToItems(gastos []model.CRTGasto) []ledger.ChargeLineItem {
	items := make([]ledger.ChargeLineItem, len(gastos))
	for i, g := range gastos {
		items[i] = ledger.ChargeLineItem{
			Description:       g.Tramo,
			PayerAmount:       g.ValorRemitente,
			PayerCurrency:     g.MonedaRemitente,
			ConsigneeAmount:   g.ValorDestinatario,
			ConsigneeCurrency: g.MonedaDestinatario,
		}
	}
	return items
}

func crtToResponse(c model.CRT) dto.CRTResponse {
	r := dto.CRTResponse{
		ID:                    c.ID.String(),
		NumeroCRT:             c.NumeroCRT,
		Estado:                c.Estado,
		FechaEmision:          fecha(c.FechaEmision),
		RemitenteID:           c.RemitenteID.String(),
		Remitente:             nombreRemitente(c.Remitente),
		DestinatarioID:        c.DestinatarioID.String(),
		Destinatario:          nombreRemitente(c.Destinatario),
		ConsignatarioID:       optID(c.ConsignatarioID),
		Consignatario:         nombreRemitente(c.Consignatario),
		NotificarAID:          optID(c.NotificarAID),
		NotificarA:            nombreRemitente(c.NotificarA),
		TransportadoraID:      c.TransportadoraID.String(),
		Transportadora:        nombreTransportadora(c.Transportadora),
		CiudadEmisionID:       optID(c.CiudadEmisionID),
		PaisEmisionID:         optID(c.PaisEmisionID),
		LugarEntrega:          c.LugarEntrega,
		LocalResponsabilidad:  c.LocalResponsabilidad,
		DetallesMercaderia:    c.DetallesMercaderia,
		PesoBruto:             numfmt.Canonical(c.PesoBruto),
		PesoNeto:              numfmt.Canonical(c.PesoNeto),
		Volumen:               numfmt.Canonical(c.Volumen),
		Incoterm:              c.Incoterm,
		MonedaID:              optID(c.MonedaID),
		Moneda:                codigoMoneda(c.Moneda),
		ValorIncoterm:         numfmt.Canonical(c.ValorIncoterm),
		ValorMercaderia:       numfmt.Canonical(c.ValorMercaderia),
		DeclaracionMercaderia: numfmt.Canonical(c.DeclaracionMercaderia),
		ValorFleteExterno:     numfmt.Canonical(c.ValorFleteExterno),
		ValorReembolso:        numfmt.Canonical(c.ValorReembolso),
		FacturaExportacion:    c.FacturaExportacion,
		NroDespacho:           c.NroDespacho,
		FormalidadesAduana:    c.FormalidadesAduana,
		TransporteSucesivos:   c.TransporteSucesivos,
		Observaciones:         c.Observaciones,
		FechaFirma:            fecha(c.FechaFirma),
		Gastos:                gastosToItems(c.Gastos),
		CreatedAt:             c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             c.UpdatedAt.Format(time.RFC3339),
	}
	if c.Transportadora != nil {
		r.TransportadoraRolContribuyente = c.Transportadora.RolContribuyente
	}
	if c.CiudadEmision != nil {
		r.CiudadEmision = c.CiudadEmision.Nombre
	}
	if c.PaisEmision != nil {
		r.PaisEmision = c.PaisEmision.Nombre
	}
	if len(c.Gastos) > 0 {
		flete, seguro := splitGastos(c.Gastos)
		r.TotalFlete = flete.String()
		r.Seguro = seguro.String()
	}
	return r
}

// crtDocument prepares the display strings of the printed CRT.
func crtDocument(c model.CRT) infra.CRTDocument {
	doc := infra.CRTDocument{
		Numero:               c.NumeroCRT,
		Estado:               c.Estado,
		Remitente:            bloqueRemitente(c.Remitente),
		Destinatario:         bloqueRemitente(c.Destinatario),
		Consignatario:        bloqueRemitente(c.Consignatario),
		NotificarA:           bloqueRemitente(c.NotificarA),
		Transportadora:       bloqueTransportadora(c.Transportadora),
		LugarEntrega:         c.LugarEntrega,
		LocalResponsabilidad: c.LocalResponsabilidad,
		TransporteSucesivos:  c.TransporteSucesivos,
		DetallesMercaderia:   c.DetallesMercaderia,
		PesoBruto:            numfmt.Weight.Grouped(c.PesoBruto),
		PesoNeto:             numfmt.Weight.Grouped(c.PesoNeto),
		Volumen:              numfmt.Volume.Grouped(c.Volumen),
		Incoterm:             c.Incoterm,
		ValorIncoterm:        numfmt.Money.Grouped(c.ValorIncoterm),
		Moneda:               codigoMoneda(c.Moneda),
		DeclaracionValor:     numfmt.Declaration.Grouped(c.DeclaracionMercaderia),
		Documentos:           facturaDespacho(c.FacturaExportacion, c.NroDespacho),
		FormalidadesAduana:   c.FormalidadesAduana,
		ValorFleteExterno:    numfmt.Money.Grouped(c.ValorFleteExterno),
		ValorReembolso:       numfmt.Money.Grouped(c.ValorReembolso),
		Observaciones:        c.Observaciones,
		FechaFirma:           fecha(c.FechaFirma),
	}
	if c.CiudadEmision != nil {
		lugar := c.CiudadEmision.Nombre
		if c.PaisEmision != nil {
			lugar += " - " + c.PaisEmision.Nombre
		}
		if c.FechaEmision != nil {
			lugar += " " + c.FechaEmision.Format("02/01/2006")
		}
		doc.LugarEmision = strings.ToUpper(lugar)
	}
	items := gastosToItems(c.Gastos)
	for _, it := range items {
		doc.Gastos = append(doc.Gastos, infra.GastoLinea{
			Descripcion:        it.Description,
			ValorRemitente:     numfmt.Money.Grouped(it.PayerAmount),
			MonedaRemitente:    it.PayerCurrency,
			ValorDestinatario:  numfmt.Money.Grouped(it.ConsigneeAmount),
			MonedaDestinatario: it.ConsigneeCurrency,
		})
	}
	if len(items) > 0 {
		t := ledger.Totals(items)
		doc.TotalRemitente = numfmt.Money.Grouped(numfmt.Of(t.Payer))
		doc.TotalDestinatario = numfmt.Money.Grouped(numfmt.Of(t.Consignee))
	}
	return doc
}

func fecha(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func optID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func nombreRemitente(r *model.Remitente) string {
	if r == nil {
		return ""
	}
	return r.Nombre
}

func nombreTransportadora(t *model.Transportadora) string {
	if t == nil {
		return ""
	}
	return t.Nombre
}

func codigoMoneda(m *model.Moneda) string {
	if m == nil {
		return ""
	}
	return m.Codigo
}

// celda exports a nullable number; empty stays an empty cell.
func celda(v decimal.NullDecimal) any {
	if !v.Valid {
		return ""
	}
	return v.Decimal.InexactFloat64()
}
