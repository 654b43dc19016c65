package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/infra"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/micprefill"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/model"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/numfmt"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/repository"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/sanitize"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// detallesMax bounds campo 38, which is printed in a fixed-size box.
const detallesMax = 1500

type MICService interface {
	// CargarDatosCRT builds the MIC fields derivable from a CRT, looked up
	// by id or by numero_crt.
	CargarDatosCRT(ctx context.Context, idOrNumero string) (*dto.MICFields, error)
	CrearDesdeCRT(ctx context.Context, crtID uuid.UUID, datos map[string]any) (*dto.CrearMICResponse, error)
	Listar(ctx context.Context, filter dto.MICFilter) (*dto.MICListResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MICResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, f dto.MICFields) (*dto.MICResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	GenerarPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	// Enviar mails the MIC PDF through the email queue.
	Enviar(ctx context.Context, id uuid.UUID, email string) error
}

type micService struct {
	repo        repository.MICRepository
	crts        repository.CRTRepository
	queue       EmailQueue
	storagePath string
	now         func() time.Time
}

func NewMICService(repo repository.MICRepository, crts repository.CRTRepository, queue EmailQueue, storagePath string) MICService {
	return &micService{repo: repo, crts: crts, queue: queue, storagePath: storagePath, now: time.Now}
}

func (s *micService) findCRT(ctx context.Context, idOrNumero string) (*model.CRT, error) {
	var c *model.CRT
	var err error
	if id, perr := uuid.Parse(idOrNumero); perr == nil {
		c, err = s.crts.FindByID(ctx, id)
	} else {
		c, err = s.crts.FindByNumero(ctx, idOrNumero)
	}
	if err != nil {
		return nil, dbErr(err)
	}
	return c, nil
}

func (s *micService) CargarDatosCRT(ctx context.Context, idOrNumero string) (*dto.MICFields, error) {
	c, err := s.findCRT(ctx, idOrNumero)
	if err != nil {
		return nil, err
	}
	f := s.desdeCRT(*c)
	return &f, nil
}

// desdeCRT fills the form defaults and every field the CRT determines.
func (s *micService) desdeCRT(c model.CRT) dto.MICFields {
	fecha := s.now()
	if c.FechaEmision != nil {
		fecha = *c.FechaEmision
	}
	f := micprefill.NewDraft(fecha).MICFields

	transportadora := bloqueTransportadora(c.Transportadora)
	f.Campo1Transporte = transportadora
	f.Campo9DatosTransporte = transportadora
	if c.Transportadora != nil {
		f.Campo2Numero = c.Transportadora.RolContribuyente
		f.Campo10Numero = c.Transportadora.RolContribuyente
	}
	// Tránsito aduanero when the CRT declares customs formalities.
	f.Campo3Transporte = "NO"
	if strings.TrimSpace(c.FormalidadesAduana) != "" {
		f.Campo3Transporte = "SI"
	}
	f.Campo8Destino = c.LugarEntrega
	f.Campo23NumeroCampo2CRT = c.NumeroCRT
	if c.Moneda != nil {
		f.Campo25Moneda = c.Moneda.Nombre
	}
	f.Campo27ValorCampo16 = numfmt.Canonical(c.DeclaracionMercaderia)
	flete, seguro := splitGastos(c.Gastos)
	f.Campo28Total = montoMIC(flete)
	f.Campo29Seguro = montoMIC(seguro)
	f.Campo32PesoBruto = numfmt.Canonical(c.PesoBruto)

	f.Campo33DatosCampo1CRT = bloqueRemitente(c.Remitente)
	f.Campo34DatosCampo4CRT = bloqueRemitente(c.Destinatario)
	f.Campo35DatosCampo6CRT = bloqueRemitente(c.Consignatario)
	if f.Campo35DatosCampo6CRT == "" {
		f.Campo35DatosCampo6CRT = f.Campo34DatosCampo4CRT
	}
	f.Campo36FacturaDespacho = facturaDespacho(c.FacturaExportacion, c.NroDespacho)
	f.Campo38DatosCampo11CRT = truncar(c.DetallesMercaderia, detallesMax)
	return f
}

// CrearDesdeCRT stores a MIC built from the CRT, with the operator's
// values laid over the derived ones.
func (s *micService) CrearDesdeCRT(ctx context.Context, crtID uuid.UUID, datos map[string]any) (*dto.CrearMICResponse, error) {
	c, err := s.crts.FindByID(ctx, crtID)
	if err != nil {
		return nil, dbErr(err)
	}
	d := micprefill.Draft{MICFields: s.desdeCRT(*c)}
	d = d.Merge(micprefill.NormalizeFields(datos))
	f := sanitizeMIC(d.MICFields)

	m := &model.MICGuardado{CRTID: c.ID, MICCampos: model.MICCampos(f)}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, writeErr(err)
	}
	log.Info().Str("mic", m.ID.String()).Str("crt", c.NumeroCRT).Msg("MIC creado desde CRT")
	return &dto.CrearMICResponse{
		ID:      m.ID.String(),
		PDFURL:  "/api/mic-guardados/" + m.ID.String() + "/pdf",
		Message: "MIC creado",
	}, nil
}

func (s *micService) Listar(ctx context.Context, filter dto.MICFilter) (*dto.MICListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MICResponse, len(list))
	for i, m := range list {
		items[i] = micToResponse(m)
	}
	return &dto.MICListResponse{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *micService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MICResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err)
	}
	resp := micToResponse(*m)
	return &resp, nil
}

func (s *micService) Actualizar(ctx context.Context, id uuid.UUID, f dto.MICFields) (*dto.MICResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err)
	}
	m.MICCampos = model.MICCampos(sanitizeMIC(f))
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, writeErr(err)
	}
	resp := micToResponse(*m)
	return &resp, nil
}

func (s *micService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return dbErr(s.repo.Delete(ctx, id))
}

func (s *micService) GenerarPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", dbErr(err)
	}
	data, err := infra.RenderMICPDF(dto.MICFields(m.MICCampos))
	if err != nil {
		return nil, "", fmt.Errorf("render MIC %s: %w", id, err)
	}
	return data, "MIC_" + id.String() + ".pdf", nil
}

func (s *micService) Enviar(ctx context.Context, id uuid.UUID, email string) error {
	data, name, err := s.GenerarPDF(ctx, id)
	if err != nil {
		return err
	}
	path, err := infra.SavePDF(s.storagePath, name, data)
	if err != nil {
		return err
	}
	return s.queue.EnqueueEmail(ctx, worker.JobDocumento, worker.DocumentoPayload{
		ToEmail: email,
		Subject: "MIC/DTA " + id.String(),
		Body:    "Se adjunta el manifiesto MIC/DTA.",
		PDFPath: path,
	})
}

func micToResponse(m model.MICGuardado) dto.MICResponse {
	return dto.MICResponse{
		ID:        m.ID.String(),
		CRTID:     m.CRTID.String(),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		MICFields: dto.MICFields(m.MICCampos),
	}
}

// sanitizeMIC strips markup from every campo.
func sanitizeMIC(f dto.MICFields) dto.MICFields {
	b, err := json.Marshal(f)
	if err != nil {
		return f
	}
	fields := map[string]string{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return f
	}
	for k, v := range fields {
		fields[k] = sanitize.Text(v)
	}
	b, _ = json.Marshal(fields)
	var out dto.MICFields
	if err := json.Unmarshal(b, &out); err != nil {
		return f
	}
	return out
}
