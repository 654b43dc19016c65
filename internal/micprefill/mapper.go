package micprefill

import (
	"context"
	"strings"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"

	"github.com/rs/zerolog/log"
)

// FallbackWarning is surfaced when the consolidated prefill is unavailable.
const FallbackWarning = "No se pudieron cargar todos los datos del CRT; se completaron los campos básicos"

// Source serves the consolidated "MIC data from CRT" resource.
type Source interface {
	CargarDatosCRT(ctx context.Context, crtIDOrNumero string) (map[string]any, error)
}

// Directory resolves carriers by identifier.
type Directory interface {
	Transportadoras(ctx context.Context) ([]dto.TransportadoraResponse, error)
}

// Outcome is the result of a prefill. Warning is non-blocking.
type Outcome struct {
	Draft    Draft
	Fallback bool
	Warning  string
}

// Mapper populates MIC drafts from CRTs.
type Mapper struct {
	src Source
	dir Directory
	now func() time.Time
}

func NewMapper(src Source, dir Directory) *Mapper {
	return &Mapper{src: src, dir: dir, now: time.Now}
}

// WithClock overrides the clock used for date defaults.
func (m *Mapper) WithClock(now func() time.Time) *Mapper {
	m.now = now
	return m
}

// Prefill prefers the consolidated backend resource and degrades to a
// minimal CRT-derived subset when it fails. It never returns an error.
func (m *Mapper) Prefill(ctx context.Context, crt dto.CRTResponse) Outcome {
	base := NewDraft(m.now())

	key := crt.ID
	if key == "" {
		key = crt.NumeroCRT
	}
	data, err := m.src.CargarDatosCRT(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("crt", key).Msg("mic prefill: falling back to CRT fields")
		return Outcome{Draft: Fallback(base, crt), Fallback: true, Warning: FallbackWarning}
	}

	values := NormalizeFields(data)
	d := base.Merge(values)
	d.Campo37ValorManual = ""
	if d.Campo9DatosTransporte == "" {
		d.Campo9DatosTransporte = m.transportadoraNombre(ctx, transportadoraIdent(values))
	}
	return Outcome{Draft: d}
}

// Fallback fills only the fields derivable from the CRT record itself.
func Fallback(base Draft, crt dto.CRTResponse) Draft {
	base.Campo8Destino = crt.LugarEntrega
	base.Campo27ValorCampo16 = crt.DeclaracionMercaderia
	base.Campo32PesoBruto = crt.PesoBruto
	base.Campo36FacturaDespacho = facturaDespacho(crt)
	return base
}

// transportadoraIdent prefers the explicit carrier id, else the first line
// of the campo 1 block.
func transportadoraIdent(values map[string]string) string {
	if id := strings.TrimSpace(values["campo_1_porteador"]); id != "" {
		return id
	}
	first, _, _ := strings.Cut(values["campo_1_transporte"], "\n")
	return strings.TrimSpace(first)
}

func (m *Mapper) transportadoraNombre(ctx context.Context, ident string) string {
	if ident == "" || m.dir == nil {
		return ""
	}
	list, err := m.dir.Transportadoras(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("mic prefill: carrier lookup failed")
		return ""
	}
	for _, t := range list {
		if t.ID == ident || t.Codigo == ident || strings.EqualFold(t.Nombre, ident) {
			return t.Nombre
		}
	}
	return ""
}
