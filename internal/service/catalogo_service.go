package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/model"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/repository"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/sanitize"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CatalogoService serves one reference table. Lists are cached; every
// write invalidates the cached list.
type CatalogoService[Req, Resp any] interface {
	Listar(ctx context.Context) ([]Resp, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*Resp, error)
	Crear(ctx context.Context, req Req) (*Resp, error)
	Actualizar(ctx context.Context, id uuid.UUID, req Req) (*Resp, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type catalogoService[M, Req, Resp any] struct {
	nombre string
	repo   repository.CatalogoRepository[M]
	cache  Cache
	ttl    time.Duration
	// fill copies a validated request onto the model.
	fill   func(Req, *M) error
	toResp func(M) Resp
}

func (s *catalogoService[M, Req, Resp]) Listar(ctx context.Context) ([]Resp, error) {
	if s.cache != nil {
		if b, ok := s.cache.Get(ctx, s.nombre); ok {
			var cached []Resp
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]Resp, len(list))
	for i, m := range list {
		resp[i] = s.toResp(m)
	}

	if s.cache != nil {
		if b, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, s.nombre, b, s.ttl); err != nil {
				log.Warn().Err(err).Str("catalogo", s.nombre).Msg("cache set failed")
			}
		}
	}
	return resp, nil
}

func (s *catalogoService[M, Req, Resp]) ObtenerPorID(ctx context.Context, id uuid.UUID) (*Resp, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err)
	}
	resp := s.toResp(*m)
	return &resp, nil
}

func (s *catalogoService[M, Req, Resp]) Crear(ctx context.Context, req Req) (*Resp, error) {
	var m M
	if err := s.fill(req, &m); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &m); err != nil {
		return nil, writeErr(err)
	}
	s.invalidate(ctx)
	return s.reload(ctx, m)
}

func (s *catalogoService[M, Req, Resp]) Actualizar(ctx context.Context, id uuid.UUID, req Req) (*Resp, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbErr(err)
	}
	if err := s.fill(req, m); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, writeErr(err)
	}
	s.invalidate(ctx)
	return s.reload(ctx, *m)
}

func (s *catalogoService[M, Req, Resp]) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return dbErr(err)
	}
	s.invalidate(ctx)
	return nil
}

// reload re-reads the row so that preloaded names are present.
func (s *catalogoService[M, Req, Resp]) reload(ctx context.Context, m M) (*Resp, error) {
	id := idOf(any(&m))
	if id == uuid.Nil {
		resp := s.toResp(m)
		return &resp, nil
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *catalogoService[M, Req, Resp]) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.nombre); err != nil {
		log.Warn().Err(err).Str("catalogo", s.nombre).Msg("cache invalidation failed")
	}
}

func idOf(m any) uuid.UUID {
	switch e := m.(type) {
	case *model.Pais:
		return e.ID
	case *model.Ciudad:
		return e.ID
	case *model.Moneda:
		return e.ID
	case *model.Remitente:
		return e.ID
	case *model.Transportadora:
		return e.ID
	case *model.Aduana:
		return e.ID
	}
	return uuid.Nil
}

func parseRef(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrReferencia, field)
	}
	return id, nil
}

// ── Paises ───────────────────────────────────────────────────────────────────

func NewPaisService(repo repository.CatalogoRepository[model.Pais], cache Cache, ttl time.Duration) CatalogoService[dto.PaisRequest, dto.PaisResponse] {
	return &catalogoService[model.Pais, dto.PaisRequest, dto.PaisResponse]{
		nombre: "paises", repo: repo, cache: cache, ttl: ttl,
		fill: func(r dto.PaisRequest, m *model.Pais) error {
			m.Nombre = strings.ToUpper(sanitize.Text(r.Nombre))
			m.Codigo = sanitize.Text(r.Codigo)
			return nil
		},
		toResp: paisResponse,
	}
}

func paisResponse(m model.Pais) dto.PaisResponse {
	return dto.PaisResponse{ID: m.ID.String(), Nombre: m.Nombre, Codigo: m.Codigo}
}

// ── Ciudades ─────────────────────────────────────────────────────────────────

func NewCiudadService(repo repository.CatalogoRepository[model.Ciudad], cache Cache, ttl time.Duration) CatalogoService[dto.CiudadRequest, dto.CiudadResponse] {
	return &catalogoService[model.Ciudad, dto.CiudadRequest, dto.CiudadResponse]{
		nombre: "ciudades", repo: repo, cache: cache, ttl: ttl,
		fill: func(r dto.CiudadRequest, m *model.Ciudad) error {
			paisID, err := parseRef("pais_id", r.PaisID)
			if err != nil {
				return err
			}
			m.Nombre = strings.ToUpper(sanitize.Text(r.Nombre))
			m.PaisID = paisID
			m.Pais = nil
			return nil
		},
		toResp: ciudadResponse,
	}
}

func ciudadResponse(m model.Ciudad) dto.CiudadResponse {
	r := dto.CiudadResponse{ID: m.ID.String(), Nombre: m.Nombre, PaisID: m.PaisID.String()}
	if m.Pais != nil {
		r.Pais = m.Pais.Nombre
	}
	return r
}

// ── Monedas ──────────────────────────────────────────────────────────────────

func NewMonedaService(repo repository.CatalogoRepository[model.Moneda], cache Cache, ttl time.Duration) CatalogoService[dto.MonedaRequest, dto.MonedaResponse] {
	return &catalogoService[model.Moneda, dto.MonedaRequest, dto.MonedaResponse]{
		nombre: "monedas", repo: repo, cache: cache, ttl: ttl,
		fill: func(r dto.MonedaRequest, m *model.Moneda) error {
			m.Codigo = strings.ToUpper(sanitize.Text(r.Codigo))
			m.Nombre = sanitize.Text(r.Nombre)
			m.Simbolo = sanitize.Text(r.Simbolo)
			return nil
		},
		toResp: func(m model.Moneda) dto.MonedaResponse {
			return dto.MonedaResponse{ID: m.ID.String(), Codigo: m.Codigo, Nombre: m.Nombre, Simbolo: m.Simbolo}
		},
	}
}

// ── Remitentes ───────────────────────────────────────────────────────────────

func NewRemitenteService(repo repository.CatalogoRepository[model.Remitente], cache Cache, ttl time.Duration) CatalogoService[dto.RemitenteRequest, dto.RemitenteResponse] {
	return &catalogoService[model.Remitente, dto.RemitenteRequest, dto.RemitenteResponse]{
		nombre: "remitentes", repo: repo, cache: cache, ttl: ttl,
		fill: func(r dto.RemitenteRequest, m *model.Remitente) error {
			ciudadID, err := parseRef("ciudad_id", r.CiudadID)
			if err != nil {
				return err
			}
			m.TipoDocumento = sanitize.Text(r.TipoDocumento)
			m.NumeroDocumento = sanitize.Text(r.NumeroDocumento)
			m.Nombre = sanitize.Text(r.Nombre)
			m.Direccion = sanitize.Text(r.Direccion)
			m.CiudadID = ciudadID
			m.Ciudad = nil
			return nil
		},
		toResp: func(m model.Remitente) dto.RemitenteResponse {
			r := dto.RemitenteResponse{
				ID: m.ID.String(), TipoDocumento: m.TipoDocumento, NumeroDocumento: m.NumeroDocumento,
				Nombre: m.Nombre, Direccion: m.Direccion, CiudadID: m.CiudadID.String(),
			}
			if m.Ciudad != nil {
				r.Ciudad = m.Ciudad.Nombre
			}
			return r
		},
	}
}

// ── Transportadoras ──────────────────────────────────────────────────────────

func NewTransportadoraService(repo repository.CatalogoRepository[model.Transportadora], cache Cache, ttl time.Duration) CatalogoService[dto.TransportadoraRequest, dto.TransportadoraResponse] {
	return &catalogoService[model.Transportadora, dto.TransportadoraRequest, dto.TransportadoraResponse]{
		nombre: "transportadoras", repo: repo, cache: cache, ttl: ttl,
		fill: func(r dto.TransportadoraRequest, m *model.Transportadora) error {
			ciudadID, err := parseRef("ciudad_id", r.CiudadID)
			if err != nil {
				return err
			}
			m.Codigo = sanitize.Text(r.Codigo)
			m.CodigoInterno = sanitize.Text(r.CodigoInterno)
			m.Nombre = sanitize.Text(r.Nombre)
			m.Direccion = sanitize.Text(r.Direccion)
			m.CiudadID = ciudadID
			m.Ciudad = nil
			m.TipoDocumento = sanitize.Text(r.TipoDocumento)
			m.NumeroDocumento = sanitize.Text(r.NumeroDocumento)
			m.Telefono = sanitize.Text(r.Telefono)
			m.RolContribuyente = sanitize.Text(r.RolContribuyente)
			return nil
		},
		toResp: transportadoraResponse,
	}
}

func transportadoraResponse(m model.Transportadora) dto.TransportadoraResponse {
	r := dto.TransportadoraResponse{
		ID: m.ID.String(), Codigo: m.Codigo, CodigoInterno: m.CodigoInterno, Nombre: m.Nombre,
		Direccion: m.Direccion, CiudadID: m.CiudadID.String(), TipoDocumento: m.TipoDocumento,
		NumeroDocumento: m.NumeroDocumento, Telefono: m.Telefono, RolContribuyente: m.RolContribuyente,
	}
	if m.Ciudad != nil {
		r.Ciudad = m.Ciudad.Nombre
	}
	return r
}

// ── Aduanas ──────────────────────────────────────────────────────────────────

func NewAduanaService(repo repository.CatalogoRepository[model.Aduana], cache Cache, ttl time.Duration) CatalogoService[dto.AduanaRequest, dto.AduanaResponse] {
	return &catalogoService[model.Aduana, dto.AduanaRequest, dto.AduanaResponse]{
		nombre: "aduanas", repo: repo, cache: cache, ttl: ttl,
		fill: func(r dto.AduanaRequest, m *model.Aduana) error {
			m.Nombre = strings.ToUpper(sanitize.Text(r.Nombre))
			m.Codigo = sanitize.Text(r.Codigo)
			m.Ciudad = strings.ToUpper(sanitize.Text(r.Ciudad))
			return nil
		},
		toResp: func(m model.Aduana) dto.AduanaResponse {
			return dto.AduanaResponse{ID: m.ID.String(), Nombre: m.Nombre, Codigo: m.Codigo, Ciudad: m.Ciudad}
		},
	}
}
