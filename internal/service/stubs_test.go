package service_test

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/infra"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ───────────────────────────────────────────────

type stubCatalogo[T any] struct {
	rows  map[uuid.UUID]*T
	id    func(*T) *uuid.UUID
	lists int
}

func newStubCatalogo[T any](id func(*T) *uuid.UUID) *stubCatalogo[T] {
	return &stubCatalogo[T]{rows: map[uuid.UUID]*T{}, id: id}
}

func (r *stubCatalogo[T]) put(e T) *T {
	p := &e
	if *r.id(p) == uuid.Nil {
		*r.id(p) = uuid.New()
	}
	r.rows[*r.id(p)] = p
	return p
}

func (r *stubCatalogo[T]) Create(_ context.Context, e *T) error {
	if *r.id(e) == uuid.Nil {
		*r.id(e) = uuid.New()
	}
	cp := *e
	r.rows[*r.id(e)] = &cp
	return nil
}

func (r *stubCatalogo[T]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	e, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *stubCatalogo[T]) List(_ context.Context) ([]T, error) {
	r.lists++
	out := make([]T, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubCatalogo[T]) Update(_ context.Context, e *T) error {
	if _, ok := r.rows[*r.id(e)]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *e
	r.rows[*r.id(e)] = &cp
	return nil
}

func (r *stubCatalogo[T]) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.rows, id)
	return nil
}

func paisID(p *model.Pais) *uuid.UUID     { return &p.ID }
func ciudadID(c *model.Ciudad) *uuid.UUID { return &c.ID }
func monedaID(m *model.Moneda) *uuid.UUID { return &m.ID }

type stubCRTRepo struct {
	crts map[uuid.UUID]*model.CRT
}

func newStubCRTRepo() *stubCRTRepo { return &stubCRTRepo{crts: map[uuid.UUID]*model.CRT{}} }

func (r *stubCRTRepo) Create(_ context.Context, c *model.CRT) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for _, other := range r.crts {
		if other.NumeroCRT == c.NumeroCRT {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *c
	r.crts[c.ID] = &cp
	return nil
}

func (r *stubCRTRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CRT, error) {
	c, ok := r.crts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCRTRepo) FindByNumero(_ context.Context, numero string) (*model.CRT, error) {
	for _, c := range r.crts {
		if c.NumeroCRT == numero {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCRTRepo) List(_ context.Context, _ dto.CRTFilter) ([]model.CRT, int64, error) {
	out := make([]model.CRT, 0, len(r.crts))
	for _, c := range r.crts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumeroCRT < out[j].NumeroCRT })
	return out, int64(len(out)), nil
}

func (r *stubCRTRepo) Update(_ context.Context, c *model.CRT) error {
	if _, ok := r.crts[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *c
	r.crts[c.ID] = &cp
	return nil
}

func (r *stubCRTRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	c, ok := r.crts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Estado = estado
	return nil
}

func (r *stubCRTRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.crts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.crts, id)
	return nil
}

// likePY mirrors LIKE 'PY_________'.
var likePY = regexp.MustCompile(`^PY.{9}$`)

func (r *stubCRTRepo) MaxNumero(_ context.Context, transportadoraID uuid.UUID, _ string) (string, error) {
	best := ""
	for _, c := range r.crts {
		if c.TransportadoraID == transportadoraID && likePY.MatchString(c.NumeroCRT) && c.NumeroCRT > best {
			best = c.NumeroCRT
		}
	}
	return best, nil
}

type stubMICRepo struct {
	mics map[uuid.UUID]*model.MICGuardado
}

func newStubMICRepo() *stubMICRepo { return &stubMICRepo{mics: map[uuid.UUID]*model.MICGuardado{}} }

func (r *stubMICRepo) Create(_ context.Context, m *model.MICGuardado) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	cp := *m
	r.mics[m.ID] = &cp
	return nil
}

func (r *stubMICRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MICGuardado, error) {
	m, ok := r.mics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *stubMICRepo) List(_ context.Context, _ dto.MICFilter) ([]model.MICGuardado, int64, error) {
	out := make([]model.MICGuardado, 0, len(r.mics))
	for _, m := range r.mics {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMICRepo) Update(_ context.Context, m *model.MICGuardado) error {
	cp := *m
	r.mics[m.ID] = &cp
	return nil
}

func (r *stubMICRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.mics[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.mics, id)
	return nil
}

type stubUsuarioRepo struct {
	users map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: map[uuid.UUID]*model.Usuario{}}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	for _, other := range r.users {
		if other.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = uuid.New()
	r.users[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByLogin(_ context.Context, login string) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.Activo && (u.Username == login || (u.Email != nil && *u.Email == login)) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.users {
		if u.Activo || incluirInactivos {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) TouchUltimoAcceso(_ context.Context, id uuid.UUID) error {
	now := time.Now()
	r.users[id].UltimoAcceso = &now
	return nil
}

func (r *stubUsuarioRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	r.users[id].Activo = activo
	return nil
}

// ── Infrastructure Stubs ─────────────────────────────────────────────────────

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	return b, ok
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

type memTokens struct {
	tokens map[string]string
}

func newMemTokens() *memTokens { return &memTokens{tokens: map[string]string{}} }

func (s *memTokens) Save(_ context.Context, token, userID string, _ time.Duration) error {
	s.tokens[token] = userID
	return nil
}

func (s *memTokens) Consume(_ context.Context, token string) (string, error) {
	id, ok := s.tokens[token]
	if !ok {
		return "", infra.ErrTokenNotFound
	}
	delete(s.tokens, token)
	return id, nil
}

type queuedEmail struct {
	jobType string
	payload any
}

type recQueue struct {
	jobs []queuedEmail
}

func (q *recQueue) EnqueueEmail(_ context.Context, jobType string, payload any) error {
	q.jobs = append(q.jobs, queuedEmail{jobType: jobType, payload: payload})
	return nil
}
