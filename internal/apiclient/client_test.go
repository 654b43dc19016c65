package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/apiclient"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/circuit"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/config"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/micprefill"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func newClient(t *testing.T, h http.Handler) (*apiclient.Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	store := session.NewStore()
	c, err := apiclient.New(&config.ClientConfig{APIURL: srv.URL + "/api", TimeoutSeconds: 5}, store)
	require.NoError(t, err)
	return c, store
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ── Auth ─────────────────────────────────────────────────────────────────────

func TestLogin_StoresSessionAndSendsBearer(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "ana", req.Username)
		writeJSON(w, http.StatusOK, dto.LoginResponse{
			AccessToken: "tok", RefreshToken: "ref", ExpiresIn: 3600,
			User: dto.UsuarioResponse{ID: "u1", Username: "ana", Rol: "operador"},
		})
	})
	mux.HandleFunc("/api/crts/c1", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, dto.CRTResponse{ID: "c1", NumeroCRT: "PY000000001"})
	})
	c, store := newClient(t, mux)

	var notified []string
	store.OnChange(func(s session.Session) { notified = append(notified, s.AccessToken) })

	sess, err := c.Login(context.Background(), "ana", "secreto", "")
	require.NoError(t, err)
	assert.Equal(t, "operador", sess.User.Rol)
	assert.True(t, sess.ExpiresAt.After(time.Now()))
	assert.Equal(t, []string{"tok"}, notified)

	crt, err := c.CRT(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "PY000000001", crt.NumeroCRT)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestUnauthorized_ClearsSession(t *testing.T) {
	c, store := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token invalido o expirado"})
	}))
	store.Set(session.Session{AccessToken: "viejo"})

	_, err := c.CRT(context.Background(), "c1")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiclient.StatusOf(err))
	assert.False(t, store.Get().Authenticated())
}

// ── Prefill ──────────────────────────────────────────────────────────────────

func TestCargarDatosCRT_KeepsNumbersExact(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/mic/cargar-datos-crt/PY000000123", r.URL.Path)
		_, _ = w.Write([]byte(`{"campo_32_peso_bruto": 18000.125, "campo_9_datos_transporte": null}`))
	}))

	data, err := c.CargarDatosCRT(context.Background(), "PY000000123")
	require.NoError(t, err)
	fields := micprefill.NormalizeFields(data)
	assert.Equal(t, "18000.125", fields["campo_32_peso_bruto"])
	assert.Equal(t, "", fields["campo_9_datos_transporte"])
}

func TestPrefill_FallsBackWhenServerFails(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Error interno del servidor"})
	}))

	out := micprefill.NewMapper(c, c).Prefill(context.Background(), dto.CRTResponse{
		ID: "c1", LugarEntrega: "SAO PAULO", PesoBruto: "1200",
	})
	assert.True(t, out.Fallback)
	assert.Equal(t, micprefill.FallbackWarning, out.Warning)
	assert.Equal(t, "SAO PAULO", out.Draft.Campo8Destino)
	assert.Equal(t, "1200", out.Draft.Campo32PesoBruto)
}

// ── Reference lists ──────────────────────────────────────────────────────────

func TestTransportadoras_UnwrapsAndCaches(t *testing.T) {
	var hits int32
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/api/transportadoras/", r.URL.Path)
		writeJSON(w, http.StatusOK, dto.TransportadoraListResponse{
			Items: []dto.TransportadoraResponse{{ID: "t1", Nombre: "TRANSPORTES SA"}},
			Total: 1,
		})
	}))

	for i := 0; i < 2; i++ {
		list, err := c.Transportadoras(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "TRANSPORTES SA", list[0].Nombre)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	c.InvalidateReferencias()
	_, err := c.Transportadoras(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

// ── Save with confirmation ───────────────────────────────────────────────────

func conflictServer(t *testing.T, puts *int32, flags *[]bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		atomic.AddInt32(puts, 1)
		var req dto.CRTRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		*flags = append(*flags, req.PermitirEdicionEnTransito)
		if !req.PermitirEdicionEnTransito {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error": "el CRT está EN_TRANSITO", "requiere_confirmacion": true,
			})
			return
		}
		writeJSON(w, http.StatusOK, dto.CRTResponse{ID: "c1", Estado: dto.EstadoEnTransito})
	})
}

func TestGuardarCRT_ConfirmedRetriesWithFlag(t *testing.T) {
	var puts int32
	var flags []bool
	c, _ := newClient(t, conflictServer(t, &puts, &flags))

	var asked string
	resp, err := c.GuardarCRT(context.Background(), "c1", dto.CRTRequest{},
		apiclient.ConfirmFunc(func(msg string) bool { asked = msg; return true }))
	require.NoError(t, err)
	assert.Equal(t, dto.EstadoEnTransito, resp.Estado)
	assert.Equal(t, "el CRT está EN_TRANSITO", asked)
	assert.Equal(t, []bool{false, true}, flags)
}

func TestGuardarCRT_DeclinedStops(t *testing.T) {
	var puts int32
	var flags []bool
	c, _ := newClient(t, conflictServer(t, &puts, &flags))

	_, err := c.GuardarCRT(context.Background(), "c1", dto.CRTRequest{},
		apiclient.ConfirmFunc(func(string) bool { return false }))
	assert.ErrorIs(t, err, apiclient.ErrCancelado)
	assert.Equal(t, int32(1), atomic.LoadInt32(&puts))
}

// ── MIC and downloads ────────────────────────────────────────────────────────

func TestCrearMIC_ThenDownloadPDFURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/mic-guardados/crear-desde-crt/c1", func(w http.ResponseWriter, r *http.Request) {
		var f dto.MICFields
		_ = json.NewDecoder(r.Body).Decode(&f)
		assert.Equal(t, "ABC-1234", f.Campo11Placa)
		writeJSON(w, http.StatusCreated, dto.CrearMICResponse{ID: "m1", PDFURL: "/api/mic-guardados/m1/pdf"})
	})
	mux.HandleFunc("/api/mic-guardados/m1/pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.3 fake"))
	})
	c, _ := newClient(t, mux)

	resp, err := c.CrearMIC(context.Background(), "c1", dto.MICFields{Campo11Placa: "ABC-1234"})
	require.NoError(t, err)
	pdf, err := c.Download(context.Background(), resp.PDFURL)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 fake", string(pdf))
}

// ── Breaker ──────────────────────────────────────────────────────────────────

func TestBreaker_IgnoresClientErrors(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "registro no encontrado"})
	}))
	for i := 0; i < 10; i++ {
		_, err := c.CRT(context.Background(), "nope")
		assert.Equal(t, http.StatusNotFound, apiclient.StatusOf(err))
	}
	assert.Equal(t, circuit.Closed, c.BreakerState())
}

func TestBreaker_OpensOnServerErrors(t *testing.T) {
	var hits int32
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	for i := 0; i < 5; i++ {
		_, _ = c.CRT(context.Background(), "c1")
	}
	assert.Equal(t, circuit.Open, c.BreakerState())

	_, err := c.CRT(context.Background(), "c1")
	assert.ErrorIs(t, err, circuit.ErrOpen)
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
}
