package micprefill_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/micprefill"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubSource struct {
	data   map[string]any
	err    error
	gotKey string
}

func (s *stubSource) CargarDatosCRT(_ context.Context, key string) (map[string]any, error) {
	s.gotKey = key
	return s.data, s.err
}

type stubDirectory struct {
	list  []dto.TransportadoraResponse
	calls int
}

func (d *stubDirectory) Transportadoras(context.Context) ([]dto.TransportadoraResponse, error) {
	d.calls++
	return d.list, nil
}

var _ micprefill.Source = (*stubSource)(nil)
var _ micprefill.Directory = (*stubDirectory)(nil)

var today = time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

func sampleCRT() dto.CRTResponse {
	return dto.CRTResponse{
		ID:                    "6f1c1d1e-0000-4000-8000-000000000001",
		NumeroCRT:             "PY000000123",
		LugarEntrega:          "SAO PAULO - BRASIL",
		DeclaracionMercaderia: "25000.00",
		PesoBruto:             "18000.500",
		FacturaExportacion:    "001-001-0001234",
		NroDespacho:           "25002EC01000123X",
		DetallesMercaderia:    "CAJAS DE CARTON CONTENIENDO PRODUCTOS ALIMENTICIOS VARIOS PARA CONSUMO",
		Transportadora:        "TRANSPORTES DEL ESTE S.A.",
		TransportadoraID:      "tr-1",
		TransportadoraRolContribuyente: "80012345-6",
		Moneda:     "USD",
		TotalFlete: "1234.5",
		Seguro:     "0",
	}
}

// ── Defaults ──────────────────────────────────────────────────────────────────

func TestNewDraft_Defaults(t *testing.T) {
	d := micprefill.NewDraft(today)
	assert.Equal(t, "PROVISORIO", d.Campo4Estado)
	assert.Equal(t, "1 / 1", d.Campo5Hoja)
	assert.Equal(t, "2025-03-07", d.Campo6Fecha)
	assert.Equal(t, "45 TON", d.Campo13Siempre45)
	assert.Equal(t, micprefill.DefaultAduana, d.Campo24Aduana)
	assert.Equal(t, "520-PARAGUAY", d.Campo26Pais)
	assert.Equal(t, "******", d.Campo16Asteriscos1)
	assert.Equal(t, "******", d.Campo22Asteriscos7)
	assert.Empty(t, d.Campo8Destino)
}

// ── Prefill ───────────────────────────────────────────────────────────────────

func TestPrefill_PrimaryMergesResponse(t *testing.T) {
	src := &stubSource{data: map[string]any{
		"campo_1_transporte":       "TRANSPORTES DEL ESTE S.A.\nRUTA 7 KM 5",
		"campo_9_datos_transporte": "TRANSPORTES DEL ESTE S.A.",
		"campo_28_total":           "1.234,50",
		"campo_37_valor_manual":    "999",
		"campo_32_peso_bruto":      18000.5,
		"campo_15_placa_semi":      nil,
		"desconocido":              "x",
	}}
	dir := &stubDirectory{}
	out := micprefill.NewMapper(src, dir).WithClock(fixedClock).Prefill(context.Background(), sampleCRT())

	assert.False(t, out.Fallback)
	assert.Empty(t, out.Warning)
	assert.Equal(t, "6f1c1d1e-0000-4000-8000-000000000001", src.gotKey)
	assert.Equal(t, "1.234,50", out.Draft.Campo28Total)
	assert.Equal(t, "18000.5", out.Draft.Campo32PesoBruto)
	assert.Equal(t, "", out.Draft.Campo15PlacaSemi)
	assert.Equal(t, "", out.Draft.Campo37ValorManual, "manual value always starts blank")
	assert.Equal(t, "PROVISORIO", out.Draft.Campo4Estado, "defaults survive the merge")
	assert.Equal(t, 0, dir.calls, "backend-supplied name is never looked up")
}

func TestPrefill_UsesNumberWhenIDMissing(t *testing.T) {
	src := &stubSource{data: map[string]any{}}
	crt := sampleCRT()
	crt.ID = ""
	micprefill.NewMapper(src, nil).Prefill(context.Background(), crt)
	assert.Equal(t, "PY000000123", src.gotKey)
}

func TestPrefill_BackfillsTransporterName(t *testing.T) {
	src := &stubSource{data: map[string]any{
		"campo_1_transporte": "tr-9\nAV. ESPAÑA 123",
	}}
	dir := &stubDirectory{list: []dto.TransportadoraResponse{
		{ID: "tr-1", Nombre: "OTRA"},
		{ID: "tr-9", Nombre: "LOGISTICA PARANA SRL"},
	}}
	out := micprefill.NewMapper(src, dir).WithClock(fixedClock).Prefill(context.Background(), sampleCRT())
	assert.Equal(t, "LOGISTICA PARANA SRL", out.Draft.Campo9DatosTransporte)
}

func TestPrefill_BackfillPrefersExplicitCarrierID(t *testing.T) {
	src := &stubSource{data: map[string]any{
		"campo_1_porteador":  "tr-1",
		"campo_1_transporte": "tr-9",
	}}
	dir := &stubDirectory{list: []dto.TransportadoraResponse{
		{ID: "tr-1", Nombre: "TRANSPORTES DEL ESTE S.A."},
		{ID: "tr-9", Nombre: "LOGISTICA PARANA SRL"},
	}}
	out := micprefill.NewMapper(src, dir).WithClock(fixedClock).Prefill(context.Background(), sampleCRT())
	assert.Equal(t, "TRANSPORTES DEL ESTE S.A.", out.Draft.Campo9DatosTransporte)
}

func TestPrefill_FallbackOnError(t *testing.T) {
	src := &stubSource{err: errors.New("connection refused")}
	out := micprefill.NewMapper(src, nil).WithClock(fixedClock).Prefill(context.Background(), sampleCRT())

	require.True(t, out.Fallback)
	assert.Equal(t, micprefill.FallbackWarning, out.Warning)
	assert.Equal(t, "SAO PAULO - BRASIL", out.Draft.Campo8Destino)
	assert.Equal(t, "25000.00", out.Draft.Campo27ValorCampo16)
	assert.Equal(t, "18000.500", out.Draft.Campo32PesoBruto)
	assert.Equal(t, "001-001-0001234 25002EC01000123X", out.Draft.Campo36FacturaDespacho)

	// everything else equals the form defaults
	expected := micprefill.NewDraft(today)
	expected.Campo8Destino = out.Draft.Campo8Destino
	expected.Campo27ValorCampo16 = out.Draft.Campo27ValorCampo16
	expected.Campo32PesoBruto = out.Draft.Campo32PesoBruto
	expected.Campo36FacturaDespacho = out.Draft.Campo36FacturaDespacho
	assert.Equal(t, expected, out.Draft)
}

func TestFallback_TrimsFacturaDespacho(t *testing.T) {
	crt := dto.CRTResponse{NroDespacho: "D-1"}
	d := micprefill.Fallback(micprefill.NewDraft(today), crt)
	assert.Equal(t, "D-1", d.Campo36FacturaDespacho)
}

// ── NormalizeFields / Payload ────────────────────────────────────────────────

func TestNormalizeFields_NullBecomesEmpty(t *testing.T) {
	out := micprefill.NormalizeFields(map[string]any{
		"a": nil, "b": "x", "c": 12.0, "d": 0.25, "e": true,
	})
	assert.Equal(t, map[string]string{"a": "", "b": "x", "c": "12", "d": "0.25", "e": "true"}, out)
}

func TestPayload_DefaultsAndDates(t *testing.T) {
	d := micprefill.NewDraft(today)
	d.Campo11Placa = "AAEX123"
	d.Campo4Estado = ""
	d.Campo26Pais = ""

	p := d.Payload("PY000000123")
	assert.Equal(t, "07/03/2025", p.Campo6Fecha)
	assert.Equal(t, "07/03/2025", p.Campo39)
	assert.Equal(t, "NO", p.Campo3Transporte)
	assert.Equal(t, "USD", p.Campo25Moneda)
	assert.Equal(t, "520-PARAGUAY", p.Campo26Pais)
	assert.Equal(t, "PROVISORIO", p.Campo4Estado)
	assert.Equal(t, "PY000000123", p.Campo23NumeroCampo2CRT)
	assert.Equal(t, "AAEX123", p.Campo11Placa)
}

func TestPayload_EditKeepsStoredCRTNumber(t *testing.T) {
	d := micprefill.NewDraft(today)
	d.Campo23NumeroCampo2CRT = "PY000000001"
	assert.Equal(t, "PY000000001", d.Payload("").Campo23NumeroCampo2CRT)
}

func TestPayload_NullsFromBackendNeverLeak(t *testing.T) {
	src := &stubSource{data: map[string]any{"campo_33_datos_campo1_crt": nil, "campo_11_placa": "X1"}}
	out := micprefill.NewMapper(src, nil).WithClock(fixedClock).Prefill(context.Background(), sampleCRT())
	p := out.Draft.Payload("")
	assert.Equal(t, "", p.Campo33DatosCampo1CRT)
	assert.Equal(t, "X1", p.Campo11Placa)
}

func TestValidate_PlacaRequerida(t *testing.T) {
	d := micprefill.NewDraft(today)
	assert.ErrorIs(t, d.Validate(), micprefill.ErrPlacaRequerida)
	d.Campo11Placa = "ABC-999"
	assert.NoError(t, d.Validate())
}

func TestSet_UnknownField(t *testing.T) {
	d := micprefill.NewDraft(today)
	require.NoError(t, d.Set("campo_11_placa", "XYZ"))
	assert.Equal(t, "XYZ", d.Campo11Placa)
	assert.Error(t, d.Set("campo_99", "x"))
}

// ── Reset ────────────────────────────────────────────────────────────────────

func TestReset_PlaceholdersAndMoney(t *testing.T) {
	d := micprefill.Reset(sampleCRT(), today)
	assert.Equal(t, "1.234,50", d.Campo28Total)
	assert.Equal(t, "", d.Campo29Seguro, "zero money stays blank")
	assert.Equal(t, micprefill.PlaceholderPlaca, d.Campo11Placa)
	assert.Equal(t, "2025", d.Campo14Anio)
	assert.Equal(t, "CAJAS", d.Campo30TipoBultos)
	assert.Equal(t, "1", d.Campo31Cantidad)
	assert.Equal(t, micprefill.DefaultAduana, d.Campo24Aduana)
	assert.Equal(t, "80012345-6", d.Campo2Numero)
	assert.Equal(t, "80012345-6", d.Campo10Numero)
	assert.Equal(t, "TRANSPORTES DEL ESTE S.A.", d.Campo9DatosTransporte)
	assert.Equal(t, "tr-1", d.Porteador)
	assert.Len(t, []rune(d.Campo40Tramo), 50)
	assert.Equal(t, "", d.Campo37ValorManual)
}

// ── Route ────────────────────────────────────────────────────────────────────

func TestGenerateRoute_Brasil(t *testing.T) {
	aduanas := []dto.AduanaResponse{{Nombre: "ADUANA X", Ciudad: "CIUDAD DEL ESTE"}}
	got := micprefill.GenerateRoute(micprefill.RouteInput{
		OriginPost:  "ADUANA X",
		DestLugar:   "SAO PAULO",
		DestCountry: "052-BRASIL",
		DestPost:    "ADUANA Y",
	}, aduanas)
	assert.Equal(t,
		"ORIGEN:ADUANA X-CIUDAD DEL ESTE;SALIDA: CIUDAD DEL ESTE-CIUDAD DEL ESTE; DESTINO: BRASIL-SAO PAULO-ADUANA Y;DESTINO ENTRADA: BRASIL-SAO PAULO-MULTILOG-FOZ DO IGUAZU;",
		got)
}

func TestGenerateRoute_UnknownOriginUsesDefaultCity(t *testing.T) {
	got := micprefill.GenerateRoute(micprefill.RouteInput{
		OriginPost:  "PUERTO SECO",
		DestLugar:   "SALTA",
		DestCountry: "032-argentina",
		DestPost:    "ADUANA SALTA",
	}, nil)
	assert.Equal(t,
		"ORIGEN:PUERTO SECO-CIUDAD DEL ESTE;SALIDA: CIUDAD DEL ESTE-CIUDAD DEL ESTE; DESTINO: ARGENTINA-SALTA-ADUANA SALTA;DESTINO ENTRADA: ARGENTINA-SALTA-CLORINDA;",
		got)
}

func TestGateway(t *testing.T) {
	assert.Equal(t, "JAMA", micprefill.Gateway("CHILE"))
	assert.Equal(t, "FRONTERA", micprefill.Gateway("URUGUAY"))
	assert.Equal(t, "URUGUAY", micprefill.CleanCountry(" 858-uruguay "))
}

func TestApplyRoute_ReadsDraft(t *testing.T) {
	d := micprefill.NewDraft(today)
	d.Campo7PtoSeguro = "ASUNCION"
	d.Campo8Destino = "SANTIAGO"
	d.Campo26Pais = "152-CHILE"
	d.Campo24Aduana = "LOS ANDES"
	d.ApplyRoute([]dto.AduanaResponse{{Nombre: "ASUNCION", Ciudad: "ASUNCION"}})
	assert.Equal(t,
		"ORIGEN:ASUNCION-ASUNCION;SALIDA: ASUNCION-ASUNCION; DESTINO: CHILE-SANTIAGO-LOS ANDES;DESTINO ENTRADA: CHILE-SANTIAGO-JAMA;",
		d.Campo40Tramo)
}
