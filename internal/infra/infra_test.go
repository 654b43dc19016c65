package infra_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRenderCRTPDF(t *testing.T) {
	data, err := infra.RenderCRTPDF(infra.CRTDocument{
		Numero:             "PY000000123",
		Remitente:          "JOSAPAR S/A\nRUA SESMARIA ROCHA, S/N\nITAQUI - BRASIL",
		DetallesMercaderia: "1.200 CAJAS DE ARROZ",
		Gastos: []infra.GastoLinea{
			{Descripcion: "Flete", ValorRemitente: "1.500,00", MonedaRemitente: "USD"},
		},
		TotalRemitente: "1.500,00",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderMICPDF(t *testing.T) {
	data, err := infra.RenderMICPDF(dto.MICFields{
		Campo4Estado:           "PROVISORIO",
		Campo11Placa:           "AAEX123",
		Campo23NumeroCampo2CRT: "PY000000123",
		Campo40Tramo:           "ORIGEN:ASUNCION-ASUNCION;",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestSavePDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdfs")
	path, err := infra.SavePDF(dir, "../mic_1.pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mic_1.pdf"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(got))
}

func TestRenderXLSX(t *testing.T) {
	data, err := infra.RenderXLSX(infra.Sheet{
		Name:    "CRTs",
		Headers: []string{"Número", "Estado", "Flete"},
		Rows: [][]any{
			{"PY000000001", "EMITIDO", "1500.00"},
			{"PY000000002", "BORRADOR", ""},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("CRTs")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Número", "Estado", "Flete"}, rows[0])
	assert.Equal(t, "PY000000002", rows[2][0])
}
