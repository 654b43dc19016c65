package infra

// pdf.go renders the CRT and MIC/DTA documents with go-pdf/fpdf. Both are
// A4 portrait grids of numbered boxes; each box carries a small caption
// and its (possibly multi-line) content.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 8.0
	captionH   = 3.2
	lineH      = 3.6
)

// GastoLinea is one rendered row of Campo 15.
type GastoLinea struct {
	Descripcion        string
	ValorRemitente     string
	MonedaRemitente    string
	ValorDestinatario  string
	MonedaDestinatario string
}

// CRTDocument is the display-ready content of a CRT. Party fields are
// multi-line blocks; amounts are already formatted.
type CRTDocument struct {
	Numero               string
	Estado               string
	Remitente            string
	Destinatario         string
	Consignatario        string
	NotificarA           string
	Transportadora       string
	LugarEmision         string
	LugarEntrega         string
	LocalResponsabilidad string
	TransporteSucesivos  string
	DetallesMercaderia   string
	PesoBruto            string
	PesoNeto             string
	Volumen              string
	Incoterm             string
	ValorIncoterm        string
	Moneda               string
	DeclaracionValor     string
	Documentos           string
	FormalidadesAduana   string
	ValorFleteExterno    string
	ValorReembolso       string
	Observaciones        string
	FechaFirma           string
	Gastos               []GastoLinea
	TotalRemitente       string
	TotalDestinatario    string
}

type docWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDoc(title string) *docWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle(title, true)
	pdf.AddPage()
	return &docWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// box draws a bordered cell with a caption and wrapped content, clipping
// content that does not fit.
func (d *docWriter) box(x, y, w, h float64, caption, content string) {
	p := d.pdf
	p.Rect(x, y, w, h, "D")
	p.SetFont("Helvetica", "", 5.5)
	p.SetXY(x+0.8, y+0.6)
	p.CellFormat(w-1.6, captionH, d.tr(caption), "", 0, "L", false, 0, "")

	p.SetFont("Helvetica", "", 7)
	maxLines := int((h - captionH - 1) / lineH)
	if maxLines < 1 {
		return
	}
	lines := p.SplitText(d.tr(content), w-2)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	for i, l := range lines {
		p.SetXY(x+1, y+captionH+0.8+float64(i)*lineH)
		p.CellFormat(w-2, lineH, l, "", 0, "L", false, 0, "")
	}
}

func (d *docWriter) header(x, y, w, h float64, title, subtitle string) {
	p := d.pdf
	p.Rect(x, y, w, h, "D")
	p.SetFont("Helvetica", "B", 11)
	p.SetXY(x, y+2)
	p.CellFormat(w, 5, d.tr(title), "", 0, "C", false, 0, "")
	p.SetFont("Helvetica", "", 7)
	p.SetXY(x, y+8)
	p.MultiCell(w, 3.2, d.tr(subtitle), "", "C", false)
}

func (d *docWriter) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderCRTPDF renders a CRT in the Carta de Porte Internacional layout.
func RenderCRTPDF(doc CRTDocument) ([]byte, error) {
	d := newDoc("CRT " + doc.Numero)
	pageW, _ := d.pdf.GetPageSize()
	W := pageW - 2*pageMargin
	half := W / 2
	x0, x1 := pageMargin, pageMargin+half
	y := pageMargin

	// ── Header ───────────────────────────────────────────────────────────────
	d.box(x0, y, half, 24, "1 Nombre y domicilio del remitente", doc.Remitente)
	d.header(x1, y, half, 12, "CARTA DE PORTE INTERNACIONAL",
		"POR CARRETERA\nConhecimento de Transporte Internacional por Rodovia")
	d.box(x1, y+12, half, 12, "2 Número", doc.Numero)
	y += 24

	// ── Parties ──────────────────────────────────────────────────────────────
	d.box(x0, y, half, 22, "4 Nombre y domicilio del destinatario", doc.Destinatario)
	d.box(x1, y, half, 22, "3 Nombre y domicilio del porteador", doc.Transportadora)
	y += 22
	d.box(x0, y, half, 22, "6 Nombre y domicilio del consignatario", doc.Consignatario)
	d.box(x1, y, half, 11, "5 Lugar y país de emisión", doc.LugarEmision)
	d.box(x1, y+11, half, 11, "7 Lugar, país y fecha en que el porteador se hace cargo", doc.LocalResponsabilidad)
	y += 22
	d.box(x0, y, half, 16, "9 Notificar a", doc.NotificarA)
	d.box(x1, y, half, 8, "8 Lugar, país y plazo de entrega", doc.LugarEntrega)
	d.box(x1, y+8, half, 8, "10 Porteadores sucesivos", doc.TransporteSucesivos)
	y += 16

	// ── Goods ────────────────────────────────────────────────────────────────
	d.box(x0, y, W*0.64, 40, "11 Cantidad y clase de bultos, marcas y números, tipo de mercancías", doc.DetallesMercaderia)
	colW := W - W*0.64
	d.box(x0+W*0.64, y, colW, 10, "12 Peso bruto en kg.", doc.PesoBruto)
	d.box(x0+W*0.64, y+10, colW, 10, "Peso neto en kg.", doc.PesoNeto)
	d.box(x0+W*0.64, y+20, colW, 10, "13 Volumen en m³", doc.Volumen)
	d.box(x0+W*0.64, y+30, colW, 10, "14 Valor / Incoterm / Moneda",
		strings.TrimSpace(doc.ValorIncoterm+" "+doc.Incoterm+" "+doc.Moneda))
	y += 40

	// ── Campo 15 ─────────────────────────────────────────────────────────────
	y = d.gastosTable(x0, y, half, doc)
	d.box(x1, y-36, half, 12, "16 Declaración del valor de las mercancías", doc.DeclaracionValor)
	d.box(x1, y-24, half, 12, "17 Documentos anexos", doc.Documentos)
	d.box(x1, y-12, half, 12, "18 Instrucciones sobre formalidades de aduana", doc.FormalidadesAduana)

	d.box(x0, y, half/2, 10, "Valor flete externo", doc.ValorFleteExterno)
	d.box(x0+half/2, y, half/2, 10, "Monto reembolso contra entrega", doc.ValorReembolso)
	d.box(x1, y, half, 10, "22 Declaraciones y observaciones", doc.Observaciones)
	y += 10

	// ── Signatures ───────────────────────────────────────────────────────────
	d.box(x0, y, half, 20, "21 Nombre y firma del remitente", "")
	d.box(x1, y, half, 20, "23 Nombre, firma y sello del porteador", "Fecha: "+doc.FechaFirma)
	y += 20
	d.box(x0, y, W, 14, "24 Nombre y firma del destinatario", "")

	if doc.Estado != "" {
		d.pdf.SetFont("Helvetica", "I", 6)
		d.pdf.SetXY(x0, y+15)
		d.pdf.CellFormat(W, 3, d.tr("Estado: "+doc.Estado), "", 0, "R", false, 0, "")
	}
	return d.bytes()
}

// gastosTable draws Campo 15 and returns the y below it.
func (d *docWriter) gastosTable(x, y, w float64, doc CRTDocument) float64 {
	p := d.pdf
	const rowH = 4.0
	h := 36.0
	p.Rect(x, y, w, h, "D")
	p.SetFont("Helvetica", "", 5.5)
	p.SetXY(x+0.8, y+0.6)
	p.CellFormat(w, captionH, d.tr("15 Costo a pagar"), "", 0, "L", false, 0, "")

	cols := []float64{w * 0.40, w * 0.20, w * 0.10, w * 0.20, w * 0.10}
	heads := []string{"Gasto", "Remitente", "Moneda", "Destinatario", "Moneda"}
	cy := y + captionH + 1
	p.SetFont("Helvetica", "B", 6)
	p.SetXY(x, cy)
	for i, hd := range heads {
		p.CellFormat(cols[i], rowH, d.tr(hd), "B", 0, "C", false, 0, "")
	}
	cy += rowH

	p.SetFont("Helvetica", "", 6.5)
	maxRows := int((h-captionH-1)/rowH) - 2
	for i, g := range doc.Gastos {
		if i >= maxRows {
			break
		}
		p.SetXY(x, cy)
		p.CellFormat(cols[0], rowH, d.tr(g.Descripcion), "", 0, "L", false, 0, "")
		p.CellFormat(cols[1], rowH, g.ValorRemitente, "", 0, "R", false, 0, "")
		p.CellFormat(cols[2], rowH, g.MonedaRemitente, "", 0, "C", false, 0, "")
		p.CellFormat(cols[3], rowH, g.ValorDestinatario, "", 0, "R", false, 0, "")
		p.CellFormat(cols[4], rowH, g.MonedaDestinatario, "", 0, "C", false, 0, "")
		cy += rowH
	}

	p.SetFont("Helvetica", "B", 6.5)
	p.SetXY(x, y+h-rowH)
	p.CellFormat(cols[0], rowH, "TOTAL", "T", 0, "L", false, 0, "")
	p.CellFormat(cols[1], rowH, doc.TotalRemitente, "T", 0, "R", false, 0, "")
	p.CellFormat(cols[2], rowH, "", "T", 0, "C", false, 0, "")
	p.CellFormat(cols[3], rowH, doc.TotalDestinatario, "T", 0, "R", false, 0, "")
	p.CellFormat(cols[4], rowH, "", "T", 0, "C", false, 0, "")
	return y + h
}

// RenderMICPDF renders the MIC/DTA manifest from its numbered fields.
func RenderMICPDF(f dto.MICFields) ([]byte, error) {
	d := newDoc("MIC/DTA " + f.Campo23NumeroCampo2CRT)
	pageW, _ := d.pdf.GetPageSize()
	W := pageW - 2*pageMargin
	half := W / 2
	x0, x1 := pageMargin, pageMargin+half
	q := half / 2
	y := pageMargin

	// ── Header ───────────────────────────────────────────────────────────────
	d.header(x0, y, half, 14, "MIC/DTA",
		"Manifiesto Internacional de Carga por Carretera /\nDeclaración de Tránsito Aduanero")
	d.box(x1, y, q, 7, "3 Tránsito aduanero", f.Campo3Transporte)
	d.box(x1+q, y, q, 7, "4 Nº", f.Campo4Estado)
	d.box(x1, y+7, q, 7, "5 Hoja / Folha", f.Campo5Hoja)
	d.box(x1+q, y+7, q, 7, "6 Fecha de emisión", f.Campo6Fecha)
	y += 14

	// ── Transport ────────────────────────────────────────────────────────────
	d.box(x0, y, half, 28, "1 Nombre y domicilio del porteador", f.Campo1Transporte)
	d.box(x1, y, half, 10, "7 Aduana, ciudad y país de partida", f.Campo7PtoSeguro)
	d.box(x1, y+10, half, 18, "8 Ciudad y país de destino final", f.Campo8Destino)
	y += 28
	d.box(x0, y, half, 8, "2 Rol de contribuyente", f.Campo2Numero)
	d.box(x1, y, half, 8, "", "")
	y += 8
	d.box(x0, y, half, 26, "9 CAMIÓN ORIGINAL: nombre y domicilio del propietario", f.Campo9DatosTransporte)
	d.box(x1, y, half, 26, "16 CAMIÓN SUSTITUTO: nombre y domicilio del propietario", f.Campo16Asteriscos1)
	y += 26

	sixth := half / 3
	d.box(x0, y, half, 8, "10 Rol de contribuyente", f.Campo10Numero)
	d.box(x1, y, half, 8, "17 Rol de contribuyente", f.Campo17Asteriscos2)
	y += 8
	d.box(x0, y, sixth, 8, "11 Placa de camión", f.Campo11Placa)
	d.box(x0+sixth, y, sixth, 8, "12 Marca y número", f.Campo12ModeloChasis)
	d.box(x0+2*sixth, y, sixth, 8, "13 Capacidad de arrastre", f.Campo13Siempre45)
	d.box(x1, y, sixth, 8, "18 Placa de camión", f.Campo18Asteriscos3)
	d.box(x1+sixth, y, sixth, 8, "19 Marca y número", f.Campo19Asteriscos4)
	d.box(x1+2*sixth, y, sixth, 8, "20 Capacidad de arrastre", f.Campo20Asteriscos5)
	y += 8
	d.box(x0, y, q, 8, "14 Año", f.Campo14Anio)
	d.box(x0+q, y, q, 8, "15 Placa remolque / semi", f.Campo15PlacaSemi)
	d.box(x1, y, q, 8, "21 Año", f.Campo21Asteriscos6)
	d.box(x1+q, y, q, 8, "22 Placa remolque / semi", f.Campo22Asteriscos7)
	y += 8

	// ── Cargo ────────────────────────────────────────────────────────────────
	d.box(x0, y, q, 9, "23 Nº carta de porte", f.Campo23NumeroCampo2CRT)
	d.box(x0+q, y, q, 9, "24 Aduana de destino", f.Campo24Aduana)
	d.box(x1, y, q, 9, "25 Moneda", f.Campo25Moneda)
	d.box(x1+q, y, q, 9, "26 Origen de las mercancías", f.Campo26Pais)
	y += 9
	d.box(x0, y, q, 9, "27 Valor FOT", f.Campo27ValorCampo16)
	d.box(x0+q, y, q, 9, "28 Flete en U$S", f.Campo28Total)
	d.box(x1, y, q, 9, "29 Seguro en U$S", f.Campo29Seguro)
	d.box(x1+q, y, q, 9, "30 Tipo de bultos", f.Campo30TipoBultos)
	y += 9
	d.box(x0, y, q, 9, "31 Cantidad de bultos", f.Campo31Cantidad)
	d.box(x0+q, y, q, 9, "32 Peso bruto", f.Campo32PesoBruto)
	d.box(x1, y, half, 9, "37 Número de precintos", f.Campo37ValorManual)
	y += 9
	d.box(x0, y, half, 24, "33 Remitente", f.Campo33DatosCampo1CRT)
	d.box(x1, y, half, 24, "34 Destinatario", f.Campo34DatosCampo4CRT)
	y += 24
	d.box(x0, y, half, 22, "35 Consignatario", f.Campo35DatosCampo6CRT)
	d.box(x1, y, half, 22, "36 Documentos anexos", f.Campo36FacturaDespacho)
	y += 22
	d.box(x0, y, W, 30, "38 Marcas y números de los bultos, descripción de las mercancías", f.Campo38DatosCampo11CRT)
	y += 30

	// ── Signatures ───────────────────────────────────────────────────────────
	d.box(x0, y, half, 20, "39 Firma y sello del porteador", strings.TrimSpace(f.Chofer+"\n"+f.Campo39))
	d.box(x1, y, half, 20, "40 Nº DTA, ruta y plazo de transporte", f.Campo40Tramo)
	return d.bytes()
}

// SavePDF archives a rendered document under storagePath and returns its path.
func SavePDF(storagePath, fileName string, data []byte) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, filepath.Base(fileName))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
