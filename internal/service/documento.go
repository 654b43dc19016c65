package service

import (
	"fmt"
	"strings"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/model"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/numfmt"

	"github.com/shopspring/decimal"
)

// ── Party blocks ─────────────────────────────────────────────────────────────

// bloqueEntidad renders a party the way the paper forms print it: name,
// address lines, "CITY - COUNTRY", document and phone.
func bloqueEntidad(nombre, direccion string, ciudad *model.Ciudad, tipoDoc, numDoc, telefono string) string {
	var lines []string
	if n := strings.TrimSpace(nombre); n != "" {
		lines = append(lines, n)
	}
	for _, l := range strings.Split(direccion, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if ciudad != nil {
		loc := strings.ToUpper(ciudad.Nombre)
		if ciudad.Pais != nil {
			loc += " - " + strings.ToUpper(ciudad.Pais.Nombre)
		}
		lines = append(lines, loc)
	}
	switch tipo, num := strings.TrimSpace(tipoDoc), strings.TrimSpace(numDoc); {
	case tipo != "" && num != "":
		lines = append(lines, tipo+":"+num)
	case num != "":
		lines = append(lines, "DOC:"+num)
	}
	if tel := strings.TrimSpace(telefono); tel != "" {
		lines = append(lines, "Tel: "+tel)
	}
	return strings.Join(lines, "\n")
}

func bloqueRemitente(r *model.Remitente) string {
	if r == nil {
		return ""
	}
	return bloqueEntidad(r.Nombre, r.Direccion, r.Ciudad, r.TipoDocumento, r.NumeroDocumento, "")
}

func bloqueTransportadora(t *model.Transportadora) string {
	if t == nil {
		return ""
	}
	return bloqueEntidad(t.Nombre, t.Direccion, t.Ciudad, t.TipoDocumento, t.NumeroDocumento, t.Telefono)
}

// ── Gastos ───────────────────────────────────────────────────────────────────

// splitGastos sums the gastos into freight and insurance. Each line counts
// its payer amount, or the consignee amount when the payer side is empty or
// zero; lines whose description mentions "seguro" are insurance.
func splitGastos(gastos []model.CRTGasto) (flete, seguro decimal.Decimal) {
	for _, g := range gastos {
		v := g.ValorRemitente
		if !v.Valid || v.Decimal.IsZero() {
			v = g.ValorDestinatario
		}
		if !v.Valid {
			continue
		}
		if strings.Contains(strings.ToLower(g.Tramo), "seguro") {
			seguro = seguro.Add(v.Decimal)
		} else {
			flete = flete.Add(v.Decimal)
		}
	}
	return flete, seguro
}

// montoMIC formats a MIC amount; zero prints as blank.
func montoMIC(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return numfmt.Money.Grouped(numfmt.Of(d))
}

func facturaDespacho(factura, despacho string) string {
	if factura == "" && despacho == "" {
		return ""
	}
	return fmt.Sprintf("Factura: %s | Despacho: %s", factura, despacho)
}

func truncar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
