// Package micprefill builds MIC/DTA drafts from an issued CRT.
package micprefill

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/numfmt"
)

// Form defaults.
const (
	DefaultEstado     = "PROVISORIO"
	DefaultHoja       = "1 / 1"
	DefaultCapacidad  = "45 TON"
	DefaultAduana     = "BRASIL - MULTILOG - FOZ DO IGUAZU 508 - 030"
	DefaultPais       = "520-PARAGUAY"
	DefaultTransporte = "NO"
	DefaultMoneda     = "USD"
	Asteriscos        = "******"

	PlaceholderPlaca      = "ABC-1234"
	PlaceholderTipoBultos = "CAJAS"
	PlaceholderCantidad   = "1"
)

// ErrPlacaRequerida blocks submission of a MIC without a truck plate.
var ErrPlacaRequerida = errors.New(`El campo "Placa de camión" es obligatorio`)

// Draft is the MIC form state.
type Draft struct {
	dto.MICFields
	// Porteador is the carrier identifier picked in the form. It only feeds
	// the campo 9 lookup and is never submitted.
	Porteador string `json:"campo_1_porteador"`
}

// NewDraft returns a blank form with its fixed defaults.
func NewDraft(today time.Time) Draft {
	var d Draft
	d.Campo4Estado = DefaultEstado
	d.Campo5Hoja = DefaultHoja
	d.Campo6Fecha = today.Format("2006-01-02")
	d.Campo13Siempre45 = DefaultCapacidad
	d.Campo24Aduana = DefaultAduana
	d.Campo26Pais = DefaultPais
	d.Campo16Asteriscos1 = Asteriscos
	d.Campo17Asteriscos2 = Asteriscos
	d.Campo18Asteriscos3 = Asteriscos
	d.Campo19Asteriscos4 = Asteriscos
	d.Campo20Asteriscos5 = Asteriscos
	d.Campo21Asteriscos6 = Asteriscos
	d.Campo22Asteriscos7 = Asteriscos
	return d
}

// NormalizeFields stringifies every value of a loosely typed payload.
// null becomes "", never the literal "null".
func NormalizeFields(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = stringify(v)
	}
	return out
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// Fields flattens the draft into campo name → value.
func (d Draft) Fields() map[string]string {
	b, _ := json.Marshal(d)
	out := map[string]string{}
	_ = json.Unmarshal(b, &out)
	return out
}

// Merge overlays known campo values onto the draft. Unknown keys are ignored.
func (d Draft) Merge(values map[string]string) Draft {
	cur := d.Fields()
	for k, v := range values {
		if _, ok := cur[k]; ok {
			cur[k] = v
		}
	}
	b, _ := json.Marshal(cur)
	var out Draft
	_ = json.Unmarshal(b, &out)
	return out
}

// Set assigns one campo by name.
func (d *Draft) Set(name, value string) error {
	if _, ok := d.Fields()[name]; !ok {
		return fmt.Errorf("micprefill: unknown field %q", name)
	}
	*d = d.Merge(map[string]string{name: value})
	return nil
}

// Validate runs the blocking checks that precede submission.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Campo11Placa) == "" {
		return ErrPlacaRequerida
	}
	return nil
}

// Payload builds the submission. crtNumero, when non-empty, becomes
// campo 23; dates go from YYYY-MM-DD to DD/MM/YYYY.
func (d Draft) Payload(crtNumero string) dto.MICFields {
	f := d.MICFields
	f.Campo3Transporte = orDefault(f.Campo3Transporte, DefaultTransporte)
	f.Campo4Estado = orDefault(f.Campo4Estado, DefaultEstado)
	f.Campo5Hoja = orDefault(f.Campo5Hoja, DefaultHoja)
	f.Campo13Siempre45 = orDefault(f.Campo13Siempre45, DefaultCapacidad)
	f.Campo25Moneda = orDefault(f.Campo25Moneda, DefaultMoneda)
	f.Campo26Pais = orDefault(f.Campo26Pais, DefaultPais)
	f.Campo6Fecha = toDMY(d.Campo6Fecha)
	f.Campo39 = f.Campo6Fecha
	if crtNumero != "" {
		f.Campo23NumeroCampo2CRT = crtNumero
	}
	return f
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// toDMY reverses the dash-separated parts of an ISO date into D/M/Y.
func toDMY(iso string) string {
	if iso == "" {
		return ""
	}
	parts := strings.Split(iso, "-")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Reset rebuilds the form from a CRT, using placeholders where the CRT has
// no data. Money fields are shown with two decimals and a comma.
func Reset(crt dto.CRTResponse, today time.Time) Draft {
	d := NewDraft(today)
	d.Porteador = crt.TransportadoraID
	d.Campo2Numero = crt.TransportadoraRolContribuyente
	d.Campo3Transporte = crt.TransporteSucesivos
	d.Campo7PtoSeguro = crt.CiudadEmision
	d.Campo8Destino = crt.LugarEntrega
	d.Campo9DatosTransporte = crt.Transportadora
	d.Campo10Numero = crt.TransportadoraRolContribuyente
	d.Campo11Placa = PlaceholderPlaca
	d.Campo14Anio = strconv.Itoa(today.Year())
	d.Campo25Moneda = crt.Moneda
	d.Campo27ValorCampo16 = crt.DeclaracionMercaderia
	d.Campo28Total = moneyOrEmpty(crt.TotalFlete)
	d.Campo29Seguro = moneyOrEmpty(crt.Seguro)
	d.Campo30TipoBultos = PlaceholderTipoBultos
	d.Campo31Cantidad = PlaceholderCantidad
	d.Campo32PesoBruto = crt.PesoBruto
	d.Campo36FacturaDespacho = facturaDespacho(crt)
	d.Campo40Tramo = truncateRunes(crt.DetallesMercaderia, 50)
	return d
}

// moneyOrEmpty leaves missing and zero amounts blank.
func moneyOrEmpty(canonical string) string {
	v := numfmt.ToCanonical(canonical)
	if !v.Valid || v.Decimal.IsZero() {
		return ""
	}
	return numfmt.Money.Grouped(v)
}

func facturaDespacho(crt dto.CRTResponse) string {
	return strings.TrimSpace(crt.FacturaExportacion + " " + crt.NroDespacho)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
