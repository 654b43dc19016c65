// Package ledger maintains the Campo 15 freight-charge lines of a CRT.
//
// Every operation is pure: it returns a new slice and never mutates the
// one it was given.
package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/numfmt"

	"github.com/shopspring/decimal"
)

// FirstItemHint is shown when the ledger gets its first line.
const FirstItemHint = "Primer tramo se autocopia a Flete Ext."

// ChargeLineItem is one gasto row.
type ChargeLineItem struct {
	Description       string
	PayerAmount       decimal.NullDecimal
	PayerCurrency     string
	ConsigneeAmount   decimal.NullDecimal
	ConsigneeCurrency string
}

// Field identifies an editable column of a line.
type Field int

const (
	FieldDescription Field = iota
	FieldPayerAmount
	FieldPayerCurrency
	FieldConsigneeAmount
	FieldConsigneeCurrency
)

var fieldNames = map[string]Field{
	"descripcion_gasto":   FieldDescription,
	"valor_remitente":     FieldPayerAmount,
	"moneda_remitente":    FieldPayerCurrency,
	"valor_destinatario":  FieldConsigneeAmount,
	"moneda_destinatario": FieldConsigneeCurrency,
}

// ParseField maps a wire column name to a Field.
func ParseField(name string) (Field, error) {
	f, ok := fieldNames[name]
	if !ok {
		return 0, fmt.Errorf("ledger: unknown field %q", name)
	}
	return f, nil
}

// IsAmount reports whether the field holds a number.
func (f Field) IsAmount() bool {
	return f == FieldPayerAmount || f == FieldConsigneeAmount
}

// Hinter receives informational, non-blocking messages.
type Hinter interface {
	Hint(msg string)
}

// HintFunc adapts a function to Hinter.
type HintFunc func(msg string)

func (f HintFunc) Hint(msg string) { f(msg) }

// DefaultCurrency picks the first code containing "USD" (case-insensitive),
// else the first available code, else "".
func DefaultCurrency(codes []string) string {
	for _, c := range codes {
		if strings.Contains(strings.ToUpper(c), "USD") {
			return c
		}
	}
	if len(codes) > 0 {
		return codes[0]
	}
	return ""
}

func clone(list []ChargeLineItem) []ChargeLineItem {
	out := make([]ChargeLineItem, len(list))
	copy(out, list)
	return out
}

// Add appends an empty line using the default currency on both sides.
func Add(list []ChargeLineItem, currencies []string, h Hinter) []ChargeLineItem {
	cur := DefaultCurrency(currencies)
	out := append(clone(list), ChargeLineItem{PayerCurrency: cur, ConsigneeCurrency: cur})
	if len(out) == 1 && h != nil {
		h.Hint(FirstItemHint)
	}
	return out
}

// Remove drops the line at index. Out-of-range indexes are ignored.
func Remove(list []ChargeLineItem, index int) []ChargeLineItem {
	if index < 0 || index >= len(list) {
		return clone(list)
	}
	out := make([]ChargeLineItem, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...)
}

// Update sets one column of the line at index. Amounts are parsed from the
// edit buffer; text columns are stored verbatim.
func Update(list []ChargeLineItem, index int, field Field, raw string) []ChargeLineItem {
	out := clone(list)
	if index < 0 || index >= len(out) {
		return out
	}
	it := &out[index]
	switch field {
	case FieldDescription:
		it.Description = raw
	case FieldPayerAmount:
		it.PayerAmount = numfmt.ToCanonical(raw)
	case FieldPayerCurrency:
		it.PayerCurrency = raw
	case FieldConsigneeAmount:
		it.ConsigneeAmount = numfmt.ToCanonical(raw)
	case FieldConsigneeCurrency:
		it.ConsigneeCurrency = raw
	}
	return out
}

// Total holds the per-side sums of a ledger.
type Total struct {
	Payer     decimal.Decimal
	Consignee decimal.Decimal
}

// Totals adds every amount; empty amounts count as zero here and only here.
func Totals(list []ChargeLineItem) Total {
	t := Total{Payer: decimal.Zero, Consignee: decimal.Zero}
	for _, it := range list {
		if it.PayerAmount.Valid {
			t.Payer = t.Payer.Add(it.PayerAmount.Decimal)
		}
		if it.ConsigneeAmount.Valid {
			t.Consignee = t.Consignee.Add(it.ConsigneeAmount.Decimal)
		}
	}
	return t
}

// DeriveExternalFreight returns the value bound to valor_flete_externo:
// the first line's payer amount when positive, else its consignee amount,
// else empty.
func DeriveExternalFreight(list []ChargeLineItem) decimal.NullDecimal {
	if len(list) == 0 {
		return numfmt.Empty
	}
	first := list[0]
	if first.PayerAmount.Valid && first.PayerAmount.Decimal.IsPositive() {
		return first.PayerAmount
	}
	if first.ConsigneeAmount.Valid {
		return first.ConsigneeAmount
	}
	return numfmt.Empty
}

// ── Wire form ────────────────────────────────────────────────────────────────

// MarshalJSON emits amounts as canonical decimal strings, "" when empty.
func (it ChargeLineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		DescripcionGasto   string `json:"descripcion_gasto"`
		ValorRemitente     string `json:"valor_remitente"`
		MonedaRemitente    string `json:"moneda_remitente"`
		ValorDestinatario  string `json:"valor_destinatario"`
		MonedaDestinatario string `json:"moneda_destinatario"`
	}{
		DescripcionGasto:   it.Description,
		ValorRemitente:     numfmt.Canonical(it.PayerAmount),
		MonedaRemitente:    it.PayerCurrency,
		ValorDestinatario:  numfmt.Canonical(it.ConsigneeAmount),
		MonedaDestinatario: it.ConsigneeCurrency,
	})
}

// UnmarshalJSON accepts amounts as strings, numbers or null.
func (it *ChargeLineItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	str := func(k string) string {
		switch v := raw[k].(type) {
		case string:
			return v
		case float64:
			return decimal.NewFromFloat(v).String()
		default:
			return ""
		}
	}
	desc := str("descripcion_gasto")
	if desc == "" {
		desc = str("tramo")
	}
	*it = ChargeLineItem{
		Description:       desc,
		PayerAmount:       numfmt.ToCanonical(str("valor_remitente")),
		PayerCurrency:     str("moneda_remitente"),
		ConsigneeAmount:   numfmt.ToCanonical(str("valor_destinatario")),
		ConsigneeCurrency: str("moneda_destinatario"),
	}
	return nil
}

// Encode serializes the ledger as the JSON string the CRT update expects.
func Encode(list []ChargeLineItem) (string, error) {
	if list == nil {
		list = []ChargeLineItem{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a ledger encoded by Encode. An empty string is an empty ledger.
func Decode(s string) ([]ChargeLineItem, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var list []ChargeLineItem
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, fmt.Errorf("ledger: decode: %w", err)
	}
	return list, nil
}
