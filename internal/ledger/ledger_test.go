package ledger_test

import (
	"encoding/json"
	"testing"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/ledger"
	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/numfmt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hintRecorder struct{ msgs []string }

func (h *hintRecorder) Hint(msg string) { h.msgs = append(h.msgs, msg) }

func amount(s string) decimal.NullDecimal { return numfmt.ToCanonical(s) }

func TestDefaultCurrency(t *testing.T) {
	assert.Equal(t, "USD", ledger.DefaultCurrency([]string{"PYG", "BRL", "USD"}))
	assert.Equal(t, "usd-billete", ledger.DefaultCurrency([]string{"PYG", "usd-billete"}))
	assert.Equal(t, "PYG", ledger.DefaultCurrency([]string{"PYG", "BRL"}))
	assert.Equal(t, "", ledger.DefaultCurrency(nil))
}

func TestAdd_FirstItemEmitsHint(t *testing.T) {
	h := &hintRecorder{}
	list := ledger.Add(nil, []string{"PYG", "USD"}, h)

	require.Len(t, list, 1)
	assert.Equal(t, "USD", list[0].PayerCurrency)
	assert.Equal(t, "USD", list[0].ConsigneeCurrency)
	assert.False(t, list[0].PayerAmount.Valid)
	assert.Equal(t, []string{ledger.FirstItemHint}, h.msgs)

	list = ledger.Add(list, []string{"USD"}, h)
	assert.Len(t, list, 2)
	assert.Len(t, h.msgs, 1, "hint only on the first line")
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	orig := []ledger.ChargeLineItem{{Description: "a"}}
	_ = ledger.Add(orig, nil, nil)
	assert.Len(t, orig, 1)
}

func TestRemove(t *testing.T) {
	list := []ledger.ChargeLineItem{{Description: "a"}, {Description: "b"}, {Description: "c"}}
	out := ledger.Remove(list, 1)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Description)
	assert.Equal(t, "c", out[1].Description)
	assert.Len(t, list, 3)

	assert.Len(t, ledger.Remove(list, 9), 3)
	assert.Len(t, ledger.Remove(list, -1), 3)
}

func TestUpdate_ParsesAmounts(t *testing.T) {
	list := ledger.Add(nil, []string{"USD"}, nil)
	list = ledger.Update(list, 0, ledger.FieldPayerAmount, "1.500,5")
	list = ledger.Update(list, 0, ledger.FieldDescription, "Flete Asunción - Foz")
	list = ledger.Update(list, 0, ledger.FieldConsigneeCurrency, "BRL")

	assert.Equal(t, "1.5", numfmt.Canonical(list[0].PayerAmount))
	assert.Equal(t, "Flete Asunción - Foz", list[0].Description)
	assert.Equal(t, "BRL", list[0].ConsigneeCurrency)

	list = ledger.Update(list, 0, ledger.FieldPayerAmount, "abc")
	assert.False(t, list[0].PayerAmount.Valid)
}

func TestUpdate_OutOfRangeIsNoop(t *testing.T) {
	list := []ledger.ChargeLineItem{{Description: "a"}}
	out := ledger.Update(list, 3, ledger.FieldDescription, "x")
	assert.Equal(t, list, out)
}

func TestTotals_IgnoreEmptySentinel(t *testing.T) {
	list := []ledger.ChargeLineItem{
		{PayerAmount: numfmt.Empty, ConsigneeAmount: amount("10")},
		{PayerAmount: amount("5"), ConsigneeAmount: numfmt.Empty},
	}
	tot := ledger.Totals(list)
	assert.True(t, tot.Payer.Equal(decimal.NewFromInt(5)))
	assert.True(t, tot.Consignee.Equal(decimal.NewFromInt(10)))
}

func TestDeriveExternalFreight(t *testing.T) {
	got := ledger.DeriveExternalFreight([]ledger.ChargeLineItem{
		{PayerAmount: amount("100"), ConsigneeAmount: numfmt.Empty},
		{PayerAmount: amount("7")},
	})
	assert.Equal(t, "100", numfmt.Canonical(got))

	got = ledger.DeriveExternalFreight([]ledger.ChargeLineItem{{PayerAmount: numfmt.Empty, ConsigneeAmount: amount("50")}})
	assert.Equal(t, "50", numfmt.Canonical(got))

	got = ledger.DeriveExternalFreight([]ledger.ChargeLineItem{{PayerAmount: amount("0"), ConsigneeAmount: amount("30")}})
	assert.Equal(t, "30", numfmt.Canonical(got), "zero payer falls back to consignee")

	assert.False(t, ledger.DeriveExternalFreight(nil).Valid)
	assert.False(t, ledger.DeriveExternalFreight([]ledger.ChargeLineItem{{}}).Valid)
}

func TestParseField(t *testing.T) {
	f, err := ledger.ParseField("valor_destinatario")
	require.NoError(t, err)
	assert.Equal(t, ledger.FieldConsigneeAmount, f)
	assert.True(t, f.IsAmount())

	_, err = ledger.ParseField("otro")
	assert.Error(t, err)
}

func TestEncode_CanonicalStrings(t *testing.T) {
	list := []ledger.ChargeLineItem{{
		Description:   "Flete",
		PayerAmount:   amount("1250,75"),
		PayerCurrency: "USD",
	}}
	s, err := ledger.Encode(list)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "1250.75", raw[0]["valor_remitente"])
	assert.Equal(t, "", raw[0]["valor_destinatario"])
	assert.Equal(t, "Flete", raw[0]["descripcion_gasto"])

	empty, err := ledger.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}

func TestDecode_AcceptsNumbersAndNull(t *testing.T) {
	list, err := ledger.Decode(`[{"tramo":"Seguro","valor_remitente":12.5,"valor_destinatario":null,"moneda_remitente":"USD"}]`)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Seguro", list[0].Description)
	assert.Equal(t, "12.5", numfmt.Canonical(list[0].PayerAmount))
	assert.False(t, list[0].ConsigneeAmount.Valid)

	list, err = ledger.Decode("")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = ledger.Decode("{")
	assert.Error(t, err)
}
