package numfmt_test

import (
	"testing"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/numfmt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.NullDecimal {
	return numfmt.Of(decimal.RequireFromString(s))
}

// ── ToCanonical ───────────────────────────────────────────────────────────────

func TestToCanonical_CommaDecimal(t *testing.T) {
	v := numfmt.ToCanonical("1234,56")
	require.True(t, v.Valid)
	assert.True(t, v.Decimal.Equal(decimal.RequireFromString("1234.56")))
}

func TestToCanonical_EmptySentinel(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "-", ",", "-,"} {
		assert.False(t, numfmt.ToCanonical(raw).Valid, "raw=%q", raw)
	}
}

func TestToCanonical_ZeroIsNotEmpty(t *testing.T) {
	v := numfmt.ToCanonical("0")
	require.True(t, v.Valid)
	assert.True(t, v.Decimal.IsZero())
}

func TestToCanonical_LeadingNumericPrefix(t *testing.T) {
	assert.Equal(t, "12.5", numfmt.Canonical(numfmt.ToCanonical("12,5kg")))
	assert.Equal(t, "12", numfmt.Canonical(numfmt.ToCanonical("12,")))
	assert.Equal(t, "-3.25", numfmt.Canonical(numfmt.ToCanonical("-3,25")))
	assert.Equal(t, "0.5", numfmt.Canonical(numfmt.ToCanonical(",5")))
}

func TestToCanonical_DotInputStillParses(t *testing.T) {
	assert.Equal(t, "99.9", numfmt.Canonical(numfmt.ToCanonical("99.9")))
}

// ── ToDisplay / FormatGrouped ────────────────────────────────────────────────

func TestToDisplay_EchoWithoutRounding(t *testing.T) {
	assert.Equal(t, "1234,5678", numfmt.ToDisplay(dec("1234.5678")))
	assert.Equal(t, "0", numfmt.ToDisplay(dec("0")))
	assert.Equal(t, "", numfmt.ToDisplay(numfmt.Empty))
}

func TestFormatGrouped(t *testing.T) {
	assert.Equal(t, "1.234,50", numfmt.FormatGrouped(dec("1234.5"), 2))
	assert.Equal(t, "0,00", numfmt.FormatGrouped(dec("0"), 2))
	assert.Equal(t, "-1.234.567,891", numfmt.FormatGrouped(dec("-1234567.891"), 3))
	assert.Equal(t, "12,34568", numfmt.FormatGrouped(dec("12.345678"), 5))
	assert.Equal(t, "0,00", numfmt.FormatGrouped(dec("-0.001"), 2))
	assert.Equal(t, "92.233.720.368.547.758.070,50", numfmt.FormatGrouped(dec("92233720368547758070.5"), 2), "beyond int64")
}

func TestFormatGrouped_EmptyForEveryPrecision(t *testing.T) {
	for _, d := range []int{2, 3, 5} {
		assert.Equal(t, "", numfmt.FormatGrouped(numfmt.Empty, d))
	}
}

// ── CommitOnBlur ─────────────────────────────────────────────────────────────

func TestCommitOnBlur_FieldPrecision(t *testing.T) {
	assert.Equal(t, "1500,00", numfmt.Money.Commit("1500"))
	assert.Equal(t, "12,346", numfmt.Weight.Commit("12,3456"))
	assert.Equal(t, "3,10000", numfmt.Volume.Commit("3,1"))
	assert.Equal(t, "0,00", numfmt.Declaration.Commit("0"))
}

func TestCommitOnBlur_EmptyStaysEmpty(t *testing.T) {
	assert.Equal(t, "", numfmt.CommitOnBlur("", 2))
	assert.Equal(t, "", numfmt.CommitOnBlur("xyz", 3))
}

func TestRoundTrip_CommitThenParse(t *testing.T) {
	values := []string{"0", "1", "1234.5678", "-7.125", "0.00001", "987654.321"}
	for _, s := range values {
		v := dec(s)
		for _, d := range []int{2, 3, 5} {
			got := numfmt.ToCanonical(numfmt.CommitOnBlur(numfmt.ToDisplay(v), d))
			require.True(t, got.Valid, "value=%s digits=%d", s, d)
			assert.True(t, got.Decimal.Equal(v.Decimal.Round(int32(d))), "value=%s digits=%d got=%s", s, d, got.Decimal)
		}
	}
}

// ── Sanitize ─────────────────────────────────────────────────────────────────

func TestSanitizeKeystroke_Accepts(t *testing.T) {
	cases := map[string]string{
		"":      "",
		"-":     "-",
		"12":    "12",
		"12,":   "12,",
		"12,5":  "12,5",
		"-0,75": "-0,75",
	}
	for in, want := range cases {
		got, ok := numfmt.SanitizeKeystroke("", in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
}

func TestSanitizeKeystroke_SecondCommaRejected(t *testing.T) {
	got, ok := numfmt.SanitizeKeystroke("12,5", "12,5,")
	assert.False(t, ok)
	assert.Equal(t, "12,5", got)
}

func TestSanitizeKeystroke_PasteWithManyCommasRejected(t *testing.T) {
	got, ok := numfmt.SanitizeKeystroke("7", "1,,2,3")
	assert.False(t, ok)
	assert.Equal(t, "7", got)
}

func TestSanitizeKeystroke_InvalidCharactersRejected(t *testing.T) {
	for _, in := range []string{"12a", "1.5", "1-2", "--1", " 1"} {
		got, ok := numfmt.SanitizeKeystroke("1", in)
		assert.False(t, ok, in)
		assert.Equal(t, "1", got, in)
	}
}

func TestSanitizeKeystroke_TruncatesFraction(t *testing.T) {
	got, ok := numfmt.SanitizeKeystroke("12,34", "12,345")
	assert.True(t, ok)
	assert.Equal(t, "12,34", got)
}

func TestSanitize_WeightKeepsThreeDigits(t *testing.T) {
	got, ok := numfmt.Weight.Sanitize("1,23", "1,2345")
	assert.True(t, ok)
	assert.Equal(t, "1,234", got)
}

func TestSanitize_NeverEmitsTwoCommas(t *testing.T) {
	inputs := []string{",,", "1,2,3", ",1,", "-,,", "1,,"}
	for _, in := range inputs {
		got, _ := numfmt.SanitizeKeystroke("", in)
		assert.LessOrEqual(t, countCommas(got), 1, in)
	}
}

func countCommas(s string) int {
	n := 0
	for _, r := range s {
		if r == ',' {
			n++
		}
	}
	return n
}
