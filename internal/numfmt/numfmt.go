// Package numfmt converts numeric form values between their three shapes:
// the canonical decimal (dot separator), the raw edit buffer typed by an
// operator (comma separator) and the committed display string.
//
// The canonical form is decimal.NullDecimal; Valid=false is the empty value
// and is never collapsed into zero.
package numfmt

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Field describes the fraction-digit policy of a numeric input.
type Field struct {
	Name   string
	Digits int
}

var (
	Money       = Field{Name: "money", Digits: 2}
	Declaration = Field{Name: "declaration", Digits: 2}
	Weight      = Field{Name: "weight", Digits: 3}
	Volume      = Field{Name: "volume", Digits: 5}
)

// Empty is the "no value" sentinel.
var Empty = decimal.NullDecimal{}

var (
	floatPrefix  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	naturalComma = regexp.MustCompile(`^-?[\d,]*$`)
)

// ToCanonical parses an edit buffer. The first comma becomes the decimal
// point and the longest numeric prefix is read, so "12,5kg" yields 12.5.
// Empty or unparseable input yields Empty, never zero.
func ToCanonical(raw string) decimal.NullDecimal {
	s := strings.TrimSpace(strings.Replace(raw, ",", ".", 1))
	if s == "" {
		return Empty
	}
	m := floatPrefix.FindString(s)
	if m == "" {
		return Empty
	}
	// "12." and "12.e3" are valid prefixes but not valid decimal literals.
	m = strings.NewReplacer(".e", "e", ".E", "E").Replace(strings.TrimSuffix(m, "."))
	d, err := decimal.NewFromString(m)
	if err != nil {
		return Empty
	}
	return decimal.NewNullDecimal(d)
}

// Of wraps a known value.
func Of(d decimal.Decimal) decimal.NullDecimal { return decimal.NewNullDecimal(d) }

// Canonical renders the wire form: dot separator, no grouping, "" when empty.
func Canonical(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

// ToDisplay echoes a canonical value back into an edit buffer by swapping
// the separator. No rounding is applied.
func ToDisplay(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return strings.Replace(v.Decimal.String(), ".", ",", 1)
}

// FormatGrouped renders a committed, read-only value with "." thousands
// grouping and exactly digits fraction digits after a ",".
func FormatGrouped(v decimal.NullDecimal, digits int) string {
	if !v.Valid {
		return ""
	}
	fixed := v.Decimal.Abs().StringFixed(int32(digits))
	intPart, frac, _ := strings.Cut(fixed, ".")
	grouped := intPart
	if n, ok := new(big.Int).SetString(intPart, 10); ok {
		grouped = strings.ReplaceAll(humanize.BigComma(n), ",", ".")
	}
	out := grouped
	if digits > 0 {
		out += "," + frac
	}
	if v.Decimal.Round(int32(digits)).IsNegative() {
		out = "-" + out
	}
	return out
}

// CommitOnBlur normalizes an edit buffer to exactly digits fraction digits
// with a comma separator and no grouping. Empty stays empty.
func CommitOnBlur(raw string, digits int) string {
	v := ToCanonical(raw)
	if !v.Valid {
		return ""
	}
	return strings.Replace(v.Decimal.StringFixed(int32(digits)), ".", ",", 1)
}

// SanitizeKeystroke applies the per-keystroke policy of a two-digit field.
// It returns the accepted buffer, or before and false when the keystroke
// must be ignored.
func SanitizeKeystroke(before, after string) (string, bool) {
	return Money.Sanitize(before, after)
}

// Sanitize accepts an optional leading minus, digits and at most one comma.
// A second comma or any other character rejects the whole keystroke (or
// paste). Fraction digits beyond the field's precision are truncated.
func (f Field) Sanitize(before, after string) (string, bool) {
	if !naturalComma.MatchString(after) {
		return before, false
	}
	if strings.Count(after, ",") > 1 {
		return before, false
	}
	if intPart, frac, ok := strings.Cut(after, ","); ok && len(frac) > f.Digits {
		return intPart + "," + frac[:f.Digits], true
	}
	return after, true
}

// Commit is CommitOnBlur with the field's precision.
func (f Field) Commit(raw string) string { return CommitOnBlur(raw, f.Digits) }

// Grouped is FormatGrouped with the field's precision.
func (f Field) Grouped(v decimal.NullDecimal) string { return FormatGrouped(v, f.Digits) }
