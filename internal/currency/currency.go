// Package currency converts and formats amounts of money.
//
// Amounts are decimals in major units. Formatting relies on the currency
// table of go-money for graphemes, while separators and layout come from a
// Locale so that every currency reads the same way on screen.
package currency

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	ARS = "ARS"
	USD = "USD"
)

// Locale holds the conventions used to render amounts.
type Locale struct {
	Decimal  string
	Thousand string
	// Template places the grapheme ($) and the amount (1).
	Template string
	// Graphemes overrides go-money graphemes for some currencies.
	Graphemes map[string]string
}

// EsAR mimics the es-AR locale: "$ 1.234,56" and "US$ 1.234,56".
var EsAR = Locale{
	Decimal:   ",",
	Thousand:  ".",
	Template:  "$ 1",
	Graphemes: map[string]string{USD: "US$"},
}

// Convert returns amount expressed in the foreign currency given rate local
// units per foreign unit. A zero or negative rate yields zero: a missing rate
// must never break a display.
func Convert(amount, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return amount.Div(rate)
}

// Format renders amount in the given currency with exactly fractionDigits
// decimals, using the es-AR locale.
func Format(amount decimal.Decimal, code string, fractionDigits int) string {
	return EsAR.Format(amount, code, fractionDigits)
}

// Parse reads back an amount rendered by Format.
func Parse(s, code string) (decimal.Decimal, error) {
	return EsAR.Parse(s, code)
}

func (l Locale) grapheme(code string) string {
	if g, ok := l.Graphemes[code]; ok {
		return g
	}
	if c := money.GetCurrency(code); c != nil {
		return c.Grapheme
	}
	return code
}

// Format rounds amount half away from zero to fractionDigits and renders it.
// Negative amounts get a leading minus sign. The digits come from the decimal
// itself, so amounts of any size keep their value.
func (l Locale) Format(amount decimal.Decimal, code string, fractionDigits int) string {
	if fractionDigits < 0 {
		fractionDigits = 0
	}
	rounded := amount.Round(int32(fractionDigits))
	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(int32(fractionDigits)), ".")

	number := l.group(whole)
	if frac != "" {
		number += l.Decimal + frac
	}
	out := strings.Replace(l.Template, "1", number, 1)
	out = strings.Replace(out, "$", l.grapheme(code), 1)
	if rounded.IsNegative() {
		out = "-" + out
	}
	return out
}

// group inserts the thousand separator every three digits of whole.
func (l Locale) group(whole string) string {
	if l.Thousand == "" || len(whole) <= 3 {
		return whole
	}
	var b strings.Builder
	head := len(whole) % 3
	if head > 0 {
		b.WriteString(whole[:head])
	}
	for i := head; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteString(l.Thousand)
		}
		b.WriteString(whole[i : i+3])
	}
	return b.String()
}

// Parse is the inverse of Format for the same locale and currency.
func (l Locale) Parse(s, code string) (decimal.Decimal, error) {
	in := strings.TrimSpace(s)
	neg := strings.HasPrefix(in, "-")
	in = strings.TrimPrefix(in, "-")

	prefix, suffix, _ := strings.Cut(l.Template, "1")
	prefix = strings.Replace(prefix, "$", l.grapheme(code), 1)
	suffix = strings.Replace(suffix, "$", l.grapheme(code), 1)
	if !strings.HasPrefix(in, prefix) || !strings.HasSuffix(in, suffix) {
		return decimal.Zero, fmt.Errorf("parse %q: not a %s amount", s, code)
	}
	in = strings.TrimSuffix(strings.TrimPrefix(in, prefix), suffix)
	if l.Thousand != "" {
		in = strings.ReplaceAll(in, l.Thousand, "")
	}
	if l.Decimal != "" {
		in = strings.Replace(in, l.Decimal, ".", 1)
	}
	d, err := decimal.NewFromString(in)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %q: %w", s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}
