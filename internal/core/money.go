// Package core provides the domain types of the ledger and the parsing of
// user supplied amounts.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user supplied decimal string into an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and keeps
// every fractional digit. Signs, thousand separators and anything that is not
// a digit are rejected, and so is zero: amounts and rates are always strictly
// positive.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount(" 1000 ") -> 1000, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	if parts[0] == "" {
		parts[0] = "0"
	}
	if len(parts) == 2 && parts[1] == "" {
		parts = parts[:1]
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	d, err := decimal.NewFromString(strings.Join(parts, "."))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseSalary is ParseAmount where zero is allowed.
func ParseSalary(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err == nil {
		return d, nil
	}
	s = strings.TrimSpace(s)
	if rest := strings.Trim(s, "0"); strings.Contains(s, "0") && (rest == "" || rest == "." || rest == ",") {
		// "0", "0.00", "0,0" ...
		return decimal.Zero, nil
	}
	return decimal.Zero, ErrInvalidSalary
}
