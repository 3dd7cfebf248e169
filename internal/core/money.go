// Package core provides the invoice and receipt record model together with
// the computations derived from it.
//
// This file contains the rupiah amount format used for both storage and
// display: "Rp " followed by the integer grouped with dots every three digits.
package core

import (
	"strconv"
	"strings"
)

// AmountPrefix starts every canonical amount string.
const AmountPrefix = "Rp "

// maxAmountDigits keeps normalized input within int64 range.
const maxAmountDigits = 18

// Amount is a canonical currency string such as "Rp 1.000.000".
// Arithmetic always goes through Value.
type Amount string

// FormatAmount renders v in canonical form.
//
// Examples:
//
//	FormatAmount(1000000) -> "Rp 1.000.000"
//	FormatAmount(500)     -> "Rp 500"
func FormatAmount(v int64) Amount {
	neg := v < 0
	digits := strconv.FormatInt(v, 10)
	if neg {
		digits = digits[1:]
	}
	grouped := groupThousands(digits)
	if neg {
		grouped = "-" + grouped
	}
	return Amount(AmountPrefix + grouped)
}

// FormatAmountString formats a raw value. A value already carrying the "Rp"
// prefix is returned unchanged, which makes formatting idempotent.
func FormatAmountString(s string) Amount {
	if strings.HasPrefix(strings.TrimSpace(s), "Rp") {
		return Amount(s)
	}
	v, err := ParseAmount(s)
	if err != nil {
		return Amount(AmountPrefix)
	}
	return FormatAmount(v)
}

// ParseAmount recovers the numeric value by stripping every non-digit.
// Returns ErrInvalidAmount when no digits remain or the value overflows.
func ParseAmount(s string) (int64, error) {
	digits := digitsOnly(s)
	if digits == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// NormalizeAmountInput reformats what the user typed so far into canonical
// grouping. Empty or prefix-only input yields the bare prefix "Rp ".
func NormalizeAmountInput(raw string) Amount {
	digits := strings.TrimLeft(digitsOnly(raw), "0")
	if digits == "" {
		if strings.ContainsRune(raw, '0') {
			return Amount(AmountPrefix + "0")
		}
		return Amount(AmountPrefix)
	}
	if len(digits) > maxAmountDigits {
		digits = digits[:maxAmountDigits]
	}
	return Amount(AmountPrefix + groupThousands(digits))
}

// Value returns the numeric amount, or 0 when the string holds no number.
func (a Amount) Value() int64 {
	v, err := ParseAmount(string(a))
	if err != nil {
		return 0
	}
	return v
}

// Validate requires a positive amount.
func (a Amount) Validate() error {
	v, err := ParseAmount(string(a))
	if err != nil {
		return err
	}
	if v <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (a Amount) String() string {
	return string(a)
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
