// Package money provides fixed-point currency arithmetic in milliunits.
//
// A milliunit is 1/1000 of a currency unit, the convention used by the YNAB
// API (-57570 == an outflow of $57.57). Keeping every amount as an integer
// makes amount comparisons exact; no float64 ever touches a currency value.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Milliunits is a currency amount in 1/1000s of a unit.
type Milliunits int64

// PerCent is the number of milliunits in one cent.
const PerCent Milliunits = 10

// Abs returns the absolute value.
func (m Milliunits) Abs() Milliunits {
	if m < 0 {
		return -m
	}
	return m
}

// String formats the amount as a plain decimal, e.g. "57.57" or "-1234.50".
func (m Milliunits) String() string {
	neg := m < 0
	v := int64(m.Abs())
	s := fmt.Sprintf("%d.%02d", v/1000, (v%1000)/10)
	if neg {
		return "-" + s
	}
	return s
}

// Format renders the amount with a currency symbol, e.g. "$57.57".
func (m Milliunits) Format() string {
	if m < 0 {
		return "-$" + m.Abs().String()
	}
	return "$" + m.String()
}

// Parse converts a currency string like "$116.20", "1,234.56" or "-$3.50"
// into milliunits. Currency symbols, thousands separators and surrounding
// whitespace are stripped before parsing. Fractional digits beyond the cent
// are rejected rather than silently rounded.
func Parse(s string) (Milliunits, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	neg := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "$")
	if strings.HasPrefix(cleaned, "-") { // "$-5" as well as "-$5"
		neg = true
		cleaned = strings.TrimPrefix(cleaned, "-")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	whole := cleaned
	frac := ""
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		whole, frac = cleaned[:i], cleaned[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q: more than two fractional digits", s)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	cents := int64(0)
	if frac != "" {
		// Pad so ".2" means twenty cents, not two.
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	}

	v := Milliunits(units*1000 + cents*10)
	if neg {
		v = -v
	}
	return v, nil
}
