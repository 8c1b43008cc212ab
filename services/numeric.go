package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// FormatAmount renders a grid value for display: thousands separators,
// at most 2 fraction digits with trailing zeros trimmed. Zero, NaN and
// infinities render as an empty cell.
func FormatAmount(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	rounded := decimal.NewFromFloat(v).Round(2)
	if rounded.IsZero() {
		return ""
	}
	return humanize.Commaf(rounded.InexactFloat64())
}

// FormatQuantity renders a quantity cell. Quantities follow the same display
// policy as amounts.
func FormatQuantity(v float64) string {
	return FormatAmount(v)
}

// ParseAmount converts user-entered text into a number. Grouping separators
// are stripped; blank or unparseable text yields 0.
func ParseAmount(s string) float64 {
	v, err := ParseAmountE(s)
	if err != nil {
		return 0
	}
	return v
}

// ParseAmountE is ParseAmount for inputs where blank or unparseable text must
// be rejected rather than read as 0.
func ParseAmountE(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, errors.New("empty amount")
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not finite", s)
	}
	return v, nil
}

// sanitizeAmount maps NaN and infinities to 0 so they never leak into sums.
func sanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
