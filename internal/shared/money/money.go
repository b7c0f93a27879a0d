package money

import "github.com/shopspring/decimal"

var (
	Zero    = decimal.Zero
	One     = decimal.NewFromInt(1)
	Hundred = decimal.NewFromInt(100)
)

// Round2 — до копеек, половина от нуля.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Ceil2 — до копеек вверх: требуемая сумма никогда не занижается.
func Ceil2(d decimal.Decimal) decimal.Decimal { return d.RoundCeil(2) }

// SafeDiv делит a на b; деление на ноль даёт 0.
func SafeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return Zero
	}
	return a.Div(b)
}

// Floor0 отсекает отрицательные значения.
func Floor0(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return Zero
	}
	return d
}

// Pct — доля в процентах от base (0, если base == 0).
func Pct(part, base decimal.Decimal) decimal.Decimal {
	return SafeDiv(part, base).Mul(Hundred)
}

// MustParse для статических таблиц.
func MustParse(s string) decimal.Decimal { return decimal.RequireFromString(s) }
