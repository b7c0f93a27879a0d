package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Grouped возвращает строку вида "42 500.00": 2 знака, пробел между тысячами.
func Grouped(v decimal.Decimal) string {
	s := v.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	intPart := parts[0]
	frac := "00"
	if len(parts) == 2 {
		frac = parts[1]
	}

	var out []byte
	cnt := 0
	for i := len(intPart) - 1; i >= 0; i-- {
		out = append(out, intPart[i])
		cnt++
		if cnt%3 == 0 && i != 0 {
			out = append(out, ' ')
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return sign + string(out) + "." + frac
}

func USD(v decimal.Decimal) string { return "$" + Grouped(v) }
func UAH(v decimal.Decimal) string { return Grouped(v) + " ₴" }
func PLN(v decimal.Decimal) string { return Grouped(v) + " zł" }

// Percent — "2.5%" с одним знаком.
func Percent(v decimal.Decimal) string { return v.StringFixed(1) + "%" }

// Rate — курс без лишних нулей, но минимум 2 знака.
func Rate(v decimal.Decimal) string {
	if v.Exponent() >= -2 {
		return v.StringFixed(2)
	}
	return v.String()
}
