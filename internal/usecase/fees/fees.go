package fees

import (
	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/shared/money"
)

// Model — модель комиссии пополнения.
// Все операции считаются в USD.
//
// Forward(charged) -> settled, fee — сколько дойдёт до счёта и сколько съела комиссия.
// Reverse(settled) -> charged — сколько списать с карты, чтобы дошло settled.
type Model interface {
	Forward(charged decimal.Decimal) (settled, fee decimal.Decimal)
	Reverse(settled decimal.Decimal) (charged decimal.Decimal)
	Kind() Kind
	Rate() decimal.Decimal
}

type Kind string

const (
	KindNone        Kind = "none"
	KindAdditive    Kind = "additive"
	KindSubtractive Kind = "subtractive"
)

// New собирает модель по виду; rate == 0 эквивалентно none.
func New(kind Kind, rate decimal.Decimal) Model {
	switch kind {
	case KindAdditive:
		return Additive{Pct: rate}
	case KindSubtractive:
		return Subtractive{Pct: rate}
	default:
		return None{Pct: rate}
	}
}

// ===== Без комиссии =====

// None игнорирует номинальную ставку.
type None struct{ Pct decimal.Decimal }

func (n None) Forward(charged decimal.Decimal) (settled, fee decimal.Decimal) {
	return charged, money.Zero
}

func (n None) Reverse(settled decimal.Decimal) decimal.Decimal { return settled }

func (n None) Kind() Kind            { return KindNone }
func (n None) Rate() decimal.Decimal { return n.Pct }

// ===== Надбавка сверху (Google Pay) =====

type Additive struct{ Pct decimal.Decimal } // напр. 0.01 = 1%

func (a Additive) Forward(charged decimal.Decimal) (settled, fee decimal.Decimal) {
	if a.Pct.IsZero() {
		return charged, money.Zero
	}
	// charged = settled*(1+pct) => settled = charged/(1+pct)
	settled = money.SafeDiv(charged, money.One.Add(a.Pct))
	return settled, charged.Sub(settled)
}

func (a Additive) Reverse(settled decimal.Decimal) decimal.Decimal {
	if a.Pct.IsZero() {
		return settled
	}
	return settled.Mul(money.One.Add(a.Pct))
}

func (a Additive) Kind() Kind            { return KindAdditive }
func (a Additive) Rate() decimal.Decimal { return a.Pct }

// ===== Удержание эмитентом (пополнение картой) =====

type Subtractive struct{ Pct decimal.Decimal }

func (s Subtractive) Forward(charged decimal.Decimal) (settled, fee decimal.Decimal) {
	if s.Pct.IsZero() {
		return charged, money.Zero
	}
	settled = charged.Mul(money.One.Sub(s.Pct))
	return settled, charged.Sub(settled)
}

// Reverse при ставке 1 недостижим и даёт 0.
func (s Subtractive) Reverse(settled decimal.Decimal) decimal.Decimal {
	if s.Pct.IsZero() {
		return settled
	}
	return money.SafeDiv(settled, money.One.Sub(s.Pct))
}

func (s Subtractive) Kind() Kind            { return KindSubtractive }
func (s Subtractive) Rate() decimal.Decimal { return s.Pct }

// ===== Фиксированная комиссия банка (USD за операцию) =====

type Absolute struct{ Amount decimal.Decimal } // напр. 1.17 USD

func NewAbsolute(amount decimal.Decimal) Absolute { return Absolute{Amount: amount} }

// Deduct: gross - A, не меньше 0.
func (a Absolute) Deduct(gross decimal.Decimal) decimal.Decimal {
	return money.Floor0(gross.Sub(a.Amount))
}

// Restore: net + A.
func (a Absolute) Restore(net decimal.Decimal) decimal.Decimal {
	return net.Add(a.Amount)
}
