package plan

import "github.com/shopspring/decimal"

// Limit — порог fair use: либо без лимита, либо конкретная сумма.
type Limit struct {
	amount  decimal.Decimal
	bounded bool
}

func Unlimited() Limit { return Limit{} }

func LimitOf(amount decimal.Decimal) Limit { return Limit{amount: amount, bounded: true} }

func (l Limit) Bounded() bool { return l.bounded }

// Amount имеет смысл только для Bounded.
func (l Limit) Amount() decimal.Decimal { return l.amount }

// ExceededBy — строго больше порога; без лимита всегда false.
func (l Limit) ExceededBy(x decimal.Decimal) bool {
	return l.bounded && x.GreaterThan(l.amount)
}

func (l Limit) String() string {
	if !l.bounded {
		return "unlimited"
	}
	return l.amount.String()
}

func (l Limit) MarshalJSON() ([]byte, error) {
	if !l.bounded {
		return []byte("null"), nil
	}
	return []byte(`"` + l.amount.String() + `"`), nil
}
