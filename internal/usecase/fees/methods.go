package fees

import (
	"sort"

	"github.com/DevWolk/fop-calc/internal/shared/money"
)

// Method — способ пополнения карты.
type Method string

const (
	GooglePayMC   Method = "googlepay_mc"
	GooglePayVisa Method = "googlepay_visa"
	CardMC        Method = "card_mc"
	CardVisa      Method = "card_visa"
	P2P           Method = "p2p"
)

var methods = map[Method]Model{
	GooglePayMC:   Additive{Pct: money.MustParse("0.01")},
	GooglePayVisa: Additive{Pct: money.MustParse("0.025")},
	CardMC:        Subtractive{Pct: money.MustParse("0.013")},
	CardVisa:      Subtractive{Pct: money.MustParse("0.025")},
	P2P:           None{},
}

// ForMethod возвращает модель комиссии способа пополнения.
func ForMethod(m Method) (Model, bool) {
	model, ok := methods[m]
	return model, ok
}

// Methods — все известные способы, по алфавиту.
func Methods() []Method {
	out := make([]Method, 0, len(methods))
	for m := range methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
