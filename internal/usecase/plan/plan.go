package plan

import (
	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/shared/money"
)

// Tier — тариф карты.
type Tier string

const (
	Standard Tier = "standard"
	Plus     Tier = "plus"
	Premium  Tier = "premium"
	Metal    Tier = "metal"
	Ultra    Tier = "ultra"
)

// Policy — надбавки тарифа. Ставки в долях: 0.01 = 1%.
type Policy struct {
	Label        string          `json:"label"`
	WeekendFee   decimal.Decimal `json:"weekendFee"`
	FairUseFee   decimal.Decimal `json:"fairUseFee"`
	FairUseLimit Limit           `json:"fairUseLimit"`
}

var tiers = map[Tier]Policy{
	Standard: {Label: "Standard", WeekendFee: money.MustParse("0.01"), FairUseFee: money.MustParse("0.005"), FairUseLimit: LimitOf(decimal.NewFromInt(1000))},
	Plus:     {Label: "Plus", WeekendFee: money.MustParse("0.005"), FairUseFee: money.MustParse("0.005"), FairUseLimit: LimitOf(decimal.NewFromInt(3000))},
	Premium:  {Label: "Premium", WeekendFee: money.Zero, FairUseFee: money.MustParse("0.005"), FairUseLimit: LimitOf(decimal.NewFromInt(10000))},
	Metal:    {Label: "Metal", WeekendFee: money.Zero, FairUseFee: money.Zero, FairUseLimit: Unlimited()},
	Ultra:    {Label: "Ultra", WeekendFee: money.Zero, FairUseFee: money.Zero, FairUseLimit: Unlimited()},
}

// ForTier возвращает политику тарифа.
func ForTier(t Tier) (Policy, bool) {
	p, ok := tiers[t]
	return p, ok
}

// Tiers в порядке возрастания тарифа.
func Tiers() []Tier { return []Tier{Standard, Plus, Premium, Metal, Ultra} }

// Outcome — результат применения надбавок.
type Outcome struct {
	Effective  decimal.Decimal
	WeekendFee decimal.Decimal
	FairUseFee decimal.Decimal
}

// Apply применяет надбавки к сумме settled, дошедшей до карты.
// Порог fair use сравнивается с суммой ДО weekend-комиссии,
// а удержание вычитается из суммы ПОСЛЕ неё.
func (p Policy) Apply(settled decimal.Decimal, weekend bool) Outcome {
	out := Outcome{Effective: settled, WeekendFee: money.Zero, FairUseFee: money.Zero}

	if weekend && p.WeekendFee.IsPositive() {
		out.WeekendFee = settled.Mul(p.WeekendFee)
		out.Effective = out.Effective.Sub(out.WeekendFee)
	}

	if p.FairUseFee.IsPositive() && p.FairUseLimit.ExceededBy(settled) {
		over := settled.Sub(p.FairUseLimit.Amount())
		out.FairUseFee = over.Mul(p.FairUseFee)
		out.Effective = out.Effective.Sub(out.FairUseFee)
	}

	return out
}

// Reverse находит сумму на карте до надбавок, при которой после Apply останется target.
// Сначала снимается fair use, затем weekend — обратно порядку Apply.
//
// Без weekend: N' = (T - L*f) / (1 - f). С weekend формула намеренно иная:
// удержание fair use вычитается из суммы после weekend, поэтому знаменатель
// 1 - f/(1-w). Прямая подстановка (T - L*f) / (1 - f) в выходной недобирает
// target после Apply, а здесь Reverse остаётся точной обратной к Apply.
// N' принимается, только если исходная сумма N'/(1-w) действительно выше порога.
func (p Policy) Reverse(target decimal.Decimal, weekend bool) decimal.Decimal {
	keep := money.One // доля, остающаяся после weekend-комиссии
	if weekend && p.WeekendFee.IsPositive() {
		keep = money.One.Sub(p.WeekendFee)
	}

	needed := target
	if p.FairUseFee.IsPositive() && p.FairUseLimit.Bounded() {
		limit := p.FairUseLimit.Amount()
		denom := money.One.Sub(money.SafeDiv(p.FairUseFee, keep))
		corrected := money.SafeDiv(target.Sub(limit.Mul(p.FairUseFee)), denom)
		if p.FairUseLimit.ExceededBy(money.SafeDiv(corrected, keep)) {
			needed = corrected
		}
	}

	if !keep.Equal(money.One) {
		needed = money.SafeDiv(needed, keep)
	}
	return needed
}
