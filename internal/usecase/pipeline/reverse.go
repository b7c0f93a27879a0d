package pipeline

import (
	"github.com/DevWolk/fop-calc/internal/shared/money"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
)

// Reverse — обратный расчёт: сколько USD продать со счёта ФОП, чтобы
// на карте оказалось TargetDestAmount PLN.
// Все суммы округляются вверх, чтобы на каждом шаге денег гарантированно хватило.
func Reverse(in ReverseInput) ReverseResult {
	destNeeded := money.Floor0(in.TargetDestAmount.Sub(in.ExistingDestBalance))
	if destNeeded.IsZero() {
		return zeroReverse()
	}

	topUp := in.TopUp
	if topUp == nil {
		topUp = fees.None{}
	}

	settled := in.Plan.Reverse(money.SafeDiv(destNeeded, in.DestRate), in.Weekend)
	charge := topUp.Reverse(settled)
	toBuy := fees.NewAbsolute(in.FixedBankFee).Restore(charge)
	intermediate := toBuy.Mul(in.BankSellRate)
	source := money.SafeDiv(intermediate, in.BankBuyRate)

	return ReverseResult{
		DestNeeded:         money.Ceil2(destNeeded),
		SettledNeeded:      money.Ceil2(settled),
		ChargeNeeded:       money.Ceil2(charge),
		AmountToBuy:        money.Ceil2(toBuy),
		IntermediateNeeded: money.Ceil2(intermediate),
		SourceNeeded:       money.Ceil2(source),
	}
}

func zeroReverse() ReverseResult {
	z := money.Zero
	return ReverseResult{
		DestNeeded:         z,
		SettledNeeded:      z,
		ChargeNeeded:       z,
		AmountToBuy:        z,
		IntermediateNeeded: z,
		SourceNeeded:       z,
	}
}
