package pipeline

import (
	"github.com/DevWolk/fop-calc/internal/shared/money"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
)

// Forward — прямой расчёт: сколько PLN получится из SourceAmount USD.
// Чистая функция: никаких ошибок, некорректные числа зажимаются (деление на 0 -> 0, минимум 0).
func Forward(in ForwardInput) ForwardResult {
	topUp := in.TopUp
	if topUp == nil {
		topUp = fees.None{}
	}

	intermediate := in.SourceAmount.Mul(in.BankBuyRate)
	gross := money.SafeDiv(intermediate, in.BankSellRate)
	afterFixed := fees.NewAbsolute(in.FixedBankFee).Deduct(gross)

	settled, topUpFee := topUp.Forward(afterFixed)
	out := in.Plan.Apply(settled, in.Weekend)

	dest := out.Effective.Mul(in.DestRate)
	total := dest.Add(in.ExistingDestBalance)

	spread := in.SourceAmount.Sub(gross).Add(in.FixedBankFee)
	totalFees := spread.Add(topUpFee).Add(out.WeekendFee).Add(out.FairUseFee)

	return ForwardResult{
		Intermediate:     money.Round2(intermediate),
		GrossReturn:      money.Round2(gross),
		AfterFixedFee:    money.Round2(afterFixed),
		Charged:          money.Round2(afterFixed),
		Settled:          money.Round2(settled),
		TopUpFee:         money.Round2(topUpFee),
		Effective:        money.Round2(out.Effective),
		WeekendFee:       money.Round2(out.WeekendFee),
		FairUseFee:       money.Round2(out.FairUseFee),
		DestAmount:       money.Round2(dest),
		TotalDestBalance: money.Round2(total),
		SpreadLoss:       money.Round2(spread),
		TotalFees:        money.Round2(totalFees),
		TotalFeesPercent: money.Round2(money.Pct(totalFees, in.SourceAmount)),
	}
}
