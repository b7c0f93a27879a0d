package httpapi

import (
	"context"
	"fmt"

	"github.com/DevWolk/fop-calc/internal/shared/format"
	"github.com/DevWolk/fop-calc/internal/usecase/calculator"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
)

// CalculatorAdapter — тонкий адаптер: маппит httpapi.* <-> calculator.* и вызывает use-case.
type CalculatorAdapter struct {
	Svc *calculator.Service
}

func (a *CalculatorAdapter) Forward(ctx context.Context, req ForwardRequest) (ForwardResponse, error) {
	if a == nil || a.Svc == nil {
		return ForwardResponse{}, fmt.Errorf("service is not initialized")
	}
	out, err := a.Svc.Forward(ctx, calculator.ForwardRequest{Amount: req.Amount, Options: toOptions(req.CalcOptions)})
	if err != nil {
		return ForwardResponse{}, err
	}

	r := out.Result
	return ForwardResponse{
		ForwardOutcome: *out,
		Display: Display{
			"source":        format.USD(out.Amount),
			"intermediate":  format.UAH(r.Intermediate),
			"grossReturn":   format.USD(r.GrossReturn),
			"afterFixedFee": format.USD(r.AfterFixedFee),
			"settled":       format.USD(r.Settled),
			"topUpFee":      format.USD(r.TopUpFee),
			"weekendFee":    format.USD(r.WeekendFee),
			"fairUseFee":    format.USD(r.FairUseFee),
			"destAmount":    format.PLN(r.DestAmount),
			"total":         format.PLN(r.TotalDestBalance),
			"spreadLoss":    format.USD(r.SpreadLoss),
			"totalFees":     format.USD(r.TotalFees),
			"totalFeesPct":  format.Percent(r.TotalFeesPercent),
		},
	}, nil
}

func (a *CalculatorAdapter) Reverse(ctx context.Context, req ReverseRequest) (ReverseResponse, error) {
	if a == nil || a.Svc == nil {
		return ReverseResponse{}, fmt.Errorf("service is not initialized")
	}
	out, err := a.Svc.Reverse(ctx, calculator.ReverseRequest{Target: req.Target, Options: toOptions(req.CalcOptions)})
	if err != nil {
		return ReverseResponse{}, err
	}
	resp := ReverseResponse{Target: req.Target, Result: out}
	if out == nil {
		return resp, nil
	}

	r := out.Result
	resp.Display = Display{
		"destNeeded":         format.PLN(r.DestNeeded),
		"settledNeeded":      format.USD(r.SettledNeeded),
		"chargeNeeded":       format.USD(r.ChargeNeeded),
		"amountToBuy":        format.USD(r.AmountToBuy),
		"intermediateNeeded": format.UAH(r.IntermediateNeeded),
		"sourceNeeded":       format.USD(r.SourceNeeded),
	}
	return resp, nil
}

func toOptions(o CalcOptions) calculator.Options {
	return calculator.Options{
		BankBuyRate:     o.BankBuyRate,
		BankSellRate:    o.BankSellRate,
		DestRate:        o.DestRate,
		FixedBankFee:    o.FixedBankFee,
		TopUpMethod:     fees.Method(o.TopUpMethod),
		Plan:            plan.Tier(o.Plan),
		Weekend:         o.Weekend,
		ExistingBalance: o.ExistingBalance.Decimal,
	}
}
