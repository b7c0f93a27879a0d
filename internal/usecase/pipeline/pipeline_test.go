package pipeline

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func standard(t *testing.T) plan.Policy {
	t.Helper()
	p, ok := plan.ForTier(plan.Standard)
	require.True(t, ok)
	return p
}

func baseForward(t *testing.T) ForwardInput {
	return ForwardInput{
		SourceAmount:        d("1000"),
		BankBuyRate:         d("42.50"),
		BankSellRate:        d("43.10"),
		FixedBankFee:        d("1.17"),
		TopUp:               fees.Additive{Pct: d("0.01")},
		Plan:                standard(t),
		Weekend:             false,
		DestRate:            d("3.95"),
		ExistingDestBalance: d("0"),
	}
}

func eq(t *testing.T, want string, got decimal.Decimal, name string) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), name)
}

func TestForwardScenario(t *testing.T) {
	res := Forward(baseForward(t))

	eq(t, "42500.00", res.Intermediate, "intermediate")
	eq(t, "986.08", res.GrossReturn, "gross")
	eq(t, "984.91", res.AfterFixedFee, "after fixed fee")
	eq(t, "984.91", res.Charged, "charged")
	eq(t, "975.16", res.Settled, "settled")
	eq(t, "9.75", res.TopUpFee, "top-up fee")
	eq(t, "975.16", res.Effective, "effective")
	eq(t, "0.00", res.WeekendFee, "weekend")
	eq(t, "0.00", res.FairUseFee, "fair use")
	eq(t, "3851.87", res.DestAmount, "dest")
	eq(t, "3851.87", res.TotalDestBalance, "total dest")
	eq(t, "15.09", res.SpreadLoss, "spread")
	eq(t, "24.84", res.TotalFees, "total fees")
	eq(t, "2.48", res.TotalFeesPercent, "total fees %")
}

func TestForwardAddsExistingBalance(t *testing.T) {
	in := baseForward(t)
	in.ExistingDestBalance = d("100.5")
	res := Forward(in)
	eq(t, "3952.37", res.TotalDestBalance, "total dest")
}

func TestForwardClampsInsteadOfFailing(t *testing.T) {
	in := baseForward(t)
	in.BankSellRate = decimal.Zero
	res := Forward(in)
	assert.True(t, res.GrossReturn.IsZero())
	assert.True(t, res.AfterFixedFee.IsZero(), "never negative")
	assert.True(t, res.DestAmount.IsZero())

	in = baseForward(t)
	in.SourceAmount = decimal.Zero
	res = Forward(in)
	assert.True(t, res.TotalFeesPercent.IsZero())
}

func TestForwardNilTopUpIsNone(t *testing.T) {
	in := baseForward(t)
	in.TopUp = nil
	res := Forward(in)
	assert.True(t, res.TopUpFee.IsZero())
	eq(t, "984.91", res.Settled, "settled")
}

func TestForwardWeekendAndFairUse(t *testing.T) {
	in := baseForward(t)
	in.SourceAmount = d("3000")
	in.TopUp = fees.None{}
	in.Weekend = true
	res := Forward(in)

	// 3000*42.5/43.1 = 2958.2366..., минус 1.17
	eq(t, "2957.07", res.Settled, "settled")
	eq(t, "29.57", res.WeekendFee, "weekend")
	eq(t, "9.79", res.FairUseFee, "fair use") // (2957.0666 - 1000) * 0.5%
	eq(t, "2917.71", res.Effective, "effective")
}

func TestReverseCoveredByBalanceIsZero(t *testing.T) {
	for _, target := range []string{"0", "50", "100"} {
		res := Reverse(ReverseInput{
			TargetDestAmount:    d(target),
			ExistingDestBalance: d("100"),
			DestRate:            d("3.95"),
			TopUp:               fees.Additive{Pct: d("0.01")},
			Plan:                standard(t),
			BankBuyRate:         d("42.50"),
			BankSellRate:        d("43.10"),
			FixedBankFee:        d("1.17"),
		})
		assert.True(t, res.IsZero(), target)
		assert.True(t, res.AmountToBuy.IsZero())
		assert.True(t, res.IntermediateNeeded.IsZero())
	}
}

func reverseOf(in ForwardInput, target decimal.Decimal) ReverseInput {
	return ReverseInput{
		TargetDestAmount:    target,
		ExistingDestBalance: in.ExistingDestBalance,
		DestRate:            in.DestRate,
		TopUp:               in.TopUp,
		Plan:                in.Plan,
		Weekend:             in.Weekend,
		BankBuyRate:         in.BankBuyRate,
		BankSellRate:        in.BankSellRate,
		FixedBankFee:        in.FixedBankFee,
	}
}

func TestReverseScenario(t *testing.T) {
	in := baseForward(t)
	res := Reverse(reverseOf(in, d("3851.87")))

	eq(t, "3851.87", res.DestNeeded, "dest needed")
	eq(t, "975.16", res.SettledNeeded, "settled")
	eq(t, "984.91", res.ChargeNeeded, "charge")
	eq(t, "986.08", res.AmountToBuy, "to buy")
	eq(t, "42499.99", res.IntermediateNeeded, "intermediate")
	eq(t, "1000.00", res.SourceNeeded, "source")
}

func TestRoundTripNeverUndershoots(t *testing.T) {
	in := baseForward(t)
	fwd := Forward(in)
	rev := Reverse(reverseOf(in, fwd.TotalDestBalance))
	assert.True(t, rev.SourceNeeded.GreaterThanOrEqual(in.SourceAmount),
		"source needed %s < %s", rev.SourceNeeded, in.SourceAmount)
}

func TestReverseRoundsUp(t *testing.T) {
	in := baseForward(t)
	res := Reverse(reverseOf(in, d("1")))
	// 1/3.95 = 0.2531... -> 0.26
	eq(t, "0.26", res.SettledNeeded, "settled")
}

func TestReverseGuardsZeroRates(t *testing.T) {
	in := baseForward(t)
	in.BankBuyRate = decimal.Zero
	in.DestRate = decimal.Zero
	res := Reverse(reverseOf(in, d("100")))
	assert.True(t, res.SourceNeeded.IsZero())
}

// Forward(Reverse(x)) покрывает x для случайных конфигураций.
func TestReverseCoversTargetProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	methods := fees.Methods()
	tiers := plan.Tiers()
	for i := 0; i < 1000; i++ {
		topUp, _ := fees.ForMethod(methods[rng.Intn(len(methods))])
		policy, _ := plan.ForTier(tiers[rng.Intn(len(tiers))])
		buy := decimal.NewFromFloat(38 + rng.Float64()*6).Round(2)
		in := ForwardInput{
			BankBuyRate:         buy,
			BankSellRate:        buy.Add(decimal.NewFromFloat(rng.Float64())).Round(2),
			FixedBankFee:        decimal.NewFromFloat(rng.Float64() * 3).Round(2),
			TopUp:               topUp,
			Plan:                policy,
			Weekend:             rng.Intn(2) == 0,
			DestRate:            decimal.NewFromFloat(3.5 + rng.Float64()).Round(4),
			ExistingDestBalance: decimal.NewFromInt(int64(rng.Intn(500))),
		}
		target := in.ExistingDestBalance.Add(decimal.NewFromFloat(10 + rng.Float64()*60000).Round(2))

		rev := Reverse(reverseOf(in, target))
		in.SourceAmount = rev.SourceNeeded
		fwd := Forward(in)
		require.True(t, fwd.TotalDestBalance.GreaterThanOrEqual(target),
			"case %d: target=%s got=%s source=%s", i, target, fwd.TotalDestBalance, rev.SourceNeeded)
	}
}
