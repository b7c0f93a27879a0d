package calculator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/infra/metrics"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
	"github.com/DevWolk/fop-calc/internal/usecase/rates"
)

type heldRates struct {
	held  rates.Held
	err   error
	calls int
}

func (h *heldRates) Held(context.Context) (rates.Held, error) {
	h.calls++
	return h.held, h.err
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

func weekday() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) } // среда

func newService(h *heldRates) *Service {
	return New(h, Defaults{FixedBankFee: d("1.17")}, metrics.Nop()).WithClock(weekday)
}

func defaultHeld() *heldRates {
	return &heldRates{held: rates.Held{BankBuy: d("42.50"), BankSell: d("43.10"), Dest: d("3.95")}}
}

func TestForwardUsesHeldRatesAndDefaults(t *testing.T) {
	h := defaultHeld()
	out, err := newService(h).Forward(context.Background(), ForwardRequest{Amount: d("1000")})
	require.NoError(t, err)

	assert.Equal(t, 1, h.calls)
	assert.Equal(t, fees.GooglePayMC, out.Applied.TopUpMethod)
	assert.Equal(t, fees.KindAdditive, out.Applied.TopUpKind)
	assert.Equal(t, plan.Standard, out.Applied.Plan)
	assert.False(t, out.Applied.Weekend)
	assert.Equal(t, "3851.87", out.Result.TotalDestBalance.StringFixed(2))
	assert.Equal(t, "24.84", out.Result.TotalFees.StringFixed(2))
}

func TestForwardExplicitRatesSkipStore(t *testing.T) {
	h := &heldRates{err: errors.New("store down")}
	weekend := true
	out, err := newService(h).Forward(context.Background(), ForwardRequest{
		Amount: d("3000"),
		Options: Options{
			BankBuyRate:  nd("42.50"),
			BankSellRate: nd("43.10"),
			DestRate:     nd("3.95"),
			FixedBankFee: nd("1.17"),
			TopUpMethod:  fees.P2P,
			Plan:         plan.Standard,
			Weekend:      &weekend,
		},
	})
	require.NoError(t, err)
	assert.Zero(t, h.calls)
	assert.True(t, out.Applied.Weekend)
	assert.Equal(t, "29.57", out.Result.WeekendFee.StringFixed(2))
	assert.Equal(t, "9.79", out.Result.FairUseFee.StringFixed(2))
}

func TestForwardStoreError(t *testing.T) {
	h := &heldRates{err: errors.New("store down")}
	_, err := newService(h).Forward(context.Background(), ForwardRequest{Amount: d("10")})
	assert.ErrorContains(t, err, "store down")
}

func TestForwardValidation(t *testing.T) {
	svc := newService(defaultHeld())

	_, err := svc.Forward(context.Background(), ForwardRequest{Amount: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Forward(context.Background(), ForwardRequest{Amount: d("1"), Options: Options{TopUpMethod: "paypal"}})
	assert.ErrorIs(t, err, domain.ErrUnknownTopUp)

	_, err = svc.Forward(context.Background(), ForwardRequest{Amount: d("1"), Options: Options{Plan: "gold"}})
	assert.ErrorIs(t, err, domain.ErrUnknownPlan)
}

func TestReverseNoResultForNonPositiveTarget(t *testing.T) {
	svc := newService(defaultHeld())
	for _, target := range []string{"0", "-5"} {
		out, err := svc.Reverse(context.Background(), ReverseRequest{Target: d(target)})
		assert.NoError(t, err)
		assert.Nil(t, out)
	}
}

func TestReverseRoundTrip(t *testing.T) {
	svc := newService(defaultHeld())
	out, err := svc.Reverse(context.Background(), ReverseRequest{Target: d("3851.87")})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "1000.00", out.Result.SourceNeeded.StringFixed(2))

	out, err = svc.Reverse(context.Background(), ReverseRequest{
		Target:  d("100"),
		Options: Options{ExistingBalance: d("150")},
	})
	require.NoError(t, err)
	assert.True(t, out.Result.IsZero())
}

func TestIsWeekendUsesKyivCalendar(t *testing.T) {
	svc := newService(defaultHeld())

	// пятница 23:30 UTC — уже суббота в Киеве
	svc.WithClock(func() time.Time { return time.Date(2026, 10, 16, 23, 30, 0, 0, time.UTC) })
	assert.True(t, svc.IsWeekend())

	// воскресенье 22:30 UTC — уже понедельник в Киеве
	svc.WithClock(func() time.Time { return time.Date(2026, 10, 18, 22, 30, 0, 0, time.UTC) })
	assert.False(t, svc.IsWeekend())

	svc.WithClock(weekday)
	assert.False(t, svc.IsWeekend())
}

func TestDefaultsWeekendOverridesCalendar(t *testing.T) {
	on := true
	svc := New(defaultHeld(), Defaults{FixedBankFee: d("1.17"), Weekend: &on}, nil).WithClock(weekday)
	out, err := svc.Forward(context.Background(), ForwardRequest{Amount: d("100")})
	require.NoError(t, err)
	assert.True(t, out.Applied.Weekend)
}
