package calculator

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/infra/metrics"
	"github.com/DevWolk/fop-calc/internal/shared/money"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/pipeline"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
)

// Календарь выходных — киевский.
const zone = "Europe/Kyiv"

// Service — сборка входа конвейера из запроса, курсов и настроек.
// Сам расчёт делают чистые pipeline.Forward / pipeline.Reverse.
type Service struct {
	rates    RateSource
	defaults Defaults
	metrics  *metrics.Metrics
	now      func() time.Time
	loc      *time.Location
}

func New(rates RateSource, defaults Defaults, m *metrics.Metrics) *Service {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.FixedZone("EET", 2*60*60)
	}
	if defaults.TopUpMethod == "" {
		defaults.TopUpMethod = fees.GooglePayMC
	}
	if defaults.Plan == "" {
		defaults.Plan = plan.Standard
	}
	return &Service{rates: rates, defaults: defaults, metrics: m, now: time.Now, loc: loc}
}

// WithClock подменяет часы (тесты).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IsWeekend — суббота или воскресенье по Киеву.
func (s *Service) IsWeekend() bool {
	switch s.now().In(s.loc).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// Forward — сколько PLN получится из суммы USD.
func (s *Service) Forward(ctx context.Context, req ForwardRequest) (*ForwardOutcome, error) {
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount %s", domain.ErrInvalidAmount, req.Amount)
	}
	applied, topUp, policy, err := s.resolve(ctx, req.Options)
	if err != nil {
		return nil, err
	}

	res := pipeline.Forward(pipeline.ForwardInput{
		SourceAmount:        req.Amount,
		BankBuyRate:         applied.BankBuyRate,
		BankSellRate:        applied.BankSellRate,
		FixedBankFee:        applied.FixedBankFee,
		TopUp:               topUp,
		Plan:                policy,
		Weekend:             applied.Weekend,
		DestRate:            applied.DestRate,
		ExistingDestBalance: applied.Existing,
	})
	s.metrics.ObserveCalculation("forward")
	return &ForwardOutcome{Amount: req.Amount, Applied: applied, Result: res}, nil
}

// Reverse — сколько USD продать, чтобы на карте было Target PLN.
// Target <= 0 означает «нет результата»: (nil, nil).
func (s *Service) Reverse(ctx context.Context, req ReverseRequest) (*ReverseOutcome, error) {
	if !req.Target.IsPositive() {
		return nil, nil
	}
	applied, topUp, policy, err := s.resolve(ctx, req.Options)
	if err != nil {
		return nil, err
	}

	res := pipeline.Reverse(pipeline.ReverseInput{
		TargetDestAmount:    req.Target,
		ExistingDestBalance: applied.Existing,
		DestRate:            applied.DestRate,
		TopUp:               topUp,
		Plan:                policy,
		Weekend:             applied.Weekend,
		BankBuyRate:         applied.BankBuyRate,
		BankSellRate:        applied.BankSellRate,
		FixedBankFee:        applied.FixedBankFee,
	})
	s.metrics.ObserveCalculation("reverse")
	return &ReverseOutcome{Target: req.Target, Applied: applied, Result: res}, nil
}

func (s *Service) resolve(ctx context.Context, o Options) (Applied, fees.Model, plan.Policy, error) {
	method := o.TopUpMethod
	if method == "" {
		method = s.defaults.TopUpMethod
	}
	topUp, ok := fees.ForMethod(method)
	if !ok {
		return Applied{}, nil, plan.Policy{}, fmt.Errorf("%w: %q", domain.ErrUnknownTopUp, method)
	}

	tier := o.Plan
	if tier == "" {
		tier = s.defaults.Plan
	}
	policy, ok := plan.ForTier(tier)
	if !ok {
		return Applied{}, nil, plan.Policy{}, fmt.Errorf("%w: %q", domain.ErrUnknownPlan, tier)
	}

	a := Applied{
		TopUpMethod: method,
		TopUpKind:   topUp.Kind(),
		TopUpRate:   topUp.Rate(),
		Plan:        tier,
		Policy:      policy,
		Existing:    money.Floor0(o.ExistingBalance),
	}

	if !o.BankBuyRate.Valid || !o.BankSellRate.Valid || !o.DestRate.Valid {
		held, err := s.rates.Held(ctx)
		if err != nil {
			return Applied{}, nil, plan.Policy{}, fmt.Errorf("held rates: %w", err)
		}
		a.BankBuyRate, a.BankSellRate, a.DestRate = held.BankBuy, held.BankSell, held.Dest
	}
	a.BankBuyRate = pick(o.BankBuyRate, a.BankBuyRate)
	a.BankSellRate = pick(o.BankSellRate, a.BankSellRate)
	a.DestRate = pick(o.DestRate, a.DestRate)
	a.FixedBankFee = pick(o.FixedBankFee, s.defaults.FixedBankFee)

	switch {
	case o.Weekend != nil:
		a.Weekend = *o.Weekend
	case s.defaults.Weekend != nil:
		a.Weekend = *s.defaults.Weekend
	default:
		a.Weekend = s.IsWeekend()
	}
	return a, topUp, policy, nil
}

func pick(v decimal.NullDecimal, fallback decimal.Decimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return fallback
}
