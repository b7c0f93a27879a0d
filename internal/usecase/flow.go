package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/usecase/calculator"
	"github.com/DevWolk/fop-calc/internal/usecase/presenter"
	"github.com/DevWolk/fop-calc/internal/usecase/rates"
)

// RatesRefresher — обновление удерживаемых курсов (rates.Service).
type RatesRefresher interface {
	Refresh(ctx context.Context, st rates.Settings) rates.Report
	Held(ctx context.Context) (rates.Held, error)
}

// Direction — направление расчёта.
type Direction int

const (
	Forward Direction = iota // USD -> PLN
	Reverse                  // PLN -> USD
)

// FlowInput — один расчёт из CLI.
type FlowInput struct {
	Direction Direction
	Amount    decimal.Decimal // forward: USD; reverse: целевые PLN
	Options   calculator.Options
	Refresh   bool // тянуть свежие курсы перед расчётом
}

// Flow — сценарий CLI: курсы -> расчёт -> вывод.
type Flow struct {
	rates    RatesRefresher
	calc     *calculator.Service
	settings rates.Settings
	pr       presenter.Presenter
}

func NewFlow(rt RatesRefresher, calc *calculator.Service, st rates.Settings, pr presenter.Presenter) *Flow {
	return &Flow{rates: rt, calc: calc, settings: st, pr: pr}
}

// Run выполняет расчёт. Неудачное обновление курсов не фатально:
// расчёт идёт на удерживаемых курсах, о чём пишется предупреждение.
func (f *Flow) Run(ctx context.Context, in FlowInput) error {
	if in.Refresh {
		if err := f.RefreshRates(ctx); err != nil {
			f.pr.Warnf("курсы обновлены не полностью, используются сохранённые: %v\n", err)
		}
	}

	switch in.Direction {
	case Forward:
		out, err := f.calc.Forward(ctx, calculator.ForwardRequest{Amount: in.Amount, Options: in.Options})
		if err != nil {
			return fmt.Errorf("forward: %w", err)
		}
		f.pr.ShowForward(out)
	case Reverse:
		out, err := f.calc.Reverse(ctx, calculator.ReverseRequest{Target: in.Amount, Options: in.Options})
		if err != nil {
			return fmt.Errorf("reverse: %w", err)
		}
		f.pr.ShowReverse(in.Amount.StringFixed(2), out)
	default:
		return fmt.Errorf("unknown direction %d", in.Direction)
	}
	return nil
}

// RefreshRates обновляет курсы и печатает отчёт.
func (f *Flow) RefreshRates(ctx context.Context) error {
	rep := f.rates.Refresh(ctx, f.settings)
	f.pr.ShowRates(rep)
	if held, err := f.rates.Held(ctx); err == nil {
		f.pr.ShowHeld(held)
	}
	return rep.Err()
}

// Compare печатает сравнение способов пополнения для суммы USD.
func (f *Flow) Compare(ctx context.Context, amount decimal.Decimal, opts calculator.Options) error {
	snaps, err := CompareMethods(ctx, f.calc, amount, opts)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}
	rows := make([]presenter.ComparisonRow, 0, len(snaps))
	for _, s := range snaps {
		r := s.Outcome.Result
		rows = append(rows, presenter.ComparisonRow{
			Method:    s.Method,
			Dest:      r.TotalDestBalance,
			TotalFees: r.TotalFees,
			Percent:   r.TotalFeesPercent,
		})
	}
	f.pr.ShowComparison(amount, rows)
	return nil
}

// ShowHeld печатает курсы, на которых идёт расчёт, без обновления.
func (f *Flow) ShowHeld(ctx context.Context) error {
	held, err := f.rates.Held(ctx)
	if err != nil {
		return fmt.Errorf("held rates: %w", err)
	}
	f.pr.ShowHeld(held)
	return nil
}
