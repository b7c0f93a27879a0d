package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/usecase/calculator"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
)

// Snap — прямой расчёт для одного способа пополнения.
type Snap struct {
	Method  fees.Method
	Outcome *calculator.ForwardOutcome
}

// CompareMethods считает одну сумму всеми способами пополнения.
// Лучший (больше PLN на карте) идёт первым; при равенстве — по имени.
func CompareMethods(ctx context.Context, calc *calculator.Service, amount decimal.Decimal, opts calculator.Options) ([]Snap, error) {
	var snaps []Snap
	for _, m := range fees.Methods() {
		o := opts
		o.TopUpMethod = m
		out, err := calc.Forward(ctx, calculator.ForwardRequest{Amount: amount, Options: o})
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, Snap{Method: m, Outcome: out})
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		a, b := snaps[i].Outcome.Result.TotalDestBalance, snaps[j].Outcome.Result.TotalDestBalance
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return snaps[i].Method < snaps[j].Method
	})
	return snaps, nil
}
