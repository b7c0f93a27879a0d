package presenter

import (
	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/usecase/calculator"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/rates"
)

// Presenter — вывод результатов расчёта (CLI, тесты).
type Presenter interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)

	ShowRates(rep rates.Report)
	ShowHeld(h rates.Held)

	ShowForward(out *calculator.ForwardOutcome)
	ShowReverse(target string, out *calculator.ReverseOutcome)
	ShowComparison(amount decimal.Decimal, rows []ComparisonRow)
}

// ComparisonRow — строка сравнения способов пополнения.
type ComparisonRow struct {
	Method    fees.Method
	Dest      decimal.Decimal // PLN на карте
	TotalFees decimal.Decimal
	Percent   decimal.Decimal
}
