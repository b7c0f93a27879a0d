package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/shared/format"
	"github.com/DevWolk/fop-calc/internal/usecase/calculator"
	"github.com/DevWolk/fop-calc/internal/usecase/presenter"
	"github.com/DevWolk/fop-calc/internal/usecase/rates"
)

var _ presenter.Presenter = (*CLIPresenter)(nil)

type CLIPresenter struct {
	out io.Writer
}

func NewCLIPresenter() *CLIPresenter { return &CLIPresenter{out: os.Stdout} }

// NewCLIPresenterTo пишет в произвольный writer (cobra OutOrStdout, тесты).
func NewCLIPresenterTo(w io.Writer) *CLIPresenter { return &CLIPresenter{out: w} }

func (c *CLIPresenter) Infof(format string, args ...any) { fmt.Fprintf(c.out, format, args...) }
func (c *CLIPresenter) Warnf(format string, args ...any) {
	fmt.Fprintf(c.out, "! "+format, args...)
}

func (c *CLIPresenter) ShowRates(rep rates.Report) {
	fmt.Fprintf(c.out, "\n=== Курсы (%s) ===\n", rep.At.Format("15:04 02.01.2006"))
	for _, p := range []rates.PairReport{rep.UAH, rep.PLN} {
		c.showPair(p)
	}
}

func (c *CLIPresenter) showPair(p rates.PairReport) {
	if !p.OK {
		fmt.Fprintf(c.out, "%s: не удалось получить курс\n", p.Pair)
		c.showChain(p.Chain)
		return
	}
	kind := "коммерческий"
	if p.IsOfficial {
		kind = "официальный"
	}
	fmt.Fprintf(c.out, "%s: %s, покупка %s, продажа %s (%s)\n",
		p.Pair, p.Provider, format.Rate(p.Buy), format.Rate(p.Sell), kind)
	if p.Fallback {
		fmt.Fprintf(c.out, "  использован запасной провайдер вместо %s\n", p.Original)
		c.showChain(p.Chain)
	}
}

func (c *CLIPresenter) showChain(chain domain.Chain) {
	for i, a := range chain {
		status := "ok"
		if !a.Success && a.Error != nil {
			status = a.Error.Label()
		}
		fmt.Fprintf(c.out, "  %d) %s: %s\n", i+1, a.Provider, status)
	}
}

func (c *CLIPresenter) ShowHeld(h rates.Held) {
	fmt.Fprintf(c.out, "Банк: покупка %s, продажа %s ₴/$; карта: %s zł/$\n",
		format.Rate(h.BankBuy), format.Rate(h.BankSell), format.Rate(h.Dest))
}

func (c *CLIPresenter) ShowForward(out *calculator.ForwardOutcome) {
	r := out.Result
	a := out.Applied

	fmt.Fprintf(c.out, "\n=== Прямой расчёт: %s ===\n", format.USD(out.Amount))
	c.showApplied(a)
	fmt.Fprintf(c.out, "Продажа банку:         %s\n", format.UAH(r.Intermediate))
	fmt.Fprintf(c.out, "Обратная покупка:      %s\n", format.USD(r.GrossReturn))
	fmt.Fprintf(c.out, "После фикс-комиссии:   %s\n", format.USD(r.AfterFixedFee))
	fmt.Fprintf(c.out, "Списано с карты банка: %s\n", format.USD(r.Charged))
	fmt.Fprintf(c.out, "Зачислено на карту:    %s\n", format.USD(r.Settled))
	if !r.Effective.Equal(r.Settled) {
		fmt.Fprintf(c.out, "После надбавок тарифа: %s\n", format.USD(r.Effective))
	}
	fmt.Fprintf(c.out, "Конвертация:           %s\n", format.PLN(r.DestAmount))
	if a.Existing.IsPositive() {
		fmt.Fprintf(c.out, "Итого с остатком:      %s\n", format.PLN(r.TotalDestBalance))
	}

	fmt.Fprintln(c.out, "Комиссии:")
	rows := []struct {
		name string
		v    decimal.Decimal
	}{
		{"спред банка + фикс.", r.SpreadLoss},
		{"пополнение (" + string(a.TopUpMethod) + ")", r.TopUpFee},
		{"выходные", r.WeekendFee},
		{"fair use", r.FairUseFee},
	}
	for _, row := range rows {
		if row.v.IsZero() {
			continue
		}
		fmt.Fprintf(c.out, "  %-22s %s\n", row.name, format.USD(row.v))
	}
	fmt.Fprintf(c.out, "  %-22s %s (%s)\n", "всего", format.USD(r.TotalFees), format.Percent(r.TotalFeesPercent))
}

func (c *CLIPresenter) ShowReverse(target string, out *calculator.ReverseOutcome) {
	fmt.Fprintf(c.out, "\n=== Обратный расчёт: %s zł ===\n", target)
	if out == nil || out.Result.IsZero() {
		fmt.Fprintln(c.out, "Цель уже покрыта остатком, переводить ничего не нужно.")
		return
	}
	r := out.Result
	c.showApplied(out.Applied)
	fmt.Fprintf(c.out, "Не хватает:            %s\n", format.PLN(r.DestNeeded))
	fmt.Fprintf(c.out, "Должно дойти до карты: %s\n", format.USD(r.SettledNeeded))
	fmt.Fprintf(c.out, "Списать с карты банка: %s\n", format.USD(r.ChargeNeeded))
	fmt.Fprintf(c.out, "Купить у банка:        %s\n", format.USD(r.AmountToBuy))
	fmt.Fprintf(c.out, "Нужно гривны:          %s\n", format.UAH(r.IntermediateNeeded))
	fmt.Fprintf(c.out, "Продать со счёта ФОП:  %s\n", format.USD(r.SourceNeeded))
}

func (c *CLIPresenter) showApplied(a calculator.Applied) {
	var b strings.Builder
	fmt.Fprintf(&b, "Курсы: %s / %s ₴, %s zł; ", format.Rate(a.BankBuyRate), format.Rate(a.BankSellRate), format.Rate(a.DestRate))
	fmt.Fprintf(&b, "пополнение %s, тариф %s", a.TopUpMethod, a.Policy.Label)
	if a.Weekend {
		b.WriteString(", выходные")
	}
	fmt.Fprintln(c.out, b.String())
}

func (c *CLIPresenter) ShowComparison(amount decimal.Decimal, rows []presenter.ComparisonRow) {
	fmt.Fprintf(c.out, "\n=== Сравнение способов пополнения: %s ===\n", format.USD(amount))
	for i, r := range rows {
		mark := ""
		if i == 0 {
			mark = "  <- лучший"
		}
		fmt.Fprintf(c.out, "%d) %-15s %s, комиссии %s (%s)%s\n",
			i+1, r.Method, format.PLN(r.Dest), format.USD(r.TotalFees), format.Percent(r.Percent), mark)
	}
}
