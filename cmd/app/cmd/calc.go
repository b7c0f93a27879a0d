package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/DevWolk/fop-calc/internal/config"
	"github.com/DevWolk/fop-calc/internal/transport/cli"
	"github.com/DevWolk/fop-calc/internal/usecase"
	"github.com/DevWolk/fop-calc/internal/usecase/calculator"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
)

// calcFlags — параметры расчёта; пустые строки = взять из курсов/конфига.
type calcFlags struct {
	bankBuy, bankSell, destRate, fee string
	method, plan, weekend            string
	existing                         string
}

func (f *calcFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.bankBuy, "bank-buy", "", "UAH per USD the bank pays (default: held rate)")
	fl.StringVar(&f.bankSell, "bank-sell", "", "UAH per USD the bank charges (default: held rate)")
	fl.StringVar(&f.destRate, "dest-rate", "", "PLN per USD on the card (default: held rate)")
	fl.StringVar(&f.fee, "fee", "", "fixed bank fee in USD (default from config)")
	fl.StringVarP(&f.method, "method", "m", "", "top-up method: googlepay_mc, googlepay_visa, card_mc, card_visa, p2p")
	fl.StringVarP(&f.plan, "plan", "p", "", "card plan: standard, plus, premium, metal, ultra")
	fl.StringVar(&f.weekend, "weekend", "auto", "weekend surcharge: auto, true, false")
	fl.StringVar(&f.existing, "existing", "0", "PLN already on the card")
}

func (f *calcFlags) options() (calculator.Options, error) {
	var opts calculator.Options
	for _, v := range []struct {
		name string
		raw  string
		dst  *decimal.NullDecimal
	}{
		{"bank-buy", f.bankBuy, &opts.BankBuyRate},
		{"bank-sell", f.bankSell, &opts.BankSellRate},
		{"dest-rate", f.destRate, &opts.DestRate},
		{"fee", f.fee, &opts.FixedBankFee},
	} {
		if v.raw == "" {
			continue
		}
		d, err := cli.ParseAmount(v.raw)
		if err != nil {
			return opts, fmt.Errorf("--%s: %w", v.name, err)
		}
		*v.dst = decimal.NewNullDecimal(d)
	}

	existing, err := cli.ParseAmount(f.existing)
	if err != nil {
		return opts, fmt.Errorf("--existing: %w", err)
	}
	opts.ExistingBalance = existing

	weekend, err := config.ParseWeekend(f.weekend)
	if err != nil {
		return opts, fmt.Errorf("--weekend: %w", err)
	}
	opts.Weekend = weekend
	opts.TopUpMethod = fees.Method(f.method)
	opts.Plan = plan.Tier(f.plan)
	return opts, nil
}

// amountArg: из аргумента или вопросом в терминале.
func amountArg(cmd *cobra.Command, args []string, prompt string, def decimal.Decimal) (decimal.Decimal, error) {
	if len(args) == 0 {
		return cli.AskAmount(cmd.InOrStdin(), cmd.OutOrStdout(), prompt, def), nil
	}
	v, err := cli.ParseAmount(args[0])
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", args[0], err)
	}
	return v, nil
}

func newForwardCmd(e *env) *cobra.Command {
	var f calcFlags
	cmd := &cobra.Command{
		Use:   "forward [usd]",
		Short: "How many PLN a USD amount turns into",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			amount, err := amountArg(cmd, args, "Сколько USD на счёте ФОП? (Enter = 1000): ", decimal.NewFromInt(1000))
			if err != nil {
				return err
			}
			return e.flow(cmd.OutOrStdout()).Run(ctxOf(cmd), usecase.FlowInput{
				Direction: usecase.Forward,
				Amount:    amount,
				Options:   opts,
				Refresh:   !e.offline,
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newReverseCmd(e *env) *cobra.Command {
	var f calcFlags
	cmd := &cobra.Command{
		Use:   "reverse [pln]",
		Short: "How many USD to sell to end up with a PLN amount",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			target, err := amountArg(cmd, args, "Сколько PLN нужно на карте? (Enter = 4000): ", decimal.NewFromInt(4000))
			if err != nil {
				return err
			}
			return e.flow(cmd.OutOrStdout()).Run(ctxOf(cmd), usecase.FlowInput{
				Direction: usecase.Reverse,
				Amount:    target,
				Options:   opts,
				Refresh:   !e.offline,
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newCompareCmd(e *env) *cobra.Command {
	var f calcFlags
	cmd := &cobra.Command{
		Use:   "compare [usd]",
		Short: "Compare all top-up methods for a USD amount",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options()
			if err != nil {
				return err
			}
			amount, err := amountArg(cmd, args, "Сколько USD на счёте ФОП? (Enter = 1000): ", decimal.NewFromInt(1000))
			if err != nil {
				return err
			}
			flow := e.flow(cmd.OutOrStdout())
			if !e.offline {
				if err := flow.RefreshRates(ctxOf(cmd)); err != nil {
					cmd.PrintErrf("курсы обновлены не полностью: %v\n", err)
				}
			}
			return flow.Compare(ctxOf(cmd), amount, opts)
		},
	}
	f.bind(cmd)
	return cmd
}
