package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/shared/format"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
)

func newRatesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Fetch USD/UAH and USD/PLN rates and show the fallback chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flow := e.flow(cmd.OutOrStdout())
			if e.offline {
				return flow.ShowHeld(ctxOf(cmd))
			}
			// ошибка одной пары не фатальна: отчёт уже напечатан
			if err := flow.RefreshRates(ctxOf(cmd)); err != nil {
				cmd.PrintErrf("курсы обновлены не полностью: %v\n", err)
			}
			return nil
		},
	}
}

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List rate providers, proxy presets, top-up methods and card plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

			fmt.Fprintln(w, "PROVIDER\tPAIR\tTYPE\tUPDATES\tPROXY")
			for _, p := range domain.Catalog() {
				needs := ""
				if p.NeedsProxy {
					needs = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Pair, p.RateType, p.Updates, needs)
			}

			fmt.Fprintln(w, "\nPROXY PRESET\tPREFIX")
			for _, p := range domain.Proxies() {
				fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Prefix)
			}

			fmt.Fprintln(w, "\nTOP-UP METHOD\tKIND\tRATE")
			for _, id := range fees.Methods() {
				m, _ := fees.ForMethod(id)
				fmt.Fprintf(w, "%s\t%s\t%s\n", id, m.Kind(), format.Percent(m.Rate().Shift(2)))
			}

			fmt.Fprintln(w, "\nPLAN\tWEEKEND\tFAIR USE\tLIMIT")
			for _, t := range plan.Tiers() {
				p, _ := plan.ForTier(t)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t,
					format.Percent(p.WeekendFee.Shift(2)), format.Percent(p.FairUseFee.Shift(2)), p.FairUseLimit)
			}
			return w.Flush()
		},
	}
}
