// Package cmd — команды CLI fopcalc.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DevWolk/fop-calc/internal/app/realflow"
	"github.com/DevWolk/fop-calc/internal/config"
	"github.com/DevWolk/fop-calc/internal/shared/logging"
	"github.com/DevWolk/fop-calc/internal/transport/cli"
	"github.com/DevWolk/fop-calc/internal/usecase"
)

// env — состояние одного запуска: конфиг и собранное приложение.
type env struct {
	cfgFile string
	verbose bool
	offline bool

	// переопределения rates.*
	uah, pln, proxy string
	fallback        bool

	// тестам: свои адреса провайдеров
	buildOpts []realflow.Option

	app *realflow.App
}

// Execute runs the CLI
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd(&env{}).ExecuteContext(ctx)
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "fopcalc",
		Short: "Calculate a USD transfer from a Ukrainian FOP account to a PLN card",
		Long: `fopcalc walks the chain USD (FOP) -> UAH -> USD -> card -> PLN
with live bank rates, top-up fees and card plan surcharges.

Without a subcommand it asks for the inputs interactively.

Examples:
  fopcalc forward 1000
  fopcalc reverse 4000 --method p2p --plan plus
  fopcalc compare 1500
  fopcalc rates --uah privatbank --proxy allorigins`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if e.app != nil {
				return e.app.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.runInteractive(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.cfgFile, "config", "", "YAML config file (default $"+config.PathEnv+")")
	pf.BoolVarP(&e.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&e.offline, "offline", false, "do not fetch rates, use held/default ones")
	pf.StringVar(&e.uah, "uah", "", "USD/UAH provider")
	pf.StringVar(&e.pln, "pln", "", "USD/PLN provider")
	pf.StringVar(&e.proxy, "proxy", "", "proxy preset name or raw prefix")
	pf.BoolVar(&e.fallback, "fallback", true, "try other providers when the preferred one fails")

	root.AddCommand(newForwardCmd(e), newReverseCmd(e), newCompareCmd(e), newRatesCmd(e), newProvidersCmd())
	return root
}

func (e *env) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(e.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("uah") {
		cfg.Rates.UAHProvider = e.uah
	}
	if flags.Changed("pln") {
		cfg.Rates.PLNProvider = e.pln
	}
	if flags.Changed("proxy") {
		cfg.Rates.Proxy = e.proxy
	}
	if flags.Changed("fallback") {
		cfg.Rates.Fallback = strconv.FormatBool(e.fallback)
	}

	// в CLI лог не мешает выводу: stderr, по умолчанию только предупреждения
	if cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}
	cfg.Log.Level = "warn"
	if e.verbose {
		cfg.Log.Level = "debug"
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	e.app, err = realflow.Build(ctxOf(cmd), cfg, log, e.buildOpts...)
	return err
}

func (e *env) flow(out io.Writer) *usecase.Flow {
	return usecase.NewFlow(e.app.Rates, e.app.Calc, e.app.Settings(), cli.NewCLIPresenterTo(out))
}

func (e *env) runInteractive(cmd *cobra.Command) error {
	params := cli.GetInteractiveParams(cmd.InOrStdin(), cmd.OutOrStdout())

	in := usecase.FlowInput{
		Direction: usecase.Forward,
		Amount:    params.Amount,
		Refresh:   !e.offline,
	}
	if params.Action == cli.ActionReverse {
		in.Direction = usecase.Reverse
	}
	in.Options.TopUpMethod = params.TopUpMethod
	in.Options.Plan = params.Plan
	in.Options.ExistingBalance = params.Existing

	return e.flow(cmd.OutOrStdout()).Run(ctxOf(cmd), in)
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
