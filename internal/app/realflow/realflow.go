package realflow

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	binanceadapter "github.com/DevWolk/fop-calc/internal/adapters/exchange/binance"
	"github.com/DevWolk/fop-calc/internal/adapters/quotes"
	"github.com/DevWolk/fop-calc/internal/config"
	"github.com/DevWolk/fop-calc/internal/infra/httpfetch"
	"github.com/DevWolk/fop-calc/internal/infra/metrics"
	"github.com/DevWolk/fop-calc/internal/infra/quotestore"
	"github.com/DevWolk/fop-calc/internal/usecase/calculator"
	"github.com/DevWolk/fop-calc/internal/usecase/rates"
)

// App — приложение, собранное на реальных источниках курсов.
// Один экземпляр на процесс: его делят CLI и HTTP.
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Rates    *rates.Service
	Calc     *calculator.Service

	redis *redis.Client
}

type options struct {
	quotes     []quotes.RegistryOption
	binanceURL string
}

type Option func(*options)

// WithQuoteOptions пробрасывает опции реестра (адреса провайдеров).
func WithQuoteOptions(opts ...quotes.RegistryOption) Option {
	return func(o *options) { o.quotes = append(o.quotes, opts...) }
}

// WithBinanceURL перенаправляет SDK Binance.
func WithBinanceURL(u string) Option {
	return func(o *options) { o.binanceURL = u }
}

// Build: config -> metrics -> fetcher -> провайдеры -> resolver -> store -> сервисы.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	fetcher := httpfetch.New(log,
		httpfetch.WithTimeout(cfg.Rates.Timeout),
		httpfetch.WithRetries(cfg.Rates.Retries, cfg.Rates.RetryBackoff),
	)

	bn := binanceadapter.New(cfg.Rates.Timeout).WithRetries(cfg.Rates.Retries, cfg.Rates.RetryBackoff)
	if o.binanceURL != "" {
		bn.WithBaseURL(o.binanceURL)
	}
	registry := quotes.NewRegistry(fetcher, append(o.quotes, quotes.WithProvider(bn))...)

	app := &App{Config: cfg, Log: log, Registry: reg, Metrics: m}

	store := app.openStore(ctx)
	app.Rates = rates.NewService(rates.NewResolver(registry, log, m), store, log)
	app.Calc = calculator.New(app.Rates, cfg.CalcDefaults(), m)

	log.Info("app built",
		zap.String("uah_provider", cfg.Rates.UAHProvider),
		zap.String("pln_provider", cfg.Rates.PLNProvider),
		zap.String("proxy", cfg.Rates.Proxy),
		zap.Bool("fallback", cfg.FallbackEnabled()),
		zap.Bool("redis", app.redis != nil),
	)
	return app, nil
}

// openStore: Redis, если задан адрес и он отвечает; иначе память процесса.
func (a *App) openStore(ctx context.Context) rates.Store {
	rc := a.Config.Redis
	if rc.Addr == "" {
		return rates.NewMemoryStore()
	}

	client := quotestore.NewClient(quotestore.Config{Addr: rc.Addr, Password: rc.Password, DB: rc.DB, TTL: rc.TTL})
	store := quotestore.NewRedisStore(client, rc.TTL, a.Log)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := store.HealthCheck(pingCtx); err != nil {
		a.Log.Warn("redis unavailable, holding quotes in memory", zap.String("addr", rc.Addr), zap.Error(err))
		_ = client.Close()
		return rates.NewMemoryStore()
	}

	a.redis = client
	return store
}

func (a *App) Settings() rates.Settings { return a.Config.RateSettings() }

// Close освобождает соединения.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
