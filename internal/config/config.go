package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/shared/logging"
	"github.com/DevWolk/fop-calc/internal/usecase/calculator"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
	"github.com/DevWolk/fop-calc/internal/usecase/rates"
)

// PathEnv — переменная с путём к YAML-конфигу.
const PathEnv = "FOPCALC_CONFIG_PATH"

type Config struct {
	HTTP  HTTP           `yaml:"http"`
	Log   logging.Config `yaml:"log"`
	Rates Rates          `yaml:"rates"`
	Calc  Calc           `yaml:"calc"`
	Redis Redis          `yaml:"redis"`
}

type HTTP struct {
	Addr              string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"HTTP_READ_HEADER_TIMEOUT" env-default:"5s"`
}

type Rates struct {
	UAHProvider string `yaml:"uah_provider" env:"RATES_UAH_PROVIDER" env-default:"monobank"`
	PLNProvider string `yaml:"pln_provider" env:"RATES_PLN_PROVIDER" env-default:"exchangerate"`
	Proxy       string `yaml:"proxy" env:"RATES_PROXY" env-default:"corsproxy.io"`
	// строкой: у bool нулевое значение false перетирается env-default
	Fallback     string        `yaml:"fallback" env:"RATES_FALLBACK" env-default:"true"`
	Timeout      time.Duration `yaml:"timeout" env:"RATES_TIMEOUT" env-default:"8s"`
	Retries      int           `yaml:"retries" env:"RATES_RETRIES" env-default:"1"`
	RetryBackoff time.Duration `yaml:"retry_backoff" env:"RATES_RETRY_BACKOFF" env-default:"300ms"`
}

type Calc struct {
	FixedBankFee string `yaml:"fixed_bank_fee" env:"CALC_FIXED_BANK_FEE" env-default:"1.17"`
	TopUpMethod  string `yaml:"top_up_method" env:"CALC_TOP_UP_METHOD" env-default:"googlepay_mc"`
	Plan         string `yaml:"plan" env:"CALC_PLAN" env-default:"standard"`
	// auto | true | false
	Weekend string `yaml:"weekend" env:"CALC_WEEKEND" env-default:"auto"`
}

type Redis struct {
	// пусто — курсы держатся в памяти процесса
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"0"`
}

// Load читает .env (если есть), затем YAML по path (если задан) и окружение.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv(PathEnv)
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) Validate() error {
	if _, err := decimal.NewFromString(c.Calc.FixedBankFee); err != nil {
		return fmt.Errorf("calc.fixed_bank_fee: %w", err)
	}
	if _, ok := fees.ForMethod(fees.Method(c.Calc.TopUpMethod)); !ok {
		return fmt.Errorf("calc.top_up_method: %w: %q", domain.ErrUnknownTopUp, c.Calc.TopUpMethod)
	}
	if _, ok := plan.ForTier(plan.Tier(c.Calc.Plan)); !ok {
		return fmt.Errorf("calc.plan: %w: %q", domain.ErrUnknownPlan, c.Calc.Plan)
	}
	if _, err := ParseWeekend(c.Calc.Weekend); err != nil {
		return fmt.Errorf("calc.weekend: %w", err)
	}
	if _, err := strconv.ParseBool(c.Rates.Fallback); err != nil {
		return fmt.Errorf("rates.fallback: %w", err)
	}
	for _, p := range []struct {
		id   string
		pair domain.Pair
	}{{c.Rates.UAHProvider, domain.PairUAH}, {c.Rates.PLNProvider, domain.PairPLN}} {
		info, ok := domain.Lookup(domain.ProviderID(p.id))
		if !ok || info.Pair != p.pair {
			return fmt.Errorf("rates: provider %q is not a %s provider", p.id, p.pair)
		}
	}
	return nil
}

// CalcDefaults — настройки калькулятора. Вызывать после Validate.
func (c *Config) CalcDefaults() calculator.Defaults {
	weekend, _ := ParseWeekend(c.Calc.Weekend)
	return calculator.Defaults{
		FixedBankFee: decimal.RequireFromString(c.Calc.FixedBankFee),
		TopUpMethod:  fees.Method(c.Calc.TopUpMethod),
		Plan:         plan.Tier(c.Calc.Plan),
		Weekend:      weekend,
	}
}

func (c *Config) RateSettings() rates.Settings {
	return rates.Settings{
		UAHProvider: domain.ProviderID(c.Rates.UAHProvider),
		PLNProvider: domain.ProviderID(c.Rates.PLNProvider),
		Proxy:       c.Rates.Proxy,
		Fallback:    c.FallbackEnabled(),
	}
}

func (c *Config) FallbackEnabled() bool {
	v, _ := strconv.ParseBool(c.Rates.Fallback)
	return v
}

// ParseWeekend: auto (nil) | true | false.
func ParseWeekend(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return nil, nil
	case "true", "yes", "1":
		v := true
		return &v, nil
	case "false", "no", "0":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("want auto|true|false, got %q", s)
	}
}
