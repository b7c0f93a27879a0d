package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — счётчики получения курсов и расчётов.
type Metrics struct {
	// Попытки провайдеров: outcome = success|failure, kind — класс ошибки
	RateAttempts *prometheus.CounterVec

	// Итог разрешения пары: result = ok|failed, fallback = true|false
	RateResolutions *prometheus.CounterVec

	FetchDuration *prometheus.HistogramVec

	// Расчёты: direction = forward|reverse
	Calculations *prometheus.CounterVec
}

// New регистрирует метрики в reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RateAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fopcalc_rate_attempts_total",
				Help: "Попытки получить курс у провайдера",
			},
			[]string{"pair", "provider", "outcome", "kind"},
		),
		RateResolutions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fopcalc_rate_resolutions_total",
				Help: "Разрешения курса пары с учётом fallback",
			},
			[]string{"pair", "result", "fallback"},
		),
		FetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fopcalc_rate_fetch_duration_seconds",
				Help:    "Время ответа провайдера в секундах",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms ... 6.4s
			},
			[]string{"provider"},
		),
		Calculations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fopcalc_calculations_total",
				Help: "Выполненные расчёты",
			},
			[]string{"direction"},
		),
	}
}

// Nop — метрики на отдельном реестре, для тестов и CLI.
func Nop() *Metrics { return New(prometheus.NewRegistry()) }

func (m *Metrics) ObserveAttempt(pair, provider string, kind string, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if kind != "" {
		outcome = "failure"
	}
	m.RateAttempts.WithLabelValues(pair, provider, outcome, kind).Inc()
	m.FetchDuration.WithLabelValues(provider).Observe(took.Seconds())
}

func (m *Metrics) ObserveResolution(pair string, ok, fallback bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	fb := "false"
	if fallback {
		fb = "true"
	}
	m.RateResolutions.WithLabelValues(pair, result, fb).Inc()
}

func (m *Metrics) ObserveCalculation(direction string) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(direction).Inc()
}
