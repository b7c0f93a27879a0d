package rates

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/infra/metrics"
)

// Providers — источник провайдеров по id (quotes.Registry).
type Providers interface {
	Get(id domain.ProviderID) (domain.Provider, error)
}

// Request — что и как разрешать.
type Request struct {
	Pair      domain.Pair
	Preferred domain.ProviderID
	// Order — приоритет fallback; пусто — порядок каталога для пары.
	Order    []domain.ProviderID
	Proxy    string
	Fallback bool
}

// Resolution — успешный итог: котировка и журнал попыток.
type Resolution struct {
	Pair     domain.Pair       `json:"pair"`
	Quote    domain.RateQuote  `json:"quote"`
	Chain    domain.Chain      `json:"chain"`
	Fallback bool              `json:"fallback"`
	Original domain.ProviderID `json:"originalProvider,omitempty"`
}

// ResolveError — все попытки провалились.
type ResolveError struct {
	Pair      domain.Pair
	Preferred domain.ProviderID
	Chain     domain.Chain
}

// Error: "monobank: timeout; privatbank: http_status(503)".
func (e *ResolveError) Error() string {
	parts := make([]string, 0, len(e.Chain))
	for _, a := range e.Chain {
		label := "error"
		if a.Error != nil {
			label = a.Error.Label()
		}
		parts = append(parts, string(a.Provider)+": "+label)
	}
	return strings.Join(parts, "; ")
}

type Resolver struct {
	providers Providers
	log       *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewResolver(providers Providers, log *zap.Logger, m *metrics.Metrics) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{providers: providers, log: log.Named("resolver"), metrics: m, now: time.Now}
}

// Resolve пробует Preferred, затем (если разрешено) остальных строго по
// порядку, по одному. Первый успех завершает разрешение.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolution, error) {
	order := req.Order
	if len(order) == 0 {
		order = domain.FallbackOrder(req.Pair)
	}
	preferred := req.Preferred
	if preferred == "" {
		preferred = domain.DefaultProvider(req.Pair)
	}

	var chain domain.Chain
	quote, err := r.attempt(ctx, req.Pair, preferred, req.Proxy)
	chain = append(chain, attemptOf(preferred, err))
	if err == nil {
		r.metrics.ObserveResolution(string(req.Pair), true, false)
		return Resolution{Pair: req.Pair, Quote: quote, Chain: chain}, nil
	}

	if req.Fallback {
		for _, id := range order {
			if id == preferred {
				continue
			}
			quote, err = r.attempt(ctx, req.Pair, id, req.Proxy)
			chain = append(chain, attemptOf(id, err))
			if err == nil {
				r.log.Warn("fallback provider used",
					zap.String("pair", string(req.Pair)),
					zap.String("preferred", string(preferred)),
					zap.String("fallback", string(id)),
					zap.String("chain", (&ResolveError{Chain: chain[:len(chain)-1]}).Error()),
				)
				r.metrics.ObserveResolution(string(req.Pair), true, true)
				return Resolution{Pair: req.Pair, Quote: quote, Chain: chain, Fallback: true, Original: preferred}, nil
			}
		}
	}

	r.metrics.ObserveResolution(string(req.Pair), false, req.Fallback)
	rerr := &ResolveError{Pair: req.Pair, Preferred: preferred, Chain: chain}
	r.log.Error("rate resolution failed", zap.String("pair", string(req.Pair)), zap.String("chain", rerr.Error()))
	return Resolution{}, rerr
}

func (r *Resolver) attempt(ctx context.Context, pair domain.Pair, id domain.ProviderID, proxy string) (domain.RateQuote, error) {
	start := r.now()
	q, err := r.quote(ctx, pair, id, proxy)
	took := r.now().Sub(start)

	if err != nil {
		fe := domain.Classify(err)
		r.log.Debug("provider failed",
			zap.String("pair", string(pair)),
			zap.String("provider", string(id)),
			zap.String("kind", fe.Label()),
			zap.Error(err),
		)
		r.metrics.ObserveAttempt(string(pair), string(id), string(fe.Kind), took)
		return domain.RateQuote{}, fe
	}
	r.metrics.ObserveAttempt(string(pair), string(id), "", took)
	return q, nil
}

// quote: провайдер чужой пары не опрашивается, иначе его курс
// попал бы в удерживаемые как курс этой пары.
func (r *Resolver) quote(ctx context.Context, pair domain.Pair, id domain.ProviderID, proxy string) (domain.RateQuote, error) {
	if info, ok := domain.Lookup(id); ok && pair != "" && info.Pair != pair {
		return domain.RateQuote{}, domain.NewPairMismatch(id, pair, info.Pair)
	}
	p, err := r.providers.Get(id)
	if err != nil {
		return domain.RateQuote{}, err
	}
	q, err := p.Quote(ctx, proxy)
	if err != nil {
		return domain.RateQuote{}, err
	}
	if q.Provider == "" {
		q.Provider = id
	}
	return q, nil
}

func attemptOf(id domain.ProviderID, err error) domain.Attempt {
	if err == nil {
		return domain.Attempt{Provider: id, Success: true}
	}
	return domain.Attempt{Provider: id, Error: domain.Classify(err)}
}
