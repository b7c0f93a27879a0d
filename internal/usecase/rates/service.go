package rates

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DevWolk/fop-calc/internal/domain"
)

// Settings — выбор пользователя: провайдеры, прокси, fallback.
type Settings struct {
	UAHProvider domain.ProviderID `json:"uahProvider"`
	PLNProvider domain.ProviderID `json:"plnProvider"`
	Proxy       string            `json:"proxy"`
	Fallback    bool              `json:"fallback"`
}

// PairReport — итог обновления одной пары.
type PairReport struct {
	Pair       domain.Pair       `json:"pair"`
	OK         bool              `json:"ok"`
	Provider   domain.ProviderID `json:"provider,omitempty"`
	Fallback   bool              `json:"fallback"`
	Original   domain.ProviderID `json:"originalProvider,omitempty"`
	IsOfficial bool              `json:"isOfficial"`
	Buy        decimal.Decimal   `json:"buy"`
	Sell       decimal.Decimal   `json:"sell"`
	Chain      domain.Chain      `json:"chain"`
	Error      string            `json:"error,omitempty"`
}

// Report — итог Refresh по обеим парам.
type Report struct {
	UAH PairReport `json:"uah"`
	PLN PairReport `json:"pln"`
	At  time.Time  `json:"at"`
}

// Err объединяет ошибки пар; nil, если обе пары обновлены.
func (r Report) Err() error {
	var errs []error
	for _, p := range []PairReport{r.UAH, r.PLN} {
		if !p.OK {
			errs = append(errs, fmt.Errorf("%s: %s", p.Pair, p.Error))
		}
	}
	return errors.Join(errs...)
}

// Held — курсы, на которых считается конвейер.
type Held struct {
	BankBuy  decimal.Decimal `json:"bankBuyRate"`
	BankSell decimal.Decimal `json:"bankSellRate"`
	Dest     decimal.Decimal `json:"destRate"`
	UAH      Snapshot        `json:"uah"`
	PLN      Snapshot        `json:"pln"`
}

type Service struct {
	resolver *Resolver
	store    Store
	log      *zap.Logger
	now      func() time.Time
	held     sync.Map // пары, записанные в store этим сервисом
}

func NewService(resolver *Resolver, store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Service{resolver: resolver, store: store, log: log.Named("rates"), now: time.Now}
}

// Refresh разрешает обе пары параллельно; внутри пары попытки идут
// последовательно. В хранилище пишутся только успешные пары.
func (s *Service) Refresh(ctx context.Context, st Settings) Report {
	rep := Report{At: s.now()}

	var g errgroup.Group
	g.Go(func() error {
		rep.UAH = s.refreshPair(ctx, Request{Pair: domain.PairUAH, Preferred: st.UAHProvider, Proxy: st.Proxy, Fallback: st.Fallback})
		return nil
	})
	g.Go(func() error {
		rep.PLN = s.refreshPair(ctx, Request{Pair: domain.PairPLN, Preferred: st.PLNProvider, Proxy: st.Proxy, Fallback: st.Fallback})
		return nil
	})
	_ = g.Wait()

	return rep
}

func (s *Service) refreshPair(ctx context.Context, req Request) PairReport {
	rep := PairReport{Pair: req.Pair}

	res, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		rep.Error = err.Error()
		var rerr *ResolveError
		if errors.As(err, &rerr) {
			rep.Chain = rerr.Chain
		}
		return rep
	}

	rep.OK = true
	rep.Provider = res.Quote.Provider
	rep.Fallback = res.Fallback
	rep.Original = res.Original
	rep.IsOfficial = res.Quote.IsOfficial
	rep.Buy = res.Quote.Buy
	rep.Sell = res.Quote.Sell
	rep.Chain = res.Chain

	if err := s.store.Put(ctx, req.Pair, Snapshot{Quote: res.Quote, UpdatedAt: s.now()}); err != nil {
		s.log.Warn("failed to hold quote", zap.String("pair", string(req.Pair)), zap.Error(err))
		return rep
	}
	s.held.Store(req.Pair, struct{}{})
	return rep
}

// Snapshot возвращает удерживаемую котировку пары, при отсутствии — значение по умолчанию.
// Если пара уже удерживалась и пропала из store (истёк TTL), это пишется в WARN.
func (s *Service) Snapshot(ctx context.Context, pair domain.Pair) (Snapshot, error) {
	snap, err := s.store.Get(ctx, pair)
	if errors.Is(err, ErrNotHeld) {
		q, ok := Defaults()[pair]
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: %s", domain.ErrUnknownPair, pair)
		}
		if _, was := s.held.Load(pair); was {
			s.log.Warn("held quote is gone, using defaults", zap.String("pair", string(pair)))
		}
		return Snapshot{Quote: q}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", pair, err)
	}
	return snap, nil
}

// Held собирает курсы конвейера из удерживаемых котировок.
func (s *Service) Held(ctx context.Context) (Held, error) {
	uah, err := s.Snapshot(ctx, domain.PairUAH)
	if err != nil {
		return Held{}, err
	}
	pln, err := s.Snapshot(ctx, domain.PairPLN)
	if err != nil {
		return Held{}, err
	}
	return Held{
		BankBuy:  uah.Quote.Buy,
		BankSell: uah.Quote.Sell,
		Dest:     pln.Quote.Buy,
		UAH:      uah,
		PLN:      pln,
	}, nil
}
