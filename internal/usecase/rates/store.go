package rates

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/shared/money"
)

var ErrNotHeld = errors.New("rate not held")

// Snapshot — удерживаемая котировка пары.
type Snapshot struct {
	Quote     domain.RateQuote `json:"quote"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Store хранит последние успешные котировки. Get без значения -> ErrNotHeld.
type Store interface {
	Get(ctx context.Context, pair domain.Pair) (Snapshot, error)
	Put(ctx context.Context, pair domain.Pair, snap Snapshot) error
}

// Defaults — стартовые курсы до первого обновления.
func Defaults() map[domain.Pair]domain.RateQuote {
	return map[domain.Pair]domain.RateQuote{
		domain.PairUAH: {Buy: money.MustParse("42.50"), Sell: money.MustParse("43.10")},
		domain.PairPLN: {Buy: money.MustParse("3.95"), Sell: money.MustParse("3.95")},
	}
}

// MemoryStore — хранилище в памяти процесса, засеянное Defaults.
type MemoryStore struct {
	mu   sync.RWMutex
	held map[domain.Pair]Snapshot
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{held: make(map[domain.Pair]Snapshot)}
	for pair, q := range Defaults() {
		s.held[pair] = Snapshot{Quote: q}
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, pair domain.Pair) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.held[pair]
	if !ok {
		return Snapshot{}, ErrNotHeld
	}
	return snap, nil
}

func (s *MemoryStore) Put(_ context.Context, pair domain.Pair, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held[pair] = snap
	return nil
}
