package httpfetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/shared/retry"
)

const (
	DefaultTimeout = 8 * time.Second
	maxBody        = 4 << 20
)

// Fetcher — GET одного JSON-документа с жёстким дедлайном.
// Любая ошибка возвращается как *domain.FetchError.
type Fetcher struct {
	http    *http.Client
	timeout time.Duration
	retries int
	backoff time.Duration
	log     *zap.Logger
}

type Option func(*Fetcher)

// WithClient подменяет http-клиент (тесты, прокси на уровне транспорта).
func WithClient(c *http.Client) Option { return func(f *Fetcher) { f.http = c } }

func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithRetries: attempts — общее число попыток, повторяются только
// таймауты, сетевые сбои, 429 и 5xx.
func WithRetries(attempts int, backoff time.Duration) Option {
	return func(f *Fetcher) {
		f.retries = attempts
		f.backoff = backoff
	}
}

func New(log *zap.Logger, opts ...Option) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Fetcher{
		http:    &http.Client{},
		timeout: DefaultTimeout,
		retries: 1,
		backoff: 300 * time.Millisecond,
		log:     log.Named("fetch"),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *Fetcher) Timeout() time.Duration { return f.timeout }

// Fetch возвращает сырое тело ответа; тело гарантированно валидный JSON.
func (f *Fetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	var body []byte
	err := retry.WithRetry(ctx, f.retries, f.backoff, Transient, func() error {
		var err error
		body, err = f.once(ctx, target)
		return err
	})
	if err != nil {
		fe := domain.Classify(err)
		f.log.Debug("fetch failed", zap.String("url", target), zap.String("kind", fe.Label()), zap.Error(err))
		return nil, fe
	}
	return body, nil
}

func (f *Fetcher) once(ctx context.Context, target string) ([]byte, error) {
	// дедлайн снимается на любом пути выхода
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, domain.Classify(err)
	}
	req.Header.Set("User-Agent", "fopcalc/httpfetch")
	req.Header.Set("Accept", "application/json")

	res, err := f.http.Do(req)
	if err != nil {
		return nil, ClassifyTransport(ctx, err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBody))
		return nil, domain.NewHTTPStatus(res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, ClassifyTransport(ctx, err)
	}
	if !json.Valid(body) {
		return nil, domain.NewParse("response is not valid json")
	}
	return body, nil
}

// ClassifyTransport раскладывает ошибку http-клиента по классам сбоев.
func ClassifyTransport(ctx context.Context, err error) *domain.FetchError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.NewTimeout(err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.NewTimeout(err)
	}
	if errors.Is(err, context.Canceled) {
		return domain.Classify(err)
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return domain.NewNetworkBlocked(err)
	}
	return domain.Classify(err)
}

// Transient — сбои, которые имеет смысл повторить: таймаут, сеть, 429 и 5xx.
func Transient(err error) bool {
	fe := domain.Classify(err)
	switch fe.Kind {
	case domain.KindTimeout, domain.KindNetworkBlocked:
		return true
	case domain.KindHTTPStatus:
		return fe.StatusCode == http.StatusTooManyRequests || fe.StatusCode >= 500
	default:
		return false
	}
}
