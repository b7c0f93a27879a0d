package binanceadapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gbinance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/infra/httpfetch"
	"github.com/DevWolk/fop-calc/internal/shared/retry"
)

// Symbol — стакан USDT/UAH: рыночный ориентир курса доллара.
const Symbol = "USDTUAH"

// BinanceExchange — провайдер USD/UAH по лучшим bid/ask Binance.
type BinanceExchange struct {
	client   *gbinance.Client
	timeout  time.Duration
	attempts int
	backoff  time.Duration
}

// New без ключей: book ticker публичный.
func New(timeout time.Duration) *BinanceExchange {
	if timeout <= 0 {
		timeout = httpfetch.DefaultTimeout
	}
	client := gbinance.NewClient("", "")
	client.HTTPClient = &http.Client{Transport: statusTransport{next: http.DefaultTransport}}
	return &BinanceExchange{client: client, timeout: timeout, attempts: 1, backoff: 300 * time.Millisecond}
}

// WithRetries — повторы на тех же условиях, что и у httpfetch.Fetcher.
func (b *BinanceExchange) WithRetries(attempts int, backoff time.Duration) *BinanceExchange {
	b.attempts = attempts
	b.backoff = backoff
	return b
}

type statusKey struct{}

// statusTransport запоминает HTTP-код ответа: SDK на любой код >= 400
// отдаёт только разобранное тело (common.APIError), без статуса.
type statusTransport struct{ next http.RoundTripper }

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.next.RoundTrip(req)
	if res != nil {
		if code, ok := req.Context().Value(statusKey{}).(*int); ok {
			*code = res.StatusCode
		}
	}
	return res, err
}

// WithBaseURL перенаправляет клиент (тесты, зеркала API).
func (b *BinanceExchange) WithBaseURL(u string) *BinanceExchange {
	b.client.BaseURL = u
	return b
}

func (b *BinanceExchange) ID() domain.ProviderID { return domain.Binance }

// Quote: buy = лучший bid, sell = лучший ask. Прокси не нужен.
func (b *BinanceExchange) Quote(ctx context.Context, _ string) (domain.RateQuote, error) {
	var tickers []*gbinance.BookTicker
	err := retry.WithRetry(ctx, b.attempts, b.backoff, httpfetch.Transient, func() error {
		var err error
		tickers, err = b.once(ctx)
		return err
	})
	if err != nil {
		return domain.RateQuote{}, err
	}

	for _, t := range tickers {
		if t == nil || t.Symbol != Symbol {
			continue
		}
		bid, errBid := decimal.NewFromString(t.BidPrice)
		ask, errAsk := decimal.NewFromString(t.AskPrice)
		if errBid != nil || errAsk != nil || !bid.IsPositive() || !ask.IsPositive() {
			return domain.RateQuote{}, domain.NewParse("binance: bad book ticker %s/%s", t.BidPrice, t.AskPrice)
		}
		return domain.RateQuote{Buy: bid, Sell: ask, Provider: domain.Binance}, nil
	}
	return domain.RateQuote{}, domain.NewParse("binance: %s not found", Symbol)
}

func (b *BinanceExchange) once(ctx context.Context) ([]*gbinance.BookTicker, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var status int
	tickers, err := b.client.NewListBookTickersService().Symbol(Symbol).Do(context.WithValue(ctx, statusKey{}, &status))
	if err == nil {
		return tickers, nil
	}

	if status >= http.StatusBadRequest {
		fe := domain.NewHTTPStatus(status)
		fe.Err = err
		var apiErr *common.APIError
		if errors.As(err, &apiErr) {
			fe.Message = fmt.Sprintf("binance: code %d: %s", apiErr.Code, apiErr.Message)
		}
		return nil, fe
	}
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return nil, &domain.FetchError{
			Kind:    domain.KindUnknown,
			Message: fmt.Sprintf("binance: code %d: %s", apiErr.Code, apiErr.Message),
			Err:     err,
		}
	}
	return nil, httpfetch.ClassifyTransport(ctx, err)
}
