package quotes

import (
	"context"
	"net/url"

	"github.com/DevWolk/fop-calc/internal/domain"
)

// Getter — транспорт с дедлайном (httpfetch.Fetcher).
type Getter interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Source — HTTP-провайдер: адрес + парсер.
type Source struct {
	info     domain.ProviderInfo
	endpoint string
	parse    Parser
	get      Getter
}

func NewSource(info domain.ProviderInfo, endpoint string, parse Parser, get Getter) *Source {
	return &Source{info: info, endpoint: endpoint, parse: parse, get: get}
}

func (s *Source) ID() domain.ProviderID { return s.info.ID }

// Quote запрашивает и разбирает котировку. Прокси применяется только
// к провайдерам, которым он нужен.
func (s *Source) Quote(ctx context.Context, proxy string) (domain.RateQuote, error) {
	target := s.endpoint
	if s.info.NeedsProxy {
		target = WithProxy(target, domain.ResolveProxy(proxy))
	}
	raw, err := s.get.Fetch(ctx, target)
	if err != nil {
		return domain.RateQuote{}, err
	}
	return s.parse(raw)
}

// WithProxy: prefix + URL-экранированный адрес.
func WithProxy(target, prefix string) string {
	if prefix == "" {
		return target
	}
	return prefix + url.QueryEscape(target)
}
