package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Базовые доменные сущности

// Pair — одна из двух котируемых пар конвейера.
type Pair string

const (
	PairUAH Pair = "USD/UAH" // банк: USD -> UAH -> USD
	PairPLN Pair = "USD/PLN" // карта: USD -> PLN
)

// RateQuote — нормализованная котировка одного провайдера.
// Для официальных (одиночных) курсов Buy == Sell.
type RateQuote struct {
	Buy        decimal.Decimal `json:"buy"`
	Sell       decimal.Decimal `json:"sell"`
	IsOfficial bool            `json:"isOfficial"`
	Provider   ProviderID      `json:"provider"`
}

// SingleRate собирает котировку из одного курса (buy == sell).
func SingleRate(id ProviderID, rate decimal.Decimal, official bool) RateQuote {
	return RateQuote{Buy: rate, Sell: rate, IsOfficial: official, Provider: id}
}

// Контракт источника котировок
type Provider interface {
	ID() ProviderID
	Quote(ctx context.Context, proxy string) (RateQuote, error)
}

// Attempt — одна попытка в цепочке fallback.
type Attempt struct {
	Provider ProviderID  `json:"provider"`
	Success  bool        `json:"success"`
	Error    *FetchError `json:"error,omitempty"`
}

// Chain — упорядоченный журнал попыток.
type Chain []Attempt

// Providers возвращает провайдеров в порядке попыток.
func (c Chain) Providers() []ProviderID {
	out := make([]ProviderID, 0, len(c))
	for _, a := range c {
		out = append(out, a.Provider)
	}
	return out
}
