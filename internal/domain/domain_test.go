package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchErrorLabel(t *testing.T) {
	assert.Equal(t, "http_status(503)", NewHTTPStatus(503).Label())
	assert.Equal(t, "http 503", NewHTTPStatus(503).Error())
	assert.Equal(t, "timeout", NewTimeout(context.DeadlineExceeded).Label())
	assert.Equal(t, "parse: no USD row", NewParse("no %s row", "USD").Error())
	assert.Equal(t, "unknown_provider: kraken", NewUnknownProvider("kraken").Error())
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))

	wrapped := fmt.Errorf("monobank: %w", NewHTTPStatus(429))
	fe := Classify(wrapped)
	require.NotNil(t, fe)
	assert.Equal(t, KindHTTPStatus, fe.Kind)
	assert.Equal(t, 429, fe.StatusCode)

	plain := errors.New("boom")
	fe = Classify(plain)
	assert.Equal(t, KindUnknown, fe.Kind)
	assert.ErrorIs(t, fe, plain)

	assert.ErrorIs(t, NewTimeout(context.DeadlineExceeded), context.DeadlineExceeded)
}

func TestCatalog(t *testing.T) {
	assert.Equal(t, []ProviderID{Monobank, PrivatBank, MinFin, NBU, Binance}, FallbackOrder(PairUAH))
	assert.Equal(t, []ProviderID{ExchangeRate, Frankfurter, NBUPLN}, FallbackOrder(PairPLN))
	assert.Empty(t, FallbackOrder("USD/EUR"))

	assert.Equal(t, Monobank, DefaultProvider(PairUAH))
	assert.Equal(t, ExchangeRate, DefaultProvider(PairPLN))

	info, ok := Lookup(PrivatBank)
	require.True(t, ok)
	assert.True(t, info.NeedsProxy)
	assert.Equal(t, PairUAH, info.Pair)

	_, ok = Lookup("kraken")
	assert.False(t, ok)

	// копия: правка результата не меняет каталог
	c := Catalog()
	c[0].ID = "changed"
	assert.Equal(t, Monobank, Catalog()[0].ID)
}

func TestResolveProxy(t *testing.T) {
	assert.Equal(t, "", ResolveProxy("direct"))
	assert.Equal(t, "https://corsproxy.io/?", ResolveProxy("corsproxy.io"))
	assert.Equal(t, "https://my.proxy/?u=", ResolveProxy("https://my.proxy/?u="))
	assert.Equal(t, "", ResolveProxy(""))
}

func TestChainProviders(t *testing.T) {
	c := Chain{
		{Provider: Monobank, Error: NewTimeout(nil)},
		{Provider: NBU, Success: true},
	}
	assert.Equal(t, []ProviderID{Monobank, NBU}, c.Providers())
}
