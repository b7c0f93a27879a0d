package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevWolk/fop-calc/internal/adapters/quotes"
	"github.com/DevWolk/fop-calc/internal/app/realflow"
	"github.com/DevWolk/fop-calc/internal/config"
	"github.com/DevWolk/fop-calc/internal/domain"
)

func cleanEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.PathEnv, "")
	t.Setenv("REDIS_ADDR", "")
}

func run(t *testing.T, e *env, stdin string, args ...string) (string, error) {
	t.Helper()
	cleanEnv(t)

	root := newRootCmd(e)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestForwardOffline(t *testing.T) {
	out, err := run(t, &env{}, "", "forward", "1000", "--offline", "--weekend", "false")
	require.NoError(t, err)

	assert.Contains(t, out, "42 500.00 ₴")
	assert.Contains(t, out, "3 851.87 zł")
	assert.Contains(t, out, "$24.84 (2.5%)")
	assert.Contains(t, out, "googlepay_mc")
}

func TestForwardPromptsForAmount(t *testing.T) {
	out, err := run(t, &env{}, "1 000,00\n", "forward", "--offline", "--weekend=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Сколько USD")
	assert.Contains(t, out, "3 851.87 zł")
}

func TestForwardBadInput(t *testing.T) {
	_, err := run(t, &env{}, "", "forward", "abc", "--offline")
	require.Error(t, err)

	_, err = run(t, &env{}, "", "forward", "100", "--offline", "--method", "paypal")
	require.ErrorIs(t, err, domain.ErrUnknownTopUp)

	_, err = run(t, &env{}, "", "forward", "100", "--offline", "--weekend", "maybe")
	require.Error(t, err)
}

func TestReverseOffline(t *testing.T) {
	out, err := run(t, &env{}, "", "reverse", "3851.87", "--offline", "--weekend", "false")
	require.NoError(t, err)
	assert.Contains(t, out, "$975.16")
	assert.Contains(t, out, "$1 000.00")
}

func TestReverseCoveredByExisting(t *testing.T) {
	out, err := run(t, &env{}, "", "reverse", "4000", "--offline", "--existing", "5000")
	require.NoError(t, err)
	assert.Contains(t, out, "уже покрыта")
}

func TestCompareOffline(t *testing.T) {
	out, err := run(t, &env{}, "", "compare", "1000", "--offline", "--weekend", "false")
	require.NoError(t, err)

	// p2p без комиссии пополнения всегда первый
	lines := strings.Split(out, "\n")
	var first string
	for _, l := range lines {
		if strings.HasPrefix(l, "1) ") {
			first = l
			break
		}
	}
	assert.Contains(t, first, "p2p")
	assert.Contains(t, first, "лучший")
	for _, m := range []string{"card_mc", "card_visa", "googlepay_mc", "googlepay_visa"} {
		assert.Contains(t, out, m)
	}
}

func TestProviders(t *testing.T) {
	out, err := run(t, &env{}, "", "providers")
	require.NoError(t, err)
	for _, s := range []string{"monobank", "nbu_pln", "corsproxy.io", "googlepay_mc", "ultra", "unlimited"} {
		assert.Contains(t, out, s)
	}
}

func TestRatesFallbackChain(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	privat := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"ccy":"USD","base_ccy":"UAH","buy":"41.35000","sale":"41.95000"}]`))
	}))
	defer privat.Close()
	er := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success","rates":{"PLN":3.9821}}`))
	}))
	defer er.Close()

	e := &env{buildOpts: []realflow.Option{realflow.WithQuoteOptions(
		quotes.WithEndpoint(domain.Monobank, down.URL),
		quotes.WithEndpoint(domain.PrivatBank, privat.URL),
		quotes.WithEndpoint(domain.ExchangeRate, er.URL),
	)}}

	out, err := run(t, e, "", "rates", "--proxy", "direct")
	require.NoError(t, err)

	assert.Contains(t, out, "USD/UAH: privatbank, покупка 41.35, продажа 41.95")
	assert.Contains(t, out, "вместо monobank")
	assert.Contains(t, out, "1) monobank: http_status(503)")
	assert.Contains(t, out, "2) privatbank: ok")
	assert.Contains(t, out, "USD/PLN: exchangerate")
	assert.Contains(t, out, "карта: 3.9821 zł/$")
}

func TestRatesOfflineShowsDefaults(t *testing.T) {
	out, err := run(t, &env{}, "", "rates", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "покупка 42.50, продажа 43.10")
	assert.Contains(t, out, "3.95 zł/$")
}
