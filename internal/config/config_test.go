package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/usecase/fees"
	"github.com/DevWolk/fop-calc/internal/usecase/plan"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsFromEnv(t *testing.T) {
	t.Setenv(PathEnv, "")
	t.Chdir(t.TempDir()) // без .env

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "monobank", cfg.Rates.UAHProvider)
	assert.Equal(t, 8*time.Second, cfg.Rates.Timeout)
	assert.True(t, cfg.FallbackEnabled())
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Zero(t, cfg.Redis.TTL, "held quotes must not expire by default")

	d := cfg.CalcDefaults()
	assert.Equal(t, "1.17", d.FixedBankFee.String())
	assert.Equal(t, fees.GooglePayMC, d.TopUpMethod)
	assert.Equal(t, plan.Standard, d.Plan)
	assert.Nil(t, d.Weekend)
}

func TestLoadYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
http:
  addr: ":9090"
rates:
  uah_provider: nbu
  pln_provider: frankfurter
  fallback: "false"
  timeout: 3s
calc:
  plan: premium
  top_up_method: card_visa
  weekend: "true"
redis:
  addr: "localhost:6379"
  ttl: 1h
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.False(t, cfg.FallbackEnabled())
	assert.Equal(t, 3*time.Second, cfg.Rates.Timeout)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)

	st := cfg.RateSettings()
	assert.Equal(t, domain.NBU, st.UAHProvider)
	assert.Equal(t, domain.Frankfurter, st.PLNProvider)

	d := cfg.CalcDefaults()
	require.NotNil(t, d.Weekend)
	assert.True(t, *d.Weekend)
	assert.Equal(t, plan.Premium, d.Plan)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())
	cases := map[string]string{
		"plan":     "calc:\n  plan: gold\n",
		"method":   "calc:\n  top_up_method: paypal\n",
		"weekend":  "calc:\n  weekend: sometimes\n",
		"fee":      "calc:\n  fixed_bank_fee: abc\n",
		"provider": "rates:\n  uah_provider: frankfurter\n",
		"fallback": "rates:\n  fallback: maybe\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
