package realflow

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/DevWolk/fop-calc/internal/config"
	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/usecase/calculator"
	"github.com/DevWolk/fop-calc/internal/usecase/rates"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(config.PathEnv, "")
	t.Setenv("REDIS_ADDR", "")
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestBuildInMemory(t *testing.T) {
	cfg := loadDefaults(t)

	app, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.redis)

	weekday := false
	out, err := app.Calc.Forward(context.Background(), calculator.ForwardRequest{
		Amount:  decimal.NewFromInt(1000),
		Options: calculator.Options{Weekend: &weekday},
	})
	require.NoError(t, err)
	assert.Equal(t, "3851.87", out.Result.TotalDestBalance.StringFixed(2))
}

func TestBuildWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := loadDefaults(t)
	cfg.Redis.Addr = mr.Addr()

	app, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer app.Close()
	require.NotNil(t, app.redis)

	// котировка, положенная другим инстансом, видна через Redis
	other, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer other.Close()

	mr.Set("fopcalc:quote:USD/PLN", `{"quote":{"buy":"4.1","sell":"4.1","isOfficial":false,"provider":"frankfurter"},"updatedAt":"2026-10-17T10:00:00Z"}`)

	held, err := app.Rates.Held(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.1", held.Dest.String())

	held, err = other.Rates.Held(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.1", held.Dest.String())
}

func TestBuildRedisDownFallsBackToMemory(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := loadDefaults(t)
	cfg.Redis.Addr = addr

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app, err := Build(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.redis)
	held, err := app.Rates.Held(ctx)
	require.NoError(t, err)
	assert.Equal(t, rates.Defaults()[domain.PairPLN].Buy.String(), held.Dest.String())
}

func TestBuildRejectsBadConfig(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Rates.UAHProvider = "frankfurter"

	_, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	require.Error(t, err)
}
