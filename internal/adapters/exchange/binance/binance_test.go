package binanceadapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevWolk/fop-calc/internal/domain"
)

func TestQuoteBookTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/bookTicker", r.URL.Path)
		assert.Equal(t, Symbol, r.URL.Query().Get("symbol"))
		_, _ = w.Write([]byte(`{"symbol":"USDTUAH","bidPrice":"41.52","bidQty":"100","askPrice":"41.61","askQty":"50"}`))
	}))
	defer srv.Close()

	q, err := New(time.Second).WithBaseURL(srv.URL).Quote(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "41.52", q.Buy.String())
	assert.Equal(t, "41.61", q.Sell.String())
	assert.Equal(t, domain.Binance, q.Provider)
	assert.False(t, q.IsOfficial)
}

func TestQuoteBadPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol":"USDTUAH","bidPrice":"0","bidQty":"0","askPrice":"41.61","askQty":"50"}`))
	}))
	defer srv.Close()

	_, err := New(time.Second).WithBaseURL(srv.URL).Quote(context.Background(), "")
	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, domain.KindParse, fe.Kind)
}

func TestQuoteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := New(time.Second).WithBaseURL(base).Quote(context.Background(), "")
	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, domain.KindNetworkBlocked, fe.Kind)
}

func TestQuoteHTTPStatus(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limit", http.StatusTooManyRequests, `{"code":-1003,"msg":"Too many requests."}`},
		{"server error", http.StatusServiceUnavailable, `{"code":-1001,"msg":"Internal error; unable to process your request."}`},
		{"bad symbol", http.StatusBadRequest, `{"code":-1121,"msg":"Invalid symbol."}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := New(time.Second).WithBaseURL(srv.URL).Quote(context.Background(), "")
			var fe *domain.FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, domain.KindHTTPStatus, fe.Kind)
			assert.Equal(t, tc.status, fe.StatusCode)
		})
	}
}

func TestQuoteRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":-1003,"msg":"Too many requests."}`))
			return
		}
		_, _ = w.Write([]byte(`{"symbol":"USDTUAH","bidPrice":"41.52","bidQty":"100","askPrice":"41.61","askQty":"50"}`))
	}))
	defer srv.Close()

	q, err := New(time.Second).WithBaseURL(srv.URL).WithRetries(2, time.Millisecond).Quote(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "41.52", q.Buy.String())
	assert.Equal(t, int32(2), calls.Load())
}

func TestQuoteNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	_, err := New(time.Second).WithBaseURL(srv.URL).WithRetries(3, time.Millisecond).Quote(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
