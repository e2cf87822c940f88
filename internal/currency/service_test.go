package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ratesServer is a fake Open Exchange Rates endpoint whose behavior can be
// flipped between serving a fixed table and failing.
type ratesServer struct {
	server     *httptest.Server
	fetchCount atomic.Int64
	failing    atomic.Bool
}

func newRatesServer(t *testing.T, rates string) *ratesServer {
	t.Helper()
	rs := &ratesServer{}
	rs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		rs.fetchCount.Add(1)
		if rs.failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(rates))
	}))
	t.Cleanup(rs.server.Close)
	return rs
}

func newTestService(t *testing.T, rs *ratesServer) *Service {
	t.Helper()
	return NewService("test-app-id", rs.server.URL)
}

const defaultRatesBody = `{"rates": {"EUR": 0.9, "GBP": 0.8, "JPY": 150.0, "COP": 4000.0}}`

func TestService_Convert_FromBase(t *testing.T) {
	rs := newRatesServer(t, defaultRatesBody)
	svc := newTestService(t, rs)

	result, err := svc.Convert(context.Background(), 50, "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 45.0, result, 0.001)
}

func TestService_Convert_UsdToUsdIsIdentityRounded(t *testing.T) {
	rs := newRatesServer(t, defaultRatesBody)
	svc := newTestService(t, rs)

	result, err := svc.Convert(context.Background(), 123.456, "USD", "USD")
	require.NoError(t, err)
	assert.InDelta(t, 123.46, result, 0.0001)
}

func TestService_Convert_RoundsHalfAwayFromZero(t *testing.T) {
	rs := newRatesServer(t, `{"rates": {"HLF": 0.5}}`)
	svc := newTestService(t, rs)

	// 0.05 USD * 0.5 = 0.025, an exact half-cent boundary: it must round
	// to 0.03, not 0.02.
	result, err := svc.Convert(context.Background(), 0.05, "USD", "HLF")
	require.NoError(t, err)
	assert.InDelta(t, 0.03, result, 0.0001)
}

func TestService_Convert_RoundTripsWithinOneCent(t *testing.T) {
	rs := newRatesServer(t, defaultRatesBody)
	svc := newTestService(t, rs)

	for _, code := range []string{"EUR", "GBP", "JPY", "COP"} {
		converted, err := svc.Convert(context.Background(), 100, "USD", code)
		require.NoError(t, err)
		back, err := svc.Convert(context.Background(), converted, code, "USD")
		require.NoError(t, err)
		assert.InDelta(t, 100, back, 0.01, "round trip through %s", code)
	}
}

func TestService_Convert_LowercaseCodesAreNormalized(t *testing.T) {
	rs := newRatesServer(t, defaultRatesBody)
	svc := newTestService(t, rs)

	result, err := svc.Convert(context.Background(), 50, "usd", "eur")
	require.NoError(t, err)
	assert.InDelta(t, 45.0, result, 0.001)
}

func TestService_Convert_UnknownCodeNamesFirstUnresolvable(t *testing.T) {
	rs := newRatesServer(t, defaultRatesBody)
	svc := newTestService(t, rs)

	_, err := svc.Convert(context.Background(), 10, "XXX", "YYY")
	var unknownErr *UnknownCurrencyError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "XXX", unknownErr.Code)

	_, err = svc.Convert(context.Background(), 10, "USD", "YYY")
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "YYY", unknownErr.Code)
}

func TestService_Convert_ReusesCacheWithinTTL(t *testing.T) {
	rs := newRatesServer(t, defaultRatesBody)
	svc := newTestService(t, rs)

	for i := 0; i < 5; i++ {
		_, err := svc.Convert(context.Background(), 10, "USD", "EUR")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), rs.fetchCount.Load())
}

func TestService_Convert_RefetchesAfterTTL(t *testing.T) {
	rs := newRatesServer(t, defaultRatesBody)
	svc := newTestService(t, rs)

	now := time.Now()
	svc.now = func() time.Time { return now }

	_, err := svc.Convert(context.Background(), 10, "USD", "EUR")
	require.NoError(t, err)
	require.Equal(t, int64(1), rs.fetchCount.Load())

	now = now.Add(cacheTTL + time.Minute)
	_, err = svc.Convert(context.Background(), 10, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rs.fetchCount.Load())
}

func TestService_Convert_ServesStaleSnapshotWhenFetchFails(t *testing.T) {
	rs := newRatesServer(t, defaultRatesBody)
	svc := newTestService(t, rs)

	now := time.Now()
	svc.now = func() time.Time { return now }

	_, err := svc.Convert(context.Background(), 10, "USD", "EUR")
	require.NoError(t, err)

	// Expire the snapshot and break the upstream.
	now = now.Add(cacheTTL + time.Minute)
	rs.failing.Store(true)

	result, err := svc.Convert(context.Background(), 50, "USD", "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 45.0, result, 0.001)

	codes, err := svc.SupportedCurrencies(context.Background())
	require.NoError(t, err)
	assert.Contains(t, codes, "EUR")
}

func TestService_Convert_FailsWhenNoSnapshotEverObtained(t *testing.T) {
	rs := newRatesServer(t, defaultRatesBody)
	rs.failing.Store(true)
	svc := newTestService(t, rs)

	_, err := svc.Convert(context.Background(), 10, "USD", "EUR")
	assert.ErrorIs(t, err, ErrRatesUnavailable)

	_, err = svc.SupportedCurrencies(context.Background())
	assert.ErrorIs(t, err, ErrRatesUnavailable)
}

func TestService_MalformedBodyIsAFetchFailure(t *testing.T) {
	rs := newRatesServer(t, `{"rates": "not-a-map"`)
	svc := newTestService(t, rs)

	_, err := svc.Convert(context.Background(), 10, "USD", "EUR")
	assert.ErrorIs(t, err, ErrRatesUnavailable)
}

func TestService_SupportedCurrencies_IncludesBaseFirst(t *testing.T) {
	rs := newRatesServer(t, defaultRatesBody)
	svc := newTestService(t, rs)

	codes, err := svc.SupportedCurrencies(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, codes)
	assert.Equal(t, BaseCurrency, codes[0])
	assert.ElementsMatch(t, []string{"USD", "EUR", "GBP", "JPY", "COP"}, codes)
}
