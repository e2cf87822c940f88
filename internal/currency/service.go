// Package currency converts amounts between currency codes using exchange
// rates fetched from Open Exchange Rates. Rates are cached for one hour and
// served stale when a refresh fails, favoring availability over freshness.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"shopchat/internal/logger"
)

// BaseCurrency is the fixed base all rates are expressed against. It always
// resolves with rate 1 even when absent from the fetched table.
const BaseCurrency = "USD"

// cacheTTL is how long a fetched rate snapshot stays fresh.
const cacheTTL = time.Hour

// fetchTimeout bounds a single upstream rate fetch.
const fetchTimeout = 10 * time.Second

// ErrRatesUnavailable is returned when a fetch fails and no snapshot has
// ever been obtained.
var ErrRatesUnavailable = errors.New("unable to fetch exchange rates and no cached data available")

// UnknownCurrencyError reports the first currency code of a conversion that
// could not be resolved against the rate table.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency code: %s", e.Code)
}

// snapshot is one immutable fetched rate table. It is replaced wholesale on
// refresh and never mutated in place, so a reader can never observe a rate
// map paired with the wrong timestamp.
type snapshot struct {
	rates     map[string]float64
	fetchedAt time.Time
}

// Service fetches, caches, and applies exchange rates.
type Service struct {
	appID   string
	baseURL string
	client  *http.Client
	now     func() time.Time

	mu   sync.Mutex
	snap *snapshot
}

// NewService creates a currency service talking to the given Open Exchange
// Rates endpoint (e.g. "https://openexchangerates.org/api").
func NewService(appID, baseURL string) *Service {
	return &Service{
		appID:   appID,
		baseURL: baseURL,
		client:  &http.Client{Timeout: fetchTimeout},
		now:     time.Now,
	}
}

// Convert converts amount from one currency code to another via the USD
// base, rounding the result to 2 decimal places using round-half-away-from-
// zero (conventional half-up for the positive amounts seen in practice).
//
// Returns *UnknownCurrencyError naming the first unresolvable code, or
// ErrRatesUnavailable when no rate table could ever be obtained.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	rates, err := s.rates(ctx)
	if err != nil {
		return 0, err
	}

	fromUpper := strings.ToUpper(from)
	toUpper := strings.ToUpper(to)

	fromRate, ok := resolveRate(rates, fromUpper)
	if !ok {
		return 0, &UnknownCurrencyError{Code: fromUpper}
	}
	toRate, ok := resolveRate(rates, toUpper)
	if !ok {
		return 0, &UnknownCurrencyError{Code: toUpper}
	}

	// amount in FROM -> USD -> TO
	amountInBase := amount / fromRate
	result := amountInBase * toRate

	return round2(result), nil
}

// SupportedCurrencies returns the base currency plus every code in the
// current rate table, sorted. It triggers the same fetch-or-reuse logic as
// Convert.
func (s *Service) SupportedCurrencies(ctx context.Context) ([]string, error) {
	rates, err := s.rates(ctx)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(rates)+1)
	codes = append(codes, BaseCurrency)
	for code := range rates {
		if code != BaseCurrency {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes[1:])

	return codes, nil
}

// rates returns the current rate table, fetching a fresh snapshot when the
// cached one is older than the TTL. A failed fetch falls back to the stale
// snapshot when one exists.
func (s *Service) rates(ctx context.Context) (map[string]float64, error) {
	s.mu.Lock()
	cached := s.snap
	s.mu.Unlock()

	if cached != nil && s.now().Sub(cached.fetchedAt) < cacheTTL {
		logger.Debug("Using cached exchange rates", "age", s.now().Sub(cached.fetchedAt))
		return cached.rates, nil
	}

	fresh, err := s.fetch(ctx)
	if err != nil {
		logger.Error("Failed to fetch exchange rates", "error", err)
		if cached != nil {
			logger.Warn("Using stale cached exchange rates")
			return cached.rates, nil
		}
		return nil, ErrRatesUnavailable
	}

	snap := &snapshot{rates: fresh, fetchedAt: s.now()}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	logger.Info("Fetched fresh exchange rates", "currencies", len(fresh))
	return snap.rates, nil
}

// fetch retrieves the latest rate table from the upstream endpoint. Non-2xx
// responses and malformed bodies are fetch failures.
func (s *Service) fetch(ctx context.Context) (map[string]float64, error) {
	endpoint := fmt.Sprintf("%s/latest.json?app_id=%s", s.baseURL, url.QueryEscape(s.appID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rates request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rates API returned status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("rates response contained no rates")
	}

	return body.Rates, nil
}

// resolveRate looks up a code in the rate table, treating the base currency
// as always present with rate 1. A zero rate is treated as unresolvable.
func resolveRate(rates map[string]float64, code string) (float64, bool) {
	if code == BaseCurrency {
		return 1, true
	}
	rate, ok := rates[code]
	if !ok || rate == 0 {
		return 0, false
	}
	return rate, true
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
