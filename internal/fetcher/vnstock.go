package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"VNSentinel/internal/model"
)

// resolution strings expected by the upstream chart API.
var resolutions = map[Interval]string{
	Interval1H: "60",
	Interval4H: "240",
	Interval1D: "1D",
	Interval1W: "1W",
	Interval1M: "1M",
}

// VNStockFetcher implements Fetcher against a VCI-style chart REST API.
// Prices come back in the thousands quote unit; callers convert at the
// boundary, never here.
type VNStockFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
	maxRetries  int
}

// NewVNStockFetcher creates a fetcher with request throttling and retry.
func NewVNStockFetcher(baseURL, apiKey string) *VNStockFetcher {
	return &VNStockFetcher{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Client:      &http.Client{Timeout: 30 * time.Second},
		minInterval: 250 * time.Millisecond,
		maxRetries:  3,
	}
}

func (f *VNStockFetcher) Name() string { return "vnstock" }

// throttle enforces the minimum spacing between upstream requests. The
// exchange API bans aggressive pollers.
func (f *VNStockFetcher) throttle(ctx context.Context) error {
	f.mu.Lock()
	wait := f.minInterval - time.Since(f.lastRequest)
	f.lastRequest = time.Now().Add(wait)
	f.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// historyResponse is the TradingView-style column layout the VN chart
// endpoints use.
type historyResponse struct {
	T []int64   `json:"t"`
	O []float64 `json:"o"`
	H []float64 `json:"h"`
	L []float64 `json:"l"`
	C []float64 `json:"c"`
	V []float64 `json:"v"`
}

func (f *VNStockFetcher) FetchHistorical(ctx context.Context, symbol string, start, end time.Time, interval Interval) ([]model.OHLCV, error) {
	res, ok := resolutions[interval]
	if !ok {
		return nil, fmt.Errorf("unsupported interval %q", interval)
	}
	endpoint := fmt.Sprintf("%s/api/v1/history?symbol=%s&resolution=%s&from=%d&to=%d",
		f.BaseURL, symbol, res, start.Unix(), end.Unix())

	body, err := f.getWithRetry(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch history %s %s: %w", symbol, interval, err)
	}

	var hr historyResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", symbol, err)
	}
	n := len(hr.T)
	if len(hr.O) != n || len(hr.H) != n || len(hr.L) != n || len(hr.C) != n || len(hr.V) != n {
		return nil, fmt.Errorf("history %s: ragged columns (%d timestamps)", symbol, n)
	}

	bars := make([]model.OHLCV, n)
	for i := 0; i < n; i++ {
		bars[i] = model.OHLCV{
			Time:   time.Unix(hr.T[i], 0),
			Open:   hr.O[i],
			High:   hr.H[i],
			Low:    hr.L[i],
			Close:  hr.C[i],
			Volume: hr.V[i],
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *VNStockFetcher) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, symbol)
	body, err := f.getWithRetry(ctx, endpoint)
	if err != nil {
		return 0, fmt.Errorf("fetch current price %s: %w", symbol, err)
	}
	var result struct {
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("decode price %s: %w", symbol, err)
	}
	if result.Price <= 0 {
		return 0, fmt.Errorf("quote %s: non-positive price %.2f", symbol, result.Price)
	}
	return result.Price, nil
}

// getWithRetry issues a throttled GET, retrying transient failures with
// exponential backoff.
func (f *VNStockFetcher) getWithRetry(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			log.Printf("[WARN] request failed (attempt %d/%d): %v, retrying in %v", attempt, f.maxRetries+1, lastErr, backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		if err := f.throttle(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		if f.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+f.APIKey)
		}

		resp, err := f.Client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK && readErr == nil:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			continue
		case readErr != nil:
			lastErr = readErr
			continue
		default:
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
		}
	}
	return nil, fmt.Errorf("all %d attempts exhausted: %w", f.maxRetries+1, lastErr)
}
