package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockSentinel/internal/model"
)

// RESTFetcher implements Fetcher against a JSON market-data REST API:
//
//	GET {base}/api/v1/bars/daily?symbol=X&limit=N -> [{timestamp, open, high, low, close, volume}]
//	GET {base}/api/v1/quote?symbol=X              -> {price, high_52w, low_52w, name}
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of one bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// restQuote fields are pointers so that absent fields stay undefined.
type restQuote struct {
	Price   *float64 `json:"price"`
	High52w *float64 `json:"high_52w"`
	Low52w  *float64 `json:"low_52w"`
	Name    string   `json:"name"`
}

func (f *RESTFetcher) FetchHistory(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	// limit counts bars, not calendar days.
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), tradingDays(days))
	var bars []restBar
	if err := f.getJSON(ctx, endpoint, &bars); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	out := make([]model.OHLCV, len(bars))
	for i, b := range bars {
		out[i] = model.OHLCV{
			Time:   time.Unix(b.Timestamp, 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return out, nil
}

func (f *RESTFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var q restQuote
	if err := f.getJSON(ctx, endpoint, &q); err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	return &model.Quote{
		Price:   valueOf(q.Price),
		High52w: valueOf(q.High52w),
		Low52w:  valueOf(q.Low52w),
		Name:    q.Name,
	}, nil
}

func (f *RESTFetcher) getJSON(ctx context.Context, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
