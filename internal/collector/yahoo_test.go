package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{
  "meta":{"symbol":"AAPL","longName":"Apple Inc.","regularMarketPrice":190.5,"fiftyTwoWeekHigh":199.6,"fiftyTwoWeekLow":164.1},
  "timestamp":[1704292200,1704205800,1704378600,1704378700,1704465000],
  "indicators":{"quote":[{
    "open":[184.2,187.1,182.0,181.9,null],
    "high":[185.8,188.4,183.1,182.7,null],
    "low":[183.4,183.8,180.2,180.1,null],
    "close":[184.25,185.64,180.0,181.91,null],
    "volume":[58414500,82488700,null,71983600,null]
  }]}
}],"error":null}}`

func newYahooServer(t *testing.T, body string, status int) (*YahooFetcher, *[]string) {
	t.Helper()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.String())
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	return f, &paths
}

func TestYahooFetcher_FetchHistory(t *testing.T) {
	f, paths := newYahooServer(t, chartBody, http.StatusOK)

	bars, err := f.FetchHistory(context.Background(), "AAPL", 365)
	require.NoError(t, err)

	// null bar skipped, provider order kept for Collect to repair
	require.Len(t, bars, 4)
	assert.Equal(t, []float64{184.25, 185.64, 180.0, 181.91}, []float64{bars[0].Close, bars[1].Close, bars[2].Close, bars[3].Close})

	sorted, stats := NormalizeBars(bars)
	require.Len(t, sorted, 3)
	assert.Equal(t, []float64{185.64, 184.25, 181.91}, []float64{sorted[0].Close, sorted[1].Close, sorted[2].Close})
	assert.Equal(t, NormalizeStats{Reordered: 1, Dropped: 1}, stats)
	require.Len(t, *paths, 1)
	assert.Contains(t, (*paths)[0], "/v8/finance/chart/AAPL?interval=1d&range=1y")
}

func TestYahooFetcher_FetchQuote(t *testing.T) {
	f, _ := newYahooServer(t, chartBody, http.StatusOK)

	q, err := f.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", q.Name)
	assert.Equal(t, 190.5, q.Price.Or(0))
	assert.Equal(t, 199.6, q.High52w.Or(0))
	assert.Equal(t, 164.1, q.Low52w.Or(0))
}

func TestYahooFetcher_QuoteMissingFields(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{"symbol":"XYZ","shortName":"XYZ Corp"},"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`
	f, _ := newYahooServer(t, body, http.StatusOK)

	q, err := f.FetchQuote(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "XYZ Corp", q.Name)
	assert.False(t, q.Price.Defined())
	assert.False(t, q.High52w.Defined())
}

func TestYahooFetcher_APIError(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	f, _ := newYahooServer(t, body, http.StatusOK)

	_, err := f.FetchHistory(context.Background(), "NOPE", 365)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestYahooFetcher_HTTPStatus(t *testing.T) {
	f, _ := newYahooServer(t, strings.Repeat("x", 500), http.StatusTooManyRequests)

	_, err := f.FetchHistory(context.Background(), "AAPL", 365)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestYahooFetcher_SymbolMap(t *testing.T) {
	f, paths := newYahooServer(t, chartBody, http.StatusOK)
	_, err := f.FetchHistory(context.Background(), "SPX500", 30)
	require.NoError(t, err)
	assert.Contains(t, (*paths)[0], "%5EGSPC")
	assert.Contains(t, (*paths)[0], "range=1mo")
}

func TestYahooRange(t *testing.T) {
	tests := map[int]string{10: "1mo", 90: "3mo", 100: "6mo", 365: "1y", 500: "2y", 2000: "5y"}
	for days, want := range tests {
		assert.Equal(t, want, yahooRange(days), "days=%d", days)
	}
}
