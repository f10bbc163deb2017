package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"StockAnalyzer/internal/loader"
	"StockAnalyzer/internal/model"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooSource downloads daily closes from the Yahoo Finance chart API and
// presents them as a Date/Close table.
type YahooSource struct {
	Symbol    string
	Range     string
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooSource creates a Yahoo source with optional proxy support.
// rng is a Yahoo range such as "1y" or "2y"; empty means "2y".
func NewYahooSource(symbol, rng, proxyURL string) *YahooSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if rng == "" {
		rng = "2y"
	}
	return &YahooSource{
		Symbol:  symbol,
		Range:   rng,
		BaseURL: yahooChartURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (y *YahooSource) Name() string { return "yahoo:" + y.Symbol }

func (y *YahooSource) yahooSymbol() string {
	if mapped, ok := y.SymbolMap[y.Symbol]; ok {
		return mapped
	}
	return y.Symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (y *YahooSource) Fetch(ctx context.Context) (*loader.Table, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=%s", y.BaseURL, url.PathEscape(y.yahooSymbol()), y.Range)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := y.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	type bar struct {
		date  time.Time
		close float64
	}
	bars := make([]bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // null bars (holidays etc.)
		}
		bars = append(bars, bar{date: time.Unix(ts, 0).UTC(), close: *closes[i]})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].date.Before(bars[j].date) })

	t := &loader.Table{Header: []string{"Date", "Close"}}
	for _, b := range bars {
		t.Rows = append(t.Rows, map[string]string{
			"Date":  b.date.Format(model.DateLayout),
			"Close": strconv.FormatFloat(b.close, 'f', -1, 64),
		})
	}
	return t, nil
}
