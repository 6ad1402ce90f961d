package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooKlineProvider implements KlineProvider against the Yahoo Finance
// public chart API. It is the default feed for the FX/metal/index universe.
type YahooKlineProvider struct {
	client  *http.Client
	baseURL string
}

// NewYahooKlineProvider creates a Yahoo Finance provider.
func NewYahooKlineProvider() *YahooKlineProvider {
	return &YahooKlineProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: yahooChartURL,
	}
}

// yahooChart is the response structure of the chart API. Quote arrays carry
// nulls for holiday bars, hence the pointer elements.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetKlines fetches candles from the chart API.
func (p *YahooKlineProvider) GetKlines(ctx context.Context, instrument domain.Instrument, interval string, limit int) (domain.Series, error) {
	u := fmt.Sprintf("%s/%s?interval=%s&range=%s",
		p.baseURL, url.PathEscape(instrument.Symbol), interval, rangeFor(interval, limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build yahoo request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo fetch")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo read body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("yahoo: status %d, body: %s", resp.StatusCode, body)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, errors.Wrap(err, "yahoo decode")
	}
	if chart.Chart.Error != nil {
		return nil, errors.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errors.New("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	series := make(domain.Series, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // null bar (holiday, feed hole)
		}
		series = append(series, domain.Candle{
			OpenTime: time.Unix(ts, 0),
			Open:     floatAt(quote.Open, i),
			High:     floatAt(quote.High, i),
			Low:      floatAt(quote.Low, i),
			Close:    decimal.NewFromFloat(*quote.Close[i]),
			Volume:   floatAt(quote.Volume, i),
		})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].OpenTime.Before(series[j].OpenTime) })

	if len(series) > limit {
		series = series[len(series)-limit:]
	}
	return series, nil
}

func floatAt(values []*float64, i int) decimal.Decimal {
	if i >= len(values) || values[i] == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*values[i])
}

// rangeFor picks the smallest Yahoo range parameter that covers the
// requested window at the given bar interval.
func rangeFor(interval string, limit int) string {
	d, err := time.ParseDuration(interval)
	if err != nil {
		switch interval {
		case "1d":
			d = 24 * time.Hour
		case "1wk":
			d = 7 * 24 * time.Hour
		default:
			return "1mo"
		}
	}

	// double the nominal span so weekend and session closures still
	// leave enough bars in the window
	span := 2 * d * time.Duration(limit)
	switch {
	case span <= 24*time.Hour:
		return "1d"
	case span <= 5*24*time.Hour:
		return "5d"
	case span <= 7*24*time.Hour:
		return "7d"
	case span <= 30*24*time.Hour:
		return "1mo"
	case span <= 90*24*time.Hour:
		return "3mo"
	case span <= 180*24*time.Hour:
		return "6mo"
	case span <= 365*24*time.Hour:
		return "1y"
	default:
		return "2y"
	}
}
