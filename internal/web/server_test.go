package web

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/pipwatch/internal/domain"
	"github.com/vadiminshakov/pipwatch/internal/services/metrics"
	"github.com/vadiminshakov/pipwatch/internal/storage/signals"
)

type fakeStore struct {
	records []signals.Record
}

func (f *fakeStore) RecordsAfter(index uint64) ([]signals.Record, error) {
	var out []signals.Record
	for _, r := range f.records {
		if r.Index > index {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeStats struct {
	summary metrics.Summary
}

func (f fakeStats) Summary() metrics.Summary {
	return f.summary
}

func TestHandleIndex(t *testing.T) {
	server := NewServer(":0", &fakeStore{}, fakeStats{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.handleIndex(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "pipwatch signals")
}

func TestHandleMetrics(t *testing.T) {
	stats := fakeStats{summary: metrics.Summary{
		Total:   3,
		WinRate: decimal.RequireFromString("66.67"),
		NetPnl:  decimal.RequireFromString("150.35"),
	}}
	server := NewServer(":0", &fakeStore{}, stats)

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()
	server.handleMetrics(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `"total":3`)
	require.Contains(t, body, `"win_rate":"66.67"`)
	require.Contains(t, body, `"net_pnl":"150.35"`)
}

func TestHandleMetricsUnavailable(t *testing.T) {
	server := NewServer(":0", &fakeStore{}, nil)

	rec := httptest.NewRecorder()
	server.handleMetrics(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSignalStreamDeliversBacklog(t *testing.T) {
	record, err := domain.NewTradeRecord("EURUSD=X", domain.DirectionBuy,
		decimal.RequireFromString("1.1000"),
		decimal.RequireFromString("1.0950"),
		decimal.RequireFromString("1.1100"),
		time.Now())
	require.NoError(t, err)

	store := &fakeStore{records: []signals.Record{{Index: 1, Signal: *record}}}
	server := NewServer(":0", store, fakeStats{})

	ts := httptest.NewServer(http.HandlerFunc(server.handleSignalStream))
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	var event, data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "event: ") {
			event = strings.TrimPrefix(line, "event: ")
		}
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(line, "data: ")
			break
		}
	}

	require.Equal(t, "signal", event)
	require.Contains(t, data, `"symbol":"EURUSD=X"`)
	require.Contains(t, data, `"direction":"buy"`)
}
