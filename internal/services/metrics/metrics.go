// Package metrics reduces accumulated trade records into summary statistics.
package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Summary holds the aggregate performance statistics of a record set.
type Summary struct {
	// Total is the count of all records, running and closed.
	Total int `json:"total"`
	// WinRate is the percentage of closed records that hit take-profit,
	// rounded to 2 decimals. Zero when no record has closed yet.
	WinRate decimal.Decimal `json:"win_rate"`
	// NetPnl is the pnl sum over all records, rounded to 2 decimals.
	NetPnl decimal.Decimal `json:"net_pnl"`
}

// Summarize computes the summary for any record set. It is a pure,
// order-independent reduction and is safe to call with an empty set.
func Summarize(records []domain.TradeRecord) Summary {
	summary := Summary{
		Total:   len(records),
		WinRate: decimal.Zero,
		NetPnl:  decimal.Zero,
	}

	closed, wins := 0, 0
	for _, r := range records {
		summary.NetPnl = summary.NetPnl.Add(r.Pnl)
		if r.Closed() {
			closed++
			if r.Status == domain.StatusTPHit {
				wins++
			}
		}
	}

	if closed > 0 {
		summary.WinRate = decimal.NewFromInt(int64(wins)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(closed))).
			Round(2)
	}
	summary.NetPnl = summary.NetPnl.Round(2)
	return summary
}
