// Package trader holds the order-placement collaborator. The core treats
// placement as fire-and-forget: a failed placement never invalidates the
// signal that triggered it.
package trader

import (
	"context"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

// Placer submits an order derived from a trade candidate record to one
// trading account.
type Placer interface {
	Place(ctx context.Context, account string, record *domain.TradeRecord) error
}
