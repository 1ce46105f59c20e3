// Package event は注文まわりのドメインイベント。
package event

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	OrderCreated             Type = "order.created"
	OrderStatusChanged       Type = "order.status_changed"
	CustomOrderStatusChanged Type = "custom_order.status_changed"
)

// Event はKafkaとWebSocketにそのまま流すJSON。
type Event struct {
	Type           Type            `json:"type"`
	ResourceID     string          `json:"resource_id"`
	OrderNumber    string          `json:"order_number,omitempty"`
	UserID         string          `json:"user_id"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previous_status,omitempty"`
	Total          decimal.Decimal `json:"total"`
	ItemCount      int             `json:"item_count,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Key はパーティションキー。注文番号があればそれを使う。
func (e Event) Key() string {
	if e.OrderNumber != "" {
		return e.OrderNumber
	}
	return e.ResourceID
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop はブローカー未設定時の publisher。
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Fanout は全publisherに配り、失敗はまとめて返す。
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
