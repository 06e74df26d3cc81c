// Package notify carries user-facing cart feedback ("toasts") to whatever sinks
// are configured. Delivery is fire-and-forget: callers never wait on or react
// to the outcome.
package notify

import (
	"context"
	"time"
)

type Kind string

const (
	KindItemAdded       Kind = "item_added"
	KindItemRemoved     Kind = "item_removed"
	KindQuantityUpdated Kind = "quantity_updated"
	KindCartCleared     Kind = "cart_cleared"
)

type Event struct {
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	ProductID int64     `json:"product_id,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	At        time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, e Event)
}

type Nop struct{}

func (Nop) Notify(context.Context, Event) {}

// Fanout delivers each event to every notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, e Event) {
	for _, n := range f {
		n.Notify(ctx, e)
	}
}
