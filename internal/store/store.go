package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/storage"
	"github.com/fjod/go_cart/storefront/internal/summary"
	"github.com/sirupsen/logrus"
)

// DefaultQuantity is used when an add does not name a quantity.
const DefaultQuantity = 1

var errMalformedCart = errors.New("malformed cart")

// Store is the single source of truth for cart contents. Every mutation ends
// with an explicit persist of the whole collection.
type Store struct {
	mu       sync.Mutex
	storage  storage.Storage
	notifier notify.Notifier
	log      logrus.FieldLogger
	key      string
	policy   QuantityPolicy
	items    []domain.CartLineItem
	now      func() time.Time
}

// Open rehydrates the cart from storage. A missing or malformed value yields an
// empty cart; only a failing read is returned as an error.
func Open(ctx context.Context, st storage.Storage, notifier notify.Notifier, opts ...Option) (*Store, error) {
	discard := logrus.New()
	discard.Out = io.Discard

	s := &Store{
		storage:  st,
		notifier: notifier,
		log:      discard,
		key:      DefaultKey,
		policy:   PolicyKeep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}

	data, err := st.Load(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	items, err := decodeItems(data)
	if err != nil {
		s.log.WithError(err).WithField("key", s.key).Warn("discarding persisted cart")
		return s, nil
	}
	s.items = items
	return s, nil
}

func decodeItems(data []byte) ([]domain.CartLineItem, error) {
	var items []domain.CartLineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedCart, err)
	}

	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.ID == 0 {
			return nil, fmt.Errorf("%w: line item without id", errMalformedCart)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %d", errMalformedCart, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return items, nil
}

// AddToCart appends p, or raises the quantity of its existing line, and
// persists the cart. The in-memory change stands even if persisting fails.
func (s *Store) AddToCart(ctx context.Context, p domain.Product, quantity int) error {
	s.mu.Lock()
	if i := s.indexOf(p.ID); i >= 0 {
		s.items[i].Quantity = domain.AddQuantity(s.items[i].Quantity, quantity)
	} else {
		s.items = append(s.items, domain.NewLineItem(p, quantity))
	}
	err := s.persist(ctx)
	s.mu.Unlock()

	s.notify(ctx, notify.Event{
		Kind:      notify.KindItemAdded,
		Message:   fmt.Sprintf("%d × \"%s\" added to cart", quantity, p.Title),
		ProductID: p.ID,
		Quantity:  quantity,
	})
	return err
}

// RemoveFromCart drops the line for id; unknown ids are a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, id int64) error {
	s.mu.Lock()
	removed, found := s.remove(id)
	err := s.persist(ctx)
	s.mu.Unlock()

	if found {
		s.notifyRemoved(ctx, removed)
	}
	return err
}

// UpdateQuantity replaces the quantity of an existing line; unknown ids are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	if quantity < 1 && s.policy == PolicyRemove {
		return s.RemoveFromCart(ctx, id)
	}

	s.mu.Lock()
	i := s.indexOf(id)
	var title string
	if i >= 0 {
		title = s.items[i].Title
		s.items[i].Quantity = quantity
	}
	err := s.persist(ctx)
	s.mu.Unlock()

	if i >= 0 {
		s.notifyUpdated(ctx, id, title, quantity)
	}
	return err
}

// AdjustQuantity computes the new quantity of a line from its current one
// while holding the lock, so concurrent adjustments never lose an update.
// It reports false when id is not in the cart. An unchanged quantity is
// neither persisted nor notified.
func (s *Store) AdjustQuantity(ctx context.Context, id int64, fn func(current int) int) (bool, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}

	current := s.items[i].Quantity
	next := fn(current)
	if next == current {
		s.mu.Unlock()
		return true, nil
	}

	if next < 1 && s.policy == PolicyRemove {
		removed, _ := s.remove(id)
		err := s.persist(ctx)
		s.mu.Unlock()
		s.notifyRemoved(ctx, removed)
		return true, err
	}

	s.items[i].Quantity = next
	title := s.items[i].Title
	err := s.persist(ctx)
	s.mu.Unlock()

	s.notifyUpdated(ctx, id, title, next)
	return true, err
}

// ClearCart empties the cart and persists the empty collection.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	err := s.persist(ctx)
	s.mu.Unlock()

	s.notify(ctx, notify.Event{
		Kind:    notify.KindCartCleared,
		Message: "Cart cleared!",
	})
	return err
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLineItem{}, s.items...)
}

// Count is the total number of units in the cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.TotalQuantity(s.items)
}

// Summary prices the current contents with the default rules.
func (s *Store) Summary() summary.Summary {
	return summary.Calculate(s.Items())
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []domain.CartLineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.storage.Save(ctx, s.key, data); err != nil {
		s.log.WithError(err).WithField("key", s.key).Error("failed to persist cart")
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) remove(id int64) (domain.CartLineItem, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return domain.CartLineItem{}, false
	}
	removed := s.items[i]
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return removed, true
}

func (s *Store) notifyRemoved(ctx context.Context, item domain.CartLineItem) {
	s.notify(ctx, notify.Event{
		Kind:      notify.KindItemRemoved,
		Message:   fmt.Sprintf("Removed \"%s\" from cart", item.Title),
		ProductID: item.ID,
	})
}

func (s *Store) notifyUpdated(ctx context.Context, id int64, title string, quantity int) {
	s.notify(ctx, notify.Event{
		Kind:      notify.KindQuantityUpdated,
		Message:   fmt.Sprintf("Updated \"%s\" quantity to %d", title, quantity),
		ProductID: id,
		Quantity:  quantity,
	})
}

func (s *Store) notify(ctx context.Context, e notify.Event) {
	e.At = s.now()
	s.notifier.Notify(ctx, e)
}
