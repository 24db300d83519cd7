// Package cart owns the shopping cart: line items, derived totals, persistence
// to a durable slot and the notification raised by each change.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/stebinsabu13/fastlane/pkg/db"
	"github.com/stebinsabu13/fastlane/pkg/models"
	"github.com/stebinsabu13/fastlane/pkg/notify"
	"github.com/stebinsabu13/fastlane/pkg/watch"
)

const (
	DefaultKey          = "cart"
	DefaultWriteTimeout = 2 * time.Second
)

// Store is safe for concurrent use. Every change goes through items.Update,
// and subscribers run with no lock held, so they may call back into the store.
type Store struct {
	slots    db.Slots
	key      string
	timeout  time.Duration
	log      logrus.FieldLogger
	notifier *notify.Notifier

	items *watch.Value[[]models.CartItem]
	total watch.Readable[decimal.Decimal]
	count watch.Readable[int]
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.log = l }
}

func WithNotifier(n *notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// NewStore builds a store and rehydrates it from slots. Missing or corrupt
// data yields an empty cart.
func NewStore(ctx context.Context, slots db.Slots, opts ...Option) *Store {
	s := &Store{
		slots:   slots,
		key:     DefaultKey,
		timeout: DefaultWriteTimeout,
		log:     logrus.StandardLogger(),
		items:   watch.New([]models.CartItem{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.New()
	}
	s.total = watch.Derive[[]models.CartItem, decimal.Decimal](s.items, Total)
	s.count = watch.Derive[[]models.CartItem, int](s.items, Count)

	s.items.Set(s.load(ctx))
	return s
}

// AddToCart increments the quantity of an existing line or appends a new one.
func (s *Store) AddToCart(p models.Product) {
	s.items.Update(func(current []models.CartItem) ([]models.CartItem, bool) {
		next := make([]models.CartItem, len(current), len(current)+1)
		copy(next, current)

		if idx := indexOf(next, p.ID); idx >= 0 {
			next[idx].Quantity++
		} else {
			next = append(next, models.CartItem{Product: p.Clone(), Quantity: 1})
		}
		s.persist(next)
		return next, true
	})
	s.notifier.Show(notify.Success, fmt.Sprintf("%s added to cart", p.Name))
}

// RemoveFromCart drops the line for productID. Unknown ids are ignored.
func (s *Store) RemoveFromCart(productID int) {
	s.remove(productID)
}

// UpdateQuantity sets the quantity of an existing line; a quantity of zero or
// less removes it. No notification is raised for a plain quantity edit.
func (s *Store) UpdateQuantity(productID, quantity int) {
	if quantity <= 0 {
		s.remove(productID)
		return
	}

	s.items.Update(func(current []models.CartItem) ([]models.CartItem, bool) {
		idx := indexOf(current, productID)
		if idx < 0 {
			return current, false
		}
		next := make([]models.CartItem, len(current))
		copy(next, current)
		next[idx].Quantity = quantity
		s.persist(next)
		return next, true
	})
}

func (s *Store) ClearCart() {
	s.items.Update(func([]models.CartItem) ([]models.CartItem, bool) {
		next := []models.CartItem{}
		s.persist(next)
		return next, true
	})
	s.notifier.Show(notify.Info, "Cart emptied")
}

// Reload discards in-memory state and re-reads the durable slot.
func (s *Store) Reload(ctx context.Context) {
	s.items.Update(func([]models.CartItem) ([]models.CartItem, bool) {
		return s.load(ctx), true
	})
}

func (s *Store) remove(productID int) {
	var removed models.CartItem
	found := false
	s.items.Update(func(current []models.CartItem) ([]models.CartItem, bool) {
		idx := indexOf(current, productID)
		if idx < 0 {
			return current, false
		}
		removed, found = current[idx], true

		next := make([]models.CartItem, 0, len(current)-1)
		next = append(next, current[:idx]...)
		next = append(next, current[idx+1:]...)
		s.persist(next)
		return next, true
	})
	if found {
		s.notifier.Show(notify.Warning, fmt.Sprintf("%s removed from cart", removed.Name))
	}
}

// persist writes items to the durable slot. It runs inside items.Update, so
// writes land in the same order as the changes they record.
func (s *Store) persist(items []models.CartItem) {
	if err := s.write(items); err != nil {
		s.log.WithError(err).WithField("key", s.key).Error("Failed to persist cart")
	}
}

func (s *Store) write(items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "failed to encode cart")
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.slots.Set(ctx, s.key, data)
}

func (s *Store) load(ctx context.Context) []models.CartItem {
	data, err := s.slots.Get(ctx, s.key)
	if errors.Is(err, db.ErrNotFound) {
		return []models.CartItem{}
	}
	if err != nil {
		s.log.WithError(err).WithField("key", s.key).Warn("Failed to read stored cart, starting empty")
		return []models.CartItem{}
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.WithError(err).WithField("key", s.key).Warn("Stored cart is corrupt, starting empty")
		return []models.CartItem{}
	}
	return sanitize(items)
}

// sanitize enforces the cart invariants on data read from storage:
// one line per product id and positive quantities.
func sanitize(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

func indexOf(items []models.CartItem, productID int) int {
	for i, item := range items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []models.CartItem {
	current := s.items.Get()
	out := make([]models.CartItem, len(current))
	copy(out, current)
	return out
}

func (s *Store) Item(productID int) (models.CartItem, bool) {
	current := s.items.Get()
	if idx := indexOf(current, productID); idx >= 0 {
		return current[idx], true
	}
	return models.CartItem{}, false
}

func (s *Store) Total() decimal.Decimal { return s.total.Get() }

func (s *Store) ItemCount() int { return s.count.Get() }

func (s *Store) ItemsValue() watch.Readable[[]models.CartItem] { return s.items }

func (s *Store) TotalValue() watch.Readable[decimal.Decimal] { return s.total }

func (s *Store) CountValue() watch.Readable[int] { return s.count }

func (s *Store) Notifications() watch.Readable[notify.Notification] { return s.notifier.Value() }

// Total sums price times quantity over items.
func Total(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count sums quantities over items.
func Count(items []models.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}
