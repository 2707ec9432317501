package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"adminboard/pkg/collection"
	"adminboard/pkg/domain"
	"adminboard/pkg/validation"
)

// ErrUnknownStatus is returned for a status outside the order lifecycle.
var ErrUnknownStatus = errors.New("unknown order status")

// Orders is the order collection.
type Orders struct {
	*collection.Store[domain.Order]
	selected selection[domain.Order]
	logger   *slog.Logger
}

func NewOrders(opts Options) (*Orders, error) {
	source, err := pickSource(opts, OrdersPath, SeedOrders)
	if err != nil {
		return nil, err
	}
	o := &Orders{logger: opts.logger()}
	o.Store = collection.New(collection.Options[domain.Order]{
		Name:   "order",
		Plural: "orders",
		ID:     func(or domain.Order) int { return or.ID },
		WithID: func(or domain.Order, id int) domain.Order {
			or.ID = id
			return or
		},
		SearchFields: func(or domain.Order) []string {
			return []string{or.UserName, or.UserEmail}
		},
		Facet:  func(or domain.Order) string { return string(or.Status) },
		Source: source,
		Prepare: func(or domain.Order, now time.Time) domain.Order {
			if or.Status == "" {
				or.Status = domain.StatusPending
			}
			if or.CreatedAt.IsZero() {
				or.CreatedAt = now
			}
			or.UpdatedAt = now
			return or
		},
		Touch: func(or domain.Order, now time.Time) domain.Order {
			or.UpdatedAt = now
			return or
		},
		Validate: func(or domain.Order) error { return validation.Struct(or) },
		PageSize: opts.PageSize,
		Latency:  opts.Latency,
		Now:      opts.Now,
		Logger:   o.logger,
	})
	return o, nil
}

// Fetch loads the orders and logs every record whose total disagrees with its items.
func (o *Orders) Fetch(ctx context.Context) ([]domain.Order, error) {
	orders, err := o.Store.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	for _, or := range orders {
		if err := or.CheckTotal(); err != nil {
			o.logger.Warn("order total mismatch", "order_id", or.ID, "total", or.TotalAmount, "items_total", or.ItemsTotal().String())
		}
	}
	return orders, nil
}

// UpdateStatus moves an order to status and refreshes its update time.
func (o *Orders) UpdateStatus(ctx context.Context, id int, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return o.Update(ctx, id, domain.OrderPatch{Status: &status})
}

// Update refreshes the selected order when it is the one changed.
func (o *Orders) Update(ctx context.Context, id int, patch collection.Patch[domain.Order]) (domain.Order, error) {
	updated, err := o.Store.Update(ctx, id, patch)
	if err != nil {
		return updated, err
	}
	o.selected.refresh(updated, func(cur domain.Order) bool { return cur.ID == id })
	return updated, nil
}

// Remove clears the selection when it is the removed order.
func (o *Orders) Remove(ctx context.Context, id int) error {
	if err := o.Store.Remove(ctx, id); err != nil {
		return err
	}
	if cur, ok := o.selected.get(); ok && cur.ID == id {
		o.selected.set(nil)
	}
	return nil
}

// CountsByStatus counts orders per status plus "all".
func (o *Orders) CountsByStatus() map[string]int {
	counts := map[string]int{collection.FilterAll: 0}
	for _, s := range domain.OrderStatuses {
		counts[string(s)] = 0
	}
	for _, or := range o.Items() {
		counts[collection.FilterAll]++
		counts[string(or.Status)]++
	}
	return counts
}

// ByUser returns the orders placed by userID.
func (o *Orders) ByUser(userID int) []domain.Order {
	var out []domain.Order
	for _, or := range o.Items() {
		if or.UserID == userID {
			out = append(out, or)
		}
	}
	return out
}

func (o *Orders) SetSelected(or *domain.Order) {
	o.selected.set(or)
}

func (o *Orders) Selected() (domain.Order, bool) {
	return o.selected.get()
}
