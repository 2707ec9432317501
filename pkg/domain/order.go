package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrTotalMismatch indicates an order whose totalAmount differs from its item sum.
var ErrTotalMismatch = errors.New("order total does not match items")

// ItemsTotal returns the sum of price x quantity over the order items, rounded to cents.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

// CheckTotal compares totalAmount with the item sum. The result is advisory:
// stores report mismatches but still accept the record.
func (o Order) CheckTotal() error {
	want := o.ItemsTotal()
	got := decimal.NewFromFloat(o.TotalAmount).Round(2)
	if !got.Equal(want) {
		return fmt.Errorf("%w: order %d has %s, items sum to %s", ErrTotalMismatch, o.ID, got.StringFixed(2), want.StringFixed(2))
	}
	return nil
}
