package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable order record. Correcting an order means
// removing it and creating a new one. The quantity was validated
// against available stock at creation time; nothing is re-checked
// later.
type Order struct {
	Customer Customer
	Product  *Product
	Quantity int
	Date     time.Time
}

// NewOrder constructs an order. Preconditions (positive quantity,
// sufficient stock) must already have been checked by the caller; the
// stock ledger in the store is the only place that does so atomically.
func NewOrder(customer Customer, product *Product, quantity int, date time.Time) Order {
	return Order{
		Customer: customer,
		Product:  product,
		Quantity: quantity,
		Date:     date,
	}
}

// Total is the order cost: price times quantity at the product's current
// price.
func (o Order) Total() decimal.Decimal {
	return o.Product.Price.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// Equal reports whether two orders are the same entity: same customer
// (by name), same product reference, same quantity and date.
func (o Order) Equal(other Order) bool {
	return o.Customer.Equal(other.Customer) &&
		o.Product == other.Product &&
		o.Quantity == other.Quantity &&
		o.Date.Equal(other.Date)
}

// String formats the order as "customer - product xN (date)".
func (o Order) String() string {
	return fmt.Sprintf("%s - %s x%d (%s)", o.Customer.Name, o.Product.Name, o.Quantity, o.Date.Format(DateLayout))
}
