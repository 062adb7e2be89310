// Package store holds the in-memory tri-collection state: customers,
// products and orders in insertion order, behind a narrow mutation API.
// It is the single owner of the backing slices; readers always get
// copies, so the stock invariant can only be changed through this
// package.
package store

import (
	"sync"
	"time"

	"github.com/abgdnv/storecore/internal/domain"
)

// Store is the process-wide dataset. All access goes through its
// methods; the mutex stands in for the single-owner-thread discipline
// of the original design, so persistence workers may apply results
// from their own goroutines.
type Store struct {
	mu        sync.RWMutex
	customers []domain.Customer
	products  []*domain.Product
	orders    []domain.Order
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// AddCustomer appends a customer.
func (s *Store) AddCustomer(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, c)
}

// RemoveCustomer removes the first customer equal (by name) to c.
// It reports whether a customer was removed. The customer's orders are
// left in place: there is no deletion cascade.
func (s *Store) RemoveCustomer(c domain.Customer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.customers {
		if existing.Equal(c) {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			return true
		}
	}
	return false
}

// FindCustomer returns the customer with the given name.
func (s *Store) FindCustomer(name string) (domain.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.Name == name {
			return c, true
		}
	}
	return domain.Customer{}, false
}

// AddProduct appends a product. The store takes ownership of the
// pointer; orders created later share it.
func (s *Store) AddProduct(p *domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
}

// RemoveProduct removes the product by reference identity. Orders
// referencing it are left in place.
func (s *Store) RemoveProduct(p *domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.products {
		if existing == p {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return true
		}
	}
	return false
}

// FindProduct returns the first product with the given name.
func (s *Store) FindProduct(name string) (*domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// PlaceOrder is the stock ledger's atomic step: it verifies the product
// has at least quantity units in stock, decrements the stock and
// appends the new order under one lock. On an insufficient-stock
// failure neither the stock nor the orders collection changes.
func (s *Store) PlaceOrder(customer domain.Customer, product *domain.Product, quantity int, date time.Time) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.Stock < quantity {
		return domain.Order{}, &domain.OrderError{
			Reason:  domain.ReasonInsufficientStock,
			Message: "insufficient stock for " + product.Name,
		}
	}
	product.Stock -= quantity
	order := domain.NewOrder(customer, product, quantity, date)
	s.orders = append(s.orders, order)
	return order, nil
}

// SufficientStock reports whether the product can cover an order of the
// given quantity. Pure predicate; PlaceOrder re-checks under the lock.
func SufficientStock(p *domain.Product, quantity int) bool {
	return p.Stock >= quantity
}

// RemoveOrder removes the first order equal to o. It reports whether an
// order was removed.
//
// TODO: removing an order does not restore the product's stock; confirm
// with the system owner whether removal should re-increment it before
// changing this.
func (s *Store) RemoveOrder(o domain.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.orders {
		if existing.Equal(o) {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return true
		}
	}
	return false
}

// Customers returns a copy of the customers collection in insertion
// order.
func (s *Store) Customers() []domain.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// Products returns a copy of the products collection in insertion
// order. The elements are the live shared products; the slice itself
// is a copy.
func (s *Store) Products() []*domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Orders returns a copy of the orders collection in its current order.
func (s *Store) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Clone returns a detached copy of the whole dataset: products are
// deep-copied and orders rewired to the copies, so the result can be
// read outside the store's lock while the live products keep mutating.
func (s *Store) Clone() ([]domain.Customer, []*domain.Product, []domain.Order) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	customers := make([]domain.Customer, len(s.customers))
	copy(customers, s.customers)
	products := make([]*domain.Product, len(s.products))
	clones := make(map[*domain.Product]*domain.Product, len(s.products))
	for i, p := range s.products {
		c := *p
		products[i] = &c
		clones[p] = &c
	}
	orders := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		if c, ok := clones[o.Product]; ok {
			o.Product = c
		} else {
			// The product was removed from the catalogue; the order
			// still needs its own detached copy.
			c := *o.Product
			o.Product = &c
		}
		orders[i] = o
	}
	return customers, products, orders
}

// ReplaceAll swaps in a whole new dataset, discarding the previous
// collections. Used by snapshot load, which prepares the full
// replacement before calling so the swap is all-or-nothing.
func (s *Store) ReplaceAll(customers []domain.Customer, products []*domain.Product, orders []domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = customers
	s.products = products
	s.orders = orders
}
