package store

import (
	"iter"
	"sort"
	"time"

	"github.com/abgdnv/storecore/internal/domain"
)

// SortKey selects the ordering key for SortOrders.
type SortKey int

const (
	// SortByDate orders by order date, ascending.
	SortByDate SortKey = iota
	// SortByProductName orders by product name, lexicographic ascending.
	SortByProductName
)

// SortOrders stably sorts the orders collection in place. Equal-key
// orders keep their prior relative order, so repeat sorts never appear
// to shuffle same-date or same-product orders.
func (s *Store) SortOrders(key SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch key {
	case SortByDate:
		sort.SliceStable(s.orders, func(i, j int) bool {
			return s.orders[i].Date.Before(s.orders[j].Date)
		})
	case SortByProductName:
		sort.SliceStable(s.orders, func(i, j int) bool {
			return s.orders[i].Product.Name < s.orders[j].Product.Name
		})
	}
}

// FilterOrders returns a lazily-evaluated read-only sequence of the
// orders placed by the given customer (by-name equality) in the given
// calendar month. The underlying collection is not mutated; an empty
// sequence is a valid outcome, not an error.
func (s *Store) FilterOrders(customer domain.Customer, month time.Month) iter.Seq[domain.Order] {
	orders := s.Orders()
	return func(yield func(domain.Order) bool) {
		for _, o := range orders {
			if !o.Customer.Equal(customer) || o.Date.Month() != month {
				continue
			}
			if !yield(o) {
				return
			}
		}
	}
}
