// Package service implements the store-management operations on top of
// the collections store: the order-creation cascade with its stock
// check, entity add/edit/remove with confirmation of destructive
// actions, the order queries, and the snapshot and customer-database
// round trips. Every failure degrades to a user-visible message and an
// unchanged dataset; nothing here is fatal to the process.
package service

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"time"

	"github.com/abgdnv/storecore/internal/customerdb"
	"github.com/abgdnv/storecore/internal/domain"
	"github.com/abgdnv/storecore/internal/snapshot"
	"github.com/abgdnv/storecore/internal/store"
	"github.com/shopspring/decimal"
)

// StoreService wires the engine together. The snapshot manager and the
// customer database are optional collaborators: a nil customer store
// turns the database operations into reported errors, not crashes.
type StoreService struct {
	store     *store.Store
	snapshots *snapshot.Manager
	customers customerdb.CustomerStore
	notifier  Notifier
	confirmer Confirmer
	logger    *slog.Logger
}

// NewStoreService creates the service. notifier and confirmer must not
// be nil; use NopNotifier / AlwaysConfirm for surfaces that have their
// own confirmation step.
func NewStoreService(st *store.Store, snapshots *snapshot.Manager, customers customerdb.CustomerStore, notifier Notifier, confirmer Confirmer, logger *slog.Logger) *StoreService {
	return &StoreService{
		store:     st,
		snapshots: snapshots,
		customers: customers,
		notifier:  notifier,
		confirmer: confirmer,
		logger:    logger.With("component", "service"),
	}
}

// AddCustomer validates and appends a new customer.
func (s *StoreService) AddCustomer(name, email string, dob time.Time) (domain.Customer, error) {
	customer, err := domain.NewCustomer(name, email, dob)
	if err != nil {
		s.notifier.Alert(err.Error())
		return domain.Customer{}, err
	}
	s.store.AddCustomer(customer)
	s.logger.Info("customer added", "name", customer.Name)
	return customer, nil
}

// RemoveCustomer removes the named customer after confirmation. The
// customer's orders stay: there is no deletion cascade. A declined
// confirmation is a no-op.
func (s *StoreService) RemoveCustomer(name string) (bool, error) {
	customer, ok := s.store.FindCustomer(name)
	if !ok {
		return false, fmt.Errorf("customer %q not found", name)
	}
	if !s.confirmer.Confirm("Are you sure you want to remove this customer?", customer.String()) {
		return false, nil
	}
	removed := s.store.RemoveCustomer(customer)
	if removed {
		s.logger.Info("customer removed", "name", name)
	}
	return removed, nil
}

// AddProduct parses the numeric text fields and appends a new product.
func (s *StoreService) AddProduct(name, priceText, stockText, description string) (*domain.Product, error) {
	price, stock, err := parseProductNumbers(priceText, stockText)
	if err != nil {
		s.notifier.Alert(err.Error())
		return nil, err
	}
	product := domain.NewProduct(name, price, stock, description)
	s.store.AddProduct(product)
	s.logger.Info("product added", "name", name, "stock", stock)
	return product, nil
}

// EditProduct updates the named product in place. The edit is visible
// through every order referencing the product.
func (s *StoreService) EditProduct(name, newName, priceText, stockText, description string) (*domain.Product, error) {
	product, ok := s.store.FindProduct(name)
	if !ok {
		return nil, fmt.Errorf("product %q not found", name)
	}
	if newName == "" {
		err := &domain.ValidationError{Field: "name", Message: "product name cannot be empty"}
		s.notifier.Alert(err.Error())
		return nil, err
	}
	price, stock, err := parseProductNumbers(priceText, stockText)
	if err != nil {
		s.notifier.Alert(err.Error())
		return nil, err
	}
	product.Update(newName, price, stock, description)
	s.logger.Info("product updated", "name", newName)
	return product, nil
}

// RemoveProduct removes the named product after confirmation. Orders
// referencing it stay valid through their shared pointer.
func (s *StoreService) RemoveProduct(name string) (bool, error) {
	product, ok := s.store.FindProduct(name)
	if !ok {
		return false, fmt.Errorf("product %q not found", name)
	}
	if !s.confirmer.Confirm("Are you sure you want to remove this product?", product.String()) {
		return false, nil
	}
	removed := s.store.RemoveProduct(product)
	if removed {
		s.logger.Info("product removed", "name", name)
	}
	return removed, nil
}

func parseProductNumbers(priceText, stockText string) (decimal.Decimal, int, error) {
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return decimal.Decimal{}, 0, &domain.ValidationError{Field: "price", Message: "price must be numeric"}
	}
	if price.IsNegative() {
		return decimal.Decimal{}, 0, &domain.ValidationError{Field: "price", Message: "price cannot be negative"}
	}
	stock, err := strconv.Atoi(stockText)
	if err != nil {
		return decimal.Decimal{}, 0, &domain.ValidationError{Field: "stock", Message: "stock must be numeric"}
	}
	if stock < 0 {
		return decimal.Decimal{}, 0, &domain.ValidationError{Field: "stock", Message: "stock cannot be negative"}
	}
	return price, stock, nil
}

// CreateOrder runs the order-creation cascade: selection present,
// then quantity numeric, then quantity positive, then stock. Each failure
// is a distinct OrderError reason with its own user-facing message, and
// leaves both the stock and the orders collection untouched. On success
// it returns the order and its total for display.
func (s *StoreService) CreateOrder(customer *domain.Customer, product *domain.Product, quantityText string, date time.Time) (domain.Order, decimal.Decimal, error) {
	if customer == nil || product == nil || quantityText == "" || date.IsZero() {
		return s.failOrder(&domain.OrderError{
			Reason:  domain.ReasonMissingSelection,
			Message: "please select a customer, a product, a quantity and a date",
		})
	}
	quantity, err := strconv.Atoi(quantityText)
	if err != nil {
		return s.failOrder(&domain.OrderError{
			Reason:  domain.ReasonQuantityNotNumeric,
			Message: "quantity must be a number",
		})
	}
	if quantity <= 0 {
		return s.failOrder(&domain.OrderError{
			Reason:  domain.ReasonQuantityNotPositive,
			Message: "enter a valid quantity",
		})
	}
	order, err := s.store.PlaceOrder(*customer, product, quantity, date)
	if err != nil {
		orderErr, ok := err.(*domain.OrderError)
		if !ok {
			return domain.Order{}, decimal.Decimal{}, err
		}
		return s.failOrder(orderErr)
	}
	total := order.Total()
	s.logger.Info("order created",
		"customer", order.Customer.Name,
		"product", order.Product.Name,
		"quantity", order.Quantity,
		"total", total.String(),
	)
	return order, total, nil
}

func (s *StoreService) failOrder(err *domain.OrderError) (domain.Order, decimal.Decimal, error) {
	s.logger.Warn("order creation failed", "reason", string(err.Reason))
	s.notifier.Alert(err.Message)
	return domain.Order{}, decimal.Decimal{}, err
}

// FindCustomer returns the customer with the given name.
func (s *StoreService) FindCustomer(name string) (domain.Customer, bool) {
	return s.store.FindCustomer(name)
}

// FindProduct returns the first product with the given name.
func (s *StoreService) FindProduct(name string) (*domain.Product, bool) {
	return s.store.FindProduct(name)
}

// FindOrder locates the first order matching the given referential
// fields. It matches by names rather than references so an order can
// still be found after its product was removed from the catalogue.
func (s *StoreService) FindOrder(customerName, productName string, quantity int, date time.Time) (domain.Order, bool) {
	for _, o := range s.store.Orders() {
		if o.Customer.Name == customerName && o.Product.Name == productName &&
			o.Quantity == quantity && o.Date.Equal(date) {
			return o, true
		}
	}
	return domain.Order{}, false
}

// Orders returns a copy of the orders collection in its current order.
func (s *StoreService) Orders() []domain.Order {
	return s.store.Orders()
}

// Customers returns a copy of the customers collection.
func (s *StoreService) Customers() []domain.Customer {
	return s.store.Customers()
}

// Products returns a copy of the products collection.
func (s *StoreService) Products() []*domain.Product {
	return s.store.Products()
}

// RemoveOrder removes the order after confirmation. Stock is not
// restored (see store.RemoveOrder).
func (s *StoreService) RemoveOrder(order domain.Order) (bool, error) {
	if !s.confirmer.Confirm("Are you sure you want to remove this order?", order.String()) {
		return false, nil
	}
	removed := s.store.RemoveOrder(order)
	if removed {
		s.logger.Info("order removed", "customer", order.Customer.Name, "product", order.Product.Name)
	}
	return removed, nil
}

// SortOrders stably sorts the orders collection in place.
func (s *StoreService) SortOrders(key store.SortKey) {
	s.store.SortOrders(key)
}

// FilterOrders returns the orders for the named customer in the given
// month. An unknown customer name is an error; an empty result is not.
func (s *StoreService) FilterOrders(customerName string, month time.Month) (iter.Seq[domain.Order], error) {
	customer, ok := s.store.FindCustomer(customerName)
	if !ok {
		return nil, fmt.Errorf("customer %q not found", customerName)
	}
	return s.store.FilterOrders(customer, month), nil
}

// SaveAll snapshots all three collections to the blob asynchronously,
// alerting the user on completion either way.
func (s *StoreService) SaveAll() {
	s.snapshots.Save(
		func() { s.notifier.Alert("All data saved successfully.") },
		func(err error) { s.notifier.Alert("Error saving all data: " + err.Error()) },
	)
}

// LoadAll replaces all three collections from the blob asynchronously.
// A failed load leaves the current collections untouched.
func (s *StoreService) LoadAll() {
	s.snapshots.Load(
		func(snapshot.Snapshot) { s.notifier.Alert("All data loaded successfully.") },
		func(err error) { s.notifier.Alert("Error loading all data: " + err.Error()) },
	)
}

// SaveCustomersToDB inserts every in-memory customer into the customer
// database. Database access is best-effort: failures surface as alerts
// and leave the application running.
func (s *StoreService) SaveCustomersToDB(ctx context.Context) error {
	if s.customers == nil {
		err := fmt.Errorf("customer database is not configured")
		s.notifier.Alert(err.Error())
		return err
	}
	for _, c := range s.store.Customers() {
		if err := s.customers.Save(ctx, c); err != nil {
			s.notifier.Alert("Error saving customers to database: " + err.Error())
			return err
		}
	}
	s.logger.Info("customers saved to database", "count", len(s.store.Customers()))
	return nil
}

// LoadCustomersFromDB replaces the customers collection with the rows
// from the customer database. An invalid row aborts the whole load with
// the in-memory customers untouched.
func (s *StoreService) LoadCustomersFromDB(ctx context.Context) ([]domain.Customer, error) {
	if s.customers == nil {
		err := fmt.Errorf("customer database is not configured")
		s.notifier.Alert(err.Error())
		return nil, err
	}
	customers, err := s.customers.LoadAll(ctx)
	if err != nil {
		s.notifier.Alert("Error loading customers from database: " + err.Error())
		return nil, err
	}
	s.store.ReplaceAll(customers, s.store.Products(), s.store.Orders())
	s.logger.Info("customers loaded from database", "count", len(customers))
	return customers, nil
}
