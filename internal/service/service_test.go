package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/abgdnv/storecore/internal/customerdb"
	"github.com/abgdnv/storecore/internal/domain"
	"github.com/abgdnv/storecore/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier collects alert messages for assertions.
type recordingNotifier struct {
	alerts []string
}

func (n *recordingNotifier) Alert(message string) {
	n.alerts = append(n.alerts, message)
}

// mockCustomerStore is a mock implementation of the CustomerStore interface.
type mockCustomerStore struct {
	saved     []domain.Customer
	customers []domain.Customer
	err       error
}

func (m *mockCustomerStore) Save(_ context.Context, customer domain.Customer) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, customer)
	return nil
}

func (m *mockCustomerStore) LoadAll(_ context.Context) ([]domain.Customer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.customers, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fixture struct {
	store    *store.Store
	service  *StoreService
	notifier *recordingNotifier
	confirm  bool
}

func newFixture(t *testing.T, customers CustomerStoreOpt) *fixture {
	t.Helper()
	f := &fixture{store: store.New(), notifier: &recordingNotifier{}, confirm: true}
	confirmer := ConfirmerFunc(func(string, string) bool { return f.confirm })
	// Keep a typed nil out of the interface: a missing database must be
	// a nil CustomerStore, not a nil *mockCustomerStore.
	var cs customerdb.CustomerStore
	if customers.store != nil {
		cs = customers.store
	}
	f.service = NewStoreService(f.store, nil, cs, f.notifier, confirmer, testLogger())
	return f
}

// CustomerStoreOpt lets fixtures run with or without a database.
type CustomerStoreOpt struct{ store *mockCustomerStore }

func withDB(m *mockCustomerStore) CustomerStoreOpt { return CustomerStoreOpt{store: m} }
func withoutDB() CustomerStoreOpt                  { return CustomerStoreOpt{} }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Test_CreateOrder_Cascade(t *testing.T) {
	testCases := []struct {
		name         string
		nilCustomer  bool
		nilProduct   bool
		quantityText string
		zeroDate     bool
		expectReason domain.OrderErrorReason
	}{
		{name: "missing customer", nilCustomer: true, quantityText: "1", expectReason: domain.ReasonMissingSelection},
		{name: "missing product", nilProduct: true, quantityText: "1", expectReason: domain.ReasonMissingSelection},
		{name: "missing quantity", quantityText: "", expectReason: domain.ReasonMissingSelection},
		{name: "missing date", quantityText: "1", zeroDate: true, expectReason: domain.ReasonMissingSelection},
		{name: "non-numeric quantity", quantityText: "three", expectReason: domain.ReasonQuantityNotNumeric},
		{name: "zero quantity", quantityText: "0", expectReason: domain.ReasonQuantityNotPositive},
		{name: "negative quantity", quantityText: "-2", expectReason: domain.ReasonQuantityNotPositive},
		{name: "insufficient stock", quantityText: "6", expectReason: domain.ReasonInsufficientStock},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			f := newFixture(t, withoutDB())
			customer, err := domain.NewCustomer("Alice", "alice@example.com", date(1990, time.March, 14))
			require.NoError(t, err)
			widget := domain.NewProduct("Widget", decimal.NewFromInt(10), 5, "desc")
			f.store.AddCustomer(customer)
			f.store.AddProduct(widget)

			customerArg := &customer
			if tc.nilCustomer {
				customerArg = nil
			}
			productArg := widget
			if tc.nilProduct {
				productArg = nil
			}
			orderDate := date(2024, time.January, 1)
			if tc.zeroDate {
				orderDate = time.Time{}
			}

			// when
			_, _, err = f.service.CreateOrder(customerArg, productArg, tc.quantityText, orderDate)

			// then
			var oErr *domain.OrderError
			require.ErrorAs(t, err, &oErr)
			assert.Equal(t, tc.expectReason, oErr.Reason)
			assert.Equal(t, 5, widget.Stock, "no partial mutation")
			assert.Empty(t, f.store.Orders(), "no partial mutation")
			assert.Len(t, f.notifier.alerts, 1, "failure is surfaced to the user")
		})
	}
}

func Test_CreateOrder_WorkedExample(t *testing.T) {
	// Widget (10.0, 5): ordering 3 succeeds with total 30 and stock 2;
	// ordering 3 again fails with insufficient stock and changes nothing.
	f := newFixture(t, withoutDB())
	customer, err := domain.NewCustomer("Alice", "alice@example.com", date(1990, time.March, 14))
	require.NoError(t, err)
	widget := domain.NewProduct("Widget", decimal.NewFromFloat(10.0), 5, "desc")
	f.store.AddCustomer(customer)
	f.store.AddProduct(widget)

	order, total, err := f.service.CreateOrder(&customer, widget, "3", date(2024, time.January, 1))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 2, widget.Stock)
	assert.Equal(t, 3, order.Quantity)
	require.Len(t, f.store.Orders(), 1)

	_, _, err = f.service.CreateOrder(&customer, widget, "3", date(2024, time.January, 2))
	require.ErrorIs(t, err, &domain.OrderError{Reason: domain.ReasonInsufficientStock})
	assert.Equal(t, 2, widget.Stock)
	assert.Len(t, f.store.Orders(), 1)
}

func Test_AddCustomer_Validation(t *testing.T) {
	f := newFixture(t, withoutDB())

	_, err := f.service.AddCustomer("", "alice@example.com", date(1990, time.March, 14))

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, f.store.Customers())
	assert.Len(t, f.notifier.alerts, 1)
}

func Test_AddProduct_ParsesNumericText(t *testing.T) {
	testCases := []struct {
		name      string
		price     string
		stock     string
		expectErr bool
	}{
		{name: "valid", price: "12.50", stock: "3"},
		{name: "non-numeric price", price: "abc", stock: "3", expectErr: true},
		{name: "negative price", price: "-1", stock: "3", expectErr: true},
		{name: "non-numeric stock", price: "1", stock: "many", expectErr: true},
		{name: "negative stock", price: "1", stock: "-4", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, withoutDB())
			product, err := f.service.AddProduct("Widget", tc.price, tc.stock, "desc")
			if tc.expectErr {
				var vErr *domain.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Empty(t, f.store.Products())
				return
			}
			require.NoError(t, err)
			require.Len(t, f.store.Products(), 1)
			assert.Same(t, product, f.store.Products()[0])
		})
	}
}

func Test_EditProduct_VisibleThroughOrders(t *testing.T) {
	f := newFixture(t, withoutDB())
	customer, err := domain.NewCustomer("Alice", "alice@example.com", date(1990, time.March, 14))
	require.NoError(t, err)
	f.store.AddCustomer(customer)
	widget, err := f.service.AddProduct("Widget", "10", "5", "desc")
	require.NoError(t, err)
	order, _, err := f.service.CreateOrder(&customer, widget, "2", date(2024, time.January, 1))
	require.NoError(t, err)

	_, err = f.service.EditProduct("Widget", "Widget Pro", "20", "9", "new desc")
	require.NoError(t, err)

	assert.Equal(t, "Widget Pro", order.Product.Name)
	assert.True(t, order.Total().Equal(decimal.NewFromInt(40)))
}

func Test_RemoveCustomer_DeclinedConfirmationIsNoOp(t *testing.T) {
	f := newFixture(t, withoutDB())
	_, err := f.service.AddCustomer("Alice", "alice@example.com", date(1990, time.March, 14))
	require.NoError(t, err)
	f.confirm = false

	removed, err := f.service.RemoveCustomer("Alice")

	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, f.store.Customers(), 1)
}

func Test_RemoveOrder_DeclinedConfirmationIsNoOp(t *testing.T) {
	f := newFixture(t, withoutDB())
	customer, err := domain.NewCustomer("Alice", "alice@example.com", date(1990, time.March, 14))
	require.NoError(t, err)
	f.store.AddCustomer(customer)
	widget, err := f.service.AddProduct("Widget", "10", "5", "desc")
	require.NoError(t, err)
	order, _, err := f.service.CreateOrder(&customer, widget, "2", date(2024, time.January, 1))
	require.NoError(t, err)
	f.confirm = false

	removed, err := f.service.RemoveOrder(order)

	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, f.store.Orders(), 1)
}

func Test_FilterOrders_UnknownCustomer(t *testing.T) {
	f := newFixture(t, withoutDB())

	_, err := f.service.FilterOrders("Ghost", time.May)

	require.Error(t, err)
}

func Test_SaveCustomersToDB(t *testing.T) {
	db := &mockCustomerStore{}
	f := newFixture(t, withDB(db))
	_, err := f.service.AddCustomer("Alice", "alice@example.com", date(1990, time.March, 14))
	require.NoError(t, err)
	_, err = f.service.AddCustomer("Bob", "bob@example.com", date(1985, time.July, 2))
	require.NoError(t, err)

	require.NoError(t, f.service.SaveCustomersToDB(context.Background()))

	assert.Len(t, db.saved, 2)
}

func Test_SaveCustomersToDB_NotConfigured(t *testing.T) {
	f := newFixture(t, withoutDB())

	err := f.service.SaveCustomersToDB(context.Background())

	require.Error(t, err)
	assert.Len(t, f.notifier.alerts, 1)
}

func Test_LoadCustomersFromDB_ReplacesCustomersOnly(t *testing.T) {
	bob, err := domain.NewCustomer("Bob", "bob@example.com", date(1985, time.July, 2))
	require.NoError(t, err)
	db := &mockCustomerStore{customers: []domain.Customer{bob}}
	f := newFixture(t, withDB(db))
	_, err = f.service.AddCustomer("Alice", "alice@example.com", date(1990, time.March, 14))
	require.NoError(t, err)
	widget, err := f.service.AddProduct("Widget", "10", "5", "desc")
	require.NoError(t, err)

	customers, err := f.service.LoadCustomersFromDB(context.Background())

	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Bob", f.store.Customers()[0].Name)
	require.Len(t, f.store.Products(), 1)
	assert.Same(t, widget, f.store.Products()[0], "products survive a customer load")
}

func Test_LoadCustomersFromDB_IntegrityFailureLeavesStateUntouched(t *testing.T) {
	db := &mockCustomerStore{err: &domain.DataIntegrityError{Err: errors.New("null column in customer row")}}
	f := newFixture(t, withDB(db))
	_, err := f.service.AddCustomer("Alice", "alice@example.com", date(1990, time.March, 14))
	require.NoError(t, err)

	_, err = f.service.LoadCustomersFromDB(context.Background())

	var iErr *domain.DataIntegrityError
	require.ErrorAs(t, err, &iErr)
	require.Len(t, f.store.Customers(), 1)
	assert.Equal(t, "Alice", f.store.Customers()[0].Name)
	assert.Len(t, f.notifier.alerts, 1)
}
