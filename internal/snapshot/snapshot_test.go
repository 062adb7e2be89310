package snapshot

import (
	"testing"
	"time"

	"github.com/abgdnv/storecore/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleSnapshot(t *testing.T) Snapshot {
	t.Helper()
	alice, err := domain.NewCustomer("Alice", "alice@example.com", date(1990, time.March, 14))
	require.NoError(t, err)
	bob, err := domain.NewCustomer("Bob", "bob@example.com", date(1985, time.July, 2))
	require.NoError(t, err)
	widget := domain.NewProduct("Widget", decimal.RequireFromString("10.50"), 2, "a widget")
	empty := domain.NewProduct("Empty", decimal.NewFromInt(1), 0, "sold out")
	return Snapshot{
		Customers: []domain.Customer{alice, bob},
		Products:  []*domain.Product{widget, empty},
		Orders: []domain.Order{
			domain.NewOrder(alice, widget, 3, date(2024, time.January, 1)),
			domain.NewOrder(bob, widget, 1, date(2024, time.February, 10)),
		},
	}
}

func Test_Snapshot_RoundTrip(t *testing.T) {
	// given: a dataset including a zero-stock product
	original := sampleSnapshot(t)

	// when
	data, err := Encode(original)
	require.NoError(t, err)
	decoded, err := Decode(data)

	// then
	require.NoError(t, err)
	assert.Equal(t, original.Customers, decoded.Customers)
	require.Len(t, decoded.Products, 2)
	for i, p := range original.Products {
		assert.Equal(t, p.Name, decoded.Products[i].Name)
		assert.True(t, p.Price.Equal(decoded.Products[i].Price))
		assert.Equal(t, p.Stock, decoded.Products[i].Stock)
		assert.Equal(t, p.Description, decoded.Products[i].Description)
	}
	require.Len(t, decoded.Orders, 2)
	for i, o := range original.Orders {
		assert.Equal(t, o.Customer, decoded.Orders[i].Customer)
		assert.Equal(t, o.Product.Name, decoded.Orders[i].Product.Name)
		assert.Equal(t, o.Quantity, decoded.Orders[i].Quantity)
		assert.True(t, o.Date.Equal(decoded.Orders[i].Date))
	}
}

func Test_Snapshot_RoundTrip_ZeroOrders(t *testing.T) {
	original := sampleSnapshot(t)
	original.Orders = nil

	data, err := Encode(original)
	require.NoError(t, err)
	decoded, err := Decode(data)

	require.NoError(t, err)
	assert.Equal(t, original.Customers, decoded.Customers)
	assert.Empty(t, decoded.Orders)
}

func Test_Snapshot_Decode_RelinksProductReferences(t *testing.T) {
	// Orders must come back referencing the loaded product instance,
	// not a private copy: a stock edit after load shows through.
	data, err := Encode(sampleSnapshot(t))
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Same(t, decoded.Products[0], decoded.Orders[0].Product)
	assert.Same(t, decoded.Products[0], decoded.Orders[1].Product)
}

func Test_Snapshot_Decode_DanglingCustomer(t *testing.T) {
	blob := `{
	  "customers": [],
	  "products": [{"name": "Widget", "price": "10", "stock": 5, "description": ""}],
	  "orders": [{"customerName": "Ghost", "productName": "Widget", "quantity": 1, "date": "2024-01-01"}]
	}`

	_, err := Decode([]byte(blob))

	var rErr *domain.ReferentialError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, "customer", rErr.Kind)
	assert.Equal(t, "Ghost", rErr.Name)
}

func Test_Snapshot_Decode_DanglingProduct(t *testing.T) {
	blob := `{
	  "customers": [{"name": "Alice", "email": "alice@example.com", "dob": "1990-03-14"}],
	  "products": [],
	  "orders": [{"customerName": "Alice", "productName": "Ghost", "quantity": 1, "date": "2024-01-01"}]
	}`

	_, err := Decode([]byte(blob))

	var rErr *domain.ReferentialError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, "product", rErr.Kind)
}

func Test_Snapshot_Decode_RejectsInvalidNumericValues(t *testing.T) {
	testCases := []struct {
		name        string
		blob        string
		expectField string
	}{
		{
			name: "negative stock",
			blob: `{
			  "customers": [],
			  "products": [{"name": "Widget", "price": "10", "stock": -5, "description": ""}],
			  "orders": []
			}`,
			expectField: "stock",
		},
		{
			name: "negative price",
			blob: `{
			  "customers": [],
			  "products": [{"name": "Widget", "price": "-1", "stock": 5, "description": ""}],
			  "orders": []
			}`,
			expectField: "price",
		},
		{
			name: "zero quantity",
			blob: `{
			  "customers": [{"name": "Alice", "email": "alice@example.com", "dob": "1990-03-14"}],
			  "products": [{"name": "Widget", "price": "10", "stock": 5, "description": ""}],
			  "orders": [{"customerName": "Alice", "productName": "Widget", "quantity": 0, "date": "2024-01-01"}]
			}`,
			expectField: "quantity",
		},
		{
			name: "negative quantity",
			blob: `{
			  "customers": [{"name": "Alice", "email": "alice@example.com", "dob": "1990-03-14"}],
			  "products": [{"name": "Widget", "price": "10", "stock": 5, "description": ""}],
			  "orders": [{"customerName": "Alice", "productName": "Widget", "quantity": -3, "date": "2024-01-01"}]
			}`,
			expectField: "quantity",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			_, err := Decode([]byte(tc.blob))
			// then
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.expectField, vErr.Field)
		})
	}
}

func Test_Snapshot_Decode_CorruptBlob(t *testing.T) {
	_, err := Decode([]byte("not json"))
	require.Error(t, err)
}

func Test_Snapshot_Decode_InvalidCustomer(t *testing.T) {
	// An empty email must fail the same validation as in-memory
	// construction.
	blob := `{
	  "customers": [{"name": "Alice", "email": "", "dob": "1990-03-14"}],
	  "products": [],
	  "orders": []
	}`

	_, err := Decode([]byte(blob))

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)
}
