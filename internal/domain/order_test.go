package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Order_Total(t *testing.T) {
	customer, err := NewCustomer("Alice", "alice@example.com", time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	widget := NewProduct("Widget", decimal.RequireFromString("10.50"), 5, "desc")

	order := NewOrder(customer, widget, 3, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, order.Total().Equal(decimal.RequireFromString("31.50")), "total should be price times quantity")
}

func Test_Order_Total_SeesProductPriceEdits(t *testing.T) {
	customer, err := NewCustomer("Alice", "alice@example.com", time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	widget := NewProduct("Widget", decimal.NewFromInt(10), 5, "desc")
	order := NewOrder(customer, widget, 2, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))

	// Orders share the product reference, so a price edit shows through.
	widget.Update("Widget", decimal.NewFromInt(20), 5, "desc")

	assert.True(t, order.Total().Equal(decimal.NewFromInt(40)))
}

func Test_Order_Equal(t *testing.T) {
	customer, err := NewCustomer("Alice", "alice@example.com", time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	widget := NewProduct("Widget", decimal.NewFromInt(10), 5, "desc")
	gadget := NewProduct("Gadget", decimal.NewFromInt(10), 5, "desc")
	date := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	order := NewOrder(customer, widget, 3, date)

	assert.True(t, order.Equal(NewOrder(customer, widget, 3, date)))
	assert.False(t, order.Equal(NewOrder(customer, gadget, 3, date)), "different product reference")
	assert.False(t, order.Equal(NewOrder(customer, widget, 2, date)), "different quantity")
	assert.False(t, order.Equal(NewOrder(customer, widget, 3, date.AddDate(0, 0, 1))), "different date")
}
