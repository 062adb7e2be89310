package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product is a mutable product record owned by the collections store.
// Orders hold a *Product, so stock and price edits become visible
// through every order that references the product.
type Product struct {
	Name        string
	Price       decimal.Decimal
	Stock       int
	Description string
}

// NewProduct constructs a product. No validation happens here; callers
// are expected to have validated numeric text before constructing,
// matching the order-creation flow where parsing errors are reported
// to the user separately.
func NewProduct(name string, price decimal.Decimal, stock int, description string) *Product {
	return &Product{
		Name:        name,
		Price:       price,
		Stock:       stock,
		Description: description,
	}
}

// Update edits the product in place. All fields are replaced.
func (p *Product) Update(name string, price decimal.Decimal, stock int, description string) {
	p.Name = name
	p.Price = price
	p.Stock = stock
	p.Description = description
}

// String formats the product as "name - €price (n in stock)".
func (p *Product) String() string {
	return fmt.Sprintf("%s - €%s (%d in stock)", p.Name, p.Price.String(), p.Stock)
}
