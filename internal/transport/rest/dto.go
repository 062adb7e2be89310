package rest

import (
	"time"

	"github.com/abgdnv/storecore/internal/domain"
)

// CustomerDto represents a customer in API responses.
type CustomerDto struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	DOB   string `json:"dob"`
}

// CustomerCreateDto represents the request body for adding a customer.
// DOB is a calendar date, "2006-01-02".
type CustomerCreateDto struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	DOB   string `json:"dob"   validate:"required,datetime=2006-01-02"`
}

// ProductDto represents a product in API responses. Price is a decimal
// string.
type ProductDto struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
}

// ProductUpsertDto represents the request body for adding or editing a
// product. Price and stock arrive as text; the engine parses and
// validates them the same way it does for order quantities.
type ProductUpsertDto struct {
	Name        string `json:"name"        validate:"required"`
	Price       string `json:"price"       validate:"required"`
	Stock       string `json:"stock"       validate:"required"`
	Description string `json:"description"`
}

// OrderDto represents an order in API responses.
type OrderDto struct {
	Customer string `json:"customer"`
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Date     string `json:"date"`
	Total    string `json:"total"`
}

// OrderCreateDto represents the request body for creating an order.
// Quantity stays text until the stock ledger has validated it.
type OrderCreateDto struct {
	Customer string `json:"customer" validate:"required"`
	Product  string `json:"product"  validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Date     string `json:"date"     validate:"required,datetime=2006-01-02"`
}

// OrderRefDto identifies an existing order by its referential fields.
type OrderRefDto struct {
	Customer string `json:"customer" validate:"required"`
	Product  string `json:"product"  validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Date     string `json:"date"     validate:"required,datetime=2006-01-02"`
}

// SortDto selects the ordering key for the sort endpoint.
type SortDto struct {
	By string `json:"by" validate:"required,oneof=date product"`
}

func toCustomerDto(c domain.Customer) CustomerDto {
	return CustomerDto{
		Name:  c.Name,
		Email: c.Email,
		DOB:   c.DOB.Format(domain.DateLayout),
	}
}

func toProductDto(p *domain.Product) ProductDto {
	return ProductDto{
		Name:        p.Name,
		Price:       p.Price.String(),
		Stock:       p.Stock,
		Description: p.Description,
	}
}

func toOrderDto(o domain.Order) OrderDto {
	return OrderDto{
		Customer: o.Customer.Name,
		Product:  o.Product.Name,
		Quantity: o.Quantity,
		Date:     o.Date.Format(domain.DateLayout),
		Total:    o.Total().String(),
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}
