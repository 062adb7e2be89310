// Package snapshot persists the whole tri-collection dataset as one
// self-describing JSON blob and restores it. Orders reference their
// customer and product by name (the referential key); the loader
// re-resolves those names against the loaded collections so the blob
// never carries duplicated or stale entity copies.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abgdnv/storecore/internal/domain"
	"github.com/shopspring/decimal"
)

// Snapshot bundles the three collections for a bulk save or load.
type Snapshot struct {
	Customers []domain.Customer
	Products  []*domain.Product
	Orders    []domain.Order
}

// blob is the on-disk layout. Dates are calendar dates ("2006-01-02");
// prices are decimal strings.
type blob struct {
	Customers []customerRecord `json:"customers"`
	Products  []productRecord  `json:"products"`
	Orders    []orderRecord    `json:"orders"`
}

type customerRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	DOB   string `json:"dob"`
}

type productRecord struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
}

type orderRecord struct {
	CustomerName string `json:"customerName"`
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	Date         string `json:"date"`
}

// Encode serializes the snapshot to the blob layout.
func Encode(s Snapshot) ([]byte, error) {
	b := blob{
		Customers: make([]customerRecord, 0, len(s.Customers)),
		Products:  make([]productRecord, 0, len(s.Products)),
		Orders:    make([]orderRecord, 0, len(s.Orders)),
	}
	for _, c := range s.Customers {
		b.Customers = append(b.Customers, customerRecord{
			Name:  c.Name,
			Email: c.Email,
			DOB:   c.DOB.Format(domain.DateLayout),
		})
	}
	for _, p := range s.Products {
		b.Products = append(b.Products, productRecord{
			Name:        p.Name,
			Price:       p.Price,
			Stock:       p.Stock,
			Description: p.Description,
		})
	}
	for _, o := range s.Orders {
		b.Orders = append(b.Orders, orderRecord{
			CustomerName: o.Customer.Name,
			ProductName:  o.Product.Name,
			Quantity:     o.Quantity,
			Date:         o.Date.Format(domain.DateLayout),
		})
	}
	return json.MarshalIndent(b, "", "  ")
}

// Decode deserializes a blob and re-resolves order references. It
// returns a *domain.ReferentialError if an order names a customer or
// product absent from the blob, and a *domain.ValidationError if any
// entity violates its construction invariants (negative stock or
// price, non-positive quantity), leaving the caller free to abort the
// load with nothing replaced.
func Decode(data []byte) (Snapshot, error) {
	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}

	s := Snapshot{
		Customers: make([]domain.Customer, 0, len(b.Customers)),
		Products:  make([]*domain.Product, 0, len(b.Products)),
		Orders:    make([]domain.Order, 0, len(b.Orders)),
	}

	customersByName := make(map[string]domain.Customer, len(b.Customers))
	for _, rec := range b.Customers {
		dob, err := time.Parse(domain.DateLayout, rec.DOB)
		if err != nil {
			return Snapshot{}, fmt.Errorf("decoding customer %q dob: %w", rec.Name, err)
		}
		c, err := domain.NewCustomer(rec.Name, rec.Email, dob)
		if err != nil {
			return Snapshot{}, fmt.Errorf("decoding customer %q: %w", rec.Name, err)
		}
		s.Customers = append(s.Customers, c)
		if _, ok := customersByName[c.Name]; !ok {
			customersByName[c.Name] = c
		}
	}

	productsByName := make(map[string]*domain.Product, len(b.Products))
	for _, rec := range b.Products {
		if rec.Price.IsNegative() {
			return Snapshot{}, &domain.ValidationError{Field: "price", Message: fmt.Sprintf("product %q has a negative price", rec.Name)}
		}
		if rec.Stock < 0 {
			return Snapshot{}, &domain.ValidationError{Field: "stock", Message: fmt.Sprintf("product %q has negative stock", rec.Name)}
		}
		p := domain.NewProduct(rec.Name, rec.Price, rec.Stock, rec.Description)
		s.Products = append(s.Products, p)
		if _, ok := productsByName[p.Name]; !ok {
			productsByName[p.Name] = p
		}
	}

	for _, rec := range b.Orders {
		if rec.Quantity <= 0 {
			return Snapshot{}, &domain.ValidationError{Field: "quantity", Message: fmt.Sprintf("order of %q has a non-positive quantity", rec.ProductName)}
		}
		customer, ok := customersByName[rec.CustomerName]
		if !ok {
			return Snapshot{}, &domain.ReferentialError{Kind: "customer", Name: rec.CustomerName}
		}
		product, ok := productsByName[rec.ProductName]
		if !ok {
			return Snapshot{}, &domain.ReferentialError{Kind: "product", Name: rec.ProductName}
		}
		date, err := time.Parse(domain.DateLayout, rec.Date)
		if err != nil {
			return Snapshot{}, fmt.Errorf("decoding order date: %w", err)
		}
		s.Orders = append(s.Orders, domain.NewOrder(customer, product, rec.Quantity, date))
	}

	return s, nil
}
