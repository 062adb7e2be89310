// Package domain contains the store entities and the error kinds the
// engine reports. Entities follow the ownership rules of the store:
// customers and orders are immutable values, products are mutable and
// owned by the collections store.
package domain

import "time"

// Customer is an immutable customer record. Construct it through
// NewCustomer; the zero value is not a valid customer.
//
// Customer identity is the name alone: two customers sharing a name are
// the same entity for removal and filtering purposes.
type Customer struct {
	Name  string
	Email string
	DOB   time.Time
}

// NewCustomer validates the required fields and returns an immutable
// Customer. It returns a *ValidationError naming the first missing field.
func NewCustomer(name, email string, dob time.Time) (Customer, error) {
	if name == "" {
		return Customer{}, &ValidationError{Field: "name", Message: "name cannot be empty"}
	}
	if email == "" {
		return Customer{}, &ValidationError{Field: "email", Message: "email cannot be empty"}
	}
	if dob.IsZero() {
		return Customer{}, &ValidationError{Field: "dob", Message: "date of birth is required"}
	}
	return Customer{Name: name, Email: email, DOB: dob}, nil
}

// Equal reports whether two customers are the same entity (by name).
func (c Customer) Equal(other Customer) bool {
	return c.Name == other.Name
}

// String formats the customer as "name | email | dob".
func (c Customer) String() string {
	return c.Name + " | " + c.Email + " | " + c.DOB.Format(DateLayout)
}

// DateLayout is the calendar-date form used for display and in the
// snapshot blob.
const DateLayout = "2006-01-02"
