package domain

import "fmt"

// ValidationError reports malformed entity-construction input. The
// operation is aborted with no mutation; the message is user-facing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// OrderErrorReason is the reason code carried by an OrderError.
type OrderErrorReason string

const (
	// ReasonMissingSelection reports that no customer, product, quantity or date was supplied.
	ReasonMissingSelection OrderErrorReason = "missing_selection"
	// ReasonQuantityNotNumeric reports quantity text that did not parse as an integer.
	ReasonQuantityNotNumeric OrderErrorReason = "quantity_not_numeric"
	// ReasonQuantityNotPositive reports a quantity that parsed but is zero or negative.
	ReasonQuantityNotPositive OrderErrorReason = "quantity_not_positive"
	// ReasonInsufficientStock reports a product with less stock than requested.
	ReasonInsufficientStock OrderErrorReason = "insufficient_stock"
)

// OrderError reports a failed order creation. It is a single error kind
// with a reason code; each reason maps to a distinct user-facing
// message. No partial mutation has occurred when it is returned.
type OrderError struct {
	Reason  OrderErrorReason
	Message string
}

func (e *OrderError) Error() string {
	return e.Message
}

// Is lets errors.Is match two OrderErrors by reason code.
func (e *OrderError) Is(target error) bool {
	t, ok := target.(*OrderError)
	return ok && t.Reason == e.Reason
}

// PersistenceError reports an I/O or (de)serialization failure during
// snapshot save/load. In-memory state is left unchanged.
type PersistenceError struct {
	Op  string // "save" or "load"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("snapshot %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ReferentialError reports an order in a loaded snapshot naming a
// customer or product that the snapshot does not contain. The whole
// load is aborted.
type ReferentialError struct {
	Kind string // "customer" or "product"
	Name string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("order references unknown %s %q", e.Kind, e.Name)
}

// DataIntegrityError reports an invalid row coming back from the
// customer database: empty name or email, or a null date of birth.
// The whole load is aborted.
type DataIntegrityError struct {
	Err error
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("invalid customer row: %v", e.Err)
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}
