// Package rest exposes the store engine over HTTP. It is the thin
// collaborator surface in front of the engine: every mutation goes
// through the service, and destructive requests carry their own
// confirmation (issuing the DELETE is the user saying yes).
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/storecore/internal/domain"
	"github.com/abgdnv/storecore/internal/service"
	"github.com/abgdnv/storecore/internal/store"
	"github.com/abgdnv/storecore/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  *service.StoreService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of Handler with the provided service.
func NewHandler(service *service.StoreService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the store engine.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Post("/", h.AddCustomer)
		r.Delete("/{name}", h.RemoveCustomer)

		r.Post("/db/save", h.SaveCustomersToDB)
		r.Post("/db/load", h.LoadCustomersFromDB)
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.AddProduct)

		r.Route("/{name}", func(r chi.Router) {
			r.Put("/", h.EditProduct)
			r.Delete("/", h.RemoveProduct)
		})
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.CreateOrder)
		r.Delete("/", h.RemoveOrder)
		r.Post("/sort", h.SortOrders)
		r.Get("/filter", h.FilterOrders)
	})

	r.Route("/api/v1/snapshot", func(r chi.Router) {
		r.Post("/save", h.SaveSnapshot)
		r.Post("/load", h.LoadSnapshot)
	})

	r.Get("/healthz", h.HealthCheck)
}

// ListCustomers returns every customer in insertion order.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	customers := h.service.Customers()
	list := make([]CustomerDto, 0, len(customers))
	for _, c := range customers {
		list = append(list, toCustomerDto(c))
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// AddCustomer validates and appends a new customer.
func (h *Handler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto CustomerCreateDto
	if !h.decodeAndValidate(w, r, mLogger, &dto) {
		return
	}
	dob, err := parseDate(dto.DOB)
	if err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid date of birth")
		return
	}
	customer, err := h.service.AddCustomer(dto.Name, dto.Email, dob)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			mLogger.WarnContext(r.Context(), "Customer validation failed", "field", vErr.Field)
			web.RespondError(w, mLogger, http.StatusBadRequest, vErr.Message)
			return
		}
		mLogger.ErrorContext(r.Context(), "Error adding customer", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add customer")
		return
	}
	mLogger.InfoContext(r.Context(), "Customer added", "Name", customer.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, toCustomerDto(customer))
}

// RemoveCustomer removes the named customer. Their orders are kept.
func (h *Handler) RemoveCustomer(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	name, ok := web.ParseName(w, r, mLogger)
	if !ok {
		return
	}
	removed, err := h.service.RemoveCustomer(name)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Customer not found for removal", "Name", name)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Customer %q not found", name))
		return
	}
	if !removed {
		// Confirmation declined: full no-op.
		web.RespondJSON(w, mLogger, http.StatusOK, map[string]string{"status": "cancelled"})
		return
	}
	mLogger.InfoContext(r.Context(), "Customer removed", "Name", name)
	w.WriteHeader(http.StatusNoContent)
}

// ListProducts returns every product in insertion order.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	products := h.service.Products()
	list := make([]ProductDto, 0, len(products))
	for _, p := range products {
		list = append(list, toProductDto(p))
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// AddProduct appends a new product.
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto ProductUpsertDto
	if !h.decodeAndValidate(w, r, mLogger, &dto) {
		return
	}
	product, err := h.service.AddProduct(dto.Name, dto.Price, dto.Stock, dto.Description)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			mLogger.WarnContext(r.Context(), "Product validation failed", "field", vErr.Field)
			web.RespondError(w, mLogger, http.StatusBadRequest, vErr.Message)
			return
		}
		mLogger.ErrorContext(r.Context(), "Error adding product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to add product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product added", "Name", product.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, toProductDto(product))
}

// EditProduct updates the named product in place. Orders referencing
// it see the new values immediately.
func (h *Handler) EditProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	name, ok := web.ParseName(w, r, mLogger)
	if !ok {
		return
	}
	var dto ProductUpsertDto
	if !h.decodeAndValidate(w, r, mLogger, &dto) {
		return
	}
	product, err := h.service.EditProduct(name, dto.Name, dto.Price, dto.Stock, dto.Description)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			web.RespondError(w, mLogger, http.StatusBadRequest, vErr.Message)
			return
		}
		mLogger.WarnContext(r.Context(), "Product not found for update", "Name", name)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product %q not found", name))
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated", "Name", product.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, toProductDto(product))
}

// RemoveProduct removes the named product. Orders referencing it stay.
func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	name, ok := web.ParseName(w, r, mLogger)
	if !ok {
		return
	}
	removed, err := h.service.RemoveProduct(name)
	if err != nil {
		mLogger.WarnContext(r.Context(), "Product not found for removal", "Name", name)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product %q not found", name))
		return
	}
	if !removed {
		web.RespondJSON(w, mLogger, http.StatusOK, map[string]string{"status": "cancelled"})
		return
	}
	mLogger.InfoContext(r.Context(), "Product removed", "Name", name)
	w.WriteHeader(http.StatusNoContent)
}

// ListOrders returns every order in the collection's current order.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	orders := h.service.Orders()
	list := make([]OrderDto, 0, len(orders))
	for _, o := range orders {
		list = append(list, toOrderDto(o))
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// CreateOrder runs the order-creation cascade and returns the new
// order with its computed total.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto OrderCreateDto
	if !h.decodeAndValidate(w, r, mLogger, &dto) {
		return
	}
	date, err := parseDate(dto.Date)
	if err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid order date")
		return
	}

	var customerRef *domain.Customer
	if customer, ok := h.service.FindCustomer(dto.Customer); ok {
		customerRef = &customer
	}
	product, _ := h.service.FindProduct(dto.Product)
	// A missing customer or product flows into the cascade as a nil
	// reference and comes back as a missing-selection error.
	order, total, err := h.service.CreateOrder(customerRef, product, dto.Quantity, date)
	if err != nil {
		var oErr *domain.OrderError
		if errors.As(err, &oErr) {
			mLogger.WarnContext(r.Context(), "Order creation failed", "reason", string(oErr.Reason))
			web.RespondError(w, mLogger, orderErrorStatus(oErr), oErr.Message)
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating order", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create order")
		return
	}
	mLogger.InfoContext(r.Context(), "Order created", "Customer", order.Customer.Name, "Product", order.Product.Name, "Total", total.String())
	web.RespondJSON(w, mLogger, http.StatusCreated, toOrderDto(order))
}

// RemoveOrder removes the order identified by the request body.
func (h *Handler) RemoveOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto OrderRefDto
	if !h.decodeAndValidate(w, r, mLogger, &dto) {
		return
	}
	date, err := parseDate(dto.Date)
	if err != nil {
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid order date")
		return
	}
	order, found := h.service.FindOrder(dto.Customer, dto.Product, dto.Quantity, date)
	if !found {
		mLogger.WarnContext(r.Context(), "Order not found for removal", "Customer", dto.Customer, "Product", dto.Product)
		web.RespondError(w, mLogger, http.StatusNotFound, "Order not found")
		return
	}
	removed, err := h.service.RemoveOrder(order)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error removing order", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to remove order")
		return
	}
	if !removed {
		web.RespondJSON(w, mLogger, http.StatusOK, map[string]string{"status": "cancelled"})
		return
	}
	mLogger.InfoContext(r.Context(), "Order removed", "Customer", dto.Customer, "Product", dto.Product)
	w.WriteHeader(http.StatusNoContent)
}

// SortOrders stably sorts the orders collection by date or by product
// name.
func (h *Handler) SortOrders(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto SortDto
	if !h.decodeAndValidate(w, r, mLogger, &dto) {
		return
	}
	key := store.SortByDate
	if dto.By == "product" {
		key = store.SortByProductName
	}
	h.service.SortOrders(key)
	mLogger.InfoContext(r.Context(), "Orders sorted", "by", dto.By)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]string{"status": "sorted"})
}

// FilterOrders returns the orders for a customer in a given month. An
// empty list is a valid outcome, not an error.
func (h *Handler) FilterOrders(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	customerName := r.URL.Query().Get("customer")
	if customerName == "" {
		web.RespondError(w, mLogger, http.StatusBadRequest, "customer url parameter is required")
		return
	}
	month, ok := web.ParseValidateRange(r, w, mLogger, "month", 1, 12)
	if !ok {
		return
	}
	seq, err := h.service.FilterOrders(customerName, time.Month(month))
	if err != nil {
		mLogger.WarnContext(r.Context(), "Customer not found for filter", "Customer", customerName)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Customer %q not found", customerName))
		return
	}
	list := make([]OrderDto, 0)
	for o := range seq {
		list = append(list, toOrderDto(o))
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// SaveSnapshot kicks off an asynchronous save of all three collections.
func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	h.service.SaveAll()
	mLogger.InfoContext(r.Context(), "Snapshot save accepted")
	web.RespondJSON(w, mLogger, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// LoadSnapshot kicks off an asynchronous load replacing all three
// collections. A failed load leaves the current dataset untouched.
func (h *Handler) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	h.service.LoadAll()
	mLogger.InfoContext(r.Context(), "Snapshot load accepted")
	web.RespondJSON(w, mLogger, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// SaveCustomersToDB inserts every in-memory customer into the customer
// database.
func (h *Handler) SaveCustomersToDB(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	if err := h.service.SaveCustomersToDB(r.Context()); err != nil {
		mLogger.ErrorContext(r.Context(), "Error saving customers to database", "error", err)
		web.RespondError(w, mLogger, http.StatusServiceUnavailable, err.Error())
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]string{"status": "saved"})
}

// LoadCustomersFromDB replaces the customers collection with the
// database rows. An invalid row aborts the whole load.
func (h *Handler) LoadCustomersFromDB(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	customers, err := h.service.LoadCustomersFromDB(r.Context())
	if err != nil {
		var iErr *domain.DataIntegrityError
		if errors.As(err, &iErr) {
			mLogger.ErrorContext(r.Context(), "Invalid customer row, load aborted", "error", err)
			web.RespondError(w, mLogger, http.StatusConflict, err.Error())
			return
		}
		mLogger.ErrorContext(r.Context(), "Error loading customers from database", "error", err)
		web.RespondError(w, mLogger, http.StatusServiceUnavailable, err.Error())
		return
	}
	list := make([]CustomerDto, 0, len(customers))
	for _, c := range customers {
		list = append(list, toCustomerDto(c))
	}
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decodeAndValidate decodes the JSON body into dto and runs the struct
// validators, responding with 400 on any failure.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
	if err := json.NewDecoder(r.Body).Decode(dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			// If the error is a validation error, we can extract field-specific errors.
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				// fieldErr.Tag() returns "required", "max", etc.
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// orderErrorStatus maps an order-creation failure to an HTTP status:
// insufficient stock is a conflict with current state, everything else
// is bad input.
func orderErrorStatus(err *domain.OrderError) int {
	if err.Reason == domain.ReasonInsufficientStock {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID, _ := web.GetRequestID(r.Context())
	return h.logger.With("request_id", reqID)
}
