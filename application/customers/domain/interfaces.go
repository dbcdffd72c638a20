package domain

import (
	"context"
	"database/sql"
	"time"

	"repairshop/common"
	"repairshop/middleware"
)

// Repository is the customer data access layer.
type Repository interface {
	// GetCustomerByID returns found=false, not an error, for a missing row.
	GetCustomerByID(ctx context.Context, id uint) (common.Customer, bool, error)

	Create(ctx context.Context, c *common.Customer) error
	Update(ctx context.Context, c *common.Customer) error

	// Count and Search share the same search filter.
	Count(ctx context.Context, search string) (int64, error)
	Search(ctx context.Context, search string) (*sql.Rows, error)
	ScanRow(rows *sql.Rows) (common.Customer, error)
}

// Service is the customer form workflow
type Service interface {
	// LoadForm resolves the form page for rawID ("" for a new customer).
	// Only infrastructure failures are returned as errors.
	LoadForm(ctx context.Context, rawID string) (common.View, error)

	ValidateField(ctx context.Context, values CustomerForm, field string) (FieldCheck, error)

	// Submit validates and persists values, creating when ID is 0.
	Submit(ctx context.Context, values CustomerForm) (common.Customer, error)

	Search(ctx context.Context, search string) middleware.StreamResponse

	LogRequest(requestID, action string, duration time.Duration, err error)
}
