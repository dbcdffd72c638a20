package domain

import (
	"context"
	"database/sql"
	"time"

	"repairshop/application/technicians"
	"repairshop/common"
	"repairshop/middleware"
)

// Repository reads and writes tickets
type Repository interface {
	// GetTicketByID returns found=false, not an error, for a missing row.
	GetTicketByID(ctx context.Context, id uint) (common.Ticket, bool, error)

	Create(ctx context.Context, t *common.Ticket) error
	Update(ctx context.Context, t *common.Ticket) error

	Count(ctx context.Context, q SearchQuery) (int64, error)
	Search(ctx context.Context, q SearchQuery) (*sql.Rows, error)
	ScanRow(rows *sql.Rows) (SearchRow, error)
}

// CustomerLookup is the slice of the customer store tickets depend on.
type CustomerLookup interface {
	GetCustomerByID(ctx context.Context, id uint) (common.Customer, bool, error)
}

type TechnicianDirectory interface {
	List(ctx context.Context) ([]technicians.Technician, error)
	Assignable(email string) bool
}

// Service is the ticket form workflow
type Service interface {
	// LoadForm resolves the form page. A customer id opens a new ticket for
	// that customer and takes precedence over a ticket id.
	LoadForm(ctx context.Context, rawCustomerID, rawTicketID string) (common.View, error)

	ValidateField(ctx context.Context, values TicketForm, field string) (FieldCheck, error)

	Submit(ctx context.Context, values TicketForm) (common.Ticket, error)

	Search(ctx context.Context, q SearchQuery) middleware.StreamResponse

	LogRequest(requestID, action string, duration time.Duration, err error)
}
