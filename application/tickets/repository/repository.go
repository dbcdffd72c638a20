package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"repairshop/application/tickets/domain"
	"repairshop/common"
	"repairshop/internal/database"
)

const searchColumns = "tickets.id, tickets.created_at, tickets.title, " +
	"customers.first_name, customers.last_name, customers.email, " +
	"tickets.tech, tickets.completed"

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new ticket Repository
func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// GetTicketByID loads one ticket; a missing row is found=false, not an error
func (r *repository) GetTicketByID(ctx context.Context, id uint) (common.Ticket, bool, error) {
	var t common.Ticket
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.Ticket{}, false, nil
	}
	if err != nil {
		return common.Ticket{}, false, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}
	return t, true, nil
}

func (r *repository) Create(ctx context.Context, t *common.Ticket) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, t *common.Ticket) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("failed to update ticket %d: %w", t.ID, err)
	}
	return nil
}

// Count counts tickets matching q
func (r *repository) Count(ctx context.Context, q domain.SearchQuery) (int64, error) {
	var n int64
	err := r.joined(ctx).Scopes(matching(q)).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return n, nil
}

// Search returns open rows, newest first. The caller closes them.
func (r *repository) Search(ctx context.Context, q domain.SearchQuery) (*sql.Rows, error) {
	rows, err := r.joined(ctx).
		Select(searchColumns).
		Scopes(matching(q)).
		Order("tickets.created_at DESC, tickets.id DESC").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to search tickets: %w", err)
	}
	return rows, nil
}

func (r *repository) ScanRow(rows *sql.Rows) (domain.SearchRow, error) {
	var row domain.SearchRow
	if err := r.db.ScanRows(rows, &row); err != nil {
		return domain.SearchRow{}, err
	}
	return row, nil
}

func (r *repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("tickets").
		Joins("LEFT JOIN customers ON customers.id = tickets.customer_id")
}

func matching(q domain.SearchQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Incomplete {
			db = db.Where("tickets.completed = ?", false)
		}

		search := strings.TrimSpace(strings.ToLower(q.Search))
		if search == "" {
			return db
		}

		like := database.ContainsPattern(search)
		return db.Where(
			database.LikeAny(
				"LOWER(tickets.title)", "LOWER(tickets.tech)",
				"LOWER(customers.first_name)", "LOWER(customers.last_name)", "LOWER(customers.email)",
				"customers.phone", "LOWER(customers.city)", "customers.zip",
			),
			like, like, like, like, like, like, like, like,
		)
	}
}
