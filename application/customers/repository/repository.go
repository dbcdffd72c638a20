package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"repairshop/application/customers/domain"
	"repairshop/common"
	"repairshop/internal/database"
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new customer Repository
func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// GetCustomerByID loads one customer; a missing row is found=false, not an error
func (r *repository) GetCustomerByID(ctx context.Context, id uint) (common.Customer, bool, error) {
	var c common.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.Customer{}, false, nil
	}
	if err != nil {
		return common.Customer{}, false, fmt.Errorf("failed to get customer %d: %w", id, err)
	}
	return c, true, nil
}

func (r *repository) Create(ctx context.Context, c *common.Customer) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, c *common.Customer) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("failed to update customer %d: %w", c.ID, err)
	}
	return nil
}

// Count counts customers matching search
func (r *repository) Count(ctx context.Context, search string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&common.Customer{}).
		Scopes(matching(search)).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

// Search returns open rows ordered by name. The caller closes them.
func (r *repository) Search(ctx context.Context, search string) (*sql.Rows, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&common.Customer{}).
		Scopes(matching(search)).
		Order("last_name, first_name, id").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return rows, nil
}

func (r *repository) ScanRow(rows *sql.Rows) (common.Customer, error) {
	var c common.Customer
	if err := r.db.ScanRows(rows, &c); err != nil {
		return common.Customer{}, err
	}
	return c, nil
}

// matching filters on name, contact and location columns, case-insensitive.
// An empty search matches everything.
func matching(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(strings.ToLower(search))
		if search == "" {
			return db
		}

		like := database.ContainsPattern(search)
		return db.Where(
			database.LikeAny("LOWER(first_name)", "LOWER(last_name)", "LOWER(email)", "phone", "LOWER(city)", "zip"),
			like, like, like, like, like, like,
		)
	}
}
