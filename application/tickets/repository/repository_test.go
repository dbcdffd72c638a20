package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"repairshop/application/tickets/domain"
	"repairshop/common"
	"repairshop/internal/database/databasetest"
)

func seed(t *testing.T, db *gorm.DB) []common.Ticket {
	t.Helper()
	customers := []common.Customer{
		{FirstName: "John", LastName: "Doe", Email: "john@example.com", Phone: "555-123-4567", Address1: "1 Main", City: "Anytown", State: "CA", Zip: "12345", Active: true},
		{FirstName: "Jane", LastName: "Smith", Email: "jane@example.com", Phone: "555-987-6543", Address1: "2 Oak", City: "Springfield", State: "IL", Zip: "62704", Active: true},
	}
	if err := db.Create(&customers).Error; err != nil {
		t.Fatalf("Failed to seed customers: %v", err)
	}

	now := time.Now()
	tickets := []common.Ticket{
		{CustomerID: customers[0].ID, Title: "Broken screen", Description: "cracked", Tech: "tech1@example.com", CreatedAt: now.Add(-2 * time.Hour)},
		{CustomerID: customers[0].ID, Title: "Battery swap", Description: "old", Tech: "tech2@example.com", Completed: true, CreatedAt: now.Add(-time.Hour)},
		{CustomerID: customers[1].ID, Title: "Virus cleanup", Description: "slow", Tech: common.NewTicketTech, CreatedAt: now},
	}
	if err := db.Create(&tickets).Error; err != nil {
		t.Fatalf("Failed to seed tickets: %v", err)
	}
	return tickets
}

func TestGetTicketByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db := databasetest.NewSQLite(t)
		tickets := seed(t, db)

		got, found, err := NewRepository(db).GetTicketByID(ctx, tickets[1].ID)
		if err != nil || !found {
			t.Fatalf("Expected ticket, got found=%v err=%v", found, err)
		}
		if got.Title != "Battery swap" || !got.Completed {
			t.Errorf("Unexpected ticket %+v", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, found, err := NewRepository(databasetest.NewSQLite(t)).GetTicketByID(ctx, 77)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if found {
			t.Error("Expected found=false")
		}
	})

	t.Run("infrastructure failure", func(t *testing.T) {
		db, mock := databasetest.NewMock(t)
		mock.ExpectQuery("SELECT (.+) FROM `tickets`").WillReturnError(errors.New("i/o timeout"))

		if _, _, err := NewRepository(db).GetTicketByID(ctx, 1); err == nil {
			t.Error("Expected error, got nil")
		}
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	db := databasetest.NewSQLite(t)
	seed(t, db)
	repo := NewRepository(db)

	tests := []struct {
		name     string
		query    domain.SearchQuery
		expected []string
	}{
		{name: "all newest first", query: domain.SearchQuery{}, expected: []string{"Virus cleanup", "Battery swap", "Broken screen"}},
		{name: "incomplete only", query: domain.SearchQuery{Incomplete: true}, expected: []string{"Virus cleanup", "Broken screen"}},
		{name: "by customer name", query: domain.SearchQuery{Search: "doe"}, expected: []string{"Battery swap", "Broken screen"}},
		{name: "by tech and incomplete", query: domain.SearchQuery{Search: "tech2", Incomplete: true}, expected: nil},
		{name: "by city", query: domain.SearchQuery{Search: "Springfield"}, expected: []string{"Virus cleanup"}},
		{name: "percent is literal", query: domain.SearchQuery{Search: "%"}, expected: nil},
		{name: "underscore is literal", query: domain.SearchQuery{Search: "tech_"}, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := repo.Count(ctx, tt.query)
			if err != nil {
				t.Fatalf("Unexpected count error: %v", err)
			}
			if int(n) != len(tt.expected) {
				t.Errorf("Expected count %d, got %d", len(tt.expected), n)
			}

			rows, err := repo.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("Unexpected search error: %v", err)
			}
			defer rows.Close()

			var titles []string
			for rows.Next() {
				row, err := repo.ScanRow(rows)
				if err != nil {
					t.Fatalf("Unexpected scan error: %v", err)
				}
				if row.LastName == "" {
					t.Errorf("Expected joined customer name on %q", row.Title)
				}
				titles = append(titles, row.Title)
			}
			if len(titles) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, titles)
			}
			for i := range titles {
				if titles[i] != tt.expected[i] {
					t.Errorf("Expected %s at %d, got %s", tt.expected[i], i, titles[i])
				}
			}
		})
	}
}
