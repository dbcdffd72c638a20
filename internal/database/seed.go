package database

import (
	"context"
	"fmt"

	"github.com/guregu/null/v5"
	"gorm.io/gorm"

	"repairshop/common"
)

// Seed fills an empty store with demo customers and tickets. It is a no-op
// once any customer exists.
func Seed(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&common.Customer{}).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to count customers: %w", err)
	}
	if n > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := seedCustomers()
		if err := tx.Create(&customers).Error; err != nil {
			return fmt.Errorf("failed to seed customers: %w", err)
		}

		tickets := seedTickets(customers)
		if err := tx.Create(&tickets).Error; err != nil {
			return fmt.Errorf("failed to seed tickets: %w", err)
		}
		return nil
	})
}

func seedCustomers() []common.Customer {
	return []common.Customer{
		{
			FirstName: "John", LastName: "Doe",
			Email: "john.doe@example.com", Phone: "555-123-4567",
			Address1: "123 Main St", City: "Anytown", State: "CA", Zip: "12345",
			Active: true,
		},
		{
			FirstName: "Jane", LastName: "Smith",
			Email: "jane.smith@example.com", Phone: "555-234-5678",
			Address1: "456 Oak Ave", Address2: null.StringFrom("Apt 2B"),
			City: "Springfield", State: "IL", Zip: "62704-1234",
			Notes: null.StringFrom("Prefers email"), Active: true,
		},
		{
			FirstName: "Robert", LastName: "Brown",
			Email: "robert.brown@example.com", Phone: "555-345-6789",
			Address1: "789 Pine Rd", City: "Austin", State: "TX", Zip: "73301",
			Active: false,
		},
	}
}

func seedTickets(customers []common.Customer) []common.Ticket {
	return []common.Ticket{
		{
			CustomerID: customers[0].ID, Title: "Laptop won't boot",
			Description: "Power light on, no display.",
			Tech:        "tech1@example.com",
		},
		{
			CustomerID: customers[0].ID, Title: "Replace keyboard",
			Description: "Several keys stuck.",
			Tech:        "tech2@example.com", Completed: true,
		},
		{
			CustomerID: customers[1].ID, Title: "Printer setup",
			Description: "Install drivers and configure wifi printing.",
			Tech:        common.NewTicketTech,
		},
	}
}
