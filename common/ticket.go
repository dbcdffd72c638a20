package common

import "time"

type Ticket struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CustomerID  uint      `gorm:"not null;index" json:"customerId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Completed   bool      `gorm:"not null" json:"completed"`
	Tech        string    `gorm:"not null;index" json:"tech"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Ticket) TableName() string {
	return "tickets"
}
