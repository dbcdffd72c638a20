package common

import (
	"time"

	"github.com/guregu/null/v5"
)

type Customer struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	FirstName string      `gorm:"not null" json:"firstName"`
	LastName  string      `gorm:"not null" json:"lastName"`
	Email     string      `gorm:"not null;index" json:"email"`
	Phone     string      `gorm:"not null" json:"phone"`
	Address1  string      `gorm:"not null" json:"address1"`
	Address2  null.String `json:"address2"`
	City      string      `gorm:"not null" json:"city"`
	State     string      `gorm:"size:2;not null" json:"state"`
	Zip       string      `gorm:"size:10;not null" json:"zip"`
	Notes     null.String `json:"notes"`
	Active    bool        `gorm:"not null" json:"active"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (Customer) TableName() string {
	return "customers"
}
