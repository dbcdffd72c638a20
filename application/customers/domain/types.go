package domain

import (
	"github.com/guregu/null/v5"

	"repairshop/common"
	"repairshop/internal/access"
)

// CustomerForm is the editable shape of a customer. ID 0 means new.
type CustomerForm struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName" label:"First name" validate:"required"`
	LastName  string `json:"lastName" label:"Last name" validate:"required"`
	Address1  string `json:"address1" label:"Address" validate:"required,max=250"`
	Address2  string `json:"address2" label:"Address 2" validate:"max=250"`
	City      string `json:"city" label:"City" validate:"required,max=250"`
	State     string `json:"state" label:"State" validate:"region"`
	Zip       string `json:"zip" label:"Zip" validate:"zipcode"`
	Phone     string `json:"phone" label:"Phone" validate:"usphone"`
	Email     string `json:"email" label:"Email" validate:"required,email"`
	Notes     string `json:"notes" label:"Notes"`
	Active    bool   `json:"active"`
}

// BindCustomer maps a stored customer, or nil for a new one, into form
// values. Absent fields bind to their defaults.
func BindCustomer(c *common.Customer) CustomerForm {
	if c == nil {
		return CustomerForm{
			ID:     common.NewCustomerID,
			Active: common.NewCustomerActive,
		}
	}

	return CustomerForm{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Address1:  c.Address1,
		Address2:  c.Address2.ValueOrZero(),
		City:      c.City,
		State:     c.State,
		Zip:       c.Zip,
		Phone:     c.Phone,
		Email:     c.Email,
		Notes:     c.Notes.ValueOrZero(),
		Active:    c.Active,
	}
}

// Apply copies form values onto c, leaving ID and timestamps alone.
func (f CustomerForm) Apply(c *common.Customer) {
	c.FirstName = f.FirstName
	c.LastName = f.LastName
	c.Address1 = f.Address1
	c.Address2 = null.NewString(f.Address2, f.Address2 != "")
	c.City = f.City
	c.State = f.State
	c.Zip = f.Zip
	c.Phone = f.Phone
	c.Email = f.Email
	c.Notes = null.NewString(f.Notes, f.Notes != "")
	c.Active = f.Active
}

func (f CustomerForm) IsNew() bool {
	return f.ID == common.NewCustomerID
}

// FormView is the payload of a customer form page.
type FormView struct {
	Values CustomerForm    `json:"values"`
	Access access.Decision `json:"access"`
	States []common.State  `json:"states"`
}

// FieldCheck is the result of validating one field on blur.
type FieldCheck struct {
	Field string `json:"field"`
	Error string `json:"error,omitempty"`
}
