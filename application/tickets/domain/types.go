package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"repairshop/application/technicians"
	"repairshop/common"
	"repairshop/internal/access"
)

// TicketForm is the editable shape of a ticket. ID 0 means new.
type TicketForm struct {
	ID          uint   `json:"id"`
	CustomerID  uint   `json:"customerId" label:"Customer" validate:"required"`
	Title       string `json:"title" label:"Title" validate:"required"`
	Description string `json:"description" label:"Description" validate:"required"`
	Completed   bool   `json:"completed"`
	Tech        string `json:"tech" label:"Tech" validate:"required,email"`
}

// NewTicket binds the defaults for a new ticket owned by customer.
func NewTicket(customer common.Customer) TicketForm {
	return TicketForm{
		ID:         common.NewTicketID,
		CustomerID: customer.ID,
		Tech:       common.NewTicketTech,
	}
}

// BindTicket maps a stored ticket into form values
func BindTicket(t common.Ticket) TicketForm {
	return TicketForm{
		ID:          t.ID,
		CustomerID:  t.CustomerID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Tech:        t.Tech,
	}
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// UnmarshalJSON accepts the id as a number or as the "(New)" label.
func (f *TicketForm) UnmarshalJSON(data []byte) error {
	type plain TicketForm
	aux := struct {
		*plain
		ID jsoniter.RawMessage `json:"id"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := parseTicketID(aux.ID)
	if err != nil {
		return err
	}
	f.ID = id
	return nil
}

func parseTicketID(raw []byte) (uint, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return common.NewTicketID, nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		if s == common.NewTicketLabel {
			return common.NewTicketID, nil
		}
		raw = []byte(s)
	}

	id, err := strconv.ParseUint(string(raw), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid ticket id %s", raw)
	}
	return uint(id), nil
}

func (f TicketForm) IsNew() bool {
	return f.ID == common.NewTicketID
}

// DisplayID renders the id, or the new-ticket label for unsaved tickets.
func (f TicketForm) DisplayID() string {
	if f.IsNew() {
		return common.NewTicketLabel
	}
	return strconv.FormatUint(uint64(f.ID), 10)
}

// CustomerInfo is the read-only customer block shown beside a ticket.
type CustomerInfo struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

// NewCustomerInfo copies the customer fields shown beside a ticket
func NewCustomerInfo(c common.Customer) CustomerInfo {
	return CustomerInfo{
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
	}
}

// FormView is the payload of a ticket form page. Technicians is only
// populated for viewers allowed to reassign.
type FormView struct {
	DisplayID   string                   `json:"displayId"`
	Values      TicketForm               `json:"values"`
	Customer    CustomerInfo             `json:"customer"`
	Access      access.Decision          `json:"access"`
	Technicians []technicians.Technician `json:"technicians,omitempty"`
}

type FieldCheck struct {
	Field string `json:"field"`
	Error string `json:"error,omitempty"`
}

// SearchRow is one line of the ticket list, joined with its customer.
type SearchRow struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"ticketDate"`
	Title     string    `json:"title"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Tech      string    `json:"tech"`
	Completed bool      `json:"completed"`
}

// SearchQuery filters the ticket list
type SearchQuery struct {
	Search     string
	Incomplete bool
}
