package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"repairshop/application/tickets/domain"
	"repairshop/common"
	"repairshop/internal/access"
	"repairshop/internal/async"
	"repairshop/internal/auth"
	"repairshop/internal/form"
	"repairshop/internal/stream"
	"repairshop/middleware"
)

type service struct {
	repo      domain.Repository
	customers domain.CustomerLookup
	techs     domain.TechnicianDirectory
	auth      auth.Provider
	schema    *form.Schema
	streamer  stream.Streamer[domain.SearchRow]
	log       *zap.Logger
}

// NewService creates a new ticket Service
func NewService(
	repo domain.Repository,
	customers domain.CustomerLookup,
	techs domain.TechnicianDirectory,
	provider auth.Provider,
	schema *form.Schema,
	log *zap.Logger,
) domain.Service {
	return &service{
		repo:      repo,
		customers: customers,
		techs:     techs,
		auth:      provider,
		schema:    schema,
		streamer:  stream.NewDefaultStreamer[domain.SearchRow](),
		log:       log,
	}
}

type customerLookup struct {
	customer common.Customer
	found    bool
}

type ticketLookup struct {
	ticket common.Ticket
	found  bool
}

// LoadForm builds the ticket form view; a customer id starts a new ticket
func (s *service) LoadForm(ctx context.Context, rawCustomerID, rawTicketID string) (common.View, error) {
	switch {
	case rawCustomerID != "":
		return s.loadNewTicket(ctx, rawCustomerID)
	case rawTicketID != "":
		return s.loadTicket(ctx, rawTicketID)
	default:
		return common.BadRequestView("Ticket ID or Customer ID required!"), nil
	}
}

func (s *service) loadNewTicket(ctx context.Context, rawCustomerID string) (common.View, error) {
	id, err := strconv.ParseUint(rawCustomerID, 10, 64)
	if err != nil {
		return common.NotFoundView(fmt.Sprintf("Customer ID #%s not found!", rawCustomerID)), nil
	}

	var grp async.Group
	perms := async.Go(&grp, ctx, s.auth.Permissions)
	viewer := async.Go(&grp, ctx, s.auth.Identity)
	record := async.Go(&grp, ctx, func(ctx context.Context) (customerLookup, error) {
		c, found, err := s.customers.GetCustomerByID(ctx, uint(id))
		return customerLookup{customer: c, found: found}, err
	})
	grp.Wait()

	if record.IsFailed() {
		return common.View{}, record.Err
	}
	customer := record.Value.customer
	if !record.Value.found {
		return common.NotFoundView(fmt.Sprintf("Customer ID #%s not found!", rawCustomerID)), nil
	}
	if !customer.Active {
		return common.PreconditionFailedView(fmt.Sprintf("Customer ID #%s is not active!", rawCustomerID)), nil
	}

	decision := access.Ticket(*perms, *viewer, common.NewTicketTech, true)
	return s.formView(ctx, domain.NewTicket(customer), customer, decision)
}

func (s *service) loadTicket(ctx context.Context, rawTicketID string) (common.View, error) {
	id, err := strconv.ParseUint(rawTicketID, 10, 64)
	if err != nil {
		return common.NotFoundView(fmt.Sprintf("Ticket ID #%s not found!", rawTicketID)), nil
	}

	var grp async.Group
	perms := async.Go(&grp, ctx, s.auth.Permissions)
	viewer := async.Go(&grp, ctx, s.auth.Identity)
	record := async.Go(&grp, ctx, func(ctx context.Context) (ticketLookup, error) {
		t, found, err := s.repo.GetTicketByID(ctx, uint(id))
		return ticketLookup{ticket: t, found: found}, err
	})
	grp.Wait()

	if record.IsFailed() {
		return common.View{}, record.Err
	}
	if !record.Value.found {
		return common.NotFoundView(fmt.Sprintf("Ticket ID #%s not found!", rawTicketID)), nil
	}
	ticket := record.Value.ticket

	customer, found, err := s.customers.GetCustomerByID(ctx, ticket.CustomerID)
	if err != nil {
		return common.View{}, err
	}
	if !found {
		return common.View{}, fmt.Errorf("ticket %d references missing customer %d", ticket.ID, ticket.CustomerID)
	}

	decision := access.Ticket(*perms, *viewer, ticket.Tech, false)
	return s.formView(ctx, domain.BindTicket(ticket), customer, decision)
}

func (s *service) formView(ctx context.Context, values domain.TicketForm, customer common.Customer, decision access.Decision) (common.View, error) {
	if decision.Status == async.Failed {
		return common.View{}, fmt.Errorf("failed to resolve viewer: %w", decision.Err)
	}

	fv := domain.FormView{
		DisplayID: values.DisplayID(),
		Values:    values,
		Customer:  domain.NewCustomerInfo(customer),
		Access:    decision,
	}

	if decision.Edit == access.FullAccess {
		techs, err := s.techs.List(ctx)
		if err != nil {
			return common.View{}, fmt.Errorf("failed to list technicians: %w", err)
		}
		fv.Technicians = techs
	}

	title := "New Ticket Form"
	if !values.IsNew() {
		title = "Edit Ticket # " + values.DisplayID()
	}
	return common.FormView(title, fv), nil
}

func (s *service) ValidateField(_ context.Context, values domain.TicketForm, field string) (domain.FieldCheck, error) {
	binder := form.NewBinder(s.schema, values)
	msg, err := binder.Blur(field)
	if err != nil {
		return domain.FieldCheck{}, err
	}
	return domain.FieldCheck{Field: field, Error: msg}, nil
}

// Submit validates values and creates or updates the ticket
func (s *service) Submit(ctx context.Context, values domain.TicketForm) (common.Ticket, error) {
	perms, err := s.auth.Permissions(ctx)
	if err != nil {
		return common.Ticket{}, err
	}
	identity, err := s.auth.Identity(ctx)
	if err != nil {
		return common.Ticket{}, err
	}

	var saved common.Ticket
	binder := form.NewBinder(s.schema, values)
	err = binder.Submit(ctx, func(ctx context.Context, v domain.TicketForm) error {
		var err error
		if v.IsNew() {
			saved, err = s.create(ctx, perms, v)
		} else {
			saved, err = s.update(ctx, perms, identity, v)
		}
		return err
	})
	if err != nil {
		return common.Ticket{}, err
	}
	return saved, nil
}

func (s *service) create(ctx context.Context, perms access.Permissions, v domain.TicketForm) (common.Ticket, error) {
	customer, found, err := s.customers.GetCustomerByID(ctx, v.CustomerID)
	if err != nil {
		return common.Ticket{}, err
	}
	if !found {
		return common.Ticket{}, fmt.Errorf("customer %d: %w", v.CustomerID, common.ErrNotFound)
	}
	if !customer.Active {
		return common.Ticket{}, fmt.Errorf("customer %d is not active: %w", v.CustomerID, common.ErrPreconditionFailed)
	}

	t := common.Ticket{
		CustomerID:  customer.ID,
		Title:       v.Title,
		Description: v.Description,
		Completed:   v.Completed,
		Tech:        common.NewTicketTech,
	}
	if perms.IsManager() {
		tech, err := s.assignable(v.Tech)
		if err != nil {
			return common.Ticket{}, err
		}
		t.Tech = tech
	}

	if err := s.repo.Create(ctx, &t); err != nil {
		return common.Ticket{}, err
	}
	return t, nil
}

func (s *service) update(ctx context.Context, perms access.Permissions, identity string, v domain.TicketForm) (common.Ticket, error) {
	existing, found, err := s.repo.GetTicketByID(ctx, v.ID)
	if err != nil {
		return common.Ticket{}, err
	}
	if !found {
		return common.Ticket{}, fmt.Errorf("ticket %d: %w", v.ID, common.ErrNotFound)
	}

	decision := access.Ticket(async.Resolve(perms), async.Resolve(identity), existing.Tech, false)
	if !decision.CanEdit() {
		return common.Ticket{}, fmt.Errorf("ticket %d: %w", v.ID, common.ErrForbidden)
	}

	existing.Title = v.Title
	existing.Description = v.Description
	existing.Completed = v.Completed

	if decision.Edit == access.FullAccess && !strings.EqualFold(v.Tech, existing.Tech) {
		tech, err := s.assignable(v.Tech)
		if err != nil {
			return common.Ticket{}, err
		}
		existing.Tech = tech
	}

	if err := s.repo.Update(ctx, &existing); err != nil {
		return common.Ticket{}, err
	}
	return existing, nil
}

func (s *service) assignable(tech string) (string, error) {
	tech = strings.ToLower(strings.TrimSpace(tech))
	if !s.techs.Assignable(tech) {
		return "", &form.ValidationError{Fields: map[string]string{"tech": "Unknown technician"}}
	}
	return tech, nil
}

// Search streams tickets matching q
func (s *service) Search(ctx context.Context, q domain.SearchQuery) middleware.StreamResponse {
	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return middleware.StreamResponse{Code: 500, Error: err}
	}

	rows, err := s.repo.Search(ctx, q)
	if err != nil {
		return middleware.StreamResponse{Code: 500, Error: err}
	}

	fetcher := stream.SQLFetcher[domain.SearchRow](rows, s.repo.ScanRow)

	resp := s.streamer.Stream(ctx, fetcher, stream.PassThroughTransformer[domain.SearchRow]())
	resp.TotalCount = total
	return resp
}

// LogRequest logs request information
func (s *service) LogRequest(requestID, action string, duration time.Duration, err error) {
	fields := []zap.Field{
		zap.String("requestId", requestID),
		zap.String("action", action),
	}

	switch {
	case duration == 0:
		s.log.Info("tickets request started", fields...)
	case err != nil:
		s.log.Warn("tickets request failed", append(fields, zap.Duration("duration", duration), zap.Error(err))...)
	default:
		s.log.Info("tickets request completed", append(fields, zap.Duration("duration", duration))...)
	}
}
