package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"repairshop/application/customers/domain"
	"repairshop/common"
	"repairshop/internal/access"
	"repairshop/internal/async"
	"repairshop/internal/auth"
	"repairshop/internal/form"
	"repairshop/internal/stream"
	"repairshop/middleware"
)

type service struct {
	repo     domain.Repository
	auth     auth.Provider
	schema   *form.Schema
	streamer stream.Streamer[common.Customer]
	log      *zap.Logger
}

// NewService creates a new customer Service
func NewService(repo domain.Repository, provider auth.Provider, schema *form.Schema, log *zap.Logger) domain.Service {
	return &service{
		repo:     repo,
		auth:     provider,
		schema:   schema,
		streamer: stream.NewDefaultStreamer[common.Customer](),
		log:      log,
	}
}

type lookup struct {
	customer common.Customer
	found    bool
}

// LoadForm builds the customer form view for rawID, a new form when empty
func (s *service) LoadForm(ctx context.Context, rawID string) (common.View, error) {
	if rawID == "" {
		var grp async.Group
		perms := async.Go(&grp, ctx, s.auth.Permissions)
		grp.Wait()

		return s.formView(domain.BindCustomer(nil), access.Customer(*perms, true))
	}

	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return common.NotFoundView(fmt.Sprintf("Customer ID #%s not found!", rawID)), nil
	}

	var grp async.Group
	perms := async.Go(&grp, ctx, s.auth.Permissions)
	record := async.Go(&grp, ctx, func(ctx context.Context) (lookup, error) {
		c, found, err := s.repo.GetCustomerByID(ctx, uint(id))
		return lookup{customer: c, found: found}, err
	})
	grp.Wait()

	if record.IsFailed() {
		return common.View{}, record.Err
	}
	if !record.Value.found {
		return common.NotFoundView(fmt.Sprintf("Customer ID #%s not found!", rawID)), nil
	}

	return s.formView(domain.BindCustomer(&record.Value.customer), access.Customer(*perms, false))
}

func (s *service) formView(values domain.CustomerForm, decision access.Decision) (common.View, error) {
	if decision.Status == async.Failed {
		return common.View{}, fmt.Errorf("failed to load permissions: %w", decision.Err)
	}

	title := "Edit Customer Form"
	if values.IsNew() {
		title = "New Customer Form"
	}

	return common.FormView(title, domain.FormView{
		Values: values,
		Access: decision,
		States: common.StatesArray,
	}), nil
}

func (s *service) ValidateField(_ context.Context, values domain.CustomerForm, field string) (domain.FieldCheck, error) {
	binder := form.NewBinder(s.schema, values)
	msg, err := binder.Blur(field)
	if err != nil {
		return domain.FieldCheck{}, err
	}
	return domain.FieldCheck{Field: field, Error: msg}, nil
}

// Submit validates values and creates or updates the customer
func (s *service) Submit(ctx context.Context, values domain.CustomerForm) (common.Customer, error) {
	perms, err := s.auth.Permissions(ctx)
	if err != nil {
		return common.Customer{}, err
	}

	var saved common.Customer
	binder := form.NewBinder(s.schema, values)
	err = binder.Submit(ctx, func(ctx context.Context, v domain.CustomerForm) error {
		var err error
		saved, err = s.save(ctx, perms, v)
		return err
	})
	if err != nil {
		return common.Customer{}, err
	}
	return saved, nil
}

func (s *service) save(ctx context.Context, perms access.Permissions, v domain.CustomerForm) (common.Customer, error) {
	if v.IsNew() {
		var c common.Customer
		v.Apply(&c)
		c.Active = common.NewCustomerActive
		if err := s.repo.Create(ctx, &c); err != nil {
			return common.Customer{}, err
		}
		return c, nil
	}

	existing, found, err := s.repo.GetCustomerByID(ctx, v.ID)
	if err != nil {
		return common.Customer{}, err
	}
	if !found {
		return common.Customer{}, fmt.Errorf("customer %d: %w", v.ID, common.ErrNotFound)
	}

	active := existing.Active
	v.Apply(&existing)
	if !perms.IsManager() {
		existing.Active = active
	}

	if err := s.repo.Update(ctx, &existing); err != nil {
		return common.Customer{}, err
	}
	return existing, nil
}

// Search streams customers matching search
func (s *service) Search(ctx context.Context, search string) middleware.StreamResponse {
	total, err := s.repo.Count(ctx, search)
	if err != nil {
		return middleware.StreamResponse{Code: 500, Error: err}
	}

	rows, err := s.repo.Search(ctx, search)
	if err != nil {
		return middleware.StreamResponse{Code: 500, Error: err}
	}

	fetcher := stream.SQLFetcher[common.Customer](rows, s.repo.ScanRow)

	resp := s.streamer.Stream(ctx, fetcher, stream.PassThroughTransformer[common.Customer]())
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
		s.log.Info("customers request started", fields...)
	case err != nil:
		s.log.Warn("customers request failed", append(fields, zap.Duration("duration", duration), zap.Error(err))...)
	default:
		s.log.Info("customers request completed", append(fields, zap.Duration("duration", duration))...)
	}
}
