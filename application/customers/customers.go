// Package customers wires the customer form feature: a GORM store, the
// service that loads, gates and saves customer forms, and its routes.
package customers

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"repairshop/application/customers/domain"
	"repairshop/application/customers/handler"
	"repairshop/application/customers/repository"
	"repairshop/application/customers/service"
	"repairshop/internal/auth"
	"repairshop/internal/form"
)

// New returns the route handler and the repository, which the ticket
// feature reuses for customer lookups.
func New(db *gorm.DB, provider auth.Provider, schema *form.Schema, log *zap.Logger) (*handler.Handler, domain.Repository) {
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, provider, schema, log)
	return handler.NewHandler(svc), repo
}
