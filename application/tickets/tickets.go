// Package tickets wires the ticket form feature.
package tickets

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"repairshop/application/tickets/domain"
	"repairshop/application/tickets/handler"
	"repairshop/application/tickets/repository"
	"repairshop/application/tickets/service"
	"repairshop/internal/auth"
	"repairshop/internal/form"
)

// New wires the ticket repository, service and handler
func New(
	db *gorm.DB,
	customers domain.CustomerLookup,
	techs domain.TechnicianDirectory,
	provider auth.Provider,
	schema *form.Schema,
	log *zap.Logger,
) *handler.Handler {
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, customers, techs, provider, schema, log)
	return handler.NewHandler(svc)
}
