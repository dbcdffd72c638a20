package health

import (
	"context"
	"fmt"
)

type Status struct {
	Database    string `json:"database"`
	Technicians int    `json:"technicians"`
}

type Directory interface {
	Len() int
}

// Service checks the store and the technician directory
type Service struct {
	repo *Repository
	dir  Directory
}

// NewService creates a new Service
func NewService(repo *Repository, dir Directory) *Service {
	return &Service{repo: repo, dir: dir}
}

// CheckHealth reports the store as "ok" or "error". The error is returned
// alongside the status so callers can still render it.
func (s *Service) CheckHealth(ctx context.Context) (Status, error) {
	status := Status{Database: "ok", Technicians: s.dir.Len()}

	if err := s.repo.Ping(ctx); err != nil {
		status.Database = "error"
		return status, fmt.Errorf("database ping failed: %w", err)
	}
	return status, nil
}
