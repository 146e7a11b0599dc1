package application

import (
	"context"

	"github.com/gatewayz/rum-server/internal/port/driven"
)

// HealthService orchestrates health checks for the service and its sample
// store.
type HealthService struct {
	store driven.SampleRepository
}

// NewHealthService creates a new health check service.
func NewHealthService(store driven.SampleRepository) *HealthService {
	return &HealthService{store: store}
}

// ComponentHealth represents the health status of a single component.
type ComponentHealth struct {
	Status string // "ok" or "error"
	Error  string // empty if status is "ok", otherwise contains error message
}

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Status string          // "ok" if all components are healthy, "degraded" otherwise
	Store  ComponentHealth // sample store health
}

// Check performs health checks on all dependencies.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "ok"}

	if err := s.store.Ping(ctx); err != nil {
		status.Store = ComponentHealth{Status: "error", Error: err.Error()}
		status.Status = "degraded"
	} else {
		status.Store = ComponentHealth{Status: "ok"}
	}

	return status
}
