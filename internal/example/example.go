// Package example wires the Example record module: creation with duplicate
// national ID protection and tax ID derivation, and lookup by national ID.
package example

import (
	"log/slog"

	"baseapi/internal/example/handler"
	"baseapi/internal/example/service"
)

// Service exposes example creation and lookup.
type Service = service.Service

// Handler wires HTTP endpoints to the example service.
type Handler = handler.Handler

// NewService constructs the example service with required dependencies.
func NewService(store service.Store, taxIDs service.TaxIDCalculator, opts ...service.Option) (*Service, error) {
	return service.New(store, taxIDs, opts...)
}

// NewHandler constructs the HTTP handler for /examples.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
