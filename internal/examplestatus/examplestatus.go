// Package examplestatus wires the read-mostly status catalog: cache-aside
// point lookups and store-backed listings.
package examplestatus

import (
	"log/slog"

	"baseapi/internal/examplestatus/handler"
	"baseapi/internal/examplestatus/service"
)

// Service serves catalog reads.
type Service = service.Lookup

// Handler wires HTTP endpoints to the catalog.
type Handler = handler.Handler

// NewService constructs the catalog lookup. cache may be nil.
func NewService(store service.Store, cache service.Cache, opts ...service.Option) (*Service, error) {
	return service.New(store, cache, opts...)
}

// NewHandler constructs the HTTP handler for /example-status.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
