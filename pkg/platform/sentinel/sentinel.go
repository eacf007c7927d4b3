package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and remote clients
// return these (optionally wrapped) so services can translate them into domain
// errors or absence values:
//   - ErrNotFound: record does not exist in the store or cache
//   - ErrAlreadyUsed: a unique business key is already taken
//   - ErrUnavailable: backend or remote service could not be reached
//
// For validation errors use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
