// Package taxid derives tax identifiers (CUIT) from a national ID and gender.
//
// HTTPCalculator asks the external service, LocalCalculator applies the fixed
// formula, and FallbackCalculator tries the first and falls back to the second.
package taxid

import (
	"context"

	"baseapi/internal/example/models"
)

// Calculator derives a tax identifier.
type Calculator interface {
	Derive(ctx context.Context, nationalID string, gender models.Gender) (string, error)
}
