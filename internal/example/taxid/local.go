package taxid

import (
	"context"
	"fmt"

	"baseapi/internal/example/models"
)

// LocalCalculator applies the offline formula: 20-{id}-7 for the male code,
// 27-{id}-6 for anything else. It never fails.
type LocalCalculator struct{}

func NewLocal() LocalCalculator {
	return LocalCalculator{}
}

func (LocalCalculator) Derive(_ context.Context, nationalID string, gender models.Gender) (string, error) {
	return Local(nationalID, gender), nil
}

// Local is the formula without the interface.
func Local(nationalID string, gender models.Gender) string {
	if gender.IsMale() {
		return fmt.Sprintf("20-%s-7", nationalID)
	}
	return fmt.Sprintf("27-%s-6", nationalID)
}
