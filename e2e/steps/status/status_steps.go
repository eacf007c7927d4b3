package status

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GetResponseList() ([]map[string]any, error)
}

// RegisterSteps registers status catalog assertions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &statusSteps{tc: tc}

	ctx.Step(`^the listed status ids should be "([^"]*)"$`, steps.idsShouldBe)
	ctx.Step(`^every listed status should be active$`, steps.allActive)
}

type statusSteps struct {
	tc TestContext
}

func (s *statusSteps) idsShouldBe(_ context.Context, want string) error {
	list, err := s.tc.GetResponseList()
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(list))
	for _, st := range list {
		ids = append(ids, fmt.Sprint(st["id"]))
	}
	if got := strings.Join(ids, ","); got != want {
		return fmt.Errorf("expected ids %q, got %q", want, got)
	}
	return nil
}

func (s *statusSteps) allActive(context.Context) error {
	list, err := s.tc.GetResponseList()
	if err != nil {
		return err
	}
	for _, st := range list {
		if st["active"] != true {
			return fmt.Errorf("status %v is not active", st["id"])
		}
	}
	return nil
}
