package examples

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	StatusCode() int
	GetResponseField(field string) (any, error)
	Set(key, value string)
	Get(key string) string
}

// RegisterSteps registers example creation and lookup steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &exampleSteps{tc: tc}

	ctx.Step(`^a national ID nobody has used$`, steps.freshNationalID)
	ctx.Step(`^I create an example "([^"]*)" "([^"]*)" with gender "([^"]*)"$`, steps.create)
	ctx.Step(`^I look up the example by national ID$`, steps.lookup)
	ctx.Step(`^the tax ID should follow the local formula for gender "([^"]*)"$`, steps.taxIDShouldFollowFormula)
	ctx.Step(`^the creation and update timestamps should be equal$`, steps.timestampsEqual)
}

type exampleSteps struct {
	tc TestContext
}

func (s *exampleSteps) freshNationalID(context.Context) error {
	s.tc.Set("dni", fmt.Sprintf("%08d", 10000000+rand.IntN(89999999)))
	return nil
}

func (s *exampleSteps) create(_ context.Context, first, last, gender string) error {
	return s.tc.POST("/examples", map[string]string{
		"nombre":   first,
		"apellido": last,
		"dni":      s.tc.Get("dni"),
		"genero":   gender,
	})
}

func (s *exampleSteps) lookup(context.Context) error {
	return s.tc.GET("/examples/dni/" + s.tc.Get("dni"))
}

func (s *exampleSteps) taxIDShouldFollowFormula(_ context.Context, gender string) error {
	v, err := s.tc.GetResponseField("cuit")
	if err != nil {
		return err
	}
	want := "27-" + s.tc.Get("dni") + "-6"
	if gender == "H" {
		want = "20-" + s.tc.Get("dni") + "-7"
	}
	if v != want {
		return fmt.Errorf("expected cuit %q, got %v", want, v)
	}
	return nil
}

func (s *exampleSteps) timestampsEqual(context.Context) error {
	created, err := s.tc.GetResponseField("created_at")
	if err != nil {
		return err
	}
	updated, err := s.tc.GetResponseField("updated_at")
	if err != nil {
		return err
	}
	if created == nil || created != updated {
		return fmt.Errorf("expected equal timestamps, got %v and %v", created, updated)
	}
	return nil
}
