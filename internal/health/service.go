// Package health reports liveness of the service and its dependencies.
package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"baseapi/pkg/requestcontext"
)

// Probe statuses.
const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// defaultCheckTimeout bounds each component probe.
const defaultCheckTimeout = 2 * time.Second

// CheckFunc probes one dependency. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

type component struct {
	name     string
	critical bool
	check    CheckFunc
}

// ComponentStatus is the outcome of one probe.
type ComponentStatus struct {
	Status   string `json:"status"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

// Report is the health probe body.
type Report struct {
	Status      string                     `json:"status"`
	Timestamp   time.Time                  `json:"timestamp"`
	Version     string                     `json:"version"`
	Application string                     `json:"application"`
	Components  map[string]ComponentStatus `json:"components,omitempty"`
}

// Service runs the registered probes concurrently. Only critical components
// can take the overall status DOWN.
type Service struct {
	application string
	version     string
	timeout     time.Duration
	components  []component
	logger      *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTimeout overrides the per-probe timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithCritical registers a probe whose failure marks the service DOWN.
func WithCritical(name string, check CheckFunc) Option {
	return func(s *Service) {
		s.components = append(s.components, component{name: name, critical: true, check: check})
	}
}

// WithInformational registers a probe that is reported but never marks the
// service DOWN.
func WithInformational(name string, check CheckFunc) Option {
	return func(s *Service) {
		s.components = append(s.components, component{name: name, check: check})
	}
}

func New(application, version string, opts ...Option) *Service {
	s := &Service{
		application: application,
		version:     version,
		timeout:     defaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Check probes every component and aggregates the result.
func (s *Service) Check(ctx context.Context) Report {
	report := Report{
		Status:      StatusUp,
		Timestamp:   requestcontext.Now(ctx),
		Version:     s.version,
		Application: s.application,
	}
	if len(s.components) == 0 {
		return report
	}

	var mu sync.Mutex
	report.Components = make(map[string]ComponentStatus, len(s.components))
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range s.components {
		c := c
		g.Go(func() error {
			status := ComponentStatus{Status: StatusUp, Critical: c.critical}
			if err := s.probe(gctx, c); err != nil {
				status.Status = StatusDown
				status.Error = err.Error()
				s.logger.WarnContext(ctx, "health check failed",
					"component", c.name,
					"critical", c.critical,
					"error", err,
				)
			}
			mu.Lock()
			report.Components[c.name] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, status := range report.Components {
		if status.Critical && status.Status == StatusDown {
			report.Status = StatusDown
			break
		}
	}
	return report
}

func (s *Service) probe(ctx context.Context, c component) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			err = errPanicked
		}
	}()
	return c.check(ctx)
}
