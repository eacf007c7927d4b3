package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baseapi/internal/platform/logger"
	"baseapi/pkg/requestcontext"
	"baseapi/pkg/testutil"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("connection refused") }

func TestCheck(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	t.Run("no components is up", func(t *testing.T) {
		report := New("baseapi", "1.2.3").Check(ctx)
		assert.Equal(t, StatusUp, report.Status)
		assert.Equal(t, "baseapi", report.Application)
		assert.Equal(t, "1.2.3", report.Version)
		assert.True(t, report.Timestamp.Equal(now))
		assert.Empty(t, report.Components)
	})

	t.Run("informational failure keeps status up", func(t *testing.T) {
		svc := New("baseapi", "1.2.3", WithLogger(logger.Discard()),
			WithCritical("store", ok),
			WithInformational("cache", failing),
		)
		report := svc.Check(ctx)
		assert.Equal(t, StatusUp, report.Status)
		require.Contains(t, report.Components, "cache")
		assert.Equal(t, StatusDown, report.Components["cache"].Status)
		assert.Equal(t, "connection refused", report.Components["cache"].Error)
		assert.Equal(t, StatusUp, report.Components["store"].Status)
	})

	t.Run("critical failure takes status down", func(t *testing.T) {
		svc := New("baseapi", "1.2.3", WithLogger(logger.Discard()),
			WithCritical("store", failing),
			WithInformational("cache", ok),
		)
		assert.Equal(t, StatusDown, svc.Check(ctx).Status)
	})

	t.Run("slow probe times out", func(t *testing.T) {
		slow := func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}
		svc := New("baseapi", "1.2.3", WithLogger(logger.Discard()),
			WithTimeout(20*time.Millisecond),
			WithCritical("store", slow),
		)
		report := svc.Check(ctx)
		assert.Equal(t, StatusDown, report.Status)
		assert.Equal(t, context.DeadlineExceeded.Error(), report.Components["store"].Error)
	})

	t.Run("panicking probe reads as down", func(t *testing.T) {
		svc := New("baseapi", "1.2.3", WithLogger(logger.Discard()),
			WithCritical("store", func(context.Context) error { panic("boom") }),
		)
		assert.Equal(t, StatusDown, svc.Check(ctx).Status)
	})
}

func TestHandler(t *testing.T) {
	serve := func(svc *Service) *httptest.ResponseRecorder {
		r := chi.NewRouter()
		NewHandler(svc).Register(r)
		return testutil.DoRequest(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	}

	t.Run("200 when up", func(t *testing.T) {
		rr := serve(New("baseapi", "1.2.3", WithCritical("store", ok)))
		require.Equal(t, http.StatusOK, rr.Code)
		body := testutil.DecodeJSON[Report](t, rr)
		assert.Equal(t, StatusUp, body.Status)
		assert.Equal(t, "baseapi", body.Application)
	})

	t.Run("503 when down", func(t *testing.T) {
		rr := serve(New("baseapi", "1.2.3", WithLogger(logger.Discard()), WithCritical("store", failing)))
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		body := testutil.DecodeJSON[Report](t, rr)
		assert.Equal(t, StatusDown, body.Status)
		assert.Equal(t, StatusDown, body.Components["store"].Status)
	})
}
