// Command taxid-mock serves /api/cuit with the local formula for development.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"baseapi/internal/example/models"
	"baseapi/internal/example/taxid"
	"baseapi/internal/platform/config"
	"baseapi/internal/platform/httpserver"
	"baseapi/internal/platform/logger"
	"baseapi/internal/platform/middleware"
	dErrors "baseapi/pkg/domain-errors"
	"baseapi/pkg/platform/httputil"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		addr  string
		fail  bool
		delay time.Duration
	)
	cmd := &cobra.Command{
		Use:          "taxid-mock",
		Short:        "Mock tax ID calculation service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New("info", false)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := httpserver.New(config.Server{Addr: addr, RequestTimeout: 10 * time.Second},
				newRouter(log, mockOptions{fail: fail, delay: delay}))
			return httpserver.Run(ctx, srv, 5*time.Second, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8081", "listen address")
	cmd.Flags().BoolVar(&fail, "fail", false, "answer every request with 503")
	cmd.Flags().DurationVar(&delay, "delay", 0, "delay before answering")
	return cmd
}

type mockOptions struct {
	fail  bool
	delay time.Duration
}

func newRouter(log *slog.Logger, opts mockOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Get("/api/cuit", func(w http.ResponseWriter, r *http.Request) {
		if opts.delay > 0 {
			select {
			case <-time.After(opts.delay):
			case <-r.Context().Done():
				return
			}
		}
		if opts.fail {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "tax ID service unavailable"))
			return
		}
		dni := r.URL.Query().Get("dni")
		gender := models.Gender(r.URL.Query().Get("genero"))
		if dni == "" || !gender.IsValid() {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "dni and genero are required"))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, taxid.Response{CUIT: taxid.Local(dni, gender)})
	})
	return r
}
