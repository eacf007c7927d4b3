package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"baseapi/internal/example/models"
	"baseapi/internal/example/taxid"
	"baseapi/internal/platform/logger"
	"baseapi/pkg/platform/sentinel"
)

func TestMockAnswersWithLocalFormula(t *testing.T) {
	srv := httptest.NewServer(newRouter(logger.Discard(), mockOptions{}))
	defer srv.Close()

	calc, err := taxid.NewHTTP(srv.URL)
	require.NoError(t, err)

	got, err := calc.Derive(context.Background(), "12345678", models.GenderMale)
	require.NoError(t, err)
	assert.Equal(t, "20-12345678-7", got)

	got, err = calc.Derive(context.Background(), "12345678", models.GenderFemale)
	require.NoError(t, err)
	assert.Equal(t, "27-12345678-6", got)
}

func TestMockRejectsMissingParams(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(logger.Discard(), mockOptions{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cuit?dni=1", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMockFailMode(t *testing.T) {
	srv := httptest.NewServer(newRouter(logger.Discard(), mockOptions{fail: true}))
	defer srv.Close()

	calc, err := taxid.NewHTTP(srv.URL)
	require.NoError(t, err)

	_, err = calc.Derive(context.Background(), "12345678", models.GenderMale)
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
}
