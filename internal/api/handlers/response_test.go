package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidInput.WithField("clientId"), http.StatusBadRequest},
		{domain.ErrClientNotFound, http.StatusNotFound},
		{domain.ErrAppointmentNotFound.WithID(4), http.StatusNotFound},
		{domain.ErrTimeConflict, http.StatusConflict},
		{domain.ErrAlreadyCancelled, http.StatusConflict},
		{domain.ErrNotEditable, http.StatusConflict},
		{domain.ErrAccessDenied, http.StatusForbidden},
		{domain.ErrInPast, http.StatusUnprocessableEntity},
		{domain.ErrOutsideHours, http.StatusUnprocessableEntity},
		{domain.ErrTransient, http.StatusServiceUnavailable},
		{domain.ErrInternal, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), "%v", tt.err)
	}
}

func TestRespondDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, domain.ErrInvalidInput.WithField("serviceIds").WithMessage("serviceIds must not be empty"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid_input", body.Reason)
	assert.Equal(t, "serviceIds", body.Field)
	assert.Equal(t, "serviceIds must not be empty", body.Message)
}

func TestRespondDomainError_HidesStorageDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, domain.ErrInternal.WithMessage("pq: relation does not exist"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")

	rec = httptest.NewRecorder()
	RespondDomainError(rec, domain.ErrTransient)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "x", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
	assert.Error(t, DecodeJSON(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(r, &v))
}
