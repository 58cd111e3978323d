package get_client_appointments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type stubService struct {
	got  *models.ListRequest
	resp *models.AppointmentListResponse
	err  error
}

func (s *stubService) ListForClient(_ context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	s.got = req
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func get(h *Handler, clientID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/"+clientID+"/appointments"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"clientId": clientID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_PassesFilters(t *testing.T) {
	svc := &stubService{resp: &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}}}

	rec := get(NewHandler(svc, nopLogger{}), "1", "?status=scheduled&from=2030-05-14T00:00:00Z")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(1), svc.got.ClientID)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "scheduled", *svc.got.Status)
	require.NotNil(t, svc.got.From)
	assert.True(t, svc.got.From.Equal(time.Date(2030, 5, 14, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, svc.got.To)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		clientID string
		query    string
		err      error
		status   int
	}{
		{name: "bad id", clientID: "me", status: http.StatusBadRequest},
		{name: "bad from", clientID: "1", query: "?from=yesterday", status: http.StatusBadRequest},
		{name: "bad to", clientID: "1", query: "?to=2030-05-14", status: http.StatusBadRequest},
		{name: "bad status", clientID: "1", query: "?status=pending", err: domain.ErrInvalidInput.WithField("status"), status: http.StatusBadRequest},
		{name: "unknown client", clientID: "404", err: domain.ErrClientNotFound, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(NewHandler(&stubService{err: tt.err}, nopLogger{}), tt.clientID, tt.query)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
