package create_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

type stubUseCase struct {
	got  *createAppointment.Request
	resp *createAppointment.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	s.got = req
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	start := time.Date(2030, 5, 14, 9, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &createAppointment.Response{
		ID:             7,
		ClientID:       1,
		ProfessionalID: 10,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(90 * time.Minute),
		Status:         string(domain.StatusScheduled),
		TotalValue:     decimal.RequireFromString("45.5"),
		Services: []createAppointment.ServiceItem{
			{ServiceID: 1, Start: start, End: start.Add(30 * time.Minute), DurationMinutes: 30, Price: decimal.RequireFromString("15.5")},
			{ServiceID: 2, Position: 1, Start: start.Add(30 * time.Minute), End: start.Add(90 * time.Minute), DurationMinutes: 60, Price: decimal.RequireFromString("30")},
		},
	}}
	h := NewHandler(uc, nopLogger{})

	rec := post(h, `{"clientId":1,"professionalId":10,"serviceIds":[1,2],"scheduledStart":"2030-05-14T09:00:00Z"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, []int64{1, 2}, uc.got.ServiceIDs)
	assert.True(t, uc.got.ScheduledStart.Equal(start))

	var body AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, "45.50", body.TotalValue)
	assert.Equal(t, "2030-05-14T10:30:00Z", body.ScheduledEnd)
	require.Len(t, body.Services, 2)
	assert.Equal(t, "30.00", body.Services[1].Price)
}

func TestHandler_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "unknown field", body: `{"userId":1}`},
		{name: "bad start", body: `{"clientId":1,"professionalId":10,"serviceIds":[1],"scheduledStart":"14.05.2030 09:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := post(NewHandler(uc, nopLogger{}), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		reason string
	}{
		{domain.ErrTimeConflict, http.StatusConflict, "time_conflict"},
		{domain.ErrOutsideHours, http.StatusUnprocessableEntity, "outside_hours"},
		{domain.ErrServiceNotFound.WithID(3), http.StatusNotFound, "service_not_found"},
		{domain.ErrInvalidInput.WithField("serviceIds"), http.StatusBadRequest, "invalid_input"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			h := NewHandler(&stubUseCase{err: tt.err}, nopLogger{})
			rec := post(h, `{"clientId":1,"professionalId":10,"serviceIds":[1],"scheduledStart":"2030-05-14T09:00:00Z"}`)

			require.Equal(t, tt.status, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.reason, body.Reason)
		})
	}
}
