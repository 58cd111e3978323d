package edit_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory/memorytest"
	"github.com/m04kA/SMC-AppointmentService/internal/service/scheduling"
)

var now = time.Date(2030, 5, 13, 8, 0, 0, 0, time.UTC)

func tomorrow(hour, minute int) time.Time {
	return time.Date(2030, 5, 14, hour, minute, 0, 0, time.UTC)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type nopMetrics struct{}

func (nopMetrics) ObserveBooking(string, string) {}

type fixture struct {
	store     *memorytest.Store
	durations *scheduling.DurationResolver
	uc        *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hours := utcHours(t)

	store := memorytest.NewStore()
	store.AddClient(domain.Client{ID: 1, Name: "Ivan"})
	store.AddProfessional(domain.Professional{ID: 10, Name: "Anna"})
	store.AddProfessional(domain.Professional{ID: 20, Name: "Boris"})
	store.AddService(domain.Service{ID: 100, Name: "Wash", Price: decimal.RequireFromString("15"), DurationMinutes: 30})
	store.AddService(domain.Service{ID: 200, Name: "Haircut", Price: decimal.RequireFromString("40"), DurationMinutes: 60})

	durations := scheduling.NewDurationResolver(60)
	uc := NewUseCase(store, store, hours, durations, store, nopMetrics{}, nopLogger{}, time.Second).
		WithTimeProvider(fixedClock{t: now})

	return &fixture{store: store, durations: durations, uc: uc}
}

// book создает запись клиента 1 у специалиста professionalID на услугу Haircut
func (f *fixture) book(t *testing.T, professionalID int64, start time.Time) *domain.Appointment {
	t.Helper()

	services, err := f.store.GetServicesByIDs(context.Background(), []int64{200})
	require.NoError(t, err)

	segments, end := f.durations.Chain(start, []*domain.Service{services[200]})
	a, err := f.store.Create(context.Background(), &domain.Appointment{
		ClientID:       1,
		ProfessionalID: professionalID,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Status:         domain.StatusScheduled,
		Segments:       segments,
		TotalValue:     scheduling.TotalValue(segments),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	require.NoError(t, err)
	return a
}

// utcHours рабочие часы по умолчанию, отсчитываемые в UTC
func utcHours(t *testing.T) *scheduling.BusinessHours {
	t.Helper()

	cfg := scheduling.DefaultHoursConfig()
	cfg.Location = time.UTC
	hours, err := scheduling.NewBusinessHours(cfg)
	require.NoError(t, err)
	return hours
}
