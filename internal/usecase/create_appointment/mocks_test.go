package create_appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory/memorytest"
	"github.com/m04kA/SMC-AppointmentService/internal/service/scheduling"
)

// now - понедельник 08:00, записи создаются на следующий день
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

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{outcomes: make(map[string]int)}
}

func (m *recordingMetrics) ObserveBooking(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[operation+":"+outcome]++
}

func (m *recordingMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[key]
}

// failingTxManager возвращает заданную ошибку, не выполняя функцию
type failingTxManager struct{ err error }

func (m failingTxManager) Do(context.Context, func(ctx context.Context) error) error {
	return m.err
}

func seededStore() *memorytest.Store {
	store := memorytest.NewStore()
	store.AddClient(domain.Client{ID: 1, Name: "Ivan"})
	store.AddClient(domain.Client{ID: 2, Name: "Olga"})
	store.AddProfessional(domain.Professional{ID: 10, Name: "Anna", Specialty: "barber"})
	store.AddService(domain.Service{ID: 100, Name: "Wash", Price: decimal.RequireFromString("15.50"), DurationMinutes: 30})
	store.AddService(domain.Service{ID: 200, Name: "Haircut", Price: decimal.RequireFromString("40"), DurationMinutes: 60})
	store.AddService(domain.Service{ID: 300, Name: "Styling", Price: decimal.RequireFromString("4.50"), DurationMinutes: 10})
	store.AddService(domain.Service{ID: 400, Name: "Consultation", Price: decimal.RequireFromString("25")})
	return store
}

type fixture struct {
	store   *memorytest.Store
	metrics *recordingMetrics
	uc      *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hours := utcHours(t)

	store := seededStore()
	m := newRecordingMetrics()
	uc := NewUseCase(store, store, hours, scheduling.NewDurationResolver(60), store, m, nopLogger{}, time.Second).
		WithTimeProvider(fixedClock{t: now})

	return &fixture{store: store, metrics: m, uc: uc}
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
