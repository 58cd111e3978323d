package cancel_appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory/memorytest"
)

var now = time.Date(2030, 5, 14, 8, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
	fees     []float64
	free     int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{outcomes: make(map[string]int)}
}

func (m *recordingMetrics) ObserveBooking(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[operation+":"+outcome]++
}

func (m *recordingMetrics) ObserveCancellationFee(fee float64, free bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fees = append(m.fees, fee)
	if free {
		m.free++
	}
}

type fixture struct {
	store   *memorytest.Store
	metrics *recordingMetrics
	uc      *UseCase
}

func newFixture() *fixture {
	store := memorytest.NewStore()
	m := newRecordingMetrics()
	uc := NewUseCase(store, store, m, nopLogger{}, time.Second).WithTimeProvider(fixedClock{t: now})
	return &fixture{store: store, metrics: m, uc: uc}
}

// book создает запись клиента 1 на 100.00, начинающуюся через lead от now
func (f *fixture) book(t *testing.T, lead time.Duration) *domain.Appointment {
	t.Helper()

	start := now.Add(lead)
	a, err := f.store.Create(context.Background(), &domain.Appointment{
		ClientID:       1,
		ProfessionalID: 10,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
		Status:         domain.StatusScheduled,
		TotalValue:     decimal.RequireFromString("100.00"),
		Segments: []domain.Segment{
			{ServiceID: 1, Start: start, End: start.Add(time.Hour), DurationMinutes: 60, Price: decimal.RequireFromString("100.00")},
		},
	})
	require.NoError(t, err)
	return a
}
