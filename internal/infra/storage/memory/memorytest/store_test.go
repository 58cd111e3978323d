package memorytest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

var day = time.Date(2030, 5, 14, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newAppointment(professionalID int64, start, end time.Time) *domain.Appointment {
	return &domain.Appointment{
		ClientID:       1,
		ProfessionalID: professionalID,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Status:         domain.StatusScheduled,
		TotalValue:     decimal.NewFromInt(50),
		Segments: []domain.Segment{
			{Position: 0, ServiceID: 1, Start: start, End: end, DurationMinutes: int(end.Sub(start).Minutes())},
		},
	}
}

func TestStore_CreateRejectsOverlap(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first, err := s.Create(ctx, newAppointment(1, at(10, 0), at(11, 0)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	_, err = s.Create(ctx, newAppointment(1, at(10, 30), at(11, 30)))
	assert.ErrorIs(t, err, appointment.ErrTimeConflict)

	_, err = s.Create(ctx, newAppointment(1, at(11, 0), at(12, 0)))
	assert.NoError(t, err)

	_, err = s.Create(ctx, newAppointment(2, at(10, 0), at(11, 0)))
	assert.NoError(t, err)
}

func TestStore_DoRollsBack(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.Create(txCtx, newAppointment(1, at(10, 0), at(11, 0))); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := s.ListActiveByProfessional(ctx, domain.ProfessionalScheduleFilter{
		ProfessionalID: 1, From: day, To: day.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := s.Create(ctx, newAppointment(1, at(10, 0), at(11, 0)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}

func TestStore_TransitionIsKeyedOnStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	a, err := s.Create(ctx, newAppointment(1, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	require.NoError(t, s.Cancel(ctx, a.ID, decimal.NewFromInt(20), at(9, 0)))
	assert.ErrorIs(t, s.Cancel(ctx, a.ID, decimal.NewFromInt(50), at(9, 30)), appointment.ErrStatusChanged)
	assert.ErrorIs(t, s.Complete(ctx, a.ID, at(9, 30)), appointment.ErrStatusChanged)

	stored, err := s.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.True(t, decimal.NewFromInt(20).Equal(stored.CancellationFee))
	require.NotNil(t, stored.CancelledAt)

	// Отмененная запись не занимает время
	_, err = s.Create(ctx, newAppointment(1, at(10, 0), at(11, 0)))
	assert.NoError(t, err)
}

func TestStore_LockRespectsContext(t *testing.T) {
	s := NewStore()
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = s.Do(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Do(ctx, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStore_ListByClientOrderAndFilter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.Create(ctx, newAppointment(1, at(9, 0), at(10, 0)))
	require.NoError(t, err)
	second, err := s.Create(ctx, newAppointment(1, at(14, 0), at(15, 0)))
	require.NoError(t, err)
	require.NoError(t, s.Complete(ctx, second.ID, at(16, 0)))

	all, err := s.ListByClient(ctx, domain.ClientAppointmentsFilter{ClientID: 1})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	status := domain.StatusScheduled
	scheduled, err := s.ListByClient(ctx, domain.ClientAppointmentsFilter{ClientID: 1, Status: &status})
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.Equal(t, at(9, 0), scheduled[0].ScheduledStart)
}

func TestStore_ListPages(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		a, err := s.Create(ctx, newAppointment(1, at(9+i, 0), at(10+i, 0)))
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}
	other, err := s.Create(ctx, newAppointment(2, at(9, 0), at(10, 0)))
	require.NoError(t, err)

	professionalID := int64(1)
	page, err := s.List(ctx, domain.AppointmentsFilter{ProfessionalID: &professionalID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	page, err = s.List(ctx, domain.AppointmentsFilter{ProfessionalID: &professionalID, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	all, err := s.List(ctx, domain.AppointmentsFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Contains(t, []int64{all[2].ID, all[3].ID}, other.ID)

	empty, err := s.List(ctx, domain.AppointmentsFilter{Offset: 10})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStore_Catalog(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.AddService(domain.Service{ID: 1, Name: "Haircut", Price: decimal.NewFromInt(30), DurationMinutes: 30})
	s.AddProfessional(domain.Professional{ID: 7, Name: "Anna", Specialty: "barber"})

	services, err := s.GetServicesByIDs(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, services, 1)
	assert.Equal(t, "Haircut", services[1].Name)

	_, err = s.GetProfessional(ctx, 8)
	assert.ErrorIs(t, err, catalog.ErrProfessionalNotFound)

	_, err = s.GetClient(ctx, 1)
	assert.ErrorIs(t, err, catalog.ErrClientNotFound)
}
