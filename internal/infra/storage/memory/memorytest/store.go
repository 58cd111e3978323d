// Package memorytest хранилище в памяти для тестов use case и сервисов
package memorytest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
)

// Store хранилище записей и справочников в памяти процесса
// Повторяет поведение репозиториев PostgreSQL и возвращает их ошибки.
// Транзакция (Do) держит эксклюзивную блокировку всего хранилища
// и при ошибке восстанавливает снимок состояния.
type Store struct {
	sem chan struct{}

	nextID        int64
	appointments  map[int64]*domain.Appointment
	services      map[int64]*domain.Service
	professionals map[int64]*domain.Professional
	clients       map[int64]*domain.Client
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		sem:           make(chan struct{}, 1),
		nextID:        1,
		appointments:  make(map[int64]*domain.Appointment),
		services:      make(map[int64]*domain.Service),
		professionals: make(map[int64]*domain.Professional),
		clients:       make(map[int64]*domain.Client),
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lock захватывает хранилище, если вызов не находится внутри транзакции
func (s *Store) lock(ctx context.Context) (func(), error) {
	if inTx(ctx) {
		return func() {}, nil
	}

	select {
	case s.sem <- struct{}{}:
		return func() { <-s.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Do выполняет fn под эксклюзивной блокировкой хранилища
// Если fn вернула ошибку или запаниковала, изменения откатываются
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	snapshot := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snapshot)
		return err
	}

	// Транзакция, не успевшая до дедлайна, не фиксируется
	if err := ctx.Err(); err != nil {
		s.restore(snapshot)
		return err
	}

	return nil
}

type state struct {
	nextID       int64
	appointments map[int64]*domain.Appointment
}

func (s *Store) snapshot() state {
	copied := make(map[int64]*domain.Appointment, len(s.appointments))
	for id, a := range s.appointments {
		copied[id] = clone(a)
	}
	return state{nextID: s.nextID, appointments: copied}
}

func (s *Store) restore(st state) {
	s.nextID = st.nextID
	s.appointments = st.appointments
}

// AddService добавляет услугу в справочник
func (s *Store) AddService(svc domain.Service) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()
	s.services[svc.ID] = &svc
}

// AddProfessional добавляет специалиста в справочник
func (s *Store) AddProfessional(p domain.Professional) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()
	s.professionals[p.ID] = &p
}

// AddClient добавляет клиента в справочник
func (s *Store) AddClient(c domain.Client) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()
	s.clients[c.ID] = &c
}

// LockProfessional ничего не делает: транзакция и так держит блокировку всего хранилища
func (s *Store) LockProfessional(ctx context.Context, professionalID int64) error {
	return ctx.Err()
}

// ListActiveByProfessional получает неотмененные записи специалиста, пересекающиеся с окном [From, To)
func (s *Store) ListActiveByProfessional(ctx context.Context, filter domain.ProfessionalScheduleFilter) ([]*domain.Appointment, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	window := domain.Interval{Start: filter.From, End: filter.To}
	result := make([]*domain.Appointment, 0)

	for _, a := range s.appointments {
		if a.ProfessionalID != filter.ProfessionalID || !a.IsActive() {
			continue
		}
		if filter.ExcludeAppointmentID != 0 && a.ID == filter.ExcludeAppointmentID {
			continue
		}
		if !window.Overlaps(a.Interval()) {
			continue
		}
		result = append(result, clone(a))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledStart.Before(result[j].ScheduledStart)
	})

	return result, nil
}

// Create сохраняет запись
// Пересечение с активной записью специалиста отклоняется так же, как ограничение в PostgreSQL
func (s *Store) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if s.overlapsActive(a, 0) {
		return nil, appointment.ErrTimeConflict
	}

	a.ID = s.nextID
	s.nextID++
	s.appointments[a.ID] = clone(a)

	return a, nil
}

// GetByID получает запись по ID
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}

	return clone(a), nil
}

// ListByClient получает записи клиента от поздних к ранним
func (s *Store) ListByClient(ctx context.Context, filter domain.ClientAppointmentsFilter) ([]*domain.Appointment, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if a.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.From != nil && a.ScheduledStart.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.ScheduledStart.After(*filter.To) {
			continue
		}
		result = append(result, clone(a))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ScheduledStart.Equal(result[j].ScheduledStart) {
			return result[i].ID > result[j].ID
		}
		return result[i].ScheduledStart.After(result[j].ScheduledStart)
	})

	return result, nil
}

// List получает страницу всех записей от поздних к ранним
func (s *Store) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if filter.ProfessionalID != nil && a.ProfessionalID != *filter.ProfessionalID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.From != nil && a.ScheduledStart.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.ScheduledStart.After(*filter.To) {
			continue
		}
		result = append(result, clone(a))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ScheduledStart.Equal(result[j].ScheduledStart) {
			return result[i].ID > result[j].ID
		}
		return result[i].ScheduledStart.After(result[j].ScheduledStart)
	})

	if filter.Offset >= len(result) {
		return make([]*domain.Appointment, 0), nil
	}
	result = result[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Cancel переводит запись из scheduled в cancelled
func (s *Store) Cancel(ctx context.Context, id int64, fee decimal.Decimal, at time.Time) error {
	return s.transition(ctx, id, func(a *domain.Appointment) {
		a.Status = domain.StatusCancelled
		a.CancellationFee = fee
		a.CancelledAt = &at
		a.UpdatedAt = at
	})
}

// Complete переводит запись из scheduled в completed
func (s *Store) Complete(ctx context.Context, id int64, at time.Time) error {
	return s.transition(ctx, id, func(a *domain.Appointment) {
		a.Status = domain.StatusCompleted
		a.UpdatedAt = at
	})
}

// UpdateSchedule переносит запись в статусе scheduled
func (s *Store) UpdateSchedule(ctx context.Context, updated *domain.Appointment) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	current, ok := s.appointments[updated.ID]
	if !ok || current.Status != domain.StatusScheduled {
		return appointment.ErrStatusChanged
	}

	if s.overlapsActive(updated, updated.ID) {
		return appointment.ErrTimeConflict
	}

	current.ProfessionalID = updated.ProfessionalID
	current.ScheduledStart = updated.ScheduledStart
	current.ScheduledEnd = updated.ScheduledEnd
	current.TotalValue = updated.TotalValue
	current.UpdatedAt = updated.UpdatedAt
	current.Segments = append([]domain.Segment(nil), updated.Segments...)

	return nil
}

func (s *Store) transition(ctx context.Context, id int64, apply func(a *domain.Appointment)) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	a, ok := s.appointments[id]
	if !ok || a.Status != domain.StatusScheduled {
		return appointment.ErrStatusChanged
	}

	apply(a)
	return nil
}

func (s *Store) overlapsActive(candidate *domain.Appointment, excludeID int64) bool {
	for _, a := range s.appointments {
		if a.ID == excludeID || a.ProfessionalID != candidate.ProfessionalID || !a.IsActive() {
			continue
		}
		if a.Interval().Overlaps(candidate.Interval()) {
			return true
		}
	}
	return false
}

// GetServicesByIDs получает услуги по списку ID
func (s *Store) GetServicesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Service, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make(map[int64]*domain.Service, len(ids))
	for _, id := range ids {
		if svc, ok := s.services[id]; ok {
			copied := *svc
			result[id] = &copied
		}
	}
	return result, nil
}

// GetProfessional получает специалиста по ID
func (s *Store) GetProfessional(ctx context.Context, id int64) (*domain.Professional, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, ok := s.professionals[id]
	if !ok {
		return nil, catalog.ErrProfessionalNotFound
	}
	copied := *p
	return &copied, nil
}

// GetProfessionalsByIDs получает специалистов по списку ID
func (s *Store) GetProfessionalsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Professional, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := make(map[int64]*domain.Professional, len(ids))
	for _, id := range ids {
		if p, ok := s.professionals[id]; ok {
			copied := *p
			result[id] = &copied
		}
	}
	return result, nil
}

// GetClient получает клиента по ID
func (s *Store) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, catalog.ErrClientNotFound
	}
	copied := *c
	return &copied, nil
}

func clone(a *domain.Appointment) *domain.Appointment {
	c := *a
	c.Segments = append([]domain.Segment(nil), a.Segments...)
	if a.Notes != nil {
		notes := *a.Notes
		c.Notes = &notes
	}
	if a.CancelledAt != nil {
		at := *a.CancelledAt
		c.CancelledAt = &at
	}
	return &c
}
