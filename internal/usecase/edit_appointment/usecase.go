package edit_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/common"
)

const (
	operationName = "edit"

	// maxLockAttempts сколько раз повторять транзакцию, если запись переносят к другому специалисту параллельно
	maxLockAttempts = 3
)

// errProfessionalChanged запись перенесли к другому специалисту между чтением и блокировкой
var errProfessionalChanged = errors.New("edit_appointment: professional changed concurrently")

// UseCase use case для переноса записи: новое время, специалист или состав услуг
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	hours           BusinessHours
	durations       DurationResolver
	txManager       TransactionManager
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
	timeout         time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	hours BusinessHours,
	durations DurationResolver,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
	timeout time.Duration,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		hours:           hours,
		durations:       durations,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &common.RealTimeProvider{},
		logger:          logger,
		timeout:         timeout,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute изменяет запись как новую попытку записи с тем же ID
// Все проверки создания повторяются для итоговых значений, сама запись из проверки пересечений исключается
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveBooking(operationName, domain.Outcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("EditAppointment: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("EditAppointment: appointment=%d", req.AppointmentID)

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	now := uc.timeProvider.Now()

	// 2. Специалист записи нужен до транзакции: блокировки расписания берутся раньше блокировки строки
	peek, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		mapped := appointmentRepo.DomainError(err)
		uc.logger.Warn("EditAppointment: appointment=%d: %v", req.AppointmentID, mapped)
		return nil, mapped
	}

	professionalID := peek.ProfessionalID
	var updated *domain.Appointment

	for attempt := 1; ; attempt++ {
		updated, professionalID, err = uc.update(ctx, req, now, professionalID)
		if !errors.Is(err, errProfessionalChanged) {
			break
		}
		if attempt == maxLockAttempts {
			err = fmt.Errorf("%w: %v", domain.ErrTransient, err)
			break
		}
		uc.logger.Warn("EditAppointment: appointment=%d moved to professional=%d, retrying", req.AppointmentID, professionalID)
	}

	if err != nil {
		mapped := appointmentRepo.DomainError(err)
		if domain.Outcome(mapped) == domain.OutcomeError {
			uc.logger.Error("EditAppointment: appointment=%d: %v", req.AppointmentID, err)
		} else {
			uc.logger.Warn("EditAppointment: appointment=%d: %v", req.AppointmentID, mapped)
		}
		return nil, mapped
	}

	uc.logger.Info("EditAppointment: successfully updated appointment id=%d", updated.ID)

	return common.FromAppointment(updated), nil
}

// update выполняет перенос в одной транзакции, считая, что запись принадлежит lockedProfessional
// Если запись успели перенести к другому специалисту, возвращает errProfessionalChanged и его ID
func (uc *UseCase) update(ctx context.Context, req *Request, now time.Time, lockedProfessional int64) (*domain.Appointment, int64, error) {
	var updated *domain.Appointment
	actualProfessional := lockedProfessional

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3. Блокируем расписание прежнего и нового специалиста в порядке возрастания ID
		target := lockedProfessional
		if req.ProfessionalID != nil {
			target = *req.ProfessionalID
		}
		for _, id := range professionalsToLock(lockedProfessional, target) {
			if err := uc.appointmentRepo.LockProfessional(txCtx, id); err != nil {
				return err
			}
		}

		// 4. Текущая запись с блокировкой строки
		current, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			return err
		}

		if current.IsTerminal() {
			return domain.ErrNotEditable.WithID(current.ID)
		}

		if current.ProfessionalID != lockedProfessional {
			actualProfessional = current.ProfessionalID
			return errProfessionalChanged
		}

		p := merge(current, req)
		p.start = uc.hours.InZone(p.start)

		// 5. Проверки времени для итоговых значений
		if !p.start.After(now) {
			return domain.ErrInPast.WithField("scheduledStart")
		}
		if !uc.hours.IsOpen(p.start) {
			return domain.ErrOutsideHours.WithField("scheduledStart")
		}

		// 6. Существование специалиста и услуг
		if _, err := uc.catalogRepo.GetProfessional(txCtx, p.professionalID); err != nil {
			return common.CatalogError(err, p.professionalID)
		}

		found, err := uc.catalogRepo.GetServicesByIDs(txCtx, p.serviceIDs)
		if err != nil {
			return fmt.Errorf("get services: %w", err)
		}

		services, err := common.OrderedServices(p.serviceIDs, found)
		if err != nil {
			return err
		}

		// 7. Новая цепочка услуг
		segments, end := uc.durations.Chain(p.start, services)
		if !uc.hours.FitsSegments(segments) {
			return domain.ErrOutsideHours.WithField("serviceIds")
		}

		// 8. Проверка пересечений у итогового специалиста
		existing, err := uc.appointmentRepo.ListActiveByProfessional(txCtx, domain.ProfessionalScheduleFilter{
			ProfessionalID:       p.professionalID,
			From:                 p.start,
			To:                   end,
			ExcludeAppointmentID: current.ID,
		})
		if err != nil {
			return err
		}

		candidate := domain.Interval{Start: p.start, End: end}
		if conflict := scheduling.FindConflict(candidate, existing, current.ID); conflict != nil {
			uc.logger.Warn("EditAppointment: appointment=%d time %s-%s conflicts with appointment id=%d",
				current.ID, p.start.Format(domain.TimeFormat), end.Format(domain.TimeFormat), conflict.ID)
			return domain.ErrTimeConflict.WithID(conflict.ID)
		}

		// 9. Обновление на месте
		next := *current
		next.ProfessionalID = p.professionalID
		next.ScheduledStart = p.start
		next.ScheduledEnd = end
		next.Segments = segments
		next.TotalValue = scheduling.TotalValue(segments)
		next.UpdatedAt = now

		err = uc.appointmentRepo.UpdateSchedule(txCtx, &next)
		if errors.Is(err, appointmentRepo.ErrStatusChanged) {
			return domain.ErrNotEditable.WithID(current.ID)
		}
		if err != nil {
			return err
		}

		updated = &next
		return nil
	})

	return updated, actualProfessional, err
}
