package create_appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/common"
)

const operationName = "create"

// UseCase use case для создания записи
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
// timeout ограничивает время всей операции, включая ожидание блокировок
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

// Execute выполняет use case создания записи
// Проверка пересечений и сохранение выполняются в одной транзакции
// под блокировкой расписания специалиста
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveBooking(operationName, domain.Outcome(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// Время могло прийти с любым смещением, дальше работаем в поясе сервиса
	start := uc.hours.InZone(req.ScheduledStart)

	uc.logger.Info("CreateAppointment: client=%d, professional=%d, services=%v, start=%s",
		req.ClientID, req.ProfessionalID, req.ServiceIDs, start.Format(time.RFC3339))

	// 2. Запись только на будущее время
	now := uc.timeProvider.Now()
	if !start.After(now) {
		uc.logger.Warn("CreateAppointment: start %s is not in the future", start.Format(time.RFC3339))
		return nil, domain.ErrInPast.WithField("scheduledStart")
	}

	// 3. Начало записи в рабочее время
	if !uc.hours.IsOpen(start) {
		uc.logger.Warn("CreateAppointment: start %s is outside business hours", start.Format(time.RFC3339))
		return nil, domain.ErrOutsideHours.WithField("scheduledStart")
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	// 4. Существование клиента, специалиста и услуг
	if _, err := uc.catalogRepo.GetClient(ctx, req.ClientID); err != nil {
		uc.logger.Warn("CreateAppointment: client id=%d: %v", req.ClientID, err)
		return nil, common.CatalogError(err, req.ClientID)
	}

	if _, err := uc.catalogRepo.GetProfessional(ctx, req.ProfessionalID); err != nil {
		uc.logger.Warn("CreateAppointment: professional id=%d: %v", req.ProfessionalID, err)
		return nil, common.CatalogError(err, req.ProfessionalID)
	}

	found, err := uc.catalogRepo.GetServicesByIDs(ctx, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get services: %v", err)
		return nil, appointmentRepo.DomainError(fmt.Errorf("get services: %w", err))
	}

	services, err := common.OrderedServices(req.ServiceIDs, found)
	if err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, err
	}

	// 5. Длительность цепочки и стоимость
	segments, end := uc.durations.Chain(start, services)
	if !uc.hours.FitsSegments(segments) {
		uc.logger.Warn("CreateAppointment: chain %s-%s does not fit business hours",
			start.Format(domain.TimeFormat), end.Format(domain.TimeFormat))
		return nil, domain.ErrOutsideHours.WithField("serviceIds")
	}

	appointment := &domain.Appointment{
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Status:         domain.StatusScheduled,
		Segments:       segments,
		TotalValue:     scheduling.TotalValue(segments),
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// 6-8. Проверка пересечений и сохранение в транзакции
	// Блокировка специалиста берется первой: после ее получения выборка
	// видит все записи, зафиксированные предыдущим владельцем блокировки
	var created *domain.Appointment
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.LockProfessional(txCtx, req.ProfessionalID); err != nil {
			return err
		}

		existing, err := uc.appointmentRepo.ListActiveByProfessional(txCtx, domain.ProfessionalScheduleFilter{
			ProfessionalID: req.ProfessionalID,
			From:           appointment.ScheduledStart,
			To:             appointment.ScheduledEnd,
		})
		if err != nil {
			return err
		}

		if conflict := scheduling.FindConflict(appointment.Interval(), existing, 0); conflict != nil {
			uc.logger.Warn("CreateAppointment: time %s-%s conflicts with appointment id=%d",
				appointment.ScheduledStart.Format(domain.TimeFormat), appointment.ScheduledEnd.Format(domain.TimeFormat), conflict.ID)
			return domain.ErrTimeConflict.WithID(conflict.ID)
		}

		created, err = uc.appointmentRepo.Create(txCtx, appointment)
		return err
	})

	if err != nil {
		mapped := appointmentRepo.DomainError(err)
		if domain.Outcome(mapped) == domain.OutcomeError {
			uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		}
		return nil, mapped
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", created.ID)

	return common.FromAppointment(created), nil
}
