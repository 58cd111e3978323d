package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/common"
)

// UseCase use case для получения свободных слотов специалиста на день
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	slots           SlotGenerator
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	slots SlotGenerator,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		slots:           slots,
		timeProvider:    &common.RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает слоты дня, не пересекающиеся с активными записями специалиста
// Запись занимает все слоты своего интервала, прошедшие слоты не возвращаются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// Дата календарная, день отсчитывается в поясе сервиса
	day := uc.slots.StartOfDay(req.Date)
	uc.logger.Info("GetAvailableSlots: professional=%d, date=%s", req.ProfessionalID, day.Format(domain.DateFormat))

	// 2. Проверяем существование специалиста
	if _, err := uc.catalogRepo.GetProfessional(ctx, req.ProfessionalID); err != nil {
		uc.logger.Warn("GetAvailableSlots: professional id=%d: %v", req.ProfessionalID, err)
		return nil, common.CatalogError(err, req.ProfessionalID)
	}

	// 3. Сетка слотов рабочего дня
	all := uc.slots.GenerateSlots(day)

	// 4. Активные записи, пересекающиеся с днем
	existing, err := uc.appointmentRepo.ListActiveByProfessional(ctx, domain.ProfessionalScheduleFilter{
		ProfessionalID: req.ProfessionalID,
		From:           day,
		To:             day.AddDate(0, 0, 1),
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, appointmentRepo.DomainError(err)
	}

	// 5. Убираем занятые и прошедшие слоты
	free := scheduling.AvailableSlots(all, existing, uc.timeProvider.Now())

	uc.logger.Info("GetAvailableSlots: %d of %d slots available", len(free), len(all))

	slots := make([]Slot, len(free))
	for i, s := range free {
		slots[i] = Slot{Time: s.Label(), Start: s.Start, End: s.End}
	}

	return &Response{
		Date:           day,
		ProfessionalID: req.ProfessionalID,
		Slots:          slots,
	}, nil
}
