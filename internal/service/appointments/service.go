package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/common"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const completeOperation = "complete"

// Размер страницы общего списка записей
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service сервис для чтения записей и их завершения
type Service struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	txManager       TransactionManager
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &common.RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID с названиями услуг и данными специалиста
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	if id <= 0 {
		return nil, domain.ErrInvalidInput.WithField("appointmentId").WithMessage("appointmentId must be positive")
	}

	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, domain.ErrAppointmentNotFound.WithID(id)
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, appointmentRepo.DomainError(err)
	}

	list, err := s.enrich(ctx, []*domain.Appointment{a})
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return &list.Appointments[0], nil
}

// ListForClient получает записи клиента от поздних к ранним
// Опционально фильтрует по статусу и периоду времени начала
func (s *Service) ListForClient(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	if req == nil || req.ClientID <= 0 {
		return nil, domain.ErrInvalidInput.WithField("clientId").WithMessage("clientId must be positive")
	}

	s.logger.Info("ListForClient: fetching appointments for client=%d, status=%q", req.ClientID, ptr.Value(req.Status))

	filter := domain.ClientAppointmentsFilter{
		ClientID: req.ClientID,
		From:     req.From,
		To:       req.To,
	}

	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListForClient: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, err
		}
		filter.Status = ptr.Ptr(status)
	}

	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, domain.ErrInvalidInput.WithField("to").WithMessage("to must not be before from")
	}

	if _, err := s.catalogRepo.GetClient(ctx, req.ClientID); err != nil {
		if errors.Is(err, catalog.ErrClientNotFound) {
			s.logger.Warn("ListForClient: client id=%d not found", req.ClientID)
			return nil, domain.ErrClientNotFound.WithID(req.ClientID)
		}
		s.logger.Error("ListForClient: failed to get client id=%d: %v", req.ClientID, err)
		return nil, appointmentRepo.DomainError(err)
	}

	list, err := s.appointmentRepo.ListByClient(ctx, filter)
	if err != nil {
		s.logger.Error("ListForClient: repository error for client=%d: %v", req.ClientID, err)
		return nil, appointmentRepo.DomainError(err)
	}

	resp, err := s.enrich(ctx, list)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ListForClient: successfully fetched %d appointments for client=%d", len(list), req.ClientID)
	return resp, nil
}

// List получает страницу всех записей от поздних к ранним
// Опционально фильтрует по специалисту, статусу и периоду времени начала
func (s *Service) List(ctx context.Context, req *models.ListAllRequest) (*models.AppointmentListResponse, error) {
	if req == nil {
		req = &models.ListAllRequest{}
	}

	filter := domain.AppointmentsFilter{
		ProfessionalID: req.ProfessionalID,
		From:           req.From,
		To:             req.To,
		Limit:          req.Limit,
		Offset:         req.Offset,
	}

	switch {
	case filter.Limit < 0 || filter.Limit > maxListLimit:
		return nil, domain.ErrInvalidInput.WithField("limit").WithMessage("limit must be between 1 and %d", maxListLimit)
	case filter.Limit == 0:
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		return nil, domain.ErrInvalidInput.WithField("offset").WithMessage("offset must not be negative")
	}
	if filter.ProfessionalID != nil && *filter.ProfessionalID <= 0 {
		return nil, domain.ErrInvalidInput.WithField("professionalId").WithMessage("professionalId must be positive")
	}

	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, err
		}
		filter.Status = ptr.Ptr(status)
	}

	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, domain.ErrInvalidInput.WithField("to").WithMessage("to must not be before from")
	}

	s.logger.Info("List: fetching appointments, professional=%d, status=%q, limit=%d, offset=%d",
		ptr.Value(filter.ProfessionalID), ptr.Value(req.Status), filter.Limit, filter.Offset)

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, appointmentRepo.DomainError(err)
	}

	resp, err := s.enrich(ctx, list)
	if err != nil {
		return nil, err
	}

	s.logger.Info("List: successfully fetched %d appointments", len(list))
	return resp, nil
}

// Complete отмечает запись выполненной
// Переход возможен только из scheduled
func (s *Service) Complete(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	err := s.complete(ctx, id)
	s.metrics.ObserveBooking(completeOperation, domain.Outcome(err))
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *Service) complete(ctx context.Context, id int64) error {
	s.logger.Info("Complete: completing appointment id=%d", id)

	if id <= 0 {
		return domain.ErrInvalidInput.WithField("appointmentId").WithMessage("appointmentId must be positive")
	}

	now := s.timeProvider.Now()

	// Строка блокируется до конца транзакции, параллельная смена статуса дождется ее
	// и прочитает уже новый статус
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := checkCompletable(a); err != nil {
			return err
		}

		err = s.appointmentRepo.Complete(txCtx, id, now)
		if errors.Is(err, appointmentRepo.ErrStatusChanged) {
			return domain.ErrNotEditable.WithID(id)
		}
		return err
	})

	if err != nil {
		mapped := appointmentRepo.DomainError(err)
		if domain.Outcome(mapped) == domain.OutcomeError {
			s.logger.Error("Complete: appointment id=%d: %v", id, err)
		} else {
			s.logger.Warn("Complete: appointment id=%d: %v", id, mapped)
		}
		return mapped
	}

	s.logger.Info("Complete: successfully completed appointment id=%d", id)
	return nil
}

// Вспомогательные методы

func checkCompletable(a *domain.Appointment) error {
	switch a.Status {
	case domain.StatusCancelled:
		return domain.ErrAlreadyCancelled.WithID(a.ID)
	case domain.StatusCompleted:
		return domain.ErrAlreadyCompleted.WithID(a.ID)
	}
	return nil
}

// enrich дополняет записи названиями услуг и данными специалистов
// Отсутствующие в справочнике услуги и специалисты остаются без названий (исторические данные)
func (s *Service) enrich(ctx context.Context, list []*domain.Appointment) (*models.AppointmentListResponse, error) {
	resp := &models.AppointmentListResponse{
		Appointments: make([]models.AppointmentResponse, 0, len(list)),
	}
	if len(list) == 0 {
		return resp, nil
	}

	serviceIDs, professionalIDs := collectIDs(list)

	services, err := s.catalogRepo.GetServicesByIDs(ctx, serviceIDs)
	if err != nil {
		s.logger.Error("enrich: failed to get services: %v", err)
		return nil, appointmentRepo.DomainError(fmt.Errorf("get services: %w", err))
	}

	professionals, err := s.catalogRepo.GetProfessionalsByIDs(ctx, professionalIDs)
	if err != nil {
		s.logger.Error("enrich: failed to get professionals: %v", err)
		return nil, appointmentRepo.DomainError(fmt.Errorf("get professionals: %w", err))
	}

	for _, id := range serviceIDs {
		if _, ok := services[id]; !ok {
			s.logger.Warn("enrich: service id=%d is missing from catalog", id)
		}
	}
	for _, id := range professionalIDs {
		if _, ok := professionals[id]; !ok {
			s.logger.Warn("enrich: professional id=%d is missing from catalog", id)
		}
	}

	for _, a := range list {
		resp.Appointments = append(resp.Appointments,
			*models.FromDomainAppointment(a, professionals[a.ProfessionalID], services))
	}

	return resp, nil
}

// collectIDs возвращает уникальные ID услуг и специалистов в порядке появления
func collectIDs(list []*domain.Appointment) ([]int64, []int64) {
	seenServices := make(map[int64]struct{})
	seenProfessionals := make(map[int64]struct{})
	serviceIDs := make([]int64, 0)
	professionalIDs := make([]int64, 0)

	for _, a := range list {
		if _, ok := seenProfessionals[a.ProfessionalID]; !ok {
			seenProfessionals[a.ProfessionalID] = struct{}{}
			professionalIDs = append(professionalIDs, a.ProfessionalID)
		}
		for _, seg := range a.Segments {
			if _, ok := seenServices[seg.ServiceID]; !ok {
				seenServices[seg.ServiceID] = struct{}{}
				serviceIDs = append(serviceIDs, seg.ServiceID)
			}
		}
	}

	return serviceIDs, professionalIDs
}
