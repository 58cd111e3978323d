package cancel_appointment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/usecase/common"
)

const operationName = "cancel"

// UseCase use case для отмены записи клиентом
type UseCase struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
	timeout         time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
	timeout time.Duration,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
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

// Execute отменяет запись и начисляет штраф по времени, оставшемуся до начала
// Статус меняется только из scheduled, поэтому из двух параллельных отмен успешна одна
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	uc.metrics.ObserveBooking(operationName, domain.Outcome(err))
	if err == nil {
		uc.metrics.ObserveCancellationFee(resp.Fee.InexactFloat64(), resp.WasFree)
	}
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelAppointment: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CancelAppointment: appointment=%d, client=%d", req.AppointmentID, req.ClientID)

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	now := uc.timeProvider.Now()
	var fee decimal.Decimal

	// 2. Загрузка с блокировкой, проверки и смена статуса в одной транзакции
	// Параллельная отмена ждет блокировку строки и затем читает уже cancelled
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		a, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			return err
		}

		if err := checkCancellable(a, req.ClientID); err != nil {
			return err
		}

		lead := a.ScheduledStart.Sub(now)
		fee = scheduling.FeeFor(lead, a.TotalValue)

		uc.logger.Info("CancelAppointment: appointment=%d lead=%s total=%s fee=%s",
			a.ID, lead.Round(time.Minute), a.TotalValue.StringFixed(2), fee.StringFixed(2))

		err = uc.appointmentRepo.Cancel(txCtx, a.ID, fee, now)
		if errors.Is(err, appointmentRepo.ErrStatusChanged) {
			return domain.ErrAlreadyCancelled.WithID(a.ID)
		}
		return err
	})

	if err != nil {
		mapped := appointmentRepo.DomainError(err)
		if domain.Outcome(mapped) == domain.OutcomeError {
			uc.logger.Error("CancelAppointment: appointment=%d: %v", req.AppointmentID, err)
		} else {
			uc.logger.Warn("CancelAppointment: appointment=%d: %v", req.AppointmentID, mapped)
		}
		return nil, mapped
	}

	uc.logger.Info("CancelAppointment: successfully cancelled appointment id=%d", req.AppointmentID)

	return &Response{
		AppointmentID: req.AppointmentID,
		Fee:           fee,
		WasFree:       fee.IsZero(),
		CancelledAt:   now,
	}, nil
}
