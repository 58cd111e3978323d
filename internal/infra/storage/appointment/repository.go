package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const (
	appointmentsTable = "appointments"
	segmentsTable     = "appointment_services"
)

var appointmentColumns = []string{
	"id",
	"client_id",
	"professional_id",
	"scheduled_start",
	"scheduled_end",
	"status",
	"total_value",
	"cancellation_fee",
	"notes",
	"cancelled_at",
	"created_at",
	"updated_at",
}

var segmentColumns = []string{
	"appointment_id",
	"position",
	"service_id",
	"starts_at",
	"ends_at",
	"duration_minutes",
	"price",
}

// Repository репозиторий записей на PostgreSQL
// Запись хранится одной строкой appointments на всю цепочку услуг и строками appointment_services на каждую услугу
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockProfessional берет транзакционную advisory-блокировку на расписание специалиста
// Блокировка снимается при завершении транзакции, поэтому вызывать нужно внутри txmanager.
// Порядок блокировок: сначала специалисты по возрастанию ID, затем строка записи (GetByID)
func (r *Repository) LockProfessional(ctx context.Context, professionalID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", professionalID); err != nil {
		return wrapExecError("LockProfessional", err)
	}

	return nil
}

// ListActiveByProfessional получает неотмененные записи специалиста, пересекающиеся с окном [From, To)
// Сегменты не загружаются, для проверки пересечений достаточно интервала записи.
// Строки не блокируются: изменения расписания специалиста упорядочивает LockProfessional
func (r *Repository) ListActiveByProfessional(ctx context.Context, filter domain.ProfessionalScheduleFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(squirrel.Eq{"professional_id": filter.ProfessionalID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"scheduled_start": filter.To}).
		Where(squirrel.Gt{"scheduled_end": filter.From}).
		OrderBy("scheduled_start ASC")

	if filter.ExcludeAppointmentID != 0 {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": filter.ExcludeAppointmentID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByProfessional - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapExecError("ListActiveByProfessional - execute query", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Create сохраняет запись и ее сегменты
// Если в контексте есть транзакция, оба запроса выполняются в ней
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(appointmentsTable).
		Columns(
			"client_id",
			"professional_id",
			"scheduled_start",
			"scheduled_end",
			"status",
			"total_value",
			"cancellation_fee",
			"notes",
			"created_at",
			"updated_at",
		).
		Values(
			a.ClientID,
			a.ProfessionalID,
			a.ScheduledStart,
			a.ScheduledEnd,
			a.Status,
			a.TotalValue,
			a.CancellationFee,
			a.Notes,
			a.CreatedAt,
			a.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return nil, wrapExecError("Create - execute insert", err)
	}

	if err := r.insertSegments(ctx, executor, a.ID, a.Segments); err != nil {
		return nil, err
	}

	return a, nil
}

// GetByID получает запись с сегментами
// Внутри транзакции строка записи блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, wrapScanError("GetByID", err)
	}

	if err := r.attachSegments(ctx, executor, []*domain.Appointment{a}); err != nil {
		return nil, err
	}

	return a, nil
}

// ListByClient получает записи клиента с сегментами, от поздних к ранним
func (r *Repository) ListByClient(ctx context.Context, filter domain.ClientAppointmentsFilter) ([]*domain.Appointment, error) {
	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(squirrel.Eq{"client_id": filter.ClientID}).
		OrderBy("scheduled_start DESC", "id DESC")

	selectBuilder = withStatusAndPeriod(selectBuilder, filter.Status, filter.From, filter.To)

	return r.listWithSegments(ctx, "ListByClient", selectBuilder)
}

// List получает страницу всех записей с сегментами, от поздних к ранним
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From(appointmentsTable).
		OrderBy("scheduled_start DESC", "id DESC")

	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *filter.ProfessionalID})
	}
	selectBuilder = withStatusAndPeriod(selectBuilder, filter.Status, filter.From, filter.To)

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	return r.listWithSegments(ctx, "List", selectBuilder)
}

func withStatusAndPeriod(b squirrel.SelectBuilder, status *domain.AppointmentStatus, from, to *time.Time) squirrel.SelectBuilder {
	if status != nil {
		b = b.Where(squirrel.Eq{"status": *status})
	}
	if from != nil {
		b = b.Where(squirrel.GtOrEq{"scheduled_start": *from})
	}
	if to != nil {
		b = b.Where(squirrel.LtOrEq{"scheduled_start": *to})
	}
	return b
}

func (r *Repository) listWithSegments(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapExecError(op+" - execute query", err)
	}
	defer rows.Close()

	appointments, err := scanAppointments(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachSegments(ctx, executor, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// Cancel переводит запись из scheduled в cancelled и сохраняет штраф
// Если статус уже не scheduled, возвращает ErrStatusChanged
func (r *Repository) Cancel(ctx context.Context, id int64, fee decimal.Decimal, at time.Time) error {
	return r.transition(ctx, "Cancel", id, psqlbuilder.Update(appointmentsTable).
		Set("status", domain.StatusCancelled).
		Set("cancellation_fee", fee).
		Set("cancelled_at", at).
		Set("updated_at", at))
}

// Complete переводит запись из scheduled в completed
// Если статус уже не scheduled, возвращает ErrStatusChanged
func (r *Repository) Complete(ctx context.Context, id int64, at time.Time) error {
	return r.transition(ctx, "Complete", id, psqlbuilder.Update(appointmentsTable).
		Set("status", domain.StatusCompleted).
		Set("updated_at", at))
}

// UpdateSchedule переносит запись: меняет специалиста, время, стоимость и заменяет сегменты
// Обновляется только запись в статусе scheduled
func (r *Repository) UpdateSchedule(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	err := r.transition(ctx, "UpdateSchedule", a.ID, psqlbuilder.Update(appointmentsTable).
		Set("professional_id", a.ProfessionalID).
		Set("scheduled_start", a.ScheduledStart).
		Set("scheduled_end", a.ScheduledEnd).
		Set("total_value", a.TotalValue).
		Set("updated_at", a.UpdatedAt))
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Delete(segmentsTable).
		Where(squirrel.Eq{"appointment_id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build delete query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return wrapExecError("UpdateSchedule - delete segments", err)
	}

	return r.insertSegments(ctx, executor, a.ID, a.Segments)
}

// transition выполняет обновление, ограниченное статусом scheduled
func (r *Repository) transition(ctx context.Context, op string, id int64, update squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := update.
		Where(squirrel.Eq{"id": id, "status": domain.StatusScheduled}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %w", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapExecError(op+" - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

func (r *Repository) insertSegments(ctx context.Context, executor DBExecutor, appointmentID int64, segments []domain.Segment) error {
	if len(segments) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert(segmentsTable).Columns(segmentColumns...)
	for _, s := range segments {
		insertBuilder = insertBuilder.Values(
			appointmentID,
			s.Position,
			s.ServiceID,
			s.Start,
			s.End,
			s.DurationMinutes,
			s.Price,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertSegments - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return wrapExecError("insertSegments - execute insert", err)
	}

	return nil
}

// attachSegments загружает сегменты для набора записей одним запросом
func (r *Repository) attachSegments(ctx context.Context, executor DBExecutor, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Appointment, len(appointments))
	ids := make([]int64, 0, len(appointments))
	for _, a := range appointments {
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	query, args, err := psqlbuilder.Select(segmentColumns...).
		From(segmentsTable).
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC", "position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachSegments - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return wrapExecError("attachSegments - execute query", err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID int64
		var s domain.Segment

		if err := rows.Scan(
			&appointmentID,
			&s.Position,
			&s.ServiceID,
			&s.Start,
			&s.End,
			&s.DurationMinutes,
			&s.Price,
		); err != nil {
			return fmt.Errorf("%w: attachSegments - scan row: %w", ErrScanRow, err)
		}

		s.Start = s.Start.Local()
		s.End = s.End.Local()

		if a, ok := byID[appointmentID]; ok {
			a.Segments = append(a.Segments, s)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachSegments - rows error: %w", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var notes sql.NullString
	var cancelledAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.ProfessionalID,
		&a.ScheduledStart,
		&a.ScheduledEnd,
		&a.Status,
		&a.TotalValue,
		&a.CancellationFee,
		&notes,
		&cancelledAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.ScheduledStart = a.ScheduledStart.Local()
	a.ScheduledEnd = a.ScheduledEnd.Local()
	a.CreatedAt = a.CreatedAt.Local()
	a.UpdatedAt = a.UpdatedAt.Local()

	if notes.Valid {
		a.Notes = &notes.String
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time.Local()
		a.CancelledAt = &t
	}

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapExecError("scanAppointments - rows error", err)
	}

	return appointments, nil
}

// wrapScanError отделяет ошибки выполнения запроса, которые QueryRow возвращает только при Scan
func wrapScanError(op string, err error) error {
	wrapped := wrapExecError(op, err)
	if errors.Is(wrapped, ErrExecQuery) {
		return fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
	}
	return wrapped
}
