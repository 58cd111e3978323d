package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий справочников: услуги, специалисты, клиенты
// Справочники только читаются
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServicesByIDs получает услуги по списку ID
// Отсутствующие ID в результат не попадают, проверку полноты делает вызывающий код
func (r *Repository) GetServicesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Service, error) {
	result := make(map[int64]*domain.Service, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"price",
		"duration_minutes",
	).
		From("services").
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var svc domain.Service
		var duration sql.NullInt64

		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Price, &duration); err != nil {
			return nil, fmt.Errorf("%w: GetServicesByIDs - scan row: %w", ErrScanRow, err)
		}

		// NULL длительность означает "не задана"
		if duration.Valid {
			svc.DurationMinutes = int(duration.Int64)
		}

		result[svc.ID] = &svc
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// GetProfessional получает специалиста по ID
func (r *Repository) GetProfessional(ctx context.Context, id int64) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "specialty").
		From("professionals").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - build select query: %w", ErrBuildQuery, err)
	}

	var p domain.Professional
	var specialty sql.NullString

	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Name, &specialty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - scan professional: %w", ErrScanRow, err)
	}

	p.Specialty = specialty.String

	return &p, nil
}

// GetProfessionalsByIDs получает специалистов по списку ID
func (r *Repository) GetProfessionalsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Professional, error) {
	result := make(map[int64]*domain.Professional, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "specialty").
		From("professionals").
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessionalsByIDs - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessionalsByIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Professional
		var specialty sql.NullString

		if err := rows.Scan(&p.ID, &p.Name, &specialty); err != nil {
			return nil, fmt.Errorf("%w: GetProfessionalsByIDs - scan row: %w", ErrScanRow, err)
		}

		p.Specialty = specialty.String
		result[p.ID] = &p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetProfessionalsByIDs - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// GetClient получает клиента по ID
func (r *Repository) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name").
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetClient - build select query: %w", ErrBuildQuery, err)
	}

	var c domain.Client
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetClient - scan client: %w", ErrScanRow, err)
	}

	return &c, nil
}
