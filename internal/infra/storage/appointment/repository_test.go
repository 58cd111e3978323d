package appointment

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

var errStop = errors.New("stop")

// recordingExecutor запоминает запросы и отвечает заданной ошибкой
type recordingExecutor struct {
	queries []string
	args    [][]interface{}
	err     error
}

func (e *recordingExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	e.queries = append(e.queries, query)
	e.args = append(e.args, args)
	return nil, e.err
}

func (e *recordingExecutor) QueryContext(_ context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	e.queries = append(e.queries, query)
	e.args = append(e.args, args)
	return nil, e.err
}

func (e *recordingExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	panic("not used")
}

type recordingTx struct {
	*recordingExecutor
}

func (recordingTx) Commit() error   { return nil }
func (recordingTx) Rollback() error { return nil }

func TestLockProfessional(t *testing.T) {
	exec := &recordingExecutor{}
	repo := NewRepository(exec)

	require.NoError(t, repo.LockProfessional(context.Background(), 42))

	require.Len(t, exec.queries, 1)
	assert.Equal(t, "SELECT pg_advisory_xact_lock($1)", exec.queries[0])
	assert.Equal(t, []interface{}{int64(42)}, exec.args[0])
}

func TestLockProfessional_Deadlock(t *testing.T) {
	exec := &recordingExecutor{err: &pq.Error{Code: "40P01"}}

	err := NewRepository(exec).LockProfessional(context.Background(), 42)

	assert.ErrorIs(t, err, ErrSerialization)
	assert.ErrorIs(t, DomainError(err), domain.ErrTransient)
}

func TestListActiveByProfessional_DoesNotLockRowsInTx(t *testing.T) {
	outside := &recordingExecutor{err: errStop}
	tx := recordingTx{recordingExecutor: &recordingExecutor{err: errStop}}
	repo := NewRepository(outside)

	ctx := dbmetrics.WithTx(context.Background(), tx)
	start := time.Date(2030, 5, 14, 10, 0, 0, 0, time.UTC)

	_, err := repo.ListActiveByProfessional(ctx, domain.ProfessionalScheduleFilter{
		ProfessionalID: 10,
		From:           start,
		To:             start.Add(time.Hour),
	})
	require.ErrorIs(t, err, ErrExecQuery)

	assert.Empty(t, outside.queries)
	require.Len(t, tx.queries, 1)
	assert.Contains(t, tx.queries[0], "FROM appointments")
	assert.NotContains(t, tx.queries[0], "FOR UPDATE")
}

func TestList_BuildsPagedQuery(t *testing.T) {
	from := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	status := domain.StatusScheduled
	professionalID := int64(10)

	tests := []struct {
		name     string
		filter   domain.AppointmentsFilter
		contains []string
		absent   []string
		args     []interface{}
	}{
		{
			name:   "no filters",
			filter: domain.AppointmentsFilter{},
			absent: []string{"WHERE", "LIMIT", "OFFSET"},
		},
		{
			name: "all filters",
			filter: domain.AppointmentsFilter{
				ProfessionalID: &professionalID,
				Status:         &status,
				From:           &from,
				Limit:          20,
				Offset:         40,
			},
			contains: []string{"professional_id = $1", "status = $2", "scheduled_start >= $3", "LIMIT 20", "OFFSET 40"},
			args:     []interface{}{int64(10), domain.StatusScheduled, from},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordingExecutor{err: errStop}

			_, err := NewRepository(exec).List(context.Background(), tt.filter)
			require.ErrorIs(t, err, ErrExecQuery)

			require.Len(t, exec.queries, 1)
			query := exec.queries[0]
			assert.Contains(t, query, "ORDER BY scheduled_start DESC, id DESC")
			for _, part := range tt.contains {
				assert.Contains(t, query, part)
			}
			for _, part := range tt.absent {
				assert.NotContains(t, query, part)
			}
			if tt.args != nil {
				assert.Equal(t, tt.args, exec.args[0])
			}
		})
	}
}
