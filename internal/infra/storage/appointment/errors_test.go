package appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func TestWrapExecError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "exclusion violation", err: &pq.Error{Code: "23P01"}, want: ErrTimeConflict},
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, want: ErrSerialization},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, want: ErrSerialization},
		{name: "statement canceled", err: &pq.Error{Code: "57014"}, want: ErrCanceled},
		{name: "deadline", err: context.DeadlineExceeded, want: ErrCanceled},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: ErrExecQuery},
		{name: "plain error", err: errors.New("connection refused"), want: ErrExecQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapExecError("op", tt.err), tt.want)
		})
	}
}

func TestDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "not found", err: ErrAppointmentNotFound, want: domain.ErrAppointmentNotFound},
		{name: "constraint conflict", err: fmt.Errorf("%w: insert", ErrTimeConflict), want: domain.ErrTimeConflict},
		{name: "serialization", err: fmt.Errorf("%w: select", ErrSerialization), want: domain.ErrTransient},
		{name: "timeout", err: fmt.Errorf("wait: %w", context.DeadlineExceeded), want: domain.ErrTransient},
		{name: "commit failure", err: fmt.Errorf("commit: %w", &pq.Error{Code: "40001"}), want: domain.ErrTransient},
		{name: "scan hit deadline", err: wrapScanError("GetByID", context.DeadlineExceeded), want: domain.ErrTransient},
		{name: "other", err: fmt.Errorf("%w: boom", ErrExecQuery), want: domain.ErrInternal},
		{name: "business error passes through", err: domain.ErrOutsideHours, want: domain.ErrOutsideHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, DomainError(tt.err), tt.want)
		})
	}

	assert.NoError(t, DomainError(nil))
}

// Ошибки PostgreSQL в том виде, в каком их видят use case: из запроса внутри транзакции
// или из фиксации через txmanager
func TestDomainError_PostgresCodesByPath(t *testing.T) {
	commit := func(code pq.ErrorCode) error {
		return fmt.Errorf("%w: %w", txmanager.ErrCommitTx, &pq.Error{Code: code})
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "create: exclusion on insert", err: wrapExecError("Create - execute insert", &pq.Error{Code: "23P01"}), want: domain.ErrTimeConflict},
		{name: "create: exclusion on commit", err: commit("23P01"), want: domain.ErrTimeConflict},
		{name: "create: lock wait timed out", err: wrapExecError("LockProfessional", &pq.Error{Code: "57014"}), want: domain.ErrTransient},
		{name: "edit: exclusion on update", err: wrapExecError("UpdateSchedule - execute update", &pq.Error{Code: "23P01"}), want: domain.ErrTimeConflict},
		{name: "edit: deadlock", err: wrapExecError("LockProfessional", &pq.Error{Code: "40P01"}), want: domain.ErrTransient},
		{name: "cancel: serialization on row lock", err: wrapScanError("GetByID", &pq.Error{Code: "40001"}), want: domain.ErrTransient},
		{name: "cancel: deadlock on commit", err: commit("40P01"), want: domain.ErrTransient},
		{name: "any: unique violation", err: wrapExecError("Create - execute insert", &pq.Error{Code: "23505"}), want: domain.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, DomainError(tt.err), tt.want)
		})
	}
}

func TestDomainError_HidesStorageSentinels(t *testing.T) {
	err := DomainError(wrapExecError("Create - execute insert", &pq.Error{Code: "23P01"}))

	assert.ErrorIs(t, err, domain.ErrTimeConflict)
	assert.NotErrorIs(t, err, ErrTimeConflict)
}
