package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeDB struct {
	tx       *fakeTx
	opts     *sql.TxOptions
	begins   int
	beginErr error
}

func (d *fakeDB) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	d.begins++
	d.opts = opts
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	return d.tx, nil
}

func TestDo_Commit(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		assert.Same(t, db.tx, dbmetrics.GetExecutor(ctx, nil))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, sql.LevelDefault, db.opts.Isolation)
	assert.False(t, db.opts.ReadOnly)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
}

func TestDo_RollbackOnError(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	fnErr := errors.New("conflict")

	err := NewTransactionManager(db).Do(context.Background(), func(context.Context) error {
		return fnErr
	})

	assert.ErrorIs(t, err, fnErr)
	assert.True(t, db.tx.rolledBack)
	assert.False(t, db.tx.committed)
}

func TestDo_RollbackOnPanic(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}

	assert.Panics(t, func() {
		_ = NewTransactionManager(db).Do(context.Background(), func(context.Context) error {
			panic("boom")
		})
	})
	assert.True(t, db.tx.rolledBack)
}

func TestDo_NestedReusesOuterTx(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, db.begins)
}

func TestDo_BeginAndCommitErrors(t *testing.T) {
	db := &fakeDB{beginErr: errors.New("no connection")}
	err := NewTransactionManager(db).Do(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrBeginTx)

	db = &fakeDB{tx: &fakeTx{commitErr: errors.New("could not serialize")}}
	err = NewTransactionManager(db).Do(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrCommitTx)
}
