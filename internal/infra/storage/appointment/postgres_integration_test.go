//go:build integration

package appointment_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/scheduling"
	cancelAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	editAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/edit_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// Запуск: APP_TEST_DATABASE_DSN="postgres://..." go test -tags integration ./internal/infra/storage/appointment/
const envTestDSN = "APP_TEST_DATABASE_DSN"

const workers = 12

type env struct {
	create *createAppointmentUC.UseCase
	cancel *cancelAppointmentUC.UseCase
	edit   *editAppointmentUC.UseCase
	day    time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := os.Getenv(envTestDSN)
	if dsn == "" {
		t.Skipf("%s is not set", envTestDSN)
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(workers * 2)

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "001_init.sql"))
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	_, err = db.Exec(`TRUNCATE appointment_services, appointments, services, professionals, clients RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	_, err = db.Exec(`
		INSERT INTO clients (id, name) VALUES (1, 'Ivan'), (2, 'Olga');
		INSERT INTO professionals (id, name) VALUES (10, 'Anna'), (20, 'Boris');
		INSERT INTO services (id, name, price, duration_minutes) VALUES (100, 'Wash', 15.00, 30), (200, 'Haircut', 40.00, 60);
	`)
	require.NoError(t, err)

	wrapped := dbmetrics.Wrap(db, nil)
	appointments := appointmentRepo.NewRepository(wrapped)
	catalog := catalogRepo.NewRepository(wrapped)
	txMgr := txmanager.NewTransactionManager(wrapped)

	cfg := scheduling.DefaultHoursConfig()
	cfg.Location = time.UTC
	hours, err := scheduling.NewBusinessHours(cfg)
	require.NoError(t, err)
	durations := scheduling.NewDurationResolver(domain.DefaultServiceDurationMinutes)

	log := logger.NewNop()
	rec := metrics.Nop{}
	timeout := 10 * time.Second

	y, m, d := time.Now().UTC().AddDate(0, 0, 2).Date()

	return &env{
		create: createAppointmentUC.NewUseCase(appointments, catalog, hours, durations, txMgr, rec, log, timeout),
		cancel: cancelAppointmentUC.NewUseCase(appointments, txMgr, rec, log, timeout),
		edit:   editAppointmentUC.NewUseCase(appointments, catalog, hours, durations, txMgr, rec, log, timeout),
		day:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func (e *env) at(hour, minute int) time.Time {
	return e.day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// parallel запускает fn в workers горутинах одновременно и собирает ошибки
func parallel(fn func(i int) error) []error {
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}(i)
	}
	close(start)
	wg.Wait()

	return errs
}

// requireOneWinner проверяет, что успешна ровно одна операция, а остальные получили want
func requireOneWinner(t *testing.T, errs []error, want error) {
	t.Helper()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, want)
		assert.NotErrorIs(t, err, domain.ErrTransient)
	}
	assert.Equal(t, 1, succeeded)
}

func TestPostgres_ConcurrentCreates(t *testing.T) {
	e := newEnv(t)

	errs := parallel(func(i int) error {
		_, err := e.create.Execute(context.Background(), &createAppointmentUC.Request{
			ClientID:       1 + int64(i%2),
			ProfessionalID: 10,
			ServiceIDs:     []int64{200},
			ScheduledStart: e.at(10, 30*(i%2)),
		})
		return err
	})

	requireOneWinner(t, errs, domain.ErrTimeConflict)
}

func TestPostgres_ConcurrentCancels(t *testing.T) {
	e := newEnv(t)

	created, err := e.create.Execute(context.Background(), &createAppointmentUC.Request{
		ClientID: 1, ProfessionalID: 10, ServiceIDs: []int64{100}, ScheduledStart: e.at(11, 0),
	})
	require.NoError(t, err)

	errs := parallel(func(int) error {
		_, err := e.cancel.Execute(context.Background(), &cancelAppointmentUC.Request{
			AppointmentID: created.ID,
			ClientID:      1,
		})
		return err
	})

	requireOneWinner(t, errs, domain.ErrAlreadyCancelled)
}

func TestPostgres_EditRacesCreate(t *testing.T) {
	e := newEnv(t)

	// Запись у Boris переносится к Anna на 15:00, одновременно другие клиенты записываются к Anna на 15:00
	moving, err := e.create.Execute(context.Background(), &createAppointmentUC.Request{
		ClientID: 1, ProfessionalID: 20, ServiceIDs: []int64{200}, ScheduledStart: e.at(9, 0),
	})
	require.NoError(t, err)

	errs := parallel(func(i int) error {
		if i == 0 {
			_, err := e.edit.Execute(context.Background(), &editAppointmentUC.Request{
				AppointmentID:  moving.ID,
				ProfessionalID: ptr.Ptr(int64(10)),
				ScheduledStart: ptr.Ptr(e.at(15, 0)),
			})
			return err
		}
		_, err := e.create.Execute(context.Background(), &createAppointmentUC.Request{
			ClientID: 2, ProfessionalID: 10, ServiceIDs: []int64{200}, ScheduledStart: e.at(15, 0),
		})
		return err
	})

	requireOneWinner(t, errs, domain.ErrTimeConflict)
}
