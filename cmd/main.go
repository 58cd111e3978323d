package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	completeAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/complete_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	editAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/edit_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getClientAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_client_appointments"
	listAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/scheduling"
	cancelAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	editAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/edit_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// metricsRecorder доменные метрики (Prometheus или заглушка)
type metricsRecorder interface {
	ObserveBooking(operation, outcome string)
	ObserveCancellationFee(fee float64, free bool)
}

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		recorder         metricsRecorder = metrics.Nop{}
	)
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Без метрик обёртка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = wrappedDB.PingContext(pingCtx)
	cancelPing()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Политики расписания
	hoursCfg, err := cfg.Schedule.Hours()
	if err != nil {
		log.Fatal("Invalid schedule timezone: %v", err)
	}
	hours, err := scheduling.NewBusinessHours(hoursCfg)
	if err != nil {
		log.Fatal("Invalid business hours: %v", err)
	}
	slotGenerator, err := scheduling.NewSlotGenerator(hours, cfg.Schedule.SlotMinutes)
	if err != nil {
		log.Fatal("Invalid slot configuration: %v", err)
	}
	durations := scheduling.NewDurationResolver(cfg.Schedule.DefaultServiceMinutes)
	txTimeout := cfg.Schedule.TransactionTimeout()

	log.Info("Business hours %02d:00-%02d:00 %s, lunch %02d:00-%02d:00, slot %d min, transaction timeout %s",
		cfg.Schedule.OpenHour, cfg.Schedule.CloseHour, hours.Location(), cfg.Schedule.LunchStartHour, cfg.Schedule.LunchEndHour,
		cfg.Schedule.SlotMinutes, txTimeout)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		catalogRepository,
		txMgr,
		recorder,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		hours,
		durations,
		txMgr,
		recorder,
		log,
		txTimeout,
	)

	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(
		appointmentRepository,
		txMgr,
		recorder,
		log,
		txTimeout,
	)

	editAppointmentUseCase := editAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		hours,
		durations,
		txMgr,
		recorder,
		log,
		txTimeout,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		slotGenerator,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	editAppointment := editAppointmentHandler.NewHandler(editAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Проверка живости
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := wrappedDB.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerSecond,
			cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.VisitorTTL)*time.Second,
		)
		go limiter.Run(stopCh)
		api.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Свободные слоты специалиста на дату
	api.HandleFunc("/professionals/{professionalId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Записи ---
	// Создание записи
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Общий список записей постранично
	api.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)

	// Получение записи по ID
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Изменение времени, специалиста или состава услуг
	api.HandleFunc("/appointments/{appointmentId}", editAppointment.Handle).Methods(http.MethodPatch)

	// Отмена записи
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Завершение записи
	api.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPatch)

	// История записей клиента
	api.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик пула и очистку rate limiter
	close(stopCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
