package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smc"

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBConnections   *prometheus.GaugeVec

	BookingOperations *prometheus.CounterVec
	CancellationFees  *prometheus.CounterVec
}

// New создает метрики и регистрирует их в реестре по умолчанию
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer создает метрики в указанном реестре (используется в тестах)
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Количество HTTP запросов",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "Длительность обработки HTTP запросов",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "db_query_duration_seconds",
			Help:        "Длительность запросов к базе данных",
			ConstLabels: labels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation", "status"}),

		DBConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_connections",
			Help:        "Состояние пула соединений с базой данных",
			ConstLabels: labels,
		}, []string{"state"}),

		BookingOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "booking_operations_total",
			Help:        "Результаты операций с записями (create, cancel, edit)",
			ConstLabels: labels,
		}, []string{"operation", "outcome"}),

		CancellationFees: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cancellation_fees_total",
			Help:        "Сумма начисленных штрафов за отмену",
			ConstLabels: labels,
		}, []string{"tier"}),
	}
}

// ObserveBooking учитывает результат операции с записью
func (m *Metrics) ObserveBooking(operation, outcome string) {
	m.BookingOperations.WithLabelValues(operation, outcome).Inc()
}

// ObserveCancellationFee учитывает начисленный штраф за отмену
func (m *Metrics) ObserveCancellationFee(fee float64, free bool) {
	tier := "paid"
	if free {
		tier = "free"
	}
	m.CancellationFees.WithLabelValues(tier).Add(fee)
}

// Nop реализация без сбора метрик (метрики выключены в конфиге)
type Nop struct{}

func (Nop) ObserveBooking(string, string)        {}
func (Nop) ObserveCancellationFee(float64, bool) {}
