package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/usecase/common"
)

// Request модель запроса на создание записи
type Request struct {
	ClientID       int64     // ID клиента
	ProfessionalID int64     // ID специалиста
	ServiceIDs     []int64   // Услуги в порядке выполнения
	ScheduledStart time.Time // Время начала первой услуги, с любым смещением
	Notes          *string   // Заметки (опционально)
}

// Response модель ответа с созданной записью
type Response = common.AppointmentResult

// ServiceItem услуга в составе записи
type ServiceItem = common.ServiceItem
