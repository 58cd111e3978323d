package edit_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/usecase/common"
)

// Request модель запроса на изменение записи
// Незаданные поля остаются прежними
type Request struct {
	AppointmentID  int64
	ScheduledStart *time.Time // Новое время начала
	ProfessionalID *int64     // Новый специалист
	ServiceIDs     []int64    // Новый состав услуг (nil - без изменений)
}

// Response модель ответа с измененной записью
type Response = common.AppointmentResult

// ServiceItem услуга в составе записи
type ServiceItem = common.ServiceItem
