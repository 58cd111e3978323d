package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date           string          `json:"date"`
	ProfessionalID int64           `json:"professionalId"`
	Slots          []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Time  string `json:"time"` // "09:30"
	Start string `json:"start"`
	End   string `json:"end"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Time:  slot.Time,
			Start: slot.Start.Format(time.RFC3339),
			End:   slot.End.Format(time.RFC3339),
		}
	}

	return &AvailableSlotsResponse{
		Date:           resp.Date.Format(domain.DateFormat),
		ProfessionalID: resp.ProfessionalID,
		Slots:          slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
// Дата календарная, полночь дня в поясе сервиса определяет use case
func ToUseCaseRequest(professionalID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, time.Local)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ProfessionalID: professionalID,
		Date:           date,
	}, nil
}
