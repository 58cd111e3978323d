package cancel_appointment

import (
	"time"

	cancelAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	ClientID int64 `json:"clientId"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelAppointmentRequest) ToUseCaseRequest(appointmentID int64) *cancelAppointment.Request {
	return &cancelAppointment.Request{
		AppointmentID: appointmentID,
		ClientID:      r.ClientID,
	}
}

// CancelAppointmentResponse HTTP response model
type CancelAppointmentResponse struct {
	AppointmentID int64  `json:"appointmentId"`
	Fee           string `json:"fee"`
	WasFree       bool   `json:"wasFree"`
	CancelledAt   string `json:"cancelledAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelAppointmentResponse {
	return &CancelAppointmentResponse{
		AppointmentID: resp.AppointmentID,
		Fee:           resp.Fee.StringFixed(2),
		WasFree:       resp.WasFree,
		CancelledAt:   resp.CancelledAt.Format(time.RFC3339),
	}
}
