package cancel_appointment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на отмену записи
type Request struct {
	AppointmentID int64 // ID записи
	ClientID      int64 // ID клиента, запросившего отмену
}

// Response модель ответа с результатом отмены
type Response struct {
	AppointmentID int64
	Fee           decimal.Decimal // Штраф за отмену
	WasFree       bool            // Отмена без штрафа
	CancelledAt   time.Time
}
