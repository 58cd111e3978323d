package get_available_slots

import "time"

// Request модель запроса на получение свободных слотов
type Request struct {
	ProfessionalID int64     // ID специалиста
	Date           time.Time // Дата (время суток не учитывается)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date           time.Time // Дата, на которую запрашивались слоты
	ProfessionalID int64     // ID специалиста
	Slots          []Slot    // Свободные слоты по возрастанию времени (может быть пустым)
}

// Slot свободный слот
type Slot struct {
	Time  string    // Время начала в формате HH:MM
	Start time.Time // Время начала
	End   time.Time // Время окончания слота
}
