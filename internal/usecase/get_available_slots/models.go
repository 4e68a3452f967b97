package get_available_slots

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID          int64            // ID пользователя (для логирования, не влияет на результат)
	SchoolID        int64            // ID школы
	TeacherID       int64            // ID преподавателя
	StudentID       *int64           // ID студента: если задан, слоты фильтруются по его занятости
	Date            time.Time        // Дата для получения слотов (без времени)
	DurationMinutes int              // Желаемая длительность занятия
	ClassType       domain.ClassType // Тип занятия
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time `json:"date"`
	SchoolID  int64     `json:"schoolId"`
	TeacherID int64     `json:"teacherId"`
	Slots     []Slot    `json:"slots"`
}

// Slot модель доступного окна. Время в таймзоне школы; слот, уходящий
// за полночь, относится к запрошенной дате по своему началу.
type Slot struct {
	StartTime       string `json:"startTime"` // HH:MM
	EndTime         string `json:"endTime"`   // HH:MM
	DurationMinutes int    `json:"durationMinutes"`
}
