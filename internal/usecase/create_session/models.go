package create_session

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// Request модель запроса на создание сессии
type Request struct {
	UserID     int64            // Кто бронирует (для логирования и аудита)
	SchoolID   int64            // ID школы
	TeacherID  int64            // ID преподавателя
	StudentIDs []int64          // Участники занятия
	Date       time.Time        // Дата занятия (без времени)
	StartTime  types.TimeString // Начало, HH:MM в таймзоне школы
	EndTime    types.TimeString // Конец, HH:MM; меньше начала = переход через полночь
	ClassType  domain.ClassType // Тип занятия
	Notes      *string          // Заметки к занятию
}

// Response модель ответа с созданной сессией
type Response struct {
	ID         int64   `json:"id"`
	TeacherID  int64   `json:"teacherId"`
	SchoolID   int64   `json:"schoolId"`
	StudentIDs []int64 `json:"studentIds"`

	Date      string `json:"date"`      // YYYY-MM-DD
	StartTime string `json:"startTime"` // HH:MM
	EndTime   string `json:"endTime"`   // HH:MM

	ClassType domain.ClassType     `json:"classType"`
	Status    domain.SessionStatus `json:"status"`

	Notes *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// FromDomainSession конвертирует domain модель в DTO ответа
func FromDomainSession(s *domain.Session) *Response {
	return &Response{
		ID:         s.ID,
		TeacherID:  s.TeacherID,
		SchoolID:   s.SchoolID,
		StudentIDs: s.StudentIDs,
		Date:       s.Date.Format(domain.DateFormat),
		StartTime:  s.StartTime.String(),
		EndTime:    s.EndTime.String(),
		ClassType:  s.ClassType,
		Status:     s.Status,
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt,
	}
}
