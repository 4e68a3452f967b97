package validate_booking

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// Request модель запроса на проверку кандидата без бронирования
type Request struct {
	UserID     int64            // ID пользователя (для логирования)
	SchoolID   int64            // ID школы
	TeacherID  int64            // ID преподавателя
	StudentIDs []int64          // Участники занятия
	Date       time.Time        // Дата занятия (без времени)
	StartTime  types.TimeString // Начало, HH:MM в таймзоне школы
	EndTime    types.TimeString // Конец, HH:MM; меньше начала = переход через полночь
	ClassType  domain.ClassType // Тип занятия
}

// Response результат проверки. Конфликт - это ожидаемый исход,
// а не ошибка: HTTP слой отдает его с кодом 200.
type Response struct {
	Valid    bool               `json:"valid"`
	Conflict *ConflictInfo      `json:"conflict,omitempty"`
	Rules    *ResolvedRulesInfo `json:"appliedRules,omitempty"`
}

// ConflictInfo структурированное описание найденного конфликта
type ConflictInfo struct {
	Type    domain.ConflictType `json:"type"`
	Message string              `json:"message,omitempty"`

	ConflictingSessionID *int64     `json:"conflictingSessionId,omitempty"`
	ConflictingStudentID *int64     `json:"conflictingStudentId,omitempty"`
	ConflictingStart     *time.Time `json:"conflictingStart,omitempty"`
	ConflictingEnd       *time.Time `json:"conflictingEnd,omitempty"`

	RequiredBufferMinutes *int       `json:"requiredBufferMinutes,omitempty"`
	RequiredNoticeMinutes *int       `json:"requiredNoticeMinutes,omitempty"`
	EarliestAllowedStart  *time.Time `json:"earliestAllowedStart,omitempty"`

	Limit        *int `json:"limit,omitempty"`
	CurrentCount *int `json:"currentCount,omitempty"`
}

// ResolvedRulesInfo правила, примененные к кандидату
type ResolvedRulesInfo struct {
	MinimumNoticeMinutes int `json:"minimumNoticeMinutes"`
	BufferMinutes        int `json:"bufferMinutes"`
	DailyBookingLimit    int `json:"dailyBookingLimit"`
	WeeklyBookingLimit   int `json:"weeklyBookingLimit"`
}

// FromConflictReport конвертирует отчет движка в DTO ответа
func FromConflictReport(report domain.ConflictReport, rules domain.SchedulingRuleSet) *Response {
	resp := &Response{
		Valid: !report.HasConflict,
		Rules: &ResolvedRulesInfo{
			MinimumNoticeMinutes: rules.MinimumNoticeMinutes,
			BufferMinutes:        rules.BufferMinutes,
			DailyBookingLimit:    rules.DailyBookingLimit,
			WeeklyBookingLimit:   rules.WeeklyBookingLimit,
		},
	}

	if !report.HasConflict {
		return resp
	}

	info := &ConflictInfo{Type: report.Type}
	if report.Detail != nil {
		info.Message = report.Detail.Message
		info.ConflictingSessionID = report.Detail.ConflictingSessionID
		info.ConflictingStudentID = report.Detail.ConflictingStudentID
		info.ConflictingStart = report.Detail.ConflictingStart
		info.ConflictingEnd = report.Detail.ConflictingEnd
		info.RequiredBufferMinutes = report.Detail.RequiredBufferMinutes
		info.RequiredNoticeMinutes = report.Detail.RequiredNoticeMinutes
		info.EarliestAllowedStart = report.Detail.EarliestAllowedStart
		info.Limit = report.Detail.Limit
		info.CurrentCount = report.Detail.CurrentCount
	}
	resp.Conflict = info

	return resp
}
