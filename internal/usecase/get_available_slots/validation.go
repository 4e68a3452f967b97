package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SchoolID <= 0 {
		return fmt.Errorf("%w: schoolID must be positive", ErrInvalidInput)
	}

	if req.TeacherID <= 0 {
		return fmt.Errorf("%w: teacherID must be positive", ErrInvalidInput)
	}

	if req.StudentID != nil && *req.StudentID <= 0 {
		return fmt.Errorf("%w: studentID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes < domain.MinSessionDurationMinutes || req.DurationMinutes > domain.MaxSessionDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSessionDurationMinutes, domain.MaxSessionDurationMinutes)
	}

	if !req.ClassType.IsValid() {
		return fmt.Errorf("%w: unknown class type %q", ErrInvalidInput, req.ClassType)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня в таймзоне школы
func isDateInPast(date, now time.Time, loc *time.Location) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	localNow := now.In(loc)
	nowOnly := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
	return dateOnly.Before(nowOnly)
}
