package create_session

import (
	"fmt"

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

	if len(req.StudentIDs) == 0 {
		return fmt.Errorf("%w: at least one student is required", ErrInvalidInput)
	}
	if len(req.StudentIDs) > domain.MaxStudentsPerSession {
		return fmt.Errorf("%w: at most %d students per session", ErrInvalidInput, domain.MaxStudentsPerSession)
	}
	for _, id := range req.StudentIDs {
		if id <= 0 {
			return fmt.Errorf("%w: studentIDs must be positive", ErrInvalidInput)
		}
	}

	// Индивидуальные и пробные занятия - ровно один студент
	if req.ClassType != domain.ClassTypeGroup && len(req.StudentIDs) > 1 {
		return fmt.Errorf("%w: %s sessions allow exactly one student", ErrInvalidInput, req.ClassType)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	if !req.ClassType.IsValid() {
		return fmt.Errorf("%w: unknown class type %q", ErrInvalidInput, req.ClassType)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// dedupeSessions объединяет выборки сессий, убирая дубли по ID
func dedupeSessions(groups ...[]*domain.Session) []*domain.Session {
	seen := make(map[int64]struct{})
	result := make([]*domain.Session, 0)

	for _, group := range groups {
		for _, session := range group {
			if _, ok := seen[session.ID]; ok {
				continue
			}
			seen[session.ID] = struct{}{}
			result = append(result, session)
		}
	}

	return result
}

// conflictToError маппит тип конфликта на sentinel ошибку usecase
func conflictToError(report domain.ConflictReport) error {
	switch report.Type {
	case domain.ConflictInvalidTimeBoundary:
		return ErrInvalidTimeBoundary
	case domain.ConflictStudentDoubleBooking:
		return ErrStudentBusy
	case domain.ConflictTeacherDoubleBooking:
		return ErrTeacherBusy
	case domain.ConflictBufferViolation:
		return ErrBufferViolation
	case domain.ConflictNoticeViolation:
		return ErrTooLateToBook
	case domain.ConflictDailyLimitExceeded:
		return ErrDailyLimitReached
	case domain.ConflictWeeklyLimitExceeded:
		return ErrWeeklyLimitReached
	default:
		return nil
	}
}
