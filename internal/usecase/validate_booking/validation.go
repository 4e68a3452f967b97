package validate_booking

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

	return nil
}

// dedupeSessions объединяет выборки сессий, убирая дубли по ID.
// Сессия преподавателя со студентом-участником попадает в обе выборки.
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
