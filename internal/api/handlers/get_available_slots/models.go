package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/TMS-SchedulingService/internal/usecase/get_available_slots"
)

// ToUseCaseRequest собирает модель use case из path и query параметров
func ToUseCaseRequest(
	userID, schoolID, teacherID int64,
	dateStr, durationStr, classTypeStr, studentIDStr string,
) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	duration, err := strconv.Atoi(durationStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		UserID:          userID,
		SchoolID:        schoolID,
		TeacherID:       teacherID,
		Date:            date,
		DurationMinutes: duration,
		ClassType:       domain.ClassType(classTypeStr),
	}

	if studentIDStr != "" {
		studentID, err := strconv.ParseInt(studentIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StudentID = &studentID
	}

	return req, nil
}
