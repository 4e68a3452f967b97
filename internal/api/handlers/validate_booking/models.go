package validate_booking

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	validateBooking "github.com/m04kA/TMS-SchedulingService/internal/usecase/validate_booking"
	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// ValidateBookingRequest HTTP request model
type ValidateBookingRequest struct {
	SchoolID   int64   `json:"schoolId"`
	TeacherID  int64   `json:"teacherId"`
	StudentIDs []int64 `json:"studentIds"`
	Date       string  `json:"date"`      // "2026-09-01"
	StartTime  string  `json:"startTime"` // "14:00"
	EndTime    string  `json:"endTime"`   // "15:00"
	ClassType  string  `json:"classType"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ValidateBookingRequest) ToUseCaseRequest(userID int64) (*validateBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &validateBooking.Request{
		UserID:     userID,
		SchoolID:   r.SchoolID,
		TeacherID:  r.TeacherID,
		StudentIDs: r.StudentIDs,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		ClassType:  domain.ClassType(r.ClassType),
	}, nil
}
