package create_session

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	createSession "github.com/m04kA/TMS-SchedulingService/internal/usecase/create_session"
	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// CreateSessionRequest HTTP request model
type CreateSessionRequest struct {
	SchoolID   int64   `json:"schoolId"`
	TeacherID  int64   `json:"teacherId"`
	StudentIDs []int64 `json:"studentIds"`
	Date       string  `json:"date"`      // "2026-09-01"
	StartTime  string  `json:"startTime"` // "14:00"
	EndTime    string  `json:"endTime"`   // "15:00"
	ClassType  string  `json:"classType"`
	Notes      *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSessionRequest) ToUseCaseRequest(userID int64) (*createSession.Request, error) {
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

	return &createSession.Request{
		UserID:     userID,
		SchoolID:   r.SchoolID,
		TeacherID:  r.TeacherID,
		StudentIDs: r.StudentIDs,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		ClassType:  domain.ClassType(r.ClassType),
		Notes:      r.Notes,
	}, nil
}
