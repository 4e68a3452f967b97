package get_session

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/service/sessions/models"
)

type SessionService interface {
	GetByID(ctx context.Context, sessionID, userID int64) (*models.SessionResponse, error)
	ListByTeacher(ctx context.Context, req *models.ListByTeacherRequest) (*models.SessionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
