package cancel_session

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/service/sessions/models"
)

type SessionService interface {
	Cancel(ctx context.Context, req *models.CancelSessionRequest) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
