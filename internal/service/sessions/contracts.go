package sessions

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	Cancel(ctx context.Context, id int64, status domain.SessionStatus, reason *string) (*domain.Session, error)
	GetByTeacherWithFilter(ctx context.Context, filter domain.TeacherSessionsFilter) ([]*domain.Session, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
