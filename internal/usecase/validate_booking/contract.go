package validate_booking

import (
	"context"
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/integrations/schoolservice"
	"github.com/m04kA/TMS-SchedulingService/internal/service/conflicts"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetForTeacherInRange(ctx context.Context, teacherID int64, from, to time.Time) ([]*domain.Session, error)
	GetForStudentsInRange(ctx context.Context, studentIDs []int64, from, to time.Time) ([]*domain.Session, error)
	CountActiveForTeacherOnDate(ctx context.Context, teacherID, schoolID int64, date time.Time) (int, error)
	CountActiveForTeacherBetween(ctx context.Context, teacherID, schoolID int64, from, to time.Time) (int, error)
}

// RulesRepository интерфейс репозитория правил планирования
type RulesRepository interface {
	GetLayers(ctx context.Context, schoolID int64, teacherID *int64, classType *domain.ClassType) (school, teacher, class *domain.RuleOverrideLayer, err error)
}

// ConflictChecker интерфейс сервиса проверки конфликтов
type ConflictChecker interface {
	CheckBooking(p conflicts.CheckParams) domain.ConflictReport
}

// SchoolServiceClient интерфейс клиента для SchoolService
type SchoolServiceClient interface {
	GetSchool(ctx context.Context, schoolID int64) (*schoolservice.School, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
