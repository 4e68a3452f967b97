package rules

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/integrations/schoolservice"
)

// RulesRepository интерфейс репозитория слоев переопределений правил
type RulesRepository interface {
	// GetLayers возвращает три слоя иерархии для комбинации
	// школа/преподаватель/тип занятия; отсутствующие слои - nil
	GetLayers(ctx context.Context, schoolID int64, teacherID *int64, classType *domain.ClassType) (school, teacher, classTypeLayer *domain.RuleOverrideLayer, err error)
	Upsert(ctx context.Context, override *domain.RuleOverride) (*domain.RuleOverride, error)
	DeleteByKey(ctx context.Context, schoolID int64, teacherID *int64, classType *domain.ClassType) error
	GetAllBySchool(ctx context.Context, schoolID int64) ([]*domain.RuleOverride, error)
}

// SchoolServiceClient интерфейс клиента SchoolService
type SchoolServiceClient interface {
	GetSchool(ctx context.Context, schoolID int64) (*schoolservice.School, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
