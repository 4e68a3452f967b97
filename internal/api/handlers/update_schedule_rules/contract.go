package update_schedule_rules

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/service/rules/models"
)

type RulesService interface {
	Upsert(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error)
	DeleteByKey(ctx context.Context, req *models.UpsertOverrideRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
