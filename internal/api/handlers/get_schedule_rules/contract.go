package get_schedule_rules

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/service/rules/models"
)

type RulesService interface {
	GetResolved(ctx context.Context, req *models.GetResolvedRequest) (*models.ResolvedRulesResponse, error)
	GetAllBySchool(ctx context.Context, schoolID, userID int64) (*models.OverrideListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
