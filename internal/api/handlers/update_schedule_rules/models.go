package update_schedule_rules

import (
	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/service/rules/models"
)

// UpsertRulesRequest HTTP request model.
// Nil-поля означают "не переопределено" и проваливаются на уровень ниже.
type UpsertRulesRequest struct {
	TeacherID *int64  `json:"teacherId,omitempty"`
	ClassType *string `json:"classType,omitempty"`

	MinimumNoticeMinutes *int `json:"minimumNoticeMinutes,omitempty"`
	BufferMinutes        *int `json:"bufferMinutes,omitempty"`
	DailyBookingLimit    *int `json:"dailyBookingLimit,omitempty"`
	WeeklyBookingLimit   *int `json:"weeklyBookingLimit,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpsertRulesRequest) ToServiceRequest(schoolID, userID int64) *models.UpsertOverrideRequest {
	req := &models.UpsertOverrideRequest{
		UserID:               userID,
		SchoolID:             schoolID,
		TeacherID:            r.TeacherID,
		MinimumNoticeMinutes: r.MinimumNoticeMinutes,
		BufferMinutes:        r.BufferMinutes,
		DailyBookingLimit:    r.DailyBookingLimit,
		WeeklyBookingLimit:   r.WeeklyBookingLimit,
	}

	if r.ClassType != nil {
		classType := domain.ClassType(*r.ClassType)
		req.ClassType = &classType
	}

	return req
}
