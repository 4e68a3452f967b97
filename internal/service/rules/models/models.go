package models

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// Request модели

// GetResolvedRequest запрос на получение эффективного набора правил
type GetResolvedRequest struct {
	SchoolID  int64             `json:"schoolId"`
	TeacherID *int64            `json:"teacherId,omitempty"`
	ClassType *domain.ClassType `json:"classType,omitempty"`
}

// UpsertOverrideRequest запрос на создание/обновление слоя переопределений.
// Nil-поля слоя означают "не переопределено" и проваливаются на уровень ниже.
type UpsertOverrideRequest struct {
	UserID    int64             `json:"userId"`
	SchoolID  int64             `json:"schoolId"`
	TeacherID *int64            `json:"teacherId,omitempty"`
	ClassType *domain.ClassType `json:"classType,omitempty"`

	MinimumNoticeMinutes *int `json:"minimumNoticeMinutes,omitempty"`
	BufferMinutes        *int `json:"bufferMinutes,omitempty"`
	DailyBookingLimit    *int `json:"dailyBookingLimit,omitempty"`
	WeeklyBookingLimit   *int `json:"weeklyBookingLimit,omitempty"`
}

// ToDomainOverride конвертирует запрос в domain модель
func (r *UpsertOverrideRequest) ToDomainOverride() *domain.RuleOverride {
	return &domain.RuleOverride{
		SchoolID:  r.SchoolID,
		TeacherID: r.TeacherID,
		ClassType: r.ClassType,
		Layer: domain.RuleOverrideLayer{
			MinimumNoticeMinutes: r.MinimumNoticeMinutes,
			BufferMinutes:        r.BufferMinutes,
			DailyBookingLimit:    r.DailyBookingLimit,
			WeeklyBookingLimit:   r.WeeklyBookingLimit,
		},
	}
}

// Response модели

// ResolvedRulesResponse эффективный набор правил после разрешения иерархии
type ResolvedRulesResponse struct {
	SchoolID  int64             `json:"schoolId"`
	TeacherID *int64            `json:"teacherId,omitempty"`
	ClassType *domain.ClassType `json:"classType,omitempty"`

	MinimumNoticeMinutes int `json:"minimumNoticeMinutes"`
	BufferMinutes        int `json:"bufferMinutes"`
	// 0 = без ограничений
	DailyBookingLimit  int `json:"dailyBookingLimit"`
	WeeklyBookingLimit int `json:"weeklyBookingLimit"`
}

// OverrideResponse сохраненный слой переопределений
type OverrideResponse struct {
	ID        int64             `json:"id"`
	SchoolID  int64             `json:"schoolId"`
	TeacherID *int64            `json:"teacherId,omitempty"`
	ClassType *domain.ClassType `json:"classType,omitempty"`

	MinimumNoticeMinutes *int `json:"minimumNoticeMinutes,omitempty"`
	BufferMinutes        *int `json:"bufferMinutes,omitempty"`
	DailyBookingLimit    *int `json:"dailyBookingLimit,omitempty"`
	WeeklyBookingLimit   *int `json:"weeklyBookingLimit,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OverrideListResponse список слоев переопределений школы
type OverrideListResponse struct {
	Overrides []OverrideResponse `json:"overrides"`
}

// FromDomainOverride конвертирует domain модель в DTO
func FromDomainOverride(o *domain.RuleOverride) *OverrideResponse {
	if o == nil {
		return nil
	}

	return &OverrideResponse{
		ID:                   o.ID,
		SchoolID:             o.SchoolID,
		TeacherID:            o.TeacherID,
		ClassType:            o.ClassType,
		MinimumNoticeMinutes: o.Layer.MinimumNoticeMinutes,
		BufferMinutes:        o.Layer.BufferMinutes,
		DailyBookingLimit:    o.Layer.DailyBookingLimit,
		WeeklyBookingLimit:   o.Layer.WeeklyBookingLimit,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// FromDomainOverrideList конвертирует список domain моделей в DTO
func FromDomainOverrideList(overrides []*domain.RuleOverride) *OverrideListResponse {
	resp := &OverrideListResponse{
		Overrides: make([]OverrideResponse, 0, len(overrides)),
	}

	for _, override := range overrides {
		if dto := FromDomainOverride(override); dto != nil {
			resp.Overrides = append(resp.Overrides, *dto)
		}
	}

	return resp
}
