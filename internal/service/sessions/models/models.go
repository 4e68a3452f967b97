package models

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// Request модели

// CancelSessionRequest запрос на отмену сессии
type CancelSessionRequest struct {
	SessionID int64   `json:"sessionId"`
	UserID    int64   `json:"userId"`
	Reason    *string `json:"reason,omitempty"`
}

// ListByTeacherRequest запрос на список сессий преподавателя
type ListByTeacherRequest struct {
	TeacherID       int64                 `json:"teacherId"`
	SchoolID        *int64                `json:"schoolId,omitempty"`
	StartDate       *time.Time            `json:"startDate,omitempty"`
	EndDate         *time.Time            `json:"endDate,omitempty"`
	Status          *domain.SessionStatus `json:"status,omitempty"`
	IncludeInactive bool                  `json:"includeInactive"`
}

// ToDomainFilter конвертирует запрос в доменный фильтр
func (r *ListByTeacherRequest) ToDomainFilter() domain.TeacherSessionsFilter {
	return domain.TeacherSessionsFilter{
		TeacherID:       r.TeacherID,
		SchoolID:        r.SchoolID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Status:          r.Status,
		IncludeInactive: r.IncludeInactive,
	}
}

// Response модели

// SessionResponse сессия занятия
type SessionResponse struct {
	ID         int64   `json:"id"`
	TeacherID  int64   `json:"teacherId"`
	SchoolID   int64   `json:"schoolId"`
	StudentIDs []int64 `json:"studentIds"`

	Date      string `json:"date"`      // YYYY-MM-DD
	StartTime string `json:"startTime"` // HH:MM
	EndTime   string `json:"endTime"`   // HH:MM

	ClassType domain.ClassType     `json:"classType"`
	Status    domain.SessionStatus `json:"status"`

	Notes              *string    `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionListResponse список сессий
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// FromDomainSession конвертирует domain модель в DTO
func FromDomainSession(s *domain.Session) *SessionResponse {
	if s == nil {
		return nil
	}

	return &SessionResponse{
		ID:                 s.ID,
		TeacherID:          s.TeacherID,
		SchoolID:           s.SchoolID,
		StudentIDs:         s.StudentIDs,
		Date:               s.Date.Format(domain.DateFormat),
		StartTime:          s.StartTime.String(),
		EndTime:            s.EndTime.String(),
		ClassType:          s.ClassType,
		Status:             s.Status,
		Notes:              s.Notes,
		CancellationReason: s.CancellationReason,
		CancelledAt:        s.CancelledAt,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// FromDomainSessionList конвертирует список domain моделей в DTO
func FromDomainSessionList(sessions []*domain.Session) *SessionListResponse {
	resp := &SessionListResponse{
		Sessions: make([]SessionResponse, 0, len(sessions)),
	}

	for _, session := range sessions {
		if dto := FromDomainSession(session); dto != nil {
			resp.Sessions = append(resp.Sessions, *dto)
		}
	}

	return resp
}
