package domain

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// SessionStatus represents the status of a tutoring session
type SessionStatus string

const (
	StatusScheduled          SessionStatus = "scheduled"
	StatusCompleted          SessionStatus = "completed"
	StatusCancelledByStudent SessionStatus = "cancelled_by_student"
	StatusCancelledByTeacher SessionStatus = "cancelled_by_teacher"
	StatusNoShow             SessionStatus = "no_show"
)

// ClassType represents the kind of tutoring session
type ClassType string

const (
	ClassTypeIndividual ClassType = "individual"
	ClassTypeGroup      ClassType = "group"
	ClassTypeTrial      ClassType = "trial"
)

// IsValid reports whether the class type is one of the known variants
func (ct ClassType) IsValid() bool {
	switch ct {
	case ClassTypeIndividual, ClassTypeGroup, ClassTypeTrial:
		return true
	}
	return false
}

// Session represents a tutoring session: a time window assigned to one
// teacher and one or more students within a school.
//
// StartTime/EndTime are wall-clock times on Date in the school's timezone.
// EndTime numerically less than StartTime means the session crosses
// midnight into the following calendar day.
type Session struct {
	ID         int64
	TeacherID  int64
	SchoolID   int64
	StudentIDs []int64
	Date       time.Time // calendar date, time part ignored
	StartTime  types.TimeString
	EndTime    types.TimeString
	ClassType  ClassType
	Status     SessionStatus

	Notes *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the session still occupies its time window
func (s *Session) IsActive() bool {
	return s.Status != StatusCancelledByStudent &&
		s.Status != StatusCancelledByTeacher &&
		s.Status != StatusNoShow
}

// CanBeCancelled returns true if the session can still be cancelled
func (s *Session) CanBeCancelled() bool {
	return s.Status == StatusScheduled
}

// HasStudent reports whether the given student takes part in the session
func (s *Session) HasStudent(studentID int64) bool {
	for _, id := range s.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// CrossesMidnight reports whether the session spills into the next calendar day
func (s *Session) CrossesMidnight() bool {
	return !s.EndTime.IsAfter(s.StartTime)
}

// TeacherSessionsFilter фильтр для выборки сессий преподавателя
type TeacherSessionsFilter struct {
	TeacherID       int64          // Обязательный параметр
	SchoolID        *int64         // Фильтр по школе (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *SessionStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные и no-show сессии
}
