package domain

import "time"

// ConflictType classifies why a candidate session cannot be booked
type ConflictType string

const (
	ConflictNone                 ConflictType = "none"
	ConflictStudentDoubleBooking ConflictType = "student_double_booking"
	ConflictTeacherDoubleBooking ConflictType = "teacher_double_booking"
	ConflictBufferViolation      ConflictType = "buffer_violation"
	ConflictNoticeViolation      ConflictType = "notice_violation"
	ConflictDailyLimitExceeded   ConflictType = "daily_limit_exceeded"
	ConflictWeeklyLimitExceeded  ConflictType = "weekly_limit_exceeded"
	ConflictInvalidTimeBoundary  ConflictType = "invalid_time_boundary"
)

// ConflictDetail carries enough structure for the caller to build a
// user-facing message without re-deriving the cause. Only the fields
// relevant to the conflict type are set.
type ConflictDetail struct {
	// Ссылка на конфликтующую сессию (double booking / buffer violation)
	ConflictingSessionID *int64
	ConflictingStudentID *int64
	ConflictingStart     *time.Time
	ConflictingEnd       *time.Time

	// Буфер (buffer violation)
	RequiredBufferMinutes *int

	// Минимальное уведомление (notice violation)
	RequiredNoticeMinutes *int
	EarliestAllowedStart  *time.Time

	// Лимиты бронирований (daily/weekly limit)
	Limit        *int
	CurrentCount *int

	Message string
}

// ConflictReport is the engine's answer to "can this candidate be booked".
// It is a reported outcome, not an error: every rejection path is an
// expected, first-class result.
type ConflictReport struct {
	HasConflict bool
	Type        ConflictType
	Detail      *ConflictDetail
}

// NoConflict returns a clean report
func NoConflict() ConflictReport {
	return ConflictReport{HasConflict: false, Type: ConflictNone}
}

// NewConflict returns a report for the given violation
func NewConflict(t ConflictType, detail *ConflictDetail) ConflictReport {
	return ConflictReport{HasConflict: true, Type: t, Detail: detail}
}
