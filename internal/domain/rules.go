package domain

import "time"

// SchedulingRuleSet is the effective rule set for a school/teacher/class-type
// combination after override resolution. It is a derived value computed per
// request - never persisted on its own.
//
// A zero DailyBookingLimit or WeeklyBookingLimit means unlimited.
type SchedulingRuleSet struct {
	MinimumNoticeMinutes int
	BufferMinutes        int
	DailyBookingLimit    int
	WeeklyBookingLimit   int
}

// HasDailyLimit returns true if the daily booking cap is enforced
func (r SchedulingRuleSet) HasDailyLimit() bool {
	return r.DailyBookingLimit > 0
}

// HasWeeklyLimit returns true if the weekly booking cap is enforced
func (r SchedulingRuleSet) HasWeeklyLimit() bool {
	return r.WeeklyBookingLimit > 0
}

// RuleOverrideLayer is one level of the configuration hierarchy
// (school, teacher, or class type). Nil fields fall through to the
// next less specific layer.
type RuleOverrideLayer struct {
	MinimumNoticeMinutes *int
	BufferMinutes        *int
	DailyBookingLimit    *int
	WeeklyBookingLimit   *int
}

// IsEmpty returns true if the layer overrides nothing
func (l RuleOverrideLayer) IsEmpty() bool {
	return l.MinimumNoticeMinutes == nil &&
		l.BufferMinutes == nil &&
		l.DailyBookingLimit == nil &&
		l.WeeklyBookingLimit == nil
}

// ApplyTo overlays the layer's present fields onto the rule set
func (l RuleOverrideLayer) ApplyTo(rules *SchedulingRuleSet) {
	if l.MinimumNoticeMinutes != nil {
		rules.MinimumNoticeMinutes = *l.MinimumNoticeMinutes
	}
	if l.BufferMinutes != nil {
		rules.BufferMinutes = *l.BufferMinutes
	}
	if l.DailyBookingLimit != nil {
		rules.DailyBookingLimit = *l.DailyBookingLimit
	}
	if l.WeeklyBookingLimit != nil {
		rules.WeeklyBookingLimit = *l.WeeklyBookingLimit
	}
}

// RuleOverride is a stored override layer record.
// Scope hierarchy:
// 1. Class type under a specific teacher (teacher_id, class_type)
// 2. Class type school-wide (NULL, class_type)
// 3. Teacher-wide (teacher_id, NULL)
// 4. School defaults (NULL, NULL)
type RuleOverride struct {
	ID        int64
	SchoolID  int64
	TeacherID *int64     // NULL = applies to all teachers
	ClassType *ClassType // NULL = applies to all class types
	Layer     RuleOverrideLayer
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSchoolDefaults returns true for the school-wide baseline record
func (o *RuleOverride) IsSchoolDefaults() bool {
	return o.TeacherID == nil && o.ClassType == nil
}

// IsTeacherOverride returns true for a per-teacher record (all class types)
func (o *RuleOverride) IsTeacherOverride() bool {
	return o.TeacherID != nil && o.ClassType == nil
}

// IsClassTypeOverride returns true for a class-type record (school-wide or per-teacher)
func (o *RuleOverride) IsClassTypeOverride() bool {
	return o.ClassType != nil
}
