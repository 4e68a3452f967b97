package domain

// Default rule values, used when no override layer sets them
const (
	DefaultMinimumNoticeMinutes = 120 // 2 hours
	DefaultBufferMinutes        = 15
	DefaultDailyBookingLimit    = 8
	DefaultWeeklyBookingLimit   = 40
)

// Built-in class type defaults.
// Group classes need a longer reset between sessions; trial classes are
// deliberately easy to book: short buffer and relaxed notice.
const (
	DefaultGroupBufferMinutes        = 20
	DefaultTrialBufferMinutes        = 10
	DefaultTrialMinimumNoticeMinutes = 30
)

// Business validation constants
const (
	MinSessionDurationMinutes = 15
	MaxSessionDurationMinutes = 480 // 8 hours

	MinNoticeMinutes = 0
	MaxNoticeMinutes = 10080 // 1 week

	MinBufferMinutes = 0
	MaxBufferMinutes = 240 // 4 hours

	MinBookingLimit = 0 // 0 = unlimited
	MaxBookingLimit = 100

	MaxStudentsPerSession       = 20
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих время в расписании.
// Используется при выборке сессий для проверки конфликтов.
var InactiveStatuses = []SessionStatus{
	StatusCancelledByStudent,
	StatusCancelledByTeacher,
	StatusNoShow,
}

// ActiveStatuses список статусов, занимающих время в расписании
var ActiveStatuses = []SessionStatus{
	StatusScheduled,
	StatusCompleted,
}

// DefaultClassTypeLayer returns the built-in override layer for a class
// type. Applied at class-type precedence when the school has no stored
// class-type override. Individual classes have no built-in layer.
func DefaultClassTypeLayer(ct ClassType) RuleOverrideLayer {
	switch ct {
	case ClassTypeGroup:
		buffer := DefaultGroupBufferMinutes
		return RuleOverrideLayer{BufferMinutes: &buffer}
	case ClassTypeTrial:
		buffer := DefaultTrialBufferMinutes
		notice := DefaultTrialMinimumNoticeMinutes
		return RuleOverrideLayer{BufferMinutes: &buffer, MinimumNoticeMinutes: &notice}
	default:
		return RuleOverrideLayer{}
	}
}
