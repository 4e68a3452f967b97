package schoolservice

import "time"

// School модель школы из SchoolService
type School struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Timezone string  `json:"timezone"` // IANA, например "Europe/Moscow"
	AdminIDs []int64 `json:"admin_ids"`
}

// TimeWindow рабочее окно в пределах дня, границы в формате HH:MM
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayAvailability доступность преподавателя в конкретный день недели
type DayAvailability struct {
	IsAvailable bool         `json:"is_available"`
	Windows     []TimeWindow `json:"windows"`
}

// WeeklyAvailability рабочие часы преподавателя по дням недели
type WeeklyAvailability struct {
	Monday    DayAvailability `json:"monday"`
	Tuesday   DayAvailability `json:"tuesday"`
	Wednesday DayAvailability `json:"wednesday"`
	Thursday  DayAvailability `json:"thursday"`
	Friday    DayAvailability `json:"friday"`
	Saturday  DayAvailability `json:"saturday"`
	Sunday    DayAvailability `json:"sunday"`
}

// TeacherSchedule рабочее расписание преподавателя в школе
type TeacherSchedule struct {
	TeacherID    int64              `json:"teacher_id"`
	SchoolID     int64              `json:"school_id"`
	WorkingHours WeeklyAvailability `json:"working_hours"`
}

// ForWeekday возвращает доступность преподавателя в указанный день недели
func (ts *TeacherSchedule) ForWeekday(weekday time.Weekday) DayAvailability {
	switch weekday {
	case time.Monday:
		return ts.WorkingHours.Monday
	case time.Tuesday:
		return ts.WorkingHours.Tuesday
	case time.Wednesday:
		return ts.WorkingHours.Wednesday
	case time.Thursday:
		return ts.WorkingHours.Thursday
	case time.Friday:
		return ts.WorkingHours.Friday
	case time.Saturday:
		return ts.WorkingHours.Saturday
	case time.Sunday:
		return ts.WorkingHours.Sunday
	default:
		return DayAvailability{IsAvailable: false}
	}
}

// ErrorResponse модель ошибки от SchoolService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
