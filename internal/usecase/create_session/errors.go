package create_session

import "errors"

var (
	// ErrSchoolNotFound возвращается, когда школа не найдена
	ErrSchoolNotFound = errors.New("school not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidTimeBoundary возвращается для структурно некорректного окна
	ErrInvalidTimeBoundary = errors.New("session end must be after start")

	// ErrStudentBusy возвращается, когда студент уже занят в это время
	ErrStudentBusy = errors.New("student already has a session in this window")

	// ErrTeacherBusy возвращается, когда преподаватель уже занят в это время
	ErrTeacherBusy = errors.New("teacher already has a session in this window")

	// ErrBufferViolation возвращается при попадании в буферную зону
	ErrBufferViolation = errors.New("candidate falls within a buffer zone")

	// ErrTooLateToBook возвращается при нарушении минимального уведомления
	ErrTooLateToBook = errors.New("session starts sooner than the minimum notice allows")

	// ErrDailyLimitReached возвращается при исчерпании дневного лимита
	ErrDailyLimitReached = errors.New("daily booking limit reached")

	// ErrWeeklyLimitReached возвращается при исчерпании недельного лимита
	ErrWeeklyLimitReached = errors.New("weekly booking limit reached")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
