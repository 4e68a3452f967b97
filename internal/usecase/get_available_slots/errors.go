package get_available_slots

import "errors"

var (
	// ErrSchoolNotFound возвращается, когда школа не найдена
	ErrSchoolNotFound = errors.New("school not found")

	// ErrTeacherNotFound возвращается, когда преподаватель не найден в школе
	ErrTeacherNotFound = errors.New("teacher not found in school")

	// ErrInvalidDate возвращается при некорректной дате (в прошлом)
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
