package schoolservice

import "errors"

var (
	// ErrSchoolNotFound возвращается, когда школа не найдена
	ErrSchoolNotFound = errors.New("school not found")

	// ErrTeacherNotFound возвращается, когда преподаватель не найден в школе
	ErrTeacherNotFound = errors.New("teacher not found in school")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("schoolservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("schoolservice client: invalid response")
)
