package rules

import "errors"

var (
	// ErrSchoolNotFound возвращается, когда школа не найдена
	ErrSchoolNotFound = errors.New("rules: school not found")

	// ErrOverrideNotFound возвращается, когда слой переопределений не найден
	ErrOverrideNotFound = errors.New("rules: override not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("rules: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("rules: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rules: internal error")
)
