package validate_booking

import "errors"

var (
	// ErrSchoolNotFound возвращается, когда школа не найдена
	ErrSchoolNotFound = errors.New("school not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
