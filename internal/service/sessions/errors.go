package sessions

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = errors.New("sessions: session not found")

	// ErrAccessDenied возвращается при попытке действия над чужой сессией
	ErrAccessDenied = errors.New("sessions: access denied")

	// ErrAlreadyFinalized возвращается при отмене завершенной или уже отмененной сессии
	ErrAlreadyFinalized = errors.New("sessions: session can no longer be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("sessions: invalid input")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("sessions: internal error")
)
