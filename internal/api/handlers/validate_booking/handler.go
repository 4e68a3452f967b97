package validate_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/TMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/TMS-SchedulingService/internal/api/middleware"
	validateBooking "github.com/m04kA/TMS-SchedulingService/internal/usecase/validate_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgSchoolNotFound     = "школа не найдена"
	msgUnauthorized       = "пользователь не авторизован"
)

type Handler struct {
	useCase ValidateBookingUseCase
	logger  Logger
}

func NewHandler(useCase ValidateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/validate
// Проверка кандидата без бронирования. Найденный конфликт - это
// нормальный ответ 200 с valid=false, а не ошибка.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req ValidateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /sessions/validate - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, validateBooking.ErrSchoolNotFound):
			h.logger.Warn("POST /sessions/validate - School not found: school_id=%d", req.SchoolID)
			handlers.RespondNotFound(w, msgSchoolNotFound)

		case errors.Is(err, validateBooking.ErrInvalidInput):
			h.logger.Warn("POST /sessions/validate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /sessions/validate - Failed: school_id=%d, teacher_id=%d, error=%v",
				req.SchoolID, req.TeacherID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/validate - valid=%t: user_id=%d, school_id=%d, teacher_id=%d",
		result.Valid, userID, req.SchoolID, req.TeacherID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
