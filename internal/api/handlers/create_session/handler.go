package create_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/TMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/TMS-SchedulingService/internal/api/middleware"
	createSession "github.com/m04kA/TMS-SchedulingService/internal/usecase/create_session"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateTime     = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgSchoolNotFound      = "школа не найдена"
	msgStudentBusy         = "студент уже занят в это время"
	msgTeacherBusy         = "преподаватель уже занят в это время"
	msgBufferViolation     = "занятие попадает в буферную зону другого занятия"
	msgTooLateToBook       = "слишком поздно для бронирования этого времени"
	msgDailyLimitReached   = "дневной лимит занятий преподавателя исчерпан"
	msgWeeklyLimitReached  = "недельный лимит занятий преподавателя исчерпан"
	msgInvalidTimeBoundary = "время окончания должно быть позже времени начала"
	msgUnauthorized        = "пользователь не авторизован"
)

type Handler struct {
	useCase CreateSessionUseCase
	logger  Logger
}

func NewHandler(useCase CreateSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /sessions - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createSession.ErrSchoolNotFound):
			h.logger.Warn("POST /sessions - School not found: school_id=%d", req.SchoolID)
			handlers.RespondNotFound(w, msgSchoolNotFound)

		case errors.Is(err, createSession.ErrStudentBusy):
			h.logger.Warn("POST /sessions - Student busy: school_id=%d, teacher_id=%d", req.SchoolID, req.TeacherID)
			handlers.RespondError(w, http.StatusConflict, msgStudentBusy)

		case errors.Is(err, createSession.ErrTeacherBusy):
			h.logger.Warn("POST /sessions - Teacher busy: school_id=%d, teacher_id=%d", req.SchoolID, req.TeacherID)
			handlers.RespondError(w, http.StatusConflict, msgTeacherBusy)

		case errors.Is(err, createSession.ErrBufferViolation):
			h.logger.Warn("POST /sessions - Buffer violation: school_id=%d, teacher_id=%d", req.SchoolID, req.TeacherID)
			handlers.RespondError(w, http.StatusConflict, msgBufferViolation)

		case errors.Is(err, createSession.ErrTooLateToBook):
			h.logger.Warn("POST /sessions - Too late to book: school_id=%d, teacher_id=%d", req.SchoolID, req.TeacherID)
			handlers.RespondError(w, http.StatusConflict, msgTooLateToBook)

		case errors.Is(err, createSession.ErrDailyLimitReached):
			h.logger.Warn("POST /sessions - Daily limit reached: school_id=%d, teacher_id=%d", req.SchoolID, req.TeacherID)
			handlers.RespondError(w, http.StatusConflict, msgDailyLimitReached)

		case errors.Is(err, createSession.ErrWeeklyLimitReached):
			h.logger.Warn("POST /sessions - Weekly limit reached: school_id=%d, teacher_id=%d", req.SchoolID, req.TeacherID)
			handlers.RespondError(w, http.StatusConflict, msgWeeklyLimitReached)

		case errors.Is(err, createSession.ErrInvalidTimeBoundary):
			h.logger.Warn("POST /sessions - Invalid time boundary: school_id=%d, teacher_id=%d", req.SchoolID, req.TeacherID)
			handlers.RespondBadRequest(w, msgInvalidTimeBoundary)

		case errors.Is(err, createSession.ErrInvalidInput):
			h.logger.Warn("POST /sessions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /sessions - Failed to create session: user_id=%d, school_id=%d, error=%v",
				userID, req.SchoolID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions - Session created: session_id=%d, user_id=%d, school_id=%d",
		result.ID, userID, req.SchoolID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
