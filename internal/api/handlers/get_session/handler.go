package get_session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/TMS-SchedulingService/internal/api/middleware"
	"github.com/m04kA/TMS-SchedulingService/internal/service/sessions"
)

const (
	msgInvalidSessionID = "некорректный ID сессии"
	msgInvalidTeacherID = "некорректный ID преподавателя"
	msgInvalidParams    = "некорректные параметры запроса"
	msgNotFound         = "сессия не найдена"
	msgForbidden        = "доступ запрещен"
	msgUnauthorized     = "пользователь не авторизован"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	sessionID, err := strconv.ParseInt(vars["sessionId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /sessions/{id} - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	result, err := h.service.GetByID(r.Context(), sessionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrSessionNotFound):
			h.logger.Warn("GET /sessions/{id} - Session not found: session_id=%d", sessionID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, sessions.ErrAccessDenied):
			h.logger.Warn("GET /sessions/{id} - Access denied: session_id=%d, user_id=%d", sessionID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /sessions/{id} - Failed: session_id=%d, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleList GET /api/v1/teachers/{teacherId}/sessions
// Query params: schoolId, startDate, endDate, status, includeInactive (все опциональны)
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	teacherID, err := strconv.ParseInt(vars["teacherId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /teachers/{id}/sessions - Invalid teacher ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeacherID)
		return
	}

	query := map[string]string{
		"schoolId":        r.URL.Query().Get("schoolId"),
		"startDate":       r.URL.Query().Get("startDate"),
		"endDate":         r.URL.Query().Get("endDate"),
		"status":          r.URL.Query().Get("status"),
		"includeInactive": r.URL.Query().Get("includeInactive"),
	}

	req, err := ToListRequest(teacherID, query)
	if err != nil {
		h.logger.Warn("GET /teachers/{id}/sessions - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByTeacher(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrInvalidInput):
			h.logger.Warn("GET /teachers/{id}/sessions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /teachers/{id}/sessions - Failed: teacher_id=%d, error=%v", teacherID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /teachers/{id}/sessions - Returned %d sessions: teacher_id=%d",
		len(result.Sessions), teacherID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
