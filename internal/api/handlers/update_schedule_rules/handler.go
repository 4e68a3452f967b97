package update_schedule_rules

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TMS-SchedulingService/internal/api/handlers"
	"github.com/m04kA/TMS-SchedulingService/internal/api/middleware"
	"github.com/m04kA/TMS-SchedulingService/internal/service/rules"
)

const (
	msgInvalidSchoolID    = "некорректный ID школы"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSchoolNotFound     = "школа не найдена"
	msgOverrideNotFound   = "слой правил не найден"
	msgForbidden          = "доступ запрещен"
	msgUnauthorized       = "пользователь не авторизован"
)

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/schools/{schoolId}/rules
// Создает или обновляет слой переопределений. Только для администраторов школы.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	schoolID, err := strconv.ParseInt(vars["schoolId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /schools/{id}/rules - Invalid school ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchoolID)
		return
	}

	var req UpsertRulesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schools/{id}/rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(schoolID, userID))
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrSchoolNotFound):
			h.logger.Warn("PUT /schools/{id}/rules - School not found: school_id=%d", schoolID)
			handlers.RespondNotFound(w, msgSchoolNotFound)

		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("PUT /schools/{id}/rules - Access denied: school_id=%d, user_id=%d",
				schoolID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rules.ErrInvalidInput):
			h.logger.Warn("PUT /schools/{id}/rules - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /schools/{id}/rules - Failed: school_id=%d, error=%v", schoolID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /schools/{id}/rules - Override saved: override_id=%d, school_id=%d, user_id=%d",
		result.ID, schoolID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/schools/{schoolId}/rules
// Query params: teacherId, classType (опционально) - ключ удаляемого слоя.
// Только для администраторов школы.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	schoolID, err := strconv.ParseInt(vars["schoolId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /schools/{id}/rules - Invalid school ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchoolID)
		return
	}

	req := UpsertRulesRequest{}
	if v := r.URL.Query().Get("teacherId"); v != "" {
		teacherID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.logger.Warn("DELETE /schools/{id}/rules - Invalid teacher ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
		req.TeacherID = &teacherID
	}
	if v := r.URL.Query().Get("classType"); v != "" {
		req.ClassType = &v
	}

	err = h.service.DeleteByKey(r.Context(), req.ToServiceRequest(schoolID, userID))
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrSchoolNotFound):
			h.logger.Warn("DELETE /schools/{id}/rules - School not found: school_id=%d", schoolID)
			handlers.RespondNotFound(w, msgSchoolNotFound)

		case errors.Is(err, rules.ErrOverrideNotFound):
			h.logger.Warn("DELETE /schools/{id}/rules - Override not found: school_id=%d", schoolID)
			handlers.RespondNotFound(w, msgOverrideNotFound)

		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("DELETE /schools/{id}/rules - Access denied: school_id=%d, user_id=%d",
				schoolID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /schools/{id}/rules - Failed: school_id=%d, error=%v", schoolID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /schools/{id}/rules - Override deleted: school_id=%d, user_id=%d", schoolID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
