package get_schedule_rules

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
	msgInvalidSchoolID = "некорректный ID школы"
	msgInvalidParams   = "некорректные параметры запроса"
	msgSchoolNotFound  = "школа не найдена"
	msgForbidden       = "доступ запрещен"
	msgUnauthorized    = "пользователь не авторизован"
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

// Handle GET /api/v1/schools/{schoolId}/rules
// Query params: teacherId, classType (опционально)
// Публичный endpoint: возвращает эффективный набор правил после
// разрешения иерархии, а не сырые слои.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	schoolID, err := strconv.ParseInt(vars["schoolId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /schools/{id}/rules - Invalid school ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchoolID)
		return
	}

	req, err := ToServiceRequest(schoolID, r.URL.Query().Get("teacherId"), r.URL.Query().Get("classType"))
	if err != nil {
		h.logger.Warn("GET /schools/{id}/rules - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetResolved(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrInvalidInput):
			h.logger.Warn("GET /schools/{id}/rules - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /schools/{id}/rules - Failed: school_id=%d, error=%v", schoolID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleList GET /api/v1/schools/{schoolId}/rules/overrides
// Возвращает сырые слои переопределений. Только для администраторов школы.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	schoolID, err := strconv.ParseInt(vars["schoolId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /schools/{id}/rules/overrides - Invalid school ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchoolID)
		return
	}

	result, err := h.service.GetAllBySchool(r.Context(), schoolID, userID)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrSchoolNotFound):
			h.logger.Warn("GET /schools/{id}/rules/overrides - School not found: school_id=%d", schoolID)
			handlers.RespondNotFound(w, msgSchoolNotFound)

		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("GET /schools/{id}/rules/overrides - Access denied: school_id=%d, user_id=%d",
				schoolID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /schools/{id}/rules/overrides - Failed: school_id=%d, error=%v", schoolID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /schools/{id}/rules/overrides - Returned %d overrides: school_id=%d",
		len(result.Overrides), schoolID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
