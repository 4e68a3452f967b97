package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TMS-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/TMS-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidSchoolID  = "некорректный ID школы"
	msgInvalidTeacherID = "некорректный ID преподавателя"
	msgInvalidParams    = "некорректные параметры запроса"
	msgSchoolNotFound   = "школа не найдена"
	msgTeacherNotFound  = "преподаватель не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/schools/{schoolId}/teachers/{teacherId}/available-slots
// Query params: date (YYYY-MM-DD), durationMinutes, classType, studentId (опционально)
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	schoolID, err := strconv.ParseInt(vars["schoolId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid school ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchoolID)
		return
	}

	teacherID, err := strconv.ParseInt(vars["teacherId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid teacher ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTeacherID)
		return
	}

	query := r.URL.Query()
	req, err := ToUseCaseRequest(
		0, // публичный endpoint, пользователь неизвестен
		schoolID,
		teacherID,
		query.Get("date"),
		query.Get("durationMinutes"),
		query.Get("classType"),
		query.Get("studentId"),
	)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrSchoolNotFound):
			h.logger.Warn("GET /available-slots - School not found: school_id=%d", schoolID)
			handlers.RespondNotFound(w, msgSchoolNotFound)

		case errors.Is(err, getAvailableSlots.ErrTeacherNotFound):
			h.logger.Warn("GET /available-slots - Teacher not found: school_id=%d, teacher_id=%d",
				schoolID, teacherID)
			handlers.RespondNotFound(w, msgTeacherNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /available-slots - Failed: school_id=%d, teacher_id=%d, error=%v",
				schoolID, teacherID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - Returned %d slots: school_id=%d, teacher_id=%d",
		len(result.Slots), schoolID, teacherID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
