package get_session

import (
	"strconv"
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/service/sessions/models"
)

// ToListRequest собирает запрос списка сессий преподавателя из query параметров
func ToListRequest(teacherID int64, query map[string]string) (*models.ListByTeacherRequest, error) {
	req := &models.ListByTeacherRequest{TeacherID: teacherID}

	if v := query["schoolId"]; v != "" {
		schoolID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		req.SchoolID = &schoolID
	}

	if v := query["startDate"]; v != "" {
		startDate, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if v := query["endDate"]; v != "" {
		endDate, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if v := query["status"]; v != "" {
		status := domain.SessionStatus(v)
		req.Status = &status
	}

	if v := query["includeInactive"]; v != "" {
		includeInactive, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
