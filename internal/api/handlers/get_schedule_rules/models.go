package get_schedule_rules

import (
	"strconv"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/service/rules/models"
)

// ToServiceRequest собирает запрос на разрешение правил из path и query параметров
func ToServiceRequest(schoolID int64, teacherIDStr, classTypeStr string) (*models.GetResolvedRequest, error) {
	req := &models.GetResolvedRequest{SchoolID: schoolID}

	if teacherIDStr != "" {
		teacherID, err := strconv.ParseInt(teacherIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.TeacherID = &teacherID
	}

	if classTypeStr != "" {
		classType := domain.ClassType(classTypeStr)
		req.ClassType = &classType
	}

	return req, nil
}
