package cancel_session

import (
	"github.com/m04kA/TMS-SchedulingService/internal/service/sessions/models"
)

// CancelSessionRequest HTTP request model
type CancelSessionRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelSessionRequest) ToServiceRequest(sessionID, userID int64) *models.CancelSessionRequest {
	return &models.CancelSessionRequest{
		SessionID: sessionID,
		UserID:    userID,
		Reason:    r.Reason,
	}
}
