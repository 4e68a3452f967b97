package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	sessionRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/session"
	"github.com/m04kA/TMS-SchedulingService/internal/service/sessions/models"
)

// Service сервис для работы с сессиями занятий
type Service struct {
	sessionRepo SessionRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса сессий
func NewService(sessionRepo SessionRepository, logger Logger) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// GetByID возвращает сессию по ID.
// Доступно преподавателю сессии и ее участникам.
func (s *Service) GetByID(ctx context.Context, sessionID, userID int64) (*models.SessionResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("GetByID: repository error for session=%d: %v", sessionID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !s.isParticipant(session, userID) {
		s.logger.Warn("GetByID: user=%d is not a participant of session=%d", userID, sessionID)
		return nil, ErrAccessDenied
	}

	return models.FromDomainSession(session), nil
}

// Cancel отменяет сессию. Статус отмены зависит от того, кто отменяет:
// преподаватель или студент. Завершенные и уже отмененные сессии отменить нельзя.
func (s *Service) Cancel(ctx context.Context, req *models.CancelSessionRequest) (*models.SessionResponse, error) {
	s.logger.Info("Cancel: session=%d by user=%d", req.SessionID, req.UserID)

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	session, err := s.sessionRepo.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("Cancel: repository error for session=%d: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !s.isParticipant(session, req.UserID) {
		s.logger.Warn("Cancel: user=%d is not a participant of session=%d", req.UserID, req.SessionID)
		return nil, ErrAccessDenied
	}

	if !session.CanBeCancelled() {
		s.logger.Warn("Cancel: session=%d has status=%s and cannot be cancelled", req.SessionID, session.Status)
		return nil, ErrAlreadyFinalized
	}

	status := domain.StatusCancelledByStudent
	if req.UserID == session.TeacherID {
		status = domain.StatusCancelledByTeacher
	}

	cancelled, err := s.sessionRepo.Cancel(ctx, req.SessionID, status, req.Reason)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("Cancel: failed to cancel session=%d: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: session=%d cancelled with status=%s", req.SessionID, status)
	return models.FromDomainSession(cancelled), nil
}

// ListByTeacher возвращает сессии преподавателя с учетом фильтров
func (s *Service) ListByTeacher(ctx context.Context, req *models.ListByTeacherRequest) (*models.SessionListResponse, error) {
	if req.TeacherID <= 0 {
		return nil, fmt.Errorf("%w: teacherID must be positive", ErrInvalidInput)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}

	sessions, err := s.sessionRepo.GetByTeacherWithFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("ListByTeacher: repository error for teacher=%d: %v", req.TeacherID, err)
		return nil, fmt.Errorf("%w: ListByTeacher - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByTeacher: fetched %d sessions for teacher=%d", len(sessions), req.TeacherID)
	return models.FromDomainSessionList(sessions), nil
}

// isParticipant проверяет, что пользователь имеет отношение к сессии
func (s *Service) isParticipant(session *domain.Session, userID int64) bool {
	return session.TeacherID == userID || session.HasStudent(userID)
}
