package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	rulesRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/rules"
	schoolClient "github.com/m04kA/TMS-SchedulingService/internal/integrations/schoolservice"
	"github.com/m04kA/TMS-SchedulingService/internal/service/rules/models"
)

// Service сервис для работы со слоями правил планирования
type Service struct {
	rulesRepo    RulesRepository
	schoolClient SchoolServiceClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(
	rulesRepo RulesRepository,
	schoolClient SchoolServiceClient,
	logger Logger,
) *Service {
	return &Service{
		rulesRepo:    rulesRepo,
		schoolClient: schoolClient,
		logger:       logger,
	}
}

// GetResolved возвращает эффективный набор правил для комбинации
// школа/преподаватель/тип занятия.
// Публичный метод - используется при бронировании и отображении.
func (s *Service) GetResolved(ctx context.Context, req *models.GetResolvedRequest) (*models.ResolvedRulesResponse, error) {
	s.logger.Info("GetResolved: school=%d, teacher=%v, classType=%v",
		req.SchoolID, req.TeacherID, req.ClassType)

	if req.SchoolID <= 0 {
		return nil, fmt.Errorf("%w: schoolID must be positive", ErrInvalidInput)
	}
	if req.ClassType != nil && !req.ClassType.IsValid() {
		return nil, fmt.Errorf("%w: unknown class type %q", ErrInvalidInput, *req.ClassType)
	}

	schoolLayer, teacherLayer, classLayer, err := s.rulesRepo.GetLayers(ctx, req.SchoolID, req.TeacherID, req.ClassType)
	if err != nil {
		s.logger.Error("GetResolved: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetResolved - repository error: %v", ErrInternal, err)
	}

	classType := domain.ClassTypeIndividual
	if req.ClassType != nil {
		classType = *req.ClassType
	}

	resolved := Resolve(classType, schoolLayer, teacherLayer, classLayer)

	s.logger.Info("GetResolved: school=%d resolved notice=%dm buffer=%dm daily=%d weekly=%d",
		req.SchoolID, resolved.MinimumNoticeMinutes, resolved.BufferMinutes,
		resolved.DailyBookingLimit, resolved.WeeklyBookingLimit)

	return &models.ResolvedRulesResponse{
		SchoolID:             req.SchoolID,
		TeacherID:            req.TeacherID,
		ClassType:            req.ClassType,
		MinimumNoticeMinutes: resolved.MinimumNoticeMinutes,
		BufferMinutes:        resolved.BufferMinutes,
		DailyBookingLimit:    resolved.DailyBookingLimit,
		WeeklyBookingLimit:   resolved.WeeklyBookingLimit,
	}, nil
}

// Upsert создает или обновляет слой переопределений.
// Доступно только администраторам школы.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("Upsert: school=%d, teacher=%v, classType=%v by user=%d",
		req.SchoolID, req.TeacherID, req.ClassType, req.UserID)

	// 1. Валидируем входные данные
	if err := s.validateOverride(req); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем школу для проверки прав доступа
	school, err := s.schoolClient.GetSchool(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, schoolClient.ErrSchoolNotFound) {
			s.logger.Warn("Upsert: school id=%d not found", req.SchoolID)
			return nil, ErrSchoolNotFound
		}
		s.logger.Error("Upsert: failed to get school id=%d: %v", req.SchoolID, err)
		return nil, fmt.Errorf("%w: failed to get school: %v", ErrInternal, err)
	}

	// 3. Проверяем права доступа (только администратор школы)
	if !s.isAdmin(school, req.UserID) {
		s.logger.Warn("Upsert: user=%d is not an admin of school=%d", req.UserID, req.SchoolID)
		return nil, ErrAccessDenied
	}

	// 4. Сохраняем слой
	saved, err := s.rulesRepo.Upsert(ctx, req.ToDomainOverride())
	if err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully saved override id=%d", saved.ID)
	return models.FromDomainOverride(saved), nil
}

// GetAllBySchool возвращает все слои переопределений школы.
// Доступно только администраторам школы.
func (s *Service) GetAllBySchool(ctx context.Context, schoolID, userID int64) (*models.OverrideListResponse, error) {
	s.logger.Info("GetAllBySchool: school=%d by user=%d", schoolID, userID)

	school, err := s.schoolClient.GetSchool(ctx, schoolID)
	if err != nil {
		if errors.Is(err, schoolClient.ErrSchoolNotFound) {
			s.logger.Warn("GetAllBySchool: school id=%d not found", schoolID)
			return nil, ErrSchoolNotFound
		}
		s.logger.Error("GetAllBySchool: failed to get school id=%d: %v", schoolID, err)
		return nil, fmt.Errorf("%w: failed to get school: %v", ErrInternal, err)
	}

	if !s.isAdmin(school, userID) {
		s.logger.Warn("GetAllBySchool: user=%d is not an admin of school=%d", userID, schoolID)
		return nil, ErrAccessDenied
	}

	overrides, err := s.rulesRepo.GetAllBySchool(ctx, schoolID)
	if err != nil {
		s.logger.Error("GetAllBySchool: repository error for school=%d: %v", schoolID, err)
		return nil, fmt.Errorf("%w: GetAllBySchool - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllBySchool: fetched %d overrides for school=%d", len(overrides), schoolID)
	return models.FromDomainOverrideList(overrides), nil
}

// DeleteByKey удаляет слой переопределений по ключу.
// Доступно только администраторам школы.
func (s *Service) DeleteByKey(ctx context.Context, req *models.UpsertOverrideRequest) error {
	s.logger.Info("DeleteByKey: school=%d, teacher=%v, classType=%v by user=%d",
		req.SchoolID, req.TeacherID, req.ClassType, req.UserID)

	school, err := s.schoolClient.GetSchool(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, schoolClient.ErrSchoolNotFound) {
			return ErrSchoolNotFound
		}
		s.logger.Error("DeleteByKey: failed to get school id=%d: %v", req.SchoolID, err)
		return fmt.Errorf("%w: failed to get school: %v", ErrInternal, err)
	}

	if !s.isAdmin(school, req.UserID) {
		s.logger.Warn("DeleteByKey: user=%d is not an admin of school=%d", req.UserID, req.SchoolID)
		return ErrAccessDenied
	}

	if err := s.rulesRepo.DeleteByKey(ctx, req.SchoolID, req.TeacherID, req.ClassType); err != nil {
		if errors.Is(err, rulesRepo.ErrOverrideNotFound) {
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteByKey: repository error: %v", err)
		return fmt.Errorf("%w: DeleteByKey - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteByKey: successfully deleted override for school=%d, teacher=%v, classType=%v",
		req.SchoolID, req.TeacherID, req.ClassType)
	return nil
}

// Вспомогательные методы

// isAdmin проверяет, что пользователь является администратором школы
func (s *Service) isAdmin(school *schoolClient.School, userID int64) bool {
	for _, adminID := range school.AdminIDs {
		if adminID == userID {
			return true
		}
	}
	return false
}

// validateOverride валидирует значения слоя переопределений
func (s *Service) validateOverride(req *models.UpsertOverrideRequest) error {
	if req.SchoolID <= 0 {
		return fmt.Errorf("%w: schoolID must be positive", ErrInvalidInput)
	}
	if req.TeacherID != nil && *req.TeacherID <= 0 {
		return fmt.Errorf("%w: teacherID must be positive", ErrInvalidInput)
	}
	if req.ClassType != nil && !req.ClassType.IsValid() {
		return fmt.Errorf("%w: unknown class type %q", ErrInvalidInput, *req.ClassType)
	}

	if req.MinimumNoticeMinutes != nil &&
		(*req.MinimumNoticeMinutes < domain.MinNoticeMinutes || *req.MinimumNoticeMinutes > domain.MaxNoticeMinutes) {
		return fmt.Errorf("%w: minimumNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinNoticeMinutes, domain.MaxNoticeMinutes)
	}
	if req.BufferMinutes != nil &&
		(*req.BufferMinutes < domain.MinBufferMinutes || *req.BufferMinutes > domain.MaxBufferMinutes) {
		return fmt.Errorf("%w: bufferMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}
	if req.DailyBookingLimit != nil &&
		(*req.DailyBookingLimit < domain.MinBookingLimit || *req.DailyBookingLimit > domain.MaxBookingLimit) {
		return fmt.Errorf("%w: dailyBookingLimit must be between %d and %d",
			ErrInvalidInput, domain.MinBookingLimit, domain.MaxBookingLimit)
	}
	if req.WeeklyBookingLimit != nil &&
		(*req.WeeklyBookingLimit < domain.MinBookingLimit || *req.WeeklyBookingLimit > domain.MaxBookingLimit) {
		return fmt.Errorf("%w: weeklyBookingLimit must be between %d and %d",
			ErrInvalidInput, domain.MinBookingLimit, domain.MaxBookingLimit)
	}

	return nil
}
