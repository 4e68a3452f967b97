package create_session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	schoolClient "github.com/m04kA/TMS-SchedulingService/internal/integrations/schoolservice"
	"github.com/m04kA/TMS-SchedulingService/internal/interval"
	"github.com/m04kA/TMS-SchedulingService/internal/service/conflicts"
	"github.com/m04kA/TMS-SchedulingService/internal/service/rules"
)

// UseCase use case для создания сессии занятия
type UseCase struct {
	sessionRepo     SessionRepository
	rulesRepo       RulesRepository
	conflictChecker ConflictChecker
	schoolClient    SchoolServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	rulesRepo RulesRepository,
	conflictChecker ConflictChecker,
	schoolClient SchoolServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:     sessionRepo,
		rulesRepo:       rulesRepo,
		conflictChecker: conflictChecker,
		schoolClient:    schoolClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания сессии.
// Снапшот расписания, проверка конфликтов и вставка выполняются в одной
// сериализуемой транзакции: две гонящиеся брони не пройдут обе.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSession: user=%d, school=%d, teacher=%d, date=%s, time=%s-%s",
		req.UserID, req.SchoolID, req.TeacherID,
		req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateSession: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем школу и ее таймзону (вне транзакции - внешний вызов)
	school, err := uc.schoolClient.GetSchool(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, schoolClient.ErrSchoolNotFound) {
			uc.logger.Warn("CreateSession: school id=%d not found", req.SchoolID)
			return nil, ErrSchoolNotFound
		}
		uc.logger.Error("CreateSession: failed to get school id=%d: %v", req.SchoolID, err)
		return nil, fmt.Errorf("%w: failed to get school: %v", ErrInternal, err)
	}

	loc, err := time.LoadLocation(school.Timezone)
	if err != nil {
		uc.logger.Error("CreateSession: school id=%d has invalid timezone %q: %v",
			req.SchoolID, school.Timezone, err)
		return nil, fmt.Errorf("%w: invalid school timezone: %v", ErrInternal, err)
	}

	// 4. Нормализуем окно кандидата
	candidate, err := interval.NormalizeDayBoundary(req.Date, req.StartTime, req.EndTime, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid candidate time: %v", ErrInvalidInput, err)
	}

	var result *domain.Session

	// 5. Проверка конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Эффективные правила
		schoolLayer, teacherLayer, classLayer, err := uc.rulesRepo.GetLayers(txCtx, req.SchoolID, &req.TeacherID, &req.ClassType)
		if err != nil {
			uc.logger.Error("CreateSession: failed to get rule layers: %v", err)
			return fmt.Errorf("%w: failed to get rule layers: %v", ErrInternal, err)
		}
		resolved := rules.Resolve(req.ClassType, schoolLayer, teacherLayer, classLayer)

		// 5.2. Снапшот сессий на соседние дни
		from := req.Date.AddDate(0, 0, -1)
		to := req.Date.AddDate(0, 0, 1)

		teacherSessions, err := uc.sessionRepo.GetForTeacherInRange(txCtx, req.TeacherID, from, to)
		if err != nil {
			uc.logger.Error("CreateSession: failed to get teacher sessions: %v", err)
			return fmt.Errorf("%w: failed to get teacher sessions: %v", ErrInternal, err)
		}

		studentSessions, err := uc.sessionRepo.GetForStudentsInRange(txCtx, req.StudentIDs, from, to)
		if err != nil {
			uc.logger.Error("CreateSession: failed to get student sessions: %v", err)
			return fmt.Errorf("%w: failed to get student sessions: %v", ErrInternal, err)
		}

		// 5.3. Счетчики лимитов
		dailyCount, err := uc.sessionRepo.CountActiveForTeacherOnDate(txCtx, req.TeacherID, req.SchoolID, req.Date)
		if err != nil {
			uc.logger.Error("CreateSession: failed to count daily sessions: %v", err)
			return fmt.Errorf("%w: failed to count daily sessions: %v", ErrInternal, err)
		}

		week := interval.WeekBounds(req.Date, loc)
		weeklyCount, err := uc.sessionRepo.CountActiveForTeacherBetween(
			txCtx, req.TeacherID, req.SchoolID, week.Start, week.End.AddDate(0, 0, -1))
		if err != nil {
			uc.logger.Error("CreateSession: failed to count weekly sessions: %v", err)
			return fmt.Errorf("%w: failed to count weekly sessions: %v", ErrInternal, err)
		}

		// 5.4. Полная проверка конфликтов
		report := uc.conflictChecker.CheckBooking(conflicts.CheckParams{
			Candidate:        candidate,
			TeacherID:        req.TeacherID,
			StudentIDs:       req.StudentIDs,
			ExistingSessions: dedupeSessions(teacherSessions, studentSessions),
			Rules:            resolved,
			Now:              now,
			Location:         loc,
			DailyCount:       dailyCount,
			WeeklyCount:      weeklyCount,
		})

		if report.HasConflict {
			uc.logger.Warn("CreateSession: conflict %s for school=%d, teacher=%d",
				report.Type, req.SchoolID, req.TeacherID)
			return conflictToError(report)
		}

		// 5.5. Создаем сессию
		session := &domain.Session{
			TeacherID:  req.TeacherID,
			SchoolID:   req.SchoolID,
			StudentIDs: req.StudentIDs,
			Date:       req.Date,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			ClassType:  req.ClassType,
			Status:     domain.StatusScheduled,
			Notes:      req.Notes,
		}

		created, err := uc.sessionRepo.Create(txCtx, session)
		if err != nil {
			uc.logger.Error("CreateSession: failed to create session: %v", err)
			return fmt.Errorf("%w: failed to create session: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateSession: created session id=%d for school=%d, teacher=%d",
		result.ID, req.SchoolID, req.TeacherID)

	return FromDomainSession(result), nil
}
