package validate_booking

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

// UseCase use case для проверки кандидата на бронирование без создания сессии.
// Dry-run того же пайплайна, что и создание: результат с конфликтом - это
// валидный ответ, а не ошибка.
type UseCase struct {
	sessionRepo     SessionRepository
	rulesRepo       RulesRepository
	conflictChecker ConflictChecker
	schoolClient    SchoolServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	rulesRepo RulesRepository,
	conflictChecker ConflictChecker,
	schoolClient SchoolServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:     sessionRepo,
		rulesRepo:       rulesRepo,
		conflictChecker: conflictChecker,
		schoolClient:    schoolClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет проверку кандидата
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ValidateBooking: user=%d, school=%d, teacher=%d, date=%s, time=%s-%s",
		req.UserID, req.SchoolID, req.TeacherID,
		req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время - один снапшот на всю проверку
	now := uc.timeProvider.Now()

	// 3. Получаем школу и ее таймзону
	school, err := uc.schoolClient.GetSchool(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, schoolClient.ErrSchoolNotFound) {
			uc.logger.Warn("ValidateBooking: school id=%d not found", req.SchoolID)
			return nil, ErrSchoolNotFound
		}
		uc.logger.Error("ValidateBooking: failed to get school id=%d: %v", req.SchoolID, err)
		return nil, fmt.Errorf("%w: failed to get school: %v", ErrInternal, err)
	}

	loc, err := time.LoadLocation(school.Timezone)
	if err != nil {
		uc.logger.Error("ValidateBooking: school id=%d has invalid timezone %q: %v",
			req.SchoolID, school.Timezone, err)
		return nil, fmt.Errorf("%w: invalid school timezone: %v", ErrInternal, err)
	}

	// 4. Разрешаем эффективные правила
	schoolLayer, teacherLayer, classLayer, err := uc.rulesRepo.GetLayers(ctx, req.SchoolID, &req.TeacherID, &req.ClassType)
	if err != nil {
		uc.logger.Error("ValidateBooking: failed to get rule layers: %v", err)
		return nil, fmt.Errorf("%w: failed to get rule layers: %v", ErrInternal, err)
	}
	resolved := rules.Resolve(req.ClassType, schoolLayer, teacherLayer, classLayer)

	// 5. Нормализуем окно кандидата с учетом перехода через полночь
	candidate, err := interval.NormalizeDayBoundary(req.Date, req.StartTime, req.EndTime, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid candidate time: %v", ErrInvalidInput, err)
	}

	// 6. Снапшот сессий: преподаватель и студенты, соседние дни включены,
	// т.к. сессия через полночь или буфер могут задевать границу суток
	report, err := uc.checkSnapshot(ctx, req, candidate, resolved, now, loc)
	if err != nil {
		return nil, err
	}

	if report.HasConflict {
		uc.logger.Info("ValidateBooking: conflict %s for school=%d, teacher=%d", report.Type, req.SchoolID, req.TeacherID)
	} else {
		uc.logger.Info("ValidateBooking: candidate is valid for school=%d, teacher=%d", req.SchoolID, req.TeacherID)
	}

	return FromConflictReport(report, resolved), nil
}

// checkSnapshot собирает снапшот данных и прогоняет полную проверку конфликтов
func (uc *UseCase) checkSnapshot(
	ctx context.Context,
	req *Request,
	candidate interval.Span,
	resolved domain.SchedulingRuleSet,
	now time.Time,
	loc *time.Location,
) (domain.ConflictReport, error) {
	from := req.Date.AddDate(0, 0, -1)
	to := req.Date.AddDate(0, 0, 1)

	teacherSessions, err := uc.sessionRepo.GetForTeacherInRange(ctx, req.TeacherID, from, to)
	if err != nil {
		uc.logger.Error("ValidateBooking: failed to get teacher sessions: %v", err)
		return domain.ConflictReport{}, fmt.Errorf("%w: failed to get teacher sessions: %v", ErrInternal, err)
	}

	studentSessions, err := uc.sessionRepo.GetForStudentsInRange(ctx, req.StudentIDs, from, to)
	if err != nil {
		uc.logger.Error("ValidateBooking: failed to get student sessions: %v", err)
		return domain.ConflictReport{}, fmt.Errorf("%w: failed to get student sessions: %v", ErrInternal, err)
	}

	dailyCount, err := uc.sessionRepo.CountActiveForTeacherOnDate(ctx, req.TeacherID, req.SchoolID, req.Date)
	if err != nil {
		uc.logger.Error("ValidateBooking: failed to count daily sessions: %v", err)
		return domain.ConflictReport{}, fmt.Errorf("%w: failed to count daily sessions: %v", ErrInternal, err)
	}

	week := interval.WeekBounds(req.Date, loc)
	weeklyCount, err := uc.sessionRepo.CountActiveForTeacherBetween(
		ctx, req.TeacherID, req.SchoolID, week.Start, week.End.AddDate(0, 0, -1))
	if err != nil {
		uc.logger.Error("ValidateBooking: failed to count weekly sessions: %v", err)
		return domain.ConflictReport{}, fmt.Errorf("%w: failed to count weekly sessions: %v", ErrInternal, err)
	}

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

	return report, nil
}
