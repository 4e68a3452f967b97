package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	schoolClient "github.com/m04kA/TMS-SchedulingService/internal/integrations/schoolservice"
	"github.com/m04kA/TMS-SchedulingService/internal/interval"
	"github.com/m04kA/TMS-SchedulingService/internal/service/rules"
)

// UseCase use case для получения доступных слотов преподавателя
type UseCase struct {
	sessionRepo  SessionRepository
	rulesRepo    RulesRepository
	schoolClient SchoolServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	rulesRepo RulesRepository,
	schoolClient SchoolServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		rulesRepo:    rulesRepo,
		schoolClient: schoolClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
//
// Пайплайн фильтрации фиксированный: сырые слоты из рабочих окон ->
// буферные зоны существующих сессий -> минимальное уведомление ->
// дневные/недельные лимиты. Порядок важен: лимиты применяются к уже
// отфильтрованной выдаче, а уведомление считается от одного снапшота now.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, school=%d, teacher=%d, date=%s, classType=%s",
		req.UserID, req.SchoolID, req.TeacherID, req.Date.Format(domain.DateFormat), req.ClassType)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время - один снапшот на весь запрос
	now := uc.timeProvider.Now()

	// 3. Получаем школу и ее таймзону
	school, err := uc.schoolClient.GetSchool(ctx, req.SchoolID)
	if err != nil {
		if errors.Is(err, schoolClient.ErrSchoolNotFound) {
			uc.logger.Warn("GetAvailableSlots: school id=%d not found", req.SchoolID)
			return nil, ErrSchoolNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get school id=%d: %v", req.SchoolID, err)
		return nil, fmt.Errorf("%w: failed to get school: %v", ErrInternal, err)
	}

	loc, err := time.LoadLocation(school.Timezone)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: school id=%d has invalid timezone %q: %v",
			req.SchoolID, school.Timezone, err)
		return nil, fmt.Errorf("%w: invalid school timezone: %v", ErrInternal, err)
	}

	// 4. Дата в прошлом - пустая выдача
	if isDateInPast(req.Date, now, loc) {
		return uc.emptyResponse(req), nil
	}

	// 5. Получаем рабочее расписание преподавателя
	schedule, err := uc.schoolClient.GetTeacherSchedule(ctx, req.SchoolID, req.TeacherID)
	if err != nil {
		if errors.Is(err, schoolClient.ErrTeacherNotFound) {
			uc.logger.Warn("GetAvailableSlots: teacher id=%d not found in school id=%d",
				req.TeacherID, req.SchoolID)
			return nil, ErrTeacherNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get teacher schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get teacher schedule: %v", ErrInternal, err)
	}

	day := schedule.ForWeekday(req.Date.Weekday())
	if !day.IsAvailable {
		uc.logger.Info("GetAvailableSlots: teacher id=%d does not work on %s",
			req.TeacherID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req), nil
	}

	// 6. Разрешаем эффективные правила для комбинации школа/преподаватель/тип
	schoolLayer, teacherLayer, classLayer, err := uc.rulesRepo.GetLayers(ctx, req.SchoolID, &req.TeacherID, &req.ClassType)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get rule layers: %v", err)
		return nil, fmt.Errorf("%w: failed to get rule layers: %v", ErrInternal, err)
	}
	resolved := rules.Resolve(req.ClassType, schoolLayer, teacherLayer, classLayer)

	// 7. Генерируем сырые слоты из рабочих окон
	rawSlots, err := generateRawSlots(day, req.Date, req.DurationMinutes, loc)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 8. Сессии преподавателя на соседние дни тоже нужны: сессия, перешедшая
	// через полночь, и буфер на границе суток влияют на выдачу
	from := req.Date.AddDate(0, 0, -1)
	to := req.Date.AddDate(0, 0, 1)

	teacherSessions, err := uc.sessionRepo.GetForTeacherInRange(ctx, req.TeacherID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get teacher sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to get teacher sessions: %v", ErrInternal, err)
	}

	// 9. Шаг 1: буферные зоны
	slots := applyBufferTimeToSlots(rawSlots, sessionSpans(teacherSessions, loc), resolved.BufferMinutes)

	// 9.1. Занятость студента, если студент указан
	if req.StudentID != nil {
		studentSessions, err := uc.sessionRepo.GetForStudentsInRange(ctx, []int64{*req.StudentID}, from, to)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get student sessions: %v", err)
			return nil, fmt.Errorf("%w: failed to get student sessions: %v", ErrInternal, err)
		}
		slots = filterSlotsByStudentConflicts(slots, sessionSpans(studentSessions, loc))
	}

	// 10. Шаг 2: минимальное уведомление
	slots = filterSlotsByMinimumNotice(slots, now, resolved.MinimumNoticeMinutes)

	// 11. Шаг 3: дневные и недельные лимиты
	dailyCount, err := uc.sessionRepo.CountActiveForTeacherOnDate(ctx, req.TeacherID, req.SchoolID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to count daily sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to count daily sessions: %v", ErrInternal, err)
	}

	week := interval.WeekBounds(req.Date, loc)
	weeklyCount, err := uc.sessionRepo.CountActiveForTeacherBetween(
		ctx, req.TeacherID, req.SchoolID, week.Start, week.End.AddDate(0, 0, -1))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to count weekly sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to count weekly sessions: %v", ErrInternal, err)
	}

	slots = applyBookingLimitsToAvailability(slots, resolved, dailyCount, weeklyCount)

	uc.logger.Info("GetAvailableSlots: %d slots for school=%d, teacher=%d, date=%s",
		len(slots), req.SchoolID, req.TeacherID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      req.Date,
		SchoolID:  req.SchoolID,
		TeacherID: req.TeacherID,
		Slots:     toSlotModels(slots, req.DurationMinutes),
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request) *Response {
	return &Response{
		Date:      req.Date,
		SchoolID:  req.SchoolID,
		TeacherID: req.TeacherID,
		Slots:     []Slot{},
	}
}
