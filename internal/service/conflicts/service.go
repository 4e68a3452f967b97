// Package conflicts реализует проверку конфликтов кандидата на бронирование:
// двойные бронирования студента и преподавателя, буферные зоны, минимальное
// уведомление и дневные/недельные лимиты.
//
// Сервис не имеет состояния и не выполняет I/O: все проверки - чистые функции
// над снапшотами, переданными вызывающей стороной. Гарантируется корректное
// решение для переданного снапшота; сериализуемость конкурентных бронирований
// обеспечивает вызывающая сторона (транзакционная перепроверка перед коммитом).
package conflicts

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/interval"
	"github.com/m04kA/TMS-SchedulingService/pkg/ptr"
)

// Service сервис проверки конфликтов расписания
type Service struct {
	logger Logger
}

// NewService создает новый экземпляр сервиса проверки конфликтов
func NewService(logger Logger) *Service {
	return &Service{logger: logger}
}

// CheckParams snapshot-вход для полной проверки кандидата
type CheckParams struct {
	Candidate  interval.Span // нормализованное окно кандидата
	TeacherID  int64
	StudentIDs []int64

	// Снапшот существующих сессий. Для студентов должен включать сессии
	// во ВСЕХ школах - время студента является исчерпаемым ресурсом
	// независимо от школы.
	ExistingSessions []*domain.Session

	Rules    domain.SchedulingRuleSet
	Now      time.Time
	Location *time.Location // таймзона школы, в ней нормализуются сессии

	// Счетчики уже закоммиченных бронирований преподавателя
	// на день и неделю кандидата
	DailyCount  int
	WeeklyCount int
}

// CheckBooking выполняет полную последовательность проверок кандидата
// и возвращает структурированный отчет о первом найденном нарушении.
//
// Порядок фиксированный, проверки замыкаются на первом нарушении:
// 1. Структурная валидность окна (invalid_time_boundary)
// 2. Двойное бронирование студента - самое дешевое и самое серьезное
// 3. Двойное бронирование преподавателя / буферная зона
// 4. Минимальное уведомление
// 5. Дневной лимит, затем недельный - последними, т.к. требуют внешних счетчиков
func (s *Service) CheckBooking(p CheckParams) domain.ConflictReport {
	// 1. Структурная валидность
	if !p.Candidate.IsValid() {
		return domain.NewConflict(domain.ConflictInvalidTimeBoundary, &domain.ConflictDetail{
			Message: "session end must be strictly after start",
		})
	}

	// 2. Конфликты студентов
	for _, studentID := range p.StudentIDs {
		matches := s.DetectStudentConflicts(studentID, p.Candidate, p.ExistingSessions, p.Location)
		if len(matches) > 0 {
			first := matches[0]
			detail := conflictingSessionDetail(first, p.Location)
			detail.ConflictingStudentID = ptr.Ptr(studentID)
			detail.Message = "student already has a session in this window"
			return domain.NewConflict(domain.ConflictStudentDoubleBooking, detail)
		}
	}

	// 3. Конфликты преподавателя: прямое пересечение или буферная зона
	direct, buffered := s.DetectTeacherConflicts(p.TeacherID, p.Candidate, p.ExistingSessions, p.Rules.BufferMinutes, p.Location)
	if len(direct) > 0 {
		detail := conflictingSessionDetail(direct[0], p.Location)
		detail.Message = "teacher already has a session in this window"
		return domain.NewConflict(domain.ConflictTeacherDoubleBooking, detail)
	}
	if len(buffered) > 0 {
		detail := conflictingSessionDetail(buffered[0], p.Location)
		detail.RequiredBufferMinutes = ptr.Ptr(p.Rules.BufferMinutes)
		detail.Message = "candidate falls within the buffer zone of an existing session"
		return domain.NewConflict(domain.ConflictBufferViolation, detail)
	}

	// 4. Минимальное уведомление
	earliest := p.Now.Add(time.Duration(p.Rules.MinimumNoticeMinutes) * time.Minute)
	if p.Candidate.Start.Before(earliest) {
		return domain.NewConflict(domain.ConflictNoticeViolation, &domain.ConflictDetail{
			RequiredNoticeMinutes: ptr.Ptr(p.Rules.MinimumNoticeMinutes),
			EarliestAllowedStart:  ptr.Ptr(earliest.In(p.Location)),
			Message:               "session starts sooner than the minimum notice allows",
		})
	}

	// 5. Лимиты бронирований: нарушение, если принятие еще одного
	// бронирования превысит лимит
	if p.Rules.HasDailyLimit() && p.DailyCount >= p.Rules.DailyBookingLimit {
		return domain.NewConflict(domain.ConflictDailyLimitExceeded, &domain.ConflictDetail{
			Limit:        ptr.Ptr(p.Rules.DailyBookingLimit),
			CurrentCount: ptr.Ptr(p.DailyCount),
			Message:      "daily booking limit reached for this teacher",
		})
	}
	if p.Rules.HasWeeklyLimit() && p.WeeklyCount >= p.Rules.WeeklyBookingLimit {
		return domain.NewConflict(domain.ConflictWeeklyLimitExceeded, &domain.ConflictDetail{
			Limit:        ptr.Ptr(p.Rules.WeeklyBookingLimit),
			CurrentCount: ptr.Ptr(p.WeeklyCount),
			Message:      "weekly booking limit reached for this teacher",
		})
	}

	return domain.NoConflict()
}

// DetectStudentConflicts возвращает все активные сессии студента,
// пересекающиеся с окном кандидата.
//
// Буфер к студентам НЕ применяется: студент не может быть в двух местах
// одновременно, поэтому проверяется точное пересечение. Школа не
// фильтруется - двойное бронирование студента в другой школе тоже конфликт.
func (s *Service) DetectStudentConflicts(
	studentID int64,
	candidate interval.Span,
	existing []*domain.Session,
	loc *time.Location,
) []*domain.Session {
	matches := make([]*domain.Session, 0)

	for _, session := range existing {
		if !session.IsActive() || !session.HasStudent(studentID) {
			continue
		}

		span, err := s.sessionSpan(session, loc)
		if err != nil {
			continue
		}

		if interval.Overlaps(candidate, span) {
			matches = append(matches, session)
		}
	}

	return matches
}

// DetectTeacherConflicts возвращает сессии преподавателя, конфликтующие
// с кандидатом: direct - прямые пересечения, buffered - попадания
// в буферную зону без прямого пересечения.
func (s *Service) DetectTeacherConflicts(
	teacherID int64,
	candidate interval.Span,
	existing []*domain.Session,
	bufferMinutes int,
	loc *time.Location,
) (direct []*domain.Session, buffered []*domain.Session) {
	direct = make([]*domain.Session, 0)
	buffered = make([]*domain.Session, 0)

	teacherSessions := make([]*domain.Session, 0)
	spans := make([]interval.Span, 0)

	for _, session := range existing {
		if !session.IsActive() || session.TeacherID != teacherID {
			continue
		}

		span, err := s.sessionSpan(session, loc)
		if err != nil {
			continue
		}

		teacherSessions = append(teacherSessions, session)
		spans = append(spans, span)
	}

	for _, violation := range interval.BufferImpact(candidate, spans, bufferMinutes) {
		if violation.Direct {
			direct = append(direct, teacherSessions[violation.Index])
		} else {
			buffered = append(buffered, teacherSessions[violation.Index])
		}
	}

	return direct, buffered
}

// sessionSpan нормализует сессию в абсолютный интервал с учетом
// перехода через полночь
func (s *Service) sessionSpan(session *domain.Session, loc *time.Location) (interval.Span, error) {
	span, err := interval.NormalizeDayBoundary(session.Date, session.StartTime, session.EndTime, loc)
	if err != nil {
		// Некорректно сохраненная сессия не должна ронять проверку
		s.logger.Warn("conflicts: skipping session id=%d with invalid time data: %v", session.ID, err)
		return interval.Span{}, err
	}
	return span, nil
}

// conflictingSessionDetail собирает детали по конфликтующей сессии
func conflictingSessionDetail(session *domain.Session, loc *time.Location) *domain.ConflictDetail {
	detail := &domain.ConflictDetail{
		ConflictingSessionID: ptr.Ptr(session.ID),
	}
	if span, err := interval.NormalizeDayBoundary(session.Date, session.StartTime, session.EndTime, loc); err == nil {
		detail.ConflictingStart = ptr.Ptr(span.Start)
		detail.ConflictingEnd = ptr.Ptr(span.End)
	}
	return detail
}
