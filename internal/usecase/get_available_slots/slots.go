package get_available_slots

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/integrations/schoolservice"
	"github.com/m04kA/TMS-SchedulingService/internal/interval"
	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// generateRawSlots генерирует все возможные слоты на день из рабочих окон
// преподавателя. Слоты идут с фиксированным шагом durationMinutes от начала
// каждого окна; окно, уходящее за полночь, нормализуется на следующий день.
func generateRawSlots(
	day schoolservice.DayAvailability,
	date time.Time,
	durationMinutes int,
	loc *time.Location,
) ([]interval.Span, error) {
	if !day.IsAvailable {
		return []interval.Span{}, nil
	}

	step := time.Duration(durationMinutes) * time.Minute
	slots := make([]interval.Span, 0)

	for _, window := range day.Windows {
		start, err := types.NewTimeStringFromString(window.Start)
		if err != nil {
			return nil, err
		}
		end, err := types.NewTimeStringFromString(window.End)
		if err != nil {
			return nil, err
		}

		span, err := interval.NormalizeDayBoundary(date, start, end, loc)
		if err != nil {
			return nil, err
		}
		if !span.IsValid() {
			continue
		}

		for cursor := span.Start; !cursor.Add(step).After(span.End); cursor = cursor.Add(step) {
			slots = append(slots, interval.Span{Start: cursor, End: cursor.Add(step)})
		}
	}

	return slots, nil
}

// sessionSpans нормализует активные сессии в абсолютные интервалы.
// Сессии с некорректным временем пропускаются.
func sessionSpans(sessions []*domain.Session, loc *time.Location) []interval.Span {
	spans := make([]interval.Span, 0, len(sessions))

	for _, session := range sessions {
		if !session.IsActive() {
			continue
		}
		span, err := interval.NormalizeDayBoundary(session.Date, session.StartTime, session.EndTime, loc)
		if err != nil {
			continue
		}
		spans = append(spans, span)
	}

	return spans
}

// applyBufferTimeToSlots отбрасывает слоты, попадающие в существующие сессии
// преподавателя или их буферные зоны. Первый шаг пайплайна доступности.
func applyBufferTimeToSlots(slots, busy []interval.Span, bufferMinutes int) []interval.Span {
	result := make([]interval.Span, 0, len(slots))

	for _, slot := range slots {
		if len(interval.BufferImpact(slot, busy, bufferMinutes)) == 0 {
			result = append(result, slot)
		}
	}

	return result
}

// filterSlotsByStudentConflicts отбрасывает слоты, пересекающиеся с сессиями
// студента. Буфер к студентам не применяется - проверяется точное пересечение.
func filterSlotsByStudentConflicts(slots, busy []interval.Span) []interval.Span {
	result := make([]interval.Span, 0, len(slots))

	for _, slot := range slots {
		conflict := false
		for _, b := range busy {
			if interval.Overlaps(slot, b) {
				conflict = true
				break
			}
		}
		if !conflict {
			result = append(result, slot)
		}
	}

	return result
}

// filterSlotsByMinimumNotice оставляет слоты, начинающиеся не раньше
// now + minimumNotice. Второй шаг пайплайна: один снапшот now на весь запрос,
// чтобы граница не плыла между слотами.
func filterSlotsByMinimumNotice(slots []interval.Span, now time.Time, noticeMinutes int) []interval.Span {
	earliest := now.Add(time.Duration(noticeMinutes) * time.Minute)
	result := make([]interval.Span, 0, len(slots))

	for _, slot := range slots {
		if !slot.Start.Before(earliest) {
			result = append(result, slot)
		}
	}

	return result
}

// applyBookingLimitsToAvailability обнуляет выдачу, если дневной или недельный
// лимит преподавателя уже выбран. Последний шаг пайплайна.
func applyBookingLimitsToAvailability(
	slots []interval.Span,
	rules domain.SchedulingRuleSet,
	dailyCount, weeklyCount int,
) []interval.Span {
	if rules.HasDailyLimit() && dailyCount >= rules.DailyBookingLimit {
		return []interval.Span{}
	}
	if rules.HasWeeklyLimit() && weeklyCount >= rules.WeeklyBookingLimit {
		return []interval.Span{}
	}
	return slots
}

// toSlotModels конвертирует интервалы в DTO слотов
func toSlotModels(slots []interval.Span, durationMinutes int) []Slot {
	result := make([]Slot, 0, len(slots))

	for _, slot := range slots {
		result = append(result, Slot{
			StartTime:       slot.Start.Format(domain.TimeFormat),
			EndTime:         slot.End.Format(domain.TimeFormat),
			DurationMinutes: durationMinutes,
		})
	}

	return result
}
