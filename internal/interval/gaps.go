package interval

import (
	"sort"
	"time"
)

// AvailableGaps walks the day window and returns every contiguous free
// span of at least requiredDurationMinutes, after expanding each existing
// span by bufferMinutes on both sides.
//
// Конструктивный аналог проверки конфликтов: вместо отклонения одного
// кандидата перечисляет все допустимые окна. Увеличение буфера может
// только сузить (но не расширить) результат.
func AvailableGaps(day Span, existing []Span, bufferMinutes, requiredDurationMinutes int) []Span {
	required := time.Duration(requiredDurationMinutes) * time.Minute
	if !day.IsValid() || required <= 0 {
		return []Span{}
	}

	busy := make([]Span, 0, len(existing))
	for _, span := range existing {
		zone := span.Expand(bufferMinutes)
		// Отбрасываем зоны, не задевающие день
		if !Overlaps(zone, day) {
			continue
		}
		busy = append(busy, clip(zone, day))
	}

	sort.Slice(busy, func(i, j int) bool {
		return busy[i].Start.Before(busy[j].Start)
	})

	gaps := make([]Span, 0)
	cursor := day.Start

	for _, zone := range busy {
		if zone.Start.After(cursor) {
			gap := Span{Start: cursor, End: zone.Start}
			if gap.Duration() >= required {
				gaps = append(gaps, gap)
			}
		}
		if zone.End.After(cursor) {
			cursor = zone.End
		}
	}

	if day.End.After(cursor) {
		gap := Span{Start: cursor, End: day.End}
		if gap.Duration() >= required {
			gaps = append(gaps, gap)
		}
	}

	return gaps
}

// clip ограничивает span границами bounds
func clip(s, bounds Span) Span {
	if s.Start.Before(bounds.Start) {
		s.Start = bounds.Start
	}
	if s.End.After(bounds.End) {
		s.End = bounds.End
	}
	return s
}
