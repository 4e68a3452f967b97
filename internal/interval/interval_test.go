package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

func ts(s string) types.TimeString {
	return types.TimeString(s)
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func span(t *testing.T, loc *time.Location, day int, start, end string) Span {
	t.Helper()
	date := time.Date(2026, time.March, day, 0, 0, 0, 0, loc)
	s, err := NormalizeDayBoundary(date, ts(start), ts(end), loc)
	require.NoError(t, err)
	return s
}

func TestOverlaps_PartialAndContained(t *testing.T) {
	loc := time.UTC

	a := span(t, loc, 10, "09:00", "11:00")
	b := span(t, loc, 10, "10:00", "12:00")
	c := span(t, loc, 10, "09:30", "10:30")

	assert.True(t, Overlaps(a, b))
	assert.True(t, Overlaps(b, a), "overlap must be symmetric")
	assert.Equal(t, OverlapPartial, Detect(a, b))
	assert.Equal(t, OverlapContained, Detect(a, c))
	assert.Equal(t, Detect(c, a), Detect(a, c))
}

func TestOverlaps_AdjacentSpansDoNotOverlap(t *testing.T) {
	loc := time.UTC

	a := span(t, loc, 10, "09:00", "10:00")
	b := span(t, loc, 10, "10:00", "11:00")

	assert.False(t, Overlaps(a, b))
	assert.False(t, Overlaps(b, a))
	assert.Equal(t, OverlapNone, Detect(a, b))
}

func TestNormalizeDayBoundary_CrossesMidnight(t *testing.T) {
	loc := time.UTC

	s := span(t, loc, 10, "23:30", "00:30")

	assert.True(t, s.IsValid())
	assert.Equal(t, 10, s.Start.Day())
	assert.Equal(t, 11, s.End.Day(), "end must land on the following day")
	assert.Equal(t, time.Hour, s.Duration())
}

func TestNormalizeDayBoundary_MidnightEnd(t *testing.T) {
	loc := time.UTC

	s := span(t, loc, 10, "22:00", "00:00")

	assert.True(t, s.IsValid())
	assert.Equal(t, 11, s.End.Day())
	assert.Equal(t, 2*time.Hour, s.Duration())
}

func TestNormalizeDayBoundary_ZeroSpanIsInvalid(t *testing.T) {
	loc := time.UTC

	s := span(t, loc, 10, "10:00", "10:00")

	assert.False(t, s.IsValid())
	assert.Equal(t, time.Duration(0), s.Duration())
}

func TestNormalizeDayBoundary_DSTTransition(t *testing.T) {
	loc := mustLocation(t, "Europe/Berlin")

	// Ночь перехода на летнее время: 29.03.2026 час 02:00-03:00 отсутствует
	s := span(t, loc, 28, "23:30", "03:30")

	assert.True(t, s.IsValid())
	assert.Equal(t, 29, s.End.Day())
	// Стена показывает 4 часа, фактическая длительность на час короче
	assert.Equal(t, 3*time.Hour, s.Duration())
}

func TestMidnightCrossingOverlapsNextDaySession(t *testing.T) {
	loc := time.UTC

	late := span(t, loc, 10, "23:30", "00:30")
	early := span(t, loc, 11, "00:15", "00:45")

	assert.True(t, Overlaps(late, early))
	assert.Equal(t, OverlapPartial, Detect(late, early))
}

func TestBufferImpact_AdjacencyInsideBufferZone(t *testing.T) {
	loc := time.UTC

	existing := []Span{span(t, loc, 10, "14:00", "15:00")}

	// 15:15 при буфере 15 минут граничит с зоной [13:45, 15:15) - допустимо
	ok := span(t, loc, 10, "15:15", "16:00")
	assert.Empty(t, BufferImpact(ok, existing, 15))

	// 15:10 попадает внутрь буферной зоны
	tooClose := span(t, loc, 10, "15:10", "16:00")
	violations := BufferImpact(tooClose, existing, 15)
	require.Len(t, violations, 1)
	assert.Equal(t, 0, violations[0].Index)
	assert.False(t, violations[0].Direct, "buffer hit is not a direct overlap")

	// Прямое пересечение с самой сессией
	direct := span(t, loc, 10, "14:30", "15:30")
	violations = BufferImpact(direct, existing, 15)
	require.Len(t, violations, 1)
	assert.True(t, violations[0].Direct)
}

func TestBufferImpact_ZeroBufferKeepsAdjacencyLegal(t *testing.T) {
	loc := time.UTC

	existing := []Span{span(t, loc, 10, "14:00", "15:00")}
	candidate := span(t, loc, 10, "15:00", "16:00")

	assert.Empty(t, BufferImpact(candidate, existing, 0))
}

func TestWeekBounds_MondayStart(t *testing.T) {
	loc := time.UTC

	// 12.03.2026 - четверг
	thursday := time.Date(2026, time.March, 12, 15, 30, 0, 0, loc)
	week := WeekBounds(thursday, loc)

	assert.Equal(t, time.Monday, week.Start.Weekday())
	assert.Equal(t, 9, week.Start.Day())
	assert.Equal(t, 16, week.End.Day())
	assert.Equal(t, 7*24*time.Hour, week.Duration())

	// Воскресенье относится к той же неделе, что и предыдущий понедельник
	sunday := time.Date(2026, time.March, 15, 23, 59, 0, 0, loc)
	assert.Equal(t, week.Start, WeekBounds(sunday, loc).Start)

	// Понедельник открывает новую неделю
	monday := time.Date(2026, time.March, 16, 0, 0, 0, 0, loc)
	assert.Equal(t, week.End, WeekBounds(monday, loc).Start)
}

func TestDayBounds(t *testing.T) {
	loc := time.UTC

	moment := time.Date(2026, time.March, 10, 18, 45, 0, 0, loc)
	day := DayBounds(moment, loc)

	assert.Equal(t, 24*time.Hour, day.Duration())
	assert.True(t, Overlaps(day, Span{Start: moment, End: moment.Add(time.Minute)}))
	assert.Equal(t, 0, day.Start.Hour())
}

func TestSameDay(t *testing.T) {
	loc := time.UTC

	a := time.Date(2026, time.March, 10, 23, 59, 0, 0, loc)
	b := time.Date(2026, time.March, 10, 0, 1, 0, 0, loc)
	c := time.Date(2026, time.March, 11, 0, 1, 0, 0, loc)

	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(a, c, loc))
}
