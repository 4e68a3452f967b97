package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/integrations/schoolservice"
	"github.com/m04kA/TMS-SchedulingService/internal/interval"
	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

func testDate(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func mustSpan(t *testing.T, day int, start, end string) interval.Span {
	t.Helper()
	s, err := interval.NormalizeDayBoundary(testDate(day), types.TimeString(start), types.TimeString(end), time.UTC)
	require.NoError(t, err)
	return s
}

func TestGenerateRawSlots_FixedStepWithinWindows(t *testing.T) {
	day := schoolservice.DayAvailability{
		IsAvailable: true,
		Windows: []schoolservice.TimeWindow{
			{Start: "09:00", End: "12:00"},
			{Start: "14:00", End: "15:30"},
		},
	}

	slots, err := generateRawSlots(day, testDate(12), 60, time.UTC)

	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, mustSpan(t, 12, "09:00", "10:00"), slots[0])
	assert.Equal(t, mustSpan(t, 12, "10:00", "11:00"), slots[1])
	assert.Equal(t, mustSpan(t, 12, "11:00", "12:00"), slots[2])
	// Во втором окне помещается только один час, хвост 30 минут отброшен
	assert.Equal(t, mustSpan(t, 12, "14:00", "15:00"), slots[3])
}

func TestGenerateRawSlots_WindowCrossingMidnight(t *testing.T) {
	day := schoolservice.DayAvailability{
		IsAvailable: true,
		Windows:     []schoolservice.TimeWindow{{Start: "22:00", End: "01:00"}},
	}

	slots, err := generateRawSlots(day, testDate(12), 60, time.UTC)

	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, mustSpan(t, 12, "23:00", "00:00"), slots[1])
	assert.Equal(t, 13, slots[2].End.Day(), "last slot ends on the following day")
}

func TestGenerateRawSlots_UnavailableDay(t *testing.T) {
	day := schoolservice.DayAvailability{IsAvailable: false}

	slots, err := generateRawSlots(day, testDate(12), 60, time.UTC)

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateRawSlots_InvalidWindowTime(t *testing.T) {
	day := schoolservice.DayAvailability{
		IsAvailable: true,
		Windows:     []schoolservice.TimeWindow{{Start: "9:00", End: "12:00"}},
	}

	_, err := generateRawSlots(day, testDate(12), 60, time.UTC)

	assert.Error(t, err)
}

func TestApplyBufferTimeToSlots(t *testing.T) {
	slots := []interval.Span{
		mustSpan(t, 12, "09:00", "10:00"),
		mustSpan(t, 12, "10:00", "11:00"),
		mustSpan(t, 12, "11:00", "12:00"),
		mustSpan(t, 12, "12:00", "13:00"),
	}
	busy := []interval.Span{mustSpan(t, 12, "10:00", "11:00")}

	filtered := applyBufferTimeToSlots(slots, busy, 15)

	// Зона [09:45, 11:15) задевает первые три слота
	require.Len(t, filtered, 1)
	assert.Equal(t, mustSpan(t, 12, "12:00", "13:00"), filtered[0])
}

func TestApplyBufferTimeToSlots_ZeroBufferKeepsAdjacent(t *testing.T) {
	slots := []interval.Span{
		mustSpan(t, 12, "09:00", "10:00"),
		mustSpan(t, 12, "10:00", "11:00"),
	}
	busy := []interval.Span{mustSpan(t, 12, "10:00", "11:00")}

	filtered := applyBufferTimeToSlots(slots, busy, 0)

	require.Len(t, filtered, 1)
	assert.Equal(t, mustSpan(t, 12, "09:00", "10:00"), filtered[0])
}

func TestFilterSlotsByStudentConflicts_NoBufferApplied(t *testing.T) {
	slots := []interval.Span{
		mustSpan(t, 12, "09:00", "10:00"),
		mustSpan(t, 12, "10:00", "11:00"),
	}
	busy := []interval.Span{mustSpan(t, 12, "10:30", "11:30")}

	filtered := filterSlotsByStudentConflicts(slots, busy)

	require.Len(t, filtered, 1)
	assert.Equal(t, mustSpan(t, 12, "09:00", "10:00"), filtered[0])
}

func TestFilterSlotsByMinimumNotice(t *testing.T) {
	slots := []interval.Span{
		mustSpan(t, 12, "09:00", "10:00"),
		mustSpan(t, 12, "10:00", "11:00"),
		mustSpan(t, 12, "11:00", "12:00"),
	}
	now := time.Date(2026, time.March, 12, 8, 0, 0, 0, time.UTC)

	filtered := filterSlotsByMinimumNotice(slots, now, 120)

	// Граница 10:00 включительно: слот, начинающийся ровно на границе, допустим
	require.Len(t, filtered, 2)
	assert.Equal(t, mustSpan(t, 12, "10:00", "11:00"), filtered[0])
}

func TestApplyBookingLimitsToAvailability(t *testing.T) {
	slots := []interval.Span{mustSpan(t, 12, "09:00", "10:00")}
	rules := domain.SchedulingRuleSet{DailyBookingLimit: 3, WeeklyBookingLimit: 10}

	assert.Len(t, applyBookingLimitsToAvailability(slots, rules, 2, 5), 1)
	assert.Empty(t, applyBookingLimitsToAvailability(slots, rules, 3, 5))
	assert.Empty(t, applyBookingLimitsToAvailability(slots, rules, 2, 10))

	unlimited := domain.SchedulingRuleSet{}
	assert.Len(t, applyBookingLimitsToAvailability(slots, unlimited, 100, 100), 1)
}

func TestSessionSpans_SkipsInactiveAndBroken(t *testing.T) {
	sessions := []*domain.Session{
		{ID: 1, Date: testDate(12), StartTime: "10:00", EndTime: "11:00", Status: domain.StatusScheduled},
		{ID: 2, Date: testDate(12), StartTime: "12:00", EndTime: "13:00", Status: domain.StatusCancelledByTeacher},
		{ID: 3, Date: testDate(12), StartTime: "bad", EndTime: "13:00", Status: domain.StatusScheduled},
	}

	spans := sessionSpans(sessions, time.UTC)

	require.Len(t, spans, 1)
	assert.Equal(t, mustSpan(t, 12, "10:00", "11:00"), spans[0])
}
