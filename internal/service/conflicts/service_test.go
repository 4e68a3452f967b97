package conflicts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/interval"
	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

func newTestService() *Service {
	return NewService(noopLogger{})
}

func testDate(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func testSession(id, teacherID int64, students []int64, day int, start, end string, status domain.SessionStatus) *domain.Session {
	return &domain.Session{
		ID:         id,
		TeacherID:  teacherID,
		SchoolID:   1,
		StudentIDs: students,
		Date:       testDate(day),
		StartTime:  types.TimeString(start),
		EndTime:    types.TimeString(end),
		ClassType:  domain.ClassTypeIndividual,
		Status:     status,
	}
}

func candidateSpan(t *testing.T, day int, start, end string) interval.Span {
	t.Helper()
	s, err := interval.NormalizeDayBoundary(testDate(day), types.TimeString(start), types.TimeString(end), time.UTC)
	require.NoError(t, err)
	return s
}

func baseParams(t *testing.T) CheckParams {
	t.Helper()
	return CheckParams{
		Candidate:  candidateSpan(t, 10, "14:00", "15:00"),
		TeacherID:  7,
		StudentIDs: []int64{101},
		Rules: domain.SchedulingRuleSet{
			MinimumNoticeMinutes: 120,
			BufferMinutes:        15,
			DailyBookingLimit:    8,
			WeeklyBookingLimit:   40,
		},
		Now:      time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC),
		Location: time.UTC,
	}
}

func TestCheckBooking_NoConflict(t *testing.T) {
	svc := newTestService()

	report := svc.CheckBooking(baseParams(t))

	assert.False(t, report.HasConflict)
	assert.Equal(t, domain.ConflictNone, report.Type)
}

func TestCheckBooking_InvalidTimeBoundary(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	p.Candidate = candidateSpan(t, 10, "14:00", "14:00")

	report := svc.CheckBooking(p)

	require.True(t, report.HasConflict)
	assert.Equal(t, domain.ConflictInvalidTimeBoundary, report.Type)
}

func TestCheckBooking_StudentDoubleBooking(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	// Сессия студента у другого преподавателя и в другой школе
	other := testSession(55, 99, []int64{101}, 10, "14:30", "15:30", domain.StatusScheduled)
	other.SchoolID = 2
	p.ExistingSessions = []*domain.Session{other}

	report := svc.CheckBooking(p)

	require.True(t, report.HasConflict)
	assert.Equal(t, domain.ConflictStudentDoubleBooking, report.Type)
	require.NotNil(t, report.Detail)
	assert.Equal(t, int64(55), *report.Detail.ConflictingSessionID)
	assert.Equal(t, int64(101), *report.Detail.ConflictingStudentID)
}

func TestCheckBooking_StudentCheckedBeforeTeacher(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	// Одна и та же сессия дает и студенческий, и преподавательский конфликт
	p.ExistingSessions = []*domain.Session{
		testSession(55, 7, []int64{101}, 10, "14:00", "15:00", domain.StatusScheduled),
	}

	report := svc.CheckBooking(p)

	require.True(t, report.HasConflict)
	assert.Equal(t, domain.ConflictStudentDoubleBooking, report.Type)
}

func TestCheckBooking_TeacherDoubleBooking(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	p.ExistingSessions = []*domain.Session{
		testSession(56, 7, []int64{202}, 10, "14:30", "15:30", domain.StatusScheduled),
	}

	report := svc.CheckBooking(p)

	require.True(t, report.HasConflict)
	assert.Equal(t, domain.ConflictTeacherDoubleBooking, report.Type)
	assert.Equal(t, int64(56), *report.Detail.ConflictingSessionID)
}

func TestCheckBooking_BufferViolation(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	// Сессия заканчивается в 13:55: кандидат на 14:00 попадает в буфер 15 минут
	p.ExistingSessions = []*domain.Session{
		testSession(57, 7, []int64{202}, 10, "13:00", "13:55", domain.StatusScheduled),
	}

	report := svc.CheckBooking(p)

	require.True(t, report.HasConflict)
	assert.Equal(t, domain.ConflictBufferViolation, report.Type)
	assert.Equal(t, 15, *report.Detail.RequiredBufferMinutes)
}

func TestCheckBooking_ZeroBufferAllowsBackToBack(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	p.Rules.BufferMinutes = 0
	p.ExistingSessions = []*domain.Session{
		testSession(58, 7, []int64{202}, 10, "13:00", "14:00", domain.StatusScheduled),
	}

	report := svc.CheckBooking(p)

	assert.False(t, report.HasConflict)
}

func TestCheckBooking_CancelledSessionsDoNotConflict(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	p.ExistingSessions = []*domain.Session{
		testSession(59, 7, []int64{101}, 10, "14:00", "15:00", domain.StatusCancelledByStudent),
		testSession(60, 7, []int64{101}, 10, "14:00", "15:00", domain.StatusNoShow),
	}

	report := svc.CheckBooking(p)

	assert.False(t, report.HasConflict)
}

func TestCheckBooking_MidnightCrossingSessionConflicts(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	p.Candidate = candidateSpan(t, 11, "00:15", "01:00")
	// Сессия предыдущего дня переваливает за полночь
	p.ExistingSessions = []*domain.Session{
		testSession(61, 7, []int64{202}, 10, "23:30", "00:30", domain.StatusScheduled),
	}
	p.Now = time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)

	report := svc.CheckBooking(p)

	require.True(t, report.HasConflict)
	assert.Equal(t, domain.ConflictTeacherDoubleBooking, report.Type)
}

func TestCheckBooking_NoticeViolation(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	p.Now = time.Date(2026, time.March, 10, 13, 0, 0, 0, time.UTC)

	report := svc.CheckBooking(p)

	require.True(t, report.HasConflict)
	assert.Equal(t, domain.ConflictNoticeViolation, report.Type)
	assert.Equal(t, 120, *report.Detail.RequiredNoticeMinutes)
	require.NotNil(t, report.Detail.EarliestAllowedStart)
	assert.Equal(t, time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC), *report.Detail.EarliestAllowedStart)
}

func TestCheckBooking_NoticeBoundaryIsAllowed(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	// Ровно за 120 минут до начала: граница допустима
	p.Now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	report := svc.CheckBooking(p)

	assert.False(t, report.HasConflict)
}

func TestCheckBooking_DailyLimitAtCount(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	p.Rules.DailyBookingLimit = 3
	p.DailyCount = 3

	report := svc.CheckBooking(p)

	require.True(t, report.HasConflict)
	assert.Equal(t, domain.ConflictDailyLimitExceeded, report.Type)
	assert.Equal(t, 3, *report.Detail.Limit)
	assert.Equal(t, 3, *report.Detail.CurrentCount)
}

func TestCheckBooking_DailyCheckedBeforeWeekly(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	p.Rules.DailyBookingLimit = 3
	p.Rules.WeeklyBookingLimit = 10
	p.DailyCount = 3
	p.WeeklyCount = 10

	report := svc.CheckBooking(p)

	require.True(t, report.HasConflict)
	assert.Equal(t, domain.ConflictDailyLimitExceeded, report.Type)
}

func TestCheckBooking_WeeklyLimitAtCount(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	p.Rules.WeeklyBookingLimit = 10
	p.WeeklyCount = 10

	report := svc.CheckBooking(p)

	require.True(t, report.HasConflict)
	assert.Equal(t, domain.ConflictWeeklyLimitExceeded, report.Type)
}

func TestCheckBooking_ZeroLimitsAreUnlimited(t *testing.T) {
	svc := newTestService()

	p := baseParams(t)
	p.Rules.DailyBookingLimit = 0
	p.Rules.WeeklyBookingLimit = 0
	p.DailyCount = 500
	p.WeeklyCount = 500

	report := svc.CheckBooking(p)

	assert.False(t, report.HasConflict)
}

func TestDetectStudentConflicts_IgnoresOtherStudents(t *testing.T) {
	svc := newTestService()

	existing := []*domain.Session{
		testSession(70, 9, []int64{303}, 10, "14:00", "15:00", domain.StatusScheduled),
		testSession(71, 9, []int64{101, 303}, 10, "14:00", "15:00", domain.StatusScheduled),
	}

	matches := svc.DetectStudentConflicts(101, candidateSpan(t, 10, "14:30", "15:30"), existing, time.UTC)

	require.Len(t, matches, 1)
	assert.Equal(t, int64(71), matches[0].ID)
}

func TestDetectStudentConflicts_ExactOverlapNoBuffer(t *testing.T) {
	svc := newTestService()

	existing := []*domain.Session{
		testSession(72, 9, []int64{101}, 10, "13:00", "14:00", domain.StatusScheduled),
	}

	// Граничащий интервал - не конфликт, буфер к студентам не применяется
	matches := svc.DetectStudentConflicts(101, candidateSpan(t, 10, "14:00", "15:00"), existing, time.UTC)

	assert.Empty(t, matches)
}

func TestDetectTeacherConflicts_SplitsDirectAndBuffered(t *testing.T) {
	svc := newTestService()

	existing := []*domain.Session{
		testSession(80, 7, []int64{101}, 10, "14:30", "15:30", domain.StatusScheduled),
		testSession(81, 7, []int64{202}, 10, "15:45", "16:45", domain.StatusScheduled),
		testSession(82, 8, []int64{303}, 10, "14:00", "15:00", domain.StatusScheduled),
	}

	direct, buffered := svc.DetectTeacherConflicts(7, candidateSpan(t, 10, "14:00", "15:00"), existing, 60, time.UTC)

	require.Len(t, direct, 1)
	assert.Equal(t, int64(80), direct[0].ID)
	require.Len(t, buffered, 1)
	assert.Equal(t, int64(81), buffered[0].ID)
}

func TestDetectTeacherConflicts_SkipsSessionsWithBrokenTime(t *testing.T) {
	svc := newTestService()

	broken := testSession(90, 7, []int64{101}, 10, "14:00", "15:00", domain.StatusScheduled)
	broken.StartTime = "garbage"

	direct, buffered := svc.DetectTeacherConflicts(7, candidateSpan(t, 10, "14:00", "15:00"), []*domain.Session{broken}, 15, time.UTC)

	assert.Empty(t, direct)
	assert.Empty(t, buffered)
}
