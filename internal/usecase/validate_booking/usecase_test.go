package validate_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/integrations/schoolservice"
	"github.com/m04kA/TMS-SchedulingService/internal/service/conflicts"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type fakeSessionRepo struct {
	teacherSessions []*domain.Session
	studentSessions []*domain.Session
	dailyCount      int
	weeklyCount     int
}

func (f *fakeSessionRepo) GetForTeacherInRange(ctx context.Context, teacherID int64, from, to time.Time) ([]*domain.Session, error) {
	return f.teacherSessions, nil
}

func (f *fakeSessionRepo) GetForStudentsInRange(ctx context.Context, studentIDs []int64, from, to time.Time) ([]*domain.Session, error) {
	return f.studentSessions, nil
}

func (f *fakeSessionRepo) CountActiveForTeacherOnDate(ctx context.Context, teacherID, schoolID int64, date time.Time) (int, error) {
	return f.dailyCount, nil
}

func (f *fakeSessionRepo) CountActiveForTeacherBetween(ctx context.Context, teacherID, schoolID int64, from, to time.Time) (int, error) {
	return f.weeklyCount, nil
}

type fakeRulesRepo struct {
	school  *domain.RuleOverrideLayer
	teacher *domain.RuleOverrideLayer
	class   *domain.RuleOverrideLayer
}

func (f *fakeRulesRepo) GetLayers(ctx context.Context, schoolID int64, teacherID *int64, classType *domain.ClassType) (*domain.RuleOverrideLayer, *domain.RuleOverrideLayer, *domain.RuleOverrideLayer, error) {
	return f.school, f.teacher, f.class, nil
}

type fakeSchoolClient struct {
	school *schoolservice.School
	err    error
}

func (f *fakeSchoolClient) GetSchool(ctx context.Context, schoolID int64) (*schoolservice.School, error) {
	return f.school, f.err
}

func testDate(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func newTestUseCase(repo *fakeSessionRepo, rules *fakeRulesRepo, now time.Time) *UseCase {
	client := &fakeSchoolClient{school: &schoolservice.School{ID: 1, Timezone: "UTC"}}
	uc := NewUseCase(repo, rules, conflicts.NewService(noopLogger{}), client, noopLogger{})
	uc.timeProvider = &fixedTime{now: now}
	return uc
}

func baseRequest() *Request {
	return &Request{
		UserID:     1,
		SchoolID:   1,
		TeacherID:  7,
		StudentIDs: []int64{101},
		Date:       testDate(12),
		StartTime:  "14:00",
		EndTime:    "15:00",
		ClassType:  domain.ClassTypeIndividual,
	}
}

func TestExecute_ValidCandidate(t *testing.T) {
	uc := newTestUseCase(&fakeSessionRepo{}, &fakeRulesRepo{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Nil(t, resp.Conflict)
	require.NotNil(t, resp.Rules)
	assert.Equal(t, domain.DefaultBufferMinutes, resp.Rules.BufferMinutes)
}

func TestExecute_ConflictIsAResultNotAnError(t *testing.T) {
	repo := &fakeSessionRepo{
		teacherSessions: []*domain.Session{
			{ID: 50, TeacherID: 7, SchoolID: 1, StudentIDs: []int64{202}, Date: testDate(12),
				StartTime: "14:30", EndTime: "15:30", Status: domain.StatusScheduled},
		},
	}
	uc := newTestUseCase(repo, &fakeRulesRepo{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err, "a conflicting candidate is a valid response")
	assert.False(t, resp.Valid)
	require.NotNil(t, resp.Conflict)
	assert.Equal(t, domain.ConflictTeacherDoubleBooking, resp.Conflict.Type)
	assert.Equal(t, int64(50), *resp.Conflict.ConflictingSessionID)
}

func TestExecute_StudentConflictAcrossSchools(t *testing.T) {
	repo := &fakeSessionRepo{
		studentSessions: []*domain.Session{
			{ID: 51, TeacherID: 99, SchoolID: 2, StudentIDs: []int64{101}, Date: testDate(12),
				StartTime: "14:30", EndTime: "15:30", Status: domain.StatusScheduled},
		},
	}
	uc := newTestUseCase(repo, &fakeRulesRepo{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, domain.ConflictStudentDoubleBooking, resp.Conflict.Type)
	assert.Equal(t, int64(101), *resp.Conflict.ConflictingStudentID)
}

func TestExecute_NoticeViolation(t *testing.T) {
	uc := newTestUseCase(&fakeSessionRepo{}, &fakeRulesRepo{},
		time.Date(2026, time.March, 12, 13, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, domain.ConflictNoticeViolation, resp.Conflict.Type)
	assert.Equal(t, domain.DefaultMinimumNoticeMinutes, *resp.Conflict.RequiredNoticeMinutes)
}

func TestExecute_InvalidTimeBoundary(t *testing.T) {
	uc := newTestUseCase(&fakeSessionRepo{}, &fakeRulesRepo{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	req := baseRequest()
	req.EndTime = "14:00"

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, domain.ConflictInvalidTimeBoundary, resp.Conflict.Type)
}

func TestExecute_MidnightCrossingCandidate(t *testing.T) {
	repo := &fakeSessionRepo{
		teacherSessions: []*domain.Session{
			{ID: 52, TeacherID: 7, SchoolID: 1, StudentIDs: []int64{202}, Date: testDate(13),
				StartTime: "00:15", EndTime: "01:00", Status: domain.StatusScheduled},
		},
	}
	uc := newTestUseCase(repo, &fakeRulesRepo{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	req := baseRequest()
	req.StartTime = "23:30"
	req.EndTime = "00:30"

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, domain.ConflictTeacherDoubleBooking, resp.Conflict.Type)
}

func TestExecute_DailyLimit(t *testing.T) {
	repo := &fakeSessionRepo{dailyCount: 8}
	uc := newTestUseCase(repo, &fakeRulesRepo{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, domain.ConflictDailyLimitExceeded, resp.Conflict.Type)
	assert.Equal(t, 8, *resp.Conflict.Limit)
}

func TestExecute_AppliedRulesReflectHierarchy(t *testing.T) {
	buffer := 45
	rules := &fakeRulesRepo{
		teacher: &domain.RuleOverrideLayer{BufferMinutes: &buffer},
	}
	uc := newTestUseCase(&fakeSessionRepo{}, rules,
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	require.NotNil(t, resp.Rules)
	assert.Equal(t, 45, resp.Rules.BufferMinutes)
	assert.Equal(t, domain.DefaultMinimumNoticeMinutes, resp.Rules.MinimumNoticeMinutes)
}

func TestExecute_SchoolNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeSessionRepo{}, &fakeRulesRepo{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))
	uc.schoolClient = &fakeSchoolClient{err: schoolservice.ErrSchoolNotFound}

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrSchoolNotFound)
}

func TestExecute_InvalidRequest(t *testing.T) {
	uc := newTestUseCase(&fakeSessionRepo{}, &fakeRulesRepo{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	req := baseRequest()
	req.StudentIDs = nil
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = baseRequest()
	req.StartTime = "25:00"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDedupeSessions(t *testing.T) {
	shared := &domain.Session{ID: 1, TeacherID: 7, StudentIDs: []int64{101}}
	teacherOnly := &domain.Session{ID: 2, TeacherID: 7}
	studentOnly := &domain.Session{ID: 3, TeacherID: 9, StudentIDs: []int64{101}}

	merged := dedupeSessions(
		[]*domain.Session{shared, teacherOnly},
		[]*domain.Session{shared, studentOnly},
	)

	assert.Len(t, merged, 3)
}
