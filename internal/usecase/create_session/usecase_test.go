package create_session

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

	created *domain.Session
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	created := *session
	created.ID = 1000
	created.CreatedAt = time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)
	f.created = &created
	return &created, nil
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

// fakeTxManager прогоняет callback без настоящей транзакции
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func testDate(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func newTestUseCase(repo *fakeSessionRepo, rules *fakeRulesRepo, tx *fakeTxManager, now time.Time) *UseCase {
	client := &fakeSchoolClient{school: &schoolservice.School{ID: 1, Timezone: "UTC"}}
	uc := NewUseCase(repo, rules, conflicts.NewService(noopLogger{}), client, tx, noopLogger{})
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

func TestExecute_CreatesSession(t *testing.T) {
	repo := &fakeSessionRepo{}
	tx := &fakeTxManager{}
	uc := newTestUseCase(repo, &fakeRulesRepo{}, tx,
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	resp, err := uc.Execute(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1000), resp.ID)
	assert.Equal(t, domain.StatusScheduled, resp.Status)
	assert.Equal(t, "2026-03-12", resp.Date)
	assert.Equal(t, "14:00", resp.StartTime)
	assert.Equal(t, 1, tx.calls, "check and insert must run inside one transaction")
	require.NotNil(t, repo.created)
	assert.Equal(t, []int64{101}, repo.created.StudentIDs)
}

func TestExecute_TeacherBusy(t *testing.T) {
	repo := &fakeSessionRepo{
		teacherSessions: []*domain.Session{
			{ID: 5, TeacherID: 7, SchoolID: 1, StudentIDs: []int64{202}, Date: testDate(12),
				StartTime: "14:30", EndTime: "15:30", Status: domain.StatusScheduled},
		},
	}
	uc := newTestUseCase(repo, &fakeRulesRepo{}, &fakeTxManager{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrTeacherBusy)
	assert.Nil(t, repo.created, "no session may be written on conflict")
}

func TestExecute_StudentBusy(t *testing.T) {
	repo := &fakeSessionRepo{
		studentSessions: []*domain.Session{
			{ID: 6, TeacherID: 99, SchoolID: 2, StudentIDs: []int64{101}, Date: testDate(12),
				StartTime: "14:00", EndTime: "15:00", Status: domain.StatusScheduled},
		},
	}
	uc := newTestUseCase(repo, &fakeRulesRepo{}, &fakeTxManager{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrStudentBusy)
}

func TestExecute_BufferViolation(t *testing.T) {
	repo := &fakeSessionRepo{
		teacherSessions: []*domain.Session{
			{ID: 7, TeacherID: 7, SchoolID: 1, StudentIDs: []int64{202}, Date: testDate(12),
				StartTime: "13:00", EndTime: "13:50", Status: domain.StatusScheduled},
		},
	}
	uc := newTestUseCase(repo, &fakeRulesRepo{}, &fakeTxManager{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrBufferViolation)
}

func TestExecute_TooLateToBook(t *testing.T) {
	uc := newTestUseCase(&fakeSessionRepo{}, &fakeRulesRepo{}, &fakeTxManager{},
		time.Date(2026, time.March, 12, 13, 30, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_DailyLimitReached(t *testing.T) {
	repo := &fakeSessionRepo{dailyCount: 8}
	uc := newTestUseCase(repo, &fakeRulesRepo{}, &fakeTxManager{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrDailyLimitReached)
}

func TestExecute_WeeklyLimitReached(t *testing.T) {
	repo := &fakeSessionRepo{weeklyCount: 40}
	uc := newTestUseCase(repo, &fakeRulesRepo{}, &fakeTxManager{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrWeeklyLimitReached)
}

func TestExecute_InvalidTimeBoundary(t *testing.T) {
	uc := newTestUseCase(&fakeSessionRepo{}, &fakeRulesRepo{}, &fakeTxManager{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	req := baseRequest()
	req.EndTime = "14:00"

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidTimeBoundary)
}

func TestExecute_MidnightCrossingSessionIsBookable(t *testing.T) {
	repo := &fakeSessionRepo{}
	uc := newTestUseCase(repo, &fakeRulesRepo{}, &fakeTxManager{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	req := baseRequest()
	req.StartTime = "23:30"
	req.EndTime = "00:30"

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "23:30", resp.StartTime)
	assert.Equal(t, "00:30", resp.EndTime)
}

func TestExecute_NonGroupRequiresSingleStudent(t *testing.T) {
	uc := newTestUseCase(&fakeSessionRepo{}, &fakeRulesRepo{}, &fakeTxManager{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))

	req := baseRequest()
	req.StudentIDs = []int64{101, 102}
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = baseRequest()
	req.ClassType = domain.ClassTypeGroup
	req.StudentIDs = []int64{101, 102}
	_, err = uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_TrialUsesRelaxedNotice(t *testing.T) {
	// 30 минут до начала: для individual это нарушение (120 минут),
	// для trial со встроенным уведомлением 30 минут - допустимо
	now := time.Date(2026, time.March, 12, 13, 30, 0, 0, time.UTC)

	uc := newTestUseCase(&fakeSessionRepo{}, &fakeRulesRepo{}, &fakeTxManager{}, now)

	req := baseRequest()
	req.ClassType = domain.ClassTypeTrial

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.ClassTypeTrial, resp.ClassType)
}

func TestExecute_SchoolNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeSessionRepo{}, &fakeRulesRepo{}, &fakeTxManager{},
		time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC))
	uc.schoolClient = &fakeSchoolClient{err: schoolservice.ErrSchoolNotFound}

	_, err := uc.Execute(context.Background(), baseRequest())

	assert.ErrorIs(t, err, ErrSchoolNotFound)
}
