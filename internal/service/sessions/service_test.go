package sessions

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	sessionRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/session"
	"github.com/m04kA/TMS-SchedulingService/internal/service/sessions/models"
	"github.com/m04kA/TMS-SchedulingService/pkg/ptr"
)

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type fakeSessionRepo struct {
	session *domain.Session
	getErr  error

	cancelled       *domain.Session
	cancelledStatus domain.SessionStatus
	cancelReason    *string

	listed []*domain.Session
	filter domain.TeacherSessionsFilter
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.session, nil
}

func (f *fakeSessionRepo) Cancel(ctx context.Context, id int64, status domain.SessionStatus, reason *string) (*domain.Session, error) {
	f.cancelledStatus = status
	f.cancelReason = reason

	cancelled := *f.session
	cancelled.Status = status
	cancelled.CancellationReason = reason
	now := time.Date(2026, time.March, 11, 12, 0, 0, 0, time.UTC)
	cancelled.CancelledAt = &now
	f.cancelled = &cancelled
	return &cancelled, nil
}

func (f *fakeSessionRepo) GetByTeacherWithFilter(ctx context.Context, filter domain.TeacherSessionsFilter) ([]*domain.Session, error) {
	f.filter = filter
	return f.listed, nil
}

func scheduledSession() *domain.Session {
	return &domain.Session{
		ID:         10,
		TeacherID:  7,
		SchoolID:   1,
		StudentIDs: []int64{101, 102},
		Date:       time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC),
		StartTime:  "14:00",
		EndTime:    "15:00",
		ClassType:  domain.ClassTypeGroup,
		Status:     domain.StatusScheduled,
	}
}

func TestGetByID_ParticipantsOnly(t *testing.T) {
	repo := &fakeSessionRepo{session: scheduledSession()}
	svc := NewService(repo, noopLogger{})

	resp, err := svc.GetByID(context.Background(), 10, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)

	_, err = svc.GetByID(context.Background(), 10, 101)
	assert.NoError(t, err, "student participant has access")

	_, err = svc.GetByID(context.Background(), 10, 999)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakeSessionRepo{getErr: sessionRepo.ErrSessionNotFound}
	svc := NewService(repo, noopLogger{})

	_, err := svc.GetByID(context.Background(), 10, 7)

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCancel_StatusDependsOnWhoCancels(t *testing.T) {
	repo := &fakeSessionRepo{session: scheduledSession()}
	svc := NewService(repo, noopLogger{})

	resp, err := svc.Cancel(context.Background(), &models.CancelSessionRequest{SessionID: 10, UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledByTeacher, resp.Status)

	repo.session = scheduledSession()
	resp, err = svc.Cancel(context.Background(), &models.CancelSessionRequest{
		SessionID: 10, UserID: 101, Reason: ptr.Ptr("sick"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledByStudent, resp.Status)
	assert.Equal(t, "sick", *repo.cancelReason)
	assert.NotNil(t, resp.CancelledAt)
}

func TestCancel_FinalizedSessionCannotBeCancelled(t *testing.T) {
	completed := scheduledSession()
	completed.Status = domain.StatusCompleted
	repo := &fakeSessionRepo{session: completed}
	svc := NewService(repo, noopLogger{})

	_, err := svc.Cancel(context.Background(), &models.CancelSessionRequest{SessionID: 10, UserID: 7})
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	already := scheduledSession()
	already.Status = domain.StatusCancelledByStudent
	repo.session = already

	_, err = svc.Cancel(context.Background(), &models.CancelSessionRequest{SessionID: 10, UserID: 7})
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestCancel_NonParticipantDenied(t *testing.T) {
	repo := &fakeSessionRepo{session: scheduledSession()}
	svc := NewService(repo, noopLogger{})

	_, err := svc.Cancel(context.Background(), &models.CancelSessionRequest{SessionID: 10, UserID: 999})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	repo := &fakeSessionRepo{session: scheduledSession()}
	svc := NewService(repo, noopLogger{})

	reason := strings.Repeat("a", domain.MaxCancellationReasonLength+1)
	_, err := svc.Cancel(context.Background(), &models.CancelSessionRequest{
		SessionID: 10, UserID: 7, Reason: &reason,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListByTeacher_PassesFilter(t *testing.T) {
	repo := &fakeSessionRepo{listed: []*domain.Session{scheduledSession()}}
	svc := NewService(repo, noopLogger{})

	start := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	resp, err := svc.ListByTeacher(context.Background(), &models.ListByTeacherRequest{
		TeacherID: 7,
		SchoolID:  ptr.Ptr(int64(1)),
		StartDate: &start,
		EndDate:   &end,
	})

	require.NoError(t, err)
	assert.Len(t, resp.Sessions, 1)
	assert.Equal(t, int64(7), repo.filter.TeacherID)
	assert.Equal(t, int64(1), *repo.filter.SchoolID)
	assert.False(t, repo.filter.IncludeInactive)
}

func TestListByTeacher_InvalidRange(t *testing.T) {
	repo := &fakeSessionRepo{}
	svc := NewService(repo, noopLogger{})

	start := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	_, err := svc.ListByTeacher(context.Background(), &models.ListByTeacherRequest{
		TeacherID: 7,
		StartDate: &start,
		EndDate:   &end,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ListByTeacher(context.Background(), &models.ListByTeacherRequest{TeacherID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
