package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/TMS-SchedulingService/pkg/psqlbuilder"
)

const tableSessions = "sessions"

var sessionColumns = []string{
	"id",
	"teacher_id",
	"school_id",
	"student_ids",
	"date",
	"start_time",
	"end_time",
	"class_type",
	"status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с сессиями занятий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую сессию.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableSessions).
		Columns(
			"teacher_id",
			"school_id",
			"student_ids",
			"date",
			"start_time",
			"end_time",
			"class_type",
			"status",
			"notes",
		).
		Values(
			session.TeacherID,
			session.SchoolID,
			pq.Array(session.StudentIDs),
			session.Date,
			session.StartTime,
			session.EndTime,
			string(session.ClassType),
			string(session.Status),
			session.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&session.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return session, nil
}

// GetByID получает сессию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From(tableSessions).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	session, err := r.scanSession(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %v", ErrScanRow, err)
	}

	return session, nil
}

// GetForTeacherInRange получает активные сессии преподавателя в диапазоне дат
// (включительно с обеих сторон). Школа не фильтруется: преподаватель не может
// вести занятия в двух школах одновременно.
func (r *Repository) GetForTeacherInRange(ctx context.Context, teacherID int64, from, to time.Time) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From(tableSessions).
		Where(squirrel.Eq{"teacher_id": teacherID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)}).
		OrderBy("date", "start_time").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetForTeacherInRange - build select query: %v", ErrBuildQuery, err)
	}

	return r.querySessions(ctx, executor, "GetForTeacherInRange", query, args)
}

// GetForStudentsInRange получает активные сессии, в которых участвует хотя бы
// один из указанных студентов, в диапазоне дат. Школа намеренно не
// фильтруется: студент занят независимо от того, в какой школе идет занятие.
func (r *Repository) GetForStudentsInRange(ctx context.Context, studentIDs []int64, from, to time.Time) ([]*domain.Session, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From(tableSessions).
		Where(squirrel.Expr("student_ids && ?", pq.Array(studentIDs))).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)}).
		OrderBy("date", "start_time").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetForStudentsInRange - build select query: %v", ErrBuildQuery, err)
	}

	return r.querySessions(ctx, executor, "GetForStudentsInRange", query, args)
}

// CountActiveForTeacherOnDate считает активные сессии преподавателя в школе
// за календарный день. Используется для проверки дневного лимита.
func (r *Repository) CountActiveForTeacherOnDate(ctx context.Context, teacherID, schoolID int64, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableSessions).
		Where(squirrel.Eq{"teacher_id": teacherID}).
		Where(squirrel.Eq{"school_id": schoolID}).
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveForTeacherOnDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveForTeacherOnDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountActiveForTeacherBetween считает активные сессии преподавателя в школе
// в диапазоне дат (включительно). Используется для проверки недельного лимита.
func (r *Repository) CountActiveForTeacherBetween(ctx context.Context, teacherID, schoolID int64, from, to time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableSessions).
		Where(squirrel.Eq{"teacher_id": teacherID}).
		Where(squirrel.Eq{"school_id": schoolID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveForTeacherBetween - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveForTeacherBetween - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// Cancel переводит сессию в статус отмены с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.SessionStatus, reason *string) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableSessions).
		Set("status", string(status)).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(sessionColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	session, err := r.scanSession(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - scan session: %v", ErrScanRow, err)
	}

	return session, nil
}

// GetByTeacherWithFilter получает сессии преподавателя с опциональными фильтрами
func (r *Repository) GetByTeacherWithFilter(ctx context.Context, filter domain.TeacherSessionsFilter) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From(tableSessions).
		Where(squirrel.Eq{"teacher_id": filter.TeacherID})

	if filter.SchoolID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"school_id": *filter.SchoolID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"date": *filter.EndDate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	query, args, err := selectBuilder.
		OrderBy("date", "start_time").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTeacherWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	return r.querySessions(ctx, executor, "GetByTeacherWithFilter", query, args)
}

// Вспомогательные методы

func (r *Repository) querySessions(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) ([]*domain.Session, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute select: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		session, err := r.scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan session: %v", ErrScanRow, method, err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrExecQuery, method, err)
	}

	return sessions, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanSession(row rowScanner) (*domain.Session, error) {
	var session domain.Session
	var studentIDs pq.Int64Array
	var classType, status string
	var cancelledAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.TeacherID,
		&session.SchoolID,
		&studentIDs,
		&session.Date,
		&session.StartTime,
		&session.EndTime,
		&classType,
		&status,
		&session.Notes,
		&session.CancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.StudentIDs = studentIDs
	session.ClassType = domain.ClassType(classType)
	session.Status = domain.SessionStatus(status)
	if cancelledAt.Valid {
		session.CancelledAt = &cancelledAt.Time
	}
	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return &session, nil
}

// statusStrings конвертирует статусы в строки для подстановки в запрос
func statusStrings(statuses []domain.SessionStatus) []string {
	result := make([]string, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, string(s))
	}
	return result
}

func joinColumns(columns []string) string {
	out := columns[0]
	for _, c := range columns[1:] {
		out += ", " + c
	}
	return out
}
