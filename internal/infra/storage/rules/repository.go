package rules

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/TMS-SchedulingService/pkg/psqlbuilder"
)

const tableOverrides = "schedule_rule_overrides"

var overrideColumns = []string{
	"id",
	"school_id",
	"teacher_id",
	"class_type",
	"minimum_notice_minutes",
	"buffer_minutes",
	"daily_booking_limit",
	"weekly_booking_limit",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слоями правил планирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByKey получает слой переопределений по ключу (школа, преподаватель, тип занятия).
// Nil teacherID/classType означают поиск записи с NULL в соответствующей колонке.
func (r *Repository) GetByKey(ctx context.Context, schoolID int64, teacherID *int64, classType *domain.ClassType) (*domain.RuleOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(overrideColumns...).
		From(tableOverrides).
		Where(squirrel.Eq{"school_id": schoolID})

	// Фильтрация по teacher_id (NULL или конкретное значение)
	if teacherID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"teacher_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"teacher_id": *teacherID})
	}

	// Фильтрация по class_type (NULL или конкретное значение)
	if classType == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"class_type": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"class_type": string(*classType)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - build select query: %v", ErrBuildQuery, err)
	}

	override, err := r.scanOverride(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - scan override: %v", ErrScanRow, err)
	}

	return override, nil
}

// GetLayers получает слои иерархии для разрешения правил одним обходом:
// дефолты школы (NULL, NULL), слой преподавателя (teacherID, NULL) и
// наиболее специфичный слой типа занятия. Для типа занятия сначала ищется
// запись под конкретного преподавателя (teacherID, classType), затем
// общешкольная (NULL, classType).
//
// Отсутствие записи на любом уровне не является ошибкой - возвращается nil слой.
func (r *Repository) GetLayers(ctx context.Context, schoolID int64, teacherID *int64, classType *domain.ClassType) (school, teacher, class *domain.RuleOverrideLayer, err error) {
	// 1. Дефолты школы
	school, err = r.layerByKey(ctx, schoolID, nil, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: GetLayers - school level: %v", ErrExecQuery, err)
	}

	// 2. Слой преподавателя
	if teacherID != nil {
		teacher, err = r.layerByKey(ctx, schoolID, teacherID, nil)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: GetLayers - teacher level: %v", ErrExecQuery, err)
		}
	}

	// 3. Слой типа занятия: сперва под преподавателя, затем общешкольный
	if classType != nil {
		if teacherID != nil {
			class, err = r.layerByKey(ctx, schoolID, teacherID, classType)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%w: GetLayers - teacher class level: %v", ErrExecQuery, err)
			}
		}
		if class == nil {
			class, err = r.layerByKey(ctx, schoolID, nil, classType)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%w: GetLayers - school class level: %v", ErrExecQuery, err)
			}
		}
	}

	return school, teacher, class, nil
}

// Upsert создает слой переопределений или обновляет существующий по ключу
func (r *Repository) Upsert(ctx context.Context, override *domain.RuleOverride) (*domain.RuleOverride, error) {
	existing, err := r.GetByKey(ctx, override.SchoolID, override.TeacherID, override.ClassType)
	if err != nil && err != ErrOverrideNotFound {
		return nil, err
	}

	if existing == nil {
		return r.insert(ctx, override)
	}

	override.ID = existing.ID
	return r.update(ctx, override)
}

// DeleteByKey удаляет слой переопределений по ключу
func (r *Repository) DeleteByKey(ctx context.Context, schoolID int64, teacherID *int64, classType *domain.ClassType) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete(tableOverrides).
		Where(squirrel.Eq{"school_id": schoolID})

	if teacherID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"teacher_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"teacher_id": *teacherID})
	}

	if classType == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"class_type": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"class_type": string(*classType)})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByKey - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByKey - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByKey - rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

// GetAllBySchool получает все слои переопределений школы
func (r *Repository) GetAllBySchool(ctx context.Context, schoolID int64) ([]*domain.RuleOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From(tableOverrides).
		Where(squirrel.Eq{"school_id": schoolID}).
		OrderBy("teacher_id NULLS FIRST", "class_type NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllBySchool - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllBySchool - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var overrides []*domain.RuleOverride
	for rows.Next() {
		override, err := r.scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllBySchool - scan override: %v", ErrScanRow, err)
		}
		overrides = append(overrides, override)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllBySchool - rows iteration: %v", ErrExecQuery, err)
	}

	return overrides, nil
}

// Вспомогательные методы

// layerByKey возвращает слой по ключу или nil, если записи нет
func (r *Repository) layerByKey(ctx context.Context, schoolID int64, teacherID *int64, classType *domain.ClassType) (*domain.RuleOverrideLayer, error) {
	override, err := r.GetByKey(ctx, schoolID, teacherID, classType)
	if err == ErrOverrideNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &override.Layer, nil
}

func (r *Repository) insert(ctx context.Context, override *domain.RuleOverride) (*domain.RuleOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableOverrides).
		Columns(
			"school_id",
			"teacher_id",
			"class_type",
			"minimum_notice_minutes",
			"buffer_minutes",
			"daily_booking_limit",
			"weekly_booking_limit",
		).
		Values(
			override.SchoolID,
			override.TeacherID,
			classTypeValue(override.ClassType),
			override.Layer.MinimumNoticeMinutes,
			override.Layer.BufferMinutes,
			override.Layer.DailyBookingLimit,
			override.Layer.WeeklyBookingLimit,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: insert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&override.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: insert - execute insert: %v", ErrExecQuery, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return override, nil
}

func (r *Repository) update(ctx context.Context, override *domain.RuleOverride) (*domain.RuleOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableOverrides).
		Set("minimum_notice_minutes", override.Layer.MinimumNoticeMinutes).
		Set("buffer_minutes", override.Layer.BufferMinutes).
		Set("daily_booking_limit", override.Layer.DailyBookingLimit).
		Set("weekly_booking_limit", override.Layer.WeeklyBookingLimit).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": override.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update - execute update: %v", ErrExecQuery, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return override, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanOverride(row rowScanner) (*domain.RuleOverride, error) {
	var override domain.RuleOverride
	var classType sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&override.ID,
		&override.SchoolID,
		&override.TeacherID,
		&classType,
		&override.Layer.MinimumNoticeMinutes,
		&override.Layer.BufferMinutes,
		&override.Layer.DailyBookingLimit,
		&override.Layer.WeeklyBookingLimit,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if classType.Valid {
		ct := domain.ClassType(classType.String)
		override.ClassType = &ct
	}
	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return &override, nil
}

// classTypeValue возвращает строковое значение типа занятия для вставки, либо nil
func classTypeValue(ct *domain.ClassType) interface{} {
	if ct == nil {
		return nil
	}
	return string(*ct)
}
