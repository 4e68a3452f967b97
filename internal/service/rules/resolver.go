package rules

import "github.com/m04kA/TMS-SchedulingService/internal/domain"

// Resolve computes the effective rule set for a school/teacher/class-type
// combination by walking the override hierarchy.
//
// Порядок строго school -> teacher -> class type: поле более специфичного
// слоя всегда побеждает, отсутствующие поля проваливаются на уровень ниже.
// Отсутствующий слой трактуется как пустой набор переопределений, не ошибка.
//
// Если для класса нет сохраненного слоя, на его месте действует встроенный
// слой по умолчанию (групповые занятия - буфер 20 минут, пробные - буфер
// 10 минут и смягченное уведомление).
//
// Функция чистая: одинаковые входы всегда дают одинаковый результат.
func Resolve(
	classType domain.ClassType,
	school *domain.RuleOverrideLayer,
	teacher *domain.RuleOverrideLayer,
	classTypeLayer *domain.RuleOverrideLayer,
) domain.SchedulingRuleSet {
	rules := domain.SchedulingRuleSet{
		MinimumNoticeMinutes: domain.DefaultMinimumNoticeMinutes,
		BufferMinutes:        domain.DefaultBufferMinutes,
		DailyBookingLimit:    domain.DefaultDailyBookingLimit,
		WeeklyBookingLimit:   domain.DefaultWeeklyBookingLimit,
	}

	if school != nil {
		school.ApplyTo(&rules)
	}
	if teacher != nil {
		teacher.ApplyTo(&rules)
	}

	if classTypeLayer != nil {
		classTypeLayer.ApplyTo(&rules)
	} else {
		builtin := domain.DefaultClassTypeLayer(classType)
		builtin.ApplyTo(&rules)
	}

	return rules
}
