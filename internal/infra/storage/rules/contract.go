package rules

import (
	"github.com/m04kA/TMS-SchedulingService/pkg/dbmetrics"
)

// DBExecutor интерфейс для выполнения запросов к БД.
// Поддерживает как прямые запросы, так и запросы в транзакции из контекста.
type DBExecutor = dbmetrics.DBExecutor
