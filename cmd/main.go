package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelSessionHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/cancel_session"
	createSessionHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/create_session"
	getAvailableSlotsHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/get_available_slots"
	getScheduleRulesHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/get_schedule_rules"
	getSessionHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/get_session"
	updateScheduleRulesHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/update_schedule_rules"
	validateBookingHandler "github.com/m04kA/TMS-SchedulingService/internal/api/handlers/validate_booking"
	"github.com/m04kA/TMS-SchedulingService/internal/api/middleware"
	"github.com/m04kA/TMS-SchedulingService/internal/config"
	rulesRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/rules"
	sessionRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/session"
	schoolServiceClient "github.com/m04kA/TMS-SchedulingService/internal/integrations/schoolservice"
	conflictsService "github.com/m04kA/TMS-SchedulingService/internal/service/conflicts"
	rulesService "github.com/m04kA/TMS-SchedulingService/internal/service/rules"
	sessionsService "github.com/m04kA/TMS-SchedulingService/internal/service/sessions"
	createSessionUC "github.com/m04kA/TMS-SchedulingService/internal/usecase/create_session"
	getAvailableSlotsUC "github.com/m04kA/TMS-SchedulingService/internal/usecase/get_available_slots"
	validateBookingUC "github.com/m04kA/TMS-SchedulingService/internal/usecase/validate_booking"
	"github.com/m04kA/TMS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/TMS-SchedulingService/pkg/logger"
	"github.com/m04kA/TMS-SchedulingService/pkg/metrics"
	"github.com/m04kA/TMS-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/TMS-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting TMS-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционного клиента
	schoolClient := schoolServiceClient.NewClient(
		cfg.SchoolService.URL,
		time.Duration(cfg.SchoolService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (SchoolService=%s timeout=%ds)",
		cfg.SchoolService.URL, cfg.SchoolService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		sessionRepository *sessionRepo.Repository
		rulesRepository   *rulesRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		sessionRepository = sessionRepo.NewRepository(wrappedDB)
		rulesRepository = rulesRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		sessionRepository = sessionRepo.NewRepository(db)
		rulesRepository = rulesRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	conflictChecker := conflictsService.NewService(log)
	sessionSvc := sessionsService.NewService(sessionRepository, log)
	rulesSvc := rulesService.NewService(rulesRepository, schoolClient, log)

	// Инициализируем use cases
	createSessionUseCase := createSessionUC.NewUseCase(
		sessionRepository,
		rulesRepository,
		conflictChecker,
		schoolClient,
		txMgr,
		log,
	)

	validateBookingUseCase := validateBookingUC.NewUseCase(
		sessionRepository,
		rulesRepository,
		conflictChecker,
		schoolClient,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		sessionRepository,
		rulesRepository,
		schoolClient,
		log,
	)

	// Инициализируем handlers
	createSession := createSessionHandler.NewHandler(createSessionUseCase, log)
	validateBooking := validateBookingHandler.NewHandler(validateBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getSession := getSessionHandler.NewHandler(sessionSvc, log)
	cancelSession := cancelSessionHandler.NewHandler(sessionSvc, log)
	getScheduleRules := getScheduleRulesHandler.NewHandler(rulesSvc, log)
	updateScheduleRules := updateScheduleRulesHandler.NewHandler(rulesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Request ID для трассировки логов между сервисами
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов преподавателя
	api.HandleFunc("/schools/{schoolId}/teachers/{teacherId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Эффективный набор правил планирования после разрешения иерархии
	api.HandleFunc("/schools/{schoolId}/rules",
		getScheduleRules.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Сессии ---
	// Создание сессии с полной проверкой конфликтов
	protected.HandleFunc("/sessions", createSession.Handle).Methods(http.MethodPost)

	// Сухая проверка кандидата без записи
	protected.HandleFunc("/sessions/validate", validateBooking.Handle).Methods(http.MethodPost)

	// Получение сессии по ID
	protected.HandleFunc("/sessions/{sessionId}", getSession.Handle).Methods(http.MethodGet)

	// Отмена сессии
	protected.HandleFunc("/sessions/{sessionId}/cancel", cancelSession.Handle).Methods(http.MethodPatch)

	// Расписание преподавателя за период
	protected.HandleFunc("/teachers/{teacherId}/sessions", getSession.HandleList).Methods(http.MethodGet)

	// --- Управление правилами (для администраторов школы) ---
	// Сырые слои переопределений школы
	protected.HandleFunc("/schools/{schoolId}/rules/overrides", getScheduleRules.HandleList).Methods(http.MethodGet)

	// Создание/обновление слоя переопределений
	protected.HandleFunc("/schools/{schoolId}/rules", updateScheduleRules.Handle).Methods(http.MethodPut)

	// Удаление слоя переопределений
	protected.HandleFunc("/schools/{schoolId}/rules", updateScheduleRules.HandleDelete).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
