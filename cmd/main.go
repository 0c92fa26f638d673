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

	cancelAppointmentHandler "github.com/avelir/CRM-SchedulingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/avelir/CRM-SchedulingService/internal/api/handlers/create_appointment"
	createRecurringHandler "github.com/avelir/CRM-SchedulingService/internal/api/handlers/create_recurring_appointment"
	getAppointmentHandler "github.com/avelir/CRM-SchedulingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/avelir/CRM-SchedulingService/internal/api/handlers/get_available_slots"
	getCalendarHandler "github.com/avelir/CRM-SchedulingService/internal/api/handlers/get_calendar"
	getTenantAppointmentsHandler "github.com/avelir/CRM-SchedulingService/internal/api/handlers/get_tenant_appointments"
	updateAppointmentStatusHandler "github.com/avelir/CRM-SchedulingService/internal/api/handlers/update_appointment_status"
	updateCalendarHandler "github.com/avelir/CRM-SchedulingService/internal/api/handlers/update_calendar"
	"github.com/avelir/CRM-SchedulingService/internal/api/middleware"
	"github.com/avelir/CRM-SchedulingService/internal/config"
	"github.com/avelir/CRM-SchedulingService/internal/infra/events"
	"github.com/avelir/CRM-SchedulingService/internal/infra/lock"
	appointmentRepo "github.com/avelir/CRM-SchedulingService/internal/infra/storage/appointment"
	calendarRepo "github.com/avelir/CRM-SchedulingService/internal/infra/storage/calendar"
	catalogRepo "github.com/avelir/CRM-SchedulingService/internal/infra/storage/catalog"
	appointmentsService "github.com/avelir/CRM-SchedulingService/internal/service/appointments"
	calendarService "github.com/avelir/CRM-SchedulingService/internal/service/calendar"
	createAppointmentUC "github.com/avelir/CRM-SchedulingService/internal/usecase/create_appointment"
	createRecurringUC "github.com/avelir/CRM-SchedulingService/internal/usecase/create_recurring_appointment"
	getAvailableSlotsUC "github.com/avelir/CRM-SchedulingService/internal/usecase/get_available_slots"
	"github.com/avelir/CRM-SchedulingService/pkg/dbmetrics"
	"github.com/avelir/CRM-SchedulingService/pkg/logger"
	"github.com/avelir/CRM-SchedulingService/pkg/metrics"
	"github.com/avelir/CRM-SchedulingService/pkg/simpletxmanager"
	"github.com/avelir/CRM-SchedulingService/pkg/txmanager"
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

	log.Info("Starting CRM-SchedulingService...")
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

	// Инициализируем удержание слотов (Redis опционален:
	// без него гонки разрешает сериализуемая транзакция и индекс БД)
	var slotLocker lock.Locker = lock.NewNoopLocker()
	if cfg.Redis.Enabled {
		redisLock, err := lock.NewRedisLock(cfg.Redis.Addr, time.Duration(cfg.Redis.DialTimeout)*time.Second)
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer redisLock.Close()
		slotLocker = redisLock
		log.Info("Redis slot holds enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.HoldTTL)
	}

	// Инициализируем публикацию событий жизненного цикла (Kafka опционален)
	var publisher events.Publisher = events.NewNoopPublisher()
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("Kafka event publishing enabled (brokers=%s, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		calendarRepository    *calendarRepo.Repository
		catalogRepository     *catalogRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		calendarRepository = calendarRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		appointmentRepository = appointmentRepo.NewRepository(db)
		calendarRepository = calendarRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		publisher,
		log,
	)
	calendarSvc := calendarService.NewService(
		calendarRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		catalogRepository,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		catalogRepository,
		txMgr,
		slotLocker,
		publisher,
		time.Duration(cfg.Redis.HoldTTL)*time.Second,
		log,
	)

	createRecurringUseCase := createRecurringUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		catalogRepository,
		txMgr,
		publisher,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	createRecurring := createRecurringHandler.NewHandler(createRecurringUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getTenantAppointments := getTenantAppointmentsHandler.NewHandler(appointmentSvc, log)
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, log)
	updateCalendar := updateCalendarHandler.NewHandler(calendarSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

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

	// Получение доступных слотов на дату
	api.HandleFunc("/tenants/{tenantId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Получение календаря тенанта
	api.HandleFunc("/tenants/{tenantId}/calendar",
		getCalendar.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/tenants/{tenantId}/appointments",
		createAppointment.Handle).Methods(http.MethodPost)

	// Создание серии повторяющихся записей
	protected.HandleFunc("/tenants/{tenantId}/appointments/recurring",
		createRecurring.Handle).Methods(http.MethodPost)

	// Список записей тенанта
	protected.HandleFunc("/tenants/{tenantId}/appointments",
		getTenantAppointments.Handle).Methods(http.MethodGet)

	// Получение записи по ID или публичному UUID
	protected.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId}",
		getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId}/cancel",
		cancelAppointment.Handle).Methods(http.MethodPatch)

	// Смена статуса записи
	protected.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId}/status",
		updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Управление календарём ---
	// Полная замена календаря тенанта
	protected.HandleFunc("/tenants/{tenantId}/calendar",
		updateCalendar.Handle).Methods(http.MethodPut)

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
