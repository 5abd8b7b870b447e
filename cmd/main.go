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

	cancelBookingHandler "github.com/futbook/FieldBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/futbook/FieldBookingService/internal/api/handlers/create_booking"
	getAvailableFieldsHandler "github.com/futbook/FieldBookingService/internal/api/handlers/get_available_fields"
	getBookingHandler "github.com/futbook/FieldBookingService/internal/api/handlers/get_booking"
	getDaySlotsHandler "github.com/futbook/FieldBookingService/internal/api/handlers/get_day_slots"
	getUserBookingsHandler "github.com/futbook/FieldBookingService/internal/api/handlers/get_user_bookings"
	listConflictsHandler "github.com/futbook/FieldBookingService/internal/api/handlers/list_conflicts"
	quotePriceHandler "github.com/futbook/FieldBookingService/internal/api/handlers/quote_price"
	updateBookingStatusHandler "github.com/futbook/FieldBookingService/internal/api/handlers/update_booking_status"
	"github.com/futbook/FieldBookingService/internal/api/middleware"
	"github.com/futbook/FieldBookingService/internal/config"
	bookingRepo "github.com/futbook/FieldBookingService/internal/infra/storage/booking"
	fieldRepo "github.com/futbook/FieldBookingService/internal/infra/storage/field"
	pricingRuleRepo "github.com/futbook/FieldBookingService/internal/infra/storage/pricingrule"
	bookingsService "github.com/futbook/FieldBookingService/internal/service/bookings"
	pricingService "github.com/futbook/FieldBookingService/internal/service/pricing"
	createBookingUC "github.com/futbook/FieldBookingService/internal/usecase/create_booking"
	getAvailableFieldsUC "github.com/futbook/FieldBookingService/internal/usecase/get_available_fields"
	getDaySlotsUC "github.com/futbook/FieldBookingService/internal/usecase/get_day_slots"
	"github.com/futbook/FieldBookingService/pkg/dbmetrics"
	"github.com/futbook/FieldBookingService/pkg/logger"
	"github.com/futbook/FieldBookingService/pkg/metrics"
	"github.com/futbook/FieldBookingService/pkg/migrator"
	"github.com/futbook/FieldBookingService/pkg/simpletxmanager"
	"github.com/futbook/FieldBookingService/pkg/txmanager"
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

	log.Info("Starting FieldBookingService...")
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

	// Накатываем миграции
	if cfg.Migrations.AutoRun {
		m, err := migrator.New(db, cfg.Migrations.Dir)
		if err != nil {
			log.Fatal("Failed to initialize migrator: %v", err)
		}
		if err := m.Up(context.Background()); err != nil {
			log.Fatal("Failed to run migrations: %v", err)
		}
		version, err := m.Version(context.Background())
		if err != nil {
			log.Fatal("Failed to get migration version: %v", err)
		}
		log.Info("Migrations applied, schema version=%d", version)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository     *bookingRepo.Repository
		fieldRepository       *fieldRepo.Repository
		pricingRuleRepository *pricingRuleRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		fieldRepository = fieldRepo.NewRepository(wrappedDB)
		pricingRuleRepository = pricingRuleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		fieldRepository = fieldRepo.NewRepository(db)
		pricingRuleRepository = pricingRuleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	pricingSvc := pricingService.NewService(pricingRuleRepository, log)

	// Инициализируем use cases
	gracePeriod := time.Duration(cfg.Booking.CancellationGraceHours) * time.Hour
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		fieldRepository,
		pricingSvc,
		txMgr,
		&createBookingUC.RealTimeProvider{},
		log,
		gracePeriod,
	)

	getAvailableFieldsUseCase := getAvailableFieldsUC.NewUseCase(
		fieldRepository,
		bookingSvc,
		pricingSvc,
		log,
	)

	getDaySlotsUseCase := getDaySlotsUC.NewUseCase(
		fieldRepository,
		bookingRepository,
		pricingSvc,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableFields := getAvailableFieldsHandler.NewHandler(getAvailableFieldsUseCase, log)
	getDaySlots := getDaySlotsHandler.NewHandler(getDaySlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listConflicts := listConflictsHandler.NewHandler(bookingSvc, log)
	quotePrice := quotePriceHandler.NewHandler(fieldRepository, pricingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Подбор полей, свободных в запрошенный диапазон
	api.HandleFunc("/fields/available", getAvailableFields.Handle).Methods(http.MethodGet)

	// Сетка свободных слотов поля на день
	api.HandleFunc("/fields/{fieldId}/day-slots", getDaySlots.Handle).Methods(http.MethodGet)

	// Список бронирований, конфликтующих с диапазоном
	api.HandleFunc("/fields/{fieldId}/conflicts", listConflicts.Handle).Methods(http.MethodGet)

	// Предварительный расчёт стоимости диапазона
	api.HandleFunc("/fields/{fieldId}/quote", quotePrice.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перевод бронирования в новый статус
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

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
