package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	addPossibilityHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/add_possibility"
	changeStatusHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/change_booking_status"
	checkAvailabilityHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/check_availability"
	confirmBookingHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/confirm_booking"
	createGroupHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/create_group"
	createTableBookingHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/create_table_booking"
	deleteGroupHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/delete_group"
	deletePossibilityHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/delete_possibility"
	getBookingHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/get_booking"
	getGroupHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/get_group"
	getTableViewHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/get_table_view"
	listGroupsHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/list_groups"
	moveBookingHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/move_booking"
	updateGroupHandler "github.com/m04kA/SMC-TableService/internal/api/handlers/update_group"
	"github.com/m04kA/SMC-TableService/internal/api/middleware"
	"github.com/m04kA/SMC-TableService/internal/infra/cache/tableview"
	auditRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/audit"
	bookingRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/booking"
	groupRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/group"
	invoiceRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/invoice"
	tableRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/table"
	"github.com/m04kA/SMC-TableService/internal/integrations/notifier"
	"github.com/m04kA/SMC-TableService/internal/integrations/payment"
	auditService "github.com/m04kA/SMC-TableService/internal/service/audit"
	bookingsService "github.com/m04kA/SMC-TableService/internal/service/bookings"
	groupsService "github.com/m04kA/SMC-TableService/internal/service/groups"
	changeStatusUC "github.com/m04kA/SMC-TableService/internal/usecase/change_booking_status"
	checkAvailabilityUC "github.com/m04kA/SMC-TableService/internal/usecase/check_availability"
	createTableBookingUC "github.com/m04kA/SMC-TableService/internal/usecase/create_table_booking"
	moveBookingUC "github.com/m04kA/SMC-TableService/internal/usecase/move_booking"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, log := a.cfg, a.log
	log.Info("Starting SMC-TableService...")

	// Инициализируем интеграции
	var redisClient redis.Cmdable
	if cfg.Redis.Enabled {
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rc.Close()

		if err := rc.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("failed to ping redis at %s: %w", cfg.Redis.Addr, err)
		}
		redisClient = rc
		log.Info("Table view cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
	}
	viewCache := tableview.New(redisClient, time.Duration(cfg.Redis.TTL)*time.Second)

	paymentClient := payment.NewDisabledClient(log)
	if cfg.Payment.Enabled {
		paymentClient, err = payment.NewOmiseClient(cfg.Payment.PublicKey, cfg.Payment.SecretKey, log)
		if err != nil {
			return err
		}
		log.Info("Payment processing enabled (omise)")
	}

	publisher := notifier.NewNopPublisher()
	if cfg.RabbitMQ.Enabled {
		publisher, err = notifier.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return err
		}
		log.Info("Booking events published to exchange %s", cfg.RabbitMQ.Exchange)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("Failed to close publisher: %v", err)
		}
	}()

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(a.db)
	tableRepository := tableRepo.NewRepository(a.db)
	groupRepository := groupRepo.NewRepository(a.db)
	invoiceRepository := invoiceRepo.NewRepository(a.db)
	auditRepository := auditRepo.NewRepository(a.db)

	// Инициализируем сервисы
	auditSvc := auditService.NewService(auditRepository, log)
	groupsSvc := groupsService.NewService(groupRepository, tableRepository, auditSvc, a.txMgr, log)
	bookingSvc := bookingsService.NewService(bookingRepository, tableRepository, viewCache, log)

	// Инициализируем use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(bookingRepository, tableRepository, log)
	createTableBookingUseCase := createTableBookingUC.NewUseCase(
		bookingRepository,
		tableRepository,
		groupRepository,
		invoiceRepository,
		checkAvailabilityUseCase,
		viewCache,
		a.txMgr,
		log,
	)
	moveBookingUseCase := moveBookingUC.NewUseCase(
		bookingRepository,
		tableRepository,
		checkAvailabilityUseCase,
		bookingSvc,
		auditSvc,
		viewCache,
		publisher,
		a.txMgr,
		log,
	)
	changeStatusUseCase := changeStatusUC.NewUseCase(
		bookingRepository,
		invoiceRepository,
		paymentClient,
		auditSvc,
		viewCache,
		publisher,
		a.txMgr,
		log,
	)

	// Инициализируем handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	createTableBooking := createTableBookingHandler.NewHandler(createTableBookingUseCase, log)
	moveBooking := moveBookingHandler.NewHandler(moveBookingUseCase, log)
	changeStatus := changeStatusHandler.NewHandler(changeStatusUseCase, log)
	confirmBooking := confirmBookingHandler.NewHandler(changeStatusUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getTableView := getTableViewHandler.NewHandler(bookingSvc, log)
	createGroup := createGroupHandler.NewHandler(groupsSvc, log)
	listGroups := listGroupsHandler.NewHandler(groupsSvc, log)
	getGroup := getGroupHandler.NewHandler(groupsSvc, log)
	updateGroup := updateGroupHandler.NewHandler(groupsSvc, log)
	deleteGroup := deleteGroupHandler.NewHandler(groupsSvc, log)
	addPossibility := addPossibilityHandler.NewHandler(groupsSvc, log)
	deletePossibility := deletePossibilityHandler.NewHandler(groupsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if a.metrics != nil {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		r.Handle(cfg.Metrics.Path, a.metrics.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Подтверждение брони по ссылке из письма
	api.HandleFunc("/invoices/{invoiceId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Доступность и бронирования ---
	protected.HandleFunc("/outlets/{outletId}/availability", checkAvailability.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/outlets/{outletId}/table-bookings", createTableBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/table-bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/table-bookings/{bookingId}/move", moveBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/table-bookings/{bookingId}/status", changeStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/tables/{tableId}/bookings", getTableView.Handle).Methods(http.MethodGet)

	// --- Группы столов ---
	protected.HandleFunc("/seating-types/{seatingTypeId}/groups", createGroup.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/seating-types/{seatingTypeId}/groups", listGroups.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/groups/{groupId}", getGroup.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/groups/{groupId}", updateGroup.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/groups/{groupId}", deleteGroup.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/groups/{groupId}/possibilities", addPossibility.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/groups/{groupId}/possibilities/{possibilityId}", deletePossibility.Handle).Methods(http.MethodDelete)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
