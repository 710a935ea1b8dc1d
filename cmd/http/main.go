package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"onboarding-service/internal/app/config"
	"onboarding-service/internal/app/delivery/http/controllers"
	"onboarding-service/internal/app/delivery/http/middlewares"
	"onboarding-service/internal/app/delivery/http/routers"
	"onboarding-service/internal/app/drivers/database"
	"onboarding-service/internal/app/drivers/logger"
	"onboarding-service/internal/app/drivers/messaging"
	"onboarding-service/internal/app/drivers/storage"
	"onboarding-service/internal/app/services/core/admin"
	"onboarding-service/internal/app/services/core/audits"
	"onboarding-service/internal/app/services/core/claims"
	"onboarding-service/internal/app/services/core/dispatcher"
	"onboarding-service/internal/app/services/core/profiles"
	"onboarding-service/internal/app/services/shared/eventqueue"
	"onboarding-service/internal/app/services/shared/locker"
	"onboarding-service/internal/app/services/shared/notifier"
	"onboarding-service/internal/app/services/shared/ratelimiter"
	"onboarding-service/internal/app/services/shared/redis"
	auditStorage "onboarding-service/internal/app/services/shared/storage"
	"onboarding-service/internal/app/services/shared/tokenstore"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.Error(err))
	}
	time.Local = location

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		MongoDB:        database.NewMongoDB(driverConfig),
		Redis:          database.NewRedisClient(driverConfig),
		Minio:          storage.NewMinio(driverConfig),
		RabbitMQ:       messaging.NewRabbitMQ(driverConfig),
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	if err := bootstrapingTheApp(appCtx, bootstrap); err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", internalConfig.App.Address, internalConfig.App.Port),
		Handler: bootstrap.Router,
	}

	go func() {
		log.Info("Server started", zap.String("address", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	cancelApp()
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to release resources", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(ctx context.Context, bootstrap *config.Bootstrap) error {
	cfg := bootstrap.InternalConfig
	log := bootstrap.Logger

	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, log)
	reprocessLimiter := ratelimiter.NewWindowLimiter(redisRepository, log)

	// Repositories
	profileRepository := profiles.NewProfileMongoRepository(bootstrap.MongoDB)
	auditRepository := audits.NewAuditMongoRepository(bootstrap.MongoDB)

	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := profileRepository.EnsureIndexes(indexCtx); err != nil {
		return err
	}
	if err := auditRepository.EnsureIndexes(indexCtx); err != nil {
		return err
	}

	// Profile events
	eventQueue, err := eventqueue.NewService(bootstrap.RabbitMQ, log, cfg.RabbitMQ.ProfileEventsQueue, cfg.Dispatcher.Workers)
	if err != nil {
		return err
	}

	// Notifications
	mailerNotifier, err := notifier.NewMailerNotifier(bootstrap.RabbitMQ, cfg.RabbitMQ.MailerQueue, cfg.Notification.EmailSender, log)
	if err != nil {
		return err
	}
	dedupTTL := time.Duration(cfg.Notification.DedupTTLInHours) * time.Hour
	notificationPort := notifier.NewDedupNotifier(mailerNotifier, redisRepository, dedupTTL, log)

	// Claims
	tokenStore := tokenstore.NewRedisTokenStore(redisRepository, log)
	claimsSynchronizer := claims.NewClaimsSynchronizer(tokenStore, log)
	capabilityReader := claims.NewCapabilityReader(
		tokenStore,
		cfg.Claims.CacheSize,
		time.Duration(cfg.Claims.CacheTTLInSeconds)*time.Second,
		log,
	)
	stopCapabilityListener := capabilityReader.Listen(ctx)

	// Audit
	auditLedger := audits.NewAuditLedger(auditRepository, cfg, log)
	auditArchive := auditStorage.NewMinioAuditArchive(
		bootstrap.Minio,
		bootstrap.DriverConfig.Minio.BucketName,
		time.Duration(cfg.Audit.ExportPresignExpiryHours)*time.Hour,
		log,
	)

	// Dispatcher
	eventDispatcher := dispatcher.NewEventDispatcher(claimsSynchronizer, profileRepository, notificationPort, auditLedger, cfg, log)
	worker := dispatcher.NewWorker(log, cfg, eventQueue, eventDispatcher)
	stopWorker, err := worker.Start(ctx)
	if err != nil {
		stopCapabilityListener()
		return err
	}

	stopReconciler := func() {}
	if cfg.Reconciler.Enabled {
		reconciler := dispatcher.NewClaimsReconciler(log, cfg, lockerService, profileRepository, claimsSynchronizer)
		stopReconciler = reconciler.Start(ctx)
	}

	bootstrap.WorkerStop = func() {
		stopReconciler()
		stopWorker()
		stopCapabilityListener()
		if err := eventQueue.Close(); err != nil {
			log.Error("Failed to close profile event queue", zap.Error(err))
		}
	}

	// Usecases
	registrationUsecase := profiles.NewRegistrationUsecase(profileRepository, eventQueue, log)
	adminUsecase := admin.NewAdminUsecase(admin.Dependencies{
		ProfileRepository: profileRepository,
		AuditLedger:       auditLedger,
		AuditArchive:      auditArchive,
		EventPublisher:    eventQueue,
		EventDispatcher:   eventDispatcher,
		LockerService:     lockerService,
		ReprocessLimiter:  reprocessLimiter,
		InternalConfig:    cfg,
		Log:               log,
	})

	// HTTP
	middlewares := middlewares.NewMiddlewares(log, capabilityReader, cfg)
	adminController := controllers.NewAdminController(log, adminUsecase)
	registrationController := controllers.NewRegistrationController(log, registrationUsecase)

	routers.SetupRoutes(bootstrap.Router, cfg, middlewares, adminController, registrationController)
	return nil
}
