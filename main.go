package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"slotify/config"
	"slotify/cron"
	"slotify/database"
	bookingRepo "slotify/database/repository/booking"
	scheduleRepo "slotify/database/repository/schedule"
	serviceRepo "slotify/database/repository/service"
	"slotify/handlers"
	"slotify/middleware"
	"slotify/routes"
	"slotify/services/scheduling"
	"slotify/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	mongoClient, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer database.Disconnect(mongoClient)
	db := mongoClient.Database(config.AppConfig.MongoDBName)

	cacheClient, err := utils.NewRedisClient(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword, config.AppConfig.RedisCacheDB)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	lockClient, err := utils.NewRedisClient(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword, config.AppConfig.RedisLockDB)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// repositories.
	schedules := scheduleRepo.NewMongoScheduleRepo(db, config.AppConfig.MongoTransactions)
	services := serviceRepo.NewMongoServiceRepo(db)
	bookings := bookingRepo.NewMongoBookingRepo(db, config.AppConfig.MongoTransactions)
	for _, ensure := range []func() error{schedules.EnsureIndexes, services.EnsureIndexes, bookings.EnsureIndexes} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}

	// services.
	locker := scheduling.NewRedisPractitionerLock(lockClient, time.Duration(config.AppConfig.BookingLockTTLSeconds)*time.Second)
	engine := &scheduling.Engine{
		Bookings:      bookings,
		Schedules:     schedules,
		Services:      services,
		Locker:        locker,
		Logger:        logger,
		BufferMinutes: config.AppConfig.BufferMinutes,
		AutoConfirm:   config.AppConfig.AutoConfirm,
	}
	availability := &scheduling.Availability{
		Bookings:           bookings,
		Schedules:          schedules,
		Services:           services,
		Cache:              cacheClient,
		CacheTTL:           time.Duration(config.AppConfig.AvailabilityCacheSeconds) * time.Second,
		Logger:             logger,
		GranularityMinutes: config.AppConfig.SlotGranularityMinutes,
		BufferMinutes:      config.AppConfig.BufferMinutes,
	}

	// background completion sweeper.
	cron.InitCompletionWorker(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisWorkerDB,
	}, engine, time.Duration(config.AppConfig.CompletionSweepMinutes)*time.Minute, logger)

	utils.StartHealthMonitor([]*redis.Client{cacheClient, lockClient}, mongoClient)

	// router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.Register(router, routes.Handlers{
		Availability: handlers.NewAvailabilityHandler(availability, logger),
		Booking:      handlers.NewBookingHandler(engine, logger),
		Schedule:     handlers.NewScheduleHandler(schedules, logger),
		Service:      handlers.NewServiceHandler(services, logger),
	})

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("listening", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
