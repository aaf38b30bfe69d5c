package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"labku_backend/internals/configs"
	database "labku_backend/internals/databases"
	distService "labku_backend/internals/features/exams/distribution/service"
	notifService "labku_backend/internals/features/exams/notifications/service"
	scheduleRepo "labku_backend/internals/features/exams/schedules/repository"
	"labku_backend/internals/features/exams/schedules/scheduler"
	scheduleService "labku_backend/internals/features/exams/schedules/service"
	capacityService "labku_backend/internals/features/labs/capacity/service"
	middlewares "labku_backend/internals/middlewares"
	routes "labku_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timing + deadline request (observability ringan)
	app.Use(middlewares.RequestContext())

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	// 📡 Redis untuk fan-out notifikasi (boleh kosong, degradasi senyap)
	database.ConnectRedis()

	// 🧩 Wiring service inti
	repo := scheduleRepo.NewScheduleRepository(database.DB)
	notifier := notifService.NewNotifier(database.RDB)
	distributor := distService.NewDistributionService(database.DB)
	capacity := capacityService.NewCapacityService(database.DB)
	machine := scheduleService.NewStateMachine(repo, distributor, notifier)

	// ⏱ reconciler setelah DB siap
	reconciler := scheduler.NewReconciler(repo, machine, configs.ReconcileInterval())
	reconciler.Start()

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		DB:          database.DB,
		RDB:         database.RDB,
		Capacity:    capacity,
		Distributor: distributor,
		Machine:     machine,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: stop reconciler dulu, lalu server, lalu pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	reconciler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if database.RDB != nil {
		_ = database.RDB.Close()
	}
}
