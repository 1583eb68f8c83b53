package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hdt-be/internal/bootstrap"
	"hdt-be/internal/config"
	"hdt-be/internal/model"
	"hdt-be/internal/server"
	"hdt-be/internal/tracer"
	"hdt-be/pkg/database"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Tracing, "hdt-be", cfg.App.InstanceID)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.Open(cfg.Database.Driver, cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if cfg.Database.Driver == "sqlite" {
		// Local runs have no separate migration step
		if err := gormDB.AutoMigrate(model.All()...); err != nil {
			log.Panicf("Unable to migrate sqlite DB: %v", err)
		}
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	// 5. Start Background Services
	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})

	samples, cancelSamples := container.Broadcaster.SubscribeAll()
	g.Go(func() error {
		container.WebSocketHub.Relay(gctx, samples)
		return nil
	})

	g.Go(func() error {
		log.Println("Background: Starting Consumer Service...")
		return container.ConsumerService.Consume(gctx)
	})

	g.Go(func() error {
		if err := container.NotificationService.Start(gctx); err != nil {
			log.Printf("Background Notification Error: %v", err)
		}
		return nil
	})

	// 6. Run Server
	srv := server.New(cfg, container)
	g.Go(srv.Run)

	// 7. Graceful shutdown: stop intake, let running tasks finish, then
	// release every session context.
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Orchestrator.ModelCallTimeout+5*time.Second)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if werr := container.Orchestrator.Wait(shutdownCtx); werr != nil {
			log.Printf("Tasks still running at shutdown: %v", werr)
		}
		container.Registry.CloseAll()
		cancelSamples()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped with error: %v", err)
	}
}
