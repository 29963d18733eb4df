package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iZhuoxx/AI-web/internal/bootstrap"
	"github.com/iZhuoxx/AI-web/internal/config"
	"github.com/iZhuoxx/AI-web/internal/server"
	"github.com/iZhuoxx/AI-web/internal/tracer"
	"github.com/iZhuoxx/AI-web/pkg/database"
	"github.com/iZhuoxx/AI-web/pkg/database/migrations"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	if cfg.App.CheckMigrations {
		sqlDB, err := gormDB.DB()
		if err != nil {
			log.Panicf("Unable to get sql.DB: %v", err)
		}
		if err := migrations.CheckDBMigrationStatus(sqlDB); err != nil {
			log.Fatalf("Migration check failed: %v (run `go run ./cmd/migrate up`)", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(cfg.Tracing, container.Logger)
	defer shutdownTracer(context.Background())

	// 4. Start Background Services
	if err := container.Start(ctx); err != nil {
		log.Fatalf("Background services failed: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown()
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
