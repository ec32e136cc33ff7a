package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jengzang/visit-tracker-go/internal/api"
	"github.com/jengzang/visit-tracker-go/internal/config"
	"github.com/jengzang/visit-tracker-go/internal/database"
	"github.com/jengzang/visit-tracker-go/internal/handler"
	"github.com/jengzang/visit-tracker-go/internal/repository"
	"github.com/jengzang/visit-tracker-go/internal/service"
	"github.com/jengzang/visit-tracker-go/internal/tracker"
	"github.com/jengzang/visit-tracker-go/internal/viewer"
)

func main() {
	// 加载配置
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	trackerCfg, err := cfg.Tracker()
	if err != nil {
		log.Fatal("Invalid tracker configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化存储
	var store repository.KeyValueStore
	switch cfg.StoreBackend {
	case config.StoreMemory:
		log.Printf("Using in-memory store; visits will not survive a restart")
		store = repository.NewMemoryStore()
	default:
		if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
			log.Fatal("Failed to initialize database: ", err)
		}
		defer database.Close()
		store = repository.NewSQLiteStore(database.GetDB())
	}

	viewport := viewer.NewRemoteViewport(trackerCfg.MinZoom)
	board := viewer.NewOverlayBoard()

	t, err := tracker.New(trackerCfg, viewport, board, repository.NewVisitRepository(store))
	if err != nil {
		log.Fatal("Failed to create tracker: ", err)
	}
	if err := t.Start(ctx); err != nil {
		log.Fatal("Failed to start tracker: ", err)
	}
	defer t.Stop()

	visits := handler.NewVisitHandler(service.NewVisitService(t, viewport, board, cfg.TileSourceURL))

	// 初始化路由
	router := api.SetupRouter(ctx, cfg, visits)
	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Failed to start server: ", err)
	}
	log.Printf("Server stopped")
}
