package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bellavista/ordering-service/internal/cart"
	"github.com/bellavista/ordering-service/internal/catalog"
	"github.com/bellavista/ordering-service/internal/checkout"
	"github.com/bellavista/ordering-service/internal/config"
	"github.com/bellavista/ordering-service/internal/db"
	"github.com/bellavista/ordering-service/internal/dispatch"
	"github.com/bellavista/ordering-service/internal/events"
	httpserver "github.com/bellavista/ordering-service/internal/http"
)

func main() {
	logger := log.New(os.Stdout, "[ordering-service] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	menu, err := catalog.Load(cfg.MenuPath)
	if err != nil {
		logger.Fatalf("load menu: %v", err)
	}

	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	database := db.MustOpen(cfg.DatabaseDSN)
	defer database.Close()

	store := cart.NewStore(
		cart.NewRepository(database),
		cart.Pricing{GSTPercentage: cfg.GSTPercentage, DeliveryFee: cfg.DeliveryFee},
		logger,
	)
	snapshots := checkout.NewSnapshotRepository(database)

	whatsapp, err := dispatch.NewWhatsApp(cfg.WhatsAppNumber)
	if err != nil {
		logger.Fatalf("configure dispatch: %v", err)
	}

	rabbitConn := events.MustDialRabbit(cfg.RabbitURL)
	defer rabbitConn.Close()

	publisher, err := events.NewPublisher(rabbitConn)
	if err != nil {
		logger.Fatalf("create order publisher: %v", err)
	}

	msgCfg := checkout.MessageConfig{
		RestaurantName: cfg.RestaurantName,
		GSTPercentage:  cfg.GSTPercentage,
		Phone:          cfg.Phone,
		Email:          cfg.Email,
	}

	info := httpserver.RestaurantInfo{
		Name:          cfg.RestaurantName,
		Tagline:       cfg.Tagline,
		Phone:         cfg.Phone,
		Email:         cfg.Email,
		Address:       cfg.Address,
		GSTPercentage: cfg.GSTPercentage,
		DeliveryFee:   cfg.DeliveryFee,
		MinimumOrder:  cfg.MinimumOrder,
	}

	mux := httpserver.NewRouter(
		httpserver.NewCatalogHandler(menu, info),
		httpserver.NewCartHandler(store, menu, snapshots),
		httpserver.NewCheckoutHandler(snapshots, store, whatsapp, publisher, msgCfg, cfg.PostDispatchDelay, logger),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("ordering-service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Printf("publisher close error: %v", err)
	}
}
