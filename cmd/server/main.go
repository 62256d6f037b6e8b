package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/handlers"
	"bitbucket.org/opilliashop/storefront_backend/notify"
	"bitbucket.org/opilliashop/storefront_backend/postersync"
	"bitbucket.org/opilliashop/storefront_backend/store"
)

const defaultPort = "8080"

func main() {
	logger := config.GetLogger()

	db, err := config.OpenDatabase()
	if err != nil {
		logger.WithError(err).Fatal("cannot open database")
	}

	st := store.New(db)
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		if err := st.Migrate(); err != nil {
			logger.WithError(err).Fatal("cannot migrate database")
		}
	}

	rdb, locker := config.OpenRedis()

	catalog, err := postersync.NewClient()
	var syncHandler *postersync.Handler
	if err != nil {
		logger.WithError(err).Warn("poster client not configured; sync endpoints disabled")
	}
	if catalog != nil {
		images := postersync.NewImageCache(logger)
		engine := postersync.NewEngine(catalog, st, images, logger)
		syncHandler = postersync.NewHandler(engine, st, locker, logger)
	}

	dispatcher := notify.NewDispatcher(logger)
	api := handlers.NewAPI(st, rdb, dispatcher, logger)
	router := handlers.BuildRouter(api, syncHandler, logger)

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = defaultPort
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()
	logger.WithField("port", port).Info("server started")

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	case <-sigCtx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}

	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
