// Command full-sync runs one catalog synchronization from the command
// line, for cron jobs and one-off backfills.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/models"
	"bitbucket.org/opilliashop/storefront_backend/postersync"
	"bitbucket.org/opilliashop/storefront_backend/store"
)

func main() {
	kind := flag.String("kind", models.SyncKindFull, "sync kind: full, inventory or images")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run timeout")
	flag.Parse()

	logger := config.GetLogger()

	db, err := config.OpenDatabase()
	if err != nil {
		logger.WithError(err).Fatal("cannot open database")
	}
	st := store.New(db)
	if err := st.Migrate(); err != nil {
		logger.WithError(err).Fatal("cannot migrate database")
	}

	catalog, err := postersync.NewClient()
	if err != nil {
		logger.WithError(err).Fatal("poster client not configured")
	}
	engine := postersync.NewEngine(catalog, st, postersync.NewImageCache(logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	run, err := st.CreateSyncRun(ctx, *kind, models.SyncTriggeredCLI)
	if err != nil {
		logger.WithError(err).Fatal("cannot record sync run")
	}

	var summary *postersync.Summary
	var runErr error
	switch *kind {
	case models.SyncKindInventory:
		summary, runErr = engine.RunInventory(ctx)
	case models.SyncKindImages:
		summary, runErr = engine.RunImages(ctx)
	default:
		summary, runErr = engine.RunFull(ctx)
	}

	status := models.SyncRunStatusSuccess
	if runErr != nil {
		status = models.SyncRunStatusFailed
	} else if len(summary.Errors) > 0 {
		status = models.SyncRunStatusPartial
	}
	if err := st.FinishSyncRun(context.Background(), run.ID, store.SyncRunResult{
		Status:     status,
		Categories: summary.Categories,
		Products:   summary.Products,
		Branches:   summary.Branches,
		Inventory:  summary.Inventory,
		Images:     summary.Images,
		Errors:     summary.Errors,
	}); err != nil {
		logger.WithError(err).Error("cannot finish sync run")
	}

	logger.WithFields(logrus.Fields{
		"kind":       *kind,
		"status":     status,
		"categories": summary.Categories,
		"products":   summary.Products,
		"branches":   summary.Branches,
		"inventory":  summary.Inventory,
		"images":     summary.Images,
		"errors":     len(summary.Errors),
	}).Info("sync run finished")

	if runErr != nil {
		logger.WithError(runErr).Error("sync run aborted")
		os.Exit(1)
	}
}
