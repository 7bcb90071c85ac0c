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

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/auth"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/config"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/db"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/excel"
	httphandler "github.com/yudatch/kaien-pre-release-20250210-sub000/internal/http"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/http/middleware"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/logger"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/pdf"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/repository"
	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	documentRepo := repository.NewDocumentRepository(database)
	projectRepo := repository.NewProjectRepository(database)
	customerRepo := repository.NewCustomerRepository(database)
	supplierRepo := repository.NewSupplierRepository(database)
	constructionRepo := repository.NewConstructionRepository(database)
	purchaseRepo := repository.NewPurchaseOrderRepository(database)
	expenseRepo := repository.NewExpenseRepository(database)

	documentService := service.NewDocumentService(documentRepo, projectRepo)
	exportService := service.NewExportService(documentRepo, pdf.NewGenerator(), excel.NewGenerator())
	projectService := service.NewProjectService(projectRepo, customerRepo)
	constructionService := service.NewConstructionService(constructionRepo, projectRepo)
	purchaseService := service.NewPurchaseService(purchaseRepo, supplierRepo)
	expenseService := service.NewExpenseService(expenseRepo)
	partnerService := service.NewPartnerService(customerRepo, supplierRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(
		documentService,
		exportService,
		projectService,
		constructionService,
		purchaseService,
		expenseService,
		partnerService,
		log,
	)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting kaien server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}

	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("stopped")
}
