package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/backoffice/internal/config"
	"github.com/MrJamesThe3rd/backoffice/internal/database"
	"github.com/MrJamesThe3rd/backoffice/internal/directory"
	directoryStore "github.com/MrJamesThe3rd/backoffice/internal/directory/store"
	backofficeHttp "github.com/MrJamesThe3rd/backoffice/internal/http"
	directoryHandler "github.com/MrJamesThe3rd/backoffice/internal/http/directory"
	importHandler "github.com/MrJamesThe3rd/backoffice/internal/http/importcsv"
	invoiceHandler "github.com/MrJamesThe3rd/backoffice/internal/http/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/importer"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/backoffice/internal/invoice/store"
	"github.com/MrJamesThe3rd/backoffice/internal/render"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString(), database.PoolOptions{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		directoryService = directory.NewService(directoryStore.New(db))
		invoiceService   = invoice.NewService(invoiceStore.New(db), directoryService, invoice.Options{
			Rates:        invoice.TaxRates{CGST: cfg.Invoice.CGSTRate, SGST: cfg.Invoice.SGSTRate},
			NumberPrefix: cfg.Invoice.NumberPrefix,
			StoreTimeout: cfg.Invoice.StoreTimeout,
		})
		importService = importer.NewService()
		renderer      = render.NewRenderer(render.Seller{
			Name:    cfg.Invoice.SellerName,
			Address: cfg.Invoice.SellerAddress,
			GSTIN:   cfg.Invoice.SellerGSTIN,
		}, language.MustParse("en-IN"))
	)

	var (
		invoiceH   = invoiceHandler.NewHandler(invoiceService, renderer)
		importH    = importHandler.NewHandler(importService, invoiceService)
		directoryH = directoryHandler.NewHandler(directoryService, invoiceService)
	)

	router := backofficeHttp.New(backofficeHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
	}, invoiceH, importH, directoryH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
