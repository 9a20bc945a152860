package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	identityhandler "carehub/internal/identity/handler"
	identitymetrics "carehub/internal/identity/metrics"
	identityservice "carehub/internal/identity/service"
	"carehub/internal/platform/config"
	"carehub/internal/platform/health"
	"carehub/internal/platform/httpserver"
	"carehub/internal/platform/logger"
	residenthandler "carehub/internal/residents/handler"
	residentmetrics "carehub/internal/residents/metrics"
	residentservice "carehub/internal/residents/service"
	residentstore "carehub/internal/residents/store"
	rosterhandler "carehub/internal/roster/handler"
	rostermetrics "carehub/internal/roster/metrics"
	rosterservice "carehub/internal/roster/service"
	"carehub/internal/roster/tracer"
	httptransport "carehub/internal/transport/http"
	"carehub/pkg/platform/middleware/request"
)

const shutdownTimeout = 10 * time.Second

// main wires the services, exposes the HTTP router, and keeps the server
// lifecycle small. Business logic lives in the internal feature packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing carehub",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"import_max_rows", cfg.Import.MaxRows,
		"import_workers", cfg.Import.Workers,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	identity := identityservice.New(
		identityservice.WithLogger(log),
		identityservice.WithMetrics(identitymetrics.New(reg)),
	)
	residents := residentservice.New(residentstore.NewInMemory(),
		residentservice.WithLogger(log),
		residentservice.WithMetrics(residentmetrics.New(reg)),
	)
	roster := rosterservice.New(residents,
		rosterservice.WithLogger(log),
		rosterservice.WithMetrics(rostermetrics.New(reg)),
		rosterservice.WithTracer(tracer.NewOTel()),
		rosterservice.WithLimits(cfg.Import.MaxRows, cfg.Import.Workers),
	)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("residents", residents.Ready)

	router := httptransport.NewRouter(httptransport.Routes{
		Health: healthHandler,
		JSON: []httptransport.Registrar{
			identityhandler.New(identity, log),
			residenthandler.New(residents, log),
		},
		Roster:      rosterhandler.New(roster, log),
		RosterMedia: rosterhandler.MediaTypes,
		Metrics:     reg,
	}, httptransport.Limits{
		RequestTimeout: cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		ImportMaxBytes: cfg.Import.MaxBytes,
	}, request.NewMetrics(reg), log)

	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT or SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
