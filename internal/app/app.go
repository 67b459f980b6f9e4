package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nbprates/internal/adapters/cache"
	"nbprates/internal/adapters/nbpapi"
	"nbprates/internal/adapters/postgres"
	"nbprates/internal/analytics"
	"nbprates/internal/api"
	"nbprates/internal/config"
	"nbprates/internal/platform/db"
	httpserver "nbprates/internal/platform/http"
	"nbprates/internal/rate"
	"nbprates/internal/rate/handler"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, synchronizes once, then serves HTTP until a signal arrives
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err = db.Migrate(startupCtx, appCfg.DbServer.GetConnectionStr()); err != nil {
		logrus.WithError(err).Error("Error migrating db")
		return err
	}
	logrus.Info("✅ Migrations applied")

	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	bootstrap, err := appCfg.Sync.Bootstrap()
	if err != nil {
		return err
	}
	gateway := postgres.NewGateway(pool, bootstrap)

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 30 * time.Second
	}
	nbpClient := nbpapi.NewClient(&http.Client{Timeout: httpTimeout}, strings.TrimSuffix(appCfg.NbpAPI.BaseURL, "/"))

	sessions, err := cache.NewSessionCache(appCfg.Session.MaxItems, time.Duration(appCfg.Session.TTLMinutes)*time.Minute)
	if err != nil {
		return err
	}
	defer sessions.Close()

	// Services
	synchronizer := rate.NewSynchronizer(gateway, nbpClient, appCfg.Tables, time.Now)
	rateService, err := rate.NewService(gateway, sessions, rate.NewValidator(), chartCatalog(appCfg.Charts), appCfg.ShowDataframe)
	if err != nil {
		logrus.WithError(err).Error("Invalid chart configuration")
		return err
	}

	if appCfg.Sync.OnStartup {
		// A failed sync leaves the stored history usable, so the server still starts
		if report, syncErr := synchronizer.Sync(ctx); syncErr != nil {
			logrus.WithError(syncErr).WithField("exec_id", report.ExecID).Error("Startup synchronization failed")
		} else {
			logrus.Info("✅ Startup synchronization successful")
		}
	}

	if appCfg.Scheduler.SyncIntervalSec > 0 {
		scheduler := rate.NewScheduler(synchronizer, time.Duration(appCfg.Scheduler.SyncIntervalSec)*time.Second)
		// Ensure scheduler stops before DB pool closes
		defer func() {
			if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
				logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
			}
		}()
		if startErr := scheduler.Start(ctx); startErr != nil {
			logrus.WithError(startErr).Error("Failed to start scheduler")
			return startErr
		}
		logrus.Info("✅ Scheduler activation successful")
	}

	// Handlers and router
	rateHandler := handler.NewRateHandler(rateService, synchronizer)
	router := api.NewRouter(rateHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func chartCatalog(charts []config.Chart) []rate.ChartInfo {
	out := make([]rate.ChartInfo, 0, len(charts))
	for _, c := range charts {
		out = append(out, rate.ChartInfo{
			Kind:        analytics.ChartKind(c.Kind),
			Name:        c.Name,
			Description: c.Description,
		})
	}
	return out
}
