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
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-overtime/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-overtime/internal/handler/http"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/database"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-overtime/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/hris-overtime/internal/service/employee"
	"github.com/cmlabs-hris/hris-overtime/internal/service/overtime"
	payConfigService "github.com/cmlabs-hris/hris-overtime/internal/service/payconfig"
	timesheetService "github.com/cmlabs-hris/hris-overtime/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	loc := cfg.Location()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	payConfigRepo := postgresql.NewPayConfigRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	transactor := postgresql.NewTransactor(db)

	// Tokens are issued by the HRIS host; this service only verifies them.
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, 0)
	employeeDirectory := employeeService.NewCachedDirectory(employeeRepo, cfg.Employee.CacheTTL)
	payConfigSvc := payConfigService.NewPayConfigService(payConfigRepo, employeeDirectory)
	timesheetSvc := timesheetService.NewTimesheetService(
		transactor,
		timesheetRepo,
		payConfigRepo,
		punchRepo,
		employeeDirectory,
		overtime.NewRateCalculator(),
		timesheetService.Options{
			Location:     loc,
			Workers:      cfg.Overtime.Workers,
			MaxRangeDays: cfg.Overtime.MaxRangeDays,
		},
	)

	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	payConfigHandler := appHTTP.NewPayConfigHandler(payConfigSvc)

	router := appHTTP.NewRouter(JWTService, timesheetHandler, payConfigHandler, appHTTP.RouterOptions{
		Env:              cfg.App.Env,
		LogLevel:         cfg.SlogLevel(),
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		CalculateRate:    cfg.RateLimit.CalculateRate,
		CalculateBurst:   cfg.RateLimit.CalculateBurst,
		CalculateIdleTTL: cfg.RateLimit.IdleTTL,
	})

	scheduler := cron.NewScheduler()
	if cfg.Overtime.CronEnabled {
		timesheetJobs := cron.NewTimesheetJobs(timesheetSvc, cron.TimesheetJobOptions{
			Location:     loc,
			Interval:     cfg.Overtime.CronInterval,
			Hour:         cfg.Overtime.CronHour,
			LookbackDays: cfg.Overtime.LookbackDays,
		})
		timesheetJobs.RegisterJobs(scheduler)
	}
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		slog.Error("Cron scheduler shutdown failed", "error", err)
	}
}
