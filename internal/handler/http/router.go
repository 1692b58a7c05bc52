package http

import (
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-overtime/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

// RouterOptions carries the process settings the router needs.
type RouterOptions struct {
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
	CalculateRate  float64
	CalculateBurst int
	// CalculateIdleTTL evicts limiters of clients idle that long.
	CalculateIdleTTL time.Duration
}

func NewRouter(JWTService jwt.Service, timesheetHandler TimesheetHandler, payConfigHandler PayConfigHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-overtime"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	calculateLimiter := middleware.NewClientRateLimiter(rate.Limit(opts.CalculateRate), opts.CalculateBurst, opts.CalculateIdleTTL)

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/", timesheetHandler.List)
				r.Get("/weekly", timesheetHandler.Weekly)

				r.With(middleware.RateLimit(calculateLimiter)).Post("/calculate", timesheetHandler.Calculate)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/{id}/adjust", timesheetHandler.Adjust)
				})
			})

			r.Route("/pay-configs/{employeeCode}", func(r chi.Router) {
				r.Get("/", payConfigHandler.Get)
				r.Get("/validation", payConfigHandler.Validate)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/", payConfigHandler.Upsert)
				})
			})
		})
	})
	return r
}
