package http

import (
	"log/slog"
	"os"

	"github.com/fieldops-hq/hrops-backend/internal/config"
	"github.com/fieldops-hq/hrops-backend/internal/handler/http/middleware"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg config.AppConfig,
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	overtimeHandler OvertimeHandler,
	cashFlowHandler CashFlowHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrops-backend"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/sessions/{id}/clock-out", attendanceHandler.ClockOut)
				r.Put("/sessions/{id}", attendanceHandler.Correct)
				r.Get("/summary", attendanceHandler.DailySummary)
			})

			r.Route("/leave-requests", func(r chi.Router) {
				r.Post("/", leaveHandler.Submit)
				r.Get("/", leaveHandler.List)
				r.Get("/my", leaveHandler.MyRequests)
				r.Post("/{id}/review", leaveHandler.Review)
				r.Post("/{id}/revoke", leaveHandler.Revoke)
			})

			r.Route("/overtime-requests", func(r chi.Router) {
				r.Post("/", overtimeHandler.Submit)
				r.Get("/", overtimeHandler.List)
				r.Post("/{id}/review", overtimeHandler.Review)
				r.Put("/{id}", overtimeHandler.Edit)
				r.Delete("/{id}", overtimeHandler.Delete)
			})

			r.Route("/cash-advances", func(r chi.Router) {
				r.Post("/", cashFlowHandler.SubmitAdvance)
				r.Get("/", cashFlowHandler.ListAdvances)
				r.Post("/{id}/review", cashFlowHandler.ReviewAdvance)
				r.Post("/{id}/reopen", cashFlowHandler.ReopenAdvance)
				r.Put("/{id}", cashFlowHandler.EditAdvance)
				r.Delete("/{id}", cashFlowHandler.DeleteAdvance)
			})

			r.Route("/liquidations", func(r chi.Router) {
				r.Post("/", cashFlowHandler.SubmitLiquidation)
				r.Get("/", cashFlowHandler.ListLiquidations)
				r.Post("/{id}/review", cashFlowHandler.ReviewLiquidation)
				r.Post("/{id}/reopen", cashFlowHandler.ReopenLiquidation)
				r.Put("/{id}", cashFlowHandler.EditLiquidation)
				r.Post("/{id}/receipts", cashFlowHandler.AttachReceipt)
			})
		})
	})
	return r
}
