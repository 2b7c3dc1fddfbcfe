package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/latableronde/contest/internal/auth"
	"github.com/latableronde/contest/internal/codegen"
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/handler"
	adminhandler "github.com/latableronde/contest/internal/handler/admin"
	"github.com/latableronde/contest/internal/infra"
	"github.com/latableronde/contest/internal/repository"
	"github.com/latableronde/contest/internal/rng"
	"github.com/latableronde/contest/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Connect to Postgres
	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Parse JWT expiry durations
	customerExpiry, err := time.ParseDuration(cfg.JWTCustomerExpiry)
	if err != nil {
		return fmt.Errorf("parse customer JWT expiry: %w", err)
	}
	staffExpiry, err := time.ParseDuration(cfg.JWTStaffExpiry)
	if err != nil {
		return fmt.Errorf("parse staff JWT expiry: %w", err)
	}
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, customerExpiry, staffExpiry)

	// Repositories
	teamRepo := repository.NewTeamRepository()
	playerRepo := repository.NewPlayerRepository()
	matchRepo := repository.NewMatchRepository()
	pronosticRepo := repository.NewPronosticRepository()
	rewardRepo := repository.NewRewardRepository()
	ticketRepo := repository.NewTicketRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Services
	src := rng.System()
	codes := codegen.New(src)
	rewardExpiry := time.Duration(cfg.RewardExpiryDays) * 24 * time.Hour
	rewardSvc := service.NewRewardIssuer(pool, rewardRepo, outboxRepo, codes, rewardExpiry, logger)
	ticketSvc, err := service.NewTicketService(pool, ticketRepo, matchRepo, playerRepo, outboxRepo, codes, src, domain.DefaultPrizeCatalog, logger)
	if err != nil {
		return fmt.Errorf("ticket service: %w", err)
	}
	contestSvc := service.NewContestService(pool, matchRepo, teamRepo, pronosticRepo, outboxRepo, rewardSvc, ticketSvc, logger)
	pronosticSvc := service.NewPronosticService(pool, pronosticRepo, matchRepo, logger)

	// Handlers
	tournamentHandler := handler.NewTournamentHandler(pool, contestSvc, matchRepo, teamRepo)
	pronosticHandler := handler.NewPronosticHandler(pronosticSvc)
	ticketHandler := handler.NewTicketHandler(ticketSvc)
	rewardHandler := handler.NewRewardHandler(rewardSvc)

	// Admin handlers
	matchAdmin := adminhandler.NewMatchAdminHandler(contestSvc, pronosticSvc)
	ticketAdmin := adminhandler.NewTicketAdminHandler(ticketSvc)
	rewardAdmin := adminhandler.NewRewardAdminHandler(rewardSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORSWithOrigins(cfg.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Public reads (no auth)
	r.Route("/tournament", func(r chi.Router) {
		r.Get("/teams", tournamentHandler.ListTeams)
		r.Get("/matches", tournamentHandler.MatchesByPhase)
		r.Get("/groups/{group}/standings", tournamentHandler.GroupStandings)
		r.Get("/thirds", tournamentHandler.ThirdPlaceRanking)
		r.Get("/bracket", tournamentHandler.Bracket)
	})
	r.Get("/leaderboard", pronosticHandler.Leaderboard)

	// Customer-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticateCustomer(jwtMgr))

		r.Route("/pronostics", func(r chi.Router) {
			r.Post("/", pronosticHandler.Submit)
			r.Get("/me", pronosticHandler.MyPronostics)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/", ticketHandler.Purchase)
			r.Get("/me", ticketHandler.MyTickets)
			r.Get("/{code}", ticketHandler.Status)
		})

		r.Get("/rewards/me", rewardHandler.MyRewards)
	})

	// Staff-authenticated routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateStaff(jwtMgr))

		// Counter workflow: any staff member can scan and redeem.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.AllStaffRoles()...))

			r.Route("/tickets", func(r chi.Router) {
				r.Get("/{code}", ticketAdmin.Verify)
				r.Post("/{code}/redeem", ticketAdmin.Redeem)
			})
			r.Route("/rewards", func(r chi.Router) {
				r.Get("/{code}", rewardAdmin.Verify)
				r.Post("/{code}/redeem", rewardAdmin.Redeem)
			})
		})

		// Result entry and bracket control are manager-only.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.ManageRoles()...))

			r.Post("/matches/{seq}/result", matchAdmin.FinalizeMatch)
			r.Post("/matches/{seq}/lock", matchAdmin.LockMatch)
			r.Post("/matches/{seq}/resolve-tickets", ticketAdmin.ResolveMatch)
			r.Post("/phases/{phase}/generate", matchAdmin.GeneratePhase)
		})
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
