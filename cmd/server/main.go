// Command server runs the visitor management API: registration, approval,
// check-in/out, and the dashboard, behind token auth.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authhandler "gatehouse/internal/auth/handler"
	"gatehouse/internal/auth/jwt"
	authservice "gatehouse/internal/auth/service"
	authstore "gatehouse/internal/auth/store"
	"gatehouse/internal/auth/store/revocation"
	employeehandler "gatehouse/internal/employee/handler"
	employeeservice "gatehouse/internal/employee/service"
	employeestore "gatehouse/internal/employee/store"
	"gatehouse/internal/platform/config"
	"gatehouse/internal/platform/httpserver"
	"gatehouse/internal/platform/logger"
	"gatehouse/internal/platform/postgres"
	platformredis "gatehouse/internal/platform/redis"
	httptransport "gatehouse/internal/transport/http"
	visithandler "gatehouse/internal/visit/handler"
	visitmetrics "gatehouse/internal/visit/metrics"
	visitservice "gatehouse/internal/visit/service"
	visitstore "gatehouse/internal/visit/store"
	visitorstore "gatehouse/internal/visitor/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Stores: postgres when configured, in-memory otherwise.
	var (
		db        *sql.DB
		visits    visitstore.VisitStore
		visitors  visitorstore.VisitorStore
		employees employeestore.EmployeeStore
		users     authstore.UserStore
		visitOpts []visitservice.Option
	)
	if cfg.PostgresURL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		visits = visitstore.NewPostgres(db)
		visitors = visitorstore.NewPostgres(db)
		employees = employeestore.NewPostgres(db)
		users = authstore.NewPostgres(db)
		visitOpts = append(visitOpts, visitservice.WithRegistrationTx(postgres.NewTxRunner(db)))
		log.Info("using postgres stores")
	} else {
		visits = visitstore.NewInMemory()
		visitors = visitorstore.NewInMemory()
		employees = employeestore.NewInMemory()
		users = authstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	// Revocation list: redis when configured, in-memory otherwise.
	var revoked revocation.Store = revocation.NewInMemory()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		revoked = revocation.NewRedis(redisClient.Client)
		log.Info("using redis revocation list")
	}

	if cfg.SeedAccounts {
		if err := authservice.SeedUsers(ctx, users, authservice.DefaultSeedAccounts, cfg.SeedPassword); err != nil {
			log.Error("account seeding failed", "error", err)
			os.Exit(1)
		}
		log.Info("bootstrap accounts seeded", "count", len(authservice.DefaultSeedAccounts))
	}

	tokens := jwt.NewService(cfg.JWTSigningKey, cfg.TokenTTL)
	auth := authservice.New(users, tokens, revoked, log)
	visitSvc := visitservice.New(visits, visitors, employees, visitmetrics.New(), log, visitOpts...)
	employeeSvc := employeeservice.New(employees)

	var health []httptransport.Health
	if db != nil {
		health = append(health, dbHealth{db})
	}
	if redisClient != nil {
		health = append(health, redisClient)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Validator:    auth,
		Auth:         authhandler.New(auth, log),
		Visits:       visithandler.New(visitSvc, log),
		Employees:    employeehandler.New(employeeSvc, log),
		HealthChecks: health,
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting gatehouse", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

type dbHealth struct{ db *sql.DB }

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
