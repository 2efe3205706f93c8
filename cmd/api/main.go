package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/cache"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/config"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/database"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/handlers"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/identity"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/jobs"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/log"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/repository"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/repository/memory"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/server"
	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/service"
)

type assignmentStore interface {
	service.AssignmentStore
	jobs.AssignmentPruner
}

// backend is everything the services need from storage, whichever driver
// provides it.
type backend struct {
	identities  identity.Chain
	accounts    service.AccountStore
	students    service.StudentDirectory
	assignments assignmentStore
	denylist    service.Denylist
	checks      handlers.HealthChecks
	closers     []func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}

	authService := service.NewAuthService(be.identities, be.accounts, be.denylist, cfg.Security, logger)
	classService := service.NewClassService(be.assignments, be.students, be.identities, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, authService, classService, be.checks)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(be.assignments, cfg.Jobs.PruneAssignments, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, be)
}

func openBackend(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (*backend, error) {
	be := &backend{}

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
		db := memory.NewDB()
		be.identities = identity.NewChain(db.Users, db.Students, db.Teachers)
		be.accounts = db.Users
		be.students = db.Students
		be.assignments = db.Assignments
		be.denylist = memory.NewDenylist()
	default:
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		users := repository.NewUserRepository(pool)
		students := repository.NewStudentRepository(pool)
		be.identities = identity.NewChain(users, students, repository.NewTeacherRepository(pool))
		be.accounts = users
		be.students = students
		be.assignments = repository.NewClassAssignmentRepository(pool)
		be.checks.Database = pool.Ping
		be.closers = append(be.closers, pool.Close)
	}

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			be.close(logger)
			return nil, err
		}
		be.denylist = cache.NewDenylist(redisClient)
		be.checks.Cache = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		be.closers = append(be.closers, func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("redis close error")
			}
		})
	}

	if be.denylist == nil {
		logger.Warn().Msg("no token denylist configured; logout will not revoke tokens")
	}
	return be, nil
}

func (b *backend) close(logger zerolog.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	logger.Debug().Int("closed", len(b.closers)).Msg("storage closed")
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, be *backend) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	if scheduler != nil {
		wait := scheduler.Stop()
		wait()
	}

	be.close(logger)

	logger.Info().Msg("server exited cleanly")
}
