package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// AssignmentPruner removes class assignments whose teacher no longer exists.
type AssignmentPruner interface {
	DeleteOrphaned(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron      *cron.Cron
	pruner    AssignmentPruner
	pruneSpec string
	log       zerolog.Logger
}

func NewScheduler(pruner AssignmentPruner, pruneSpec string, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:      c,
		pruner:    pruner,
		pruneSpec: pruneSpec,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if s.pruner == nil || s.pruneSpec == "" {
		return nil
	}

	if _, err := s.cron.AddFunc(s.pruneSpec, s.pruneAssignments); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("schedule", s.pruneSpec).Msg("assignment prune scheduled")
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		<-s.cron.Stop().Done()
		cancel()
	}()
	return func() {
		<-ctx.Done()
	}
}

func (s *Scheduler) pruneAssignments() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.pruner.DeleteOrphaned(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("prune orphaned assignments failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("orphaned assignments pruned")
	}
}
