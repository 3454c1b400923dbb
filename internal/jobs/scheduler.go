package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"gymora/api/internal/config"
	"gymora/api/internal/repository"
	"gymora/api/internal/service"
)

// Scheduler runs nightly maintenance: closing check-ins left open and
// purging expired session rows. A redis lock keeps multiple instances from
// doing the same sweep.
type Scheduler struct {
	cron       *cron.Cron
	locks      *redis.Client
	attendance *service.AttendanceService
	sessions   *repository.SessionRepository
	cfg        *config.AppConfig
	log        zerolog.Logger
}

func NewScheduler(
	locks *redis.Client,
	attendance *service.AttendanceService,
	sessions *repository.SessionRepository,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		locks:      locks,
		attendance: attendance,
		sessions:   sessions,
		cfg:        cfg,
		log:        log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 5 0 * * *", s.runAutoCheckout); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 15 0 * * *", s.runSessionPurge); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) runAutoCheckout() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if !s.acquireLock(ctx, "jobs:auto-checkout") {
		return
	}

	closed, err := s.attendance.CloseStale(ctx, s.cfg.Attendance.MaxSessionMinutes)
	if err != nil {
		s.log.Error().Err(err).Msg("auto checkout sweep failed")
		return
	}
	if closed > 0 {
		s.log.Info().Int("closed", closed).Msg("auto checkout sweep done")
	}
}

func (s *Scheduler) runSessionPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if !s.acquireLock(ctx, "jobs:session-purge") {
		return
	}

	purged, err := s.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
		return
	}
	if purged > 0 {
		s.log.Info().Int64("purged", purged).Msg("session purge done")
	}
}

func (s *Scheduler) acquireLock(ctx context.Context, key string) bool {
	if s.locks == nil {
		return true
	}
	ok, err := s.locks.SetNX(ctx, key, "1", 10*time.Minute).Result()
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("job lock failed, skipping run")
		return false
	}
	return ok
}
