package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const statsCacheTTL = time.Minute

// Counting slices of the repositories the dashboard reads. All three are
// scoped to one trainer.
type MemberCounter interface {
	CountByTrainer(ctx context.Context, trainerID string) (int, error)
}

type CheckInCounter interface {
	CountSinceByTrainer(ctx context.Context, trainerID string, since time.Time) (int, error)
}

type ActivePlanCounter interface {
	CountActiveByTrainer(ctx context.Context, trainerID string) (int, error)
}

// StatsService aggregates trainer dashboard numbers, cached briefly in redis
// because every trainer page load asks for them.
type StatsService struct {
	users      MemberCounter
	attendance CheckInCounter
	workouts   ActivePlanCounter
	cache      *redis.Client
	loc        *time.Location
	log        zerolog.Logger
}

func NewStatsService(
	users MemberCounter,
	attendance CheckInCounter,
	workouts ActivePlanCounter,
	cache *redis.Client,
	loc *time.Location,
	log zerolog.Logger,
) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{
		users:      users,
		attendance: attendance,
		workouts:   workouts,
		cache:      cache,
		loc:        loc,
		log:        log,
	}
}

type TrainerStats struct {
	MemberCount   int `json:"memberCount"`
	CheckInsToday int `json:"checkInsToday"`
	ActivePlans   int `json:"activePlans"`
}

func (s *StatsService) TrainerStats(ctx context.Context, trainerID string) (TrainerStats, error) {
	cacheKey := fmt.Sprintf("stats:trainer:%s", trainerID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var stats TrainerStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return stats, nil
			}
		}
	}

	members, err := s.users.CountByTrainer(ctx, trainerID)
	if err != nil {
		return TrainerStats{}, err
	}

	now := time.Now().In(s.loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	checkIns, err := s.attendance.CountSinceByTrainer(ctx, trainerID, midnight)
	if err != nil {
		return TrainerStats{}, err
	}

	plans, err := s.workouts.CountActiveByTrainer(ctx, trainerID)
	if err != nil {
		return TrainerStats{}, err
	}

	stats := TrainerStats{
		MemberCount:   members,
		CheckInsToday: checkIns,
		ActivePlans:   plans,
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, cacheKey, encoded, statsCacheTTL).Err(); err != nil {
				s.log.Debug().Err(err).Msg("stats cache write failed")
			}
		}
	}

	return stats, nil
}
