package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemberCounter struct {
	trainerID string
	count     int
}

func (f *fakeMemberCounter) CountByTrainer(_ context.Context, trainerID string) (int, error) {
	f.trainerID = trainerID
	return f.count, nil
}

type fakeCheckInCounter struct {
	trainerID string
	since     time.Time
	count     int
}

func (f *fakeCheckInCounter) CountSinceByTrainer(_ context.Context, trainerID string, since time.Time) (int, error) {
	f.trainerID = trainerID
	f.since = since
	return f.count, nil
}

type fakeActivePlanCounter struct {
	trainerID string
	count     int
}

func (f *fakeActivePlanCounter) CountActiveByTrainer(_ context.Context, trainerID string) (int, error) {
	f.trainerID = trainerID
	return f.count, nil
}

func TestTrainerStatsScopedToTrainer(t *testing.T) {
	members := &fakeMemberCounter{count: 12}
	checkIns := &fakeCheckInCounter{count: 5}
	plans := &fakeActivePlanCounter{count: 7}

	svc := NewStatsService(members, checkIns, plans, nil, time.UTC, zerolog.Nop())

	stats, err := svc.TrainerStats(context.Background(), "trainer-1")
	require.NoError(t, err)

	assert.Equal(t, TrainerStats{MemberCount: 12, CheckInsToday: 5, ActivePlans: 7}, stats)

	// Every count must be scoped to the requesting trainer.
	assert.Equal(t, "trainer-1", members.trainerID)
	assert.Equal(t, "trainer-1", checkIns.trainerID)
	assert.Equal(t, "trainer-1", plans.trainerID)
}

func TestTrainerStatsCheckInsSinceMidnight(t *testing.T) {
	checkIns := &fakeCheckInCounter{}
	svc := NewStatsService(&fakeMemberCounter{}, checkIns, &fakeActivePlanCounter{}, nil, time.UTC, zerolog.Nop())

	_, err := svc.TrainerStats(context.Background(), "trainer-1")
	require.NoError(t, err)

	now := time.Now().UTC()
	assert.Equal(t, 0, checkIns.since.Hour())
	assert.Equal(t, 0, checkIns.since.Minute())
	assert.Equal(t, now.Year(), checkIns.since.Year())
	assert.Equal(t, now.YearDay(), checkIns.since.YearDay())
}
