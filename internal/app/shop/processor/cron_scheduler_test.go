package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRatingRecomputer мок для RatingRecomputer
type MockRatingRecomputer struct {
	mock.Mock
}

func (m *MockRatingRecomputer) RecomputeAllRatings(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestCronScheduler_Start_RunsInitialRecompute(t *testing.T) {
	recomputer := new(MockRatingRecomputer)
	scheduler := NewCronScheduler(recomputer)

	recomputer.On("RecomputeAllRatings", mock.Anything).Return(nil)

	err := scheduler.Start(context.Background(), "0 3 * * *")

	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)
	recomputer.AssertNumberOfCalls(t, "RecomputeAllRatings", 1)

	scheduler.Stop()
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	recomputer := new(MockRatingRecomputer)
	scheduler := NewCronScheduler(recomputer)

	err := scheduler.Start(context.Background(), "not a schedule")

	assert.Error(t, err)
}

func TestCronScheduler_Start_InitialFailureDoesNotStopScheduler(t *testing.T) {
	recomputer := new(MockRatingRecomputer)
	scheduler := NewCronScheduler(recomputer)

	recomputer.On("RecomputeAllRatings", mock.Anything).Return(errors.New("db error"))

	err := scheduler.Start(context.Background(), "0 3 * * *")

	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	scheduler.Stop()
}

func TestCronScheduler_JobExecution(t *testing.T) {
	recomputer := new(MockRatingRecomputer)
	scheduler := NewCronScheduler(recomputer)

	recomputer.On("RecomputeAllRatings", mock.Anything).Return(nil)

	err := scheduler.Start(context.Background(), "@every 100ms")
	assert.NoError(t, err)

	time.Sleep(350 * time.Millisecond)
	scheduler.Stop()

	// Минимум два вызова: стартовый прогон плюс срабатывания по расписанию
	assert.GreaterOrEqual(t, len(recomputer.Calls), 2)
}
