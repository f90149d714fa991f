package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pantrysnap/backend/internal/service"
)

func TestStageRunnerEmitsFullSequence(t *testing.T) {
	runner := service.NewStageRunner(service.GenerationStages, 5*time.Millisecond)

	var names []string
	err := runner.Run(context.Background(), func(s service.Stage) {
		names = append(names, s.Name)
	})

	assert.NoError(t, err)
	want := make([]string, 0, len(service.GenerationStages))
	for _, s := range service.GenerationStages {
		want = append(want, s.Name)
	}
	assert.Equal(t, want, names)
}

func TestStageRunnerFloor(t *testing.T) {
	runner := service.NewStageRunner(service.GenerationStages, 5*time.Millisecond)
	assert.Equal(t, time.Duration(len(service.GenerationStages))*5*time.Millisecond, runner.Floor())

	start := time.Now()
	err := runner.Run(context.Background(), nil)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), runner.Floor())
}

func TestStageRunnerStopsOnCancel(t *testing.T) {
	runner := service.NewStageRunner(service.GenerationStages, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := runner.Run(ctx, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestStageRunnerDefaultsInterval(t *testing.T) {
	runner := service.NewStageRunner(service.GenerationStages, 0)
	assert.Equal(t, time.Duration(len(service.GenerationStages))*service.DefaultStageInterval, runner.Floor())
}
