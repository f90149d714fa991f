package service

import (
	"context"
	"time"
)

// Stage is one label of the cosmetic progress sequence shown while a
// generation runs. The sequence advances on a fixed timer and says nothing
// about real progress.
type Stage struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StageComplete is emitted once, after the real work has finished and the
// minimum display floor has elapsed. Results are never revealed before it.
var StageComplete = Stage{Name: "complete", Description: "Your recipes are ready"}

// GenerationStages is the fixed display sequence for a generation run.
var GenerationStages = []Stage{
	{Name: "analyzing_ingredients", Description: "Identifying and processing your ingredients"},
	{Name: "evaluating_requirements", Description: "Analyzing your preferences and dietary needs"},
	{Name: "composing_recipes", Description: "Creating personalized recipes just for you"},
	{Name: "finalizing", Description: "Putting the finishing touches on your suggestions"},
}

// DefaultStageInterval is how long each stage is displayed.
const DefaultStageInterval = 2 * time.Second

// StageRunner drives a stage sequence on a ticker. It runs concurrently with
// the real work and is canceled through its context when the work fails or
// the caller goes away, so no timer outlives its request.
type StageRunner struct {
	stages   []Stage
	interval time.Duration
}

func NewStageRunner(stages []Stage, interval time.Duration) *StageRunner {
	if interval <= 0 {
		interval = DefaultStageInterval
	}
	return &StageRunner{stages: stages, interval: interval}
}

// Floor is the minimum wall-clock time the sequence occupies when it runs to
// completion.
func (r *StageRunner) Floor() time.Duration {
	return time.Duration(len(r.stages)) * r.interval
}

// Run emits each stage in order, holding it for the configured interval.
// onStage may be nil. Run returns ctx.Err() when canceled mid-sequence and
// nil once the full floor has elapsed.
func (r *StageRunner) Run(ctx context.Context, onStage func(Stage)) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for _, stage := range r.stages {
		if onStage != nil {
			onStage(stage)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
