// Package scenario drives an engine with scripted game events and checks the
// resulting hall of fame. Scenarios are Lua scripts returning a Scenario.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/finalfrontier/internal/services/halloffame/app"
	"github.com/louisbranch/finalfrontier/internal/services/halloffame/domain/decoration"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config controls scenario execution.
type Config struct {
	Assertions AssertionMode
	Logger     *zap.Logger
}

// Runner executes scenarios against one engine.
type Runner struct {
	engine     *app.Engine
	assertions Assertions
	logger     *zap.Logger
}

// Result summarizes a finished scenario.
type Result struct {
	Name     string
	Steps    int
	Records  int
	Failures int
}

type scenarioState struct {
	crew    map[string]decoration.Crew
	vessels map[string]*decoration.VesselState
	active  string
}

// NewRunner prepares a runner over engine.
func NewRunner(engine *app.Engine, cfg Config) (*Runner, error) {
	if engine == nil {
		return nil, errors.New("engine is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		engine:     engine,
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
	}, nil
}

// RunFile loads and executes a scenario file.
func (r *Runner) RunFile(ctx context.Context, path string) (Result, error) {
	s, err := LoadFile(path)
	if err != nil {
		return Result{}, err
	}
	return r.Run(ctx, s)
}

// Run executes the scenario steps in order and stops on the first step that
// fails.
func (r *Runner) Run(ctx context.Context, s *Scenario) (Result, error) {
	if s == nil {
		return Result{}, errors.New("scenario is required")
	}
	ctx, span := otel.Tracer(app.TracerName).Start(ctx, "halloffame.scenario",
		trace.WithAttributes(attribute.String("scenario", s.Name)))
	defer span.End()

	r.logger.Info("scenario start", zap.String("scenario", s.Name), zap.Int("steps", len(s.Steps)))
	state := &scenarioState{
		crew:    map[string]decoration.Crew{},
		vessels: map[string]*decoration.VesselState{},
	}
	result := Result{Name: s.Name, Steps: len(s.Steps)}
	for index, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		start := time.Now()
		if err := r.runStep(state, step); err != nil {
			err = fmt.Errorf("step %d (%s): %w", index+1, step.Kind, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return result, err
		}
		r.logger.Debug("step done",
			zap.Int("step", index+1),
			zap.String("kind", step.Kind),
			zap.Duration("elapsed", time.Since(start)))
	}
	result.Records = len(r.engine.Logbook())
	result.Failures = r.assertions.Failures()
	span.SetAttributes(
		attribute.Int("steps", result.Steps),
		attribute.Int("records", result.Records),
		attribute.Int("failures", result.Failures))
	r.logger.Info("scenario done",
		zap.String("scenario", s.Name),
		zap.Int("records", result.Records),
		zap.Int("failures", result.Failures))
	return result, nil
}
