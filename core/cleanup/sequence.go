package cleanup

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Step is a single named release.
type Step struct {
	Name string
	Fn   func() error
}

// Sequence is an ordered list of independent release steps.
type Sequence struct {
	steps  []Step
	logger *zap.Logger
	level  zapcore.Level
	once   sync.Once
	err    error
}

// New creates an empty sequence. A nil logger discards output.
func New(logger *zap.Logger) *Sequence {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequence{logger: logger, level: zapcore.WarnLevel}
}

// FailureLevel sets the level step failures are logged at.
func (s *Sequence) FailureLevel(level zapcore.Level) *Sequence {
	s.level = level
	return s
}

// Add appends a step. Nil functions are ignored.
func (s *Sequence) Add(name string, fn func() error) *Sequence {
	if fn != nil {
		s.steps = append(s.steps, Step{Name: name, Fn: fn})
	}
	return s
}

// Run executes every step once and returns the joined failures.
// Subsequent calls return the result of the first run without re-executing.
func (s *Sequence) Run() error {
	s.once.Do(func() {
		var errs []error
		for _, step := range s.steps {
			if err := runStep(step); err != nil {
				s.logger.Log(s.level, "Release step failed", zap.String("step", step.Name), zap.Error(err))
				errs = append(errs, err)
				continue
			}
			s.logger.Debug("Release step completed", zap.String("step", step.Name))
		}
		s.err = errors.Join(errs...)
	})
	return s.err
}

func runStep(step Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", step.Name, r)
		}
	}()
	if e := step.Fn(); e != nil {
		return fmt.Errorf("%s: %w", step.Name, e)
	}
	return nil
}
