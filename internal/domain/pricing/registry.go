package pricing

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownStage is returned when a pipeline names a stage that was never registered.
	ErrUnknownStage = errors.New("unknown pricing stage")

	// ErrDuplicateStage is returned when registering a stage name twice.
	ErrDuplicateStage = errors.New("duplicate pricing stage")
)

// Factory creates a Stage.
type Factory func() Stage

// Registry maps stage names to factories so pipelines can be assembled from
// configuration. New rules are added by registering a new name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding the four standard stages.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Names are distinct constants, registration cannot fail.
	_ = r.Register(StageAge, func() Stage { return AgeStage{} })
	_ = r.Register(StageVehicle, func() Stage { return VehicleStage{} })
	_ = r.Register(StageDrivingHistory, func() Stage { return DrivingHistoryStage{} })
	_ = r.Register(StageCoverage, func() Stage { return CoverageStage{} })

	return r
}

// DefaultOrder returns the standard stage order.
func DefaultOrder() []string {
	return []string{StageAge, StageVehicle, StageDrivingHistory, StageCoverage}
}

// Register adds a stage factory under name.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateStage, name)
	}

	r.factories[name] = f

	return nil
}

// Names returns the registered stage names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Build assembles a pipeline starting at base with the named stages in order.
func (r *Registry) Build(base Money, names []string) (*Pipeline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stages := make([]Stage, 0, len(names))
	for _, name := range names {
		f, ok := r.factories[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStage, name)
		}
		stages = append(stages, f())
	}

	return NewPipeline(base, stages...), nil
}
