package pricing

import (
	"time"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain"
)

// Pipeline applies an ordered list of stages to a base price.
// A Pipeline is immutable after construction and safe for concurrent use.
type Pipeline struct {
	base   Money
	stages []Stage
}

// NewPipeline creates a pipeline that starts at base and applies stages in
// exactly the given order.
func NewPipeline(base Money, stages ...Stage) *Pipeline {
	s := make([]Stage, len(stages))
	copy(s, stages)

	return &Pipeline{base: base, stages: s}
}

// DefaultPipeline returns the standard quote pipeline:
// age, vehicle, driving history, then coverage, on top of BasePrice.
func DefaultPipeline() *Pipeline {
	return NewPipeline(BasePrice,
		AgeStage{},
		VehicleStage{},
		DrivingHistoryStage{},
		CoverageStage{},
	)
}

// Base returns the starting amount.
func (p *Pipeline) Base() Money {
	return p.base
}

// Stages returns the stage names in application order.
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name())
	}

	return names
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Compute folds every stage over the base price and returns the unrounded total.
func (p *Pipeline) Compute(person domain.Person, now time.Time) Money {
	total := p.base
	for _, s := range p.stages {
		total = s.Apply(total, person, now)
	}

	return total
}

// ComputeWithBreakdown is Compute, additionally recording the running total
// before and after each stage.
func (p *Pipeline) ComputeWithBreakdown(person domain.Person, now time.Time) (Money, []domain.Adjustment) {
	breakdown := make([]domain.Adjustment, 0, len(p.stages))

	total := p.base
	for _, s := range p.stages {
		next := s.Apply(total, person, now)
		breakdown = append(breakdown, domain.Adjustment{
			Stage:  s.Name(),
			Before: total,
			After:  next,
		})
		total = next
	}

	return total, breakdown
}
