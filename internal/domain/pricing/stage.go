package pricing

import (
	"time"

	"github.com/jsamuelsen/insurance-quote-service/internal/domain"
)

// Stage is one independent pricing rule.
// Apply receives the running total and the person being priced and returns the
// new running total. now is the date the quote is computed on.
type Stage interface {
	Name() string
	Apply(total Money, p domain.Person, now time.Time) Money
}

// ApplyFunc is the signature of a stage's pricing rule.
type ApplyFunc func(total Money, p domain.Person, now time.Time) Money

// funcStage adapts an ApplyFunc to the Stage interface.
type funcStage struct {
	name string
	fn   ApplyFunc
}

// StageFunc returns a Stage named name that delegates to fn.
func StageFunc(name string, fn ApplyFunc) Stage {
	return funcStage{name: name, fn: fn}
}

func (s funcStage) Name() string { return s.name }

func (s funcStage) Apply(total Money, p domain.Person, now time.Time) Money {
	return s.fn(total, p, now)
}
