package execution

import (
	"fmt"
	"math/rand"
)

// FailurePolicy decides whether a simulated fill attempt fails, independent
// of market data.
type FailurePolicy interface {
	// ShouldFail returns true and a reason when the next execution attempt
	// must fail.
	ShouldFail(orderID string) (bool, string)
}

// NoFailures never fails an execution.
type NoFailures struct{}

// ShouldFail always reports success.
func (NoFailures) ShouldFail(string) (bool, string) { return false, "" }

// RandomFailures fails a configurable fraction of executions using a seeded
// source, so identical seeds reproduce identical runs.
type RandomFailures struct {
	rate float64
	rng  *rand.Rand
}

// NewRandomFailures creates a policy failing at the given rate in [0, 1].
func NewRandomFailures(rate float64, seed int64) *RandomFailures {
	return &RandomFailures{
		rate: rate,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// ShouldFail draws once per attempt.
func (p *RandomFailures) ShouldFail(orderID string) (bool, string) {
	if p.rate <= 0 {
		return false, ""
	}
	if p.rate >= 1 || p.rng.Float64() < p.rate {
		return true, fmt.Sprintf("simulated execution failure for order %s", orderID)
	}
	return false, ""
}

// ScriptedFailures fails attempts according to a fixed script, for
// deterministic tests. Attempts beyond the script succeed.
type ScriptedFailures struct {
	script []bool
	next   int
}

// NewScriptedFailures creates the policy from an attempt-by-attempt script.
func NewScriptedFailures(script ...bool) *ScriptedFailures {
	return &ScriptedFailures{script: script}
}

// ShouldFail consumes the next script entry.
func (p *ScriptedFailures) ShouldFail(orderID string) (bool, string) {
	if p.next >= len(p.script) {
		return false, ""
	}
	fail := p.script[p.next]
	p.next++
	if fail {
		return true, fmt.Sprintf("scripted execution failure for order %s", orderID)
	}
	return false, ""
}

var (
	_ FailurePolicy = NoFailures{}
	_ FailurePolicy = (*RandomFailures)(nil)
	_ FailurePolicy = (*ScriptedFailures)(nil)
)
