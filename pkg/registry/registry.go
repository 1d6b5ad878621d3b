// Package registry maps migration step names to their implementations.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/viewmig/pkg/domain"
)

// ErrUnknownStep is returned when executing a step that was never registered.
var ErrUnknownStep = errors.New("unknown step")

// StepFunc runs one migration step. to is the target major version.
type StepFunc func(ctx context.Context, to int) (domain.StepReport, error)

// Registry manages the available migration steps.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]StepFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]StepFunc),
	}
}

// Register adds a step to the registry.
// If a step with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn StepFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[name] = fn
}

// Execute looks up a step by name and runs it.
// An unregistered name returns an empty report for that name and ErrUnknownStep.
func (r *Registry) Execute(ctx context.Context, name string, to int) (domain.StepReport, error) {
	r.mu.RLock()
	fn, ok := r.steps[name]
	r.mu.RUnlock()

	if !ok {
		return domain.StepReport{
			Name:      name,
			Succeeded: []string{},
			Failed:    []domain.Failure{},
			Skipped:   []string{},
		}, fmt.Errorf("%w: %q", ErrUnknownStep, name)
	}

	return fn(ctx, to)
}

// Has reports whether a step is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.steps[name]
	return ok
}

// Names returns the registered step names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.steps))
	for name := range r.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
