// Package testutil provides shared fakes for exercising the launch pipeline
// without a real trainer process or filesystem.
package testutil

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/cameleon-rl/rllaunch/internal/trainer"
)

// FakeStatter answers checkpoint existence probes from an in-memory set.
type FakeStatter struct {
	Existing map[string]bool
	Err      error
}

// Exists implements checkpoint.Statter.
func (s *FakeStatter) Exists(path string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	return s.Existing[filepath.Clean(path)], nil
}

// FakeInvoker records every trainer invocation and returns a canned outcome.
type FakeInvoker struct {
	mu       sync.Mutex
	ExitCode int
	Err      error
	Calls    []*trainer.Invocation
}

// Invoke implements trainer.Invoker.
func (f *FakeInvoker) Invoke(_ context.Context, inv *trainer.Invocation) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, inv)
	if f.Err != nil {
		return -1, f.Err
	}
	return f.ExitCode, nil
}

// CallCount returns how many times the trainer was invoked.
func (f *FakeInvoker) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
