// Package besteffort runs cleanup sub-steps whose failures must never block
// the caller's primary mutation. Failures are logged and swallowed; this is
// deliberately a different path from the normal propagate-on-error flow.
package besteffort

import (
	"context"

	"github.com/xyz-asif/civicgo/internal/pkg/logger"
)

// Step is one best-effort action, labeled for the log line.
type Step struct {
	Label string
	Run   func(ctx context.Context) error
}

// Do runs fn, logging a warning on failure. It never returns an error.
func Do(ctx context.Context, label string, fn func(ctx context.Context) error) {
	if err := fn(ctx); err != nil {
		logger.Warn("best-effort %s failed: %v", label, err)
	}
}

// All runs every step regardless of earlier failures and returns how many
// failed. The count exists for logging and tests, not control flow.
func All(ctx context.Context, steps ...Step) int {
	failed := 0
	for _, step := range steps {
		if err := step.Run(ctx); err != nil {
			failed++
			logger.Warn("best-effort %s failed: %v", step.Label, err)
		}
	}
	return failed
}
