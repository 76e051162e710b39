package besteffort

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllRunsEveryStepDespiteFailures(t *testing.T) {
	var ran []string

	failed := All(context.Background(),
		Step{Label: "first", Run: func(ctx context.Context) error {
			ran = append(ran, "first")
			return errors.New("cdn unavailable")
		}},
		Step{Label: "second", Run: func(ctx context.Context) error {
			ran = append(ran, "second")
			return nil
		}},
		Step{Label: "third", Run: func(ctx context.Context) error {
			ran = append(ran, "third")
			return errors.New("not found")
		}},
	)

	require.Equal(t, []string{"first", "second", "third"}, ran)
	require.Equal(t, 2, failed)
}

func TestDoSwallowsError(t *testing.T) {
	// Compiles and runs without panicking; Do has no error to return.
	Do(context.Background(), "delete image", func(ctx context.Context) error {
		return errors.New("boom")
	})
}
