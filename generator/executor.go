package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ExecuteOptions controls how Execute applies a plan.
type ExecuteOptions struct {
	DryRun bool
	Force  bool      // skip existing-path checks
	Writer io.Writer // one line per operation; nil discards them
}

// Execute validates every operation before applying any, so a plan that
// cannot complete never starts. With DryRun the operations are only listed.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	w := opts.Writer
	if w == nil {
		w = io.Discard
	}

	var invalid []error
	for _, op := range ops {
		if err := op.Validate(ctx, opts.Force); err != nil {
			invalid = append(invalid, err)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("validation failed for %d of %d operations: %w", len(invalid), len(ops), errors.Join(invalid...))
	}

	prefix := ""
	if opts.DryRun {
		prefix = "[DRY RUN] "
	}
	for i, op := range ops {
		if !opts.DryRun {
			if err := op.Execute(ctx); err != nil {
				return fmt.Errorf("operation %d of %d (%s): %w", i+1, len(ops), op.Description(), err)
			}
		}
		fmt.Fprintf(w, "✓ %s%s\n", prefix, op.Description())
	}
	return nil
}
