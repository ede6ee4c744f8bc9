package common

import (
	"context"
	"time"

	"github.com/sandeepkv93/storefront-crud-api/internal/observability"
	"github.com/sandeepkv93/storefront-crud-api/internal/tools/ui"
)

// Action is the body of a tool subcommand. It returns human readable detail lines.
type Action func(context.Context) ([]string, error)

type Runner struct {
	Tool    string
	CI      bool
	Timeout time.Duration
}

// Run executes action either headless (CI) or under the interactive UI and
// records a tool.command run. In CI mode the JSON result is printed to stdout.
func (r Runner) Run(command string, action Action) ([]string, error) {
	title := r.Tool + " " + command
	start := time.Now()

	var (
		details []string
		err     error
	)
	if r.CI {
		ctx := context.Background()
		if r.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.Timeout)
			defer cancel()
		}
		details, err = action(ctx)
	} else {
		details, err = ui.Run(title, r.Timeout, action)
	}

	elapsed := time.Since(start)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	observability.RecordToolCommandRun(context.Background(), r.Tool, command, outcome)
	observability.RecordToolCommandDuration(context.Background(), r.Tool, command, outcome, elapsed)

	if r.CI {
		PrintCIResult(NewCIResult(title, details, elapsed.Milliseconds(), err))
	}
	return details, err
}
