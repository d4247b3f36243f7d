package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/gofzy/internal/engine"
	"github.com/Aman-CERP/gofzy/internal/errors"
	"github.com/Aman-CERP/gofzy/internal/item"
	"github.com/Aman-CERP/gofzy/internal/matcher"
	"github.com/Aman-CERP/gofzy/internal/query"
	"github.com/Aman-CERP/gofzy/internal/reader"
	"github.com/Aman-CERP/gofzy/internal/tui"
)

// runFilterMode implements the non-interactive combination of
// --filter/--select-1/--exit-0: it drains the producer to completion
// (the same full-drain --sync already performs), runs exactly one
// matcher pass, and writes the result straight to stdout without ever
// starting a tea.Program. A --select-1 or --exit-0 combined with an
// interactive producer that never reaches the intended single-match
// outcome still prints whatever the one completed pass found, rather
// than falling back into the interactive TUI mid-command.
func runFilterMode(ctx context.Context, cmd *cobra.Command, opts tui.Options, f finderFlags) error {
	pool := item.New()
	rdr := reader.New(pool, reader.Options{
		Delimiter: opts.Delimiter,
		ANSI:      opts.ANSI,
		NoStrip:   opts.NoStripANSI,
		Field:     opts.Field,
	}, nil)

	if err := rdr.Run(ctx, opts.Producer); err != nil {
		return fmt.Errorf("gofzy: filter: %w", errors.Wrap(errors.ErrCodeReaderFailed, err))
	}

	factory := engine.NewFactory(opts.Normalize)
	eng, err := factory.Build(query.Query{
		Text:      f.filter,
		Mode:      opts.DefaultMode,
		Case:      opts.CasePolicy,
		Normalize: opts.Normalize,
		Field:     opts.Field,
	})
	if err != nil {
		return fmt.Errorf("gofzy: filter: %w", errors.Wrap(errors.ErrCodeInvalidQuery, err))
	}

	mtc := matcher.New(pool, opts.Workers)
	view, progress, err := mtc.Run(ctx, eng, rdr.Epoch(), 0, func() bool { return true }, opts.Limit)
	for range progress {
		// drain; Run's progress channel closes once the single pass completes
	}
	if err != nil {
		return fmt.Errorf("gofzy: filter: %w", errors.Wrap(errors.ErrCodeMatchFailed, err))
	}

	selected := make([]string, 0, len(view.Results))
	for _, r := range view.Results {
		selected = append(selected, pool.Get(r.Index).Raw)
	}

	if f.exitZero && len(selected) == 0 {
		return &exitError{code: 1, msg: "no match"}
	}

	return writeResult(cmd.OutOrStdout(), tui.Result{Selected: selected, Query: f.filter}, f)
}
