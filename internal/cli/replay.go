package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/inet/internal/engine"
	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Journal string
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Journal       string                  `json:"journal"`
	Revisions     int                     `json:"revisions"`
	Deterministic bool                    `json:"deterministic"`
	Mismatches    []engine.ReplayMismatch `json:"mismatches"`
	Hash          string                  `json:"hash"`
	Live          int64                   `json:"live"`

	// Value is the decoded final normal form, when revision 0 is an
	// addition and the normal form decodes.
	Value      *uint64 `json:"value,omitempty"`
	ValueError string  `json:"value_error,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a journal and verify determinism",
		Long: `Rebuild every journaled revision from its edit batch and compare the
re-derived normal form against the journal.

Exit codes:
  0 - Every revision matched
  1 - Mismatch detected, or a journaled batch no longer applies
  2 - Command error (journal missing or empty, etc.)

Examples:
  inet replay --journal ./inet.db
  inet replay --journal ./inet.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to the SQLite journal")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	path := opts.journalPath(opts.Journal)
	if path == "" {
		return NewExitError(ExitCommandError, "no journal given: use --journal or set journal in the config")
	}
	// store.Open would create a missing file.
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return NewExitError(ExitCommandError, fmt.Sprintf("journal not found: %s", path))
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing journal", "error", closeErr)
		}
	}()

	records, err := st.ReadRevisions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	if len(records) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("journal %s holds no revisions", path))
	}

	report, err := engine.Replay(ctx, records, opts.engineOptions()...)
	if err != nil {
		return WrapExitError(ExitFailure, "replay failed", err)
	}

	result := ReplayResult{
		Journal:       path,
		Revisions:     report.Revisions,
		Deterministic: report.OK(),
		Mismatches:    report.Mismatches,
		Hash:          report.Final.Hash,
		Live:          report.Final.Live,
	}
	if result.Mismatches == nil {
		result.Mismatches = []engine.ReplayMismatch{}
	}
	if out, ok := outputOf(initialNodes(records[0])); ok {
		value, err := report.Session().Decode(out)
		if err != nil {
			result.ValueError = err.Error()
		} else {
			result.Value = &value
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(opts.formatter(cmd), result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// initialNodes returns the records inserted by a revision 0 journal entry.
func initialNodes(rec store.RevisionRecord) []ir.Node {
	nodes := make([]ir.Node, 0, len(rec.Ops))
	for _, op := range rec.Ops {
		if op.Op == engine.OpInsert.String() {
			nodes = append(nodes, op.Node)
		}
	}
	return nodes
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(f *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.Deterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_REPLAY",
			Message: "determinism verification failed",
			Details: result.Mismatches,
		}
	}

	if err := f.Respond(response); err != nil {
		return err
	}

	if !result.Deterministic {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	writeHeader(w, "Replay Summary: %d revision(s) from %s", result.Revisions, result.Journal)
	if verbose {
		fmt.Fprintf(w, "  Hash: %s\n", result.Hash)
		fmt.Fprintf(w, "  Live: %d\n", result.Live)
	}
	switch {
	case result.Value != nil:
		fmt.Fprintf(w, "  Value: %d\n", *result.Value)
	case result.ValueError != "":
		fmt.Fprintf(w, "  Value: %s\n", result.ValueError)
	}

	for _, m := range result.Mismatches {
		failColor.Fprintf(w, "✗ revision %d: %s want %s, got %s\n", m.Revision, m.Field, m.Want, m.Got)
	}

	if result.Deterministic {
		passColor.Fprintln(w, "✓ All revisions verified deterministic")
		return nil
	}

	failColor.Fprintln(w, "✗ Determinism verification failed")
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}
