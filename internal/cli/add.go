package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/inet/internal/engine"
	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/network"
	"github.com/roach88/inet/internal/store"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Journal string

	// Generator overrides the id source (for testing).
	// If nil, defaults to network.UUIDGenerator.
	Generator network.IDGenerator
}

// AddResult is the outcome of the add command.
type AddResult struct {
	Left       int            `json:"left"`
	Right      int            `json:"right"`
	Value      uint64         `json:"value"`
	Output     string         `json:"output"`
	Revision   int64          `json:"revision"`
	Passes     int            `json:"passes"`
	Reductions map[string]int `json:"reductions"`
	Live       int64          `json:"live"`
	Hash       string         `json:"hash"`
	Delta      []DeltaLine    `json:"delta"`
	Journal    string         `json:"journal,omitempty"`
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <n1> <n2>",
		Short: "Build and reduce n1 + n2",
		Long: `Build the interaction net for n1 + n2, reduce it to normal form and
decode the sum.

With --journal, revision 0 is written to a new SQLite journal that
"inet replay" can verify later. The journal must not hold revisions yet.

Exit codes:
  0 - Reduced and decoded
  1 - Reduction failed (pass budget exceeded, stuck network)
  2 - Command error (bad operands, journal not usable)

Examples:
  inet add 3 4
  inet add 3 4 --journal ./inet.db
  inet add 120 7 --workers 4 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to a SQLite journal (created if missing)")

	return cmd
}

func runAdd(opts *AddOptions, leftArg, rightArg string, cmd *cobra.Command) error {
	left, err := parseOperand(leftArg)
	if err != nil {
		return err
	}
	right, err := parseOperand(rightArg)
	if err != nil {
		return err
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	gen := opts.Generator
	if gen == nil {
		gen = network.UUIDGenerator{}
	}
	alloc := network.NewAllocator(gen)
	out, err := alloc.Next()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to allocate output id", err)
	}
	problem, err := network.ConstructAdd(alloc, left, right, out)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to build network", err)
	}

	engineOpts := opts.engineOptions()
	journal := opts.journalPath(opts.Journal)
	var st *store.Store
	if journal != "" {
		st, err = openEmptyJournal(ctx, journal)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing journal", "error", closeErr)
			}
		}()
		engineOpts = append(engineOpts, engine.WithReporter(engine.NewJournalReporter(st)))
	}

	slog.Debug("reducing", "left", left, "right", right, "records", len(problem.Nodes()))
	session, err := engine.NewSession(ctx, problem.Nodes(), engineOpts...)
	if err != nil {
		return WrapExitError(ExitFailure, "reduction failed", err)
	}
	rev := session.Current()

	if st != nil {
		if err := checkJournaled(ctx, st, rev.Number); err != nil {
			return err
		}
	}

	value, err := session.Decode(out)
	if err != nil {
		return WrapExitError(ExitFailure, "normal form does not decode", err)
	}

	result := AddResult{
		Left:       left,
		Right:      right,
		Value:      value,
		Output:     out.String(),
		Revision:   rev.Number,
		Passes:     rev.Passes,
		Reductions: rev.Reductions,
		Live:       rev.Live,
		Hash:       rev.Hash,
		Delta:      deltaLines(rev.Delta),
		Journal:    journal,
	}

	f := opts.formatter(cmd)
	if f.Format == "json" {
		return f.Success(result)
	}
	writeAddText(cmd, result, rev, opts.Verbose)
	return nil
}

func writeAddText(cmd *cobra.Command, result AddResult, rev engine.Revision, verbose bool) {
	w := cmd.OutOrStdout()
	writeHeader(w, "revision %d: %d passes, %d live", result.Revision, result.Passes, result.Live)
	writeDelta(w, rev.Delta)
	if verbose {
		for _, r := range engine.Rules() {
			if n := result.Reductions[r.Name]; n > 0 {
				fmt.Fprintf(w, "  %s: %d\n", r.Name, n)
			}
		}
	}
	passColor.Fprintf(w, "%d + %d = %d\n", result.Left, result.Right, result.Value)
	if result.Journal != "" {
		fmt.Fprintf(w, "journaled to %s\n", result.Journal)
	}
}

// parseOperand parses a non-negative decimal operand.
func parseOperand(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid operand %q: must be a non-negative integer", s))
	}
	return n, nil
}

// openEmptyJournal opens the journal at path and checks it holds no
// revisions.
func openEmptyJournal(ctx context.Context, path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	last, ok, err := st.LastRevision(ctx)
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	if ok {
		st.Close()
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("journal %s already holds revisions 0..%d", path, last))
	}
	return st, nil
}

// checkJournaled verifies that the journal reached revision want. Reporter
// failures are only logged by the session, so this is where a command sees
// them.
func checkJournaled(ctx context.Context, st *store.Store, want int64) error {
	last, ok, err := st.LastRevision(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read journal", err)
	}
	if !ok {
		return NewExitError(ExitFailure, "journal holds no revisions: revision 0 was not journaled")
	}
	if last != want {
		return NewExitError(ExitFailure, fmt.Sprintf("journal ends at revision %d, expected %d", last, want))
	}
	return nil
}

// commandContext returns the command's context, cancelled on SIGINT or
// SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// outputOf finds the output address of an addition: the Out port of the
// single ADDER among the initial records.
func outputOf(initial []ir.Node) (ir.NodeID, bool) {
	var out ir.NodeID
	found := 0
	for _, n := range initial {
		if n.Kind.Tag == ir.TagAdder {
			out = n.Kind.Out()
			found++
		}
	}
	return out, found == 1
}
