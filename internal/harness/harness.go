package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/inet/internal/engine"
	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/network"
	"github.com/roach88/inet/internal/testutil"
)

// EditConstruct labels revision 0.
const EditConstruct = "construct"

// Harness is the scenario execution state.
// It runs scenarios with deterministic ids.
type Harness struct {
	session     *engine.Session
	alloc       *network.Allocator
	left, right network.Chain
	next        network.Chain
	out         ir.NodeID
	logger      *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Build n1 + n2 with a fresh sequential id generator
// 2. Add malformed records, if any, and reduce as revision 0
// 3. Apply each step as one revision and check its expect clause
// 4. Evaluate assertions
//
// Run returns an error only when the engine itself fails (pass budget,
// cancellation). Failed expectations are reported in the Result.
func Run(scenario *Scenario, opts ...engine.Option) (*Result, error) {
	return RunContext(context.Background(), scenario, opts...)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario, opts ...engine.Option) (*Result, error) {
	h := &Harness{
		alloc:  network.NewAllocator(testutil.NewSequentialIDs()),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h.run(ctx, scenario, opts)
}

// RunWithLogger is Run with step logging sent to logger.
func RunWithLogger(ctx context.Context, logger *slog.Logger, scenario *Scenario, opts ...engine.Option) (*Result, error) {
	h := &Harness{
		alloc:  network.NewAllocator(testutil.NewSequentialIDs()),
		logger: logger,
	}
	return h.run(ctx, scenario, opts)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario, opts []engine.Option) (*Result, error) {
	out, err := h.alloc.Next()
	if err != nil {
		return nil, fmt.Errorf("allocate output id: %w", err)
	}
	problem, err := network.ConstructAdd(h.alloc, scenario.Add.Left, scenario.Add.Right, out)
	if err != nil {
		return nil, fmt.Errorf("construct add: %w", err)
	}
	h.left, h.right, h.out = problem.Left, problem.Right, out

	initial := problem.Nodes()
	for i, raw := range scenario.Malformed {
		n, err := raw.Node()
		if err != nil {
			return nil, fmt.Errorf("malformed[%d]: %w", i, err)
		}
		initial = append(initial, n)
	}
	h.alloc.ReserveNodes(initial)

	h.session, err = engine.NewSession(ctx, initial, opts...)
	if err != nil {
		return nil, fmt.Errorf("initial reduce: %w", err)
	}

	result := NewResult()
	h.record(result, EditConstruct, h.session.Current(), scenario.Expect)

	for i, step := range scenario.Steps {
		batch, err := h.edit(step.Edit)
		if err != nil {
			result.AddError(fmt.Sprintf("steps[%d] %s: %v", i, step.Edit, err))
			continue
		}

		rev, err := h.session.Apply(ctx, batch)
		if engine.IsInvalidEdit(err) {
			result.AddError(fmt.Sprintf("steps[%d] %s: %v", i, step.Edit, err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		h.commitEdit(step.Edit)
		h.record(result, step.Edit, rev, step.Expect)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// record summarizes rev into result and checks expect.
func (h *Harness) record(result *Result, edit string, rev engine.Revision, expect *uint64) {
	s := summarize(edit, rev)
	value, err := h.session.Decode(h.out)
	if err != nil {
		s.ValueError = err.Error()
	} else {
		s.Value = value
	}
	result.Revisions = append(result.Revisions, s)

	h.logger.Info("revision recorded",
		"revision", s.Revision,
		"edit", edit,
		"value", s.Value,
		"added", s.Added,
		"removed", s.Removed,
	)

	if expect == nil {
		return
	}
	switch {
	case s.ValueError != "":
		result.AddError(fmt.Sprintf("revision %d (%s): expected %d, normal form does not decode: %s",
			s.Revision, edit, *expect, s.ValueError))
	case s.Value != *expect:
		result.AddError(fmt.Sprintf("revision %d (%s): expected %d, got %d",
			s.Revision, edit, *expect, s.Value))
	}
}

// edit builds the batch for a named edit against the current operands.
// The operand chain after the edit is kept in h.next until the batch is
// accepted.
func (h *Harness) edit(name string) (engine.Batch, error) {
	var (
		batch engine.Batch
		err   error
	)
	switch name {
	case EditDecrementLeft:
		batch, h.next, err = engine.Decrement(h.left)
	case EditDecrementRight:
		batch, h.next, err = engine.Decrement(h.right)
	case EditIncrementLeft:
		batch, h.next, err = engine.Increment(h.alloc, h.left)
	case EditIncrementRight:
		batch, h.next, err = engine.Increment(h.alloc, h.right)
	default:
		return nil, fmt.Errorf("unknown edit %q", name)
	}
	return batch, err
}

// commitEdit moves the operand touched by an accepted edit forward.
func (h *Harness) commitEdit(name string) {
	switch name {
	case EditDecrementLeft, EditIncrementLeft:
		h.left = h.next
	case EditDecrementRight, EditIncrementRight:
		h.right = h.next
	}
}
