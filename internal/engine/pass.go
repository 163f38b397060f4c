package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/network"
)

// minGroupsPerWorker keeps small networks on a single goroutine.
const minGroupsPerWorker = 64

// PassResult is the outcome of one Rule Engine pass.
type PassResult struct {
	// Output is the replacement network.
	Output *network.Network

	// Reductions counts fired rules by rule name.
	Reductions map[string]int

	// Anomalies lists the addresses that were re-emitted unchanged because
	// they were malformed, in address order.
	Anomalies []Anomaly
}

// Fired returns the total number of reductions in the pass.
func (r *PassResult) Fired() int {
	total := 0
	for _, n := range r.Reductions {
		total += n
	}
	return total
}

// partial is what one worker produces for its share of addresses.
type partial struct {
	emitted    []ir.Entry
	reductions map[string]int
	anomalies  []Anomaly
}

// Pass runs the Rule Engine once over the whole network.
//
// Addresses are split into contiguous ranges, one per worker. Accumulation of
// the records sharing an address happens before a worker sees the address,
// so workers never coordinate. Partial outputs are merged in range order.
func Pass(ctx context.Context, net *network.Network, opts ...Option) (*PassResult, error) {
	o := buildOptions(opts)
	groups := net.Groups()

	workers := o.workers
	if limit := (len(groups) + minGroupsPerWorker - 1) / minGroupsPerWorker; workers > limit {
		workers = limit
	}
	if workers < 1 {
		workers = 1
	}

	parts := make([]partial, workers)
	if workers == 1 {
		p, err := reduceGroups(ctx, groups)
		if err != nil {
			return nil, err
		}
		parts[0] = p
	} else {
		g, gCtx := errgroup.WithContext(ctx)
		chunk := (len(groups) + workers - 1) / workers
		for i := 0; i < workers; i++ {
			lo := i * chunk
			hi := min(lo+chunk, len(groups))
			if lo >= hi {
				continue
			}
			g.Go(func() error {
				p, err := reduceGroups(gCtx, groups[lo:hi])
				if err != nil {
					return err
				}
				parts[i] = p
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	result := &PassResult{
		Output:     network.New(),
		Reductions: make(map[string]int),
	}
	for _, p := range parts {
		for _, e := range p.emitted {
			result.Output.Add(e.Node, e.Multiplicity)
		}
		for name, n := range p.reductions {
			result.Reductions[name] += n
		}
		result.Anomalies = append(result.Anomalies, p.anomalies...)
	}
	return result, nil
}

// reduceGroups applies the rule table to each address group.
func reduceGroups(ctx context.Context, groups []network.Group) (partial, error) {
	p := partial{reductions: make(map[string]int)}
	for i, g := range groups {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return partial{}, err
			}
		}

		switch units := g.Units(); {
		case units <= 1:
			p.emitted = append(p.emitted, g.Entries...)

		case units == 2:
			x, y := redexPair(g)
			out, rule, ok := rewrite(g.Addr, x, y)
			if !ok {
				p.emitted = append(p.emitted, g.Entries...)
				p.anomalies = append(p.anomalies, newAnomaly(g, ReasonStuckPair))
				continue
			}
			p.reductions[rule.Name]++
			for _, n := range out {
				p.emitted = append(p.emitted, ir.Entry{Node: n, Multiplicity: 1})
			}

		default:
			p.emitted = append(p.emitted, g.Entries...)
			p.anomalies = append(p.anomalies, newAnomaly(g, ReasonOverConnected))
		}
	}
	return p, nil
}

// redexPair returns the two units of a two-unit group: either two distinct
// records or one record live twice.
func redexPair(g network.Group) (ir.Node, ir.Node) {
	if len(g.Entries) == 1 {
		return g.Entries[0].Node, g.Entries[0].Node
	}
	return g.Entries[0].Node, g.Entries[1].Node
}

func newAnomaly(g network.Group, reason string) Anomaly {
	var records []ir.Node
	for _, e := range g.Entries {
		for i := int64(0); i < e.Multiplicity; i++ {
			records = append(records, e.Node)
		}
	}
	return Anomaly{Addr: g.Addr, Records: records, Reason: reason}
}
