package detect

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/seegkit/seegkit/internal/volume"
)

// runWindow executes one spacing-window pass: adjacency, connected
// components, length precondition, linearity filter. Chains that fail either
// filter are simply not emitted.
func runWindow(cands []Candidate, voxelMM volume.VoxelSize, win SpacingWindow, winIdx int, cfg Config) ([]Chain, error) {
	adj := BuildAdjacency(cands, voxelMM, win)

	var chains []Chain
	for _, comp := range ExtractChains(adj) {
		// Too-short chains never reach the geometry computation.
		if len(comp) < cfg.MinContacts {
			continue
		}
		pts := chainPoints(cands, comp)
		axis, lin, err := principalAxis(pts)
		if err != nil {
			return nil, fmt.Errorf("spacing window %d: %w", winIdx, err)
		}
		if lin < cfg.LinearityThreshold {
			continue
		}
		chains = append(chains, Chain{
			Indices:   comp,
			Window:    winIdx,
			Linearity: lin,
			Axis:      axis,
		})
	}
	return chains, nil
}

// Reconcile runs every configured spacing window over the same immutable
// candidate list, unions the accepted chains, and deduplicates overlaps into
// a final disjoint chain set.
//
// Windows are independent, so when cfg.WindowWorkers > 1 they run on an
// errgroup worker pool. Results are collected into a slice indexed by window
// and flattened in window order, so the output is identical at any worker
// count.
func Reconcile(cands []Candidate, voxelMM volume.VoxelSize, cfg Config) ([]Chain, error) {
	if len(cands) == 0 {
		return nil, nil
	}

	perWindow := make([][]Chain, len(cfg.SpacingWindows))
	if cfg.WindowWorkers > 1 && len(cfg.SpacingWindows) > 1 {
		var g errgroup.Group
		g.SetLimit(cfg.WindowWorkers)
		for i, win := range cfg.SpacingWindows {
			i, win := i, win
			g.Go(func() error {
				chains, err := runWindow(cands, voxelMM, win, i, cfg)
				if err != nil {
					return err
				}
				perWindow[i] = chains
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, win := range cfg.SpacingWindows {
			chains, err := runWindow(cands, voxelMM, win, i, cfg)
			if err != nil {
				return nil, err
			}
			perWindow[i] = chains
		}
	}

	var all []Chain
	for _, chains := range perWindow {
		all = append(all, chains...)
	}
	return dedupChains(all, cands, cfg)
}

// chainRank is the deterministic total order used for dedup: higher
// linearity wins, then larger chain, then the earlier window, then the
// lower minimum candidate index.
func chainRank(a, b *Chain) bool {
	if a.Linearity != b.Linearity {
		return a.Linearity > b.Linearity
	}
	if len(a.Indices) != len(b.Indices) {
		return len(a.Indices) > len(b.Indices)
	}
	if a.Window != b.Window {
		return a.Window < b.Window
	}
	return a.minIndex() < b.minIndex()
}

// dedupChains reduces the cross-window union to a disjoint chain set.
//
// Chains are visited best-first by chainRank. A chain whose point-set
// overlap with any already kept chain exceeds cfg.OverlapDedupFraction
// (|intersection| / smaller chain size) is the same electrode seen through
// another window and is dropped. A surviving chain may still share a few
// points with kept chains below the dedup fraction; those points already
// belong to a better chain, so they are stripped, and the remainder must
// re-pass the length and linearity filters to stay in the result.
func dedupChains(chains []Chain, cands []Candidate, cfg Config) ([]Chain, error) {
	if len(chains) == 0 {
		return nil, nil
	}

	ranked := append([]Chain(nil), chains...)
	sort.SliceStable(ranked, func(i, j int) bool { return chainRank(&ranked[i], &ranked[j]) })

	claimed := make(map[int]int) // candidate index → position in kept
	var kept []Chain
	for i := range ranked {
		c := &ranked[i]

		// Intersection size with each kept chain. Kept chains are disjoint,
		// so one pass over c's indices suffices.
		inter := make(map[int]int)
		for _, idx := range c.Indices {
			if pos, ok := claimed[idx]; ok {
				inter[pos]++
			}
		}
		duplicate := false
		for pos, count := range inter {
			smaller := len(c.Indices)
			if n := len(kept[pos].Indices); n < smaller {
				smaller = n
			}
			if float64(count)/float64(smaller) > cfg.OverlapDedupFraction {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		free := c.Indices[:0:0]
		for _, idx := range c.Indices {
			if _, taken := claimed[idx]; !taken {
				free = append(free, idx)
			}
		}
		if len(free) < cfg.MinContacts {
			continue
		}
		keep := Chain{Indices: free, Window: c.Window, Linearity: c.Linearity, Axis: c.Axis}
		if len(free) < len(c.Indices) {
			// Stripped chains must re-qualify on their remaining points.
			axis, lin, err := principalAxis(chainPoints(cands, free))
			if err != nil {
				return nil, fmt.Errorf("dedup window %d: %w", c.Window, err)
			}
			if lin < cfg.LinearityThreshold {
				continue
			}
			keep.Axis = axis
			keep.Linearity = lin
		}
		kept = append(kept, keep)
		for _, idx := range keep.Indices {
			claimed[idx] = len(kept) - 1
		}
	}
	return kept, nil
}
