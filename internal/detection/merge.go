package detection

import (
	"fmt"
	"strings"
)

// DefaultIoUThreshold is the overlap above which two detections are treated
// as the same face.
const DefaultIoUThreshold = 0.3

// Strategy selects how overlapping detections are consolidated.
type Strategy string

const (
	// StrategyComponents links every pair with IoU above the threshold and
	// collapses each connected component. Order-independent and transitive.
	StrategyComponents Strategy = "components"

	// StrategyGreedy treats each unconsumed region as a seed and consumes
	// later regions that overlap the seed itself. Order-dependent and
	// non-transitive.
	StrategyGreedy Strategy = "greedy"
)

// ParseStrategy converts a configuration value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyComponents, "":
		return StrategyComponents, nil
	case StrategyGreedy:
		return StrategyGreedy, nil
	default:
		return "", fmt.Errorf("unknown merge strategy: %s", s)
	}
}

// Merge consolidates raw detections using the given strategy. Invalid
// regions are dropped first. The output never has more regions than the
// input and every output region equals one of the input regions.
func Merge(strategy Strategy, regions []Region, threshold float64) []Region {
	switch strategy {
	case StrategyGreedy:
		return MergeGreedy(regions, threshold)
	default:
		return MergeComponents(regions, threshold)
	}
}

// MergeGreedy performs a single pass over regions: each region not yet
// consumed becomes a cluster seed, every later unconsumed region is compared
// against the seed only, and regions whose IoU with the seed exceeds
// threshold are consumed. The cluster keeps whichever member has the largest
// area (the seed wins ties).
//
// A chain A~B~C where A and C do not overlap enough may produce two regions;
// use MergeComponents when chains must collapse.
func MergeGreedy(regions []Region, threshold float64) []Region {
	valid := validOnly(regions)
	merged := make([]Region, 0, len(valid))
	used := make([]bool, len(valid))

	for i, seed := range valid {
		if used[i] {
			continue
		}
		kept := seed
		for j := i + 1; j < len(valid); j++ {
			if used[j] {
				continue
			}
			if IoU(seed, valid[j]) > threshold {
				if valid[j].Area() > kept.Area() {
					kept = valid[j]
				}
				used[j] = true
			}
		}
		merged = append(merged, kept)
	}

	return merged
}

// MergeComponents builds an overlap graph (an edge joins any two regions with
// IoU above threshold) and collapses each connected component to its
// largest-area member. Ties go to the earliest member in input order, and the
// output is ordered by each component's first member.
func MergeComponents(regions []Region, threshold float64) []Region {
	valid := validOnly(regions)
	uf := newUnionFind(len(valid))

	for i := 0; i < len(valid); i++ {
		for j := i + 1; j < len(valid); j++ {
			if IoU(valid[i], valid[j]) > threshold {
				uf.union(i, j)
			}
		}
	}

	best := make(map[int]int, len(valid))
	order := make([]int, 0, len(valid))
	for i := range valid {
		root := uf.find(i)
		cur, seen := best[root]
		if !seen {
			best[root] = i
			order = append(order, root)
			continue
		}
		if valid[i].Area() > valid[cur].Area() {
			best[root] = i
		}
	}

	merged := make([]Region, 0, len(order))
	for _, root := range order {
		merged = append(merged, valid[best[root]])
	}
	return merged
}

func validOnly(regions []Region) []Region {
	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		if r.Valid() {
			out = append(out, r)
		}
	}
	return out
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
}
