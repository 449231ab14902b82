package cluster

import (
	"errors"
	"fmt"
	"math"

	"github.com/TobiSchelling/dendro/internal/dendrogram"
	"github.com/TobiSchelling/dendro/internal/linkage"
)

// Tree is the dendrogram type produced by the engine.
type Tree = dendrogram.Tree[*Cluster]

var (
	// ErrEmptyInput is returned when Merge is called with no clusters.
	ErrEmptyInput = errors.New("cluster: no input clusters")
	// ErrMalformedInput is returned when a trailing-distance vector is
	// inconsistent with its cluster's position, or a cluster is empty.
	ErrMalformedInput = errors.New("cluster: malformed input")
)

// Merge builds a dendrogram from the initial clusters using the named
// linkage criterion. See MergeFunc.
func Merge(clusters []*Cluster, criterion linkage.Criterion) (*Tree, error) {
	return MergeFunc(clusters, criterion.Update())
}

// MergeFunc builds a dendrogram by repeatedly fusing the two closest
// clusters, recomputing the merged cluster's distances with update.
//
// The i-th input cluster must carry len(clusters)-i-1 trailing
// distances. A single input is returned unchanged as a leaf. The
// returned tree exclusively owns all payloads; ties on the minimum
// distance break towards the smallest working-set indices, so the
// result is deterministic.
func MergeFunc(clusters []*Cluster, update linkage.UpdateFunc) (*Tree, error) {
	if len(clusters) == 0 {
		return nil, ErrEmptyInput
	}
	if err := validate(clusters); err != nil {
		return nil, err
	}

	nodes := make([]*Tree, len(clusters))
	for i, c := range clusters {
		nodes[i] = dendrogram.Leaf(c)
	}

	for len(nodes) > 2 {
		nodes = mergeStep(nodes, update)
	}

	if len(nodes) == 2 {
		left := nodes[0].Value()
		right := nodes[1].Value()
		merged := left.Merger(right, nil, left.Distances()[0])
		return dendrogram.Branch(nodes[0], nodes[1], merged), nil
	}
	return nodes[0], nil
}

// validate checks the trailing-distance invariant before any merge, so
// the loop itself never fails.
func validate(clusters []*Cluster) error {
	n := len(clusters)
	for i, c := range clusters {
		if c == nil || c.Size() == 0 {
			return fmt.Errorf("%w: cluster %d has no members", ErrMalformedInput, i)
		}
		if want := n - i - 1; len(c.Distances()) != want {
			return fmt.Errorf("%w: cluster %d carries %d trailing distances, expected %d",
				ErrMalformedInput, i, len(c.Distances()), want)
		}
	}
	return nil
}

// mergeStep performs one merge on a working set of three or more nodes
// and returns the shrunk set. All indexing refers to the working set as
// it was on entry; the merged node is installed at the front.
func mergeStep(nodes []*Tree, update linkage.UpdateFunc) []*Tree {
	n := len(nodes)

	// The closest pair: the row with the smallest trailing minimum and
	// the offset of that minimum. Strict comparison keeps the smallest
	// row index, then the smallest offset.
	l, m := 0, 0
	minDist := math.Inf(1)
	for k := 0; k < n-1; k++ {
		for i, d := range nodes[k].Value().Distances() {
			if d < minDist {
				minDist = d
				l, m = k, i
			}
		}
	}
	r := l + 1 + m
	left := nodes[l].Value()
	right := nodes[r].Value()

	// Distances from every survivor to the two merging clusters, in
	// working order. Where a survivor precedes l or r, the distance sits
	// in the survivor's own row; otherwise in the row of l or r.
	toLeft := make([]float64, 0, n-2)
	toRight := make([]float64, 0, n-2)
	sizes := make([]int, 0, n-2)
	for k := 0; k < n; k++ {
		if k == l || k == r {
			continue
		}
		var dkl, dkr float64
		row := nodes[k].Value().Distances()
		switch {
		case k < l:
			dkl = row[l-k-1]
			dkr = row[r-k-1]
		case k < r:
			dkl = left.Distances()[k-l-1]
			dkr = row[r-k-1]
		default:
			dkl = left.Distances()[k-l-1]
			dkr = right.Distances()[k-r-1]
		}
		toLeft = append(toLeft, dkl)
		toRight = append(toRight, dkr)
		sizes = append(sizes, nodes[k].Value().Size())
	}

	merged := make([]float64, len(toLeft))
	for i := range merged {
		merged[i] = update(minDist, toLeft[i], toRight[i], left.Size(), right.Size(), sizes[i])
	}

	parent := dendrogram.Branch(nodes[l], nodes[r], left.Merger(right, merged, minDist))

	// Drop the survivors' entries for r and l, larger offset first so
	// the smaller one stays valid.
	for k := 0; k < r; k++ {
		if k == l {
			continue
		}
		c := nodes[k].Value()
		c.DeleteDistance(r - k - 1)
		if k < l {
			c.DeleteDistance(l - k - 1)
		}
	}

	// The merged node precedes all survivors, so its row is the full
	// new-distance vector and no survivor stores a distance to it.
	next := make([]*Tree, 0, n-1)
	next = append(next, parent)
	for k := 0; k < n; k++ {
		if k == l || k == r {
			continue
		}
		next = append(next, nodes[k])
	}
	return next
}
