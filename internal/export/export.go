// Package export serializes dendrograms for external consumers: a JSON
// node dump, an index file of the bottom groups, a Newick rendering and
// the flat merge-step table.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/TobiSchelling/dendro/internal/cluster"
)

// Node is one dendrogram node in the JSON dump. IDs number the nodes in
// iteration order, so the root is always node 0. Parent is -1 for the
// root.
type Node struct {
	ID            int     `json:"id"`
	Parent        int     `json:"parent"`
	MergeDistance float64 `json:"merge_distance"`
	Size          int     `json:"size"`
	Members       []int   `json:"members"`
	Children      []int   `json:"children,omitempty"`
}

// Nodes flattens a dendrogram into the JSON node list.
func Nodes(tree *cluster.Tree) []Node {
	var order []*cluster.Tree
	ids := make(map[*cluster.Tree]int)
	for node := range tree.All() {
		ids[node] = len(order)
		order = append(order, node)
	}

	nodes := make([]Node, len(order))
	for i, n := range order {
		c := n.Value()
		nodes[i] = Node{
			ID:            i,
			Parent:        -1,
			MergeDistance: c.MergeDistance(),
			Size:          c.Size(),
			Members:       c.Members(),
		}
	}
	for i, n := range order {
		for _, child := range []*cluster.Tree{n.Left(), n.Right()} {
			if child == nil {
				continue
			}
			nodes[i].Children = append(nodes[i].Children, ids[child])
			nodes[ids[child]].Parent = i
		}
	}
	return nodes
}

// WriteJSON writes the node list as indented JSON.
func WriteJSON(w io.Writer, tree *cluster.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Nodes(tree))
}

// idsPerLine matches the usual index-file line width.
const idsPerLine = 15

// WriteIndex writes the bottom groups as an index file: one
// "[ group_k ]" section per group with 1-based member ids.
func WriteIndex(w io.Writer, tree *cluster.Tree) error {
	for i, node := range tree.Bottom() {
		if _, err := fmt.Fprintf(w, "[ group_%d ]\n", i+1); err != nil {
			return err
		}
		members := node.Value().Members()
		for start := 0; start < len(members); start += idsPerLine {
			end := min(start+idsPerLine, len(members))
			line := make([]string, 0, end-start)
			for _, m := range members[start:end] {
				line = append(line, strconv.Itoa(m+1))
			}
			if _, err := fmt.Fprintln(w, strings.Join(line, " ")); err != nil {
				return err
			}
		}
	}
	return nil
}

// Newick renders the dendrogram in Newick format. Leaves are named by
// their member ids joined with underscores; branch lengths are the
// difference between the parent's and the child's merge distance.
func Newick(tree *cluster.Tree) string {
	var b strings.Builder
	writeNewick(&b, tree)
	b.WriteByte(';')
	return b.String()
}

func writeNewick(b *strings.Builder, node *cluster.Tree) {
	if node.IsLeaf() {
		b.WriteString(leafName(node.Value()))
		return
	}
	b.WriteByte('(')
	first := true
	for _, child := range []*cluster.Tree{node.Left(), node.Right()} {
		if child == nil {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		writeNewick(b, child)
		length := node.Value().MergeDistance() - child.Value().MergeDistance()
		fmt.Fprintf(b, ":%g", length)
	}
	b.WriteByte(')')
}

func leafName(c *cluster.Cluster) string {
	parts := make([]string, len(c.Members()))
	for i, m := range c.Members() {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, "_")
}

// Step is one merge of the clustering, for storage and printing.
type Step struct {
	Distance float64
	Size     int
	Members  []int
}

// Steps lists the merges of a dendrogram ordered by ascending merge
// distance, ties kept in iteration order. An n-leaf dendrogram yields
// n-1 steps.
func Steps(tree *cluster.Tree) []Step {
	var steps []Step
	for node := range tree.All() {
		if node.IsLeaf() {
			continue
		}
		c := node.Value()
		steps = append(steps, Step{
			Distance: c.MergeDistance(),
			Size:     c.Size(),
			Members:  c.Members(),
		})
	}
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Distance < steps[j].Distance
	})
	return steps
}
