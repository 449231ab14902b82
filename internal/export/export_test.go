package export

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/TobiSchelling/dendro/internal/cluster"
	"github.com/TobiSchelling/dendro/internal/linkage"
)

func fourPointTree(t *testing.T) *cluster.Tree {
	t.Helper()
	tree, err := cluster.Merge([]*cluster.Cluster{
		cluster.Singleton(0, []float64{1, 2, 3}),
		cluster.Singleton(1, []float64{1, 2}),
		cluster.Singleton(2, []float64{1}),
		cluster.Singleton(3, nil),
	}, linkage.SimpleAverage)
	if err != nil {
		t.Fatalf("building tree: %v", err)
	}
	return tree
}

func TestNodes(t *testing.T) {
	nodes := Nodes(fourPointTree(t))
	if len(nodes) != 7 {
		t.Fatalf("expected 7 nodes, got %d", len(nodes))
	}

	root := nodes[0]
	if root.Parent != -1 {
		t.Errorf("root parent = %d, expected -1", root.Parent)
	}
	if root.Size != 4 || len(root.Children) != 2 {
		t.Errorf("root = %+v", root)
	}

	leaves := 0
	for _, n := range nodes {
		if len(n.Children) == 0 {
			leaves++
			if n.Size != 1 || n.MergeDistance != 0 {
				t.Errorf("leaf %+v", n)
			}
		}
		if n.ID != 0 && n.Parent < 0 {
			t.Errorf("node %d has no parent", n.ID)
		}
	}
	if leaves != 4 {
		t.Errorf("expected 4 leaves, got %d", leaves)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, fourPointTree(t)); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var nodes []Node
	if err := json.Unmarshal(buf.Bytes(), &nodes); err != nil {
		t.Fatalf("invalid JSON produced: %v", err)
	}
	if len(nodes) != 7 {
		t.Errorf("expected 7 nodes, got %d", len(nodes))
	}
}

func TestWriteIndex(t *testing.T) {
	tree := fourPointTree(t)
	cluster.CutAtThreshold(tree, 1)

	var buf bytes.Buffer
	if err := WriteIndex(&buf, tree); err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}

	got := buf.String()
	want := "[ group_1 ]\n3 4\n[ group_2 ]\n1 2\n"
	if got != want {
		t.Errorf("index file:\n%s\nexpected:\n%s", got, want)
	}
}

func TestWriteIndexWrapsLongGroups(t *testing.T) {
	members := make([]int, 20)
	for i := range members {
		members[i] = i
	}
	tree, err := cluster.Merge([]*cluster.Cluster{cluster.New(members, nil)}, linkage.SingleLink)
	if err != nil {
		t.Fatalf("building tree: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteIndex(&buf, tree); err != nil {
		t.Fatalf("WriteIndex: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// Header plus 15 ids plus 5 ids.
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if fields := strings.Fields(lines[1]); len(fields) != 15 {
		t.Errorf("first id line has %d ids, expected 15", len(fields))
	}
}

func TestNewick(t *testing.T) {
	tree, err := cluster.Merge([]*cluster.Cluster{
		cluster.Singleton(0, []float64{7.5}),
		cluster.Singleton(1, nil),
	}, linkage.SingleLink)
	if err != nil {
		t.Fatalf("building tree: %v", err)
	}

	if got, want := Newick(tree), "(0:7.5,1:7.5);"; got != want {
		t.Errorf("Newick = %q, expected %q", got, want)
	}
}

func TestSteps(t *testing.T) {
	steps := Steps(fourPointTree(t))
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[0].Distance != 1 || steps[1].Distance != 1 || steps[2].Distance != 2 {
		t.Errorf("step distances = %v", steps)
	}
	if steps[2].Size != 4 {
		t.Errorf("final step size = %d, expected 4", steps[2].Size)
	}
	if !reflect.DeepEqual(steps[2].Members, []int{2, 3, 0, 1}) {
		t.Errorf("final step members = %v", steps[2].Members)
	}
}
