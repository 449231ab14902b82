package dendrogram

import "testing"

// chain builds ((a+b)+c)+d style left-deep trees from string payloads.
func chain(labels ...string) *Tree[string] {
	t := Leaf(labels[0])
	for _, l := range labels[1:] {
		t = Branch(t, Leaf(l), t.Value()+l)
	}
	return t
}

func collect(t *Tree[string]) []string {
	var out []string
	for node := range t.All() {
		out = append(out, node.Value())
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestIterationOrder(t *testing.T) {
	// ((a,b),c): the root's right child is queued before the inner
	// node's, so c is visited before b.
	tree := chain("a", "b", "c")

	got := collect(tree)
	want := []string{"abc", "ab", "a", "c", "b"}
	if !equal(got, want) {
		t.Errorf("iteration order = %v, expected %v", got, want)
	}
}

func TestIterationVisitsEveryNodeOnce(t *testing.T) {
	tree := chain("a", "b", "c", "d", "e")
	// 5 leaves -> 9 nodes.
	if n := tree.Len(); n != 9 {
		t.Errorf("Len() = %d, expected 9", n)
	}
	seen := make(map[string]int)
	for node := range tree.All() {
		seen[node.Value()]++
	}
	for v, n := range seen {
		if n != 1 {
			t.Errorf("node %q visited %d times", v, n)
		}
	}
}

func TestIteratorSingleLeaf(t *testing.T) {
	it := Leaf("x").Iter()
	node, ok := it.Next()
	if !ok || node.Value() != "x" {
		t.Fatalf("expected leaf x, got %v ok=%v", node, ok)
	}
	if _, ok := it.Next(); ok {
		t.Error("expected exhausted iterator")
	}
}

func TestCutConstantFalse(t *testing.T) {
	tree := chain("a", "b", "c")
	cut := tree.Cut(func(string) bool { return false })
	if len(cut) != 0 {
		t.Errorf("expected no cut branches, got %d", len(cut))
	}
	if n := tree.Len(); n != 5 {
		t.Errorf("tree changed: Len() = %d, expected 5", n)
	}
}

func TestCutConstantTrue(t *testing.T) {
	tree := chain("a", "b", "c")
	cut := tree.Cut(func(string) bool { return true })
	// Both children of the root are detached, nothing below is visited.
	if len(cut) != 2 {
		t.Fatalf("expected 2 cut branches, got %d", len(cut))
	}
	if cut[0].Value() != "ab" || cut[1].Value() != "c" {
		t.Errorf("cut = [%s %s], expected [ab c]", cut[0].Value(), cut[1].Value())
	}
	if !tree.IsLeaf() {
		t.Error("expected root to be a leaf after cutting both children")
	}
}

func TestCutByPredicate(t *testing.T) {
	tree := chain("a", "b", "c", "d")
	// Detach the sub-tree rooted at "ab"; the nodes below it ("a", "b")
	// must not be visited even though they also satisfy the predicate.
	var visited []string
	cut := tree.Cut(func(v string) bool {
		visited = append(visited, v)
		return len(v) <= 2
	})

	var got []string
	for _, c := range cut {
		got = append(got, c.Value())
	}
	// The root's right child "d" is inspected and cut first, then the
	// children of "abc".
	if !equal(got, []string{"d", "ab", "c"}) {
		t.Errorf("cut = %v, expected [d ab c]", got)
	}
	for _, v := range visited {
		if v == "a" || v == "b" {
			t.Errorf("predicate saw %q inside a cut branch", v)
		}
	}
	// Surviving nodes: abcd and abc with empty child slots.
	if n := tree.Len(); n != 2 {
		t.Errorf("surviving Len() = %d, expected 2", n)
	}
}

func TestCollapse(t *testing.T) {
	tree := chain("a", "b", "c")
	detached := tree.Collapse(func(v string) bool { return v == "ab" })
	if len(detached) != 2 {
		t.Fatalf("expected 2 detached sub-trees, got %d", len(detached))
	}
	if detached[0].Value() != "a" || detached[1].Value() != "b" {
		t.Errorf("detached = [%s %s], expected [a b]", detached[0].Value(), detached[1].Value())
	}
	// "ab" is now a bottom node alongside "c".
	bottom := tree.Bottom()
	if len(bottom) != 2 || bottom[0].Value() != "ab" || bottom[1].Value() != "c" {
		t.Errorf("bottom after collapse = %v", collect(tree))
	}
}

func TestBottom(t *testing.T) {
	tree := chain("a", "b", "c", "d")
	bottom := tree.Bottom()
	var got []string
	for _, b := range bottom {
		got = append(got, b.Value())
	}
	if !equal(got, []string{"a", "d", "c", "b"}) {
		t.Errorf("bottom = %v, expected iteration order [a d c b]", got)
	}
}

func TestMaxFirstEncounteredWins(t *testing.T) {
	tree := Branch(Leaf("x"), Leaf("z"), "m")
	// All values compare equal under length ordering; the root is
	// encountered first and keeps the spot.
	got := tree.Max(func(a, b string) bool { return len(a) < len(b) })
	if got.Value() != "m" {
		t.Errorf("Max under constant ordering = %q, expected m", got.Value())
	}

	if got := tree.Max(func(a, b string) bool { return a < b }); got.Value() != "z" {
		t.Errorf("Max by lexicographic order = %q, expected z", got.Value())
	}
}
