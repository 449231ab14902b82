// Package dendrogram provides the owning binary tree produced by
// hierarchical clustering.
//
// Leaf and Branch build nodes that either are leaves or own exactly two
// sub-trees; Cut may leave a node with a single child. There are no
// parent pointers; a parent is recovered by traversal.
package dendrogram

import "iter"

// Tree is a binary tree node holding values of type T. The zero Tree is
// not useful; construct nodes with Leaf and Branch.
type Tree[T any] struct {
	left  *Tree[T]
	right *Tree[T]
	value T
}

// Leaf returns a node with no children.
func Leaf[T any](value T) *Tree[T] {
	return &Tree[T]{value: value}
}

// Branch returns a node owning the two given sub-trees. Both sub-trees
// must be non-nil.
func Branch[T any](left, right *Tree[T], value T) *Tree[T] {
	if left == nil || right == nil {
		panic("dendrogram: branch requires two sub-trees")
	}
	return &Tree[T]{left: left, right: right, value: value}
}

// Value returns the value stored at this node.
func (t *Tree[T]) Value() T { return t.value }

// Left returns the left sub-tree, nil for a leaf or a cut child slot.
func (t *Tree[T]) Left() *Tree[T] { return t.left }

// Right returns the right sub-tree, nil for a leaf or a cut child slot.
func (t *Tree[T]) Right() *Tree[T] { return t.right }

// IsLeaf reports whether the node has no children.
func (t *Tree[T]) IsLeaf() bool { return t.left == nil && t.right == nil }

// Iterator walks every node of a tree exactly once, starting at the
// root. It follows the leftmost path downward, queueing right sub-trees
// at each junction; at a leaf it resumes from the front of the queue.
//
// An Iterator is invalidated by Cut or Collapse on the same tree.
type Iterator[T any] struct {
	current  *Tree[T]
	deferred []*Tree[T]
}

// Iter returns an iterator positioned at the root.
func (t *Tree[T]) Iter() *Iterator[T] {
	return &Iterator[T]{current: t}
}

// Next returns the current node and advances, or ok=false when the tree
// is exhausted.
func (it *Iterator[T]) Next() (node *Tree[T], ok bool) {
	node = it.current
	if node == nil {
		return nil, false
	}
	it.current, it.deferred = step(node, it.deferred)
	return node, true
}

// step advances cur by one node in iteration order.
func step[T any](cur *Tree[T], deferred []*Tree[T]) (*Tree[T], []*Tree[T]) {
	switch {
	case cur.left != nil:
		if cur.right != nil {
			deferred = append(deferred, cur.right)
		}
		return cur.left, deferred
	case cur.right != nil:
		return cur.right, deferred
	case len(deferred) > 0:
		return deferred[0], deferred[1:]
	default:
		return nil, deferred
	}
}

// All yields every node in iteration order.
func (t *Tree[T]) All() iter.Seq[*Tree[T]] {
	return func(yield func(*Tree[T]) bool) {
		for it := t.Iter(); ; {
			node, ok := it.Next()
			if !ok {
				return
			}
			if !yield(node) {
				return
			}
		}
	}
}

// Len returns the number of nodes in the tree.
func (t *Tree[T]) Len() int {
	n := 0
	for range t.All() {
		n++
	}
	return n
}

// Cut removes every sub-tree whose root value satisfies pred, clearing
// the child slot on its parent. Nodes are visited in iteration order and
// a cut sub-tree is not inspected further: its inner nodes may fail
// pred. The root itself is never cut.
//
// The detached sub-trees are returned in visit order; the caller owns
// them.
func (t *Tree[T]) Cut(pred func(T) bool) []*Tree[T] {
	var cut []*Tree[T]
	cur := t
	var deferred []*Tree[T]
	for cur != nil {
		if cur.left != nil && pred(cur.left.value) {
			cut = append(cut, cur.left)
			cur.left = nil
		}
		if cur.right != nil && pred(cur.right.value) {
			cut = append(cut, cur.right)
			cur.right = nil
		}
		cur, deferred = step(cur, deferred)
	}
	return cut
}

// Collapse removes both children of every node whose value satisfies
// pred, turning that node into a leaf. A collapsed node's former
// sub-trees are not inspected further. The detached sub-trees are
// returned in visit order, left before right.
func (t *Tree[T]) Collapse(pred func(T) bool) []*Tree[T] {
	var detached []*Tree[T]
	cur := t
	var deferred []*Tree[T]
	for cur != nil {
		if !cur.IsLeaf() && pred(cur.value) {
			detached = append(detached, cur.left, cur.right)
			cur.left = nil
			cur.right = nil
		}
		cur, deferred = step(cur, deferred)
	}
	return detached
}

// Bottom returns every node with no children, in iteration order. The
// returned nodes are still owned by the tree.
func (t *Tree[T]) Bottom() []*Tree[T] {
	var leaves []*Tree[T]
	for node := range t.All() {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
	}
	return leaves
}

// Max returns the node whose value is maximal under less. Ties go to
// the node encountered first.
func (t *Tree[T]) Max(less func(a, b T) bool) *Tree[T] {
	best := t
	for node := range t.All() {
		if less(best.value, node.value) {
			best = node
		}
	}
	return best
}
