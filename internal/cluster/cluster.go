// Package cluster implements agglomerative hierarchical clustering over
// a caller-supplied dissimilarity matrix.
//
// The working set is an ordered list of clusters; each cluster stores
// its distances to the clusters that follow it, so the list embeds the
// upper triangle of the symmetric distance matrix. Merge repeatedly
// fuses the closest pair until a single dendrogram remains.
package cluster

import "fmt"

// Cluster is one entry of the clustering working set: an ordered set of
// item indices plus the trailing row of the triangular distance table.
type Cluster struct {
	members   []int
	distances []float64
	mergeDist float64
}

// New returns a cluster over the given item indices. distances are the
// dissimilarities to the clusters following this one in the working
// order; the last cluster of a working set carries none.
func New(members []int, distances []float64) *Cluster {
	return &Cluster{members: members, distances: distances}
}

// Singleton returns a one-item cluster, the usual leaf input.
func Singleton(id int, distances []float64) *Cluster {
	return New([]int{id}, distances)
}

// Members returns the item indices of the cluster. Members of a merged
// cluster are the left parent's members followed by the right parent's.
func (c *Cluster) Members() []int { return c.members }

// Size returns the number of members.
func (c *Cluster) Size() int { return len(c.members) }

// MergeDistance returns the dissimilarity at which the cluster was
// formed, 0 for input clusters.
func (c *Cluster) MergeDistance() float64 { return c.mergeDist }

// Distances returns the trailing distances to the following clusters.
func (c *Cluster) Distances() []float64 { return c.distances }

// DeleteDistance removes the trailing-distance entry at offset i. It is
// used when a following cluster leaves the working set.
func (c *Cluster) DeleteDistance(i int) {
	c.distances = append(c.distances[:i], c.distances[i+1:]...)
}

// Merger returns the fusion of c and other: members concatenated, sizes
// summed, with the supplied trailing distances and merge distance. The
// parents are left untouched but must not be reused in a working set.
func (c *Cluster) Merger(other *Cluster, distances []float64, mergeDist float64) *Cluster {
	members := make([]int, 0, len(c.members)+len(other.members))
	members = append(members, c.members...)
	members = append(members, other.members...)
	return &Cluster{members: members, distances: distances, mergeDist: mergeDist}
}

func (c *Cluster) String() string {
	return fmt.Sprintf("cluster{size=%d merge_d=%g members=%v}", c.Size(), c.mergeDist, c.members)
}
