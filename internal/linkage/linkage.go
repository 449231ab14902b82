// Package linkage implements the Lance-Williams recurrence family for
// agglomerative clustering.
//
// When clusters i and j are merged, the dissimilarity between the new
// cluster and any third cluster k is a linear combination of the
// pre-merge dissimilarities:
//
//	d(ij,k) = ai*d(i,k) + aj*d(j,k) + b*d(i,j) + g*|d(i,k) - d(j,k)|
//
// Each Criterion fixes the coefficients (for Group Average, Centroid and
// Ward they depend on the cluster sizes).
package linkage

import (
	"fmt"
	"math"
)

// UpdateFunc computes the dissimilarity between the merger of clusters
// i and j and a surviving cluster k. dij, dik and djk are the pre-merge
// pairwise dissimilarities; ni, nj and nk the cluster sizes.
type UpdateFunc func(dij, dik, djk float64, ni, nj, nk int) float64

// Criterion selects one of the standard Lance-Williams update formulas.
type Criterion int

const (
	// SingleLink merges on the minimum inter-cluster distance.
	SingleLink Criterion = iota
	// CompleteLink merges on the maximum inter-cluster distance.
	CompleteLink
	// SimpleAverage (WPGMA) weighs both parent clusters equally.
	SimpleAverage
	// GroupAverage (UPGMA) weighs parent clusters by size.
	GroupAverage
	// Centroid (UPGMC) tracks squared centroid distances. Merge
	// distances are not monotone under this criterion; reversals in the
	// dendrogram are expected.
	Centroid
	// Median (WPGMC) is the weighted centroid variant. Like Centroid it
	// can produce merge-distance reversals.
	Median
	// Ward merges the pair that minimizes the within-cluster variance
	// increase.
	Ward
)

var criterionNames = map[Criterion]string{
	SingleLink:    "single_link",
	CompleteLink:  "complete_link",
	SimpleAverage: "simple_average",
	GroupAverage:  "group_average",
	Centroid:      "centroid",
	Median:        "median",
	Ward:          "ward",
}

func (c Criterion) String() string {
	if name, ok := criterionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("criterion(%d)", int(c))
}

// Parse maps a configuration string to a Criterion.
func Parse(name string) (Criterion, error) {
	for c, n := range criterionNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown clustering criterion %q", name)
}

// Update returns the update function for the criterion.
func (c Criterion) Update() UpdateFunc {
	switch c {
	case SingleLink:
		return singleLink
	case CompleteLink:
		return completeLink
	case SimpleAverage:
		return simpleAverage
	case GroupAverage:
		return groupAverage
	case Centroid:
		return centroid
	case Median:
		return median
	case Ward:
		return ward
	default:
		panic(fmt.Sprintf("unrecognized criterion: %v", c))
	}
}

func singleLink(dij, dik, djk float64, ni, nj, nk int) float64 {
	return 0.5*dik + 0.5*djk - 0.5*math.Abs(dik-djk)
}

func completeLink(dij, dik, djk float64, ni, nj, nk int) float64 {
	return 0.5*dik + 0.5*djk + 0.5*math.Abs(dik-djk)
}

func simpleAverage(dij, dik, djk float64, ni, nj, nk int) float64 {
	return 0.5*dik + 0.5*djk
}

func groupAverage(dij, dik, djk float64, ni, nj, nk int) float64 {
	ai := float64(ni) / float64(ni+nj)
	aj := float64(nj) / float64(ni+nj)
	return ai*dik + aj*djk
}

func centroid(dij, dik, djk float64, ni, nj, nk int) float64 {
	ai := float64(ni) / float64(ni+nj)
	aj := float64(nj) / float64(ni+nj)
	return ai*dik + aj*djk - ai*aj*dij
}

func median(dij, dik, djk float64, ni, nj, nk int) float64 {
	return 0.5*dik + 0.5*djk - 0.25*dij
}

func ward(dij, dik, djk float64, ni, nj, nk int) float64 {
	n := float64(ni + nj + nk)
	ai := float64(nk+ni) / n
	aj := float64(nk+nj) / n
	b := -float64(nk) / n
	return ai*dik + aj*djk + b*dij
}
