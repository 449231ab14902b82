package linkage

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestSingleAndCompleteLink(t *testing.T) {
	// Single link is the minimum, complete link the maximum of the two
	// parent distances.
	dik, djk := 3.0, 7.0

	if got := SingleLink.Update()(1.0, dik, djk, 1, 1, 1); !almostEqual(got, 3.0) {
		t.Errorf("single link = %f, expected 3", got)
	}
	if got := CompleteLink.Update()(1.0, dik, djk, 1, 1, 1); !almostEqual(got, 7.0) {
		t.Errorf("complete link = %f, expected 7", got)
	}
}

func TestSimpleAverage(t *testing.T) {
	if got := SimpleAverage.Update()(2.0, 3.0, 7.0, 4, 1, 2); !almostEqual(got, 5.0) {
		t.Errorf("simple average = %f, expected 5", got)
	}
}

func TestGroupAverageWeighsBySize(t *testing.T) {
	// ni=3, nj=1: d = 3/4*dik + 1/4*djk
	if got := GroupAverage.Update()(2.0, 4.0, 8.0, 3, 1, 5); !almostEqual(got, 5.0) {
		t.Errorf("group average = %f, expected 5", got)
	}
}

func TestCentroid(t *testing.T) {
	// ai = aj = 1/2 for equal sizes, b = -1/4.
	got := Centroid.Update()(4.0, 6.0, 6.0, 1, 1, 1)
	if !almostEqual(got, 5.0) {
		t.Errorf("centroid = %f, expected 5", got)
	}
}

func TestMedian(t *testing.T) {
	got := Median.Update()(4.0, 6.0, 6.0, 2, 7, 1)
	if !almostEqual(got, 5.0) {
		t.Errorf("median = %f, expected 5", got)
	}
}

func TestWardCoefficients(t *testing.T) {
	// Three singletons: d(A,B)=2, d(A,C)=4, d(B,C)=4.
	// d(AB,C) = 2/3*4 + 2/3*4 - 1/3*2 = 14/3.
	got := Ward.Update()(2.0, 4.0, 4.0, 1, 1, 1)
	if !almostEqual(got, 14.0/3.0) {
		t.Errorf("ward = %f, expected 14/3", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	criteria := []Criterion{
		SingleLink, CompleteLink, SimpleAverage, GroupAverage,
		Centroid, Median, Ward,
	}
	for _, c := range criteria {
		parsed, err := Parse(c.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.String(), err)
		}
		if parsed != c {
			t.Errorf("Parse(%q) = %v, expected %v", c.String(), parsed, c)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := Parse("nearest"); err == nil {
		t.Error("expected error for unknown criterion")
	}
}
