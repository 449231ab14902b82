// Package matrix reads pairwise dissimilarity matrices from text and
// turns them into the initial clusters for the engine.
//
// Two layouts are accepted: the triangular layout, where line i carries
// the distances from item i to every later item, and the full square
// layout with a zero diagonal. Values are separated by whitespace or
// commas.
package matrix

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/TobiSchelling/dendro/internal/cluster"
)

// Triangular holds the upper triangle of a symmetric distance matrix,
// row i carrying the distances from item i to items i+1..n-1.
type Triangular [][]float64

// Len returns the number of items.
func (m Triangular) Len() int { return len(m) }

// At returns the distance between items i and j, 0 when i == j.
func (m Triangular) At(i, j int) float64 {
	if i == j {
		return 0
	}
	if i > j {
		i, j = j, i
	}
	return m[i][j-i-1]
}

// Clusters builds the singleton working set for the engine. Each row is
// copied so the matrix stays reusable.
func (m Triangular) Clusters() []*cluster.Cluster {
	clusters := make([]*cluster.Cluster, len(m))
	for i, row := range m {
		clusters[i] = cluster.Singleton(i, append([]float64(nil), row...))
	}
	return clusters
}

// Validate checks row lengths and that no distance is negative or NaN.
func (m Triangular) Validate() error {
	n := len(m)
	for i, row := range m {
		if len(row) != n-i-1 {
			return fmt.Errorf("row %d has %d entries, expected %d", i, len(row), n-i-1)
		}
		for j, d := range row {
			if d != d {
				return fmt.Errorf("distance (%d,%d) is NaN", i, i+1+j)
			}
			if d < 0 {
				return fmt.Errorf("negative distance %g at (%d,%d)", d, i, i+1+j)
			}
		}
	}
	return nil
}

// FromSquare converts a full square matrix after validating that it is
// square, symmetric, non-negative and zero on the diagonal.
func FromSquare(d [][]float64) (Triangular, error) {
	n := len(d)
	for i, row := range d {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d entries, expected %d", i, len(row), n)
		}
		if row[i] != 0 {
			return nil, fmt.Errorf("non-zero diagonal %g at (%d,%d)", row[i], i, i)
		}
		for j := 0; j < i; j++ {
			if !(row[j] == d[j][i]) { // reversed test catches NaNs too
				return nil, fmt.Errorf("asymmetric entries at (%d,%d): %g vs %g", i, j, row[j], d[j][i])
			}
			if row[j] < 0 {
				return nil, fmt.Errorf("negative distance %g at (%d,%d)", row[j], i, j)
			}
		}
	}

	m := make(Triangular, n)
	for i := 0; i < n; i++ {
		m[i] = append([]float64(nil), d[i][i+1:]...)
	}
	return m, nil
}

// Read parses a matrix from r, auto-detecting the layout. n equal-width
// lines of n values form a square matrix; lines shrinking from n-1 to 1
// form the triangular layout for n items (the empty last row is
// omitted). Blank lines and lines starting with '#' are skipped. A
// single line is read as triangular, i.e. as two items.
func Read(r io.Reader) (Triangular, error) {
	var rows [][]float64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		row, err := parseRow(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading matrix: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty matrix")
	}

	if len(rows) > 1 && isSquare(rows) {
		return FromSquare(rows)
	}

	m := append(Triangular(rows), nil)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadFile parses a matrix from a file.
func ReadFile(path string) (Triangular, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening matrix: %w", err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// isSquare reports whether every row is as long as the row count.
// Triangular rows shrink by one per line, so only a genuine square
// matrix matches.
func isSquare(rows [][]float64) bool {
	for _, row := range rows {
		if len(row) != len(rows) {
			return false
		}
	}
	return true
}

func parseRow(text string) ([]float64, error) {
	text = strings.ReplaceAll(text, ",", " ")
	fields := strings.Fields(text)
	row := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q", f)
		}
		row[i] = v
	}
	return row, nil
}
