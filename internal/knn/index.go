// Package knn provides an exact brute-force nearest-neighbor index over
// squared Euclidean distance. Queries fan out across processors but each
// query is independent, so the results match a sequential scan exactly.
package knn

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/inferloop/synthval/pkg/errors"
)

// Index holds the reference vectors.
type Index struct {
	ref  *mat.Dense
	rows int
	dims int
}

// NewIndex builds an index over the reference matrix.
func NewIndex(ref *mat.Dense) *Index {
	rows, dims := ref.Dims()
	return &Index{ref: ref, rows: rows, dims: dims}
}

// Query returns, for every query row, the squared Euclidean distances to
// its k nearest reference rows in ascending order.
func (ix *Index) Query(queries *mat.Dense, k int) ([][]float64, error) {
	if k < 1 || k > ix.rows {
		return nil, errors.NewUsageError(errors.CodeInvalidNeighborCount,
			fmt.Sprintf("neighbor count %d out of range [1, %d]", k, ix.rows))
	}
	qRows, qDims := queries.Dims()
	if qDims != ix.dims {
		return nil, errors.NewValidationError(errors.CodeSchemaMismatch,
			fmt.Sprintf("query vectors have %d dimensions, index has %d", qDims, ix.dims))
	}

	out := make([][]float64, qRows)

	workers := runtime.GOMAXPROCS(0)
	chunk := (qRows + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, qRows)
		if start >= end {
			continue
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				out[i] = ix.nearest(queries.RawRowView(i), k)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// nearest scans all reference rows keeping the k smallest squared
// distances sorted ascending.
func (ix *Index) nearest(query []float64, k int) []float64 {
	best := make([]float64, 0, k)
	for r := 0; r < ix.rows; r++ {
		d := sqDistance(query, ix.ref.RawRowView(r))
		if len(best) < k {
			best = insertSorted(best, d)
		} else if d < best[k-1] {
			best = insertSorted(best[:k-1], d)
		}
	}
	return best
}

func insertSorted(sorted []float64, d float64) []float64 {
	i := len(sorted)
	sorted = append(sorted, d)
	for i > 0 && sorted[i-1] > d {
		sorted[i] = sorted[i-1]
		i--
	}
	sorted[i] = d
	return sorted
}

func sqDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
