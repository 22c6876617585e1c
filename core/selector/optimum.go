package selector

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/kilianp07/releaseplan/core/model"
)

// lpSolve points to the simplex solver. Tests override it to simulate
// solver failures.
var lpSolve = lp.Simplex

// FixedOptimum returns the largest number of pairwise disjoint releases that
// can be kept when every release stays on its requested day.
//
// The problem is solved as a linear program: one variable per release in
// [0, 1], and at most one release per day. The day/release incidence matrix
// has the consecutive-ones property so the LP optimum is integral.
func FixedOptimum(releases []model.Release) (int, error) {
	var cands []model.Release
	for _, r := range releases {
		if r.Fits() {
			cands = append(cands, r)
		}
	}
	if len(cands) == 0 {
		return 0, nil
	}

	n := len(cands)
	var days []int
	for d := 1; d <= model.Horizon; d++ {
		for _, c := range cands {
			if c.Day <= d && d <= c.Finish() {
				days = append(days, d)
				break
			}
		}
	}

	// Standard form: [G | I] [x; s] = h with x, s >= 0. Rows are the busy
	// days followed by the x_i <= 1 bounds.
	rows := len(days) + n
	cols := n + rows
	A := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	for i, d := range days {
		for j, c := range cands {
			if c.Day <= d && d <= c.Finish() {
				A.Set(i, j, 1)
			}
		}
		A.Set(i, n+i, 1)
		b[i] = 1
	}
	for j := 0; j < n; j++ {
		row := len(days) + j
		A.Set(row, j, 1)
		A.Set(row, n+row, 1)
		b[row] = 1
	}
	c := make([]float64, cols)
	for j := 0; j < n; j++ {
		c[j] = -1
	}

	optF, _, err := lpSolve(c, A, b, 1e-9, nil)
	if err != nil {
		return 0, err
	}
	return int(math.Round(-optF)), nil
}
