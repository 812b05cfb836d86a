// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package solvers computes linear decoders: the weights that map a
population's firing rates back onto the value (or function of the value)
it represents.  Decoders are fit once, offline, from the population's
tuning curves evaluated at a set of sample points, and are then used
unchanged for the whole simulation.
*/
package solvers

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShape is returned when the activity and target matrices are empty or ragged
	ErrShape = errors.New("solvers: bad matrix shape")

	// ErrSingular is returned when the regularized system cannot be factorized
	ErrSingular = errors.New("solvers: system is not positive definite")
)

// Info reports the quality of a decoder fit
type Info struct {

	// root-mean-squared error of the decoded estimate over the sample points
	RMSE float32

	// regularization noise level actually used: Reg * max activity
	Sigma float32
}

// Solver computes decoders from activities and targets.
// act is [samples][neurons], targets is [samples][dims], and the returned
// decoders are [neurons][dims].
type Solver interface {
	Solve(act, targets [][]float32) ([][]float32, Info, error)
}

// LstsqL2 is least-squares with L2 (ridge) regularization, treating Reg as
// the standard deviation of noise added to the activities, relative to the
// maximum activity.  This keeps decoders small and robust to the
// spike noise they will see at run time.
type LstsqL2 struct {

	// amount of regularization, as a proportion of the maximum firing rate
	Reg float32 `def:"0.1" min:"0"`
}

func (ls *LstsqL2) Defaults() {
	ls.Reg = 0.1
}

// Solve computes decoders X minimizing |A X - Y|^2 + m sigma^2 |X|^2
func (ls *LstsqL2) Solve(act, targets [][]float32) ([][]float32, Info, error) {
	var info Info
	m := len(act)
	if m == 0 || len(targets) != m || len(act[0]) == 0 || len(targets[0]) == 0 {
		return nil, info, fmt.Errorf("%w: %d activity rows, %d target rows", ErrShape, m, len(targets))
	}
	n := len(act[0])
	d := len(targets[0])
	A := mat.NewDense(m, n, nil)
	Y := mat.NewDense(m, d, nil)
	amax := 0.0
	for i := 0; i < m; i++ {
		if len(act[i]) != n || len(targets[i]) != d {
			return nil, info, fmt.Errorf("%w: row %d is ragged", ErrShape, i)
		}
		for j, a := range act[i] {
			A.Set(i, j, float64(a))
			amax = math.Max(amax, float64(a))
		}
		for j, y := range targets[i] {
			Y.Set(i, j, float64(y))
		}
	}
	sigma := float64(ls.Reg) * amax
	info.Sigma = float32(sigma)

	var G mat.SymDense
	G.SymOuterK(1, A.T())
	reg := float64(m) * sigma * sigma
	for i := 0; i < n; i++ {
		G.SetSym(i, i, G.At(i, i)+reg)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(&G); !ok {
		return nil, info, ErrSingular
	}
	var B mat.Dense
	B.Mul(A.T(), Y)
	var X mat.Dense
	if err := chol.SolveTo(&X, &B); err != nil {
		return nil, info, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var R mat.Dense
	R.Mul(A, &X)
	R.Sub(&R, Y)
	info.RMSE = float32(floats.Norm(R.RawMatrix().Data, 2) / math.Sqrt(float64(m*d)))

	dec := make([][]float32, n)
	for i := range dec {
		dec[i] = make([]float32, d)
		for j := range dec[i] {
			dec[i][j] = float32(X.At(i, j))
		}
	}
	return dec, info, nil
}
