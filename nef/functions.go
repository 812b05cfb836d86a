// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"sort"

	"github.com/chewxy/math32"
)

// TimeFunc produces a stimulus vector as a function of time.
// Eval must fill out, which has the Node's size, and must not retain it.
type TimeFunc interface {
	Eval(t float32, out []float32)
}

// TimeFuncOf adapts an ordinary function to the TimeFunc interface
type TimeFuncOf func(t float32, out []float32)

func (f TimeFuncOf) Eval(t float32, out []float32) { f(t, out) }

// VecFunc maps a vector to another vector, possibly of different size.
// It is applied to the value represented by a Connection's source.
// Eval must fill out, which has the Connection's FuncDims size.
type VecFunc interface {
	Eval(x, out []float32)
}

// VecFuncOf adapts an ordinary function to the VecFunc interface
type VecFuncOf func(x, out []float32)

func (f VecFuncOf) Eval(x, out []float32) { f(x, out) }

//////////////////////////////////////////////////////////////////////////////////////
//  Stimuli

// Const returns a TimeFunc with a constant output
func Const(vals ...float32) TimeFunc {
	return TimeFuncOf(func(t float32, out []float32) {
		copy(out, vals)
	})
}

// Sine returns amp * sin(freq * t) in every dimension, with freq in radians / sec
func Sine(amp, freq float32) TimeFunc {
	return TimeFuncOf(func(t float32, out []float32) {
		v := amp * math32.Sin(freq*t)
		for i := range out {
			out[i] = v
		}
	})
}

// StepAt returns lo before time t0 and hi from t0 on, in every dimension
func StepAt(t0, lo, hi float32) TimeFunc {
	return TimeFuncOf(func(t float32, out []float32) {
		v := lo
		if t >= t0 {
			v = hi
		}
		for i := range out {
			out[i] = v
		}
	})
}

// Piecewise holds each value from its start time until the next start time.
// Before the first start time the output is zero.
type Piecewise struct {

	// start times, in ascending order
	Times []float32

	// value vectors, one per start time
	Vals [][]float32
}

// NewPiecewise returns a Piecewise function from a map of start time to value
func NewPiecewise(pts map[float32][]float32) *Piecewise {
	pw := &Piecewise{}
	for t := range pts {
		pw.Times = append(pw.Times, t)
	}
	sort.Slice(pw.Times, func(i, j int) bool { return pw.Times[i] < pw.Times[j] })
	for _, t := range pw.Times {
		pw.Vals = append(pw.Vals, pts[t])
	}
	return pw
}

func (pw *Piecewise) Eval(t float32, out []float32) {
	idx := sort.Search(len(pw.Times), func(i int) bool { return pw.Times[i] > t }) - 1
	if idx < 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}
	copy(out, pw.Vals[idx])
}

//////////////////////////////////////////////////////////////////////////////////////
//  Connection functions

// Scale returns k * x
func Scale(k float32) VecFunc {
	return VecFuncOf(func(x, out []float32) {
		for i := range out {
			out[i] = k * x[i]
		}
	})
}

// Square returns x^2 elementwise
func Square() VecFunc {
	return VecFuncOf(func(x, out []float32) {
		for i := range out {
			out[i] = x[i] * x[i]
		}
	})
}

// Product returns the product of all elements of x, as a 1-dim output
func Product() VecFunc {
	return VecFuncOf(func(x, out []float32) {
		p := float32(1)
		for _, v := range x {
			p *= v
		}
		out[0] = p
	})
}
