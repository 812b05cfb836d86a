// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package dists provides the random distributions used to configure neuron
populations: per-neuron max firing rates and intercepts, preferred
direction (encoder) vectors, and the evaluation points at which decoders
are fit.  All sampling draws from a caller-supplied *rand.Rand so that a
fixed seed gives a fully reproducible population.
*/
package dists

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Dist is a distribution of scalar values
type Dist interface {
	// Sample returns n values drawn using rnd
	Sample(n int, rnd *rand.Rand) []float32
}

// Uniform is a uniform distribution over [Low, High)
type Uniform struct {
	Low  float32
	High float32
}

func (ud Uniform) Sample(n int, rnd *rand.Rand) []float32 {
	vals := make([]float32, n)
	rng := ud.High - ud.Low
	for i := range vals {
		vals[i] = ud.Low + rng*rnd.Float32()
	}
	return vals
}

// Choice draws uniformly from a fixed set of options
type Choice struct {
	Options []float32
}

func (cd Choice) Sample(n int, rnd *rand.Rand) []float32 {
	vals := make([]float32, n)
	if len(cd.Options) == 0 {
		return vals
	}
	for i := range vals {
		vals[i] = cd.Options[rnd.Intn(len(cd.Options))]
	}
	return vals
}

// Gaussian is a normal distribution
type Gaussian struct {
	Mean float32
	Std  float32
}

func (gd Gaussian) Sample(n int, rnd *rand.Rand) []float32 {
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = gd.Mean + gd.Std*float32(rnd.NormFloat64())
	}
	return vals
}

// Hypersphere is a uniform distribution of d-dimensional vectors either
// on the surface of the unit sphere (Surface = true), as used for encoders,
// or throughout its volume, as used for decoder evaluation points.
type Hypersphere struct {
	Surface bool
}

// SampleVecs returns n vectors of dimension d
func (hs Hypersphere) SampleVecs(n, d int, rnd *rand.Rand) [][]float32 {
	vecs := make([][]float32, n)
	v := make([]float64, d)
	for i := range vecs {
		var nrm float64
		for nrm == 0 {
			for k := range v {
				v[k] = rnd.NormFloat64()
			}
			nrm = floats.Norm(v, 2)
		}
		sc := 1 / nrm
		if !hs.Surface {
			// radius distributed so that density is uniform in the ball
			sc *= math.Pow(rnd.Float64(), 1/float64(d))
		}
		floats.Scale(sc, v)
		vecs[i] = make([]float32, d)
		for k := range v {
			vecs[i][k] = float32(v[k])
		}
	}
	return vecs
}

// Normalize scales each vector to unit length in place.
// Returns false if any vector has zero length.
func Normalize(vecs [][]float32) bool {
	ok := true
	v := []float64{}
	for _, vec := range vecs {
		v = v[:0]
		for _, x := range vec {
			v = append(v, float64(x))
		}
		nrm := floats.Norm(v, 2)
		if nrm == 0 || math.IsNaN(nrm) {
			ok = false
			continue
		}
		for k := range vec {
			vec[k] = float32(v[k] / nrm)
		}
	}
	return ok
}
