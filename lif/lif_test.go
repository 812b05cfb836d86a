// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lif

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-3)

func TestRate(t *testing.T) {
	lp := Params{}
	lp.Defaults()

	tstj := []float32{-1, 0, 0.5, 1, 1.5, 2, 5, 10, 20}
	cory := []float32{0, 0, 0, 0, 41.714907, 63.040002, 154.729995, 243.474262, 330.483913}
	for i := range tstj {
		r := lp.Rate(tstj[i])
		dif := math32.Abs(r - cory[i])
		if dif > difTol {
			t.Errorf("Rate err: idx: %v, j: %v, rate: %v, cor rate: %v, dif: %v\n", i, tstj[i], r, cory[i], dif)
		}
	}
	if r := lp.RateFmX(2, 10, 0); math32.Abs(r-330.483913) > difTol {
		t.Errorf("RateFmX(2, 10, 0) = %v, want 330.4839", r)
	}
}

// simulate runs a single neuron with constant input j for dur seconds,
// returning the spike times.
func simulate(lp *Params, j, dt, dur float32) []float32 {
	var vm, refT float32
	nstep := int(dur/dt + 0.5)
	var spikes []float32
	for i := 1; i <= nstep; i++ {
		if lp.Step(&vm, &refT, j, dt) {
			spikes = append(spikes, float32(i)*dt)
		}
	}
	return spikes
}

func TestStepRate(t *testing.T) {
	lp := Params{}
	lp.Defaults()

	// counts validated against a float64 reference of the same update,
	// allowing one spike of float32 slop at the end of the run
	tstj := []float32{1.5, 2, 5, 20}
	corn := []int{41, 63, 155, 331}
	for i, j := range tstj {
		spikes := simulate(&lp, j, 0.001, 1)
		if d := len(spikes) - corn[i]; d < -1 || d > 1 {
			t.Errorf("spike count err: j: %v, n: %v, cor n: %v\n", j, len(spikes), corn[i])
		}
		rate := lp.Rate(j)
		if math32.Abs(float32(len(spikes))-rate)/rate > 0.05 {
			t.Errorf("spike count %v not within 5%% of rate %v for j: %v", len(spikes), rate, j)
		}
	}
}

func TestStepConverges(t *testing.T) {
	lp := Params{}
	lp.Defaults()
	j := float32(3)
	rate := lp.Rate(j)
	prvErr := float32(math32.Inf(1))
	for _, dt := range []float32{0.002, 0.001, 0.0005} {
		n := len(simulate(&lp, j, dt, 4))
		err := math32.Abs(float32(n)/4 - rate)
		if err > prvErr+0.5 {
			t.Errorf("rate error grew as dt shrank: dt: %v, err: %v, prev: %v", dt, err, prvErr)
		}
		if err/rate > 0.02 {
			t.Errorf("rate %v too far from steady state %v at dt: %v", float32(n)/4, rate, dt)
		}
		prvErr = err
	}
}

func TestSubThreshold(t *testing.T) {
	lp := Params{}
	lp.Defaults()
	for _, j := range []float32{-2, 0, 0.5, 0.99, 1} {
		if n := len(simulate(&lp, j, 0.001, 2)); n != 0 {
			t.Errorf("j: %v should never spike, got %v spikes", j, n)
		}
	}
	var vm, refT float32
	for i := 0; i < 100; i++ {
		lp.Step(&vm, &refT, -5, 0.001)
	}
	if vm != lp.MinVm {
		t.Errorf("voltage not clamped to MinVm: %v", vm)
	}
}

func TestRefractory(t *testing.T) {
	lp := Params{}
	lp.Defaults()
	dt := float32(0.001)
	for _, j := range []float32{20, 100, 1000} {
		spikes := simulate(&lp, j, dt, 1)
		for i := 1; i < len(spikes); i++ {
			isi := spikes[i] - spikes[i-1]
			if isi < lp.TauRef-dt-1.0e-6 {
				t.Errorf("j: %v spikes %v and %v closer than refractory period", j, spikes[i-1], spikes[i])
			}
		}
		if float32(len(spikes)) > 1/lp.TauRef {
			t.Errorf("j: %v fired %v times, above 1/TauRef", j, len(spikes))
		}
	}
}

func TestGainBias(t *testing.T) {
	lp := Params{}
	lp.Defaults()

	maxr := []float32{100, 200, 400}
	icpt := []float32{0.5, -0.5, 0.9}
	corg := []float32{4.0664896, 4.1194413, 395.02083}
	corb := []float32{-1.0332448, 3.0597207, -354.51875}
	for i := range maxr {
		g, b, err := lp.GainBias(maxr[i], icpt[i])
		if err != nil {
			t.Fatal(err)
		}
		if math32.Abs(g-corg[i])/corg[i] > difTol || math32.Abs(b-corb[i]) > math32.Abs(corb[i])*difTol {
			t.Errorf("GainBias err: idx: %v, gain: %v, bias: %v, cor: %v, %v\n", i, g, b, corg[i], corb[i])
		}
		mr, ic := lp.MaxRateIntercept(g, b)
		if math32.Abs(mr-maxr[i])/maxr[i] > 0.01 || math32.Abs(ic-icpt[i]) > 0.01 {
			t.Errorf("MaxRateIntercept round trip: idx: %v, got %v, %v want %v, %v", i, mr, ic, maxr[i], icpt[i])
		}
		// tuning curve crosses zero at the intercept
		if r := lp.RateFmX(icpt[i]-0.01, g, b); r != 0 {
			t.Errorf("rate below intercept should be 0, got %v", r)
		}
	}
}

func TestGainBiasInvalid(t *testing.T) {
	lp := Params{}
	lp.Defaults()
	cases := []struct {
		name      string
		maxRate   float32
		intercept float32
	}{
		{"intercept at 1", 200, 1},
		{"intercept above 1", 200, 1.5},
		{"zero max rate", 0, 0},
		{"max rate above 1/TauRef", 600, 0},
	}
	for _, c := range cases {
		if _, _, err := lp.GainBias(c.maxRate, c.intercept); !errors.Is(err, ErrBadParam) {
			t.Errorf("%s: expected ErrBadParam, got %v", c.name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	lp := Params{}
	lp.Defaults()
	if err := lp.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	lp.TauRC = 0
	if err := lp.Validate(); !errors.Is(err, ErrBadParam) {
		t.Errorf("zero TauRC should be rejected, got %v", err)
	}
	lp.Defaults()
	lp.TauRef = -0.001
	if err := lp.Validate(); !errors.Is(err, ErrBadParam) {
		t.Errorf("negative TauRef should be rejected, got %v", err)
	}
}
