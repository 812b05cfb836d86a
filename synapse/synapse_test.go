// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synapse

import (
	"testing"

	"github.com/chewxy/math32"
)

const difTol = float32(1.0e-4)

func TestImpulseArea(t *testing.T) {
	sp := Params{}
	sp.Defaults()
	dt := float32(0.001)
	sp.Update(dt)

	var y float32
	sp.Filter(&y, 1/dt) // one spike
	area := y * dt
	for i := 0; i < 1000; i++ {
		sp.Filter(&y, 0)
		area += y * dt
	}
	if math32.Abs(area-1) > 1.0e-3 {
		t.Errorf("impulse response area = %v, want 1", area)
	}
	first := (1 - math32.Exp(-dt/sp.Tau)) / dt
	if math32.Abs(sp.Gain/dt-first) > difTol {
		t.Errorf("first sample %v, want %v", sp.Gain/dt, first)
	}
}

func TestSteadyState(t *testing.T) {
	sp := Params{Tau: 0.01}
	sp.Update(0.001)
	y := []float32{0, 0}
	x := []float32{0.3, -2}
	for i := 0; i < 2000; i++ {
		sp.FilterVec(y, x)
	}
	for i := range y {
		if math32.Abs(y[i]-x[i]) > difTol {
			t.Errorf("steady state %v = %v, want %v", i, y[i], x[i])
		}
	}
}

func TestPassThrough(t *testing.T) {
	sp := Params{Tau: 0}
	sp.Update(0.001)
	if sp.On() {
		t.Errorf("zero Tau should be off")
	}
	var y float32 = 5
	sp.Filter(&y, 0.25)
	if y != 0.25 {
		t.Errorf("pass-through output = %v, want 0.25", y)
	}
	bad := Params{Tau: -1}
	if err := bad.Validate(); err == nil {
		t.Errorf("negative Tau should be rejected")
	}
}
