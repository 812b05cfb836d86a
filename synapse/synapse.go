// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package synapse provides the first-order lowpass synaptic filter used to
turn spike trains into smooth, rate-like signals.

The continuous kernel is exp(-t/Tau)/Tau, which has unit area, so a train
of spikes of height 1/dt filters to the neuron's firing rate.  The kernel is
discretized with a zero-order hold: y = Decay*y + (1-Decay)*x with
Decay = exp(-dt/Tau).
*/
package synapse

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Params are the lowpass synapse parameters
type Params struct {

	// time constant in seconds.  0 means no filtering: the output is the input.
	Tau float32 `def:"0.005" min:"0"`

	// exp(-dt / Tau), computed by Update
	Decay float32 `edit:"-" display:"-" json:"-" xml:"-"`

	// 1 - Decay
	Gain float32 `edit:"-" display:"-" json:"-" xml:"-"`
}

func (sp *Params) Defaults() {
	sp.Tau = 0.005
}

// Update computes the discrete filter coefficients for given time step.
// Must be called after any changes to Tau.
func (sp *Params) Update(dt float32) {
	if sp.Tau <= 0 {
		sp.Decay = 0
		sp.Gain = 1
		return
	}
	sp.Decay = math32.Exp(-dt / sp.Tau)
	sp.Gain = 1 - sp.Decay
}

// Validate checks that the time constant is usable
func (sp *Params) Validate() error {
	if sp.Tau < 0 || math32.IsNaN(sp.Tau) {
		return fmt.Errorf("synapse: Tau must be >= 0, got %g", sp.Tau)
	}
	return nil
}

// On returns true if this synapse filters at all
func (sp *Params) On() bool {
	return sp.Tau > 0
}

// Filter integrates input x into filtered state y
func (sp *Params) Filter(y *float32, x float32) {
	*y = sp.Decay*(*y) + sp.Gain*x
}

// FilterVec filters each element of x into y, which must be the same length
func (sp *Params) FilterVec(y, x []float32) {
	for i := range y {
		y[i] = sp.Decay*y[i] + sp.Gain*x[i]
	}
}
