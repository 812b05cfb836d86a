// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lif provides the leaky-integrate-and-fire (LIF) neuron model,
in both its discrete spiking form and its steady-state rate form.

The membrane voltage is normalized so that the firing threshold is 1 and
the reset value is 0, and input current J is expressed in the same units.
Between spikes the voltage follows dV/dt = (J - V) / TauRC, which is
integrated exactly over each time step using the closed-form exponential
solution, so results do not depend on a numerical integration tolerance.
Spike times and refractory periods are tracked at sub-step resolution, so
firing rates are not quantized to multiples of the time step.
*/
package lif

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrBadParam is returned for parameter values that cannot produce a valid neuron.
var ErrBadParam = errors.New("lif: invalid parameter")

// Params are the leaky-integrate-and-fire neuron parameters.
// Times are in seconds.
type Params struct {

	// membrane RC time constant: how quickly the voltage leaks toward the input current
	TauRC float32 `def:"0.02" min:"0"`

	// absolute refractory period after a spike, during which the voltage is held at 0
	TauRef float32 `def:"0.002" min:"0"`

	// lower bound on the membrane voltage -- strongly negative input drives voltage down to this value
	MinVm float32 `def:"0"`

	// scaling factor on the output spikes: each spike emits Amplitude / dt
	Amplitude float32 `def:"1" min:"0"`

	// 1 / TauRef: maximum firing rate attainable for infinite input
	MaxRateLim float32 `edit:"-" display:"-" json:"-" xml:"-"`
}

func (lp *Params) Defaults() {
	lp.TauRC = 0.02
	lp.TauRef = 0.002
	lp.MinVm = 0
	lp.Amplitude = 1
	lp.Update()
}

// Update must be called after any changes to parameters
func (lp *Params) Update() {
	if lp.TauRef > 0 {
		lp.MaxRateLim = 1 / lp.TauRef
	}
}

// Validate returns an error if the time constants are not usable.
func (lp *Params) Validate() error {
	if !(lp.TauRC > 0) {
		return fmt.Errorf("%w: TauRC must be > 0, got %g", ErrBadParam, lp.TauRC)
	}
	if !(lp.TauRef > 0) {
		return fmt.Errorf("%w: TauRef must be > 0, got %g", ErrBadParam, lp.TauRef)
	}
	if lp.Amplitude < 0 {
		return fmt.Errorf("%w: Amplitude must be >= 0, got %g", ErrBadParam, lp.Amplitude)
	}
	return nil
}

// Step advances one neuron by dt given constant input current j over the step.
// vm is the membrane voltage and refT the remaining refractory time, both
// updated in place.  Returns true if the neuron crossed threshold during the step.
//
// While refractory the voltage is held; if the refractory period ends partway
// through the step, only the remaining fraction of the step is integrated.
// On a spike the exact crossing time within the step is recovered from the
// exponential solution, and the part of the step after the crossing counts
// against the next refractory period.
func (lp *Params) Step(vm, refT *float32, j, dt float32) bool {
	integ := dt - *refT
	if integ < 0 {
		integ = 0
	} else if integ > dt {
		integ = dt
	}
	v := *vm - (j-*vm)*math32.Expm1(-integ/lp.TauRC)

	*refT -= dt
	if *refT < 0 {
		*refT = 0
	}
	if v < 1 {
		if v < lp.MinVm {
			v = lp.MinVm
		}
		*vm = v
		return false
	}
	// time from start of step to the threshold crossing
	tSpike := dt
	if j > 1 {
		tSpike = dt + lp.TauRC*math32.Log1p(-(v-1)/(j-1))
	}
	*vm = 0
	*refT = lp.TauRef - (dt - tSpike)
	if *refT < 0 {
		*refT = 0
	}
	return true
}

// Rate returns the steady-state firing rate for constant input current j:
// 1 / (TauRef + TauRC * ln(1 + 1/(j-1))), which is 0 for j <= 1.
// This is the same as 1 / (TauRef - TauRC * ln(1 - 1/j)).
func (lp *Params) Rate(j float32) float32 {
	if !(j > 1) {
		return 0
	}
	r := 1 / (lp.TauRef + lp.TauRC*math32.Log1p(1/(j-1)))
	if math32.IsNaN(r) || math32.IsInf(r, 0) {
		return 0
	}
	return r
}

// RateFmX returns the steady-state rate for represented value x
// given neuron gain and bias, i.e., Rate(gain*x + bias).
func (lp *Params) RateFmX(x, gain, bias float32) float32 {
	return lp.Rate(gain*x + bias)
}

// GainBias solves for the gain and bias that make the rate curve cross zero
// at intercept and reach maxRate at x = 1.  Returns an error if maxRate is
// outside (0, 1/TauRef) or if the resulting gain is not positive
// (i.e., intercept >= 1).
func (lp *Params) GainBias(maxRate, intercept float32) (gain, bias float32, err error) {
	if !(maxRate > 0) {
		return 0, 0, fmt.Errorf("%w: max rate must be > 0, got %g", ErrBadParam, maxRate)
	}
	if maxRate >= 1/lp.TauRef {
		return 0, 0, fmt.Errorf("%w: max rate %g must be below 1/TauRef = %g", ErrBadParam, maxRate, 1/lp.TauRef)
	}
	// input current needed to fire at maxRate
	jMax := 1 / (1 - math32.Exp((lp.TauRef-1/maxRate)/lp.TauRC))
	gain = (1 - jMax) / (intercept - 1)
	if !(gain > 0) || math32.IsInf(gain, 0) {
		return 0, 0, fmt.Errorf("%w: gain %g from intercept %g and max rate %g is not positive", ErrBadParam, gain, intercept, maxRate)
	}
	bias = 1 - gain*intercept
	return gain, bias, nil
}

// MaxRateIntercept is the inverse of GainBias.
func (lp *Params) MaxRateIntercept(gain, bias float32) (maxRate, intercept float32) {
	intercept = (1 - bias) / gain
	maxRate = lp.Rate(gain + bias)
	return
}
