// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package rectlin provides the rectified-linear rate neuron, whose firing
rate is simply proportional to the positive part of its input current.
It is mainly useful as a point of comparison against the saturating
LIF rate curve, and as a cheap non-spiking population neuron.
*/
package rectlin

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrBadParam is returned for parameter values that cannot produce a valid neuron.
var ErrBadParam = errors.New("rectlin: invalid parameter")

// Params are the rectified-linear neuron parameters.
type Params struct {

	// scaling factor on the output rate
	Amplitude float32 `def:"1" min:"0"`
}

func (rp *Params) Defaults() {
	rp.Amplitude = 1
}

func (rp *Params) Update() {
}

// Validate returns an error if the parameters are not usable.
func (rp *Params) Validate() error {
	if rp.Amplitude < 0 {
		return fmt.Errorf("%w: Amplitude must be >= 0, got %g", ErrBadParam, rp.Amplitude)
	}
	return nil
}

// Rate returns Amplitude * max(j, 0)
func (rp *Params) Rate(j float32) float32 {
	return rp.Amplitude * math32.Max(j, 0)
}

// RateFmX returns the rate for represented value x given gain and bias
func (rp *Params) RateFmX(x, gain, bias float32) float32 {
	return rp.Rate(gain*x + bias)
}

// GainBias returns the gain and bias giving a zero crossing at intercept
// and maxRate at x = 1.  The intercept must be below 1.
func (rp *Params) GainBias(maxRate, intercept float32) (gain, bias float32, err error) {
	if !(maxRate > 0) {
		return 0, 0, fmt.Errorf("%w: max rate must be > 0, got %g", ErrBadParam, maxRate)
	}
	gain = maxRate / (1 - intercept)
	if !(gain > 0) || math32.IsInf(gain, 0) {
		return 0, 0, fmt.Errorf("%w: gain %g from intercept %g is not positive", ErrBadParam, gain, intercept)
	}
	bias = -intercept * gain
	return gain, bias, nil
}

// MaxRateIntercept is the inverse of GainBias
func (rp *Params) MaxRateIntercept(gain, bias float32) (maxRate, intercept float32) {
	intercept = -bias / gain
	maxRate = gain + bias
	return
}
