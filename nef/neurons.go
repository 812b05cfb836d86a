// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"github.com/emer/nef/lif"
	"github.com/emer/nef/rectlin"
)

// NeuronType is the neuron model used by all neurons in an Ensemble.
// It provides both the steady-state rate curve, used to fit decoders,
// and the per-step update, used in simulation.
type NeuronType interface {

	// Rate returns the steady-state firing rate for input current j
	Rate(j float32) float32

	// GainBias returns the gain and bias giving a tuning curve that crosses
	// zero at intercept and reaches maxRate at x = 1
	GainBias(maxRate, intercept float32) (gain, bias float32, err error)

	// Step updates the neuron state for one step of dt with input current j
	Step(nrn *Neuron, j, dt float32)

	// IsSpiking returns true if Out carries discrete spikes rather than rates
	IsSpiking() bool

	// Validate returns an error if the parameters are unusable
	Validate() error
}

// LIF is the spiking leaky-integrate-and-fire neuron
type LIF struct {
	lif.Params
}

// NewLIF returns a new LIF neuron type with default parameters
func NewLIF() *LIF {
	nt := &LIF{}
	nt.Defaults()
	return nt
}

// Rate includes the spike Amplitude, matching the mean of Out over time
func (nt *LIF) Rate(j float32) float32 {
	return nt.Amplitude * nt.Params.Rate(j)
}

func (nt *LIF) Step(nrn *Neuron, j, dt float32) {
	nrn.J = j
	if nt.Params.Step(&nrn.Vm, &nrn.RefT, j, dt) {
		nrn.Spike = 1
		nrn.Out = nt.Amplitude / dt
		nrn.SpikeCount++
		return
	}
	nrn.Spike = 0
	nrn.Out = 0
}

func (nt *LIF) IsSpiking() bool { return true }

// LIFRate is the non-spiking LIF neuron, whose output is its
// steady-state firing rate for the present input
type LIFRate struct {
	lif.Params
}

// NewLIFRate returns a new LIFRate neuron type with default parameters
func NewLIFRate() *LIFRate {
	nt := &LIFRate{}
	nt.Defaults()
	return nt
}

func (nt *LIFRate) Rate(j float32) float32 {
	return nt.Amplitude * nt.Params.Rate(j)
}

func (nt *LIFRate) Step(nrn *Neuron, j, dt float32) {
	nrn.J = j
	nrn.Out = nt.Rate(j)
}

func (nt *LIFRate) IsSpiking() bool { return false }

// RectLin is the rectified-linear rate neuron
type RectLin struct {
	rectlin.Params
}

// NewRectLin returns a new RectLin neuron type with default parameters
func NewRectLin() *RectLin {
	nt := &RectLin{}
	nt.Defaults()
	return nt
}

func (nt *RectLin) Step(nrn *Neuron, j, dt float32) {
	nrn.J = j
	nrn.Out = nt.Rate(j)
}

func (nt *RectLin) IsSpiking() bool { return false }
