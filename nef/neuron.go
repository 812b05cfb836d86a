// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"

	"github.com/chewxy/math32"
)

// nef.Neuron holds the per-neuron state variables, updated every step
// by the ensemble's NeuronType.
type Neuron struct {

	// membrane voltage, normalized so threshold is 1 and reset is 0.  Not used by rate neurons.
	Vm float32

	// remaining refractory time, in seconds (>= 0)
	RefT float32

	// input current on the last step
	J float32

	// 1 if the neuron spiked on the last step, else 0
	Spike float32

	// output sent to decoders: Amplitude / dt on a spike step for spiking neurons,
	// and the instantaneous firing rate for rate neurons
	Out float32

	// total number of spikes since the start of the run
	SpikeCount float32
}

var NeuronVars = []string{"Vm", "RefT", "J", "Spike", "Out", "SpikeCount"}

var NeuronVarsMap map[string]int

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

// Init resets the neuron state to given initial voltage
func (nrn *Neuron) Init(vm float32) {
	nrn.Vm = vm
	nrn.RefT = 0
	nrn.J = 0
	nrn.Spike = 0
	nrn.Out = 0
	nrn.SpikeCount = 0
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarIndexByName returns the index of the variable in the Neuron, or error
func NeuronVarIndexByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	switch idx {
	case 0:
		return nrn.Vm
	case 1:
		return nrn.RefT
	case 2:
		return nrn.J
	case 3:
		return nrn.Spike
	case 4:
		return nrn.Out
	case 5:
		return nrn.SpikeCount
	}
	return math32.NaN()
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarIndexByName(varNm)
	if err != nil {
		return math32.NaN(), err
	}
	return nrn.VarByIndex(i), nil
}
