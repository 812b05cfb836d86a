// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"

	"github.com/emer/nef/synapse"
	"gonum.org/v1/plot/plotter"
)

// ProbeAttrs are the signals that a Probe can record
type ProbeAttrs int32

// The probe attributes
const (
	// ProbeDecoded records a Node output, or an Ensemble's decoded value
	ProbeDecoded ProbeAttrs = iota

	// ProbeSpikes records the 0/1 spike flag of each neuron of an Ensemble
	ProbeSpikes

	// ProbeVoltage records the membrane voltage of each neuron
	ProbeVoltage

	// ProbeCurrent records the input current of each neuron
	ProbeCurrent

	// ProbeOutput records the Out value of each neuron: Amplitude / dt on spikes, or rates
	ProbeOutput

	// ProbePopRate records the average and max Out over the ensemble's neurons
	ProbePopRate

	ProbeAttrsN
)

var probeAttrNames = []string{"Decoded", "Spikes", "Voltage", "Current", "Output", "PopRate"}

func (pa ProbeAttrs) String() string {
	if pa < 0 || pa >= ProbeAttrsN {
		return fmt.Sprintf("ProbeAttrs(%d)", int32(pa))
	}
	return probeAttrNames[pa]
}

// Probe records a signal on every step of a run.  Data grows by one row
// per step and must be treated as read-only by callers.
type Probe struct {

	// object being recorded
	Obj Object

	// which signal of the object to record
	Attr ProbeAttrs

	// optional synapse filtering the recorded signal (Tau = 0 for none)
	Synapse synapse.Params

	// time of each recorded sample, in seconds
	Times []float32 `edit:"-"`

	// recorded samples, [step][Width()]
	Data [][]float32 `edit:"-"`

	// index in network Probes list
	Index int `edit:"-"`

	// raw signal on the current step
	cur []float32

	// filtered signal
	filt []float32
}

func (pr *Probe) String() string {
	return fmt.Sprintf("Probe(%s.%v)", pr.Obj.Name(), pr.Attr)
}

// Name returns a name for the probe, built from the object and attribute
func (pr *Probe) Name() string {
	return pr.Obj.Name() + "_" + pr.Attr.String()
}

// Width returns the number of values recorded per step
func (pr *Probe) Width() int {
	switch pr.Attr {
	case ProbeDecoded:
		return pr.Obj.SizeOut()
	case ProbePopRate:
		return 2
	}
	if en, ok := pr.Obj.(*Ensemble); ok {
		return en.N
	}
	return 0
}

// Validate checks that the attribute applies to the object
func (pr *Probe) Validate() error {
	if pr.Obj == nil {
		return fmt.Errorf("%w: probe has no object", ErrBadParam)
	}
	if pr.Attr < 0 || pr.Attr >= ProbeAttrsN {
		return fmt.Errorf("%w: %v: unknown attribute", ErrBadParam, pr)
	}
	switch pr.Obj.(type) {
	case *Node:
		if pr.Attr != ProbeDecoded {
			return fmt.Errorf("%w: %v: nodes only provide their output", ErrBadParam, pr)
		}
	case *Ensemble:
	default:
		return fmt.Errorf("%w: %v: unsupported object type %T", ErrBadParam, pr, pr.Obj)
	}
	if err := pr.Synapse.Validate(); err != nil {
		return fmt.Errorf("%w: %v: %v", ErrBadParam, pr, err)
	}
	return nil
}

// Build validates the probe and allocates its state
func (pr *Probe) Build(dt float32) error {
	if err := pr.Validate(); err != nil {
		return err
	}
	pr.Synapse.Update(dt)
	pr.cur = make([]float32, pr.Width())
	pr.filt = make([]float32, pr.Width())
	pr.Init()
	return nil
}

// Init discards all recorded data and clears the synapse state
func (pr *Probe) Init() {
	pr.Times = nil
	pr.Data = nil
	for i := range pr.filt {
		pr.filt[i] = 0
	}
}

// Record appends the current value of the signal at time t
func (pr *Probe) Record(t float32) {
	switch obj := pr.Obj.(type) {
	case *Node:
		copy(pr.cur, obj.Value)
	case *Ensemble:
		switch pr.Attr {
		case ProbeDecoded:
			obj.Decode(obj.Decoders, pr.cur)
		case ProbePopRate:
			pr.cur[0] = obj.OutStats.Avg
			pr.cur[1] = obj.OutStats.Max
		default:
			for ni := range obj.Neurons {
				nrn := &obj.Neurons[ni]
				switch pr.Attr {
				case ProbeSpikes:
					pr.cur[ni] = nrn.Spike
				case ProbeVoltage:
					pr.cur[ni] = nrn.Vm
				case ProbeCurrent:
					pr.cur[ni] = nrn.J
				case ProbeOutput:
					pr.cur[ni] = nrn.Out
				}
			}
		}
	}
	pr.Synapse.FilterVec(pr.filt, pr.cur)
	pr.Times = append(pr.Times, t)
	pr.Data = append(pr.Data, append([]float32(nil), pr.filt...))
}

// Len returns the number of recorded samples
func (pr *Probe) Len() int {
	return len(pr.Data)
}

// Series returns the recorded values of one dimension (or neuron) over time
func (pr *Probe) Series(dim int) []float32 {
	vals := make([]float32, len(pr.Data))
	for i, row := range pr.Data {
		vals[i] = row[dim]
	}
	return vals
}

// MeanFrom returns the time average of each dimension over samples at or after time t0
func (pr *Probe) MeanFrom(t0 float32) []float32 {
	mean := make([]float32, pr.Width())
	n := 0
	for i, row := range pr.Data {
		if pr.Times[i] < t0 {
			continue
		}
		for d, v := range row {
			mean[d] += v
		}
		n++
	}
	if n > 0 {
		for d := range mean {
			mean[d] /= float32(n)
		}
	}
	return mean
}

// SpikeTimes returns the times at which given neuron spiked.
// Only valid for ProbeSpikes probes without a synapse.
func (pr *Probe) SpikeTimes(ni int) []float32 {
	var ts []float32
	for i, row := range pr.Data {
		if row[ni] > 0 {
			ts = append(ts, pr.Times[i])
		}
	}
	return ts
}

// XYs returns one dimension of the recorded data against time, for plotting
func (pr *Probe) XYs(dim int) plotter.XYs {
	pts := make(plotter.XYs, len(pr.Data))
	for i, row := range pr.Data {
		pts[i].X = float64(pr.Times[i])
		pts[i].Y = float64(row[dim])
	}
	return pts
}
