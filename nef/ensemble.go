// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/emer/etable/v2/minmax"
	"github.com/emer/nef/dists"
	"github.com/emer/nef/solvers"
)

// Ensemble is a population of neurons that jointly represents a vector
// of Dims dimensions, with expected magnitude up to Radius.
type Ensemble struct {

	// name of ensemble, must be unique within network
	Nm string

	// number of neurons
	N int

	// dimensionality of the represented vector
	Dims int

	// expected magnitude of the represented vector
	Radius float32 `def:"1" min:"0"`

	// neuron model for all neurons in the ensemble
	Type NeuronType

	// distribution of per-neuron firing rates at x = Radius along the encoder
	MaxRates dists.Dist

	// distribution of per-neuron intercepts: the represented value,
	// relative to Radius, at which each neuron starts to fire
	Intercepts dists.Dist

	// explicit per-neuron gains -- if set along with FixedBias, these are used
	// instead of MaxRates and Intercepts
	FixedGain []float32

	// explicit per-neuron biases, used with FixedGain
	FixedBias []float32

	// explicit preferred direction vectors, one per neuron -- normalized
	// at Build.  If nil, encoders are drawn uniformly from the unit hypersphere surface.
	Encoders [][]float32

	// distribution of initial membrane voltages
	InitVm dists.Dist

	// number of points at which to evaluate tuning curves for fitting decoders.
	// 0 = max(clip(500 * Dims, 750, 2500), 2 * N)
	NEvalPoints int

	// decoder solver for the ensemble's own decoded value, and by default for
	// outgoing connections
	Solver solvers.Solver

	// per-neuron gain, computed at Build
	Gain []float32 `edit:"-"`

	// per-neuron bias current, computed at Build
	Bias []float32 `edit:"-"`

	// unit-length preferred directions, [N][Dims]
	Enc [][]float32 `edit:"-"`

	// encoders scaled by Gain / Radius: J = ScaledEnc . x + Bias
	ScaledEnc [][]float32 `edit:"-"`

	// points in the represented space used to fit decoders, [NEvalPoints][Dims]
	EvalPoints [][]float32 `edit:"-"`

	// decoders for the represented value itself, [N][Dims]
	Decoders [][]float32 `edit:"-"`

	// fit statistics for Decoders
	DecodeInfo solvers.Info `edit:"-"`

	// neuron state
	Neurons []Neuron `edit:"-"`

	// summed input from all incoming connections, in the represented space, [Dims]
	Input []float32 `edit:"-"`

	// average and max of neuron Out values on the last step
	OutStats minmax.AvgMax32 `edit:"-"`

	// initial membrane voltages, sampled at Build
	initVm []float32

	// index in network Ensembles list
	Index int `edit:"-"`
}

func (en *Ensemble) Name() string { return en.Nm }
func (en *Ensemble) SizeOut() int { return en.Dims }
func (en *Ensemble) String() string {
	return fmt.Sprintf("Ensemble(%s, %d neurons, %d dims)", en.Nm, en.N, en.Dims)
}

// Defaults sets the standard NEF defaults: LIF neurons, radius 1, max rates
// uniform in [200, 400) Hz, intercepts uniform in [-1, 0.9), L2-regularized
// least squares decoders.
func (en *Ensemble) Defaults() {
	en.Radius = 1
	en.Type = NewLIF()
	en.MaxRates = dists.Uniform{Low: 200, High: 400}
	en.Intercepts = dists.Uniform{Low: -1, High: 0.9}
	en.InitVm = dists.Uniform{Low: 0, High: 1}
	ls := &solvers.LstsqL2{}
	ls.Defaults()
	en.Solver = ls
}

// Validate checks the configuration before Build
func (en *Ensemble) Validate() error {
	if en.N <= 0 {
		return fmt.Errorf("%w: ensemble %s: N must be > 0, got %d", ErrBadParam, en.Nm, en.N)
	}
	if en.Dims <= 0 {
		return fmt.Errorf("%w: ensemble %s: Dims must be > 0, got %d", ErrBadParam, en.Nm, en.Dims)
	}
	if !(en.Radius > 0) {
		return fmt.Errorf("%w: ensemble %s: Radius must be > 0, got %g", ErrBadParam, en.Nm, en.Radius)
	}
	if en.Type == nil {
		return fmt.Errorf("%w: ensemble %s: no neuron Type", ErrBadParam, en.Nm)
	}
	if err := en.Type.Validate(); err != nil {
		return fmt.Errorf("ensemble %s: %w", en.Nm, err)
	}
	if en.Solver == nil {
		return fmt.Errorf("%w: ensemble %s: no decoder Solver", ErrBadParam, en.Nm)
	}
	if en.Encoders != nil {
		if len(en.Encoders) != en.N {
			return fmt.Errorf("%w: ensemble %s: %d encoders for %d neurons", ErrDims, en.Nm, len(en.Encoders), en.N)
		}
		for i, e := range en.Encoders {
			if len(e) != en.Dims {
				return fmt.Errorf("%w: ensemble %s: encoder %d has %d dims, want %d", ErrDims, en.Nm, i, len(e), en.Dims)
			}
		}
	}
	if en.FixedGain != nil || en.FixedBias != nil {
		if len(en.FixedGain) != en.N || len(en.FixedBias) != en.N {
			return fmt.Errorf("%w: ensemble %s: need %d fixed gains and biases, got %d, %d", ErrDims, en.Nm, en.N, len(en.FixedGain), len(en.FixedBias))
		}
	}
	return nil
}

// NEvalPointsDefault returns the number of evaluation points used when NEvalPoints is 0
func (en *Ensemble) NEvalPointsDefault() int {
	n := 500 * en.Dims
	if n < 750 {
		n = 750
	} else if n > 2500 {
		n = 2500
	}
	if n < 2*en.N {
		n = 2 * en.N
	}
	return n
}

// Build computes the encoders, gains and biases, evaluation points and
// identity decoders, and allocates the neuron state.  All random choices
// are drawn from rnd, in a fixed order.
func (en *Ensemble) Build(rnd *rand.Rand) error {
	if err := en.Validate(); err != nil {
		return err
	}
	en.buildEncoders(rnd)
	if err := en.buildGainBias(rnd); err != nil {
		return err
	}
	en.ScaledEnc = make([][]float32, en.N)
	for ni := range en.ScaledEnc {
		sc := en.Gain[ni] / en.Radius
		en.ScaledEnc[ni] = make([]float32, en.Dims)
		for d, e := range en.Enc[ni] {
			en.ScaledEnc[ni][d] = sc * e
		}
	}

	nev := en.NEvalPoints
	if nev <= 0 {
		nev = en.NEvalPointsDefault()
	}
	en.EvalPoints = dists.Hypersphere{}.SampleVecs(nev, en.Dims, rnd)
	for _, p := range en.EvalPoints {
		for d := range p {
			p[d] *= en.Radius
		}
	}
	if en.InitVm != nil {
		en.initVm = en.InitVm.Sample(en.N, rnd)
	} else {
		en.initVm = make([]float32, en.N)
	}

	dec, info, err := en.SolveDecoders(nil, en.Dims, en.Solver)
	if err != nil {
		return err
	}
	en.Decoders = dec
	en.DecodeInfo = info

	en.Neurons = make([]Neuron, en.N)
	en.Input = make([]float32, en.Dims)
	en.Init()
	return nil
}

func (en *Ensemble) buildEncoders(rnd *rand.Rand) {
	if en.Encoders == nil {
		en.Enc = dists.Hypersphere{Surface: true}.SampleVecs(en.N, en.Dims, rnd)
		return
	}
	en.Enc = make([][]float32, en.N)
	for ni, e := range en.Encoders {
		en.Enc[ni] = append([]float32(nil), e...)
	}
}

func (en *Ensemble) buildGainBias(rnd *rand.Rand) error {
	if en.Encoders != nil && !dists.Normalize(en.Enc) {
		return fmt.Errorf("%w: ensemble %s: zero-length encoder", ErrBadParam, en.Nm)
	}
	en.Gain = make([]float32, en.N)
	en.Bias = make([]float32, en.N)
	if en.FixedGain != nil {
		for ni := range en.Gain {
			if !(en.FixedGain[ni] > 0) {
				return fmt.Errorf("%w: ensemble %s: neuron %d gain %g is not positive", ErrBadParam, en.Nm, ni, en.FixedGain[ni])
			}
		}
		copy(en.Gain, en.FixedGain)
		copy(en.Bias, en.FixedBias)
		return nil
	}
	if en.MaxRates == nil || en.Intercepts == nil {
		return fmt.Errorf("%w: ensemble %s: MaxRates and Intercepts are required without FixedGain", ErrBadParam, en.Nm)
	}
	maxr := en.MaxRates.Sample(en.N, rnd)
	icpt := en.Intercepts.Sample(en.N, rnd)
	for ni := range en.Gain {
		g, b, err := en.Type.GainBias(maxr[ni], icpt[ni])
		if err != nil {
			return fmt.Errorf("ensemble %s: neuron %d: %w", en.Nm, ni, err)
		}
		en.Gain[ni], en.Bias[ni] = g, b
	}
	return nil
}

// Init resets the neuron state and input for the start of a run
func (en *Ensemble) Init() {
	for ni := range en.Neurons {
		en.Neurons[ni].Init(en.initVm[ni])
	}
	en.ZeroInput()
	en.OutStats.Init()
}

// ZeroInput clears the summed connection input
func (en *Ensemble) ZeroInput() {
	for d := range en.Input {
		en.Input[d] = 0
	}
}

// Current returns the input current of neuron ni for represented value x
func (en *Ensemble) Current(ni int, x []float32) float32 {
	j := en.Bias[ni]
	for d, e := range en.ScaledEnc[ni] {
		j += e * x[d]
	}
	return j
}

// Activities returns the steady-state firing rates of all neurons at each
// of the given points in the represented space, as [points][neurons]
func (en *Ensemble) Activities(pts [][]float32) [][]float32 {
	act := make([][]float32, len(pts))
	for pi, p := range pts {
		act[pi] = make([]float32, en.N)
		for ni := range act[pi] {
			act[pi][ni] = en.Type.Rate(en.Current(ni, p))
		}
	}
	return act
}

// SolveDecoders fits decoders for function fn of the represented value,
// with fdims output dimensions, over the evaluation points.
// A nil fn decodes the value itself.  Returns decoders as [N][fdims].
func (en *Ensemble) SolveDecoders(fn VecFunc, fdims int, slv solvers.Solver) ([][]float32, solvers.Info, error) {
	if slv == nil {
		slv = en.Solver
	}
	targ := make([][]float32, len(en.EvalPoints))
	for pi, p := range en.EvalPoints {
		targ[pi] = make([]float32, fdims)
		if fn == nil {
			copy(targ[pi], p)
		} else {
			fn.Eval(p, targ[pi])
		}
	}
	dec, info, err := slv.Solve(en.Activities(en.EvalPoints), targ)
	if err != nil {
		return nil, info, fmt.Errorf("ensemble %s: decoders: %w", en.Nm, err)
	}
	return dec, info, nil
}

// Step computes each neuron's input current from the summed Input and
// advances it by one step of dt
func (en *Ensemble) Step(dt float32) {
	en.OutStats.Init()
	for ni := range en.Neurons {
		nrn := &en.Neurons[ni]
		en.Type.Step(nrn, en.Current(ni, en.Input), dt)
		en.OutStats.UpdateVal(nrn.Out, int32(ni))
	}
	en.OutStats.CalcAvg()
}

// Decode computes the decoded value from the current neuron outputs using
// given decoders ([N][len(out)]), writing into out
func (en *Ensemble) Decode(dec [][]float32, out []float32) {
	for d := range out {
		out[d] = 0
	}
	for ni := range en.Neurons {
		o := en.Neurons[ni].Out
		if o == 0 {
			continue
		}
		for d, w := range dec[ni] {
			out[d] += o * w
		}
	}
}

// SpikeCounts returns the total spike count of each neuron so far in the run
func (en *Ensemble) SpikeCounts() []int {
	cnt := make([]int, en.N)
	for ni := range en.Neurons {
		cnt[ni] = int(en.Neurons[ni].SpikeCount)
	}
	return cnt
}

// TuningCurves returns the steady-state rate of each neuron at each of the
// given scalar values, projected along that neuron's encoder, as
// [len(xs)][N].  This is the tuning curve of each neuron in its preferred direction.
func (en *Ensemble) TuningCurves(xs []float32) [][]float32 {
	rates := make([][]float32, len(xs))
	for xi, x := range xs {
		rates[xi] = make([]float32, en.N)
		for ni := range rates[xi] {
			rates[xi][ni] = en.Type.Rate(en.Gain[ni]*x/en.Radius + en.Bias[ni])
		}
	}
	return rates
}

// MeanRate returns the mean over neurons of the steady-state rate for represented value x
func (en *Ensemble) MeanRate(x []float32) float32 {
	var sum float32
	for ni := 0; ni < en.N; ni++ {
		sum += en.Type.Rate(en.Current(ni, x))
	}
	return sum / math32.Max(float32(en.N), 1)
}
