// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/nef/dists"
)

// decTol is the tolerance for decoded values of spiking ensembles
const decTol = float32(0.1)

// runFor builds and runs net for dur seconds at the default dt, failing on error
func runFor(t *testing.T, nt *Network, dur float32) *Simulator {
	t.Helper()
	sm := NewSimulator(nt, 0)
	if err := sm.Run(dur); err != nil {
		t.Fatal(err)
	}
	sm.Finish()
	return sm
}

// singleNeuron returns a network with one LIF neuron with given gain and
// bias, driven directly by a constant input x
func singleNeuron(x, gain, bias float32) (*Network, *Ensemble) {
	nt := NewNetwork("single")
	in := nt.AddConstNode("in", x)
	en := nt.AddEnsemble("nrn", 1, 1)
	en.FixedGain = []float32{gain}
	en.FixedBias = []float32{bias}
	en.Encoders = [][]float32{{1}}
	en.InitVm = nil
	nt.Connect(in, en).SetSynapse(0)
	return nt, en
}

func TestSingleNeuronRate(t *testing.T) {
	// gain 10, bias 0, input 2: J = 20
	nt, en := singleNeuron(2, 10, 0)
	runFor(t, nt, 1)
	cor := en.Type.Rate(20)
	cnt := float32(en.SpikeCounts()[0])
	if dif := math32.Abs(cnt-cor) / cor; dif > 0.05 {
		t.Errorf("spike count: %v, rate: %v, dif: %v", cnt, cor, dif)
	}
	if math32.Abs(cor-330.48) > 0.1 {
		t.Errorf("rate at J=20: %v, want 330.48", cor)
	}
}

func TestBelowIntercept(t *testing.T) {
	for _, x := range []float32{0.3, 0.7} {
		nt := NewNetwork("icpt")
		in := nt.AddConstNode("in", x)
		en := nt.AddEnsemble("nrn", 1, 1)
		en.Encoders = [][]float32{{1}}
		en.Intercepts = dists.Choice{Options: []float32{0.5}}
		en.MaxRates = dists.Choice{Options: []float32{100}}
		en.InitVm = nil
		nt.Connect(in, en).SetSynapse(0)
		runFor(t, nt, 1)
		cnt := en.SpikeCounts()[0]
		if x < 0.5 && cnt != 0 {
			t.Errorf("input %v below intercept spiked %d times", x, cnt)
		}
		if x > 0.5 && cnt == 0 {
			t.Errorf("input %v above intercept never spiked", x)
		}
	}
}

func TestRefractorySpacing(t *testing.T) {
	nt, en := singleNeuron(100, 10, 0)
	pr := nt.AddProbe(en, ProbeSpikes)
	runFor(t, nt, 0.5)
	ts := pr.SpikeTimes(0)
	if len(ts) < 100 {
		t.Fatalf("only %d spikes at J = 1000", len(ts))
	}
	lp := en.Type.(*LIF)
	for i := 1; i < len(ts); i++ {
		if isi := ts[i] - ts[i-1]; isi < lp.TauRef-1.0e-4 {
			t.Errorf("spike %d interval %v shorter than refractory period %v", i, isi, lp.TauRef)
		}
	}
	// rate saturates at 1 / TauRef
	if float32(len(ts))/0.5 > lp.MaxRateLim {
		t.Errorf("rate %v exceeds limit %v", float32(len(ts))/0.5, lp.MaxRateLim)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	nt := NewNetwork("decode")
	nt.Seed = 1
	in := nt.AddConstNode("in", 0.5)
	en := nt.AddEnsemble("a", 100, 1)
	nt.Connect(in, en)
	pr := nt.AddFiltProbe(en, ProbeDecoded, 0.01)
	runFor(t, nt, 0.6)
	got := pr.MeanFrom(0.3)[0]
	if math32.Abs(got-0.5) > decTol {
		t.Errorf("decoded: %v, want 0.5", got)
	}
	if pr.Len() != 600 {
		t.Errorf("probe samples: %d, want 600", pr.Len())
	}
}

func TestDecodeImprovesWithN(t *testing.T) {
	rmse := make([]float32, 0, 2)
	for _, n := range []int{10, 200} {
		nt := NewNetwork("nsize")
		nt.Seed = 3
		nt.AddEnsemble("a", n, 1)
		if err := nt.Build(0.001); err != nil {
			t.Fatal(err)
		}
		rmse = append(rmse, nt.Ensembles[0].DecodeInfo.RMSE)
	}
	if !(rmse[1] < rmse[0]) {
		t.Errorf("decoder rmse did not improve with neurons: N=10: %v, N=200: %v", rmse[0], rmse[1])
	}
}

func TestLinearity(t *testing.T) {
	nt := NewNetwork("sum")
	nt.Seed = 2
	a := nt.AddConstNode("a", 0.3)
	b := nt.AddConstNode("b", 0.5)
	en := nt.AddEnsemble("sum", 200, 1)
	nt.Connect(a, en)
	nt.Connect(b, en)
	pr := nt.AddFiltProbe(en, ProbeDecoded, 0.01)
	runFor(t, nt, 0.6)
	got := pr.MeanFrom(0.3)[0]
	if math32.Abs(got-0.8) > decTol {
		t.Errorf("decoded sum: %v, want 0.8", got)
	}
}

func TestVectorSum(t *testing.T) {
	nt := NewNetwork("vecsum")
	nt.Seed = 4
	a := nt.AddConstNode("inA", 0.5, 0.3)
	b := nt.AddConstNode("inB", 0.1, -0.3)
	ea := nt.AddEnsemble("a", 200, 2)
	eb := nt.AddEnsemble("b", 200, 2)
	es := nt.AddEnsemble("sum", 300, 2)
	nt.Connect(a, ea)
	nt.Connect(b, eb)
	nt.Connect(ea, es)
	nt.Connect(eb, es)
	pr := nt.AddFiltProbe(es, ProbeDecoded, 0.02)
	runFor(t, nt, 0.8)
	got := pr.MeanFrom(0.4)
	cor := []float32{0.6, 0}
	for d := range cor {
		if math32.Abs(got[d]-cor[d]) > 0.15 {
			t.Errorf("dim %d: decoded: %v, want %v", d, got[d], cor[d])
		}
	}
}

func TestScaleAndSquare(t *testing.T) {
	nt := NewNetwork("xform")
	nt.Seed = 5
	in := nt.AddConstNode("in", 0.3)
	ea := nt.AddEnsemble("a", 200, 1)
	ed := nt.AddEnsemble("double", 200, 1)
	es := nt.AddEnsemble("square", 200, 1)
	nt.Connect(in, ea)
	nt.Connect(ea, ed).SetScale(2)
	nt.Connect(ea, es).SetFunc(1, Square())
	prd := nt.AddFiltProbe(ed, ProbeDecoded, 0.02)
	prs := nt.AddFiltProbe(es, ProbeDecoded, 0.02)
	runFor(t, nt, 0.8)
	if got := prd.MeanFrom(0.4)[0]; math32.Abs(got-0.6) > decTol {
		t.Errorf("decoded 2x: %v, want 0.6", got)
	}
	if got := prs.MeanFrom(0.4)[0]; math32.Abs(got-0.09) > decTol {
		t.Errorf("decoded x^2: %v, want 0.09", got)
	}
}

func TestProduct(t *testing.T) {
	nt := NewNetwork("product")
	nt.Seed = 6
	a := nt.AddConstNode("a", 0.5)
	b := nt.AddConstNode("b", 0.6)
	ec := nt.AddEnsemble("combined", 300, 2)
	ep := nt.AddEnsemble("prod", 200, 1)
	nt.Connect(a, ec).SetSlice(0)
	nt.Connect(b, ec).SetSlice(1)
	nt.Connect(ec, ep).SetFunc(1, Product())
	pr := nt.AddFiltProbe(ep, ProbeDecoded, 0.02)
	runFor(t, nt, 0.8)
	if got := pr.MeanFrom(0.4)[0]; math32.Abs(got-0.3) > 0.12 {
		t.Errorf("decoded product: %v, want 0.3", got)
	}
}

func TestRateNeurons(t *testing.T) {
	types := []NeuronType{NewLIFRate(), NewRectLin()}
	for _, typ := range types {
		nt := NewNetwork("rates")
		nt.Seed = 7
		in := nt.AddConstNode("in", 0.4)
		en := nt.AddEnsemble("a", 50, 1)
		en.Type = typ
		nt.Connect(in, en)
		pr := nt.AddFiltProbe(en, ProbeDecoded, 0.01)
		sp := nt.AddProbe(en, ProbeSpikes)
		runFor(t, nt, 0.3)
		if got := pr.MeanFrom(0.2)[0]; math32.Abs(got-0.4) > 0.05 {
			t.Errorf("%T decoded: %v, want 0.4", typ, got)
		}
		if typ.IsSpiking() {
			t.Errorf("%T reports spiking", typ)
		}
		for ni := 0; ni < en.N; ni++ {
			if len(sp.SpikeTimes(ni)) > 0 {
				t.Errorf("%T neuron %d emitted spikes", typ, ni)
				break
			}
		}
	}
}

func TestSineResponse(t *testing.T) {
	nt := NewNetwork("response")
	in := nt.AddNode("in", 1, Sine(1, 10))
	en := nt.AddEnsemble("nrn", 1, 1)
	en.Encoders = [][]float32{{1}}
	en.Intercepts = dists.Choice{Options: []float32{0.5}}
	en.MaxRates = dists.Choice{Options: []float32{100}}
	nt.Connect(in, en).SetSynapse(0)
	vm := nt.AddProbe(en, ProbeVoltage)
	sp := nt.AddProbe(en, ProbeSpikes)
	runFor(t, nt, 1)
	vs := vm.Series(0)
	for i, v := range vs {
		if v < 0 || v >= 1 {
			t.Errorf("step %d: voltage %v outside [0, 1)", i, v)
			break
		}
	}
	// spikes only where the input exceeds the intercept
	for _, st := range sp.SpikeTimes(0) {
		if x := math32.Sin(10 * st); x < 0.5-1.0e-3 {
			t.Errorf("spike at %v with input %v below intercept", st, x)
		}
	}
	if len(sp.SpikeTimes(0)) == 0 {
		t.Errorf("no spikes in response to sine input")
	}
}
