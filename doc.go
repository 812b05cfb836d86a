// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nef is the overall repository for a Neural Engineering Framework (NEF)
simulator of spiking leaky-integrate-and-fire neuron populations, implemented
in the Go language (golang).

This top-level of the repository has no functional code -- everything is organized
into the following sub-packages:

* nef: the core implementation: neuron state and neuron types, ensembles that
encode a vector into the currents of a population, connections that decode
a function of that vector and feed it into another ensemble, stimulus nodes,
probes, and the network and simulator that run them in discrete time steps.

* lif: the leaky-integrate-and-fire neuron: exact exponential voltage update
with sub-step spike timing and refractory period, steady-state rate curve,
and gain / bias from intercept and max rate.

* rectlin: the rectified-linear rate neuron.

* synapse: first-order lowpass synapse filter.

* dists: distributions for sampling intercepts, max rates, initial voltages,
encoders and evaluation points.

* solvers: L2-regularized least squares decoder solver.

* examples: these compile into runnable programs.  examples/nefdemo runs the
single-neuron response, rate curves, and the standard NEF transformations
(scaling, squaring, addition, multiplication, gating).
*/
package nef
