// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nef simulates small networks of spiking neuron populations that
represent and transform real-valued vectors, following the Neural
Engineering Framework (NEF).

A Network is built from:

  - Node: a stimulus, producing a vector as a function of time.
  - Ensemble: a population of N neurons (LIF by default) jointly
    representing a D-dimensional vector.  Each neuron has a preferred
    direction (encoder), and a gain and bias derived from its intercept
    and maximum firing rate.  Input current is J = gain * (e . x) / radius + bias.
  - Connection: carries a Node output, or an Ensemble's decoded estimate,
    optionally through a function and a linear transform, into the input
    of a destination Ensemble (or a slice of its dimensions), through a
    lowpass synapse.  Decoders for the function are fit once at Build time
    by regularized least squares over sampled evaluation points.
  - Probe: records a time series of a node output, an ensemble's decoded
    value, or neuron-level spikes, voltages or currents.

A Simulator owns a built Network for one run and advances it in fixed
steps of Dt.  Each step evaluates stimuli at t = step*Dt, sends all
connections, updates all neurons, and records all probes, strictly in
that order.  Everything is deterministic given the network Seed, Dt, and
the stimulus functions.
*/
package nef
