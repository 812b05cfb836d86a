// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"
	"log"
)

// SimStates are the states of a Simulator run
type SimStates int32

const (
	// Uninitialized has not yet built the network or taken a step
	Uninitialized SimStates = iota

	// Running has initialized state and can take further steps
	Running

	// Finished has ended the run: probe data is final and no more steps can be taken
	Finished

	SimStatesN
)

var simStateNames = []string{"Uninitialized", "Running", "Finished"}

func (ss SimStates) String() string {
	if ss < 0 || ss >= SimStatesN {
		return fmt.Sprintf("SimStates(%d)", int32(ss))
	}
	return simStateNames[ss]
}

// Simulator runs a Network in discrete time steps.  Each step, at time
// t = Step * Dt:
//
//   - every Node computes its output at t
//   - every Connection sends into its destination, from the source
//     values as of the end of the previous step
//   - every Ensemble advances its neurons by Dt
//   - every Probe records
//
// All objects are visited in the order they were added to the network.
type Simulator struct {

	// the network being simulated
	Net *Network

	// timing state
	Time Time

	// run state
	state SimStates
}

// NewSimulator returns a simulator for net with time step dt (0 = default)
func NewSimulator(net *Network, dt float32) *Simulator {
	sm := &Simulator{Net: net}
	sm.Time.Defaults()
	if dt != 0 {
		sm.Time.Dt = dt
	}
	return sm
}

// State returns the current run state
func (sm *Simulator) State() SimStates {
	return sm.state
}

// Init builds the network if it has not been built for the current Dt, and resets all state and probes
// for a new run.  Moves to the Running state.
func (sm *Simulator) Init() error {
	if !sm.Net.Built || sm.Net.Dt != sm.Time.Dt {
		if err := sm.Net.BuildLog(sm.Time.Dt); err != nil {
			return err
		}
	}
	sm.Net.Init()
	sm.Time.Reset()
	sm.state = Running
	return nil
}

// Step advances the simulation by one step, initializing first if needed.
// Returns ErrFinished after Finish, and an error if objects were added to
// the network since Init.
func (sm *Simulator) Step() error {
	switch sm.state {
	case Finished:
		return ErrFinished
	case Uninitialized:
		if err := sm.Init(); err != nil {
			return err
		}
	case Running:
		if !sm.Net.Built {
			return fmt.Errorf("%w: network %s changed since Init: call Reset or Init to rebuild", ErrBadParam, sm.Net.Nm)
		}
	}
	nt := sm.Net
	sm.Time.StepInc()
	t := sm.Time.Time
	dt := sm.Time.Dt
	for _, nd := range nt.Nodes {
		nd.Eval(t)
	}
	for _, en := range nt.Ensembles {
		en.ZeroInput()
	}
	for _, cn := range nt.Conns {
		cn.Send()
	}
	for _, en := range nt.Ensembles {
		en.Step(dt)
	}
	for _, pr := range nt.Probes {
		pr.Record(t)
	}
	return nil
}

// RunSteps takes n steps
func (sm *Simulator) RunSteps(n int) error {
	for i := 0; i < n; i++ {
		if err := sm.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run takes as many steps as fit in dur seconds
func (sm *Simulator) Run(dur float32) error {
	if dur < 0 {
		return fmt.Errorf("%w: negative run duration %g", ErrBadParam, dur)
	}
	return sm.RunSteps(sm.Time.NSteps(dur))
}

// Finish ends the run.  Probe data remains available, unchanged.
func (sm *Simulator) Finish() {
	sm.state = Finished
}

// Reset discards all state and probe data, returning to Uninitialized.
// The built network parameters are kept.
func (sm *Simulator) Reset() {
	if sm.Net.Built {
		sm.Net.Init()
	}
	sm.Time.Reset()
	sm.state = Uninitialized
}

// Trange returns the time of each step taken so far: Dt, 2*Dt, ...
func (sm *Simulator) Trange() []float32 {
	ts := make([]float32, sm.Time.Step)
	for i := range ts {
		ts[i] = float32(i+1) * sm.Time.Dt
	}
	return ts
}

// RunLog runs for dur seconds and then finishes, logging and returning any error
func (sm *Simulator) RunLog(dur float32) error {
	err := sm.Run(dur)
	sm.Finish()
	if err != nil {
		log.Println(err)
	}
	return err
}
