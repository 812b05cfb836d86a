// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

// nef.Time contains the timing state and parameters for a simulation run
type Time struct {

	// current simulated time in seconds: Step * Dt
	Time float32

	// number of steps taken since the last Reset.  Step i runs at time i * Dt.
	Step int

	// duration of one step, in seconds
	Dt float32 `def:"0.001"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.Dt = 0.001
}

// Reset resets the counters back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Step = 0
	if tm.Dt == 0 {
		tm.Defaults()
	}
}

// StepInc increments the step counter.  Time is computed from the
// counter rather than accumulated, so it does not drift over long runs.
func (tm *Time) StepInc() {
	tm.Step++
	tm.Time = float32(tm.Step) * tm.Dt
}

// NSteps returns the number of whole steps in given duration
func (tm *Time) NSteps(dur float32) int {
	return int(dur/tm.Dt + 0.5)
}
