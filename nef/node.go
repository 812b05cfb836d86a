// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import "fmt"

// Object is anything that can be the source of a Connection or the target
// of a decoded-value Probe: a Node or an Ensemble.
type Object interface {

	// Name returns the name of the object
	Name() string

	// SizeOut returns the dimensionality of the value the object provides
	SizeOut() int
}

// Node is a stimulus that produces a vector as a function of time
type Node struct {

	// name of node, must be unique within network
	Nm string

	// size of the output vector
	Size int

	// function producing the output; nil gives zeros
	Output TimeFunc

	// output value at the current step
	Value []float32 `edit:"-"`

	// index in network Nodes list
	Index int `edit:"-"`
}

func (nd *Node) Name() string { return nd.Nm }
func (nd *Node) SizeOut() int { return nd.Size }
func (nd *Node) String() string { return fmt.Sprintf("Node(%s, %d)", nd.Nm, nd.Size) }

// Build allocates the output value
func (nd *Node) Build() error {
	if nd.Size <= 0 {
		return fmt.Errorf("%w: node %s: Size must be > 0, got %d", ErrBadParam, nd.Nm, nd.Size)
	}
	nd.Value = make([]float32, nd.Size)
	return nil
}

// Init zeros the output
func (nd *Node) Init() {
	for i := range nd.Value {
		nd.Value[i] = 0
	}
}

// Eval computes the output at time t
func (nd *Node) Eval(t float32) {
	if nd.Output == nil {
		return
	}
	nd.Output.Eval(t, nd.Value)
}
