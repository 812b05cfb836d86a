// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"fmt"

	"github.com/emer/nef/solvers"
	"github.com/emer/nef/synapse"
)

// Connection sends the value of a source Node or Ensemble into a
// destination Ensemble.  The value is passed through Func (if any),
// filtered by the Synapse, multiplied by the Transform, and added into
// the Post Input (or into the PostSlice dimensions of it).
//
// For an Ensemble source, Func is never evaluated during the run: instead
// decoders are fit at Build so that the neuron outputs decode directly
// to an estimate of Func of the represented value.
type Connection struct {

	// source of the connection
	Pre Object

	// destination ensemble
	Post *Ensemble

	// optional function of the source value
	Func VecFunc

	// output dimensionality of Func.  0 = same as Pre.SizeOut()
	FuncDims int

	// linear transform [postDims][FuncDims].  If nil, Scale times the identity is used,
	// which requires FuncDims to equal the number of destination dimensions.
	Transform [][]float32

	// scalar transform used when Transform is nil
	Scale float32 `def:"1"`

	// destination dimensions receiving the output, in order.  nil = all of Post.
	PostSlice []int

	// synapse filtering the transmitted value
	Synapse synapse.Params

	// decoder solver for an ensemble source.  nil = the source ensemble's Solver.
	Solver solvers.Solver

	// decoders for Func of the source ensemble value, [Pre.N][FuncDims], computed at Build
	Decoders [][]float32 `edit:"-"`

	// fit statistics for Decoders
	DecodeInfo solvers.Info `edit:"-"`

	// index in network Conns list
	Index int `edit:"-"`

	// value after Func, before filtering
	val []float32

	// synapse-filtered value
	filt []float32

	// transformed output, one per destination dimension
	out []float32

	// destination dimension indexes
	slice []int

	// full transform matrix
	xform [][]float32
}

func (cn *Connection) Name() string {
	return cn.Pre.Name() + "To" + cn.Post.Name()
}

func (cn *Connection) String() string {
	return fmt.Sprintf("Connection(%s -> %s)", cn.Pre.Name(), cn.Post.Name())
}

// Defaults sets the default synapse and unit scale
func (cn *Connection) Defaults() {
	cn.Scale = 1
	cn.Synapse.Defaults()
}

// SetFunc sets the function applied to the source value, with fdims output dimensions
func (cn *Connection) SetFunc(fdims int, fn VecFunc) *Connection {
	cn.FuncDims = fdims
	cn.Func = fn
	return cn
}

// SetTransform sets the full transform matrix, [postDims][funcDims]
func (cn *Connection) SetTransform(xform [][]float32) *Connection {
	cn.Transform = xform
	return cn
}

// SetScale sets a scalar transform
func (cn *Connection) SetScale(k float32) *Connection {
	cn.Transform = nil
	cn.Scale = k
	return cn
}

// SetSlice restricts the destination to the given dimensions of Post
func (cn *Connection) SetSlice(dims ...int) *Connection {
	cn.PostSlice = dims
	return cn
}

// SetSynapse sets the synapse time constant, 0 for none
func (cn *Connection) SetSynapse(tau float32) *Connection {
	cn.Synapse.Tau = tau
	return cn
}

// PreDims returns the size of the source value
func (cn *Connection) PreDims() int {
	return cn.Pre.SizeOut()
}

// FuncSize returns the size of the value after Func
func (cn *Connection) FuncSize() int {
	if cn.Func == nil || cn.FuncDims == 0 {
		return cn.PreDims()
	}
	return cn.FuncDims
}

// PostDims returns the number of destination dimensions written
func (cn *Connection) PostDims() int {
	if cn.PostSlice != nil {
		return len(cn.PostSlice)
	}
	return cn.Post.Dims
}

// Validate checks that the dimensions of Func, Transform and the
// destination all agree
func (cn *Connection) Validate() error {
	if cn.Pre == nil || cn.Post == nil {
		return fmt.Errorf("%w: connection needs both Pre and Post", ErrBadParam)
	}
	switch cn.Pre.(type) {
	case *Node, *Ensemble:
	default:
		return fmt.Errorf("%w: %v: unsupported source type %T", ErrBadParam, cn, cn.Pre)
	}
	if err := cn.Synapse.Validate(); err != nil {
		return fmt.Errorf("%w: %v: %v", ErrBadParam, cn, err)
	}
	if cn.Func == nil && cn.FuncDims != 0 && cn.FuncDims != cn.PreDims() {
		return fmt.Errorf("%w: %v: FuncDims %d without Func must equal source dims %d", ErrDims, cn, cn.FuncDims, cn.PreDims())
	}
	if cn.FuncDims < 0 {
		return fmt.Errorf("%w: %v: negative FuncDims %d", ErrDims, cn, cn.FuncDims)
	}
	seen := make(map[int]bool, len(cn.PostSlice))
	for _, d := range cn.PostSlice {
		if d < 0 || d >= cn.Post.Dims {
			return fmt.Errorf("%w: %v: slice index %d out of range for %d dims", ErrDims, cn, d, cn.Post.Dims)
		}
		if seen[d] {
			return fmt.Errorf("%w: %v: slice index %d repeated", ErrDims, cn, d)
		}
		seen[d] = true
	}
	if cn.PostSlice != nil && len(cn.PostSlice) == 0 {
		return fmt.Errorf("%w: %v: empty destination slice", ErrDims, cn)
	}
	fd := cn.FuncSize()
	pd := cn.PostDims()
	if cn.Transform == nil {
		if fd != pd {
			return fmt.Errorf("%w: %v: function output %d dims does not match destination %d dims", ErrDims, cn, fd, pd)
		}
		return nil
	}
	if len(cn.Transform) != pd {
		return fmt.Errorf("%w: %v: transform has %d rows, destination has %d dims", ErrDims, cn, len(cn.Transform), pd)
	}
	for r, row := range cn.Transform {
		if len(row) != fd {
			return fmt.Errorf("%w: %v: transform row %d has %d cols, function output has %d dims", ErrDims, cn, r, len(row), fd)
		}
	}
	return nil
}

// Build validates, solves decoders for an ensemble source, and allocates state
func (cn *Connection) Build(dt float32) error {
	if err := cn.Validate(); err != nil {
		return err
	}
	cn.Synapse.Update(dt)
	fd := cn.FuncSize()
	pd := cn.PostDims()

	cn.slice = make([]int, pd)
	for i := range cn.slice {
		if cn.PostSlice != nil {
			cn.slice[i] = cn.PostSlice[i]
		} else {
			cn.slice[i] = i
		}
	}
	cn.xform = make([][]float32, pd)
	for r := range cn.xform {
		cn.xform[r] = make([]float32, fd)
		if cn.Transform != nil {
			copy(cn.xform[r], cn.Transform[r])
		} else {
			cn.xform[r][r] = cn.Scale
		}
	}

	cn.Decoders = nil
	if pre, ok := cn.Pre.(*Ensemble); ok {
		dec, info, err := pre.SolveDecoders(cn.Func, fd, cn.Solver)
		if err != nil {
			return fmt.Errorf("%v: %w", cn, err)
		}
		cn.Decoders = dec
		cn.DecodeInfo = info
	}
	cn.val = make([]float32, fd)
	cn.filt = make([]float32, fd)
	cn.out = make([]float32, pd)
	return nil
}

// Init clears the synapse state
func (cn *Connection) Init() {
	for i := range cn.filt {
		cn.filt[i] = 0
		cn.val[i] = 0
	}
	for i := range cn.out {
		cn.out[i] = 0
	}
}

// Send computes the connection output from the current source value and
// adds it into the destination Input
func (cn *Connection) Send() {
	switch pre := cn.Pre.(type) {
	case *Node:
		if cn.Func != nil {
			cn.Func.Eval(pre.Value, cn.val)
		} else {
			copy(cn.val, pre.Value)
		}
	case *Ensemble:
		pre.Decode(cn.Decoders, cn.val)
	}
	cn.Synapse.FilterVec(cn.filt, cn.val)
	for r, row := range cn.xform {
		var s float32
		for c, w := range row {
			s += w * cn.filt[c]
		}
		cn.out[r] = s
		cn.Post.Input[cn.slice[r]] += s
	}
}

// Output returns the transformed output sent on the last step.
// The slice is owned by the connection.
func (cn *Connection) Output() []float32 {
	return cn.out
}
