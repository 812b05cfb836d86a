// Copyright (c) 2026, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nef

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
)

var (
	// ErrBadParam is returned for invalid object configuration
	ErrBadParam = errors.New("nef: invalid parameter")

	// ErrDims is returned when connected dimensions do not agree
	ErrDims = errors.New("nef: dimension mismatch")

	// ErrFinished is returned when stepping a simulator whose run has finished
	ErrFinished = errors.New("nef: simulation finished")
)

// nef.Network owns all of the nodes, ensembles, connections and probes
// of one model.  Objects are added with the Add* and Connect methods,
// configured by setting their fields, and then built all at once by Build.
type Network struct {

	// name of the network
	Nm string

	// random seed for all random choices made at Build: encoders,
	// gains and biases, evaluation points and initial voltages
	Seed int64

	// stimulus nodes
	Nodes []*Node

	// neuron populations
	Ensembles []*Ensemble

	// connections, sent in the order added
	Conns []*Connection

	// probes, recorded in the order added
	Probes []*Probe

	// true after a successful Build
	Built bool `edit:"-"`

	// time step the network was built for
	Dt float32 `edit:"-"`
}

// NewNetwork returns a new empty network
func NewNetwork(name string) *Network {
	return &Network{Nm: name}
}

func (nt *Network) Name() string { return nt.Nm }

// AddNode adds a stimulus node of given size, computing its output from fn
func (nt *Network) AddNode(name string, size int, fn TimeFunc) *Node {
	nd := &Node{Nm: name, Size: size, Output: fn, Index: len(nt.Nodes)}
	nt.Nodes = append(nt.Nodes, nd)
	nt.Built = false
	return nd
}

// AddConstNode adds a node with a constant output
func (nt *Network) AddConstNode(name string, vals ...float32) *Node {
	return nt.AddNode(name, len(vals), Const(vals...))
}

// AddEnsemble adds an ensemble of n neurons representing dims dimensions,
// with default parameters
func (nt *Network) AddEnsemble(name string, n, dims int) *Ensemble {
	en := &Ensemble{Nm: name, N: n, Dims: dims, Index: len(nt.Ensembles)}
	en.Defaults()
	nt.Ensembles = append(nt.Ensembles, en)
	nt.Built = false
	return en
}

// Connect adds a connection from pre (a Node or Ensemble) to post,
// with a default synapse and identity transform
func (nt *Network) Connect(pre Object, post *Ensemble) *Connection {
	cn := &Connection{Pre: pre, Post: post, Index: len(nt.Conns)}
	cn.Defaults()
	nt.Conns = append(nt.Conns, cn)
	nt.Built = false
	return cn
}

// AddProbe adds a probe recording attr of obj, unfiltered
func (nt *Network) AddProbe(obj Object, attr ProbeAttrs) *Probe {
	pr := &Probe{Obj: obj, Attr: attr, Index: len(nt.Probes)}
	nt.Probes = append(nt.Probes, pr)
	nt.Built = false
	return pr
}

// AddFiltProbe adds a probe recording attr of obj through a synapse with
// time constant tau
func (nt *Network) AddFiltProbe(obj Object, attr ProbeAttrs, tau float32) *Probe {
	pr := nt.AddProbe(obj, attr)
	pr.Synapse.Tau = tau
	return pr
}

// EnsembleByName returns the ensemble of given name, or an error
func (nt *Network) EnsembleByName(name string) (*Ensemble, error) {
	for _, en := range nt.Ensembles {
		if en.Nm == name {
			return en, nil
		}
	}
	return nil, fmt.Errorf("nef: ensemble named: %s not found in network: %s", name, nt.Nm)
}

// NodeByName returns the node of given name, or an error
func (nt *Network) NodeByName(name string) (*Node, error) {
	for _, nd := range nt.Nodes {
		if nd.Nm == name {
			return nd, nil
		}
	}
	return nil, fmt.Errorf("nef: node named: %s not found in network: %s", name, nt.Nm)
}

// owns returns true if obj was added to this network
func (nt *Network) owns(obj Object) bool {
	switch o := obj.(type) {
	case *Node:
		return o.Index < len(nt.Nodes) && nt.Nodes[o.Index] == o
	case *Ensemble:
		return o.Index < len(nt.Ensembles) && nt.Ensembles[o.Index] == o
	}
	return false
}

// Build validates the whole network and computes everything needed to run
// it with time step dt: ensemble encoders, gains and biases, all decoders,
// and all state.  Any configuration error is returned, and the network is
// left unbuilt.
func (nt *Network) Build(dt float32) error {
	nt.Built = false
	if !(dt > 0) {
		return fmt.Errorf("%w: dt must be > 0, got %g", ErrBadParam, dt)
	}
	names := make(map[string]bool)
	for i, nd := range nt.Nodes {
		nd.Index = i
		if names[nd.Nm] {
			return fmt.Errorf("%w: duplicate object name: %s", ErrBadParam, nd.Nm)
		}
		names[nd.Nm] = true
		if err := nd.Build(); err != nil {
			return err
		}
	}
	rnd := rand.New(rand.NewSource(nt.Seed))
	for i, en := range nt.Ensembles {
		en.Index = i
		if names[en.Nm] {
			return fmt.Errorf("%w: duplicate object name: %s", ErrBadParam, en.Nm)
		}
		names[en.Nm] = true
		// each ensemble gets its own stream so that adding an ensemble
		// does not change the ones before it
		ernd := rand.New(rand.NewSource(rnd.Int63()))
		if err := en.Build(ernd); err != nil {
			return err
		}
	}
	for i, cn := range nt.Conns {
		cn.Index = i
		if cn.Pre != nil && !nt.owns(cn.Pre) || cn.Post != nil && !nt.owns(cn.Post) {
			return fmt.Errorf("%w: %v: endpoint is not in network %s", ErrBadParam, cn, nt.Nm)
		}
		if err := cn.Build(dt); err != nil {
			return err
		}
	}
	for i, pr := range nt.Probes {
		pr.Index = i
		if pr.Obj != nil && !nt.owns(pr.Obj) {
			return fmt.Errorf("%w: %v: object is not in network %s", ErrBadParam, pr, nt.Nm)
		}
		if err := pr.Build(dt); err != nil {
			return err
		}
	}
	nt.Dt = dt
	nt.Built = true
	return nil
}

// BuildLog calls Build, logging and returning any error
func (nt *Network) BuildLog(dt float32) error {
	err := nt.Build(dt)
	if err != nil {
		log.Println(err)
	}
	return err
}

// Init resets all state for the start of a run, keeping the built parameters
func (nt *Network) Init() {
	for _, nd := range nt.Nodes {
		nd.Init()
	}
	for _, en := range nt.Ensembles {
		en.Init()
	}
	for _, cn := range nt.Conns {
		cn.Init()
	}
	for _, pr := range nt.Probes {
		pr.Init()
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Misc Reports

// SizeReport returns a string reporting the size of each ensemble,
// connection and probe in the network, and total memory footprint.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	neur := 0
	neurMem := 0
	decMem := 0
	for _, en := range nt.Ensembles {
		nmem := en.N*int(unsafe.Sizeof(Neuron{})) + 4*en.N*(2+2*en.Dims)
		dmem := 4 * en.N * en.Dims
		neur += en.N
		neurMem += nmem
		decMem += dmem
		fmt.Fprintf(&b, "%14s:\t Neurons: %d\t Dims: %d\t NeurMem: %v \t DecMem: %v\n", en.Nm, en.N, en.Dims, (datasize.ByteSize)(nmem).HumanReadable(), (datasize.ByteSize)(dmem).HumanReadable())
	}
	for _, cn := range nt.Conns {
		cmem := 0
		for _, d := range cn.Decoders {
			cmem += 4 * len(d)
		}
		decMem += cmem
		fmt.Fprintf(&b, "%14s:\t Decoders: %d\t DecMem: %v\n", cn.Name(), len(cn.Decoders), (datasize.ByteSize)(cmem).HumanReadable())
	}
	prbMem := 0
	for _, pr := range nt.Probes {
		pmem := 4 * len(pr.Times)
		for _, row := range pr.Data {
			pmem += 4 * len(row)
		}
		prbMem += pmem
		fmt.Fprintf(&b, "%14s:\t Samples: %d\t ProbeMem: %v\n", pr.Name(), pr.Len(), (datasize.ByteSize)(pmem).HumanReadable())
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t NeurMem: %v \t DecMem: %v \t ProbeMem: %v\n", nt.Nm, neur, (datasize.ByteSize)(neurMem).HumanReadable(), (datasize.ByteSize)(decMem).HumanReadable(), (datasize.ByteSize)(prbMem).HumanReadable())
	return b.String()
}
