package discretization

import (
	"fmt"

	"github.com/notargets/DGTransfer/element"
	"github.com/notargets/DGTransfer/utils"
)

// ElementGroup is a batch of K elements sharing one reference element
// structure: a polynomial basis, a unit node set with exactly as many
// nodes as basis polynomials, and reference quadrature weights for those
// nodes. Per-element data lives elsewhere; the group holds only the
// shared reference quantities, all frozen at construction.
type ElementGroup struct {
	K        int    // number of elements
	N        int    // polynomial order
	Np       int    // nodes (and basis polynomials) per element
	NodeType string // node family tag, part of the group's structural identity
	Basis    element.Basis
	RS       utils.Matrix   // unit nodes, one coordinate axis per row
	W        utils.Vector   // reference quadrature weights
	V, Vinv  utils.Matrix   // nodal Vandermonde at RS and its inverse
	D        []utils.Matrix // reference differentiation matrices, one per axis
}

func NewElementGroup(K int, b element.Basis, RS utils.Matrix, W utils.Vector, nodeType string) (eg *ElementGroup, err error) {
	var (
		dim, Nc = RS.Dims()
	)
	if K < 1 {
		return nil, fmt.Errorf("element group needs at least one element, have %d", K)
	}
	if dim != b.Dim() {
		return nil, fmt.Errorf("unit nodes are %dD, basis %s is %dD", dim, b.Name(), b.Dim())
	}
	if Nc != b.Np() {
		return nil, fmt.Errorf("have %d unit nodes, basis %s needs %d", Nc, b.Name(), b.Np())
	}
	if W.Len() != Nc {
		return nil, fmt.Errorf("have %d weights for %d unit nodes", W.Len(), Nc)
	}
	eg = &ElementGroup{
		K:        K,
		N:        b.Order(),
		Np:       Nc,
		NodeType: nodeType,
		Basis:    b,
	}
	rs := RS.Copy()
	eg.RS = rs.SetReadOnly("RS")
	w := W.Copy()
	eg.W = w.SetReadOnly("W")

	V := b.Vandermonde(eg.RS)
	Vinv, err := V.Inverse()
	if err != nil {
		return nil, fmt.Errorf("unit nodes are not unisolvent for basis %s: %v", b.Name(), err)
	}
	eg.V = V.SetReadOnly("V")
	eg.Vinv = Vinv.SetReadOnly("Vinv")

	Vd := b.GradVandermonde(eg.RS)
	eg.D = make([]utils.Matrix, dim)
	for i := range Vd {
		D := Vd[i].Mul(eg.Vinv)
		eg.D[i] = D.SetReadOnly(fmt.Sprintf("D[%d]", i))
	}
	return eg, nil
}

// GroupKey is the structural identity of a group's reference element,
// used to share memoized per-structure data across groups. Element count
// is deliberately excluded: two groups with the same basis and node
// family are structurally interchangeable regardless of size.
type GroupKey struct {
	Dim, N, Np int
	Basis      string
	NodeType   string
}

func (eg *ElementGroup) Key() GroupKey {
	return GroupKey{
		Dim:      eg.Basis.Dim(),
		N:        eg.N,
		Np:       eg.Np,
		Basis:    eg.Basis.Name(),
		NodeType: eg.NodeType,
	}
}

// Discretization is an ordered collection of element groups of one
// spatial dimension
type Discretization struct {
	Dim    int
	Groups []*ElementGroup
}

func NewDiscretization(groups ...*ElementGroup) (d *Discretization, err error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("a discretization needs at least one element group")
	}
	dim := groups[0].Basis.Dim()
	for i, g := range groups {
		if g.Basis.Dim() != dim {
			return nil, fmt.Errorf("group %d is %dD, discretization is %dD", i, g.Basis.Dim(), dim)
		}
	}
	return &Discretization{Dim: dim, Groups: groups}, nil
}

// NNodes is the total degree of freedom count over all groups
func (d *Discretization) NNodes() (n int) {
	for _, g := range d.Groups {
		n += g.K * g.Np
	}
	return
}

// GroupOffsets returns per-group offsets into the flattened DOF layout
// (group major, element major, node minor), with one extra trailing
// entry holding the total count
func (d *Discretization) GroupOffsets() (offsets utils.Index) {
	offsets = make(utils.Index, len(d.Groups)+1)
	for i, g := range d.Groups {
		offsets[i+1] = offsets[i] + g.K*g.Np
	}
	return
}

// Refine returns a discretization with identical reference structure and
// 2^Dim times the elements in each group, matching the element layout
// produced by uniform subdivision
func (d *Discretization) Refine() (r *Discretization, err error) {
	var (
		factor = 1 << d.Dim
		groups = make([]*ElementGroup, len(d.Groups))
	)
	for i, g := range d.Groups {
		if groups[i], err = NewElementGroup(g.K*factor, g.Basis, g.RS, g.W, g.NodeType); err != nil {
			return nil, err
		}
	}
	return NewDiscretization(groups...)
}

// NewGaussGroup1D builds a 1D group on Gauss Legendre nodes, whose
// weights integrate polynomials to degree 2N+1
func NewGaussGroup1D(N, K int) (*ElementGroup, error) {
	X, W := element.JacobiGQ(0, 0, N)
	return NewElementGroup(K, element.NewJacobiBasis1D(N), element.NodeMatrix(X), W, "Gauss")
}

// NewLobattoGroup1D builds a 1D group on Gauss Lobatto nodes with moment
// fitted weights, the classic LGL rule, exact to degree 2N-1
func NewLobattoGroup1D(N, K int) (*ElementGroup, error) {
	if N < 1 {
		return nil, fmt.Errorf("Lobatto nodes need order 1 or higher, have %d", N)
	}
	b := element.NewJacobiBasis1D(N)
	RS := element.NodeMatrix(element.JacobiGL(0, 0, N))
	W, err := element.NodalWeights(b, RS)
	if err != nil {
		return nil, err
	}
	return NewElementGroup(K, b, RS, W, "Lobatto")
}

// NewWarpBlendGroup2D builds a triangle group on warp & blend
// interpolation nodes with moment fitted weights, exact to degree N
func NewWarpBlendGroup2D(N, K int) (*ElementGroup, error) {
	if N < 1 {
		return nil, fmt.Errorf("warp & blend nodes need order 1 or higher, have %d", N)
	}
	b := element.NewJacobiBasis2D(N)
	r, s := element.XYtoRS(element.Nodes2D(N))
	RS := element.NodeMatrix(r, s)
	W, err := element.NodalWeights(b, RS)
	if err != nil {
		return nil, err
	}
	return NewElementGroup(K, b, RS, W, "WarpBlend")
}

// NewCubatureGroup2D builds a triangle group on symmetric cubature nodes
// exact to degree 2N, available for N through 2
func NewCubatureGroup2D(N, K int) (*ElementGroup, error) {
	R, S, W, err := element.CubatureNodes2D(N)
	if err != nil {
		return nil, err
	}
	return NewElementGroup(K, element.NewJacobiBasis2D(N), element.NodeMatrix(R, S), W, "Cubature")
}
