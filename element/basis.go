package element

import (
	"fmt"
	"math"

	"github.com/notargets/DGTransfer/utils"
)

// Basis is the reference element polynomial basis used by discretization
// groups. A basis carries no nodal structure of its own: interpolation
// points and quadrature weights are layered on by the group that owns it,
// which is what lets one basis be tabulated at another group's nodes.
type Basis interface {
	Dim() int
	Order() int
	Np() int
	// IsOrthonormal reports whether the basis is orthonormal under the
	// reference element inner product, so that projected inner products
	// can be used directly as modal coefficients.
	IsOrthonormal() bool
	// Name identifies the basis family for structural cache keys
	Name() string
	// Vandermonde tabulates all Np basis polynomials at the nodes RS,
	// given one coordinate axis per row of RS and one node per column.
	// The result has one row per node and one column per polynomial.
	Vandermonde(RS utils.Matrix) (V utils.Matrix)
	// GradVandermonde tabulates the reference coordinate gradient of the
	// basis at RS, one matrix per coordinate axis
	GradVandermonde(RS utils.Matrix) (Vd []utils.Matrix)
}

// NodeMatrix packs per-axis coordinate vectors into the [dim x Nc] node
// layout used by Basis and the discretization layer
func NodeMatrix(axes ...utils.Vector) (RS utils.Matrix) {
	var (
		dim = len(axes)
		Nc  = axes[0].Len()
	)
	RS = utils.NewMatrix(dim, Nc)
	for i, axis := range axes {
		if axis.Len() != Nc {
			panic(fmt.Errorf("coordinate axis %d has %d nodes, expected %d", i, axis.Len(), Nc))
		}
		RS.SetRow(i, axis.DataP)
	}
	return
}

// NodalWeights moment fits quadrature weights to the node set RS by
// solving Transpose(V) W = M, where M holds the exact integrals of the
// basis polynomials over the reference element. For an orthonormal basis
// only the constant mode has a nonzero moment, equal to Sqrt(measure) of
// the reference element, which is 2 for both the interval and the
// triangle used here. The resulting weights integrate polynomials through
// the basis order exactly.
func NodalWeights(b Basis, RS utils.Matrix) (W utils.Vector, err error) {
	var (
		_, Nc = RS.Dims()
	)
	if !b.IsOrthonormal() {
		err = fmt.Errorf("moment fitting needs an orthonormal basis, have %s", b.Name())
		return
	}
	if Nc != b.Np() {
		err = fmt.Errorf("moment fitting needs %d nodes for basis %s, have %d", b.Np(), b.Name(), Nc)
		return
	}
	M := utils.NewMatrix(b.Np(), 1)
	M.Set(0, 0, math.Sqrt(2))
	X := b.Vandermonde(RS).Transpose().LUSolve(M)
	W = X.Col(0)
	return
}
