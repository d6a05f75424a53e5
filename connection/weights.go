package connection

import (
	"github.com/notargets/DGTransfer/discretization"
	"github.com/notargets/DGTransfer/utils"
)

// scaledWeights computes quadrature weights that integrate over one
// batch's sub elements by a change of variables into the parent frame.
// grp is the child group whose elements the batch produces; its
// differentiation matrices applied to the batch coordinates give, per
// reference axis, the tangent of the parent frame position along that
// axis at every node. The wedge of the axis tangents is the volume
// scale of the sub element map, valid in any dimension without a square
// determinant formula, and it scales the group's native weights.
func scaledWeights(grp *discretization.ElementGroup, batch *Batch) (w utils.Vector) {
	var (
		dim = grp.Basis.Dim()
		Nq  = grp.Np
		RST = batch.RS.Transpose() // [Nq x dim]
		jac = make([]utils.Matrix, dim)
	)
	for iaxis := 0; iaxis < dim; iaxis++ {
		jac[iaxis] = grp.D[iaxis].Mul(RST)
	}
	w = utils.NewVector(Nq)
	tangents := make([][]float64, dim)
	for iaxis := range tangents {
		tangents[iaxis] = make([]float64, dim)
	}
	for q := 0; q < Nq; q++ {
		for iaxis := 0; iaxis < dim; iaxis++ {
			for d := 0; d < dim; d++ {
				tangents[iaxis][d] = jac[iaxis].At(q, d)
			}
		}
		w.DataP[q] = utils.WedgeDet(tangents...) * grp.W.DataP[q]
	}
	return
}
