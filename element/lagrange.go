package element

import (
	"fmt"

	"github.com/notargets/DGTransfer/utils"
)

// LagrangeBasis1D is the nodal Lagrange basis defined by a set of P+1
// interpolation points on [-1,1]. Each basis polynomial is one at its own
// node and zero at the others. The basis is interpolatory, not
// orthonormal, so it cannot serve as a projection target; tabulation at
// arbitrary points goes through the modal Legendre basis, which has a
// closed form, using V(R) * Inverse(V(Nodes)).
type LagrangeBasis1D struct {
	P     int
	Nodes utils.Vector // definition points, read-only
	VmInv utils.Matrix // inverse modal Vandermonde at the definition points
}

func NewLagrangeBasis1D(R utils.Vector) (lb *LagrangeBasis1D) {
	var (
		P     = R.Len() - 1
		nodes = R.Copy()
	)
	if P < 0 {
		panic("a Lagrange basis needs at least one definition point")
	}
	lb = &LagrangeBasis1D{
		P:     P,
		Nodes: nodes.SetReadOnly("LagrangeBasis1D.Nodes"),
	}
	VmInv, err := Vandermonde1D(P, lb.Nodes).Inverse()
	if err != nil {
		panic(fmt.Errorf("lagrange definition points are not unisolvent: %v", err))
	}
	lb.VmInv = VmInv.SetReadOnly("LagrangeBasis1D.VmInv")
	return
}

func (lb *LagrangeBasis1D) Dim() int            { return 1 }
func (lb *LagrangeBasis1D) Order() int          { return lb.P }
func (lb *LagrangeBasis1D) Np() int             { return lb.P + 1 }
func (lb *LagrangeBasis1D) IsOrthonormal() bool { return false }
func (lb *LagrangeBasis1D) Name() string        { return "Lagrange1D" }

func (lb *LagrangeBasis1D) Vandermonde(RS utils.Matrix) (V utils.Matrix) {
	V = Vandermonde1D(lb.P, RS.Row(0)).Mul(lb.VmInv)
	return
}

func (lb *LagrangeBasis1D) GradVandermonde(RS utils.Matrix) (Vd []utils.Matrix) {
	Vd = []utils.Matrix{GradVandermonde1D(lb.P, RS.Row(0)).Mul(lb.VmInv)}
	return
}
