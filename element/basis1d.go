package element

import (
	"github.com/notargets/DGTransfer/utils"
)

// JacobiBasis1D is the orthonormal Legendre basis of order P on the
// reference interval [-1,1]
type JacobiBasis1D struct {
	P int
}

func NewJacobiBasis1D(P int) (jb *JacobiBasis1D) {
	if P < 0 {
		panic("polynomial order must be non-negative")
	}
	return &JacobiBasis1D{P: P}
}

func (jb *JacobiBasis1D) Dim() int            { return 1 }
func (jb *JacobiBasis1D) Order() int          { return jb.P }
func (jb *JacobiBasis1D) Np() int             { return jb.P + 1 }
func (jb *JacobiBasis1D) IsOrthonormal() bool { return true }
func (jb *JacobiBasis1D) Name() string        { return "Jacobi1D" }

func (jb *JacobiBasis1D) Vandermonde(RS utils.Matrix) (V utils.Matrix) {
	V = Vandermonde1D(jb.P, RS.Row(0))
	return
}

func (jb *JacobiBasis1D) GradVandermonde(RS utils.Matrix) (Vd []utils.Matrix) {
	Vd = []utils.Matrix{GradVandermonde1D(jb.P, RS.Row(0))}
	return
}
