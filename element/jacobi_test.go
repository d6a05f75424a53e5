package element

import (
	"fmt"
	"math"
	"testing"

	"github.com/notargets/DGTransfer/utils"

	"github.com/stretchr/testify/assert"
)

func TestJacobi1D(t *testing.T) {
	{ // Gauss Lobatto points, N=4 includes the endpoints and sqrt(3/7)
		X := JacobiGL(0, 0, 4)
		assert.True(t, nearVec([]float64{-1, -0.6546536707, 0, 0.6546536707, 1}, X.DataP, 0.0001))
	}
	{ // Gauss quadrature points and weights, N=2
		X, W := JacobiGQ(0, 0, 2)
		assert.True(t, nearVec([]float64{-0.7745966692, 0, 0.7745966692}, X.DataP, 0.0001))
		assert.True(t, nearVec([]float64{5. / 9., 8. / 9., 5. / 9.}, W.DataP, 0.0001))
		assert.True(t, near(2, W.Sum(), 1.e-10))
	}
	{ // Normalized Jacobi polynomials are orthonormal under Gauss quadrature
		N := 4
		X, W := JacobiGQ(0, 0, N)
		V := Vandermonde1D(N, X)
		M := V.Transpose().Mul(utils.NewDiagMatrix(W.Len(), W.DataP)).Mul(V)
		for i := 0; i < N+1; i++ {
			for j := 0; j < N+1; j++ {
				expect := 0.
				if i == j {
					expect = 1.
				}
				assert.True(t, near(expect, M.At(i, j), 1.e-08))
			}
		}
	}
	{ // Derivatives of the first modes have closed forms
		R := utils.NewVector(3, []float64{-0.5, 0, 0.5})
		d1 := GradJacobiP(R, 0, 0, 1)
		assert.True(t, nearVec([]float64{1.224744871, 1.224744871, 1.224744871}, d1, 0.0001))
		d2 := GradJacobiP(R, 0, 0, 2)
		// d/dr sqrt(5/2)*(3r^2-1)/2 = 3r*sqrt(5/2)
		assert.True(t, nearVec([]float64{-2.371708245, 0, 2.371708245}, d2, 0.0001))
	}
	{ // Moment fitted weights at Lobatto points recover the classic LGL weights
		N := 4
		jb := NewJacobiBasis1D(N)
		RS := NodeMatrix(JacobiGL(0, 0, N))
		W, err := NodalWeights(jb, RS)
		assert.NoError(t, err)
		assert.True(t, nearVec([]float64{0.1, 49. / 90., 32. / 45., 49. / 90., 0.1}, W.DataP, 1.e-08))
	}
	{ // Moment fitting refuses a non-orthonormal basis
		lb := NewLagrangeBasis1D(JacobiGL(0, 0, 2))
		_, err := NodalWeights(lb, NodeMatrix(lb.Nodes))
		assert.Error(t, err)
	}
}

func TestLagrangeBasis1D(t *testing.T) {
	var (
		R  = JacobiGL(0, 0, 3)
		lb = NewLagrangeBasis1D(R)
	)
	assert.Equal(t, 3, lb.Order())
	assert.Equal(t, 4, lb.Np())
	assert.False(t, lb.IsOrthonormal())
	{ // Cardinal property: identity at the definition points
		V := lb.Vandermonde(NodeMatrix(R))
		for i := 0; i < lb.Np(); i++ {
			for j := 0; j < lb.Np(); j++ {
				expect := 0.
				if i == j {
					expect = 1.
				}
				assert.True(t, near(expect, V.At(i, j), 1.e-08))
			}
		}
	}
	{ // Partition of unity away from the definition points
		RR := utils.NewVector(5).Linspace(-1, 1)
		V := lb.Vandermonde(NodeMatrix(RR))
		for i := 0; i < RR.Len(); i++ {
			var sum float64
			for j := 0; j < lb.Np(); j++ {
				sum += V.At(i, j)
			}
			assert.True(t, near(1, sum, 1.e-08))
		}
	}
	{ // Derivative of the interpolant of r^3 is 3r^2
		RR := utils.NewVector(3, []float64{-0.5, 0.25, 0.75})
		f := R.Copy().POW(3)
		Vd := lb.GradVandermonde(NodeMatrix(RR))[0]
		df := Vd.MulVec(f)
		for i, r := range RR.DataP {
			assert.True(t, near(3*r*r, df.AtVec(i), 1.e-08))
		}
	}
}

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
			fmt.Printf("Diff = %v, Left[%d] = %v, Right[%d] = %v\n", math.Abs(val-b[i]), i, val, i, b[i])
			return false
		}
	}
	return true
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
