package element

import (
	"testing"

	"github.com/notargets/DGTransfer/utils"

	"github.com/stretchr/testify/assert"
)

func TestElements2D(t *testing.T) {
	{
		N := 1
		x, y := Nodes2D(N)
		assert.True(t, nearVec([]float64{-1, 1, 0}, x.Data(), 0.0001))
		assert.True(t, nearVec([]float64{-0.5774, -0.5774, 1.1547}, y.Data(), 0.0001))

		N = 2
		x, y = Nodes2D(N)
		assert.True(t, nearVec([]float64{-1, 0, 1, -.5, .5, 0}, x.Data(), 0.0001))
		assert.True(t, nearVec([]float64{-0.5774, -0.5774, -0.5774, 0.2887, 0.2887, 1.1547}, y.Data(), 0.0001))
		r, s := XYtoRS(Nodes2D(N))
		assert.True(t, nearVec([]float64{-1, 0, 1, -1, 0, -1}, r.Data(), 0.0001))
		assert.True(t, nearVec([]float64{-1, -1, -1, 0, 0, 1}, s.Data(), 0.0001))
		a, b := RStoAB(r, s)
		assert.True(t, nearVec([]float64{-1, 0, 1, -1, 1, -1}, a.Data(), 0.0001))
		assert.True(t, nearVec([]float64{-1, -1, -1, 0, 0, 1}, b.Data(), 0.0001))

		P := Simplex2DP(r, s, 0, 0)
		assert.True(t, nearVec([]float64{0.7071, 0.7071, 0.7071, 0.7071, 0.7071, 0.7071}, P, 0.0001))

		V := Vandermonde2D(N, r, s)
		assert.True(t, nearVec([]float64{
			0.7071, -1.0000, 1.2247, -1.7321, 2.1213, 2.7386,
			0.7071, -1.0000, 1.2247, 0, 0, -1.3693,
			0.7071, -1.0000, 1.2247, 1.7321, -2.1213, 2.7386,
			0.7071, 0.5000, -0.6124, -0.8660, -1.5910, 0.6847,
			0.7071, 0.5000, -0.6124, 0.8660, 1.5910, 0.6847,
			0.7071, 2.0000, 3.6742, 0, 0, 0,
		}, V.Data(), 0.0001))
	}
	{ // Reference differentiation built from the gradient Vandermonde is exact on linears
		N := 3
		r, s := XYtoRS(Nodes2D(N))
		V := Vandermonde2D(N, r, s)
		Vinv, err := V.Inverse()
		assert.NoError(t, err)
		Vr, Vs := GradVandermonde2D(N, r, s)
		Dr, Ds := Vr.Mul(Vinv), Vs.Mul(Vinv)
		f := utils.NewVector(r.Len())
		for i := range f.DataP {
			f.DataP[i] = 2 + r.DataP[i] - 3*s.DataP[i]
		}
		dfdr, dfds := Dr.MulVec(f), Ds.MulVec(f)
		for i := 0; i < f.Len(); i++ {
			assert.True(t, near(1, dfdr.AtVec(i), 1.e-08))
			assert.True(t, near(-3, dfds.AtVec(i), 1.e-08))
		}
	}
}

func TestCubature2D(t *testing.T) {
	for N := 0; N <= 2; N++ {
		R, S, W, err := CubatureNodes2D(N)
		assert.NoError(t, err)
		Np := (N + 1) * (N + 2) / 2
		assert.Equal(t, Np, R.Len())
		// Weights are positive and sum to the reference triangle area
		assert.True(t, W.Min() > 0)
		assert.True(t, near(2, W.Sum(), 1.e-12))
		// The point set is unisolvent and, because the rule is exact to
		// degree 2N, the nodal mass matrix of the orthonormal basis is
		// the identity
		jb := NewJacobiBasis2D(N)
		V := jb.Vandermonde(NodeMatrix(R, S))
		M := V.Transpose().Mul(utils.NewDiagMatrix(W.Len(), W.DataP)).Mul(V)
		for i := 0; i < Np; i++ {
			for j := 0; j < Np; j++ {
				expect := 0.
				if i == j {
					expect = 1.
				}
				assert.True(t, near(expect, M.At(i, j), 1.e-10))
			}
		}
	}
	{ // No tabulated rule above N=2
		_, _, _, err := CubatureNodes2D(3)
		assert.Error(t, err)
	}
}

func TestNodalWeights2D(t *testing.T) {
	// Moment fitted weights on warp & blend nodes integrate total measure
	// and first moments of the reference triangle exactly
	for N := 1; N <= 4; N++ {
		jb := NewJacobiBasis2D(N)
		r, s := XYtoRS(Nodes2D(N))
		W, err := NodalWeights(jb, NodeMatrix(r, s))
		assert.NoError(t, err)
		assert.True(t, near(2, W.Sum(), 1.e-08))
		var mr, ms float64
		for i, w := range W.DataP {
			mr += w * r.DataP[i]
			ms += w * s.DataP[i]
		}
		assert.True(t, near(-2./3., mr, 1.e-08))
		assert.True(t, near(-2./3., ms, 1.e-08))
	}
}
