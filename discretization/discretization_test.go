package discretization

import (
	"math"
	"testing"

	"github.com/notargets/DGTransfer/element"
	"github.com/notargets/DGTransfer/utils"

	"github.com/stretchr/testify/assert"
)

func TestElementGroup(t *testing.T) {
	{ // Gauss group carries consistent reference operators
		eg, err := NewGaussGroup1D(3, 10)
		assert.NoError(t, err)
		assert.Equal(t, 10, eg.K)
		assert.Equal(t, 3, eg.N)
		assert.Equal(t, 4, eg.Np)
		// V Vinv = I
		I := eg.V.Mul(eg.Vinv)
		for i := 0; i < eg.Np; i++ {
			for j := 0; j < eg.Np; j++ {
				expect := 0.
				if i == j {
					expect = 1.
				}
				assert.True(t, near(expect, I.At(i, j), 1.e-10))
			}
		}
		// Differentiation is exact on linears
		df := eg.D[0].MulVec(eg.RS.Row(0))
		for i := 0; i < eg.Np; i++ {
			assert.True(t, near(1, df.AtVec(i), 1.e-10))
		}
	}
	{ // Construction validates node and weight counts against the basis
		b := element.NewJacobiBasis1D(2)
		RS := element.NodeMatrix(element.JacobiGL(0, 0, 2))
		_, err := NewElementGroup(4, b, RS, utils.NewVector(2), "bad")
		assert.Error(t, err)
		badRS := element.NodeMatrix(element.JacobiGL(0, 0, 3))
		_, err = NewElementGroup(4, b, badRS, utils.NewVector(4), "bad")
		assert.Error(t, err)
		_, err = NewElementGroup(0, b, RS, utils.NewVector(3), "bad")
		assert.Error(t, err)
	}
	{ // Structural identity ignores element count but not node family
		g1, _ := NewGaussGroup1D(2, 5)
		g2, _ := NewGaussGroup1D(2, 500)
		g3, _ := NewLobattoGroup1D(2, 5)
		assert.Equal(t, g1.Key(), g2.Key())
		assert.NotEqual(t, g1.Key(), g3.Key())
	}
	{ // Reference data is frozen after construction
		eg, _ := NewCubatureGroup2D(2, 3)
		assert.Panics(t, func() { eg.RS.Set(0, 0, 0) })
		assert.Panics(t, func() { eg.V.Set(0, 0, 0) })
	}
}

func TestDiscretization(t *testing.T) {
	{ // Groups of mixed dimension are rejected
		g1, _ := NewGaussGroup1D(2, 5)
		g2, _ := NewWarpBlendGroup2D(2, 5)
		_, err := NewDiscretization(g1, g2)
		assert.Error(t, err)
		_, err = NewDiscretization()
		assert.Error(t, err)
	}
	{ // DOF bookkeeping over multiple groups
		g1, _ := NewGaussGroup1D(1, 4) // 4*2 dofs
		g2, _ := NewGaussGroup1D(3, 2) // 2*4 dofs
		d, err := NewDiscretization(g1, g2)
		assert.NoError(t, err)
		assert.Equal(t, 16, d.NNodes())
		assert.Equal(t, utils.Index{0, 8, 16}, d.GroupOffsets())
	}
	{ // Refinement preserves reference structure and scales element count
		g, _ := NewWarpBlendGroup2D(3, 6)
		d, _ := NewDiscretization(g)
		r, err := d.Refine()
		assert.NoError(t, err)
		assert.Equal(t, 24, r.Groups[0].K)
		assert.Equal(t, g.Key(), r.Groups[0].Key())

		g1, _ := NewGaussGroup1D(2, 7)
		d1, _ := NewDiscretization(g1)
		r1, _ := d1.Refine()
		assert.Equal(t, 14, r1.Groups[0].K)
	}
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
