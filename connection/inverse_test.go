package connection

import (
	"testing"

	"github.com/notargets/DGTransfer/discretization"
	"github.com/notargets/DGTransfer/element"
	"github.com/notargets/DGTransfer/runner"

	"github.com/stretchr/testify/assert"
)

func TestL2ProjectionInverse(t *testing.T) {
	ctx := runner.NewContext(2)
	{ // Refinement round trip in 1D: project the children back onto the parent
		N, K := 4, 3
		parent := gaussDiscr1D(t, N, K)
		child := refineDiscr(t, parent)
		poly := func(k int, r float64) float64 {
			return r*r*r*r - 2*r*r + 0.5*r + float64(k)
		}
		u := field1D(ctx, parent, poly)
		fwd, _ := NewRefinementConnection(parent, child)
		inv, err := NewInverse(ForwardDirect(fwd), false)
		assert.NoError(t, err)
		assert.Equal(t, child, inv.FromDiscr())
		assert.Equal(t, parent, inv.ToDiscr())

		v := applyDOF(t, fwd, u)
		back := applyDOF(t, inv, v)
		assert.True(t, nearVec(u.Data[0].DataP, back.Data[0].DataP, 1.e-12))
	}
	{ // Same mesh round trip: Lobatto nodes out to Gauss nodes and back
		N, K := 4, 3
		parent := lobattoDiscr1D(t, N, K)
		child := gaussDiscr1D(t, N, K)
		poly := func(k int, r float64) float64 { return r*r*r*r + r - float64(k) }
		u := field1D(ctx, parent, poly)
		fwd, _ := NewSameMeshConnection(parent, child)
		inv, err := NewInverse(ForwardDirect(fwd), true)
		assert.NoError(t, err)
		assert.True(t, inv.IsSurjective())

		back := applyDOF(t, inv, applyDOF(t, fwd, u))
		assert.True(t, nearVec(u.Data[0].DataP, back.Data[0].DataP, 1.e-12))
	}
	{ // Order enrichment: project a low order field out of a richer space
		K := 2
		parent := gaussDiscr1D(t, 2, K)
		child := gaussDiscr1D(t, 4, K)
		poly := func(k int, r float64) float64 { return 3*r*r - r + float64(k) }
		u := field1D(ctx, parent, poly)
		fwd, _ := NewSameMeshConnection(parent, child)
		inv, err := NewInverse(ForwardDirect(fwd), false)
		assert.NoError(t, err)

		back := applyDOF(t, inv, applyDOF(t, fwd, u))
		assert.True(t, nearVec(u.Data[0].DataP, back.Data[0].DataP, 1.e-12))
	}
	{ // 2D refinement round trip on a full quadratic over cubature nodes
		N, K := 2, 2
		parent := cubatureDiscr2D(t, N, K)
		child := refineDiscr(t, parent)
		quad := func(k int, r, s float64) float64 {
			return 1 + 2*r - s + r*r + r*s - 2*s*s + float64(k)
		}
		u := field2D(ctx, parent, quad)
		fwd, _ := NewRefinementConnection(parent, child)
		inv, err := NewInverse(ForwardDirect(fwd), false)
		assert.NoError(t, err)

		back := applyDOF(t, inv, applyDOF(t, fwd, u))
		assert.True(t, nearVec(u.Data[0].DataP, back.Data[0].DataP, 1.e-12))
	}
	{ // Constant fields survive refinement and projection exactly even with
		// moment fitted interpolation node weights
		N, K := 3, 2
		parent := warpBlendDiscr2D(t, N, K)
		child := refineDiscr(t, parent)
		u := field2D(ctx, parent, func(k int, r, s float64) float64 { return 3.5 })
		fwd, _ := NewRefinementConnection(parent, child)
		inv, err := NewInverse(ForwardDirect(fwd), false)
		assert.NoError(t, err)

		back := applyDOF(t, inv, applyDOF(t, fwd, u))
		assert.True(t, nearVec(u.Data[0].DataP, back.Data[0].DataP, 1.e-12))
	}
	{ // Repeated application reuses every cached weight and matrix
		ctx2 := runner.NewContext(1)
		N, K := 3, 2
		parent := gaussDiscr1D(t, N, K)
		child := refineDiscr(t, parent)
		u := field1D(ctx2, parent, func(k int, r float64) float64 { return r * r })
		fwd, _ := NewRefinementConnection(parent, child)
		inv, _ := NewInverse(ForwardDirect(fwd), false)

		back := applyDOF(t, inv, applyDOF(t, fwd, u))
		nw, nm, nv := ctx2.Stats()
		assert.Equal(t, 2, nw) // one weight vector per child batch
		assert.Equal(t, 4, nm) // two interpolation matrices, two tabulations
		assert.Equal(t, 1, nv)

		back2 := applyDOF(t, inv, applyDOF(t, fwd, u))
		nw2, nm2, nv2 := ctx2.Stats()
		assert.Equal(t, nw, nw2)
		assert.Equal(t, nm, nm2)
		assert.Equal(t, nv, nv2)
		assert.True(t, nearVec(back.Data[0].DataP, back2.Data[0].DataP, 1.e-15))
	}
}

func TestInverseComposition(t *testing.T) {
	ctx := runner.NewContext(2)
	{ // Inverting a chain reverses the composition order link by link
		N, K := 3, 2
		coarse := gaussDiscr1D(t, N, K)
		mid := refineDiscr(t, coarse)
		fine := refineDiscr(t, mid)
		c1, _ := NewRefinementConnection(coarse, mid)
		c2, _ := NewRefinementConnection(mid, fine)
		chain, _ := NewChainedConnection([]Connection{c1, c2})

		inv, err := NewInverse(ForwardChain(chain), false)
		assert.NoError(t, err)
		ic, ok := inv.(*ChainedConnection)
		assert.True(t, ok)
		assert.Equal(t, 2, len(ic.Links))
		assert.Equal(t, c2, ic.Links[0].(*L2ProjectionInverse).Conn)
		assert.Equal(t, c1, ic.Links[1].(*L2ProjectionInverse).Conn)
		assert.Equal(t, fine, ic.FromDiscr())
		assert.Equal(t, coarse, ic.ToDiscr())

		// and the two stage round trip is still exact
		poly := func(k int, r float64) float64 { return r*r*r - r + float64(k) }
		u := field1D(ctx, coarse, poly)
		back := applyDOF(t, inv, applyDOF(t, chain, u))
		assert.True(t, nearVec(u.Data[0].DataP, back.Data[0].DataP, 1.e-12))
	}
	{ // A raw sequence inverts like the chain it never became
		N, K := 2, 2
		coarse := gaussDiscr1D(t, N, K)
		mid := refineDiscr(t, coarse)
		fine := refineDiscr(t, mid)
		c1, _ := NewRefinementConnection(coarse, mid)
		c2, _ := NewRefinementConnection(mid, fine)

		inv, err := NewInverse(ForwardSequence(ForwardDirect(c1), ForwardDirect(c2)), false)
		assert.NoError(t, err)
		ic, ok := inv.(*ChainedConnection)
		assert.True(t, ok)
		assert.Equal(t, c2, ic.Links[0].(*L2ProjectionInverse).Conn)
		assert.Equal(t, c1, ic.Links[1].(*L2ProjectionInverse).Conn)
	}
	{ // The identity chain is its own inverse
		d := gaussDiscr1D(t, 2, 2)
		chain, _ := NewChainedConnection(nil, d)
		inv, err := NewInverse(ForwardChain(chain), false)
		assert.NoError(t, err)
		assert.Same(t, chain, inv)
	}
	{ // Only direct and chained connections can be classified for inversion
		parent := gaussDiscr1D(t, 2, 2)
		child := refineDiscr(t, parent)
		fwd, _ := NewRefinementConnection(parent, child)
		inv, _ := NewInverse(ForwardDirect(fwd), false)
		_, err := AsForward(inv)
		assert.Error(t, err)
	}
	{ // The empty variant has nothing to invert
		_, err := NewInverse(Forward{}, false)
		assert.Error(t, err)
	}
}

func TestInverseValidation(t *testing.T) {
	{ // Transports across a dimension change are rejected at construction
		d2 := cubatureDiscr2D(t, 2, 2)
		d1 := gaussDiscr1D(t, 2, 2)
		_, err := NewInverse(ForwardDirect(&DirectConnection{From: d2, To: d1}), false)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	}
	{ // A non orthonormal basis on the interpolation target is rejected,
		// and a corrected basis succeeds with no stale state in the way
		N, K := 3, 2
		parent := gaussDiscr1D(t, N, K)
		lob, err := discretization.NewLobattoGroup1D(N, K)
		assert.NoError(t, err)
		lagrange := element.NewLagrangeBasis1D(lob.RS.Row(0))
		bad, err := discretization.NewElementGroup(K, lagrange, lob.RS, lob.W, "LobattoLagrange")
		assert.NoError(t, err)
		badDiscr, err := discretization.NewDiscretization(bad)
		assert.NoError(t, err)

		fwd, err := NewSameMeshConnection(parent, badDiscr)
		assert.NoError(t, err)
		_, err = NewInverse(ForwardDirect(fwd), false)
		assert.ErrorIs(t, err, ErrNotOrthonormal)

		good := lobattoDiscr1D(t, N, K)
		fwd2, err := NewSameMeshConnection(parent, good)
		assert.NoError(t, err)
		inv, err := NewInverse(ForwardDirect(fwd2), false)
		assert.NoError(t, err)

		ctx := runner.NewContext(1)
		u := field1D(ctx, parent, func(k int, r float64) float64 { return r*r*r + float64(k) })
		back := applyDOF(t, inv, applyDOF(t, fwd2, u))
		assert.True(t, nearVec(u.Data[0].DataP, back.Data[0].DataP, 1.e-12))

		// the projection target needs orthonormality as well
		fwd3, err := NewSameMeshConnection(badDiscr, good)
		assert.NoError(t, err)
		_, err = NewInverse(ForwardDirect(fwd3), false)
		assert.ErrorIs(t, err, ErrNotOrthonormal)
	}
	{ // A non field argument is rejected before any cache fills
		ctx := runner.NewContext(1)
		parent := gaussDiscr1D(t, 2, 2)
		child := refineDiscr(t, parent)
		fwd, _ := NewRefinementConnection(parent, child)
		inv, _ := NewInverse(ForwardDirect(fwd), false)

		_, err := inv.Apply(3.14)
		assert.ErrorIs(t, err, ErrNotAField)
		nw, nm, nv := ctx.Stats()
		assert.Equal(t, 0, nw)
		assert.Equal(t, 0, nm)
		assert.Equal(t, 0, nv)
	}
}

func TestScaledWeights(t *testing.T) {
	{ // 1D refinement: each child covers half its parent
		parent := gaussDiscr1D(t, 3, 2)
		child := refineDiscr(t, parent)
		fwd, _ := NewRefinementConnection(parent, child)
		cgrp := child.Groups[0]
		for c, batch := range fwd.Groups[0].Batches {
			w := scaledWeights(cgrp, batch)
			for q := 0; q < cgrp.Np; q++ {
				assert.True(t, w.DataP[q] > 0)
				assert.InDeltaf(t, 0.5*cgrp.W.DataP[q], w.DataP[q], 1.e-13, "child %d", c)
			}
		}
	}
	{ // 2D refinement: four congruent children, each a quarter of the parent
		parent := cubatureDiscr2D(t, 2, 3)
		child := refineDiscr(t, parent)
		fwd, _ := NewRefinementConnection(parent, child)
		cgrp := child.Groups[0]
		for c, batch := range fwd.Groups[0].Batches {
			w := scaledWeights(cgrp, batch)
			for q := 0; q < cgrp.Np; q++ {
				assert.True(t, w.DataP[q] > 0)
				assert.InDeltaf(t, 0.25*cgrp.W.DataP[q], w.DataP[q], 1.e-13, "child %d", c)
			}
		}
	}
	{ // Same mesh batches keep the native weights: the sub element map is
		// the identity
		parent := lobattoDiscr1D(t, 4, 2)
		child := gaussDiscr1D(t, 4, 2)
		fwd, _ := NewSameMeshConnection(parent, child)
		cgrp := child.Groups[0]
		w := scaledWeights(cgrp, fwd.Groups[0].Batches[0])
		assert.True(t, nearVec(cgrp.W.DataP, w.DataP, 1.e-13))
	}
}
