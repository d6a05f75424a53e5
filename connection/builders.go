package connection

import (
	"fmt"

	"github.com/notargets/DGTransfer/discretization"
	"github.com/notargets/DGTransfer/utils"
)

// NewSameMeshConnection resamples between two discretizations laid over
// the same mesh, group for group and element for element; only the
// basis and node layout may differ. One batch per group carries every
// element, with the destination unit nodes read directly in the source
// frame.
func NewSameMeshConnection(from, to *discretization.Discretization) (dc *DirectConnection, err error) {
	if from.Dim != to.Dim {
		return nil, fmt.Errorf("same mesh connection between %dD and %dD discretizations", from.Dim, to.Dim)
	}
	if len(from.Groups) != len(to.Groups) {
		return nil, fmt.Errorf("same mesh connection between %d and %d group discretizations",
			len(from.Groups), len(to.Groups))
	}
	groups := make([]*Group, len(to.Groups))
	for igrp, tgrp := range to.Groups {
		if from.Groups[igrp].K != tgrp.K {
			return nil, fmt.Errorf("group %d: %d elements resampled onto %d",
				igrp, from.Groups[igrp].K, tgrp.K)
		}
		elements := utils.NewRange(0, tgrp.K-1)
		groups[igrp] = &Group{Batches: []*Batch{{
			FromGroup:    igrp,
			FromElements: elements,
			ToElements:   elements,
			RS:           tgrp.RS,
		}}}
	}
	return NewDirectConnection(from, to, groups, true)
}

// NewRefinementConnection interpolates from a discretization onto its
// uniform refinement, laid out as Discretization.Refine produces it:
// each parent element k splits into 2^dim children stored at factor*k+c
// for child index c. One batch per child index carries every parent,
// with the child group's unit nodes pulled back through the affine
// child map into the parent frame.
func NewRefinementConnection(from, to *discretization.Discretization) (dc *DirectConnection, err error) {
	if from.Dim != to.Dim {
		return nil, fmt.Errorf("refinement connection between %dD and %dD discretizations", from.Dim, to.Dim)
	}
	if len(from.Groups) != len(to.Groups) {
		return nil, fmt.Errorf("refinement connection between %d and %d group discretizations",
			len(from.Groups), len(to.Groups))
	}
	factor := 1 << uint(from.Dim)
	groups := make([]*Group, len(to.Groups))
	for igrp, tgrp := range to.Groups {
		sgrp := from.Groups[igrp]
		if tgrp.K != factor*sgrp.K {
			return nil, fmt.Errorf("group %d: %d elements refine into %d, not %d",
				igrp, sgrp.K, factor*sgrp.K, tgrp.K)
		}
		batches := make([]*Batch, factor)
		parents := utils.NewRange(0, sgrp.K-1)
		for c := 0; c < factor; c++ {
			batches[c] = &Batch{
				FromGroup:    igrp,
				FromElements: parents,
				ToElements:   parents.Apply(func(k int) int { return factor*k + c }),
				RS:           childNodes(from.Dim, c, tgrp.RS),
			}
		}
		groups[igrp] = &Group{Batches: batches}
	}
	return NewDirectConnection(from, to, groups, false)
}

// refVerts2D lists the vertex triples of the four congruent children
// tiling the reference triangle, ordered corner A, corner B, corner C,
// center. Every triple keeps positive orientation.
var refVerts2D = [4][3][2]float64{
	{{-1, -1}, {0, -1}, {-1, 0}},
	{{0, -1}, {1, -1}, {0, 0}},
	{{-1, 0}, {0, 0}, {-1, 1}},
	{{0, 0}, {-1, 0}, {0, -1}},
}

// childNodes maps reference coordinates through the affine map of child
// c, taking nodes of the child's own frame into the parent frame.
func childNodes(dim, c int, RS utils.Matrix) (R utils.Matrix) {
	var (
		_, Nq = RS.Dims()
	)
	R = utils.NewMatrix(dim, Nq)
	switch dim {
	case 1:
		for q := 0; q < Nq; q++ {
			r := RS.At(0, q)
			if c == 0 {
				R.Set(0, q, (r-1)/2)
			} else {
				R.Set(0, q, (r+1)/2)
			}
		}
	case 2:
		verts := refVerts2D[c]
		for q := 0; q < Nq; q++ {
			r, s := RS.At(0, q), RS.At(1, q)
			for d := 0; d < 2; d++ {
				R.Set(d, q, 0.5*(-(r+s)*verts[0][d]+(1+r)*verts[1][d]+(1+s)*verts[2][d]))
			}
		}
	default:
		err := fmt.Errorf("no child maps tabulated for dimension %d", dim)
		panic(err)
	}
	return
}
