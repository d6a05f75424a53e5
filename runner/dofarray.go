package runner

import (
	"fmt"

	"github.com/notargets/DGTransfer/discretization"
	"github.com/notargets/DGTransfer/utils"
)

// DOFArray is a field over a discretization: one [Np x K] matrix per
// group, node index major, element index minor, tied to the execution
// context that materialized it.
type DOFArray struct {
	Ctx   *Context
	Discr *discretization.Discretization
	Data  []utils.Matrix
}

// Zeros materializes a zero field over d
func (ctx *Context) Zeros(d *discretization.Discretization) (f *DOFArray) {
	f = &DOFArray{
		Ctx:   ctx,
		Discr: d,
		Data:  make([]utils.Matrix, len(d.Groups)),
	}
	for i, g := range d.Groups {
		f.Data[i] = utils.NewMatrix(g.Np, g.K)
	}
	return
}

// FromMatrices adopts existing per-group storage as a field, validating
// the [Np x K] shape of each group
func (ctx *Context) FromMatrices(d *discretization.Discretization, ms []utils.Matrix) (f *DOFArray, err error) {
	if len(ms) != len(d.Groups) {
		return nil, fmt.Errorf("have %d group matrices for %d groups", len(ms), len(d.Groups))
	}
	for i, g := range d.Groups {
		nr, nc := ms[i].Dims()
		if nr != g.Np || nc != g.K {
			return nil, fmt.Errorf("group %d data is %dx%d, want %dx%d", i, nr, nc, g.Np, g.K)
		}
	}
	return &DOFArray{Ctx: ctx, Discr: d, Data: ms}, nil
}

// FromFunc materializes a field by evaluating f at every (group, node,
// element) triple. Callers supply the node's physical interpretation; f
// receives the group index, element index and unit node index.
func (ctx *Context) FromFunc(d *discretization.Discretization, f func(igrp, k, i int) float64) (r *DOFArray) {
	r = ctx.Zeros(d)
	for igrp, g := range d.Groups {
		data := r.Data[igrp].DataP
		for i := 0; i < g.Np; i++ {
			for k := 0; k < g.K; k++ {
				data[k+i*g.K] = f(igrp, k, i)
			}
		}
	}
	return
}

// Freeze makes every group matrix read only, the shareable form used for
// cached results
func (f *DOFArray) Freeze() *DOFArray {
	for i := range f.Data {
		f.Data[i] = f.Data[i].SetReadOnly(fmt.Sprintf("DOFArray[%d]", i))
	}
	return f
}

func (f *DOFArray) Copy() (r *DOFArray) {
	r = &DOFArray{
		Ctx:   f.Ctx,
		Discr: f.Discr,
		Data:  make([]utils.Matrix, len(f.Data)),
	}
	for i := range f.Data {
		r.Data[i] = f.Data[i].Copy()
	}
	return
}

// Flatten serializes the field in the canonical flat layout: group
// major, element major, node minor, matching Discretization.GroupOffsets
func (f *DOFArray) Flatten() (v []float64) {
	v = make([]float64, f.Discr.NNodes())
	offsets := f.Discr.GroupOffsets()
	for igrp, g := range f.Discr.Groups {
		data := f.Data[igrp].DataP
		base := offsets[igrp]
		for k := 0; k < g.K; k++ {
			for i := 0; i < g.Np; i++ {
				v[base+k*g.Np+i] = data[k+i*g.K]
			}
		}
	}
	return
}

// FieldSet is a field of fields, e.g. the components of a vector valued
// solution, transported component-wise by connections.
type FieldSet []*DOFArray
