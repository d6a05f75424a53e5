package connection

/*
Package connection transports fields between discretizations laid over
the same mesh region. A forward connection interpolates from a source
(parent) discretization onto a destination (child) discretization, one
batch of elements at a time; the inverse transport recovers a parent
side field from a child side one by L2 projection, see inverse.go.

All transports run on a runner.Context, pulled from the field being
transported. Interpolation matrices and projection weights are cached
on that context, keyed by the owning connection, so repeated Apply
calls pay the setup cost once.
*/

import (
	"errors"
	"fmt"

	"github.com/notargets/DGTransfer/discretization"
	"github.com/notargets/DGTransfer/runner"
	"github.com/notargets/DGTransfer/utils"
)

var (
	// ErrDimensionMismatch rejects transports across a dimension change,
	// for instance a face restriction inverted back onto a volume
	ErrDimensionMismatch = errors.New("cannot transport from face to element")
	// ErrNotOrthonormal rejects projection targets whose basis does not
	// reduce the L2 mass matrix to the identity
	ErrNotOrthonormal = errors.New("discretization must have an orthonormal basis")
	// ErrNotAField rejects transport arguments that are not field containers
	ErrNotAField = errors.New("non-field value passed to discretization connection")
)

// Batch is one interpolation unit within a connection group. For each
// pair i, the field on element FromElements[i] of source group
// FromGroup is evaluated at the reference coordinates RS, which hold
// the destination element's unit nodes expressed in the source element
// frame, and the values become the nodal field of destination element
// ToElements[i].
type Batch struct {
	FromGroup    int          // group index in the source discretization
	FromElements utils.Index  // source elements, one per pair
	ToElements   utils.Index  // destination elements, one per pair
	RS           utils.Matrix // [dim x Np_dest] destination unit nodes in the source frame
}

// Group holds the batches whose destination elements lie in one group
// of the destination discretization.
type Group struct {
	Batches []*Batch
}

// Connection is the transport contract shared by direct, chained and
// inverse connections.
type Connection interface {
	FromDiscr() *discretization.Discretization
	ToDiscr() *discretization.Discretization
	IsSurjective() bool
	// Apply transports a field living on FromDiscr onto ToDiscr. The
	// field must be a *runner.DOFArray or a runner.FieldSet, which is
	// transported component by component.
	Apply(field interface{}) (interface{}, error)
}

// applyField dispatches a transport over the recognized field
// containers and rejects everything else before any cache is touched.
func applyField(field interface{}, op func(*runner.DOFArray) (*runner.DOFArray, error)) (interface{}, error) {
	switch f := field.(type) {
	case *runner.DOFArray:
		return op(f)
	case runner.FieldSet:
		result := make(runner.FieldSet, len(f))
		for i, component := range f {
			r, err := op(component)
			if err != nil {
				return nil, err
			}
			result[i] = r
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%T: %w", field, ErrNotAField)
	}
}

// DirectConnection interpolates fields from From onto To through the
// batches of Groups, which are aligned one to one with To's element
// groups.
type DirectConnection struct {
	From, To   *discretization.Discretization
	Groups     []*Group
	Surjective bool
}

// NewDirectConnection validates the batch topology against the two
// discretizations: one group list entry per destination group, equal
// length index arrays with in range elements, and reference coordinates
// shaped [source dim x destination Np].
func NewDirectConnection(from, to *discretization.Discretization, groups []*Group,
	surjective bool) (dc *DirectConnection, err error) {
	if len(groups) != len(to.Groups) {
		return nil, fmt.Errorf("connection has %d groups for a %d group destination",
			len(groups), len(to.Groups))
	}
	for igrp, cgrp := range groups {
		tgrp := to.Groups[igrp]
		for ibatch, batch := range cgrp.Batches {
			if batch.FromGroup < 0 || batch.FromGroup >= len(from.Groups) {
				return nil, fmt.Errorf("group %d batch %d: source group %d out of range",
					igrp, ibatch, batch.FromGroup)
			}
			sgrp := from.Groups[batch.FromGroup]
			if len(batch.FromElements) != len(batch.ToElements) {
				return nil, fmt.Errorf("group %d batch %d: %d source elements paired with %d destinations",
					igrp, ibatch, len(batch.FromElements), len(batch.ToElements))
			}
			for i := range batch.FromElements {
				if fe := batch.FromElements[i]; fe < 0 || fe >= sgrp.K {
					return nil, fmt.Errorf("group %d batch %d: source element %d out of range",
						igrp, ibatch, fe)
				}
				if te := batch.ToElements[i]; te < 0 || te >= tgrp.K {
					return nil, fmt.Errorf("group %d batch %d: destination element %d out of range",
						igrp, ibatch, te)
				}
			}
			nr, nc := batch.RS.Dims()
			if nr != from.Dim || nc != tgrp.Np {
				return nil, fmt.Errorf("group %d batch %d: reference coordinates are %dx%d, need %dx%d",
					igrp, ibatch, nr, nc, from.Dim, tgrp.Np)
			}
		}
	}
	dc = &DirectConnection{
		From:       from,
		To:         to,
		Groups:     groups,
		Surjective: surjective,
	}
	return
}

func (dc *DirectConnection) FromDiscr() *discretization.Discretization { return dc.From }
func (dc *DirectConnection) ToDiscr() *discretization.Discretization   { return dc.To }
func (dc *DirectConnection) IsSurjective() bool                        { return dc.Surjective }

func (dc *DirectConnection) Apply(field interface{}) (interface{}, error) {
	return applyField(field, dc.apply)
}

// interpMatrix maps source nodal values to destination nodal values for
// one batch: tabulate the source basis at the batch coordinates, then
// compose with the source group's inverse Vandermonde.
func (dc *DirectConnection) interpMatrix(ctx *runner.Context, igrp, ibatch int) utils.Matrix {
	batch := dc.Groups[igrp].Batches[ibatch]
	sgrp := dc.From.Groups[batch.FromGroup]
	key := runner.BatchKey{Owner: dc, Group: igrp, Batch: ibatch}
	return ctx.BatchMatrix(key, func() utils.Matrix {
		return sgrp.Basis.Vandermonde(batch.RS).Mul(sgrp.Vinv)
	})
}

func (dc *DirectConnection) apply(f *runner.DOFArray) (*runner.DOFArray, error) {
	if f.Discr != dc.From {
		return nil, fmt.Errorf("field does not live on the connection source discretization")
	}
	var (
		ctx     = f.Ctx
		result  = ctx.Zeros(dc.To)
		kernels = make([]*runner.FusedKernel, 0, len(dc.Groups))
	)
	for igrp, cgrp := range dc.Groups {
		var (
			tgrp   = dc.To.Groups[igrp]
			out    = result.Data[igrp]
			passes = make([]*runner.ElementKernel, 0, len(cgrp.Batches))
		)
		for ibatch, batch := range cgrp.Batches {
			var (
				sgrp   = dc.From.Groups[batch.FromGroup]
				interp = dc.interpMatrix(ctx, igrp, ibatch)
				in     = f.Data[batch.FromGroup]
				fromEl = batch.FromElements
				toEl   = batch.ToElements
				NpT    = tgrp.Np
				NpS    = sgrp.Np
				KT     = tgrp.K
				KS     = sgrp.K
			)
			body := func(kMin, kMax int) {
				for k := kMin; k < kMax; k++ {
					fe, te := fromEl[k], toEl[k]
					for i := 0; i < NpT; i++ {
						var sum float64
						for j := 0; j < NpS; j++ {
							sum += interp.DataP[j+i*NpS] * in.DataP[fe+j*KS]
						}
						out.DataP[te+i*KT] = sum
					}
				}
			}
			tag := fmt.Sprintf("%d", ibatch)
			pass := runner.NewKernel("interp_batch"+tag, len(fromEl), body,
				runner.Input("ary").Bind(in),
				runner.Input("resample_mat").Bind(interp),
				runner.Input("from_element_indices").Bind(fromEl),
				runner.Input("to_element_indices").Bind(toEl),
				runner.Output("result").Bind(out).Scatter(toEl),
			).
				Rename("ary", "ary_batch"+tag).
				Rename("resample_mat", "resample_mat_batch"+tag).
				Rename("from_element_indices", "from_element_indices_"+tag).
				Rename("to_element_indices", "to_element_indices_"+tag)
			passes = append(passes, pass)
		}
		fused, err := runner.FuseKernels(fmt.Sprintf("fused_interp_group%d", igrp), passes...)
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, fused)
	}
	ctx.RunKernels(kernels...)
	return result, nil
}
