package connection

import (
	"fmt"

	"github.com/notargets/DGTransfer/discretization"
	"github.com/notargets/DGTransfer/runner"
	"github.com/notargets/DGTransfer/utils"
)

// Forward is the tagged variant of connection kinds the inverse
// composer accepts: exactly one of the fields is set. A direct
// connection inverts to an L2 projection; a chain inverts link by link
// in reverse order; a raw sequence behaves like a chain that was never
// composed.
type Forward struct {
	Direct   *DirectConnection
	Chain    *ChainedConnection
	Sequence []Forward
}

func ForwardDirect(dc *DirectConnection) Forward { return Forward{Direct: dc} }
func ForwardChain(cc *ChainedConnection) Forward { return Forward{Chain: cc} }
func ForwardSequence(fwds ...Forward) Forward    { return Forward{Sequence: fwds} }

// AsForward classifies a connection for inversion.
func AsForward(conn Connection) (Forward, error) {
	switch c := conn.(type) {
	case *DirectConnection:
		return ForwardDirect(c), nil
	case *ChainedConnection:
		return ForwardChain(c), nil
	default:
		return Forward{}, fmt.Errorf("cannot invert a connection of type %T", conn)
	}
}

// NewInverse builds the reverse transport of a forward connection.
// Interpolation loses information in general, so the reverse map is an
// L2 least squares projection rather than a true inverse; surjective
// declares whether the forward map was onto, in which case the round
// trip forward then inverse loses nothing. An identity chain inverts
// to itself.
func NewInverse(fwd Forward, surjective bool) (Connection, error) {
	switch {
	case fwd.Direct != nil:
		return newL2ProjectionInverse(fwd.Direct, surjective)
	case fwd.Chain != nil:
		if len(fwd.Chain.Links) == 0 {
			return fwd.Chain, nil
		}
		seq := make([]Forward, 0, len(fwd.Chain.Links))
		for _, link := range fwd.Chain.Links {
			f, err := AsForward(link)
			if err != nil {
				return nil, err
			}
			seq = append(seq, f)
		}
		return NewInverse(ForwardSequence(seq...), surjective)
	case len(fwd.Sequence) != 0:
		links := make([]Connection, 0, len(fwd.Sequence))
		for i := len(fwd.Sequence) - 1; i >= 0; i-- {
			inv, err := NewInverse(fwd.Sequence[i], surjective)
			if err != nil {
				return nil, err
			}
			links = append(links, inv)
		}
		return NewChainedConnection(links)
	default:
		return nil, fmt.Errorf("cannot invert an empty forward variant")
	}
}

// L2ProjectionInverse transports fields against the grain of a direct
// connection: per source element of the forward map, it recovers the
// modal coefficients whose interpolant best matches the given child
// side field in L2, then evaluates them at the source unit nodes. The
// orthonormal basis precondition makes the projection mass matrix the
// identity, so no linear system is solved.
type L2ProjectionInverse struct {
	Conn       *DirectConnection // forward topology, referenced not owned
	Surjective bool
}

func newL2ProjectionInverse(conn *DirectConnection, surjective bool) (li *L2ProjectionInverse, err error) {
	if conn.From.Dim != conn.To.Dim {
		return nil, fmt.Errorf("inverting a %dD to %dD connection: %w",
			conn.From.Dim, conn.To.Dim, ErrDimensionMismatch)
	}
	for igrp, grp := range conn.To.Groups {
		if !grp.Basis.IsOrthonormal() {
			return nil, fmt.Errorf("interpolation target group %d has basis %s: %w",
				igrp, grp.Basis.Name(), ErrNotOrthonormal)
		}
	}
	for igrp, grp := range conn.From.Groups {
		if !grp.Basis.IsOrthonormal() {
			return nil, fmt.Errorf("projection target group %d has basis %s: %w",
				igrp, grp.Basis.Name(), ErrNotOrthonormal)
		}
	}
	li = &L2ProjectionInverse{
		Conn:       conn,
		Surjective: surjective,
	}
	return
}

// FromDiscr and ToDiscr swap the forward connection's roles.
func (li *L2ProjectionInverse) FromDiscr() *discretization.Discretization { return li.Conn.To }
func (li *L2ProjectionInverse) ToDiscr() *discretization.Discretization   { return li.Conn.From }
func (li *L2ProjectionInverse) IsSurjective() bool                        { return li.Surjective }

func (li *L2ProjectionInverse) Apply(field interface{}) (interface{}, error) {
	return applyField(field, li.apply)
}

// batchWeights returns the scaled quadrature weights for one batch,
// cached on the context keyed by the forward topology so that every
// inverse over the same connection shares them. See weights.go for the
// computation.
func (li *L2ProjectionInverse) batchWeights(ctx *runner.Context, igrp, ibatch int) utils.Vector {
	key := runner.BatchKey{Owner: li.Conn, Group: igrp, Batch: ibatch}
	return ctx.BatchWeights(key, func() utils.Vector {
		return scaledWeights(li.Conn.To.Groups[igrp], li.Conn.Groups[igrp].Batches[ibatch])
	})
}

// tabulation returns the projection target basis evaluated at one
// batch's reference coordinates, [num basis functions x num nodes].
func (li *L2ProjectionInverse) tabulation(ctx *runner.Context, igrp, ibatch int) utils.Matrix {
	key := runner.BatchKey{Owner: li, Group: igrp, Batch: ibatch}
	return ctx.BatchMatrix(key, func() utils.Matrix {
		batch := li.Conn.Groups[igrp].Batches[ibatch]
		sgrp := li.Conn.From.Groups[batch.FromGroup]
		return sgrp.Basis.Vandermonde(batch.RS).Transpose()
	})
}

// apply runs the projection in two stages: accumulate weighted basis
// inner products into modal coefficients per parent element, then
// evaluate the coefficients at the parent unit nodes.
func (li *L2ProjectionInverse) apply(f *runner.DOFArray) (*runner.DOFArray, error) {
	if f.Discr != li.Conn.To {
		return nil, fmt.Errorf("field does not live on the inverted connection's child discretization")
	}
	var (
		ctx    = f.Ctx
		conn   = li.Conn
		coeffs = ctx.Zeros(conn.From)
		// Batches from any child group may feed any parent group, and
		// accumulation into one parent buffer must stay ordered, so
		// passes fuse by the parent group they write rather than the
		// child group they read. The fused kernels then share nothing
		// and run concurrently.
		byParent = make([][]*runner.ElementKernel, len(conn.From.Groups))
	)
	for igrp, cgrp := range conn.Groups {
		var (
			tgrp = conn.To.Groups[igrp]
			in   = f.Data[igrp]
		)
		for ibatch, batch := range cgrp.Batches {
			var (
				sgrp    = conn.From.Groups[batch.FromGroup]
				out     = coeffs.Data[batch.FromGroup]
				tab     = li.tabulation(ctx, igrp, ibatch)
				weights = li.batchWeights(ctx, igrp, ibatch)
				fromEl  = batch.ToElements   // gather side: child elements
				toEl    = batch.FromElements // scatter side: parent elements
				Nq      = tgrp.Np
				Nb      = sgrp.Np
				KT      = tgrp.K
				KS      = sgrp.K
			)
			body := func(kMin, kMax int) {
				for k := kMin; k < kMax; k++ {
					fe, te := fromEl[k], toEl[k]
					for ib := 0; ib < Nb; ib++ {
						var sum float64
						for q := 0; q < Nq; q++ {
							sum += in.DataP[fe+q*KT] * tab.DataP[q+ib*Nq] * weights.DataP[q]
						}
						out.DataP[te+ib*KS] += sum
					}
				}
			}
			tag := fmt.Sprintf("%d_%d", igrp, ibatch)
			pass := runner.NewKernel("kproj_"+tag, len(fromEl), body,
				runner.Input("ary").Bind(in),
				runner.Input("basis_tabulation").Bind(tab),
				runner.Input("weights").Bind(weights),
				runner.Input("from_element_indices").Bind(fromEl),
				runner.Input("to_element_indices").Bind(toEl),
				runner.Output("result").Bind(out).Scatter(toEl),
			).
				Rename("ary", "ary_batch"+tag).
				Rename("basis_tabulation", "basis_tabulation_batch"+tag).
				Rename("weights", "weights_batch"+tag).
				Rename("from_element_indices", "from_element_indices_"+tag).
				Rename("to_element_indices", "to_element_indices_"+tag)
			byParent[batch.FromGroup] = append(byParent[batch.FromGroup], pass)
		}
	}
	projections := make([]*runner.FusedKernel, 0, len(byParent))
	for pgrp, passes := range byParent {
		if len(passes) == 0 {
			continue
		}
		fused, err := runner.FuseKernels(fmt.Sprintf("fused_kproj_group%d", pgrp), passes...)
		if err != nil {
			return nil, err
		}
		projections = append(projections, fused)
	}
	ctx.RunKernels(projections...)
	return li.evaluate(ctx, coeffs)
}

// evaluate turns modal coefficients into nodal values per parent group
// through the group Vandermonde, cached by structural identity so
// groups sharing a basis and node set share one matrix.
func (li *L2ProjectionInverse) evaluate(ctx *runner.Context, coeffs *runner.DOFArray) (*runner.DOFArray, error) {
	var (
		result  = ctx.Zeros(li.Conn.From)
		kernels = make([]*runner.FusedKernel, 0, len(li.Conn.From.Groups))
	)
	for pgrp, grp := range li.Conn.From.Groups {
		var (
			vdm = ctx.GroupVandermonde(grp.Key(), func() utils.Matrix {
				return grp.V
			})
			c   = coeffs.Data[pgrp]
			out = result.Data[pgrp]
			Np  = grp.Np
			K   = grp.K
		)
		body := func(kMin, kMax int) {
			for k := kMin; k < kMax; k++ {
				for idof := 0; idof < Np; idof++ {
					var sum float64
					for ib := 0; ib < Np; ib++ {
						sum += vdm.DataP[ib+idof*Np] * c.DataP[k+ib*K]
					}
					out.DataP[k+idof*K] = sum
				}
			}
		}
		pass := runner.NewKernel(fmt.Sprintf("keval_group%d", pgrp), K, body,
			runner.Input("coefficients").Bind(c),
			runner.Input("vdm").Bind(vdm),
			runner.Output("result").Bind(out),
		)
		fused, err := runner.FuseKernels(fmt.Sprintf("keval_group%d", pgrp), pass)
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, fused)
	}
	ctx.RunKernels(kernels...)
	return result, nil
}
