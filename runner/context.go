package runner

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/notargets/DGTransfer/discretization"
	"github.com/notargets/DGTransfer/utils"
)

// Context is the execution engine state shared by transport operations:
// a parallelism degree for kernel launches and the memoized data computed
// against this context. Caches never migrate between contexts; a fresh
// context starts cold.
type Context struct {
	ParallelDegree int
	mtx            sync.Mutex
	batchVecs      map[BatchKey]utils.Vector
	batchMats      map[BatchKey]utils.Matrix
	vandermondes   map[discretization.GroupKey]utils.Matrix
}

// BatchKey identifies memoized per-batch data: the owning connection by
// pointer identity, plus group and batch position within it.
type BatchKey struct {
	Owner        interface{}
	Group, Batch int
}

func NewContext(pDegO ...int) (ctx *Context) {
	ctx = &Context{
		ParallelDegree: runtime.NumCPU(),
		batchVecs:      make(map[BatchKey]utils.Vector),
		batchMats:      make(map[BatchKey]utils.Matrix),
		vandermondes:   make(map[discretization.GroupKey]utils.Matrix),
	}
	if len(pDegO) != 0 && pDegO[0] > 0 {
		ctx.ParallelDegree = pDegO[0]
	}
	return
}

// BatchWeights returns the weight vector cached under key, computing,
// freezing and storing it on first use. compute runs under the context
// lock, so it executes at most once per key for the context lifetime; if
// it panics the cache is left unwritten.
func (ctx *Context) BatchWeights(key BatchKey, compute func() utils.Vector) utils.Vector {
	ctx.mtx.Lock()
	defer ctx.mtx.Unlock()
	if w, ok := ctx.batchVecs[key]; ok {
		return w
	}
	w := compute()
	ctx.batchVecs[key] = w.SetReadOnly(fmt.Sprintf("batchWeights[%d,%d]", key.Group, key.Batch))
	return ctx.batchVecs[key]
}

// BatchMatrix is the matrix counterpart of BatchWeights, used for
// per-batch resampling operators.
func (ctx *Context) BatchMatrix(key BatchKey, compute func() utils.Matrix) utils.Matrix {
	ctx.mtx.Lock()
	defer ctx.mtx.Unlock()
	if m, ok := ctx.batchMats[key]; ok {
		return m
	}
	m := compute()
	ctx.batchMats[key] = m.SetReadOnly(fmt.Sprintf("batchMatrix[%d,%d]", key.Group, key.Batch))
	return ctx.batchMats[key]
}

// GroupVandermonde returns the nodal Vandermonde matrix for a group's
// structural identity, computed and frozen on first use. Groups sharing
// a reference structure share the entry regardless of which
// discretization or connection asked first.
func (ctx *Context) GroupVandermonde(key discretization.GroupKey, compute func() utils.Matrix) utils.Matrix {
	ctx.mtx.Lock()
	defer ctx.mtx.Unlock()
	if m, ok := ctx.vandermondes[key]; ok {
		return m
	}
	m := compute()
	ctx.vandermondes[key] = m.SetReadOnly(fmt.Sprintf("V[%s/%s N=%d]", key.Basis, key.NodeType, key.N))
	return ctx.vandermondes[key]
}

// Stats reports cache occupancy: batch weight vectors, batch matrices and
// group Vandermonde matrices currently memoized.
func (ctx *Context) Stats() (nWeights, nMatrices, nVandermondes int) {
	ctx.mtx.Lock()
	defer ctx.mtx.Unlock()
	return len(ctx.batchVecs), len(ctx.batchMats), len(ctx.vandermondes)
}
