package runner

import (
	"fmt"
	"sync"

	"github.com/notargets/DGTransfer/utils"
)

type Direction int

const (
	DirInput Direction = iota
	DirOutput
	DirScalar
)

// Param is a named kernel binding built fluently:
//
//	Input("ary").Bind(M)
//	Output("result").Bind(R).Scatter(toElements)
//	Scalar("nNodes").Bind(np)
//
// Bindings carry the buffers a pass reads and writes; the kernel body
// closes over the same buffers directly, so params exist to make data
// flow checkable: fusion validates aliasing through them and the runner
// derives write footprints from output scatters.
type Param struct {
	Name      string
	Direction Direction
	M         utils.Matrix
	V         utils.Vector
	I         utils.Index
	Val       float64
	scatter   utils.Index
}

func Input(name string) *Param  { return &Param{Name: name, Direction: DirInput} }
func Output(name string) *Param { return &Param{Name: name, Direction: DirOutput} }
func Scalar(name string) *Param { return &Param{Name: name, Direction: DirScalar} }

func (p *Param) Bind(v interface{}) *Param {
	switch b := v.(type) {
	case utils.Matrix:
		p.M = b
	case utils.Vector:
		p.V = b
	case utils.Index:
		p.I = b
	case int:
		p.Val = float64(b)
	case float64:
		p.Val = b
	default:
		panic(fmt.Errorf("unsupported binding type %T for kernel param %s", v, p.Name))
	}
	return p
}

// Scatter declares the destination element written by each work item of
// the pass. Work items with pairwise distinct targets may run
// concurrently; a duplicate target forces the whole pass serial.
func (p *Param) Scatter(I utils.Index) *Param {
	if p.Direction != DirOutput {
		panic(fmt.Errorf("scatter index on non-output kernel param %s", p.Name))
	}
	p.scatter = I
	return p
}

// ElementKernel is one computation pass over an element index space.
// Body covers the half open local range [kMin, kMax) and may be invoked
// concurrently on disjoint ranges when every output scatter is duplicate
// free.
type ElementKernel struct {
	Name     string
	KMax     int
	Params   []*Param
	Body     func(kMin, kMax int)
	parallel bool
}

func NewKernel(name string, kMax int, body func(kMin, kMax int), params ...*Param) (ek *ElementKernel) {
	ek = &ElementKernel{
		Name:     name,
		KMax:     kMax,
		Params:   params,
		Body:     body,
		parallel: true,
	}
	for _, p := range params {
		if p.Direction == DirOutput && p.scatter != nil && !distinct(p.scatter) {
			ek.parallel = false
		}
	}
	return
}

// Rename retags a param, the mechanism fused kernels use to keep
// per-pass inputs distinct while sharing one accumulation target.
func (ek *ElementKernel) Rename(from, to string) *ElementKernel {
	for _, p := range ek.Params {
		if p.Name == from {
			p.Name = to
			return ek
		}
	}
	panic(fmt.Errorf("kernel %s has no param %s to rename", ek.Name, from))
}

func distinct(I utils.Index) bool {
	if len(I) < 2 {
		return true
	}
	seen := make([]bool, I.Max()+1)
	for _, i := range I {
		if seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

func sameData(a, b utils.Matrix) bool {
	if len(a.DataP) == 0 || len(b.DataP) == 0 {
		return false
	}
	return &a.DataP[0] == &b.DataP[0]
}

// FusedKernel executes passes strictly in definition order: pass i+1
// observes every write of pass i, which is what makes accumulation from
// overlapping batches into one buffer well defined. Passes stay
// internally parallel where their write footprints allow.
type FusedKernel struct {
	Name   string
	Passes []*ElementKernel
}

// FuseKernels composes passes over one shared output. Params carrying
// the same name across passes must be outputs bound to the same buffer;
// anything else is a naming collision the caller should Rename away.
func FuseKernels(name string, passes ...*ElementKernel) (fk *FusedKernel, err error) {
	byName := make(map[string]*Param)
	for _, pass := range passes {
		for _, p := range pass.Params {
			prev, ok := byName[p.Name]
			if !ok {
				byName[p.Name] = p
				continue
			}
			if p.Direction != DirOutput || prev.Direction != DirOutput || !sameData(p.M, prev.M) {
				return nil, fmt.Errorf("fusing %s: conflicting binding for param %s", name, p.Name)
			}
		}
	}
	return &FusedKernel{Name: name, Passes: passes}, nil
}

// RunKernel executes the passes of one fused kernel in order
func (ctx *Context) RunKernel(fk *FusedKernel) {
	for _, pass := range fk.Passes {
		ctx.runPass(pass)
	}
}

// RunKernels executes independent fused kernels concurrently. Callers
// guarantee the kernels share no output buffers.
func (ctx *Context) RunKernels(fks ...*FusedKernel) {
	if len(fks) == 1 {
		ctx.RunKernel(fks[0])
		return
	}
	wg := sync.WaitGroup{}
	for _, fk := range fks {
		wg.Add(1)
		go func(fk *FusedKernel) {
			ctx.RunKernel(fk)
			wg.Done()
		}(fk)
	}
	wg.Wait()
}

func (ctx *Context) runPass(ek *ElementKernel) {
	if ek.KMax == 0 {
		return
	}
	np := ctx.ParallelDegree
	if !ek.parallel || np > ek.KMax {
		np = 1
	}
	if np <= 1 {
		ek.Body(0, ek.KMax)
		return
	}
	pm := utils.NewPartitionMap(np, ek.KMax)
	wg := sync.WaitGroup{}
	for n := 0; n < np; n++ {
		wg.Add(1)
		go func(n int) {
			kMin, kMax := pm.GetBucketRange(n)
			ek.Body(kMin, kMax)
			wg.Done()
		}(n)
	}
	wg.Wait()
}
