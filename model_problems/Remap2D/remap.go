package Remap2D

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/notargets/DGTransfer/InputParameters"
	"github.com/notargets/DGTransfer/connection"
	"github.com/notargets/DGTransfer/discretization"
	"github.com/notargets/DGTransfer/runner"
	"github.com/notargets/DGTransfer/utils"
)

type InitType uint8

const (
	GAUSS InitType = iota
	SINE
	QUADRATIC
)

var (
	InitNames = map[string]InitType{
		"gauss":     GAUSS,
		"sine":      SINE,
		"quadratic": QUADRATIC,
	}
	InitPrintNames = []string{"Gaussian Bump", "Sine Product", "Quadratic Polynomial"}
)

func NewInitType(label string) (it InitType, err error) {
	var (
		ok bool
	)
	if len(label) == 0 {
		return it, fmt.Errorf("empty init type, must be one of %v", InitNames)
	}
	if it, ok = InitNames[strings.ToLower(label)]; !ok {
		return it, fmt.Errorf("unable to use init type named %s", label)
	}
	return
}

func (it InitType) Eval(x, y float64) (f float64) {
	switch it {
	case GAUSS:
		dx, dy := x-0.5, y-0.5
		f = math.Exp(-20 * (dx*dx + dy*dy))
	case SINE:
		f = math.Sin(math.Pi*x) * math.Sin(math.Pi*y)
	case QUADRATIC:
		f = 1 + 2*x - 3*y + x*x + x*y - 2*y*y
	}
	return
}

// Remap is the unit square transfer model problem: a base triangular
// discretization, a chain of uniform refinements of it, the forward
// interpolation onto the finest level and its L2 projection inverse
// back onto the base.
type Remap struct {
	Params  *InputParameters.RemapParameters
	Ctx     *runner.Context
	Init    InitType
	Meshes  []*TriMesh                       // level 0 is the base grid
	Discrs  []*discretization.Discretization // one per mesh level
	X, Y    []utils.Matrix                   // physical node coordinates per level
	Forward *connection.ChainedConnection
	Inverse connection.Connection
}

func NewRemap(rp *InputParameters.RemapParameters) (c *Remap, err error) {
	var (
		N      = rp.PolynomialOrder
		levels = rp.RefineLevels
		grp    *discretization.ElementGroup
	)
	if rp.MeshSize < 1 {
		return nil, fmt.Errorf("mesh size %d, need at least one cell per side", rp.MeshSize)
	}
	if levels < 0 {
		return nil, fmt.Errorf("negative refinement level count %d", levels)
	}
	c = &Remap{
		Params: rp,
		Ctx:    runner.NewContext(rp.ParallelDegree),
	}
	if c.Init, err = NewInitType(rp.InitType); err != nil {
		return nil, err
	}
	mesh := NewUnitSquareMesh(rp.MeshSize)
	switch strings.ToLower(rp.NodeType) {
	case "cubature", "":
		grp, err = discretization.NewCubatureGroup2D(N, mesh.K)
	case "warpblend":
		grp, err = discretization.NewWarpBlendGroup2D(N, mesh.K)
	default:
		err = fmt.Errorf("unable to use node type named %s", rp.NodeType)
	}
	if err != nil {
		return nil, err
	}
	d, err := discretization.NewDiscretization(grp)
	if err != nil {
		return nil, err
	}
	c.Meshes = append(c.Meshes, mesh)
	c.Discrs = append(c.Discrs, d)
	links := make([]connection.Connection, 0, levels)
	for l := 1; l <= levels; l++ {
		mesh = mesh.Refine()
		if d, err = d.Refine(); err != nil {
			return nil, err
		}
		c.Meshes = append(c.Meshes, mesh)
		c.Discrs = append(c.Discrs, d)
		var link *connection.DirectConnection
		if link, err = connection.NewRefinementConnection(c.Discrs[l-1], c.Discrs[l]); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if c.Forward, err = connection.NewChainedConnection(links, c.Discrs[0]); err != nil {
		return nil, err
	}
	if c.Inverse, err = connection.NewInverse(connection.ForwardChain(c.Forward), false); err != nil {
		return nil, err
	}
	for l, m := range c.Meshes {
		g := c.Discrs[l].Groups[0]
		X, Y := m.NodalGeometry(g.RS.Row(0), g.RS.Row(1))
		X.SetReadOnly(fmt.Sprintf("X[%d]", l))
		Y.SetReadOnly(fmt.Sprintf("Y[%d]", l))
		c.X = append(c.X, X)
		c.Y = append(c.Y, Y)
	}
	return
}

// InitializeField samples the configured field at the physical nodes of
// the base discretization
func (c *Remap) InitializeField() (f *runner.DOFArray) {
	var (
		X, Y = c.X[0], c.Y[0]
	)
	f = c.Ctx.FromFunc(c.Discrs[0], func(igrp, k, i int) float64 {
		return c.Init.Eval(X.At(i, k), Y.At(i, k))
	})
	return
}

// FieldError measures f on level against the analytic field at the
// level's physical nodes
func (c *Remap) FieldError(f *runner.DOFArray, level int) (maxErr, rmsErr float64) {
	var (
		X, Y = c.X[level], c.Y[level]
		g    = c.Discrs[level].Groups[0]
		d    = f.Data[0]
		sum  float64
	)
	for k := 0; k < g.K; k++ {
		for i := 0; i < g.Np; i++ {
			e := math.Abs(d.At(i, k) - c.Init.Eval(X.At(i, k), Y.At(i, k)))
			if e > maxErr {
				maxErr = e
			}
			sum += e * e
		}
	}
	rmsErr = math.Sqrt(sum / float64(g.K*g.Np))
	return
}

func fieldDifference(a, b *runner.DOFArray) (maxErr, rmsErr float64) {
	var (
		n   int
		sum float64
	)
	for igrp, ma := range a.Data {
		diff := ma.Copy().Subtract(b.Data[igrp]).Apply(math.Abs)
		if m := diff.Max(); m > maxErr {
			maxErr = m
		}
		for _, e := range diff.DataP {
			sum += e * e
		}
		n += len(diff.DataP)
	}
	rmsErr = math.Sqrt(sum / float64(n))
	return
}

// Run interpolates the field up the refinement chain, projects it back
// down and reports transfer times and errors
func (c *Remap) Run(pm *PlotMeta) (err error) {
	var (
		fine   = len(c.Discrs) - 1
		coarse = c.Discrs[0]
	)
	fmt.Printf("Field: %s\n", InitPrintNames[c.Init])
	fmt.Printf("Base grid: %d triangles, Np = %d, %d DOFs\n",
		coarse.Groups[0].K, coarse.Groups[0].Np, coarse.NNodes())
	fmt.Printf("Fine grid: %d triangles after %d refinements, %d DOFs\n",
		c.Discrs[fine].Groups[0].K, fine, c.Discrs[fine].NNodes())

	f0 := c.InitializeField()

	start := time.Now()
	out, err := c.Forward.Apply(f0)
	if err != nil {
		return err
	}
	ff := out.(*runner.DOFArray)
	fwdTime := time.Since(start)
	fwdMax, fwdRMS := c.FieldError(ff, fine)
	fmt.Printf("Forward interpolation: %v, error vs analytic max %8.3e, rms %8.3e\n",
		fwdTime, fwdMax, fwdRMS)

	start = time.Now()
	if out, err = c.Inverse.Apply(ff); err != nil {
		return err
	}
	fb := out.(*runner.DOFArray)
	invTime := time.Since(start)
	rtMax, rtRMS := fieldDifference(f0, fb)
	fmt.Printf("L2 projection return:  %v, round trip max %8.3e, rms %8.3e\n",
		invTime, rtMax, rtRMS)

	if fine > 0 {
		link := c.Forward.Links[0].(*connection.DirectConnection)
		R := link.ResampleMatrix(c.Ctx)
		nr, nc := R.Dims()
		fmt.Printf("Level 0->1 resample operator: %d x %d, %d nonzeros, %5.2f%% dense\n",
			nr, nc, R.NNZ(), 100*float64(R.NNZ())/float64(nr*nc))
	}
	nw, nm, nv := c.Ctx.Stats()
	fmt.Printf("Cached: %d weight vectors, %d operator matrices, %d Vandermonde evaluations\n",
		nw, nm, nv)

	if pm != nil && pm.Plot {
		c.PlotField("source", f0, 0, pm)
		c.PlotField("refined", ff, fine, pm)
		c.PlotField("recovered", fb, 0, pm)
	}
	return
}
