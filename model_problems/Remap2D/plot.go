package Remap2D

import (
	"fmt"
	"time"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/geometry"
	avsUtils "github.com/notargets/avs/utils"

	"github.com/notargets/DGTransfer/runner"
	"github.com/notargets/DGTransfer/utils"
)

type PlotMeta struct {
	Plot                 bool
	Scale                float64
	FieldMinP, FieldMaxP *float64
	FrameTime            time.Duration
}

// MakePlotMesh converts a mesh level into the AVS plotting geometry
func (c *Remap) MakePlotMesh(level int) (tMesh geometry.TriMesh) {
	var (
		m = c.Meshes[level]
	)
	tMesh = geometry.TriMesh{
		XY:       make([]float32, 2*m.VX.Len()),
		TriVerts: make([][3]int64, m.K),
	}
	for i, x := range m.VX.DataP {
		y := m.VY.DataP[i]
		tMesh.XY[2*i] = float32(x)
		tMesh.XY[2*i+1] = float32(y)
	}
	for k := 0; k < m.K; k++ {
		for n := 0; n < 3; n++ {
			tMesh.TriVerts[k][n] = int64(m.EToV.At(k, n))
		}
	}
	return
}

// VertexField samples the interpolant of f at the triangle corners and
// averages the samples shared by neighboring triangles at each mesh
// vertex, producing the per-vertex scalar the plotter shades with
func (c *Remap) VertexField(f *runner.DOFArray, level int) (vf []float32) {
	var (
		m  = c.Meshes[level]
		g  = c.Discrs[level].Groups[0]
		nv = m.VX.Len()
	)
	vertRS := utils.NewMatrix(2, 3, []float64{-1, 1, -1, -1, -1, 1})
	sampler := g.Basis.Vandermonde(vertRS).Mul(g.Vinv)
	vals := sampler.Mul(f.Data[0]) // 3 x K corner values
	sum := make([]float64, nv)
	cnt := make([]float64, nv)
	for k := 0; k < m.K; k++ {
		for n := 0; n < 3; n++ {
			iv := int(m.EToV.At(k, n))
			sum[iv] += vals.At(n, k)
			cnt[iv]++
		}
	}
	vf = make([]float32, nv)
	for i := range vf {
		vf[i] = float32(sum[i] / cnt[i])
	}
	return
}

// PlotField opens a chart window shading f over its mesh level
func (c *Remap) PlotField(title string, f *runner.DOFArray, level int, pm *PlotMeta) {
	var (
		m = c.Meshes[level]
	)
	pMesh := c.MakePlotMesh(level)
	field := c.VertexField(f, level)
	fMin, fMax := getFieldMinMax32(field)
	if pm.FieldMinP != nil {
		fMin = float32(*pm.FieldMinP)
	}
	if pm.FieldMaxP != nil {
		fMax = float32(*pm.FieldMaxP)
	}
	xMin, xMax, yMin, yMax := getSquareBoundingBox(float32(m.VX.Min()),
		float32(m.VX.Max()), float32(m.VY.Min()), float32(m.VY.Max()))
	if pm.Scale != 0 {
		s := float32(pm.Scale)
		xc, yc := 0.5*(xMin+xMax), 0.5*(yMin+yMax)
		hx, hy := 0.5*(xMax-xMin)*s, 0.5*(yMax-yMin)*s
		xMin, xMax = xc-hx, xc+hx
		yMin, yMax = yc-hy, yc+hy
	}
	ch := chart2d.NewChart2D(xMin, xMax, yMin, yMax, 1920, 1080,
		avsUtils.WHITE, avsUtils.BLACK, 0.9)
	fmt.Printf("%s: fMin: %f, fMax: %f\n", title, fMin, fMax)
	vs := geometry.VertexScalar{
		TMesh:       &pMesh,
		FieldValues: field,
	}
	ch.AddShadedVertexScalar(&vs, fMin, fMax)
	ch.AddTriMesh(pMesh)
	time.Sleep(pm.FrameTime)
}

func getFieldMinMax32(field []float32) (fMin, fMax float32) {
	for i, f := range field {
		if i == 0 {
			fMin = f
			fMax = f
		}
		if f < fMin {
			fMin = f
		}
		if f > fMax {
			fMax = f
		}
	}
	return
}

func getSquareBoundingBox(xMin, xMax, yMin, yMax float32) (xBMin,
	xBMax, yBMin, yBMax float32) {
	xRange := xMax - xMin
	yRange := yMax - yMin
	if yRange > xRange {
		yBMin = yMin
		yBMax = yMax
		xCent := xRange/2. + xMin
		xBMin = xCent - yRange/2.
		xBMax = xCent + yRange/2.
	} else {
		xBMin = xMin
		xBMax = xMax
		yCent := yRange/2. + yMin
		yBMin = yCent - xRange/2.
		yBMax = yCent + xRange/2.
	}
	return
}
