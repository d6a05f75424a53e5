package Remap2D

import (
	"github.com/notargets/DGTransfer/types"
	"github.com/notargets/DGTransfer/utils"
)

// TriMesh is a triangulation given by vertex coordinates and a K x 3
// element to vertex table with counterclockwise winding
type TriMesh struct {
	K      int
	VX, VY utils.Vector
	EToV   utils.Matrix
}

// NewUnitSquareMesh grids the unit square with n x n cells, each cell
// split into two triangles along its rising diagonal
func NewUnitSquareMesh(n int) (tm *TriMesh) {
	var (
		nd = n + 1
		vx = make([]float64, nd*nd)
		vy = make([]float64, nd*nd)
		h  = 1. / float64(n)
	)
	for j := 0; j < nd; j++ {
		for i := 0; i < nd; i++ {
			vx[i+j*nd] = float64(i) * h
			vy[i+j*nd] = float64(j) * h
		}
	}
	K := 2 * n * n
	EToV := utils.NewMatrix(K, 3)
	var k int
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v00 := i + j*nd // Cell corners
			v10 := v00 + 1
			v01 := v00 + nd
			v11 := v01 + 1
			EToV.Set(k, 0, float64(v00))
			EToV.Set(k, 1, float64(v10))
			EToV.Set(k, 2, float64(v01))
			k++
			EToV.Set(k, 0, float64(v10))
			EToV.Set(k, 1, float64(v11))
			EToV.Set(k, 2, float64(v01))
			k++
		}
	}
	tm = &TriMesh{
		K:    K,
		VX:   utils.NewVector(nd*nd, vx),
		VY:   utils.NewVector(nd*nd, vy),
		EToV: EToV,
	}
	return
}

// Refine splits every triangle into four congruent children at its edge
// midpoints, deduplicating shared midpoint vertices. Children 4k..4k+3
// of parent k are the three corner triangles followed by the center
// triangle, with vertex order matching the reference element splitting
// used by connection.NewRefinementConnection, so fine mesh nodal
// geometry coincides with the parent's image of the reference child
// nodes.
func (tm *TriMesh) Refine() (fine *TriMesh) {
	var (
		vx   = append([]float64{}, tm.VX.DataP...)
		vy   = append([]float64{}, tm.VY.DataP...)
		mids = make(map[types.EdgeKey]int)
	)
	midpoint := func(a, b int) int {
		key := types.NewEdgeKey(a, b)
		if m, ok := mids[key]; ok {
			return m
		}
		vx = append(vx, 0.5*(vx[a]+vx[b]))
		vy = append(vy, 0.5*(vy[a]+vy[b]))
		mids[key] = len(vx) - 1
		return len(vx) - 1
	}
	EToV := utils.NewMatrix(4*tm.K, 3)
	for k := 0; k < tm.K; k++ {
		v1 := int(tm.EToV.At(k, 0))
		v2 := int(tm.EToV.At(k, 1))
		v3 := int(tm.EToV.At(k, 2))
		m12, m23, m31 := midpoint(v1, v2), midpoint(v2, v3), midpoint(v3, v1)
		children := [4][3]int{
			{v1, m12, m31},
			{m12, v2, m23},
			{m31, m23, v3},
			{m23, m31, m12},
		}
		for c, cv := range children {
			for n := 0; n < 3; n++ {
				EToV.Set(4*k+c, n, float64(cv[n]))
			}
		}
	}
	fine = &TriMesh{
		K:    4 * tm.K,
		VX:   utils.NewVector(len(vx), vx),
		VY:   utils.NewVector(len(vy), vy),
		EToV: EToV,
	}
	return
}

// NodalGeometry transforms reference nodes [R,S] into element local
// [X,Y] coordinates for every triangle of the mesh
func (tm *TriMesh) NodalGeometry(R, S utils.Vector) (X, Y utils.Matrix) {
	va, vb, vc := tm.EToV.Col(0), tm.EToV.Col(1), tm.EToV.Col(2)
	X = R.Copy().Add(S).Scale(-1).Outer(tm.VX.SubsetIndex(va.ToIndex())).Add(
		R.Copy().AddScalar(1).Outer(tm.VX.SubsetIndex(vb.ToIndex()))).Add(
		S.Copy().AddScalar(1).Outer(tm.VX.SubsetIndex(vc.ToIndex()))).Scale(0.5)
	Y = R.Copy().Add(S).Scale(-1).Outer(tm.VY.SubsetIndex(va.ToIndex())).Add(
		R.Copy().AddScalar(1).Outer(tm.VY.SubsetIndex(vb.ToIndex()))).Add(
		S.Copy().AddScalar(1).Outer(tm.VY.SubsetIndex(vc.ToIndex()))).Scale(0.5)
	return
}
