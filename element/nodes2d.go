package element

import (
	"fmt"
	"math"

	"github.com/notargets/DGTransfer/utils"
)

// Purpose  : Compute (x,y) nodes in equilateral triangle for
//            polynomial of order N
func Nodes2D(N int) (x, y utils.Vector) {
	var (
		alpha                                                               float64
		Np                                                                  = (N + 1) * (N + 2) / 2
		L1, L2, L3                                                          utils.Vector
		blend1, blend2, blend3, warp1, warp2, warp3, warpf1, warpf2, warpf3 []float64
	)
	L1, L2, L3, x, y =
		utils.NewVector(Np), utils.NewVector(Np), utils.NewVector(Np), utils.NewVector(Np), utils.NewVector(Np)
	l1d, l2d, l3d, xd, yd := L1.DataP, L2.DataP, L3.DataP, x.DataP, y.DataP
	blend1, blend2, blend3, warp1, warp2, warp3 =
		make([]float64, Np), make([]float64, Np), make([]float64, Np), make([]float64, Np), make([]float64, Np), make([]float64, Np)

	alpopt := []float64{
		0.0000, 0.0000, 1.4152, 0.1001, 0.2751,
		0.9800, 1.0999, 1.2832, 1.3648, 1.4773,
		1.4959, 1.5743, 1.5770, 1.6223, 1.6258,
	}
	if N < 16 {
		alpha = alpopt[N-1]
	} else {
		alpha = 5. / 3.
	}
	// Create equidistributed nodes on equilateral triangle
	fn := 1. / float64(N)
	var sk int
	for n := 0; n < N+1; n++ {
		for m := 0; m < (N + 1 - n); m++ {
			l1d[sk] = float64(n) * fn
			l3d[sk] = float64(m) * fn
			sk++
		}
	}
	for i := range xd {
		l2d[i] = 1 - l1d[i] - l3d[i]
		xd[i] = l3d[i] - l2d[i]
		yd[i] = (2*l1d[i] - l3d[i] - l2d[i]) / math.Sqrt(3)
		// Compute blending function at each node for each edge
		blend1[i] = 4 * l2d[i] * l3d[i]
		blend2[i] = 4 * l1d[i] * l3d[i]
		blend3[i] = 4 * l1d[i] * l2d[i]
	}
	// Amount of warp for each node, for each edge
	warpf1 = Warpfactor(N, L3.Copy().Subtract(L2))
	warpf2 = Warpfactor(N, L1.Copy().Subtract(L3))
	warpf3 = Warpfactor(N, L2.Copy().Subtract(L1))
	// Combine blend & warp
	for i := range warpf1 {
		warp1[i] = blend1[i] * warpf1[i] * (1 + utils.POW(alpha*l1d[i], 2))
		warp2[i] = blend2[i] * warpf2[i] * (1 + utils.POW(alpha*l2d[i], 2))
		warp3[i] = blend3[i] * warpf3[i] * (1 + utils.POW(alpha*l3d[i], 2))
	}
	// Accumulate deformations associated with each edge
	for i := range xd {
		xd[i] += warp1[i] + math.Cos(2*math.Pi/3)*warp2[i] + math.Cos(4*math.Pi/3)*warp3[i]
		yd[i] += math.Sin(2*math.Pi/3)*warp2[i] + math.Sin(4*math.Pi/3)*warp3[i]
	}
	return
}

func Warpfactor(N int, rout utils.Vector) (warpF []float64) {
	var (
		Nr   = rout.Len()
		Pmat = utils.NewMatrix(N+1, Nr)
	)
	// Compute LGL and equidistant node distribution
	LGLr := JacobiGL(0, 0, N)
	req := utils.NewVector(N+1).Linspace(-1, 1)
	Veq := Vandermonde1D(N, req)
	// Evaluate Lagrange polynomial at rout
	for i := 0; i < (N + 1); i++ {
		Pmat.SetRow(i, JacobiP(rout, 0, 0, i))
	}
	Lmat := Veq.Transpose().LUSolve(Pmat)
	// Compute warp factor
	warp := Lmat.Transpose().Mul(LGLr.Subtract(req).ToMatrix())
	// Scale factor
	zerof := rout.Copy().Apply(func(val float64) (res float64) {
		if math.Abs(val) < (1.0 - (1e-10)) {
			res = 1.
		}
		return
	})
	sf := zerof.Copy().ElMul(rout).Apply(func(val float64) (res float64) {
		res = 1 - val*val
		return
	})
	w2 := warp.Copy()
	warp.ElDiv(sf.ToMatrix()).Add(w2.ElMul(zerof.AddScalar(-1).ToMatrix()))
	warpF = warp.DataP
	return
}

// Purpose : Transfer from (x,y) in equilateral triangle
//           to (r,s) coordinates in standard triangle
func XYtoRS(x, y utils.Vector) (r, s utils.Vector) {
	r, s = utils.NewVector(x.Len()), utils.NewVector(x.Len())
	var (
		xd, yd = x.DataP, y.DataP
		rd, sd = r.DataP, s.DataP
	)
	sr3 := math.Sqrt(3)
	for i := range xd {
		l1 := (sr3*yd[i] + 1) / 3
		l2 := (-3*xd[i] - sr3*yd[i] + 2) / 6
		l3 := (3*xd[i] - sr3*yd[i] + 2) / 6
		rd[i] = -l2 + l3 - l1
		sd[i] = -l2 - l3 + l1
	}
	return
}

// Symmetric cubature rules on the reference triangle, exact to degree 2N,
// with node count matching the order N basis dimension so the same point
// set serves for interpolation. Orbits are listed in barycentric
// coordinates (L1, L2, L3) with r = 2*L2-1, s = 2*L3-1; weights sum to
// the reference triangle area of 2. The N=2 rule is Cowper's 6 point,
// degree 4 rule.
var cubatureOrbits2D = map[int][]struct {
	a, b, w float64
}{
	0: {{1. / 3., 1. / 3., 1.}},
	1: {{2. / 3., 1. / 6., 1. / 3.}},
	2: {
		{0.816847572980459, 0.091576213509771, 0.109951743655322},
		{0.108103018168070, 0.445948490915965, 0.223381589678011},
	},
}

// CubatureNodes2D returns the symmetric cubature node set of order N
// along with its weights. Rules are tabulated for N up to 2; higher
// orders fall back to moment fitted warp & blend nodes elsewhere.
func CubatureNodes2D(N int) (R, S, W utils.Vector, err error) {
	orbits, ok := cubatureOrbits2D[N]
	if !ok {
		err = fmt.Errorf("no symmetric cubature rule tabulated for order %d", N)
		return
	}
	var (
		Np = (N + 1) * (N + 2) / 2
		rd = make([]float64, 0, Np)
		sd = make([]float64, 0, Np)
		wd = make([]float64, 0, Np)
	)
	for _, orbit := range orbits {
		var bary [][3]float64
		if orbit.a == orbit.b { // centroid orbit has a single member
			bary = [][3]float64{{orbit.a, orbit.b, orbit.b}}
		} else {
			bary = [][3]float64{
				{orbit.a, orbit.b, orbit.b},
				{orbit.b, orbit.a, orbit.b},
				{orbit.b, orbit.b, orbit.a},
			}
		}
		for _, L := range bary {
			rd = append(rd, 2*L[1]-1)
			sd = append(sd, 2*L[2]-1)
			wd = append(wd, 2*orbit.w) // scale unit weights to area 2
		}
	}
	if len(rd) != Np {
		err = fmt.Errorf("cubature rule for order %d has %d nodes, basis needs %d", N, len(rd), Np)
		return
	}
	R = utils.NewVector(Np, rd)
	S = utils.NewVector(Np, sd)
	W = utils.NewVector(Np, wd)
	return
}
