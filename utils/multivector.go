package utils

import (
	"fmt"
	"math"
	"math/bits"
)

/*
MultiVector implements the small slice of exterior algebra needed to form
generalized Jacobian determinants: grade-1 vectors, wedge products, and the
top grade ("pseudoscalar") coefficient. Blades are keyed by a bitmask over
the basis vectors e_0..e_{Dim-1}, so the blade e_0^e_2 in 3 dimensions is
stored under mask 0b101.
*/
type MultiVector struct {
	Dim    int
	Blades map[uint]float64
}

func NewMultiVector(dim int) (mv MultiVector) {
	if dim < 1 || dim > 8 {
		err := fmt.Errorf("unsupported dimension for multivector: %d", dim)
		panic(err)
	}
	mv = MultiVector{
		Dim:    dim,
		Blades: make(map[uint]float64),
	}
	return
}

// NewBladeVector builds the grade-1 multivector v[0]*e_0 + v[1]*e_1 + ...
func NewBladeVector(v []float64) (mv MultiVector) {
	mv = NewMultiVector(len(v))
	for i, val := range v {
		if val != 0 {
			mv.Blades[1<<uint(i)] = val
		}
	}
	return
}

func (mv MultiVector) At(mask uint) float64 {
	return mv.Blades[mask]
}

// Wedge forms the exterior product of two multivectors. Blades sharing any
// basis vector annihilate; the merge sign counts the transpositions needed
// to sort the combined basis vector list.
func (mv MultiVector) Wedge(b MultiVector) (R MultiVector) {
	if mv.Dim != b.Dim {
		err := fmt.Errorf("dimension mismatch in wedge product: %d vs %d", mv.Dim, b.Dim)
		panic(err)
	}
	R = NewMultiVector(mv.Dim)
	for aMask, aVal := range mv.Blades {
		for bMask, bVal := range b.Blades {
			if aMask&bMask != 0 {
				continue
			}
			val := aVal * bVal * wedgeSign(aMask, bMask)
			merged := aMask | bMask
			R.Blades[merged] += val
			if R.Blades[merged] == 0 {
				delete(R.Blades, merged)
			}
		}
	}
	return
}

// GradeNorm is the Euclidean norm over the blades of the given grade.
func (mv MultiVector) GradeNorm(grade int) (nrm float64) {
	var sum float64
	for mask, val := range mv.Blades {
		if bits.OnesCount(mask) == grade {
			sum += val * val
		}
	}
	nrm = math.Sqrt(sum)
	return
}

// TopGrade returns the coefficient of the pseudoscalar blade e_0^...^e_{Dim-1}.
func (mv MultiVector) TopGrade() float64 {
	return mv.Blades[uint(1<<uint(mv.Dim))-1]
}

// WedgeDet is the generalized determinant: the magnitude of the wedge of
// dim vectors each of length dim. Vector order only flips the sign, which
// the magnitude discards.
func WedgeDet(vecs ...[]float64) (det float64) {
	var (
		dim = len(vecs)
	)
	mv := NewBladeVector(vecs[0])
	for _, v := range vecs[1:] {
		if len(v) != dim {
			err := fmt.Errorf("wedge determinant needs %d vectors of length %d, got length %d", dim, dim, len(v))
			panic(err)
		}
		mv = mv.Wedge(NewBladeVector(v))
	}
	det = math.Abs(mv.TopGrade())
	return
}

func wedgeSign(aMask, bMask uint) (sign float64) {
	// For each basis vector in b, count the basis vectors of a that must be
	// hopped over to place it in sorted position.
	var swaps int
	for bMask != 0 {
		bit := uint(bits.TrailingZeros(bMask))
		swaps += bits.OnesCount(aMask >> (bit + 1))
		bMask &= bMask - 1
	}
	if swaps%2 == 0 {
		sign = 1
	} else {
		sign = -1
	}
	return
}
