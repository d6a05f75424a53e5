package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V        *mat.VecDense
	DataP    []float64
	readOnly bool
	name     string
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v\n", n, len(dataO[0]))
			panic(err)
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	R = Vector{
		V:     v,
		DataP: v.RawVector().Data,
		name:  "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }
func (v Vector) Data() []float64          { return v.DataP }

// Chainable (extended) methods
func (v *Vector) SetReadOnly(name ...string) Vector {
	if len(name) != 0 {
		v.name = name[0]
	}
	v.readOnly = true
	return *v
}

func (v *Vector) SetWritable() Vector {
	v.readOnly = false
	return *v
}

func (v Vector) Copy() (R Vector) { // Does not change receiver
	var (
		dataR = make([]float64, v.Len())
	)
	copy(dataR, v.DataP)
	R = NewVector(v.Len(), dataR)
	return
}

func (v Vector) Set(val float64) Vector { // Changes receiver
	v.checkWritable()
	for i := range v.DataP {
		v.DataP[i] = val
	}
	return v
}

func (v Vector) Linspace(xmin, xmax float64) Vector { // Changes receiver
	v.checkWritable()
	copy(v.DataP, Linspace(xmin, xmax, v.Len()))
	return v
}

func (v Vector) Add(a Vector) Vector { // Changes receiver
	v.checkWritable()
	for i, val := range a.DataP {
		v.DataP[i] += val
	}
	return v
}

func (v Vector) Subtract(a Vector) Vector { // Changes receiver
	v.checkWritable()
	for i, val := range a.DataP {
		v.DataP[i] -= val
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector { // Changes receiver
	v.checkWritable()
	for i := range v.DataP {
		v.DataP[i] += a
	}
	return v
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	v.checkWritable()
	for i := range v.DataP {
		v.DataP[i] *= a
	}
	return v
}

func (v Vector) ElMul(a Vector) Vector { // Changes receiver
	v.checkWritable()
	for i, val := range a.DataP {
		v.DataP[i] *= val
	}
	return v
}

func (v Vector) ElDiv(a Vector) Vector { // Changes receiver
	v.checkWritable()
	for i, val := range a.DataP {
		v.DataP[i] /= val
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector { // Changes receiver
	v.checkWritable()
	for i, val := range v.DataP {
		v.DataP[i] = f(val)
	}
	return v
}

func (v Vector) POW(p int) Vector { // Changes receiver
	v.checkWritable()
	for i, val := range v.DataP {
		v.DataP[i] = POW(val, p)
	}
	return v
}

func (v Vector) ToMatrix() (R Matrix) {
	R = NewMatrix(v.Len(), 1, v.Copy().DataP)
	return
}

// Non chainable methods
func (v Vector) Min() (min float64) {
	min = v.DataP[0]
	for _, val := range v.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	max = v.DataP[0]
	for _, val := range v.DataP {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) Sum() (sum float64) {
	for _, val := range v.DataP {
		sum += val
	}
	return
}

func (v Vector) Outer(a Vector) (R Matrix) {
	var (
		nr, nc = v.Len(), a.Len()
	)
	R = NewMatrix(nr, nc)
	for j := 0; j < nc; j++ {
		aVal := a.DataP[j]
		for i := 0; i < nr; i++ {
			R.DataP[j+i*nc] = v.DataP[i] * aVal
		}
	}
	return
}

func (v Vector) SubsetIndex(I Index) (R Vector) {
	R = NewVector(len(I))
	for i, ind := range I {
		R.DataP[i] = v.DataP[ind]
	}
	return
}

func (v Vector) ToIndex() (I Index) {
	I = make(Index, v.Len())
	for i, val := range v.DataP {
		I[i] = int(val)
	}
	return
}

func (v Vector) checkWritable() {
	if v.readOnly {
		err := fmt.Errorf("attempt to write to a read only vector named: \"%v\"", v.name)
		panic(err)
	}
}
