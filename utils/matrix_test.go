package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	// Transpose
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		mNr, mNc := M.Dims()
		A := M.Transpose()
		aNr, aNc := A.Dims()
		assert.Equal(t, aNc, mNr)
		assert.Equal(t, aNr, mNc)
		assert.Equal(t, A.RawMatrix().Data, []float64{1, 4, 2, 5, 3, 6})
	}
	// SliceRows
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		I := NewIndex(2)
		I[0] = 1
		I[1] = 0
		A := M.SliceRows(I)
		assert.Equal(t, A, NewMatrix(2, 3, []float64{
			4, 5, 6,
			1, 2, 3,
		}))
	}
	// SliceCols
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		I := NewIndex(2)
		I[0] = 1
		I[1] = 0
		A := M.SliceCols(I)
		assert.Equal(t, A, NewMatrix(2, 2, []float64{
			2, 1,
			5, 4,
		}))
	}
	// AssignColumns scatters sequential columns of A into M
	{
		M := NewMatrix(2, 3)
		A := NewMatrix(2, 2, []float64{
			1, 2,
			3, 4,
		})
		M.AssignColumns(Index{2, 0}, A)
		assert.Equal(t, M, NewMatrix(2, 3, []float64{
			2, 0, 1,
			4, 0, 3,
		}))
	}
	// Mul
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		A := M.Mul(M.Transpose())
		assert.Equal(t, A, NewMatrix(2, 2, []float64{
			14, 32,
			32, 77,
		}))
	}
	// Inverse
	{
		M := NewMatrix(2, 2, []float64{
			4, 7,
			2, 6,
		})
		Minv, err := M.Inverse()
		assert.NoError(t, err)
		I := M.Mul(Minv)
		assert.InDeltaf(t, 1, I.At(0, 0), 1.e-12, "")
		assert.InDeltaf(t, 0, I.At(0, 1), 1.e-12, "")
		assert.InDeltaf(t, 0, I.At(1, 0), 1.e-12, "")
		assert.InDeltaf(t, 1, I.At(1, 1), 1.e-12, "")
	}
	// LUSolve
	{
		A := NewMatrix(2, 2, []float64{
			3, 1,
			1, 2,
		})
		B := NewMatrix(2, 1, []float64{9, 8})
		X := A.LUSolve(B)
		assert.InDeltaf(t, 2, X.At(0, 0), 1.e-12, "")
		assert.InDeltaf(t, 3, X.At(1, 0), 1.e-12, "")
	}
	// Chainable arithmetic
	{
		M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		M.AddScalar(-1).POW(2)
		assert.Equal(t, []float64{0, 1, 4, 9}, M.DataP)
		assert.Equal(t, 0., M.Min())
		assert.Equal(t, 9., M.Max())
	}
	// ReadOnly protection
	{
		M := NewMatrix(2, 2)
		M.SetReadOnly("M")
		assert.Panics(t, func() { M.Set(0, 0, 1) })
		M.SetWritable()
		assert.NotPanics(t, func() { M.Set(0, 0, 1) })
	}
}

func TestVector(t *testing.T) {
	// Chained construction
	{
		V := NewVector(3).Linspace(-1, 1)
		assert.Equal(t, []float64{-1, 0, 1}, V.DataP)
		V.AddScalar(1).Scale(2)
		assert.Equal(t, []float64{0, 2, 4}, V.DataP)
	}
	// Subtract, ElMul, ElDiv
	{
		A := NewVector(3, []float64{1, 2, 3})
		B := NewVector(3, []float64{3, 2, 1})
		C := A.Copy().Subtract(B)
		assert.Equal(t, []float64{-2, 0, 2}, C.DataP)
		D := A.Copy().ElMul(B)
		assert.Equal(t, []float64{3, 4, 3}, D.DataP)
		assert.Equal(t, 10., D.Sum())
		D.ElDiv(B)
		assert.Equal(t, A.DataP, D.DataP)
	}
	// ReadOnly protection
	{
		V := NewVector(2, []float64{1, 2})
		V.SetReadOnly("V")
		assert.Panics(t, func() { V.Scale(2) })
		V.SetWritable()
		assert.NotPanics(t, func() { V.Scale(2) })
	}
}
