package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparse(t *testing.T) {
	{ // DOK assembly and CSR conversion
		d := NewDOK(3, 4)
		d.Set(0, 0, 1)
		d.Set(0, 3, 2)
		d.Set(1, 1, 3)
		d.Set(2, 2, -1)
		d.Set(2, 2, 4) // overwrite, not accumulate
		assert.Equal(t, 4, d.NNZ())
		c := d.ToCSR()
		nr, nc := c.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 4, nc)
		assert.Equal(t, 4., c.At(2, 2))
		assert.Equal(t, 0., c.At(1, 0))
	}
	{ // CSR matrix-vector product against dense arithmetic
		d := NewDOK(2, 3)
		d.Set(0, 0, 1)
		d.Set(0, 2, 2)
		d.Set(1, 1, -3)
		c := d.ToCSR()
		y := c.MulVec([]float64{1, 2, 3})
		assert.InDeltaSlice(t, []float64{7, -6}, y, 1.e-14)
		assert.Panics(t, func() { c.MulVec([]float64{1, 2}) })
	}
	{ // Read-only freeze
		d := NewDOK(2, 2)
		d.Set(0, 0, 1)
		d.SetReadOnly("frozen")
		assert.Panics(t, func() { d.Set(1, 1, 2) })
	}
}
