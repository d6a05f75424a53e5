package cmd

import (
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/notargets/DGTransfer/InputParameters"
)

func TestRemapInput(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Remap
PolynomialOrder: 3
MeshSize: 8
RefineLevels: 2
ParallelDegree: 4
NodeType: WarpBlend # Can be Cubature
InitType: Sine
Graph: false
`)
	var input InputParameters.RemapParameters
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, input.PolynomialOrder, 3)
	assert.Equal(t, input.MeshSize, 8)
	assert.Equal(t, input.RefineLevels, 2)
	assert.Equal(t, input.ParallelDegree, 4)
	assert.Equal(t, input.NodeType, "WarpBlend")
	input.Print()
	assert.Equal(t, input.InitType, "Sine")
}

func TestRemapFlagOverrides(t *testing.T) {
	mr := &ModelRemap{}
	rp := processRemapInput(mr, RemapCmd)
	assert.Equal(t, rp.PolynomialOrder, 2)
	assert.Equal(t, rp.MeshSize, 4)
	if err := RemapCmd.Flags().Set("n", "1"); err != nil {
		panic(err)
	}
	if err := RemapCmd.Flags().Set("refine", "3"); err != nil {
		panic(err)
	}
	rp = processRemapInput(mr, RemapCmd)
	assert.Equal(t, rp.PolynomialOrder, 1)
	assert.Equal(t, rp.RefineLevels, 3)
	assert.Equal(t, rp.MeshSize, 4)
}
