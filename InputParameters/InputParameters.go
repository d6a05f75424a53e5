package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type RemapParameters struct {
	Title           string `yaml:"Title"`
	PolynomialOrder int    `yaml:"PolynomialOrder"`
	MeshSize        int    `yaml:"MeshSize"`       // Cells per side of the unit square grid
	RefineLevels    int    `yaml:"RefineLevels"`   // Chained 4:1 refinements of the base grid
	ParallelDegree  int    `yaml:"ParallelDegree"` // Goroutines per kernel, 0 selects NumCPU
	NodeType        string `yaml:"NodeType"`       // Unit node family, "Cubature" or "WarpBlend"
	InitType        string `yaml:"InitType"`
	Graph           bool   `yaml:"Graph"`
}

func (rp *RemapParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, rp)
}

func (rp *RemapParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", rp.PolynomialOrder)
	fmt.Printf("[%d]\t\t\t\t= Mesh Size\n", rp.MeshSize)
	fmt.Printf("[%d]\t\t\t\t= Refinement Levels\n", rp.RefineLevels)
	fmt.Printf("[%d]\t\t\t\t= Parallel Degree\n", rp.ParallelDegree)
	fmt.Printf("[%s]\t\t\t= Node Type\n", rp.NodeType)
	fmt.Printf("[%s]\t\t\t= InitType\n", rp.InitType)
}
