package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a transfer convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	studies := readCSV(csvFile)
	for _, cs := range studies {
		fmt.Printf("Title = %s, Order = %d\n", cs.title, cs.order)
		for i := range cs.meshSize {
			fmt.Printf("%d, %v, %v, %v, %v",
				cs.meshSize[i], cs.fwdRMS[i], cs.fwdMAX[i], cs.rtRMS[i], cs.rtMAX[i])
			if i > 0 {
				fmt.Printf(", observed order = %5.2f",
					observedOrder(cs.meshSize[i-1], cs.meshSize[i], cs.fwdMAX[i-1], cs.fwdMAX[i]))
			}
			fmt.Printf("\n")
		}
	}
}

// observedOrder is the convergence rate of the forward transfer error
// between two grids, using cells per side as inverse mesh width
func observedOrder(n1, n2 int, e1, e2 float64) float64 {
	return math.Log(e1/e2) / math.Log(float64(n2)/float64(n1))
}

type ConvergenceStudy struct {
	title          string
	order          int
	meshSize       []int
	fwdRMS, fwdMAX []float64
	rtRMS, rtMAX   []float64
}

func NewConvergenceStudy(title string, order int) *ConvergenceStudy {
	return &ConvergenceStudy{
		title: title,
		order: order,
	}
}

func (cs *ConvergenceStudy) Add(meshSize int, fwdRMS, fwdMAX, rtRMS, rtMAX float64) {
	cs.meshSize = append(cs.meshSize, meshSize)
	cs.fwdRMS = append(cs.fwdRMS, fwdRMS)
	cs.fwdMAX = append(cs.fwdMAX, fwdMAX)
	cs.rtRMS = append(cs.rtRMS, rtRMS)
	cs.rtMAX = append(cs.rtMAX, rtMAX)
}

func readCSV(csvFile string) (studies map[string]*ConvergenceStudy) {
	var (
		records                      [][]string
		err                          error
		f                            *os.File
		ok                           bool
		cs                           *ConvergenceStudy
		fwdRMS, fwdMAX, rtRMS, rtMAX float64
	)
	studies = make(map[string]*ConvergenceStudy)
	if f, err = os.Open(csvFile); err != nil {
		panic(err)
	}
	r := csv.NewReader(bufio.NewReader(f))
	if records, err = r.ReadAll(); err != nil {
		panic(err)
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		title, sizetxt, ntxt := rec[0], rec[1], rec[2]
		n, _ := strconv.Atoi(ntxt)
		size, _ := strconv.Atoi(sizetxt)
		combTitle := title + ntxt
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, n)
			studies[combTitle] = cs
		}
		_, _ = fmt.Sscanf(rec[3], "%f", &fwdRMS)
		_, _ = fmt.Sscanf(rec[4], "%f", &fwdMAX)
		_, _ = fmt.Sscanf(rec[5], "%f", &rtRMS)
		_, _ = fmt.Sscanf(rec[6], "%f", &rtMAX)
		cs.Add(size, fwdRMS, fwdMAX, rtRMS, rtMAX)
	}
	return
}
