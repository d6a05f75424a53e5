/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/notargets/DGTransfer/InputParameters"
	"github.com/notargets/DGTransfer/model_problems/Remap2D"

	"github.com/spf13/cobra"
)

type ModelRemap struct {
	ICFile  string
	Graph   bool
	Delay   time.Duration
	Profile bool
}

// RemapCmd represents the remap command
var RemapCmd = &cobra.Command{
	Use:   "remap",
	Short: "Interpolate a field onto refined grids, then recover it by L2 projection",
	Long: `
Builds a high order triangular discretization of the unit square, interpolates
a smooth field onto uniformly refined copies of it, inverts the transfer by L2
projection and reports timing and round trip error,

dgtransfer remap -n 2 -k 4 -r 2`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("remap called")
		mr := &ModelRemap{}
		if mr.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		mr.Graph, _ = cmd.Flags().GetBool("graph")
		dr, _ := cmd.Flags().GetInt("delay")
		mr.Delay = time.Duration(time.Duration(dr) * time.Millisecond)
		mr.Profile, _ = cmd.Flags().GetBool("profile")
		rp := processRemapInput(mr, cmd)
		RunRemap(mr, rp)
	},
}

func processRemapInput(mr *ModelRemap, cmd *cobra.Command) (rp *InputParameters.RemapParameters) {
	var (
		err error
	)
	rp = &InputParameters.RemapParameters{
		Title:           "Unit Square Remap",
		PolynomialOrder: 2,
		MeshSize:        4,
		RefineLevels:    1,
		NodeType:        "Cubature",
		InitType:        "Gauss",
	}
	if len(mr.ICFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(mr.ICFile); err != nil {
			panic(err)
		}
		if err = rp.Parse(data); err != nil {
			panic(err)
		}
	}
	// Explicit command line flags override the input file
	if cmd.Flags().Changed("n") {
		rp.PolynomialOrder, _ = cmd.Flags().GetInt("n")
	}
	if cmd.Flags().Changed("k") {
		rp.MeshSize, _ = cmd.Flags().GetInt("k")
	}
	if cmd.Flags().Changed("refine") {
		rp.RefineLevels, _ = cmd.Flags().GetInt("refine")
	}
	if cmd.Flags().Changed("parallel") {
		rp.ParallelDegree, _ = cmd.Flags().GetInt("parallel")
	}
	if cmd.Flags().Changed("nodeType") {
		rp.NodeType, _ = cmd.Flags().GetString("nodeType")
	}
	if cmd.Flags().Changed("initType") {
		rp.InitType, _ = cmd.Flags().GetString("initType")
	}
	return
}

func init() {
	rootCmd.AddCommand(RemapCmd)
	RemapCmd.Flags().IntP("n", "n", 2, "polynomial degree")
	RemapCmd.Flags().IntP("k", "k", 4, "cells per side of the unit square grid")
	RemapCmd.Flags().IntP("refine", "r", 1, "number of 4:1 grid refinements to chain")
	RemapCmd.Flags().IntP("parallel", "p", 0, "goroutines per kernel, 0 uses all CPUs")
	RemapCmd.Flags().String("nodeType", "Cubature", "unit node family: Cubature or WarpBlend")
	RemapCmd.Flags().String("initType", "Gauss", "field to remap: Gauss, Sine or Quadratic")
	RemapCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for remap parameters like:\n\t- PolynomialOrder\n\t- RefineLevels")
	RemapCmd.Flags().BoolP("graph", "g", false, "display the source, refined and recovered fields")
	RemapCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	RemapCmd.Flags().Bool("profile", false, "write a CPU profile of the remap to the current directory")
}

func RunRemap(mr *ModelRemap, rp *InputParameters.RemapParameters) {
	if mr.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	rp.Print()
	c, err := Remap2D.NewRemap(rp)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	pm := &Remap2D.PlotMeta{
		Plot:      mr.Graph || rp.Graph,
		Scale:     1.1,
		FrameTime: mr.Delay,
	}
	if err = c.Run(pm); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
}
