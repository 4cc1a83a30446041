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
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/quadnurbs/InputParameters"
	"github.com/notargets/quadnurbs/batch"
	"github.com/notargets/quadnurbs/exchange"
	"github.com/notargets/quadnurbs/mesh"
	"github.com/notargets/quadnurbs/utils"
)

type ModelQuads struct {
	GridFiles           []string
	InputParametersFile string
	OutputFile          string // Empty writes to the command output
	OutputFormat        string // Overrides the input parameters when set
	ParallelDegree      int    // Overrides the input parameters when positive
}

const exampleFile = `
########################################
Title: "Test Case"
DegreeU: 3
DegreeV: 3
VertexWeights: [1.]
EdgeWeights: [1.]
FaceWeights: [1.]
TangentWeights: [1.] # In [0,3], 1 keeps the mesh spacing
ParallelDegree: 4
OutputFormat: yaml # Can be json or obj
########################################
`

// QuadsCmd represents the quads command
var QuadsCmd = &cobra.Command{
	Use:   "quads",
	Short: "Build one NURBS patch per quad of a surface mesh",
	Long: `
Reads surface meshes in Wavefront (.obj), SU2 (.su2) or YAML (.yaml, .json)
format and writes one rational B-spline patch per quad face. Faces that are
not quads are reported and skipped. Repeat -F to convert several meshes into
one output, each patch records the index of its mesh.

quadnurbs quads -F mesh.obj -I params.yaml -o patches.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		mq := &ModelQuads{}
		if mq.GridFiles, err = cmd.Flags().GetStringSlice("gridFile"); err != nil {
			return
		}
		if mq.InputParametersFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			return
		}
		if viper.IsSet("output") {
			mq.OutputFile = viper.GetString("output")
		}
		if viper.IsSet("format") {
			mq.OutputFormat = viper.GetString("format")
		}
		if viper.IsSet("parallel") {
			mq.ParallelDegree = viper.GetInt("parallel")
		}
		return RunQuads(cmd.OutOrStdout(), mq)
	},
}

func init() {
	rootCmd.AddCommand(QuadsCmd)
	QuadsCmd.Flags().StringSliceP("gridFile", "F", nil, "Surface mesh files to read in .obj, .su2, .yaml or .json format")
	QuadsCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for input parameters like:\n\t- Degrees\n\t- Vertex, edge, face and tangent weights")
	QuadsCmd.Flags().StringP("output", "o", "", "file to write the patches to (default is standard output)")
	QuadsCmd.Flags().StringP("format", "f", "", "output format: yaml, json or obj")
	QuadsCmd.Flags().IntP("parallel", "p", 0, "number of goroutines building patches")
	for _, name := range []string{"output", "format", "parallel"} {
		if err := viper.BindPFlag(name, QuadsCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func processInput(mq *ModelQuads) (ip *InputParameters.QuadsToNurbsParameters, err error) {
	if len(mq.GridFiles) == 0 {
		return nil, fmt.Errorf("must supply a grid file (-F, --gridFile)")
	}
	ip = InputParameters.NewQuadsToNurbsParameters()
	if len(mq.InputParametersFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(mq.InputParametersFile); err != nil {
			return nil, err
		}
		if err = ip.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w\nExample File:%s", mq.InputParametersFile, err, exampleFile)
		}
	}
	if mq.OutputFormat != "" {
		ip.OutputFormat = strings.ToLower(mq.OutputFormat)
	}
	if mq.ParallelDegree > 0 {
		ip.ParallelDegree = mq.ParallelDegree
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	return
}

// RunQuads reads the meshes and parameters of mq, builds the patches and
// writes them to the output file, or to w when no file is named. Run
// summaries are printed only when writing to a file, so w receives nothing
// but patches.
func RunQuads(w io.Writer, mq *ModelQuads) (err error) {
	var (
		ip      *InputParameters.QuadsToNurbsParameters
		ins     []*batch.Input
		results []*batch.Result
		report  = mq.OutputFile != ""
		logger  = utils.Logger()
	)
	if ip, err = processInput(mq); err != nil {
		return
	}
	if report {
		ip.Print()
	}
	for _, gridFile := range mq.GridFiles {
		var msh *mesh.SurfaceMesh
		if msh, err = mesh.ReadMeshFile(gridFile); err != nil {
			return
		}
		msh.EnsureEdges()
		if report {
			fmt.Printf("%s\n", gridFile)
			msh.PrintStatistics()
		}
		ins = append(ins, batch.NewInput(msh, ip))
	}

	if results, err = batch.RunAll(ins,
		batch.Options{ParallelDegree: ip.ParallelDegree}); err != nil {
		return
	}
	pf := exchange.NewPatchFile(ip.Title, results...)

	out := w
	if mq.OutputFile != "" {
		var f *os.File
		if f, err = os.Create(mq.OutputFile); err != nil {
			return
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}
	if err = exchange.Write(out, ip.OutputFormat, pf); err != nil {
		return
	}
	if report {
		fmt.Printf("%d patches written to %s, %d faces skipped\n",
			len(pf.Patches), mq.OutputFile, len(pf.Skipped))
		fmt.Println(utils.GetMemUsage())
	}
	logger.Debug("quads done", "meshes", len(results), "patches", len(pf.Patches), "skipped", len(pf.Skipped))
	return
}
