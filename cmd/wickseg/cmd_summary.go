package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/spf13/cobra"
	"github.com/sugarme/gotch/nn"
)

func newSummaryCmd(a *app) *cobra.Command {
	var csv bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "List model variables with their shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadConfig()
			if err != nil {
				return err
			}
			vs, _, err := a.buildModel(c)
			if err != nil {
				return err
			}
			if csv {
				return varsFrame(vs).WriteCSV(cmd.OutOrStdout())
			}
			printVars(cmd.OutOrStdout(), vs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&csv, "csv", false, "write name,shape,params as CSV")

	return cmd
}

type varInfo struct {
	name  string
	shape []int64
}

// sortedVars returns variables sorted by name.
func sortedVars(vs *nn.VarStore) []varInfo {
	vars := vs.Variables()
	infos := make([]varInfo, 0, len(vars))
	for n, v := range vars {
		infos = append(infos, varInfo{name: n, shape: v.MustSize()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].name < infos[j].name })
	return infos
}

func numel(shape []int64) int64 {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}

// printVars print variables sorted by name and the total parameter count.
func printVars(w io.Writer, vs *nn.VarStore) {
	var total int64
	for _, v := range sortedVars(vs) {
		n := numel(v.shape)
		total += n
		fmt.Fprintf(w, "%-24s %-18v %d\n", v.name, v.shape, n)
	}
	fmt.Fprintf(w, "total parameters: %d\n", total)
}

// varsFrame tabulates variables one row per tensor, sorted by name.
func varsFrame(vs *nn.VarStore) dataframe.DataFrame {
	vars := sortedVars(vs)
	names := make([]string, len(vars))
	shapes := make([]string, len(vars))
	params := make([]int, len(vars))
	for i, v := range vars {
		names[i] = v.name
		shapes[i] = fmt.Sprint(v.shape)
		params[i] = int(numel(v.shape))
	}

	return dataframe.New(
		series.New(names, series.String, "name"),
		series.New(shapes, series.String, "shape"),
		series.New(params, series.Int, "params"),
	)
}
