package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/longcheng-nv/kernelsweep/sweep/tabular"
)

var (
	lookupFile      string
	lookupKernel    string
	lookupMetrics   []string
	lookupHeaderRow int
)

// lookupCmd resolves kernel metrics from a trace table without running a
// sweep. One metric prints the bare value; several print name=value lines.
var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up metric values for a kernel in a trace CSV",
	Run: func(cmd *cobra.Command, args []string) {
		if lookupFile == "" || lookupKernel == "" || len(lookupMetrics) == 0 {
			logrus.Fatalf("--file, --kernel and at least one --metric are required")
		}

		if len(lookupMetrics) == 1 {
			value, err := tabular.LookupSingle(lookupFile, lookupKernel, lookupMetrics[0], lookupHeaderRow)
			if err != nil {
				logrus.Fatalf("Lookup failed: %v", err)
			}
			fmt.Println(value.String())
			return
		}

		values, err := tabular.LookupMany(lookupFile, lookupKernel, lookupMetrics, lookupHeaderRow)
		if err != nil {
			logrus.Fatalf("Lookup failed: %v", err)
		}
		for _, metric := range lookupMetrics {
			value, ok := values[metric]
			if !ok {
				logrus.Warnf("Metric %q not found in %s", metric, lookupFile)
				continue
			}
			fmt.Printf("%s=%s\n", metric, value.String())
		}
	},
}

func init() {
	lookupCmd.Flags().StringVar(&lookupFile, "file", "", "Path to the trace table (CSV or TSV)")
	lookupCmd.Flags().StringVar(&lookupKernel, "kernel", "", "Kernel name substring to match")
	lookupCmd.Flags().StringSliceVar(&lookupMetrics, "metric", nil, "Metric column substring (repeatable)")
	lookupCmd.Flags().IntVar(&lookupHeaderRow, "header-row", 0, "Header row index in the table")
	rootCmd.AddCommand(lookupCmd)
}
