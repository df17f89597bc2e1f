package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/longcheng-nv/kernelsweep/sweep"
)

var (
	// CLI flags shared by the nsys and ncu sweep subcommands. Each flag
	// overrides the corresponding sweep spec field when set.
	specPath    string
	outputDir   string
	target      string
	kernelName  string
	summaryName string
	batchSizes  []int
	vocabSizes  []int
	topKs       []int
	dtypes      []string
	subKernels  []string
	metricName  string
	headerRow   int
	timeout     time.Duration
)

// nsysCmd runs the full sweep: profile, export the trace report, extract the
// configured metric per sub-kernel, and write the summary CSV.
var nsysCmd = &cobra.Command{
	Use:   "nsys",
	Short: "Run an nsys profiling sweep and extract kernel metrics to a summary CSV",
	Run: func(cmd *cobra.Command, args []string) {
		spec := loadSweepSpec(cmd, "./nsys_results")

		if err := os.MkdirAll(spec.OutputDir, 0755); err != nil {
			logrus.Fatalf("Creating output directory: %v", err)
		}
		summary, err := sweep.NewSummary(filepath.Join(spec.OutputDir, spec.Summary))
		if err != nil {
			logrus.Fatalf("Opening summary: %v", err)
		}

		runner := sweep.ExecRunner{Timeout: time.Duration(spec.Timeout)}
		action := &sweep.ExtractAction{
			ProfileAction: sweep.ProfileAction{
				Env:     spec.Env,
				Runner:  runner,
				Command: spec.NsysProfileCommand,
			},
			ExportCommand: spec.StatsExportCommand,
			TablePath:     spec.TraceTablePath,
			SubKernels:    spec.SubKernels,
			Metric:        spec.Metric,
			HeaderRow:     spec.HeaderRow,
			Summary:       summary,
		}

		driver := &sweep.Driver{Spec: spec, Action: action}
		result, err := driver.Run(cmd.Context())
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		if err := summary.Close(); err != nil {
			logrus.Fatalf("Closing summary: %v", err)
		}

		logrus.Infof("All nsys profile finished: %d points attempted, %d failed", result.Attempted, result.Failed)
		logrus.Infof("Summary data saved to %s", summary.Path())
		fmt.Println(summary.Path())
	},
}

// ncuCmd runs the profile-only sweep: one ncu capture per point, no metric
// extraction.
var ncuCmd = &cobra.Command{
	Use:   "ncu",
	Short: "Run an ncu profiling sweep (capture only, no metric extraction)",
	Run: func(cmd *cobra.Command, args []string) {
		spec := loadSweepSpec(cmd, "./ncu_results")

		runner := sweep.ExecRunner{Timeout: time.Duration(spec.Timeout)}
		action := &sweep.ProfileAction{
			Env:     spec.Env,
			Runner:  runner,
			Command: spec.NcuCommand,
		}

		driver := &sweep.Driver{Spec: spec, Action: action}
		result, err := driver.Run(cmd.Context())
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		logrus.Infof("All ncu profile finished: %d points attempted, %d failed", result.Attempted, result.Failed)
	},
}

// loadSweepSpec builds the effective sweep spec: defaults, then the YAML
// spec file if given, then any changed CLI flags on top.
func loadSweepSpec(cmd *cobra.Command, defaultOutputDir string) *sweep.Spec {
	spec := sweep.DefaultSpec()
	if specPath != "" {
		loaded, err := sweep.LoadSpec(specPath)
		if err != nil {
			logrus.Fatalf("Loading sweep spec: %v", err)
		}
		spec = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		spec.OutputDir = outputDir
	}
	if flags.Changed("target") {
		spec.Target = target
	}
	if flags.Changed("kernel") {
		spec.Kernel = kernelName
	}
	if flags.Changed("summary") {
		spec.Summary = summaryName
	}
	if flags.Changed("batch-sizes") {
		spec.BatchSizes = batchSizes
	}
	if flags.Changed("vocab-sizes") {
		spec.VocabSizes = vocabSizes
	}
	if flags.Changed("top-ks") {
		spec.TopKs = topKs
	}
	if flags.Changed("dtypes") {
		spec.DTypes = dtypes
	}
	if flags.Changed("sub-kernels") {
		spec.SubKernels = subKernels
	}
	if flags.Changed("metric") {
		spec.Metric = metricName
	}
	if flags.Changed("header-row") {
		spec.HeaderRow = headerRow
	}
	if flags.Changed("timeout") {
		spec.Timeout = sweep.Duration(timeout)
	}
	if spec.OutputDir == "" {
		spec.OutputDir = defaultOutputDir
	}

	if err := spec.Validate(); err != nil {
		logrus.Fatalf("Invalid sweep configuration: %v", err)
	}
	return spec
}

func addSweepFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&specPath, "spec", "", "Path to a sweep spec YAML file")
	f.StringVar(&outputDir, "output-dir", "", "Directory for trace and summary files")
	f.StringVar(&target, "target", "./samplingKernelsTest", "Path to the profiled test binary")
	f.StringVar(&kernelName, "kernel", "samplingtopK", "Kernel family name used in output file names")
	f.StringVar(&summaryName, "summary", "kernel_summary.csv", "Summary CSV file name")
	f.IntSliceVar(&batchSizes, "batch-sizes", []int{1, 2, 4, 8, 16, 32, 64}, "Comma-separated batch size values")
	f.IntSliceVar(&vocabSizes, "vocab-sizes", []int{129280}, "Comma-separated vocabulary size values")
	f.IntSliceVar(&topKs, "top-ks", []int{50}, "Comma-separated top-K values")
	f.StringSliceVar(&dtypes, "dtypes", []string{"float32", "float16"}, "Comma-separated data types")
	f.StringSliceVar(&subKernels, "sub-kernels", []string{"topKStage1", "topKStage2Sampling"}, "Sub-kernel name substrings to extract")
	f.StringVar(&metricName, "metric", "Duration", "Metric column substring to extract")
	f.IntVar(&headerRow, "header-row", 0, "Header row index in the exported trace table")
	f.DurationVar(&timeout, "timeout", 0, "Per-invocation timeout (0 = none)")
}

// init sets up CLI flags and subcommands
func init() {
	addSweepFlags(nsysCmd)
	addSweepFlags(ncuCmd)
	rootCmd.AddCommand(nsysCmd)
	rootCmd.AddCommand(ncuCmd)
}
