package sweep

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/longcheng-nv/kernelsweep/sweep/tabular"
)

// ProfileAction captures a trace for each point and does nothing else.
// This is the ncu variant of the sweep.
type ProfileAction struct {
	Env     EnvSpec
	Runner  CommandRunner
	Command func(p Point, outputPath string) []string
	BaseEnv []string // nil = inherit the process environment
}

// Do runs the profiler for one point with the point's dimension bindings
// layered into the child environment.
func (a *ProfileAction) Do(ctx context.Context, p Point, outputPath string) error {
	base := a.BaseEnv
	if base == nil {
		base = os.Environ()
	}
	argv := a.Command(p, outputPath)
	logrus.Debugf("Run command: %v", argv)
	output, err := a.Runner.Run(ctx, argv, a.Env.Environ(base, p))
	if err != nil {
		return fmt.Errorf("profile: %w (output: %s)", err, output)
	}
	logrus.Debugf("Profiler output: %s", output)
	return nil
}

// ExtractAction is the nsys variant: capture a trace, export it to a CSV
// report, look up the metric for every sub-kernel of interest, and append
// the results to the summary.
type ExtractAction struct {
	ProfileAction

	ExportCommand func(outputPath string) []string
	TablePath     func(outputPath string) string
	SubKernels    []string
	Metric        string
	HeaderRow     int
	Summary       *Summary
}

// Do performs profile, export, and extraction for one point. A sub-kernel
// whose metric cannot be found is logged and left out of the summary; the
// remaining sub-kernels are still recorded.
func (a *ExtractAction) Do(ctx context.Context, p Point, outputPath string) error {
	if err := a.ProfileAction.Do(ctx, p, outputPath); err != nil {
		return err
	}

	output, err := a.Runner.Run(ctx, a.ExportCommand(outputPath), nil)
	if err != nil {
		return fmt.Errorf("stats export: %w (output: %s)", err, output)
	}

	tablePath := a.TablePath(outputPath)
	for _, kernel := range a.SubKernels {
		value, err := tabular.LookupSingle(tablePath, kernel, a.Metric, a.HeaderRow)
		if err != nil {
			if errors.Is(err, tabular.ErrNotFound) {
				logrus.Warn(err)
			} else {
				logrus.Errorf("Reading trace table for %s: %v", kernel, err)
			}
			continue
		}
		if err := a.Summary.Append(kernel, p, value); err != nil {
			return err
		}
	}
	return nil
}
