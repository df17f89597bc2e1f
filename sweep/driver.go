package sweep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Action is what the driver performs at each sweep point. Implementations
// return an error to mark the point failed; the driver logs it and moves on.
type Action interface {
	Do(ctx context.Context, p Point, outputPath string) error
}

// Result counts the outcome of one sweep.
type Result struct {
	Attempted int
	Failed    int
}

// Driver iterates the Cartesian product of the spec's dimensions and applies
// the configured action at every point. One failing point never aborts the
// batch: the error is logged with the point's output name and the sweep
// continues.
type Driver struct {
	Spec   *Spec
	Action Action
}

// Run executes the sweep. It returns an error only for setup failures
// (unusable output directory); per-point failures are reflected in Result.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	if err := os.MkdirAll(d.Spec.OutputDir, 0755); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}

	logrus.Info("Start batch collecting GPU kernel performance data...")

	var result Result
	for _, p := range d.Spec.Dimensions().Points() {
		result.Attempted++
		name := p.OutputName(d.Spec.Kernel)
		outputPath := filepath.Join(d.Spec.OutputDir, name)

		logrus.Infof("Profiling %s: %s=%d %s=%d %s=%d dtype=%s",
			name, d.Spec.Env.BatchVar, p.Batch, d.Spec.Env.VocabVar, p.Vocab,
			d.Spec.Env.TopKVar, p.TopK, p.DType)

		if err := d.Action.Do(ctx, p, outputPath); err != nil {
			result.Failed++
			logrus.Errorf("Task failed: %s, error: %v", name, err)
			continue
		}
	}

	logrus.Infof("Sweep finished: %d points attempted, %d failed", result.Attempted, result.Failed)
	return result, nil
}
