// Package sweep drives external GPU profilers across the Cartesian product of
// kernel test dimensions and records extracted metrics in a summary CSV.
package sweep

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimensions holds the four sweep axes.
type Dimensions struct {
	BatchSizes []int
	VocabSizes []int
	TopKs      []int
	DTypes     []string
}

// Size returns the number of points in the Cartesian product.
func (d Dimensions) Size() int {
	return len(d.BatchSizes) * len(d.VocabSizes) * len(d.TopKs) * len(d.DTypes)
}

// Points enumerates the Cartesian product in batch, vocab, top-K, dtype
// order. The iteration order is the summary output order.
func (d Dimensions) Points() []Point {
	points := make([]Point, 0, d.Size())
	for _, b := range d.BatchSizes {
		for _, n := range d.VocabSizes {
			for _, k := range d.TopKs {
				for i, dtype := range d.DTypes {
					points = append(points, Point{
						Batch:      b,
						Vocab:      n,
						TopK:       k,
						DType:      dtype,
						DTypeIndex: i,
					})
				}
			}
		}
	}
	return points
}

// Point is one sweep configuration. DTypeIndex is the dtype's position in
// the configured list; it selects the parameterized test instance to run.
type Point struct {
	Batch      int
	Vocab      int
	TopK       int
	DType      string
	DTypeIndex int
}

// OutputName derives the trace file base name for this point. Every
// dimension value is encoded, so names are collision-free across the space.
func (p Point) OutputName(kernel string) string {
	return fmt.Sprintf("%s_B%d_N%d_topK%d_%s", kernel, p.Batch, p.Vocab, p.TopK, p.DType)
}

// EnvSpec names the environment variables through which the profiled binary
// receives its sweep dimensions. The names are configuration, not semantics.
type EnvSpec struct {
	BatchVar string `yaml:"batch"`
	VocabVar string `yaml:"vocab"`
	TopKVar  string `yaml:"top_k"`
}

// DefaultEnvSpec returns the variable names the sampling kernel test reads.
func DefaultEnvSpec() EnvSpec {
	return EnvSpec{
		BatchVar: "TEST_BATCH_SIZE",
		VocabVar: "TEST_VOCAB_SIZE",
		TopKVar:  "TEST_TOP_K",
	}
}

// Environ layers the point's dimension bindings on top of base, which is
// left unmodified. Existing bindings for the spec's variables are replaced.
func (e EnvSpec) Environ(base []string, p Point) []string {
	overrides := map[string]string{
		e.BatchVar: strconv.Itoa(p.Batch),
		e.VocabVar: strconv.Itoa(p.Vocab),
		e.TopKVar:  strconv.Itoa(p.TopK),
	}
	env := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		if name, _, ok := strings.Cut(kv, "="); ok {
			if _, shadowed := overrides[name]; shadowed {
				continue
			}
		}
		env = append(env, kv)
	}
	for _, name := range []string{e.BatchVar, e.VocabVar, e.TopKVar} {
		env = append(env, name+"="+overrides[name])
	}
	return env
}
