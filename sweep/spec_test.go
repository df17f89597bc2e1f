package sweep

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing spec fixture: %v", err)
	}
	return path
}

func TestDefaultSpec_Valid(t *testing.T) {
	spec := DefaultSpec()
	spec.OutputDir = "./nsys_results"
	assert.NoError(t, spec.Validate())
}

func TestLoadSpec_OverridesDefaults(t *testing.T) {
	path := writeSpec(t, `
kernel: fusedSoftmax
output_dir: ./results
batch_sizes: [1, 8]
vocab_sizes: [32000]
top_ks: [10, 40]
dtypes: [bfloat16]
sub_kernels: [softmaxStage1]
metric: Throughput
timeout: 90s
env:
  batch: BS
  vocab: VOCAB
  top_k: K
`)

	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec failed: %v", err)
	}

	assert.Equal(t, "fusedSoftmax", spec.Kernel)
	assert.Equal(t, []int{1, 8}, spec.BatchSizes)
	assert.Equal(t, []int{10, 40}, spec.TopKs)
	assert.Equal(t, []string{"bfloat16"}, spec.DTypes)
	assert.Equal(t, "Throughput", spec.Metric)
	assert.Equal(t, Duration(90*time.Second), spec.Timeout)
	assert.Equal(t, EnvSpec{BatchVar: "BS", VocabVar: "VOCAB", TopKVar: "K"}, spec.Env)
	// Untouched fields keep their defaults
	assert.Equal(t, "nsys_easy", spec.NsysBin)
	assert.Equal(t, "./samplingKernelsTest", spec.Target)
	assert.NoError(t, spec.Validate())
}

func TestLoadSpec_UnknownFieldRejected(t *testing.T) {
	path := writeSpec(t, "kernel: x\nbogus_field: 1\n")
	_, err := LoadSpec(path)
	assert.Error(t, err)
}

func TestLoadSpec_MissingFile(t *testing.T) {
	_, err := LoadSpec(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSpec_ValidateRejectsEmptyAxes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"no batch sizes", func(s *Spec) { s.BatchSizes = nil }},
		{"no vocab sizes", func(s *Spec) { s.VocabSizes = nil }},
		{"no top-Ks", func(s *Spec) { s.TopKs = nil }},
		{"no dtypes", func(s *Spec) { s.DTypes = nil }},
		{"no kernel", func(s *Spec) { s.Kernel = "" }},
		{"no target", func(s *Spec) { s.Target = "" }},
		{"negative header row", func(s *Spec) { s.HeaderRow = -1 }},
		{"missing env var name", func(s *Spec) { s.Env.TopKVar = "" }},
		{"negative timeout", func(s *Spec) { s.Timeout = Duration(-time.Second) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := DefaultSpec()
			tc.mutate(spec)
			assert.Error(t, spec.Validate())
		})
	}
}

func TestSpec_NsysProfileCommand(t *testing.T) {
	spec := DefaultSpec()
	p := Point{Batch: 1, Vocab: 129280, TopK: 50, DType: "float16", DTypeIndex: 1}

	cmd := spec.NsysProfileCommand(p, "./nsys_results/samplingtopK_B1_N129280_topK50_float16")

	want := []string{
		"nsys_easy",
		"-o", "./nsys_results/samplingtopK_B1_N129280_topK50_float16",
		"./samplingKernelsTest",
		"--gtest_filter=TopKSamplingKernelTest/1.parameterizedTopK",
		"--force-export=true",
	}
	assert.Equal(t, want, cmd)
}

func TestSpec_StatsExportCommand(t *testing.T) {
	spec := DefaultSpec()

	cmd := spec.StatsExportCommand("./out/run")

	want := []string{
		"nsys", "stats",
		"--report", "cuda_gpu_trace",
		"./out/run.nsys-rep",
		"--format", "csv",
		"--output", "./out/run.csv",
		"--force-export=true",
	}
	assert.Equal(t, want, cmd)
}

func TestSpec_TraceTablePath(t *testing.T) {
	spec := DefaultSpec()
	assert.Equal(t, "./out/run.csv_cuda_gpu_trace.csv", spec.TraceTablePath("./out/run"))
}

func TestSpec_NcuCommand(t *testing.T) {
	spec := DefaultSpec()
	p := Point{DTypeIndex: 0}

	cmd := spec.NcuCommand(p, "./ncu_results/run")

	want := []string{
		"ncu",
		"-o", "./ncu_results/run",
		"./samplingKernelsTest",
		"--gtest_filter=TopKSamplingKernelTest/0.parameterizedTopK",
	}
	assert.Equal(t, want, cmd)
}

func TestDuration_UnmarshalEmptyString(t *testing.T) {
	path := writeSpec(t, "timeout: \"\"\n")
	spec, err := LoadSpec(path)
	if err != nil {
		t.Fatalf("LoadSpec failed: %v", err)
	}
	assert.Equal(t, Duration(0), spec.Timeout)
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	path := writeSpec(t, "timeout: ninety\n")
	_, err := LoadSpec(path)
	assert.Error(t, err)
}
