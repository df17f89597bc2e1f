package sweep

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML specs ("90s", "5m"; empty = zero).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	if text == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Spec is the top-level sweep configuration.
// Loaded from YAML via LoadSpec(path); CLI flags may override fields.
type Spec struct {
	Kernel     string   `yaml:"kernel"`
	OutputDir  string   `yaml:"output_dir"`
	Summary    string   `yaml:"summary"`
	Target     string   `yaml:"target"`
	BatchSizes []int    `yaml:"batch_sizes"`
	VocabSizes []int    `yaml:"vocab_sizes"`
	TopKs      []int    `yaml:"top_ks"`
	DTypes     []string `yaml:"dtypes"`
	SubKernels []string `yaml:"sub_kernels"`
	Metric     string   `yaml:"metric"`
	HeaderRow  int      `yaml:"header_row"`
	Env        EnvSpec  `yaml:"env"`
	Timeout    Duration `yaml:"timeout"`

	// Profiler command shape. Argument layout is configuration, not
	// protocol; adapt these per target profiler.
	NsysBin        string `yaml:"nsys_bin"`
	StatsBin       string `yaml:"stats_bin"`
	NcuBin         string `yaml:"ncu_bin"`
	Report         string `yaml:"report"`
	FilterTemplate string `yaml:"filter_template"`
}

// DefaultSpec returns the Deepseek V3/R1 topK sampling sweep configuration.
func DefaultSpec() *Spec {
	return &Spec{
		Kernel:         "samplingtopK",
		Summary:        "kernel_summary.csv",
		Target:         "./samplingKernelsTest",
		BatchSizes:     []int{1, 2, 4, 8, 16, 32, 64},
		VocabSizes:     []int{129280},
		TopKs:          []int{50},
		DTypes:         []string{"float32", "float16"},
		SubKernels:     []string{"topKStage1", "topKStage2Sampling"},
		Metric:         "Duration",
		Env:            DefaultEnvSpec(),
		NsysBin:        "nsys_easy",
		StatsBin:       "nsys",
		NcuBin:         "ncu",
		Report:         "cuda_gpu_trace",
		FilterTemplate: "TopKSamplingKernelTest/%d.parameterizedTopK",
	}
}

// LoadSpec reads a sweep spec from YAML on top of the defaults. Unknown
// fields are rejected.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sweep spec: %w", err)
	}
	spec := DefaultSpec()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(spec); err != nil {
		return nil, fmt.Errorf("parsing sweep spec: %w", err)
	}
	return spec, nil
}

// Validate checks that all fields in the spec are usable.
func (s *Spec) Validate() error {
	if s.Kernel == "" {
		return fmt.Errorf("kernel name required")
	}
	if s.Target == "" {
		return fmt.Errorf("target binary required")
	}
	if len(s.BatchSizes) == 0 {
		return fmt.Errorf("at least one batch size required")
	}
	if len(s.VocabSizes) == 0 {
		return fmt.Errorf("at least one vocab size required")
	}
	if len(s.TopKs) == 0 {
		return fmt.Errorf("at least one top-K value required")
	}
	if len(s.DTypes) == 0 {
		return fmt.Errorf("at least one dtype required")
	}
	if s.HeaderRow < 0 {
		return fmt.Errorf("header_row must be non-negative, got %d", s.HeaderRow)
	}
	if s.Env.BatchVar == "" || s.Env.VocabVar == "" || s.Env.TopKVar == "" {
		return fmt.Errorf("all three env variable names required")
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s", time.Duration(s.Timeout))
	}
	return nil
}

// Dimensions returns the sweep axes.
func (s *Spec) Dimensions() Dimensions {
	return Dimensions{
		BatchSizes: s.BatchSizes,
		VocabSizes: s.VocabSizes,
		TopKs:      s.TopKs,
		DTypes:     s.DTypes,
	}
}

func (s *Spec) filter(p Point) string {
	return fmt.Sprintf(s.FilterTemplate, p.DTypeIndex)
}

// NsysProfileCommand builds the nsys capture invocation for one point.
func (s *Spec) NsysProfileCommand(p Point, outputPath string) []string {
	return []string{
		s.NsysBin,
		"-o", outputPath,
		s.Target,
		"--gtest_filter=" + s.filter(p),
		"--force-export=true",
	}
}

// StatsExportCommand builds the invocation that converts a captured trace
// into the CSV table consumed by metric lookup.
func (s *Spec) StatsExportCommand(outputPath string) []string {
	return []string{
		s.StatsBin, "stats",
		"--report", s.Report,
		outputPath + ".nsys-rep",
		"--format", "csv",
		"--output", outputPath + ".csv",
		"--force-export=true",
	}
}

// TraceTablePath returns where the stats export places the report CSV.
func (s *Spec) TraceTablePath(outputPath string) string {
	return outputPath + ".csv_" + s.Report + ".csv"
}

// NcuCommand builds the ncu capture invocation for one point.
func (s *Spec) NcuCommand(p Point, outputPath string) []string {
	return []string{
		s.NcuBin,
		"-o", outputPath,
		s.Target,
		"--gtest_filter=" + s.filter(p),
	}
}
