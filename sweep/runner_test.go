package sweep

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExecRunner_Success(t *testing.T) {
	output, err := ExecRunner{}.Run(context.Background(), []string{"sh", "-c", "echo profiled"}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assert.Equal(t, "profiled", strings.TrimSpace(string(output)))
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), []string{"sh", "-c", "exit 3"}, nil)
	assert.Error(t, err)
}

func TestExecRunner_EmptyCommand(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestExecRunner_ExplicitEnvironment(t *testing.T) {
	output, err := ExecRunner{}.Run(context.Background(),
		[]string{"sh", "-c", "echo $TEST_BATCH_SIZE"},
		[]string{"TEST_BATCH_SIZE=8", "PATH=/usr/bin:/bin"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	assert.Equal(t, "8", strings.TrimSpace(string(output)))
}

func TestExecRunner_Timeout(t *testing.T) {
	start := time.Now()
	_, err := ExecRunner{Timeout: 50 * time.Millisecond}.Run(context.Background(), []string{"sleep", "5"}, nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 2*time.Second)
}
