package analyzer

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireInterpreter(t *testing.T, command string) {
	t.Helper()
	if _, err := exec.LookPath(command); err != nil {
		t.Skipf("%s not available", command)
	}
}

func TestExecutePythonSuccess(t *testing.T) {
	requireInterpreter(t, "python3")

	report := Analyze(context.Background(), `print("hello")`, "python", Options{
		Execute:        true,
		ExpectedOutput: "hello",
	})

	require.NotNil(t, report.Execution)
	assert.True(t, report.Execution.Ran)
	assert.True(t, report.Execution.Success)
	assert.Contains(t, report.Execution.Stdout, "hello")
	require.NotNil(t, report.Execution.OutputMatched)
	assert.True(t, *report.Execution.OutputMatched)
}

func TestExecutePythonFailure(t *testing.T) {
	requireInterpreter(t, "python3")

	report := Analyze(context.Background(), `raise RuntimeError("boom")`, "python", Options{Execute: true})

	require.NotNil(t, report.Execution)
	assert.True(t, report.Execution.Ran)
	assert.False(t, report.Execution.Success)
	assert.NotEmpty(t, report.Execution.Stderr)
	assert.Equal(t, 0.0, executionScore(*report.Execution))
}

func TestExecutePythonStdinInputs(t *testing.T) {
	requireInterpreter(t, "python3")

	report := Analyze(context.Background(), `print(int(input()) * 2)`, "python", Options{
		Execute:    true,
		TestInputs: []string{"3", "5"},
	})

	require.NotNil(t, report.Execution)
	assert.True(t, report.Execution.Success)
	assert.Contains(t, report.Execution.Stdout, "6")
	assert.Contains(t, report.Execution.Stdout, "10")
}

func TestExecuteSkippedForUnsupportedLanguage(t *testing.T) {
	report := Analyze(context.Background(), "class A {}", "java", Options{Execute: true})
	assert.Nil(t, report.Execution)
}

func TestExecuteSkippedWhenSyntaxInvalid(t *testing.T) {
	report := Analyze(context.Background(), "def broken(:", "python", Options{Execute: true})
	assert.Nil(t, report.Execution)
}
