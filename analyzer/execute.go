package analyzer

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// executionTimeout bounds a single sandboxed run.
const executionTimeout = 10 * time.Second

// sourceFiles maps executable languages to interpreter and file suffix.
var interpreters = map[string]struct {
	command string
	suffix  string
}{
	"python":     {command: "python3", suffix: ".py"},
	"javascript": {command: "node", suffix: ".js"},
}

func isExecutable(language string) bool {
	_, ok := interpreters[language]
	return ok
}

// execute runs the sample under its interpreter, once per test input
// (or once with empty stdin), and aggregates the outcome. Any run
// failure fails the whole execution block.
func execute(ctx context.Context, code, language string, inputs []string, expected string) Execution {
	interp, ok := interpreters[language]
	if !ok {
		return Execution{}
	}

	file, err := writeTempSource(code, interp.suffix)
	if err != nil {
		return Execution{Ran: true, Success: false, Stderr: err.Error()}
	}
	defer os.Remove(file)

	if len(inputs) == 0 {
		inputs = []string{""}
	}

	result := Execution{Ran: true, Success: true}
	started := time.Now()
	var stdout strings.Builder

	for _, input := range inputs {
		runCtx, cancel := context.WithTimeout(ctx, executionTimeout)
		cmd := exec.CommandContext(runCtx, interp.command, file)
		cmd.Stdin = strings.NewReader(input)

		var out, errBuf bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &errBuf

		err := cmd.Run()
		cancel()

		stdout.WriteString(out.String())
		if err != nil {
			result.Success = false
			result.Stderr = strings.TrimSpace(errBuf.String())
			if result.Stderr == "" {
				result.Stderr = err.Error()
			}
			break
		}
	}

	result.Elapsed = time.Since(started)
	result.Stdout = stdout.String()

	if expected != "" {
		matched := strings.Contains(result.Stdout, expected)
		result.OutputMatched = &matched
	}
	return result
}

func writeTempSource(code, suffix string) (string, error) {
	f, err := os.CreateTemp("", "arbiter-exec-*"+suffix)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(code); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return filepath.Clean(f.Name()), nil
}
