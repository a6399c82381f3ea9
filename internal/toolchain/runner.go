// Package toolchain locates and runs the external WiX Toolset executables.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Result captures one finished toolset invocation.
type Result struct {
	Tool     string
	Args     []string
	ExitCode int
	Output   []byte // combined stdout and stderr, empty unless captured
	Elapsed  time.Duration
}

// Runner abstracts subprocess execution so builds can be tested without the
// real toolset.
type Runner interface {
	// Run invokes tool with args and blocks until it exits. With capture
	// set, stdout and stderr are buffered into the result; otherwise the
	// subprocess inherits the caller's streams for live output.
	Run(ctx context.Context, tool string, args []string, capture bool) (*Result, error)
}

// ExitError reports a toolset executable that ran but exited non-zero.
type ExitError struct {
	Tool   string
	Code   int
	Output []byte
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

// ExecRunner is the Runner used outside of tests. It resolves executables
// through Find on every call.
type ExecRunner struct {
	Root string // explicit toolset root, empty to search
	Dir  string // working directory for spawned tools
}

func (r *ExecRunner) Run(ctx context.Context, tool string, args []string, capture bool) (*Result, error) {
	path, err := Find(tool, r.Root)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = r.Dir

	var buf bytes.Buffer
	if capture {
		// One writer for both streams keeps the interleaving the tool wrote.
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	start := time.Now()
	runErr := cmd.Run()
	res := &Result{Tool: tool, Args: args, Output: buf.Bytes(), Elapsed: time.Since(start)}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, &ExitError{Tool: tool, Code: res.ExitCode, Output: res.Output}
		}
		return res, fmt.Errorf("running %s: %w", tool, runErr)
	}
	return res, nil
}
