// Package exec runs subprocesses on behalf of plugins and the render publisher. Failures,
// including timeouts, are reported in the Result and never as errors
package exec

import (
	"bytes"
	"context"
	"fmt"
	"github.com/pkg/errors"
	osexec "os/exec"
	"time"
)

// waitDelay bounds how long Run waits for the output pipes to close once the command was killed
// or exited
const waitDelay = time.Second

// Result holds the outcome of a command
type Result struct {
	OK       bool
	TimedOut bool
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner is implemented by any value that has the Run method
type Runner interface {
	// Run executes argv and waits for it to finish or for the timeout to expire. A zero
	// timeout means no timeout
	Run(ctx context.Context, argv []string, timeout time.Duration) (result Result)
}

// CommandRunner runs commands with os/exec
type CommandRunner struct{}

// NewRunner returns a new CommandRunner
func NewRunner() (r *CommandRunner) {
	return new(CommandRunner)
}

// Run executes argv. The process is killed when the timeout expires
func (r *CommandRunner) Run(ctx context.Context, argv []string, timeout time.Duration) (result Result) {
	if len(argv) == 0 {
		return Result{OK: false, ExitCode: -1, Stderr: "empty command"}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := osexec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)

	err := cmd.Run()
	if errors.Is(err, osexec.ErrWaitDelay) {
		err = nil
	}

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if ctx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		result.ExitCode = -1
		result.Stderr = result.Stderr + fmt.Sprintf("timed out after %s", timeout)
		return result
	}

	if err != nil {
		result.ExitCode = -1
		if exitErr, ok := err.(*osexec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.Stderr = result.Stderr + err.Error()
		}

		return result
	}

	result.OK = true
	return result
}
