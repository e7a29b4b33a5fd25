package direct

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ScriptRunner runs computation unit scripts as isolated subprocesses. Each
// Run owns a private stdin/stdout/stderr triple; nothing is shared between
// concurrent invocations.
type ScriptRunner struct{}

// NewScriptRunner creates a new script runner
func NewScriptRunner() *ScriptRunner {
	return &ScriptRunner{}
}

// Run executes a script under the given interpreter, writing input to the
// process stdin and buffering stdout/stderr until the process terminates or
// ctx is cancelled. On cancellation the process is killed and buffered
// output is discarded: timedOut is true and the caller receives no partial
// data.
func (r *ScriptRunner) Run(ctx context.Context, interpreter, scriptPath string, input []byte) (stdout, stderr string, exitCode int, timedOut bool, err error) {
	if _, statErr := os.Stat(scriptPath); os.IsNotExist(statErr) {
		return "", "", -1, false, fmt.Errorf("script not found: %s", scriptPath)
	}

	// The working directory is changed below, so the path handed to the
	// interpreter must not be relative to the caller's directory.
	scriptPath, err = filepath.Abs(scriptPath)
	if err != nil {
		return "", "", -1, false, fmt.Errorf("failed to resolve script path: %w", err)
	}

	var cmd *exec.Cmd
	if interpreter == "" || interpreter == "binary" {
		if chmodErr := os.Chmod(scriptPath, 0755); chmodErr != nil {
			return "", "", -1, false, fmt.Errorf("failed to make script executable: %w", chmodErr)
		}
		cmd = exec.Command(scriptPath)
	} else {
		cmd = exec.Command(interpreter, scriptPath)
	}

	// Working directory is the script's own directory
	cmd.Dir = filepath.Dir(scriptPath)

	// Bound Wait after the process dies so pipes held open by grandchildren
	// cannot stall the deadline kill below.
	cmd.WaitDelay = time.Second

	cmd.Stdin = bytes.NewReader(input)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Start(); err != nil {
		return "", "", -1, false, fmt.Errorf("failed to start script: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case waitErr := <-done:
		exitCode = 0
		if waitErr != nil {
			exitError, ok := waitErr.(*exec.ExitError)
			if !ok {
				return outBuf.String(), errBuf.String(), -1, false, fmt.Errorf("script execution error: %w", waitErr)
			}
			exitCode = exitError.ExitCode()
		}
		return outBuf.String(), errBuf.String(), exitCode, false, nil
	case <-ctx.Done():
		// Kill the process at the deadline and reap it so no orphan remains
		_ = cmd.Process.Kill()
		<-done
		return "", "", -1, true, nil
	}
}
