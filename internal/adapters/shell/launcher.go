// Package shell provides the process launcher adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/scribe/internal/core/domain"
	"go.trai.ch/zerr"
)

// Launcher implements ports.ProcessLauncher using os/exec.
type Launcher struct {
	environ func() []string
}

// NewLauncher creates a new Launcher that inherits the current process environment.
func NewLauncher() *Launcher {
	return &Launcher{environ: os.Environ}
}

// Launch runs the command and captures stdout and stderr separately.
// It merges environments with the following priority (low to high):
// 1. os.Environ() minus cmd.Unset (System base)
// 2. cmd.Env (Build environment variables)
//
// Special handling is applied to PATH: a PATH in cmd.Env is prepended to the system PATH.
func (l *Launcher) Launch(ctx context.Context, cmd domain.Command, stream io.Writer) (domain.CommandResult, error) {
	if cmd.Program == "" {
		return domain.CommandResult{}, zerr.Wrap(domain.ErrExecution, "empty command")
	}

	if cmd.WorkingDir != "" {
		info, err := os.Stat(cmd.WorkingDir)
		if err == nil && !info.IsDir() {
			err = zerr.New("not a directory")
		}
		if err != nil {
			return domain.CommandResult{}, executionError("working directory unavailable", err,
				"working_dir", cmd.WorkingDir)
		}
	}

	cmdEnv := resolveEnvironment(l.environ(), cmd.Unset, cmd.Env)

	// Resolve the executable path using the new environment's PATH.
	// Names containing a separator are used as given.
	executable := cmd.Program
	if !strings.ContainsRune(cmd.Program, filepath.Separator) {
		lp, err := lookPath(cmd.Program, cmdEnv)
		if err != nil {
			return domain.CommandResult{}, executionError("program not found", err, "program", cmd.Program)
		}
		executable = lp
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // configured toolchain command

	// exec.CommandContext sets Args[0] to the executable path.
	// Preserve the name as invoked.
	if len(c.Args) > 0 {
		c.Args[0] = cmd.Program
	}
	c.Dir = cmd.WorkingDir
	c.Env = cmdEnv

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if stream != nil {
		sw := &syncWriter{w: stream}
		c.Stdout = io.MultiWriter(&stdout, sw)
		c.Stderr = io.MultiWriter(&stderr, sw)
	}

	err := c.Run()
	res := domain.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, executionError("command interrupted", ctxErr, "program", cmd.Program)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	return res, executionError("command could not run", err, "program", cmd.Program)
}

// executionError wraps domain.ErrExecution, keeping the underlying cause as metadata.
func executionError(msg string, cause error, key, value string) error {
	err := zerr.With(zerr.Wrap(domain.ErrExecution, msg), key, value)
	return zerr.With(err, "reason", cause.Error())
}

// syncWriter serializes writes from the stdout and stderr copiers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// resolveEnvironment merges environment variables with the defined priority.
func resolveEnvironment(sysEnv, unset []string, cmdEnv map[string]string) []string {
	// 1. Start with System Environment
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}
	for _, k := range unset {
		delete(envMap, k)
	}

	// 2. Apply Build Environment (Prepend PATH)
	for k, v := range cmdEnv {
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
				continue
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
