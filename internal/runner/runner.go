package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Result is the captured outcome of one external program invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Failed reports whether the program exited non-zero.
func (r *Result) Failed() bool {
	return r.ExitCode != 0
}

// Exec runs external programs and captures their output.
//
// A non-zero exit is not an error: the captured stderr is logged under the
// tool's name and the Result is returned so callers can continue with
// whatever stdout was produced. Only failing to start the program (or the
// context ending) is returned as an error.
type Exec struct {
	log     *zap.Logger
	timeout time.Duration
}

// Option configures an Exec.
type Option func(*Exec)

// WithTimeout bounds each invocation. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Exec) { e.timeout = d }
}

// New creates an Exec that logs to log. A nil logger falls back to zap.L().
func New(log *zap.Logger, opts ...Option) *Exec {
	if log == nil {
		log = zap.L()
	}
	e := &Exec{log: log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run invokes bin with args. tool is the logical name used to tag log lines
// (e.g. "tesseract"), independent of the configured binary path.
func (e *Exec) Run(ctx context.Context, tool, bin string, args ...string) (*Result, error) {
	log := e.log.Named(tool)

	argv := append([]string{bin}, args...)
	log.Debug("called with args", zap.Strings("args", argv))

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, eris.Wrapf(ctx.Err(), "runner: %s interrupted", tool)
	}

	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, eris.Wrapf(err, "runner: start %s", bin)
		}
		res.ExitCode = exitErr.ExitCode()
		log.Error("exited non-zero", zap.Int("exit_code", res.ExitCode), zap.ByteString("stderr", res.Stderr))
	}

	return res, nil
}
