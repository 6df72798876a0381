package docs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	goruntime "runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/upt-tools/upt/internal/logging"
)

// MinimumDocFxVersion is the oldest DocFx release the builder supports.
var MinimumDocFxVersion = semver.MustParse("2.70.0")

// ErrDocFxNotFound is returned when no DocFx executable can be located.
var ErrDocFxNotFound = errors.New("docfx not found")

// diagnostics that cannot be fixed from package sources and are dropped.
var ignoredDiagnostics = []string{"CS0246", "CS0103", "InvalidCref"}

var versionPattern = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

// Runner runs the documentation generator.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) error
}

// DocFx runs a DocFx executable and forwards its output to a logger.
type DocFx struct {
	Path string
	log  *logging.Logger
}

// NewDocFx creates a runner for the executable at path.
func NewDocFx(path string, log *logging.Logger) *DocFx {
	if log == nil {
		log = logging.Discard()
	}
	return &DocFx{Path: path, log: log}
}

// ExecutableName is the DocFx file name on the current platform.
func ExecutableName() string {
	if goruntime.GOOS == "windows" {
		return "docfx.exe"
	}
	return "docfx"
}

// FindDocFx locates DocFx in dir when dir is set, otherwise on PATH.
func FindDocFx(dir string) (string, error) {
	if dir != "" {
		p := filepath.Join(dir, ExecutableName())
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%w at %s", ErrDocFxNotFound, p)
		}
		return p, nil
	}
	p, err := exec.LookPath(ExecutableName())
	if err != nil {
		return "", fmt.Errorf("%w on PATH: install it with `dotnet tool update -g docfx`", ErrDocFxNotFound)
	}
	return p, nil
}

// Version asks the executable for its version.
func (d *DocFx) Version(ctx context.Context) (*semver.Version, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, d.Path, "--version")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("querying docfx version: %w", err)
	}
	return ParseDocFxVersion(stdout.String())
}

// ParseDocFxVersion extracts the first dotted version from out.
func ParseDocFxVersion(out string) (*semver.Version, error) {
	m := versionPattern.FindString(out)
	if m == "" {
		return nil, fmt.Errorf("unrecognized docfx version output %q", strings.TrimSpace(out))
	}
	return semver.NewVersion(m)
}

// CheckVersion returns the executable's version and fails when it is older
// than MinimumDocFxVersion.
func (d *DocFx) CheckVersion(ctx context.Context) (*semver.Version, error) {
	v, err := d.Version(ctx)
	if err != nil {
		return nil, err
	}
	if v.LessThan(MinimumDocFxVersion) {
		return v, fmt.Errorf("docfx %s is too old: version %s or newer is required (run `dotnet tool update -g docfx`)",
			v, MinimumDocFxVersion)
	}
	return v, nil
}

// Run executes DocFx in dir. Each output line is classified with
// ClassifyLine and logged; a non-zero exit status is an error.
func (d *DocFx) Run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, d.Path, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("attaching to docfx output: %w", err)
	}

	d.log.Info("Running docfx", "args", strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting docfx: %w", err)
	}

	scanErr := d.forward(stdout)
	waitErr := cmd.Wait()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			if msg != "" {
				return fmt.Errorf("docfx exited with code %d: %s", exitErr.ExitCode(), msg)
			}
			return fmt.Errorf("docfx exited with code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("running docfx: %w", waitErr)
	}
	if scanErr != nil {
		return fmt.Errorf("reading docfx output: %w", scanErr)
	}
	return nil
}

func (d *DocFx) forward(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		level, msg, keep := ClassifyLine(scanner.Text())
		if keep {
			d.log.Log(level, msg)
		}
	}
	if err := scanner.Err(); err != nil {
		// Drain so the process is not blocked on a full pipe.
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

// ClassifyLine maps a DocFx output line to a log level and message.
// Lines with known unfixable diagnostics and blank lines are dropped.
func ClassifyLine(line string) (level log.Level, msg string, keep bool) {
	if strings.TrimSpace(line) == "" {
		return 0, "", false
	}
	for _, code := range ignoredDiagnostics {
		if strings.Contains(line, code) {
			return 0, "", false
		}
	}
	switch {
	case strings.HasPrefix(line, "warning:"):
		return log.WarnLevel, strings.TrimSpace(strings.TrimPrefix(line, "warning:")), true
	case strings.HasPrefix(line, "error:"):
		return log.ErrorLevel, strings.TrimSpace(strings.TrimPrefix(line, "error:")), true
	default:
		return log.DebugLevel, line, true
	}
}
