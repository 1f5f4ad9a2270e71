package container

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes runtime commands.
type Runner interface {
	// Exec runs bin with args and returns what it wrote to stdout and stderr.
	// err is non-nil when the process could not start or exited non-zero.
	Exec(ctx context.Context, bin string, args ...string) (stdout, stderr string, err error)
}

// osRunner executes real commands via exec.CommandContext.
type osRunner struct{}

func (osRunner) Exec(ctx context.Context, bin string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// OSRunner returns a Runner backed by os/exec.
func OSRunner() Runner {
	return osRunner{}
}

// CommandLine renders an invocation for display, quoting arguments that
// contain whitespace or are empty.
func CommandLine(bin string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, bin)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
