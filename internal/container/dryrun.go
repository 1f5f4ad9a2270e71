package container

import (
	"context"
	"fmt"
	"io"

	"github.com/RevCBH/mondeploy/internal/registry"
)

// DryRunManager prints the runtime commands a real manager would issue
// and reports every step as successful.
type DryRunManager struct {
	runtime string
	out     io.Writer
}

// NewDryRunManager writes `<runtime> ...` command lines to out.
func NewDryRunManager(runtime string, out io.Writer) *DryRunManager {
	return &DryRunManager{runtime: runtime, out: out}
}

func (m *DryRunManager) Remove(_ context.Context, name string) error {
	fmt.Fprintln(m.out, CommandLine(m.runtime, RemoveArgs(name)...))
	return nil
}

func (m *DryRunManager) Run(_ context.Context, spec registry.ContainerSpec) (ContainerID, error) {
	args, err := RunArgs(spec)
	if err != nil {
		return "", &RunError{Name: spec.Name, Err: err}
	}
	fmt.Fprintln(m.out, CommandLine(m.runtime, args...))
	return "", nil
}

var _ Manager = (*DryRunManager)(nil)
