package deploy

import (
	"errors"

	"github.com/samber/lo"

	"github.com/RevCBH/mondeploy/internal/container"
)

// Result is the outcome of one registry entry.
type Result struct {
	Name        string
	ContainerID container.ContainerID

	// StopErr is set when removal failed for a reason other than absence.
	StopErr error

	// StartErr is set when the container could not be started.
	StartErr error
}

// OK reports whether the container was started.
func (r Result) OK() bool {
	return r.StartErr == nil
}

// Report summarizes a deployment pass.
type Report struct {
	// ID identifies the pass in logs
	ID      string
	Results []Result

	// Skipped lists entries not attempted because the pass was interrupted
	Skipped []string
}

// Started returns the results whose container is running.
func (r *Report) Started() []Result {
	return lo.Filter(r.Results, func(res Result, _ int) bool {
		return res.OK()
	})
}

// Failed returns the results whose start failed.
func (r *Report) Failed() []Result {
	return lo.Reject(r.Results, func(res Result, _ int) bool {
		return res.OK()
	})
}

// DaemonUnavailable reports whether any step failed because the runtime
// daemon could not be reached.
func (r *Report) DaemonUnavailable() bool {
	return lo.SomeBy(r.Results, func(res Result) bool {
		return errors.Is(res.StopErr, container.ErrDaemonUnavailable) ||
			errors.Is(res.StartErr, container.ErrDaemonUnavailable)
	})
}

// Err joins every start failure, or returns nil when all containers started.
func (r *Report) Err() error {
	return errors.Join(lo.Map(r.Failed(), func(res Result, _ int) error {
		return res.StartErr
	})...)
}
