package deploy

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/RevCBH/mondeploy/internal/container"
	"github.com/RevCBH/mondeploy/internal/events"
	"github.com/RevCBH/mondeploy/internal/registry"
)

// Driver runs deployment passes: for every registry entry, in order, it
// removes any existing container with the same name and starts a fresh one.
// Failures are reported and never stop the pass.
type Driver struct {
	manager container.Manager
	emit    events.Handler
}

// Option configures a Driver.
type Option func(*Driver)

// WithHandler sends lifecycle events to h.
func WithHandler(h events.Handler) Option {
	return func(d *Driver) {
		d.emit = h
	}
}

// New creates a driver issuing commands through m.
func New(m container.Manager, opts ...Option) *Driver {
	d := &Driver{
		manager: m,
		emit:    func(events.Event) {},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Stop removes the named container if present. A missing container is not
// an error; anything else (including an unreachable daemon) is returned.
func (d *Driver) Stop(ctx context.Context, name string) error {
	d.emit(events.NewEvent(events.ContainerRemoving, name))

	if err := d.manager.Remove(ctx, name); err != nil {
		d.emit(events.NewEvent(events.ContainerRemoveFailed, name).WithError(err))
		return err
	}

	d.emit(events.NewEvent(events.ContainerRemoved, name))
	return nil
}

// Start runs a detached container from spec. On failure the returned error
// carries the runtime's diagnostic output.
func (d *Driver) Start(ctx context.Context, spec registry.ContainerSpec) (container.ContainerID, error) {
	d.emit(events.NewEvent(events.ContainerStarting, spec.Name))

	id, err := d.manager.Run(ctx, spec)
	if err != nil {
		d.emit(events.NewEvent(events.ContainerStartFailed, spec.Name).
			WithError(err).
			WithPayload(events.StartFailed{Diagnostic: Diagnostic(err)}))
		return "", err
	}

	d.emit(events.NewEvent(events.ContainerStarted, spec.Name).
		WithPayload(events.Started{ContainerID: string(id)}))
	return id, nil
}

// Deploy performs one pass over reg. Each entry is stopped then started
// before the next is touched. Once ctx is cancelled the remaining entries
// are skipped.
func (d *Driver) Deploy(ctx context.Context, reg *registry.Registry) *Report {
	report := &Report{ID: uuid.NewString()}

	d.emit(events.NewEvent(events.DeployStarted, "").
		WithPayload(events.PassStarted{ID: report.ID, Containers: reg.Names()}))

	for _, spec := range reg.Specs() {
		if ctx.Err() != nil {
			report.Skipped = append(report.Skipped, spec.Name)
			continue
		}
		res := Result{Name: spec.Name}
		res.StopErr = d.Stop(ctx, spec.Name)
		res.ContainerID, res.StartErr = d.Start(ctx, spec)
		report.Results = append(report.Results, res)
	}

	d.emit(events.NewEvent(events.DeployCompleted, "").
		WithPayload(events.PassCompleted{
			ID:      report.ID,
			Started: len(report.Started()),
			Failed:  len(report.Failed()),
			Skipped: len(report.Skipped),
		}))

	return report
}

// Diagnostic extracts the runtime's own error text from a start failure.
func Diagnostic(err error) string {
	var runErr *container.RunError
	if errors.As(err, &runErr) && runErr.Diagnostic != "" {
		return runErr.Diagnostic
	}
	return err.Error()
}
