package convergence

import (
	"context"
	"errors"
	"fmt"

	"golang-ifupdown/internal/pkg/iface"
)

// Observer pulls the live configuration of the interface described by desired.
// It returns a nil config when the interface has no configuration on the system.
type Observer interface {
	Observe(ctx context.Context, desired *iface.Config) (*iface.Config, error)
}

// Applier persists desired to the system.
type Applier interface {
	Apply(ctx context.Context, desired *iface.Config) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, desired *iface.Config) (*iface.Config, error)

func (f ObserverFunc) Observe(ctx context.Context, desired *iface.Config) (*iface.Config, error) {
	return f(ctx, desired)
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(ctx context.Context, desired *iface.Config) error

func (f ApplierFunc) Apply(ctx context.Context, desired *iface.Config) error {
	return f(ctx, desired)
}

// Engine tracks the sync status of one desired interface configuration.
//
// Before the first evaluation the status is InSync. It moves to OutOfSync only when Status
// observes drift, and back to InSync only when Converge applies successfully. Converge trusts
// the applier and does not observe again after applying.
//
// An Engine is not safe for concurrent use. Callers serialize engines that write the same file.
type Engine struct {
	desired  *iface.Config
	observer Observer
	applier  Applier
	last     SyncStatus
}

// NewEngine creates an engine for a validated desired configuration.
func NewEngine(desired *iface.Config, observer Observer, applier Applier) (*Engine, error) {
	if desired == nil {
		return nil, errors.New("desired configuration is required")
	}
	if observer == nil || applier == nil {
		return nil, errors.New("observer and applier are required")
	}
	return &Engine{
		desired:  desired,
		observer: observer,
		applier:  applier,
		last:     InSync,
	}, nil
}

// Desired returns the configuration the engine converges towards.
func (e *Engine) Desired() *iface.Config {
	return e.desired
}

// Last returns the most recently computed status.
func (e *Engine) Last() SyncStatus {
	return e.last
}

// Status observes the live configuration and compares it with the desired one.
// Live state the observer reports as ErrInvalidLiveState is OutOfSync. On any other observation
// failure the previous status is kept and returned with the error.
func (e *Engine) Status(ctx context.Context) (SyncStatus, error) {
	return e.evaluate(ctx)
}

// Converge evaluates the status and, when OutOfSync, hands the desired configuration to the
// applier. A failed apply leaves the status OutOfSync and returns an error wrapping ErrApplyFailed.
func (e *Engine) Converge(ctx context.Context) (SyncStatus, error) {
	status, err := e.evaluate(ctx)
	if err != nil || status == InSync {
		return status, err
	}

	if err := e.applier.Apply(ctx, e.desired); err != nil {
		e.last = OutOfSync
		return OutOfSync, fmt.Errorf("%w: interface %s: %w", ErrApplyFailed, e.desired.Name, err)
	}
	e.last = InSync
	return InSync, nil
}

// Drift observes the live configuration and returns the differing attribute names along with
// a readable report. It does not change the tracked status.
// Unrepresentable live state is reported against every desired attribute.
func (e *Engine) Drift(ctx context.Context) ([]string, string, error) {
	live, err := e.observer.Observe(ctx, e.desired)
	switch {
	case errors.Is(err, ErrInvalidLiveState):
		return Diff(e.desired, nil), err.Error(), nil
	case err != nil:
		return nil, "", fmt.Errorf("%w: interface %s: %w", ErrObserveFailed, e.desired.Name, err)
	}
	return Diff(e.desired, live), Report(e.desired, live), nil
}

func (e *Engine) evaluate(ctx context.Context) (SyncStatus, error) {
	live, err := e.observer.Observe(ctx, e.desired)
	switch {
	case errors.Is(err, ErrInvalidLiveState):
		e.last = OutOfSync
		return e.last, nil
	case err != nil:
		return e.last, fmt.Errorf("%w: interface %s: %w", ErrObserveFailed, e.desired.Name, err)
	}
	e.last = Compare(e.desired, live)
	return e.last, nil
}
