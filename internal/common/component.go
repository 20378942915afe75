package common

import (
	"atatf/internal/atatf"
)

// TraceErrorLog is the interface to the host environment error logging.
type TraceErrorLog interface {
	// LogError logs an error.
	LogError(filterLevel atatf.ErrSeverity, msg string)
	// LogMessage logs a standard message.
	LogMessage(filterLevel atatf.ErrSeverity, msg string)
}

// AttachPt is a generic component attachment point.
// T represents the interface type being attached.
type AttachPt[T any] struct {
	enabled     bool
	hasAttached bool
	comp        T
}

// NewAttachPt creates a new attachment point.
func NewAttachPt[T any]() *AttachPt[T] {
	return &AttachPt[T]{
		enabled: true,
	}
}

// Attach attaches an interface of type T to the attachment point.
func (a *AttachPt[T]) Attach(comp T) atatf.Err {
	if a.hasAttached {
		return atatf.ErrAttachTooMany
	}
	a.comp = comp
	a.hasAttached = true
	return atatf.OK
}

// Detach detaches the current component from the attachment point.
func (a *AttachPt[T]) Detach() atatf.Err {
	if !a.hasAttached {
		return atatf.ErrAttachCompNotFound
	}
	var empty T
	a.comp = empty
	a.hasAttached = false
	return atatf.OK
}

// ReplaceFirst detaches any currently attached component and attaches the new one.
func (a *AttachPt[T]) ReplaceFirst(comp T) atatf.Err {
	if a.hasAttached {
		_ = a.Detach()
	}
	return a.Attach(comp)
}

// First returns the current attached interface.
// Note: The caller should verify HasAttachedAndEnabled() before using.
func (a *AttachPt[T]) First() T {
	if !a.enabled {
		var empty T
		return empty
	}
	return a.comp
}

// Enabled returns true if the attachment point is enabled.
func (a *AttachPt[T]) Enabled() bool {
	return a.enabled
}

// SetEnabled sets the enabled state.
func (a *AttachPt[T]) SetEnabled(enable bool) {
	a.enabled = enable
}

// HasAttached returns true if there is an attached interface.
func (a *AttachPt[T]) HasAttached() bool {
	return a.hasAttached
}

// HasAttachedAndEnabled returns true if there is an attachment and it is enabled.
func (a *AttachPt[T]) HasAttachedAndEnabled() bool {
	return a.hasAttached && a.enabled
}

// TraceComponent is the base struct for the decode components.
// It provides error logging attachment and component naming.
type TraceComponent struct {
	name         string
	errorLogger  AttachPt[TraceErrorLog]
	errVerbosity atatf.ErrSeverity
}

// InitTraceComponent initializes a TraceComponent in place so it can be embedded.
func (tc *TraceComponent) InitTraceComponent(name string) {
	tc.name = name
	tc.errVerbosity = atatf.ErrSevError
	tc.errorLogger.enabled = true
}

// ComponentName returns the component's name.
func (tc *TraceComponent) ComponentName() string {
	return tc.name
}

// ErrorLogAttachPt returns the error logger attachment point.
func (tc *TraceComponent) ErrorLogAttachPt() *AttachPt[TraceErrorLog] {
	return &tc.errorLogger
}

// LogError logs an error if an error logger is attached and the severity passes the filter.
func (tc *TraceComponent) LogError(err *Error) {
	if err.Sev <= tc.errVerbosity && tc.errorLogger.HasAttachedAndEnabled() {
		tc.errorLogger.First().LogError(err.Sev, tc.name+": "+err.Error())
	}
}

// LogMessage logs a message if the level matches the verbosity and a logger is attached.
func (tc *TraceComponent) LogMessage(filterLevel atatf.ErrSeverity, msg string) {
	if filterLevel <= tc.errVerbosity && tc.errorLogger.HasAttachedAndEnabled() {
		tc.errorLogger.First().LogMessage(filterLevel, tc.name+": "+msg)
	}
}

// ErrorLogLevel returns the current error log level.
func (tc *TraceComponent) ErrorLogLevel() atatf.ErrSeverity {
	return tc.errVerbosity
}

// SetErrorLogLevel sets the verbosity of error logging.
func (tc *TraceComponent) SetErrorLogLevel(level atatf.ErrSeverity) {
	tc.errVerbosity = level
}
