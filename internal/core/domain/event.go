package domain

import "time"

// EventCode identifies the kind of a lifecycle event.
type EventCode uint8

const (
	// EventStarting is published once, before the first build.
	EventStarting EventCode = iota
	// EventBuildStart is published when a build cycle begins.
	EventBuildStart
	// EventBuildEnd is published when a build cycle completes successfully.
	EventBuildEnd
	// EventError is published when a build cycle fails.
	EventError
)

// String returns the wire name of the event code.
func (c EventCode) String() string {
	switch c {
	case EventStarting:
		return "STARTING"
	case EventBuildStart:
		return "BUILD_START"
	case EventBuildEnd:
		return "BUILD_END"
	case EventError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is a build lifecycle notification.
type Event struct {
	Code EventCode
	// Time is when the event was produced.
	Time time.Time
	// Duration is the wall-clock time of the build cycle. Set on EventBuildEnd.
	Duration time.Duration
	// Initial reports whether the build was the first one of the process. Set on EventBuildEnd.
	Initial bool
	// Err is the failure detail. Set on EventError.
	Err error
}

// NewEvent creates an event with the given code stamped with the current time.
func NewEvent(code EventCode) Event {
	return Event{Code: code, Time: time.Now()}
}

// BuildEndEvent creates an EventBuildEnd.
func BuildEndEvent(duration time.Duration, initial bool) Event {
	e := NewEvent(EventBuildEnd)
	e.Duration = duration
	e.Initial = initial
	return e
}

// ErrorEvent creates an EventError carrying err.
func ErrorEvent(err error) Event {
	e := NewEvent(EventError)
	e.Err = err
	return e
}
