package messages

import (
	"v2browse/internal/container"
	"v2browse/internal/session"
)

// ResultMsg carries the outcome of a directory service request back to the
// update loop.
type ResultMsg struct {
	Event session.Event
}

// ContainerReloadMsg delivers a container written by another process.
type ContainerReloadMsg struct {
	Container container.Container
	Err       error
}

// ConfigSavedMsg reports the outcome of persisting a config change.
type ConfigSavedMsg struct {
	Err error
}
