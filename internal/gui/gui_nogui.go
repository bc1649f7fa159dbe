//go:build nogui

package gui

import (
	"v2browse/internal/errors"
	"v2browse/internal/session"
)

// Run is a stub for builds with the GUI disabled.
func Run(_ *session.Session, opts ...Option) error {
	newSettings(opts).logger.Warn("GUI is disabled in this build, use the browse command")
	return errors.New("GUI not available in this build")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
