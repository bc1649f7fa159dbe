package types

// Mode represents the current input mode of the TUI
type Mode int

const (
	// Normal is the default mode for navigation and selection
	Normal Mode = iota
	// Filter is the mode for typing a glob filter
	Filter
	// Command is the mode for typing a path to jump to
	Command
)

// Pane identifies which panel has keyboard focus.
type Pane int

const (
	ListingPane Pane = iota
	ContainerPane
	PreviewPane
)

// String returns the pane name.
func (p Pane) String() string {
	switch p {
	case ListingPane:
		return "listing"
	case ContainerPane:
		return "container"
	case PreviewPane:
		return "preview"
	}
	return "unknown"
}
