package common

import (
	"v2browse/internal/tui/components"
	"v2browse/internal/tui/styles"
	"v2browse/pkg/types"
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Mode() types.Mode
	Pane() types.Pane
	ShowHelp() bool
	Size() (width, height int)
	Theme() styles.Theme

	Breadcrumbs() []types.Crumb
	Filter() string
	SelectionMode() string
	Selected() map[string]bool
	ContainerChecked() map[string]bool

	Tree() *components.FileTree
	ContainerList() *components.FileList
	Preview() *components.FileBrowser
	Status() *components.StatusBar
	Prompt() *components.Prompt
	HelpView() string
}
