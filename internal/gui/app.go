//go:build !nogui

package gui

import (
	"fmt"
	"sync"

	"v2browse/internal/log"
	"v2browse/internal/session"
	"v2browse/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// App is the GUI application
type App struct {
	settings

	fyneApp    fyne.App
	mainWindow fyne.Window
	session    *session.Session

	// async runs requests off the UI goroutine; tests turn it off
	async bool

	mu      sync.Mutex
	listing types.Listing
	filter  *types.Pattern
	shown   uint64 // DirSeq of the listing the tree was reset for

	tree       *widget.Tree
	containerL *widget.List
	crumbs     *fyne.Container
	pathEntry  *widget.Entry
	filterIn   *widget.Entry
	preview    *widget.Label
	previewTtl *widget.Label
	status     *widget.Label
	errLabel   *widget.Label
	modeLabel  *widget.Label
}

// Run opens the browser window over s and blocks until it is closed.
func Run(s *session.Session, opts ...Option) error {
	a := NewApp(app.NewWithID("io.github.v2browse"), s, opts...)
	a.Run()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}

// NewApp creates the window on fa without showing it.
func NewApp(fa fyne.App, s *session.Session, opts ...Option) *App {
	a := &App{
		settings: newSettings(opts),
		fyneApp:  fa,
		session:  s,
		async:    true,
	}
	// no listing shown yet, so the first refresh draws the breadcrumbs
	a.shown = ^uint64(0)
	a.mainWindow = fa.NewWindow("v2browse")
	a.setupMainWindow()
	return a
}

// Run shows the window, loads the start directory and runs the event loop.
func (a *App) Run() {
	a.Start()
	a.mainWindow.ShowAndRun()
}

// Start loads the start directory and begins following container updates.
func (a *App) Start() {
	a.dispatch(a.session.Navigate(a.startPath))
	if a.watch != nil {
		go a.followContainer()
	}
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(1000, 700))

	top := container.NewVBox(a.createNavBar(), a.createCrumbBar())
	right := container.NewVSplit(a.createContainerPane(), a.createPreviewPane())
	right.Offset = 0.4
	body := container.NewHSplit(a.createListingPane(), right)
	body.Offset = 0.45

	a.status = widget.NewLabel("")
	a.errLabel = widget.NewLabel("")
	a.errLabel.Importance = widget.DangerImportance
	dismiss := widget.NewButton("Dismiss", func() {
		a.session.Dismiss()
		a.refresh()
	})
	bottom := container.NewBorder(nil, nil, nil, dismiss, container.NewHBox(a.status, a.errLabel))

	a.mainWindow.SetContent(container.NewBorder(top, bottom, nil, nil, body))

	a.mainWindow.Canvas().SetOnTypedKey(func(ke *fyne.KeyEvent) {
		switch ke.Name {
		case fyne.KeyBackspace:
			a.dispatch(a.session.Up())
		case fyne.KeyF5:
			a.dispatch(a.session.Reload())
		case fyne.KeyEscape:
			a.session.Dismiss()
			a.refresh()
		}
	})

	a.refresh()
}

// ShowError displays an error message
func (a *App) ShowError(message string, err error) {
	a.logger.With(log.ErrorFields(err)...).Error(message)
	dialog.ShowError(fmt.Errorf("%s: %w", message, err), a.mainWindow)
}

// ShowInfo displays an information message
func (a *App) ShowInfo(message string) {
	a.logger.Info(message)
	dialog.ShowInformation("Info", message, a.mainWindow)
}

// dispatch executes req and applies the result. fyne 2.5 widgets may be
// refreshed from any goroutine.
func (a *App) dispatch(req session.Request) {
	a.refresh()
	run := func() {
		a.session.Apply(a.session.Execute(a.ctx, req))
		a.refresh()
	}
	if a.async {
		go run()
		return
	}
	run()
}

// check reports container write failures; the session already shows them.
func (a *App) check(err error) {
	if err != nil {
		a.logger.With(log.ErrorFields(err)...).Warn("Container update failed")
	}
	a.refresh()
}

func (a *App) followContainer() {
	for data := range a.watch {
		c, err := decodeContainer(data)
		if err != nil {
			a.logger.With(log.ErrorFields(err)...).Warn("Ignoring unreadable container update")
			continue
		}
		a.session.ReplaceContainer(c)
		a.refresh()
	}
}
