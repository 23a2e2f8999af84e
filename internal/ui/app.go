package ui

import (
	"SceneBoard/internal/input"
	"SceneBoard/internal/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// App is the desktop window holding one board.
type App struct {
	app     fyne.App
	window  fyne.Window
	toolbar *Toolbar
	Board   *BoardWidget
}

// NewApp creates the window and its board. It must be called on the main
// goroutine.
func NewApp(title string, width, height float32, gesture input.Config) *App {
	a := app.New()
	w := a.NewWindow(title)
	w.Resize(fyne.NewSize(width, height))
	board := NewBoardWidget(gesture)
	return &App{app: a, window: w, toolbar: NewToolbar(board, w), Board: board}
}

// Prompter returns the label text prompt bound to this window.
func (a *App) Prompter() input.Prompter {
	return NewTextPrompter(a.window)
}

// HistoryChanged keeps the undo and redo buttons in step with the scene.
// It is called from the session loop.
func (a *App) HistoryChanged(canUndo, canRedo bool) {
	a.toolbar.SetHistory(canUndo, canRedo)
}

// Run shows the window and blocks until it is closed. A non-empty shareLink
// is shown so others on the LAN can join.
func (a *App) Run(loop *session.Loop, shareLink string) {
	a.Board.Attach(loop)
	a.toolbar.Attach(loop)
	toolbar := a.toolbar.Build()

	bottom := []fyne.CanvasObject{a.Board.StatusBar()}
	if shareLink != "" {
		link := widget.NewEntry()
		link.SetText(shareLink)
		link.Disable()
		copyBtn := widget.NewButton("Copy link", func() {
			a.window.Clipboard().SetContent(shareLink)
			a.Board.SetStatus("Link copied")
		})
		bottom = append(bottom, widget.NewLabel("Share:"), link, copyBtn)
	}

	content := container.NewBorder(toolbar, container.NewHBox(bottom...), nil, nil, a.Board)
	a.window.SetContent(content)
	a.window.ShowAndRun()
}

// Quit closes the window from any goroutine.
func (a *App) Quit() {
	fyne.Do(a.app.Quit)
}
