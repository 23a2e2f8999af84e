package ui

import (
	"context"
	"fmt"
	"image/color"
	"io"

	"SceneBoard/internal/export"
	"SceneBoard/internal/input"
	"SceneBoard/internal/render"
	"SceneBoard/internal/session"
	"SceneBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var palette = []color.NRGBA{
	{A: 255},                 // black
	{R: 255, A: 255},         // red
	{G: 160, A: 255},         // green
	{B: 255, A: 255},         // blue
	{R: 255, G: 200, A: 255}, // yellow
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar wires the tool controls to the board and the loop behind it.
type Toolbar struct {
	board *BoardWidget
	loop  *session.Loop
	win   fyne.Window

	undo *widget.Button
	redo *widget.Button
}

func NewToolbar(board *BoardWidget, win fyne.Window) *Toolbar {
	t := &Toolbar{board: board, win: win}
	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() { t.send(session.Undo{}) })
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() { t.send(session.Redo{}) })
	t.undo.Disable()
	t.redo.Disable()
	return t
}

// Attach connects the controls to the loop. It must be called before Build.
func (t *Toolbar) Attach(loop *session.Loop) {
	t.loop = loop
}

// SetHistory enables undo and redo to match the scene's history. It may be
// called from any goroutine.
func (t *Toolbar) SetHistory(canUndo, canRedo bool) {
	fyne.Do(func() {
		setEnabled(t.undo, canUndo)
		setEnabled(t.redo, canRedo)
	})
}

func setEnabled(w fyne.Disableable, on bool) {
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}

func (t *Toolbar) send(ev session.Event) {
	t.loop.TrySubmit(ev)
}

// Build lays out the controls.
func (t *Toolbar) Build() fyne.CanvasObject {
	g := t.board.Gesture()

	names := make([]string, len(input.Tools))
	for i, tool := range input.Tools {
		names[i] = string(tool)
	}
	toolSelect := widget.NewSelect(names, func(name string) {
		tool, err := input.ParseTool(name)
		if err != nil {
			return
		}
		t.board.SetTool(tool)
		t.board.SetStatus("Tool: " + name)
	})
	toolSelect.SetSelected(string(g.Tool))

	onColorTapped := func(c color.Color) {
		t.board.SetColor(render.FormatColor(c))
	}
	colorBox := container.NewHBox()
	for _, c := range palette {
		colorBox.Add(newColorSwatch(c, onColorTapped))
	}

	strokeSlider := widget.NewSlider(1.0, 50.0)
	strokeSlider.SetValue(g.Width)
	strokeSlider.OnChanged = func(val float64) {
		t.board.SetWidth(val)
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { t.send(session.Zoom{In: true}) }),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { t.send(session.Zoom{In: false}) }),
		widget.NewToolbarAction(theme.ZoomFitIcon(), func() { t.send(session.ResetView{}) }),
		widget.NewToolbarAction(theme.GridIcon(), func() { t.send(session.ToggleGrid{}) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), t.confirmClear),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), t.save),
		widget.NewToolbarAction(theme.FolderOpenIcon(), t.open),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), t.exportPDF),
	)

	lock := widget.NewCheck("Lock", func(locked bool) {
		t.send(session.SetLocked{Locked: locked})
	})

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		toolSelect,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widget.NewSeparator(),
		t.undo,
		t.redo,
		tb,
		lock,
		layout.NewSpacer(),
	)
}

func (t *Toolbar) confirmClear() {
	dialog.ShowConfirm("Clear board", "Remove every element from the board?", func(ok bool) {
		if ok {
			t.send(session.Clear{})
		}
	}, t.win)
}

// elements fetches the scene from the loop. It must not be called on the UI
// thread while the loop may be waiting on a dialog.
func (t *Toolbar) elements() ([]state.Element, error) {
	var elements []state.Element
	err := t.loop.Do(context.Background(), func(in *input.Interpreter) {
		elements = in.Elements()
	})
	return elements, err
}

func (t *Toolbar) save() {
	dialog.ShowFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		if w == nil {
			return
		}
		go t.writeTo(w, "Saved", state.Encode)
	}, t.win)
}

func (t *Toolbar) exportPDF() {
	dialog.ShowFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		if w == nil {
			return
		}
		go t.writeTo(w, "Exported", export.WritePDF)
	}, t.win)
}

func (t *Toolbar) writeTo(w fyne.URIWriteCloser, verb string, write func(io.Writer, []state.Element) error) {
	defer func() {
		if err := w.Close(); err != nil {
			logger.Warnf("closing %s: %v", w.URI(), err)
		}
	}()
	elements, err := t.elements()
	if err == nil {
		err = write(w, elements)
	}
	if err != nil {
		logger.Errorf("writing %s: %v", w.URI(), err)
		t.board.SetStatus("Error writing file")
		return
	}
	logger.Infof("%s %d element(s) to %s", verb, len(elements), w.URI())
	t.board.SetStatus(fmt.Sprintf("%s %d drawings", verb, len(elements)))
}

func (t *Toolbar) open() {
	dialog.ShowFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		if r == nil {
			return
		}
		go t.readFrom(r)
	}, t.win)
}

func (t *Toolbar) readFrom(r fyne.URIReadCloser) {
	defer r.Close()
	t.board.SetStatus("Loading file...")

	elements, err := state.Decode(r)
	if err != nil {
		logger.Errorf("loading %s: %v", r.URI(), err)
		t.board.SetStatus("Error parsing file - invalid format")
		return
	}
	n, err := t.loop.Load(context.Background(), elements)
	if err != nil {
		t.board.SetStatus("Board is closed")
		return
	}
	if skipped := len(elements) - n; skipped > 0 {
		t.board.SetStatus(fmt.Sprintf("Loaded %d drawings, skipped %d invalid", n, skipped))
		return
	}
	t.board.SetStatus(fmt.Sprintf("Loaded %d drawings", n))
}
