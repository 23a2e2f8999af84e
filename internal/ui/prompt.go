package ui

import (
	"context"

	"SceneBoard/internal/input"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// textPrompter asks for label text in a modal form. PromptText runs on the
// session loop and waits while the dialog is handled on the UI thread.
type textPrompter struct {
	win fyne.Window
}

var _ input.Prompter = (*textPrompter)(nil)

func NewTextPrompter(win fyne.Window) input.Prompter {
	return &textPrompter{win: win}
}

func (p *textPrompter) PromptText(ctx context.Context) (string, error) {
	answer := make(chan string, 1)
	var form dialog.Dialog

	fyne.Do(func() {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("Label text")
		items := []*widget.FormItem{widget.NewFormItem("Text", entry)}
		form = dialog.NewForm("Add text", "Add", "Cancel", items, func(ok bool) {
			if ok {
				answer <- entry.Text
				return
			}
			answer <- ""
		}, p.win)
		form.Show()
		p.win.Canvas().Focus(entry)
	})

	select {
	case text := <-answer:
		return text, nil
	case <-ctx.Done():
		fyne.Do(func() {
			if form != nil {
				form.Hide()
			}
		})
		return "", ctx.Err()
	}
}
