// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"

	"atlas-editor/internal/prompt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

var errNotInteger = errors.New("enter a whole number")

// validatorFor returns the entry validator for a request kind. Names are not
// validated here; the editors decide what a blank or duplicate name means.
func validatorFor(kind prompt.Kind) fyne.StringValidator {
	if kind != prompt.KindInteger {
		return nil
	}
	return func(s string) error {
		if _, ok := prompt.ParseInt(prompt.Value(s)); !ok {
			return errNotInteger
		}
		return nil
	}
}

// Ask shows req as a modal form and calls done exactly once with the answer.
func Ask(win fyne.Window, req prompt.Request, done func(prompt.Response)) {
	entry := widget.NewEntry()
	entry.SetText(req.Seed)
	entry.Validator = validatorFor(req.Kind)

	label := "Name"
	if req.Kind == prompt.KindInteger {
		label = "Value"
	}
	items := []*widget.FormItem{widget.NewFormItem(label, entry)}
	if req.Message != "" {
		items[0].HintText = req.Message
	}

	dlg := dialog.NewForm(req.Title, "OK", "Cancel", items, func(ok bool) {
		if !ok {
			done(prompt.Cancel())
			return
		}
		done(prompt.Value(entry.Text))
	}, win)
	dlg.Resize(fyne.NewSize(360, 180))
	dlg.Show()
	win.Canvas().Focus(entry)
}
