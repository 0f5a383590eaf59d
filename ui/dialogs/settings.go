package dialogs

import (
	"fmt"
	"strconv"

	"atlas-editor/internal/project"
	"atlas-editor/internal/prompt"
	"atlas-editor/internal/region"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// SettingsDialog provides a property sheet for editing project settings.
type SettingsDialog struct {
	settings project.Settings
	window   fyne.Window

	suggestCheck *widget.Check
	minSizeEntry *widget.Entry

	onSave func(project.Settings)
}

// NewSettingsDialog creates a settings dialog over a copy of settings.
func NewSettingsDialog(settings project.Settings, window fyne.Window, onSave func(project.Settings)) *SettingsDialog {
	return &SettingsDialog{
		settings: settings,
		window:   window,
		onSave:   onSave,
	}
}

// Show displays the dialog.
func (d *SettingsDialog) Show() {
	dlg := dialog.NewCustomConfirm(
		"Project Settings",
		"Save",
		"Cancel",
		d.createContent(),
		func(save bool) {
			if !save {
				return
			}
			settings := applySettings(d.settings, d.suggestCheck.Checked, d.minSizeEntry.Text)
			if d.onSave != nil {
				d.onSave(settings)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(420, 260))
	dlg.Show()
}

func (d *SettingsDialog) createContent() fyne.CanvasObject {
	d.suggestCheck = widget.NewCheck("Suggest names from text in the region", nil)
	d.suggestCheck.SetChecked(d.settings.SuggestNames)

	d.minSizeEntry = widget.NewEntry()
	d.minSizeEntry.SetText(fmt.Sprintf("%d", d.settings.DetectMinSize))
	d.minSizeEntry.Validator = validatorFor(prompt.KindInteger)

	detectForm := widget.NewForm(
		widget.NewFormItem("Minimum size (px)", d.minSizeEntry),
	)

	return container.NewVBox(
		widget.NewCard("Naming", "", d.suggestCheck),
		widget.NewCard("Auto Detect", "", detectForm),
	)
}

// applySettings returns s with the dialog's values. Unparseable or too small
// sizes keep the previous value.
func applySettings(s project.Settings, suggest bool, minSize string) project.Settings {
	s.SuggestNames = suggest
	if v, err := strconv.Atoi(minSize); err == nil && v > region.MinDrawSize {
		s.DetectMinSize = v
	}
	return s
}
