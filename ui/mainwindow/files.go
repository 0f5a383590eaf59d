package mainwindow

import (
	"path/filepath"
	"strings"

	atlasimage "atlas-editor/internal/image"
	"atlas-editor/internal/project"
	"atlas-editor/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

var jsonExt = []string{".json"}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// openFile shows a file-open dialog filtered to exts and calls fn with the
// chosen path.
func (mw *MainWindow) openFile(exts []string, fn func(path string) error) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
		if err := fn(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// saveFile shows a file-save dialog and calls fn with the chosen path, ext
// appended when missing.
func (mw *MainWindow) saveFile(name, ext string, fn func(path string) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := withExt(writer.URI().Path(), ext)
		mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
		if err := fn(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(name)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func withExt(path, ext string) string {
	if strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	return path + ext
}

// suggestedName derives a file name for a save dialog from the image.
func (mw *MainWindow) suggestedName(suffix string) string {
	base := "untitled"
	if mw.state.Image != nil {
		base = strings.TrimSuffix(filepath.Base(mw.state.Image.Path), filepath.Ext(mw.state.Image.Path))
	}
	return base + suffix
}

// confirmDiscard runs fn directly, or after the user agrees to drop
// unsaved changes.
func (mw *MainWindow) confirmDiscard(fn func()) {
	if !mw.state.Modified {
		fn()
		return
	}
	dialog.ShowConfirm("Unsaved Changes", "Discard unsaved changes?", func(ok bool) {
		if ok {
			fn()
		}
	}, mw.Window)
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	mw.confirmDiscard(func() {
		mw.openFile(atlasimage.SupportedFormats(), func(path string) error {
			if err := mw.state.LoadImage(path); err != nil {
				return err
			}
			mw.updateStatus("Image loaded: " + path)
			return nil
		})
	})
}

func (mw *MainWindow) onOpenProject() {
	mw.confirmDiscard(func() {
		mw.openFile([]string{project.Extension}, func(path string) error {
			mw.openProject(path)
			return nil
		})
	})
}

func (mw *MainWindow) openProject(path string) {
	if err := mw.state.LoadProject(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.addRecent(path)
}

func (mw *MainWindow) addRecent(path string) {
	mw.prefs.AddRecent(path)
	mw.rebuildRecent()
	if menu := mw.MainMenu(); menu != nil {
		menu.Refresh()
	}
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	mw.saveFile(mw.suggestedName(project.Extension), project.Extension, func(path string) error {
		if err := mw.state.SaveProject(path); err != nil {
			return err
		}
		mw.addRecent(path)
		mw.updateStatus("Project saved: " + path)
		return nil
	})
}

func (mw *MainWindow) onLoadRegions() {
	mw.openFile(jsonExt, mw.state.LoadRegions)
}

func (mw *MainWindow) onSaveRegions() {
	if mw.state.RegionsPath == "" {
		mw.onSaveRegionsAs()
		return
	}
	if err := mw.state.SaveRegions(mw.state.RegionsPath); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.updateStatus("Regions saved: " + mw.state.RegionsPath)
}

func (mw *MainWindow) onSaveRegionsAs() {
	mw.saveFile(mw.suggestedName("_regions.json"), ".json", func(path string) error {
		if err := mw.state.SaveRegions(path); err != nil {
			return err
		}
		mw.updateStatus("Regions saved: " + path)
		return nil
	})
}

func (mw *MainWindow) onLoadArrangementRegions() {
	mw.openFile(jsonExt, func(path string) error {
		if err := mw.state.LoadArrangementRegions(path); err != nil {
			return err
		}
		mw.tabs.SelectIndex(tabArrangement)
		return nil
	})
}

func (mw *MainWindow) onLoadArrangement() {
	mw.openFile(jsonExt, mw.state.LoadArrangement)
}

func (mw *MainWindow) onSaveArrangement() {
	mw.saveFile(mw.suggestedName("_arrangement.json"), ".json", func(path string) error {
		if err := mw.state.SaveArrangement(path); err != nil {
			return err
		}
		mw.updateStatus("Arrangement saved: " + path)
		return nil
	})
}

func (mw *MainWindow) onExportComposite() {
	mw.saveFile(mw.suggestedName("_composite.png"), ".png", mw.state.ExportComposite)
}
