// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image"

	"atlas-editor/internal/app"
	"atlas-editor/internal/arrange"
	"atlas-editor/internal/input"
	"atlas-editor/internal/project"
	"atlas-editor/internal/prompt"
	"atlas-editor/internal/region"
	"atlas-editor/internal/version"
	"atlas-editor/internal/viewport"
	"atlas-editor/ui/canvas"
	"atlas-editor/ui/dialogs"
	"atlas-editor/ui/panels"
	"atlas-editor/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/spatial/r2"
)

// Tab indices.
const (
	tabRegions = iota
	tabArrangement
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	regionView  *canvas.View
	arrangeView *canvas.View
	regionPanel *panels.RegionPanel
	itemPanel   *panels.ItemPanel
	tabs        *container.AppTabs
	statusBar   *widget.Label
	zoomLabel   *widget.Label

	recentMenu *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Atlas Editor")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	mw.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, 1280)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, 800)),
	))
	mw.SetCloseIntercept(mw.onClose)
	mw.SetTitle(state.Title())
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.regionView = canvas.NewView()
	mw.regionView.Paint = func(dst *image.RGBA, scale float64) {
		st := mw.state.Regions.State()
		var src image.Image
		if mw.state.Image != nil {
			src = mw.state.Image.Image
		}
		canvas.PaintRegions(dst, src, st, st.View.Scaled(scale))
	}
	mw.regionView.OnEvent = mw.onRegionEvent

	mw.arrangeView = canvas.NewView()
	mw.arrangeView.Paint = func(dst *image.RGBA, scale float64) {
		st := mw.state.Arrangement.State()
		canvas.PaintArrangement(dst, st, st.View.Scaled(scale))
	}
	mw.arrangeView.OnEvent = mw.onArrangeEvent

	mw.regionPanel = panels.NewRegionPanel(mw.state)
	mw.regionPanel.OnChanged = mw.regionView.Refresh
	mw.regionPanel.OnDetect = mw.onAutoDetect

	mw.itemPanel = panels.NewItemPanel(mw.state)
	mw.itemPanel.OnChanged = mw.applyArrangeEffect

	regionSplit := container.NewHSplit(mw.regionPanel.Container(), mw.regionView)
	regionSplit.SetOffset(0.2)
	arrangeSplit := container.NewHSplit(mw.itemPanel.Container(), mw.arrangeView)
	arrangeSplit.SetOffset(0.2)

	mw.tabs = container.NewAppTabs(
		container.NewTabItem("Regions", regionSplit),
		container.NewTabItem("Arrangement", arrangeSplit),
	)
	mw.tabs.OnSelected = func(*container.TabItem) { mw.updateZoomLabel() }

	mw.statusBar = widget.NewLabel("Ready")
	mw.zoomLabel = widget.NewLabel("100%")

	bottom := container.NewBorder(nil, nil, nil, mw.zoomLabel, mw.statusBar)
	content := container.NewBorder(mw.createToolbar(), bottom, nil, nil, mw.tabs)
	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.onZoomOut),
		widget.NewButton("+", mw.onZoomIn),
		widget.NewButton("Fit", mw.onFit),
		widget.NewButton("1:1", mw.onActualSize),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	mw.recentMenu = fyne.NewMenuItem("Open Recent", nil)
	mw.rebuildRecent()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		mw.recentMenu,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Load Regions...", mw.onLoadRegions),
		fyne.NewMenuItem("Save Regions", mw.onSaveRegions),
		fyne.NewMenuItem("Save Regions As...", mw.onSaveRegionsAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Load Arrangement Regions...", mw.onLoadArrangementRegions),
		fyne.NewMenuItem("Load Arrangement...", mw.onLoadArrangement),
		fyne.NewMenuItem("Save Arrangement...", mw.onSaveArrangement),
		fyne.NewMenuItem("Export Composite...", mw.onExportComposite),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() { mw.dispatch(input.KeyPress(input.KeyUndo)) }),
		fyne.NewMenuItem("Delete", func() { mw.dispatch(input.KeyPress(input.KeyDelete)) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Auto Detect Regions", mw.onAutoDetect),
		fyne.NewMenuItem("Project Settings...", mw.onSettings),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Fit to Window", mw.onFit),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Regions", func() { mw.tabs.SelectIndex(tabRegions) }),
		fyne.NewMenuItem("Arrangement", func() { mw.tabs.SelectIndex(tabArrangement) }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

func (mw *MainWindow) rebuildRecent() {
	var items []*fyne.MenuItem
	for _, path := range mw.prefs.Recent() {
		items = append(items, fyne.NewMenuItem(path, func() { mw.openProject(path) }))
	}
	if len(items) == 0 {
		none := fyne.NewMenuItem("(none)", nil)
		none.Disabled = true
		items = append(items, none)
	}
	mw.recentMenu.ChildMenu = fyne.NewMenu("", items...)
}

// setupShortcuts routes editing keys to the visible editor.
func (mw *MainWindow) setupShortcuts() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if k := canvas.Key(ev.Name); k != input.KeyNone {
			mw.dispatch(input.KeyPress(k))
		}
	})
	mw.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyZ,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) {
		mw.dispatch(input.KeyPress(input.KeyUndo))
	})
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	updateTitle := func(interface{}) { mw.SetTitle(mw.state.Title()) }
	mw.state.On(app.EventModified, updateTitle)
	mw.state.On(app.EventProjectSaved, updateTitle)

	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		updateTitle(data)
		if path, ok := data.(string); ok {
			mw.updateStatus("Project loaded: " + path)
		}
	})

	mw.state.On(app.EventImageLoaded, func(interface{}) {
		updateTitle(nil)
		mw.fitRegions()
		mw.regionView.Refresh()
		mw.arrangeView.Refresh()
	})

	mw.state.On(app.EventRegionsChanged, func(interface{}) { mw.regionView.Refresh() })
	mw.state.On(app.EventArrangementChanged, func(interface{}) { mw.arrangeView.Refresh() })
	mw.state.On(app.EventNotice, func(data interface{}) {
		if msg, ok := data.(string); ok {
			mw.updateStatus(msg)
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// Editor input

// dispatch sends ev to the editor on the visible tab.
func (mw *MainWindow) dispatch(ev input.Event) {
	if mw.tabs.SelectedIndex() == tabArrangement {
		mw.onArrangeEvent(ev)
		return
	}
	mw.onRegionEvent(ev)
}

func (mw *MainWindow) onRegionEvent(ev input.Event) {
	eff := mw.state.Regions.Handle(ev)
	if ev.Kind == input.Move && mw.state.Regions.State().Mode == region.Idle {
		mw.regionView.SetZoneCursor(eff.Cursor)
	}
	mw.applyRegionEffect(eff)
}

func (mw *MainWindow) applyRegionEffect(eff region.Effect) {
	if eff.Notice != "" {
		mw.updateStatus(eff.Notice)
	}
	if eff.Modified {
		mw.state.MarkModified(app.DocRegions)
		mw.regionPanel.Sync()
	}
	if eff.Redraw {
		mw.regionPanel.Sync()
		mw.regionView.Refresh()
		mw.updateZoomLabel()
	}
	if eff.Request != nil {
		mw.askRegionName(*eff.Request)
	}
}

// askRegionName shows a name request. New regions are seeded with a name
// read from the image when suggestions are enabled.
func (mw *MainWindow) askRegionName(req prompt.Request) {
	if req.Seed == "" && mw.Settings().SuggestNames {
		if bounds, ok := mw.state.Regions.PendingBounds(); ok {
			req.Seed = mw.state.SuggestName(bounds)
		}
	}
	dialogs.Ask(mw.Window, req, func(resp prompt.Response) {
		mw.applyRegionEffect(mw.state.Regions.Resolve(resp))
		mw.regionView.Refresh()
	})
}

func (mw *MainWindow) onArrangeEvent(ev input.Event) {
	mw.applyArrangeEffect(mw.state.Arrangement.Handle(ev))
}

func (mw *MainWindow) applyArrangeEffect(eff arrange.Effect) {
	if eff.Notice != "" {
		mw.updateStatus(eff.Notice)
	}
	if eff.Modified {
		mw.state.MarkModified(app.DocArrangement)
	}
	if eff.Redraw {
		mw.itemPanel.Sync()
		mw.arrangeView.Refresh()
		mw.updateZoomLabel()
	}
	if eff.Request != nil {
		dialogs.Ask(mw.Window, *eff.Request, func(resp prompt.Response) {
			mw.applyArrangeEffect(mw.state.Arrangement.Resolve(resp))
			mw.arrangeView.Refresh()
		})
	}
}

// Settings returns the active naming and detection settings: the project's
// when one is open, otherwise the user preferences.
func (mw *MainWindow) Settings() project.Settings {
	return settingsFor(mw.state.Project, mw.prefs)
}

func settingsFor(proj *project.File, p *prefs.Prefs) project.Settings {
	if proj != nil {
		return proj.Settings
	}
	return project.Settings{
		SuggestNames:  p.Bool(prefs.KeySuggestNames, false),
		DetectMinSize: p.Int(prefs.KeyDetectMinSize, project.DefaultDetectMinSize),
	}
}

// View control

// activeView returns the visible view widget and its viewport.
func (mw *MainWindow) activeView() (*canvas.View, *viewport.Viewport) {
	if mw.tabs.SelectedIndex() == tabArrangement {
		return mw.arrangeView, mw.state.Arrangement.View()
	}
	return mw.regionView, mw.state.Regions.View()
}

func (mw *MainWindow) zoomBy(factor float64) {
	view, vp := mw.activeView()
	size := view.Size()
	center := r2.Vec{X: float64(size.Width) / 2, Y: float64(size.Height) / 2}
	if vp.ZoomAt(center, factor) {
		view.Refresh()
		mw.updateZoomLabel()
	}
}

func (mw *MainWindow) onZoomIn() {
	mw.zoomBy(viewport.ZoomStep)
}

func (mw *MainWindow) onZoomOut() {
	mw.zoomBy(1 / viewport.ZoomStep)
}

func (mw *MainWindow) onActualSize() {
	view, vp := mw.activeView()
	vp.Reset()
	view.Refresh()
	mw.updateZoomLabel()
}

func (mw *MainWindow) onFit() {
	if mw.tabs.SelectedIndex() == tabArrangement {
		size := mw.arrangeView.Size()
		mw.state.Arrangement.View().Fit(arrange.WorldWidth, arrange.WorldHeight, float64(size.Width), float64(size.Height))
		mw.arrangeView.Refresh()
	} else {
		mw.fitRegions()
		mw.regionView.Refresh()
	}
	mw.updateZoomLabel()
}

func (mw *MainWindow) fitRegions() {
	if !mw.state.HasImage() {
		return
	}
	size := mw.regionView.Size()
	mw.state.Regions.View().Fit(float64(mw.state.Image.Width()), float64(mw.state.Image.Height()),
		float64(size.Width), float64(size.Height))
}

func (mw *MainWindow) updateZoomLabel() {
	_, vp := mw.activeView()
	mw.zoomLabel.SetText(fmt.Sprintf("%.0f%%", vp.Zoom*100))
}

// Tools

func (mw *MainWindow) onAutoDetect() {
	mw.updateStatus("Detecting regions...")
	added, err := mw.state.AutoDetect()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if added > 0 {
		mw.updateStatus(fmt.Sprintf("Added %d detected regions", added))
	}
}

func (mw *MainWindow) onSettings() {
	dialogs.NewSettingsDialog(mw.Settings(), mw.Window, func(s project.Settings) {
		mw.prefs.SetBool(prefs.KeySuggestNames, s.SuggestNames)
		mw.prefs.SetInt(prefs.KeyDetectMinSize, s.DetectMinSize)
		if mw.state.Project != nil && mw.state.Project.Settings != s {
			mw.state.Project.Settings = s
			mw.state.MarkModified(app.DocProject)
		}
	}).Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Atlas Editor",
		fmt.Sprintf("Atlas Editor %s\n\n"+
			"Mark named regions on a sprite sheet and arrange\n"+
			"them on a 1280x720 canvas.",
			version.String()),
		mw.Window)
}

func (mw *MainWindow) onClose() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		fyne.LogError("failed to save preferences", err)
	}

	if !mw.state.Modified {
		mw.Close()
		return
	}
	dialog.ShowConfirm("Unsaved Changes", "Discard unsaved changes and quit?", func(ok bool) {
		if ok {
			mw.Close()
		}
	}, mw.Window)
}
