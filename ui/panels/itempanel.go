package panels

import (
	"fmt"
	"slices"

	"atlas-editor/internal/app"
	"atlas-editor/internal/arrange"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ItemPanel lists arrangement items topmost first.
type ItemPanel struct {
	state *app.State

	list    *widget.List
	summary *widget.Label
	box     fyne.CanvasObject

	// rows maps list rows to item indices
	rows    []int
	scene   arrange.Scene
	syncing bool

	// OnChanged is called after the panel changes the scene or selection.
	OnChanged func(arrange.Effect)
}

// NewItemPanel creates an item panel over state.
func NewItemPanel(state *app.State) *ItemPanel {
	ip := &ItemPanel{state: state}

	ip.summary = widget.NewLabel("No items")
	ip.list = widget.NewList(
		func() int { return len(ip.rows) },
		func() fyne.CanvasObject { return widget.NewLabel("item_name_placeholder  z=00") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(ip.rows) {
				obj.(*widget.Label).SetText(itemLabel(ip.scene.Item(ip.rows[id])))
			}
		},
	)
	ip.list.OnSelected = func(id widget.ListItemID) {
		if ip.syncing || id >= len(ip.rows) {
			return
		}
		ip.state.Arrangement.Select(ip.rows[id])
		ip.changed(arrange.Effect{Redraw: true})
	}

	undoBtn := widget.NewButton("Undo", func() {
		ip.changed(ip.state.Arrangement.Undo())
	})
	fromEditorBtn := widget.NewButton("Use Editor Regions", func() {
		if err := ip.state.UseEditorRegions(); err != nil {
			ip.state.Notify("%v", err)
		}
	})

	ip.box = container.NewBorder(
		container.NewVBox(ip.summary, container.NewGridWithColumns(2, fromEditorBtn, undoBtn)),
		nil, nil, nil,
		ip.list,
	)

	state.On(app.EventArrangementChanged, func(interface{}) { ip.Sync() })
	return ip
}

// Container returns the panel for embedding in layouts.
func (ip *ItemPanel) Container() fyne.CanvasObject {
	return ip.box
}

func (ip *ItemPanel) changed(eff arrange.Effect) {
	ip.Sync()
	if ip.OnChanged != nil {
		ip.OnChanged(eff)
	}
}

// Sync reloads the list from the arrangement editor.
func (ip *ItemPanel) Sync() {
	st := ip.state.Arrangement.State()
	ip.scene = st.Scene
	ip.rows = topFirst(st.Scene)

	if n := st.Scene.Len(); n == 0 {
		ip.summary.SetText("No items")
	} else {
		ip.summary.SetText(fmt.Sprintf("%d items, %d selected, %d undo steps", n, len(st.Selected), st.Undo.Len()))
	}
	ip.list.Refresh()

	ip.syncing = true
	defer func() { ip.syncing = false }()
	ip.list.UnselectAll()
	if len(st.Selected) == 1 {
		if row := slices.Index(ip.rows, st.Selected[0]); row >= 0 {
			ip.list.Select(row)
		}
	}
}

// topFirst returns item indices in reverse draw order.
func topFirst(s arrange.Scene) []int {
	order := s.DrawOrder()
	slices.Reverse(order)
	return order
}

func itemLabel(it arrange.Item) string {
	return fmt.Sprintf("%s  z=%d  %s", it.Name, it.Z, formatRect(it.Bounds))
}
