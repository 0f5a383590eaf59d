package panels

import (
	"fmt"

	"atlas-editor/internal/app"
	"atlas-editor/internal/region"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// RegionPanel lists the region editor's regions in natural name order and
// mirrors the editor's selection.
type RegionPanel struct {
	state *app.State

	list    *widget.List
	summary *widget.Label
	detail  *widget.Label
	box     fyne.CanvasObject

	// rows maps list rows to region indices
	rows    []int
	regions []region.Region
	syncing bool

	// OnChanged is called after the panel changes the editor's selection.
	OnChanged func()
	// OnDetect is called by the Auto Detect button.
	OnDetect func()
}

// NewRegionPanel creates a region panel over state.
func NewRegionPanel(state *app.State) *RegionPanel {
	rp := &RegionPanel{state: state}

	rp.summary = widget.NewLabel("No regions")
	rp.detail = widget.NewLabel("")
	rp.list = widget.NewList(
		func() int { return len(rp.rows) },
		func() fyne.CanvasObject { return widget.NewLabel("region_name_placeholder") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(rp.rows) {
				obj.(*widget.Label).SetText(rp.regions[rp.rows[id]].Name)
			}
		},
	)
	rp.list.OnSelected = func(id widget.ListItemID) {
		if rp.syncing || id >= len(rp.rows) {
			return
		}
		rp.state.Regions.Select(rp.rows[id])
		rp.showDetail()
		if rp.OnChanged != nil {
			rp.OnChanged()
		}
	}

	detectBtn := widget.NewButton("Auto Detect", func() {
		if rp.OnDetect != nil {
			rp.OnDetect()
		}
	})

	rp.box = container.NewBorder(
		container.NewVBox(rp.summary, detectBtn),
		rp.detail,
		nil, nil,
		rp.list,
	)

	state.On(app.EventRegionsChanged, func(interface{}) { rp.Sync() })
	return rp
}

// Container returns the panel for embedding in layouts.
func (rp *RegionPanel) Container() fyne.CanvasObject {
	return rp.box
}

// Sync reloads the list from the editor.
func (rp *RegionPanel) Sync() {
	rp.regions = rp.state.Regions.Regions()
	names := make([]string, len(rp.regions))
	for i, r := range rp.regions {
		names[i] = r.Name
	}
	rp.rows = naturalOrder(names)

	switch len(rp.regions) {
	case 0:
		rp.summary.SetText("No regions")
	case 1:
		rp.summary.SetText("1 region")
	default:
		rp.summary.SetText(fmt.Sprintf("%d regions", len(rp.regions)))
	}
	rp.list.Refresh()
	rp.syncSelection()
}

// syncSelection highlights the editor's selected region without feeding the
// change back to the editor.
func (rp *RegionPanel) syncSelection() {
	rp.syncing = true
	defer func() { rp.syncing = false }()

	sel := rp.state.Regions.State().Selected
	for row, i := range rp.rows {
		if i == sel {
			rp.list.Select(row)
			rp.showDetail()
			return
		}
	}
	rp.list.UnselectAll()
	rp.showDetail()
}

func (rp *RegionPanel) showDetail() {
	r, ok := rp.state.Regions.State().SelectedRegion()
	if !ok {
		rp.detail.SetText("")
		return
	}
	rp.detail.SetText(r.Name + "\n" + formatRectInt(r.Bounds))
}
