package app

import (
	"errors"
	goimage "image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"atlas-editor/internal/atlasfile"
	"atlas-editor/internal/image"
	"atlas-editor/internal/input"
	"atlas-editor/internal/prompt"
	"atlas-editor/internal/region"
	"atlas-editor/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir   string
	image string
	state *State
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	img := goimage.NewNRGBA(goimage.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	path := filepath.Join(dir, "sheet.png")
	require.NoError(t, image.SavePNG(path, img))
	return fixture{dir: dir, image: path, state: NewState()}
}

func (f fixture) write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const iconRegions = `[{"name":"icon","x":10,"y":10,"width":50,"height":50}]`

func TestLoadRegions_NeedsImage(t *testing.T) {
	f := newFixture(t)
	err := f.state.LoadRegions(f.write(t, "r.json", iconRegions))
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestLoadRegions_FailureKeepsState(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))
	good := f.write(t, "good.json", iconRegions)
	require.NoError(t, f.state.LoadRegions(good))

	err := f.state.LoadRegions(f.write(t, "bad.json", `[{"name":"a","x":0`))
	require.Error(t, err)
	assert.Len(t, f.state.Regions.Regions(), 1)
	assert.Equal(t, good, f.state.RegionsPath)
}

func TestLoadImage_ClearsSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))
	require.NoError(t, f.state.LoadRegions(f.write(t, "r.json", iconRegions)))
	require.NoError(t, f.state.UseEditorRegions())

	var events []EventType
	for _, ev := range []EventType{EventImageLoaded, EventRegionsChanged, EventArrangementChanged} {
		ev := ev
		f.state.On(ev, func(interface{}) { events = append(events, ev) })
	}
	require.NoError(t, f.state.LoadImage(f.image))

	assert.Empty(t, f.state.Regions.Regions())
	assert.Equal(t, 0, f.state.Arrangement.Scene().Len())
	assert.Equal(t, []EventType{EventImageLoaded, EventRegionsChanged, EventArrangementChanged}, events)
	assert.Equal(t, 200, f.state.Regions.State().Width)
}

func TestLoadImage_FailureKeepsImage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))
	assert.Error(t, f.state.LoadImage(filepath.Join(f.dir, "missing.png")))
	assert.True(t, f.state.HasImage())
	assert.Equal(t, f.image, f.state.Image.Path)
}

func TestSaveRegions_AfterEditing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))
	require.NoError(t, f.state.LoadRegions(f.write(t, "r.json", iconRegions)))

	ed := f.state.Regions
	ed.Handle(input.PressAt(input.ButtonLeft, 100, 100))
	ed.Handle(input.MoveTo(60, 60))
	eff := ed.Handle(input.ReleaseAt(input.ButtonLeft, 60, 60))
	require.NotNil(t, eff.Request)
	ed.Resolve(promptValue("button"))

	out := filepath.Join(f.dir, "out.json")
	require.NoError(t, f.state.SaveRegions(out))
	assert.False(t, f.state.Modified)

	other := NewState()
	require.NoError(t, other.LoadImage(f.image))
	require.NoError(t, other.LoadRegions(out))
	assert.Equal(t, []region.Region{
		{Name: "icon", Bounds: geometry.RectInt{X: 10, Y: 10, Width: 50, Height: 50}},
		{Name: "button", Bounds: geometry.RectInt{X: 60, Y: 60, Width: 40, Height: 40}},
	}, other.Regions.Regions())
}

func TestLoadArrangementRegions_SkipsOutside(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))

	var notices []string
	f.state.On(EventNotice, func(d interface{}) { notices = append(notices, d.(string)) })

	path := f.write(t, "r.json", `[
		{"name":"icon","x":10,"y":10,"width":50,"height":50},
		{"name":"edge","x":190,"y":190,"width":20,"height":20}
	]`)
	require.NoError(t, f.state.LoadArrangementRegions(path))

	scene := f.state.Arrangement.Scene()
	require.Equal(t, 1, scene.Len())
	assert.Equal(t, geometry.NewRect(10, 10, 50, 50), scene.Item(0).Bounds)
	assert.Len(t, notices, 1)
	assert.Equal(t, path, f.state.ArrangementRegionsPath)
}

func TestArrangement_SaveLoadExport(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))
	require.NoError(t, f.state.LoadArrangementRegions(f.write(t, "r.json", iconRegions)))

	ed := f.state.Arrangement
	ed.Handle(input.PressAt(input.ButtonLeft, 20, 20))
	ed.Handle(input.MoveTo(520, 320))
	ed.Handle(input.ReleaseAt(input.ButtonLeft, 520, 320))
	require.Equal(t, 1, ed.State().Undo.Len())

	arrPath := filepath.Join(f.dir, "arr.json")
	require.NoError(t, f.state.SaveArrangement(arrPath))

	require.NoError(t, f.state.UseEditorRegions())
	assert.Equal(t, 0, f.state.Arrangement.Scene().Len(), "editor has no regions")

	require.NoError(t, f.state.LoadArrangementRegions(f.write(t, "r2.json", iconRegions)))
	require.NoError(t, f.state.LoadArrangement(arrPath))
	assert.Equal(t, geometry.NewRect(510, 310, 50, 50), f.state.Arrangement.Scene().Item(0).Bounds)
	assert.Equal(t, 0, f.state.Arrangement.State().Undo.Len(), "loading clears undo")

	out := filepath.Join(f.dir, "composite.png")
	require.NoError(t, f.state.ExportComposite(out))
	src, err := image.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 1280, src.Width())
	assert.Equal(t, 720, src.Height())
}

func TestLoadArrangement_Malformed(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))
	require.NoError(t, f.state.LoadArrangementRegions(f.write(t, "r.json", iconRegions)))

	err := f.state.LoadArrangement(f.write(t, "arr.json", `not json`))
	require.Error(t, err)
	assert.Equal(t, geometry.NewRect(10, 10, 50, 50), f.state.Arrangement.Scene().Item(0).Bounds)
	assert.Empty(t, f.state.ArrangementPath)
}

func TestLoadArrangement_ZeroSizeKeepsScene(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))
	require.NoError(t, f.state.LoadArrangementRegions(f.write(t, "r.json", iconRegions)))

	err := f.state.LoadArrangement(f.write(t, "arr.json",
		`[{"name":"icon","screenX":300,"screenY":300,"width":0,"height":50,"z":2}]`))
	assert.ErrorIs(t, err, atlasfile.ErrInvalidPlacement)
	item := f.state.Arrangement.Scene().Item(0)
	assert.Equal(t, geometry.NewRect(10, 10, 50, 50), item.Bounds)
	assert.Equal(t, 0, item.Z)
}

// dragArrangement drags the arrangement from one screen point to another
// and records the change the way the main window does.
func (f fixture) dragArrangement(fromX, fromY, toX, toY float64) {
	ed := f.state.Arrangement
	for _, ev := range []input.Event{
		input.PressAt(input.ButtonLeft, fromX, fromY),
		input.MoveTo(toX, toY),
		input.ReleaseAt(input.ButtonLeft, toX, toY),
	} {
		if ed.Handle(ev).Modified {
			f.state.MarkModified(DocArrangement)
		}
	}
}

func TestModified_TracksDocumentsSeparately(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))
	require.NoError(t, f.state.LoadRegions(f.write(t, "r.json", iconRegions)))
	require.NoError(t, f.state.UseEditorRegions())
	arrPath := filepath.Join(f.dir, "arr.json")
	require.NoError(t, f.state.SaveArrangement(arrPath))
	require.False(t, f.state.Modified)

	f.dragArrangement(20, 20, 120, 120)
	require.Equal(t, geometry.NewRect(110, 110, 50, 50), f.state.Arrangement.Scene().Item(0).Bounds)
	assert.True(t, f.state.Unsaved(DocArrangement))

	require.NoError(t, f.state.SaveRegions(filepath.Join(f.dir, "r.json")))
	assert.True(t, f.state.Modified, "arrangement edits are still unsaved")
	assert.False(t, f.state.Unsaved(DocRegions))
	assert.Equal(t, "sheet.png * - Atlas Editor", f.state.Title())

	require.NoError(t, f.state.LoadRegions(filepath.Join(f.dir, "r.json")))
	assert.True(t, f.state.Unsaved(DocArrangement))

	require.NoError(t, f.state.SaveArrangement(arrPath))
	assert.False(t, f.state.Modified)

	f.state.MarkModified(DocRegions)
	require.NoError(t, f.state.LoadArrangement(arrPath))
	assert.True(t, f.state.Modified, "region edits are still unsaved")
	assert.False(t, f.state.Unsaved(DocArrangement))
}

func TestModified_EventFollowsAllDocuments(t *testing.T) {
	f := newFixture(t)
	var seen []bool
	f.state.On(EventModified, func(d interface{}) { seen = append(seen, d.(bool)) })

	f.state.MarkModified(DocRegions | DocArrangement)
	f.state.MarkSaved(DocRegions)
	f.state.MarkSaved(DocArrangement)

	assert.Equal(t, []bool{true, true, false}, seen)
}

func TestSaveProject_FailureKeepsProject(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))
	require.NoError(t, f.state.LoadRegions(f.write(t, "r.json", iconRegions)))
	projPath := filepath.Join(f.dir, "game.atlasproj")
	require.NoError(t, f.state.SaveProject(projPath))
	before := *f.state.Project

	bad := filepath.Join(f.dir, "missing", "game.atlasproj")
	require.Error(t, f.state.SaveProject(bad))

	assert.Equal(t, before, *f.state.Project)
	assert.Equal(t, projPath, f.state.ProjectPath)
}

type fakeNamer struct {
	name string
	err  error
}

func (n fakeNamer) SuggestName(goimage.Image, geometry.RectInt) (string, error) {
	return n.name, n.err
}

func TestAutoDetect(t *testing.T) {
	f := newFixture(t)
	_, err := f.state.AutoDetect()
	assert.ErrorIs(t, err, ErrNoImage)

	require.NoError(t, f.state.LoadImage(f.image))
	require.NoError(t, f.state.LoadRegions(f.write(t, "r.json", iconRegions)))

	f.state.Detect = func(goimage.Image) ([]geometry.RectInt, error) {
		return []geometry.RectInt{
			{X: 20, Y: 20, Width: 10, Height: 10},
			{X: 100, Y: 100, Width: 30, Height: 30},
		}, nil
	}
	added, err := f.state.AutoDetect()
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.True(t, f.state.Modified)
	assert.Equal(t, "region_2", f.state.Regions.Regions()[1].Name)

	f.state.Detect = func(goimage.Image) ([]geometry.RectInt, error) { return nil, errors.New("boom") }
	_, err = f.state.AutoDetect()
	assert.ErrorContains(t, err, "boom")
	assert.Len(t, f.state.Regions.Regions(), 2)
}

func TestSuggestName(t *testing.T) {
	f := newFixture(t)
	r := geometry.RectInt{X: 100, Y: 100, Width: 20, Height: 20}
	assert.Equal(t, "", f.state.SuggestName(r))

	require.NoError(t, f.state.LoadImage(f.image))
	require.NoError(t, f.state.LoadRegions(f.write(t, "r.json", iconRegions)))
	assert.Equal(t, "", f.state.SuggestName(r))

	f.state.Namer = fakeNamer{name: "start"}
	assert.Equal(t, "start", f.state.SuggestName(r))

	f.state.Namer = fakeNamer{name: "icon"}
	assert.Equal(t, "icon_2", f.state.SuggestName(r))

	f.state.Namer = fakeNamer{err: errors.New("no tesseract")}
	assert.Equal(t, "", f.state.SuggestName(r))
}

func TestProject_SaveLoad(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))
	require.NoError(t, f.state.LoadRegions(f.write(t, "r.json", iconRegions)))
	require.NoError(t, f.state.UseEditorRegions())
	f.state.Arrangement.Handle(input.DoubleClickAt(20, 20))
	f.state.Arrangement.Resolve(promptValue("3"))

	projPath := filepath.Join(f.dir, "game.atlasproj")
	require.NoError(t, f.state.SaveProject(projPath))
	assert.FileExists(t, filepath.Join(f.dir, "game_arrangement.json"))

	other := NewState()
	var loaded []interface{}
	other.On(EventProjectLoaded, func(d interface{}) { loaded = append(loaded, d) })
	require.NoError(t, other.LoadProject(projPath))

	assert.Equal(t, []interface{}{projPath}, loaded)
	assert.Equal(t, f.state.Regions.Regions(), other.Regions.Regions())
	scene := other.Arrangement.Scene()
	require.Equal(t, 1, scene.Len())
	assert.Equal(t, 3, scene.Item(0).Z)
	assert.Equal(t, "game.atlasproj - Atlas Editor", other.Title())
}

func TestLoadProject_MissingRegionsKeepsSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.LoadImage(f.image))
	projPath := f.write(t, "p.atlasproj", `{"version":1,"name":"p","image":"sheet.png","regions":"gone.json"}`)

	assert.Error(t, f.state.LoadProject(projPath))
	assert.Empty(t, f.state.ProjectPath)
	assert.Equal(t, "sheet.png - Atlas Editor", f.state.Title())
}

func promptValue(v string) prompt.Response { return prompt.Value(v) }
