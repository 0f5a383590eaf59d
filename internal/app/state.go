// Package app provides the editing session: the loaded image, both editors,
// their files, and change events.
package app

import (
	"errors"
	"fmt"
	goimage "image"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"atlas-editor/internal/arrange"
	"atlas-editor/internal/atlasfile"
	"atlas-editor/internal/image"
	"atlas-editor/internal/project"
	"atlas-editor/internal/region"
	"atlas-editor/pkg/geometry"
)

// ErrNoImage is returned by operations that need a source image.
var ErrNoImage = errors.New("no image loaded")

// Detector finds candidate regions in an image.
type Detector func(img goimage.Image) ([]geometry.RectInt, error)

// Namer suggests a name for a region of an image.
type Namer interface {
	SuggestName(img goimage.Image, bounds geometry.RectInt) (string, error)
}

// State holds the session: source image, region editor, arrangement editor
// and the files they came from. Every load parses fully before touching the
// session, so a failed load leaves it unchanged.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Project     *project.File

	// Modified is true while any document has unsaved changes.
	Modified bool
	dirty    Document

	// Source image shared by both views
	Image *image.Source

	// Files
	RegionsPath            string
	ArrangementPath        string
	ArrangementRegionsPath string

	Regions     *region.Editor
	Arrangement *arrange.Editor

	// Optional collaborators; nil disables the feature
	Detect Detector
	Namer  Namer

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventImageLoaded
	EventRegionsChanged
	EventArrangementChanged
	EventModified
	EventNotice
)

// Document identifies one of the files a session edits.
type Document uint8

const (
	DocRegions Document = 1 << iota
	DocArrangement
	DocProject

	AllDocuments = DocRegions | DocArrangement | DocProject
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates an empty session.
func NewState() *State {
	return &State{
		Regions:     region.NewEditor(0, 0, nil),
		Arrangement: arrange.NewEditor(arrange.Scene{}),
		listeners:   make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks every document as modified or saved and emits an event.
func (s *State) SetModified(modified bool) {
	if modified {
		s.MarkModified(AllDocuments)
	} else {
		s.MarkSaved(AllDocuments)
	}
}

// MarkModified flags docs as having unsaved changes.
func (s *State) MarkModified(docs Document) {
	s.setDirty(func(d Document) Document { return d | docs })
}

// MarkSaved clears the unsaved flag of docs only.
func (s *State) MarkSaved(docs Document) {
	s.setDirty(func(d Document) Document { return d &^ docs })
}

// Unsaved reports whether any of docs has unsaved changes.
func (s *State) Unsaved(docs Document) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty&docs != 0
}

func (s *State) setDirty(update func(Document) Document) {
	s.mu.Lock()
	s.dirty = update(s.dirty)
	s.Modified = s.dirty != 0
	modified := s.Modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// Notify emits a user-facing notice.
func (s *State) Notify(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Print(msg)
	s.Emit(EventNotice, msg)
}

// HasImage reports whether a source image is loaded.
func (s *State) HasImage() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Image != nil
}

func (s *State) image() (*image.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Image == nil {
		return nil, ErrNoImage
	}
	return s.Image, nil
}

// LoadImage replaces the source image. Regions and arrangement items belong
// to the previous image and are cleared.
func (s *State) LoadImage(path string) error {
	src, err := image.Load(path)
	if err != nil {
		return err
	}
	s.setImage(src)
	log.Printf("Loaded image %s (%dx%d)", path, src.Width(), src.Height())

	s.Emit(EventImageLoaded, src)
	s.Emit(EventRegionsChanged, nil)
	s.Emit(EventArrangementChanged, nil)
	s.SetModified(false)
	return nil
}

func (s *State) setImage(src *image.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Image = src
	s.RegionsPath = ""
	s.ArrangementPath = ""
	s.ArrangementRegionsPath = ""
	s.Regions.Reset(src.Width(), src.Height(), nil)
	s.Regions.View().Reset()
	s.Arrangement.SetScene(arrange.Scene{})
}

// LoadRegions replaces the editor's regions with those in a region file.
func (s *State) LoadRegions(path string) error {
	src, err := s.image()
	if err != nil {
		return err
	}
	regions, err := atlasfile.LoadRegions(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Regions.Reset(src.Width(), src.Height(), regions)
	s.RegionsPath = path
	s.mu.Unlock()

	s.Emit(EventRegionsChanged, nil)
	s.MarkSaved(DocRegions)
	return nil
}

// SaveRegions writes the editor's regions.
func (s *State) SaveRegions(path string) error {
	if err := atlasfile.SaveRegions(path, s.Regions.Regions()); err != nil {
		return err
	}
	s.mu.Lock()
	s.RegionsPath = path
	s.mu.Unlock()
	s.MarkSaved(DocRegions)
	return nil
}

// LoadArrangementRegions crops a fresh set of items from the source image
// using a region file. Existing items are cleared wholesale.
func (s *State) LoadArrangementRegions(path string) error {
	src, err := s.image()
	if err != nil {
		return err
	}
	regions, err := atlasfile.LoadRegions(path)
	if err != nil {
		return err
	}
	s.useRegions(src, regions)

	s.mu.Lock()
	s.ArrangementRegionsPath = path
	s.mu.Unlock()
	return nil
}

// UseEditorRegions crops a fresh set of items from the region editor's
// current regions.
func (s *State) UseEditorRegions() error {
	src, err := s.image()
	if err != nil {
		return err
	}
	s.useRegions(src, s.Regions.Regions())
	return nil
}

func (s *State) useRegions(src *image.Source, regions []region.Region) {
	scene, skipped := arrange.NewScene(src.Image, regions)
	s.Arrangement.SetScene(scene)
	s.mu.Lock()
	s.ArrangementPath = ""
	s.mu.Unlock()

	s.Emit(EventArrangementChanged, nil)
	if scene.Len() > 0 {
		s.MarkModified(DocArrangement)
	} else {
		s.MarkSaved(DocArrangement)
	}
	if skipped > 0 {
		s.Notify("%d region(s) lie outside the image and were skipped", skipped)
	}
}

// LoadArrangement applies an arrangement file to the current items by name.
// The undo history is cleared.
func (s *State) LoadArrangement(path string) error {
	records, err := atlasfile.LoadArrangement(path)
	if err != nil {
		return err
	}
	scene, applied := atlasfile.ApplyArrangement(s.Arrangement.Scene(), records)
	s.Arrangement.SetScene(scene)

	s.mu.Lock()
	s.ArrangementPath = path
	s.mu.Unlock()

	log.Printf("Applied %d of %d placements from %s", applied, len(records), path)
	s.Emit(EventArrangementChanged, nil)
	s.MarkSaved(DocArrangement)
	if unmatched := len(records) - applied; unmatched > 0 {
		s.Notify("%d placement(s) matched no item", unmatched)
	}
	return nil
}

// SaveArrangement writes the current placements.
func (s *State) SaveArrangement(path string) error {
	if err := atlasfile.SaveArrangement(path, s.Arrangement.Scene()); err != nil {
		return err
	}
	s.mu.Lock()
	s.ArrangementPath = path
	s.mu.Unlock()
	s.MarkSaved(DocArrangement)
	return nil
}

// ExportComposite renders the arrangement at full size to an image file.
func (s *State) ExportComposite(path string) error {
	if err := image.SavePNG(path, arrange.Compose(s.Arrangement.Scene())); err != nil {
		return err
	}
	log.Printf("Exported arrangement to %s", path)
	return nil
}

// AutoDetect adds detected regions that fit between the existing ones and
// returns how many were added.
func (s *State) AutoDetect() (int, error) {
	src, err := s.image()
	if err != nil {
		return 0, err
	}
	if s.Detect == nil {
		return 0, fmt.Errorf("region detection is not available")
	}
	rects, err := s.Detect(src.Image)
	if err != nil {
		return 0, fmt.Errorf("detection failed: %w", err)
	}

	regions, added := region.AddDetected(s.Regions.Regions(), rects, src.Width(), src.Height(), "region")
	if added == 0 {
		s.Notify("No new regions found (%d candidates)", len(rects))
		return 0, nil
	}
	s.Regions.Reset(src.Width(), src.Height(), regions)
	log.Printf("detect: added %d of %d candidates", added, len(rects))
	s.Emit(EventRegionsChanged, nil)
	s.MarkModified(DocRegions)
	return added, nil
}

// SuggestName returns a name for bounds from the Namer, or "" when there is
// none or it fails.
func (s *State) SuggestName(bounds geometry.RectInt) string {
	src, err := s.image()
	if err != nil || s.Namer == nil {
		return ""
	}
	name, err := s.Namer.SuggestName(src.Image, bounds)
	if err != nil {
		log.Printf("ocr: %v", err)
		return ""
	}
	if region.IndexOf(s.Regions.Regions(), name) >= 0 {
		return region.UniqueName(s.Regions.Regions(), name)
	}
	return name
}

// LoadProject loads a project and everything it references. Nothing is
// applied unless every referenced file loads.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return err
	}

	imagePath := proj.GetImagePath(path)
	if imagePath == "" {
		return fmt.Errorf("project %s has no image", filepath.Base(path))
	}
	src, err := image.Load(imagePath)
	if err != nil {
		return err
	}

	var regions []region.Region
	regionsPath := ""
	if proj.RegionsPath != "" {
		regionsPath = proj.GetRegionsPath(path)
		if regions, err = atlasfile.LoadRegions(regionsPath); err != nil {
			return err
		}
	}

	var records []atlasfile.PlacementRecord
	arrangementPath := ""
	if proj.ArrangementPath != "" {
		arrangementPath = proj.GetArrangementPath(path)
		if records, err = atlasfile.LoadArrangement(arrangementPath); err != nil {
			return err
		}
	}

	s.setImage(src)
	s.Regions.Reset(src.Width(), src.Height(), regions)
	scene, _ := arrange.NewScene(src.Image, regions)
	scene, _ = atlasfile.ApplyArrangement(scene, records)
	s.Arrangement.SetScene(scene)

	s.mu.Lock()
	s.ProjectPath = path
	s.Project = proj
	s.RegionsPath = regionsPath
	s.ArrangementPath = arrangementPath
	s.ArrangementRegionsPath = regionsPath
	s.mu.Unlock()

	log.Printf("Loaded project %s", path)
	s.Emit(EventImageLoaded, src)
	s.Emit(EventRegionsChanged, nil)
	s.Emit(EventArrangementChanged, nil)
	s.Emit(EventProjectLoaded, path)
	s.SetModified(false)
	return nil
}

// SaveProject writes the project file. Regions and placements are saved
// next to it when they have no file yet.
func (s *State) SaveProject(path string) error {
	src, err := s.image()
	if err != nil {
		return err
	}

	s.mu.RLock()
	var proj *project.File
	if s.Project != nil {
		cp := *s.Project
		proj = &cp
	}
	regionsPath := s.RegionsPath
	arrangementPath := s.ArrangementPath
	s.mu.RUnlock()

	// Work on a copy; the session's project changes only once the save succeeds.
	if proj == nil {
		proj = project.New(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	proj.SetImage(path, src.Path)

	if regionsPath == "" {
		regionsPath = proj.GetRegionsPath(path)
	}
	if err := s.SaveRegions(regionsPath); err != nil {
		return err
	}
	proj.SetRegions(path, regionsPath)

	if s.Arrangement.Scene().Len() > 0 {
		if arrangementPath == "" {
			arrangementPath = proj.GetArrangementPath(path)
		}
		if err := s.SaveArrangement(arrangementPath); err != nil {
			return err
		}
		proj.SetArrangement(path, arrangementPath)
	}

	if err := proj.Save(path); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Project = proj
	s.mu.Unlock()

	log.Printf("Saved project %s", path)
	s.Emit(EventProjectSaved, path)
	s.SetModified(false)
	return nil
}

// Title returns a window title for the session.
func (s *State) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := "untitled"
	switch {
	case s.ProjectPath != "":
		name = filepath.Base(s.ProjectPath)
	case s.Image != nil:
		name = filepath.Base(s.Image.Path)
	}
	if s.Modified {
		name += " *"
	}
	return name + " - Atlas Editor"
}
