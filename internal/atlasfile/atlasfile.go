// Package atlasfile reads and writes region and arrangement JSON files.
//
// Both formats are flat JSON arrays. Readers parse and validate the whole
// file before returning, so a failed read never yields partial data.
package atlasfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"atlas-editor/internal/arrange"
	"atlas-editor/internal/region"
	"atlas-editor/pkg/geometry"
)

// ErrInvalidPlacement is returned for arrangement records that cannot be
// applied to an item.
var ErrInvalidPlacement = errors.New("invalid placement")

// RegionRecord is one element of a region file.
type RegionRecord struct {
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// PlacementRecord is one element of an arrangement file.
type PlacementRecord struct {
	Name    string `json:"name"`
	ScreenX int    `json:"screenX"`
	ScreenY int    `json:"screenY"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Z       int    `json:"z"`
}

// LoadRegions reads a region file.
func LoadRegions(path string) ([]region.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read region file: %w", err)
	}
	regions, err := ParseRegions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("Loaded %d regions from %s", len(regions), path)
	return regions, nil
}

// ParseRegions decodes and validates region file contents.
func ParseRegions(data []byte) ([]region.Region, error) {
	var records []RegionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse regions: %w", err)
	}
	regions := make([]region.Region, len(records))
	for i, r := range records {
		regions[i] = region.Region{
			Name:   r.Name,
			Bounds: geometry.RectInt{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		}
	}
	if err := region.Validate(regions); err != nil {
		return nil, err
	}
	return regions, nil
}

// SaveRegions writes regions in list order.
func SaveRegions(path string, regions []region.Region) error {
	records := make([]RegionRecord, len(regions))
	for i, r := range regions {
		records[i] = RegionRecord{
			Name:   r.Name,
			X:      r.Bounds.X,
			Y:      r.Bounds.Y,
			Width:  r.Bounds.Width,
			Height: r.Bounds.Height,
		}
	}
	if err := writeJSON(path, records); err != nil {
		return fmt.Errorf("failed to save regions: %w", err)
	}
	log.Printf("Saved %d regions to %s", len(regions), path)
	return nil
}

// LoadArrangement reads an arrangement file.
func LoadArrangement(path string) ([]PlacementRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read arrangement file: %w", err)
	}
	var records []PlacementRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%s: failed to parse arrangement: %w", path, err)
	}
	if err := validatePlacements(records); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// validatePlacements applies the region file rules to placements: named,
// positive size, and no name twice.
func validatePlacements(records []PlacementRecord) error {
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%w: placement %d has no name", ErrInvalidPlacement, i)
		}
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("%w: %q has size %dx%d", ErrInvalidPlacement, r.Name, r.Width, r.Height)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: %q placed twice", ErrInvalidPlacement, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// SaveArrangement writes every item's placement in insertion order.
// Coordinates are rounded to whole units.
func SaveArrangement(path string, scene arrange.Scene) error {
	records := Placements(scene)
	if err := writeJSON(path, records); err != nil {
		return fmt.Errorf("failed to save arrangement: %w", err)
	}
	log.Printf("Saved %d placements to %s", len(records), path)
	return nil
}

// Placements converts a scene to arrangement records.
func Placements(scene arrange.Scene) []PlacementRecord {
	records := make([]PlacementRecord, scene.Len())
	for i := range records {
		it := scene.Item(i)
		records[i] = PlacementRecord{
			Name:    it.Name,
			ScreenX: int(math.Round(it.Bounds.X)),
			ScreenY: int(math.Round(it.Bounds.Y)),
			Width:   int(math.Round(it.Bounds.Width)),
			Height:  int(math.Round(it.Bounds.Height)),
			Z:       it.Z,
		}
	}
	return records
}

// ApplyArrangement returns a copy of scene with placements joined by name.
// Records naming no item are ignored and items without a record keep their
// placement. The number of items updated is returned.
func ApplyArrangement(scene arrange.Scene, records []PlacementRecord) (arrange.Scene, int) {
	out := scene.Clone()
	snap := out.Snapshot()
	applied := 0
	for _, r := range records {
		i := out.ByName(r.Name)
		if i < 0 {
			continue
		}
		snap[i].Bounds = geometry.NewRect(float64(r.ScreenX), float64(r.ScreenY), float64(r.Width), float64(r.Height))
		snap[i].Z = r.Z
		applied++
	}
	out.Restore(snap)
	return out, applied
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
