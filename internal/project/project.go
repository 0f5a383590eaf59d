// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extension is the project file extension.
const Extension = ".atlasproj"

// DefaultDetectMinSize is the smallest detected region kept by default.
const DefaultDetectMinSize = 6

// File represents an atlas editor project file (.atlasproj). It ties a
// source image to its region and arrangement files.
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// Paths relative to the project file
	ImagePath       string `json:"image,omitempty"`
	RegionsPath     string `json:"regions,omitempty"`
	ArrangementPath string `json:"arrangement,omitempty"`

	// User settings
	Settings Settings `json:"settings,omitempty"`
}

// Settings holds per-project preferences.
type Settings struct {
	SuggestNames  bool `json:"suggest_names"`
	DetectMinSize int  `json:"detect_min_size,omitempty"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Settings: Settings{DetectMinSize: DefaultDetectMinSize},
	}
}

// Load loads a project from a .atlasproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}
	if proj.Version < 1 {
		return nil, fmt.Errorf("unsupported project version %d", proj.Version)
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetImage records the image path relative to the project.
func (p *File) SetImage(projectPath, imagePath string) {
	p.ImagePath = relativeTo(projectPath, imagePath)
	p.Modified = time.Now()
}

// SetRegions records the region file path relative to the project.
func (p *File) SetRegions(projectPath, regionsPath string) {
	p.RegionsPath = relativeTo(projectPath, regionsPath)
	p.Modified = time.Now()
}

// SetArrangement records the arrangement file path relative to the project.
func (p *File) SetArrangement(projectPath, arrangementPath string) {
	p.ArrangementPath = relativeTo(projectPath, arrangementPath)
	p.Modified = time.Now()
}

// GetImagePath returns the absolute path to the image.
func (p *File) GetImagePath(projectPath string) string {
	return resolve(projectPath, p.ImagePath)
}

// GetRegionsPath returns the absolute path to the region file.
func (p *File) GetRegionsPath(projectPath string) string {
	if p.RegionsPath == "" {
		// Default: project_name_regions.json
		return trimExt(projectPath) + "_regions.json"
	}
	return resolve(projectPath, p.RegionsPath)
}

// GetArrangementPath returns the absolute path to the arrangement file.
func (p *File) GetArrangementPath(projectPath string) string {
	if p.ArrangementPath == "" {
		return trimExt(projectPath) + "_arrangement.json"
	}
	return resolve(projectPath, p.ArrangementPath)
}

// WithExtension appends Extension to path when it has a different one.
func WithExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

func relativeTo(projectPath, target string) string {
	if target == "" {
		return ""
	}
	rel, err := filepath.Rel(filepath.Dir(projectPath), target)
	if err != nil {
		return target
	}
	return rel
}

func resolve(projectPath, stored string) string {
	if stored == "" {
		return ""
	}
	if filepath.IsAbs(stored) {
		return stored
	}
	return filepath.Join(filepath.Dir(projectPath), stored)
}

func trimExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}
