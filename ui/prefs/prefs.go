// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

const (
	appDir    = "atlas-editor"
	prefsFile = "preferences.json"
)

// Preference keys.
const (
	KeyLastDir       = "last_dir"
	KeyRecentFiles   = "recent_files"
	KeySuggestNames  = "suggest_names"
	KeyDetectMinSize = "detect_min_size"
	KeyDetectTol     = "detect_tolerance"
	KeyWindowWidth   = "window_width"
	KeyWindowHeight  = "window_height"
)

// MaxRecent is how many recent files are remembered.
const MaxRecent = 8

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from the user config directory.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, appDir))
}

// LoadFrom reads preferences stored in dir.
func LoadFrom(dir string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   filepath.Join(dir, prefsFile),
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	if err := json.Unmarshal(data, &p.values); err != nil {
		log.Printf("prefs: ignoring %s: %v", p.path, err)
		p.values = make(map[string]interface{})
	}
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

func (p *Prefs) number(key string) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch n := p.values[key].(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	if n, ok := p.number(key); ok {
		return n
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.set(key, val)
}

// Int returns an integer preference, or fallback if not set.
func (p *Prefs) Int(key string, fallback int) int {
	if n, ok := p.number(key); ok {
		return int(n)
	}
	return fallback
}

// SetInt stores an integer preference.
func (p *Prefs) SetInt(key string, val int) {
	p.set(key, val)
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, _ := p.values[key].(string)
	return s
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.set(key, val)
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b, ok := p.values[key].(bool); ok {
		return b
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.set(key, val)
}

// Recent returns the recent file list, most recent first.
func (p *Prefs) Recent() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []string
	switch list := p.values[KeyRecentFiles].(type) {
	case []string:
		out = slices.Clone(list)
	case []interface{}:
		// as decoded from JSON
		for _, v := range list {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// AddRecent moves path to the front of the recent file list.
func (p *Prefs) AddRecent(path string) {
	list := slices.DeleteFunc(p.Recent(), func(s string) bool { return s == path })
	list = slices.Insert(list, 0, path)
	if len(list) > MaxRecent {
		list = list[:MaxRecent]
	}
	p.set(KeyRecentFiles, list)
	p.SetString(KeyLastDir, filepath.Dir(path))
}

func (p *Prefs) set(key string, val interface{}) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}
