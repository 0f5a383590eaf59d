// Package main provides the entry point for the Atlas Editor application.
package main

import (
	"image"
	"log"
	"os"

	"atlas-editor/internal/app"
	"atlas-editor/internal/detect"
	"atlas-editor/internal/ocr"
	"atlas-editor/internal/version"
	"atlas-editor/pkg/geometry"
	"atlas-editor/ui/mainwindow"
	"atlas-editor/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.atlas-editor"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting Atlas Editor %s", version.String())

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.AtlasTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(a, appState, appPrefs)

	appState.Detect = func(img image.Image) ([]geometry.RectInt, error) {
		opts := detect.DefaultOptions()
		opts.MinSize = win.Settings().DetectMinSize
		opts.Tolerance = appPrefs.FloatWithFallback(prefs.KeyDetectTol, opts.Tolerance)
		return detect.Regions(img, opts)
	}

	engine, err := ocr.NewEngine()
	if err != nil {
		log.Printf("Name suggestions unavailable: %v", err)
	} else {
		defer engine.Close()
		appState.Namer = engine
	}

	// Handle command line arguments
	if len(os.Args) > 1 {
		projectPath := os.Args[1]
		if err := appState.LoadProject(projectPath); err != nil {
			log.Printf("Failed to load project %s: %v", projectPath, err)
		}
	}

	win.ShowAndRun()
}
