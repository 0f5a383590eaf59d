// Command atlascompose renders an arrangement to a 1280x720 PNG.
package main

import (
	"flag"
	"fmt"
	"os"

	"atlas-editor/internal/arrange"
	"atlas-editor/internal/atlasfile"
	atlasimage "atlas-editor/internal/image"
)

func main() {
	imagePath := flag.String("i", "", "Path to sprite sheet")
	regionsPath := flag.String("r", "", "Path to region file")
	arrangementPath := flag.String("a", "", "Path to arrangement file (optional)")
	out := flag.String("o", "composite.png", "Output PNG")
	flag.Parse()

	if *imagePath == "" || *regionsPath == "" {
		fmt.Println("Usage: atlascompose -i <image> -r <regions.json> [-a arrangement.json] [-o out.png]")
		os.Exit(1)
	}

	src, err := atlasimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	regions, err := atlasfile.LoadRegions(*regionsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load regions: %v\n", err)
		os.Exit(1)
	}

	scene, skipped := arrange.NewScene(src.Image, regions)
	if skipped > 0 {
		fmt.Printf("Skipped %d regions outside the image\n", skipped)
	}

	if *arrangementPath != "" {
		records, err := atlasfile.LoadArrangement(*arrangementPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load arrangement: %v\n", err)
			os.Exit(1)
		}
		var applied int
		scene, applied = atlasfile.ApplyArrangement(scene, records)
		fmt.Printf("Applied %d of %d placements\n", applied, len(records))
	}

	if err := atlasimage.SavePNG(*out, arrange.Compose(scene)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d items)\n", *out, scene.Len())
}
