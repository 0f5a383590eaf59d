// Command detecttest runs region detection on a sprite sheet and prints or
// saves the regions it would add.
package main

import (
	"flag"
	"fmt"
	"os"

	"atlas-editor/internal/atlasfile"
	"atlas-editor/internal/detect"
	atlasimage "atlas-editor/internal/image"
	"atlas-editor/internal/region"
)

func main() {
	imagePath := flag.String("image", "", "Path to sprite sheet (PNG, JPEG, BMP or TIFF)")
	minSize := flag.Int("min", detect.DefaultOptions().MinSize, "Boxes must exceed this size on both axes")
	tolerance := flag.Float64("tol", detect.DefaultOptions().Tolerance, "Gray-level distance from the background counted as foreground")
	out := flag.String("o", "", "Write the detected regions to this region file")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: detecttest -image <path> [-min 5] [-tol 24] [-o regions.json]")
		os.Exit(1)
	}

	src, err := atlasimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded image: %dx%d pixels\n", src.Width(), src.Height())

	opts := detect.DefaultOptions()
	opts.MinSize = *minSize
	opts.Tolerance = *tolerance
	fmt.Printf("Options: min=%d tol=%.0f close=%d\n", opts.MinSize, opts.Tolerance, opts.CloseKernel)

	rects, err := detect.Regions(src.Image, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}

	regions, added := region.AddDetected(nil, rects, src.Width(), src.Height(), "region")

	fmt.Printf("\n%-16s %8s %8s %8s %8s\n", "Name", "X", "Y", "Width", "Height")
	for _, r := range regions {
		fmt.Printf("%-16s %8d %8d %8d %8d\n", r.Name, r.Bounds.X, r.Bounds.Y, r.Bounds.Width, r.Bounds.Height)
	}
	fmt.Printf("\nTotal: %d regions (%d candidates)\n", added, len(rects))

	if *out != "" {
		if err := atlasfile.SaveRegions(*out, regions); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save regions: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved %s\n", *out)
	}
}
