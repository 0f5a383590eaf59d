// Command atlascrop writes one PNG per region of a region file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"atlas-editor/internal/atlasfile"
	atlasimage "atlas-editor/internal/image"
)

// fileName keeps region names from escaping the output directory.
var fileName = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

func main() {
	imagePath := flag.String("i", "", "Path to sprite sheet")
	regionsPath := flag.String("r", "", "Path to region file")
	outDir := flag.String("o", ".", "Output directory")
	flag.Parse()

	if *imagePath == "" || *regionsPath == "" {
		fmt.Println("Usage: atlascrop -i <image> -r <regions.json> [-o outdir]")
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
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	written := 0
	for _, r := range regions {
		frag, ok := atlasimage.Crop(src.Image, r.Bounds)
		if !ok {
			fmt.Printf("skip %s: outside the image\n", r.Name)
			continue
		}
		path := filepath.Join(*outDir, fileName.Replace(r.Name)+".png")
		if err := atlasimage.SavePNG(path, frag); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		written++
	}
	fmt.Printf("Wrote %d of %d regions to %s\n", written, len(regions), *outDir)
}
