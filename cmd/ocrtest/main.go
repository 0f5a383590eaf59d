// Command ocrtest reads the text inside each region of a region file and
// prints the name it would suggest.
package main

import (
	"flag"
	"fmt"
	"os"

	"atlas-editor/internal/atlasfile"
	atlasimage "atlas-editor/internal/image"
	"atlas-editor/internal/ocr"
)

func main() {
	imagePath := flag.String("image", "", "Path to sprite sheet")
	regionsPath := flag.String("regions", "", "Path to region file")
	flag.Parse()

	if *imagePath == "" || *regionsPath == "" {
		fmt.Println("Usage: ocrtest -image <path> -regions <regions.json>")
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

	engine, err := ocr.NewEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start OCR: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	fmt.Printf("%-20s %-24s %s\n", "Region", "Text", "Suggested")
	matched := 0
	for _, r := range regions {
		text, err := engine.Recognize(src.Image, r.Bounds)
		if err != nil {
			fmt.Printf("%-20s %-24s %s\n", r.Name, "("+err.Error()+")", "-")
			continue
		}
		name, _ := engine.SuggestName(src.Image, r.Bounds)
		if name == r.Name {
			matched++
		}
		fmt.Printf("%-20s %-24q %s\n", r.Name, text, name)
	}
	fmt.Printf("\n%d of %d suggestions match the current name\n", matched, len(regions))
}
