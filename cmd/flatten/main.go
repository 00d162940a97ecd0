// Command flatten renders an annotation file over its photograph without
// opening the UI. Useful for batch exports and report generation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"survey-markup/internal/background"
	"survey-markup/internal/render"
	"survey-markup/internal/store"
)

func main() {
	image := flag.String("i", "", "Path to the photograph")
	annotations := flag.String("a", "", "Path to the annotations JSON file")
	out := flag.String("o", "", "Output path (default derived from the photograph)")
	format := flag.String("format", "png", "Output format: png or jpeg")
	quality := flag.Int("quality", 90, "JPEG quality (1-100)")
	scale := flag.Float64("scale", 1, "Output pixels per image pixel")
	font := flag.String("font", "", "Font file for text labels (default: system fonts)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Rendering time limit")
	flag.Parse()

	if *image == "" || *annotations == "" {
		fmt.Println("Usage: flatten -i <photo> -a <annotations.json> [-o <out>] [-format png|jpeg] [-scale N]")
		os.Exit(1)
	}

	bg, err := background.Load(*image)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load photograph: %v\n", err)
		os.Exit(1)
	}

	doc, err := store.LoadFile(*annotations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load annotations: %v\n", err)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = render.SuggestedFilename(*image, *format)
	}
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	opts := render.Options{
		Format:   *format,
		Quality:  *quality,
		Scale:    *scale,
		FontPath: *font,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	r := render.NewRenderer(*font)
	if err := r.Flatten(ctx, doc, bg, f, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Remove(outPath)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d shapes, %.0f%% scale)\n", outPath, doc.Len(), *scale*100)
}
