// Command haldgen emits identity Hald CLUT images and extracts processed
// Hald images back into .cube LUTs.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	critique "github.com/jerryhubrit/PhotoCritique"
	"github.com/jerryhubrit/PhotoCritique/lut"
)

func main() {
	level := flag.Int("level", 8, "hald level (8 or 12)")
	output := flag.String("output", "", "output path for the identity hald image (PNG)")
	fromHald := flag.String("from-hald", "", "processed hald image to extract a LUT from")
	outputCube := flag.String("output-cube", "", "output .cube path for the extracted LUT")
	title := flag.String("title", "PhotoCritique Filter", "LUT title for the extracted .cube")
	flag.Parse()

	var err error
	switch {
	case *fromHald != "" && *outputCube != "":
		err = extract(*fromHald, *outputCube, *title)
	case *output != "":
		err = identity(*level, *output)
	default:
		fmt.Fprintln(os.Stderr, "usage: haldgen -level 8 -output identity.png")
		fmt.Fprintln(os.Stderr, "       haldgen -from-hald processed.png -output-cube look.cube [-title t]")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func identity(level int, outputPath string) error {
	img, err := lut.HaldIdentity(level)
	if err != nil {
		return err
	}
	if err := critique.Save(img, outputPath); err != nil {
		return err
	}
	b := img.Bounds()
	fmt.Printf("saved: %s (%dx%d)\n", outputPath, b.Dx(), b.Dy())
	return nil
}

func extract(haldPath, cubePath, title string) error {
	switch strings.ToLower(filepath.Ext(haldPath)) {
	case ".jpg", ".jpeg":
		fmt.Fprintln(os.Stderr, "warning: JPEG compression degrades Hald CLUT precision; prefer PNG")
	}
	img, err := critique.Open(haldPath)
	if err != nil {
		return fmt.Errorf("cannot read hald image: %w", err)
	}
	l, err := lut.HaldToLUT(img)
	if err != nil {
		return err
	}
	if err := l.SaveCube(cubePath, title); err != nil {
		return err
	}
	fmt.Printf("saved: %s (%dx%dx%d)\n", cubePath, l.Size, l.Size, l.Size)
	return nil
}
