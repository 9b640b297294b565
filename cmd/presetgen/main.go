// Command presetgen derives a Lightroom XMP develop preset from a reference
// photograph.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	critique "github.com/jerryhubrit/PhotoCritique"
	"github.com/jerryhubrit/PhotoCritique/preset"
)

func main() {
	ref := flag.String("ref", "", "reference image path")
	output := flag.String("output", "", "output .xmp path")
	name := flag.String("name", "", "preset name (default derived from the reference filename)")
	maxDim := flag.Int("max-dim", 1024, "downsample the reference for statistics (0 = off)")
	flag.Parse()

	if *ref == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: presetgen -ref ref.jpg -output look.xmp [-name n]")
		os.Exit(2)
	}
	if err := run(*ref, *output, *name, *maxDim); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(refPath, outputPath, name string, maxDim int) error {
	refImg, err := critique.Open(refPath)
	if err != nil {
		return fmt.Errorf("cannot read reference image: %w", err)
	}
	if name == "" {
		stem := strings.TrimSuffix(filepath.Base(refPath), filepath.Ext(refPath))
		name = "Color Transfer from " + stem
	}

	p := preset.New(critique.FromImage(critique.Fit(refImg, maxDim)), name)
	if err := p.Save(outputPath); err != nil {
		return err
	}
	fmt.Println("saved:", outputPath)
	t := p.Tone
	fmt.Printf("  exposure: %+.2f  contrast: %+.2f  vibrance: %+.2f  clarity: %+.2f\n",
		t.Exposure, t.Contrast, t.Vibrance, t.Clarity)
	s := p.SplitToning
	fmt.Printf("  shadow tint: hue=%d sat=%d  highlight tint: hue=%d sat=%d\n",
		s.ShadowHue, s.ShadowSaturation, s.HighlightHue, s.HighlightSaturation)
	return nil
}
