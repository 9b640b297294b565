// Command lutapply applies a 3D LUT (a .cube file or a Hald CLUT image) to
// a photograph.
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
	lutPath := flag.String("lut", "", "LUT path (.cube file or Hald CLUT image)")
	target := flag.String("target", "", "target image path")
	output := flag.String("output", "", "output image path")
	interp := flag.String("interp", "cubic", "grid interpolation (linear|cubic)")
	flag.Parse()

	if *lutPath == "" || *target == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: lutapply -lut look.cube -target in.jpg -output out.jpg [-interp linear|cubic]")
		os.Exit(2)
	}
	if err := run(*lutPath, *target, *output, *interp); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(lutPath, targetPath, outputPath, interpName string) error {
	var interp lut.Interpolation
	switch interpName {
	case "linear":
		interp = lut.InterpLinear
	case "cubic":
		interp = lut.InterpCubic
	default:
		return fmt.Errorf("unknown interpolation %q (valid: linear, cubic)", interpName)
	}

	l, err := loadLUT(lutPath)
	if err != nil {
		return err
	}
	tgt, err := critique.OpenPixmap(targetPath)
	if err != nil {
		return fmt.Errorf("cannot read target image: %w", err)
	}
	if err := critique.Save(l.Apply(tgt, interp), outputPath); err != nil {
		return err
	}
	fmt.Println("saved:", outputPath)
	return nil
}

func loadLUT(path string) (*lut.LUT, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cube":
		return lut.LoadCube(path)
	case ".jpg", ".jpeg":
		fmt.Fprintln(os.Stderr, "warning: JPEG compression degrades Hald CLUT precision; prefer PNG")
		fallthrough
	default:
		img, err := critique.Open(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read hald image: %w", err)
		}
		return lut.HaldToLUT(img)
	}
}
