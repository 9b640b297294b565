// Command lutgen bakes a color transfer into a 3D LUT and writes it as a
// .cube file.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	critique "github.com/jerryhubrit/PhotoCritique"
	"github.com/jerryhubrit/PhotoCritique/lut"
	"github.com/jerryhubrit/PhotoCritique/transfer"
)

func main() {
	ref := flag.String("ref", "", "reference image path")
	output := flag.String("output", "", "output .cube file path")
	method := flag.String("method", "zone_based",
		fmt.Sprintf("transfer method (%s)", strings.Join(transfer.Methods(), "|")))
	strength := flag.Float64("strength", 1.0, "transfer strength in [0,1]")
	size := flag.Int("size", 33, "LUT lattice size (17, 33 or 65)")
	title := flag.String("title", "PhotoCritique Filter", "LUT title")
	maxDim := flag.Int("max-dim", 1024, "downsample the reference for statistics (0 = off)")
	flag.Parse()

	if *ref == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: lutgen -ref ref.jpg -output look.cube [-method m] [-strength s] [-size n] [-title t]")
		os.Exit(2)
	}
	if err := run(*ref, *output, *method, *strength, *size, *title, *maxDim); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(refPath, outputPath, methodName string, strength float64, size int, title string, maxDim int) error {
	m, err := transfer.ParseMethod(methodName)
	if err != nil {
		return err
	}
	switch size {
	case 17, 33, 65:
	default:
		return fmt.Errorf("unsupported LUT size %d (valid: 17, 33, 65)", size)
	}
	refImg, err := critique.Open(refPath)
	if err != nil {
		return fmt.Errorf("cannot read reference image: %w", err)
	}

	fmt.Printf("generating %dx%dx%d LUT...\n", size, size, size)
	start := time.Now()
	l, err := lut.Generate(
		critique.FromImage(critique.Fit(refImg, maxDim)),
		transfer.Options{Method: m, Strength: strength},
		size,
	)
	if err != nil {
		return err
	}
	if err := l.SaveCube(outputPath, title); err != nil {
		return err
	}
	fmt.Printf("saved: %s (%.2fs)\n", outputPath, time.Since(start).Seconds())
	return nil
}
