// Command colortransfer imposes the color look of a reference photograph
// onto a target photograph.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	critique "github.com/jerryhubrit/PhotoCritique"
	"github.com/jerryhubrit/PhotoCritique/transfer"
)

func main() {
	ref := flag.String("ref", "", "reference image path (the look to copy)")
	target := flag.String("target", "", "target image path (the photo to process)")
	output := flag.String("output", "", "output image path")
	method := flag.String("method", "zone_based",
		fmt.Sprintf("transfer method (%s)", strings.Join(transfer.Methods(), "|")))
	strength := flag.Float64("strength", 1.0, "transfer strength in [0,1]")
	preserveLuminance := flag.Bool("preserve-luminance", false, "keep the target's luminance channel")
	maxDim := flag.Int("max-dim", 0, "downsample inputs so no side exceeds this (0 = off)")
	flag.Parse()

	if *ref == "" || *target == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: colortransfer -ref ref.jpg -target in.jpg -output out.jpg [-method m] [-strength s] [-preserve-luminance]")
		os.Exit(2)
	}
	if err := run(*ref, *target, *output, *method, *strength, *preserveLuminance, *maxDim); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(refPath, targetPath, outputPath, methodName string, strength float64, preserveLuminance bool, maxDim int) error {
	m, err := transfer.ParseMethod(methodName)
	if err != nil {
		return err
	}
	refImg, err := critique.Open(refPath)
	if err != nil {
		return fmt.Errorf("cannot read reference image: %w", err)
	}
	tgtImg, err := critique.Open(targetPath)
	if err != nil {
		return fmt.Errorf("cannot read target image: %w", err)
	}

	fmt.Printf("method: %s, strength: %g, preserve luminance: %v\n", m, strength, preserveLuminance)
	result, err := transfer.Transfer(
		critique.FromImage(critique.Fit(refImg, maxDim)),
		critique.FromImage(critique.Fit(tgtImg, maxDim)),
		transfer.Options{Method: m, Strength: strength, PreserveLuminance: preserveLuminance},
	)
	if err != nil {
		return err
	}
	if err := critique.Save(result.Image, outputPath); err != nil {
		return err
	}
	fmt.Printf("saved: %s (%.2fs)\n", outputPath, result.Elapsed.Seconds())
	return nil
}
