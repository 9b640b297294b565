package preset

import (
	"fmt"
	"os"
	"strings"
)

// XMP develop presets are an RDF document whose settings live in crs:
// attributes of a single rdf:Description element, with tone curves as
// nested rdf:Seq children. Lightroom matches attributes by exact name, so
// the emitted set and its boilerplate (process version, capability flags)
// are fixed.

const (
	crsVersion           = "18.1"
	crsCompatibleVersion = "285212672"
	crsProcessVersion    = "15.4"
)

// XMP serializes the preset. Output is deterministic apart from the UUID
// assigned at derivation time.
func (p *Preset) XMP() string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	attr := func(name, format string, args ...any) {
		line("    crs:%s=%q", name, fmt.Sprintf(format, args...))
	}
	signed := func(name string, v float64) {
		if v >= 0 {
			attr(name, "+%.2f", v)
		} else {
			attr(name, "%.2f", v)
		}
	}

	line(`<?xpacket begin="%s" id="W5M0MpCehiHzreSzNTczkc9d"?>`, "\uFEFF")
	line(`<x:xmpmeta xmlns:x="adobe:ns:meta/" x:xmptk="Adobe XMP Core 7.0-c000 1.000000, 0000/00/00-00:00:00        ">`)
	line(` <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">`)
	line(`  <rdf:Description rdf:about=""`)
	line(`    xmlns:crs="http://ns.adobe.com/camera-raw-settings/1.0/"`)
	attr("PresetType", "Normal")
	attr("Cluster", "")
	attr("UUID", "%s", p.UUID)
	attr("SupportsAmount", "False")
	attr("SupportsColor", "True")
	attr("SupportsMonochrome", "True")
	attr("SupportsHighDynamicRange", "True")
	attr("SupportsNormalDynamicRange", "True")
	attr("SupportsSceneReferred", "True")
	attr("SupportsOutputReferred", "True")
	attr("RequiresRGBTables", "False")
	attr("ShowInPresets", "True")
	attr("ShowInQuickActions", "False")
	attr("CameraModelRestriction", "")
	attr("Copyright", "")
	attr("ContactInfo", "")
	attr("Version", "%s", crsVersion)
	attr("CompatibleVersion", "%s", crsCompatibleVersion)
	attr("ProcessVersion", "%s", crsProcessVersion)
	attr("WhiteBalance", "As Shot")

	t := p.Tone
	signed("Exposure2012", t.Exposure)
	signed("Contrast2012", t.Contrast)
	signed("Highlights2012", t.Highlights)
	signed("Shadows2012", t.Shadows)
	signed("Whites2012", t.Whites)
	signed("Blacks2012", t.Blacks)
	attr("Texture", "%d", int(t.Texture))
	signed("Clarity2012", t.Clarity)
	signed("Dehaze", t.Dehaze)
	signed("Vibrance", t.Vibrance)
	attr("Saturation", "%d", int(t.Saturation))

	c := p.Curves
	attr("ParametricShadows", "%d", c.ParametricShadows)
	attr("ParametricDarks", "%d", c.ParametricDarks)
	attr("ParametricLights", "%d", c.ParametricLights)
	attr("ParametricHighlights", "%d", c.ParametricHighlights)
	attr("ParametricShadowSplit", "%d", 25)
	attr("ParametricMidtoneSplit", "%d", 50)
	attr("ParametricHighlightSplit", "%d", 75)

	d := p.Detail
	attr("Sharpness", "%d", d.Sharpness)
	attr("SharpenRadius", "%.1f", d.SharpenRadius)
	attr("SharpenDetail", "%d", d.SharpenDetail)
	attr("SharpenEdgeMasking", "%d", d.SharpenEdgeMasking)
	attr("LuminanceSmoothing", "%d", d.LuminanceSmoothing)
	attr("LuminanceNoiseReductionDetail", "%d", d.LuminanceNoiseReductionDetail)
	attr("LuminanceNoiseReductionContrast", "%d", d.LuminanceNoiseReductionContrast)
	attr("ColorNoiseReduction", "%d", d.ColorNoiseReduction)
	attr("ColorNoiseReductionDetail", "%d", d.ColorNoiseReductionDetail)
	attr("ColorNoiseReductionSmoothness", "%d", d.ColorNoiseReductionSmoothness)

	for b := HueBucket(0); b < NumHueBuckets; b++ {
		attr(fmt.Sprintf("HueAdjustment%s", b), "%d", p.HSL[b].Hue)
	}
	for b := HueBucket(0); b < NumHueBuckets; b++ {
		attr(fmt.Sprintf("SaturationAdjustment%s", b), "%d", p.HSL[b].Saturation)
	}
	for b := HueBucket(0); b < NumHueBuckets; b++ {
		attr(fmt.Sprintf("LuminanceAdjustment%s", b), "%d", p.HSL[b].Luminance)
	}

	s := p.SplitToning
	attr("SplitToningShadowHue", "%d", s.ShadowHue)
	attr("SplitToningShadowSaturation", "%d", s.ShadowSaturation)
	attr("SplitToningHighlightHue", "%d", s.HighlightHue)
	attr("SplitToningHighlightSaturation", "%d", s.HighlightSaturation)
	attr("SplitToningBalance", "%d", s.Balance)
	attr("ColorGradeMidtoneHue", "%d", s.MidtoneHue)
	attr("ColorGradeMidtoneSat", "%d", s.MidtoneSaturation)
	attr("ColorGradeShadowLum", "%d", 0)
	attr("ColorGradeMidtoneLum", "%d", 0)
	attr("ColorGradeHighlightLum", "%d", 0)
	attr("ColorGradeBlending", "%d", s.Blending)
	attr("ColorGradeGlobalHue", "%d", 0)
	attr("ColorGradeGlobalSat", "%d", 0)
	attr("ColorGradeGlobalLum", "%d", 0)

	attr("PerspectiveUpright", "%d", 0)
	attr("PerspectiveVertical", "%d", 0)
	attr("PerspectiveHorizontal", "%d", 0)
	attr("PerspectiveRotate", "%.1f", 0.0)
	attr("PerspectiveAspect", "%d", 0)
	attr("PerspectiveScale", "%d", 100)
	attr("PerspectiveX", "%.2f", 0.0)
	attr("PerspectiveY", "%.2f", 0.0)
	attr("ShadowTint", "%d", 0)
	attr("RedHue", "%d", 0)
	attr("RedSaturation", "%d", 0)
	attr("GreenHue", "%d", 0)
	attr("GreenSaturation", "%d", 0)
	attr("BlueHue", "%d", 0)
	attr("BlueSaturation", "%d", 0)
	attr("HDREditMode", "%d", 0)
	attr("CurveRefineSaturation", "%d", 100)
	attr("ConvertToGrayscale", "False")
	attr("ToneCurveName2012", "Custom")
	attr("AllowFilters", "%d", 1)
	attr("HasSettings", "True")
	attr("CropConstrainToWarp", "%d", 0)
	line(`   >`)

	line(`   <crs:Name>`)
	line(`    <rdf:Alt>`)
	line(`     <rdf:li xml:lang="x-default">%s</rdf:li>`, xmlEscape(p.Name))
	line(`    </rdf:Alt>`)
	line(`   </crs:Name>`)
	for _, tag := range []string{"ShortName", "SortName", "Group", "Description"} {
		line(`   <crs:%s>`, tag)
		line(`    <rdf:Alt>`)
		line(`     <rdf:li xml:lang="x-default"/>`)
		line(`    </rdf:Alt>`)
		line(`   </crs:%s>`, tag)
	}

	writeCurve := func(tag string, points []CurvePoint) {
		line(`   <crs:%s>`, tag)
		line(`    <rdf:Seq>`)
		for _, pt := range points {
			line(`     <rdf:li>%d, %d</rdf:li>`, pt.X, pt.Y)
		}
		line(`    </rdf:Seq>`)
		line(`   </crs:%s>`, tag)
	}
	writeCurve("ToneCurvePV2012", c.ToneCurve)
	writeCurve("ToneCurvePV2012Red", c.RedCurve)
	writeCurve("ToneCurvePV2012Green", c.GreenCurve)
	writeCurve("ToneCurvePV2012Blue", c.BlueCurve)

	line(`  </rdf:Description>`)
	line(` </rdf:RDF>`)
	line(`</x:xmpmeta>`)
	b.WriteString(`<?xpacket end="w"?>`)
	return b.String()
}

// Save writes the serialized preset to path.
func (p *Preset) Save(path string) error {
	return os.WriteFile(path, []byte(p.XMP()), 0o644)
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
