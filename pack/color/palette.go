// Package color provides the color-palette tool.
package color

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/devtools/domain/failure"
	"github.com/felixgeelhaar/devtools/domain/pack"
	"github.com/felixgeelhaar/devtools/domain/tool"
	"github.com/felixgeelhaar/devtools/pack/toolkit"
)

// Palette schemes.
const (
	Monochromatic = "monochromatic"
	Analogous     = "analogous"
	Complementary = "complementary"
	Triadic       = "triadic"
)

// MaxColors bounds the palette size.
const MaxColors = 16

// lightnessStep is how far each repetition of a scheme's hues moves away
// from the base lightness.
const lightnessStep = 0.12

// hueOffsets lists the hue rotations, in degrees, that make up each scheme.
var hueOffsets = map[string][]float64{
	Monochromatic: {0},
	Analogous:     {0, 30, -30},
	Complementary: {0, 180},
	Triadic:       {0, 120, 240},
}

var usage = toolkit.Usage{
	Name:        "color-palette",
	Synopsis:    "BASE [--scheme NAME] [--count N]",
	Description: "Generate and display color palettes",
	Examples: []string{
		"devtools color-palette '#3366cc'",
		"devtools color-palette ff8800 --scheme triadic --count 6",
	},
}

// Color is one palette entry.
type Color struct {
	Name string
	Hex  string
	R    uint8
	G    uint8
	B    uint8
	H    float64
	S    float64
	L    float64
}

// Palette creates the color-palette tool.
func Palette(env pack.Env) tool.Tool {
	env = env.WithDefaults()

	return tool.NewBuilder(usage.Name).
		WithDescription(usage.Description).
		WithVersion(toolkit.Version).
		WithAuthor(toolkit.Author).
		WithHelp(usage.Help(flagSet)).
		WithHandler(func(_ context.Context, args []string) error {
			flags := flagSet()
			if done, err := toolkit.Parse(flags, args, env.Stdout, usage); done || err != nil {
				return err
			}
			if flags.NArg() != 1 {
				return failure.InvalidArgument("color-palette: expected exactly one base colour, got %d", flags.NArg())
			}

			scheme, _ := flags.GetString("scheme")
			count, _ := flags.GetInt("count")

			colors, err := Generate(flags.Arg(0), scheme, count)
			if err != nil {
				return err
			}
			write(env.Stdout, toolkit.NewStyles(env.Stdout, env.Color), scheme, colors)
			return nil
		}).
		MustBuild()
}

func flagSet() *pflag.FlagSet {
	flags := toolkit.NewFlagSet(usage.Name)
	flags.StringP("scheme", "s", Complementary, "palette scheme: "+strings.Join(Schemes(), ", "))
	flags.IntP("count", "n", 5, fmt.Sprintf("number of colours (1-%d)", MaxColors))
	return flags
}

// Schemes returns the supported scheme names in sorted order.
func Schemes() []string {
	names := make([]string, 0, len(hueOffsets))
	for name := range hueOffsets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseHex parses "#rrggbb", "rrggbb", "#rgb" or "rgb".
func ParseHex(s string) (colorful.Color, error) {
	hex := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return colorful.Color{}, failure.InvalidArgument("color-palette: invalid colour %q", s)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, failure.Wrap(err, failure.KindInvalidArgument, "color-palette: invalid colour %q", s)
	}
	return c, nil
}

// Generate derives count colours from base. Each scheme rotates the base hue
// by a fixed set of offsets; once the offsets are used up they repeat with
// the lightness moved a step further from the base.
func Generate(base, scheme string, count int) ([]Color, error) {
	offsets, ok := hueOffsets[scheme]
	if !ok {
		return nil, failure.InvalidArgument("color-palette: unknown scheme %q (want one of %s)",
			scheme, strings.Join(Schemes(), ", "))
	}
	if count < 1 || count > MaxColors {
		return nil, failure.InvalidArgument("color-palette: --count must be between 1 and %d", MaxColors)
	}

	c, err := ParseHex(base)
	if err != nil {
		return nil, err
	}
	h, s, l := c.Hsl()

	// Light bases step darker, dark bases step lighter.
	direction := 1.0
	if l >= 0.5 {
		direction = -1
	}

	colors := make([]Color, 0, count)
	for i := range count {
		round := i / len(offsets)
		hue := math.Mod(h+offsets[i%len(offsets)]+360, 360)
		light := clamp(l + direction*lightnessStep*float64(round))

		entry := c
		if i > 0 {
			entry = colorful.Hsl(hue, s, light).Clamped()
		}
		colors = append(colors, newColor(name(scheme, i), entry))
	}
	return colors, nil
}

func name(scheme string, i int) string {
	switch {
	case i == 0:
		return "base"
	case scheme == Complementary && i == 1:
		return "complement"
	default:
		return fmt.Sprintf("%s-%d", scheme, i)
	}
}

func newColor(name string, c colorful.Color) Color {
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()
	return Color{
		Name: name,
		Hex:  c.Hex(),
		R:    r,
		G:    g,
		B:    b,
		H:    h,
		S:    s,
		L:    l,
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func write(w io.Writer, s toolkit.Styles, scheme string, colors []Color) {
	fmt.Fprintf(w, "%s palette (%d colours)\n", scheme, len(colors))
	for _, c := range colors {
		line := fmt.Sprintf("  %-18s %s  rgb(%3d, %3d, %3d)  hsl(%3.0f, %3.0f%%, %3.0f%%)",
			c.Name, c.Hex, c.R, c.G, c.B, c.H, c.S*100, c.L*100)
		if swatch := s.Swatch(c.Hex); swatch != "" {
			line += "  " + swatch
		}
		fmt.Fprintln(w, line)
	}
}
