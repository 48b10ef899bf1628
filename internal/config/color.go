package config

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/image/math/f32"
)

// Color is an 8-bit RGBA panel color.
//
// In settings files a color is written as "#rrggbb", "#rrggbbaa" or an SVG
// color name such as "cornflowerblue".
type Color [4]uint8

// Common colors.
var (
	Black = Color{0, 0, 0, 255}
	White = Color{255, 255, 255, 255}
)

// ParseColor parses a hex color or an SVG color name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		b, err := hex.DecodeString(s[1:])
		if err != nil || (len(b) != 3 && len(b) != 4) {
			return Color{}, fmt.Errorf("%w: %q", ErrColor, s)
		}
		c := Color{b[0], b[1], b[2], 255}
		if len(b) == 4 {
			c[3] = b[3]
		}
		return c, nil
	}
	if rgba, ok := colornames.Map[strings.ToLower(s)]; ok {
		return FromColor(rgba), nil
	}
	return Color{}, fmt.Errorf("%w: %q", ErrColor, s)
}

// FromColor converts any color.Color to a non-premultiplied Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B, n.A}
}

// Vec4 returns the color with each channel scaled to [0,1].
func (c Color) Vec4() f32.Vec4 {
	return f32.Vec4{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255}
}

// String returns the "#rrggbbaa" form.
func (c Color) String() string {
	return "#" + hex.EncodeToString(c[:])
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
