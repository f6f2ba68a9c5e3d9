package dsc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB value as used by link embeds. The zero value is
// black, which is also the API default.
type Color int

// namedColors is the palette shared with the Discord client color scheme.
// Both "grey" and "gray" spellings resolve for the grey entries.
var namedColors = map[string]Color{
	"default":      0x000000,
	"teal":         0x1abc9c,
	"dark_teal":    0x11806a,
	"green":        0x2ecc71,
	"dark_green":   0x1f8b4c,
	"blue":         0x3498db,
	"dark_blue":    0x206694,
	"purple":       0x9b59b6,
	"dark_purple":  0x71368a,
	"magenta":      0xe91e63,
	"dark_magenta": 0xad1457,
	"gold":         0xf1c40f,
	"dark_gold":    0xc27c0e,
	"orange":       0xe67e22,
	"dark_orange":  0xa84300,
	"red":          0xe74c3c,
	"dark_red":     0x992d22,
	"lighter_grey": 0x95a5a6,
	"lighter_gray": 0x95a5a6,
	"dark_grey":    0x607d8b,
	"dark_gray":    0x607d8b,
	"light_grey":   0x979c9f,
	"light_gray":   0x979c9f,
	"darker_grey":  0x546e7a,
	"darker_gray":  0x546e7a,
	"blurple":      0x7289da,
	"greyple":      0x99aab5,
	"dark_theme":   0x36393f,
}

// NamedColor looks up a palette color by name. Names are matched
// case-insensitively, with spaces and hyphens treated as underscores.
func NamedColor(name string) (Color, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	c, ok := namedColors[key]
	return c, ok
}

// ColorNames returns every palette name in sorted order.
func ColorNames() []string {
	names := make([]string, 0, len(namedColors))
	for name := range namedColors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseColor parses a hex color string. Accepted forms are "#rrggbb",
// "0xrrggbb", and bare "rrggbb".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimSpace(s)
	hex = strings.TrimPrefix(hex, "#")
	hex = strings.TrimPrefix(hex, "0x")
	hex = strings.TrimPrefix(hex, "0X")
	if hex == "" || len(hex) > 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}

	value, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(value), nil
}

// ColorFromRGB builds a Color from its channel values.
func ColorFromRGB(r, g, b uint8) Color {
	return Color(int(r)<<16 | int(g)<<8 | int(b))
}

// ColorFromHSV builds a Color from hue, saturation, and value, each in
// the range [0, 1].
func ColorFromHSV(h, s, v float64) Color {
	if s == 0 {
		c := uint8(v * 255)
		return ColorFromRGB(c, c, c)
	}

	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch ((i % 6) + 6) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return ColorFromRGB(uint8(r*255), uint8(g*255), uint8(b*255))
}

// RGB returns the red, green, and blue channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16 & 0xff), uint8(c >> 8 & 0xff), uint8(c & 0xff)
}

// ToDict returns the color as a mapping of channel values.
func (c Color) ToDict() map[string]uint8 {
	r, g, b := c.RGB()
	return map[string]uint8{"r": r, "g": g, "b": b}
}

// String renders the color in "#rrggbb" form, the shape the API expects
// in request bodies.
func (c Color) String() string {
	return fmt.Sprintf("#%06x", int(c))
}

// MarshalJSON encodes the color as a "#rrggbb" string.
func (c Color) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

// UnmarshalJSON accepts both the integer and hex-string forms the API
// uses interchangeably.
func (c *Color) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*c = 0
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*c = 0
			return nil
		}
		parsed, err := ParseColor(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	value, err := strconv.ParseInt(trimmed, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid color value %s: %w", trimmed, err)
	}
	*c = Color(value)
	return nil
}
