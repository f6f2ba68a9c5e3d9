package dsc

// Embed is the social preview card attached to a link. All fields are
// optional; the zero value is a link with no customized preview.
type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Color       Color  `json:"color,omitempty"`
	Image       string `json:"image,omitempty"`
}

// ToDict returns the embed's fields as a generic mapping.
func (e Embed) ToDict() map[string]any {
	return map[string]any{
		"title":       e.Title,
		"description": e.Description,
		"color":       e.Color,
		"image":       e.Image,
	}
}

// EmbedFromDict rebuilds an embed from its mapping form, the inverse of
// ToDict. The color entry may be a Color, a hex string, or a plain
// integer; unrecognized values leave the zero color in place.
func EmbedFromDict(data map[string]any) Embed {
	var e Embed
	if v, ok := data["title"].(string); ok {
		e.Title = v
	}
	if v, ok := data["description"].(string); ok {
		e.Description = v
	}
	if v, ok := data["image"].(string); ok {
		e.Image = v
	}

	switch c := data["color"].(type) {
	case Color:
		e.Color = c
	case string:
		if parsed, err := ParseColor(c); err == nil {
			e.Color = parsed
		}
	case int:
		e.Color = Color(c)
	case int64:
		e.Color = Color(c)
	case float64:
		e.Color = Color(int(c))
	}
	return e
}
