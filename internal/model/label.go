package model

import "fmt"

type LabelColor string

const (
	ColorSlate  LabelColor = "slate"
	ColorBlue   LabelColor = "blue"
	ColorGreen  LabelColor = "green"
	ColorAmber  LabelColor = "amber"
	ColorRose   LabelColor = "rose"
	ColorViolet LabelColor = "violet"
)

const DefaultLabelColor = ColorSlate

// Palette is the fixed set of label colors, in display order.
var Palette = []LabelColor{ColorSlate, ColorBlue, ColorGreen, ColorAmber, ColorRose, ColorViolet}

func (c LabelColor) IsValid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// Coerce maps colors outside the palette to the default color.
func (c LabelColor) Coerce() LabelColor {
	if c.IsValid() {
		return c
	}
	return DefaultLabelColor
}

type Label struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Color LabelColor `json:"color"`
}

func DefaultLabel() Label {
	return Label{ID: DefaultLabelID, Name: DefaultLabelName, Color: DefaultLabelColor}
}

// FallbackLabelName is the name given to an unnamed label at zero-based position index.
func FallbackLabelName(index int) string {
	return fmt.Sprintf("Label %d", index+1)
}

func (l Label) Validate() error {
	if !l.Color.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidColor, l.Color)
	}
	return nil
}
