package ir

// Paragraph represents a text paragraph with optional style attributes.
type Paragraph struct {
	Text  string `json:"text"`
	Style *Style `json:"style,omitempty"`
}

// Style holds the resolved character and paragraph attributes of a
// paragraph. Zero values mean "not set".
type Style struct {
	Bold        bool    `json:"bold,omitempty"`
	Italic      bool    `json:"italic,omitempty"`
	FontName    string  `json:"font_name,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`    // points
	Alignment   string  `json:"alignment,omitempty"`    // left, center, right, justify
	LineSpacing uint32  `json:"line_spacing,omitempty"` // percent
	Color       string  `json:"color,omitempty"`        // #RRGGBB
}

// Alignment values.
const (
	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignRight   = "right"
	AlignJustify = "justify"
)

// NewParagraph creates a new paragraph with the given text.
func NewParagraph(text string) *Paragraph {
	return &Paragraph{Text: text}
}

// IsEmpty returns true if the paragraph has no text content.
func (p *Paragraph) IsEmpty() bool {
	return p.Text == ""
}

// IsZero reports whether no attribute is set.
func (s Style) IsZero() bool {
	return s == Style{}
}
