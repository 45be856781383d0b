package hwpx

import (
	"math"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// Defaults applied to attributes an ir.Style leaves unset. Id 0 of every
// property list is built from them.
const (
	DefaultFontName    = "함초롬바탕"
	DefaultFontSize    = 10.0
	DefaultLineSpacing = 160
	defaultColor       = "#000000"
)

var alignNames = map[string]string{
	ir.AlignLeft:    "LEFT",
	ir.AlignRight:   "RIGHT",
	ir.AlignCenter:  "CENTER",
	ir.AlignJustify: "JUSTIFY",
}

type charKey struct {
	font   string
	height int
	color  string
	bold   bool
	italic bool
}

type paraKey struct {
	align       string
	lineSpacing uint32
}

// catalogue assigns ids to the distinct fonts, character properties and
// paragraph properties used by a document.
type catalogue struct {
	fonts   []string
	fontIDs map[string]int
	chars   []charKey
	charIDs map[charKey]int
	paras   []paraKey
	paraIDs map[paraKey]int
}

func newCatalogue() *catalogue {
	c := &catalogue{
		fontIDs: make(map[string]int),
		charIDs: make(map[charKey]int),
		paraIDs: make(map[paraKey]int),
	}
	c.ids(nil)
	return c
}

// ids returns the charPr and paraPr ids for a paragraph style, adding new
// entries as needed.
func (c *catalogue) ids(s *ir.Style) (charID, paraID int) {
	ck, pk := keys(s)

	if _, ok := c.fontIDs[ck.font]; !ok {
		c.fontIDs[ck.font] = len(c.fonts)
		c.fonts = append(c.fonts, ck.font)
	}

	charID, ok := c.charIDs[ck]
	if !ok {
		charID = len(c.chars)
		c.charIDs[ck] = charID
		c.chars = append(c.chars, ck)
	}

	paraID, ok = c.paraIDs[pk]
	if !ok {
		paraID = len(c.paras)
		c.paraIDs[pk] = paraID
		c.paras = append(c.paras, pk)
	}
	return charID, paraID
}

func keys(s *ir.Style) (charKey, paraKey) {
	ck := charKey{font: DefaultFontName, height: int(DefaultFontSize * 100), color: defaultColor}
	pk := paraKey{align: "JUSTIFY", lineSpacing: DefaultLineSpacing}
	if s == nil {
		return ck, pk
	}

	if s.FontName != "" {
		ck.font = s.FontName
	}
	if s.FontSize > 0 {
		ck.height = int(math.Round(s.FontSize * 100))
	}
	if s.Color != "" {
		ck.color = s.Color
	}
	ck.bold = s.Bold
	ck.italic = s.Italic

	if a, ok := alignNames[s.Alignment]; ok {
		pk.align = a
	}
	if s.LineSpacing > 0 {
		pk.lineSpacing = s.LineSpacing
	}
	return ck, pk
}
