package hwpx

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// defaultLineSpacing is the percent line spacing a paragraph has when its
// paraPr says nothing else. It is not carried into ir.Style.
const defaultLineSpacing = 160

// styleTable holds the character and paragraph properties declared in
// Contents/header.xml, keyed by their id attribute.
type styleTable struct {
	fonts map[string]string
	chars map[string]ir.Style
	paras map[string]ir.Style
}

var horizontalAlign = map[string]string{
	"LEFT":             ir.AlignLeft,
	"RIGHT":            ir.AlignRight,
	"CENTER":           ir.AlignCenter,
	"JUSTIFY":          ir.AlignJustify,
	"DISTRIBUTE":       ir.AlignJustify,
	"DISTRIBUTE_SPACE": ir.AlignJustify,
}

// parseHeader reads the reference lists of a header part.
func parseHeader(r io.Reader) (*styleTable, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	st := &styleTable{
		fonts: make(map[string]string),
		chars: make(map[string]ir.Style),
		paras: make(map[string]ir.Style),
	}

	// 한글 글꼴 목록만 사용
	for _, n := range xmlquery.Find(root, "//*[local-name()='fontface'][@lang='HANGUL']/*[local-name()='font']") {
		st.fonts[n.SelectAttr("id")] = n.SelectAttr("face")
	}

	for _, n := range xmlquery.Find(root, "//*[local-name()='charPr']") {
		var s ir.Style
		if h, err := strconv.Atoi(n.SelectAttr("height")); err == nil && h > 0 {
			s.FontSize = float64(h) / 100
		}
		s.Color = normalizeColor(n.SelectAttr("textColor"))
		if ref := xmlquery.FindOne(n, "./*[local-name()='fontRef']"); ref != nil {
			s.FontName = st.fonts[ref.SelectAttr("hangul")]
		}
		s.Bold = xmlquery.FindOne(n, "./*[local-name()='bold']") != nil
		s.Italic = xmlquery.FindOne(n, "./*[local-name()='italic']") != nil
		st.chars[n.SelectAttr("id")] = s
	}

	for _, n := range xmlquery.Find(root, "//*[local-name()='paraPr']") {
		var s ir.Style
		if a := xmlquery.FindOne(n, ".//*[local-name()='align']"); a != nil {
			s.Alignment = horizontalAlign[strings.ToUpper(a.SelectAttr("horizontal"))]
		}
		if ls := xmlquery.FindOne(n, ".//*[local-name()='lineSpacing']"); ls != nil {
			kind := ls.SelectAttr("type")
			if v, err := strconv.Atoi(ls.SelectAttr("value")); err == nil && v > 0 && v != defaultLineSpacing &&
				(kind == "" || strings.EqualFold(kind, "PERCENT")) {
				s.LineSpacing = uint32(v)
			}
		}
		st.paras[n.SelectAttr("id")] = s
	}

	return st, nil
}

// resolve merges the paragraph and character properties referenced by a
// paragraph. It returns nil when neither adds an attribute.
func (st *styleTable) resolve(paraPrID, charPrID string) *ir.Style {
	if st == nil {
		return nil
	}
	s := st.chars[charPrID]
	p := st.paras[paraPrID]
	s.Alignment = p.Alignment
	s.LineSpacing = p.LineSpacing
	if s.IsZero() {
		return nil
	}
	return &s
}

// normalizeColor maps "#RRGGBB" to upper case and drops black and "none".
func normalizeColor(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if len(v) != 7 || v[0] != '#' || v == "#000000" {
		return ""
	}
	return v
}
