package hwp5

import (
	"fmt"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// 문단 정렬 코드 -> IR 정렬 (배분/나눔 정렬은 양쪽 정렬로 처리)
var alignments = [6]string{
	ir.AlignJustify, // 0 양쪽
	ir.AlignLeft,    // 1 왼쪽
	ir.AlignRight,   // 2 오른쪽
	ir.AlignCenter,  // 3 가운데
	ir.AlignJustify, // 4 배분
	ir.AlignJustify, // 5 나눔
}

// ResolveStyle looks both ids up in the catalogue. An id outside its list
// contributes nothing; the default line spacing is never emitted.
func ResolveStyle(info *DocInfo, paraShapeID, charShapeID uint32) ir.Style {
	var s ir.Style
	if info == nil {
		return s
	}

	if uint64(charShapeID) < uint64(len(info.CharShapes)) {
		cs := info.CharShapes[charShapeID]
		s.Bold = cs.IsBold()
		s.Italic = cs.IsItalic()
		s.FontSize = cs.FontSizePt()
		if ref := int(cs.FontRefs[0]); ref < len(info.FaceNames) {
			s.FontName = info.FaceNames[ref]
		}
		s.Color = colorHex(cs.Color)
	}

	if uint64(paraShapeID) < uint64(len(info.ParaShapes)) {
		ps := info.ParaShapes[paraShapeID]
		if a := ps.Alignment(); int(a) < len(alignments) {
			s.Alignment = alignments[a]
		}
		if ps.LineSpacing != DefaultLineSpacing {
			s.LineSpacing = ps.LineSpacing
		}
	}

	return s
}

// colorHex converts 0x00BBGGRR to "#RRGGBB". Black is the default and
// yields "".
func colorHex(c uint32) string {
	c &= 0x00FFFFFF
	if c == 0 {
		return ""
	}
	r, g, b := c&0xFF, (c>>8)&0xFF, (c>>16)&0xFF
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
