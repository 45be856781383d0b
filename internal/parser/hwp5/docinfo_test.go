package hwp5

import (
	"encoding/binary"
	"testing"
)

func docInfoRecords(parts ...[]byte) []Record {
	return DecodeRecords(concat(parts...))
}

func TestParseDocInfo(t *testing.T) {
	info := ParseDocInfo(docInfoRecords(
		encodeRecord(TagFaceName, 1, faceNameData("함초롬바탕")),
		encodeRecord(TagFaceName, 1, faceNameData("Arial")),
		encodeRecord(TagCharShape, 1, charShapeData(1, 1200, 0x02, 0x0000FF)),
		encodeRecord(TagParaShape, 1, paraShapeData(3, 200)),
		encodeRecord(TagBorderFill, 1, make([]byte, 40)),
	))

	if len(info.FaceNames) != 2 || info.FaceNames[0] != "함초롬바탕" || info.FaceNames[1] != "Arial" {
		t.Errorf("unexpected face names: %q", info.FaceNames)
	}

	if len(info.CharShapes) != 1 {
		t.Fatalf("expected 1 char shape, got %d", len(info.CharShapes))
	}
	cs := info.CharShapes[0]
	if cs.FontRefs[0] != 1 || cs.Height != 1200 || cs.Color != 0x0000FF {
		t.Errorf("unexpected char shape: %+v", cs)
	}
	if !cs.IsBold() || cs.IsItalic() {
		t.Errorf("expected bold only, attributes 0x%X", cs.Attributes)
	}

	if len(info.ParaShapes) != 1 {
		t.Fatalf("expected 1 para shape, got %d", len(info.ParaShapes))
	}
	if info.ParaShapes[0].Alignment() != 3 || info.ParaShapes[0].LineSpacing != 200 {
		t.Errorf("unexpected para shape: %+v", info.ParaShapes[0])
	}
}

func TestParseDocInfo_ShortRecordsDropped(t *testing.T) {
	info := ParseDocInfo(docInfoRecords(
		encodeRecord(TagCharShape, 1, charShapeData(0, 1000, 0, 0)),
		encodeRecord(TagCharShape, 1, make([]byte, 85)),
		encodeRecord(TagParaShape, 1, make([]byte, 7)),
		encodeRecord(TagFaceName, 1, []byte{0, 5}),
		encodeRecord(TagFaceName, 1, []byte{0, 5, 0, 'A', 0}),
	))

	if len(info.CharShapes) != 1 {
		t.Errorf("expected short char shape to be dropped, got %d", len(info.CharShapes))
	}
	if len(info.ParaShapes) != 0 {
		t.Errorf("expected short para shape to be dropped, got %d", len(info.ParaShapes))
	}
	if len(info.FaceNames) != 0 {
		t.Errorf("expected truncated face names to be dropped, got %q", info.FaceNames)
	}
}

func TestParseParaShape_DefaultLineSpacing(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data, 1<<2)

	ps, ok := parseParaShape(data)
	if !ok {
		t.Fatal("expected 8-byte para shape to parse")
	}
	if ps.LineSpacing != DefaultLineSpacing {
		t.Errorf("expected default line spacing %d, got %d", DefaultLineSpacing, ps.LineSpacing)
	}
	if ps.Alignment() != 1 {
		t.Errorf("expected alignment 1, got %d", ps.Alignment())
	}
}

func TestParseFaceName_EmbeddedNull(t *testing.T) {
	data := []byte{0}
	data = binary.LittleEndian.AppendUint16(data, 5)
	data = append(data, units('B', 'a', 0, 'x', 'y')...)

	name, ok := parseFaceName(data)
	if !ok || name != "Ba" {
		t.Errorf("expected 'Ba', got %q (ok=%v)", name, ok)
	}
}

func TestCharShape_Attributes(t *testing.T) {
	cs := CharShape{
		Attributes: 0x03, // Italic + Bold
		Height:     1000, // 10pt
	}

	if !cs.IsBold() {
		t.Error("Expected IsBold() to be true")
	}
	if !cs.IsItalic() {
		t.Error("Expected IsItalic() to be true")
	}
	if fontSize := cs.FontSizePt(); fontSize != 10.0 {
		t.Errorf("Expected font size 10.0pt, got %f", fontSize)
	}

	italic := CharShape{Attributes: 0x01}
	if !italic.IsItalic() || italic.IsBold() {
		t.Error("bit 0 should be italic only")
	}
}

func TestParseDocInfo_StyleAndProperties(t *testing.T) {
	props := make([]byte, 26)
	binary.LittleEndian.PutUint16(props[0:], 2)
	binary.LittleEndian.PutUint16(props[2:], 1)

	var style []byte
	style = binary.LittleEndian.AppendUint16(style, 2)
	style = append(style, utf16le("바탕")...)
	style = binary.LittleEndian.AppendUint16(style, 6)
	style = append(style, utf16le("Normal")...)
	style = append(style, 0, 0, 0x12, 0x04)
	style = binary.LittleEndian.AppendUint16(style, 3)
	style = binary.LittleEndian.AppendUint16(style, 4)

	info := ParseDocInfo(docInfoRecords(
		encodeRecord(TagDocumentProperties, 0, props),
		encodeRecord(TagStyle, 1, style),
	))

	if info.Properties == nil || info.Properties.SectionCount != 2 || info.Properties.PageStartNum != 1 {
		t.Errorf("unexpected properties: %+v", info.Properties)
	}
	if len(info.Styles) != 1 {
		t.Fatalf("expected 1 style, got %d", len(info.Styles))
	}
	st := info.Styles[0]
	if st.Name != "바탕" || st.EngName != "Normal" || st.ParaShapeID != 3 || st.CharShapeID != 4 {
		t.Errorf("unexpected style: %+v", st)
	}
}
