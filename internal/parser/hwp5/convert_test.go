package hwp5

import (
	"fmt"
	"strings"
	"testing"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// tableAnchor is the paragraph text of a paragraph holding a table: the
// extended control code 11 with its 7 trailing units, then paragraph end.
func tableAnchor() []byte {
	return units(11, 0x6C62, 0x2074, 0, 0, 0, 0, 11, 13)
}

func cellRecords(level uint16, text string) []byte {
	return concat(
		encodeRecord(TagListHeader, level, make([]byte, 8)),
		encodeRecord(TagParaHeader, level, paraHeaderData(0)),
		encodeRecord(TagParaText, level+1, paraText(text)),
		encodeRecord(TagParaLineSeg, level+1, make([]byte, 36)),
	)
}

func convert(t *testing.T, data []byte, info *DocInfo) (*ir.Section, Diagnostic) {
	t.Helper()
	return ConvertSection(DecodeRecords(data), info)
}

func TestConvertSection_Table(t *testing.T) {
	var cells [][]byte
	for i := 1; i <= 6; i++ {
		cells = append(cells, cellRecords(2, fmt.Sprintf("c%d", i)))
	}
	data := concat(
		encodeRecord(TagParaHeader, 0, paraHeaderData(0)),
		encodeRecord(TagParaText, 1, tableAnchor()),
		encodeRecord(TagCtrlHeader, 1, ctrlHeaderData(CtrlTable)),
		encodeRecord(TagTable, 2, tableData(3, 2)),
		concat(cells...),
		encodeRecord(TagParaHeader, 0, paraHeaderData(0)),
		encodeRecord(TagParaText, 1, paraText("after")),
	)

	section, _ := convert(t, data, &DocInfo{})

	if len(section.Content) != 3 {
		t.Fatalf("expected anchor paragraph, table, paragraph; got %d blocks", len(section.Content))
	}
	if section.Content[0].Type != ir.BlockTypeParagraph || section.Content[0].Paragraph.Text != "" {
		t.Errorf("expected empty anchor paragraph first, got %+v", section.Content[0])
	}

	table := section.Content[1].Table
	if table == nil {
		t.Fatalf("expected table block, got %+v", section.Content[1])
	}
	if table.Rows != 3 || table.Cols != 2 {
		t.Fatalf("expected 3x2 table, got %dx%d", table.Rows, table.Cols)
	}
	want := [][]string{{"c1", "c2"}, {"c3", "c4"}, {"c5", "c6"}}
	for r, row := range want {
		if len(table.Cells[r]) != 2 {
			t.Fatalf("row %d: expected 2 cells, got %d", r, len(table.Cells[r]))
		}
		for c, text := range row {
			if got := table.Cells[r][c].Text; got != text {
				t.Errorf("cell (%d,%d): expected %q, got %q", r, c, text, got)
			}
		}
	}

	if got := section.Content[2].Paragraph.Text; got != "after" {
		t.Errorf("expected 'after', got %q", got)
	}
}

func TestConvertSection_MultiParagraphCell(t *testing.T) {
	data := concat(
		encodeRecord(TagCtrlHeader, 0, ctrlHeaderData(CtrlTable)),
		encodeRecord(TagTable, 1, tableData(1, 1)),
		encodeRecord(TagListHeader, 1, nil),
		encodeRecord(TagParaHeader, 1, paraHeaderData(0)),
		encodeRecord(TagParaText, 2, paraText("line one")),
		encodeRecord(TagParaHeader, 1, paraHeaderData(0)),
		encodeRecord(TagParaText, 2, paraText("  line two  ")),
	)

	section, _ := convert(t, data, nil)

	if len(section.Content) != 1 || section.Content[0].Table == nil {
		t.Fatalf("expected a single table closed at end of stream, got %+v", section.Content)
	}
	if got := section.Content[0].Table.Cells[0][0].Text; got != "line one\n  line two" {
		t.Errorf("unexpected cell text %q", got)
	}
}

func TestConvertSection_TextBeforeFirstCellIgnored(t *testing.T) {
	data := concat(
		encodeRecord(TagCtrlHeader, 0, ctrlHeaderData(CtrlTable)),
		encodeRecord(TagTable, 1, tableData(1, 2)),
		encodeRecord(TagParaText, 2, paraText("caption")),
		cellRecords(1, "a"),
		cellRecords(1, "b"),
	)

	section, _ := convert(t, data, nil)
	table := section.Content[0].Table
	if table.Rows != 1 || len(table.Cells[0]) != 2 {
		t.Fatalf("expected 1x2, got %+v", table)
	}
	if table.Cells[0][0].Text != "a" || table.Cells[0][1].Text != "b" {
		t.Errorf("unexpected cells: %+v", table.Cells)
	}
}

func TestConvertSection_ZeroColumns(t *testing.T) {
	data := concat(
		encodeRecord(TagCtrlHeader, 0, ctrlHeaderData(CtrlTable)),
		cellRecords(1, "x"),
		cellRecords(1, "y"),
		cellRecords(1, "z"),
		encodeRecord(TagParaHeader, 0, paraHeaderData(0)),
	)

	section, _ := convert(t, data, nil)
	table := section.Content[0].Table
	if table.Rows != 1 || len(table.Cells[0]) != 3 {
		t.Errorf("expected one row of 3 cells without table info, got %+v", table.Cells)
	}
	if len(section.Content) != 2 || section.Content[1].Type != ir.BlockTypeParagraph {
		t.Errorf("expected closing paragraph after table, got %+v", section.Content)
	}
}

func TestConvertSection_NestedTableFlattened(t *testing.T) {
	data := concat(
		encodeRecord(TagCtrlHeader, 0, ctrlHeaderData(CtrlTable)),
		encodeRecord(TagTable, 1, tableData(1, 2)),
		cellRecords(1, "outer"),
		encodeRecord(TagCtrlHeader, 2, ctrlHeaderData(CtrlTable)),
		encodeRecord(TagTable, 3, tableData(1, 1)),
		cellRecords(3, "inner"),
		cellRecords(1, "second"),
	)

	section, _ := convert(t, data, nil)
	if len(section.Content) != 1 {
		t.Fatalf("expected one table, got %d blocks", len(section.Content))
	}
	table := section.Content[0].Table
	if table.Rows != 1 || table.Cols != 2 {
		t.Fatalf("nested TABLE record must not replace outer dimensions: %dx%d", table.Rows, table.Cols)
	}
	if table.Cells[0][0].Text != "outer\ninner" || table.Cells[0][1].Text != "second" {
		t.Errorf("unexpected cells: %+v", table.Cells)
	}
}

func TestConvertSection_EmptyParagraphsKept(t *testing.T) {
	data := concat(
		encodeRecord(TagParaHeader, 0, paraHeaderData(0)),
		encodeRecord(TagParaText, 1, units(13)),
		encodeRecord(TagParaHeader, 0, paraHeaderData(0)),
		encodeRecord(TagParaText, 1, paraText("line\nbreak")),
	)

	section, _ := convert(t, data, nil)
	if len(section.Content) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(section.Content))
	}
	if section.Content[0].Paragraph.Text != "" {
		t.Errorf("expected empty paragraph, got %q", section.Content[0].Paragraph.Text)
	}
	if section.Content[1].Paragraph.Text != "line\nbreak" {
		t.Errorf("expected only the terminal newline stripped, got %q", section.Content[1].Paragraph.Text)
	}
}

func TestConvertSection_ParagraphStyle(t *testing.T) {
	info := &DocInfo{
		FaceNames:  []string{"바탕", "돋움"},
		CharShapes: []CharShape{{}, {FontRefs: [7]uint16{1}, Height: 1400, Attributes: 0x02}},
		ParaShapes: []ParaShape{{Attributes: 3 << 2, LineSpacing: 160}},
	}
	data := concat(
		encodeRecord(TagParaHeader, 0, paraHeaderData(0)),
		encodeRecord(TagParaText, 1, paraText("제목")),
		encodeRecord(TagParaCharShape, 1, charShapeRangeData(0, 1)),
		encodeRecord(TagParaHeader, 0, paraHeaderData(9)),
		encodeRecord(TagParaText, 1, paraText("plain")),
		encodeRecord(TagParaCharShape, 1, charShapeRangeData(0, 99)),
	)

	section, _ := convert(t, data, info)

	style := section.Content[0].Paragraph.Style
	if style == nil {
		t.Fatal("expected resolved style")
	}
	if !style.Bold || style.FontName != "돋움" || style.FontSize != 14 || style.Alignment != ir.AlignCenter {
		t.Errorf("unexpected style: %+v", style)
	}
	if section.Content[1].Paragraph.Style != nil {
		t.Errorf("out-of-range ids should give no style, got %+v", section.Content[1].Paragraph.Style)
	}
}

func TestConvertSection_Diagnostics(t *testing.T) {
	data := concat(
		encodeRecord(TagParaHeader, 0, paraHeaderData(0)),
		encodeRecord(TagParaText, 1, paraText("x")),
		encodeRecord(TagParaLineSeg, 1, nil),
		encodeRecord(TagCtrlHeader, 1, ctrlHeaderData(CtrlTable)),
		encodeRecord(TagTable, 2, tableData(1, 1)),
		cellRecords(2, "cell"),
		encodeRecord(TagShapePicture, 3, nil),
	)

	_, diag := convert(t, data, nil)

	counts := map[uint16]int{}
	for _, s := range diag.Skipped {
		counts[s.TagID] = s.Count
	}
	if counts[TagParaLineSeg] != 2 {
		t.Errorf("expected 2 PARA_LINE_SEG, got %d", counts[TagParaLineSeg])
	}
	if counts[TagShapePicture] != 1 {
		t.Errorf("expected 1 SHAPE_PICTURE, got %d", counts[TagShapePicture])
	}
	if _, ok := counts[TagParaText]; ok {
		t.Error("interpreted tags must not be reported")
	}
	if !strings.Contains(diag.String(), "PARA_LINE_SEG(0x0045)x2") {
		t.Errorf("unexpected diagnostic text: %s", diag.String())
	}
}

func TestConvertSection_NoDiagnosticsForPlainText(t *testing.T) {
	data := concat(
		encodeRecord(TagParaHeader, 0, paraHeaderData(0)),
		encodeRecord(TagParaText, 1, paraText("x")),
	)
	if _, diag := convert(t, data, nil); len(diag.Skipped) != 0 {
		t.Errorf("expected no skipped tags, got %+v", diag.Skipped)
	}
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{
			name: "named tag",
			diag: Diagnostic{Section: 0, Skipped: []SkippedTag{{TagID: TagPageDef, Name: TagName(TagPageDef), Count: 1}}},
			want: "section 0: skipped tag ids PAGE_DEF(0x0049)x1",
		},
		{
			name: "unknown tag",
			diag: Diagnostic{Section: 3, Skipped: []SkippedTag{{TagID: 0x03FE, Name: TagName(0x03FE), Count: 2}}},
			want: "section 3: skipped tag ids UNKNOWN(0x03FE)x2",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.diag.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}
