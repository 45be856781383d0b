package hwp5

import (
	"encoding/binary"
)

// Section은 본문 구역에서 디코딩된 문단, 컨트롤, 표
type Section struct {
	Paragraphs []Paragraph
	Controls   []Control
	Tables     []Table
}

// Paragraph는 문단 데이터
type Paragraph struct {
	Text            string
	CharShapeRanges []CharShapeRange
	ParaShapeID     uint32
	Level           uint32
}

// CharShapeRange는 StartPos(UTF-16 코드 단위)부터 적용되는 글자 모양
type CharShapeRange struct {
	StartPos    uint32
	CharShapeID uint32
}

// Control은 컨트롤 헤더 (예: "tbl ", "secd")
type Control struct {
	ID string
}

// Table은 TABLE 레코드의 행/열 정보. 셀 내용은 ConvertSection이 재구성한다.
type Table struct {
	Rows            uint16
	Cols            uint16
	CellCountPerRow []uint16
}

// ParseSection walks a section's records once. Paragraph headers flush the
// previous paragraph; text and char-shape records replace the open
// paragraph's fields. Records too short for their layout are dropped.
func ParseSection(records []Record) *Section {
	section := &Section{}
	var cur *Paragraph

	flush := func() {
		if cur != nil {
			section.Paragraphs = append(section.Paragraphs, *cur)
			cur = nil
		}
	}

	for _, rec := range records {
		switch rec.TagID {
		case TagParaHeader:
			flush()
			cur = &Paragraph{
				ParaShapeID: parseParaShapeID(rec.Data),
				Level:       uint32(rec.Level),
			}

		case TagParaText:
			if cur != nil {
				cur.Text = DecodeParaText(rec.Data)
			}

		case TagParaCharShape:
			if cur != nil {
				cur.CharShapeRanges = parseCharShapeRanges(rec.Data)
			}

		case TagCtrlHeader:
			if id, ok := parseCtrlID(rec.Data); ok {
				section.Controls = append(section.Controls, Control{ID: id})
			}

		case TagTable:
			if t, ok := parseTableRecord(rec.Data); ok {
				section.Tables = append(section.Tables, t)
			}
		}
	}
	flush()

	return section
}

// 문단 헤더: [글자 수:4][문단 모양 ID:4]...
func parseParaShapeID(data []byte) uint32 {
	if len(data) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint32(data[4:8])
}

func parseCharShapeRanges(data []byte) []CharShapeRange {
	ranges := make([]CharShapeRange, 0, len(data)/8)
	for i := 0; i+8 <= len(data); i += 8 {
		ranges = append(ranges, CharShapeRange{
			StartPos:    binary.LittleEndian.Uint32(data[i : i+4]),
			CharShapeID: binary.LittleEndian.Uint32(data[i+4 : i+8]),
		})
	}
	return ranges
}

// 컨트롤 ID는 리틀 엔디언 u32로 저장되어 바이트 순서가 뒤집혀 있다 (" lbt" -> "tbl ").
func parseCtrlID(data []byte) (string, bool) {
	if len(data) < 4 {
		return "", false
	}
	return string([]byte{data[3], data[2], data[1], data[0]}), true
}

// 표 속성 구조
// [0:4] - 속성
// [4:6] - 행 개수
// [6:8] - 열 개수
func parseTableRecord(data []byte) (Table, bool) {
	if len(data) < 8 {
		return Table{}, false
	}

	t := Table{
		Rows: binary.LittleEndian.Uint16(data[4:6]),
		Cols: binary.LittleEndian.Uint16(data[6:8]),
	}
	t.CellCountPerRow = make([]uint16, t.Rows)
	for i := range t.CellCountPerRow {
		t.CellCountPerRow[i] = t.Cols
	}
	return t, true
}
