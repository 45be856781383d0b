package hwp5

import (
	"encoding/binary"
	"unicode/utf16"
)

// DocInfo는 문서 정보 스트림에서 파싱된 스타일 카탈로그.
// 각 목록의 N번째 항목이 ID N에 해당한다.
type DocInfo struct {
	Properties *DocumentProperties
	FaceNames  []string
	CharShapes []CharShape
	ParaShapes []ParaShape
	Styles     []Style
}

// DocumentProperties는 문서 속성 (HWPTAG_DOCUMENT_PROPERTIES)
type DocumentProperties struct {
	SectionCount  uint16 // 구역 개수
	PageStartNum  uint16 // 시작 페이지 번호
	FootnoteStart uint16 // 각주 시작 번호
	EndnoteStart  uint16 // 미주 시작 번호
	PictureStart  uint16 // 그림 시작 번호
	TableStart    uint16 // 표 시작 번호
	EquationStart uint16 // 수식 시작 번호
}

// CharShape는 글자 모양 (HWPTAG_CHAR_SHAPE)
type CharShape struct {
	FontRefs   [7]uint16 // 언어별 글꼴 ID
	Height     uint32    // 기준 크기 (100분의 1pt)
	Attributes uint32    // 속성 플래그
	Color      uint32    // 글자 색 (0x00BBGGRR)
}

// ParaShape는 문단 모양 (HWPTAG_PARA_SHAPE)
type ParaShape struct {
	Attributes  uint32 // 속성 1
	LineSpacing uint32 // 줄 간격 (%)
}

// Style은 스타일 정의 (HWPTAG_STYLE)
type Style struct {
	Name        string // 스타일 이름
	EngName     string // 영문 스타일 이름
	Type        uint8  // 스타일 타입
	ParaShapeID uint16 // 문단 모양 ID
	CharShapeID uint16 // 글자 모양 ID
}

const (
	minCharShapeSize = 86
	minParaShapeSize = 8
	paraShapeLSSize  = 24
)

// ParseDocInfo builds the style catalogue from DocInfo records. Records too
// short for their layout are skipped and records of other tags are ignored.
func ParseDocInfo(records []Record) *DocInfo {
	info := &DocInfo{}

	for _, rec := range records {
		switch rec.TagID {
		case TagDocumentProperties:
			if p, ok := parseDocumentProperties(rec.Data); ok {
				info.Properties = &p
			}
		case TagFaceName:
			if name, ok := parseFaceName(rec.Data); ok {
				info.FaceNames = append(info.FaceNames, name)
			}
		case TagCharShape:
			if cs, ok := parseCharShape(rec.Data); ok {
				info.CharShapes = append(info.CharShapes, cs)
			}
		case TagParaShape:
			if ps, ok := parseParaShape(rec.Data); ok {
				info.ParaShapes = append(info.ParaShapes, ps)
			}
		case TagStyle:
			if st, ok := parseStyle(rec.Data); ok {
				info.Styles = append(info.Styles, st)
			}
		}
	}

	return info
}

func parseDocumentProperties(data []byte) (DocumentProperties, bool) {
	if len(data) < 14 {
		return DocumentProperties{}, false
	}
	return DocumentProperties{
		SectionCount:  binary.LittleEndian.Uint16(data[0:2]),
		PageStartNum:  binary.LittleEndian.Uint16(data[2:4]),
		FootnoteStart: binary.LittleEndian.Uint16(data[4:6]),
		EndnoteStart:  binary.LittleEndian.Uint16(data[6:8]),
		PictureStart:  binary.LittleEndian.Uint16(data[8:10]),
		TableStart:    binary.LittleEndian.Uint16(data[10:12]),
		EquationStart: binary.LittleEndian.Uint16(data[12:14]),
	}, true
}

// 구조: [속성:1][이름 길이:2][이름:UTF-16LE]
func parseFaceName(data []byte) (string, bool) {
	if len(data) < 3 {
		return "", false
	}
	nameLen := int(binary.LittleEndian.Uint16(data[1:3]))
	if 3+nameLen*2 > len(data) {
		return "", false
	}

	units := make([]uint16, 0, nameLen)
	for i := 0; i < nameLen; i++ {
		u := binary.LittleEndian.Uint16(data[3+i*2:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), true
}

func parseCharShape(data []byte) (CharShape, bool) {
	if len(data) < minCharShapeSize {
		return CharShape{}, false
	}

	var cs CharShape
	for i := range 7 {
		cs.FontRefs[i] = binary.LittleEndian.Uint16(data[i*2 : i*2+2])
	}
	cs.Height = binary.LittleEndian.Uint32(data[70:74])
	cs.Attributes = binary.LittleEndian.Uint32(data[74:78])
	cs.Color = binary.LittleEndian.Uint32(data[82:86])
	return cs, true
}

func parseParaShape(data []byte) (ParaShape, bool) {
	if len(data) < minParaShapeSize {
		return ParaShape{}, false
	}

	ps := ParaShape{
		Attributes:  binary.LittleEndian.Uint32(data[0:4]),
		LineSpacing: DefaultLineSpacing,
	}
	if len(data) >= paraShapeLSSize {
		ps.LineSpacing = binary.LittleEndian.Uint32(data[20:24])
	}
	return ps, true
}

func parseStyle(data []byte) (Style, bool) {
	if len(data) < 2 {
		return Style{}, false
	}

	var style Style
	offset := 0

	// 한글 이름
	nameLen := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
	offset += 2
	if offset+nameLen*2 > len(data) {
		return Style{}, false
	}
	style.Name = DecodeUTF16LE(data[offset : offset+nameLen*2])
	offset += nameLen * 2

	// 영문 이름
	if offset+2 > len(data) {
		return style, true
	}
	engNameLen := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
	offset += 2
	if offset+engNameLen*2 > len(data) {
		return style, true
	}
	style.EngName = DecodeUTF16LE(data[offset : offset+engNameLen*2])
	offset += engNameLen * 2

	// [타입:1][다음 스타일:1][언어:2][문단 모양:2][글자 모양:2]
	if offset+8 > len(data) {
		return style, true
	}
	style.Type = data[offset]
	style.ParaShapeID = binary.LittleEndian.Uint16(data[offset+4 : offset+6])
	style.CharShapeID = binary.LittleEndian.Uint16(data[offset+6 : offset+8])
	return style, true
}

// IsItalic returns true if the character shape is italic (bit 0).
func (cs CharShape) IsItalic() bool {
	return cs.Attributes&0x01 != 0
}

// IsBold returns true if the character shape is bold (bit 1).
func (cs CharShape) IsBold() bool {
	return cs.Attributes&0x02 != 0
}

// FontSizePt returns the font size in points.
func (cs CharShape) FontSizePt() float64 {
	return float64(cs.Height) / 100.0
}

// Alignment returns the alignment code, bits 2-4 of the attributes.
func (ps ParaShape) Alignment() uint8 {
	return uint8((ps.Attributes >> 2) & 0x07)
}
