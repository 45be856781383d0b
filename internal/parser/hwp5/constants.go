// Package hwp5 decodes HWP 5.x binary documents.
package hwp5

import "fmt"

// 참조: 한글문서파일형식 5.0 revision 1.3

const (
	Signature      = "HWP Document File"
	FileHeaderSize = 256

	// 문단 모양이 없을 때의 줄 간격 (%)
	DefaultLineSpacing uint32 = 160
)

// FileHeader 속성 비트
const (
	FlagCompressed uint32 = 1 << iota
	FlagEncrypted
	FlagDistributable
	FlagScript
	FlagDRM
	FlagXMLTemplate
	FlagHistory
	FlagSignature
	FlagCertEncrypt
	_ // 전자 서명 예비
	FlagCertDRM
	FlagCCL
)

const (
	StreamFileHeader = "FileHeader"
	StreamDocInfo    = "DocInfo"
	StreamBodyText   = "BodyText"

	// BodyText/Section0, BodyText/Section1, ...
	sectionPrefix = "Section"
)

// 태그 번호는 HWPTAG_BEGIN(0x10) 기준 오프셋으로 정의된다.
const tagBegin uint16 = 0x10

// DocInfo 태그
const (
	TagDocumentProperties = tagBegin + 0
	TagIDMappings         = tagBegin + 1
	TagBinData            = tagBegin + 2
	TagFaceName           = tagBegin + 3
	TagBorderFill         = tagBegin + 4
	TagCharShape          = tagBegin + 5
	TagTabDef             = tagBegin + 6
	TagNumbering          = tagBegin + 7
	TagBullet             = tagBegin + 8
	TagParaShape          = tagBegin + 9
	TagStyle              = tagBegin + 10
	TagDocData            = tagBegin + 11
	TagDistributeDocData  = tagBegin + 12
	TagCompatibleDocument = tagBegin + 14
	TagLayoutCompatible   = tagBegin + 15
	TagTrackChange        = tagBegin + 16
	TagMemoShape          = tagBegin + 18
	TagForbiddenChar      = tagBegin + 19
)

// BodyText 태그
const (
	TagParaHeader     = tagBegin + 50
	TagParaText       = tagBegin + 51
	TagParaCharShape  = tagBegin + 52
	TagParaLineSeg    = tagBegin + 53
	TagParaRangeTag   = tagBegin + 54
	TagCtrlHeader     = tagBegin + 55
	TagListHeader     = tagBegin + 56
	TagPageDef        = tagBegin + 57
	TagFootnoteShape  = tagBegin + 58
	TagPageBorderFill = tagBegin + 59
	TagShapeComponent = tagBegin + 60
	TagTable          = tagBegin + 61
	TagShapeLine      = tagBegin + 62
	TagShapeRectangle = tagBegin + 63
	TagShapeEllipse   = tagBegin + 64
	TagShapeArc       = tagBegin + 65
	TagShapePolygon   = tagBegin + 66
	TagShapeCurve     = tagBegin + 67
	TagShapeOLE       = tagBegin + 68
	TagShapePicture   = tagBegin + 69
	TagShapeContainer = tagBegin + 70
	TagCtrlData       = tagBegin + 71
	TagEqEdit         = tagBegin + 72
	TagCtrlFormField  = tagBegin + 75
	TagMemoList       = tagBegin + 76
	TagChartData      = tagBegin + 80
	TagVideoData      = tagBegin + 82
)

// 컨트롤 ID는 CTRL_HEADER 첫 4바이트를 뒤집은 문자열이다.
const (
	CtrlSection = "secd"
	CtrlTable   = "tbl "
)

var tagNames = map[uint16]string{
	TagDocumentProperties: "DOCUMENT_PROPERTIES",
	TagIDMappings:         "ID_MAPPINGS",
	TagBinData:            "BIN_DATA",
	TagFaceName:           "FACE_NAME",
	TagBorderFill:         "BORDER_FILL",
	TagCharShape:          "CHAR_SHAPE",
	TagTabDef:             "TAB_DEF",
	TagNumbering:          "NUMBERING",
	TagBullet:             "BULLET",
	TagParaShape:          "PARA_SHAPE",
	TagStyle:              "STYLE",
	TagDocData:            "DOC_DATA",
	TagDistributeDocData:  "DISTRIBUTE_DOC_DATA",
	TagCompatibleDocument: "COMPATIBLE_DOCUMENT",
	TagLayoutCompatible:   "LAYOUT_COMPATIBILITY",
	TagTrackChange:        "TRACK_CHANGE",
	TagMemoShape:          "MEMO_SHAPE",
	TagForbiddenChar:      "FORBIDDEN_CHAR",
	TagParaHeader:         "PARA_HEADER",
	TagParaText:           "PARA_TEXT",
	TagParaCharShape:      "PARA_CHAR_SHAPE",
	TagParaLineSeg:        "PARA_LINE_SEG",
	TagParaRangeTag:       "PARA_RANGE_TAG",
	TagCtrlHeader:         "CTRL_HEADER",
	TagListHeader:         "LIST_HEADER",
	TagPageDef:            "PAGE_DEF",
	TagFootnoteShape:      "FOOTNOTE_SHAPE",
	TagPageBorderFill:     "PAGE_BORDER_FILL",
	TagShapeComponent:     "SHAPE_COMPONENT",
	TagTable:              "TABLE",
	TagShapeLine:          "SHAPE_LINE",
	TagShapeRectangle:     "SHAPE_RECTANGLE",
	TagShapeEllipse:       "SHAPE_ELLIPSE",
	TagShapeArc:           "SHAPE_ARC",
	TagShapePolygon:       "SHAPE_POLYGON",
	TagShapeCurve:         "SHAPE_CURVE",
	TagShapeOLE:           "SHAPE_OLE",
	TagShapePicture:       "SHAPE_PICTURE",
	TagShapeContainer:     "SHAPE_CONTAINER",
	TagCtrlData:           "CTRL_DATA",
	TagEqEdit:             "EQEDIT",
	TagCtrlFormField:      "FORM_OBJECT",
	TagMemoList:           "MEMO_LIST",
	TagChartData:          "CHART_DATA",
	TagVideoData:          "VIDEO_DATA",
}

// TagName returns the record name used in diagnostics, or UNKNOWN(0x....).
func TagName(tagID uint16) string {
	if name, ok := tagNames[tagID]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%04X)", tagID)
}
