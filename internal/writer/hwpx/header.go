package hwpx

import (
	"encoding/xml"
)

// fontLangs are the script groups every fontface list and fontRef covers.
var fontLangs = []string{"HANGUL", "LATIN", "HANJA", "JAPANESE", "OTHER", "SYMBOL", "USER"}

type headXML struct {
	XMLName  xml.Name    `xml:"hh:head"`
	NSHH     string      `xml:"xmlns:hh,attr"`
	NSHC     string      `xml:"xmlns:hc,attr"`
	Version  string      `xml:"version,attr"`
	SecCnt   int         `xml:"secCnt,attr"`
	BeginNum beginNumXML `xml:"hh:beginNum"`
	RefList  refListXML  `xml:"hh:refList"`
}

type beginNumXML struct {
	Page     int `xml:"page,attr"`
	Footnote int `xml:"footnote,attr"`
	Endnote  int `xml:"endnote,attr"`
	Pic      int `xml:"pic,attr"`
	Tbl      int `xml:"tbl,attr"`
	Equation int `xml:"equation,attr"`
}

type refListXML struct {
	FontFaces      fontFacesXML      `xml:"hh:fontfaces"`
	BorderFills    borderFillsXML    `xml:"hh:borderFills"`
	CharProperties charPropertiesXML `xml:"hh:charProperties"`
	TabProperties  tabPropertiesXML  `xml:"hh:tabProperties"`
	ParaProperties paraPropertiesXML `xml:"hh:paraProperties"`
	Styles         stylesXML         `xml:"hh:styles"`
}

type fontFacesXML struct {
	ItemCnt   int           `xml:"itemCnt,attr"`
	FontFaces []fontFaceXML `xml:"hh:fontface"`
}

type fontFaceXML struct {
	Lang    string    `xml:"lang,attr"`
	FontCnt int       `xml:"fontCnt,attr"`
	Fonts   []fontXML `xml:"hh:font"`
}

type fontXML struct {
	ID         int    `xml:"id,attr"`
	Face       string `xml:"face,attr"`
	Type       string `xml:"type,attr"`
	IsEmbedded int    `xml:"isEmbedded,attr"`
}

type borderFillsXML struct {
	ItemCnt     int             `xml:"itemCnt,attr"`
	BorderFills []borderFillXML `xml:"hh:borderFill"`
}

type borderFillXML struct {
	ID                    int       `xml:"id,attr"`
	ThreeD                int       `xml:"threeD,attr"`
	Shadow                int       `xml:"shadow,attr"`
	CenterLine            string    `xml:"centerLine,attr"`
	BreakCellSeparateLine int       `xml:"breakCellSeparateLine,attr"`
	Left                  borderXML `xml:"hh:leftBorder"`
	Right                 borderXML `xml:"hh:rightBorder"`
	Top                   borderXML `xml:"hh:topBorder"`
	Bottom                borderXML `xml:"hh:bottomBorder"`
}

type borderXML struct {
	Type  string `xml:"type,attr"`
	Width string `xml:"width,attr"`
	Color string `xml:"color,attr"`
}

type charPropertiesXML struct {
	ItemCnt int         `xml:"itemCnt,attr"`
	CharPrs []charPrXML `xml:"hh:charPr"`
}

type charPrXML struct {
	ID              int           `xml:"id,attr"`
	Height          int           `xml:"height,attr"`
	TextColor       string        `xml:"textColor,attr"`
	ShadeColor      string        `xml:"shadeColor,attr"`
	UseFontSpace    int           `xml:"useFontSpace,attr"`
	UseKerning      int           `xml:"useKerning,attr"`
	SymMark         string        `xml:"symMark,attr"`
	BorderFillIDRef int           `xml:"borderFillIDRef,attr"`
	FontRef         langValuesXML `xml:"hh:fontRef"`
	Ratio           langValuesXML `xml:"hh:ratio"`
	Spacing         langValuesXML `xml:"hh:spacing"`
	RelSz           langValuesXML `xml:"hh:relSz"`
	Offset          langValuesXML `xml:"hh:offset"`
	Bold            *struct{}     `xml:"hh:bold"`
	Italic          *struct{}     `xml:"hh:italic"`
	Underline       underlineXML  `xml:"hh:underline"`
}

// langValuesXML carries one value per script group.
type langValuesXML struct {
	Hangul   int `xml:"hangul,attr"`
	Latin    int `xml:"latin,attr"`
	Hanja    int `xml:"hanja,attr"`
	Japanese int `xml:"japanese,attr"`
	Other    int `xml:"other,attr"`
	Symbol   int `xml:"symbol,attr"`
	User     int `xml:"user,attr"`
}

func allLangs(v int) langValuesXML {
	return langValuesXML{v, v, v, v, v, v, v}
}

type underlineXML struct {
	Type  string `xml:"type,attr"`
	Shape string `xml:"shape,attr"`
	Color string `xml:"color,attr"`
}

type tabPropertiesXML struct {
	ItemCnt int        `xml:"itemCnt,attr"`
	TabPrs  []tabPrXML `xml:"hh:tabPr"`
}

type tabPrXML struct {
	ID           int `xml:"id,attr"`
	AutoTabLeft  int `xml:"autoTabLeft,attr"`
	AutoTabRight int `xml:"autoTabRight,attr"`
}

type paraPropertiesXML struct {
	ItemCnt int         `xml:"itemCnt,attr"`
	ParaPrs []paraPrXML `xml:"hh:paraPr"`
}

type paraPrXML struct {
	ID                 int             `xml:"id,attr"`
	TabPrIDRef         int             `xml:"tabPrIDRef,attr"`
	Condense           int             `xml:"condense,attr"`
	FontLineHeight     int             `xml:"fontLineHeight,attr"`
	SnapToGrid         int             `xml:"snapToGrid,attr"`
	SuppressLineNumber int             `xml:"suppressLineNumbers,attr"`
	Checked            int             `xml:"checked,attr"`
	Align              alignXML        `xml:"hh:align"`
	Heading            headingXML      `xml:"hh:heading"`
	BreakSetting       breakSettingXML `xml:"hh:breakSetting"`
	LineSpacing        lineSpacingXML  `xml:"hh:lineSpacing"`
	Border             paraBorderXML   `xml:"hh:border"`
}

type alignXML struct {
	Horizontal string `xml:"horizontal,attr"`
	Vertical   string `xml:"vertical,attr"`
}

type headingXML struct {
	Type  string `xml:"type,attr"`
	IDRef int    `xml:"idRef,attr"`
	Level int    `xml:"level,attr"`
}

type breakSettingXML struct {
	BreakLatinWord    string `xml:"breakLatinWord,attr"`
	BreakNonLatinWord string `xml:"breakNonLatinWord,attr"`
	WidowOrphan       int    `xml:"widowOrphan,attr"`
	KeepWithNext      int    `xml:"keepWithNext,attr"`
	KeepLines         int    `xml:"keepLines,attr"`
	PageBreakBefore   int    `xml:"pageBreakBefore,attr"`
	LineWrap          string `xml:"lineWrap,attr"`
}

type lineSpacingXML struct {
	Type  string `xml:"type,attr"`
	Value uint32 `xml:"value,attr"`
	Unit  string `xml:"unit,attr"`
}

type paraBorderXML struct {
	BorderFillIDRef int `xml:"borderFillIDRef,attr"`
	OffsetLeft      int `xml:"offsetLeft,attr"`
	OffsetRight     int `xml:"offsetRight,attr"`
	OffsetTop       int `xml:"offsetTop,attr"`
	OffsetBottom    int `xml:"offsetBottom,attr"`
	Connect         int `xml:"connect,attr"`
	IgnoreMargin    int `xml:"ignoreMargin,attr"`
}

type stylesXML struct {
	ItemCnt int        `xml:"itemCnt,attr"`
	Styles  []styleXML `xml:"hh:style"`
}

type styleXML struct {
	ID             int    `xml:"id,attr"`
	Type           string `xml:"type,attr"`
	Name           string `xml:"name,attr"`
	EngName        string `xml:"engName,attr"`
	ParaPrIDRef    int    `xml:"paraPrIDRef,attr"`
	CharPrIDRef    int    `xml:"charPrIDRef,attr"`
	NextStyleIDRef int    `xml:"nextStyleIDRef,attr"`
	LangID         int    `xml:"langID,attr"`
	LockForm       int    `xml:"lockForm,attr"`
}

// Border fill ids referenced from charPr, paraPr and table cells.
const (
	borderFillNone  = 1
	borderFillSolid = 2
)

func borderFill(id int, kind string) borderFillXML {
	b := borderXML{Type: kind, Width: "0.12 mm", Color: "#000000"}
	return borderFillXML{
		ID:         id,
		CenterLine: "NONE",
		Left:       b,
		Right:      b,
		Top:        b,
		Bottom:     b,
	}
}

// buildHeader turns the catalogue collected while writing the sections
// into the header part.
func buildHeader(c *catalogue, sections int) *headXML {
	h := &headXML{
		NSHH:     nsHead,
		NSHC:     nsCore,
		Version:  "1.4",
		SecCnt:   sections,
		BeginNum: beginNumXML{1, 1, 1, 1, 1, 1},
	}

	fonts := make([]fontXML, len(c.fonts))
	for i, face := range c.fonts {
		fonts[i] = fontXML{ID: i, Face: face, Type: "TTF"}
	}
	for _, lang := range fontLangs {
		h.RefList.FontFaces.FontFaces = append(h.RefList.FontFaces.FontFaces, fontFaceXML{
			Lang:    lang,
			FontCnt: len(fonts),
			Fonts:   fonts,
		})
	}
	h.RefList.FontFaces.ItemCnt = len(fontLangs)

	h.RefList.BorderFills.BorderFills = []borderFillXML{
		borderFill(borderFillNone, "NONE"),
		borderFill(borderFillSolid, "SOLID"),
	}
	h.RefList.BorderFills.ItemCnt = 2

	for i, k := range c.chars {
		pr := charPrXML{
			ID:              i,
			Height:          k.height,
			TextColor:       k.color,
			ShadeColor:      "none",
			SymMark:         "NONE",
			BorderFillIDRef: borderFillNone,
			FontRef:         allLangs(c.fontIDs[k.font]),
			Ratio:           allLangs(100),
			Spacing:         allLangs(0),
			RelSz:           allLangs(100),
			Offset:          allLangs(0),
			Underline:       underlineXML{Type: "NONE", Shape: "SOLID", Color: "#000000"},
		}
		if k.bold {
			pr.Bold = &struct{}{}
		}
		if k.italic {
			pr.Italic = &struct{}{}
		}
		h.RefList.CharProperties.CharPrs = append(h.RefList.CharProperties.CharPrs, pr)
	}
	h.RefList.CharProperties.ItemCnt = len(c.chars)

	h.RefList.TabProperties = tabPropertiesXML{ItemCnt: 1, TabPrs: []tabPrXML{{ID: 0}}}

	for i, k := range c.paras {
		h.RefList.ParaProperties.ParaPrs = append(h.RefList.ParaProperties.ParaPrs, paraPrXML{
			ID:         i,
			SnapToGrid: 1,
			Align:      alignXML{Horizontal: k.align, Vertical: "BASELINE"},
			Heading:    headingXML{Type: "NONE"},
			BreakSetting: breakSettingXML{
				BreakLatinWord:    "KEEP_WORD",
				BreakNonLatinWord: "KEEP_WORD",
				LineWrap:          "BREAK",
			},
			LineSpacing: lineSpacingXML{Type: "PERCENT", Value: k.lineSpacing, Unit: "HWPUNIT"},
			Border:      paraBorderXML{BorderFillIDRef: borderFillNone},
		})
	}
	h.RefList.ParaProperties.ItemCnt = len(c.paras)

	h.RefList.Styles = stylesXML{ItemCnt: 1, Styles: []styleXML{{
		Type:    "PARA",
		Name:    "바탕글",
		EngName: "Normal",
		LangID:  1042,
	}}}

	return h
}
