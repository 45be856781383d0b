package hwpx

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// A4 portrait page in HWPUNIT (1/7200 inch) with Hangul's default margins.
const (
	pageWidth   = 59528
	pageHeight  = 84186
	marginLeft  = 8504
	marginRight = 8504
	textWidth   = pageWidth - marginLeft - marginRight
	cellHeight  = 1000
)

type sectionXML struct {
	XMLName xml.Name  `xml:"hs:sec"`
	NSHS    string    `xml:"xmlns:hs,attr"`
	NSHP    string    `xml:"xmlns:hp,attr"`
	Paras   []paraXML `xml:"hp:p"`
}

type paraXML struct {
	ID          string   `xml:"id,attr"`
	ParaPrIDRef int      `xml:"paraPrIDRef,attr"`
	StyleIDRef  int      `xml:"styleIDRef,attr"`
	PageBreak   int      `xml:"pageBreak,attr"`
	ColumnBreak int      `xml:"columnBreak,attr"`
	Merged      int      `xml:"merged,attr"`
	Runs        []runXML `xml:"hp:run"`
}

type runXML struct {
	CharPrIDRef int       `xml:"charPrIDRef,attr"`
	SecPr       *secPrXML `xml:"hp:secPr"`
	Table       *tableXML `xml:"hp:tbl"`
	Text        *textXML  `xml:"hp:t"`
}

// textXML holds pre-escaped run content so line breaks and tabs can be
// written as the inline elements Hangul expects.
type textXML struct {
	Inner string `xml:",innerxml"`
}

type secPrXML struct {
	TextDirection string    `xml:"textDirection,attr"`
	SpaceColumns  int       `xml:"spaceColumns,attr"`
	TabStop       int       `xml:"tabStop,attr"`
	OutlineShape  int       `xml:"outlineShapeIDRef,attr"`
	PagePr        pagePrXML `xml:"hp:pagePr"`
}

type pagePrXML struct {
	Landscape  string    `xml:"landscape,attr"`
	Width      int       `xml:"width,attr"`
	Height     int       `xml:"height,attr"`
	GutterType string    `xml:"gutterType,attr"`
	Margin     marginXML `xml:"hp:margin"`
}

type marginXML struct {
	Header int `xml:"header,attr"`
	Footer int `xml:"footer,attr"`
	Gutter int `xml:"gutter,attr"`
	Left   int `xml:"left,attr"`
	Right  int `xml:"right,attr"`
	Top    int `xml:"top,attr"`
	Bottom int `xml:"bottom,attr"`
}

type tableXML struct {
	ID              string   `xml:"id,attr"`
	RowCnt          int      `xml:"rowCnt,attr"`
	ColCnt          int      `xml:"colCnt,attr"`
	CellSpacing     int      `xml:"cellSpacing,attr"`
	BorderFillIDRef int      `xml:"borderFillIDRef,attr"`
	Rows            []rowXML `xml:"hp:tr"`
}

type rowXML struct {
	Cells []cellXML `xml:"hp:tc"`
}

type cellXML struct {
	Name            string      `xml:"name,attr"`
	Header          int         `xml:"header,attr"`
	HasMargin       int         `xml:"hasMargin,attr"`
	Protect         int         `xml:"protect,attr"`
	Editable        int         `xml:"editable,attr"`
	BorderFillIDRef int         `xml:"borderFillIDRef,attr"`
	SubList         subListXML  `xml:"hp:subList"`
	Addr            cellAddrXML `xml:"hp:cellAddr"`
	Span            cellSpanXML `xml:"hp:cellSpan"`
	Size            cellSzXML   `xml:"hp:cellSz"`
}

type subListXML struct {
	TextDirection string    `xml:"textDirection,attr"`
	LineWrap      string    `xml:"lineWrap,attr"`
	VertAlign     string    `xml:"vertAlign,attr"`
	Paras         []paraXML `xml:"hp:p"`
}

type cellAddrXML struct {
	ColAddr int `xml:"colAddr,attr"`
	RowAddr int `xml:"rowAddr,attr"`
}

type cellSpanXML struct {
	ColSpan int `xml:"colSpan,attr"`
	RowSpan int `xml:"rowSpan,attr"`
}

type cellSzXML struct {
	Width  int `xml:"width,attr"`
	Height int `xml:"height,attr"`
}

func defaultSecPr() *secPrXML {
	return &secPrXML{
		TextDirection: "HORIZONTAL",
		SpaceColumns:  1134,
		TabStop:       8000,
		OutlineShape:  1,
		PagePr: pagePrXML{
			Landscape:  "WIDELY",
			Width:      pageWidth,
			Height:     pageHeight,
			GutterType: "LEFT_ONLY",
			Margin: marginXML{
				Header: 4252,
				Footer: 4252,
				Left:   marginLeft,
				Right:  marginRight,
				Top:    5668,
				Bottom: 4252,
			},
		},
	}
}

// sectionBuilder converts one ir.Section, registering every style it uses
// in the shared catalogue.
type sectionBuilder struct {
	cat    *catalogue
	nextID int
	tables int
}

func (b *sectionBuilder) id() string {
	id := strconv.Itoa(b.nextID)
	b.nextID++
	return id
}

func (b *sectionBuilder) build(s *ir.Section) *sectionXML {
	out := &sectionXML{NSHS: nsSection, NSHP: nsPara}

	for _, block := range s.Content {
		switch block.Type {
		case ir.BlockTypeParagraph:
			if block.Paragraph != nil {
				out.Paras = append(out.Paras, b.paragraph(block.Paragraph.Text, block.Paragraph.Style))
			}
		case ir.BlockTypeTable:
			if block.Table != nil {
				out.Paras = append(out.Paras, b.tableParagraph(block.Table))
			}
		}
	}

	// 구역 설정은 첫 문단의 첫 런에 둔다
	if len(out.Paras) == 0 {
		out.Paras = append(out.Paras, b.paragraph("", nil))
	}
	first := &out.Paras[0]
	secRun := runXML{CharPrIDRef: first.Runs[0].CharPrIDRef, SecPr: defaultSecPr()}
	first.Runs = append([]runXML{secRun}, first.Runs...)

	return out
}

func (b *sectionBuilder) paragraph(text string, style *ir.Style) paraXML {
	charID, paraID := b.cat.ids(style)
	run := runXML{CharPrIDRef: charID}
	if text != "" {
		run.Text = &textXML{Inner: escapeRunText(text)}
	}
	return paraXML{
		ID:          b.id(),
		ParaPrIDRef: paraID,
		Runs:        []runXML{run},
	}
}

// tableParagraph wraps a table in the anchor paragraph HWPX requires.
func (b *sectionBuilder) tableParagraph(t *ir.TableBlock) paraXML {
	p := b.paragraph("", nil)
	p.Runs[0].Table = b.table(t)
	return p
}

func (b *sectionBuilder) table(t *ir.TableBlock) *tableXML {
	cols := t.Width()
	rows := len(t.Cells)
	b.tables++

	tbl := &tableXML{
		ID:              strconv.Itoa(b.tables),
		RowCnt:          rows,
		ColCnt:          cols,
		BorderFillIDRef: borderFillSolid,
	}
	if cols == 0 {
		return tbl
	}
	colWidth := textWidth / cols

	// 병합으로 가려진 칸
	covered := make(map[[2]int]bool)

	for r := 0; r < rows; r++ {
		var row rowXML
		for c := 0; c < cols; c++ {
			if covered[[2]int{r, c}] {
				continue
			}
			cell := ir.Cell{RowSpan: 1, ColSpan: 1}
			if got := t.GetCell(r, c); got != nil {
				cell = *got
			}
			colSpan := clamp(cell.ColSpan, cols-c)
			rowSpan := clamp(cell.RowSpan, rows-r)
			for dr := 0; dr < rowSpan; dr++ {
				for dc := 0; dc < colSpan; dc++ {
					if dr != 0 || dc != 0 {
						covered[[2]int{r + dr, c + dc}] = true
					}
				}
			}

			header := 0
			if t.HasHeader && r == 0 {
				header = 1
			}
			row.Cells = append(row.Cells, cellXML{
				Header:          header,
				BorderFillIDRef: borderFillSolid,
				SubList: subListXML{
					TextDirection: "HORIZONTAL",
					LineWrap:      "BREAK",
					VertAlign:     "CENTER",
					Paras:         b.cellParagraphs(cell.Text),
				},
				Addr: cellAddrXML{ColAddr: c, RowAddr: r},
				Span: cellSpanXML{ColSpan: colSpan, RowSpan: rowSpan},
				Size: cellSzXML{Width: colWidth * colSpan, Height: cellHeight * rowSpan},
			})
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl
}

// cellParagraphs writes each line of a cell as its own paragraph.
func (b *sectionBuilder) cellParagraphs(text string) []paraXML {
	lines := strings.Split(text, "\n")
	paras := make([]paraXML, 0, len(lines))
	for _, line := range lines {
		paras = append(paras, b.paragraph(line, nil))
	}
	return paras
}

func clamp(span, limit int) int {
	if span < 1 {
		return 1
	}
	return min(span, limit)
}

// escapeRunText escapes text for an <hp:t> element, turning line breaks
// and tabs into inline elements.
func escapeRunText(s string) string {
	var buf bytes.Buffer
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			buf.WriteString("<hp:lineBreak/>")
		}
		for j, part := range strings.Split(line, "\t") {
			if j > 0 {
				buf.WriteString("<hp:tab/>")
			}
			xml.EscapeText(&buf, []byte(part))
		}
	}
	return buf.String()
}
