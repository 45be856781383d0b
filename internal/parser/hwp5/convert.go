package hwp5

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// Diagnostic lists the tag ids a section contained that conversion did not
// interpret. It is informational; conversion still succeeds. Section is the
// N of the BodyText/SectionN stream.
type Diagnostic struct {
	Section int          `json:"section"`
	Skipped []SkippedTag `json:"skipped"`
}

// SkippedTag counts occurrences of one uninterpreted tag id.
type SkippedTag struct {
	TagID uint16 `json:"tag_id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (d Diagnostic) String() string {
	parts := make([]string, len(d.Skipped))
	for i, s := range d.Skipped {
		if _, named := tagNames[s.TagID]; named {
			parts[i] = fmt.Sprintf("%s(0x%04X)x%d", s.Name, s.TagID, s.Count)
		} else {
			// TagName이 이미 번호를 포함
			parts[i] = fmt.Sprintf("%sx%d", s.Name, s.Count)
		}
	}
	return fmt.Sprintf("section %d: skipped tag ids %s", d.Section, strings.Join(parts, ", "))
}

// 변환 중 해석하는 태그
var convertedTags = map[uint16]bool{
	TagParaHeader:    true,
	TagParaText:      true,
	TagParaCharShape: true,
	TagCtrlHeader:    true,
	TagListHeader:    true,
	TagTable:         true,
}

type convertMode int

const (
	modeScanning convertMode = iota
	modeInTable
)

// tableState는 표 모드에서 누적되는 셀 정보
type tableState struct {
	base    uint16
	rows    uint16
	cols    uint16
	hasInfo bool
	cells   []string
	cell    *strings.Builder
}

// pendingPara는 아직 내보내지 않은 본문 문단
type pendingPara struct {
	text        string
	paraShapeID uint32
	charShapeID uint32
}

type converter struct {
	info    *DocInfo
	out     *ir.Section
	mode    convertMode
	table   tableState
	para    *pendingPara
	skipped map[uint16]int
}

// ConvertSection turns one section's flat record stream into IR content.
// Paragraphs carry their resolved style. A "tbl " control opens table mode
// at the control's level: list headers one level deeper start cells, deeper
// paragraph text fills them, and the first record at or above the control's
// level (other than the TABLE record) closes the table.
//
// The returned section is not yet attached to a document, and the
// diagnostic's Section is left for the caller to set.
func ConvertSection(records []Record, info *DocInfo) (*ir.Section, Diagnostic) {
	c := &converter{
		info:    info,
		out:     &ir.Section{Content: make([]ir.Block, 0)},
		skipped: make(map[uint16]int),
	}
	for _, rec := range records {
		if !convertedTags[rec.TagID] {
			c.skipped[rec.TagID]++
		}
		c.handle(rec)
	}
	if c.mode == modeInTable {
		c.closeTable()
	}
	c.flushParagraph()

	return c.out, c.diagnostic()
}

func (c *converter) handle(rec Record) {
	if c.mode == modeInTable {
		if c.tableRecord(rec) {
			return
		}
		c.closeTable()
	}
	c.scanRecord(rec)
}

func (c *converter) scanRecord(rec Record) {
	switch rec.TagID {
	case TagParaHeader:
		c.flushParagraph()
		c.para = &pendingPara{paraShapeID: parseParaShapeID(rec.Data)}

	case TagParaText:
		if c.para != nil {
			c.para.text = DecodeParaText(rec.Data)
		}

	case TagParaCharShape:
		if c.para != nil {
			if ranges := parseCharShapeRanges(rec.Data); len(ranges) > 0 {
				c.para.charShapeID = ranges[0].CharShapeID
			}
		}

	case TagCtrlHeader:
		if id, ok := parseCtrlID(rec.Data); ok && id == CtrlTable {
			// 표를 포함한 문단을 먼저 내보낸다
			c.flushParagraph()
			c.mode = modeInTable
			c.table = tableState{base: rec.Level}
		}
	}
}

// tableRecord consumes rec while in table mode. It returns false when rec
// closes the table and must be handled again in scanning mode.
func (c *converter) tableRecord(rec Record) bool {
	t := &c.table
	if rec.TagID == TagTable {
		if !t.hasInfo {
			if info, ok := parseTableRecord(rec.Data); ok {
				t.rows, t.cols, t.hasInfo = info.Rows, info.Cols, true
			}
		}
		return true
	}
	if rec.Level <= t.base {
		return false
	}

	switch {
	case rec.TagID == TagListHeader && rec.Level == t.base+1:
		t.flushCell()
		t.cell = &strings.Builder{}
	case rec.TagID == TagParaText && t.cell != nil:
		text := strings.TrimRight(DecodeParaText(rec.Data), "\n")
		if t.cell.Len() > 0 {
			t.cell.WriteString("\n")
		}
		t.cell.WriteString(text)
	}
	return true
}

func (t *tableState) flushCell() {
	if t.cell != nil {
		t.cells = append(t.cells, strings.TrimSpace(t.cell.String()))
		t.cell = nil
	}
}

func (c *converter) closeTable() {
	c.table.flushCell()
	c.out.AddTable(ir.NewTableFromCells(c.table.cells, int(c.table.cols)))
	c.mode = modeScanning
	c.table = tableState{}
}

func (c *converter) flushParagraph() {
	if c.para == nil {
		return
	}
	p := ir.NewParagraph(strings.TrimSuffix(c.para.text, "\n"))
	if style := ResolveStyle(c.info, c.para.paraShapeID, c.para.charShapeID); !style.IsZero() {
		p.Style = &style
	}
	c.out.AddParagraph(p)
	c.para = nil
}

func (c *converter) diagnostic() Diagnostic {
	var d Diagnostic
	for id, n := range c.skipped {
		d.Skipped = append(d.Skipped, SkippedTag{TagID: id, Name: TagName(id), Count: n})
	}
	sort.Slice(d.Skipped, func(i, j int) bool {
		return d.Skipped[i].TagID < d.Skipped[j].TagID
	})
	return d
}
