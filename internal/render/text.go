package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// Text renders doc as plain text. Tables are drawn as ASCII grids sized by
// display width, so Hangul cells line up in a terminal.
func Text(doc *ir.Document) string {
	var sb strings.Builder

	if doc.Metadata.Title != "" {
		sb.WriteString(fmt.Sprintf("제목: %s\n", doc.Metadata.Title))
	}
	if doc.Metadata.Author != "" {
		sb.WriteString(fmt.Sprintf("작성자: %s\n", doc.Metadata.Author))
	}
	if sb.Len() > 0 {
		sb.WriteString("\n---\n\n")
	}

	for _, block := range doc.Blocks() {
		switch block.Type {
		case ir.BlockTypeParagraph:
			if block.Paragraph != nil {
				sb.WriteString(block.Paragraph.Text)
				sb.WriteString("\n\n")
			}
		case ir.BlockTypeTable:
			if block.Table != nil {
				sb.WriteString(Grid(block.Table))
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}

// gridCell is a table cell placed on the grid.
type gridCell struct {
	row, col         int
	rowSpan, colSpan int
	lines            []string
}

// gridLayout is the computed layout of a table: which cell owns each grid
// position, and the width and height of each column and row.
type gridLayout struct {
	rows, cols int
	cells      []*gridCell
	owner      [][]*gridCell
	colWidths  []int
	rowHeights []int
}

// Grid draws t as an ASCII table. Spanned cells are drawn merged.
func Grid(t *ir.TableBlock) string {
	l := newGridLayout(t)
	if l.rows == 0 || l.cols == 0 {
		return ""
	}
	return l.render()
}

func newGridLayout(t *ir.TableBlock) *gridLayout {
	l := &gridLayout{rows: len(t.Cells), cols: t.Width()}
	l.owner = make([][]*gridCell, l.rows)
	for r := range l.owner {
		l.owner[r] = make([]*gridCell, l.cols)
	}

	for r := 0; r < l.rows; r++ {
		for c := 0; c < l.cols; c++ {
			if l.owner[r][c] != nil {
				continue
			}
			cell := &gridCell{row: r, col: c, rowSpan: 1, colSpan: 1}
			if src := t.GetCell(r, c); src != nil {
				cell.lines = strings.Split(src.Text, "\n")
				cell.rowSpan = max(1, min(src.RowSpan, l.rows-r))
				cell.colSpan = max(1, min(src.ColSpan, l.cols-c))
			}
			for dr := 0; dr < cell.rowSpan; dr++ {
				for dc := 0; dc < cell.colSpan; dc++ {
					if l.owner[r+dr][c+dc] == nil {
						l.owner[r+dr][c+dc] = cell
					}
				}
			}
			l.cells = append(l.cells, cell)
		}
	}

	l.computeColWidths()
	l.computeRowHeights()
	return l
}

func (l *gridLayout) computeColWidths() {
	l.colWidths = make([]int, l.cols)
	for i := range l.colWidths {
		l.colWidths[i] = 1
	}

	// 단일 칸 셀이 기본 너비를 정한다
	for _, cell := range l.cells {
		if cell.colSpan == 1 {
			l.colWidths[cell.col] = max(l.colWidths[cell.col], linesWidth(cell.lines))
		}
	}

	// 병합 셀에 필요한 너비를 나눠 준다
	for _, cell := range l.cells {
		if cell.colSpan == 1 {
			continue
		}
		total := (cell.colSpan - 1) * 3
		for c := 0; c < cell.colSpan; c++ {
			total += l.colWidths[cell.col+c]
		}
		if need := linesWidth(cell.lines); need > total {
			extra := need - total
			for c := 0; c < cell.colSpan; c++ {
				l.colWidths[cell.col+c] += extra / cell.colSpan
				if c < extra%cell.colSpan {
					l.colWidths[cell.col+c]++
				}
			}
		}
	}
}

func (l *gridLayout) computeRowHeights() {
	l.rowHeights = make([]int, l.rows)
	for r := range l.rowHeights {
		l.rowHeights[r] = 1
	}
	for _, cell := range l.cells {
		l.rowHeights[cell.row] = max(l.rowHeights[cell.row], len(cell.lines))
	}
}

func (l *gridLayout) render() string {
	var sb strings.Builder

	sb.WriteString(l.borderLine(-1))
	for r := 0; r < l.rows; r++ {
		for line := 0; line < l.rowHeights[r]; line++ {
			sb.WriteString(l.contentLine(r, line))
		}
		sb.WriteString(l.borderLine(r))
	}
	return sb.String()
}

// borderLine draws the border below row r; -1 is the top border.
func (l *gridLayout) borderLine(r int) string {
	var sb strings.Builder
	sb.WriteString("+")
	for c := 0; c < l.cols; c++ {
		fill := "-"
		if r >= 0 && r < l.rows-1 && l.owner[r][c] == l.owner[r+1][c] {
			fill = " "
		}
		sb.WriteString(strings.Repeat(fill, l.colWidths[c]+2))
		if c < l.cols-1 {
			sb.WriteString(l.joint(r, c))
		}
	}
	sb.WriteString("+\n")
	return sb.String()
}

// joint picks the character between columns c and c+1 on the border below
// row r: a corner wherever a vertical line meets it.
func (l *gridLayout) joint(r, c int) string {
	above := r >= 0 && l.owner[r][c] != l.owner[r][c+1]
	below := r < l.rows-1 && l.owner[r+1][c] != l.owner[r+1][c+1]
	if above || below {
		return "+"
	}
	return "-"
}

func (l *gridLayout) contentLine(r, line int) string {
	var sb strings.Builder
	sb.WriteString("|")

	for c := 0; c < l.cols; {
		cell := l.owner[r][c]
		width := (cell.colSpan - 1) * 3
		for dc := 0; dc < cell.colSpan; dc++ {
			width += l.colWidths[c+dc]
		}

		// 세로 병합 셀은 첫 행에만 글자를 쓴다
		text := ""
		if cell.row == r && line < len(cell.lines) {
			text = cell.lines[line]
		}
		sb.WriteString(" ")
		sb.WriteString(text)
		sb.WriteString(strings.Repeat(" ", max(0, width-runewidth.StringWidth(text))))
		sb.WriteString(" |")

		c += cell.colSpan
	}
	sb.WriteString("\n")
	return sb.String()
}

func linesWidth(lines []string) int {
	w := 0
	for _, line := range lines {
		w = max(w, runewidth.StringWidth(line))
	}
	return w
}
