package ir

// TableBlock represents a table as a grid of plain cell text. Rows built from
// a flat cell list may be ragged: the last row can hold fewer than Cols cells.
type TableBlock struct {
	Rows      int      `json:"rows"`
	Cols      int      `json:"cols"`
	Cells     [][]Cell `json:"cells,omitempty"`
	HasHeader bool     `json:"has_header,omitempty"` // first row is header
}

// Cell represents a single cell in a table.
type Cell struct {
	Text    string `json:"text"`
	RowSpan int    `json:"row_span,omitempty"` // number of rows this cell spans
	ColSpan int    `json:"col_span,omitempty"` // number of columns this cell spans
}

// NewTable creates a new table with the specified dimensions.
func NewTable(rows, cols int) *TableBlock {
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
		for j := range cells[i] {
			cells[i][j] = Cell{
				RowSpan: 1,
				ColSpan: 1,
			}
		}
	}
	return &TableBlock{
		Rows:  rows,
		Cols:  cols,
		Cells: cells,
	}
}

// NewTableFromCells chunks a flat, row-major list of cell texts into rows of
// cols cells. A cols of zero or less puts every cell in a single row.
func NewTableFromCells(texts []string, cols int) *TableBlock {
	if cols <= 0 {
		cols = len(texts)
	}
	t := &TableBlock{Cols: cols}
	for start := 0; start < len(texts); start += cols {
		end := min(start+cols, len(texts))
		row := make([]Cell, 0, end-start)
		for _, text := range texts[start:end] {
			row = append(row, Cell{Text: text, RowSpan: 1, ColSpan: 1})
		}
		t.Cells = append(t.Cells, row)
	}
	t.Rows = len(t.Cells)
	return t
}

// SetCell sets the content of a specific cell.
func (t *TableBlock) SetCell(row, col int, text string) {
	if c := t.GetCell(row, col); c != nil {
		c.Text = text
	}
}

// GetCell returns the cell at the specified position, or nil when the
// position is outside the grid (including past the end of a short row).
func (t *TableBlock) GetCell(row, col int) *Cell {
	if row >= 0 && row < len(t.Cells) && col >= 0 && col < len(t.Cells[row]) {
		return &t.Cells[row][col]
	}
	return nil
}

// SetHeaderRow marks the first row as a header row.
func (t *TableBlock) SetHeaderRow() {
	t.HasHeader = true
}

// Width returns the number of columns a renderer should lay out: the larger
// of Cols and the longest row.
func (t *TableBlock) Width() int {
	w := t.Cols
	for _, row := range t.Cells {
		w = max(w, len(row))
	}
	return w
}
