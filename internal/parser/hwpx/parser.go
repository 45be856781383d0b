package hwpx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
	"github.com/roboco-io/hwp2hwpx/internal/logging"
	"github.com/roboco-io/hwp2hwpx/internal/parser"
)

// Parser parses HWPX documents.
type Parser struct {
	path    string
	files   []*zip.File
	closer  io.Closer
	options parser.Options

	manifest *Manifest
	header   string
	sections []string
}

// New creates a new HWPX parser for the given file path.
func New(path string, opts parser.Options) (*Parser, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open HWPX file: %w", err)
	}

	p, err := newParser(&r.Reader, opts)
	if err != nil {
		r.Close()
		return nil, err
	}
	p.path = path
	p.closer = r
	return p, nil
}

// NewFromReader creates a parser over an in-memory HWPX package.
func NewFromReader(r io.ReaderAt, size int64, opts parser.Options) (*Parser, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open HWPX package: %w", err)
	}
	return newParser(zr, opts)
}

func newParser(zr *zip.Reader, opts parser.Options) (*Parser, error) {
	p := &Parser{
		files:   zr.File,
		options: opts,
	}
	if err := p.parseManifest(); err != nil {
		return nil, err
	}
	if len(p.sections) == 0 {
		return nil, fmt.Errorf("no section files found in HWPX package")
	}
	return p, nil
}

// Parse implements the Parser interface.
func (p *Parser) Parse() (*ir.Document, error) {
	doc := ir.NewDocument()

	if p.manifest != nil {
		doc.Metadata = p.manifest.ToMetadata()
	}
	if doc.Metadata.Title == "" && p.path != "" {
		base := filepath.Base(p.path)
		doc.Metadata.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	styles := p.parseStyles()

	// 섹션 순서대로 파싱
	for _, sectionPath := range p.sections {
		section := doc.AddSection()
		if err := p.parseSection(section, sectionPath, styles); err != nil {
			return nil, fmt.Errorf("failed to parse section %s: %w", sectionPath, err)
		}
	}

	logging.Debug("parsed HWPX package", "sections", len(doc.Sections), "blocks", len(doc.Blocks()))
	return doc, nil
}

// Close releases resources.
func (p *Parser) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

// Sections returns the section part names in reading order.
func (p *Parser) Sections() []string {
	return p.sections
}

// parseManifest reads and parses the content.hpf manifest file.
func (p *Parser) parseManifest() error {
	manifestFile := p.findFile("Contents/content.hpf")
	if manifestFile == nil {
		manifestFile = p.findFile("content.hpf")
	}
	if manifestFile == nil {
		// 매니페스트가 없으면 섹션 파일을 직접 찾는다
		p.findSectionsWithoutManifest()
		return nil
	}

	data, err := readZipFile(manifestFile)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}
	p.manifest = manifest

	if h := manifest.HeaderPath(); h != "" {
		p.header = normalizeHref(h)
	}
	for _, href := range manifest.GetSectionPaths() {
		p.sections = append(p.sections, normalizeHref(href))
	}
	if len(p.sections) == 0 {
		p.findSectionsWithoutManifest()
	}
	return nil
}

// findSectionsWithoutManifest finds section files when manifest is missing.
func (p *Parser) findSectionsWithoutManifest() {
	for _, f := range p.files {
		base := strings.ToLower(path.Base(f.Name))
		if strings.HasPrefix(base, "section") && strings.HasSuffix(base, ".xml") {
			p.sections = append(p.sections, f.Name)
		}
		if base == "header.xml" && p.header == "" {
			p.header = f.Name
		}
	}
	sort.SliceStable(p.sections, func(i, j int) bool {
		return sectionNumber(p.sections[i]) < sectionNumber(p.sections[j])
	})
}

// sectionNumber extracts N from ".../sectionN.xml"; names without a number
// sort last.
func sectionNumber(name string) int {
	base := strings.ToLower(path.Base(name))
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(base, "section"), ".xml"))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

func normalizeHref(href string) string {
	href = strings.TrimPrefix(href, "/")
	if !strings.Contains(href, "/") {
		href = "Contents/" + href
	}
	return href
}

func (p *Parser) findFile(name string) *zip.File {
	for _, f := range p.files {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	for _, f := range p.files {
		if strings.HasSuffix(strings.ToLower(f.Name), "/"+strings.ToLower(name)) {
			return f
		}
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseStyles loads the header part. A missing or broken header only costs
// the paragraph styles.
func (p *Parser) parseStyles() *styleTable {
	if p.header == "" {
		return nil
	}
	f := p.findFile(p.header)
	if f == nil {
		logging.Warn("header part not found", "path", p.header)
		return nil
	}
	rc, err := f.Open()
	if err != nil {
		logging.Warn("failed to open header part", "path", p.header, "error", err)
		return nil
	}
	defer rc.Close()

	st, err := parseHeader(rc)
	if err != nil {
		logging.Warn("ignoring header part", "path", p.header, "error", err)
		return nil
	}
	return st
}

// parseSection parses a single section XML file.
func (p *Parser) parseSection(section *ir.Section, sectionPath string, styles *styleTable) error {
	sectionFile := p.findFile(sectionPath)
	if sectionFile == nil {
		return fmt.Errorf("section file not found: %s", sectionPath)
	}

	rc, err := sectionFile.Open()
	if err != nil {
		return fmt.Errorf("failed to open section: %w", err)
	}
	defer rc.Close()

	sp := &sectionParser{
		section: section,
		styles:  styles,
		options: p.options,
	}
	return sp.parse(xml.NewDecoder(rc))
}

// paraContext collects one <hp:p> while it is open.
type paraContext struct {
	text     strings.Builder
	paraPr   string
	charPr   string
	hasRun   bool
	hasTable bool
}

// cellContext holds temporary cell data during parsing.
type cellContext struct {
	text    strings.Builder
	colSpan int
	rowSpan int
	header  bool
}

// tableContext holds the rows of an open <hp:tbl>.
type tableContext struct {
	colCnt int
	rows   [][]*cellContext
	row    []*cellContext
}

// sectionParser walks a section part. Paragraphs, tables and cells nest,
// so each has its own stack; text always goes to the innermost paragraph.
type sectionParser struct {
	section *ir.Section
	styles  *styleTable
	options parser.Options

	paras  []*paraContext
	tables []*tableContext
	cells  []*cellContext
	inText bool
}

func (sp *sectionParser) parse(decoder *xml.Decoder) error {
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("XML parse error: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			sp.start(t)
		case xml.EndElement:
			sp.end(t.Name.Local)
		case xml.CharData:
			if sp.inText {
				sp.write(string(t))
			}
		}
	}
}

func (sp *sectionParser) para() *paraContext {
	if len(sp.paras) == 0 {
		return nil
	}
	return sp.paras[len(sp.paras)-1]
}

func (sp *sectionParser) write(s string) {
	if p := sp.para(); p != nil {
		p.text.WriteString(s)
	}
}

func (sp *sectionParser) start(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		sp.paras = append(sp.paras, &paraContext{paraPr: attr(t, "paraPrIDRef")})

	case "run":
		if p := sp.para(); p != nil && !p.hasRun {
			p.charPr = attr(t, "charPrIDRef")
			p.hasRun = true
		}

	case "t":
		sp.inText = true

	case "tab":
		sp.write("\t")

	case "lineBreak":
		sp.write("\n")

	case "br":
		if v := attr(t, "type"); v == "" || v == "line" {
			sp.write("\n")
		}

	case "tbl":
		if p := sp.para(); p != nil {
			p.hasTable = true
		}
		colCnt, _ := strconv.Atoi(attr(t, "colCnt"))
		sp.tables = append(sp.tables, &tableContext{colCnt: colCnt})

	case "tr":
		if tbl := sp.table(); tbl != nil {
			tbl.row = nil
		}

	case "tc":
		if sp.table() == nil {
			return
		}
		cell := &cellContext{colSpan: 1, rowSpan: 1, header: attr(t, "header") == "1"}
		// 구 형식은 tc 속성에 병합 정보를 둔다
		if v, err := strconv.Atoi(attr(t, "gridSpan")); err == nil && v > 0 {
			cell.colSpan = v
		}
		if v, err := strconv.Atoi(attr(t, "rowSpan")); err == nil && v > 0 {
			cell.rowSpan = v
		}
		sp.cells = append(sp.cells, cell)

	case "cellSpan":
		if len(sp.cells) == 0 {
			return
		}
		cell := sp.cells[len(sp.cells)-1]
		if v, err := strconv.Atoi(attr(t, "colSpan")); err == nil && v > 0 {
			cell.colSpan = v
		}
		if v, err := strconv.Atoi(attr(t, "rowSpan")); err == nil && v > 0 {
			cell.rowSpan = v
		}
	}
}

func (sp *sectionParser) table() *tableContext {
	if len(sp.tables) == 0 {
		return nil
	}
	return sp.tables[len(sp.tables)-1]
}

func (sp *sectionParser) end(local string) {
	switch local {
	case "t":
		sp.inText = false

	case "p":
		p := sp.para()
		if p == nil {
			return
		}
		sp.paras = sp.paras[:len(sp.paras)-1]
		text := p.text.String()

		if len(sp.cells) > 0 {
			// 셀 안의 문단은 셀 텍스트로 누적
			if text != "" {
				cell := sp.cells[len(sp.cells)-1]
				if cell.text.Len() > 0 {
					cell.text.WriteString("\n")
				}
				cell.text.WriteString(text)
			}
			return
		}
		if p.hasTable && text == "" {
			return
		}
		if text == "" && sp.options.SkipEmptyParagraphs {
			return
		}
		para := ir.NewParagraph(text)
		para.Style = sp.styles.resolve(p.paraPr, p.charPr)
		sp.section.AddParagraph(para)

	case "tc":
		tbl := sp.table()
		if tbl == nil || len(sp.cells) == 0 {
			return
		}
		cell := sp.cells[len(sp.cells)-1]
		sp.cells = sp.cells[:len(sp.cells)-1]
		tbl.row = append(tbl.row, cell)

	case "tr":
		if tbl := sp.table(); tbl != nil && len(tbl.row) > 0 {
			tbl.rows = append(tbl.rows, tbl.row)
			tbl.row = nil
		}

	case "tbl":
		tbl := sp.table()
		if tbl == nil {
			return
		}
		sp.tables = sp.tables[:len(sp.tables)-1]

		if len(sp.cells) > 0 {
			// 중첩 표는 바깥 셀의 텍스트로 평탄화
			outer := sp.cells[len(sp.cells)-1]
			for _, row := range tbl.rows {
				for _, cell := range row {
					text := strings.TrimSpace(cell.text.String())
					if text == "" {
						continue
					}
					if outer.text.Len() > 0 {
						outer.text.WriteString("\n")
					}
					outer.text.WriteString(text)
				}
			}
			return
		}
		if table := buildTable(tbl); table != nil {
			sp.section.AddTable(table)
		}
	}
}

// buildTable constructs an IR table from parsed rows.
func buildTable(tbl *tableContext) *ir.TableBlock {
	if len(tbl.rows) == 0 {
		return nil
	}

	maxCols := tbl.colCnt
	for _, row := range tbl.rows {
		cols := 0
		for _, cell := range row {
			cols += cell.colSpan
		}
		maxCols = max(maxCols, cols)
	}

	table := ir.NewTable(len(tbl.rows), maxCols)

	for i, row := range tbl.rows {
		colIdx := 0
		for _, cell := range row {
			if colIdx >= maxCols {
				break
			}
			table.Cells[i][colIdx].Text = strings.TrimSpace(cell.text.String())
			table.Cells[i][colIdx].ColSpan = cell.colSpan
			table.Cells[i][colIdx].RowSpan = cell.rowSpan
			colIdx += cell.colSpan
		}
	}

	for _, cell := range tbl.rows[0] {
		if cell.header {
			table.SetHeaderRow()
			break
		}
	}

	return table
}

func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
