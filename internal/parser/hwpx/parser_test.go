package hwpx

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
	"github.com/roboco-io/hwp2hwpx/internal/parser"
)

func TestParseManifest(t *testing.T) {
	manifestXML := `<?xml version="1.0" encoding="UTF-8"?>
<opf:package xmlns:opf="http://www.idpf.org/2007/opf/">
  <opf:metadata>
    <opf:title>테스트 문서</opf:title>
    <opf:creator>작성자</opf:creator>
    <opf:language>ko</opf:language>
  </opf:metadata>
  <opf:manifest>
    <opf:item id="header" href="Contents/header.xml" media-type="application/xml"/>
    <opf:item id="section0" href="Contents/section0.xml" media-type="application/xml"/>
    <opf:item id="section1" href="Contents/section1.xml" media-type="application/xml"/>
    <opf:item id="bin0" href="BinData/bin0.png" media-type="image/png"/>
  </opf:manifest>
  <opf:spine>
    <opf:itemref idref="header"/>
    <opf:itemref idref="section0"/>
    <opf:itemref idref="section1"/>
  </opf:spine>
</opf:package>`

	manifest, err := ParseManifest([]byte(manifestXML))
	if err != nil {
		t.Fatalf("failed to parse manifest: %v", err)
	}

	if manifest.Metadata.Title != "테스트 문서" {
		t.Errorf("expected title '테스트 문서', got %s", manifest.Metadata.Title)
	}
	if manifest.Metadata.Creator != "작성자" {
		t.Errorf("expected creator '작성자', got %s", manifest.Metadata.Creator)
	}
	if len(manifest.Items) != 4 {
		t.Errorf("expected 4 items, got %d", len(manifest.Items))
	}
	if len(manifest.Spine) != 3 {
		t.Errorf("expected 3 spine items, got %d", len(manifest.Spine))
	}
	if manifest.HeaderPath() != "Contents/header.xml" {
		t.Errorf("unexpected header path %q", manifest.HeaderPath())
	}
	if paths := manifest.GetSectionPaths(); len(paths) != 2 {
		t.Errorf("header must not be treated as a section: %v", paths)
	}
}

func TestManifest_ToMetadata(t *testing.T) {
	tests := []struct {
		name     string
		manifest *Manifest
		want     ir.Metadata
	}{
		{
			name: "dublin core elements",
			manifest: &Manifest{Metadata: ManifestMeta{
				Title:   "Test Title",
				Creator: "Test Author",
				Date:    "2024-01-01",
			}},
			want: ir.Metadata{Title: "Test Title", Author: "Test Author", Creator: "Test Author", Created: "2024-01-01"},
		},
		{
			name: "named meta entries",
			manifest: &Manifest{Metadata: ManifestMeta{
				Title: "보고서",
				Meta: []MetaEntry{
					{Name: "creator", Value: "홍길동"},
					{Name: "subject", Value: "요약"},
					{Name: "keyword", Value: "hwp,hwpx"},
					{Name: "CreatedDate", Value: "2024-03-01T09:00:00Z"},
					{Name: "ModifiedDate", Value: "2024-03-02T09:00:00Z"},
					{Name: "description", Value: "  "},
				},
			}},
			want: ir.Metadata{
				Title:    "보고서",
				Author:   "홍길동",
				Creator:  "홍길동",
				Subject:  "요약",
				Keywords: "hwp,hwpx",
				Created:  "2024-03-01T09:00:00Z",
				Modified: "2024-03-02T09:00:00Z",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.manifest.ToMetadata(); got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestManifest_GetSectionPaths(t *testing.T) {
	manifest := &Manifest{
		Items: []ManifestItem{
			{ID: "section0", Href: "Contents/section0.xml", MediaType: "application/xml"},
			{ID: "section1", Href: "Contents/section1.xml", MediaType: "application/xml"},
			{ID: "bin0", Href: "BinData/bin0.png", MediaType: "image/png"},
		},
		Spine: []SpineItem{
			{IDRef: "section1"},
			{IDRef: "bin0"},
			{IDRef: "section0"},
		},
	}

	paths := manifest.GetSectionPaths()

	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(paths))
	}
	// 스파인 순서를 따른다
	if paths[0] != "Contents/section1.xml" {
		t.Errorf("expected first path 'Contents/section1.xml', got %s", paths[0])
	}
	if paths[1] != "Contents/section0.xml" {
		t.Errorf("expected second path 'Contents/section0.xml', got %s", paths[1])
	}
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path.hwpx", parser.Options{})
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

const testManifest = `<?xml version="1.0" encoding="UTF-8"?>
<opf:package xmlns:opf="http://www.idpf.org/2007/opf/">
  <opf:metadata>
    <opf:title>테스트</opf:title>
  </opf:metadata>
  <opf:manifest>
    <opf:item id="header" href="Contents/header.xml" media-type="application/xml"/>
    <opf:item id="section0" href="Contents/section0.xml" media-type="application/xml"/>
  </opf:manifest>
  <opf:spine>
    <opf:itemref idref="header"/>
    <opf:itemref idref="section0"/>
  </opf:spine>
</opf:package>`

const testHeader = `<?xml version="1.0" encoding="UTF-8"?>
<hh:head xmlns:hh="http://www.hancom.co.kr/hwpml/2011/head">
  <hh:refList>
    <hh:fontfaces itemCnt="2">
      <hh:fontface lang="HANGUL" fontCnt="2">
        <hh:font id="0" face="함초롬바탕" type="TTF"/>
        <hh:font id="1" face="맑은 고딕" type="TTF"/>
      </hh:fontface>
      <hh:fontface lang="LATIN" fontCnt="1">
        <hh:font id="0" face="Arial" type="TTF"/>
      </hh:fontface>
    </hh:fontfaces>
    <hh:charProperties itemCnt="2">
      <hh:charPr id="0" height="1000" textColor="#000000">
        <hh:fontRef hangul="0" latin="0"/>
      </hh:charPr>
      <hh:charPr id="1" height="1600" textColor="#ff0000">
        <hh:fontRef hangul="1" latin="0"/>
        <hh:bold/>
        <hh:italic/>
      </hh:charPr>
    </hh:charProperties>
    <hh:paraProperties itemCnt="2">
      <hh:paraPr id="0">
        <hh:align horizontal="JUSTIFY" vertical="BASELINE"/>
        <hh:lineSpacing type="PERCENT" value="160" unit="HWPUNIT"/>
      </hh:paraPr>
      <hh:paraPr id="1">
        <hh:align horizontal="CENTER" vertical="BASELINE"/>
        <hh:lineSpacing type="PERCENT" value="200" unit="HWPUNIT"/>
      </hh:paraPr>
    </hh:paraProperties>
  </hh:refList>
</hh:head>`

func section(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<hs:sec xmlns:hs="http://www.hancom.co.kr/hwpml/2011/section"
        xmlns:hp="http://www.hancom.co.kr/hwpml/2011/paragraph">` + body + `</hs:sec>`
}

func buildPackage(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func parsePackage(t *testing.T, files map[string]string, opts parser.Options) *ir.Document {
	t.Helper()
	data := buildPackage(t, files)
	p, err := NewFromReader(bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	defer p.Close()

	doc, err := p.Parse()
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	return doc
}

func TestParser_Parse(t *testing.T) {
	tmpDir := t.TempDir()
	hwpxPath := filepath.Join(tmpDir, "test.hwpx")
	data := buildPackage(t, map[string]string{
		"Contents/content.hpf": testManifest,
		"Contents/section0.xml": section(`
  <hp:p><hp:run><hp:t>Hello, World!</hp:t></hp:run></hp:p>
  <hp:p><hp:run><hp:t>두 번째 문단입니다.</hp:t></hp:run></hp:p>`),
	})
	if err := os.WriteFile(hwpxPath, data, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	p, err := New(hwpxPath, parser.Options{})
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	defer p.Close()

	doc, err := p.Parse()
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	if doc.Metadata.Title != "테스트" {
		t.Errorf("expected manifest title, got %q", doc.Metadata.Title)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}

	blocks := doc.Sections[0].Content
	if len(blocks) != 2 {
		t.Fatalf("expected 2 content blocks, got %d", len(blocks))
	}
	if blocks[0].Paragraph.Text != "Hello, World!" {
		t.Errorf("expected 'Hello, World!', got %s", blocks[0].Paragraph.Text)
	}
	if blocks[0].Paragraph.Style != nil {
		t.Errorf("no header part means no style, got %+v", blocks[0].Paragraph.Style)
	}
}

func TestParser_InlineElements(t *testing.T) {
	doc := parsePackage(t, map[string]string{
		"Contents/content.hpf": testManifest,
		"Contents/section0.xml": section(`
  <hp:p><hp:run><hp:t>a<hp:tab/>b<hp:lineBreak/>c</hp:t></hp:run><hp:run><hp:t>d</hp:t></hp:run></hp:p>`),
	}, parser.Options{})

	if got := doc.Blocks()[0].Paragraph.Text; got != "a\tb\ncd" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestParser_Styles(t *testing.T) {
	doc := parsePackage(t, map[string]string{
		"Contents/content.hpf": testManifest,
		"Contents/header.xml":  testHeader,
		"Contents/section0.xml": section(`
  <hp:p paraPrIDRef="1"><hp:run charPrIDRef="1"><hp:t>제목</hp:t></hp:run></hp:p>
  <hp:p paraPrIDRef="0"><hp:run charPrIDRef="0"><hp:t>본문</hp:t></hp:run></hp:p>
  <hp:p paraPrIDRef="9"><hp:run charPrIDRef="9"><hp:t>unknown</hp:t></hp:run></hp:p>`),
	}, parser.Options{})

	blocks := doc.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}

	want := ir.Style{
		Bold:        true,
		Italic:      true,
		FontName:    "맑은 고딕",
		FontSize:    16,
		Alignment:   ir.AlignCenter,
		LineSpacing: 200,
		Color:       "#FF0000",
	}
	if s := blocks[0].Paragraph.Style; s == nil || *s != want {
		t.Errorf("expected %+v, got %+v", want, s)
	}

	body := ir.Style{FontName: "함초롬바탕", FontSize: 10, Alignment: ir.AlignJustify}
	if s := blocks[1].Paragraph.Style; s == nil || *s != body {
		t.Errorf("expected %+v, got %+v", body, s)
	}
	if s := blocks[2].Paragraph.Style; s != nil {
		t.Errorf("unknown ids should give no style, got %+v", s)
	}
}

func TestParser_ParseWithTable(t *testing.T) {
	doc := parsePackage(t, map[string]string{
		"Contents/content.hpf": testManifest,
		"Contents/section0.xml": section(`
  <hp:p><hp:run><hp:t>before</hp:t></hp:run></hp:p>
  <hp:p><hp:run><hp:tbl rowCnt="2" colCnt="2">
    <hp:tr>
      <hp:tc header="1"><hp:subList><hp:p><hp:run><hp:t>A1</hp:t></hp:run></hp:p></hp:subList><hp:cellSpan colSpan="1" rowSpan="1"/></hp:tc>
      <hp:tc header="1"><hp:subList><hp:p><hp:run><hp:t>B1</hp:t></hp:run></hp:p><hp:p><hp:run><hp:t>more</hp:t></hp:run></hp:p></hp:subList></hp:tc>
    </hp:tr>
    <hp:tr>
      <hp:tc><hp:subList><hp:p><hp:run><hp:t>wide</hp:t></hp:run></hp:p></hp:subList><hp:cellSpan colSpan="2" rowSpan="1"/></hp:tc>
    </hp:tr>
  </hp:tbl></hp:run></hp:p>
  <hp:p><hp:run><hp:t>after</hp:t></hp:run></hp:p>`),
	}, parser.Options{})

	blocks := doc.Blocks()
	if len(blocks) != 3 {
		t.Fatalf("expected paragraph, table, paragraph; got %d blocks", len(blocks))
	}

	table := blocks[1].Table
	if table == nil {
		t.Fatal("expected table block")
	}
	if table.Rows != 2 || table.Cols != 2 {
		t.Errorf("expected 2x2, got %dx%d", table.Rows, table.Cols)
	}
	if !table.HasHeader {
		t.Error("expected header row")
	}
	if table.Cells[0][0].Text != "A1" {
		t.Errorf("expected cell[0][0] 'A1', got %s", table.Cells[0][0].Text)
	}
	if table.Cells[0][1].Text != "B1\nmore" {
		t.Errorf("expected multi-paragraph cell, got %q", table.Cells[0][1].Text)
	}
	if table.Cells[1][0].Text != "wide" || table.Cells[1][0].ColSpan != 2 {
		t.Errorf("expected spanning cell, got %+v", table.Cells[1][0])
	}
}

func TestParser_NestedTableFlattened(t *testing.T) {
	doc := parsePackage(t, map[string]string{
		"Contents/content.hpf": testManifest,
		"Contents/section0.xml": section(`
  <hp:p><hp:run><hp:tbl rowCnt="1" colCnt="2"><hp:tr>
    <hp:tc><hp:subList>
      <hp:p><hp:run><hp:t>outer</hp:t></hp:run></hp:p>
      <hp:p><hp:run><hp:tbl rowCnt="1" colCnt="1"><hp:tr><hp:tc><hp:subList>
        <hp:p><hp:run><hp:t>inner</hp:t></hp:run></hp:p>
      </hp:subList></hp:tc></hp:tr></hp:tbl></hp:run></hp:p>
    </hp:subList></hp:tc>
    <hp:tc><hp:subList><hp:p><hp:run><hp:t>second</hp:t></hp:run></hp:p></hp:subList></hp:tc>
  </hp:tr></hp:tbl></hp:run></hp:p>`),
	}, parser.Options{})

	blocks := doc.Blocks()
	if len(blocks) != 1 || blocks[0].Table == nil {
		t.Fatalf("expected a single table, got %+v", blocks)
	}
	cells := blocks[0].Table.Cells
	if cells[0][0].Text != "outer\ninner" || cells[0][1].Text != "second" {
		t.Errorf("unexpected cells: %+v", cells)
	}
}

func TestParser_EmptyParagraphs(t *testing.T) {
	files := map[string]string{
		"Contents/content.hpf": testManifest,
		"Contents/section0.xml": section(`
  <hp:p><hp:run><hp:t>one</hp:t></hp:run></hp:p>
  <hp:p><hp:run/></hp:p>
  <hp:p><hp:run><hp:t>two</hp:t></hp:run></hp:p>`),
	}

	tests := []struct {
		name string
		opts parser.Options
		want int
	}{
		{"kept by default", parser.Options{}, 3},
		{"skipped on request", parser.Options{SkipEmptyParagraphs: true}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := parsePackage(t, files, tc.opts)
			if got := len(doc.Blocks()); got != tc.want {
				t.Errorf("expected %d blocks, got %d", tc.want, got)
			}
		})
	}
}

func TestParser_WithoutManifest(t *testing.T) {
	files := map[string]string{}
	for _, n := range []string{"10", "2", "0", "1"} {
		files["Contents/section"+n+".xml"] = section(`<hp:p><hp:run><hp:t>s` + n + `</hp:t></hp:run></hp:p>`)
	}

	doc := parsePackage(t, files, parser.Options{})

	var got []string
	for _, s := range doc.Sections {
		got = append(got, s.Content[0].Paragraph.Text)
	}
	if strings.Join(got, ",") != "s0,s1,s2,s10" {
		t.Errorf("expected numeric section order, got %v", got)
	}
}

func TestNewFromReader_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("plain text")},
		{"no sections", buildPackage(t, map[string]string{"mimetype": "application/hwp+zip"})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewFromReader(bytes.NewReader(tc.data), int64(len(tc.data)), parser.Options{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNormalizeHref(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"section0.xml", "Contents/section0.xml"},
		{"/Contents/section0.xml", "Contents/section0.xml"},
		{"Contents/section1.xml", "Contents/section1.xml"},
	}
	for _, tc := range tests {
		if got := normalizeHref(tc.in); got != tc.want {
			t.Errorf("normalizeHref(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
