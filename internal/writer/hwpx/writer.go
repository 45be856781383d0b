// Package hwpx writes ir.Document values as HWPX (OWPML) packages.
package hwpx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// MimeType is the content of the package's first, uncompressed entry.
const MimeType = "application/hwp+zip"

const (
	nsHead    = "http://www.hancom.co.kr/hwpml/2011/head"
	nsPara    = "http://www.hancom.co.kr/hwpml/2011/paragraph"
	nsSection = "http://www.hancom.co.kr/hwpml/2011/section"
	nsCore    = "http://www.hancom.co.kr/hwpml/2011/core"
	nsOPF     = "http://www.idpf.org/2007/opf/"
	nsDC      = "http://purl.org/dc/elements/1.1/"
)

// Part names inside the package.
const (
	PartVersion   = "version.xml"
	PartContainer = "META-INF/container.xml"
	PartManifest  = "META-INF/manifest.xml"
	PartContent   = "Contents/content.hpf"
	PartHeader    = "Contents/header.xml"
	PartSettings  = "settings.xml"
	PartPreview   = "Preview/PrvText.txt"
)

const versionXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>
<hv:HCFVersion xmlns:hv="http://www.hancom.co.kr/hwpml/2011/version" tagetApplication="WORDPROCESSOR" major="5" minor="1" micro="1" buildNumber="0" os="1" xmlVersion="1.4" application="hwp2hwpx" appVersion="1.0"/>`

const containerXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>
<ocf:container xmlns:ocf="urn:oasis:names:tc:opendocument:xmlns:container" xmlns:hpf="http://www.hancom.co.kr/schema/2011/hpf">
  <ocf:rootfiles>
    <ocf:rootfile full-path="Contents/content.hpf" media-type="application/hwpml-package+xml"/>
    <ocf:rootfile full-path="Preview/PrvText.txt" media-type="text/plain"/>
  </ocf:rootfiles>
</ocf:container>`

const manifestXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>
<odf:manifest xmlns:odf="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0"/>`

const settingsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>
<ha:HWPApplicationSetting xmlns:ha="http://www.hancom.co.kr/hwpml/2011/app" xmlns:config="urn:oasis:names:tc:opendocument:xmlns:config:1.0">
  <ha:CaretPosition listIDRef="0" paraIDRef="0" pos="0"/>
</ha:HWPApplicationSetting>`

// previewLimit bounds Preview/PrvText.txt, in bytes.
const previewLimit = 1024

// Writer builds HWPX packages.
type Writer struct {
	// NewID returns the package identifier.
	NewID func() string
	// Now stamps the modification date when the document has none.
	Now func() time.Time
}

// New returns a Writer with random package ids and the wall clock.
func New() *Writer {
	return &Writer{
		NewID: uuid.NewString,
		Now:   time.Now,
	}
}

// SectionPart returns the part name of the i-th section.
func SectionPart(i int) string {
	return fmt.Sprintf("Contents/section%d.xml", i)
}

// Build creates the HWPX package as bytes.
func (w *Writer) Build(doc *ir.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the package to path.
func (w *Writer) WriteFile(path string, doc *ir.Document) error {
	data, err := w.Build(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write HWPX file: %w", err)
	}
	return nil
}

// Write streams the package to out.
func (w *Writer) Write(out io.Writer, doc *ir.Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}

	sections := doc.Sections
	if len(sections) == 0 {
		sections = []*ir.Section{{}}
	}

	// 섹션을 먼저 만들어야 header.xml 의 스타일 목록이 정해진다
	cat := newCatalogue()
	b := &sectionBuilder{cat: cat}
	parts := make([][]byte, len(sections))
	for i, s := range sections {
		data, err := marshalPart(b.build(s))
		if err != nil {
			return fmt.Errorf("failed to encode section %d: %w", i, err)
		}
		parts[i] = data
	}

	header, err := marshalPart(buildHeader(cat, len(sections)))
	if err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}
	content, err := marshalPart(w.buildPackage(doc.Metadata, len(sections)))
	if err != nil {
		return fmt.Errorf("failed to encode package manifest: %w", err)
	}

	zw := zip.NewWriter(out)

	// mimetype 는 첫 항목, 비압축
	mw, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return err
	}
	if _, err := mw.Write([]byte(MimeType)); err != nil {
		return err
	}

	entries := []entry{
		{PartVersion, []byte(versionXML)},
		{PartContainer, []byte(containerXML)},
		{PartManifest, []byte(manifestXML)},
		{PartContent, content},
		{PartHeader, header},
	}
	for i, data := range parts {
		entries = append(entries, entry{SectionPart(i), data})
	}
	entries = append(entries,
		entry{PartSettings, []byte(settingsXML)},
		entry{PartPreview, []byte(previewText(doc))},
	)

	for _, e := range entries {
		fw, err := zw.Create(e.name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.name, err)
		}
	}

	return zw.Close()
}

type entry struct {
	name string
	data []byte
}

func marshalPart(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>`), data...), nil
}

type packageXML struct {
	XMLName  xml.Name       `xml:"opf:package"`
	NSOPF    string         `xml:"xmlns:opf,attr"`
	NSDC     string         `xml:"xmlns:dc,attr"`
	Version  string         `xml:"version,attr"`
	UniqueID string         `xml:"unique-identifier,attr"`
	ID       string         `xml:"id,attr"`
	Metadata opfMetadataXML `xml:"opf:metadata"`
	Items    []opfItemXML   `xml:"opf:manifest>opf:item"`
	Spine    []opfRefXML    `xml:"opf:spine>opf:itemref"`
}

type opfMetadataXML struct {
	Title    string       `xml:"opf:title"`
	Language string       `xml:"opf:language"`
	Meta     []opfMetaXML `xml:"opf:meta"`
}

type opfMetaXML struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
	Value   string `xml:",chardata"`
}

type opfItemXML struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type opfRefXML struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

func (w *Writer) buildPackage(meta ir.Metadata, sections int) *packageXML {
	id := ""
	if w.NewID != nil {
		id = w.NewID()
	}
	modified := meta.Modified
	if modified == "" && w.Now != nil {
		modified = w.Now().UTC().Format(time.RFC3339)
	}

	author := meta.Author
	if author == "" {
		author = meta.Creator
	}

	p := &packageXML{
		NSOPF:    nsOPF,
		NSDC:     nsDC,
		UniqueID: id,
		ID:       id,
		Metadata: opfMetadataXML{
			Title:    meta.Title,
			Language: "ko",
			Meta: []opfMetaXML{
				{Name: "creator", Content: "text", Value: author},
				{Name: "subject", Content: "text", Value: meta.Subject},
				{Name: "description", Content: "text", Value: meta.Description},
				{Name: "keyword", Content: "text", Value: meta.Keywords},
				{Name: "CreatedDate", Content: "text", Value: meta.Created},
				{Name: "ModifiedDate", Content: "text", Value: modified},
			},
		},
		Items: []opfItemXML{
			{ID: "header", Href: PartHeader, MediaType: "application/xml"},
			{ID: "settings", Href: PartSettings, MediaType: "application/xml"},
		},
		Spine: []opfRefXML{{IDRef: "header", Linear: "yes"}},
	}
	for i := 0; i < sections; i++ {
		sid := fmt.Sprintf("section%d", i)
		p.Items = append(p.Items, opfItemXML{ID: sid, Href: SectionPart(i), MediaType: "application/xml"})
		p.Spine = append(p.Spine, opfRefXML{IDRef: sid, Linear: "yes"})
	}
	return p
}

// previewText renders the leading text of the document for
// Preview/PrvText.txt, cutting on a rune boundary.
func previewText(doc *ir.Document) string {
	var sb strings.Builder
	for _, block := range doc.Blocks() {
		switch {
		case block.Paragraph != nil:
			sb.WriteString(block.Paragraph.Text)
			sb.WriteString("\r\n")
		case block.Table != nil:
			for _, row := range block.Table.Cells {
				cells := make([]string, len(row))
				for i, c := range row {
					cells[i] = "<" + c.Text + ">"
				}
				sb.WriteString(strings.Join(cells, ""))
				sb.WriteString("\r\n")
			}
		}
		if sb.Len() >= previewLimit {
			break
		}
	}

	s := sb.String()
	if len(s) <= previewLimit {
		return s
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
