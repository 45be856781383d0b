package hwp5

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/roboco-io/hwp2hwpx/internal/container"
	"github.com/roboco-io/hwp2hwpx/internal/ir"
	"github.com/roboco-io/hwp2hwpx/internal/logging"
	"github.com/roboco-io/hwp2hwpx/internal/parser"
)

// Document is a fully decoded HWP 5.x file. It holds no reference to the
// input buffer.
type Document struct {
	Header   *FileHeader
	DocInfo  *DocInfo
	Sections []SectionData
	Summary  *container.Summary // nil when absent or unreadable
	Streams  []string
}

// SectionData is one BodyText/SectionN stream after record decoding.
type SectionData struct {
	Index   int
	Name    string
	Records []Record
	Content *Section
}

// Decode reads an HWP 5.x compound file image. Only a bad container, a bad
// signature, the encrypted flag, or a missing FileHeader, DocInfo or body
// section is fatal; everything else degrades the result.
func Decode(data []byte) (*Document, error) {
	c, err := container.Open(data)
	if err != nil {
		return nil, err
	}

	headerData, err := c.ReadStream(StreamFileHeader)
	if err != nil {
		return nil, &MissingStreamError{Name: StreamFileHeader}
	}
	header, err := ParseFileHeader(headerData)
	if err != nil {
		return nil, err
	}

	// 암호화된 문서는 다른 스트림을 읽기 전에 거부
	if header.IsEncrypted() {
		return nil, ErrEncryptedDocument
	}

	doc := &Document{Header: header, Streams: c.Names()}
	compressed := header.IsCompressed()

	infoData, err := c.ReadStream(StreamDocInfo)
	if err != nil {
		return nil, &MissingStreamError{Name: StreamDocInfo}
	}
	doc.DocInfo = ParseDocInfo(DecodeRecords(Decompress(infoData, compressed)))

	streams := findSections(doc.Streams)
	if len(streams) == 0 {
		return nil, &MissingStreamError{Name: StreamBodyText + "/" + sectionPrefix + "0"}
	}
	for _, s := range streams {
		raw, err := c.ReadStream(s.name)
		if err != nil {
			return nil, &MissingStreamError{Name: s.name}
		}
		records := DecodeRecords(Decompress(raw, compressed))
		doc.Sections = append(doc.Sections, SectionData{
			Index:   s.index,
			Name:    s.name,
			Records: records,
			Content: ParseSection(records),
		})
	}

	if summary, err := c.ReadSummary(); err == nil {
		doc.Summary = summary
	}

	return doc, nil
}

type sectionStream struct {
	name  string
	index int
}

// findSections returns BodyText/SectionN streams ordered by N.
func findSections(names []string) []sectionStream {
	var out []sectionStream
	prefix := StreamBodyText + "/" + sectionPrefix
	for _, name := range names {
		rest, ok := strings.CutPrefix(strings.TrimPrefix(name, "/"), prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			continue
		}
		out = append(out, sectionStream{name: name, index: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].index < out[j].index
	})
	return out
}

// ToIR converts the decoded document into the IR, returning one diagnostic
// per section that contained uninterpreted tags.
func (d *Document) ToIR(opts parser.Options) (*ir.Document, []Diagnostic) {
	out := ir.NewDocument()
	out.Metadata = d.metadata()

	var diags []Diagnostic
	for _, s := range d.Sections {
		section, diag := ConvertSection(s.Records, d.DocInfo)
		out.AppendSection(section)
		diag.Section = s.Index
		if len(diag.Skipped) > 0 {
			diags = append(diags, diag)
		}
		if opts.SkipEmptyParagraphs {
			section.Content = dropEmpty(section.Content)
		}
	}
	return out, diags
}

func dropEmpty(blocks []ir.Block) []ir.Block {
	kept := blocks[:0]
	for _, b := range blocks {
		if b.Type == ir.BlockTypeParagraph && strings.TrimSpace(b.Paragraph.Text) == "" {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

func (d *Document) metadata() ir.Metadata {
	meta := ir.Metadata{}
	if d.Header != nil {
		meta.Creator = fmt.Sprintf("HWP %s", d.Header.Version.String())
	}
	if s := d.Summary; s != nil {
		meta.Title = s.Title
		meta.Author = s.Author
		meta.Subject = s.Subject
		meta.Keywords = s.Keywords
		meta.Description = s.Comments
		meta.Created = s.Created
		meta.Modified = s.Modified
	}
	return meta
}

// Parser parses HWP 5.x binary documents from disk.
type Parser struct {
	path        string
	options     parser.Options
	doc         *Document
	diagnostics []Diagnostic
}

// New reads and decodes the HWP file at path.
func New(path string, opts parser.Options) (*Parser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("HWP 파일을 열 수 없습니다: %w", err)
	}

	doc, err := Decode(data)
	if err != nil {
		var cerr *container.ContainerError
		if errors.As(err, &cerr) {
			return nil, fmt.Errorf("OLE2 문서 파싱 실패: %w", err)
		}
		return nil, err
	}

	logging.Debug("decoded HWP document",
		"path", path,
		"version", doc.Header.Version.String(),
		"compressed", doc.Header.IsCompressed(),
		"sections", len(doc.Sections))

	return &Parser{path: path, options: opts, doc: doc}, nil
}

// Parse implements the Parser interface.
func (p *Parser) Parse() (*ir.Document, error) {
	out, diags := p.doc.ToIR(p.options)
	p.diagnostics = diags

	// 요약 정보에 제목이 없으면 파일명 사용
	if out.Metadata.Title == "" {
		base := filepath.Base(p.path)
		out.Metadata.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	for _, d := range diags {
		logging.Warn("unsupported records skipped", "path", p.path, "detail", d.String())
	}
	return out, nil
}

// Close releases resources. The file is fully read by New.
func (p *Parser) Close() error {
	return nil
}

// Document returns the decoded document.
func (p *Parser) Document() *Document {
	return p.doc
}

// Diagnostics returns the diagnostics of the last Parse call.
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diagnostics
}

// GetHeader returns the parsed file header.
func (p *Parser) GetHeader() *FileHeader {
	return p.doc.Header
}

// GetDocInfo returns the parsed document info.
func (p *Parser) GetDocInfo() *DocInfo {
	return p.doc.DocInfo
}

// IsCompressed returns true if the document is compressed.
func (p *Parser) IsCompressed() bool {
	return p.doc.Header.IsCompressed()
}

// GetVersion returns the HWP version string.
func (p *Parser) GetVersion() string {
	return p.doc.Header.Version.String()
}
