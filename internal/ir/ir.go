// Package ir defines the Intermediate Representation shared by the readers
// (HWP 5.x, HWPX) and the writers/renderers.
package ir

// Document represents the intermediate representation of a document.
type Document struct {
	Version  string     `json:"version"`
	Metadata Metadata   `json:"metadata"`
	Sections []*Section `json:"sections"`
}

// Metadata contains document metadata.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Description string `json:"description,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Created     string `json:"created,omitempty"`
	Modified    string `json:"modified,omitempty"`
}

// Section is one body section: an ordered list of paragraph or table items.
type Section struct {
	Index   int     `json:"index"`
	Content []Block `json:"content"`
}

// BlockType represents the type of content block.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeTable     BlockType = "table"
)

// Block represents a content block in a section.
type Block struct {
	Type      BlockType   `json:"type"`
	Paragraph *Paragraph  `json:"paragraph,omitempty"`
	Table     *TableBlock `json:"table,omitempty"`
}

// NewDocument creates a new IR document with the current version.
func NewDocument() *Document {
	return &Document{
		Version:  "1.0",
		Sections: make([]*Section, 0),
	}
}

// AddSection appends an empty section and returns it.
func (d *Document) AddSection() *Section {
	s := &Section{Index: len(d.Sections), Content: make([]Block, 0)}
	d.Sections = append(d.Sections, s)
	return s
}

// AppendSection attaches a section built elsewhere, renumbering it to its
// position in d.
func (d *Document) AppendSection(s *Section) {
	s.Index = len(d.Sections)
	d.Sections = append(d.Sections, s)
}

// Blocks returns the content of every section in order.
func (d *Document) Blocks() []Block {
	var out []Block
	for _, s := range d.Sections {
		out = append(out, s.Content...)
	}
	return out
}

// AddParagraph adds a paragraph block to the section.
func (s *Section) AddParagraph(p *Paragraph) {
	s.Content = append(s.Content, Block{
		Type:      BlockTypeParagraph,
		Paragraph: p,
	})
}

// AddTable adds a table block to the section.
func (s *Section) AddTable(t *TableBlock) {
	s.Content = append(s.Content, Block{
		Type:  BlockTypeTable,
		Table: t,
	})
}
