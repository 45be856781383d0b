// Package hwpx provides a parser for HWPX (Open HWPML) documents.
package hwpx

import (
	"encoding/xml"
	"path"
	"strings"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// Manifest represents the OPF package manifest (content.hpf).
type Manifest struct {
	XMLName  xml.Name       `xml:"package"`
	Metadata ManifestMeta   `xml:"metadata"`
	Items    []ManifestItem `xml:"manifest>item"`
	Spine    []SpineItem    `xml:"spine>itemref"`
}

// ManifestMeta contains document metadata from the manifest. Hancom writes
// most fields as <opf:meta name="..."> entries; the plain Dublin Core style
// elements are read as a fallback.
type ManifestMeta struct {
	Title       string      `xml:"title"`
	Creator     string      `xml:"creator"`
	Subject     string      `xml:"subject"`
	Description string      `xml:"description"`
	Publisher   string      `xml:"publisher"`
	Date        string      `xml:"date"`
	Language    string      `xml:"language"`
	Keywords    string      `xml:"keywords"`
	Meta        []MetaEntry `xml:"meta"`
}

// MetaEntry is a named <opf:meta> value.
type MetaEntry struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// ManifestItem represents a single item in the manifest.
type ManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// SpineItem represents a spine reference for reading order.
type SpineItem struct {
	IDRef string `xml:"idref,attr"`
}

// ParseManifest parses OPF-format manifest XML data.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := xml.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// meta returns the named <opf:meta> value, or fallback when it is absent
// or blank.
func (m *Manifest) meta(name, fallback string) string {
	for _, e := range m.Metadata.Meta {
		if strings.EqualFold(e.Name, name) {
			if v := strings.TrimSpace(e.Value); v != "" {
				return v
			}
		}
	}
	return fallback
}

// ToMetadata converts manifest metadata to IR metadata.
func (m *Manifest) ToMetadata() ir.Metadata {
	author := m.meta("creator", m.Metadata.Creator)
	return ir.Metadata{
		Title:       m.Metadata.Title,
		Author:      author,
		Subject:     m.meta("subject", m.Metadata.Subject),
		Description: m.meta("description", m.Metadata.Description),
		Keywords:    m.meta("keyword", m.Metadata.Keywords),
		Creator:     author,
		Created:     m.meta("CreatedDate", m.Metadata.Date),
		Modified:    m.meta("ModifiedDate", ""),
	}
}

// HeaderPath returns the href of the header part, or "" when the manifest
// does not list one.
func (m *Manifest) HeaderPath() string {
	for _, item := range m.Items {
		if strings.EqualFold(item.ID, "header") || strings.EqualFold(path.Base(item.Href), "header.xml") {
			return item.Href
		}
	}
	return ""
}

// GetSectionPaths returns ordered section file paths based on spine.
func (m *Manifest) GetSectionPaths() []string {
	// id -> item
	itemMap := make(map[string]ManifestItem)
	for _, item := range m.Items {
		itemMap[item.ID] = item
	}

	// 스파인 순서
	var paths []string
	for _, ref := range m.Spine {
		if item, ok := itemMap[ref.IDRef]; ok && isSection(item) {
			paths = append(paths, item.Href)
		}
	}

	// 스파인이 없으면 매니페스트 순서
	if len(paths) == 0 {
		for _, item := range m.Items {
			if isSection(item) {
				paths = append(paths, item.Href)
			}
		}
	}

	return paths
}

// isSection checks if a manifest item is a section file.
func isSection(item ManifestItem) bool {
	if !strings.HasSuffix(strings.ToLower(item.Href), ".xml") {
		return false
	}
	return strings.HasPrefix(strings.ToLower(item.ID), "section") ||
		strings.HasPrefix(strings.ToLower(path.Base(item.Href)), "section")
}
