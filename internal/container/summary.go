package container

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/richardlehane/msoleps"
)

// SummaryStream is the property-set stream HWP writes document metadata to.
const SummaryStream = "\x05HwpSummaryInformation"

// Summary holds the SummaryInformation properties a document carries.
type Summary struct {
	Title      string
	Subject    string
	Author     string
	Keywords   string
	Comments   string
	LastAuthor string
	Created    string
	Modified   string
}

// ReadSummary decodes the summary property set. A document without one
// yields ErrStreamNotFound.
func (c *Container) ReadSummary() (*Summary, error) {
	data, err := c.ReadStream(SummaryStream)
	if err != nil {
		return nil, err
	}

	props := msoleps.New()
	if err := props.Reset(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("decode summary information: %w", err)
	}

	s := &Summary{}
	for _, p := range props.Property {
		value := strings.TrimRight(p.String(), "\x00")
		switch p.Name {
		case "Title":
			s.Title = value
		case "Subject":
			s.Subject = value
		case "Author":
			s.Author = value
		case "Keywords":
			s.Keywords = value
		case "Comments":
			s.Comments = value
		case "LastAuthor":
			s.LastAuthor = value
		case "CreateTime":
			s.Created = value
		case "LastSaveTime":
			s.Modified = value
		}
	}
	return s, nil
}
