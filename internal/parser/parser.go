// Package parser defines the reader interface shared by the HWP 5.x and HWPX
// readers, plus format detection.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// Parser reads one document into the IR.
type Parser interface {
	Parse() (*ir.Document, error)
	Close() error
}

// Options are shared by both readers.
type Options struct {
	// SkipEmptyParagraphs drops paragraphs without text. Off by default so
	// that converted documents keep their vertical spacing.
	SkipEmptyParagraphs bool
}

// DefaultOptions keeps every paragraph.
func DefaultOptions() Options {
	return Options{}
}

// Format identifies an input container.
type Format int

const (
	FormatUnknown Format = iota
	FormatHWPX
	FormatHWP // HWP 5.x compound file
)

func (f Format) String() string {
	switch f {
	case FormatHWPX:
		return "hwpx"
	case FormatHWP:
		return "hwp"
	}
	return "unknown"
}

// ErrUnsupported is returned by Detect when neither the content nor the
// file name identifies a known format.
var ErrUnsupported = errors.New("unsupported document format")

var (
	zipMagic      = []byte("PK\x03\x04")
	zipEmptyMagic = []byte("PK\x05\x06")
	cfbMagic      = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// sniffLen covers the longest magic above.
const sniffLen = 8

// Sniff identifies the format from the leading bytes of r. It returns
// FormatUnknown without error for content it does not recognise.
func Sniff(r io.ReaderAt) (Format, error) {
	buf := make([]byte, sniffLen)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("file too small to detect format (%d bytes)", n)
	}
	buf = buf[:n]

	switch {
	case bytes.HasPrefix(buf, zipMagic), bytes.HasPrefix(buf, zipEmptyMagic):
		return FormatHWPX, nil
	case bytes.HasPrefix(buf, cfbMagic[:4]):
		// 일부 도구는 CFB 헤더 뒤쪽 4바이트를 0으로 쓴다
		return FormatHWP, nil
	}
	return FormatUnknown, nil
}

// FromExtension maps a file name to a format by extension alone.
func FromExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hwpx":
		return FormatHWPX
	case ".hwp", ".hwp5":
		return FormatHWP
	}
	return FormatUnknown
}

// Detect opens path and identifies its format. Content wins over the
// extension, so a renamed file is still read correctly.
func Detect(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	if format, err := Sniff(f); err == nil && format != FormatUnknown {
		return format, nil
	}
	if format := FromExtension(path); format != FormatUnknown {
		return format, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}
