package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
	"github.com/roboco-io/hwp2hwpx/internal/parser"
	"github.com/roboco-io/hwp2hwpx/internal/parser/hwp5"
	"github.com/roboco-io/hwp2hwpx/internal/parser/hwpx"
)

// detectFormat sniffs the magic bytes and falls back to the extension.
func detectFormat(path string) (parser.Format, error) {
	format, err := parser.Detect(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return format, fmt.Errorf("파일을 찾을 수 없습니다: %s", path)
	case errors.Is(err, parser.ErrUnsupported):
		return format, fmt.Errorf("지원하지 않는 파일 형식입니다: %s", filepath.Ext(path))
	}
	return format, err
}

// parseDocument reads an HWP or HWPX file into the IR.
func parseDocument(path string, opts parser.Options) (*ir.Document, parser.Format, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, format, err
	}

	var p parser.Parser
	switch format {
	case parser.FormatHWP:
		p, err = hwp5.New(path, opts)
	case parser.FormatHWPX:
		p, err = hwpx.New(path, opts)
	default:
		return nil, format, fmt.Errorf("알 수 없는 형식: %s", format)
	}
	if err != nil {
		return nil, format, err
	}
	defer p.Close()

	doc, err := p.Parse()
	if err != nil {
		return nil, format, err
	}
	return doc, format, nil
}
