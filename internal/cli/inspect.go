package cli

import (
	"archive/zip"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"

	"github.com/roboco-io/hwp2hwpx/internal/container"
	"github.com/roboco-io/hwp2hwpx/internal/ir"
	"github.com/roboco-io/hwp2hwpx/internal/parser"
	"github.com/roboco-io/hwp2hwpx/internal/parser/hwp5"
	"github.com/roboco-io/hwp2hwpx/internal/parser/hwpx"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>...",
	Short: "HWP/HWPX 문서 구조 점검",
	Long: `문서의 스트림(또는 패키지 항목) 목록과 크기, BLAKE3 해시,
파일 헤더 속성, 요약 정보, DocInfo의 구역 수와 스타일,
변환 중 건너뛴 레코드를 표시합니다.

예시:
  hwp2hwpx inspect document.hwp
  hwp2hwpx inspect a.hwp b.hwpx --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "JSON 으로 출력")

	rootCmd.AddCommand(inspectCmd)
}

// inspectReport describes one input file.
type inspectReport struct {
	Path        string            `json:"path"`
	Format      string            `json:"format"`
	Size        uint64            `json:"size"`
	Digest      string            `json:"blake3"`
	Version     string            `json:"version,omitempty"`
	Properties  *hwp5.Properties  `json:"properties,omitempty"`
	Metadata    ir.Metadata       `json:"metadata"`
	Layout      *layoutInfo       `json:"layout,omitempty"`
	Styles      []string          `json:"styles,omitempty"`
	Streams     []streamInfo      `json:"streams"`
	Sections    int               `json:"sections"`
	Paragraphs  int               `json:"paragraphs"`
	Tables      int               `json:"tables"`
	Diagnostics []hwp5.Diagnostic `json:"diagnostics,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// layoutInfo is the section count and start numbers declared in DocInfo.
type layoutInfo struct {
	Sections      int `json:"sections"`
	PageStart     int `json:"page_start"`
	FootnoteStart int `json:"footnote_start"`
	EndnoteStart  int `json:"endnote_start"`
	PictureStart  int `json:"picture_start"`
	TableStart    int `json:"table_start"`
	EquationStart int `json:"equation_start"`
}

// streamInfo is one compound-file stream or package entry.
type streamInfo struct {
	Name   string `json:"name"`
	Size   uint64 `json:"size"`
	Digest string `json:"blake3"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	reports := make([]*inspectReport, 0, len(args))
	for _, path := range args {
		r, err := inspectFile(path)
		if err != nil {
			return err
		}
		reports = append(reports, r)
	}

	out := cmd.OutOrStdout()
	if inspectJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(out)
		}
		writeInspectText(out, r)
	}
	return nil
}

// inspectFile reads path and reports on it. Decoding failures are recorded
// in the report; only an unreadable or unrecognised file is an error.
func inspectFile(path string) (*inspectReport, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r := &inspectReport{
		Path:   path,
		Format: format.String(),
		Size:   uint64(len(data)),
		Digest: digest(data),
	}

	switch format {
	case parser.FormatHWP:
		inspectHWP(r, data)
	case parser.FormatHWPX:
		inspectHWPX(r, data)
	}
	return r, nil
}

func inspectHWP(r *inspectReport, data []byte) {
	c, err := container.Open(data)
	if err != nil {
		r.Error = err.Error()
		return
	}
	for _, name := range c.Names() {
		payload, err := c.ReadStream(name)
		if err != nil {
			continue
		}
		r.Streams = append(r.Streams, streamInfo{Name: name, Size: uint64(len(payload)), Digest: digest(payload)})
	}

	// 암호화 문서도 헤더는 보여 준다
	if raw, err := c.ReadStream(hwp5.StreamFileHeader); err == nil {
		if h, err := hwp5.ParseFileHeader(raw); err == nil {
			props := h.Properties()
			r.Version = h.Version.String()
			r.Properties = &props
		}
	}

	doc, err := hwp5.Decode(data)
	if err != nil {
		r.Error = err.Error()
		return
	}
	inspectDocInfo(r, doc.DocInfo)
	out, diags := doc.ToIR(parser.DefaultOptions())
	r.Metadata = out.Metadata
	r.Diagnostics = diags
	countBlocks(r, out)
}

func inspectDocInfo(r *inspectReport, info *hwp5.DocInfo) {
	if info == nil {
		return
	}
	if p := info.Properties; p != nil {
		r.Layout = &layoutInfo{
			Sections:      int(p.SectionCount),
			PageStart:     int(p.PageStartNum),
			FootnoteStart: int(p.FootnoteStart),
			EndnoteStart:  int(p.EndnoteStart),
			PictureStart:  int(p.PictureStart),
			TableStart:    int(p.TableStart),
			EquationStart: int(p.EquationStart),
		}
	}
	for _, st := range info.Styles {
		name := st.Name
		if st.EngName != "" {
			name += " (" + st.EngName + ")"
		}
		r.Styles = append(r.Styles, name)
	}
}

func inspectHWPX(r *inspectReport, data []byte) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		r.Error = err.Error()
		return
	}
	for _, f := range zr.File {
		info := streamInfo{Name: f.Name, Size: f.UncompressedSize64}
		if rc, err := f.Open(); err == nil {
			payload, err := io.ReadAll(rc)
			rc.Close()
			if err == nil {
				info.Digest = digest(payload)
			}
		}
		r.Streams = append(r.Streams, info)
	}

	p, err := hwpx.NewFromReader(bytes.NewReader(data), int64(len(data)), parser.DefaultOptions())
	if err != nil {
		r.Error = err.Error()
		return
	}
	defer p.Close()
	out, err := p.Parse()
	if err != nil {
		r.Error = err.Error()
		return
	}
	r.Version = out.Version
	r.Metadata = out.Metadata
	countBlocks(r, out)
}

func countBlocks(r *inspectReport, doc *ir.Document) {
	r.Sections = len(doc.Sections)
	for _, b := range doc.Blocks() {
		switch b.Type {
		case ir.BlockTypeParagraph:
			r.Paragraphs++
		case ir.BlockTypeTable:
			r.Tables++
		}
	}
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func writeInspectText(out io.Writer, r *inspectReport) {
	fmt.Fprintf(out, "%s (%s, %s)\n", r.Path, r.Format, humanize.Bytes(r.Size))
	fmt.Fprintf(out, "  blake3: %s\n", r.Digest)
	if r.Version != "" {
		fmt.Fprintf(out, "  버전: %s\n", r.Version)
	}
	if p := r.Properties; p != nil {
		fmt.Fprintf(out, "  압축: %t  암호: %t  배포용: %t  스크립트: %t  DRM: %t  이력: %t  전자서명: %t\n",
			p.Compressed, p.Encrypted, p.Distribution, p.HasScript, p.DRM, p.HasHistory, p.HasCertSign)
	}
	if m := r.Metadata; m.Title != "" || m.Author != "" {
		fmt.Fprintf(out, "  제목: %s\n  작성자: %s\n", m.Title, m.Author)
	}
	if r.Error != "" {
		fmt.Fprintf(out, "  오류: %s\n", r.Error)
	} else {
		fmt.Fprintf(out, "  구역 %s개, 문단 %s개, 표 %s개\n",
			humanize.Comma(int64(r.Sections)), humanize.Comma(int64(r.Paragraphs)), humanize.Comma(int64(r.Tables)))
	}
	if l := r.Layout; l != nil {
		fmt.Fprintf(out, "  선언된 구역: %d", l.Sections)
		if r.Error == "" && l.Sections != r.Sections {
			fmt.Fprintf(out, " (본문 스트림 %d개와 불일치)", r.Sections)
		}
		fmt.Fprintf(out, "\n  시작 번호: 쪽 %d, 각주 %d, 미주 %d, 그림 %d, 표 %d, 수식 %d\n",
			l.PageStart, l.FootnoteStart, l.EndnoteStart, l.PictureStart, l.TableStart, l.EquationStart)
	}
	if len(r.Styles) > 0 {
		fmt.Fprintf(out, "  스타일 %d개: %s\n", len(r.Styles), strings.Join(r.Styles, ", "))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  스트림\t크기\tblake3")
	for _, s := range r.Streams {
		short := s.Digest
		if len(short) > 16 {
			short = short[:16]
		}
		fmt.Fprintf(w, "  %q\t%s\t%s\n", s.Name, humanize.Bytes(s.Size), short)
	}
	w.Flush()

	for _, d := range r.Diagnostics {
		fmt.Fprintf(out, "  건너뜀: %s\n", d.String())
	}
}
