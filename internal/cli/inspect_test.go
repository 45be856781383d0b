package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
	writer "github.com/roboco-io/hwp2hwpx/internal/writer/hwpx"
)

func TestInspectFile_HWP(t *testing.T) {
	path := writeHWP(t, "doc.hwp", "하나", "둘")

	r, err := inspectFile(path)
	if err != nil {
		t.Fatalf("inspectFile() error = %v", err)
	}

	if r.Format != "hwp" || r.Version != "5.0.3.0" || r.Error != "" {
		t.Errorf("unexpected report: %+v", r)
	}
	if r.Properties == nil || r.Properties.Compressed || r.Properties.Encrypted {
		t.Errorf("unexpected properties: %+v", r.Properties)
	}
	if r.Sections != 1 || r.Paragraphs != 2 || r.Tables != 0 {
		t.Errorf("counts = %d/%d/%d", r.Sections, r.Paragraphs, r.Tables)
	}
	if len(r.Digest) != 64 {
		t.Errorf("digest %q is not a hex BLAKE3-256", r.Digest)
	}

	names := make(map[string]bool)
	for _, s := range r.Streams {
		names[s.Name] = true
		if s.Digest == "" {
			t.Errorf("stream %s has no digest", s.Name)
		}
	}
	for _, want := range []string{"FileHeader", "DocInfo", "BodyText/Section0"} {
		if !names[want] {
			t.Errorf("missing stream %s in %+v", want, r.Streams)
		}
	}

	if len(r.Diagnostics) != 1 || r.Diagnostics[0].Skipped[0].Name != "PAGE_DEF" {
		t.Errorf("diagnostics = %+v", r.Diagnostics)
	}
}

func TestInspectFile_HWPDocInfo(t *testing.T) {
	r, err := inspectFile(writeHWP(t, "doc.hwp", "본문"))
	if err != nil {
		t.Fatalf("inspectFile() error = %v", err)
	}

	if r.Layout == nil {
		t.Fatal("document properties not reported")
	}
	if r.Layout.Sections != 1 || r.Layout.PageStart != 1 || r.Layout.EquationStart != 1 {
		t.Errorf("layout = %+v", r.Layout)
	}
	if len(r.Styles) != 1 || r.Styles[0] != "바탕글 (Normal)" {
		t.Errorf("styles = %q", r.Styles)
	}

	var buf bytes.Buffer
	writeInspectText(&buf, r)
	out := buf.String()
	for _, want := range []string{"선언된 구역: 1\n", "시작 번호: 쪽 1,", "스타일 1개: 바탕글 (Normal)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// 선언과 본문 스트림 수가 다르면 표시
	r.Sections = 2
	buf.Reset()
	writeInspectText(&buf, r)
	if !strings.Contains(buf.String(), "본문 스트림 2개와 불일치") {
		t.Errorf("mismatch not shown:\n%s", buf.String())
	}
}

func TestInspectFile_HWPX(t *testing.T) {
	doc := ir.NewDocument()
	doc.Metadata.Title = "패키지"
	s := doc.AddSection()
	s.AddParagraph(&ir.Paragraph{Text: "본문"})
	s.AddTable(ir.NewTableFromCells([]string{"a", "b"}, 2))

	path := filepath.Join(t.TempDir(), "doc.hwpx")
	if err := writer.New().WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	r, err := inspectFile(path)
	if err != nil {
		t.Fatalf("inspectFile() error = %v", err)
	}
	if r.Format != "hwpx" || r.Error != "" {
		t.Fatalf("unexpected report: %+v", r)
	}
	if len(r.Streams) == 0 || r.Streams[0].Name != "mimetype" {
		t.Errorf("first entry should be mimetype: %+v", r.Streams)
	}
	if r.Metadata.Title != "패키지" || r.Paragraphs != 1 || r.Tables != 1 {
		t.Errorf("unexpected report: %+v", r)
	}
}

func TestRunInspect_Output(t *testing.T) {
	a := writeHWP(t, "a.hwp", "x")
	b := writeHWP(t, "b.hwp", "y")

	tests := []struct {
		name   string
		asJSON bool
		check  func(t *testing.T, out string)
	}{
		{
			name: "text",
			check: func(t *testing.T, out string) {
				for _, want := range []string{"a.hwp (hwp,", "b.hwp (hwp,", "blake3:", `"BodyText/Section0"`, "건너뜀: section 0"} {
					if !strings.Contains(out, want) {
						t.Errorf("output missing %q:\n%s", want, out)
					}
				}
			},
		},
		{
			name:   "json",
			asJSON: true,
			check: func(t *testing.T, out string) {
				var reports []inspectReport
				if err := json.Unmarshal([]byte(out), &reports); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				if len(reports) != 2 || reports[1].Path != b {
					t.Errorf("reports = %+v", reports)
				}
				if reports[0].Layout == nil || reports[0].Layout.Sections != 1 || len(reports[0].Styles) != 1 {
					t.Errorf("DocInfo fields missing from JSON: %+v", reports[0])
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inspectJSON = tc.asJSON
			defer func() { inspectJSON = false }()

			var buf bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&buf)
			if err := runInspect(cmd, []string{a, b}); err != nil {
				t.Fatalf("runInspect() error = %v", err)
			}
			tc.check(t, buf.String())
		})
	}
}

func TestFormatOutput(t *testing.T) {
	doc := ir.NewDocument()
	doc.AddSection().AddTable(ir.NewTableFromCells([]string{"가", "b"}, 2))

	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"json", `"cells":[[`, false},
		{"text", "| 가 | b |", false},
		{"yaml", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			got, err := formatOutput(doc, tc.format, false)
			if (err != nil) != tc.wantErr {
				t.Fatalf("formatOutput() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !strings.Contains(string(got), tc.want) {
				t.Errorf("formatOutput() = %s, want %q", got, tc.want)
			}
		})
	}
}
