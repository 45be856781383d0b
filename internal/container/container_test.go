package container

import (
	"bytes"
	"errors"
	"testing"

	"github.com/roboco-io/hwp2hwpx/internal/container/containertest"
)

func TestOpen_ListsAndReadsStreams(t *testing.T) {
	big := bytes.Repeat([]byte{0xAB}, 5000)
	image := containertest.Build(map[string][]byte{
		"FileHeader":          []byte("header"),
		"DocInfo":             []byte("docinfo"),
		"BodyText/Section0":   []byte("section zero"),
		"BodyText/Section1":   big,
		SummaryStream:         []byte("summary"),
		"BinData/BIN0001.png": {},
	})

	c, err := Open(image)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	names := c.Names()
	want := map[string]bool{
		"FileHeader":          true,
		"DocInfo":             true,
		"BodyText/Section0":   true,
		"BodyText/Section1":   true,
		SummaryStream:         true,
		"BinData/BIN0001.png": true,
	}
	if len(names) != len(want) {
		t.Fatalf("expected %d streams, got %d: %q", len(want), len(names), names)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected stream name %q", n)
		}
	}

	tests := []struct {
		name     string
		expected []byte
	}{
		{"FileHeader", []byte("header")},
		{"BodyText/Section0", []byte("section zero")},
		{"BodyText/Section1", big},
		{"/DocInfo", []byte("docinfo")},
		{SummaryStream, []byte("summary")},
		{"BinData/BIN0001.png", []byte{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := c.ReadStream(tc.name)
			if err != nil {
				t.Fatalf("ReadStream(%q) failed: %v", tc.name, err)
			}
			if !bytes.Equal(data, tc.expected) {
				t.Errorf("ReadStream(%q) returned %d bytes, want %d", tc.name, len(data), len(tc.expected))
			}
		})
	}
}

func TestOpen_InvalidImage(t *testing.T) {
	_, err := Open([]byte("definitely not a compound file, but long enough to hold a header"))
	if err == nil {
		t.Fatal("expected error for invalid image")
	}
	var cerr *ContainerError
	if !errors.As(err, &cerr) {
		t.Errorf("expected *ContainerError, got %T", err)
	}
}

func TestReadStream_NotFound(t *testing.T) {
	c, err := Open(containertest.Build(map[string][]byte{"FileHeader": []byte("x")}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	_, err = c.ReadStream("DocInfo")
	if !errors.Is(err, ErrStreamNotFound) {
		t.Fatalf("expected ErrStreamNotFound, got %v", err)
	}
	var serr *StreamError
	if !errors.As(err, &serr) || serr.Name != "DocInfo" {
		t.Errorf("expected StreamError naming DocInfo, got %v", err)
	}
	if c.Has("DocInfo") {
		t.Error("Has(DocInfo) should be false")
	}
}

func TestReadStream_LeadingSeparator(t *testing.T) {
	c := &Container{
		names:   []string{"/BodyText/Section0"},
		streams: map[string][]byte{"/BodyText/Section0": []byte("abc")},
	}

	data, err := c.ReadStream("BodyText/Section0")
	if err != nil {
		t.Fatalf("ReadStream without separator failed: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("expected 'abc', got %q", data)
	}
}

func TestReadStream_ReturnsCopy(t *testing.T) {
	c, err := Open(containertest.Build(map[string][]byte{"DocInfo": []byte("abc")}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	first, _ := c.ReadStream("DocInfo")
	first[0] = 'z'
	second, _ := c.ReadStream("DocInfo")
	if string(second) != "abc" {
		t.Errorf("container mutated through returned slice: %q", second)
	}
}

func TestReadSummary_Missing(t *testing.T) {
	c, err := Open(containertest.Build(map[string][]byte{"FileHeader": []byte("x")}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := c.ReadSummary(); !errors.Is(err, ErrStreamNotFound) {
		t.Errorf("expected ErrStreamNotFound, got %v", err)
	}
}

func TestReadSummary_Malformed(t *testing.T) {
	c, err := Open(containertest.Build(map[string][]byte{SummaryStream: []byte("short")}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := c.ReadSummary(); err == nil {
		t.Error("expected error for malformed property set")
	}
}
