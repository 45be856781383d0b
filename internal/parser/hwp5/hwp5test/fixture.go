// Package hwp5test builds small HWP 5.x files for tests outside the hwp5
// package.
package hwp5test

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/roboco-io/hwp2hwpx/internal/container/containertest"
)

const (
	tagDocProps   = 0x0010
	tagFaceName   = 0x0013
	tagStyle      = 0x001A
	tagParaHeader = 0x0042
	tagParaText   = 0x0043
	tagPageDef    = 0x0049
)

// Document returns an uncompressed HWP file with one section holding one
// paragraph per text. DocInfo declares one section and a "바탕글" style.
// The section also carries a page definition record, which conversion
// reports as skipped.
func Document(texts ...string) []byte {
	var info []byte
	info = append(info, record(tagDocProps, 0, docProperties(1))...)
	info = append(info, record(tagFaceName, 1, faceName("바탕"))...)
	info = append(info, record(tagStyle, 1, style("바탕글", "Normal"))...)

	var body []byte
	body = append(body, record(tagPageDef, 1, make([]byte, 40))...)
	for _, text := range texts {
		body = append(body, record(tagParaHeader, 0, make([]byte, 22))...)
		body = append(body, record(tagParaText, 1, paraText(text))...)
	}

	return containertest.Build(map[string][]byte{
		"FileHeader":        fileHeader(),
		"DocInfo":           info,
		"BodyText/Section0": body,
	})
}

func record(tag, level uint16, data []byte) []byte {
	h := uint32(tag) | uint32(level)<<10 | uint32(len(data))<<20
	out := binary.LittleEndian.AppendUint32(nil, h)
	return append(out, data...)
}

func fileHeader() []byte {
	data := make([]byte, 256)
	copy(data, "HWP Document File")
	data[32], data[33], data[34], data[35] = 0, 3, 0, 5
	return data
}

// docProperties declares sections and starts every numbering at 1.
func docProperties(sections uint16) []byte {
	data := binary.LittleEndian.AppendUint16(nil, sections)
	for range 6 {
		data = binary.LittleEndian.AppendUint16(data, 1)
	}
	return data
}

func style(name, eng string) []byte {
	var data []byte
	for _, s := range []string{name, eng} {
		u := utf16.Encode([]rune(s))
		data = binary.LittleEndian.AppendUint16(data, uint16(len(u)))
		for _, c := range u {
			data = binary.LittleEndian.AppendUint16(data, c)
		}
	}
	// 타입, 다음 스타일, 언어, 문단 모양, 글자 모양
	return append(data, make([]byte, 8)...)
}

func faceName(name string) []byte {
	u := utf16.Encode([]rune(name))
	data := binary.LittleEndian.AppendUint16([]byte{0}, uint16(len(u)))
	for _, c := range u {
		data = binary.LittleEndian.AppendUint16(data, c)
	}
	return data
}

// paraText encodes s followed by the paragraph-end code.
func paraText(s string) []byte {
	var data []byte
	for _, c := range utf16.Encode([]rune(s)) {
		data = binary.LittleEndian.AppendUint16(data, c)
	}
	return binary.LittleEndian.AppendUint16(data, 13)
}
