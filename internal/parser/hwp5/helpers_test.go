package hwp5

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"encoding/binary"
	"unicode/utf16"
)

// encodeRecord builds a record with an inline or extended size.
func encodeRecord(tag, level uint16, data []byte) []byte {
	var out []byte
	if len(data) >= extendedSize {
		h := uint32(tag) | uint32(level)<<10 | extendedSize<<20
		out = binary.LittleEndian.AppendUint32(out, h)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(data)))
	} else {
		h := uint32(tag) | uint32(level)<<10 | uint32(len(data))<<20
		out = binary.LittleEndian.AppendUint32(out, h)
	}
	return append(out, data...)
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// units encodes raw UTF-16 code units as little-endian bytes.
func units(us ...uint16) []byte {
	out := make([]byte, 0, len(us)*2)
	for _, u := range us {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return out
}

func utf16le(s string) []byte {
	return units(utf16.Encode([]rune(s))...)
}

// paraText encodes s followed by the paragraph-end code.
func paraText(s string) []byte {
	return append(utf16le(s), units(13)...)
}

func fileHeaderBytes(flags uint32) []byte {
	data := make([]byte, FileHeaderSize)
	copy(data, Signature)
	data[32], data[33], data[34], data[35] = 0, 3, 0, 5
	binary.LittleEndian.PutUint32(data[36:], flags)
	return data
}

func charShapeData(fontRef uint16, height, attrs, color uint32) []byte {
	data := make([]byte, minCharShapeSize)
	for i := 0; i < 7; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], fontRef)
	}
	binary.LittleEndian.PutUint32(data[70:], height)
	binary.LittleEndian.PutUint32(data[74:], attrs)
	binary.LittleEndian.PutUint32(data[82:], color)
	return data
}

func paraShapeData(align, lineSpacing uint32) []byte {
	data := make([]byte, paraShapeLSSize)
	binary.LittleEndian.PutUint32(data[0:], align<<2)
	binary.LittleEndian.PutUint32(data[20:], lineSpacing)
	return data
}

func faceNameData(name string) []byte {
	u := utf16.Encode([]rune(name))
	data := []byte{0}
	data = binary.LittleEndian.AppendUint16(data, uint16(len(u)))
	return append(data, units(u...)...)
}

func paraHeaderData(paraShapeID uint32) []byte {
	data := make([]byte, 22)
	binary.LittleEndian.PutUint32(data[4:], paraShapeID)
	return data
}

// ctrlHeaderData stores id the way the format does: as a little-endian u32.
func ctrlHeaderData(id string) []byte {
	data := make([]byte, 8)
	data[0], data[1], data[2], data[3] = id[3], id[2], id[1], id[0]
	return data
}

func tableData(rows, cols uint16) []byte {
	data := make([]byte, 18)
	binary.LittleEndian.PutUint16(data[4:], rows)
	binary.LittleEndian.PutUint16(data[6:], cols)
	return data
}

func charShapeRangeData(pairs ...uint32) []byte {
	var out []byte
	for _, v := range pairs {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

func deflateRaw(data []byte) []byte {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.DefaultCompression)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

func zlibCompress(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}
