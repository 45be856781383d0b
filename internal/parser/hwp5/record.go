package hwp5

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
)

// 확장 크기 표시 값
const extendedSize = 0xFFF

// Record는 HWP 5.x 레코드 구조체
// 참조: HWP 5.0 명세서 2.3 레코드 구조
type Record struct {
	TagID  uint16 // 레코드 종류 (10비트)
	Level  uint16 // 논리적 계층 (10비트)
	Offset int    // 스트림 내 데이터 시작 위치
	Data   []byte // 레코드 데이터 (복사본)
}

// RecordHeader는 4바이트 레코드 헤더
// 구조: [TagID:10비트][Level:10비트][Size:12비트]
type RecordHeader uint32

// ParseRecordHeader parses the 4-byte record header.
func ParseRecordHeader(data []byte) RecordHeader {
	return RecordHeader(binary.LittleEndian.Uint32(data))
}

// TagID returns the tag ID (10 bits).
func (h RecordHeader) TagID() uint16 {
	return uint16(h & 0x3FF)
}

// Level returns the nesting level (10 bits).
func (h RecordHeader) Level() uint16 {
	return uint16((h >> 10) & 0x3FF)
}

// Size returns the data size (12 bits).
// If size is 0xFFF (4095), the actual size follows in the next 4 bytes.
func (h RecordHeader) Size() uint16 {
	return uint16((h >> 20) & 0xFFF)
}

// RecordReader reads records from a stream.
type RecordReader struct {
	data   []byte
	offset int
}

// NewRecordReader creates a new record reader from raw stream data.
func NewRecordReader(data []byte) *RecordReader {
	return &RecordReader{data: data}
}

// Read reads the next record. A truncated header, extended size or payload
// is reported as an error and leaves the reader positioned at the bad record.
func (r *RecordReader) Read() (Record, error) {
	if r.offset >= len(r.data) {
		return Record{}, io.EOF
	}

	// 최소 4바이트(헤더) 필요
	pos := r.offset
	if pos+4 > len(r.data) {
		return Record{}, fmt.Errorf("incomplete record header at offset %d", pos)
	}
	header := ParseRecordHeader(r.data[pos : pos+4])
	pos += 4

	// 크기 결정
	size := uint32(header.Size())
	if size == extendedSize {
		// 확장 크기: 다음 4바이트에서 실제 크기 읽기
		if pos+4 > len(r.data) {
			return Record{}, fmt.Errorf("incomplete extended size at offset %d", pos)
		}
		size = binary.LittleEndian.Uint32(r.data[pos : pos+4])
		pos += 4
	}

	if uint64(size) > uint64(len(r.data)-pos) {
		return Record{}, fmt.Errorf("incomplete record data at offset %d: need %d bytes, have %d",
			pos, size, len(r.data)-pos)
	}

	// 원본 버퍼를 참조하지 않도록 복사
	payload := make([]byte, size)
	copy(payload, r.data[pos:pos+int(size)])
	r.offset = pos + int(size)

	return Record{
		TagID:  header.TagID(),
		Level:  header.Level(),
		Offset: pos,
		Data:   payload,
	}, nil
}

// ReadAll reads records until the end of the stream or the first malformed
// record. Records decoded before the failure are returned with the error.
func (r *RecordReader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// DecodeRecords splits a record stream into records. It never fails: decoding
// stops at the first malformed record and whatever came before it is returned.
func DecodeRecords(data []byte) []Record {
	records, _ := NewRecordReader(data).ReadAll()
	return records
}

// Decompress inflates a stream when the document is flagged compressed.
// Raw deflate is tried first, then zlib; if both fail the input is returned
// unchanged, since some files flag uncompressed streams as compressed.
func Decompress(data []byte, compressed bool) []byte {
	if !compressed {
		return data
	}
	if out, err := inflate(flate.NewReader(bytes.NewReader(data))); err == nil {
		return out
	}
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err == nil {
		if out, err := inflate(zr); err == nil {
			return out
		}
	}
	return data
}

func inflate(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}
