package hwp5

import (
	"encoding/binary"
	"unicode/utf16"
)

// 인라인/확장 컨트롤 하나가 차지하는 코드 단위 수 (16바이트)
const controlUnits = 8

// DecodeParaText decodes a PARA_TEXT payload. Code units are classified as:
//
//	0              skipped
//	1-9, 11-12,
//	14-23          inline or extended control, skipped with its 7 trailing units
//	10, 13         newline
//	24-31          skipped (reserved)
//	anything else  emitted
//
// A trailing odd byte is ignored. Surrogate pairs are recombined.
func DecodeParaText(data []byte) string {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+2 <= len(data); {
		c := binary.LittleEndian.Uint16(data[i:])
		switch {
		case c == 0:
			i += 2
		case c == 10 || c == 13:
			units = append(units, '\n')
			i += 2
		case isControlObject(c):
			i += controlUnits * 2
		case c < 32:
			// 24-31 예약
			i += 2
		default:
			units = append(units, c)
			i += 2
		}
	}
	return string(utf16.Decode(units))
}

func isControlObject(c uint16) bool {
	return (c >= 1 && c <= 9) || c == 11 || c == 12 || (c >= 14 && c <= 23)
}

// DecodeUTF16LE decodes UTF-16LE bytes to string, dropping trailing nulls.
func DecodeUTF16LE(data []byte) string {
	if len(data) < 2 {
		return ""
	}

	u16s := make([]uint16, len(data)/2)
	for i := 0; i < len(u16s); i++ {
		u16s[i] = binary.LittleEndian.Uint16(data[i*2:])
	}

	runes := utf16.Decode(u16s)
	for len(runes) > 0 && runes[len(runes)-1] == 0 {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
