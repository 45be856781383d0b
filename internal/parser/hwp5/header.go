package hwp5

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/korean"
)

// FileHeader는 HWP 5.x 파일 헤더 구조체
// 참조: HWP 5.0 명세서 2.1 파일 인식 정보
type FileHeader struct {
	Signature string  // 파일 시그니처 "HWP Document File"
	Version   Version // 파일 버전
	Flags     uint32  // 속성 플래그
}

// Version은 HWP 파일 버전 (예: 5.0.3.0)
type Version struct {
	Major    uint8
	Minor    uint8
	Build    uint8
	Revision uint8
}

// String returns version string like "5.0.3.0"
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// Properties is the decoded property bit set of a FileHeader.
type Properties struct {
	Compressed     bool `json:"compressed"`
	Encrypted      bool `json:"encrypted"`
	Distribution   bool `json:"distribution"`
	HasScript      bool `json:"has_script"`
	DRM            bool `json:"drm"`
	HasXMLTemplate bool `json:"has_xml_template"`
	HasHistory     bool `json:"has_history"`
	HasCertSign    bool `json:"has_cert_sign"`
	CertEncrypted  bool `json:"cert_encrypted"`
	CertDRM        bool `json:"cert_drm"`
	HasCCL         bool `json:"has_ccl"`
}

// ParseFileHeader parses the FileHeader from raw bytes. The signature is
// decoded as EUC-KR and compared up to its first null byte.
func ParseFileHeader(data []byte) (*FileHeader, error) {
	if len(data) < FileHeaderSize {
		return nil, fmt.Errorf("%w: file header too small: %d bytes", ErrInvalidSignature, len(data))
	}

	// 시그니처 (32 bytes)
	raw := data[0:32]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	sig, err := korean.EUCKR.NewDecoder().Bytes(raw)
	if err != nil || string(sig) != Signature {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSignature, sig)
	}

	h := &FileHeader{Signature: string(sig)}

	// 버전 (4 bytes, little-endian)
	// 포맷: [Revision][Build][Minor][Major]
	h.Version.Revision = data[32]
	h.Version.Build = data[33]
	h.Version.Minor = data[34]
	h.Version.Major = data[35]

	// 속성 플래그 (4 bytes, little-endian)
	h.Flags = binary.LittleEndian.Uint32(data[36:40])

	return h, nil
}

// Properties expands the flag word into named properties.
func (h *FileHeader) Properties() Properties {
	return Properties{
		Compressed:     h.IsCompressed(),
		Encrypted:      h.IsEncrypted(),
		Distribution:   h.IsDistributable(),
		HasScript:      h.HasScript(),
		DRM:            h.HasDRM(),
		HasXMLTemplate: h.HasXMLTemplate(),
		HasHistory:     h.HasHistory(),
		HasCertSign:    h.HasSignature(),
		CertEncrypted:  h.IsCertEncrypted(),
		CertDRM:        h.HasCertDRM(),
		HasCCL:         h.IsCCL(),
	}
}

// IsCompressed returns true if the document is compressed.
func (h *FileHeader) IsCompressed() bool {
	return h.Flags&FlagCompressed != 0
}

// IsEncrypted returns true if the document is encrypted.
func (h *FileHeader) IsEncrypted() bool {
	return h.Flags&FlagEncrypted != 0
}

// IsDistributable returns true if this is a distribution document.
func (h *FileHeader) IsDistributable() bool {
	return h.Flags&FlagDistributable != 0
}

// HasScript returns true if the document contains scripts.
func (h *FileHeader) HasScript() bool {
	return h.Flags&FlagScript != 0
}

// HasDRM returns true if the document has DRM protection.
func (h *FileHeader) HasDRM() bool {
	return h.Flags&FlagDRM != 0
}

// HasXMLTemplate returns true if the document contains XML templates.
func (h *FileHeader) HasXMLTemplate() bool {
	return h.Flags&FlagXMLTemplate != 0
}

// HasHistory returns true if the document has revision history.
func (h *FileHeader) HasHistory() bool {
	return h.Flags&FlagHistory != 0
}

// HasSignature returns true if the document has a digital signature.
func (h *FileHeader) HasSignature() bool {
	return h.Flags&FlagSignature != 0
}

// IsCertEncrypted returns true if encrypted with certificate.
func (h *FileHeader) IsCertEncrypted() bool {
	return h.Flags&FlagCertEncrypt != 0
}

// HasCertDRM returns true if the document uses certificate DRM.
func (h *FileHeader) HasCertDRM() bool {
	return h.Flags&FlagCertDRM != 0
}

// IsCCL returns true if this is a CCL document.
func (h *FileHeader) IsCCL() bool {
	return h.Flags&FlagCCL != 0
}
