package scanner

import (
	"encoding/binary"
	"fmt"
)

// Binary header layouts for the two container formats the scan
// recognizes. Only the fields needed to classify known-bad patterns are
// decoded; this is not a general-purpose parser.

const (
	// ArchiveHeaderLen is the number of bytes read from an archive file.
	ArchiveHeaderLen = 12
	// TextureHeaderLen is the number of bytes read from a DDS file.
	TextureHeaderLen = 20

	archiveMagic  = "BTDX"
	formatGeneral = "GNRL"
	formatTexture = "DX10"
	textureMagic  = "DDS "
)

// ArchiveKind classifies an archive header's format tag.
type ArchiveKind int

const (
	// ArchiveUnknown marks a header whose magic or format tag is
	// unrecognized. This is itself an issue, not an error.
	ArchiveUnknown ArchiveKind = iota
	// ArchiveGeneral marks a BTDX-GNRL archive (line-per-entry listing).
	ArchiveGeneral
	// ArchiveTexture marks a BTDX-DX10 archive (block-per-texture dump).
	ArchiveTexture
)

// ArchiveHeader is the decoded 12-byte archive container header.
type ArchiveHeader struct {
	Magic  [4]byte // offset 0
	Format [4]byte // offset 8
	Raw    [ArchiveHeaderLen]byte
}

// DecodeArchiveHeader decodes the first 12 bytes of an archive file.
func DecodeArchiveHeader(b []byte) (ArchiveHeader, error) {
	if len(b) < ArchiveHeaderLen {
		return ArchiveHeader{}, fmt.Errorf("archive header too short: %d bytes", len(b))
	}
	var h ArchiveHeader
	copy(h.Raw[:], b[:ArchiveHeaderLen])
	copy(h.Magic[:], b[0:4])
	copy(h.Format[:], b[8:12])
	return h, nil
}

// Kind reports which known container kind the header describes, or
// ArchiveUnknown when the magic or format tag does not match.
func (h ArchiveHeader) Kind() ArchiveKind {
	if string(h.Magic[:]) != archiveMagic {
		return ArchiveUnknown
	}
	switch string(h.Format[:]) {
	case formatGeneral:
		return ArchiveGeneral
	case formatTexture:
		return ArchiveTexture
	default:
		return ArchiveUnknown
	}
}

// TextureHeader carries the pixel dimensions decoded from a DDS header.
// Divisible-by-2 is the only validity predicate the scan checks.
type TextureHeader struct {
	Width  uint32 // uint32 little-endian at offset 12
	Height uint32 // uint32 little-endian at offset 16
}

// DecodeTextureHeader decodes the first 20 bytes of a texture file. ok is
// false when the magic does not match the DDS tag; such files are not
// recognized texture containers and are silently skipped by callers.
func DecodeTextureHeader(b []byte) (hdr TextureHeader, ok bool, err error) {
	if len(b) < TextureHeaderLen {
		return TextureHeader{}, false, fmt.Errorf("texture header too short: %d bytes", len(b))
	}
	if string(b[0:4]) != textureMagic {
		return TextureHeader{}, false, nil
	}
	hdr.Width = binary.LittleEndian.Uint32(b[12:16])
	hdr.Height = binary.LittleEndian.Uint32(b[16:20])
	return hdr, true, nil
}

// OddDimensions reports whether either dimension fails the
// divisible-by-2 check.
func (h TextureHeader) OddDimensions() bool {
	return h.Width%2 != 0 || h.Height%2 != 0
}
