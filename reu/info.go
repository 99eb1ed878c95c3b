package reu

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	FDTMagic      uint32 = 0xd00dfeed
	fdtHeaderSize int    = 40
)

var ErrNotFDT = errors.New("not a flattened device tree")

// FDTHeader is the fixed part of a flattened device tree header. All
// fields are big-endian on disk.
type FDTHeader struct {
	Magic           uint32
	TotalSize       uint32
	OffDtStruct     uint32
	OffDtStrings    uint32
	OffMemRsvmap    uint32
	Version         uint32
	LastCompVersion uint32
	BootCPUIDPhys   uint32
	SizeDtStrings   uint32
	SizeDtStruct    uint32
}

func ParseFDTHeader(b []byte) (FDTHeader, error) {
	if len(b) < fdtHeaderSize {
		return FDTHeader{}, errors.Wrapf(ErrNotFDT, "%d bytes is too short for a header", len(b))
	}

	var f [10]uint32
	for i := range f {
		f[i] = binary.BigEndian.Uint32(b[i*4:])
	}

	if f[0] != FDTMagic {
		return FDTHeader{}, errors.Wrapf(ErrNotFDT, "bad magic 0x%08x", f[0])
	}

	return FDTHeader{
		Magic:           f[0],
		TotalSize:       f[1],
		OffDtStruct:     f[2],
		OffDtStrings:    f[3],
		OffMemRsvmap:    f[4],
		Version:         f[5],
		LastCompVersion: f[6],
		BootCPUIDPhys:   f[7],
		SizeDtStrings:   f[8],
		SizeDtStruct:    f[9],
	}, nil
}

// Info describes the contents of a container.
type Info struct {
	Layout Layout
	// Used bytes in each slot, up to and including the last non-zero byte.
	HeadUsed int
	TailUsed int
	// FDT is nil if the tail slot doesn't start with a device tree.
	FDT *FDTHeader
}

func Describe(container []byte, layout Layout) (Info, error) {
	head, tail, err := Split(container, layout)
	if err != nil {
		return Info{}, err
	}

	info := Info{
		Layout:   layout,
		HeadUsed: len(TrimZeros(head)),
		TailUsed: len(TrimZeros(tail)),
	}

	if hdr, err := ParseFDTHeader(tail); err == nil {
		info.FDT = &hdr
	}

	return info, nil
}

// DTB returns the device tree held in the tail slot, cut to the size its
// header declares. Without a header the zero-trimmed slot is returned.
func DTB(tail []byte) []byte {
	hdr, err := ParseFDTHeader(tail)
	if err != nil || int(hdr.TotalSize) > len(tail) {
		return TrimZeros(tail)
	}

	return tail[:hdr.TotalSize]
}
