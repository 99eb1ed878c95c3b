package program

import (
	"bytes"
	"debug/elf"
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/usedbytes/mkreu/reu"
)

// LoadableFunc decides which program headers contribute to the image.
type LoadableFunc func(prog *elf.Prog) bool

func DefaultLoadableFunc(prog *elf.Prog) bool {
	return prog.Type == elf.PT_LOAD && prog.Filesz > 0
}

type chunk struct {
	PAddr uint64
	Data  []byte
}

type byPAddr []*chunk

func (p byPAddr) Len() int           { return len(p) }
func (p byPAddr) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p byPAddr) Less(i, j int) bool { return p[i].PAddr < p[j].PAddr }

func inProg(vaddr, size uint64, prog *elf.Prog) bool {
	return (vaddr >= prog.Vaddr) && (vaddr+size <= (prog.Vaddr + prog.Memsz))
}

// LoadELF reads fname and flattens it with FlattenELF.
func LoadELF(fs afero.Fs, fname string, loadable LoadableFunc, maxLen int) (*Image, error) {
	data, err := readFile(fs, fname)
	if err != nil {
		return nil, err
	}

	img, err := FlattenELF(data, loadable, maxLen)
	if err != nil {
		return nil, errors.Wrap(err, fname)
	}

	return img, nil
}

// FlattenELF flattens the allocated sections of the loadable segments into
// one image starting at the lowest physical address. Gaps are zero-filled
// and NOBITS sections are left out. A maxLen <= 0 means math.MaxInt32.
func FlattenELF(raw []byte, loadable LoadableFunc, maxLen int) (*Image, error) {
	if maxLen <= 0 {
		maxLen = math.MaxInt32
	}

	f, err := elf.NewFile(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer f.Close()

	chunks := []*chunk{}

	for _, prog := range f.Progs {
		if !loadable(prog) {
			continue
		}

		for _, sec := range f.Sections {
			if sec.Type == elf.SHT_NOBITS || sec.Flags&elf.SHF_ALLOC == 0 {
				continue
			}

			if sec.Size > 0 && inProg(sec.Addr, sec.Size, prog) {
				progOffset := sec.Addr - prog.Vaddr
				data, err := sec.Data()
				if err != nil {
					return nil, fmt.Errorf("%w: section %s: %w", ErrRead, sec.Name, err)
				}

				chunks = append(chunks, &chunk{
					PAddr: prog.Paddr + progOffset,
					Data:  data,
				})
			}
		}
	}

	if len(chunks) == 0 {
		return nil, ErrNoLoadableData
	}

	sort.Sort(byPAddr(chunks))

	minPAddr := chunks[0].PAddr
	maxPAddr := minPAddr
	for _, c := range chunks {
		end := c.PAddr + uint64(len(c.Data))
		if end < c.PAddr {
			return nil, &reu.SizeError{Region: "program image", Len: math.MaxInt, Max: maxLen}
		}
		if end > maxPAddr {
			maxPAddr = end
		}
	}

	// Check the span before allocating it
	if span := maxPAddr - minPAddr; span > uint64(maxLen) {
		l := math.MaxInt
		if span < uint64(math.MaxInt) {
			l = int(span)
		}
		return nil, &reu.SizeError{Region: "program image", Len: l, Max: maxLen}
	}

	data := make([]byte, maxPAddr-minPAddr)

	for _, c := range chunks {
		copy(data[c.PAddr-minPAddr:], c.Data)
	}

	return &Image{
		Addr: uint32(minPAddr),
		Data: data,
	}, nil
}
