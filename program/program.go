// SPDX-License-Identifier: MIT
// Copyright (c) 2021 Brian Starkey <stark3y@gmail.com>
package program

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var (
	ErrRead           = errors.New("read failed")
	ErrNoLoadableData = errors.New("no loadable data")
	ErrUnknownFormat  = errors.New("unknown format")
)

type Format string

const (
	// FormatBin takes the file verbatim, whatever it contains.
	FormatBin  Format = "bin"
	FormatELF  Format = "elf"
	FormatAuto Format = "auto"
)

var Formats = []string{string(FormatBin), string(FormatELF), string(FormatAuto)}

type Image struct {
	// Addr is the load address of Data[0]. Raw binaries load at 0.
	Addr uint32
	Data []byte
}

func (img *Image) Len() int {
	return len(img.Data)
}

func readError(fname string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRead, fname, err)
}

func readFile(fs afero.Fs, fname string) ([]byte, error) {
	f, err := fs.Open(fname)
	if err != nil {
		return nil, readError(fname, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, readError(fname, err)
	}

	return data, nil
}

// IsELF reports whether data starts with the ELF magic.
func IsELF(data []byte) bool {
	return bytes.HasPrefix(data, []byte(elf.ELFMAG))
}

// Load reads fname once and interprets it as format. ELF images whose
// flattened span exceeds maxLen are rejected before anything is allocated.
func Load(fs afero.Fs, fname string, format Format, maxLen int) (*Image, error) {
	data, err := readFile(fs, fname)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatBin, "":
		return &Image{Data: data}, nil
	case FormatELF:
	case FormatAuto:
		if !IsELF(data) {
			return &Image{Data: data}, nil
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}

	img, err := FlattenELF(data, DefaultLoadableFunc, maxLen)
	if err != nil {
		return nil, errors.Wrap(err, fname)
	}

	return img, nil
}
