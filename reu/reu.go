// SPDX-License-Identifier: MIT
// Copyright (c) 2021 Brian Starkey <stark3y@gmail.com>

// Package reu lays a program image and a device-tree blob out in a
// fixed-size Commodore 64 REU memory image.
//
// The program image sits at offset 0 and the device tree at the start of a
// reserved tail slot at the end of the image. Everything else is zero.
package reu

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	// Size is the size of a 2 MiB REU image.
	Size int = 2 * 1024 * 1024
	// DTBSize is the tail slot reserved for the device tree.
	DTBSize int = 16384
)

var (
	ErrSizeExceeded  = errors.New("size exceeded")
	ErrInvalidLayout = errors.New("invalid layout")
	ErrSizeMismatch  = errors.New("container size mismatch")
	ErrRead          = errors.New("read failed")
	ErrWrite         = errors.New("write failed")
)

type Layout struct {
	Size     int
	TailSize int
}

var DefaultLayout = Layout{
	Size:     Size,
	TailSize: DTBSize,
}

type Region struct {
	Offset int
	Length int
}

func (r Region) End() int {
	return r.Offset + r.Length
}

func (l Layout) Validate() error {
	if l.Size <= 0 || l.TailSize <= 0 || l.TailSize > l.Size {
		return errors.Wrapf(ErrInvalidLayout, "size %d, tail size %d", l.Size, l.TailSize)
	}

	return nil
}

// Head is the slot for the program image.
func (l Layout) Head() Region {
	return Region{Offset: 0, Length: l.Size - l.TailSize}
}

// Tail is the slot for the device tree.
func (l Layout) Tail() Region {
	return Region{Offset: l.Size - l.TailSize, Length: l.TailSize}
}

// SizeError reports an input which doesn't fit its slot.
type SizeError struct {
	Region string
	Len    int
	Max    int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s of %d bytes exceeds its %d byte slot", e.Region, e.Len, e.Max)
}

func (e *SizeError) Is(target error) bool {
	return target == ErrSizeExceeded
}

// Assemble builds a container of exactly layout.Size bytes with prog at the
// start of the head slot and dtb at the start of the tail slot.
func Assemble(prog, dtb []byte, layout Layout) ([]byte, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	head, tail := layout.Head(), layout.Tail()

	if len(prog) > head.Length {
		return nil, &SizeError{Region: "program image", Len: len(prog), Max: head.Length}
	}

	if len(dtb) > tail.Length {
		return nil, &SizeError{Region: "device tree", Len: len(dtb), Max: tail.Length}
	}

	// make() zero-fills, which provides both padding regions
	out := make([]byte, layout.Size)
	copy(out[head.Offset:], prog)
	copy(out[tail.Offset:], dtb)

	return out, nil
}

// Split returns the head and tail slots of an existing container. The
// returned slices alias container.
func Split(container []byte, layout Layout) ([]byte, []byte, error) {
	if err := layout.Validate(); err != nil {
		return nil, nil, err
	}

	if len(container) != layout.Size {
		return nil, nil, errors.Wrapf(ErrSizeMismatch, "got %d bytes, want %d", len(container), layout.Size)
	}

	head, tail := layout.Head(), layout.Tail()

	return container[head.Offset:head.End()], container[tail.Offset:tail.End()], nil
}

// TrimZeros strips trailing zero bytes.
func TrimZeros(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}

	return b[:end]
}
