package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/usedbytes/mkreu/reu"
)

func info(fs afero.Fs, out io.Writer, layout reu.Layout, fname string) error {
	data, err := reu.ReadFile(fs, fname)
	if err != nil {
		return err
	}

	inf, err := reu.Describe(data, layout)
	if err != nil {
		return err
	}

	head, tail := layout.Head(), layout.Tail()

	fmt.Fprintf(out, "Image:    %s (%s)\n", fname, humanize.IBytes(uint64(layout.Size)))
	fmt.Fprintf(out, "Program:  0x%06x-0x%06x, %d of %d bytes used\n", head.Offset, head.End(), inf.HeadUsed, head.Length)
	fmt.Fprintf(out, "DTB:      0x%06x-0x%06x, %d of %d bytes used\n", tail.Offset, tail.End(), inf.TailUsed, tail.Length)

	if inf.FDT == nil {
		fmt.Fprintln(out, "FDT:      no header found")
		return nil
	}

	fmt.Fprintf(out, "FDT:      version %d, %d bytes\n", inf.FDT.Version, inf.FDT.TotalSize)

	return nil
}
