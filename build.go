package main

import (
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/usedbytes/mkreu/program"
	"github.com/usedbytes/mkreu/reu"
)

type buildParams struct {
	program  string
	format   string
	dtb      string
	output   string
	progress bool
}

func build(fs afero.Fs, logger log.Logger, layout reu.Layout, p buildParams) error {
	img, err := program.Load(fs, p.program, program.Format(p.format), layout.Head().Length)
	if err != nil {
		return errors.Wrap(err, "load program image")
	}
	level.Debug(logger).Log("msg", "loaded program image", "file", p.program, "addr", img.Addr, "size", humanize.Bytes(uint64(img.Len())))

	dtb, err := program.LoadBin(fs, p.dtb, 0)
	if err != nil {
		return errors.Wrap(err, "load device tree")
	}
	level.Debug(logger).Log("msg", "loaded device tree", "file", p.dtb, "size", humanize.Bytes(uint64(dtb.Len())))

	// Any content is accepted, but a blob without a header is most likely
	// the wrong file.
	if _, err := reu.ParseFDTHeader(dtb.Data); err != nil {
		level.Warn(logger).Log("msg", "device tree blob has no FDT header", "file", p.dtb, "err", err)
	}

	container, err := reu.Assemble(img.Data, dtb.Data, layout)
	if err != nil {
		return errors.Wrap(err, "assemble")
	}

	if err := writeFile(fs, p.output, container, p.progress); err != nil {
		return err
	}

	level.Info(logger).Log(
		"msg", "wrote REU image",
		"file", p.output,
		"size", humanize.IBytes(uint64(len(container))),
		"program", humanize.Bytes(uint64(img.Len())),
		"dtb", humanize.Bytes(uint64(dtb.Len())),
	)

	return nil
}
