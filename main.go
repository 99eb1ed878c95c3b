// SPDX-License-Identifier: MIT
// Copyright (c) 2021 Brian Starkey <stark3y@gmail.com>
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/afero"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/usedbytes/mkreu/program"
	"github.com/usedbytes/mkreu/reu"
)

var version = "dev"

type config struct {
	verbose bool
	layout  reu.Layout
	build   buildParams
	info    struct {
		container string
	}
	extract extractParams
}

var cfg config

var (
	consoleOutput io.Writer = os.Stderr
	logger                  = log.NewLogfmtLogger(consoleOutput)
)

type commands struct {
	build   *kingpin.CmdClause
	info    *kingpin.CmdClause
	extract *kingpin.CmdClause
}

// newApp binds the command line to c. With no arguments it builds
// l2e_c64.reu from runq_semu.bin and minimal.dtb.
func newApp(name string, c *config) (*kingpin.Application, commands) {
	app := kingpin.New(name, "Pack a RISC-V program image and a device tree into a C64 REU image.").UsageWriter(os.Stdout)
	app.Version(version)
	app.HelpFlag.Short('h')
	app.Flag("verbose", "Enable verbose logging.").Short('v').Default("false").BoolVar(&c.verbose)
	app.Flag("size", "Total size of the REU image in bytes.").Default(strconv.Itoa(reu.Size)).IntVar(&c.layout.Size)
	app.Flag("tail-size", "Size of the device tree slot at the end of the image.").Default(strconv.Itoa(reu.DTBSize)).IntVar(&c.layout.TailSize)

	var cmds commands

	cmds.build = app.Command("build", "Build an REU image.").Default()
	cmds.build.Flag("program", "Program image.").Default("runq_semu.bin").StringVar(&c.build.program)
	cmds.build.Flag("format", "How to read the program image: bin takes it verbatim, elf flattens an ELF executable, auto picks by magic.").Default(string(program.FormatBin)).EnumVar(&c.build.format, program.Formats...)
	cmds.build.Flag("dtb", "Device tree blob.").Default("minimal.dtb").StringVar(&c.build.dtb)
	cmds.build.Flag("output", "REU image to write.").Short('o').Default("l2e_c64.reu").StringVar(&c.build.output)
	cmds.build.Flag("progress", "Show a progress bar while writing.").Default("false").BoolVar(&c.build.progress)

	cmds.info = app.Command("info", "Describe an REU image.")
	cmds.info.Arg("container", "REU image to inspect.").Required().StringVar(&c.info.container)

	cmds.extract = app.Command("extract", "Extract the program and device tree from an REU image.")
	cmds.extract.Arg("container", "REU image to read.").Required().StringVar(&c.extract.container)
	cmds.extract.Flag("program-out", "Where to write the program slot.").Default("program.bin").StringVar(&c.extract.programOut)
	cmds.extract.Flag("dtb-out", "Where to write the device tree slot.").Default("extracted.dtb").StringVar(&c.extract.dtbOut)
	cmds.extract.Flag("trim", "Strip trailing padding from the extracted slots.").Default("false").BoolVar(&c.extract.trim)

	return app, cmds
}

func main() {
	app, cmds := newApp(filepath.Base(os.Args[0]), &cfg)

	parsedCmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	if cfg.verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}

	fs := afero.NewOsFs()

	var err error
	switch parsedCmd {
	case cmds.build.FullCommand():
		err = build(fs, logger, cfg.layout, cfg.build)
	case cmds.info.FullCommand():
		err = info(fs, os.Stdout, cfg.layout, cfg.info.container)
	case cmds.extract.FullCommand():
		err = extract(fs, logger, cfg.layout, cfg.extract)
	default:
		level.Error(logger).Log("msg", "unknown command", "cmd", parsedCmd)
		err = fmt.Errorf("unknown command %q", parsedCmd)
	}

	os.Exit(checkError(err))
}

func checkError(err error) int {
	if err == nil {
		return 0
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
