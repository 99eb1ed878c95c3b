package main

import (
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/usedbytes/mkreu/reu"
)

type extractParams struct {
	container  string
	programOut string
	dtbOut     string
	trim       bool
}

func extract(fs afero.Fs, logger log.Logger, layout reu.Layout, p extractParams) error {
	data, err := reu.ReadFile(fs, p.container)
	if err != nil {
		return err
	}

	head, tail, err := reu.Split(data, layout)
	if err != nil {
		return errors.Wrap(err, p.container)
	}

	if p.trim {
		head = reu.TrimZeros(head)
		tail = reu.DTB(tail)
	}

	for _, out := range []struct {
		name string
		data []byte
	}{
		{p.programOut, head},
		{p.dtbOut, tail},
	} {
		if err := reu.WriteFile(fs, out.name, out.data, nil); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "extracted", "file", out.name, "size", humanize.Bytes(uint64(len(out.data))))
	}

	return nil
}
