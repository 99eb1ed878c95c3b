package main

import (
	"github.com/cheggaaa/pb"
	"github.com/spf13/afero"

	"github.com/usedbytes/mkreu/reu"
)

// showProgress draws one bar per stage until progress is closed.
func showProgress(progress <-chan reu.ProgressReport) {
	var bar *pb.ProgressBar
	stage := ""

	for r := range progress {
		if bar == nil || r.Stage != stage {
			if bar != nil {
				bar.Finish()
			}

			stage = r.Stage
			bar = pb.New(r.Max).SetUnits(pb.U_BYTES).Prefix(stage + " ")
			bar.Output = consoleOutput
			bar.Start()
		}
		bar.Set(r.Progress)
	}

	if bar != nil {
		bar.Finish()
	}
}

func writeFile(fs afero.Fs, name string, data []byte, withProgress bool) error {
	if !withProgress {
		return reu.WriteFile(fs, name, data, nil)
	}

	progress := make(chan reu.ProgressReport)
	errCh := make(chan error, 1)

	go func() {
		errCh <- reu.WriteFile(fs, name, data, progress)
	}()

	showProgress(progress)

	return <-errCh
}
