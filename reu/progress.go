// SPDX-License-Identifier: MIT
// Copyright (c) 2021 Brian Starkey <stark3y@gmail.com>
package reu

type ProgressReport struct {
	Stage    string
	Progress int
	Max      int
}

func reportProgress(reportChan chan<- ProgressReport, stage string, progress int, max int) {
	if reportChan == nil {
		return
	}

	reportChan <- ProgressReport{
		Stage:    stage,
		Progress: progress,
		Max:      max,
	}
}
