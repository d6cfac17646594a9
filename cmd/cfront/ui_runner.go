package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cfront/internal/driver"
	"cfront/internal/source"
	"cfront/internal/ui"
)

type parseDirOutcome struct {
	fileSet *source.FileSet
	results []driver.ParseDirResult
	err     error
}

// runParseDirWithUI parses dir the same way driver.ParseDir does, but drives
// a bubbletea progress view off the run's progress events instead of
// returning silently until everything finishes.
func runParseDirWithUI(ctx context.Context, title, dir string, opts driver.Options, jobs int, files []string) (*source.FileSet, []driver.ParseDirResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan parseDirOutcome, 1)

	go func() {
		fs, results, err := driver.ParseDir(ctx, dir, opts, jobs, driver.ChannelSink{Ch: events})
		outcomeCh <- parseDirOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
