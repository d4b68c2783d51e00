package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/bench"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/engine"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/printer"
	"github.com/katzezweii/smart-home-llm-multi-agent/internal/tui"
)

// runWithTUI runs a request with the live TUI. An empty input shows the
// request prompt first; otherwise the run starts immediately.
func runWithTUI(ctx context.Context, factory bench.SchedulerFactory, input string) (retErr error) {
	// Suppress log output while TUI is active (it corrupts the display)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	defer func() {
		if r := recover(); r != nil {
			retErr = printer.Error("TUI crashed", fmt.Sprintf("%v", r), nil)
		}
	}()

	app := tui.New(input)
	program := tui.NewProgram(app)

	runDone := make(chan error, 1)
	startRun := func(text string) {
		go func() {
			s := factory()
			go forwardEventsToTUI(program, s.Events())
			res, err := s.Run(ctx, text)
			program.Send(tui.RunDoneMsg{Result: res, Err: err})
			runDone <- err
		}()
	}
	app.SetSubmitHandler(startRun)
	if input != "" {
		startRun(input)
	}

	if _, err := program.Run(); err != nil {
		return printer.Error("TUI error", err.Error(), nil)
	}

	// The TUI stays open after the run so the user can read the result;
	// surface the run error, if any, once they quit.
	select {
	case err := <-runDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			return printer.Error("run failed", err.Error(), nil)
		}
		return nil
	default:
		// The user quit before the run finished, or never started one.
		return nil
	}
}

// forwardEventsToTUI converts engine events to TUI messages.
func forwardEventsToTUI(program *tea.Program, events <-chan engine.Event) {
	for e := range events {
		program.Send(tui.EngineEventMsg{Event: e})
	}
}
