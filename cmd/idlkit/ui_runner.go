package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"idlkit/internal/ui"
)

// runWorkspaceWithUI runs build in the background and shows its events in
// the progress view. Quitting the view cancels the build.
func runWorkspaceWithUI(ctx context.Context, title string, programs []string, build func(ctx context.Context, sink ui.Sink) []programOutcome) ([]programOutcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan ui.Event, 256)
	outcomeCh := make(chan []programOutcome, 1)

	go func() {
		res := build(ctx, ui.ChannelSink{Ch: events})
		outcomeCh <- res
		close(events)
	}()

	model := ui.NewProgressModel(title, programs, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	cancel()
	// дочитываем события, чтобы сборка не встала на полном канале
	for range events {
	}
	outcome := <-outcomeCh
	return outcome, uiErr
}
