package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Run shows the form until the user quits or ctx is cancelled
func Run(ctx context.Context, model *Model, opts ...tea.ProgramOption) error {
	// Signals are handled by the caller and arrive as ctx cancellation
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithoutSignalHandler()}, opts...)
	program := tea.NewProgram(model, opts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		return programError(err)
	})

	g.Go(func() error {
		<-ctx.Done()
		model.logger.Info("Stopping form")
		program.Quit()
		return nil
	})

	return g.Wait()
}

// programError maps an interrupted program to a clean stop
func programError(err error) error {
	if err == nil || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return fmt.Errorf("running form: %w", err)
}
