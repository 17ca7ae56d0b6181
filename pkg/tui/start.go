package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
)

// Start runs the dashboard until the user quits or ctx is cancelled.
func Start(ctx context.Context, d Deps, version string) error {
	Version = version
	m := initialModel(ctx, d)
	defer d.Watcher.Unsubscribe(m.sub)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run dashboard")
	}
	return nil
}
