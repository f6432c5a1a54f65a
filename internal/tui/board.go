package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rreidmcg/guildfit/internal/engine"
)

// RunBoard starts the interactive daily quest board for one user.
func RunBoard(ctx context.Context, svc *engine.Service, userID string) error {
	p := tea.NewProgram(newBoardModel(ctx, svc, userID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
