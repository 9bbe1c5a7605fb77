/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Seednode/jeopardy/internal/trivia"
)

const (
	defaultColumnWidth = 18
	minColumnWidth     = 10
	maxColumnWidth     = 30
)

var (
	clrBoard = lipgloss.Color("#060ce9")
	clrGold  = lipgloss.Color("#ffcc00")
	clrWhite = lipgloss.Color("#ffffff")
	clrRed   = lipgloss.Color("#f85149")
	clrDim   = lipgloss.Color("#8b949e")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(clrGold).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(clrWhite).Background(clrBoard).Align(lipgloss.Center, lipgloss.Center).Height(2).MarginRight(1)
	cellStyle   = lipgloss.NewStyle().Foreground(clrGold).Background(clrBoard).Align(lipgloss.Center, lipgloss.Center).Height(3).MarginRight(1).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(clrRed)
	helpStyle   = lipgloss.NewStyle().Foreground(clrDim).MarginTop(1)
)

// loadedMsg delivers a finished board load back to the Update loop.
type loadedMsg struct {
	result trivia.Result
}

type playModel struct {
	ctx     context.Context
	cfg     *Config
	game    *trivia.Controller
	spinner spinner.Model

	cat    int
	clue   int
	width  int
	notice string
}

func newPlayModel(ctx context.Context, cfg *Config, game *trivia.Controller) playModel {
	return playModel{
		ctx:  ctx,
		cfg:  cfg,
		game: game,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(clrGold)),
		),
	}
}

func (m playModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// restart begins a new board and returns the command that loads it, or nil
// while a load is already running.
func (m *playModel) restart() tea.Cmd {
	if !m.game.Phase().CanRestart() {
		return nil
	}

	ticket := m.game.Begin(m.ctx)
	m.cat, m.clue = 0, 0
	m.notice = ""

	logf(m.cfg, "GAMES: Loading board %d", ticket.Generation)

	game := m.game
	return func() tea.Msg {
		return loadedMsg{result: game.Fetch(ticket)}
	}
}

func (m *playModel) loaded(res trivia.Result) {
	if !m.game.Complete(res) {
		logf(m.cfg, "GAMES: Discarded stale board %d", res.Generation)
		return
	}

	for _, s := range m.game.Skipped() {
		logf(m.cfg, "GAMES: Left category %s off board %d: %v", s.ID, res.Generation, s.Err)
	}

	if n := len(m.game.Skipped()); n > 0 && m.game.Phase() == trivia.PhaseReady {
		m.notice = fmt.Sprintf("%d categories could not be loaded and were left off.", n)
	}
}

func (m *playModel) activate() {
	view := m.game.View()
	if view == nil {
		return
	}

	if _, _, err := view.Activate(trivia.CellID(m.cat, m.clue)); err != nil {
		logf(m.cfg, "GAMES: Ignored activation: %v", err)
	}
}

func (m *playModel) move(dCat, dClue int) {
	board := m.game.Board()
	if board == nil {
		return
	}

	m.cat = min(max(m.cat+dCat, 0), board.Width()-1)
	m.clue = min(max(m.clue+dClue, 0), board.Height()-1)
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.game.Stop()
			return m, tea.Quit
		case "r":
			return m, m.restart()
		case "up", "k":
			m.move(0, -1)
		case "down", "j":
			m.move(0, 1)
		case "left", "h":
			m.move(-1, 0)
		case "right", "l":
			m.move(1, 0)
		case "enter", " ", "space":
			m.activate()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case loadedMsg:
		m.loaded(msg.result)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m playModel) columnWidth(columns int) int {
	if m.width <= 0 || columns == 0 {
		return defaultColumnWidth
	}

	return min(max(m.width/columns-1, minColumnWidth), maxColumnWidth)
}

func (m playModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("JEOPARDY!"))
	b.WriteString("\n")

	switch m.game.Phase() {
	case trivia.PhaseIdle:
		b.WriteString("Press r to load a board.")
	case trivia.PhaseLoading:
		b.WriteString(m.spinner.View() + " Loading categories...")
	case trivia.PhaseFailed:
		msg := "Could not load a board."
		if errors.Is(m.game.Err(), trivia.ErrSourceUnavailable) {
			msg = "The trivia service is unavailable right now."
		}
		b.WriteString(errorStyle.Render(msg + " Press r to try again."))
	case trivia.PhaseReady:
		b.WriteString(m.renderGrid(m.game.View().Render()))
		if m.notice != "" {
			b.WriteString("\n" + errorStyle.Render(m.notice))
		}
	}

	b.WriteString(helpStyle.Render("arrows/hjkl move • enter reveal • r new board • q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m playModel) renderGrid(grid trivia.Grid) string {
	width := m.columnWidth(len(grid.Titles))

	headers := make([]string, len(grid.Titles))
	for i, title := range grid.Titles {
		headers[i] = headerStyle.Width(width).Render(title)
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, headers...)}
	for clue, row := range grid.Rows {
		cells := make([]string, len(row))
		for cat, cell := range row {
			style := cellStyle.Width(width)
			if cell.Text != trivia.Placeholder {
				style = style.Foreground(clrWhite)
			}
			if cat == m.cat && clue == m.clue {
				style = style.Reverse(true)
			}
			cells[cat] = style.Render(cell.Text)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// playTerminal runs the board in the terminal until the user quits.
func playTerminal(ctx context.Context, cfg *Config, in io.Reader, out io.Writer) error {
	if cfg.verbose {
		f, err := os.OpenFile("jeopardy.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()

		setLogOutput(f)
	} else {
		setLogOutput(io.Discard)
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	m := newPlayModel(ctx, cfg, newController(cfg, provider))
	first := m.restart()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)

	go func() {
		p.Send(first())
	}()

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

func newPlayCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a board in the terminal.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return playTerminal(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
