/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"fmt"
	"strconv"
	"strings"
)

// Placeholder is shown in cells that have not been revealed yet.
const Placeholder = "?"

// Cell is one rendered grid cell.
type Cell struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Grid is a rendered board: a header row of titles and Rows[clue][category].
type Grid struct {
	Titles []string `json:"titles"`
	Rows   [][]Cell `json:"rows"`
}

// View projects a Board for display. It holds no reveal state of its own,
// so it can be dropped and rebuilt at any time.
type View struct {
	board *Board
}

func NewView(board *Board) *View {
	return &View{board: board}
}

// Render returns the whole grid.
func (v *View) Render() Grid {
	grid := Grid{
		Titles: v.board.Titles(),
		Rows:   make([][]Cell, v.board.Height()),
	}

	for clue := range grid.Rows {
		row := make([]Cell, v.board.Width())
		for cat := range row {
			c, _ := v.board.Clue(cat, clue)
			row[cat] = Cell{ID: CellID(cat, clue), Text: display(c)}
		}
		grid.Rows[clue] = row
	}

	return grid
}

// Activate reveals the cell named by token. changed is false when the cell
// was already showing its answer, in which case nothing should be redrawn.
func (v *View) Activate(token string) (cell Cell, changed bool, err error) {
	cat, clue, err := ParseCellID(token)
	if err != nil {
		return Cell{}, false, err
	}

	t, err := v.board.Reveal(cat, clue)
	if err != nil {
		return Cell{}, false, err
	}

	return Cell{ID: CellID(cat, clue), Text: t.Text}, t.Changed, nil
}

// CellID formats a cell address as "<category>-<clue>".
func CellID(cat, clue int) string {
	return strconv.Itoa(cat) + "-" + strconv.Itoa(clue)
}

// ParseCellID is the inverse of CellID. Anything that is not two
// non-negative integers joined by "-" is ErrCellOutOfBounds.
func ParseCellID(token string) (cat, clue int, err error) {
	left, right, ok := strings.Cut(token, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: malformed cell %q", ErrCellOutOfBounds, token)
	}

	cat, err = parseIndex(left)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: malformed cell %q", ErrCellOutOfBounds, token)
	}

	clue, err = parseIndex(right)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: malformed cell %q", ErrCellOutOfBounds, token)
	}

	return cat, clue, nil
}

func parseIndex(s string) (int, error) {
	if s == "" || strings.ContainsAny(s, "+-") {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s)
}

func display(c Clue) string {
	if c.State == Hidden {
		return Placeholder
	}
	return c.Text()
}
