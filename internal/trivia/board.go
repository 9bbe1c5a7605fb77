/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import "fmt"

// Board is the categories x clues matrix for one game generation.
// It is not safe for concurrent use; its owner serializes access.
type Board struct {
	generation uint64
	clues      int
	categories []Category
}

// Transition is the outcome of activating one cell.
type Transition struct {
	State   RevealState
	Text    string
	Changed bool
}

// NewBoard assembles a board whose every category has exactly clues clues.
// The categories are copied, so the caller's slices are not shared.
func NewBoard(generation uint64, clues int, categories []Category) (*Board, error) {
	if clues < 1 {
		return nil, fmt.Errorf("invalid clue count: %d", clues)
	}

	cats := make([]Category, len(categories))
	for i, c := range categories {
		if len(c.Clues) != clues {
			return nil, fmt.Errorf("%w: category %q has %d clues, board needs %d", ErrCategoryIncomplete, c.Title, len(c.Clues), clues)
		}

		cats[i] = Category{
			ID:    c.ID,
			Title: c.Title,
			Clues: append([]Clue(nil), c.Clues...),
		}
		for j := range cats[i].Clues {
			if cats[i].Clues[j].State == "" {
				cats[i].Clues[j].State = Hidden
			}
		}
	}

	return &Board{
		generation: generation,
		clues:      clues,
		categories: cats,
	}, nil
}

// Generation is the controller generation that built this board.
func (b *Board) Generation() uint64 {
	return b.generation
}

// Width is the number of categories.
func (b *Board) Width() int {
	return len(b.categories)
}

// Height is the number of clues per category.
func (b *Board) Height() int {
	return b.clues
}

// Titles returns the category titles in column order.
func (b *Board) Titles() []string {
	titles := make([]string, len(b.categories))
	for i, c := range b.categories {
		titles[i] = c.Title
	}
	return titles
}

// Clue returns a copy of the clue at (cat, clue).
func (b *Board) Clue(cat, clue int) (Clue, error) {
	if !b.inBounds(cat, clue) {
		return Clue{}, b.outOfBounds(cat, clue)
	}
	return b.categories[cat].Clues[clue], nil
}

// Reveal advances the clue at (cat, clue) one step: Hidden shows the
// question, Question shows the answer, and Answer stays put with
// Changed == false. No other cell is touched.
func (b *Board) Reveal(cat, clue int) (Transition, error) {
	if !b.inBounds(cat, clue) {
		return Transition{}, b.outOfBounds(cat, clue)
	}

	c := &b.categories[cat].Clues[clue]
	if c.State.IsTerminal() {
		return Transition{State: c.State, Text: c.Text()}, nil
	}

	c.State = c.State.Next()

	return Transition{
		State:   c.State,
		Text:    c.Text(),
		Changed: true,
	}, nil
}

func (b *Board) inBounds(cat, clue int) bool {
	return cat >= 0 && cat < len(b.categories) && clue >= 0 && clue < b.clues
}

func (b *Board) outOfBounds(cat, clue int) error {
	return fmt.Errorf("%w: (%d, %d) on a %dx%d board", ErrCellOutOfBounds, cat, clue, len(b.categories), b.clues)
}
