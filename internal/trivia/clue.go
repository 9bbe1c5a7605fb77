/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

// RevealState is how far a clue has been uncovered.
type RevealState string

const (
	Hidden   RevealState = "hidden"
	Question RevealState = "question"
	Answer   RevealState = "answer"
)

func (s RevealState) String() string {
	return string(s)
}

// Next returns the state reached by one activation. Answer is terminal.
func (s RevealState) Next() RevealState {
	switch s {
	case Question, Answer:
		return Answer
	default:
		return Question
	}
}

// IsTerminal reports whether further activations are no-ops.
func (s RevealState) IsTerminal() bool {
	return s == Answer
}

// CategoryID is an opaque provider token for one category.
type CategoryID string

// Clue is one question/answer pair with its own reveal state.
type Clue struct {
	Question string      `json:"question"`
	Answer   string      `json:"answer"`
	State    RevealState `json:"state"`
}

// Text is what the clue currently shows, or "" while hidden.
func (c Clue) Text() string {
	switch c.State {
	case Question:
		return c.Question
	case Answer:
		return c.Answer
	default:
		return ""
	}
}

// Category is one column of the board.
type Category struct {
	ID    CategoryID `json:"id"`
	Title string     `json:"title"`
	Clues []Clue     `json:"clues"`
}

// RawClue is a clue as the provider returns it, before normalization.
type RawClue struct {
	Question string
	Answer   string
}

// RawCategory is a category as the provider returns it.
type RawCategory struct {
	Title string
	Clues []RawClue
}
