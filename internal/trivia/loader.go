/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"context"
	"fmt"
	"strings"
)

// Loader turns one category ID into a board column.
type Loader struct {
	provider Provider
	clues    int
	shuffle  ShuffleFunc
}

// NewLoader builds categories of exactly clues clues each.
// A nil shuffle uses math/rand/v2.
func NewLoader(provider Provider, clues int, shuffle ShuffleFunc) *Loader {
	return &Loader{
		provider: provider,
		clues:    clues,
		shuffle:  defaultShuffle(shuffle),
	}
}

// Clues is the number of clues every loaded category carries.
func (l *Loader) Clues() int {
	return l.clues
}

// Load fetches id, drops blank clues, uppercases the text and keeps a random
// subset of exactly l.Clues() clues, all Hidden.
//
// Any failure wraps ErrCategoryIncomplete; callers leave the category out
// rather than pad it.
func (l *Loader) Load(ctx context.Context, id CategoryID) (Category, error) {
	raw, err := l.provider.FetchCategory(ctx, id)
	if err != nil {
		return Category{}, fmt.Errorf("%w: category %s: %w", ErrCategoryIncomplete, id, err)
	}

	clues := make([]Clue, 0, len(raw.Clues))
	for _, rc := range raw.Clues {
		q := normalize(rc.Question)
		a := normalize(rc.Answer)
		if q == "" || a == "" {
			continue
		}

		clues = append(clues, Clue{
			Question: q,
			Answer:   a,
			State:    Hidden,
		})
	}

	if len(clues) < l.clues {
		return Category{}, fmt.Errorf("%w: category %s has %d usable clues, need %d", ErrCategoryIncomplete, id, len(clues), l.clues)
	}

	l.shuffle(len(clues), func(i, j int) {
		clues[i], clues[j] = clues[j], clues[i]
	})

	return Category{
		ID:    id,
		Title: normalize(raw.Title),
		Clues: clues[:l.clues:l.clues],
	}, nil
}

func normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
