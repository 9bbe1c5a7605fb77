/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"context"
	"math/rand/v2"
)

// Provider is the remote question bank.
type Provider interface {
	// ListCategoryIDs returns up to count category IDs. Returning fewer than
	// requested is not an error; only transport failures are.
	ListCategoryIDs(ctx context.Context, count int) ([]CategoryID, error)

	// FetchCategory returns the title and every clue the provider has for id.
	FetchCategory(ctx context.Context, id CategoryID) (RawCategory, error)
}

// ShuffleFunc permutes n elements through swap, like rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

func defaultShuffle(shuffle ShuffleFunc) ShuffleFunc {
	if shuffle == nil {
		return rand.Shuffle
	}
	return shuffle
}
