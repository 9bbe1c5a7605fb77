/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"context"
	"fmt"
)

// Sampler picks the categories for one board.
type Sampler struct {
	provider    Provider
	catalogSize int
	shuffle     ShuffleFunc
}

// NewSampler draws from the first catalogSize categories the provider lists.
// A nil shuffle uses math/rand/v2.
func NewSampler(provider Provider, catalogSize int, shuffle ShuffleFunc) *Sampler {
	return &Sampler{
		provider:    provider,
		catalogSize: catalogSize,
		shuffle:     defaultShuffle(shuffle),
	}
}

// Sample returns n distinct category IDs in random order.
//
// It never returns a short list: if the provider fails or lists fewer than n
// distinct IDs, the error wraps ErrSourceUnavailable.
func (s *Sampler) Sample(ctx context.Context, n int) ([]CategoryID, error) {
	if n < 1 {
		return nil, fmt.Errorf("invalid category count: %d", n)
	}

	count := max(s.catalogSize, n)

	ids, err := s.provider.ListCategoryIDs(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("%w: list categories: %w", ErrSourceUnavailable, err)
	}

	seen := make(map[CategoryID]bool, len(ids))
	distinct := make([]CategoryID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		distinct = append(distinct, id)
	}

	if len(distinct) < n {
		return nil, fmt.Errorf("%w: need %d categories, provider listed %d", ErrSourceUnavailable, n, len(distinct))
	}

	s.shuffle(len(distinct), func(i, j int) {
		distinct[i], distinct[j] = distinct[j], distinct[i]
	})

	return distinct[:n:n], nil
}
