/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var errTransport = errors.New("connection refused")

// fakeProvider serves categories from memory. A non-nil gate makes every
// FetchCategory wait until the gate is closed.
type fakeProvider struct {
	mu sync.Mutex

	ids        []CategoryID
	categories map[CategoryID]RawCategory
	listErr    error
	fetchErr   map[CategoryID]error
	delay      map[CategoryID]time.Duration
	gate       chan struct{}
	fetched    []CategoryID
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		categories: make(map[CategoryID]RawCategory),
		fetchErr:   make(map[CategoryID]error),
		delay:      make(map[CategoryID]time.Duration),
	}
}

func (p *fakeProvider) add(id CategoryID, title string, clues int) {
	raw := RawCategory{Title: title}
	for i := range clues {
		raw.Clues = append(raw.Clues, RawClue{
			Question: fmt.Sprintf("%s question %d", title, i),
			Answer:   fmt.Sprintf("%s answer %d", title, i),
		})
	}
	p.addRaw(id, raw)
}

func (p *fakeProvider) addRaw(id CategoryID, raw RawCategory) {
	p.ids = append(p.ids, id)
	p.categories[id] = raw
}

func (p *fakeProvider) ListCategoryIDs(_ context.Context, count int) ([]CategoryID, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	if count > len(p.ids) {
		count = len(p.ids)
	}
	return append([]CategoryID(nil), p.ids[:count]...), nil
}

func (p *fakeProvider) FetchCategory(_ context.Context, id CategoryID) (RawCategory, error) {
	if p.gate != nil {
		<-p.gate
	}
	if d := p.delay[id]; d > 0 {
		time.Sleep(d)
	}

	p.mu.Lock()
	p.fetched = append(p.fetched, id)
	p.mu.Unlock()

	if err := p.fetchErr[id]; err != nil {
		return RawCategory{}, err
	}
	raw, ok := p.categories[id]
	if !ok {
		return RawCategory{}, fmt.Errorf("no category %s", id)
	}
	return raw, nil
}

// noShuffle keeps provider order so tests can predict columns and clues.
func noShuffle(int, func(i, j int)) {}

// reverseShuffle is deterministic but not the identity.
func reverseShuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}
