/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

func newTestController(p *fakeProvider, categories, clues int) *Controller {
	return NewController(NewSampler(p, 100, noShuffle), NewLoader(p, clues, noShuffle), categories)
}

func TestPhase_CanRestart(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected bool
	}{
		{PhaseIdle, true},
		{PhaseLoading, false},
		{PhaseReady, true},
		{PhaseFailed, true},
	}

	for _, test := range tests {
		if result := test.phase.CanRestart(); result != test.expected {
			t.Errorf("Phase(%s).CanRestart() = %v, expected %v", test.phase, result, test.expected)
		}
	}
}

func TestControllerLifecycle(t *testing.T) {
	c := newTestController(catalog(8), 6, 5)

	if c.Phase() != PhaseIdle {
		t.Fatalf("expected idle controller, got %s", c.Phase())
	}

	ticket := c.Begin(context.Background())
	if c.Phase() != PhaseLoading {
		t.Fatalf("expected loading after Begin, got %s", c.Phase())
	}
	if ticket.Generation != 1 {
		t.Fatalf("expected generation 1, got %d", ticket.Generation)
	}

	if !c.Complete(c.Fetch(ticket)) {
		t.Fatal("expected current result to be applied")
	}
	if c.Phase() != PhaseReady {
		t.Fatalf("expected ready, got %s (err %v)", c.Phase(), c.Err())
	}

	b := c.Board()
	if b.Width() != 6 || b.Height() != 5 {
		t.Fatalf("expected 6x5 board, got %dx%d", b.Width(), b.Height())
	}
	if b.Generation() != 1 {
		t.Fatalf("expected board generation 1, got %d", b.Generation())
	}

	if err := c.Restart(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Board() == b {
		t.Fatal("restart reused the previous board")
	}
	if c.Board().Generation() != 2 {
		t.Fatalf("expected board generation 2, got %d", c.Board().Generation())
	}
}

func TestControllerKeepsSamplerOrder(t *testing.T) {
	p := catalog(4)
	p.delay["1"] = 60 * time.Millisecond
	p.delay["2"] = 40 * time.Millisecond
	p.delay["3"] = 20 * time.Millisecond

	c := newTestController(p, 4, 5)
	if err := c.Restart(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"CATEGORY 1", "CATEGORY 2", "CATEGORY 3", "CATEGORY 4"}
	if titles := c.Board().Titles(); !slices.Equal(titles, expected) {
		t.Fatalf("expected columns %v, got %v", expected, titles)
	}
}

func TestControllerSkipsIncompleteCategories(t *testing.T) {
	p := catalog(3)
	p.add("short", "short", 2)
	p.add("5", "category 5", 5)
	p.add("6", "category 6", 5)
	p.fetchErr["5"] = errTransport

	c := newTestController(p, 6, 5)
	if err := c.Restart(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Phase() != PhaseReady {
		t.Fatalf("expected ready, got %s", c.Phase())
	}

	expected := []string{"CATEGORY 1", "CATEGORY 2", "CATEGORY 3", "CATEGORY 6"}
	if titles := c.Board().Titles(); !slices.Equal(titles, expected) {
		t.Fatalf("expected columns %v, got %v", expected, titles)
	}

	skipped := c.Skipped()
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped categories, got %d", len(skipped))
	}
	for _, s := range skipped {
		if !errors.Is(s.Err, ErrCategoryIncomplete) {
			t.Errorf("skip %s: expected ErrCategoryIncomplete, got %v", s.ID, s.Err)
		}
	}

	for _, row := range c.View().Render().Rows {
		if len(row) != 4 {
			t.Fatalf("expected every row to have 4 cells, got %d", len(row))
		}
	}
}

func TestControllerFailsWhenNothingLoads(t *testing.T) {
	p := newFakeProvider()
	p.add("1", "tiny", 1)
	p.add("2", "tinier", 0)

	c := newTestController(p, 2, 5)
	err := c.Restart(context.Background())

	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if c.Phase() != PhaseFailed {
		t.Fatalf("expected failed, got %s", c.Phase())
	}
	if c.Board() != nil || c.View() != nil {
		t.Fatal("failed controller still holds a board")
	}
}

func TestControllerRecoversAfterSourceFailure(t *testing.T) {
	p := catalog(6)
	p.listErr = errTransport

	c := newTestController(p, 6, 5)
	if err := c.Restart(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if !c.Phase().CanRestart() {
		t.Fatal("failed controller must allow a retry")
	}

	p.listErr = nil
	if err := c.Restart(context.Background()); err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if c.Phase() != PhaseReady || c.Err() != nil {
		t.Fatalf("expected ready without error, got %s / %v", c.Phase(), c.Err())
	}
}

func TestControllerDiscardsStaleLoad(t *testing.T) {
	p := catalog(6)
	p.gate = make(chan struct{})

	c := newTestController(p, 6, 5)

	first := c.Begin(context.Background())
	firstDone := make(chan Result, 1)
	go func() { firstDone <- c.Fetch(first) }()

	second := c.Begin(context.Background())
	if first.Context().Err() == nil {
		t.Fatal("expected the superseded load to be cancelled")
	}

	secondDone := make(chan Result, 1)
	go func() { secondDone <- c.Fetch(second) }()

	close(p.gate)

	if !c.Complete(<-secondDone) {
		t.Fatal("expected the newest load to be applied")
	}

	board := c.Board()
	if _, err := board.Reveal(0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Complete(<-firstDone) {
		t.Fatal("stale load was applied")
	}
	if c.Board() != board {
		t.Fatal("stale load replaced the current board")
	}
	if cl, _ := board.Clue(0, 0); cl.State != Question {
		t.Fatalf("stale load reset cell state to %s", cl.State)
	}
	if c.Phase() != PhaseReady {
		t.Fatalf("expected ready, got %s", c.Phase())
	}
}

func TestControllerDiscardsStaleLoadWhileLoading(t *testing.T) {
	c := newTestController(catalog(6), 6, 5)

	first := c.Begin(context.Background())
	stale := c.Fetch(first)

	second := c.Begin(context.Background())

	if c.Complete(stale) {
		t.Fatal("stale load was applied")
	}
	if c.Phase() != PhaseLoading || c.Board() != nil {
		t.Fatalf("stale load changed controller state to %s", c.Phase())
	}

	if !c.Complete(c.Fetch(second)) {
		t.Fatal("expected the newest load to be applied")
	}
	if c.Board().Generation() != second.Generation {
		t.Fatalf("expected board generation %d, got %d", second.Generation, c.Board().Generation())
	}
}

func TestControllerStop(t *testing.T) {
	c := newTestController(catalog(6), 6, 5)

	ticket := c.Begin(context.Background())
	c.Stop()

	if ticket.Context().Err() == nil {
		t.Fatal("expected Stop to cancel the load")
	}
	if c.Complete(c.Fetch(ticket)) {
		t.Fatal("load finished after Stop was applied")
	}
	if c.Phase() != PhaseIdle {
		t.Fatalf("expected idle after Stop, got %s", c.Phase())
	}
}
