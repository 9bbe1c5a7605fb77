/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"context"
	"fmt"
	"sync"
)

// Phase is where a Controller is in its load cycle.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

func (p Phase) String() string {
	return string(p)
}

// CanRestart reports whether restart controls should be enabled.
func (p Phase) CanRestart() bool {
	return p != PhaseLoading
}

// Ticket identifies one load. Only the newest ticket's result is applied.
type Ticket struct {
	Generation uint64

	ctx context.Context
}

// Context is cancelled once the ticket is superseded.
func (t Ticket) Context() context.Context {
	return t.ctx
}

// Skip records a sampled category that was left off the board.
type Skip struct {
	ID  CategoryID
	Err error
}

// Result is the outcome of Fetch, tagged with the ticket's generation.
type Result struct {
	Generation uint64
	Categories []Category
	Skipped    []Skip
	Err        error
}

// Controller owns the board for one game and drives the
// idle -> loading -> ready|failed -> loading cycle.
//
// Begin, Complete and the accessors must be called from a single goroutine.
// Fetch only reads immutable fields and may run anywhere.
type Controller struct {
	sampler    *Sampler
	loader     *Loader
	categories int

	phase      Phase
	generation uint64
	board      *Board
	view       *View
	err        error
	skipped    []Skip
	cancel     context.CancelFunc
}

// NewController builds boards of categories columns.
func NewController(sampler *Sampler, loader *Loader, categories int) *Controller {
	return &Controller{
		sampler:    sampler,
		loader:     loader,
		categories: categories,
		phase:      PhaseIdle,
	}
}

func (c *Controller) Phase() Phase { return c.phase }
func (c *Controller) Generation() uint64 { return c.generation }
func (c *Controller) Board() *Board { return c.board }
func (c *Controller) View() *View { return c.view }
func (c *Controller) Err() error { return c.err }
func (c *Controller) Skipped() []Skip { return c.skipped }
func (c *Controller) Categories() int { return c.categories }
func (c *Controller) CluesPerCategory() int { return c.loader.Clues() }

// Begin discards the current board and view, cancels any load still in
// flight and starts a new generation.
func (c *Controller) Begin(parent context.Context) Ticket {
	if c.cancel != nil {
		c.cancel()
	}

	ctx, cancel := context.WithCancel(parent)

	c.cancel = cancel
	c.generation++
	c.phase = PhaseLoading
	c.board = nil
	c.view = nil
	c.err = nil
	c.skipped = nil

	return Ticket{Generation: c.generation, ctx: ctx}
}

// Fetch samples categories and loads them concurrently. Columns keep the
// sampler's order whatever order the loads finish in; incomplete categories
// are reported in Skipped.
func (c *Controller) Fetch(t Ticket) Result {
	ctx := t.Context()

	ids, err := c.sampler.Sample(ctx, c.categories)
	if err != nil {
		return Result{Generation: t.Generation, Err: err}
	}

	loaded := make([]Category, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Go(func() {
			loaded[i], errs[i] = c.loader.Load(ctx, id)
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{Generation: t.Generation, Err: err}
	}

	res := Result{Generation: t.Generation}
	for i, id := range ids {
		if errs[i] != nil {
			res.Skipped = append(res.Skipped, Skip{ID: id, Err: errs[i]})
			continue
		}
		res.Categories = append(res.Categories, loaded[i])
	}

	return res
}

// Complete applies r if it belongs to the current generation and reports
// whether it did. Stale results are dropped untouched.
func (c *Controller) Complete(r Result) bool {
	if r.Generation != c.generation || c.phase != PhaseLoading {
		return false
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	c.skipped = r.Skipped

	switch {
	case r.Err != nil:
		c.fail(r.Err)
	case len(r.Categories) == 0:
		c.fail(fmt.Errorf("%w: all %d sampled categories were incomplete", ErrSourceUnavailable, len(r.Skipped)))
	default:
		board, err := NewBoard(r.Generation, c.loader.Clues(), r.Categories)
		if err != nil {
			c.fail(err)
			break
		}

		c.board = board
		c.view = NewView(board)
		c.phase = PhaseReady
	}

	return true
}

// Restart runs a whole load cycle synchronously and returns the failure,
// if any, that left the controller in PhaseFailed.
func (c *Controller) Restart(ctx context.Context) error {
	t := c.Begin(ctx)
	c.Complete(c.Fetch(t))

	return c.err
}

// Stop cancels any load in flight. Its result, if it still arrives, is ignored.
func (c *Controller) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	if c.phase == PhaseLoading {
		c.phase = PhaseIdle
	}
}

func (c *Controller) fail(err error) {
	c.phase = PhaseFailed
	c.err = err
	c.board = nil
	c.view = nil
}
