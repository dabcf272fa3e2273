// Package latest makes sure only the newest of several overlapping fetches
// gets to update what the user sees.
package latest

import (
	"context"
	"sync"
)

// Token identifies one fetch started with Guard.Begin.
type Token struct {
	gen uint64
	Ctx context.Context
}

// Guard hands out generation tokens. Starting a new fetch cancels the
// context of the previous one and makes its token stale.
type Guard struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Begin starts a new generation derived from parent.
func (g *Guard) Begin(parent context.Context) Token {
	ctx, cancel := context.WithCancel(parent)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	g.gen++
	g.cancel = cancel
	return Token{gen: g.gen, Ctx: ctx}
}

// Current reports whether t is the latest generation.
func (g *Guard) Current(t Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return t.gen == g.gen
}

// Apply runs fn if t is still current and reports whether it ran. fn runs
// under the guard's lock, so no newer Begin can interleave with it.
func (g *Guard) Apply(t Token, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t.gen != g.gen {
		return false
	}
	fn()
	return true
}

// Stop cancels the in-flight generation, if any.
func (g *Guard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.gen++
}
