package tasks

import (
	"sync"
)

// Result outcome of a single spawned task
type Result struct {
	Name string
	Err  error
}

// Group collects independent units of work and joins them with
// best-effort semantics: a failing task never cancels its siblings.
// A Group is scoped to one pass and must not be reused after Join.
type Group struct {
	wg      sync.WaitGroup
	mu      sync.Mutex
	results []Result
}

// NewGroup creates an empty task group
func NewGroup() *Group {
	return &Group{}
}

// Spawn runs fn in its own goroutine and records its outcome under name
func (g *Group) Spawn(name string, fn func() error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		err := fn()
		g.mu.Lock()
		g.results = append(g.results, Result{Name: name, Err: err})
		g.mu.Unlock()
	}()
}

// Join waits for all spawned tasks and returns every outcome
func (g *Group) Join() []Result {
	g.wg.Wait()
	return g.results
}

// Failed returns only the failed outcomes
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
