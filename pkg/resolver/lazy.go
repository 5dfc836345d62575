package resolver

import (
	"context"
	"sync"
)

// Lazy defers building a resolver until the first lookup. Runs that select
// no eligible package never contact the repository.
type Lazy struct {
	name  string
	build func(ctx context.Context) (Resolver, error)

	mu       sync.Mutex
	built    bool
	resolver Resolver
	err      error
}

// NewLazy returns a resolver that calls build once, on the first
// FindBestCandidate. name is reported until then. A build error is
// returned from every later lookup as well.
func NewLazy(name string, build func(ctx context.Context) (Resolver, error)) *Lazy {
	return &Lazy{name: name, build: build}
}

func (l *Lazy) get(ctx context.Context) (Resolver, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.built {
		l.resolver, l.err = l.build(ctx)
		l.built = true
	}
	return l.resolver, l.err
}

func (l *Lazy) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.resolver != nil {
		return l.resolver.Name()
	}
	return l.name
}

func (l *Lazy) FindBestCandidate(ctx context.Context, name string) (*Candidate, error) {
	r, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return r.FindBestCandidate(ctx, name)
}

// RecommendConstraint falls back to [RecommendedConstraint] when no lookup
// has happened yet.
func (l *Lazy) RecommendConstraint(c *Candidate) string {
	l.mu.Lock()
	r := l.resolver
	l.mu.Unlock()
	if r == nil {
		return RecommendedConstraint(c)
	}
	return r.RecommendConstraint(c)
}
