package update

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bumper/pkg/manifest"
	"github.com/matzehuels/bumper/pkg/observability"
	"github.com/matzehuels/bumper/pkg/resolver"
	"github.com/matzehuels/bumper/pkg/selector"
)

// Decision raises the constraint of one dependency.
type Decision struct {
	Section manifest.Section
	Package string
	From    string
	To      string
}

// Dev reports whether the dependency is a development dependency.
func (d Decision) Dev() bool { return d.Section.Dev() }

func (d Decision) String() string {
	return fmt.Sprintf("%s %s: %s -> %s", d.Section, d.Package, d.From, d.To)
}

// Engine computes update decisions with a single resolver.
type Engine struct {
	resolver resolver.Resolver
	logger   *log.Logger
}

// NewEngine returns an engine asking r for candidates. A nil logger
// discards log output.
func NewEngine(r resolver.Resolver, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{resolver: r, logger: logger}
}

// Compute returns the decisions for m restricted to masks, in declaration
// order (require before require-dev). A resolver error aborts the run.
func (e *Engine) Compute(ctx context.Context, m *manifest.Manifest, masks selector.Masks) ([]Decision, error) {
	var decisions []Decision
	for _, section := range manifest.Sections() {
		for _, dep := range m.Dependencies(section) {
			d, ok, err := e.decide(ctx, section, dep, masks)
			if err != nil {
				return nil, err
			}
			if ok {
				decisions = append(decisions, d)
			}
		}
	}
	return decisions, nil
}

func (e *Engine) decide(ctx context.Context, section manifest.Section, dep manifest.Dependency, masks selector.Masks) (Decision, bool, error) {
	skip := func(reason string) (Decision, bool, error) {
		e.logger.Debug("skip", "package", dep.Name, "section", section, "reason", reason)
		return Decision{}, false, nil
	}

	switch {
	case manifest.IsPlatformPackage(dep.Name):
		return skip("platform package")
	case !masks.Matches(dep.Name):
		return skip("not selected")
	case manifest.IsDevConstraint(dep.Constraint):
		return skip("dev branch")
	}

	if err := ctx.Err(); err != nil {
		return Decision{}, false, err
	}
	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, e.resolver.Name(), dep.Name)
	start := time.Now()
	c, err := e.resolver.FindBestCandidate(ctx, dep.Name)
	var version string
	if c != nil {
		version = c.Version
	}
	hooks.OnResolveComplete(ctx, e.resolver.Name(), dep.Name, version, time.Since(start), err)
	if err != nil {
		return Decision{}, false, fmt.Errorf("resolve %s: %w", dep.Name, err)
	}
	if c == nil {
		return skip("no candidate")
	}
	if dep.Constraint == c.Version || dep.Constraint == strings.TrimPrefix(c.Version, "v") {
		return skip("pinned to " + c.Version)
	}
	if c.Below(dep.Constraint) {
		return skip("candidate " + c.Version + " is below " + dep.Constraint)
	}

	to := e.resolver.RecommendConstraint(c)
	if to == dep.Constraint {
		return skip("up to date")
	}
	hooks.OnDecision(ctx, dep.Name, dep.Constraint, to)
	e.logger.Debug("update", "package", dep.Name, "section", section, "from", dep.Constraint, "to", to)
	return Decision{Section: section, Package: dep.Name, From: dep.Constraint, To: to}, true, nil
}
