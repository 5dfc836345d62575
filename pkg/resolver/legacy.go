package resolver

import (
	"context"
	"errors"

	"github.com/matzehuels/bumper/pkg/integrations"
	"github.com/matzehuels/bumper/pkg/integrations/packagist"
)

// LegacyResolver resolves against the v1 metadata API. The PHP version to
// resolve for travels with each lookup; extensions are not checked.
type LegacyResolver struct {
	client  *packagist.Client
	php     string
	policy  Policy
	refresh bool
}

// NewLegacyResolver returns a v1 resolver for the given PHP version
// (empty means no php filtering).
func NewLegacyResolver(client *packagist.Client, php string, policy Policy, refresh bool) *LegacyResolver {
	return &LegacyResolver{client: client, php: php, policy: policy, refresh: refresh}
}

// Name returns "packagist-v1".
func (r *LegacyResolver) Name() string { return "packagist-v1" }

// FindBestCandidate looks name up for the resolver's PHP version.
func (r *LegacyResolver) FindBestCandidate(ctx context.Context, name string) (*Candidate, error) {
	return r.Lookup(ctx, name, r.php)
}

// Lookup returns the newest release of name whose php requirement accepts
// phpVersion.
func (r *LegacyResolver) Lookup(ctx context.Context, name, phpVersion string) (*Candidate, error) {
	versions, err := r.client.FetchLegacyVersions(ctx, name, r.refresh)
	if errors.Is(err, integrations.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return selectBest(name, versions, r.policy, func(require map[string]string) bool {
		constraint, ok := require["php"]
		return phpVersion == "" || !ok || satisfies(constraint, phpVersion)
	}), nil
}

// RecommendConstraint returns [RecommendedConstraint].
func (r *LegacyResolver) RecommendConstraint(c *Candidate) string {
	return RecommendedConstraint(c)
}

var _ Resolver = (*LegacyResolver)(nil)
